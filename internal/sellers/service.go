package sellers

import (
	"context"
	"errors"
	"time"

	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/resource"
)

// ErrNothingDue is returned when the seller has no balance to remind about.
var ErrNothingDue = errors.New("sellers: no outstanding amount")

// Service adds WhatsApp reminders to the seller screen.
type Service struct {
	*resource.Service[Seller]
	dispatcher *notify.Dispatcher
	org        string
	now        func() time.Time
}

// NewService wires the sellers service. dispatcher may be nil.
func NewService(screen *resource.Service[Seller], dispatcher *notify.Dispatcher, org string) *Service {
	return &Service{Service: screen, dispatcher: dispatcher, org: org, now: time.Now}
}

// Remind sends the stored outstanding balance to the seller.
func (s *Service) Remind(ctx context.Context, id string) (Seller, error) {
	if s.dispatcher == nil {
		return Seller{}, errors.New("sellers: whatsapp not configured")
	}
	seller, err := s.Get(ctx, id)
	if err != nil {
		return Seller{}, err
	}
	if seller.OutstandingAmount <= 0 {
		return seller, ErrNothingDue
	}
	n := notify.Notification{Phone: seller.MobileNumber, Text: notify.OutstandingReminder(s.org, seller.FullName, seller.OutstandingAmount)}
	return seller, s.dispatcher.Dispatch(ctx, n, "remind:seller:"+id+":"+s.now().Format("20060102"))
}
