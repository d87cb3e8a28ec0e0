package receipts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/resource"
)

// ErrPDFUnavailable is returned when no PDF engine is configured.
var ErrPDFUnavailable = errors.New("receipts: pdf engine not configured")

// Service is one receipt screen plus the shared PDF and WhatsApp pipeline.
type Service struct {
	*resource.Service[Receipt]
	renderer   *Renderer
	dispatcher *notify.Dispatcher
	org        string
	logger     *slog.Logger
}

// NewService wires a receipt screen. renderer and dispatcher may be nil.
func NewService(screen *resource.Service[Receipt], renderer *Renderer, dispatcher *notify.Dispatcher, org string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Service: screen, renderer: renderer, dispatcher: dispatcher, org: org, logger: logger}
}

// PDF renders receipt id.
func (s *Service) PDF(ctx context.Context, id string) (Receipt, []byte, error) {
	if s.renderer == nil {
		return Receipt{}, nil, ErrPDFUnavailable
	}
	rc, err := s.Get(ctx, id)
	if err != nil {
		return Receipt{}, nil, err
	}
	pdf, err := s.renderer.PDF(ctx, s.Descriptor().Singular, rc)
	if err != nil {
		return rc, nil, err
	}
	return rc, pdf, nil
}

// Send delivers the receipt over WhatsApp: the PDF with a summary caption,
// or the summary alone when the PDF cannot be produced.
func (s *Service) Send(ctx context.Context, id string) (Receipt, error) {
	if s.dispatcher == nil {
		return Receipt{}, errors.New("receipts: whatsapp not configured")
	}
	rc, err := s.Get(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	caption := Summary(s.org, rc)
	n := notify.Notification{Phone: rc.MobileNumber, Text: caption}
	if s.renderer != nil {
		pdf, err := s.renderer.PDF(ctx, s.Descriptor().Singular, rc)
		if err != nil {
			s.logger.Warn("receipt pdf unavailable, sending text", slog.String("receipt", id), slog.Any("error", err))
		} else {
			n.Document = &notify.Document{Caption: caption, FileName: FileName(rc), Content: pdf}
		}
	}
	if err := s.dispatcher.Dispatch(ctx, n, "receipt:"+s.Slug()+":"+id); err != nil {
		return rc, err
	}
	return rc, nil
}
