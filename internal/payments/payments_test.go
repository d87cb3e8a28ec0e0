package payments

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevadhara/console/internal/resource"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/upstream"
)

func TestSellerPaymentFormRoundTrip(t *testing.T) {
	d := SellerDescriptor()
	form := url.Values{"SellerName": {"Ganesh"}, "Amount": {"1500.5"}, "PaymentMode": {"UPI"}, "PaymentDate": {"2024-04-30"}}
	p := d.Bind(form)
	assert.Equal(t, "Ganesh", p.SellerName)
	assert.Equal(t, 1500.5, p.Amount)
	assert.Equal(t, "1500.5", d.Values(p).Get("Amount"))
	assert.Equal(t, []string{"2024-04-30", "Ganesh", "", "UPI", "1500.50", ""}, d.Row(p))
}

func TestPaymentValidation(t *testing.T) {
	svc := resource.NewService(DairyDescriptor(), upstream.NewClient("http://127.0.0.1:0"), nil)
	fields := shared.FieldErrors(svc.Validate(DairyPayment{BuyerName: "Ramesh", Amount: -5, PaymentMode: "Barter", PaymentDate: "2024-04-30"}))
	assert.Equal(t, "must be greater than 0", fields["Amount"])
	assert.Equal(t, "must be one of Cash, UPI, Bank, Cheque", fields["PaymentMode"])

	p := DairyPayment{BuyerName: "Ramesh", Amount: 100, PaymentMode: "Cash"}
	DairyDescriptor().Prepare(&p)
	assert.NotEmpty(t, p.PaymentDate)
	assert.NoError(t, svc.Validate(p))
}
