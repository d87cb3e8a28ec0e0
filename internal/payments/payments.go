// Package payments describes the seller payment and dairy (buyer) payment
// screens.
package payments

import (
	"net/url"
	"time"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/resource"
	"github.com/sevadhara/console/internal/shared"
)

// Payment is the shared shape of both payment ledgers. Party holds the
// seller or buyer name; the JSON name differs per ledger.
type Payment struct {
	ID           string
	Party        string
	MobileNumber string
	Amount       float64
	PaymentMode  string
	PaymentDate  string
	Remarks      string
}

// SellerPayment is money paid to a milk seller.
type SellerPayment struct {
	ID           string  `json:"_id,omitempty"`
	SellerName   string  `json:"SellerName" validate:"required"`
	MobileNumber string  `json:"MobileNumber,omitempty" validate:"omitempty,mobile"`
	Amount       float64 `json:"Amount" validate:"gt=0"`
	PaymentMode  string  `json:"PaymentMode" validate:"required,oneof=Cash UPI Bank Cheque"`
	PaymentDate  string  `json:"PaymentDate" validate:"required,date"`
	Remarks      string  `json:"Remarks,omitempty" validate:"max=250"`
}

// DairyPayment is money received from a milk buyer.
type DairyPayment struct {
	ID           string  `json:"_id,omitempty"`
	BuyerName    string  `json:"BuyerName" validate:"required"`
	MobileNumber string  `json:"MobileNumber,omitempty" validate:"omitempty,mobile"`
	Amount       float64 `json:"Amount" validate:"gt=0"`
	PaymentMode  string  `json:"PaymentMode" validate:"required,oneof=Cash UPI Bank Cheque"`
	PaymentDate  string  `json:"PaymentDate" validate:"required,date"`
	Remarks      string  `json:"Remarks,omitempty" validate:"max=250"`
}

func columns(party string) []export.Column {
	return []export.Column{
		{Header: "Date", Width: 12},
		{Header: party, Width: 28, MaxLen: 36},
		{Header: "Mobile", Width: 14},
		{Header: "Mode", Width: 10},
		{Header: "Amount", Width: 14, Numeric: true},
		{Header: "Remarks", Width: 30, MaxLen: 40},
	}
}

func fields(partyField, partyLabel string) []resource.Field {
	return []resource.Field{
		{Name: "PaymentDate", Label: "Date", Type: "date", Required: true},
		{Name: partyField, Label: partyLabel, Required: true},
		{Name: "MobileNumber", Label: "Mobile number", Type: "tel"},
		{Name: "Amount", Label: "Amount (₹)", Type: "number", Step: "0.01", Required: true},
		{Name: "PaymentMode", Label: "Payment mode", Type: "select", Options: resource.PaymentModes, Required: true},
		{Name: "Remarks", Label: "Remarks", Type: "textarea"},
	}
}

func bindPayment(v url.Values, partyField string) Payment {
	return Payment{
		Party:        resource.FormString(v, partyField),
		MobileNumber: resource.FormString(v, "MobileNumber"),
		Amount:       resource.FormFloat(v, "Amount"),
		PaymentMode:  resource.FormString(v, "PaymentMode"),
		PaymentDate:  resource.FormString(v, "PaymentDate"),
		Remarks:      resource.FormString(v, "Remarks"),
	}
}

func (p Payment) values(partyField string) url.Values {
	return url.Values{
		partyField:     {p.Party},
		"MobileNumber": {p.MobileNumber},
		"Amount":       {resource.Num(p.Amount)},
		"PaymentMode":  {p.PaymentMode},
		"PaymentDate":  {p.PaymentDate},
		"Remarks":      {p.Remarks},
	}
}

func (p Payment) row() []string {
	return []string{p.PaymentDate, p.Party, p.MobileNumber, p.PaymentMode, resource.Money(p.Amount), p.Remarks}
}

func today() string { return time.Now().Format(shared.DateLayout) }

func (s SellerPayment) payment() Payment {
	return Payment{s.ID, s.SellerName, s.MobileNumber, s.Amount, s.PaymentMode, s.PaymentDate, s.Remarks}
}

func (d DairyPayment) payment() Payment {
	return Payment{d.ID, d.BuyerName, d.MobileNumber, d.Amount, d.PaymentMode, d.PaymentDate, d.Remarks}
}

// SellerDescriptor describes the seller payments screen.
func SellerDescriptor() *resource.Descriptor[SellerPayment] {
	return &resource.Descriptor[SellerPayment]{
		Slug:       "seller-payments",
		Title:      "Seller Payments",
		Singular:   "Seller Payment",
		BasePath:   "/payments/seller",
		Endpoint:   "/api/sellerpayments",
		ExportName: "Seller_Payments",
		ID:         func(s SellerPayment) string { return s.ID },
		Search:     func(s SellerPayment) []string { return []string{s.SellerName, s.MobileNumber, s.PaymentMode} },
		Columns:    columns("Seller"),
		Row:        func(s SellerPayment) []string { return s.payment().row() },
		Fields:     fields("SellerName", "Seller"),
		Bind: func(v url.Values) SellerPayment {
			p := bindPayment(v, "SellerName")
			return SellerPayment{SellerName: p.Party, MobileNumber: p.MobileNumber, Amount: p.Amount, PaymentMode: p.PaymentMode, PaymentDate: p.PaymentDate, Remarks: p.Remarks}
		},
		Values: func(s SellerPayment) url.Values { return s.payment().values("SellerName") },
		Prepare: func(s *SellerPayment) {
			if s.PaymentDate == "" {
				s.PaymentDate = today()
			}
		},
	}
}

// DairyDescriptor describes the dairy (buyer) payments screen.
func DairyDescriptor() *resource.Descriptor[DairyPayment] {
	return &resource.Descriptor[DairyPayment]{
		Slug:       "dairy-payments",
		Title:      "Dairy Payments",
		Singular:   "Dairy Payment",
		BasePath:   "/payments/dairy",
		Endpoint:   "/api/dairy-payment",
		ExportName: "Dairy_Payments",
		ID:         func(d DairyPayment) string { return d.ID },
		Search:     func(d DairyPayment) []string { return []string{d.BuyerName, d.MobileNumber, d.PaymentMode} },
		Columns:    columns("Buyer"),
		Row:        func(d DairyPayment) []string { return d.payment().row() },
		Fields:     fields("BuyerName", "Buyer"),
		Bind: func(v url.Values) DairyPayment {
			p := bindPayment(v, "BuyerName")
			return DairyPayment{BuyerName: p.Party, MobileNumber: p.MobileNumber, Amount: p.Amount, PaymentMode: p.PaymentMode, PaymentDate: p.PaymentDate, Remarks: p.Remarks}
		},
		Values: func(d DairyPayment) url.Values { return d.payment().values("BuyerName") },
		Prepare: func(d *DairyPayment) {
			if d.PaymentDate == "" {
				d.PaymentDate = today()
			}
		},
	}
}
