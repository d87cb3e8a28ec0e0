// Package buyers manages dairy milk buyers and their outstanding balances.
package buyers

import (
	"net/url"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/resource"
)

// Buyer is a dairy customer as stored by the remote API.
type Buyer struct {
	ID                string  `json:"_id,omitempty"`
	FullName          string  `json:"FullName" validate:"required,max=120"`
	MobileNumber      string  `json:"MobileNumber" validate:"required,mobile"`
	Address           string  `json:"Address,omitempty" validate:"max=250"`
	MilkRate          float64 `json:"MilkRate,omitempty" validate:"gte=0"`
	OutstandingAmount float64 `json:"OutstandingAmount,omitempty"`
}

// Summary is the server-side transaction aggregate for one buyer.
type Summary struct {
	TotalMilk   float64 `json:"TotalMilk"`
	TotalAmount float64 `json:"TotalAmount"`
	TotalPaid   float64 `json:"TotalPaid"`
	Outstanding float64 `json:"Outstanding"`
}

// Add accumulates s into the receiver.
func (s *Summary) Add(o Summary) {
	s.TotalMilk += o.TotalMilk
	s.TotalAmount += o.TotalAmount
	s.TotalPaid += o.TotalPaid
	s.Outstanding += o.Outstanding
}

// Descriptor describes the buyers screen.
func Descriptor() *resource.Descriptor[Buyer] {
	return &resource.Descriptor[Buyer]{
		Slug:       "buyers",
		Title:      "Buyers",
		Singular:   "Buyer",
		BasePath:   "/buyers",
		Endpoint:   "/api/buyers",
		ExportName: "Buyers",
		ID:         func(b Buyer) string { return b.ID },
		Search:     func(b Buyer) []string { return []string{b.FullName, b.MobileNumber, b.Address} },
		Columns: []export.Column{
			{Header: "Full Name", Width: 28, MaxLen: 40},
			{Header: "Mobile", Width: 14},
			{Header: "Address", Width: 36, MaxLen: 50},
			{Header: "Milk Rate", Width: 12, Numeric: true},
			{Header: "Outstanding", Width: 14, Numeric: true},
		},
		Row: func(b Buyer) []string {
			return []string{b.FullName, b.MobileNumber, b.Address, resource.Num(b.MilkRate), resource.Money(b.OutstandingAmount)}
		},
		Fields: []resource.Field{
			{Name: "FullName", Label: "Full name", Required: true},
			{Name: "MobileNumber", Label: "Mobile number", Type: "tel", Required: true, Placeholder: "10 digits"},
			{Name: "Address", Label: "Address", Type: "textarea"},
			{Name: "MilkRate", Label: "Milk rate (₹/litre)", Type: "number", Step: "0.01"},
		},
		Bind: func(v url.Values) Buyer {
			return Buyer{
				FullName:     resource.FormString(v, "FullName"),
				MobileNumber: resource.FormString(v, "MobileNumber"),
				Address:      resource.FormString(v, "Address"),
				MilkRate:     resource.FormFloat(v, "MilkRate"),
			}
		},
		Values: func(b Buyer) url.Values {
			return url.Values{
				"FullName":     {b.FullName},
				"MobileNumber": {b.MobileNumber},
				"Address":      {b.Address},
				"MilkRate":     {resource.Num(b.MilkRate)},
			}
		},
		Actions: []resource.Action{{Label: "Remind", Suffix: "/remind", Method: "POST", Confirm: "Send a WhatsApp reminder?"}},
		Links:   []resource.Link{{Label: "Outstanding report", Href: "/buyers/outstanding"}},
	}
}
