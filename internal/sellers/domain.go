// Package sellers manages the farmers who sell milk to the dairy.
package sellers

import (
	"net/url"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/resource"
)

// Seller is a milk supplier.
type Seller struct {
	ID                string  `json:"_id,omitempty"`
	FullName          string  `json:"FullName" validate:"required,max=120"`
	MobileNumber      string  `json:"MobileNumber" validate:"required,mobile"`
	Address           string  `json:"Address,omitempty" validate:"max=250"`
	Village           string  `json:"Village,omitempty" validate:"max=80"`
	OutstandingAmount float64 `json:"OutstandingAmount,omitempty"`
}

// Descriptor describes the sellers screen.
func Descriptor() *resource.Descriptor[Seller] {
	return &resource.Descriptor[Seller]{
		Slug:       "sellers",
		Title:      "Sellers",
		Singular:   "Seller",
		BasePath:   "/sellers",
		Endpoint:   "/api/sellers",
		ExportName: "Sellers",
		ID:         func(s Seller) string { return s.ID },
		Search:     func(s Seller) []string { return []string{s.FullName, s.MobileNumber, s.Village} },
		Columns: []export.Column{
			{Header: "Full Name", Width: 28, MaxLen: 40},
			{Header: "Mobile", Width: 14},
			{Header: "Village", Width: 18, MaxLen: 24},
			{Header: "Address", Width: 36, MaxLen: 50},
			{Header: "Outstanding", Width: 14, Numeric: true},
		},
		Row: func(s Seller) []string {
			return []string{s.FullName, s.MobileNumber, s.Village, s.Address, resource.Money(s.OutstandingAmount)}
		},
		Fields: []resource.Field{
			{Name: "FullName", Label: "Full name", Required: true},
			{Name: "MobileNumber", Label: "Mobile number", Type: "tel", Required: true, Placeholder: "10 digits"},
			{Name: "Village", Label: "Village"},
			{Name: "Address", Label: "Address", Type: "textarea"},
		},
		Bind: func(v url.Values) Seller {
			return Seller{
				FullName:     resource.FormString(v, "FullName"),
				MobileNumber: resource.FormString(v, "MobileNumber"),
				Village:      resource.FormString(v, "Village"),
				Address:      resource.FormString(v, "Address"),
			}
		},
		Values: func(s Seller) url.Values {
			return url.Values{
				"FullName":     {s.FullName},
				"MobileNumber": {s.MobileNumber},
				"Village":      {s.Village},
				"Address":      {s.Address},
			}
		},
		Actions: []resource.Action{{Label: "Remind", Suffix: "/remind", Method: "POST", Confirm: "Send a WhatsApp reminder?"}},
	}
}
