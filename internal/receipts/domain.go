// Package receipts serves the temple donation receipt screens: dengidar,
// direct dengidar and go-seva. All three share one receipt shape and one
// PDF/WhatsApp pipeline.
package receipts

import (
	"net/url"
	"slices"
	"time"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/resource"
	"github.com/sevadhara/console/internal/shared"
)

// Receipt is a donation receipt as stored by the remote API.
type Receipt struct {
	ID            string  `json:"_id,omitempty"`
	ReceiptNumber string  `json:"ReceiptNumber,omitempty" validate:"max=40"`
	FullName      string  `json:"FullName" validate:"required,max=120"`
	MobileNumber  string  `json:"MobileNumber" validate:"required,mobile"`
	Gotra         string  `json:"Gotra,omitempty"`
	SevaType      string  `json:"SevaType" validate:"required"`
	Amount        float64 `json:"Amount" validate:"gt=0"`
	PaymentMode   string  `json:"PaymentMode" validate:"required,oneof=Cash UPI Bank Cheque"`
	ReceiptDate   string  `json:"ReceiptDate" validate:"required,date"`
	Address       string  `json:"Address,omitempty" validate:"max=250"`
	Direct        bool    `json:"Direct"`
}

// Gotras is the fixed gotra dropdown.
var Gotras = []string{
	"Agastya", "Atri", "Bharadwaj", "Gautam", "Garg", "Jamadagni", "Kashyap",
	"Kaundinya", "Kaushik", "Shandilya", "Vashishtha", "Vatsa", "Vishwamitra",
}

// SevaTypes lists the temple sevas offered on dengidar receipts.
var SevaTypes = []string{
	"Abhishek", "Annadan", "Deepotsav", "Maha Puja", "Nitya Puja", "Utsav Vargani", "General Donation",
}

// GoSevaTypes lists the go-seva (cow care) sevas.
var GoSevaTypes = []string{
	"Chara Daan", "Cow Adoption", "Gaushala Maintenance", "Medical Care", "General GoSeva",
}

// Kind identifies one of the receipt screens.
type Kind string

const (
	KindDengidar Kind = "dengidar"
	KindDirect   Kind = "direct"
	KindGoSeva   Kind = "goseva"
)

// Descriptor builds the screen for kind.
func Descriptor(kind Kind) *resource.Descriptor[Receipt] {
	d := &resource.Descriptor[Receipt]{
		ID:     func(r Receipt) string { return r.ID },
		Search: func(r Receipt) []string { return []string{r.ReceiptNumber, r.FullName, r.MobileNumber, r.Gotra} },
		Columns: []export.Column{
			{Header: "Receipt No", Width: 12},
			{Header: "Date", Width: 12},
			{Header: "Full Name", Width: 28, MaxLen: 36},
			{Header: "Mobile", Width: 14},
			{Header: "Gotra", Width: 14},
			{Header: "Seva", Width: 20, MaxLen: 24},
			{Header: "Mode", Width: 10},
			{Header: "Amount", Width: 14, Numeric: true},
		},
		Row: func(r Receipt) []string {
			return []string{r.ReceiptNumber, r.ReceiptDate, r.FullName, r.MobileNumber, r.Gotra, r.SevaType, r.PaymentMode, resource.Money(r.Amount)}
		},
		Bind:   bind,
		Values: values,
		Actions: []resource.Action{
			{Label: "PDF", Suffix: "/pdf", Method: "GET"},
			{Label: "WhatsApp", Suffix: "/send", Method: "POST", Confirm: "Send this receipt on WhatsApp?"},
		},
	}
	sevas := SevaTypes
	switch kind {
	case KindGoSeva:
		sevas = GoSevaTypes
		d.Slug, d.Title, d.Singular = "goseva", "GoSeva Receipts", "GoSeva Receipt"
		d.BasePath, d.Endpoint, d.ExportName = "/receipts/goseva", "/api/goseva", "GoSeva_Receipts"
		d.Search = func(r Receipt) []string { return []string{r.ReceiptNumber, r.FullName, r.MobileNumber, r.SevaType} }
	case KindDirect:
		d.Slug, d.Title, d.Singular = "direct", "Direct Dengidar Receipts", "Direct Receipt"
		d.BasePath, d.Endpoint, d.ExportName = "/receipts/direct", "/api/dengidar-receipt", "Direct_Dengidar_Receipts"
		d.Filter = func(r Receipt) bool { return r.Direct }
		d.Prepare = func(r *Receipt) { r.Direct = true; defaultDate(r) }
	default:
		d.Slug, d.Title, d.Singular = "dengidar", "Dengidar Receipts", "Dengidar Receipt"
		d.BasePath, d.Endpoint, d.ExportName = "/receipts/dengidar", "/api/dengidar-receipt", "Dengidar_Receipts"
		d.Filter = func(r Receipt) bool { return !r.Direct }
		d.Prepare = func(r *Receipt) { r.Direct = false; defaultDate(r) }
	}
	if d.Prepare == nil {
		d.Prepare = defaultDate
	}
	d.Fields = []resource.Field{
		{Name: "ReceiptNumber", Label: "Receipt number", Placeholder: "assigned by server when blank"},
		{Name: "ReceiptDate", Label: "Date", Type: "date", Required: true},
		{Name: "FullName", Label: "Full name", Required: true},
		{Name: "MobileNumber", Label: "Mobile number", Type: "tel", Required: true},
		{Name: "Gotra", Label: "Gotra", Type: "select", Options: Gotras},
		{Name: "SevaType", Label: "Seva", Type: "select", Options: sevas, Required: true},
		{Name: "Amount", Label: "Amount (₹)", Type: "number", Step: "0.01", Required: true},
		{Name: "PaymentMode", Label: "Payment mode", Type: "select", Options: resource.PaymentModes, Required: true},
		{Name: "Address", Label: "Address", Type: "textarea"},
	}
	d.Check = func(r Receipt) map[string]string {
		errs := map[string]string{}
		if r.Gotra != "" && !slices.Contains(Gotras, r.Gotra) {
			errs["Gotra"] = "must be one of the listed gotras"
		}
		if r.SevaType != "" && !slices.Contains(sevas, r.SevaType) {
			errs["SevaType"] = "must be one of the listed sevas"
		}
		return errs
	}
	return d
}

func defaultDate(r *Receipt) {
	if r.ReceiptDate == "" {
		r.ReceiptDate = time.Now().Format(shared.DateLayout)
	}
}

func bind(v url.Values) Receipt {
	return Receipt{
		ReceiptNumber: resource.FormString(v, "ReceiptNumber"),
		ReceiptDate:   resource.FormString(v, "ReceiptDate"),
		FullName:      resource.FormString(v, "FullName"),
		MobileNumber:  resource.FormString(v, "MobileNumber"),
		Gotra:         resource.FormString(v, "Gotra"),
		SevaType:      resource.FormString(v, "SevaType"),
		Amount:        resource.FormFloat(v, "Amount"),
		PaymentMode:   resource.FormString(v, "PaymentMode"),
		Address:       resource.FormString(v, "Address"),
	}
}

func values(r Receipt) url.Values {
	return url.Values{
		"ReceiptNumber": {r.ReceiptNumber},
		"ReceiptDate":   {r.ReceiptDate},
		"FullName":      {r.FullName},
		"MobileNumber":  {r.MobileNumber},
		"Gotra":         {r.Gotra},
		"SevaType":      {r.SevaType},
		"Amount":        {resource.Num(r.Amount)},
		"PaymentMode":   {r.PaymentMode},
		"Address":       {r.Address},
	}
}
