// Package milk describes the milk distribution (sales to buyers) and milk
// store (purchases from sellers) screens.
package milk

import (
	"math"
	"net/url"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/resource"
)

// Distribution is milk sold to a buyer for one shift.
type Distribution struct {
	ID           string  `json:"_id,omitempty"`
	BuyerName    string  `json:"BuyerName" validate:"required"`
	MobileNumber string  `json:"MobileNumber,omitempty" validate:"omitempty,mobile"`
	Date         string  `json:"Date" validate:"required,date"`
	Shift        string  `json:"Shift" validate:"required,oneof=Morning Evening"`
	Quantity     float64 `json:"Quantity" validate:"gt=0"`
	Rate         float64 `json:"Rate" validate:"gte=0"`
	Amount       float64 `json:"Amount" validate:"gte=0"`
}

// Purchase is milk bought from a seller for one shift.
type Purchase struct {
	ID           string  `json:"_id,omitempty"`
	SellerName   string  `json:"SellerName" validate:"required"`
	MobileNumber string  `json:"MobileNumber,omitempty" validate:"omitempty,mobile"`
	Date         string  `json:"Date" validate:"required,date"`
	Shift        string  `json:"Shift" validate:"required,oneof=Morning Evening"`
	Quantity     float64 `json:"Quantity" validate:"gt=0"`
	Fat          float64 `json:"Fat,omitempty" validate:"gte=0,lte=15"`
	SNF          float64 `json:"SNF,omitempty" validate:"gte=0,lte=15"`
	Rate         float64 `json:"Rate" validate:"gte=0"`
	Amount       float64 `json:"Amount" validate:"gte=0"`
}

// LineAmount is quantity × rate rounded to paise.
func LineAmount(quantity, rate float64) float64 {
	return math.Round(quantity*rate*100) / 100
}

var columns = []export.Column{
	{Header: "Date", Width: 12},
	{Header: "Shift", Width: 10},
	{Header: "Name", Width: 28, MaxLen: 36},
	{Header: "Mobile", Width: 14},
	{Header: "Quantity (L)", Width: 12, Numeric: true},
	{Header: "Rate", Width: 10, Numeric: true},
	{Header: "Amount", Width: 14, Numeric: true},
}

// DistributionDescriptor describes the milk distribution screen.
func DistributionDescriptor() *resource.Descriptor[Distribution] {
	return &resource.Descriptor[Distribution]{
		Slug:       "milk-distribution",
		Title:      "Milk Distribution",
		Singular:   "Distribution Entry",
		BasePath:   "/milk/distribution",
		Endpoint:   "/api/milk-distribution",
		ExportName: "Milk_Distribution",
		ID:         func(d Distribution) string { return d.ID },
		Search:     func(d Distribution) []string { return []string{d.BuyerName, d.MobileNumber, d.Shift} },
		Columns:    columns,
		Row: func(d Distribution) []string {
			return []string{d.Date, d.Shift, d.BuyerName, d.MobileNumber, resource.Num(d.Quantity), resource.Num(d.Rate), resource.Money(d.Amount)}
		},
		Fields: []resource.Field{
			{Name: "Date", Label: "Date", Type: "date", Required: true},
			{Name: "Shift", Label: "Shift", Type: "select", Options: resource.Shifts, Required: true},
			{Name: "BuyerName", Label: "Buyer", Required: true},
			{Name: "MobileNumber", Label: "Mobile number", Type: "tel"},
			{Name: "Quantity", Label: "Quantity (litres)", Type: "number", Step: "0.1", Required: true},
			{Name: "Rate", Label: "Rate (₹/litre)", Type: "number", Step: "0.01"},
			{Name: "Amount", Label: "Amount (₹)", Type: "number", Step: "0.01", Placeholder: "quantity × rate"},
		},
		Bind: func(v url.Values) Distribution {
			return Distribution{
				BuyerName:    resource.FormString(v, "BuyerName"),
				MobileNumber: resource.FormString(v, "MobileNumber"),
				Date:         resource.FormString(v, "Date"),
				Shift:        resource.FormString(v, "Shift"),
				Quantity:     resource.FormFloat(v, "Quantity"),
				Rate:         resource.FormFloat(v, "Rate"),
				Amount:       resource.FormFloat(v, "Amount"),
			}
		},
		Values: func(d Distribution) url.Values {
			return url.Values{
				"BuyerName":    {d.BuyerName},
				"MobileNumber": {d.MobileNumber},
				"Date":         {d.Date},
				"Shift":        {d.Shift},
				"Quantity":     {resource.Num(d.Quantity)},
				"Rate":         {resource.Num(d.Rate)},
				"Amount":       {resource.Num(d.Amount)},
			}
		},
		Prepare: func(d *Distribution) {
			if d.Amount == 0 {
				d.Amount = LineAmount(d.Quantity, d.Rate)
			}
		},
	}
}

// StoreDescriptor describes the milk store (purchase) screen.
func StoreDescriptor() *resource.Descriptor[Purchase] {
	cols := append([]export.Column(nil), columns[:5]...)
	cols = append(cols,
		export.Column{Header: "Fat %", Width: 8, Numeric: true},
		export.Column{Header: "SNF %", Width: 8, Numeric: true},
		columns[5], columns[6],
	)
	return &resource.Descriptor[Purchase]{
		Slug:       "milk-store",
		Title:      "Milk Store",
		Singular:   "Purchase Entry",
		BasePath:   "/milk/store",
		Endpoint:   "/api/milk-store",
		ExportName: "Milk_Store",
		ID:         func(p Purchase) string { return p.ID },
		Search:     func(p Purchase) []string { return []string{p.SellerName, p.MobileNumber, p.Shift} },
		Columns:    cols,
		Row: func(p Purchase) []string {
			return []string{p.Date, p.Shift, p.SellerName, p.MobileNumber, resource.Num(p.Quantity), resource.Num(p.Fat), resource.Num(p.SNF), resource.Num(p.Rate), resource.Money(p.Amount)}
		},
		Fields: []resource.Field{
			{Name: "Date", Label: "Date", Type: "date", Required: true},
			{Name: "Shift", Label: "Shift", Type: "select", Options: resource.Shifts, Required: true},
			{Name: "SellerName", Label: "Seller", Required: true},
			{Name: "MobileNumber", Label: "Mobile number", Type: "tel"},
			{Name: "Quantity", Label: "Quantity (litres)", Type: "number", Step: "0.1", Required: true},
			{Name: "Fat", Label: "Fat %", Type: "number", Step: "0.1"},
			{Name: "SNF", Label: "SNF %", Type: "number", Step: "0.1"},
			{Name: "Rate", Label: "Rate (₹/litre)", Type: "number", Step: "0.01"},
			{Name: "Amount", Label: "Amount (₹)", Type: "number", Step: "0.01", Placeholder: "quantity × rate"},
		},
		Bind: func(v url.Values) Purchase {
			return Purchase{
				SellerName:   resource.FormString(v, "SellerName"),
				MobileNumber: resource.FormString(v, "MobileNumber"),
				Date:         resource.FormString(v, "Date"),
				Shift:        resource.FormString(v, "Shift"),
				Quantity:     resource.FormFloat(v, "Quantity"),
				Fat:          resource.FormFloat(v, "Fat"),
				SNF:          resource.FormFloat(v, "SNF"),
				Rate:         resource.FormFloat(v, "Rate"),
				Amount:       resource.FormFloat(v, "Amount"),
			}
		},
		Values: func(p Purchase) url.Values {
			return url.Values{
				"SellerName":   {p.SellerName},
				"MobileNumber": {p.MobileNumber},
				"Date":         {p.Date},
				"Shift":        {p.Shift},
				"Quantity":     {resource.Num(p.Quantity)},
				"Fat":          {resource.Num(p.Fat)},
				"SNF":          {resource.Num(p.SNF)},
				"Rate":         {resource.Num(p.Rate)},
				"Amount":       {resource.Num(p.Amount)},
			}
		},
		Prepare: func(p *Purchase) {
			if p.Amount == 0 {
				p.Amount = LineAmount(p.Quantity, p.Rate)
			}
		},
	}
}
