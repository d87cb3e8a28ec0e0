package receipts

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/report"
	"github.com/sevadhara/console/web"
)

type receiptView struct {
	Org     string
	Title   string
	Receipt Receipt
	Amount  string
	InWords string
}

// Renderer turns a receipt into an A5 PDF.
type Renderer struct {
	engine export.PDFRenderer
	tpl    *template.Template
	org    string
}

// NewRenderer parses the receipt template.
func NewRenderer(engine export.PDFRenderer, org string) (*Renderer, error) {
	tpl, err := template.ParseFS(web.Templates, "templates/reports/receipt_pdf.html")
	if err != nil {
		return nil, fmt.Errorf("parse receipt template: %w", err)
	}
	return &Renderer{engine: engine, tpl: tpl, org: org}, nil
}

// HTML renders the receipt document.
func (r *Renderer) HTML(title string, rc Receipt) (string, error) {
	var buf bytes.Buffer
	err := r.tpl.ExecuteTemplate(&buf, "receipt_pdf.html", receiptView{
		Org:     r.org,
		Title:   title,
		Receipt: rc,
		Amount:  shared.FormatAmount(rc.Amount),
		InWords: AmountInWords(rc.Amount),
	})
	if err != nil {
		return "", fmt.Errorf("render receipt html: %w", err)
	}
	return buf.String(), nil
}

// PDF renders the receipt through the PDF engine.
func (r *Renderer) PDF(ctx context.Context, title string, rc Receipt) ([]byte, error) {
	html, err := r.HTML(title, rc)
	if err != nil {
		return nil, err
	}
	pdf, err := r.engine.RenderHTML(ctx, html, report.A5)
	if err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return pdf, nil
}

// FileName names the PDF after the receipt number, falling back to the ID.
func FileName(rc Receipt) string {
	ref := rc.ReceiptNumber
	if ref == "" {
		ref = rc.ID
	}
	ref = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '-'
		}
		return r
	}, ref)
	return "Receipt_" + ref + ".pdf"
}

// Summary is the WhatsApp caption for a receipt.
func Summary(org string, rc Receipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🙏 %s\n", org)
	fmt.Fprintf(&b, "Receipt %s dated %s\n", rc.ReceiptNumber, rc.ReceiptDate)
	fmt.Fprintf(&b, "Received with thanks from %s", rc.FullName)
	if rc.Gotra != "" {
		fmt.Fprintf(&b, " (%s gotra)", rc.Gotra)
	}
	fmt.Fprintf(&b, "\n%s: ₹%s by %s\n%s", rc.SevaType, shared.FormatAmount(rc.Amount), rc.PaymentMode, AmountInWords(rc.Amount))
	return b.String()
}
