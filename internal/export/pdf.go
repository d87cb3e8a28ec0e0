package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/report"
	"github.com/sevadhara/console/web"
)

// DefaultRowsPerPage is how many table rows go on one PDF page.
const DefaultRowsPerPage = 28

// PDFRenderer converts HTML into PDF bytes.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string, opts report.PageOptions) ([]byte, error)
}

type pdfPage struct {
	Number int
	Rows   [][]string
}

type pdfView struct {
	Title       string
	GeneratedAt time.Time
	Headers     []string
	Numeric     []bool
	Pages       []pdfPage
	TotalPages  int
	TotalRows   int
}

// PDFWriter lays a table out as HTML pages and hands it to the PDF engine.
type PDFWriter struct {
	renderer    PDFRenderer
	tpl         *template.Template
	RowsPerPage int
}

// NewPDFWriter parses the table report template.
func NewPDFWriter(renderer PDFRenderer) (*PDFWriter, error) {
	tpl, err := template.New("table_pdf.html").Funcs(template.FuncMap{
		"formatDateTime": func(t time.Time) string { return t.Format("02 Jan 2006 15:04") },
	}).ParseFS(web.Templates, "templates/reports/table_pdf.html")
	if err != nil {
		return nil, fmt.Errorf("parse table pdf template: %w", err)
	}
	return &PDFWriter{renderer: renderer, tpl: tpl, RowsPerPage: DefaultRowsPerPage}, nil
}

// BuildHTML renders the paginated HTML document for table.
func (p *PDFWriter) BuildHTML(table Table, now time.Time) (string, error) {
	view := pdfView{
		Title:       table.Title,
		GeneratedAt: now,
		Headers:     table.Headers(),
		Numeric:     make([]bool, len(table.Columns)),
		TotalRows:   len(table.Rows),
	}
	for i, c := range table.Columns {
		view.Numeric[i] = c.Numeric
	}
	perPage := p.RowsPerPage
	if perPage <= 0 {
		perPage = DefaultRowsPerPage
	}
	remaining := table.Rows
	for {
		n := min(perPage, len(remaining))
		rows := make([][]string, 0, n)
		for _, row := range remaining[:n] {
			rows = append(rows, truncateRow(table.Columns, row))
		}
		view.Pages = append(view.Pages, pdfPage{Number: len(view.Pages) + 1, Rows: rows})
		remaining = remaining[n:]
		if len(remaining) == 0 {
			break
		}
	}
	view.TotalPages = len(view.Pages)

	var buf bytes.Buffer
	if err := p.tpl.ExecuteTemplate(&buf, "table_pdf.html", view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render produces the PDF bytes for table.
func (p *PDFWriter) Render(ctx context.Context, table Table, now time.Time) ([]byte, error) {
	if p == nil || p.renderer == nil {
		return nil, fmt.Errorf("pdf export not configured")
	}
	html, err := p.BuildHTML(table, now)
	if err != nil {
		return nil, fmt.Errorf("render table html: %w", err)
	}
	opts := report.A4
	opts.Landscape = len(table.Columns) > 6
	return p.renderer.RenderHTML(ctx, html, opts)
}

func truncateRow(cols []Column, row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		max := 0
		if i < len(cols) {
			max = cols[i].MaxLen
		}
		out[i] = shared.Truncate(cell, max)
	}
	return out
}
