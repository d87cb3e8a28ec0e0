package export

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

// Artifact is a generated file ready to be downloaded or written to disk.
type Artifact struct {
	FileName    string
	ContentType string
	Body        []byte
}

// Exporter dispatches a table to the writer for the requested format.
type Exporter struct {
	pdf *PDFWriter
	now func() time.Time
}

// NewExporter builds an exporter. A nil renderer disables PDF output.
func NewExporter(renderer PDFRenderer) (*Exporter, error) {
	e := &Exporter{now: time.Now}
	if renderer != nil {
		pdf, err := NewPDFWriter(renderer)
		if err != nil {
			return nil, err
		}
		e.pdf = pdf
	}
	return e, nil
}

// WithNow overrides the clock used for file names.
func (e *Exporter) WithNow(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// Export renders table in format.
func (e *Exporter) Export(ctx context.Context, table Table, format Format) (Artifact, error) {
	now := e.now()
	artifact := Artifact{FileName: FileName(table.Entity, format, now), ContentType: format.ContentType()}
	var buf bytes.Buffer
	switch format {
	case FormatXLSX:
		if err := WriteXLSX(&buf, table); err != nil {
			return Artifact{}, err
		}
	case FormatCSV:
		if err := WriteCSV(&buf, table); err != nil {
			return Artifact{}, err
		}
	case FormatPDF:
		if e.pdf == nil {
			return Artifact{}, fmt.Errorf("export: pdf output not configured")
		}
		data, err := e.pdf.Render(ctx, table, now)
		if err != nil {
			return Artifact{}, fmt.Errorf("export pdf: %w", err)
		}
		buf.Write(data)
	default:
		return Artifact{}, fmt.Errorf("export: unsupported format %q", format)
	}
	artifact.Body = buf.Bytes()
	return artifact, nil
}
