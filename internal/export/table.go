// Package export turns list screens into downloadable spreadsheets and PDFs.
package export

import (
	"fmt"
	"strings"
	"time"
)

// Format identifies an export file type.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a user supplied format; empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatXLSX, nil
	case FormatXLSX, FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("export: unsupported format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Column describes one exported column.
type Column struct {
	Header string
	// Width is the spreadsheet column width in characters.
	Width float64
	// MaxLen truncates PDF cells; zero keeps the full text.
	MaxLen  int
	Numeric bool
}

// Table is the page-independent content of a list screen.
type Table struct {
	// Entity names the exported file, e.g. "Buyers".
	Entity  string
	Title   string
	Columns []Column
	Rows    [][]string
}

// Headers returns the column headers.
func (t Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	return headers
}

// FileName follows the <Entity>_<timestamp>.<ext> convention.
func FileName(entity string, format Format, now time.Time) string {
	entity = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(entity))
	if entity == "" {
		entity = "Export"
	}
	return fmt.Sprintf("%s_%s.%s", entity, now.Format("20060102_150405"), format)
}
