package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultColumnWidth = 18

// WriteXLSX writes the table as a single-sheet workbook: bold header row,
// configured column widths, numeric columns stored as numbers.
func WriteXLSX(w io.Writer, table Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := SheetName(table.Entity)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F3E2C7"}},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	headers := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		headers[i] = col.Header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := col.Width
		if width <= 0 {
			width = defaultColumnWidth
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("export: column width: %w", err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("export: header row: %w", err)
	}
	if len(table.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(table.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("export: header style: %w", err)
		}
	}

	for r, row := range table.Rows {
		values := make([]any, len(row))
		for c, cell := range row {
			values[c] = cellValue(table, c, cell)
		}
		start, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return fmt.Errorf("export: row %d: %w", r+1, err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func cellValue(table Table, col int, cell string) any {
	if col < len(table.Columns) && table.Columns[col].Numeric {
		cleaned := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return v
		}
	}
	return cell
}

// SheetName derives a valid worksheet name (max 31 chars, no []:*?/\).
func SheetName(entity string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return -1
		}
		return r
	}, strings.TrimSpace(entity))
	if name == "" {
		name = "Export"
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}
