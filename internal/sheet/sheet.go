package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"leadterm/internal/api"
)

// TemplateColumns is the header row of the import template.
var TemplateColumns = []string{"Name", "Budget", "Location", "Score", "Stage"}

var exportColumns = []string{"Name", "Budget", "Location", "Score", "Stage", "Priority", "Notes", "Reminders"}

// ReadRows decodes the first sheet of an xlsx file into header-keyed rows.
// The header row must contain at least a Name column.
func ReadRows(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	index := map[int]string{}
	hasName := false
	for i, h := range cells[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		index[i] = key
		if key == "name" {
			hasName = true
		}
	}
	if !hasName {
		return nil, fmt.Errorf("sheet missing 'Name' column")
	}

	rows := make([]Row, 0, len(cells)-1)
	for _, record := range cells[1:] {
		row := Row{}
		for i, value := range record {
			if key, ok := index[i]; ok {
				row[key] = value
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteLeads serializes leads to a one-sheet workbook, one row per lead.
// Callers pass the currently displayed view; export shows what the user sees.
func WriteLeads(w io.Writer, leads []api.Lead) error {
	f := excelize.NewFile()
	defer f.Close()
	const name = "Leads"
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := setRow(f, name, 1, toCells(exportColumns)); err != nil {
		return err
	}
	for i, lead := range leads {
		cells := []any{
			lead.Name,
			string(lead.Budget),
			lead.Location,
			lead.Score,
			lead.Stage,
			lead.Priority,
			len(lead.Notes),
			len(lead.Reminders),
		}
		if err := setRow(f, name, i+2, cells); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteTemplate produces the header-only import template.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	const name = "Template"
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := setRow(f, name, 1, toCells(TemplateColumns)); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
