package geometry

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteWorkbook writes each section to its own sheet with Point, X and Y columns.
func WriteWorkbook(w io.Writer, sections ...Section) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sections {
		idx, err := f.NewSheet(s.Name)
		if err != nil {
			return fmt.Errorf("create sheet %s: %w", s.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := f.SetSheetRow(s.Name, "A1", &[]any{"Point", "X", "Y"}); err != nil {
			return fmt.Errorf("write header %s: %w", s.Name, err)
		}
		for r, p := range s.Points {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.Name, cell, &[]any{p.Label, p.X, p.Y}); err != nil {
				return fmt.Errorf("write point %d of %s: %w", p.Label, s.Name, err)
			}
		}
	}

	if len(sections) > 0 && !hasSection(sections, defaultSheet) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("delete default sheet: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func hasSection(sections []Section, name string) bool {
	for _, s := range sections {
		if s.Name == name {
			return true
		}
	}
	return false
}
