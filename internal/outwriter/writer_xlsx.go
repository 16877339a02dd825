package outwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/macrodash/schema"
	"github.com/xuri/excelize/v2"
)

// sheet is one worksheet of a spreadsheet export.
type sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// writeXLSX saves sheets to a new workbook at outputFile.
// Numeric cells stay numeric; nil cells are written as the placeholder.
func writeXLSX(outputFile string, sheets []sheet, successMsg string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for xlsx output")
	}
	if len(sheets) == 0 {
		return errors.New("no sheets to write")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sh.Name, err)
		}

		for col, header := range sh.Header {
			if err := setCell(f, sh.Name, col+1, 1, header); err != nil {
				return err
			}
		}
		for r, row := range sh.Rows {
			for col, value := range row {
				if err := setCell(f, sh.Name, col+1, r+2, xlsxValue(value)); err != nil {
					return err
				}
			}
		}
	}

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// setCell writes value at 1-based (col, row).
func setCell(f *excelize.File, sheetName string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("failed to write cell %s!%s: %w", sheetName, cell, err)
	}
	return nil
}

// xlsxValue unwraps optional numbers for the spreadsheet.
func xlsxValue(v any) any {
	switch x := v.(type) {
	case nil:
		return schema.InvalidPlaceholder
	case *float64:
		if x == nil || !schema.IsFinite(*x) {
			return schema.InvalidPlaceholder
		}
		return *x
	case float64:
		if !schema.IsFinite(x) {
			return schema.InvalidPlaceholder
		}
		return x
	default:
		return v
	}
}
