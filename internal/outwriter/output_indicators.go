package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
	"github.com/olekukonko/tablewriter"
)

var indicatorFields = []string{"key", "name", "database_id", "code", "units"}

// PrintIndicators outputs the indicator catalog.
func PrintIndicators(w io.Writer, indicators []schema.Indicator, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, indicators)
		}, "Wrote JSON indicators"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, indicatorFields, func(cw *csv.Writer) error {
				for _, ind := range indicators {
					if err := cw.Write(indicatorRow(ind)); err != nil {
						return fmt.Errorf("failed to write CSV row: %w", err)
					}
				}
				return nil
			})
		}, "Wrote CSV indicators"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.XLSXOut:
		rows := make([][]any, len(indicators))
		for i, ind := range indicators {
			row := indicatorRow(ind)
			rows[i] = []any{row[0], row[1], row[2], row[3], row[4]}
		}
		if err := writeXLSX(cfg.OutputFile, []sheet{{Name: "Indicators", Header: indicatorFields, Rows: rows}}, "Wrote xlsx indicators"); err != nil {
			return fmt.Errorf("error writing xlsx output: %w", err)
		}
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for the indicator catalog")
	default:
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Key", "Name", "Source", "Units"})
		var data [][]string
		for _, ind := range indicators {
			data = append(data, []string{ind.Key, ind.Name, ind.DatabaseID, indicatorUnits(ind)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	}
	return nil
}

func indicatorRow(ind schema.Indicator) []string {
	return []string{ind.Key, ind.Name, ind.DatabaseID, ind.Code, indicatorUnits(ind)}
}

// indicatorUnits lists unit codes with their labels, or "default" for single-unit indicators.
func indicatorUnits(ind schema.Indicator) string {
	if len(ind.Units) == 0 {
		return unitLabel("")
	}
	parts := make([]string, len(ind.Units))
	for i, u := range ind.Units {
		parts[i] = fmt.Sprintf("%s (%s)", u.Code, u.Label)
	}
	return strings.Join(parts, "; ")
}
