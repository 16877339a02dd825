package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/internal/parquet"
	"github.com/huangsam/macrodash/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintCompareResults outputs the aligned comparison, dispatching based on the output format configured.
func PrintCompareResults(w io.Writer, result schema.CompareResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPtr := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON comparison"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForCompare(w, result, fmtPtr)
		}, "Wrote CSV comparison"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.XLSXOut:
		if err := writeXLSX(cfg.OutputFile, compareSheets(result), "Wrote xlsx comparison"); err != nil {
			return fmt.Errorf("error writing xlsx output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeCompareParquet(cfg.OutputFile, result); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		if err := printCompareTables(w, result, cfg, fmtFloat, fmtPtr, duration); err != nil {
			return fmt.Errorf("error writing comparison table output: %w", err)
		}
	}
	return nil
}

// compareHeader is the year column followed by one column per entity.
func compareHeader(result schema.CompareResult) []string {
	return append([]string{"year"}, result.Entities...)
}

// writeCSVResultsForCompare writes the year by entity matrix.
func writeCSVResultsForCompare(w io.Writer, result schema.CompareResult, fmtPtr func(*float64) string) error {
	return writeCSVWithHeader(w, compareHeader(result), func(cw *csv.Writer) error {
		for i, year := range result.Matrix.Years {
			record := make([]string, 0, len(result.Entities)+1)
			record = append(record, year)
			for _, v := range result.Matrix.Rows[i] {
				record = append(record, fmtPtr(v))
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// compareSheets lays out the matrix and per-entity summaries for a workbook.
func compareSheets(result schema.CompareResult) []sheet {
	matrix := make([][]any, len(result.Matrix.Years))
	for i, year := range result.Matrix.Years {
		row := make([]any, 0, len(result.Entities)+1)
		row = append(row, year)
		for _, v := range result.Matrix.Rows[i] {
			row = append(row, v)
		}
		matrix[i] = row
	}

	summaries := make([][]any, len(result.Summaries))
	for i, es := range result.Summaries {
		summaries[i] = summaryCells(result.Indicator.Key, result.Query.WithEntity(es.Entity), es.Count, es.Summary, es.Stats, es.Trend)
	}

	return []sheet{
		{Name: "Comparison", Header: compareHeader(result), Rows: matrix},
		{Name: "Summaries", Header: summaryFields, Rows: summaries},
	}
}

// writeCompareParquet writes every entity's observations in long form.
func writeCompareParquet(outputFile string, result schema.CompareResult) error {
	if outputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	var rows []parquet.ObservationRow
	for col, entity := range result.Entities {
		var trend *schema.TrendModel
		if col < len(result.Summaries) {
			trend = result.Summaries[col].Trend
		}
		var series schema.Series
		for i, year := range result.Matrix.Years {
			if v := result.Matrix.Rows[i][col]; v != nil {
				series = append(series, schema.Observation{Period: year, Value: *v, Unit: result.Query.Unit})
			}
		}
		rows = append(rows, parquet.ConvertSeriesRows(result.Indicator.Key, entity, schema.NewSeriesRows(series, trend))...)
	}
	return parquet.WriteObservationsParquet(rows, outputFile)
}

// printCompareTables prints the aligned matrix followed by the per-entity summaries.
func printCompareTables(w io.Writer, result schema.CompareResult, cfg *contract.Config, fmtFloat func(float64) string, fmtPtr func(*float64) string, duration time.Duration) error {
	_, _ = fmt.Fprintf(w, "%s | unit: %s | window: %s\n", result.Indicator.Name, unitLabel(result.Query.Unit), result.Query.Window)

	matrix := tablewriter.NewWriter(w)
	matrix.Header(compareHeader(result))
	matrix.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	data := make([][]string, 0, len(result.Matrix.Years))
	for i, year := range result.Matrix.Years {
		row := make([]string, 0, len(result.Entities)+1)
		row = append(row, year)
		for _, v := range result.Matrix.Rows[i] {
			row = append(row, fmtPtr(v))
		}
		data = append(data, row)
	}
	if err := matrix.Bulk(data); err != nil {
		return err
	}
	if err := matrix.Render(); err != nil {
		return err
	}

	summary := tablewriter.NewWriter(w)
	summary.Header([]string{"Country", "Obs", "Latest", "Peak", "Growth", "Trend", "R²"})
	summary.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var rows [][]string
	for _, es := range result.Summaries {
		latest := schema.InvalidPlaceholder
		if es.Summary != nil {
			latest = fmtFloat(es.Summary.LatestValue)
		}
		rSquared := schema.InvalidPlaceholder
		if es.Trend != nil && es.Trend.RSquaredValid() {
			rSquared = fmt.Sprintf("%.3f", es.Trend.RSquared)
		}
		rows = append(rows, []string{
			es.Entity,
			fmt.Sprintf("%d", es.Count),
			latest,
			formatPeak(es.Summary, fmtFloat),
			growthLabel(es.Summary, cfg),
			trendLabel(es.Trend, cfg),
			rSquared,
		})
	}
	if err := summary.Bulk(rows); err != nil {
		return err
	}
	if err := summary.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Compared %d countries across %d years in %v.\n", len(result.Entities), len(result.Matrix.Years), duration)
	return nil
}
