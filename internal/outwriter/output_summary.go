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

// PrintSummaryResults outputs a summary result, dispatching based on the output format configured.
func PrintSummaryResults(w io.Writer, result schema.SummaryResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPtr := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON summary"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSummary(w, result, fmtPtr)
		}, "Wrote CSV summary"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.XLSXOut:
		if err := writeXLSX(cfg.OutputFile, summarySheets(result), "Wrote xlsx summary"); err != nil {
			return fmt.Errorf("error writing xlsx output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeObservationsParquet(cfg.OutputFile, result.Indicator.Key, result.Query.Entity,
			schema.NewSeriesRows(result.Observations, result.Trend)); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		if err := printSummaryTable(w, result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing summary table output: %w", err)
		}
	}
	return nil
}

// writeCSVResultsForSummary writes the summary as a single flat row.
func writeCSVResultsForSummary(w io.Writer, result schema.SummaryResult, fmtPtr func(*float64) string) error {
	return writeCSVWithHeader(w, summaryFields, func(cw *csv.Writer) error {
		cells := summaryCells(result.Indicator.Key, result.Query, len(result.Observations), result.Summary, result.Stats, result.Trend)
		return cw.Write(cellsToStrings(cells, fmtPtr))
	})
}

// summarySheets lays out the summary and its observations for a workbook.
func summarySheets(result schema.SummaryResult) []sheet {
	cells := summaryCells(result.Indicator.Key, result.Query, len(result.Observations), result.Summary, result.Stats, result.Trend)
	return []sheet{
		{Name: "Summary", Header: summaryFields, Rows: [][]any{cells}},
		seriesSheet(schema.NewSeriesRows(result.Observations, result.Trend)),
	}
}

// printSummaryTable prints the summary card as a two-column table.
func printSummaryTable(w io.Writer, result schema.SummaryResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableLabelWidth(cfg, 20)
	s, d, t := result.Summary, result.Stats, result.Trend
	data := [][]string{
		{"Indicator", contract.TruncateText(result.Indicator.Name, nameWidth)},
		{"Country", result.Query.Entity},
		{"Unit", unitLabel(result.Query.Unit)},
		{"Window", result.Query.Window.String()},
		{"Observations", fmt.Sprintf("%d", len(result.Observations))},
	}
	if s != nil {
		data = append(data,
			[]string{"Start Year", s.StartPeriod},
			[]string{"End Year", s.EndPeriod},
			[]string{"Latest", fmtFloat(s.LatestValue)},
			[]string{"Peak", formatPeak(s, fmtFloat)},
			[]string{fmt.Sprintf("Growth since %s", s.Baseline.Period), growthLabel(s, cfg)},
		)
	}
	if d != nil {
		data = append(data,
			[]string{"Mean", fmtFloat(d.Mean)},
			[]string{"Median", fmtFloat(d.Median)},
			[]string{"Std Dev", fmtFloat(d.StdDev)},
		)
	}
	data = append(data,
		[]string{"Trend", trendLabel(t, cfg)},
		[]string{"Regression", fmt.Sprintf("%s %s", formatEquation(t), formatRSquared(t))},
	)

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Summary completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return nil
}

// writeObservationsParquet writes one entity's rows as a Parquet file.
func writeObservationsParquet(outputFile, indicator, entity string, rows []schema.SeriesRow) error {
	if outputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	return parquet.WriteObservationsParquet(parquet.ConvertSeriesRows(indicator, entity, rows), outputFile)
}
