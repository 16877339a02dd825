package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// seriesFields lists the columns of a series export.
var seriesFields = []string{"period", "value", "unit", "trend"}

// PrintSeriesResults outputs the series rows, dispatching based on the output format configured.
func PrintSeriesResults(w io.Writer, result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPtr := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON series"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSeries(w, result.Rows, fmtFloat, fmtPtr)
		}, "Wrote CSV series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.XLSXOut:
		if err := writeXLSX(cfg.OutputFile, []sheet{seriesSheet(result.Rows)}, "Wrote xlsx series"); err != nil {
			return fmt.Errorf("error writing xlsx output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeObservationsParquet(cfg.OutputFile, result.Indicator.Key, result.Query.Entity, result.Rows); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		if err := printSeriesTable(w, result, cfg, fmtFloat, fmtPtr, duration); err != nil {
			return fmt.Errorf("error writing series table output: %w", err)
		}
	}
	return nil
}

// writeCSVResultsForSeries writes one row per period.
func writeCSVResultsForSeries(w io.Writer, rows []schema.SeriesRow, fmtFloat func(float64) string, fmtPtr func(*float64) string) error {
	return writeCSVWithHeader(w, seriesFields, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{r.Period, fmtFloat(r.Value), r.Unit, fmtPtr(r.Trend)}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// seriesSheet lays out series rows for a workbook.
func seriesSheet(rows []schema.SeriesRow) sheet {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{r.Period, r.Value, r.Unit, r.Trend}
	}
	return sheet{Name: "Series", Header: seriesFields, Rows: out}
}

// printSeriesTable prints the series with its trend and a regression footer.
func printSeriesTable(w io.Writer, result schema.SeriesResult, cfg *contract.Config, fmtFloat func(float64) string, fmtPtr func(*float64) string, duration time.Duration) error {
	_, _ = fmt.Fprintf(w, "%s | %s | unit: %s | window: %s\n",
		result.Indicator.Name, result.Query.Entity, unitLabel(result.Query.Unit), result.Query.Window)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Value", "Trend"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		data = append(data, []string{r.Period, fmtFloat(r.Value), fmtPtr(r.Trend)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Trend: %s %s %s\n", trendLabel(result.Trend, cfg), formatEquation(result.Trend), formatRSquared(result.Trend))
	_, _ = fmt.Fprintf(w, "Showing %d observations. Series completed in %v.\n", len(result.Rows), duration)
	return nil
}
