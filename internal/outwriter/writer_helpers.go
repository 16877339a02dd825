package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
)

// writeWithFile writes to the named output file, or to w when no file is set.
func writeWithFile(w io.Writer, outputFile string, writer func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return writer(w)
	}

	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := writer(file); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
// Values that are not finite format as the placeholder.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtPtr func(*float64) string) {
	fmtFloat = func(v float64) string {
		if !schema.IsFinite(v) {
			return schema.InvalidPlaceholder
		}
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtPtr = func(v *float64) string {
		if v == nil {
			return schema.InvalidPlaceholder
		}
		return fmtFloat(*v)
	}
	return fmtFloat, fmtPtr
}

// formatGrowth renders growth since baseline as a percentage.
func formatGrowth(s *schema.Summary) string {
	if s == nil || !s.GrowthValid() {
		return schema.InvalidPlaceholder
	}
	return fmt.Sprintf("%.2f%%", s.GrowthSinceBaseline)
}

// formatEquation renders the fitted line as y = mx + b.
func formatEquation(t *schema.TrendModel) string {
	if t == nil || !schema.IsFinite(t.Slope) || !schema.IsFinite(t.Intercept) {
		return schema.InvalidPlaceholder
	}
	return fmt.Sprintf("y = %.4fx + %.2f", t.Slope, t.Intercept)
}

// formatRSquared renders the goodness of fit.
func formatRSquared(t *schema.TrendModel) string {
	if t == nil || !t.RSquaredValid() {
		return schema.InvalidPlaceholder
	}
	return fmt.Sprintf("(R² = %.3f)", t.RSquared)
}

// formatPeak renders the peak value with its year.
func formatPeak(s *schema.Summary, fmtFloat func(float64) string) string {
	if s == nil {
		return schema.InvalidPlaceholder
	}
	return fmt.Sprintf("%s (%s)", fmtFloat(s.Peak.Value), s.Peak.Period)
}

// trendLabel returns the trend label, colored when colors are enabled.
func trendLabel(t *schema.TrendModel, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorTrendLabel(t)
	}
	return contract.GetPlainTrendLabel(t)
}

// growthLabel returns the growth label, colored when colors are enabled.
func growthLabel(s *schema.Summary, cfg *contract.Config) string {
	text := formatGrowth(s)
	if cfg.UseColors && s != nil {
		return contract.ColorSigned(text, s.GrowthSinceBaseline)
	}
	return text
}

// unitLabel describes the unit selection of a query.
func unitLabel(unit string) string {
	if unit == "" {
		return "default"
	}
	return unit
}

// summaryFields lists the flat columns shared by CSV and spreadsheet summary output.
var summaryFields = []string{
	"indicator", "entity", "unit", "window", "observations",
	"start_period", "end_period", "latest_value", "peak_period", "peak_value",
	"baseline_period", "growth_since_baseline", "mean", "median", "std_dev",
	"slope", "intercept", "r_squared", "trend",
}

// summaryCells flattens one entity's metrics into summaryFields order.
// Missing or non-finite numbers are nil.
func summaryCells(indicator string, q schema.Query, count int, s *schema.Summary, d *schema.Descriptive, t *schema.TrendModel) []any {
	cells := []any{indicator, q.Entity, q.Unit, q.Window.String(), count}
	if s != nil {
		cells = append(cells, s.StartPeriod, s.EndPeriod, schema.FiniteOrNil(s.LatestValue),
			s.Peak.Period, schema.FiniteOrNil(s.Peak.Value), s.Baseline.Period, schema.FiniteOrNil(s.GrowthSinceBaseline))
	} else {
		cells = append(cells, nil, nil, nil, nil, nil, nil, nil)
	}
	if d != nil {
		cells = append(cells, schema.FiniteOrNil(d.Mean), schema.FiniteOrNil(d.Median), schema.FiniteOrNil(d.StdDev))
	} else {
		cells = append(cells, nil, nil, nil)
	}
	if t != nil {
		cells = append(cells, schema.FiniteOrNil(t.Slope), schema.FiniteOrNil(t.Intercept), schema.FiniteOrNil(t.RSquared))
	} else {
		cells = append(cells, nil, nil, nil)
	}
	return append(cells, contract.GetPlainTrendLabel(t))
}

// cellsToStrings renders cells for CSV output.
func cellsToStrings(cells []any, fmtPtr func(*float64) string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case nil:
			out[i] = schema.InvalidPlaceholder
		case *float64:
			out[i] = fmtPtr(v)
		case int:
			out[i] = fmt.Sprintf("%d", v)
		case string:
			out[i] = v
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
