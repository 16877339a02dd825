package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func ptr(v float64) *float64 { return &v }

func testIndicator(t *testing.T, key string) schema.Indicator {
	t.Helper()
	ind, err := schema.LookupIndicator(key)
	require.NoError(t, err)
	return ind
}

func sampleTrend() *schema.TrendModel {
	return &schema.TrendModel{
		Slope:     10,
		Intercept: -19900,
		RSquared:  0.98,
		Predicted: map[string]float64{"2000": 100, "2001": 110, "2002": 120},
	}
}

func sampleSummaryResult(t *testing.T) schema.SummaryResult {
	series := schema.Series{
		{Period: "2000", Value: 100},
		{Period: "2001", Value: 115},
		{Period: "2002", Value: 118},
	}
	return schema.SummaryResult{
		Indicator:    testIndicator(t, schema.GDPPerCapita),
		Query:        schema.NewQuery("MYS", "", schema.AllWindow(), nil),
		Observations: series,
		Summary: &schema.Summary{
			StartPeriod:         "2000",
			EndPeriod:           "2002",
			LatestValue:         118,
			Peak:                schema.PeriodValue{Period: "2002", Value: 118},
			Baseline:            schema.PeriodValue{Period: "2000", Value: 100},
			GrowthSinceBaseline: 18,
		},
		Stats: &schema.Descriptive{Count: 3, Mean: 111, Median: 115, StdDev: 7.87},
		Trend: sampleTrend(),
	}
}

func sampleCompareResult(t *testing.T) schema.CompareResult {
	return schema.CompareResult{
		Indicator: testIndicator(t, schema.Inflation),
		Query:     schema.NewQuery("MYS", "", schema.AllWindow(), []string{"MYS", "SGP"}),
		Entities:  []string{"MYS", "SGP"},
		Matrix: schema.AlignedMatrix{
			Years: []string{"2000", "2001"},
			Rows: [][]*float64{
				{ptr(1.5), nil},
				{ptr(1.4), ptr(1.0)},
			},
		},
		Summaries: []schema.EntitySummary{
			{Entity: "MYS", Count: 2, Summary: &schema.Summary{StartPeriod: "2000", EndPeriod: "2001", LatestValue: 1.4,
				Peak: schema.PeriodValue{Period: "2000", Value: 1.5}, Baseline: schema.PeriodValue{Period: "2000", Value: 1.5},
				GrowthSinceBaseline: -6.67}, Trend: &schema.TrendModel{Slope: -0.1, Intercept: 201.5, RSquared: 1}},
			{Entity: "SGP", Count: 1, Summary: &schema.Summary{StartPeriod: "2001", EndPeriod: "2001", LatestValue: 1.0,
				Peak: schema.PeriodValue{Period: "2001", Value: 1.0}, Baseline: schema.PeriodValue{Period: "2001", Value: 1.0}}},
		},
	}
}

func TestPrintSummaryResultsTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Precision: 2, Width: 120, CacheBackend: schema.SQLiteBackend}

	var buf bytes.Buffer
	err := PrintSummaryResults(&buf, sampleSummaryResult(t), cfg, 100*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "GDP per capita")
	assert.Contains(t, output, "MYS")
	assert.Contains(t, output, "118.00 (2002)")
	assert.Contains(t, output, "18.00%")
	assert.Contains(t, output, "Rising")
	assert.Contains(t, output, "y = 10.0000x + -19900.00")
	assert.Contains(t, output, "(R² = 0.980)")
	assert.Contains(t, output, "Summary completed in 100ms")
}

func TestPrintSummaryResultsPlaceholders(t *testing.T) {
	result := sampleSummaryResult(t)
	result.Summary.GrowthSinceBaseline = math.Inf(1)
	result.Trend.RSquared = math.NaN()
	cfg := &contract.Config{Output: schema.TextOut, Precision: 2, Width: 120}

	var buf bytes.Buffer
	require.NoError(t, PrintSummaryResults(&buf, result, cfg, time.Millisecond))

	output := buf.String()
	assert.Contains(t, output, schema.InvalidPlaceholder)
	assert.NotContains(t, output, "Inf")
	assert.NotContains(t, output, "NaN")
}

func TestPrintSummaryResultsJSON(t *testing.T) {
	result := sampleSummaryResult(t)
	result.Trend.RSquared = math.NaN()
	cfg := &contract.Config{Output: schema.JSONOut, Precision: 2}

	var buf bytes.Buffer
	require.NoError(t, PrintSummaryResults(&buf, result, cfg, 0))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "gdp", decoded["indicator"].(map[string]any)["key"])
	trend := decoded["trend"].(map[string]any)
	assert.Nil(t, trend["r_squared"])
	assert.Equal(t, 10.0, trend["slope"])
}

func TestPrintSummaryResultsCSV(t *testing.T) {
	result := sampleSummaryResult(t)
	result.Stats = nil
	cfg := &contract.Config{Output: schema.CSVOut, Precision: 1}

	var buf bytes.Buffer
	require.NoError(t, PrintSummaryResults(&buf, result, cfg, 0))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, summaryFields, records[0])

	row := records[1]
	require.Len(t, row, len(summaryFields))
	assert.Equal(t, "gdp", row[0])
	assert.Equal(t, "MYS", row[1])
	assert.Equal(t, "all", row[3])
	assert.Equal(t, "3", row[4])
	assert.Equal(t, "118.0", row[7])
	assert.Equal(t, "18.0", row[11])
	assert.Equal(t, schema.InvalidPlaceholder, row[12])
	assert.Equal(t, "Rising", row[18])
}

func TestPrintSeriesResults(t *testing.T) {
	result := schema.SeriesResult{
		Indicator: testIndicator(t, schema.GDPPerCapita),
		Query:     schema.NewQuery("MYS", "", schema.AllWindow(), nil),
		Rows: []schema.SeriesRow{
			{Period: "2000", Value: 100, Trend: ptr(100)},
			{Period: "2001", Value: 115, Trend: ptr(110)},
			{Period: "2002", Value: 118},
		},
		Trend: sampleTrend(),
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Output: schema.TextOut, Precision: 2}
		require.NoError(t, PrintSeriesResults(&buf, result, cfg, 5*time.Millisecond))
		output := buf.String()
		assert.Contains(t, output, "MYS")
		assert.Contains(t, output, "115.00")
		assert.Contains(t, output, "110.00")
		assert.Contains(t, output, "Showing 3 observations")
		assert.Contains(t, output, "(R² = 0.980)")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Output: schema.CSVOut, Precision: 2}
		require.NoError(t, PrintSeriesResults(&buf, result, cfg, 0))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, []string{"period", "value", "unit", "trend"}, records[0])
		assert.Equal(t, []string{"2001", "115.00", "", "110.00"}, records[2])
		assert.Equal(t, schema.InvalidPlaceholder, records[3][3])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Output: schema.JSONOut, Precision: 2}
		require.NoError(t, PrintSeriesResults(&buf, result, cfg, 0))
		var decoded schema.SeriesResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Len(t, decoded.Rows, 3)
		assert.Nil(t, decoded.Rows[2].Trend)
	})
}

func TestPrintCompareResults(t *testing.T) {
	result := sampleCompareResult(t)

	t.Run("table shows gaps", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Output: schema.TextOut, Precision: 2}
		require.NoError(t, PrintCompareResults(&buf, result, cfg, time.Millisecond))
		output := buf.String()
		assert.Contains(t, output, "SGP")
		assert.Contains(t, output, "1.50")
		assert.Contains(t, output, schema.InvalidPlaceholder)
		assert.Contains(t, output, "Falling")
		assert.Contains(t, output, "Compared 2 countries across 2 years")
	})

	t.Run("csv matrix", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Output: schema.CSVOut, Precision: 2}
		require.NoError(t, PrintCompareResults(&buf, result, cfg, 0))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"year", "MYS", "SGP"},
			{"2000", "1.50", "--"},
			{"2001", "1.40", "1.00"},
		}, records)
	})

	t.Run("json keeps nulls", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Output: schema.JSONOut}
		require.NoError(t, PrintCompareResults(&buf, result, cfg, 0))
		assert.True(t, strings.Contains(buf.String(), "null"))
	})
}

func TestPrintIndicators(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintIndicators(&buf, schema.Indicators, &contract.Config{Output: schema.TextOut}))
		output := buf.String()
		for _, key := range schema.IndicatorKeys() {
			assert.Contains(t, output, key)
		}
		assert.Contains(t, output, "10P3AD")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintIndicators(&buf, schema.Indicators, &contract.Config{Output: schema.CSVOut}))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, len(schema.Indicators)+1)
		assert.Equal(t, "default", records[1][4])
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		err := PrintIndicators(&bytes.Buffer{}, schema.Indicators, &contract.Config{Output: schema.ParquetOut})
		assert.Error(t, err)
	})
}

func TestFileOutputs(t *testing.T) {
	dir := t.TempDir()

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(dir, "summary.json")
		var buf bytes.Buffer
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
		require.NoError(t, PrintSummaryResults(&buf, sampleSummaryResult(t), cfg, 0))
		assert.Empty(t, buf.String())
		assert.FileExists(t, path)
	})

	t.Run("xlsx requires file", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.XLSXOut}
		assert.Error(t, PrintSummaryResults(&bytes.Buffer{}, sampleSummaryResult(t), cfg, 0))
	})

	t.Run("parquet requires file", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.ParquetOut}
		assert.Error(t, PrintCompareResults(&bytes.Buffer{}, sampleCompareResult(t), cfg, 0))
	})

	t.Run("compare parquet", func(t *testing.T) {
		path := filepath.Join(dir, "compare.parquet")
		cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
		require.NoError(t, PrintCompareResults(&bytes.Buffer{}, sampleCompareResult(t), cfg, 0))
		assert.FileExists(t, path)
	})

	t.Run("compare xlsx", func(t *testing.T) {
		path := filepath.Join(dir, "compare.xlsx")
		cfg := &contract.Config{Output: schema.XLSXOut, OutputFile: path}
		require.NoError(t, PrintCompareResults(&bytes.Buffer{}, sampleCompareResult(t), cfg, 0))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		assert.Equal(t, []string{"Comparison", "Summaries"}, f.GetSheetList())
		header, err := f.GetCellValue("Comparison", "C1")
		require.NoError(t, err)
		assert.Equal(t, "SGP", header)
		gap, err := f.GetCellValue("Comparison", "C2")
		require.NoError(t, err)
		assert.Equal(t, schema.InvalidPlaceholder, gap)
		value, err := f.GetCellValue("Comparison", "B3")
		require.NoError(t, err)
		assert.Equal(t, "1.4", value)
	})
}

func TestOutWriterDelegates(t *testing.T) {
	var buf bytes.Buffer
	ow := NewOutWriter(&buf)
	require.NoError(t, ow.WriteIndicators(schema.Indicators, &contract.Config{Output: schema.JSONOut}))

	var decoded []schema.Indicator
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, len(schema.Indicators))
}
