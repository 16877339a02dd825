// Package parquet provides data structures and functions for exporting macrodash
// series and analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/macrodash/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single macrodash run with metadata.
// This struct maps to the macrodash_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// RunUUID is the globally unique identifier assigned at the start of the run
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalSeriesProcessed is the number of entity series processed in this run
	TotalSeriesProcessed int32 `parquet:"total_series_processed,snappy"`

	// ConfigParams contains the JSON-encoded query parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SeriesResult represents the computed metrics for one series in a run.
// This struct maps to the macrodash_series_results database table.
type SeriesResult struct {
	AnalysisID   int64     `parquet:"analysis_id,snappy"`
	Indicator    string    `parquet:"indicator,snappy"`
	Entity       string    `parquet:"entity,snappy"`
	Unit         string    `parquet:"unit,snappy"`
	WindowSel    string    `parquet:"window_sel,snappy"`
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`
	Observations int32     `parquet:"observations,snappy"`

	// Summary columns are null when the windowed series was empty
	StartPeriod *string  `parquet:"start_period,optional,snappy"`
	EndPeriod   *string  `parquet:"end_period,optional,snappy"`
	LatestValue *float64 `parquet:"latest_value,optional,snappy"`
	PeakPeriod  *string  `parquet:"peak_period,optional,snappy"`
	PeakValue   *float64 `parquet:"peak_value,optional,snappy"`
	Growth      *float64 `parquet:"growth,optional,snappy"`

	Mean   *float64 `parquet:"mean_value,optional,snappy"`
	Median *float64 `parquet:"median_value,optional,snappy"`
	StdDev *float64 `parquet:"std_dev,optional,snappy"`

	// Trend columns are null when fewer than two observations were available
	Slope     *float64 `parquet:"slope,optional,snappy"`
	Intercept *float64 `parquet:"intercept,optional,snappy"`
	RSquared  *float64 `parquet:"r_squared,optional,snappy"`
}

// ObservationRow is one period of one entity's series, used by --output parquet.
type ObservationRow struct {
	Indicator string   `parquet:"indicator,snappy"`
	Entity    string   `parquet:"entity,snappy"`
	Unit      string   `parquet:"unit,snappy"`
	Period    string   `parquet:"period,snappy"`
	Value     *float64 `parquet:"value,optional,snappy"`
	Trend     *float64 `parquet:"trend,optional,snappy"`
}

// writeParquet writes rows of any struct type to outputPath.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSeriesResultsParquet writes a slice of SeriesResult structs to a Parquet file.
func WriteSeriesResultsParquet(data []SeriesResult, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteObservationsParquet writes a slice of ObservationRow structs to a Parquet file.
func WriteObservationsParquet(data []ObservationRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:           record.AnalysisID,
			RunUUID:              record.RunUUID,
			StartTime:            record.StartTime,
			EndTime:              record.EndTime,
			RunDurationMs:        record.RunDurationMs,
			TotalSeriesProcessed: record.TotalSeriesProcessed,
			ConfigParams:         record.ConfigParams,
		}
	}
	return result
}

// ConvertSeriesResultRecords converts schema.SeriesResultRecord to SeriesResult for Parquet export.
func ConvertSeriesResultRecords(records []schema.SeriesResultRecord) []SeriesResult {
	result := make([]SeriesResult, len(records))
	for i, r := range records {
		result[i] = SeriesResult{
			AnalysisID:   r.AnalysisID,
			Indicator:    r.Indicator,
			Entity:       r.Entity,
			Unit:         r.Unit,
			WindowSel:    r.WindowSel,
			AnalysisTime: r.AnalysisTime,
			Observations: r.Observations,
			StartPeriod:  r.StartPeriod,
			EndPeriod:    r.EndPeriod,
			LatestValue:  r.LatestValue,
			PeakPeriod:   r.PeakPeriod,
			PeakValue:    r.PeakValue,
			Growth:       r.Growth,
			Mean:         r.Mean,
			Median:       r.Median,
			StdDev:       r.StdDev,
			Slope:        r.Slope,
			Intercept:    r.Intercept,
			RSquared:     r.RSquared,
		}
	}
	return result
}

// ConvertSeriesRows flattens one entity's rows into ObservationRow values.
func ConvertSeriesRows(indicator, entity string, rows []schema.SeriesRow) []ObservationRow {
	result := make([]ObservationRow, len(rows))
	for i, r := range rows {
		result[i] = ObservationRow{
			Indicator: indicator,
			Entity:    entity,
			Unit:      r.Unit,
			Period:    r.Period,
			Value:     schema.FiniteOrNil(r.Value),
			Trend:     r.Trend,
		}
	}
	return result
}
