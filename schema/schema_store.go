package schema

import "time"

// SeriesMetrics is what the analysis store keeps for one processed series.
type SeriesMetrics struct {
	AnalysisTime time.Time
	Indicator    string
	Entity       string
	Unit         string
	Window       string
	Observations int
	Summary      *Summary
	Stats        *Descriptive
	Trend        *TrendModel
}

// NewSeriesMetrics collects the pipeline outputs for one entity.
func NewSeriesMetrics(at time.Time, indicator string, q Query, count int, summary *Summary, stats *Descriptive, trend *TrendModel) SeriesMetrics {
	return SeriesMetrics{
		AnalysisTime: at,
		Indicator:    indicator,
		Entity:       q.Entity,
		Unit:         q.Unit,
		Window:       q.Window.String(),
		Observations: count,
		Summary:      summary,
		Stats:        stats,
		Trend:        trend,
	}
}

// AnalysisRunRecord represents a row from the macrodash_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID           int64
	RunUUID              string
	StartTime            time.Time
	EndTime              *time.Time
	RunDurationMs        *int32
	TotalSeriesProcessed int32
	ConfigParams         *string
}

// SeriesResultRecord represents a row from the macrodash_series_results table.
// Nullable columns hold values that were absent or not finite.
type SeriesResultRecord struct {
	AnalysisID   int64
	Indicator    string
	Entity       string
	Unit         string
	WindowSel    string
	AnalysisTime time.Time
	Observations int32
	StartPeriod  *string
	EndPeriod    *string
	LatestValue  *float64
	PeakPeriod   *string
	PeakValue    *float64
	Growth       *float64
	Mean         *float64
	Median       *float64
	StdDev       *float64
	Slope        *float64
	Intercept    *float64
	RSquared     *float64
}
