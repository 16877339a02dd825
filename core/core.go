// Package core orchestrates fetching, normalizing and analyzing indicator series.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/macrodash/core/series"
	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/internal/data360"
	"github.com/huangsam/macrodash/internal/outwriter"
	"github.com/huangsam/macrodash/schema"
)

// ErrNoData is returned when a query produced an empty series.
var ErrNoData = errors.New("no observations for query")

// ExecutorFunc defines the function signature for executing a command.
type ExecutorFunc func(ctx context.Context, w io.Writer, cfg *contract.Config, mgr contract.CacheManager) error

// NewDataSource builds the Data360 client for cfg, fronted by the response cache.
func NewDataSource(cfg *contract.Config, mgr contract.CacheManager) contract.DataSource {
	client := data360.NewClient(cfg.APIURL, cfg.Timeout, cfg.MaxPages)
	return withResponseCache(client, mgr)
}

// ExecuteSummary runs the summary pipeline for the configured country and writes the result.
func ExecuteSummary(ctx context.Context, w io.Writer, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetSummaryResults(ctx, cfg, NewDataSource(cfg, mgr), mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter(w).WriteSummary(result, cfg, time.Since(start))
}

// ExecuteSeries runs the series pipeline for the configured country and writes the rows.
func ExecuteSeries(ctx context.Context, w io.Writer, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetSeriesResults(ctx, cfg, NewDataSource(cfg, mgr), mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter(w).WriteSeries(result, cfg, time.Since(start))
}

// ExecuteCompare aligns the configured comparison set and writes the matrix.
func ExecuteCompare(ctx context.Context, w io.Writer, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetCompareResults(ctx, cfg, NewDataSource(cfg, mgr), mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter(w).WriteCompare(result, cfg, time.Since(start))
}

// ExecuteIndicators lists the indicator catalog. It does not touch the network.
func ExecuteIndicators(_ context.Context, w io.Writer, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.NewOutWriter(w).WriteIndicators(schema.Indicators, cfg)
}

// GetSummaryResults fetches and summarizes the configured indicator for one country.
func GetSummaryResults(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) (schema.SummaryResult, error) {
	q := cfg.Query()
	a, err := runSingle(ctx, cfg, src, mgr, "summary", q)
	if err != nil {
		return schema.SummaryResult{}, err
	}
	return schema.SummaryResult{
		Indicator:    cfg.Indicator,
		Query:        q,
		Observations: a.Series,
		Summary:      a.Summary,
		Stats:        a.Stats,
		Trend:        a.Trend,
	}, nil
}

// GetSeriesResults fetches the configured indicator for one country and joins it with its trend line.
func GetSeriesResults(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) (schema.SeriesResult, error) {
	q := cfg.Query()
	a, err := runSingle(ctx, cfg, src, mgr, "series", q)
	if err != nil {
		return schema.SeriesResult{}, err
	}
	return schema.SeriesResult{
		Indicator: cfg.Indicator,
		Query:     q,
		Rows:      schema.NewSeriesRows(a.Series, a.Trend),
		Trend:     a.Trend,
	}, nil
}

// runSingle fetches one entity and runs the pipeline, returning ErrNoData for an empty window.
func runSingle(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager, command string, q schema.Query) (seriesAnalysis, error) {
	ctx = beginTracking(ctx, cfg, mgr, command)

	records, err := src.FetchRecords(ctx, cfg.FetchRequest(q.Entity))
	if err != nil {
		endTracking(ctx, 0)
		return seriesAnalysis{}, fmt.Errorf("fetch %s for %s: %w", cfg.Indicator.Key, q.Entity, err)
	}

	a := analyzeRecords(records, q)
	recordSeries(ctx, cfg.Indicator.Key, q, a)
	endTracking(ctx, 1)

	if len(a.Series) == 0 {
		return seriesAnalysis{}, fmt.Errorf("%w: %s for %s (%s)", ErrNoData, cfg.Indicator.Key, q.Entity, q.Window)
	}
	return a, nil
}

// GetCompareResults fetches every country of the comparison set concurrently and
// aligns the windowed series onto a shared year axis.
func GetCompareResults(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) (schema.CompareResult, error) {
	q := cfg.Query()
	ctx = beginTracking(ctx, cfg, mgr, "compare")

	reqs := make([]schema.FetchRequest, len(q.ComparisonSet))
	for i, country := range q.ComparisonSet {
		reqs[i] = cfg.FetchRequest(country)
	}

	fetched, err := data360.FetchAll(ctx, src, reqs, cfg.Workers)
	if err != nil {
		endTracking(ctx, 0)
		return schema.CompareResult{}, err
	}

	seriesList := make([]schema.Series, len(fetched))
	summaries := make([]schema.EntitySummary, len(fetched))
	total := 0
	for i, f := range fetched {
		entityQuery := q.WithEntity(f.Request.Country)
		a := analyzeRecords(f.Records, entityQuery)
		recordSeries(ctx, cfg.Indicator.Key, entityQuery, a)

		seriesList[i] = a.Series
		summaries[i] = schema.EntitySummary{
			Entity:  f.Request.Country,
			Count:   len(a.Series),
			Summary: a.Summary,
			Stats:   a.Stats,
			Trend:   a.Trend,
		}
		total += len(a.Series)
	}
	endTracking(ctx, len(fetched))

	if total == 0 {
		return schema.CompareResult{}, fmt.Errorf("%w: %s for %d countries (%s)", ErrNoData, cfg.Indicator.Key, len(reqs), q.Window)
	}

	return schema.CompareResult{
		Indicator: cfg.Indicator,
		Query:     q,
		Entities:  q.ComparisonSet,
		Matrix:    series.Align(seriesList),
		Summaries: summaries,
	}, nil
}
