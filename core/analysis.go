package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/macrodash/core/series"
	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
)

// seriesAnalysis holds the pipeline outputs for one entity.
type seriesAnalysis struct {
	Series  schema.Series
	Summary *schema.Summary
	Stats   *schema.Descriptive
	Trend   *schema.TrendModel
}

// analyzeRecords runs normalize, window, summarize, describe and trend fitting.
func analyzeRecords(records []schema.RawRecord, q schema.Query) seriesAnalysis {
	windowed := series.Filter(series.Normalize(records, q.Unit), q.Window)
	return seriesAnalysis{
		Series:  windowed,
		Summary: series.Summarize(windowed),
		Stats:   series.Describe(windowed),
		Trend:   series.FitLinearTrend(windowed),
	}
}

// beginTracking starts a tracked run when an analysis store is configured.
// Tracking failures are logged and never fail the command.
func beginTracking(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, command string) context.Context {
	ctx = contextWithCacheManager(ctx, mgr)
	store := analysisStore(ctx)
	if store == nil {
		return ctx
	}

	configParams := map[string]any{
		"command":   command,
		"indicator": cfg.Indicator.Key,
		"country":   cfg.Country,
		"countries": cfg.Countries,
		"unit":      cfg.Unit,
		"window":    cfg.Window.String(),
		"from":      cfg.FromYear,
		"to":        cfg.ToYear,
	}
	analysisID, err := store.BeginAnalysis(time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return ctx
	}
	if analysisID > 0 {
		ctx = withAnalysisID(ctx, analysisID)
	}
	return ctx
}

// recordSeries stores one entity's metrics against the tracked run.
func recordSeries(ctx context.Context, indicator string, q schema.Query, a seriesAnalysis) {
	store := analysisStore(ctx)
	analysisID := analysisIDFromContext(ctx)
	if store == nil || analysisID == 0 {
		return
	}
	metrics := schema.NewSeriesMetrics(time.Now(), indicator, q, len(a.Series), a.Summary, a.Stats, a.Trend)
	if err := store.RecordSeriesResult(analysisID, metrics); err != nil {
		logTrackingError("RecordSeriesResult", q.Entity, err)
	}
}

// endTracking finalizes the tracked run.
func endTracking(ctx context.Context, totalSeries int) {
	store := analysisStore(ctx)
	analysisID := analysisIDFromContext(ctx)
	if store == nil || analysisID == 0 {
		return
	}
	if err := store.EndAnalysis(analysisID, time.Now(), totalSeries); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}

// analysisStore returns the analysis store from the context's cache manager.
func analysisStore(ctx context.Context) contract.AnalysisStore {
	mgr := cacheManagerFromContext(ctx)
	if mgr == nil {
		return nil
	}
	return mgr.GetAnalysisStore()
}

// logTrackingError logs database tracking errors without disrupting the run.
func logTrackingError(operation, entity string, err error) {
	contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s on %s", operation, entity), err)
}
