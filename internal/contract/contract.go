// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/macrodash/schema"
)

// DataSource defines the operations needed to pull raw indicator records.
// This allows the pipeline to be tested without a live Data360 endpoint.
type DataSource interface {
	// FetchRecords returns every raw record for one indicator and country.
	FetchRecords(ctx context.Context, req schema.FetchRequest) ([]schema.RawRecord, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking runs and storing per-series results.
type AnalysisStore interface {
	// BeginAnalysis creates a new run and returns its unique ID
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalSeries int) error

	// RecordSeriesResult stores the computed figures for one entity
	RecordSeriesResult(analysisID int64, metrics schema.SeriesMetrics) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every tracked run
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllSeriesResults returns every recorded series result
	GetAllSeriesResults() ([]schema.SeriesResultRecord, error)

	// Close closes the underlying connection
	Close() error
}
