package core

import (
	"context"

	"github.com/huangsam/macrodash/internal/contract"
)

// Context keys for run options
type contextKey string

const (
	analysisIDKey   contextKey = "analysisID"
	cacheManagerKey contextKey = "cacheManager"
)

// withAnalysisID stores the tracked run ID in the context.
func withAnalysisID(ctx context.Context, analysisID int64) context.Context {
	return context.WithValue(ctx, analysisIDKey, analysisID)
}

// analysisIDFromContext returns the tracked run ID, or 0 when the run is not tracked.
func analysisIDFromContext(ctx context.Context) int64 {
	id, ok := ctx.Value(analysisIDKey).(int64)
	if !ok {
		return 0
	}
	return id
}

// contextWithCacheManager stores the cache manager in the context.
func contextWithCacheManager(ctx context.Context, mgr contract.CacheManager) context.Context {
	return context.WithValue(ctx, cacheManagerKey, mgr)
}

// cacheManagerFromContext returns the cache manager, or nil when none was stored.
func cacheManagerFromContext(ctx context.Context) contract.CacheManager {
	mgr, _ := ctx.Value(cacheManagerKey).(contract.CacheManager)
	return mgr
}
