package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
	"github.com/rs/zerolog/log"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheTTL is how long a cached response stays fresh.
const cacheTTL = 7 * 24 * time.Hour

// cachingSource serves Data360 responses from the response store when fresh.
type cachingSource struct {
	src   contract.DataSource
	store contract.CacheStore
	now   func() time.Time
}

var _ contract.DataSource = &cachingSource{} // Compile-time check

// withResponseCache wraps src with the manager's response store, if there is one.
func withResponseCache(src contract.DataSource, mgr contract.CacheManager) contract.DataSource {
	if mgr == nil {
		return src
	}
	store := mgr.GetResponseStore()
	if store == nil {
		return src
	}
	return &cachingSource{src: src, store: store, now: time.Now}
}

// FetchRecords implements contract.DataSource.
func (c *cachingSource) FetchRecords(ctx context.Context, req schema.FetchRequest) ([]schema.RawRecord, error) {
	key := generateCacheKey(req)

	if records := c.checkCacheHit(key); records != nil {
		log.Debug().Str("indicator", req.Indicator.Key).Str("country", req.Country).Msg("Response cache hit")
		return records, nil
	}

	return c.fetchAndStore(ctx, req, key)
}

// checkCacheHit attempts to retrieve and validate a cached response
func (c *cachingSource) checkCacheHit(key string) []schema.RawRecord {
	data, version, ts, err := c.store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version != currentCacheVersion || c.now().Sub(time.Unix(ts, 0)) > cacheTTL {
		return nil // Stale or version mismatch
	}

	var records []schema.RawRecord
	if err := json.Unmarshal(data, &records); err != nil || records == nil {
		return nil
	}
	return records
}

// fetchAndStore fetches from the wrapped source and stores the response
func (c *cachingSource) fetchAndStore(ctx context.Context, req schema.FetchRequest, key string) ([]schema.RawRecord, error) {
	records, err := c.src.FetchRecords(ctx, req)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []schema.RawRecord{}
	}

	if data, err := json.Marshal(records); err == nil {
		if err := c.store.Set(key, data, currentCacheVersion, c.now().Unix()); err != nil {
			contract.LogWarn("Failed to cache Data360 response", err)
		}
	}
	return records, nil
}

// generateCacheKey creates a unique key based on the request parameters
func generateCacheKey(req schema.FetchRequest) string {
	key := fmt.Sprintf("%s|%s|%s|%d|%d",
		req.Indicator.Code,
		req.Indicator.DatabaseID,
		req.Country,
		req.From,
		req.To,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
