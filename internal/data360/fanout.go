package data360

import (
	"context"
	"fmt"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
	"golang.org/x/sync/errgroup"
)

// FetchResult pairs a request with the records it produced.
type FetchResult struct {
	Request schema.FetchRequest
	Records []schema.RawRecord
}

// FetchAll runs the requests concurrently with at most workers in flight.
// Results keep request order. The first failure cancels the remaining fetches
// and is returned wrapped with the failing country.
func FetchAll(ctx context.Context, src contract.DataSource, reqs []schema.FetchRequest, workers int) ([]FetchResult, error) {
	results := make([]FetchResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, req := range reqs {
		g.Go(func() error {
			records, err := src.FetchRecords(gctx, req)
			if err != nil {
				return fmt.Errorf("fetch %s for %s: %w", req.Indicator.Key, req.Country, err)
			}
			results[i] = FetchResult{Request: req, Records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
