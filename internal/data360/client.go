// Package data360 fetches indicator records from the World Bank Data360 API.
package data360

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/macrodash/schema"
	"github.com/rs/zerolog/log"
)

// DataPath is the Data360 observation endpoint, relative to the base URL.
const DataPath = "/data360/data"

// StatusError reports a non-2xx response from the API.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("data360 request %s returned status %d", e.URL, e.Code)
}

// Client talks to the Data360 API over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	MaxPages   int
}

// NewClient returns a Client for baseURL with the given request timeout and page limit.
func NewClient(baseURL string, timeout time.Duration, maxPages int) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		MaxPages:   maxPages,
	}
}

// FetchRecords returns every raw record for req, following skip-based pagination
// on the raw Data360 envelope. Proxy envelopes are read as a single page.
func (c *Client) FetchRecords(ctx context.Context, req schema.FetchRequest) ([]schema.RawRecord, error) {
	var all []schema.RawRecord
	maxPages := max(c.MaxPages, 1)
	skip := 0

	for page := 0; page < maxPages; page++ {
		body, endpoint, err := c.get(ctx, req, skip)
		if err != nil {
			return nil, err
		}
		records, shape, err := ExtractRecords(body)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", endpoint, err)
		}
		count := totalCount(body)
		log.Debug().
			Str("indicator", req.Indicator.Code).
			Str("country", req.Country).
			Str("shape", string(shape)).
			Int("page", page).
			Int("records", len(records)).
			Int("count", count).
			Msg("data360 page decoded")

		all = append(all, records...)
		read := pageLength(body)
		skip += read
		if shape != ShapeValueList || read == 0 || count < 0 || skip >= count {
			break
		}
		if page == maxPages-1 {
			log.Warn().
				Str("indicator", req.Indicator.Code).
				Str("country", req.Country).
				Int("read", skip).
				Int("count", count).
				Msg("data360 page limit reached")
		}
	}
	if all == nil {
		all = []schema.RawRecord{}
	}
	return all, nil
}

// get performs one request and returns the body and the URL it was read from.
func (c *Client) get(ctx context.Context, req schema.FetchRequest, skip int) ([]byte, string, error) {
	endpoint := c.BuildURL(req, skip)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, endpoint, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, endpoint, fmt.Errorf("data360 request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, endpoint, &StatusError{Code: resp.StatusCode, URL: endpoint}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, endpoint, fmt.Errorf("read response from %s: %w", endpoint, err)
	}
	return body, endpoint, nil
}

// BuildURL returns the request URL for req starting at record offset skip.
func (c *Client) BuildURL(req schema.FetchRequest, skip int) string {
	params := url.Values{}
	params.Set("DATABASE_ID", req.Indicator.DatabaseID)
	params.Set("INDICATOR", req.Indicator.Code)
	params.Set("REF_AREA", req.Country)
	if req.From > 0 {
		params.Set("timePeriodFrom", strconv.Itoa(req.From))
	}
	if req.To > 0 {
		params.Set("timePeriodTo", strconv.Itoa(req.To))
	}
	params.Set("skip", strconv.Itoa(skip))
	return c.BaseURL + DataPath + "?" + params.Encode()
}
