package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/internal/data360"
	"github.com/huangsam/macrodash/internal/iocache"
	"github.com/huangsam/macrodash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func records(pairs ...string) []schema.RawRecord {
	var out []schema.RawRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, schema.RawRecord{"TIME_PERIOD": pairs[i], "OBS_VALUE": pairs[i+1]})
	}
	return out
}

func testConfig(t *testing.T, key string) *contract.Config {
	t.Helper()
	ind, err := schema.LookupIndicator(key)
	require.NoError(t, err)
	return &contract.Config{
		Indicator: ind,
		Country:   "MYS",
		Countries: []string{"MYS", "SGP", "THA"},
		Window:    schema.AllWindow(),
		FromYear:  1960,
		ToYear:    2024,
		Workers:   2,
		Precision: 2,
		Output:    schema.JSONOut,
	}
}

func forCountry(country string) any {
	return mock.MatchedBy(func(req schema.FetchRequest) bool { return req.Country == country })
}

func TestGetSummaryResults(t *testing.T) {
	cfg := testConfig(t, schema.GDPPerCapita)
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, cfg.FetchRequest("MYS")).
		Return(records("2001", "110", "1999", "90", "2000", "100", "2002", "130"), nil)

	result, err := GetSummaryResults(context.Background(), cfg, src, nil)
	require.NoError(t, err)

	assert.Equal(t, "gdp", result.Indicator.Key)
	assert.Equal(t, "MYS", result.Query.Entity)
	assert.Equal(t, []string{"1999", "2000", "2001", "2002"}, result.Observations.Periods())
	require.NotNil(t, result.Summary)
	assert.Equal(t, "2002", result.Summary.Peak.Period)
	assert.Equal(t, "2000", result.Summary.Baseline.Period)
	assert.InDelta(t, 30.0, result.Summary.GrowthSinceBaseline, 1e-9)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 4, result.Stats.Count)
	require.NotNil(t, result.Trend)
	assert.Equal(t, schema.TrendRising, result.Trend.Direction())
	src.AssertExpectations(t)
}

func TestGetSummaryResultsWindowAndUnit(t *testing.T) {
	cfg := testConfig(t, schema.CreditCard)
	cfg.Unit = "10P3AD"
	w, err := schema.LastNWindow(5)
	require.NoError(t, err)
	cfg.Window = w

	var raw []schema.RawRecord
	for year := 2010; year <= 2020; year++ {
		raw = append(raw,
			schema.RawRecord{"TIME_PERIOD": fmt.Sprint(year), "OBS_VALUE": fmt.Sprint(year - 2000), "UNIT_MEASURE": "10P3AD"},
			schema.RawRecord{"TIME_PERIOD": fmt.Sprint(year), "OBS_VALUE": "999999", "UNIT_MEASURE": "ACCT"},
		)
	}
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.Anything).Return(raw, nil)

	result, err := GetSummaryResults(context.Background(), cfg, src, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2016", "2017", "2018", "2019", "2020"}, result.Observations.Periods())
	assert.Equal(t, 20.0, result.Summary.Peak.Value)
	// No 2000 observation in the window: growth is measured from the first one.
	assert.Equal(t, "2016", result.Summary.Baseline.Period)
	assert.InDelta(t, 25.0, result.Summary.GrowthSinceBaseline, 1e-9)
}

func TestGetSummaryResultsNoData(t *testing.T) {
	cfg := testConfig(t, schema.Inflation)
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.Anything).Return(records("2000", "n/a"), nil)

	_, err := GetSummaryResults(context.Background(), cfg, src, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestGetSummaryResultsFetchError(t *testing.T) {
	cfg := testConfig(t, schema.Inflation)
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.Anything).Return(nil, data360.ErrUnparseableEnvelope)

	_, err := GetSummaryResults(context.Background(), cfg, src, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, data360.ErrUnparseableEnvelope)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestGetSeriesResults(t *testing.T) {
	cfg := testConfig(t, schema.CPI)
	cfg.Window = schema.SinceYearWindow(2001)
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.Anything).
		Return(records("2000", "1", "2001", "2", "2002", "4", "2003", "6"), nil)

	result, err := GetSeriesResults(context.Background(), cfg, src, nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "2001", result.Rows[0].Period)
	require.NotNil(t, result.Trend)
	assert.InDelta(t, 2.0, result.Trend.Slope, 1e-9)
	for _, r := range result.Rows {
		require.NotNil(t, r.Trend)
		assert.InDelta(t, r.Value, *r.Trend, 1e-6)
	}
}

func TestGetCompareResults(t *testing.T) {
	cfg := testConfig(t, schema.Inflation)
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, forCountry("MYS")).Return(records("2000", "1.5", "2001", "1.4"), nil)
	src.On("FetchRecords", mock.Anything, forCountry("SGP")).Return(records("2001", "1.0", "2002", "0.5"), nil)
	src.On("FetchRecords", mock.Anything, forCountry("THA")).Return([]schema.RawRecord{}, nil)

	result, err := GetCompareResults(context.Background(), cfg, src, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"MYS", "SGP", "THA"}, result.Entities)
	assert.Equal(t, []string{"2000", "2001", "2002"}, result.Matrix.Years)
	assert.Nil(t, result.Matrix.Value(1, "2000"))
	require.NotNil(t, result.Matrix.Value(0, "2001"))
	assert.Equal(t, 1.4, *result.Matrix.Value(0, "2001"))
	for _, cell := range result.Matrix.Column(2) {
		assert.Nil(t, cell)
	}

	require.Len(t, result.Summaries, 3)
	assert.Equal(t, "THA", result.Summaries[2].Entity)
	assert.Equal(t, 0, result.Summaries[2].Count)
	assert.Nil(t, result.Summaries[2].Summary)
	assert.Nil(t, result.Summaries[2].Trend)
	assert.Equal(t, schema.TrendFalling, result.Summaries[1].Trend.Direction())
}

func TestGetCompareResultsAllEmpty(t *testing.T) {
	cfg := testConfig(t, schema.Inflation)
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.Anything).Return([]schema.RawRecord{}, nil)

	_, err := GetCompareResults(context.Background(), cfg, src, nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestGetCompareResultsFetchError(t *testing.T) {
	cfg := testConfig(t, schema.Inflation)
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, forCountry("SGP")).Return(nil, &data360.StatusError{Code: http.StatusBadGateway})
	src.On("FetchRecords", mock.Anything, mock.Anything).Return(records("2000", "1"), nil).Maybe()

	_, err := GetCompareResults(context.Background(), cfg, src, nil)
	require.Error(t, err)
	var statusErr *data360.StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestRunTracking(t *testing.T) {
	cfg := testConfig(t, schema.Inflation)
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.Anything).Return(records("2000", "1", "2001", "2"), nil)

	store := &iocache.MockAnalysisStore{}
	store.On("BeginAnalysis", mock.Anything, mock.MatchedBy(func(p map[string]any) bool {
		return p["command"] == "compare" && p["indicator"] == "inflation"
	})).Return(int64(7), nil)
	store.On("RecordSeriesResult", int64(7), mock.MatchedBy(func(m schema.SeriesMetrics) bool {
		return m.Indicator == "inflation" && m.Observations == 2
	})).Return(nil).Times(3)
	store.On("EndAnalysis", int64(7), mock.Anything, 3).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAnalysisStore").Return(store)

	_, err := GetCompareResults(context.Background(), cfg, src, mgr)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestRunTrackingFailuresDoNotFailCommand(t *testing.T) {
	cfg := testConfig(t, schema.GDPPerCapita)
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.Anything).Return(records("2000", "1", "2001", "2"), nil)

	t.Run("begin fails", func(t *testing.T) {
		store := &iocache.MockAnalysisStore{}
		store.On("BeginAnalysis", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetAnalysisStore").Return(store)

		_, err := GetSummaryResults(context.Background(), cfg, src, mgr)
		require.NoError(t, err)
		store.AssertNotCalled(t, "RecordSeriesResult", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "EndAnalysis", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("record and end fail", func(t *testing.T) {
		store := &iocache.MockAnalysisStore{}
		store.On("BeginAnalysis", mock.Anything, mock.Anything).Return(int64(3), nil)
		store.On("RecordSeriesResult", int64(3), mock.Anything).Return(errors.New("constraint"))
		store.On("EndAnalysis", int64(3), mock.Anything, 1).Return(errors.New("lost"))
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetAnalysisStore").Return(store)

		_, err := GetSeriesResults(context.Background(), cfg, src, mgr)
		require.NoError(t, err)
		store.AssertExpectations(t)
	})
}

func TestExecuteIndicators(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut}
	var buf bytes.Buffer
	require.NoError(t, ExecuteIndicators(context.Background(), &buf, cfg, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, len(schema.Indicators)+1)
	assert.True(t, strings.HasPrefix(lines[1], "gdp,"))
}

func TestExecuteSummaryAgainstStub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, data360.DataPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":3,"value":[
			{"TIME_PERIOD":"2000","OBS_VALUE":"4000"},
			{"TIME_PERIOD":"2001","OBS_VALUE":"4100"},
			{"TIME_PERIOD":"2002","OBS_VALUE":"4400"}]}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, schema.GDPPerCapita)
	cfg.APIURL = srv.URL
	cfg.Timeout = contract.DefaultTimeout
	cfg.MaxPages = contract.DefaultMaxPages

	var buf bytes.Buffer
	require.NoError(t, ExecuteSummary(context.Background(), &buf, cfg, nil))

	var decoded schema.SummaryResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 4400.0, decoded.Summary.LatestValue)
	assert.InDelta(t, 10.0, decoded.Summary.GrowthSinceBaseline, 1e-9)
}
