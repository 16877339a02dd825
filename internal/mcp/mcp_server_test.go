package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/internal/data360"
	mcp_internal "github.com/huangsam/macrodash/internal/mcp"
	"github.com/huangsam/macrodash/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig(t *testing.T) *contract.Config {
	cfg := &contract.Config{}
	input := &contract.ConfigRawInput{
		Window:       "all",
		Workers:      2,
		MaxPages:     contract.DefaultMaxPages,
		Precision:    2,
		Output:       "json",
		Color:        "no",
		CacheBackend: string(schema.NoneBackend),
	}
	require.NoError(t, contract.ProcessAndValidate(cfg, input))
	return cfg
}

func newServer(t *testing.T, src contract.DataSource) *server.MCPServer {
	factory := func(*contract.Config, contract.CacheManager) contract.DataSource { return src }
	return mcp_internal.NewMCPServer(baseConfig(t), nil, factory)
}

func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func records(pairs ...string) []schema.RawRecord {
	var out []schema.RawRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, schema.RawRecord{"TIME_PERIOD": pairs[i], "OBS_VALUE": pairs[i+1]})
	}
	return out
}

func TestListIndicators(t *testing.T) {
	s := newServer(t, &data360.MockDataSource{})
	res := call(t, s, "list_indicators", nil)
	assert.False(t, res.IsError)

	var decoded []schema.Indicator
	require.NoError(t, json.Unmarshal([]byte(text(res)), &decoded))
	assert.Len(t, decoded, len(schema.Indicators))
	assert.Equal(t, "gdp", decoded[0].Key)
}

func TestGetIndicatorSummary(t *testing.T) {
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.MatchedBy(func(req schema.FetchRequest) bool {
		return req.Country == "SGP" && req.Indicator.Key == "inflation"
	})).Return(records("1999", "1", "2000", "2", "2001", "3"), nil)

	s := newServer(t, src)
	res := call(t, s, "get_indicator_summary", map[string]any{"indicator": "inflation", "country": "sgp"})
	require.False(t, res.IsError, text(res))

	var decoded schema.SummaryResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &decoded))
	assert.Equal(t, "SGP", decoded.Query.Entity)
	require.NotNil(t, decoded.Summary)
	assert.Equal(t, 3.0, decoded.Summary.LatestValue)
	assert.Equal(t, "2000", decoded.Summary.Baseline.Period)
	assert.InDelta(t, 50.0, decoded.Summary.GrowthSinceBaseline, 1e-9)
	src.AssertExpectations(t)
}

func TestGetIndicatorSeriesWindow(t *testing.T) {
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.Anything).
		Return(records("2018", "10", "2019", "12", "2020", "14", "2021", "16", "2022", "18", "2023", "20"), nil)

	s := newServer(t, src)
	res := call(t, s, "get_indicator_series", map[string]any{"indicator": "gdp", "window": "last5"})
	require.False(t, res.IsError, text(res))

	var decoded schema.SeriesResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &decoded))
	require.Len(t, decoded.Rows, 5)
	assert.Equal(t, "2019", decoded.Rows[0].Period)
	require.NotNil(t, decoded.Rows[0].Trend)
	assert.InDelta(t, 12.0, *decoded.Rows[0].Trend, 1e-6)
}

func TestCompareCountries(t *testing.T) {
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.MatchedBy(func(req schema.FetchRequest) bool { return req.Country == "MYS" })).
		Return(records("2000", "1", "2001", "2"), nil)
	src.On("FetchRecords", mock.Anything, mock.MatchedBy(func(req schema.FetchRequest) bool { return req.Country == "THA" })).
		Return(records("2001", "5"), nil)

	s := newServer(t, src)
	res := call(t, s, "compare_countries", map[string]any{"indicator": "cpi", "countries": "MYS,THA"})
	require.False(t, res.IsError, text(res))

	var decoded schema.CompareResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &decoded))
	assert.Equal(t, []string{"MYS", "THA"}, decoded.Entities)
	assert.Equal(t, []string{"2000", "2001"}, decoded.Matrix.Years)
	assert.Nil(t, decoded.Matrix.Rows[0][1])
	require.NotNil(t, decoded.Matrix.Rows[1][1])
	assert.Equal(t, 5.0, *decoded.Matrix.Rows[1][1])
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newServer(t, &data360.MockDataSource{})

	t.Run("unknown indicator", func(t *testing.T) {
		res := call(t, s, "get_indicator_summary", map[string]any{"indicator": "unemployment"})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, text(res), "unknown indicator")
	})

	t.Run("multi unit indicator without unit", func(t *testing.T) {
		res := call(t, s, "get_indicator_series", map[string]any{"indicator": "credit-card"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "--unit is required")
	})

	t.Run("invalid window", func(t *testing.T) {
		res := call(t, s, "compare_countries", map[string]any{"indicator": "gdp", "window": "last7"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "invalid window")
	})

	t.Run("invalid country", func(t *testing.T) {
		res := call(t, s, "get_indicator_summary", map[string]any{"indicator": "gdp", "country": "Malaysia"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "invalid country")
	})
}

func TestMCPServerHandlers_NoData(t *testing.T) {
	src := &data360.MockDataSource{}
	src.On("FetchRecords", mock.Anything, mock.Anything).Return([]schema.RawRecord{}, nil)

	s := newServer(t, src)
	res := call(t, s, "get_indicator_summary", map[string]any{"indicator": "gdp"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "no observations")
}
