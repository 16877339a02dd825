// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"os"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

// SourceFactory builds the data source used by a tool call.
type SourceFactory func(cfg *contract.Config, mgr contract.CacheManager) contract.DataSource

// NewMCPServer initializes and configures the macrodash MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, newSource SourceFactory) *server.MCPServer {
	s := server.NewMCPServer(
		"Macrodash Indicator Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:   baseCfg,
		mgr:       mgr,
		newSource: newSource,
	}

	// --- 1. Tool: list_indicators ---
	s.AddTool(mcp.NewTool("list_indicators",
		mcp.WithDescription("List the indicators available from the World Bank Data360 API, with their units."),
	), h.handleListIndicators)

	// --- 2. Tool: get_indicator_summary ---
	s.AddTool(mcp.NewTool("get_indicator_summary",
		mcp.WithDescription("Summarize one indicator for one country: latest value, peak, growth since 2000, descriptive statistics and linear trend."),
		indicatorArg(),
		mcp.WithString("country", mcp.Description("ISO 3166 alpha-3 country code. Defaults to MYS.")),
		unitArg(),
		windowArg(),
	), h.handleGetSummary)

	// --- 3. Tool: get_indicator_series ---
	s.AddTool(mcp.NewTool("get_indicator_series",
		mcp.WithDescription("Return the yearly observations of one indicator for one country, joined with the fitted trend line."),
		indicatorArg(),
		mcp.WithString("country", mcp.Description("ISO 3166 alpha-3 country code. Defaults to MYS.")),
		unitArg(),
		windowArg(),
	), h.handleGetSeries)

	// --- 4. Tool: compare_countries ---
	s.AddTool(mcp.NewTool("compare_countries",
		mcp.WithDescription("Compare one indicator across several countries on a shared year axis. Missing years are null."),
		indicatorArg(),
		mcp.WithString("countries", mcp.Description("Comma-separated ISO 3166 alpha-3 codes. Defaults to the ASEAN members.")),
		unitArg(),
		windowArg(),
	), h.handleCompareCountries)

	return s
}

func indicatorArg() mcp.ToolOption {
	return mcp.WithString("indicator",
		mcp.Required(),
		mcp.Description("Indicator key (gdp, inflation, cpi, credit-card, mobile-banking)."),
		mcp.Enum("gdp", "inflation", "cpi", "credit-card", "mobile-banking"),
	)
}

func unitArg() mcp.ToolOption {
	return mcp.WithString("unit", mcp.Description("Unit code. Required for multi-unit indicators such as credit-card and mobile-banking."))
}

func windowArg() mcp.ToolOption {
	return mcp.WithString("window", mcp.Description("Time window: all, last5, last10, last20, last30 or sinceYYYY. Defaults to all."))
}

// StartMCPServer serves the tools over stdio until the client disconnects or ctx is done.
func StartMCPServer(ctx context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr, nil)
	log.Info().Msg("Starting MCP server on stdio")
	return server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout)
}
