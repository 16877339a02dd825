package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/macrodash/core"
	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	mgr       contract.CacheManager
	newSource SourceFactory
}

// prepare clones the base config and applies the tool arguments to it.
func (h *toolHandler) prepare(request mcp.CallToolRequest) (*contract.Config, contract.DataSource, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateQuery(cfg, contract.QueryOverrides{
		Indicator: request.GetString("indicator", ""),
		Country:   request.GetString("country", ""),
		Countries: request.GetString("countries", ""),
		Unit:      request.GetString("unit", ""),
		Window:    request.GetString("window", ""),
	})
	if err != nil {
		return nil, nil, err
	}

	newSource := h.newSource
	if newSource == nil {
		newSource = core.NewDataSource
	}
	return cfg, newSource(cfg, h.mgr), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListIndicators(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(schema.Indicators)
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, src, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid summary parameters: %v", err)), nil
	}

	result, err := core.GetSummaryResults(ctx, cfg, src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, src, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid series parameters: %v", err)), nil
	}

	result, err := core.GetSeriesResults(ctx, cfg, src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleCompareCountries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, src, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}

	result, err := core.GetCompareResults(ctx, cfg, src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(result)
}
