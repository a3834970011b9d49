package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/slipstat/core"
	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleParseReplay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("replay_path", "")
	if path == "" {
		return mcp.NewToolResultError("replay_path is required"), nil
	}
	extract, err := contract.ParseBoolString(request.GetString("extract_moves", "true"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid extract_moves: %v", err)), nil
	}

	cfg := h.baseCfg.CloneWithTarget(path)
	cfg.ExtractMoves = extract

	record, err := core.GetParseResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(record, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAggregateRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.CloneWithTarget(request.GetString("directory", ""))
	if s := request.GetString("source", ""); s != "" {
		cfg.Source = schema.RecordSourceKind(s)
	}
	if p := request.GetString("pattern", ""); p != "" {
		cfg.Pattern = p
	}
	if w := request.GetInt("workers", 0); w > 0 {
		cfg.Workers = w
	}

	if err := contract.RevalidateAggregate(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid aggregation parameters: %v", err)), nil
	}

	report, err := core.GetAggregateResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListMoves(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(core.GetCatalog(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
