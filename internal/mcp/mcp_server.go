// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the slipstat MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Slipstat Move Statistics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: parse_replay ---
	s.AddTool(mcp.NewTool("parse_replay",
		mcp.WithDescription("Decode a Slippi replay (.slp) and return its game record, optionally with per-player move counts."),
		mcp.WithString("replay_path", mcp.Description("Path to the .slp replay file."), mcp.Required()),
		mcp.WithString("extract_moves", mcp.Description("Whether to classify moves ('true' or 'false'). Defaults to 'true'."), mcp.Enum("true", "false")),
	), h.handleParseReplay)

	// --- 2. Tool: aggregate_records ---
	s.AddTool(mcp.NewTool("aggregate_records",
		mcp.WithDescription("Aggregate move statistics across saved game records in a directory or the Redis record list."),
		mcp.WithString("directory", mcp.Description("Directory holding GameRecord JSON files. Required for the 'dir' source.")),
		mcp.WithString("source", mcp.Description("Where records are read from. Defaults to 'dir'."), mcp.Enum("dir", "redis")),
		mcp.WithString("pattern", mcp.Description("Glob for record files in the directory. Defaults to '*.json'.")),
		mcp.WithNumber("workers", mcp.Description("Number of concurrent record loaders.")),
	), h.handleAggregateRecords)

	// --- 3. Tool: list_moves ---
	s.AddTool(mcp.NewTool("list_moves",
		mcp.WithDescription("List the action states mapped to move names and the technique detection rules."),
	), h.handleListMoves)

	return s
}

// StartMCPServer starts the slipstat MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
