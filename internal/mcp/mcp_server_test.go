package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/slipstat/internal/contract"
	mcp_internal "github.com/huangsam/slipstat/internal/mcp"
	"github.com/huangsam/slipstat/internal/slippi"
	"github.com/huangsam/slipstat/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *server.MCPServer {
	baseCfg := &contract.Config{
		Source:  schema.DirSource,
		Pattern: contract.DefaultPattern,
		Workers: 2,
	}
	// A nil manager disables the record cache and history
	return mcp_internal.NewMCPServer(baseCfg, nil)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newServer()

	t.Run("parse_replay missing path", func(t *testing.T) {
		res := callTool(t, s, "parse_replay", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "replay_path is required")
	})

	t.Run("parse_replay invalid extract_moves", func(t *testing.T) {
		res := callTool(t, s, "parse_replay", map[string]any{"replay_path": "a.slp", "extract_moves": "maybe"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid extract_moves")
	})

	t.Run("parse_replay missing file", func(t *testing.T) {
		res := callTool(t, s, "parse_replay", map[string]any{"replay_path": filepath.Join(t.TempDir(), "none.slp")})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "parse failed")
	})

	t.Run("aggregate_records without directory", func(t *testing.T) {
		res := callTool(t, s, "aggregate_records", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "record directory is required")
	})

	t.Run("aggregate_records bad pattern", func(t *testing.T) {
		res := callTool(t, s, "aggregate_records", map[string]any{"directory": t.TempDir(), "pattern": "["})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid pattern")
	})
}

func TestMCPServerParseReplay(t *testing.T) {
	replay := slippi.NewReplayBuilder().
		GameStart(31, false,
			slippi.BuilderPlayer{Index: 0, Character: 2, Stocks: 4},
			slippi.BuilderPlayer{Index: 1, Character: 20, Stocks: 4},
		).
		Frame(0, 0, 18, 0, 0).Frame(0, 1, 25, 0, 0).
		GameEnd().
		Bytes()
	path := filepath.Join(t.TempDir(), "game.slp")
	require.NoError(t, os.WriteFile(path, replay, 0o644))

	res := callTool(t, newServer(), "parse_replay", map[string]any{"replay_path": path})
	require.False(t, res.IsError, resultText(res))

	var record schema.GameRecord
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &record))
	assert.Equal(t, 2, record.PlayerCount)
	require.True(t, record.HasMoves())
	assert.Equal(t, schema.MoveCount{"jab": 1}, record.MoveRecords()[0].Moves)
	assert.Equal(t, schema.MoveCount{"neutral_b": 1, "laser": 1}, record.MoveRecords()[1].Moves)
}

func TestMCPServerAggregateRecords(t *testing.T) {
	dir := t.TempDir()
	record := `{"player_count":1,"duration_frames":10,"stage":"Battlefield",` +
		`"players":[{"port":1,"character":"Fox","stocks":4,"costume":0}],` +
		`"moves":[{"port":1,"character":"Fox","moves":{"shine":6}}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "g1.json"), []byte(record), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	res := callTool(t, newServer(), "aggregate_records", map[string]any{"directory": dir, "workers": 3.0})
	require.False(t, res.IsError, resultText(res))

	var report schema.AggregateReport
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
	assert.Equal(t, 2, report.Sources)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, uint32(1), report.Stats.TotalGames)
	name, ok := report.Stats.MostCommonMove()
	require.True(t, ok)
	assert.Equal(t, "shine", name)
}

func TestMCPServerListMoves(t *testing.T) {
	res := callTool(t, newServer(), "list_moves", nil)
	require.False(t, res.IsError)

	var listing schema.CatalogListing
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &listing))
	assert.Len(t, listing.Moves, 20)
	assert.Equal(t, schema.MoveCatalogEntry{Code: 13, Name: "nair"}, listing.Moves[0])
	assert.Len(t, listing.Techniques, 4)
}
