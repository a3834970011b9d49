package core

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/huangsam/slipstat/core/moves"
	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/internal/records"
	"github.com/huangsam/slipstat/internal/slippi"
	"github.com/huangsam/slipstat/schema"
)

// GetParseResult decodes cfg.Target into a GameRecord, going through the
// record cache when one is configured.
func GetParseResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.GameRecord, error) {
	if !shouldSuppressHeader(ctx) {
		logParseHeader(cfg)
	}

	data, err := os.ReadFile(cfg.Target)
	if err != nil {
		return schema.GameRecord{}, fmt.Errorf("failed to read replay %s: %w", cfg.Target, err)
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetRecordStore()
	}
	return cachedRecord(store, recordCacheKey(data, cfg.ExtractMoves), func() (schema.GameRecord, error) {
		return parseReplay(ctx, slippi.NewDecoder(), data, cfg)
	})
}

// parseReplay decodes data and builds its record.
func parseReplay(ctx context.Context, decoder contract.ReplayDecoder, data []byte, cfg *contract.Config) (schema.GameRecord, error) {
	game, err := decoder.Decode(bytes.NewReader(data))
	if err != nil {
		return schema.GameRecord{}, fmt.Errorf("failed to decode replay %s: %w", cfg.Target, err)
	}
	return BuildRecord(ctx, game, cfg.ExtractMoves, cfg.Workers)
}

// BuildRecord turns a decoded game into a GameRecord. Moves stay nil unless
// extractMoves is set; an extraction over zero players yields an empty list.
func BuildRecord(ctx context.Context, game *schema.Game, extractMoves bool, workers int) (schema.GameRecord, error) {
	players := game.Start.Players
	if players == nil {
		players = []schema.PlayerInfo{}
	}
	record := schema.GameRecord{
		PlayerCount:    len(players),
		DurationFrames: len(game.Frames),
		Stage:          game.Start.Stage,
		Players:        players,
	}
	if !extractMoves {
		return record, nil
	}

	extracted, err := moves.ExtractConcurrent(ctx, game.Frames, players, workers)
	if err != nil {
		return schema.GameRecord{}, err
	}
	record.Moves = &extracted
	return record, nil
}

// persistRecord writes record to every configured sink.
func persistRecord(ctx context.Context, cfg *contract.Config, record schema.GameRecord) error {
	name := contract.RecordFileName(cfg.Target)

	if cfg.SaveDir != "" {
		path, err := records.NewDirSink(cfg.SaveDir).Save(ctx, name, record)
		if err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Saved record to %s\n", path)
	}

	if cfg.Publish {
		store, err := records.NewRedisStore(cfg.RedisAddr, cfg.RedisKey)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		key, err := publishRecord(ctx, store, name, record)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stderr, "📤 Published record to %s\n", key)
	}
	return nil
}

// publishRecord saves record to sink, wrapping failures for the CLI.
func publishRecord(ctx context.Context, sink contract.RecordSink, name string, record schema.GameRecord) (string, error) {
	key, err := sink.Save(ctx, name, record)
	if err != nil {
		return "", fmt.Errorf("failed to publish record: %w", err)
	}
	return key, nil
}
