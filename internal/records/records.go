// Package records persists GameRecords and reads them back for aggregation.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
)

// ErrInvalidRecord is returned when a record decodes but its contents are inconsistent.
var ErrInvalidRecord = errors.New("invalid game record")

// DirSource reads GameRecords from JSON files in one directory.
type DirSource struct {
	dir     string
	pattern string
}

var (
	_ contract.RecordSource = &DirSource{} // Compile-time check
	_ contract.RecordSink   = &DirSink{}   // Compile-time check
)

// NewDirSource returns a source over files in dir whose names match pattern.
func NewDirSource(dir, pattern string) *DirSource {
	return &DirSource{dir: dir, pattern: pattern}
}

// Describe implements contract.RecordSource.
func (s *DirSource) Describe() string {
	return s.dir
}

// Names lists matching regular files in directory order.
func (s *DirSource) Names(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(s.pattern, entry.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Load reads and validates one record file.
func (s *DirSource) Load(_ context.Context, name string) (schema.GameRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return schema.GameRecord{}, err
	}
	return DecodeRecord(data)
}

// DecodeRecord parses a JSON GameRecord and checks it is self-consistent.
func DecodeRecord(data []byte) (schema.GameRecord, error) {
	var record schema.GameRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return schema.GameRecord{}, err
	}
	if err := Validate(record); err != nil {
		return schema.GameRecord{}, err
	}
	return record, nil
}

// EncodeRecord renders a GameRecord in the persisted exchange format.
func EncodeRecord(record schema.GameRecord) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate rejects records whose move data cannot belong to their players.
// A record that fails here must not contribute any counts.
func Validate(record schema.GameRecord) error {
	if record.PlayerCount < 0 || record.DurationFrames < 0 {
		return fmt.Errorf("%w: negative player count or duration", ErrInvalidRecord)
	}
	if record.PlayerCount != len(record.Players) {
		return fmt.Errorf("%w: player_count %d but %d players listed", ErrInvalidRecord, record.PlayerCount, len(record.Players))
	}
	ports := make([]uint8, 0, len(record.Players))
	for _, p := range record.Players {
		if p.Port < 1 || p.Port > 4 || slices.Contains(ports, p.Port) {
			return fmt.Errorf("%w: bad or duplicate port %d", ErrInvalidRecord, p.Port)
		}
		ports = append(ports, p.Port)
	}
	for _, m := range record.MoveRecords() {
		if !slices.Contains(ports, m.Port) {
			return fmt.Errorf("%w: moves for port %d without a player", ErrInvalidRecord, m.Port)
		}
	}
	return nil
}

// DirSink writes GameRecords as JSON files into one directory.
type DirSink struct {
	dir string
}

// NewDirSink returns a sink writing into dir, created on first save.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Save writes record to <dir>/<name> and returns the path.
func (s *DirSink) Save(_ context.Context, name string, record schema.GameRecord) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	data, err := EncodeRecord(record)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
