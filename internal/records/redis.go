package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
	"github.com/redis/go-redis/v9"
)

// ErrRecordNotFound is returned when a listed record has no stored value.
var ErrRecordNotFound = errors.New("record not found")

// RedisStore keeps GameRecords in Redis. Each record lives at <key>:game:<name>
// and <key>:games lists the names in publish order.
type RedisStore struct {
	client *redis.Client
	key    string
}

var (
	_ contract.RecordSource = &RedisStore{} // Compile-time check
	_ contract.RecordSink   = &RedisStore{} // Compile-time check
)

// NewRedisStore connects to addr, either a redis:// URL or host:port.
func NewRedisStore(addr, key string) (*RedisStore, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis address: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}
	return NewRedisStoreWithClient(redis.NewClient(opts), key), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Describe implements contract.RecordSource.
func (s *RedisStore) Describe() string {
	return fmt.Sprintf("redis list %s", s.listKey())
}

// Names returns record names in publish order.
func (s *RedisStore) Names(ctx context.Context) ([]string, error) {
	return s.client.LRange(ctx, s.listKey(), 0, -1).Result()
}

// Load reads and validates one record.
func (s *RedisStore) Load(ctx context.Context, name string) (schema.GameRecord, error) {
	data, err := s.client.Get(ctx, s.recordKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return schema.GameRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, name)
	}
	if err != nil {
		return schema.GameRecord{}, err
	}
	return DecodeRecord(data)
}

// Save stores record and appends name to the list. Publishing the same name
// again replaces the record and moves it to the end of the list.
func (s *RedisStore) Save(ctx context.Context, name string, record schema.GameRecord) (string, error) {
	data, err := EncodeRecord(record)
	if err != nil {
		return "", fmt.Errorf("marshaling record: %w", err)
	}
	key := s.recordKey(name)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.LRem(ctx, s.listKey(), 0, name)
	pipe.RPush(ctx, s.listKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return key, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) listKey() string {
	return s.key + ":games"
}

func (s *RedisStore) recordKey(name string) string {
	return s.key + ":game:" + name
}
