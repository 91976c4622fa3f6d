// Package redistore implements a Redis-backed graph.ValueStore using
// redis/go-redis/v9, grounded on the teacher's
// internal/infrastructure/cache.RedisCache (ParseURL + option overrides +
// Ping-to-verify). Redis has no stat-mtime primitive, so the modified time
// is tracked in a companion key holding a Unix-nanosecond timestamp.
package redistore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/internal/config"
)

// ErrEmpty is returned by Read when key has never been written.
var ErrEmpty = errors.New("redistore: no value written yet")

// NewClient builds a *redis.Client from cfg, mirroring the teacher's
// NewRedisCache: parse the URL, then override pool/auth fields from config.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redistore: parse url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redistore: connect: %w", err)
	}

	return client, nil
}

// Store is a graph.ValueStore backed by two Redis keys: key holds the
// JSON-encoded value, key+":mtime" holds its last-write Unix-nanosecond
// timestamp.
type Store struct {
	client redis.Cmdable
	key    string
}

var _ graph.ValueStore = (*Store)(nil)

// New returns a Store for key against client.
func New(client redis.Cmdable, key string) *Store {
	return &Store{client: client, key: key}
}

func (s *Store) mtimeKey() string { return s.key + ":mtime" }

// Read fetches and JSON-decodes s.key's value.
func (s *Store) Read() (any, error) {
	ctx := context.Background()
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("redistore: %s: %w", s.key, ErrEmpty)
		}
		return nil, fmt.Errorf("redistore: read %s: %w", s.key, err)
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("redistore: decode %s: %w", s.key, err)
	}
	return value, nil
}

// Write JSON-encodes value into s.key and stamps s.mtimeKey() with the
// current Unix-nanosecond time.
func (s *Store) Write(value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redistore: encode %s: %w", s.key, err)
	}

	ctx := context.Background()
	now := time.Now().UTC()
	if err := s.client.Set(ctx, s.key, encoded, 0).Err(); err != nil {
		return fmt.Errorf("redistore: write %s: %w", s.key, err)
	}
	if err := s.client.Set(ctx, s.mtimeKey(), strconv.FormatInt(now.UnixNano(), 10), 0).Err(); err != nil {
		return fmt.Errorf("redistore: write mtime %s: %w", s.key, err)
	}
	return nil
}

// ModifiedTime reads s.mtimeKey(). ok is false if the value was never
// written (the key is absent rather than zero).
func (s *Store) ModifiedTime() (time.Time, bool, error) {
	ctx := context.Background()
	raw, err := s.client.Get(ctx, s.mtimeKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("redistore: modified_time %s: %w", s.key, err)
	}

	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redistore: modified_time %s: %w", s.key, err)
	}
	return time.Unix(0, nanos).UTC(), true, nil
}
