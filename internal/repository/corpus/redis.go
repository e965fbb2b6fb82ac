package corpusrepo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/rueidis"

	"github.com/korthouse/mediadex/internal/corpus"
	"github.com/korthouse/mediadex/internal/domain/media"
)

// RedisConfig holds connection parameters for a Redis corpus source.
type RedisConfig struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisSource loads the corpus from Redis hashes. Records live under
// <prefix>media:<post>:<media> with display fields as plain hash fields
// and the embedding as raw little-endian float32 bytes in __vector.
type RedisSource struct {
	client rueidis.Client
	prefix string
}

// NewRedisSource creates a Redis corpus source via rueidis.
func NewRedisSource(cfg RedisConfig) (*RedisSource, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &RedisSource{client: client, prefix: cfg.KeyPrefix}, nil
}

// Ping checks connectivity.
func (s *RedisSource) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *RedisSource) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the source responds or timeout expires.
func (s *RedisSource) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for corpus source: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Load scans all record hashes and builds the immutable store. SCAN
// iteration order is not deterministic, so records are sorted by their
// composite key before the store is built; that sorted order is the
// corpus order all tie-breaking refers to.
func (s *RedisSource) Load(ctx context.Context) (*corpus.Store, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.client.B().Hgetall().Key(key).Build()
	}

	records := make([]media.Record, 0, len(keys))
	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		fields, err := res.AsStrMap()
		if err != nil {
			return nil, fmt.Errorf("hgetall %s: %w", keys[i], err)
		}
		rec, err := parseHashFields(fields)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", keys[i], err)
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].Key(), records[j].Key()
		if a.PostIndex != b.PostIndex {
			return a.PostIndex < b.PostIndex
		}
		return a.MediaIndex < b.MediaIndex
	})

	store, err := corpus.NewStore(records)
	if err != nil {
		return nil, fmt.Errorf("build corpus store: %w", err)
	}
	return store, nil
}

// scanKeys collects all record hash keys under the media prefix.
func (s *RedisSource) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64

	match := s.prefix + "media:*"
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(match).Count(512).Build()
		entry, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", match, err)
		}
		keys = append(keys, entry.Elements...)
		cursor = entry.Cursor
		if cursor == 0 {
			return keys, nil
		}
	}
}
