package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the ledger in a single hash keyed by external id.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(addr, key string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb, key: key}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Load(ctx context.Context) (map[string]string, error) {
	entries, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load ledger hash %s: %w", s.key, err)
	}
	return entries, nil
}

// Save replaces the hash in one pipeline so a reader never observes a
// half-written snapshot.
func (s *RedisStore) Save(ctx context.Context, entries map[string]string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	if len(entries) > 0 {
		flat := make(map[string]interface{}, len(entries))
		for id, priceText := range entries {
			flat[id] = priceText
		}
		pipe.HSet(ctx, s.key, flat)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save ledger hash %s: %w", s.key, err)
	}
	return nil
}
