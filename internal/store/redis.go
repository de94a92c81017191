package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gestao-facil/gestao-facil/internal/shared"
)

// RedisStore persists collections as JSON strings in Redis without expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get loads and unmarshals the value under key.
func (s *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: get %s: %v", shared.ErrStorage, key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", shared.ErrStorage, key, err)
	}
	return true, nil
}

// Set marshals value and overwrites key.
func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", shared.ErrStorage, key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

// SetMulti commits every entry inside a MULTI/EXEC pipeline so a logical
// operation touching two collections cannot land half-written.
func (s *RedisStore) SetMulti(ctx context.Context, entries map[string]any) error {
	encoded := make(map[string][]byte, len(entries))
	for key, value := range entries {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %v", shared.ErrStorage, key, err)
		}
		encoded[key] = data
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, data := range encoded {
			pipe.Set(ctx, key, data, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: multi set: %v", shared.ErrStorage, err)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: del %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
