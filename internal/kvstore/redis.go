package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dom/weather-gate/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// RedisStore keeps the mapping as one redis hash with JSON-encoded fields.
type RedisStore[V any] struct {
	client *redis.Client
	key    string
}

func OpenRedis[V any](client *redis.Client, key string) *RedisStore[V] {
	return &RedisStore[V]{client: client, key: key}
}

func (s *RedisStore[V]) Load(ctx context.Context) (map[string]V, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: hgetall %s: %v", domain.ErrStorageIO, s.key, err)
	}

	records := make(map[string]V, len(fields))
	for field, raw := range fields {
		var v V
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("%w: decode %s/%s: %v", domain.ErrStorageIO, s.key, field, err)
		}
		records[field] = v
	}

	return records, nil
}

// Save replaces the hash in a MULTI/EXEC block.
func (s *RedisStore[V]) Save(ctx context.Context, records map[string]V) error {
	values := make(map[string]interface{}, len(records))
	for field, v := range records {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: encode %s/%s: %v", domain.ErrStorageIO, s.key, field, err)
		}
		values[field] = string(data)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.HSet(ctx, s.key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save %s: %v", domain.ErrStorageIO, s.key, err)
	}

	return nil
}
