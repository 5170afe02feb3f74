package metrics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zpam/spamnb/pkg/config"
)

// RedisStore keeps one Redis list of JSON records per training size
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and checks the connection
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	opt.DB = cfg.Database

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis connection failed: %w", err)
	}

	return &RedisStore{client: client, prefix: cfg.KeyPrefix}, nil
}

func (s *RedisStore) keysKey() string {
	return fmt.Sprintf("%s:results:keys", s.prefix)
}

func (s *RedisStore) listKey(key string) string {
	return fmt.Sprintf("%s:results:%s", s.prefix, key)
}

// Append pushes r onto the list for its training size
func (s *RedisStore) Append(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, s.listKey(r.Key()), data)
		pipe.SAdd(ctx, s.keysKey(), r.Key())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// Load reads every list
func (s *RedisStore) Load(ctx context.Context) (Collection, error) {
	keys, err := s.client.SMembers(ctx, s.keysKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list metric keys: %w", err)
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.StringSliceCmd, len(keys))
	for _, key := range keys {
		cmds[key] = pipe.LRange(ctx, s.listKey(key), 0, -1)
	}
	if len(keys) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to read metric lists: %w", err)
		}
	}

	c := Collection{}
	for key, cmd := range cmds {
		for _, raw := range cmd.Val() {
			var r Record
			if err := json.Unmarshal([]byte(raw), &r); err != nil {
				return nil, fmt.Errorf("corrupt record under %s: %w", key, err)
			}
			c[key] = append(c[key], r)
		}
	}
	return c, nil
}

// Reset deletes every stored record
func (s *RedisStore) Reset(ctx context.Context) error {
	keys, err := s.client.SMembers(ctx, s.keysKey()).Result()
	if err != nil {
		return err
	}

	del := []string{s.keysKey()}
	for _, key := range keys {
		del = append(del, s.listKey(key))
	}
	return s.client.Del(ctx, del...).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
