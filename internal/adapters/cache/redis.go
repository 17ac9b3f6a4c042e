package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/teamiq/internal/domain/analysis"
)

const defaultPrefix = "teamiq:analysis:"

// Redis stores reports as JSON strings under a key prefix.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis wraps client. ttl <= 0 stores keys without expiry.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) (analysis.Report, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return analysis.Report{}, ErrMiss
	}
	if err != nil {
		return analysis.Report{}, fmt.Errorf("redis get %s: %w", key, err)
	}
	var rep analysis.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return analysis.Report{}, fmt.Errorf("decode cached report %s: %w", key, err)
	}
	return rep, nil
}

func (r *Redis) Set(ctx context.Context, key string, rep analysis.Report) error { //nolint:gocritic // hugeParam: report is stored by value
	raw, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Len counts keys under the prefix with SCAN.
func (r *Redis) Len(ctx context.Context) int {
	n := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n
}

func (r *Redis) Backend() string { return BackendRedis }

func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
