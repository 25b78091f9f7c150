package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/newsinsight/newsinsight/internal/agent/config"
	"github.com/newsinsight/newsinsight/models"
)

const traceKeyPrefix = "newsinsight:trace:"

// RedisTraceStore keeps run traces as JSON values in Redis, one key per
// run, optionally expiring after TraceTTL.
type RedisTraceStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTraceStore dials Redis and verifies the connection.
func NewRedisTraceStore(cfg config.RedisConfig) (*RedisTraceStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisTraceStore{client: client, ttl: cfg.TraceTTL}, nil
}

func (r *RedisTraceStore) SaveTrace(ctx context.Context, trace models.RunTrace) error {
	payload, err := json.Marshal(trace)
	if err != nil {
		return fmt.Errorf("failed to marshal trace: %w", err)
	}
	if err := r.client.Set(ctx, traceKeyPrefix+trace.RunID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save trace: %w", err)
	}
	return nil
}

// GetTrace loads one trace back, mostly for inspection tooling.
func (r *RedisTraceStore) GetTrace(ctx context.Context, runID string) (models.RunTrace, error) {
	payload, err := r.client.Get(ctx, traceKeyPrefix+runID).Bytes()
	if err == redis.Nil {
		return models.RunTrace{}, ErrNotFound
	}
	if err != nil {
		return models.RunTrace{}, fmt.Errorf("failed to load trace: %w", err)
	}
	var trace models.RunTrace
	if err := json.Unmarshal(payload, &trace); err != nil {
		return models.RunTrace{}, fmt.Errorf("failed to decode trace: %w", err)
	}
	return trace, nil
}

func (r *RedisTraceStore) Close() error {
	return r.client.Close()
}
