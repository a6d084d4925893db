package valkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/config"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

const keyPrefix = "churn:prediction:"

// Client caches prediction results in Valkey
type Client struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewClient connects to Valkey and verifies the connection
func NewClient(ctx context.Context, cfg config.Valkey, log *zap.Logger) (*Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Valkey at %s: %w", addr, err)
	}

	log.Info("Valkey connection established",
		zap.String("address", addr),
		zap.Int("ttl_sec", cfg.TTLSec))

	return NewClientFromRedis(client, time.Duration(cfg.TTLSec)*time.Second, log), nil
}

// NewClientFromRedis wraps an existing go-redis client
func NewClientFromRedis(client *redis.Client, ttl time.Duration, log *zap.Logger) *Client {
	return &Client{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get returns a cached result. Errors are logged and reported as a miss.
func (c *Client) Get(ctx context.Context, key string) (*domain.PredictionResult, bool) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Prediction cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var result domain.PredictionResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.log.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &result, true
}

// Set stores a result with the configured TTL. Errors are logged only.
func (c *Client) Set(ctx context.Context, key string, result *domain.PredictionResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.log.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.log.Warn("Prediction cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Ping checks if the Valkey connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Valkey connection
func (c *Client) Close() error {
	return c.client.Close()
}
