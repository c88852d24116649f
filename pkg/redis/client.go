package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis connection configuration
type Config struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Client wraps the go-redis client. When Redis is disabled the client
// is a no-op shell and callers fall back to in-process behavior.
type Client struct {
	rdb     *redis.Client
	enabled bool
	logger  *zap.Logger
}

// NewClient creates a Redis client. Connection failure downgrades the
// client to disabled rather than failing startup: the rate limiter has
// an in-memory fallback and nothing else depends on Redis.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-process fallbacks")
		return &Client{enabled: false, logger: logger}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, downgrading to in-process fallbacks",
			zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			zap.Error(err),
		)
		_ = rdb.Close()
		return &Client{enabled: false, logger: logger}
	}

	logger.Info("Connected to Redis",
		zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("database", cfg.DB),
	)

	return &Client{rdb: rdb, enabled: true, logger: logger}
}

// IsEnabled reports whether a live Redis connection is available
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled {
		return fmt.Errorf("redis disabled")
	}
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// IncrWindow increments a fixed-window counter and returns the new
// count. The expiry is set only when the key is created, so the window
// is anchored to the first hit.
func (c *Client) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	if !c.enabled {
		return 0, fmt.Errorf("redis disabled")
	}

	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment rate window: %w", err)
	}

	return incr.Val(), nil
}
