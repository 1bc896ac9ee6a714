package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// Client holds the connection backing the refresh-token session registry.
type Client struct {
	client *redis.Client
}

// NewRedisClient connects with the configured address and fails fast when
// the server does not answer a ping.
func NewRedisClient(cfg config.RedisConfig, log *zap.Logger) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	c := &Client{client: client}
	if err := c.Ping(context.Background()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("connected to redis", zap.String("addr", client.Options().Addr), zap.Int("db", cfg.DB))
	return c, nil
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

func (c *Client) GetClient() *redis.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}
