// Package redis publishes semp parsing telemetry: one hash update plus
// one pub/sub message per accepted frame, and the same pair per rejected
// frame, via a single pipelined HIncrBy+Publish per event.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client publishes semp telemetry to Redis.
type Client struct {
	client *redis.Client
	ctx    context.Context
}

// New creates a new Redis client
func New(addr string, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &Client{
		client: client,
		ctx:    ctx,
	}, nil
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	return c.client.Close()
}

// PublishFrame records one accepted frame: a running per-protocol accept
// counter in the "semp:frames" hash, plus a "protocol:name:length" message
// on the "semp:frames" channel.
func (c *Client) PublishFrame(protocol, name string, length int) error {
	pipe := c.client.Pipeline()
	pipe.HIncrBy(c.ctx, "semp:frames", protocol, 1)
	pipe.Publish(c.ctx, "semp:frames", fmt.Sprintf("%s:%s:%d", protocol, name, length))
	_, err := pipe.Exec(c.ctx)
	return err
}

// PublishRejection records one discarded/rejected frame attempt: a
// running per-protocol rejection counter in the "semp:errors" hash, plus
// a "protocol:reason" message on the "semp:errors" channel.
func (c *Client) PublishRejection(protocol, reason string) error {
	pipe := c.client.Pipeline()
	pipe.HIncrBy(c.ctx, "semp:errors", protocol, 1)
	pipe.Publish(c.ctx, "semp:errors", fmt.Sprintf("%s:%s", protocol, reason))
	_, err := pipe.Exec(c.ctx)
	return err
}
