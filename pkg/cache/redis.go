package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// clearMessage is broadcast when any replica's cache is cleared by a user.
type clearMessage struct {
	Origin string `json:"origin"`
	At     int64  `json:"at"`
}

// RedisBus fans cache clears out to every replica over Redis pub/sub.
// Cached series never leave process memory; only the clear signal travels.
type RedisBus struct {
	client  *redis.Client
	prefix  string
	channel string
	origin  string
}

// NewRedisBus connects to Redis and verifies the connection.
func NewRedisBus(opts ...RedisOption) (*RedisBus, error) {
	cfg := &RedisConfig{
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     4,
		PoolTimeout:  30 * time.Second,
		MinIdleConns: 1,
		Prefix:       "priceboard",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBus{
		client:  client,
		prefix:  cfg.Prefix,
		channel: GenerateKey(cfg.Prefix, "cache-clear"),
		origin:  uuid.NewString(),
	}, nil
}

// Close closes the Redis connection.
func (b *RedisBus) Close() error {
	return b.client.Close()
}

// PublishClear tells the other replicas to clear their caches.
func (b *RedisBus) PublishClear(ctx context.Context) error {
	data, err := json.Marshal(clearMessage{Origin: b.origin, At: time.Now().Unix()})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

// Subscribe calls onClear for every clear published by another replica
// until ctx is done.
func (b *RedisBus) Subscribe(ctx context.Context, onClear func()) error {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if shouldApply(b.origin, msg.Payload) {
					onClear()
				}
			}
		}
	}()
	return nil
}

// PublishMessage publishes an arbitrary JSON payload under the bus prefix.
// It lets the log collector ship aggregated diagnostics.
func (b *RedisBus) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, GenerateKey(b.prefix, topic), data).Err()
}

// shouldApply reports whether a clear payload came from another replica.
// Unreadable payloads are applied: clearing too often is harmless.
func shouldApply(self, payload string) bool {
	var m clearMessage
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return true
	}
	return m.Origin != self
}
