package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"btc-price-publisher/internal/config"
	"btc-price-publisher/internal/event"
)

type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

type redisSink struct {
	client  publisher
	channel string
}

func NewRedis(cfg config.RedisConfig) Sink {
	return &redisSink{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		channel: cfg.Channel,
	}
}

func (r *redisSink) Name() string { return "redis" }

func (r *redisSink) Push(ctx context.Context, events []event.Event) error {
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("redis: marshal event: %w", err)
		}
		if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
			return fmt.Errorf("redis: publish to %s: %w", r.channel, err)
		}
	}
	return nil
}

func (r *redisSink) Close() error {
	return r.client.Close()
}
