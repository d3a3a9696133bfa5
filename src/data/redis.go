package data

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultAlertStream receives one entry per adverse verdict.
const DefaultAlertStream = "capapp.alerts"

func ConnectRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return redis.NewClient(opt), nil
}

// StreamPublisher appends payloads to a Redis stream.
type StreamPublisher struct {
	rdb    *redis.Client
	stream string
}

func NewStreamPublisher(rdb *redis.Client, stream string) *StreamPublisher {
	if stream == "" {
		stream = DefaultAlertStream
	}
	return &StreamPublisher{rdb: rdb, stream: stream}
}

func (p *StreamPublisher) Publish(ctx context.Context, payload map[string]interface{}) error {
	_, err := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: payload,
	}).Result()
	if err != nil {
		return fmt.Errorf("redis: xadd %s: %w", p.stream, err)
	}
	return nil
}

func (p *StreamPublisher) Close() error {
	return p.rdb.Close()
}
