package notification

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StreamAdder is the part of *redis.Client the stream sink needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

const streamMaxLen = 100000

// RedisStreamSink appends events to a Redis stream.
type RedisStreamSink struct {
	client StreamAdder
	stream string
}

func NewRedisStreamSink(client StreamAdder, stream string) *RedisStreamSink {
	return &RedisStreamSink{client: client, stream: stream}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func (s *RedisStreamSink) Publish(ctx context.Context, m Message) error {
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"id":          m.ID,
			"kind":        m.Kind,
			"booking_id":  m.BookingCode,
			"location_id": m.LocationID,
			"payload":     string(m.Payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
