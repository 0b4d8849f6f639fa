package notifier

import (
	"context"
	"encoding/base64"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier implements Notifier on Redis streams. Each destination
// handle maps to its own stream; the messenger bridge that actually
// delivers to chat groups consumes them downstream.
type RedisNotifier struct {
	client       *redis.Client
	ctx          context.Context
	streamPrefix string
	maxLength    int64
}

// NewRedisNotifier creates a new Redis notifier
func NewRedisNotifier(ctx context.Context, addr string, db int, streamPrefix string, maxLength int) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client:       client,
		ctx:          ctx,
		streamPrefix: streamPrefix,
		maxLength:    int64(maxLength),
	}
}

// Send appends the message to the destination's stream.
// The body is base64 encoded so multi-line text survives any consumer.
func (n *RedisNotifier) Send(destination string, text string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))

	stream := n.streamPrefix + ":" + destination

	return n.client.XAdd(n.ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: n.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			"body": encoded,
		},
	}).Err()
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
