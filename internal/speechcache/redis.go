package speechcache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/lingua/internal/llm"
)

const (
	// DefaultTTL is how long a phrase stays cached in Redis.
	DefaultTTL = 7 * 24 * time.Hour

	redisKeyPrefix = "lingua:speech:"
)

// Redis stores audio as a hash of mime type and data with a TTL.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ Cache = (*Redis)(nil)

// NewRedis creates a Redis-backed cache. ttl <= 0 uses DefaultTTL.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedis(client, ttl), nil
}

func redisKey(text string) string {
	return redisKeyPrefix + key(text)
}

func (r *Redis) Get(ctx context.Context, text string) (*llm.Audio, bool, error) {
	fields, err := r.client.HGetAll(ctx, redisKey(text)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("get cached speech: %w", err)
	}
	data, ok := fields["data"]
	if !ok {
		return nil, false, nil
	}
	return &llm.Audio{MIMEType: fields["mime"], Data: []byte(data)}, true, nil
}

func (r *Redis) Set(ctx context.Context, text string, audio *llm.Audio) error {
	if audio == nil {
		return nil
	}
	k := redisKey(text)
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, "mime", audio.MIMEType, "data", audio.Data)
		p.Expire(ctx, k, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set cached speech: %w", err)
	}
	return nil
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
