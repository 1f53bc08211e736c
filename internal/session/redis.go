package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/merolabs/meroview-backend/internal/model"
)

const (
	redisKeyPrefix  = "meroview:session:"
	redisSyncCh     = "meroview:session.sync"
	redisBufferSize = 16
)

// RedisKV stores session keys in Redis so several dashboard processes on
// the same origin observe the same last-write-wins state.
type RedisKV struct {
	rdb *redis.Client
}

// NewRedisKV wraps an existing client.
func NewRedisKV(rdb *redis.Client) *RedisKV {
	return &RedisKV{rdb: rdb}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := kv.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (kv *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := kv.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (kv *RedisKV) Delete(ctx context.Context, key string) error {
	if err := kv.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// RedisBus broadcasts sync envelopes over Redis Pub/Sub. Like the storage
// events it stands in for, delivery is best-effort: a dropped envelope
// only delays adoption until the next broadcast.
type RedisBus struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisBus wraps an existing client.
func NewRedisBus(rdb *redis.Client, log zerolog.Logger) *RedisBus {
	return &RedisBus{
		rdb: rdb,
		log: log.With().Str("component", "session_bus").Logger(),
	}
}

func (b *RedisBus) Publish(ctx context.Context, env model.SyncEnvelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := b.rdb.Publish(ctx, redisSyncCh, raw).Err(); err != nil {
		return fmt.Errorf("publish envelope: %w", err)
	}
	return nil
}

// Subscribe delivers envelopes on a dedicated goroutine until cancel runs.
func (b *RedisBus) Subscribe(handler func(model.SyncEnvelope)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	pubsub := b.rdb.Subscribe(ctx, redisSyncCh)
	ch := pubsub.Channel(redis.WithChannelSize(redisBufferSize))

	go func() {
		for msg := range ch {
			var env model.SyncEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.log.Warn().Err(err).Msg("Dropping malformed sync envelope")
				continue
			}
			handler(env)
		}
	}()

	return func() {
		cancel()
		_ = pubsub.Close()
	}
}
