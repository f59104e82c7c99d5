package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/repit/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get [%s]: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set [%s]: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del [%s]: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, key string, fn UpdateFunc) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kv.redis.update")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		exists := true
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				return fmt.Errorf("redis get [%s]: %w", key, err)
			}
			current, exists = nil, false
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}

		// only executed if the watched key is unchanged
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}

	err = s.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
