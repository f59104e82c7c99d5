package kv

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
	// ErrConflict is returned by Update when the key changed between read and write.
	ErrConflict = errors.New("concurrent modification")
)

// UpdateFunc receives the current value (nil when the key is absent) and returns the value to store.
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	// Update performs a read-modify-write with an optimistic check and no retry.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}

// Namespaced prefixes all keys with ns + ":" unless ns is empty.
func Namespaced(ns, key string) string {
	if ns == "" {
		return key
	}
	return ns + ":" + key
}
