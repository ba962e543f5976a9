package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is the durable key-value store behind the persistence layer. Values are
// opaque JSON blobs, one per named collection.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Load reads the value stored under key into a fresh T. A missing key or a
// blob that fails to unmarshal yields the fallback; both conditions are
// logged and never surfaced as errors, so one bad key cannot take the
// application down.
func Load[T any](ctx context.Context, kv KV, key string, fallback T) T {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error("storage_read_failed", "key", key, "error", err)
		}
		return fallback
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		slog.Error("storage_corrupt_value", "key", key, "error", err)
		return fallback
	}
	return value
}

// Save serializes value and stores it under key.
// POST: The blob under key reflects value, or an error is returned
func Save(ctx context.Context, kv KV, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
