package storage

import (
	"context"
	"time"
)

// TimedKV wraps a KV and reports the duration of every operation through
// Observe. Used to feed the perf dashboard without coupling storage to it.
type TimedKV struct {
	Inner   KV
	Observe func(op string, d time.Duration)
}

// Get delegates to the inner store and reports the elapsed time as "kv.Get".
func (t *TimedKV) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := t.Inner.Get(ctx, key)
	t.Observe("kv.Get", time.Since(start))
	return value, err
}

// Put delegates to the inner store and reports the elapsed time as "kv.Put".
func (t *TimedKV) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := t.Inner.Put(ctx, key, value)
	t.Observe("kv.Put", time.Since(start))
	return err
}
