package storage

import (
	"context"
	"time"
)

// LatencyKV wraps a KV and delays every operation by a fixed duration. The
// original client fabricated network latency on each storage call; this
// wrapper reproduces that in development so slow-storage behavior stays
// observable.
type LatencyKV struct {
	inner KV
	delay time.Duration
}

// NewLatencyKV wraps inner with a per-operation delay.
func NewLatencyKV(inner KV, delay time.Duration) *LatencyKV {
	return &LatencyKV{inner: inner, delay: delay}
}

// Get delays, then delegates.
func (s *LatencyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	return s.inner.Get(ctx, key)
}

// Put delays, then delegates.
func (s *LatencyKV) Put(ctx context.Context, key string, value []byte) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}
	return s.inner.Put(ctx, key, value)
}

func (s *LatencyKV) sleep(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
