package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	bolt "go.etcd.io/bbolt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// RetryConfig configures how often opening a locked database is retried.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	JitterFraction float64 // 0.0 to 1.0
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		JitterFraction: 0.25,
	}
}

// OpenWithRetry opens a store like Open but retries while another process
// holds the database lock.
func OpenWithRetry(ctx context.Context, backend, path string, cfg *RetryConfig) (Store, error) {
	return openWithRetry(ctx, cfg, func() (Store, error) {
		return Open(backend, path)
	})
}

func openWithRetry(ctx context.Context, cfg *RetryConfig, open func() (Store, error)) (Store, error) {
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		st, err := open()
		if err == nil {
			return st, nil
		}
		lastErr = err
		if !isLocked(err) {
			return nil, err
		}
		if attempt < cfg.MaxRetries {
			if err := sleep(ctx, cfg.backoff(attempt)); err != nil {
				return nil, fmt.Errorf("open store: %w (retry cancelled)", lastErr)
			}
		}
	}
	return nil, fmt.Errorf("open store: %w (after %d retries)", lastErr, cfg.MaxRetries)
}

// isLocked reports whether err means another process holds the database.
func isLocked(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, bolt.ErrTimeout) {
		return true
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return false
}

// backoff computes the delay for the given attempt with jitter.
func (c *RetryConfig) backoff(attempt int) time.Duration {
	base := float64(c.InitialBackoff) * math.Pow(2, float64(attempt))
	if base > float64(c.MaxBackoff) {
		base = float64(c.MaxBackoff)
	}
	jitter := base * c.JitterFraction * (rand.Float64()*2 - 1)
	d := time.Duration(base + jitter)
	if d < 0 {
		d = 0
	}
	return d
}

// sleep waits for the given duration or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
