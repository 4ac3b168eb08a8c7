package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func fastRetry(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
		JitterFraction: 0.0,
	}
}

func TestIsLocked(t *testing.T) {
	assert.False(t, isLocked(nil))
	assert.True(t, isLocked(bolt.ErrTimeout))
	assert.True(t, isLocked(fmt.Errorf("open database: %w", bolt.ErrTimeout)))
	assert.False(t, isLocked(errors.New("permission denied")))
	assert.False(t, isLocked(ErrUnknownBackend))
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := &RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		JitterFraction: 0.0, // no jitter for deterministic test
	}

	assert.Equal(t, 100*time.Millisecond, cfg.backoff(0))
	assert.Equal(t, 200*time.Millisecond, cfg.backoff(1))
	assert.Equal(t, 400*time.Millisecond, cfg.backoff(2))
}

func TestRetryConfig_BackoffCapped(t *testing.T) {
	cfg := &RetryConfig{
		MaxRetries:     10,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     5 * time.Second,
		JitterFraction: 0.0,
	}

	assert.Equal(t, 5*time.Second, cfg.backoff(10))
}

func TestOpenWithRetry_SucceedsAfterLock(t *testing.T) {
	want := newTestStore(t, BackendBbolt)
	attempts := 0

	st, err := openWithRetry(context.Background(), fastRetry(3), func() (Store, error) {
		attempts++
		if attempts < 3 {
			return nil, fmt.Errorf("open database: %w", bolt.ErrTimeout)
		}
		return want, nil
	})

	require.NoError(t, err)
	assert.Same(t, want, st)
	assert.Equal(t, 3, attempts)
}

func TestOpenWithRetry_Exhausted(t *testing.T) {
	attempts := 0

	_, err := openWithRetry(context.Background(), fastRetry(2), func() (Store, error) {
		attempts++
		return nil, bolt.ErrTimeout
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, bolt.ErrTimeout)
	assert.Contains(t, err.Error(), "after 2 retries")
	assert.Equal(t, 3, attempts)
}

func TestOpenWithRetry_NoRetryOnOtherErrors(t *testing.T) {
	attempts := 0

	_, err := openWithRetry(context.Background(), fastRetry(3), func() (Store, error) {
		attempts++
		return nil, ErrUnknownBackend
	})

	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Equal(t, 1, attempts)
}

func TestOpenWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &RetryConfig{
		MaxRetries:     5,
		InitialBackoff: 1 * time.Hour,
		MaxBackoff:     1 * time.Hour,
	}
	attempts := 0
	_, err := openWithRetry(ctx, cfg, func() (Store, error) {
		attempts++
		return nil, bolt.ErrTimeout
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry cancelled")
	assert.Equal(t, 1, attempts)
}

func TestOpenWithRetry_BboltHeldByAnotherHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snip.db")
	held, err := Open(BackendBbolt, path)
	require.NoError(t, err)
	defer held.Close()

	_, err = OpenWithRetry(context.Background(), BackendBbolt, path, fastRetry(0))
	require.Error(t, err)
	assert.True(t, isLocked(err))
}

func TestSleep_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
}

func TestSleep_Normal(t *testing.T) {
	assert.NoError(t, sleep(context.Background(), time.Millisecond))
}
