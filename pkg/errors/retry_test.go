package errors

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastRetryConfig(attempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestRetryWithBackoffSucceedsImmediately(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(fastRetryConfig(3), func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoffRecovers(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(fastRetryConfig(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffExhausts(t *testing.T) {
	boom := errors.New("disk full")
	calls := 0

	err := RetryWithBackoff(fastRetryConfig(3), func() error {
		calls++
		return boom
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestEngineErrorWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := ErrSnapshotWrite.Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "persistence_write")

	// The template must stay pristine.
	assert.Nil(t, ErrSnapshotWrite.Err)
}
