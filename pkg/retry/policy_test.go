package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jzx17/gotasker/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestFixedDelay(t *testing.T) {
	policy := NewFixedDelay(3, 100*time.Millisecond)
	err := errors.New("temporary")

	assert.Equal(t, 3, policy.MaxAttempts())
	assert.True(t, policy.ShouldRetry(err, 1))
	assert.True(t, policy.ShouldRetry(err, 2))
	assert.False(t, policy.ShouldRetry(err, 3))

	for attempt := 1; attempt <= 3; attempt++ {
		assert.Equal(t, 100*time.Millisecond, policy.NextDelay(attempt))
	}
}

func TestExponentialBackoff_NextDelay(t *testing.T) {
	tests := []struct {
		name     string
		policy   *ExponentialBackoff
		attempt  int
		expected time.Duration
	}{
		{"first attempt", NewExponentialBackoff(5, 10*time.Millisecond), 1, 10 * time.Millisecond},
		{"second attempt", NewExponentialBackoff(5, 10*time.Millisecond), 2, 20 * time.Millisecond},
		{"fourth attempt", NewExponentialBackoff(5, 10*time.Millisecond), 4, 80 * time.Millisecond},
		{"non-positive attempt", NewExponentialBackoff(5, 10*time.Millisecond), 0, 10 * time.Millisecond},
		{"custom multiplier", NewExponentialBackoff(5, 10*time.Millisecond).WithMultiplier(3), 3, 90 * time.Millisecond},
		{"capped", NewExponentialBackoff(10, time.Second).WithMaxDelay(5 * time.Second), 8, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.policy.NextDelay(tt.attempt))
		})
	}
}

func TestWithJitter(t *testing.T) {
	policy := NewFixedDelay(3, 100*time.Millisecond, WithJitter(0.2))

	for i := 0; i < 100; i++ {
		delay := policy.NextDelay(1)
		assert.GreaterOrEqual(t, delay, 80*time.Millisecond)
		assert.LessOrEqual(t, delay, 120*time.Millisecond)
	}
}

func TestDefaultCondition(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("temporary"), true},
		{"permanent", types.Permanent(errors.New("bad payload")), false},
		{"wrapped permanent", fmt.Errorf("write: %w", types.Permanent(errors.New("bad"))), false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultCondition(tt.err))
		})
	}
}

func TestWithCondition(t *testing.T) {
	retryable := errors.New("retryable")
	policy := NewFixedDelay(5, 0, WithCondition(func(err error) bool {
		return errors.Is(err, retryable)
	}))

	assert.True(t, policy.ShouldRetry(retryable, 1))
	assert.False(t, policy.ShouldRetry(errors.New("other"), 1))
}
