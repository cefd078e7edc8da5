// Package retry provides retry strategies for fallible processing functions
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/jzx17/gotasker/pkg/types"
)

// Policy defines the retry strategy interface
type Policy interface {
	// ShouldRetry determines whether to retry after the given attempt failed with err
	ShouldRetry(err error, attempt int) bool

	// NextDelay returns the delay before the attempt following the given one
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the maximum number of attempts, including the first
	MaxAttempts() int
}

// Condition decides whether an error is worth retrying
type Condition func(error) bool

// basePolicy provides common retry functionality
type basePolicy struct {
	maxAttempts  int
	condition    Condition
	jitterFactor float64 // 0 disables jitter
}

func newBasePolicy(maxAttempts int, opts ...PolicyOption) basePolicy {
	p := basePolicy{
		maxAttempts: maxAttempts,
		condition:   DefaultCondition,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// ShouldRetry determines whether to retry
func (p *basePolicy) ShouldRetry(err error, attempt int) bool {
	if attempt >= p.maxAttempts {
		return false
	}
	return p.condition(err)
}

// MaxAttempts returns the maximum retry attempts
func (p *basePolicy) MaxAttempts() int {
	return p.maxAttempts
}

// applyJitter spreads delay uniformly within ±jitterFactor
func (p *basePolicy) applyJitter(delay time.Duration) time.Duration {
	if p.jitterFactor <= 0 {
		return delay
	}

	jitterRange := float64(delay) * p.jitterFactor
	result := delay + time.Duration((rand.Float64()-0.5)*2*jitterRange)
	if result < 0 {
		result = delay / 2
	}
	return result
}

// FixedDelay waits the same delay between every attempt
type FixedDelay struct {
	basePolicy
	delay time.Duration
}

// NewFixedDelay creates a fixed delay retry policy
func NewFixedDelay(maxAttempts int, delay time.Duration, opts ...PolicyOption) *FixedDelay {
	return &FixedDelay{
		basePolicy: newBasePolicy(maxAttempts, opts...),
		delay:      delay,
	}
}

// NextDelay returns the delay for the next retry
func (p *FixedDelay) NextDelay(int) time.Duration {
	return p.applyJitter(p.delay)
}

// ExponentialBackoff multiplies the delay after every failed attempt, up to a maximum
type ExponentialBackoff struct {
	basePolicy
	initialDelay time.Duration
	multiplier   float64
	maxDelay     time.Duration
}

// NewExponentialBackoff creates an exponential backoff retry policy with a
// multiplier of 2 and a maximum delay of 30 seconds
func NewExponentialBackoff(maxAttempts int, initialDelay time.Duration, opts ...PolicyOption) *ExponentialBackoff {
	return &ExponentialBackoff{
		basePolicy:   newBasePolicy(maxAttempts, opts...),
		initialDelay: initialDelay,
		multiplier:   2.0,
		maxDelay:     30 * time.Second,
	}
}

// WithMultiplier sets the growth factor
func (p *ExponentialBackoff) WithMultiplier(multiplier float64) *ExponentialBackoff {
	if multiplier >= 1 {
		p.multiplier = multiplier
	}
	return p
}

// WithMaxDelay caps the delay
func (p *ExponentialBackoff) WithMaxDelay(maxDelay time.Duration) *ExponentialBackoff {
	if maxDelay > 0 {
		p.maxDelay = maxDelay
	}
	return p
}

// NextDelay returns the delay for the next retry
func (p *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	delay := float64(p.initialDelay) * math.Pow(p.multiplier, float64(attempt-1))
	if delay > float64(p.maxDelay) {
		return p.applyJitter(p.maxDelay)
	}
	return p.applyJitter(time.Duration(delay))
}

// PolicyOption is a configuration option for retry policies
type PolicyOption func(*basePolicy)

// WithCondition sets the retry condition
func WithCondition(condition Condition) PolicyOption {
	return func(p *basePolicy) {
		if condition != nil {
			p.condition = condition
		}
	}
}

// WithJitter enables jitter; factor must be in (0, 1]
func WithJitter(factor float64) PolicyOption {
	return func(p *basePolicy) {
		if factor > 0 && factor <= 1.0 {
			p.jitterFactor = factor
		}
	}
}

// DefaultCondition retries every error except permanent ones and context errors
func DefaultCondition(err error) bool {
	if err == nil {
		return false
	}
	if types.IsPermanent(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
