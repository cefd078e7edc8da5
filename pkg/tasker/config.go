package tasker

import (
	"fmt"
	"runtime"

	"github.com/jzx17/gotasker/pkg/types"
	"go.uber.org/zap"
)

// DefaultName is the pool name used in logs and metrics when none is configured
const DefaultName = "tasker"

// Config defines configuration for every pool flavor
type Config struct {
	// Workers is the number of worker goroutines. Zero means runtime.NumCPU().
	// The serial pools always run a single worker.
	Workers int

	// Name labels the pool in logs and metrics
	Name string

	// Logger receives lifecycle and panic logs (optional, defaults to a no-op logger)
	Logger *zap.Logger

	// Metrics receives per-task measurements (optional)
	Metrics Metrics

	// ErrorHandler receives panics recovered from the processing function
	ErrorHandler types.ErrorHandler

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Workers: runtime.NumCPU(),
		Name:    DefaultName,
		Logger:  zap.NewNop(),
		Clock:   types.NewRealClock(),
	}
}

// normalize validates config and returns a filled-in copy
func normalize(config *Config) (*Config, error) {
	if config == nil {
		return DefaultConfig(), nil
	}

	if config.Workers < 0 {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidWorkerCount, config.Workers)
	}

	c := *config
	if c.Workers == 0 {
		c.Workers = max(1, runtime.NumCPU())
	}
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Clock == nil {
		c.Clock = types.NewRealClock()
	}
	return &c, nil
}
