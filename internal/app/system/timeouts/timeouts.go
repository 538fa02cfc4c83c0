// Package timeouts provides centralized timeout values for storage
// operations. Every database call in the core runs under one of these
// bounds, so no operation blocks indefinitely; deadline expiry surfaces
// to callers as a retryable transient failure.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: simple single-document reads or lookups
//   - Medium: list queries, moderate writes, multi-step reads
//   - Long: transactional writes touching multiple collections
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Ping returns the timeout for health checks and connectivity verification.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for simple operations like single-document reads.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium returns the timeout for moderate operations like list queries.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Long returns the timeout for writes that span multiple collections,
// such as the approve transition.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure sets custom timeout values. Zero values in the config are
// ignored, keeping the current (or default) values. Call during startup
// before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	medium = DefaultMedium
	long = DefaultLong
}

// ConfigureFromEnv reads timeout overrides from TIMEOUT_PING,
// TIMEOUT_SHORT, TIMEOUT_MEDIUM, and TIMEOUT_LONG (duration strings,
// e.g. "5s", "500ms"). Invalid or unset values keep the defaults.
// Returns the number of timeouts configured from the environment.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	configured := 0

	set := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				*dst = d
				configured++
			}
		}
	}
	set("TIMEOUT_PING", &ping)
	set("TIMEOUT_SHORT", &short)
	set("TIMEOUT_MEDIUM", &medium)
	set("TIMEOUT_LONG", &long)

	return configured
}

// WithTimeout creates a context with the given timeout and returns a
// cancel function that logs a warning if the deadline was exceeded.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
