// Package importer provides the Importer for the reminders package.
package importer

import (
	"log/slog"

	"github.com/jdziat/simple-reminders/pkg/core"
	"github.com/jdziat/simple-reminders/pkg/security"
)

// Option configures an Importer.
type Option interface {
	ApplyImporter(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) ApplyImporter(c *Config) { f(c) }

// Config holds importer configuration.
type Config struct {
	Files         int // Sources imported at once
	LineWorkers   int // Parsing goroutines per source
	MaxLineLength int
	Strict        bool
	StorageRetry  *RetryConfig
	Logger        *slog.Logger
	OnEvent       func(core.Event)
}

// Files sets how many sources are imported concurrently.
// Values are clamped to [1, MaxConcurrency].
func Files(n int) Option {
	return optionFunc(func(c *Config) {
		c.Files = security.ClampConcurrency(n)
	})
}

// LineWorkers sets the parsing concurrency within one source.
func LineWorkers(n int) Option {
	return optionFunc(func(c *Config) {
		c.LineWorkers = security.ClampConcurrency(n)
	})
}

// MaxLineLength sets the longest line the scanner accepts.
func MaxLineLength(n int) Option {
	return optionFunc(func(c *Config) {
		c.MaxLineLength = security.ClampLineLength(n)
	})
}

// Strict rejects rules that fail Rule.Validate.
func Strict(enabled bool) Option {
	return optionFunc(func(c *Config) {
		c.Strict = enabled
	})
}

// WithLogger sets the importer logger.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	})
}

// OnEvent forwards scan events. With Files > 1 the callback may be called
// from several goroutines.
func OnEvent(fn func(core.Event)) Option {
	return optionFunc(func(c *Config) {
		c.OnEvent = fn
	})
}

// WithStorageRetry configures retry behavior for storage writes.
func WithStorageRetry(cfg RetryConfig) Option {
	return optionFunc(func(c *Config) {
		c.StorageRetry = &cfg
	})
}

// WithRetryAttempts sets the maximum attempts for storage writes.
// Other retry settings use defaults.
func WithRetryAttempts(attempts int) Option {
	return optionFunc(func(c *Config) {
		cfg := DefaultRetryConfig()
		cfg.MaxAttempts = attempts
		c.StorageRetry = &cfg
	})
}

// DisableRetry disables retries for storage writes.
func DisableRetry() Option {
	return optionFunc(func(c *Config) {
		noRetry := RetryConfig{MaxAttempts: 1}
		c.StorageRetry = &noRetry
	})
}
