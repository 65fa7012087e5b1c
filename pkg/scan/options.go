package scan

import (
	"log/slog"

	"github.com/jdziat/simple-reminders/pkg/core"
	"github.com/jdziat/simple-reminders/pkg/security"
)

// Option configures a Scanner.
type Option interface {
	ApplyScanner(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) ApplyScanner(c *Config) { f(c) }

// Config holds scanner configuration.
type Config struct {
	Concurrency   int
	MaxLineLength int
	Strict        bool
	Logger        *slog.Logger
	OnEvent       func(core.Event)
}

// Concurrency sets the number of parsing goroutines.
// Values are clamped to [1, MaxConcurrency].
func Concurrency(n int) Option {
	return optionFunc(func(c *Config) {
		c.Concurrency = security.ClampConcurrency(n)
	})
}

// MaxLineLength sets the longest accepted line in bytes.
// Values outside (0, security.MaxLineLength] fall back to the maximum.
func MaxLineLength(n int) Option {
	return optionFunc(func(c *Config) {
		c.MaxLineLength = security.ClampLineLength(n)
	})
}

// Strict rejects rules that parse but fail Rule.Validate.
func Strict(enabled bool) Option {
	return optionFunc(func(c *Config) {
		c.Strict = enabled
	})
}

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	})
}

// OnEvent registers a callback that receives scan events in line order.
func OnEvent(fn func(core.Event)) Option {
	return optionFunc(func(c *Config) {
		c.OnEvent = fn
	})
}
