package importer

import (
	"context"
	"database/sql/driver"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// RetryConfig controls how storage writes are retried.
type RetryConfig struct {
	MaxAttempts       int           // Including the first try. Default: 4
	InitialBackoff    time.Duration // Default: 50ms
	MaxBackoff        time.Duration // Default: 2s
	BackoffMultiplier float64       // Default: 2.0
	JitterFraction    float64       // Fraction of backoff randomized. Default: 0.1
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       4,
		InitialBackoff:    50 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,
		JitterFraction:    0.1,
	}
}

// backoff returns the wait before retry n (1-based), without jitter.
// A zero MaxBackoff leaves the wait uncapped.
func (c RetryConfig) backoff(n int) time.Duration {
	d := float64(c.InitialBackoff)
	for i := 1; i < n; i++ {
		d *= c.BackoffMultiplier
	}
	if c.MaxBackoff > 0 && d > float64(c.MaxBackoff) {
		return c.MaxBackoff
	}
	return time.Duration(d)
}

// jittered spreads d by up to JitterFraction in either direction.
func (c RetryConfig) jittered(d time.Duration) time.Duration {
	if c.JitterFraction <= 0 {
		return d
	}
	j := time.Duration(float64(d) * c.JitterFraction * (rand.Float64()*2 - 1))
	if d+j < 0 {
		return d
	}
	return d + j
}

// retryWithBackoff runs write until it succeeds, fails permanently, or the
// attempts run out. The last error is returned.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, write func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = write(); err == nil || !IsRetryableError(err) || attempt >= cfg.MaxAttempts {
			return err
		}

		timer := time.NewTimer(cfg.jittered(cfg.backoff(attempt)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// IsRetryableError reports whether a storage error is a known transient
// condition: a busy or locked SQLite database, a broken connection, or a
// PostgreSQL error whose SQLSTATE marks it as temporary. Anything else, such
// as a constraint violation or a value too long for its column, is permanent.
func IsRetryableError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, driver.ErrBadConn):
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return transientSQLState(pgErr.Code)
	}
	return false
}

// transientSQLState covers connection exceptions (08), transaction rollbacks
// such as serialization failures and deadlocks (40), insufficient resources
// (53), lock_not_available and admin_shutdown.
func transientSQLState(code string) bool {
	switch code {
	case "55P03", "57P01":
		return true
	}
	if len(code) < 2 {
		return false
	}
	switch code[:2] {
	case "08", "40", "53":
		return true
	}
	return false
}
