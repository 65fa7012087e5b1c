package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jdziat/simple-reminders/pkg/core"
)

// openTestDB opens a database for tests.
// When TEST_DATABASE_URL is set it connects to PostgreSQL; otherwise it
// opens a fresh in-memory SQLite instance.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = ":memory:"
	}

	var opts []PoolOption
	if dsn != ":memory:" {
		// PostgreSQL connections are pool-limited to avoid exceeding max_connections.
		opts = append(opts, MaxOpenConns(2), MaxIdleConns(1))
	}

	db, err := Open(dsn, quiet, opts...)
	require.NoError(t, err, "open test db")

	sqlDB, err := db.DB()
	require.NoError(t, err, "get underlying sql.DB")

	if dsn != ":memory:" {
		// Clean before AND after to ensure test isolation.
		cleanupDB(db)
	}
	t.Cleanup(func() {
		if dsn != ":memory:" {
			cleanupDB(db)
		}
		_ = sqlDB.Close()
	})
	return db
}

func cleanupDB(db *gorm.DB) {
	if db.Migrator().HasTable(&core.RuleRecord{}) {
		db.Exec("DELETE FROM rule_records")
	}
}

func newTestStorage(t *testing.T) *GormStorage {
	t.Helper()
	s := NewGormStorage(openTestDB(t))
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func newTestRecord(source string, line int, cadence core.Cadence, desc string) *core.RuleRecord {
	return &core.RuleRecord{
		Source:      source,
		Line:        line,
		Anchor:      time.Date(2024, 1, line, 9, 0, 0, 0, time.UTC),
		Cadence:     cadence,
		Description: desc,
	}
}
