package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database named by dsn and configures its pool.
// DSNs starting with postgres:// or postgresql:// use PostgreSQL; anything
// else is treated as a SQLite path (":memory:" included).
func Open(dsn string, log *slog.Logger, opts ...PoolOption) (*gorm.DB, error) {
	if log == nil {
		log = slog.Default()
	}

	dialector, isSQLite := dialectorFor(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if isSQLite {
		opts = append([]PoolOption{WithPoolConfig(SQLitePoolConfig())}, opts...)
	}
	if err := ConfigurePool(db, opts...); err != nil {
		return nil, err
	}

	log.Debug("opened database", "driver", dialector.Name())
	return db, nil
}

func dialectorFor(dsn string) (gorm.Dialector, bool) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn), false
	}
	return sqlite.Open(dsn), true
}
