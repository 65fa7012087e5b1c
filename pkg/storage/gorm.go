// Package storage provides storage implementations for the reminders package.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdziat/simple-reminders/pkg/core"
	"github.com/jdziat/simple-reminders/pkg/security"
)

// batchSize bounds rows per INSERT; SQLite caps bound variables per statement.
const batchSize = 100

// GormStorage implements core.Storage using GORM.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a new GORM-backed storage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// Migrate creates the necessary tables.
func (s *GormStorage) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&core.RuleRecord{})
}

// prepare fills defaults and validates a record before insert.
func prepare(rec *core.RuleRecord) error {
	if err := security.ValidateSource(rec.Source); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.Anchor = rec.Anchor.UTC()
	rec.Description = security.SanitizeDescription(rec.Description)
	return nil
}

// Save stores a single rule record.
func (s *GormStorage) Save(ctx context.Context, rec *core.RuleRecord) error {
	if err := prepare(rec); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

// SaveBatch stores records in a single transaction.
func (s *GormStorage) SaveBatch(ctx context.Context, recs []*core.RuleRecord) error {
	if len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		if err := prepare(rec); err != nil {
			return err
		}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(recs, batchSize).Error
	})
}

// Replace atomically swaps every record of source for recs.
func (s *GormStorage) Replace(ctx context.Context, source string, recs []*core.RuleRecord) error {
	if err := security.ValidateSource(source); err != nil {
		return err
	}
	for _, rec := range recs {
		rec.Source = source
		if err := prepare(rec); err != nil {
			return err
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", source).Delete(&core.RuleRecord{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.CreateInBatches(recs, batchSize).Error
	})
}

// DeleteBySource removes every record imported from source.
func (s *GormStorage) DeleteBySource(ctx context.Context, source string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("source = ?", source).
		Delete(&core.RuleRecord{})
	return result.RowsAffected, result.Error
}

// Get retrieves a record by ID. A missing record returns (nil, nil).
func (s *GormStorage) Get(ctx context.Context, id string) (*core.RuleRecord, error) {
	var rec core.RuleRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns records matching f, ordered by source and line.
func (s *GormStorage) List(ctx context.Context, f core.Filter) ([]*core.RuleRecord, error) {
	var recs []*core.RuleRecord
	q := s.filtered(ctx, f).Order("source ASC, line ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	err := q.Find(&recs).Error
	return recs, err
}

// Count returns the number of records matching f. Limit is ignored.
func (s *GormStorage) Count(ctx context.Context, f core.Filter) (int64, error) {
	var n int64
	err := s.filtered(ctx, f).Count(&n).Error
	return n, err
}

func (s *GormStorage) filtered(ctx context.Context, f core.Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&core.RuleRecord{})
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.Cadence != nil {
		q = q.Where("cadence = ?", *f.Cadence)
	}
	return q
}

var _ core.Storage = (*GormStorage)(nil)
