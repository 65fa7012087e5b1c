package core

import "context"

// Filter narrows a rule listing. Zero values match everything.
type Filter struct {
	Source  string
	Cadence *Cadence
	Limit   int
}

// Storage defines the persistence layer for rules.
type Storage interface {
	// Migrate creates the necessary database tables.
	Migrate(ctx context.Context) error

	// Writes
	Save(ctx context.Context, rec *RuleRecord) error
	SaveBatch(ctx context.Context, recs []*RuleRecord) error
	Replace(ctx context.Context, source string, recs []*RuleRecord) error
	DeleteBySource(ctx context.Context, source string) (int64, error)

	// Queries
	Get(ctx context.Context, id string) (*RuleRecord, error)
	List(ctx context.Context, f Filter) ([]*RuleRecord, error)
	Count(ctx context.Context, f Filter) (int64, error)
}
