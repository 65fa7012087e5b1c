package storage

import (
	"github.com/jdziat/simple-reminders/pkg/core"
	"github.com/jdziat/simple-reminders/pkg/parser"
)

// NewRecord builds the persisted form of a rule read from source at line.
func NewRecord(source string, line int, rule core.Rule) *core.RuleRecord {
	return &core.RuleRecord{
		Source:      source,
		Line:        line,
		Anchor:      rule.Anchor.UTC(),
		Cadence:     rule.Cadence,
		Options:     core.FormatWeekdayList(rule.Options),
		Description: rule.Description,
	}
}

// RecordRule rebuilds the rule held by rec.
func RecordRule(rec *core.RuleRecord) core.Rule {
	return core.Rule{
		Anchor:      rec.Anchor.UTC(),
		Cadence:     rec.Cadence,
		Options:     parser.ParseWeekdayList(rec.Options),
		Description: rec.Description,
	}
}
