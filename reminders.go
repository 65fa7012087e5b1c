// Package reminders parses reminder lines into structured rules.
//
// This is the main package users should import. It re-exports all public
// types from the internal pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	rule, err := reminders.ParseLine("[2018-01-01 00:00 a 4thu,2wed] New Year's planning")
//	if err != nil {
//	    // malformed date/time; err is a *reminders.MalformedDateTimeError
//	}
//	if rule == nil {
//	    // not a reminder line
//	}
//
//	// Import a whole file into SQLite
//	db, _ := reminders.OpenDB("reminders.db", nil)
//	store := reminders.NewGormStorage(db)
//	store.Migrate(ctx)
//	im := reminders.NewImporter(store, reminders.Strict(true))
//	res, err := im.ImportFile(ctx, "home.txt")
package reminders

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/jdziat/simple-reminders/pkg/core"
	"github.com/jdziat/simple-reminders/pkg/cronspec"
	"github.com/jdziat/simple-reminders/pkg/importer"
	"github.com/jdziat/simple-reminders/pkg/parser"
	"github.com/jdziat/simple-reminders/pkg/scan"
	"github.com/jdziat/simple-reminders/pkg/security"
	"github.com/jdziat/simple-reminders/pkg/storage"
)

// Type aliases
type (
	// Rule is a parsed reminder line.
	Rule = core.Rule

	// Cadence represents how often a rule repeats.
	Cadence = core.Cadence

	// Weekday is a day of the week, named by its three-letter abbreviation.
	Weekday = core.Weekday

	// WeekdayQualifier pairs a weekday with an ordinal offset.
	WeekdayQualifier = core.WeekdayQualifier

	// RuleRecord is the persisted form of a Rule.
	RuleRecord = core.RuleRecord

	// Filter narrows a rule listing.
	Filter = core.Filter

	// Storage defines the persistence layer for rules.
	Storage = core.Storage

	// Event is the interface for all scan events.
	Event = core.Event

	// LineAccepted is emitted when a line parses into a rule.
	LineAccepted = core.LineAccepted

	// LineRejected is emitted when a line carries an unusable schedule.
	LineRejected = core.LineRejected

	// LineSkipped is emitted for lines without a schedule expression.
	LineSkipped = core.LineSkipped

	// ScanCompleted is emitted once a source has been fully scanned.
	ScanCompleted = core.ScanCompleted

	// MalformedDateTimeError reports an anchor that does not match the fixed layout.
	MalformedDateTimeError = core.MalformedDateTimeError

	// RuleError reports a rule that parsed but failed validation.
	RuleError = core.RuleError

	// Scanner parses reminder sources.
	Scanner = scan.Scanner

	// ScanOption configures a Scanner.
	ScanOption = scan.Option

	// Report is the outcome of scanning one source.
	Report = scan.Report

	// Importer scans sources and stores their rules.
	Importer = importer.Importer

	// ImporterOption configures an Importer.
	ImporterOption = importer.Option

	// ImportResult is the outcome of importing one source.
	ImportResult = importer.Result

	// GormStorage implements Storage using GORM.
	GormStorage = storage.GormStorage
)

// Cadence constants
const (
	CadenceNone     = core.CadenceNone
	CadenceAnnually = core.CadenceAnnually
	CadenceMonthly  = core.CadenceMonthly
	CadenceWeekly   = core.CadenceWeekly
	CadenceDaily    = core.CadenceDaily
)

// Weekday constants
const (
	Monday    = core.Monday
	Tuesday   = core.Tuesday
	Wednesday = core.Wednesday
	Thursday  = core.Thursday
	Friday    = core.Friday
	Saturday  = core.Saturday
	Sunday    = core.Sunday
)

// Security limits
const (
	MaxLineLength        = security.MaxLineLength
	MaxDescriptionLength = security.MaxDescriptionLength
	MaxSourceLength      = security.MaxSourceLength
	MaxConcurrency       = security.MaxConcurrency
)

// Error variables
var (
	ErrMalformedDateTime        = core.ErrMalformedDateTime
	ErrLineTooLong              = core.ErrLineTooLong
	ErrQualifiersWithoutCadence = core.ErrQualifiersWithoutCadence
	ErrQualifiersNotSupported   = core.ErrQualifiersNotSupported
	ErrOffsetOutOfRange         = core.ErrOffsetOutOfRange
	ErrInvalidSource            = core.ErrInvalidSource
	ErrSourceTooLong            = core.ErrSourceTooLong
	ErrNotRecurring             = cronspec.ErrNotRecurring
	ErrNotExpressible           = cronspec.ErrNotExpressible
)

// Parsing

// ParseLine parses a line such as "[2018-01-01 00:00 a] New Years".
// It returns (nil, nil) for lines without a bracketed schedule.
func ParseLine(line string) (*Rule, error) {
	return parser.ParseLine(line)
}

// ParseRecurrenceCode maps "a", "m", "w" or "d" to a cadence.
func ParseRecurrenceCode(token string) (Cadence, bool) {
	return parser.ParseRecurrenceCode(token)
}

// ParseWeekdayToken parses a token such as "mon" or "4thu".
func ParseWeekdayToken(token string) (WeekdayQualifier, bool) {
	return parser.ParseWeekdayToken(token)
}

// ParseWeekdayList parses a comma-separated token list, dropping invalid tokens.
func ParseWeekdayList(s string) []WeekdayQualifier {
	return parser.ParseWeekdayList(s)
}

// FormatWeekdayList joins qualifiers into a comma-separated token list.
func FormatWeekdayList(qs []WeekdayQualifier) string {
	return core.FormatWeekdayList(qs)
}

// CronSpec renders a recurring rule as a five-field cron expression.
func CronSpec(rule Rule) (string, error) {
	return cronspec.Spec(rule)
}

// Scanning

// NewScanner creates a Scanner.
func NewScanner(opts ...ScanOption) *Scanner {
	return scan.New(opts...)
}

// ScanConcurrency sets the number of parsing goroutines.
func ScanConcurrency(n int) ScanOption {
	return scan.Concurrency(n)
}

// ScanStrict rejects rules that fail Rule.Validate.
func ScanStrict(enabled bool) ScanOption {
	return scan.Strict(enabled)
}

// Storage

// OpenDB connects to a SQLite path or a postgres:// DSN.
func OpenDB(dsn string, log *slog.Logger, opts ...storage.PoolOption) (*gorm.DB, error) {
	return storage.Open(dsn, log, opts...)
}

// NewGormStorage creates a new GORM-backed storage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return storage.NewGormStorage(db)
}

// NewRecord builds the persisted form of a rule.
func NewRecord(source string, line int, rule Rule) *RuleRecord {
	return storage.NewRecord(source, line, rule)
}

// RecordRule rebuilds the rule held by a record.
func RecordRule(rec *RuleRecord) Rule {
	return storage.RecordRule(rec)
}

// Importing

// NewImporter creates an Importer writing to store.
func NewImporter(store Storage, opts ...ImporterOption) *Importer {
	return importer.New(store, opts...)
}

// Strict makes the importer reject rules that fail Rule.Validate.
func Strict(enabled bool) ImporterOption {
	return importer.Strict(enabled)
}

// Files sets how many sources the importer processes at once.
func Files(n int) ImporterOption {
	return importer.Files(n)
}

// SanitizeDescription normalizes, strips, and truncates a description for storage.
func SanitizeDescription(desc string) string {
	return security.SanitizeDescription(desc)
}
