// Package core provides the domain models and interfaces for the reminders package.
package core

import (
	"strconv"
	"strings"
	"time"
)

// AnchorLayout is the fixed date/time layout of a rule anchor.
const AnchorLayout = "2006-01-02 15:04"

// Cadence represents how often a rule repeats.
type Cadence string

const (
	CadenceNone     Cadence = "" // One-shot rule
	CadenceAnnually Cadence = "annually"
	CadenceMonthly  Cadence = "monthly"
	CadenceWeekly   Cadence = "weekly"
	CadenceDaily    Cadence = "daily"
)

// Code returns the one-letter code used for the cadence in a schedule line.
func (c Cadence) Code() string {
	switch c {
	case CadenceAnnually:
		return "a"
	case CadenceMonthly:
		return "m"
	case CadenceWeekly:
		return "w"
	case CadenceDaily:
		return "d"
	}
	return ""
}

// Valid reports whether c is one of the known cadences, including CadenceNone.
func (c Cadence) Valid() bool {
	return c == CadenceNone || c.Code() != ""
}

// SupportsQualifiers reports whether weekday qualifiers are meaningful for c.
func (c Cadence) SupportsQualifiers() bool {
	return c == CadenceAnnually || c == CadenceMonthly || c == CadenceWeekly
}

// Weekday is a day of the week, named by its three-letter abbreviation.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// Weekdays lists every weekday, Monday first.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var timeWeekdays = map[Weekday]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// Valid reports whether w is one of the seven abbreviations.
func (w Weekday) Valid() bool {
	_, ok := timeWeekdays[w]
	return ok
}

// Time converts w to a time.Weekday. Invalid weekdays map to time.Sunday.
func (w Weekday) Time() time.Weekday {
	return timeWeekdays[w]
}

// WeekdayQualifier pairs a weekday with an ordinal offset.
// Offset 0 means "any", 1-9 means the Nth occurrence in the period.
type WeekdayQualifier struct {
	Offset  uint8
	Weekday Weekday
}

// String renders the qualifier as a schedule token, e.g. "wed" or "2wed".
func (q WeekdayQualifier) String() string {
	if q.Offset == 0 {
		return string(q.Weekday)
	}
	return strconv.Itoa(int(q.Offset)) + string(q.Weekday)
}

// FormatWeekdayList joins qualifiers into a comma-separated token list.
func FormatWeekdayList(qs []WeekdayQualifier) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = q.String()
	}
	return strings.Join(parts, ",")
}

// Rule is a parsed reminder line.
type Rule struct {
	Anchor      time.Time // Wall-clock time, no zone semantics
	Cadence     Cadence
	Options     []WeekdayQualifier
	Description string
}

// String renders the rule in canonical schedule-line form.
// Options are only rendered when a cadence is present.
func (r Rule) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(r.Anchor.Format(AnchorLayout))
	if code := r.Cadence.Code(); code != "" {
		b.WriteByte(' ')
		b.WriteString(code)
		if len(r.Options) > 0 {
			b.WriteByte(' ')
			b.WriteString(FormatWeekdayList(r.Options))
		}
	}
	b.WriteByte(']')
	if r.Description != "" {
		b.WriteByte(' ')
		b.WriteString(r.Description)
	}
	return b.String()
}

// maxOrdinalInMonth is the largest N for which an Nth weekday exists in some month.
const maxOrdinalInMonth = 5

// Validate checks cross-field consistency that the parser leaves to callers.
func (r Rule) Validate() error {
	if len(r.Options) == 0 {
		return nil
	}
	if r.Cadence == CadenceNone {
		return &RuleError{Rule: r, Err: ErrQualifiersWithoutCadence}
	}
	if !r.Cadence.SupportsQualifiers() {
		return &RuleError{Rule: r, Err: ErrQualifiersNotSupported}
	}
	if r.Cadence == CadenceMonthly || r.Cadence == CadenceAnnually {
		for _, q := range r.Options {
			if q.Offset > maxOrdinalInMonth {
				return &RuleError{Rule: r, Err: ErrOffsetOutOfRange}
			}
		}
	}
	return nil
}
