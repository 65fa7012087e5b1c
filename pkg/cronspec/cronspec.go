package cronspec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/jdziat/simple-reminders/pkg/core"
)

var (
	ErrNotRecurring   = errors.New("reminders: rule has no recurrence cadence")
	ErrNotExpressible = errors.New("reminders: rule cannot be expressed as a cron schedule")
)

// standard matches cron.ParseStandard: minute hour dom month dow.
var standard = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Spec returns the five-field cron expression for rule.
func Spec(rule core.Rule) (string, error) {
	a := rule.Anchor
	minute, hour := strconv.Itoa(a.Minute()), strconv.Itoa(a.Hour())

	var fields []string
	switch rule.Cadence {
	case core.CadenceNone:
		return "", ErrNotRecurring
	case core.CadenceDaily:
		if len(rule.Options) > 0 {
			return "", notExpressible(rule, "daily rules take no weekday qualifiers")
		}
		fields = []string{minute, hour, "*", "*", "*"}
	case core.CadenceWeekly:
		dow, err := weekdays(rule)
		if err != nil {
			return "", err
		}
		fields = []string{minute, hour, "*", "*", dow}
	case core.CadenceMonthly:
		if len(rule.Options) > 0 {
			return "", notExpressible(rule, "weekday qualifiers within a month")
		}
		fields = []string{minute, hour, strconv.Itoa(a.Day()), "*", "*"}
	case core.CadenceAnnually:
		if len(rule.Options) > 0 {
			return "", notExpressible(rule, "weekday qualifiers within a year")
		}
		fields = []string{minute, hour, strconv.Itoa(a.Day()), strconv.Itoa(int(a.Month())), "*"}
	default:
		return "", notExpressible(rule, fmt.Sprintf("unknown cadence %q", rule.Cadence))
	}

	spec := strings.Join(fields, " ")
	if _, err := standard.Parse(spec); err != nil {
		return "", fmt.Errorf("reminders: generated invalid cron expression %q: %w", spec, err)
	}
	return spec, nil
}

// weekdays returns the day-of-week field for a weekly rule: the anchor's
// weekday, or the qualifier weekdays when every offset is zero.
func weekdays(rule core.Rule) (string, error) {
	if len(rule.Options) == 0 {
		return strconv.Itoa(int(rule.Anchor.Weekday())), nil
	}

	seen := make(map[int]bool, len(rule.Options))
	var days []string
	for _, q := range rule.Options {
		if q.Offset != 0 {
			return "", notExpressible(rule, "ordinal weekday "+q.String())
		}
		d := int(q.Weekday.Time())
		if !seen[d] {
			seen[d] = true
			days = append(days, strconv.Itoa(d))
		}
	}
	return strings.Join(days, ","), nil
}

func notExpressible(rule core.Rule, reason string) error {
	return &core.RuleError{Rule: rule, Err: fmt.Errorf("%w: %s", ErrNotExpressible, reason)}
}
