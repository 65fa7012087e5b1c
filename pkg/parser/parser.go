package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/jdziat/simple-reminders/pkg/core"
)

var (
	// scheduleLine captures the first bracketed region and everything after it.
	scheduleLine = regexp.MustCompile(`\[([^\]]*)\](.*)`)

	// anchorPattern enforces zero-padding, which time.Parse does not for hours.
	anchorPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}$`)

	// offsetWeekday matches a whole token made of one digit and an abbreviation.
	offsetWeekday = regexp.MustCompile(`^[0-9](mon|tue|wed|thu|fri|sat|sun)$`)
)

var recurrenceCodes = map[string]core.Cadence{
	"a": core.CadenceAnnually,
	"m": core.CadenceMonthly,
	"w": core.CadenceWeekly,
	"d": core.CadenceDaily,
}

// ParseLine parses a line such as "[2018-01-01 00:00 a] New Years".
//
// It returns (nil, nil) when the line has no bracketed schedule, so callers
// can pass blank lines and comments through. A missing or malformed anchor
// yields a *core.MalformedDateTimeError. Unknown recurrence codes and
// weekday tokens are ignored.
func ParseLine(line string) (*core.Rule, error) {
	m := scheduleLine.FindStringSubmatch(line)
	if m == nil {
		return nil, nil
	}

	fields := strings.Fields(m[1])

	anchor, err := parseAnchor(fields)
	if err != nil {
		return nil, err
	}

	rule := &core.Rule{
		Anchor:      anchor,
		Description: strings.TrimSpace(m[2]),
	}
	if len(fields) > 2 {
		rule.Cadence, _ = ParseRecurrenceCode(fields[2])
	}
	if len(fields) > 3 {
		rule.Options = ParseWeekdayList(fields[3])
	}
	return rule, nil
}

func parseAnchor(fields []string) (time.Time, error) {
	if len(fields) < 2 {
		return time.Time{}, &core.MalformedDateTimeError{Input: strings.Join(fields, " ")}
	}

	input := fields[0] + " " + fields[1]
	if !anchorPattern.MatchString(input) {
		return time.Time{}, &core.MalformedDateTimeError{Input: input}
	}

	t, err := time.Parse(core.AnchorLayout, input)
	if err != nil {
		return time.Time{}, &core.MalformedDateTimeError{Input: input, Err: err}
	}
	return t, nil
}

// ParseRecurrenceCode maps "a", "m", "w" or "d" to a cadence.
// Matching is exact; anything else reports false.
func ParseRecurrenceCode(token string) (core.Cadence, bool) {
	c, ok := recurrenceCodes[token]
	return c, ok
}

// ParseWeekdayToken parses a token such as "mon" or "4thu".
func ParseWeekdayToken(token string) (core.WeekdayQualifier, bool) {
	var offset uint8
	abbr := token
	if offsetWeekday.MatchString(token) {
		offset = token[0] - '0'
		abbr = token[1:]
	}

	w := core.Weekday(abbr)
	if !w.Valid() {
		return core.WeekdayQualifier{}, false
	}
	return core.WeekdayQualifier{Offset: offset, Weekday: w}, true
}

// ParseWeekdayList parses a comma-separated token list such as "1wed,4fri".
// Tokens that do not parse are dropped; order and duplicates are kept.
func ParseWeekdayList(s string) []core.WeekdayQualifier {
	if s == "" {
		return nil
	}

	var qs []core.WeekdayQualifier
	for _, token := range strings.Split(s, ",") {
		if q, ok := ParseWeekdayToken(token); ok {
			qs = append(qs, q)
		}
	}
	return qs
}
