package storage

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/jdziat/simple-reminders/pkg/core"
	"github.com/jdziat/simple-reminders/pkg/parser"
	"github.com/jdziat/simple-reminders/pkg/security"
)

func TestGormStorage_SaveAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	rec := newTestRecord("home.txt", 3, core.CadenceWeekly, "Gym")
	rec.Options = "mon,wed"
	require.NoError(t, s.Save(ctx, rec))
	assert.NotEmpty(t, rec.ID)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "home.txt", got.Source)
	assert.Equal(t, 3, got.Line)
	assert.Equal(t, core.CadenceWeekly, got.Cadence)
	assert.Equal(t, "mon,wed", got.Options)
	assert.Equal(t, "Gym", got.Description)
	assert.True(t, rec.Anchor.Equal(got.Anchor))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGormStorage_GetMissing(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.Get(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGormStorage_SaveKeepsExplicitID(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	rec := newTestRecord("home.txt", 1, core.CadenceDaily, "Vitamins")
	rec.ID = "rule-123"
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, "rule-123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Vitamins", got.Description)
}

func TestGormStorage_SaveSanitizesDescription(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	rec := newTestRecord("home.txt", 1, core.CadenceNone, "  pay\x00rent  ")
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "payrent", got.Description)
}

func TestGormStorage_SaveRejectsInvalidSource(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	err := s.Save(ctx, newTestRecord("", 1, core.CadenceNone, "x"))
	assert.ErrorIs(t, err, core.ErrInvalidSource)

	err = s.Save(ctx, newTestRecord(strings.Repeat("s", 300), 1, core.CadenceNone, "x"))
	assert.ErrorIs(t, err, core.ErrSourceTooLong)
}

func TestGormStorage_SaveBatch(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	var recs []*core.RuleRecord
	for i := 1; i <= 250; i++ {
		recs = append(recs, newTestRecord("bulk.txt", i, core.CadenceDaily, "item"))
	}
	require.NoError(t, s.SaveBatch(ctx, recs))

	n, err := s.Count(ctx, core.Filter{Source: "bulk.txt"})
	require.NoError(t, err)
	assert.Equal(t, int64(250), n)

	require.NoError(t, s.SaveBatch(ctx, nil))
}

func TestGormStorage_SaveBatchIsAllOrNothing(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	recs := []*core.RuleRecord{
		newTestRecord("a.txt", 1, core.CadenceDaily, "ok"),
		newTestRecord("", 2, core.CadenceDaily, "bad source"),
	}
	require.Error(t, s.SaveBatch(ctx, recs))

	n, err := s.Count(ctx, core.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestGormStorage_Replace(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBatch(ctx, []*core.RuleRecord{
		newTestRecord("home.txt", 1, core.CadenceDaily, "old one"),
		newTestRecord("home.txt", 2, core.CadenceDaily, "old two"),
		newTestRecord("work.txt", 1, core.CadenceWeekly, "standup"),
	}))

	require.NoError(t, s.Replace(ctx, "home.txt", []*core.RuleRecord{
		newTestRecord("ignored.txt", 5, core.CadenceMonthly, "new"),
	}))

	home, err := s.List(ctx, core.Filter{Source: "home.txt"})
	require.NoError(t, err)
	require.Len(t, home, 1)
	assert.Equal(t, "new", home[0].Description)
	assert.Equal(t, "home.txt", home[0].Source)

	work, err := s.List(ctx, core.Filter{Source: "work.txt"})
	require.NoError(t, err)
	assert.Len(t, work, 1)
}

func TestGormStorage_ReplaceWithNothingClearsSource(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, newTestRecord("home.txt", 1, core.CadenceDaily, "x")))
	require.NoError(t, s.Replace(ctx, "home.txt", nil))

	n, err := s.Count(ctx, core.Filter{Source: "home.txt"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestGormStorage_DeleteBySource(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBatch(ctx, []*core.RuleRecord{
		newTestRecord("home.txt", 1, core.CadenceDaily, "a"),
		newTestRecord("home.txt", 2, core.CadenceDaily, "b"),
		newTestRecord("work.txt", 1, core.CadenceDaily, "c"),
	}))

	deleted, err := s.DeleteBySource(ctx, "home.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	n, err := s.Count(ctx, core.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormStorage_ListFilters(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBatch(ctx, []*core.RuleRecord{
		newTestRecord("b.txt", 2, core.CadenceWeekly, "b2"),
		newTestRecord("a.txt", 2, core.CadenceDaily, "a2"),
		newTestRecord("a.txt", 1, core.CadenceWeekly, "a1"),
		newTestRecord("b.txt", 1, core.CadenceNone, "b1"),
	}))

	all, err := s.List(ctx, core.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "a1", all[0].Description)
	assert.Equal(t, "a2", all[1].Description)
	assert.Equal(t, "b1", all[2].Description)
	assert.Equal(t, "b2", all[3].Description)

	weekly := core.CadenceWeekly
	ws, err := s.List(ctx, core.Filter{Cadence: &weekly})
	require.NoError(t, err)
	assert.Len(t, ws, 2)

	none := core.CadenceNone
	oneShots, err := s.List(ctx, core.Filter{Cadence: &none})
	require.NoError(t, err)
	require.Len(t, oneShots, 1)
	assert.Equal(t, "b1", oneShots[0].Description)

	limited, err := s.List(ctx, core.Filter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	n, err := s.Count(ctx, core.Filter{Source: "a.txt", Cadence: &weekly, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormStorage_ContextCancelled(t *testing.T) {
	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Save(ctx, newTestRecord("home.txt", 1, core.CadenceDaily, "x"))
	assert.Error(t, err)
}

func TestRecordRoundTrip(t *testing.T) {
	rule := core.Rule{
		Anchor:  time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		Cadence: core.CadenceAnnually,
		Options: []core.WeekdayQualifier{
			{Offset: 4, Weekday: core.Thursday},
			{Offset: 2, Weekday: core.Wednesday},
		},
		Description: "New Year's planning",
	}

	rec := NewRecord("home.txt", 7, rule)
	assert.Equal(t, "home.txt", rec.Source)
	assert.Equal(t, 7, rec.Line)
	assert.Equal(t, "4thu,2wed", rec.Options)

	assert.Equal(t, rule, RecordRule(rec))
}

func TestRecordRoundTrip_ThroughDatabase(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	rule := core.Rule{
		Anchor:      time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Cadence:     core.CadenceMonthly,
		Options:     []core.WeekdayQualifier{{Offset: 1, Weekday: core.Monday}},
		Description: "Sprint planning",
	}
	rec := NewRecord("work.txt", 1, rule)
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	back := RecordRule(got)
	assert.Equal(t, rule.String(), back.String())
	assert.True(t, rule.Anchor.Equal(back.Anchor))
}

func TestRuleRecord_OptionsColumnUnbounded(t *testing.T) {
	sch, err := schema.Parse(&core.RuleRecord{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := sch.LookUpField("Options")
	require.NotNil(t, field)
	assert.Equal(t, schema.DataType("text"), field.DataType)
	assert.Zero(t, field.Size)
}

func TestReplace_LongWeekdayList(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	list := strings.TrimSuffix(strings.Repeat("1mon,", 80), ",")
	line := "[2024-01-01 09:00 w " + list + "] x"
	require.LessOrEqual(t, len(line), security.MaxLineLength)

	rule, err := parser.ParseLine(line)
	require.NoError(t, err)
	require.NotNil(t, rule)

	rec := NewRecord("long.txt", 1, *rule)
	require.Greater(t, len(rec.Options), 255)

	short := NewRecord("long.txt", 2, core.Rule{Anchor: rule.Anchor, Cadence: core.CadenceDaily, Description: "y"})
	require.NoError(t, s.Replace(ctx, "long.txt", []*core.RuleRecord{rec, short}))

	recs, err := s.List(ctx, core.Filter{Source: "long.txt"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, list, recs[0].Options)
	assert.Len(t, RecordRule(recs[0]).Options, 80)
}
