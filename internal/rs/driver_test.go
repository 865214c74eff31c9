package rs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefm/tadawul-rs/internal/contracts"
)

// fakeSink records upserts in memory and lets tests pre-seed counts
// for the resume guard.
type fakeSink struct {
	counts       map[string]int
	auditWrites  map[string][]contracts.RankRecord
	ratingWrites map[string][]contracts.RankRecord
	failRatings  bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		counts:       make(map[string]int),
		auditWrites:  make(map[string][]contracts.RankRecord),
		ratingWrites: make(map[string][]contracts.RankRecord),
	}
}

func dateKey(d time.Time) string { return d.Format("2006-01-02") }

func (s *fakeSink) UpsertPriceChanges(_ context.Context, records []contracts.RankRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	key := dateKey(records[0].Date)
	s.auditWrites[key] = records
	return len(records), nil
}

func (s *fakeSink) UpsertRatings(_ context.Context, records []contracts.RankRecord) (int, error) {
	if s.failRatings {
		return 0, errors.New("connection reset")
	}
	if len(records) == 0 {
		return 0, nil
	}
	key := dateKey(records[0].Date)
	s.ratingWrites[key] = records
	s.counts[key] = len(records)
	return len(records), nil
}

func (s *fakeSink) CountForDate(_ context.Context, date time.Time) (int, error) {
	return s.counts[dateKey(date)], nil
}

// rangeSource builds a universe large enough to trip the resume
// threshold: 60 symbols over a handful of recent dates.
func rangeSource(t *testing.T, dates []time.Time) *fakeSource {
	t.Helper()
	source := newFakeSource()
	for i := 0; i < 60; i++ {
		symbol := time.Month(i%12+1).String()[:3] + string(rune('A'+i/12))
		var points []contracts.PricePoint
		for _, d := range dates {
			points = append(points, contracts.PricePoint{
				Symbol: symbol,
				Date:   d,
				Close:  float64(10 + i),
			})
		}
		source.add(symbol, points)
	}
	return source
}

func TestDriver_RunRangeResumesComputedDates(t *testing.T) {
	d1 := day(2026, time.January, 6)
	d2 := day(2026, time.January, 7)
	dates := []time.Time{d1, d2}

	source := rangeSource(t, dates)
	sink := newFakeSink()

	// D1 already holds more than the threshold of persisted rows
	sink.counts[dateKey(d1)] = 60

	orch := NewOrchestrator(source, testEngineConfig(), testLogger())
	driver := NewDriver(source, sink, orch, testEngineConfig(), testLogger())

	summary, err := driver.RunRange(context.Background(), d1, d2)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DatesSkipped)
	assert.Equal(t, 1, summary.DatesProcessed)

	// D1 untouched, D2 written
	assert.NotContains(t, sink.ratingWrites, dateKey(d1))
	assert.Contains(t, sink.ratingWrites, dateKey(d2))
	assert.Len(t, sink.ratingWrites[dateKey(d2)], 60)
	assert.Equal(t, 60, summary.RecordsWritten)
}

func TestDriver_RunRangeDefaultsToStoreBounds(t *testing.T) {
	dates := []time.Time{
		day(2026, time.January, 5),
		day(2026, time.January, 6),
		day(2026, time.January, 7),
	}

	source := rangeSource(t, dates)
	sink := newFakeSink()

	orch := NewOrchestrator(source, testEngineConfig(), testLogger())
	driver := NewDriver(source, sink, orch, testEngineConfig(), testLogger())

	summary, err := driver.RunRange(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.DatesProcessed)
	assert.Equal(t, 180, summary.RecordsWritten)
}

func TestDriver_RunRecentAlwaysRecomputes(t *testing.T) {
	d1 := day(2026, time.January, 6)
	d2 := day(2026, time.January, 7)
	dates := []time.Time{d1, d2}

	source := rangeSource(t, dates)
	sink := newFakeSink()

	// Both dates look "done"; the recent window ignores that
	sink.counts[dateKey(d1)] = 60
	sink.counts[dateKey(d2)] = 60

	orch := NewOrchestrator(source, testEngineConfig(), testLogger())
	driver := NewDriver(source, sink, orch, testEngineConfig(), testLogger())

	summary, err := driver.RunRecent(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.DatesProcessed)
	assert.Zero(t, summary.DatesSkipped)
	assert.Contains(t, sink.ratingWrites, dateKey(d1))
	assert.Contains(t, sink.ratingWrites, dateKey(d2))
}

func TestDriver_RunDateSingle(t *testing.T) {
	d1 := day(2026, time.January, 6)
	source := rangeSource(t, []time.Time{d1})
	sink := newFakeSink()

	orch := NewOrchestrator(source, testEngineConfig(), testLogger())
	driver := NewDriver(source, sink, orch, testEngineConfig(), testLogger())

	summary, err := driver.RunDate(context.Background(), d1)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DatesProcessed)
	assert.Equal(t, 60, summary.RecordsWritten)
	assert.Contains(t, sink.auditWrites, dateKey(d1))
}

func TestDriver_PersistenceFailureSkipsDateAndContinues(t *testing.T) {
	d1 := day(2026, time.January, 6)
	d2 := day(2026, time.January, 7)

	source := rangeSource(t, []time.Time{d1, d2})
	sink := newFakeSink()
	sink.failRatings = true

	orch := NewOrchestrator(source, testEngineConfig(), testLogger())
	driver := NewDriver(source, sink, orch, testEngineConfig(), testLogger())

	summary, err := driver.RunRange(context.Background(), d1, d2)
	require.NoError(t, err, "rating upsert failures must not abort the run")

	assert.Zero(t, summary.DatesProcessed)
	assert.Zero(t, summary.RecordsWritten)

	// Both dates were attempted: the audit writes went through
	assert.Contains(t, sink.auditWrites, dateKey(d1))
	assert.Contains(t, sink.auditWrites, dateKey(d2))
}

func TestDriver_CancellationStopsBetweenDates(t *testing.T) {
	d1 := day(2026, time.January, 6)
	source := rangeSource(t, []time.Time{d1})
	sink := newFakeSink()

	orch := NewOrchestrator(source, testEngineConfig(), testLogger())
	driver := NewDriver(source, sink, orch, testEngineConfig(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := driver.RunRange(ctx, d1, d1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.DatesProcessed)
	assert.Empty(t, sink.ratingWrites)
}

func TestDriver_SkipsEmptyDates(t *testing.T) {
	d1 := day(2026, time.January, 6)
	source := rangeSource(t, []time.Time{d1})
	sink := newFakeSink()

	orch := NewOrchestrator(source, testEngineConfig(), testLogger())
	driver := NewDriver(source, sink, orch, testEngineConfig(), testLogger())

	// A holiday inside the range: TradingDates never returns it, so
	// the run only sees d1
	summary, err := driver.RunRange(context.Background(), d1.AddDate(0, 0, -3), d1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DatesProcessed)
}
