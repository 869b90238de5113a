package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridSlots(t *testing.T) {
	slots := GridSlots()

	require.Len(t, slots, 16)
	assert.Equal(t, 9*60, slots[0])
	assert.Equal(t, 17*60+30, slots[len(slots)-1])

	for _, s := range slots {
		assert.False(t, s >= LunchStartsAt && s < LunchEndsAt, "slot %d starts inside lunch", s)
	}

	// Stateless: a second enumeration is identical.
	assert.Equal(t, slots, GridSlots())
}

func TestMinuteRangeOverlaps(t *testing.T) {
	morning := MinuteRange{Start: 9 * 60, End: 12 * 60}

	assert.True(t, morning.Overlaps(MinuteRange{Start: 11 * 60, End: 13 * 60}))
	assert.True(t, morning.Overlaps(MinuteRange{Start: 10 * 60, End: 10*60 + 30}))

	// Back-to-back half-open ranges do not overlap.
	assert.False(t, morning.Overlaps(MinuteRange{Start: 12 * 60, End: 13 * 60}))
	assert.False(t, morning.Overlaps(MinuteRange{Start: 8 * 60, End: 9 * 60}))
}

func TestMinuteRangeIntersect(t *testing.T) {
	store := MinuteRange{Start: 9 * 60, End: 18 * 60}

	clipped, ok := store.Intersect(MinuteRange{Start: 8 * 60, End: 11 * 60})
	require.True(t, ok)
	assert.Equal(t, MinuteRange{Start: 9 * 60, End: 11 * 60}, clipped)

	_, ok = store.Intersect(MinuteRange{Start: 18 * 60, End: 20 * 60})
	assert.False(t, ok)
}

func TestIntersectAll_SplitShift(t *testing.T) {
	store := MinuteRange{Start: 9 * 60, End: 18 * 60}
	shifts := []MinuteRange{
		{Start: 8 * 60, End: 11 * 60},
		{Start: 14 * 60, End: 19 * 60},
	}

	open := IntersectAll(store, shifts)
	require.Len(t, open, 2)
	assert.Equal(t, MinuteRange{Start: 9 * 60, End: 11 * 60}, open[0])
	assert.Equal(t, MinuteRange{Start: 14 * 60, End: 18 * 60}, open[1])
}

func TestSlotFits(t *testing.T) {
	open := []MinuteRange{
		{Start: 9 * 60, End: 12 * 60},
		{Start: 13 * 60, End: 18 * 60},
	}

	t.Run("fits inside a block", func(t *testing.T) {
		assert.True(t, SlotFits(open, 9*60, 30))
		assert.True(t, SlotFits(open, 10*60, 60))
	})

	t.Run("must end by closing time", func(t *testing.T) {
		assert.True(t, SlotFits(open, 17*60, 60))
		assert.False(t, SlotFits(open, 17*60+30, 60))
	})

	t.Run("cannot cross the lunch break", func(t *testing.T) {
		assert.False(t, SlotFits(open, 11*60+30, 60))
		assert.True(t, SlotFits(open, 11*60+30, 30))
	})

	t.Run("cannot span two shifts", func(t *testing.T) {
		split := []MinuteRange{
			{Start: 9 * 60, End: 10 * 60},
			{Start: 10 * 60, End: 11 * 60},
		}
		assert.False(t, SlotFits(split, 9*60+30, 60))
	})

	t.Run("no open blocks means nothing fits", func(t *testing.T) {
		assert.False(t, SlotFits(nil, 9*60, 30))
	})
}

func TestOverlapsInstants(t *testing.T) {
	base := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

	a0, a1 := base, base.Add(30*time.Minute)
	assert.True(t, Overlaps(a0, a1, base.Add(15*time.Minute), base.Add(45*time.Minute)))

	// Back-to-back appointments share an endpoint but not an instant.
	assert.False(t, Overlaps(a0, a1, a1, a1.Add(30*time.Minute)))
}

func TestWeekBounds(t *testing.T) {
	// Tuesday 2026-03-10: week runs Sunday 03-08 through Sunday 03-15.
	tue := time.Date(2026, time.March, 10, 15, 42, 0, 0, time.UTC)
	start, end := WeekBounds(tue)
	assert.Equal(t, time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), end)

	// A Sunday anchors its own week.
	sun := time.Date(2026, time.March, 8, 23, 59, 0, 0, time.UTC)
	start, end = WeekBounds(sun)
	assert.Equal(t, time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2026, time.January, 31, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), end)

	// December rolls into the next year.
	start, end = MonthBounds(time.Date(2026, time.December, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 12, 2, 0, 0, 0, time.UTC)

	days := DaysBetween(start, end)
	require.Len(t, days, 3)
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC), days[2])

	single := DaysBetween(start, start)
	require.Len(t, single, 1)
}

func TestAtMinutes(t *testing.T) {
	day := time.Date(2026, time.March, 10, 17, 30, 0, 0, time.UTC)
	got := AtMinutes(day, 9*60+30)
	assert.Equal(t, time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC), got)
	assert.Equal(t, 9*60+30, MinutesOfDay(got))
}
