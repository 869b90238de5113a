// Package calendar holds the pure time math the booking engine is built on.
// All intervals are half-open: [start, end). Nothing in this package reads
// the clock; callers pass every instant in.
package calendar

import "time"

// Fixed daily slot grid. Slots start every SlotMinutes between open and
// close, and never inside the lunch break.
const (
	GridOpensAt   = 9 * 60  // 09:00
	GridClosesAt  = 18 * 60 // 18:00
	LunchStartsAt = 12 * 60
	LunchEndsAt   = 13 * 60
	SlotMinutes   = 30

	MinutesPerDay = 24 * 60
)

// MinuteRange is a half-open block of minutes within a single day.
type MinuteRange struct {
	Start int
	End   int
}

// Valid reports whether the range sits inside one day and is non-empty.
func (r MinuteRange) Valid() bool {
	return r.Start >= 0 && r.End <= MinutesPerDay && r.Start < r.End
}

// Overlaps reports whether two half-open minute ranges intersect.
func (r MinuteRange) Overlaps(other MinuteRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Contains reports whether other lies entirely inside r.
func (r MinuteRange) Contains(other MinuteRange) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Intersect returns the overlap of two ranges, if any.
func (r MinuteRange) Intersect(other MinuteRange) (MinuteRange, bool) {
	out := MinuteRange{Start: max(r.Start, other.Start), End: min(r.End, other.End)}
	if out.Start >= out.End {
		return MinuteRange{}, false
	}
	return out, true
}

// IntersectAll intersects one range against a set, returning the surviving
// sub-ranges in order. Used to clip provider blocks to store hours.
func IntersectAll(base MinuteRange, blocks []MinuteRange) []MinuteRange {
	var out []MinuteRange
	for _, b := range blocks {
		if clipped, ok := base.Intersect(b); ok {
			out = append(out, clipped)
		}
	}
	return out
}

// MinutesOfDay converts an instant to minutes since its local midnight.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Overlaps reports whether two half-open instant intervals intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// GridSlots enumerates the fixed daily slot starts in minutes since
// midnight: every SlotMinutes from open to close, skipping starts that fall
// inside the lunch break. The result is the same for every day.
func GridSlots() []int {
	var slots []int
	for start := GridOpensAt; start < GridClosesAt; start += SlotMinutes {
		if start >= LunchStartsAt && start < LunchEndsAt {
			continue
		}
		slots = append(slots, start)
	}
	return slots
}

// FitsWithin reports whether the candidate range lies entirely inside one of
// the open blocks. Blocks are not merged first; a booking never spans two
// separate shifts.
func FitsWithin(blocks []MinuteRange, candidate MinuteRange) bool {
	for _, b := range blocks {
		if b.Contains(candidate) {
			return true
		}
	}
	return false
}

// SlotFits applies the full duration-fit rule for one grid slot: the whole
// service interval must sit inside an open block, end by closing time, and
// stay clear of the lunch break.
func SlotFits(blocks []MinuteRange, slotStart, durationMinutes int) bool {
	candidate := MinuteRange{Start: slotStart, End: slotStart + durationMinutes}
	if candidate.End > GridClosesAt {
		return false
	}
	if candidate.Overlaps(MinuteRange{Start: LunchStartsAt, End: LunchEndsAt}) {
		return false
	}
	return FitsWithin(blocks, candidate)
}

// DayStart truncates an instant to its local midnight.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AtMinutes materializes a minutes-since-midnight offset on a concrete day.
func AtMinutes(day time.Time, minutes int) time.Time {
	return DayStart(day).Add(time.Duration(minutes) * time.Minute)
}

// WeekBounds returns the half-open week window containing t. Weeks start
// Sunday 00:00 in t's location.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	start := DayStart(t).AddDate(0, 0, -int(t.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

// MonthBounds returns the half-open calendar month window containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// DaysBetween enumerates the local midnights from start through end
// inclusive, in chronological order.
func DaysBetween(start, end time.Time) []time.Time {
	var days []time.Time
	for day := DayStart(start); !day.After(DayStart(end)); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}
