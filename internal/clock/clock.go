// Package clock holds calendar-day helpers shared by the store, the
// progression engine and the extractor. All day arithmetic happens in the
// location of the reference time, so local midnight is local midnight.
package clock

import "time"

// Clock returns the current time. Components take one so tests can pin "today".
type Clock func() time.Time

func System() time.Time { return time.Now() }

const dateLayout = "2006-01-02"

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days and snaps to midnight.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// DateKey renders the calendar day of t in t's location.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// SameDay compares calendar days, reading other in ref's location.
func SameDay(ref, other time.Time) bool {
	y1, m1, d1 := ref.Date()
	y2, m2, d2 := other.In(ref.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DaysFrom returns how many calendar days other lies after ref
// (negative when before), using ref's location.
func DaysFrom(ref, other time.Time) int {
	a := StartOfDay(ref)
	o := other.In(ref.Location())
	b := time.Date(o.Year(), o.Month(), o.Day(), 0, 0, 0, 0, ref.Location())
	// Noon anchors keep DST shifts from rounding a day away.
	an := a.Add(12 * time.Hour)
	bn := b.Add(12 * time.Hour)
	return int(bn.Sub(an).Round(24*time.Hour) / (24 * time.Hour))
}
