// Package grid maps event timestamps onto the fixed half-hour time grid a
// planner page draws. The grid is pure arithmetic: no I/O, no mutable state.
package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Default grid bounds: 06:00 through 23:30, half-hour slots. EndMinute is
// the start of the last slot (inclusive), so the default grid has 36 slots.
const (
	DefaultStartMinute = 6 * 60
	DefaultEndMinute   = 23*60 + 30
	DefaultSlotMinutes = 30
)

// Grid describes the slot sequence of one day column. Minutes are counted
// from midnight of the reference day.
type Grid struct {
	// StartMinute is the start of slot 0.
	StartMinute int
	// EndMinute is the start of the last slot (inclusive bound).
	EndMinute int
	// SlotMinutes is the fixed slot granularity.
	SlotMinutes int
}

// SlotSpan is a contiguous run of slots occupied by one event.
type SlotSpan struct {
	// StartSlot is the 0-based index of the first occupied slot.
	StartSlot int
	// SlotCount is the number of slots occupied, never less than 1.
	SlotCount int
}

// Default returns the standard planner grid (06:00-23:30, 30 minutes).
func Default() Grid {
	return Grid{
		StartMinute: DefaultStartMinute,
		EndMinute:   DefaultEndMinute,
		SlotMinutes: DefaultSlotMinutes,
	}
}

// Validate reports whether the grid bounds are usable.
func (g Grid) Validate() error {
	if g.SlotMinutes <= 0 {
		return fmt.Errorf("grid: slot minutes must be positive, got %d", g.SlotMinutes)
	}
	if g.EndMinute < g.StartMinute {
		return fmt.Errorf("grid: end %d before start %d", g.EndMinute, g.StartMinute)
	}
	if (g.EndMinute-g.StartMinute)%g.SlotMinutes != 0 {
		return fmt.Errorf("grid: range %d..%d not divisible by slot %d", g.StartMinute, g.EndMinute, g.SlotMinutes)
	}
	return nil
}

// SlotCount returns the number of slots in the grid, counting the slot that
// begins at EndMinute.
func (g Grid) SlotCount() int {
	return (g.EndMinute-g.StartMinute)/g.SlotMinutes + 1
}

// minutesInto returns t's offset from midnight of referenceDay, in minutes.
// Negative values and values past 24h are legitimate: an event bucketed to
// this day may start the evening before or end after midnight, and clamping
// clips it to the visible range.
func (g Grid) minutesInto(t time.Time, referenceDay time.Time) int {
	midnight := time.Date(referenceDay.Year(), referenceDay.Month(), referenceDay.Day(),
		0, 0, 0, 0, referenceDay.Location())
	return int(t.Sub(midnight) / time.Minute)
}

// SlotIndexOf converts a timestamp to a slot index on referenceDay's grid.
// Timestamps before the grid start clamp to 0; timestamps at or past the
// end clamp to SlotCount()-1. Every timestamp maps to a valid slot.
func (g Grid) SlotIndexOf(t time.Time, referenceDay time.Time) int {
	m := g.minutesInto(t, referenceDay)
	if m < g.StartMinute {
		return 0
	}
	idx := (m - g.StartMinute) / g.SlotMinutes
	if idx > g.SlotCount()-1 {
		return g.SlotCount() - 1
	}
	return idx
}

// SlotSpanOf computes the slot span an event occupies on referenceDay.
// The end maps to an exclusive slot bound via ceiling division, clamped to
// [startSlot+1, SlotCount]; the span is never shorter than one slot, so
// zero-duration and sub-granularity events stay visible and clickable.
//
// The returned clamped flag is true when any boundary clamping occurred,
// letting callers surface a range warning without re-deriving it here.
func (g Grid) SlotSpanOf(start, end time.Time, referenceDay time.Time) (SlotSpan, bool) {
	startSlot := g.SlotIndexOf(start, referenceDay)

	startMin := g.minutesInto(start, referenceDay)
	endMin := g.minutesInto(end, referenceDay)

	endExclusive := ceilDiv(endMin-g.StartMinute, g.SlotMinutes)
	// Start clamping happened if the start fell before slot 0 or past the
	// end of the last slot.
	clamped := startMin < g.StartMinute || startMin >= g.EndMinute+g.SlotMinutes

	if endExclusive > g.SlotCount() {
		endExclusive = g.SlotCount()
		clamped = true
	}
	if endExclusive < startSlot+1 {
		endExclusive = startSlot + 1
		clamped = true
	}

	count := endExclusive - startSlot
	if count < 1 {
		count = 1
	}
	return SlotSpan{StartSlot: startSlot, SlotCount: count}, clamped
}

// SlotStart is the inverse mapping: the wall-clock start of slot i on
// referenceDay. Indexes outside the grid are clamped first, so composing
// SlotIndexOf with SlotStart always recovers the slot's half-hour bucket.
func (g Grid) SlotStart(i int, referenceDay time.Time) time.Time {
	if i < 0 {
		i = 0
	}
	if i > g.SlotCount()-1 {
		i = g.SlotCount() - 1
	}
	midnight := time.Date(referenceDay.Year(), referenceDay.Month(), referenceDay.Day(),
		0, 0, 0, 0, referenceDay.Location())
	return midnight.Add(time.Duration(g.StartMinute+i*g.SlotMinutes) * time.Minute)
}

// SlotLabel formats the start of slot i as "HH:MM" for row labels.
func (g Grid) SlotLabel(i int) string {
	m := g.StartMinute + i*g.SlotMinutes
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// ParseClock parses a "HH:MM" string into minutes from midnight. Used by
// config to express grid bounds.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("grid: bad clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("grid: bad hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("grid: bad minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("grid: clock value %q out of range", s)
	}
	return h*60 + m, nil
}
