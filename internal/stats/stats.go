// Package stats computes the per-day summary line shown on day pages.
// Values are always derived from the actual events; nothing here is ever
// pinned to a fixed figure.
package stats

import (
	"fmt"
	"time"

	"weekpack/internal/grid"
	"weekpack/internal/model"
)

// Day summarizes one day's schedule within the visible grid range.
type Day struct {
	// Appointments is the number of placeable events on the day.
	Appointments int
	// Scheduled is the total event time clipped to the grid range. Overlap
	// between events is not double counted.
	Scheduled time.Duration
	// Available is the grid time not covered by any event.
	Available time.Duration
	// FreePercent is Available over the grid's total span, 0-100.
	FreePercent int
}

// Compute derives a Day summary for the events of one day. Invalid events
// (end not after start) are ignored, matching placement's skip policy.
func Compute(events []model.Event, g grid.Grid, day time.Time) Day {
	total := time.Duration(g.SlotCount()*g.SlotMinutes) * time.Minute

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	gridStart := midnight.Add(time.Duration(g.StartMinute) * time.Minute)
	gridEnd := gridStart.Add(total)

	// Merge clipped event intervals so overlapping sessions count once.
	type interval struct{ start, end time.Time }
	var clipped []interval
	count := 0
	for _, ev := range events {
		if !ev.End.After(ev.Start) {
			continue
		}
		count++
		s, e := ev.Start, ev.End
		if s.Before(gridStart) {
			s = gridStart
		}
		if e.After(gridEnd) {
			e = gridEnd
		}
		if !e.After(s) {
			continue
		}
		clipped = append(clipped, interval{s, e})
	}

	// Insertion-merge keeps this simple at day scale.
	var merged []interval
	for _, iv := range clipped {
		out := merged[:0]
		for _, m := range merged {
			if m.end.Before(iv.start) || iv.end.Before(m.start) {
				out = append(out, m)
				continue
			}
			if m.start.Before(iv.start) {
				iv.start = m.start
			}
			if m.end.After(iv.end) {
				iv.end = m.end
			}
		}
		merged = append(out, iv)
	}

	var scheduled time.Duration
	for _, m := range merged {
		scheduled += m.end.Sub(m.start)
	}

	available := total - scheduled
	freePct := 0
	if total > 0 {
		freePct = int(float64(available) / float64(total) * 100)
	}

	return Day{
		Appointments: count,
		Scheduled:    scheduled,
		Available:    available,
		FreePercent:  freePct,
	}
}

// Line formats the summary the way day pages print it, e.g.
// "3 appointments | 4.5h Scheduled | 13.5h Available | 75% Free Time".
func (d Day) Line() string {
	noun := "appointments"
	if d.Appointments == 1 {
		noun = "appointment"
	}
	return fmt.Sprintf("%d %s | %sh Scheduled | %sh Available | %d%% Free Time",
		d.Appointments, noun, hours(d.Scheduled), hours(d.Available), d.FreePercent)
}

func hours(d time.Duration) string {
	h := d.Hours()
	if h == float64(int(h)) {
		return fmt.Sprintf("%.0f", h)
	}
	return fmt.Sprintf("%.1f", h)
}
