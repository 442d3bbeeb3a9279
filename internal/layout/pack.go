// Package layout turns a day's events into non-colliding rectangles on the
// slot grid: overlap resolution into parallel lanes, then placement across
// the week's columns.
package layout

import (
	"sort"
	"time"

	"weekpack/internal/grid"
	"weekpack/internal/model"
)

// Packed is one event's lane assignment within a single column.
type Packed struct {
	Event model.Event
	Span  grid.SlotSpan

	// Lane is the 0-based sub-column the event was assigned to.
	Lane int
	// LaneCount is the maximum number of simultaneously occupied lanes
	// across this event's own span. Rectangle width is columnWidth/LaneCount.
	LaneCount int

	// Clamped is true when the span was clipped at a grid boundary.
	Clamped bool
}

// Pack assigns every event of one column to a lane such that no two events
// in the same lane occupy a common slot. Lanes are unbounded; a crowded
// column simply grows narrower lanes (capping is a caller policy, see
// CapLanes).
//
// Events are processed in (start, end, id) order, so repeated runs on the
// same input - in any order - produce identical lane assignments. Overlap
// is judged on slot spans, not raw times: two sub-granularity events in the
// same half-hour slot would draw on top of each other and therefore get
// separate lanes even if their wall-clock ranges are disjoint.
func Pack(events []model.Event, g grid.Grid, day time.Time) []Packed {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return a.ID < b.ID
	})

	out := make([]Packed, 0, len(sorted))

	// laneEnds[i] is the exclusive end slot of lane i's current occupant.
	var laneEnds []int

	for _, ev := range sorted {
		span, clamped := g.SlotSpanOf(ev.Start, ev.End, day)

		// Lowest free lane wins; a lane is free once its occupant ends at
		// or before this event's first slot.
		lane := -1
		for i, end := range laneEnds {
			if end <= span.StartSlot {
				lane = i
				break
			}
		}
		if lane == -1 {
			laneEnds = append(laneEnds, 0)
			lane = len(laneEnds) - 1
		}
		laneEnds[lane] = span.StartSlot + span.SlotCount

		out = append(out, Packed{
			Event:   ev,
			Span:    span,
			Lane:    lane,
			Clamped: clamped,
		})
	}

	fillLaneCounts(out, g)
	return out
}

// fillLaneCounts computes, for each packed event, the peak number of
// concurrently occupied slots across its own span. Using the per-span peak
// rather than the column's global maximum lets non-overlapping clusters
// each spread to full column width.
func fillLaneCounts(packed []Packed, g grid.Grid) {
	// occupancy[s] = number of events covering slot s.
	occupancy := make([]int, g.SlotCount())
	for _, p := range packed {
		for s := p.Span.StartSlot; s < p.Span.StartSlot+p.Span.SlotCount; s++ {
			occupancy[s]++
		}
	}

	for i := range packed {
		peak := 1
		span := packed[i].Span
		for s := span.StartSlot; s < span.StartSlot+span.SlotCount; s++ {
			if occupancy[s] > peak {
				peak = occupancy[s]
			}
		}
		packed[i].LaneCount = peak
	}
}
