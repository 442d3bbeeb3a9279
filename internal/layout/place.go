package layout

import (
	"fmt"
	"time"

	"weekpack/internal/grid"
	"weekpack/internal/model"
)

// Placement is the final layout decision for one event in one column. It is
// pure derived data: recomputed on every export run and discarded after
// rendering.
type Placement struct {
	Event  model.Event
	Span   grid.SlotSpan
	Column int
	Lane   int
	// LaneCount is the number of sub-columns active during Span; the
	// renderer divides the column width by it.
	LaneCount int
	// Detail hints that the event carries notes or action items and should
	// get the wide three-region layout when its rectangle is tall enough.
	Detail bool
}

// SkippedEvent records an event excluded from placement, and why. Skips are
// diagnostics, not errors: the document still renders for everything valid.
type SkippedEvent struct {
	Event  model.Event
	Column int
	Reason string
}

// RangeClampWarning records an event whose span was clipped at a grid
// boundary hard enough to misrepresent it (a multi-hour event collapsed to
// a single slot). Callers may widen the grid; rendering proceeds either way.
type RangeClampWarning struct {
	Event  model.Event
	Column int
	Span   grid.SlotSpan
}

// Diagnostics aggregates the non-fatal findings of one placement run.
type Diagnostics struct {
	Skipped []SkippedEvent
	Clamped []RangeClampWarning
}

func (d Diagnostics) String() string {
	return fmt.Sprintf("skipped=%d clamped=%d", len(d.Skipped), len(d.Clamped))
}

// Place lays out events grouped by column (day offset) onto the grid. Each
// column is resolved independently; the same event may legitimately appear
// in two separate calls (mini rectangle on the overview, full rectangle on
// its day page) and no state is shared between them.
//
// dayFor maps a column index to the calendar day its grid is anchored on.
func Place(eventsByColumn map[int][]model.Event, g grid.Grid, dayFor func(column int) time.Time) ([]Placement, Diagnostics) {
	var placements []Placement
	var diag Diagnostics

	// Column iteration order does not affect results (columns are
	// independent), but keep it sorted for stable log/diagnostic order.
	for col := 0; col < model.DaysPerWeek; col++ {
		events, ok := eventsByColumn[col]
		if !ok {
			continue
		}
		day := dayFor(col)

		valid := make([]model.Event, 0, len(events))
		for _, ev := range events {
			if reason := invalidReason(ev); reason != "" {
				diag.Skipped = append(diag.Skipped, SkippedEvent{Event: ev, Column: col, Reason: reason})
				continue
			}
			valid = append(valid, ev)
		}

		for _, p := range Pack(valid, g, day) {
			placements = append(placements, Placement{
				Event:     p.Event,
				Span:      p.Span,
				Column:    col,
				Lane:      p.Lane,
				LaneCount: p.LaneCount,
				Detail:    p.Event.HasDetails(),
			})
			if p.Clamped && collapsed(p) {
				diag.Clamped = append(diag.Clamped, RangeClampWarning{
					Event:  p.Event,
					Column: col,
					Span:   p.Span,
				})
			}
		}
	}

	return placements, diag
}

// invalidReason returns a non-empty reason string when the event cannot be
// placed at all.
func invalidReason(ev model.Event) string {
	if ev.Start.IsZero() || ev.End.IsZero() {
		return "missing timestamp"
	}
	if !ev.End.After(ev.Start) {
		return "end not after start"
	}
	return ""
}

// collapsed reports whether clamping squeezed a substantial event into a
// single-slot sliver, which is worth warning about.
func collapsed(p Packed) bool {
	return p.Span.SlotCount == 1 && p.Event.Duration() > time.Hour
}
