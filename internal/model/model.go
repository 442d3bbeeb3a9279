package model

import (
	"strings"
	"time"
)

// SourceTag identifies which calendar system an event came from. It drives
// visual styling only, never layout. The set is open: unknown tags are kept
// as-is and rendered with the default style.
type SourceTag string

const (
	SourceSimplePractice SourceTag = "simplepractice"
	SourceGoogle         SourceTag = "google"
	SourceHoliday        SourceTag = "holiday"
	SourceManual         SourceTag = "manual"
)

// NormalizeSource maps free-form source strings from upstream feeds onto a
// canonical tag. Resolution happens exactly once, at ingestion; nothing
// downstream re-derives the source from titles or other heuristics.
func NormalizeSource(s string) SourceTag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simplepractice", "simple_practice", "sp":
		return SourceSimplePractice
	case "google", "google_calendar", "gcal":
		return SourceGoogle
	case "holiday", "holidays":
		return SourceHoliday
	case "", "manual":
		return SourceManual
	default:
		return SourceTag(strings.ToLower(strings.TrimSpace(s)))
	}
}

// Event is a single resolved calendar event as consumed by the exporter.
// Ingestion (JSON feed or ICS expansion) has already normalized timezones
// and recurrences; the exporter never sees raw RRULEs.
type Event struct {
	// ID is an opaque unique identifier. Events arriving without one are
	// assigned a UUID at ingestion so lane assignment stays deterministic.
	ID string

	Title string

	// Start / End in the configured display timezone. End must be after
	// Start; invalid events are excluded from placement with a diagnostic.
	Start time.Time
	End   time.Time

	Source SourceTag

	// Notes / ActionItems are optional multi-line annotations. Their
	// presence makes the renderer prefer the wide three-region detail
	// layout when the event's rectangle is tall enough.
	Notes       []string
	ActionItems []string
}

// Duration returns the event's nominal duration. Not clipped to any grid.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// HasDetails reports whether the event carries notes or action items.
func (e Event) HasDetails() bool {
	return len(e.Notes) > 0 || len(e.ActionItems) > 0
}
