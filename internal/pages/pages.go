// Package pages owns the document's page model and the clickable link graph
// derived from it. Page numbering lives here and nowhere else: every
// component that needs a target page number asks this package instead of
// recomputing "dayIndex + 2" locally.
package pages

import (
	"time"

	"weekpack/internal/model"
)

// Kind distinguishes the two page layouts of the document.
type Kind string

const (
	KindOverview Kind = "overview"
	KindDay      Kind = "day"
)

// Page is one page of the output document.
type Page struct {
	// Index is the 1-based page number in final document order.
	Index int
	Kind  Kind
	// DayOffset is the 0-based offset from the week's first day for day
	// pages, -1 for the overview.
	DayOffset int
	// Date is the calendar day the page covers; for the overview it is the
	// week's first day.
	Date time.Time
}

// Build produces the fixed page sequence for one week: page 1 is the
// overview, pages 2..8 are day pages in calendar order from weekStart.
// Deterministic by contract; the link builder and renderer both depend on
// exactly this order.
func Build(weekStart time.Time) []Page {
	pages := make([]Page, 0, 1+model.DaysPerWeek)
	pages = append(pages, Page{
		Index:     1,
		Kind:      KindOverview,
		DayOffset: -1,
		Date:      weekStart,
	})
	for off := 0; off < model.DaysPerWeek; off++ {
		pages = append(pages, Page{
			Index:     2 + off,
			Kind:      KindDay,
			DayOffset: off,
			Date:      weekStart.AddDate(0, 0, off),
		})
	}
	return pages
}

// DayPageIndex returns the page number of the day page for the given day
// offset. This is the only place the offset-to-page formula exists.
func DayPageIndex(dayOffset int) int {
	return 2 + dayOffset
}

// OverviewPageIndex is the page number of the weekly overview.
const OverviewPageIndex = 1
