package pages

import (
	"fmt"

	"weekpack/internal/grid"
	"weekpack/internal/layout"
	"weekpack/internal/model"
)

// LinkRegion is one clickable rectangle and its destination page.
type LinkRegion struct {
	// OnPage is the 1-based index of the page carrying the region.
	OnPage int
	Rect   Rect
	// TargetPage is the 1-based destination page index. Always validated
	// against the page model before rendering.
	TargetPage int
	// Label names the region for logs and tests ("back to overview",
	// "next day", ...). Purely descriptive.
	Label string
}

// BuildLinks derives the navigation link graph for a page model:
//
//   - overview page: one region per day column header, targeting that day
//   - each day page: back-to-overview, plus previous/next day where those
//     neighbors exist
//
// The result is validated before being returned; a dangling target means
// the numbering contract was broken and is an error, never a warning.
func BuildLinks(pgs []Page) ([]LinkRegion, error) {
	var regions []LinkRegion

	for _, p := range pgs {
		switch p.Kind {
		case KindOverview:
			for off := 0; off < model.DaysPerWeek; off++ {
				regions = append(regions, LinkRegion{
					OnPage:     p.Index,
					Rect:       OverviewHeaderRect(off),
					TargetPage: DayPageIndex(off),
					Label:      fmt.Sprintf("day header %d", off),
				})
			}

		case KindDay:
			regions = append(regions, LinkRegion{
				OnPage:     p.Index,
				Rect:       NavOverviewRect,
				TargetPage: OverviewPageIndex,
				Label:      "back to overview",
			})
			if p.DayOffset > 0 {
				regions = append(regions, LinkRegion{
					OnPage:     p.Index,
					Rect:       NavPrevRect,
					TargetPage: p.Index - 1,
					Label:      "previous day",
				})
			}
			if p.DayOffset < model.DaysPerWeek-1 {
				regions = append(regions, LinkRegion{
					OnPage:     p.Index,
					Rect:       NavNextRect,
					TargetPage: p.Index + 1,
					Label:      "next day",
				})
			}
		}
	}

	if err := Validate(regions, pgs); err != nil {
		return nil, err
	}
	return regions, nil
}

// AppendEventLinks adds a deep-link region for every overview placement so
// an event block doubles as navigation to its own day page. Placements are
// expected to come from the overview layout pass (column = day offset).
func AppendEventLinks(regions []LinkRegion, pgs []Page, placements []layout.Placement, g grid.Grid) ([]LinkRegion, error) {
	for _, pl := range placements {
		regions = append(regions, LinkRegion{
			OnPage: OverviewPageIndex,
			Rect: OverviewSlotRect(pl.Column, pl.Span.StartSlot, pl.Span.SlotCount,
				pl.Lane, pl.LaneCount, g.SlotCount()),
			TargetPage: DayPageIndex(pl.Column),
			Label:      "event " + pl.Event.ID,
		})
	}
	if err := Validate(regions, pgs); err != nil {
		return nil, err
	}
	return regions, nil
}

// Validate checks every region against the page model: the source page must
// exist and the target page must exist. A violation is a programming error
// in page/link generation, so it surfaces immediately instead of producing
// a document with links into nowhere.
func Validate(regions []LinkRegion, pgs []Page) error {
	valid := make(map[int]bool, len(pgs))
	for _, p := range pgs {
		valid[p.Index] = true
	}
	for _, r := range regions {
		if !valid[r.OnPage] {
			return fmt.Errorf("pages: link %q placed on missing page %d", r.Label, r.OnPage)
		}
		if !valid[r.TargetPage] {
			return fmt.Errorf("pages: link %q on page %d targets missing page %d",
				r.Label, r.OnPage, r.TargetPage)
		}
	}
	return nil
}

// RegionsOn filters the regions carried by one page, in declaration order.
func RegionsOn(regions []LinkRegion, pageIndex int) []LinkRegion {
	var out []LinkRegion
	for _, r := range regions {
		if r.OnPage == pageIndex {
			out = append(out, r)
		}
	}
	return out
}
