package pages

import (
	"testing"
	"time"

	"weekpack/internal/grid"
	"weekpack/internal/layout"
	"weekpack/internal/model"
)

var weekStart = time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC) // Monday

func TestBuildPageModel(t *testing.T) {
	pgs := Build(weekStart)

	if len(pgs) != 8 {
		t.Fatalf("got %d pages, want 8", len(pgs))
	}
	if pgs[0].Kind != KindOverview || pgs[0].Index != 1 || pgs[0].DayOffset != -1 {
		t.Errorf("page 1 = %+v, want overview at index 1", pgs[0])
	}
	for i, p := range pgs[1:] {
		if p.Kind != KindDay {
			t.Errorf("page %d kind = %s, want day", p.Index, p.Kind)
		}
		if p.Index != i+2 || p.DayOffset != i {
			t.Errorf("page %d: DayOffset = %d, want %d", p.Index, p.DayOffset, i)
		}
		wantDate := weekStart.AddDate(0, 0, i)
		if !p.Date.Equal(wantDate) {
			t.Errorf("page %d date = %v, want %v", p.Index, p.Date, wantDate)
		}
	}
}

func TestBuildLinksCompleteness(t *testing.T) {
	pgs := Build(weekStart)
	regions, err := BuildLinks(pgs)
	if err != nil {
		t.Fatalf("BuildLinks: %v", err)
	}

	var overviewToDay, back, prev, next int
	for _, r := range regions {
		switch {
		case r.OnPage == OverviewPageIndex:
			overviewToDay++
		case r.Label == "back to overview":
			back++
		case r.Label == "previous day":
			prev++
		case r.Label == "next day":
			next++
		}
	}

	if overviewToDay != 7 {
		t.Errorf("overview->day regions = %d, want 7", overviewToDay)
	}
	if back != 7 {
		t.Errorf("back-to-overview regions = %d, want 7", back)
	}
	if prev != 6 {
		t.Errorf("previous-day regions = %d, want 6 (none on first day)", prev)
	}
	if next != 6 {
		t.Errorf("next-day regions = %d, want 6 (none on last day)", next)
	}
	if total := back + prev + next; total != 19 {
		t.Errorf("day-page nav regions = %d, want 19", total)
	}
}

func TestBuildLinksTargets(t *testing.T) {
	pgs := Build(weekStart)
	regions, err := BuildLinks(pgs)
	if err != nil {
		t.Fatalf("BuildLinks: %v", err)
	}

	for _, r := range regions {
		if r.TargetPage < 1 || r.TargetPage > len(pgs) {
			t.Errorf("link %q targets page %d outside 1..%d", r.Label, r.TargetPage, len(pgs))
		}
	}

	// Spot checks against the numbering contract.
	for off := 0; off < model.DaysPerWeek; off++ {
		if got := DayPageIndex(off); got != 2+off {
			t.Errorf("DayPageIndex(%d) = %d, want %d", off, got, 2+off)
		}
	}
	for _, r := range RegionsOn(regions, 5) { // Thursday, offset 3
		switch r.Label {
		case "back to overview":
			if r.TargetPage != 1 {
				t.Errorf("back link targets %d, want 1", r.TargetPage)
			}
		case "previous day":
			if r.TargetPage != 4 {
				t.Errorf("prev link targets %d, want 4", r.TargetPage)
			}
		case "next day":
			if r.TargetPage != 6 {
				t.Errorf("next link targets %d, want 6", r.TargetPage)
			}
		}
	}
}

func TestValidateRejectsDanglingTarget(t *testing.T) {
	pgs := Build(weekStart)
	bad := []LinkRegion{{OnPage: 1, TargetPage: 42, Label: "broken"}}
	if err := Validate(bad, pgs); err == nil {
		t.Fatal("Validate accepted a dangling target")
	}
	badSource := []LinkRegion{{OnPage: 9, TargetPage: 1, Label: "ghost page"}}
	if err := Validate(badSource, pgs); err == nil {
		t.Fatal("Validate accepted a region on a missing page")
	}
}

func TestAppendEventLinks(t *testing.T) {
	g := grid.Default()
	pgs := Build(weekStart)
	regions, err := BuildLinks(pgs)
	if err != nil {
		t.Fatalf("BuildLinks: %v", err)
	}
	base := len(regions)

	placements := []layout.Placement{
		{
			Event:     model.Event{ID: "e1"},
			Span:      grid.SlotSpan{StartSlot: 6, SlotCount: 3},
			Column:    2,
			Lane:      0,
			LaneCount: 1,
		},
		{
			Event:     model.Event{ID: "e2"},
			Span:      grid.SlotSpan{StartSlot: 10, SlotCount: 2},
			Column:    6,
			Lane:      1,
			LaneCount: 2,
		},
	}

	regions, err = AppendEventLinks(regions, pgs, placements, g)
	if err != nil {
		t.Fatalf("AppendEventLinks: %v", err)
	}
	if len(regions) != base+2 {
		t.Fatalf("got %d regions, want %d", len(regions), base+2)
	}

	added := regions[base:]
	if added[0].TargetPage != 4 { // column 2 -> page 4
		t.Errorf("e1 targets page %d, want 4", added[0].TargetPage)
	}
	if added[1].TargetPage != 8 { // column 6 -> page 8
		t.Errorf("e2 targets page %d, want 8", added[1].TargetPage)
	}

	// The lane split halves the second event's width.
	colW := OverviewColumnW
	if added[1].Rect.W != colW/2 {
		t.Errorf("e2 rect width = %v, want %v", added[1].Rect.W, colW/2)
	}
	if added[0].Rect.W != colW {
		t.Errorf("e1 rect width = %v, want %v", added[0].Rect.W, colW)
	}
}

func TestGeometryStaysInsidePages(t *testing.T) {
	g := grid.Default()
	for off := 0; off < model.DaysPerWeek; off++ {
		h := OverviewHeaderRect(off)
		if h.X < 0 || h.X+h.W > OverviewPageW || h.Y+h.H > OverviewPageH {
			t.Errorf("header %d escapes the overview page: %+v", off, h)
		}
	}
	r := OverviewSlotRect(6, g.SlotCount()-1, 1, 0, 1, g.SlotCount())
	if r.Y+r.H > OverviewGridBottom+0.01 {
		t.Errorf("last overview slot overflows the grid: %+v", r)
	}
	d := DaySlotRect(g.SlotCount()-1, 1, 0, 1, g.SlotCount())
	if d.Y+d.H > DayGridBottom+0.01 || d.X+d.W > DayPageW {
		t.Errorf("last day slot overflows the page: %+v", d)
	}
}
