package render

import (
	"testing"
	"time"

	"weekpack/internal/grid"
	"weekpack/internal/layout"
	"weekpack/internal/model"
	"weekpack/internal/pages"
	"weekpack/internal/stats"
)

// fakeSurface records emitted calls for assertions.
type fakeSurface struct {
	pageSizes    []pages.Rect
	orientations []Orientation
	rects        int
	texts        []string
	lines        int
	images       int
	links        []int // target pages in emission order
	saved        string
}

func (f *fakeSurface) BeginPage(w, h float64, o Orientation) {
	f.pageSizes = append(f.pageSizes, pages.Rect{W: w, H: h})
	f.orientations = append(f.orientations, o)
}
func (f *fakeSurface) DrawRect(pages.Rect, RectStyle) { f.rects++ }
func (f *fakeSurface) DrawText(_, _ float64, text string, _ TextStyle) {
	f.texts = append(f.texts, text)
}
func (f *fakeSurface) DrawLine(_, _, _, _ float64, _ LineStyle) { f.lines++ }
func (f *fakeSurface) DrawImage(pages.Rect, []byte)            { f.images++ }
func (f *fakeSurface) RegisterLink(_ pages.Rect, target int)   { f.links = append(f.links, target) }
func (f *fakeSurface) Save(path string) error                  { f.saved = path; return nil }

func buildDoc(t *testing.T) Week {
	t.Helper()
	weekStart := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	g := grid.Default()
	pgs := pages.Build(weekStart)

	events := []model.Event{
		{
			ID:     "e1",
			Title:  "Morning Session",
			Start:  time.Date(2025, 7, 7, 9, 0, 0, 0, time.UTC),
			End:    time.Date(2025, 7, 7, 10, 30, 0, 0, time.UTC),
			Source: model.SourceSimplePractice,
			Notes:  []string{"review intake form"},
		},
		{
			ID:     "e2",
			Title:  "Team Sync",
			Start:  time.Date(2025, 7, 9, 14, 0, 0, 0, time.UTC),
			End:    time.Date(2025, 7, 9, 15, 0, 0, 0, time.UTC),
			Source: model.SourceGoogle,
		},
	}

	byDay := model.EventsByDay(events, weekStart)
	overview, _ := layout.Place(byDay, g, func(col int) time.Time {
		return weekStart.AddDate(0, 0, col)
	})

	days := map[int][]layout.Placement{}
	st := map[int]stats.Day{}
	for off := 0; off < model.DaysPerWeek; off++ {
		day := weekStart.AddDate(0, 0, off)
		pl, _ := layout.Place(map[int][]model.Event{0: byDay[off]}, g, func(int) time.Time { return day })
		days[off] = pl
		st[off] = stats.Compute(byDay[off], g, day)
	}

	links, err := pages.BuildLinks(pgs)
	if err != nil {
		t.Fatalf("BuildLinks: %v", err)
	}
	links, err = pages.AppendEventLinks(links, pgs, overview, g)
	if err != nil {
		t.Fatalf("AppendEventLinks: %v", err)
	}

	return Week{
		WeekStart: weekStart,
		Grid:      g,
		Pages:     pgs,
		Overview:  overview,
		Days:      days,
		Links:     links,
		Stats:     st,
	}
}

func TestRenderEmitsPagesInOrder(t *testing.T) {
	doc := buildDoc(t)
	s := &fakeSurface{}

	if err := New(DefaultStyles()).Render(doc, s); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(s.pageSizes) != 8 {
		t.Fatalf("emitted %d pages, want 8", len(s.pageSizes))
	}
	if s.orientations[0] != Landscape {
		t.Errorf("page 1 orientation = %s, want landscape", s.orientations[0])
	}
	for i := 1; i < 8; i++ {
		if s.orientations[i] != Portrait {
			t.Errorf("page %d orientation = %s, want portrait", i+1, s.orientations[i])
		}
	}
	if s.pageSizes[0].W != pages.OverviewPageW || s.pageSizes[1].W != pages.DayPageW {
		t.Errorf("page sizes = %+v / %+v", s.pageSizes[0], s.pageSizes[1])
	}
}

func TestRenderRegistersAllLinks(t *testing.T) {
	doc := buildDoc(t)
	s := &fakeSurface{}

	if err := New(DefaultStyles()).Render(doc, s); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// 7 header links + 2 event deep links + 19 day nav links.
	if len(s.links) != len(doc.Links) {
		t.Fatalf("registered %d links, want %d", len(s.links), len(doc.Links))
	}
	for _, target := range s.links {
		if target < 1 || target > len(doc.Pages) {
			t.Errorf("link target %d outside document", target)
		}
	}
}

func TestRenderRejectsDanglingLinks(t *testing.T) {
	doc := buildDoc(t)
	doc.Links = append(doc.Links, pages.LinkRegion{OnPage: 1, TargetPage: 99, Label: "broken"})
	s := &fakeSurface{}

	if err := New(DefaultStyles()).Render(doc, s); err == nil {
		t.Fatal("Render accepted a dangling link target")
	}
	if len(s.pageSizes) != 0 {
		t.Errorf("surface received %d pages before validation failure, want 0", len(s.pageSizes))
	}
}

func TestRenderDetailLayout(t *testing.T) {
	doc := buildDoc(t)
	s := &fakeSurface{}
	if err := New(DefaultStyles()).Render(doc, s); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// The noted 90-minute event spans three rows (~50pt), clearing the
	// detail threshold: exactly two divider lines split its rectangle. The
	// plain event draws none.
	if s.lines != 2 {
		t.Errorf("drew %d divider lines, want 2 for one detail block", s.lines)
	}

	found := false
	for _, txt := range s.texts {
		if txt == "Event Notes" {
			found = true
		}
	}
	if !found {
		t.Error("detail layout did not print the Event Notes heading")
	}
}

func TestRenderBannerImage(t *testing.T) {
	doc := buildDoc(t)
	doc.Banner = []byte{0x89, 'P', 'N', 'G'}
	s := &fakeSurface{}
	if err := New(DefaultStyles()).Render(doc, s); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if s.images != 1 {
		t.Errorf("drew %d images, want 1 banner", s.images)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 15, "short"},
		{"a very long appointment title", 10, "a very ..."},
		{"abc", 2, "ab"},
		{"x", 0, "x"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
