package render

import (
	"fmt"
	"time"

	"weekpack/internal/grid"
	"weekpack/internal/layout"
	"weekpack/internal/pages"
	"weekpack/internal/stats"
)

// Week bundles everything the renderer needs for one document. All of it is
// computed eagerly before the first draw call, so emission is a pure
// sequential walk (the drawing surface is append-only).
type Week struct {
	WeekStart time.Time
	Grid      grid.Grid
	Pages     []pages.Page

	// Overview holds the mini placements for page 1; Column is the day
	// offset of each event.
	Overview []layout.Placement
	// Days holds the full placements for each day page, keyed by day
	// offset. These come from an independent placement run (single
	// column 0), never shared with Overview.
	Days map[int][]layout.Placement

	// Overflow lists events dropped from a day page by the lane cap, keyed
	// by day offset. They are rendered as a text line under the grid.
	Overflow map[int][]layout.Placement

	Links []pages.LinkRegion
	Stats map[int]stats.Day

	// Banner is an optional PNG (a rasterized HTML fragment) embedded at
	// the top of the overview page.
	Banner []byte
}

// MinDetailHeight is the rectangle height, in points, below which the wide
// three-region detail layout is not attempted.
const MinDetailHeight = 48.0

// Renderer issues Surface calls for a Week. One renderer handles every
// palette; style differences are StyleSet data.
type Renderer struct {
	styles StyleSet
}

func New(styles StyleSet) *Renderer {
	return &Renderer{styles: styles}
}

// errChecker is implemented by surfaces that accumulate an internal error
// (gofpdf-style). Checking after each page attributes failures to the page
// that caused them.
type errChecker interface {
	Err() error
}

// Render emits all pages in page-model order. The link graph is validated
// up front: a dangling target is a build error and nothing is emitted.
func (r *Renderer) Render(doc Week, s Surface) error {
	if err := pages.Validate(doc.Links, doc.Pages); err != nil {
		return err
	}

	for _, p := range doc.Pages {
		switch p.Kind {
		case pages.KindOverview:
			r.overviewPage(doc, p, s)
		case pages.KindDay:
			r.dayPage(doc, p, s)
		default:
			return fmt.Errorf("render: page %d has unknown kind %q", p.Index, p.Kind)
		}

		for _, link := range pages.RegionsOn(doc.Links, p.Index) {
			s.RegisterLink(link.Rect, link.TargetPage)
		}

		if ec, ok := s.(errChecker); ok {
			if err := ec.Err(); err != nil {
				return fmt.Errorf("render: page %d (%s): %w", p.Index, p.Kind, err)
			}
		}
	}
	return nil
}

func (r *Renderer) overviewPage(doc Week, p pages.Page, s Surface) {
	st := r.styles
	s.BeginPage(pages.OverviewPageW, pages.OverviewPageH, Landscape)

	s.DrawText(pages.OverviewMarginX, pages.OverviewTitleY, "WEEKLY PLANNER", TextStyle{
		Font: st.Font, Size: 24, Bold: true, Color: st.HeaderText,
	})
	subtitle := fmt.Sprintf("%s - %s",
		doc.WeekStart.Format("January 2, 2006"),
		doc.WeekStart.AddDate(0, 0, 6).Format("January 2, 2006"))
	s.DrawText(pages.OverviewMarginX, pages.OverviewSubtitleY, subtitle, TextStyle{
		Font: st.Font, Size: 14, Color: st.MutedText,
	})

	if len(doc.Banner) > 0 {
		s.DrawImage(pages.Rect{
			X: pages.OverviewMarginX,
			Y: pages.OverviewBannerY,
			W: 7 * pages.OverviewColumnW,
			H: pages.OverviewBannerH,
		}, doc.Banner)
	}

	// Day columns: clickable header plus a miniature time grid.
	for off := 0; off < len(doc.Pages)-1; off++ {
		date := doc.WeekStart.AddDate(0, 0, off)
		header := pages.OverviewHeaderRect(off)

		s.DrawRect(header, RectStyle{Stroke: &st.HeaderText, LineWidth: 1})
		s.DrawText(header.X+5, header.Y+14, date.Format("Monday"), TextStyle{
			Font: st.Font, Size: 10, Bold: true, Color: st.HeaderText,
		})
		s.DrawText(header.X+5, header.Y+27, date.Format("1/2"), TextStyle{
			Font: st.Font, Size: 8, Color: st.MutedText,
		})

		// Column outline down the grid area.
		col := pages.Rect{
			X: pages.OverviewColumnX(off),
			Y: pages.OverviewGridTop,
			W: pages.OverviewColumnW,
			H: pages.OverviewGridBottom - pages.OverviewGridTop,
		}
		s.DrawRect(col, RectStyle{Stroke: &st.RowStroke, LineWidth: 0.5})
	}

	for _, pl := range doc.Overview {
		rect := pages.OverviewSlotRect(pl.Column, pl.Span.StartSlot, pl.Span.SlotCount,
			pl.Lane, pl.LaneCount, doc.Grid.SlotCount())
		es := st.For(pl.Event.Source)
		s.DrawRect(rect, RectStyle{Fill: &es.Fill, Stroke: &es.Border, LineWidth: 0.5})

		if rect.H >= 14 {
			s.DrawText(rect.X+2, rect.Y+8, pl.Event.Start.Format("15:04"), TextStyle{
				Font: st.Font, Size: 6, Color: es.Text,
			})
			s.DrawText(rect.X+2, rect.Y+rect.H-3, truncate(pl.Event.Title, 15), TextStyle{
				Font: st.Font, Size: 6, Color: es.Text,
			})
		} else {
			s.DrawText(rect.X+2, rect.Y+rect.H-2, truncate(pl.Event.Title, 15), TextStyle{
				Font: st.Font, Size: 5, Color: es.Text,
			})
		}
	}
}

func (r *Renderer) dayPage(doc Week, p pages.Page, s Surface) {
	st := r.styles
	s.BeginPage(pages.DayPageW, pages.DayPageH, Portrait)

	s.DrawText(pages.DayTimeGutterX, pages.DayHeaderY, p.Date.Format("Monday, January 2, 2006"), TextStyle{
		Font: st.Font, Size: 20, Bold: true, Color: st.HeaderText,
	})

	if day, ok := doc.Stats[p.DayOffset]; ok {
		s.DrawText(pages.DayTimeGutterX, pages.DayStatsY, day.Line(), TextStyle{
			Font: st.Font, Size: 10, Color: st.MutedText,
		})
	}

	r.navButtons(doc, p, s)
	r.slotRows(doc, s)

	for _, pl := range doc.Days[p.DayOffset] {
		rect := pages.DaySlotRect(pl.Span.StartSlot, pl.Span.SlotCount,
			pl.Lane, pl.LaneCount, doc.Grid.SlotCount())
		r.eventBlock(pl, rect, s)
	}

	if over := doc.Overflow[p.DayOffset]; len(over) > 0 {
		s.DrawText(pages.DayTimeGutterX, pages.DayGridBottom+16, overflowLine(over), TextStyle{
			Font: st.Font, Size: 8, Color: st.MutedText,
		})
	}
}

// overflowLine summarizes events squeezed out by the lane cap.
func overflowLine(over []layout.Placement) string {
	line := fmt.Sprintf("+%d more:", len(over))
	for i, pl := range over {
		if i > 0 {
			line += ","
		}
		line += " " + pl.Event.Start.Format("15:04") + " " + truncate(pl.Event.Title, 20)
	}
	return truncate(line, 110)
}

func (r *Renderer) navButtons(doc Week, p pages.Page, s Surface) {
	st := r.styles
	nav := RectStyle{Fill: &st.NavFill, Stroke: &st.NavStroke, LineWidth: 1}
	label := TextStyle{Font: st.Font, Size: 10, Color: st.HeaderText}

	s.DrawRect(pages.NavOverviewRect, nav)
	s.DrawText(pages.NavOverviewRect.X+8, pages.NavOverviewRect.Y+16, "Weekly Overview", label)

	// Core PDF fonts are Latin-1 only, so the arrows are ASCII.
	if p.DayOffset > 0 {
		prev := p.Date.AddDate(0, 0, -1)
		s.DrawRect(pages.NavPrevRect, nav)
		s.DrawText(pages.NavPrevRect.X+8, pages.NavPrevRect.Y+16, "< "+prev.Format("Mon"), label)
	}
	if p.DayOffset < len(doc.Pages)-2 {
		next := p.Date.AddDate(0, 0, 1)
		s.DrawRect(pages.NavNextRect, nav)
		s.DrawText(pages.NavNextRect.X+8, pages.NavNextRect.Y+16, next.Format("Mon")+" >", label)
	}
}

func (r *Renderer) slotRows(doc Week, s Surface) {
	st := r.styles
	for i := 0; i < doc.Grid.SlotCount(); i++ {
		row := pages.DayRowRect(i, doc.Grid.SlotCount())
		s.DrawRect(row, RectStyle{Fill: &st.RowFill, Stroke: &st.RowStroke, LineWidth: 0.5})
		s.DrawText(row.X+4, row.Y+row.H-4, doc.Grid.SlotLabel(i), TextStyle{
			Font: st.Font, Size: 7, Color: st.MutedText,
		})
	}
}

// eventBlock draws one event rectangle on a day page; events carrying notes
// or action items get the three-region detail layout when the rectangle is
// tall enough.
func (r *Renderer) eventBlock(pl layout.Placement, rect pages.Rect, s Surface) {
	st := r.styles
	es := st.For(pl.Event.Source)
	s.DrawRect(rect, RectStyle{Fill: &es.Fill, Stroke: &es.Border, LineWidth: 1})

	timeRange := pl.Event.Start.Format("15:04") + " - " + pl.Event.End.Format("15:04")
	maxChars := int(rect.W / 4.5)

	if !pl.Detail || rect.H < MinDetailHeight {
		s.DrawText(rect.X+4, rect.Y+11, truncate(pl.Event.Title, maxChars), TextStyle{
			Font: st.Font, Size: 9, Bold: true, Color: es.Text,
		})
		if rect.H >= 24 {
			s.DrawText(rect.X+4, rect.Y+21, timeRange, TextStyle{
				Font: st.Font, Size: 7, Color: es.Text,
			})
		}
		return
	}

	// Three regions: identity/time on the left, notes in the middle, action
	// items on the right.
	thirdW := rect.W / 3
	s.DrawLine(rect.X+thirdW, rect.Y, rect.X+thirdW, rect.Y+rect.H, LineStyle{Color: es.Border, Width: 0.5})
	s.DrawLine(rect.X+2*thirdW, rect.Y, rect.X+2*thirdW, rect.Y+rect.H, LineStyle{Color: es.Border, Width: 0.5})

	colChars := int(thirdW / 3.8)
	s.DrawText(rect.X+4, rect.Y+11, truncate(pl.Event.Title, colChars), TextStyle{
		Font: st.Font, Size: 9, Bold: true, Color: es.Text,
	})
	s.DrawText(rect.X+4, rect.Y+21, timeRange, TextStyle{
		Font: st.Font, Size: 7, Color: es.Text,
	})

	r.detailColumn(rect.X+thirdW+4, rect, "Event Notes", pl.Event.Notes, colChars, es, s)
	r.detailColumn(rect.X+2*thirdW+4, rect, "Action Items", pl.Event.ActionItems, colChars, es, s)
}

func (r *Renderer) detailColumn(x float64, rect pages.Rect, heading string, lines []string, maxChars int, es EventStyle, s Surface) {
	if len(lines) == 0 {
		return
	}
	st := r.styles
	s.DrawText(x, rect.Y+10, heading, TextStyle{
		Font: st.Font, Size: 6, Bold: true, Color: es.Text,
	})
	y := rect.Y + 19.0
	for _, line := range lines {
		if y > rect.Y+rect.H-2 {
			break
		}
		s.DrawText(x, y, truncate(line, maxChars), TextStyle{
			Font: st.Font, Size: 6, Color: es.Text,
		})
		y += 8
	}
}

// truncate cuts a string to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if max < 1 {
		max = 1
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
