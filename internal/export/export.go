// Package export orchestrates one weekly package run: gather events, place
// them on the grid, assemble the page and link model, and commit the PDF
// artifact. A run either produces a complete document or leaves the output
// directory untouched.
package export

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"weekpack/internal/config"
	"weekpack/internal/grid"
	"weekpack/internal/ics"
	"weekpack/internal/layout"
	appLog "weekpack/internal/log"
	"weekpack/internal/model"
	"weekpack/internal/pages"
	"weekpack/internal/pdf"
	"weekpack/internal/render"
	"weekpack/internal/stats"
)

// Exporter holds the long-lived pieces of the export pipeline. One Exporter
// serves both the one-shot CLI path and the HTTP/cron path.
type Exporter struct {
	cfg     *config.Config
	grid    grid.Grid
	loc     *time.Location
	styles  render.StyleSet
	fetcher *ics.Fetcher

	// banner captures the overview banner image. A field so tests can
	// substitute the chromedp-backed default.
	banner func(ctx context.Context, doc render.Week) ([]byte, error)
}

// Result summarizes a finished export.
type Result struct {
	Path      string    `json:"path"`
	WeekStart time.Time `json:"weekStart"`
	Events    int       `json:"events"`
	Skipped   int       `json:"skipped"`
	Clamped   int       `json:"clamped"`
}

func New(cfg *config.Config) (*Exporter, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("export: timezone %q: %w", cfg.Timezone, err)
	}
	g, err := cfg.TimeGrid()
	if err != nil {
		return nil, fmt.Errorf("export: grid config: %w", err)
	}
	styles, err := stylesFromConfig(cfg.Styles)
	if err != nil {
		return nil, err
	}
	return &Exporter{
		cfg:     cfg,
		grid:    g,
		loc:     loc,
		styles:  styles,
		fetcher: ics.NewFetcher(""),
		banner:  bannerImage,
	}, nil
}

// Location returns the configured display timezone.
func (e *Exporter) Location() *time.Location { return e.loc }

// Filename is the artifact name for a week, keyed by its Monday.
func Filename(weekStart time.Time) string {
	return "weekly-package-" + weekStart.Format("2006-01-02") + ".pdf"
}

// Export builds and commits the weekly package for the week containing ref.
// extra events (typically a backend JSON feed) are merged with the
// configured ICS sources. The artifact appears atomically: render and PDF
// assembly happen in memory and the file is renamed into place at the end.
func (e *Exporter) Export(ctx context.Context, ref time.Time, extra []model.Event) (Result, error) {
	weekStart := model.WeekStartOf(ref.In(e.loc))

	events := make([]model.Event, 0, len(extra))
	events = append(events, extra...)
	if len(e.cfg.ICS) > 0 {
		fetched, errs := ics.EventsForWeek(ctx, e.fetcher, e.sources(), weekStart, e.loc)
		for _, err := range errs {
			appLog.Error("ics source failed", err)
		}
		events = append(events, fetched...)
	}

	doc, diags, err := BuildDoc(events, weekStart, e.grid, e.cfg.MaxLanes)
	if err != nil {
		return Result{}, err
	}
	for _, sk := range diags.Skipped {
		appLog.Info("event skipped", "id", sk.Event.ID, "reason", sk.Reason)
	}
	for _, cl := range diags.Clamped {
		appLog.Info("event clamped to grid edge", "id", cl.Event.ID, "title", cl.Event.Title)
	}

	// A failed capture fails the whole export: a renderer or snapshot
	// error never degrades into a partial or silently different document.
	if e.cfg.Banner {
		png, err := e.banner(ctx, doc)
		if err != nil {
			return Result{}, fmt.Errorf("export: overview banner capture: %w", err)
		}
		doc.Banner = png
	}

	surf := pdf.New()
	if err := render.New(e.styles).Render(doc, surf); err != nil {
		return Result{}, err
	}

	path := filepath.Join(e.cfg.OutputDir, Filename(weekStart))
	if err := surf.Save(path); err != nil {
		return Result{}, err
	}

	res := Result{
		Path:      path,
		WeekStart: weekStart,
		Events:    len(events),
		Skipped:   len(diags.Skipped),
		Clamped:   len(diags.Clamped),
	}
	appLog.Info("weekly package written",
		"path", res.Path, "week", weekStart.Format("2006-01-02"),
		"events", res.Events, "skipped", res.Skipped)
	return res, nil
}

func (e *Exporter) sources() []ics.Source {
	srcs := make([]ics.Source, 0, len(e.cfg.ICS))
	for _, c := range e.cfg.ICS {
		if c.URL == "" {
			continue
		}
		id := c.ID
		if id == "" {
			id = c.Name
		}
		srcs = append(srcs, ics.Source{
			ID:  id,
			URL: c.URL,
			Tag: model.NormalizeSource(c.Source),
		})
	}
	return srcs
}

// BuildDoc assembles the full document model for a week: overview placements,
// per-day placements (an independent run per day), the page set, the link
// graph, and per-day statistics. A dangling link target fails the build.
func BuildDoc(events []model.Event, weekStart time.Time, g grid.Grid, maxLanes int) (render.Week, layout.Diagnostics, error) {
	byDay := model.EventsByDay(events, weekStart)
	pgs := pages.Build(weekStart)

	overview, diags := layout.Place(byDay, g, func(col int) time.Time {
		return weekStart.AddDate(0, 0, col)
	})

	days := map[int][]layout.Placement{}
	overflow := map[int][]layout.Placement{}
	statsByDay := map[int]stats.Day{}
	for off := 0; off < model.DaysPerWeek; off++ {
		day := weekStart.AddDate(0, 0, off)
		statsByDay[off] = stats.Compute(byDay[off], g, day)

		if len(byDay[off]) == 0 {
			continue
		}
		// Day pages get their own placement run; diagnostics would repeat
		// the overview's, so they are dropped here.
		placed, _ := layout.Place(map[int][]model.Event{0: byDay[off]}, g, func(int) time.Time {
			return day
		})
		kept, over := layout.CapLanes(placed, maxLanes)
		days[off] = kept
		if len(over) > 0 {
			overflow[off] = over
		}
	}

	links, err := pages.BuildLinks(pgs)
	if err != nil {
		return render.Week{}, diags, err
	}
	links, err = pages.AppendEventLinks(links, pgs, overview, g)
	if err != nil {
		return render.Week{}, diags, err
	}

	return render.Week{
		WeekStart: weekStart,
		Grid:      g,
		Pages:     pgs,
		Overview:  overview,
		Days:      days,
		Overflow:  overflow,
		Links:     links,
		Stats:     statsByDay,
	}, diags, nil
}

func stylesFromConfig(overrides map[string]config.StyleConfig) (render.StyleSet, error) {
	st := render.DefaultStyles()
	for name, oc := range overrides {
		tag := model.NormalizeSource(name)
		es := st.For(tag)
		if oc.Fill != "" {
			c, err := render.ParseHexColor(oc.Fill)
			if err != nil {
				return st, fmt.Errorf("export: style %q fill: %w", name, err)
			}
			es.Fill = c
		}
		if oc.Border != "" {
			c, err := render.ParseHexColor(oc.Border)
			if err != nil {
				return st, fmt.Errorf("export: style %q border: %w", name, err)
			}
			es.Border = c
		}
		if oc.Text != "" {
			c, err := render.ParseHexColor(oc.Text)
			if err != nil {
				return st, fmt.Errorf("export: style %q text: %w", name, err)
			}
			es.Text = c
		}
		st.BySource[tag] = es
	}
	return st, nil
}
