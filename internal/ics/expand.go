package ics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "weekpack/internal/log"
	"weekpack/internal/model"
)

// maxOccurrencesPerEvent caps runaway RRULE expansions; a week's window
// should never come close.
const maxOccurrencesPerEvent = 1000

// EventsForWeek fetches, parses, and expands every source into resolved
// events for the week starting at weekStart (7 days, in loc). Individual
// feed failures degrade to whatever the cache provides; only a total
// absence of usable feeds surfaces as the returned error slice.
func EventsForWeek(ctx context.Context, f *Fetcher, sources []Source, weekStart time.Time, loc *time.Location) ([]model.Event, []error) {
	results, errs := f.FetchAll(ctx, sources)

	var parsed []parsedEvent
	for _, res := range results {
		events, err := parseICS(res.Source, res.Body)
		if err != nil {
			errs = append(errs, err)
			appLog.Error("ics parse failed", err, "id", res.Source.ID)
			continue
		}
		parsed = append(parsed, events...)
	}

	rangeStart := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, loc)
	rangeEnd := rangeStart.AddDate(0, 0, model.DaysPerWeek)

	return expandAll(parsed, rangeStart, rangeEnd, loc), errs
}

// expandAll turns parsed VEVENTs into concrete model.Events inside
// [rangeStart, rangeEnd), applying RRULE recurrence, EXDATE removals, and
// RECURRENCE-ID overrides.
func expandAll(events []parsedEvent, rangeStart, rangeEnd time.Time, loc *time.Location) []model.Event {
	overrides := make(map[string][]parsedEvent)
	var bases []parsedEvent
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
		} else {
			bases = append(bases, ev)
		}
	}

	var out []model.Event
	for _, ev := range bases {
		if ev.RawRRule == "" {
			if ev.End.After(rangeStart) && ev.Start.Before(rangeEnd) {
				base, _ := applyOverride(ev, overrides[ev.UID], ev.Start)
				out = append(out, toEvent(base, base.Start, base.End, loc, false))
			}
			continue
		}
		out = append(out, expandRecurring(ev, overrides[ev.UID], rangeStart, rangeEnd, loc)...)
	}
	return out
}

func expandRecurring(ev parsedEvent, overrides []parsedEvent, rangeStart, rangeEnd time.Time, loc *time.Location) []model.Event {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("ics bad RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	occTimes := set.Between(
		rangeStart.In(ev.Start.Location()),
		rangeEnd.In(ev.Start.Location()),
		true,
	)
	if len(occTimes) > maxOccurrencesPerEvent {
		appLog.Error("ics recurrence truncated", errTooManyOccurrences,
			"uid", ev.UID, "cap", maxOccurrencesPerEvent)
		occTimes = occTimes[:maxOccurrencesPerEvent]
	}

	dur := ev.End.Sub(ev.Start)
	var out []model.Event
	for _, start := range occTimes {
		end := start.Add(dur)
		if ev.AllDay {
			day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
			start, end = day, day.Add(24*time.Hour)
		}
		base, overridden := applyOverride(ev, overrides, start)
		if overridden {
			// Overridden instance carries its own times.
			start, end = base.Start, base.End
		}
		out = append(out, toEvent(base, start, end, loc, true))
	}
	return out
}

var errTooManyOccurrences = errors.New("max occurrences reached")

// applyOverride substitutes the override VEVENT whose RECURRENCE-ID matches
// this occurrence's start, if any.
func applyOverride(base parsedEvent, overrides []parsedEvent, start time.Time) (parsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence != nil && ov.Recurrence.In(start.Location()).Equal(start) {
			return ov, true
		}
	}
	return base, false
}

// toEvent maps an occurrence onto the exporter's event model, normalized
// into the display timezone. Recurring instances get a per-instance id so
// lane ordering stays deterministic across repeats of the same series.
func toEvent(ev parsedEvent, start, end time.Time, loc *time.Location, recurring bool) model.Event {
	startLocal := start.In(loc)
	id := ev.UID
	if recurring {
		id = ev.UID + "/" + startLocal.Format(time.RFC3339)
	}

	var notes []string
	for _, line := range strings.Split(ev.Description, "\\n") {
		if line = strings.TrimSpace(line); line != "" {
			notes = append(notes, line)
		}
	}

	return model.Event{
		ID:     id,
		Title:  ev.Summary,
		Start:  startLocal,
		End:    end.In(loc),
		Source: ev.Source.Tag,
		Notes:  notes,
	}
}
