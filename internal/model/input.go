package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WeekInput is the JSON payload shape produced by the calendar backend:
//
//	{
//	  "events": [ {"title": ..., "startTime": ..., ...}, ... ],
//	  "weekStart": "2025-07-07T00:00:00Z",
//	  "weekEnd":   "2025-07-13T23:59:59Z"
//	}
type WeekInput struct {
	Events    []Event
	WeekStart time.Time
	WeekEnd   time.Time
}

// eventDTO mirrors one event object of the feed. Field aliases cover the
// shapes different backend versions emit (notes vs eventNotes, actions vs
// actionItems).
type eventDTO struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	Source     string    `json:"source"`
	Notes      multiLine `json:"notes"`
	EventNotes multiLine `json:"eventNotes"`
	Actions    multiLine `json:"actions"`
	ActionsAlt multiLine `json:"actionItems"`
}

type weekInputDTO struct {
	Events    []eventDTO `json:"events"`
	WeekStart string     `json:"weekStart"`
	WeekEnd   string     `json:"weekEnd"`
}

// multiLine accepts either a single string or an array of strings; older
// feeds emit notes as one newline-joined string.
type multiLine []string

func (m *multiLine) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*m = splitLines(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	out := make([]string, 0, len(many))
	for _, s := range many {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*m = out
	return nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ParseWeekInput decodes a backend feed payload into a WeekInput. Events
// with unparseable start times are dropped here with an error entry in the
// returned slice; end-time validation (end > start) is left to placement so
// the skip is reported alongside the other layout diagnostics.
//
// weekStart is optional: a feed without one returns a zero WeekStart and
// callers pick the week themselves (typically the current one). A present
// but malformed weekStart is still an error, since it means the caller
// intended a specific week and we cannot tell which.
func ParseWeekInput(data []byte) (WeekInput, []error, error) {
	var dto weekInputDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return WeekInput{}, nil, fmt.Errorf("input: invalid JSON: %w", err)
	}

	var weekStart, weekEnd time.Time
	if dto.WeekStart != "" {
		var err error
		weekStart, err = parseFeedTime(dto.WeekStart)
		if err != nil {
			return WeekInput{}, nil, fmt.Errorf("input: bad weekStart: %w", err)
		}
		weekEnd = weekStart.AddDate(0, 0, DaysPerWeek)
		if dto.WeekEnd != "" {
			if t, err := parseFeedTime(dto.WeekEnd); err == nil {
				weekEnd = t
			}
		}
	}

	var dropped []error
	events := make([]Event, 0, len(dto.Events))
	for i, d := range dto.Events {
		ev, err := d.toEvent()
		if err != nil {
			dropped = append(dropped, fmt.Errorf("input: event %d (%q): %w", i, d.Title, err))
			continue
		}
		events = append(events, ev)
	}

	return WeekInput{Events: events, WeekStart: weekStart, WeekEnd: weekEnd}, dropped, nil
}

func (d eventDTO) toEvent() (Event, error) {
	if d.StartTime == "" {
		return Event{}, errors.New("missing startTime")
	}
	start, err := parseFeedTime(d.StartTime)
	if err != nil {
		return Event{}, fmt.Errorf("bad startTime: %w", err)
	}

	var end time.Time
	if d.EndTime != "" {
		end, err = parseFeedTime(d.EndTime)
		if err != nil {
			return Event{}, fmt.Errorf("bad endTime: %w", err)
		}
	} else {
		// Feeds without explicit end times describe one-hour appointments.
		end = start.Add(time.Hour)
	}

	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}

	notes := d.Notes
	if len(notes) == 0 {
		notes = d.EventNotes
	}
	actions := d.ActionsAlt
	if len(actions) == 0 {
		actions = d.Actions
	}

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "Untitled"
	}

	return Event{
		ID:          id,
		Title:       title,
		Start:       start,
		End:         end,
		Source:      NormalizeSource(d.Source),
		Notes:       notes,
		ActionItems: actions,
	}, nil
}

// parseFeedTime parses the timestamp formats the backend emits: RFC 3339
// with either a zone offset or a literal Z suffix.
func parseFeedTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// Date-only form for all-day entries.
	return time.Parse("2006-01-02", s)
}
