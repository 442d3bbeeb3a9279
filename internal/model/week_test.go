package model

import (
	"testing"
	"time"
)

func TestWeekStartOf(t *testing.T) {
	monday := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	cases := []time.Time{
		monday,
		monday.Add(13 * time.Hour),
		time.Date(2025, 7, 9, 23, 59, 0, 0, time.UTC), // Wednesday
		time.Date(2025, 7, 13, 12, 0, 0, 0, time.UTC), // Sunday
	}
	for _, in := range cases {
		if got := WeekStartOf(in); !got.Equal(monday) {
			t.Errorf("WeekStartOf(%v) = %v, want %v", in, got, monday)
		}
	}

	// A Sunday belongs to the week that started six days earlier, never the
	// next one.
	sunday := time.Date(2025, 7, 6, 10, 0, 0, 0, time.UTC)
	if got := WeekStartOf(sunday); !got.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("WeekStartOf(sunday) = %v", got)
	}
}

func TestDayOffsetOf(t *testing.T) {
	monday := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	if got := DayOffsetOf(monday.Add(5*time.Hour), monday); got != 0 {
		t.Errorf("monday offset = %d", got)
	}
	if got := DayOffsetOf(monday.AddDate(0, 0, 6), monday); got != 6 {
		t.Errorf("sunday offset = %d", got)
	}
	if got := DayOffsetOf(monday.AddDate(0, 0, 7), monday); got != -1 {
		t.Errorf("next monday offset = %d, want outside marker", got)
	}
	if got := DayOffsetOf(monday.AddDate(0, 0, -1), monday); got != -1 {
		t.Errorf("previous sunday offset = %d, want outside marker", got)
	}
}

func TestDayOffsetOfAcrossDSTTransition(t *testing.T) {
	// Nuuk moves clocks forward on Saturday evening, so the Saturday of a
	// spring transition week is only 23 hours long and elapsed-hours math
	// would put early-Sunday events on Saturday.
	loc, err := time.LoadLocation("America/Nuuk")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	weekStart := time.Date(2022, 3, 21, 0, 0, 0, 0, loc) // a Monday

	if got := DayOffsetOf(time.Date(2022, 3, 27, 0, 30, 0, 0, loc), weekStart); got != 6 {
		t.Errorf("sunday after short saturday: offset = %d, want 6", got)
	}

	// Every wall-clock hour of every day of the week buckets to its own day.
	for off := 0; off < DaysPerWeek; off++ {
		for hour := 0; hour < 24; hour++ {
			day := weekStart.AddDate(0, 0, off)
			ts := time.Date(day.Year(), day.Month(), day.Day(), hour, 15, 0, 0, loc)
			if ts.Day() != day.Day() {
				continue // hour removed by the transition
			}
			if got := DayOffsetOf(ts, weekStart); got != off {
				t.Errorf("DayOffsetOf(%v) = %d, want %d", ts, got, off)
			}
		}
	}
}

func TestEventsByDay(t *testing.T) {
	monday := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	mk := func(day, hour int) Event {
		start := monday.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
		return Event{ID: start.String(), Start: start, End: start.Add(time.Hour)}
	}

	byDay := EventsByDay([]Event{
		mk(0, 9), mk(0, 14), mk(3, 10),
		mk(7, 9),  // next week, excluded
		mk(-1, 9), // previous week, excluded
	}, monday)

	if len(byDay[0]) != 2 || len(byDay[3]) != 1 {
		t.Errorf("byDay = %d/%d, want 2/1", len(byDay[0]), len(byDay[3]))
	}
	var total int
	for _, evs := range byDay {
		total += len(evs)
	}
	if total != 3 {
		t.Errorf("total bucketed = %d, want 3 (out-of-week excluded)", total)
	}
}
