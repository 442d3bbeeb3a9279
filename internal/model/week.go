package model

import "time"

// DaysPerWeek is the number of day pages in an export.
const DaysPerWeek = 7

// WeekStartOf returns midnight of the Monday on or before t, in t's
// location. The exported week always runs Monday through Sunday, matching
// the page order of the document.
func WeekStartOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// DayOffsetOf returns the 0-based day offset of t within the week starting
// at weekStart, or -1 if t falls outside the week. Days are compared as
// calendar dates, never as elapsed duration: a DST transition makes a day
// 23 or 25 hours long and dividing hours by 24 would misbucket events near
// midnight.
func DayOffsetOf(t time.Time, weekStart time.Time) int {
	local := t.In(weekStart.Location())
	for off := 0; off < DaysPerWeek; off++ {
		d := weekStart.AddDate(0, 0, off)
		if local.Year() == d.Year() && local.Month() == d.Month() && local.Day() == d.Day() {
			return off
		}
	}
	return -1
}

// EventsByDay groups events into per-day buckets for the given week, keyed
// by day offset 0..6. Events outside the week are dropped; events crossing
// midnight are bucketed by their start day and later clipped to that day's
// grid by placement.
func EventsByDay(events []Event, weekStart time.Time) map[int][]Event {
	byDay := make(map[int][]Event)
	for _, ev := range events {
		off := DayOffsetOf(ev.Start, weekStart)
		if off < 0 {
			continue
		}
		byDay[off] = append(byDay[off], ev)
	}
	return byDay
}
