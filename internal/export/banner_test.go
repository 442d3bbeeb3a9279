package export

import (
	"strings"
	"testing"

	"weekpack/internal/render"
	"weekpack/internal/stats"
)

func TestBannerSummary(t *testing.T) {
	doc := render.Week{
		WeekStart: weekStart,
		Stats: map[int]stats.Day{
			0: {Appointments: 1},
			1: {Appointments: 3},
			4: {Appointments: 3}, // ties Tuesday; earlier day wins
			6: {Appointments: 2},
		},
	}

	got := bannerSummary(doc)
	if !strings.HasPrefix(got, "9 appointments this week") {
		t.Errorf("summary = %q, want total of 9", got)
	}
	if !strings.Contains(got, "busiest: Tuesday (3)") {
		t.Errorf("summary = %q, want the earlier day of a tied count", got)
	}

	// Identical input, identical text.
	for i := 0; i < 10; i++ {
		if again := bannerSummary(doc); again != got {
			t.Fatalf("summary changed across runs: %q vs %q", got, again)
		}
	}
}

func TestBannerSummaryEmptyWeek(t *testing.T) {
	doc := render.Week{WeekStart: weekStart, Stats: map[int]stats.Day{}}
	got := bannerSummary(doc)
	if got != "0 appointments this week" {
		t.Errorf("summary = %q", got)
	}
}
