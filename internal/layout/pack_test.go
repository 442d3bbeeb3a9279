package layout

import (
	"math/rand"
	"testing"
	"time"

	"weekpack/internal/grid"
	"weekpack/internal/model"
)

var day = time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)

func ev(id string, startHour, startMin, endHour, endMin int) model.Event {
	return model.Event{
		ID:    id,
		Title: id,
		Start: time.Date(2025, 7, 7, startHour, startMin, 0, 0, time.UTC),
		End:   time.Date(2025, 7, 7, endHour, endMin, 0, 0, time.UTC),
	}
}

func TestPackOverlappingPair(t *testing.T) {
	g := grid.Default()
	events := []model.Event{
		ev("a", 10, 0, 11, 0),
		ev("b", 10, 30, 11, 30),
		ev("c", 12, 0, 13, 0),
	}

	packed := Pack(events, g, day)
	if len(packed) != 3 {
		t.Fatalf("packed %d events, want 3", len(packed))
	}

	byID := map[string]Packed{}
	for _, p := range packed {
		byID[p.Event.ID] = p
	}

	if byID["a"].Lane != 0 || byID["b"].Lane != 1 || byID["c"].Lane != 0 {
		t.Errorf("lanes = a:%d b:%d c:%d, want a:0 b:1 c:0",
			byID["a"].Lane, byID["b"].Lane, byID["c"].Lane)
	}
	if byID["a"].LaneCount != 2 || byID["b"].LaneCount != 2 {
		t.Errorf("overlapping pair lane counts = %d/%d, want 2/2",
			byID["a"].LaneCount, byID["b"].LaneCount)
	}
	// The lone noon event is in its own cluster and gets full width even
	// though the column's peak elsewhere is 2.
	if byID["c"].LaneCount != 1 {
		t.Errorf("isolated event LaneCount = %d, want 1", byID["c"].LaneCount)
	}
}

func TestPackLaneReuseAfterRelease(t *testing.T) {
	g := grid.Default()
	events := []model.Event{
		ev("a", 9, 0, 10, 0),
		ev("b", 9, 0, 12, 0),
		ev("c", 10, 0, 11, 0), // lane 0 is free again at 10:00
	}
	packed := Pack(events, g, day)
	byID := map[string]Packed{}
	for _, p := range packed {
		byID[p.Event.ID] = p
	}
	if byID["c"].Lane != 0 {
		t.Errorf("lane = %d, want reuse of lane 0", byID["c"].Lane)
	}
	if byID["c"].LaneCount != 2 {
		t.Errorf("LaneCount = %d, want 2 (still beside b)", byID["c"].LaneCount)
	}
}

func TestPackIdenticalTimesTieBreakByID(t *testing.T) {
	g := grid.Default()
	events := []model.Event{
		ev("zz", 14, 0, 15, 0),
		ev("aa", 14, 0, 15, 0),
	}
	packed := Pack(events, g, day)
	byID := map[string]Packed{}
	for _, p := range packed {
		byID[p.Event.ID] = p
	}
	if byID["aa"].Lane != 0 || byID["zz"].Lane != 1 {
		t.Errorf("lanes = aa:%d zz:%d, want aa:0 zz:1", byID["aa"].Lane, byID["zz"].Lane)
	}
}

func TestPackDeterministicUnderShuffle(t *testing.T) {
	g := grid.Default()
	base := []model.Event{
		ev("a", 8, 0, 9, 30),
		ev("b", 8, 30, 10, 0),
		ev("c", 9, 0, 9, 30),
		ev("d", 9, 30, 11, 0),
		ev("e", 13, 0, 14, 0),
		ev("f", 13, 0, 14, 0),
	}

	reference := map[string]Packed{}
	for _, p := range Pack(base, g, day) {
		reference[p.Event.ID] = p
	}

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]model.Event, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		for _, p := range Pack(shuffled, g, day) {
			ref := reference[p.Event.ID]
			if p.Lane != ref.Lane || p.LaneCount != ref.LaneCount {
				t.Fatalf("trial %d: %s got lane=%d count=%d, reference lane=%d count=%d",
					trial, p.Event.ID, p.Lane, p.LaneCount, ref.Lane, ref.LaneCount)
			}
		}
	}
}

func TestPackSameSlotSubGranularityEventsGetSeparateLanes(t *testing.T) {
	// Disjoint wall-clock ranges inside one half-hour slot would still draw
	// on top of each other, so they must not share a lane.
	g := grid.Default()
	events := []model.Event{
		ev("a", 9, 0, 9, 10),
		ev("b", 9, 15, 9, 25),
	}
	packed := Pack(events, g, day)
	if packed[0].Lane == packed[1].Lane {
		t.Errorf("both events in lane %d despite sharing a slot", packed[0].Lane)
	}
}

func TestPackNoSlotCollisionWithinLane(t *testing.T) {
	g := grid.Default()
	rng := rand.New(rand.NewSource(7))

	var events []model.Event
	for i := 0; i < 40; i++ {
		startMin := 6*60 + rng.Intn(16*60)
		dur := 15 + rng.Intn(180)
		events = append(events, model.Event{
			ID:    string(rune('a'+i%26)) + string(rune('0'+i/26)),
			Start: day.Add(time.Duration(startMin) * time.Minute),
			End:   day.Add(time.Duration(startMin+dur) * time.Minute),
		})
	}

	packed := Pack(events, g, day)

	type cell struct{ lane, slot int }
	seen := map[cell]string{}
	for _, p := range packed {
		for s := p.Span.StartSlot; s < p.Span.StartSlot+p.Span.SlotCount; s++ {
			c := cell{p.Lane, s}
			if other, dup := seen[c]; dup {
				t.Fatalf("lane %d slot %d occupied by both %s and %s", p.Lane, s, other, p.Event.ID)
			}
			seen[c] = p.Event.ID
		}
	}
}
