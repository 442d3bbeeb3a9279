package layout

// CapLanes enforces a hard side-by-side limit as a post-processing step on
// placement output. The resolver itself never drops events; callers that
// cannot render arbitrarily narrow lanes use this to keep at most maxLanes
// rectangles per cluster and collect the rest for a text overflow list.
//
// Kept placements have LaneCount clamped to maxLanes so their widths match
// the reduced lane count.
func CapLanes(placements []Placement, maxLanes int) (kept []Placement, overflow []Placement) {
	if maxLanes <= 0 {
		return placements, nil
	}
	for _, p := range placements {
		if p.Lane >= maxLanes {
			overflow = append(overflow, p)
			continue
		}
		if p.LaneCount > maxLanes {
			p.LaneCount = maxLanes
		}
		kept = append(kept, p)
	}
	return kept, overflow
}
