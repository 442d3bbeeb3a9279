package render

import (
	"fmt"
	"strings"

	"weekpack/internal/model"
)

// EventStyle is the visual treatment of one event source tag. Style
// variation is data: there is exactly one renderer, parameterized by a
// StyleSet, instead of one drawing routine per palette.
type EventStyle struct {
	Fill   RGB
	Border RGB
	Text   RGB
}

// StyleSet maps source tags to their styles plus shared page chrome.
type StyleSet struct {
	BySource map[model.SourceTag]EventStyle
	Fallback EventStyle

	Font       string
	HeaderText RGB
	MutedText  RGB
	RowFill    RGB
	RowStroke  RGB
	NavFill    RGB
	NavStroke  RGB
}

// For returns the style for a source tag, falling back to the default for
// tags outside the configured set.
func (s StyleSet) For(tag model.SourceTag) EventStyle {
	if st, ok := s.BySource[tag]; ok {
		return st
	}
	return s.Fallback
}

// DefaultStyles returns the stock palette.
func DefaultStyles() StyleSet {
	return StyleSet{
		BySource: map[model.SourceTag]EventStyle{
			model.SourceSimplePractice: {
				Fill:   RGB{179, 229, 252},
				Border: RGB{2, 119, 189},
				Text:   RGB{13, 71, 161},
			},
			model.SourceGoogle: {
				Fill:   RGB{200, 230, 201},
				Border: RGB{46, 125, 50},
				Text:   RGB{27, 94, 32},
			},
			model.SourceHoliday: {
				Fill:   RGB{255, 224, 178},
				Border: RGB{230, 126, 34},
				Text:   RGB{120, 66, 18},
			},
			model.SourceManual: {
				Fill:   RGB{225, 190, 231},
				Border: RGB{123, 31, 162},
				Text:   RGB{74, 20, 140},
			},
		},
		Fallback: EventStyle{
			Fill:   RGB{224, 224, 224},
			Border: RGB{97, 97, 97},
			Text:   RGB{33, 33, 33},
		},
		Font:       "Helvetica",
		HeaderText: RGB{0, 0, 0},
		MutedText:  RGB{120, 120, 120},
		RowFill:    RGB{245, 245, 245},
		RowStroke:  RGB{220, 220, 220},
		NavFill:    RGB{230, 230, 230},
		NavStroke:  RGB{120, 120, 120},
	}
}

// ParseHexColor parses "#RRGGBB" (or "RRGGBB") into an RGB. Used when a
// config file overrides palette entries.
func ParseHexColor(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("render: bad hex color %q", s)
	}
	var c RGB
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return RGB{}, fmt.Errorf("render: bad hex color %q: %w", s, err)
	}
	return c, nil
}
