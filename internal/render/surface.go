// Package render walks the page model, placements, and link graph and
// issues drawing-surface calls. It never computes page numbers or layout
// itself; those come from internal/pages and internal/layout.
package render

import (
	"weekpack/internal/pages"
)

// Orientation of one page.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B int
}

// RectStyle controls how DrawRect paints. A nil Fill or Stroke disables
// that part.
type RectStyle struct {
	Fill      *RGB
	Stroke    *RGB
	LineWidth float64
}

// TextStyle controls DrawText.
type TextStyle struct {
	Font  string
	Size  float64
	Bold  bool
	Color RGB
}

// LineStyle controls DrawLine.
type LineStyle struct {
	Color RGB
	Width float64
}

// Surface is the abstract drawing sink the renderer emits into. Pages are
// appended strictly in order: BeginPage starts the next page and all
// subsequent draw calls land on it. RegisterLink records a clickable
// region on the current page pointing at a 1-based target page, which may
// not have been emitted yet.
type Surface interface {
	BeginPage(width, height float64, o Orientation)
	DrawRect(r pages.Rect, style RectStyle)
	DrawText(x, y float64, text string, style TextStyle)
	DrawLine(x1, y1, x2, y2 float64, style LineStyle)
	// DrawImage places a PNG into the rectangle, scaled to fit.
	DrawImage(r pages.Rect, png []byte)
	RegisterLink(r pages.Rect, targetPage int)
	// Save commits the whole document to path. Implementations buffer
	// internally so a failed export never leaves a partial artifact.
	Save(path string) error
}
