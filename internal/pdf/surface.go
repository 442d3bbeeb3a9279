// Package pdf implements the drawing surface on top of gofpdf. The whole
// document is assembled in memory; Save commits it atomically so a failed
// export never leaves a partial file behind.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"weekpack/internal/pages"
	"weekpack/internal/render"
)

// Surface is a render.Surface writing a PDF document.
type Surface struct {
	doc *gofpdf.Fpdf

	// page is the 1-based index of the page currently being drawn.
	page int
	// linkIDs maps a 1-based target page to its gofpdf internal link id.
	// Destinations are resolved at Save time, when every page exists, so a
	// region may point forward at a page not yet emitted.
	linkIDs map[int]int
	// images counts registered images for unique registry names.
	images int
}

var _ render.Surface = (*Surface)(nil)

// New returns an empty PDF surface. Page sizes are set per page via
// BeginPage, so the initial document size is irrelevant.
func New() *Surface {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pages.DayPageW, Ht: pages.DayPageH},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	return &Surface{
		doc:     doc,
		linkIDs: make(map[int]int),
	}
}

func (s *Surface) BeginPage(width, height float64, o render.Orientation) {
	orient := "P"
	if o == render.Landscape {
		orient = "L"
	}
	size := gofpdf.SizeType{Wd: width, Ht: height}
	if o == render.Landscape {
		// gofpdf expects the portrait size and swaps it for landscape.
		size = gofpdf.SizeType{Wd: height, Ht: width}
	}
	s.doc.AddPageFormat(orient, size)
	s.page++
}

func (s *Surface) DrawRect(r pages.Rect, style render.RectStyle) {
	mode := ""
	if style.Fill != nil {
		s.doc.SetFillColor(style.Fill.R, style.Fill.G, style.Fill.B)
		mode += "F"
	}
	if style.Stroke != nil {
		s.doc.SetDrawColor(style.Stroke.R, style.Stroke.G, style.Stroke.B)
		if style.LineWidth > 0 {
			s.doc.SetLineWidth(style.LineWidth)
		}
		mode += "D"
	}
	if mode == "" {
		return
	}
	s.doc.Rect(r.X, r.Y, r.W, r.H, mode)
}

func (s *Surface) DrawText(x, y float64, text string, style render.TextStyle) {
	font := style.Font
	if font == "" {
		font = "Helvetica"
	}
	variant := ""
	if style.Bold {
		variant = "B"
	}
	s.doc.SetFont(font, variant, style.Size)
	s.doc.SetTextColor(style.Color.R, style.Color.G, style.Color.B)
	s.doc.Text(x, y, text)
}

func (s *Surface) DrawLine(x1, y1, x2, y2 float64, style render.LineStyle) {
	s.doc.SetDrawColor(style.Color.R, style.Color.G, style.Color.B)
	if style.Width > 0 {
		s.doc.SetLineWidth(style.Width)
	}
	s.doc.Line(x1, y1, x2, y2)
}

func (s *Surface) DrawImage(r pages.Rect, png []byte) {
	s.images++
	name := fmt.Sprintf("embedded-%d", s.images)
	s.doc.RegisterImageOptionsReader(name,
		gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	s.doc.ImageOptions(name, r.X, r.Y, r.W, r.H, false,
		gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
}

func (s *Surface) RegisterLink(r pages.Rect, targetPage int) {
	id, ok := s.linkIDs[targetPage]
	if !ok {
		id = s.doc.AddLink()
		s.linkIDs[targetPage] = id
	}
	s.doc.Link(r.X, r.Y, r.W, r.H, id)
}

// Err exposes gofpdf's accumulated error so the renderer can attribute
// failures to the page that caused them.
func (s *Surface) Err() error {
	return s.doc.Error()
}

// Save resolves link destinations, renders the document to memory, and
// writes it with a temp-file + rename so the target path only ever holds a
// complete document.
func (s *Surface) Save(path string) error {
	for target, id := range s.linkIDs {
		if target < 1 || target > s.page {
			return fmt.Errorf("pdf: link destination page %d outside document of %d pages", target, s.page)
		}
		s.doc.SetLink(id, 0, target)
	}

	var buf bytes.Buffer
	if err := s.doc.Output(&buf); err != nil {
		return fmt.Errorf("pdf: output failed: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".weekpack-*.pdf")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
