// Package snapshot rasterizes HTML fragments through headless Chromium for
// pages that embed an image instead of vector-drawn primitives.
package snapshot

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	DefaultTimeout = 30 * time.Second
)

// Options defines parameters for one fragment capture.
type Options struct {
	// Width and Height are the viewport dimensions in pixels. Required.
	Width  int
	Height int

	// Timeout bounds the whole capture. Zero means DefaultTimeout.
	Timeout time.Duration
}

// RenderFragmentToImage renders an HTML fragment at the requested size and
// returns it as PNG bytes. The fragment is wrapped into a minimal page and
// loaded via a data: URL, so no web server is involved.
//
// Chromium reports the full page, which can be taller than the viewport
// when the fragment overflows; the result is normalized back to the
// requested height with a vertical center crop.
func RenderFragmentToImage(parentCtx context.Context, html string, opts Options) ([]byte, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("snapshot: width and height are required, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	page := "<!DOCTYPE html><html><head><meta charset=\"utf-8\">" +
		"<style>html,body{margin:0;padding:0;background:#fff}</style>" +
		"</head><body>" + html + "</body></html>"
	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(page))

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var shot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(url),
		// Small delay for web fonts and final paints.
		chromedp.Sleep(200 * time.Millisecond),
		chromedp.FullScreenshot(&shot, 100),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("snapshot: chromedp run failed: %w", err)
	}

	return normalizePNG(shot, opts.Width, opts.Height)
}

// normalizePNG re-encodes the screenshot at exactly width x height,
// center-cropping vertically when the captured page ran taller than the
// viewport. Narrower/shorter captures are passed through unchanged.
func normalizePNG(data []byte, width, height int) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot: decoding screenshot: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= width && b.Dy() <= height {
		return data, nil
	}

	cropW := min(b.Dx(), width)
	cropH := min(b.Dy(), height)
	startY := b.Min.Y + (b.Dy()-cropH)/2

	out := image.NewNRGBA(image.Rect(0, 0, cropW, cropH))
	draw.Draw(out, out.Bounds(), img, image.Pt(b.Min.X, startY), draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("snapshot: re-encoding: %w", err)
	}
	return buf.Bytes(), nil
}
