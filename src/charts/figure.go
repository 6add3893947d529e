// Package charts renders the weather analyses with go-chart. Every renderer
// acquires its own canvas, draws into it and hands the finished figure to a
// Sink exactly once; on error nothing is emitted.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

// Figure is one rendered chart.
type Figure struct {
	// Name is a short identifier, also used as the PNG file name.
	Name  string
	Title string
	Image image.Image
}

// Sink receives finished figures; it is the display surface.
type Sink interface {
	Emit(Figure) error
}

// DirSink writes each figure as Dir/<name>.png.
type DirSink struct {
	Dir string
}

// Emit encodes the figure as PNG.
func (s DirSink) Emit(f Figure) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image); err != nil {
		return fmt.Errorf("png encode %s: %w", f.Name, err)
	}
	outPath := s.Path(f.Name)
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

// Path returns the file a figure name is written to.
func (s DirSink) Path(name string) string {
	return filepath.Join(s.Dir, FileName(name))
}

// MemorySink keeps figures in emit order.
type MemorySink struct {
	Figures []Figure
}

func (s *MemorySink) Emit(f Figure) error {
	s.Figures = append(s.Figures, f)
	return nil
}

// FileName lowercases name and replaces anything outside [a-z0-9_-] with '-'.
func FileName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String() + ".png"
}

// canvas is the drawing surface of one figure.
type canvas struct {
	sink    Sink
	name    string
	img     *image.RGBA
	emitted bool
}

func acquire(sink Sink, name string, w, h int) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &canvas{sink: sink, name: name, img: img}
}

// place draws src with its top-left corner at p.
func (c *canvas) place(src image.Image, p image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(p)
	draw.Draw(c.img, r, src, src.Bounds().Min, draw.Over)
}

func (c *canvas) emit(title string) error {
	if c.emitted {
		return nil
	}
	c.emitted = true
	return c.sink.Emit(Figure{Name: c.name, Title: title, Image: c.img})
}

// release drops an unemitted canvas.
func (c *canvas) release() {
	if !c.emitted {
		c.img = nil
	}
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// rasterize renders a go-chart chart to an image.
func rasterize(r renderable) (image.Image, error) {
	var buf bytes.Buffer
	if err := r.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}
