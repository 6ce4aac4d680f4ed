// Package plot renders projected points into a raster preview.
package plot

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/ctessum/geom"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// ErrNoPoints is returned when there is nothing finite to draw.
var ErrNoPoints = errors.New("plot: no finite points to draw")

// Options controls the output image.
type Options struct {
	Width, Height int
	// Margin is the empty border, in pixels, kept on every side.
	Margin int
	// PointSize is the marker diameter in pixels.
	PointSize  float64
	Color      color.RGBA
	Background color.RGBA
}

// DefaultOptions returns a 1024x1024 white canvas with dark red markers.
func DefaultOptions() Options {
	return Options{
		Width:      1024,
		Height:     1024,
		Margin:     16,
		PointSize:  4,
		Color:      color.RGBA{R: 0xb0, G: 0x1c, B: 0x2e, A: 0xff},
		Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}

// Bounds returns the extent of the finite points and how many there are.
func Bounds(points []geom.Point) (*geom.Bounds, int) {
	b := geom.NewBounds()
	n := 0
	for _, p := range points {
		if !finite(p) {
			continue
		}
		b.Extend(p.Bounds())
		n++
	}
	return b, n
}

// Render draws points, given in planar CRS units, fitted into the image with
// the aspect ratio preserved and north up. Non-finite points are skipped.
func Render(points []geom.Point, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("plot: image size must be positive")
	}
	if opts.PointSize <= 0 {
		opts.PointSize = 1
	}
	b, n := Bounds(points)
	if n == 0 {
		return nil, ErrNoPoints
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	t := fit(b, opts)
	z := vector.NewRasterizer(opts.Width, opts.Height)
	r := float32(opts.PointSize / 2)
	for _, p := range points {
		if !finite(p) {
			continue
		}
		px, py := t.apply(p)
		square(z, float32(px), float32(py), r)
	}
	z.Draw(img, img.Bounds(), image.NewUniform(opts.Color), image.Point{})
	return img, nil
}

// transform maps planar coordinates to pixel coordinates.
type transform struct {
	minX, minY float64
	scale      float64
	offX, offY float64
	height     float64
}

func (t transform) apply(p geom.Point) (px, py float64) {
	px = t.offX + (p.X-t.minX)*t.scale
	py = t.height - (t.offY + (p.Y-t.minY)*t.scale)
	return
}

func fit(b *geom.Bounds, opts Options) transform {
	uw := float64(opts.Width - 2*opts.Margin)
	uh := float64(opts.Height - 2*opts.Margin)
	if uw < 1 {
		uw = 1
	}
	if uh < 1 {
		uh = 1
	}
	dx := b.Max.X - b.Min.X
	dy := b.Max.Y - b.Min.Y

	var scale float64
	switch {
	case dx == 0 && dy == 0:
		scale = 1
	case dx == 0:
		scale = uh / dy
	case dy == 0:
		scale = uw / dx
	default:
		scale = math.Min(uw/dx, uh/dy)
	}

	margin := float64(opts.Margin)
	return transform{
		minX:   b.Min.X,
		minY:   b.Min.Y,
		scale:  scale,
		offX:   margin + (uw-dx*scale)/2,
		offY:   margin + (uh-dy*scale)/2,
		height: float64(opts.Height),
	}
}

func square(z *vector.Rasterizer, cx, cy, r float32) {
	z.MoveTo(cx-r, cy-r)
	z.LineTo(cx+r, cy-r)
	z.LineTo(cx+r, cy+r)
	z.LineTo(cx-r, cy+r)
	z.ClosePath()
}

func finite(p geom.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
