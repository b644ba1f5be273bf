// Package preview rasterizes a dataset into a small WebP thumbnail. It is a
// flat standalone rendering; the interactive map view lives outside the core.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/chai2010/webp"
	"github.com/paulmach/orb"
	xdraw "golang.org/x/image/draw"

	"github.com/geoforge/geoedit/internal/geodata"
)

// Rendering is supersampled and downscaled to smooth the strokes.
const supersample = 2

var (
	background = color.RGBA{R: 0xf2, G: 0xf4, B: 0xf6, A: 0xff}
	stroke     = color.RGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}
	accent     = color.RGBA{R: 0x2f, G: 0x6f, B: 0xd6, A: 0xff}
)

// Render draws every geometry of ds into a w x h WebP image.
func Render(ds *geodata.Dataset, w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", w, h)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w*supersample, h*supersample))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	pl := newPlotter(canvas, datasetBound(ds))
	for i := range ds.Features {
		pl.geometry(ds.Features[i].Geometry)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), canvas, canvas.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, out, &webp.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// datasetBound is the union of all geometry bounds, falling back to the
// whole world for an empty dataset.
func datasetBound(ds *geodata.Dataset) orb.Bound {
	if ds.FeatureCount() == 0 {
		return orb.Bound{Min: orb.Point{-180, -85}, Max: orb.Point{180, 85}}
	}

	b := ds.Features[0].Geometry.Bound()
	for i := 1; i < len(ds.Features); i++ {
		b = b.Union(ds.Features[i].Geometry.Bound())
	}
	return b
}

// plotter maps canonical coordinates onto image pixels.
type plotter struct {
	img            *image.RGBA
	minX, minY     float64
	scaleX, scaleY float64
	height         int
}

func newPlotter(img *image.RGBA, b orb.Bound) *plotter {
	dx := b.Max[0] - b.Min[0]
	dy := b.Max[1] - b.Min[1]
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}

	// 5% margin on each side keeps strokes off the image edge.
	padX, padY := dx*0.05, dy*0.05
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	return &plotter{
		img:    img,
		minX:   b.Min[0] - padX,
		minY:   b.Min[1] - padY,
		scaleX: float64(w-1) / (dx + 2*padX),
		scaleY: float64(h-1) / (dy + 2*padY),
		height: h,
	}
}

func (p *plotter) pixel(pt orb.Point) (int, int) {
	x := int((pt[0]-p.minX)*p.scaleX + 0.5)
	y := p.height - 1 - int((pt[1]-p.minY)*p.scaleY+0.5)
	return x, y
}

func (p *plotter) geometry(g orb.Geometry) {
	switch v := g.(type) {
	case orb.Point:
		p.marker(v)
	case orb.MultiPoint:
		for _, pt := range v {
			p.marker(pt)
		}
	case orb.LineString:
		p.path(v)
	case orb.MultiLineString:
		for _, ls := range v {
			p.path(ls)
		}
	case orb.Polygon:
		for _, ring := range v {
			p.path(orb.LineString(ring))
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			p.geometry(poly)
		}
	case orb.Collection:
		for _, member := range v {
			p.geometry(member)
		}
	}
}

// marker draws a small filled square around the point.
func (p *plotter) marker(pt orb.Point) {
	cx, cy := p.pixel(pt)
	r := 3 * supersample
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			p.set(x, y, accent)
		}
	}
}

func (p *plotter) path(ls orb.LineString) {
	for i := 1; i < len(ls); i++ {
		p.segment(ls[i-1], ls[i])
	}
}

// segment strokes a straight line between two coordinates.
func (p *plotter) segment(a, b orb.Point) {
	x0, y0 := p.pixel(a)
	x1, y1 := p.pixel(b)

	steps := abs(x1 - x0)
	if dy := abs(y1 - y0); dy > steps {
		steps = dy
	}
	if steps == 0 {
		steps = 1
	}

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(t*float64(x1-x0)+0.5)
		y := y0 + int(t*float64(y1-y0)+0.5)
		p.set(x, y, stroke)
		p.set(x+1, y, stroke)
		p.set(x, y+1, stroke)
	}
}

func (p *plotter) set(x, y int, c color.RGBA) {
	if image.Pt(x, y).In(p.img.Bounds()) {
		p.img.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
