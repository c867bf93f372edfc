// Package raster draws editor frames into images on the server, the same
// way the browser's WebGL renderer draws them on screen.
package raster

import (
	"image"
	"io"

	"github.com/fogleman/gg"

	"github.com/rzkyif/webgl2d/internal/editor"
	"github.com/rzkyif/webgl2d/internal/geom"
	"github.com/rzkyif/webgl2d/internal/shape"
)

const lineWidth = 2.0

// Renderer is an editor.Renderer backed by an in-memory RGBA canvas.
type Renderer struct {
	dc         *gg.Context
	background [3]float64
}

// NewRenderer returns a width x height canvas cleared to white.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{
		dc:         gg.NewContext(width, height),
		background: [3]float64{1, 1, 1},
	}
	r.clear()
	return r
}

func (r *Renderer) clear() {
	r.dc.SetRGB(r.background[0], r.background[1], r.background[2])
	r.dc.Clear()
	r.dc.SetFillRuleWinding()
}

// Render replaces the canvas contents with frame.
func (r *Renderer) Render(frame editor.Frame) {
	r.clear()

	m := geom.Identity()
	if len(frame.Transform) == len(m) {
		copy(m[:], frame.Transform)
	}

	for _, call := range frame.Calls {
		pts := toScreen(m, call.Vertices)
		r.dc.SetRGB(call.Color[0], call.Color[1], call.Color[2])
		switch call.Primitive {
		case shape.PrimitivePoints:
			r.points(pts)
		case shape.PrimitiveLines:
			r.lines(pts)
		case shape.PrimitiveTriangleStrip:
			for i := 0; i+2 < len(pts); i++ {
				r.triangle(pts[i], pts[i+1], pts[i+2])
			}
			r.dc.Fill()
		case shape.PrimitiveTriangleFan:
			for i := 1; i+1 < len(pts); i++ {
				r.triangle(pts[0], pts[i], pts[i+1])
			}
			r.dc.Fill()
		}
	}
}

func (r *Renderer) points(pts []geom.Point) {
	half := editor.PointSize / 2
	for _, p := range pts {
		r.dc.DrawRectangle(p.X-half, p.Y-half, editor.PointSize, editor.PointSize)
		r.dc.Fill()
	}
}

func (r *Renderer) lines(pts []geom.Point) {
	r.dc.SetLineWidth(lineWidth)
	for i := 0; i+1 < len(pts); i += 2 {
		r.dc.DrawLine(pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y)
		r.dc.Stroke()
	}
}

// triangle adds a subpath wound the same way as every other triangle, so
// one nonzero fill covers the union without seams along shared edges.
func (r *Renderer) triangle(a, b, c geom.Point) {
	if (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) < 0 {
		b, c = c, b
	}
	r.dc.MoveTo(a.X, a.Y)
	r.dc.LineTo(b.X, b.Y)
	r.dc.LineTo(c.X, c.Y)
	r.dc.ClosePath()
}

// Image returns the canvas.
func (r *Renderer) Image() image.Image {
	return r.dc.Image()
}

// EncodePNG writes the canvas as PNG.
func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

func toScreen(m geom.Matrix2D, flat []float64) []geom.Point {
	pts := make([]geom.Point, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		x, y := m.Apply(flat[i], flat[i+1])
		pts = append(pts, geom.Pt(x, y))
	}
	return pts
}
