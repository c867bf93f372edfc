// Package viewport converts between screen pixels and model coordinates.
//
// A model point m appears on screen at (m + offset) * zoom, so
// ScreenToModel is s / zoom - offset. Every hit test and every drawing
// operation goes through ScreenToModel.
package viewport

import (
	"fmt"
	"math"

	"github.com/rzkyif/webgl2d/internal/geom"
)

const (
	DefaultOffsetX = 20.0
	DefaultOffsetY = 20.0
	DefaultZoom    = 1.0

	MinZoom = 0.5
	MaxZoom = 2.1

	// zoomEpsilon absorbs accumulated float error so that ten steps of 0.1
	// from 1.0 still land on a bound instead of being rejected.
	zoomEpsilon = 1e-9
)

// Viewport is the pan offset and zoom scale. Zoom stays in [MinZoom, MaxZoom].
type Viewport struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64
}

// New returns a viewport at the defaults.
func New() *Viewport {
	v := &Viewport{}
	v.Reset()
	return v
}

// Reset restores the default offset and zoom.
func (v *Viewport) Reset() {
	v.OffsetX = DefaultOffsetX
	v.OffsetY = DefaultOffsetY
	v.Zoom = DefaultZoom
}

// ScreenToModel maps a screen position to model space.
func (v *Viewport) ScreenToModel(sx, sy float64) (float64, float64) {
	return sx/v.Zoom - v.OffsetX, sy/v.Zoom - v.OffsetY
}

// ScreenPoint is ScreenToModel returning a geom.Point.
func (v *Viewport) ScreenPoint(sx, sy float64) geom.Point {
	mx, my := v.ScreenToModel(sx, sy)
	return geom.Pt(mx, my)
}

// ModelToScreen is the inverse of ScreenToModel.
func (v *Viewport) ModelToScreen(mx, my float64) (float64, float64) {
	return v.Matrix().Apply(mx, my)
}

// Matrix returns the model-to-screen transform: translate by the offset,
// then scale by zoom.
func (v *Viewport) Matrix() geom.Matrix2D {
	return geom.Scale(v.Zoom, v.Zoom).Multiply(geom.Translate(v.OffsetX, v.OffsetY))
}

// ApplyZoom changes zoom by delta while keeping the model point under the
// screen anchor in place. A step that would leave [MinZoom, MaxZoom] is
// dropped entirely and ApplyZoom returns false.
func (v *Viewport) ApplyZoom(anchorX, anchorY, delta float64) bool {
	oldZoom := v.Zoom
	newZoom := oldZoom + delta

	switch {
	case math.Abs(newZoom-MinZoom) < zoomEpsilon:
		newZoom = MinZoom
	case math.Abs(newZoom-MaxZoom) < zoomEpsilon:
		newZoom = MaxZoom
	}
	if math.IsNaN(newZoom) || newZoom < MinZoom || newZoom > MaxZoom {
		return false
	}

	v.OffsetX += (anchorX - anchorX/oldZoom*newZoom) / newZoom
	v.OffsetY += (anchorY - anchorY/oldZoom*newZoom) / newZoom
	v.Zoom = newZoom
	return true
}

// ApplyPan moves the view by a screen-space delta.
func (v *Viewport) ApplyPan(dx, dy float64) {
	v.OffsetX += dx / v.Zoom
	v.OffsetY += dy / v.Zoom
}

// StatusText renders "ox, oy | zoom%" for the status bar.
func (v *Viewport) StatusText() string {
	return fmt.Sprintf("%d, %d | %d%%",
		int(math.Round(v.OffsetX)),
		int(math.Round(v.OffsetY)),
		int(math.Round(v.Zoom*100)),
	)
}
