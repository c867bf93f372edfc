package editor

import (
	"encoding/json"
	"log/slog"

	"github.com/rzkyif/webgl2d/internal/document"
	"github.com/rzkyif/webgl2d/internal/geom"
	"github.com/rzkyif/webgl2d/internal/shape"
	"github.com/rzkyif/webgl2d/internal/viewport"
)

// HandleColor is the fixed color of the vertex-handle pass.
const HandleColor = "#ff9900"

// DrawCall is one rasterization request: connect Vertices as Primitive and
// fill with Color.
type DrawCall struct {
	ShapeID   string          `json:"shapeId,omitempty"`
	Vertices  []float64       `json:"vertices"`
	Primitive shape.Primitive `json:"primitive"`
	Color     [3]float64      `json:"color"`
}

// Frame is everything the renderer needs for one redraw. Calls are in
// painter's order; every shape contributes a body call followed by a
// handle call.
type Frame struct {
	Offset    [2]float64 `json:"offset"`
	Zoom      float64    `json:"zoom"`
	Transform []float64  `json:"transform"` // model-to-screen [a, b, c, d, e, f]
	Calls     []DrawCall `json:"calls"`
}

// Renderer receives a frame after every mutation of the scene, the
// viewport or the shape being drawn.
type Renderer interface {
	Render(frame Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

func (f RendererFunc) Render(frame Frame) { f(frame) }

// CompileFrame builds the draw calls for a scene plus an optional shape
// under construction, drawn last.
func CompileFrame(scene *document.Scene, draft shape.Shape, view *viewport.Viewport) Frame {
	frame := Frame{
		Offset:    [2]float64{view.OffsetX, view.OffsetY},
		Zoom:      view.Zoom,
		Transform: view.Matrix().ToSlice(),
		Calls:     make([]DrawCall, 0, scene.Len()*2+2),
	}

	handle := mustRGB(HandleColor)
	for _, e := range scene.Entries() {
		frame.Calls = appendShape(frame.Calls, e.ID, e.Shape, handle)
	}
	if draft != nil {
		frame.Calls = appendShape(frame.Calls, "", draft, handle)
	}
	return frame
}

func appendShape(calls []DrawCall, id string, sh shape.Shape, handle [3]float64) []DrawCall {
	verts := sh.Vertices()

	rgb, err := geom.HexToRGB(sh.Color())
	if err != nil {
		slog.Warn("skipping shape with unusable color", "shape", id, "color", sh.Color(), "error", err)
	} else {
		calls = append(calls, DrawCall{
			ShapeID:   id,
			Vertices:  verts,
			Primitive: sh.Primitive(),
			Color:     [3]float64{rgb.R, rgb.G, rgb.B},
		})
	}

	return append(calls, DrawCall{
		ShapeID:   id,
		Vertices:  verts,
		Primitive: shape.PrimitivePoints,
		Color:     handle,
	})
}

func mustRGB(hex string) [3]float64 {
	c, err := geom.HexToRGB(hex)
	if err != nil {
		panic(err)
	}
	return [3]float64{c.R, c.G, c.B}
}

// FrameToJSON serializes a frame for the JS renderer.
func FrameToJSON(frame Frame) (string, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return `{"calls":[]}`, err
	}
	return string(data), nil
}
