// Package editor is the interaction core of the shape editor. An Editor owns
// the scene, the viewport and the state of the gesture in progress, turns
// pointer input into scene mutations and hands a fresh frame to its
// renderer after every change.
//
// All methods run on the caller's goroutine and must not be called
// concurrently.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rzkyif/webgl2d/internal/document"
	"github.com/rzkyif/webgl2d/internal/geom"
	"github.com/rzkyif/webgl2d/internal/shape"
	"github.com/rzkyif/webgl2d/internal/viewport"
)

const (
	// PointSize is the on-screen size of a vertex handle in pixels.
	PointSize = 10.0
	// HandleRadius is the grab radius around a handle, in screen pixels.
	HandleRadius = PointSize / 2
	// LineTolerance is how far from a line a press still hits it, in
	// screen pixels.
	LineTolerance = PointSize / 2
)

var (
	ErrNoSelection        = errors.New("no shape selected")
	ErrPolygonVertexCount = fmt.Errorf("polygon needs at least %d vertices", shape.MinPolygonPoints)
)

// Mode is the current interaction mode. Exactly one is active.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModeDrawingLine
	ModeDrawingSquare
	ModeDrawingPolygon
	ModeResizingLine
	ModeResizingSquare
	ModeResizingPolygon
	ModeMoving
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePanning:
		return "panning"
	case ModeDrawingLine:
		return "drawing-line"
	case ModeDrawingSquare:
		return "drawing-square"
	case ModeDrawingPolygon:
		return "drawing-polygon"
	case ModeResizingLine:
		return "resizing-line"
	case ModeResizingSquare:
		return "resizing-square"
	case ModeResizingPolygon:
		return "resizing-polygon"
	case ModeMoving:
		return "moving"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Drawing reports whether m builds a new shape.
func (m Mode) Drawing() bool {
	return m == ModeDrawingLine || m == ModeDrawingSquare || m == ModeDrawingPolygon
}

// Stage splits the two-click line and square protocols.
type Stage int

const (
	StageAwaitingFirstPoint Stage = iota
	StageAwaitingSecondPoint
)

// Editor is the whole editor state. The zero value is not usable; call New.
type Editor struct {
	scene    *document.Scene
	view     *viewport.Viewport
	renderer Renderer

	mode Mode

	// Shape under construction; non-nil only in drawing modes.
	draft     shape.Shape
	stage     Stage
	remaining int // polygon clicks left after the tracked vertex

	// Fixed square corner while drawing or resizing a square.
	anchor geom.Point

	// Shape being resized or moved, and which handle.
	target string
	handle int
	// Last pointer position: screen space when panning, model space when
	// moving.
	last geom.Point

	// Selection is held by ID so a reload cannot leave it dangling.
	selected string

	// Set when a press was used by a drawing mode, so the click that
	// follows it does not also select.
	pressConsumed bool
}

// New returns an editor with an empty scene and default viewport. renderer
// may be nil.
func New(renderer Renderer) *Editor {
	return &Editor{
		scene:    document.New(),
		view:     viewport.New(),
		renderer: renderer,
	}
}

// SetRenderer replaces the renderer and draws once.
func (e *Editor) SetRenderer(r Renderer) {
	e.renderer = r
	e.redraw()
}

// --- Commands ---

// StartDrawLine begins a two-click line.
func (e *Editor) StartDrawLine() {
	if !e.beginDrawing(ModeDrawingLine) {
		return
	}
	e.redraw()
}

// StartDrawSquare begins a two-click square. Until the first click a
// zero-size square follows the pointer.
func (e *Editor) StartDrawSquare() {
	if !e.beginDrawing(ModeDrawingSquare) {
		return
	}
	e.draft = shape.NewSquare(0, 0, 0)
	e.redraw()
}

// StartDrawPolygon begins an n-vertex polygon. The first vertex starts at
// the origin and tracks the pointer.
func (e *Editor) StartDrawPolygon(n int) error {
	if n < shape.MinPolygonPoints {
		return fmt.Errorf("%w: got %d", ErrPolygonVertexCount, n)
	}
	if !e.beginDrawing(ModeDrawingPolygon) {
		return nil
	}
	e.draft = shape.NewPolygon(geom.Pt(0, 0))
	e.remaining = n - 1
	e.redraw()
	return nil
}

// beginDrawing switches into a drawing mode from Idle or from another
// drawing mode, whose draft is discarded. Pointer gestures are not
// interrupted.
func (e *Editor) beginDrawing(mode Mode) bool {
	if e.mode != ModeIdle && !e.mode.Drawing() {
		slog.Debug("ignoring draw request during gesture", "mode", e.mode, "requested", mode)
		return false
	}
	e.resetInteraction()
	e.mode = mode
	return true
}

// Cancel abandons whatever is in progress and returns to Idle.
func (e *Editor) Cancel() {
	if e.mode == ModeIdle {
		return
	}
	e.resetInteraction()
	e.redraw()
}

func (e *Editor) resetInteraction() {
	e.mode = ModeIdle
	e.draft = nil
	e.stage = StageAwaitingFirstPoint
	e.remaining = 0
	e.anchor = geom.Point{}
	e.target = ""
	e.handle = 0
	e.last = geom.Point{}
}

// SelectAt selects the first shape under the screen position, or clears
// the selection when nothing is there. A click that finished a drawing
// step, or any click outside Idle, is ignored.
func (e *Editor) SelectAt(sx, sy float64) string {
	if e.pressConsumed {
		e.pressConsumed = false
		return e.selected
	}
	if e.mode != ModeIdle {
		slog.Debug("ignoring select outside idle", "mode", e.mode)
		return e.selected
	}
	e.selected = e.HitTest(sx, sy)
	return e.selected
}

// SetSelectedColor recolors the selected shape.
func (e *Editor) SetSelectedColor(hex string) error {
	sh, ok := e.selectedShape()
	if !ok {
		return ErrNoSelection
	}
	if err := sh.SetColor(hex); err != nil {
		return err
	}
	e.redraw()
	return nil
}

func (e *Editor) selectedShape() (shape.Shape, bool) {
	if e.selected == "" {
		return nil, false
	}
	sh, ok := e.scene.Lookup(e.selected)
	if !ok {
		e.selected = ""
	}
	return sh, ok
}

// LoadDocument replaces the scene with the parsed document. On error
// nothing changes. On success the viewport is reset, the selection is
// cleared and any gesture in progress is dropped.
func (e *Editor) LoadDocument(text string) error {
	scene, err := document.ParseXML(text)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	e.replaceScene(scene)
	return nil
}

// LoadSampleDocument replaces the scene with the built-in sample.
func (e *Editor) LoadSampleDocument() {
	e.replaceScene(document.NewSampleScene())
}

func (e *Editor) replaceScene(scene *document.Scene) {
	e.scene = scene
	e.view.Reset()
	e.selected = ""
	e.pressConsumed = false
	e.resetInteraction()
	e.redraw()
}

// SaveDocument serializes the current scene. A shape still being drawn is
// not included.
func (e *Editor) SaveDocument() (string, error) {
	return e.scene.XML()
}

// Zoom changes the zoom around a screen anchor. It returns false when the
// step would leave the allowed range.
func (e *Editor) Zoom(sx, sy, delta float64) bool {
	if !e.view.ApplyZoom(sx, sy, delta) {
		return false
	}
	e.redraw()
	return true
}

// ResetView restores the default pan and zoom.
func (e *Editor) ResetView() {
	e.view.Reset()
	e.redraw()
}

// --- Queries ---

// Mode returns the current interaction mode.
func (e *Editor) Mode() Mode { return e.mode }

// Stage returns the line/square sub-state.
func (e *Editor) Stage() Stage { return e.stage }

// Remaining returns how many vertices the polygon being drawn still needs
// after the one tracking the pointer.
func (e *Editor) Remaining() int {
	if e.mode != ModeDrawingPolygon {
		return 0
	}
	return e.remaining
}

// Selection returns the selected shape ID, or "".
func (e *Editor) Selection() string {
	if _, ok := e.selectedShape(); !ok {
		return ""
	}
	return e.selected
}

// SelectedColor returns the selected shape's color. With nothing selected
// it returns the default color and false.
func (e *Editor) SelectedColor() (string, bool) {
	sh, ok := e.selectedShape()
	if !ok {
		return shape.DefaultColor, false
	}
	return sh.Color(), true
}

// Scene returns the live scene.
func (e *Editor) Scene() *document.Scene { return e.scene }

// Draft returns the shape under construction, or nil.
func (e *Editor) Draft() shape.Shape { return e.draft }

// Viewport returns a copy of the viewport.
func (e *Editor) Viewport() viewport.Viewport { return *e.view }

// StatusText returns "ox, oy | zoom%".
func (e *Editor) StatusText() string { return e.view.StatusText() }

// Frame compiles the current draw calls.
func (e *Editor) Frame() Frame {
	return CompileFrame(e.scene, e.draft, e.view)
}

// HitTest returns the ID of the first shape with a handle or body under the
// screen position, or "".
func (e *Editor) HitTest(sx, sy float64) string {
	p := e.view.ScreenPoint(sx, sy)
	for _, entry := range e.scene.Entries() {
		if _, ok := e.handleAt(entry.Shape, p); ok {
			return entry.ID
		}
		if entry.Shape.HitBody(p, LineTolerance/e.view.Zoom) {
			return entry.ID
		}
	}
	return ""
}

// handleAt returns the index of the first handle of sh within reach of p.
// The reach is fixed in screen pixels, so it shrinks in model units as the
// view zooms in.
func (e *Editor) handleAt(sh shape.Shape, p geom.Point) (int, bool) {
	radius := HandleRadius / e.view.Zoom
	for i, h := range sh.Handles() {
		if geom.PointNear(p.X, p.Y, h.X, h.Y, radius) {
			return i, true
		}
	}
	return 0, false
}

func (e *Editor) redraw() {
	if e.renderer == nil {
		return
	}
	e.renderer.Render(e.Frame())
}
