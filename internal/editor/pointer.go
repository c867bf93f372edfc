package editor

import (
	"log/slog"

	"github.com/rzkyif/webgl2d/internal/geom"
	"github.com/rzkyif/webgl2d/internal/shape"
)

// PointerDown handles a press at a screen position. In a drawing mode the
// press is a click of the drawing protocol. In Idle it starts a gesture:
// a handle press resizes, a body press moves and a press on empty canvas
// pans.
func (e *Editor) PointerDown(sx, sy float64) {
	e.pressConsumed = false
	p := e.view.ScreenPoint(sx, sy)

	switch e.mode {
	case ModeDrawingLine:
		e.clickLine(p)
	case ModeDrawingSquare:
		e.clickSquare(p)
	case ModeDrawingPolygon:
		e.clickPolygon(p)
	case ModeIdle:
		e.beginGesture(sx, sy, p)
	default:
		slog.Debug("ignoring press mid-gesture", "mode", e.mode)
		return
	}
	e.redraw()
}

func (e *Editor) clickLine(p geom.Point) {
	e.pressConsumed = true
	if e.stage == StageAwaitingFirstPoint {
		e.draft = shape.NewLine(p.X, p.Y, p.X, p.Y)
		e.stage = StageAwaitingSecondPoint
		return
	}
	line := e.draft.(*shape.Line)
	line.SetHandle(1, p)
	e.commitDraft()
}

func (e *Editor) clickSquare(p geom.Point) {
	e.pressConsumed = true
	sq := e.draft.(*shape.Square)
	if e.stage == StageAwaitingFirstPoint {
		e.anchor = p
		sq.X, sq.Y, sq.Size = p.X, p.Y, 0
		e.stage = StageAwaitingSecondPoint
		return
	}
	sq.Resize(e.anchor, p)
	e.commitDraft()
}

func (e *Editor) clickPolygon(p geom.Point) {
	e.pressConsumed = true
	poly := e.draft.(*shape.Polygon)
	poly.SetHandle(len(poly.Points)-1, p)
	if e.remaining == 0 {
		e.commitDraft()
		return
	}
	e.remaining--
	poly.AddPoint(p)
}

func (e *Editor) commitDraft() {
	id := e.scene.Append(e.draft)
	slog.Debug("shape added", "shape", id, "kind", e.draft.Kind())
	e.resetInteraction()
}

func (e *Editor) beginGesture(sx, sy float64, p geom.Point) {
	tolerance := LineTolerance / e.view.Zoom
	for _, entry := range e.scene.Entries() {
		if i, ok := e.handleAt(entry.Shape, p); ok {
			e.target, e.handle = entry.ID, i
			switch sh := entry.Shape.(type) {
			case *shape.Line:
				e.mode = ModeResizingLine
			case *shape.Square:
				e.anchor = sh.OppositeCorner(i)
				e.mode = ModeResizingSquare
			case *shape.Polygon:
				e.mode = ModeResizingPolygon
			}
			return
		}
		if entry.Shape.HitBody(p, tolerance) {
			e.target = entry.ID
			e.last = p
			e.mode = ModeMoving
			return
		}
	}
	e.last = geom.Pt(sx, sy)
	e.mode = ModePanning
}

// PointerMove handles pointer motion. It drives the active gesture or the
// preview of the shape being drawn.
func (e *Editor) PointerMove(sx, sy float64) {
	p := e.view.ScreenPoint(sx, sy)

	switch e.mode {
	case ModePanning:
		e.view.ApplyPan(sx-e.last.X, sy-e.last.Y)
		e.last = geom.Pt(sx, sy)
	case ModeDrawingLine:
		if e.stage == StageAwaitingFirstPoint {
			return
		}
		e.draft.(*shape.Line).SetHandle(1, p)
	case ModeDrawingSquare:
		sq := e.draft.(*shape.Square)
		if e.stage == StageAwaitingFirstPoint {
			sq.X, sq.Y = p.X, p.Y
		} else {
			sq.Resize(e.anchor, p)
		}
	case ModeDrawingPolygon:
		poly := e.draft.(*shape.Polygon)
		poly.SetHandle(len(poly.Points)-1, p)
	case ModeResizingLine, ModeResizingSquare, ModeResizingPolygon:
		if !e.resizeTarget(p) {
			e.resetInteraction()
		}
	case ModeMoving:
		sh, ok := e.scene.Lookup(e.target)
		if !ok {
			e.resetInteraction()
			break
		}
		sh.Translate(p.X-e.last.X, p.Y-e.last.Y)
		e.last = p
	default:
		return
	}
	e.redraw()
}

func (e *Editor) resizeTarget(p geom.Point) bool {
	sh, ok := e.scene.Lookup(e.target)
	if !ok {
		return false
	}
	switch sh := sh.(type) {
	case *shape.Line:
		sh.SetHandle(e.handle, p)
	case *shape.Square:
		sh.Resize(e.anchor, p)
	case *shape.Polygon:
		sh.SetHandle(e.handle, p)
	}
	return true
}

// PointerUp ends a pan, resize or move. Releases in any other mode are
// ignored.
func (e *Editor) PointerUp(sx, sy float64) {
	switch e.mode {
	case ModePanning, ModeResizingLine, ModeResizingSquare, ModeResizingPolygon, ModeMoving:
		e.PointerMove(sx, sy)
		e.resetInteraction()
		e.redraw()
	default:
		slog.Debug("ignoring release", "mode", e.mode)
	}
}
