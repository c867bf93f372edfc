package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzkyif/webgl2d/internal/geom"
	"github.com/rzkyif/webgl2d/internal/shape"
)

// With the default viewport a model point (x, y) sits at screen
// (x+20, y+20).
func screen(mx, my float64) (float64, float64) { return mx + 20, my + 20 }

type recorder struct {
	frames []Frame
}

func (r *recorder) Render(f Frame) { r.frames = append(r.frames, f) }

func (r *recorder) last() Frame { return r.frames[len(r.frames)-1] }

func loaded(t *testing.T, doc string) *Editor {
	t.Helper()
	e := New(nil)
	require.NoError(t, e.LoadDocument(doc))
	return e
}

func TestDrawLine(t *testing.T) {
	e := New(nil)
	e.StartDrawLine()
	assert.Equal(t, ModeDrawingLine, e.Mode())
	assert.Nil(t, e.Draft())

	e.PointerDown(screen(10, 10))
	assert.Equal(t, "", e.SelectAt(screen(10, 10)))
	assert.Equal(t, StageAwaitingSecondPoint, e.Stage())
	require.NotNil(t, e.Draft())

	e.PointerMove(screen(50, 30))
	assert.Equal(t, []float64{10, 10, 50, 30}, e.Draft().Vertices())

	e.PointerDown(screen(50, 30))
	e.PointerUp(screen(50, 30))
	assert.Equal(t, ModeIdle, e.Mode())
	assert.Nil(t, e.Draft())

	require.Equal(t, 1, e.Scene().Len())
	line, ok := e.Scene().At(0).Shape.(*shape.Line)
	require.True(t, ok)
	assert.Equal(t, []float64{10, 10, 50, 30}, line.Vertices())
	assert.Equal(t, shape.DefaultColor, line.Color())
}

func TestDrawSquare(t *testing.T) {
	tests := []struct {
		name    string
		pointer geom.Point
		want    [3]float64
	}{
		{"quadrant 1", geom.Pt(10, 20), [3]float64{0, 0, 20}},
		{"quadrant 2", geom.Pt(-5, 5), [3]float64{-5, 0, 5}},
		{"quadrant 3", geom.Pt(-8, -3), [3]float64{-8, -8, 8}},
		{"quadrant 4", geom.Pt(4, -6), [3]float64{0, -6, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(nil)
			e.StartDrawSquare()

			e.PointerMove(screen(5, 5))
			sq := e.Draft().(*shape.Square)
			assert.Equal(t, [3]float64{5, 5, 0}, [3]float64{sq.X, sq.Y, sq.Size})

			e.PointerDown(screen(0, 0))
			e.PointerMove(screen(tt.pointer.X, tt.pointer.Y))
			e.PointerDown(screen(tt.pointer.X, tt.pointer.Y))

			assert.Equal(t, ModeIdle, e.Mode())
			require.Equal(t, 1, e.Scene().Len())
			got := e.Scene().At(0).Shape.(*shape.Square)
			assert.InDeltaSlice(t, tt.want[:], []float64{got.X, got.Y, got.Size}, 1e-9)
		})
	}
}

func TestDrawPolygon(t *testing.T) {
	e := New(nil)
	require.NoError(t, e.StartDrawPolygon(3))
	assert.Equal(t, ModeDrawingPolygon, e.Mode())
	assert.Equal(t, 2, e.Remaining())

	e.PointerMove(screen(10, 0))
	e.PointerDown(screen(10, 0))
	assert.Equal(t, 1, e.Remaining())

	e.PointerDown(screen(20, 20))
	assert.Equal(t, 0, e.Remaining())
	assert.Equal(t, 0, e.Scene().Len())

	e.PointerMove(screen(0, 20))
	e.PointerDown(screen(0, 20))

	assert.Equal(t, ModeIdle, e.Mode())
	require.Equal(t, 1, e.Scene().Len())
	poly := e.Scene().At(0).Shape.(*shape.Polygon)
	assert.Equal(t, 3, poly.VertexCount())
	assert.Equal(t, []float64{10, 0, 20, 20, 0, 20}, poly.Vertices())
}

func TestStartDrawPolygonRejectsTooFewVertices(t *testing.T) {
	e := New(nil)
	for _, n := range []int{-1, 0, 1, 2} {
		err := e.StartDrawPolygon(n)
		assert.ErrorIs(t, err, ErrPolygonVertexCount, "n=%d", n)
		assert.Equal(t, ModeIdle, e.Mode())
		assert.Nil(t, e.Draft())
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	e := New(nil)
	require.NoError(t, e.StartDrawPolygon(5))
	e.PointerDown(screen(1, 1))
	e.PointerDown(screen(2, 5))

	e.Cancel()
	assert.Equal(t, ModeIdle, e.Mode())
	assert.Nil(t, e.Draft())
	assert.Equal(t, 0, e.Scene().Len())
}

func TestSwitchingDrawModeDiscardsDraft(t *testing.T) {
	e := New(nil)
	e.StartDrawLine()
	e.PointerDown(screen(1, 1))

	e.StartDrawSquare()
	assert.Equal(t, ModeDrawingSquare, e.Mode())
	assert.Equal(t, StageAwaitingFirstPoint, e.Stage())
	assert.Equal(t, shape.KindSquare, e.Draft().Kind())
}

func TestPanning(t *testing.T) {
	e := New(nil)
	e.PointerDown(100, 100)
	assert.Equal(t, ModePanning, e.Mode())

	e.StartDrawLine()
	assert.Equal(t, ModePanning, e.Mode(), "draw requests are ignored mid-gesture")

	e.PointerMove(110, 90)
	e.PointerUp(110, 90)
	assert.Equal(t, ModeIdle, e.Mode())
	assert.Equal(t, "30, 10 | 100%", e.StatusText())
}

func TestPanningScalesByZoom(t *testing.T) {
	e := New(nil)
	require.True(t, e.Zoom(0, 0, 1))

	e.PointerDown(500, 500)
	e.PointerMove(520, 500)
	e.PointerUp(520, 500)

	v := e.Viewport()
	assert.InDelta(t, 30, v.OffsetX, 1e-9)
	assert.InDelta(t, 20, v.OffsetY, 1e-9)
}

func TestResizePolygonVertex(t *testing.T) {
	e := loaded(t, `<shapes><polygon><point x="0" y="0"/><point x="100" y="0"/><point x="50" y="80"/></polygon></shapes>`)

	e.PointerDown(screen(102, 1))
	assert.Equal(t, ModeResizingPolygon, e.Mode())

	e.PointerMove(screen(120, 40))
	e.PointerUp(screen(120, 40))
	assert.Equal(t, ModeIdle, e.Mode())

	poly := e.Scene().At(0).Shape.(*shape.Polygon)
	assert.Equal(t, []float64{0, 0, 120, 40, 50, 80}, poly.Vertices())
}

func TestResizeSquareUsesOppositeCorner(t *testing.T) {
	e := loaded(t, `<shapes><square x="0" y="0" size="50"/></shapes>`)
	sq := e.Scene().At(0).Shape.(*shape.Square)

	e.PointerDown(screen(50, 50))
	assert.Equal(t, ModeResizingSquare, e.Mode())
	e.PointerMove(screen(80, 70))
	e.PointerUp(screen(80, 70))
	assert.Equal(t, [3]float64{0, 0, 80}, [3]float64{sq.X, sq.Y, sq.Size})

	e.PointerDown(screen(0, 0))
	assert.Equal(t, ModeResizingSquare, e.Mode())
	e.PointerMove(screen(20, 20))
	e.PointerUp(screen(20, 20))
	assert.Equal(t, [3]float64{20, 20, 60}, [3]float64{sq.X, sq.Y, sq.Size})
}

func TestResizeLineEndpointBeatsBody(t *testing.T) {
	e := loaded(t, `<shapes><line ax="0" ay="0" bx="100" by="0"/></shapes>`)

	e.PointerDown(screen(100, 0))
	assert.Equal(t, ModeResizingLine, e.Mode())

	e.PointerMove(screen(100, 50))
	e.PointerUp(screen(100, 50))
	assert.Equal(t, []float64{0, 0, 100, 50}, e.Scene().At(0).Shape.Vertices())
}

func TestNearlyPointLineOnlyClaimsNearbyPresses(t *testing.T) {
	e := loaded(t, `<shapes><line ax="100" ay="100" bx="100.00000000000001" by="100"/></shapes>`)
	id := e.Scene().At(0).ID

	assert.Equal(t, "", e.HitTest(screen(100, 900)))
	assert.Equal(t, id, e.HitTest(screen(100, 101)))

	e.PointerDown(screen(100, 900))
	assert.Equal(t, ModePanning, e.Mode())
}

func TestMoveShape(t *testing.T) {
	e := loaded(t, `<shapes><square x="0" y="0" size="50"/></shapes>`)
	id := e.Scene().At(0).ID

	e.PointerDown(screen(25, 25))
	assert.Equal(t, ModeMoving, e.Mode())
	e.PointerMove(screen(35, 15))
	e.PointerUp(screen(35, 15))

	sq := e.Scene().At(0).Shape.(*shape.Square)
	assert.Equal(t, [3]float64{10, -10, 50}, [3]float64{sq.X, sq.Y, sq.Size})
	assert.Equal(t, id, e.SelectAt(screen(35, 15)))
}

func TestHandleRadiusIsScreenPixels(t *testing.T) {
	e := loaded(t, `<shapes><line ax="0" ay="0" bx="100" by="0"/></shapes>`)
	id := e.Scene().At(0).ID
	require.True(t, e.Zoom(0, 0, 1))

	// B is drawn at (240, 40).
	assert.Equal(t, id, e.HitTest(244, 40))
	assert.Equal(t, "", e.HitTest(246, 40))
}

func TestSelectionAndColor(t *testing.T) {
	e := loaded(t, `<shapes><square x="0" y="0" size="50" color="#ff0000"/><line ax="200" ay="0" bx="300" by="0"/></shapes>`)

	assert.Equal(t, "", e.SelectAt(screen(150, 150)))
	assert.ErrorIs(t, e.SetSelectedColor("#123456"), ErrNoSelection)
	color, ok := e.SelectedColor()
	assert.False(t, ok)
	assert.Equal(t, shape.DefaultColor, color)

	id := e.SelectAt(screen(250, 3))
	assert.Equal(t, e.Scene().At(1).ID, id)
	assert.Equal(t, id, e.Selection())

	require.NoError(t, e.SetSelectedColor("#123456"))
	color, ok = e.SelectedColor()
	assert.True(t, ok)
	assert.Equal(t, "#123456", color)

	assert.ErrorIs(t, e.SetSelectedColor("#GGGGGG"), geom.ErrInvalidColorFormat)
	assert.Equal(t, "#123456", e.Scene().At(1).Shape.Color())

	assert.Equal(t, "", e.SelectAt(screen(150, 150)))
	assert.Equal(t, "", e.Selection())
}

func TestSelectionClearsOnReload(t *testing.T) {
	e := loaded(t, `<shapes><square x="0" y="0" size="50"/></shapes>`)
	require.NotEmpty(t, e.SelectAt(screen(25, 25)))

	require.NoError(t, e.LoadDocument(`<shapes><square x="0" y="0" size="50"/></shapes>`))
	assert.Equal(t, "", e.Selection())
	assert.ErrorIs(t, e.SetSelectedColor("#000"), ErrNoSelection)

	require.NotEmpty(t, e.SelectAt(screen(25, 25)))
	e.LoadSampleDocument()
	assert.ErrorIs(t, e.SetSelectedColor("#000"), ErrNoSelection)
}

func TestLoadFailureKeepsScene(t *testing.T) {
	e := loaded(t, `<shapes><line ax="0" ay="0" bx="1" by="1"/></shapes>`)
	before := e.Scene()
	require.True(t, e.Zoom(0, 0, 0.5))

	err := e.LoadDocument(`<shapes><line ax="0" ay="0" bx="1"/></shapes>`)
	assert.ErrorIs(t, err, shape.ErrMalformedShape)
	assert.Same(t, before, e.Scene())
	assert.Equal(t, 1, e.Scene().Len())
	assert.InDelta(t, 1.5, e.Viewport().Zoom, 1e-12)
}

func TestLoadResetsView(t *testing.T) {
	e := New(nil)
	e.PointerDown(0, 0)
	e.PointerMove(50, 50)
	e.PointerUp(50, 50)
	require.NotEqual(t, "20, 20 | 100%", e.StatusText())

	e.LoadSampleDocument()
	assert.Equal(t, "20, 20 | 100%", e.StatusText())
	assert.Equal(t, 3, e.Scene().Len())
}

func TestSaveExcludesDraft(t *testing.T) {
	e := New(nil)
	e.StartDrawLine()
	e.PointerDown(screen(1, 1))

	text, err := e.SaveDocument()
	require.NoError(t, err)
	assert.NotContains(t, text, "<line")

	e.PointerDown(screen(5, 5))
	text, err = e.SaveDocument()
	require.NoError(t, err)
	assert.Contains(t, text, `<line ax="1" ay="1" bx="5" by="5" color="#555555"></line>`)
}

func TestOutOfProtocolInputIsIgnored(t *testing.T) {
	e := New(nil)
	e.PointerUp(10, 10)
	e.PointerMove(10, 10)
	assert.Equal(t, ModeIdle, e.Mode())

	e.StartDrawLine()
	assert.Equal(t, "", e.SelectAt(10, 10))
	assert.Equal(t, ModeDrawingLine, e.Mode())

	assert.False(t, e.Zoom(0, 0, 5))
	assert.Equal(t, "20, 20 | 100%", e.StatusText())
}

func TestRedrawAfterEveryMutation(t *testing.T) {
	r := &recorder{}
	e := New(r)

	e.StartDrawSquare()
	e.PointerMove(screen(3, 3))
	e.PointerDown(screen(0, 0))
	e.PointerMove(screen(10, 10))
	e.PointerDown(screen(10, 10))
	assert.Len(t, r.frames, 5)

	n := len(r.frames)
	e.Zoom(0, 0, 0.1)
	e.ResetView()
	assert.Len(t, r.frames, n+2)

	e.Zoom(0, 0, 10)
	assert.Len(t, r.frames, n+2, "rejected zoom does not redraw")
}
