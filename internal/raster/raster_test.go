package raster

import (
	"context"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzkyif/webgl2d/internal/auth"
	"github.com/rzkyif/webgl2d/internal/document"
	"github.com/rzkyif/webgl2d/internal/drawing"
	"github.com/rzkyif/webgl2d/internal/editor"
	"github.com/rzkyif/webgl2d/internal/viewport"
)

func rgb(c color.Color) [3]uint8 {
	r, g, b, _ := c.RGBA()
	return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func assertColor(t *testing.T, want [3]uint8, got color.Color, msgAndArgs ...interface{}) {
	t.Helper()
	c := rgb(got)
	for i := range want {
		assert.InDelta(t, want[i], c[i], 1, msgAndArgs...)
	}
}

var (
	white  = [3]uint8{255, 255, 255}
	red    = [3]uint8{255, 0, 0}
	orange = [3]uint8{255, 153, 0}
)

func mustScene(t *testing.T, doc string) *document.Scene {
	t.Helper()
	scene, err := document.ParseXML(doc)
	require.NoError(t, err)
	return scene
}

func TestRenderSquareAndHandles(t *testing.T) {
	scene := mustScene(t, `<shapes><square x="0" y="0" size="50" color="#ff0000"/></shapes>`)
	r := NewRenderer(100, 100)
	r.Render(editor.CompileFrame(scene, nil, viewport.New()))
	img := r.Image()

	// The square covers screen [20, 70] at the default viewport.
	assertColor(t, red, img.At(45, 45), "center, on the strip diagonal")
	assertColor(t, red, img.At(30, 60))
	assertColor(t, white, img.At(90, 90))
	assertColor(t, white, img.At(5, 50))
	assertColor(t, orange, img.At(70, 70), "corner handle")
}

func TestRenderPolygonFan(t *testing.T) {
	scene := mustScene(t, `<shapes><polygon color="#ff0000">
		<point x="0" y="0"/><point x="60" y="0"/><point x="60" y="60"/><point x="0" y="60"/>
	</polygon></shapes>`)
	r := NewRenderer(100, 100)
	frame := editor.CompileFrame(scene, nil, viewport.New())
	frame.Calls = withoutHandles(frame.Calls)
	r.Render(frame)

	assertColor(t, red, r.Image().At(50, 50))
	assertColor(t, red, r.Image().At(25, 75))
	assertColor(t, white, r.Image().At(90, 50))
}

func TestRenderLineFollowsZoom(t *testing.T) {
	scene := mustScene(t, `<shapes><line ax="0" ay="10" bx="40" by="10" color="#ff0000"/></shapes>`)
	view := viewport.New()
	require.True(t, view.ApplyZoom(0, 0, 1))

	r := NewRenderer(120, 120)
	frame := editor.CompileFrame(scene, nil, view)
	frame.Calls = withoutHandles(frame.Calls)
	r.Render(frame)

	// Model y=10 lands on screen y=60; x spans [40, 120).
	assert.NotEqual(t, white, rgb(r.Image().At(80, 60)))
	assertColor(t, white, r.Image().At(80, 20))
	assertColor(t, white, r.Image().At(20, 60))
}

type fakeScenes struct {
	scene *document.Scene
	err   error
}

func (f fakeScenes) Scene(context.Context, string, string) (*document.Scene, error) {
	return f.scene, f.err
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/drawings/{drawingId}/png", h.ExportPNG)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "user_a"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestExportPNG(t *testing.T) {
	h := NewHandler(fakeScenes{scene: document.NewSampleScene()}, 1000)

	rec := serve(h, "/api/drawings/drw_1/png?width=320&height=200&handles=1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	rec = serve(h, "/api/drawings/drw_1/png")
	require.Equal(t, http.StatusOK, rec.Code)
	img, err = png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
}

func TestExportPNGErrors(t *testing.T) {
	ok := NewHandler(fakeScenes{scene: document.New()}, 500)
	for _, target := range []string{
		"/api/drawings/drw_1/png?width=0",
		"/api/drawings/drw_1/png?width=501",
		"/api/drawings/drw_1/png?height=abc",
	} {
		assert.Equal(t, http.StatusBadRequest, serve(ok, target).Code, target)
	}

	rec := serve(NewHandler(fakeScenes{err: drawing.ErrNotFound}, 500), "/api/drawings/drw_1/png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = serve(NewHandler(fakeScenes{err: drawing.ErrForbidden}, 500), "/api/drawings/drw_1/png")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExportPNGFit(t *testing.T) {
	scene := mustScene(t, `<shapes><square x="500" y="500" size="30" color="#ff0000"/></shapes>`)
	h := NewHandler(fakeScenes{scene: scene}, 1000)

	rec := serve(h, "/api/drawings/drw_1/png?width=100&height=100")
	require.Equal(t, http.StatusOK, rec.Code)
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assertColor(t, white, img.At(35, 35))

	rec = serve(h, "/api/drawings/drw_1/png?width=100&height=100&fit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	img, err = png.Decode(rec.Body)
	require.NoError(t, err)
	assertColor(t, red, img.At(35, 35))
}
