package raster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rzkyif/webgl2d/internal/auth"
	"github.com/rzkyif/webgl2d/internal/document"
	"github.com/rzkyif/webgl2d/internal/drawing"
	"github.com/rzkyif/webgl2d/internal/editor"
	"github.com/rzkyif/webgl2d/internal/shape"
	"github.com/rzkyif/webgl2d/internal/viewport"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// SceneSource loads a stored drawing for a user.
type SceneSource interface {
	Scene(ctx context.Context, drawingID, userID string) (*document.Scene, error)
}

type Handler struct {
	scenes    SceneSource
	maxPixels int
}

func NewHandler(scenes SceneSource, maxPixels int) *Handler {
	return &Handler{scenes: scenes, maxPixels: maxPixels}
}

// ExportPNG renders a stored drawing at the default viewport. Query
// parameters: width, height, handles=1 to include vertex handles and fit=1
// to pan the drawing's top-left corner to the default margin.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	drawingID := mux.Vars(r)["drawingId"]

	q := r.URL.Query()
	width, err := h.dimension(q.Get("width"), defaultWidth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "width: " + err.Error()})
		return
	}
	height, err := h.dimension(q.Get("height"), defaultHeight)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "height: " + err.Error()})
		return
	}

	scene, err := h.scenes.Scene(r.Context(), drawingID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	view := viewport.New()
	if q.Get("fit") == "1" {
		if b, ok := scene.Bounds(); ok {
			view.OffsetX = viewport.DefaultOffsetX - b.X
			view.OffsetY = viewport.DefaultOffsetY - b.Y
		}
	}

	frame := editor.CompileFrame(scene, nil, view)
	if q.Get("handles") != "1" {
		frame.Calls = withoutHandles(frame.Calls)
	}

	renderer := NewRenderer(width, height)
	renderer.Render(frame)

	var buf bytes.Buffer
	if err := renderer.EncodePNG(&buf); err != nil {
		slog.Error("encode png", "error", err, "drawing", drawingID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	slog.Info("drawing exported", "drawing", drawingID, "width", width, "height", height, "bytes", buf.Len())
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", drawingID+".png"))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) dimension(raw string, fallback int) (int, error) {
	if raw == "" {
		return min(fallback, h.maxPixels), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if n < 1 || n > h.maxPixels {
		return 0, fmt.Errorf("must be between 1 and %d", h.maxPixels)
	}
	return n, nil
}

func withoutHandles(calls []editor.DrawCall) []editor.DrawCall {
	out := calls[:0]
	for _, c := range calls {
		if c.Primitive != shape.PrimitivePoints {
			out = append(out, c)
		}
	}
	return out
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, drawing.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, drawing.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	default:
		slog.Error("export failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
