package collab

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rzkyif/webgl2d/internal/auth"
	"github.com/rzkyif/webgl2d/internal/drawing"
)

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// Access decides whether a user may watch a drawing.
type Access interface {
	CanView(ctx context.Context, drawingID, userID string) error
}

// Users looks up display names.
type Users interface {
	GetUser(ctx context.Context, userID string) (*auth.User, error)
}

type Handler struct {
	hub            *Hub
	tokens         TokenValidator
	access         Access
	users          Users
	originPatterns []string
}

func NewHandler(hub *Hub, tokens TokenValidator, access Access, users Users, originPatterns []string) *Handler {
	return &Handler{
		hub:            hub,
		tokens:         tokens,
		access:         access,
		users:          users,
		originPatterns: originPatterns,
	}
}

// Watch upgrades to a websocket subscribed to one drawing. Browsers cannot
// set headers on websocket requests, so the token comes from the query.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	drawingID := mux.Vars(r)["drawingId"]

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	userID, err := h.tokens.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if err := h.access.CanView(r.Context(), drawingID, userID); err != nil {
		switch {
		case errors.Is(err, drawing.ErrNotFound):
			http.Error(w, "drawing not found", http.StatusNotFound)
		case errors.Is(err, drawing.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			slog.Error("check drawing access", "error", err, "drawing", drawingID)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		slog.Error("load watcher", "error", err, "user", userID)
		http.Error(w, "user not found", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, userID, user.DisplayName, drawingID, uuid.New().String())
	if !h.hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
