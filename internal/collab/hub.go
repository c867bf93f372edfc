// Package collab runs websocket watch rooms: everyone viewing a drawing
// hears about the others and is told when the drawing is saved.
package collab

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

type Room struct {
	drawingID string
	clients   map[string]*Client // clientID -> client
	seq       int64
}

func NewRoom(drawingID string) *Room {
	return &Room{
		drawingID: drawingID,
		clients:   make(map[string]*Client),
	}
}

func (r *Room) viewers() []Viewer {
	out := make([]Viewer, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, Viewer{UserID: c.UserID, DisplayName: c.DisplayName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // drawingID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		}
	}
}

// Register adds a client to its drawing's room. It reports false once the
// hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// RoomSize returns how many clients watch a drawing.
func (h *Hub) RoomSize(drawingID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[drawingID]
	if !ok {
		return 0
	}
	return len(room.clients)
}

// PublishSaved tells every watcher of the drawing that a new version was
// stored.
func (h *Hub) PublishSaved(drawingID string, version int, userID string) {
	h.mu.Lock()
	room, ok := h.rooms[drawingID]
	if !ok {
		h.mu.Unlock()
		return
	}
	room.seq++
	msg := newMessage(TypeDrawingSaved, drawingID, SavedPayload{Version: version, SavedBy: userID})
	msg.UserID = userID
	msg.Seq = room.seq
	h.mu.Unlock()

	h.broadcastToRoom(drawingID, msg, "")
	slog.Debug("save broadcast", "drawing", drawingID, "version", version)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok {
		room = NewRoom(client.DrawingID)
		h.rooms[client.DrawingID] = room
	}
	room.clients[client.ClientID] = client
	welcome := newMessage(TypeWelcome, client.DrawingID, WelcomePayload{
		ClientID: client.ClientID,
		Viewers:  room.viewers(),
	})
	h.mu.Unlock()

	client.Send(welcome)

	join := newMessage(TypeViewerJoin, client.DrawingID, Viewer{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	join.UserID = client.UserID
	h.broadcastToRoom(client.DrawingID, join, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()

	if len(room.clients) == 0 {
		delete(h.rooms, client.DrawingID)
	}
	h.mu.Unlock()

	leave := newMessage(TypeViewerLeave, client.DrawingID, Viewer{UserID: client.UserID})
	leave.UserID = client.UserID
	h.broadcastToRoom(client.DrawingID, leave, "")

	slog.Info("client left", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for _, c := range room.clients {
			c.close()
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeViewersRequest:
		h.mu.RLock()
		room, ok := h.rooms[sender.DrawingID]
		var viewers []Viewer
		if ok {
			viewers = room.viewers()
		}
		h.mu.RUnlock()
		sender.Send(newMessage(TypeViewers, sender.DrawingID, ViewersPayload{Viewers: viewers}))
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.Send(newMessage(TypeError, sender.DrawingID, ErrorPayload{Message: "unknown message type"}))
	}
}

func (h *Hub) broadcastToRoom(drawingID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[drawingID]
	if !ok {
		return
	}
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}
