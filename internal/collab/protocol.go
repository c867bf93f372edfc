package collab

import "encoding/json"

type Message struct {
	Type      string          `json:"type"`
	DrawingID string          `json:"drawingId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type WelcomePayload struct {
	ClientID string   `json:"clientId"`
	Viewers  []Viewer `json:"viewers"`
}

type Viewer struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type ViewersPayload struct {
	Viewers []Viewer `json:"viewers"`
}

type SavedPayload struct {
	Version int    `json:"version"`
	SavedBy string `json:"savedBy"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	// Server to client
	TypeWelcome      = "welcome"
	TypeViewerJoin   = "viewer.join"
	TypeViewerLeave  = "viewer.leave"
	TypeViewers      = "viewers"
	TypeDrawingSaved = "drawing.saved"
	TypeError        = "error"

	// Client to server
	TypeViewersRequest = "viewers.request"
)

func newMessage(typ, drawingID string, payload any) *Message {
	msg := &Message{Type: typ, DrawingID: drawingID}
	if payload != nil {
		msg.Payload, _ = json.Marshal(payload)
	}
	return msg
}
