package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/amiralam198/real-time-collaborative-canvas/board"
	"github.com/amiralam198/real-time-collaborative-canvas/rooms"
)

// EventType tags every frame exchanged over a room channel. Each type maps
// to exactly one payload struct; adding an operation kind means adding a
// variant here and handling it in the gateway's dispatch switch.
type EventType string

const (
	// Client to server.
	EventJoinRoom    EventType = "join-room"
	EventDrawStroke  EventType = "draw-stroke"
	EventCursorMove  EventType = "cursor-move"
	EventUndo        EventType = "undo"
	EventRedo        EventType = "redo"
	EventClearCanvas EventType = "clear-canvas"
	EventToolChange  EventType = "tool-change"
	EventRoomStats   EventType = "room-stats"

	// Server to clients.
	EventInitCanvas     EventType = "init-canvas"
	EventUserJoined     EventType = "user-joined"
	EventUserLeft       EventType = "user-left"
	EventUserToolChange EventType = "user-tool-change"
)

// Envelope is the wire frame for every event.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Intent is implemented by every decoded client-to-server event.
type Intent interface {
	intent()
}

// JoinIntent asks to join a room under a display name.
type JoinIntent struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// DrawIntent submits a stroke for authoritative ordering.
type DrawIntent struct {
	board.StrokePayload
}

// CursorIntent reports the sender's pointer position.
type CursorIntent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UndoIntent asks to tombstone the most recent visible operation.
type UndoIntent struct{}

// RedoIntent asks to restore the highest tombstoned operation.
type RedoIntent struct{}

// ClearIntent asks to append a clear operation.
type ClearIntent struct{}

// ToolIntent announces the sender's tool selection. Ephemeral presence only,
// never logged.
type ToolIntent struct {
	Tool board.Tool `json:"tool"`
}

// StatsIntent requests the sender's room stats.
type StatsIntent struct{}

func (*JoinIntent) intent()   {}
func (*DrawIntent) intent()   {}
func (*CursorIntent) intent() {}
func (*UndoIntent) intent()   {}
func (*RedoIntent) intent()   {}
func (*ClearIntent) intent()  {}
func (*ToolIntent) intent()   {}
func (*StatsIntent) intent()  {}

// DecodeIntent parses a client frame into its typed intent. Unknown event
// types and malformed payloads are errors; the caller drops such frames.
func DecodeIntent(frame []byte) (Intent, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch env.Type {
	case EventJoinRoom:
		return decodePayload[JoinIntent](env)
	case EventDrawStroke:
		return decodePayload[DrawIntent](env)
	case EventCursorMove:
		return decodePayload[CursorIntent](env)
	case EventUndo:
		return &UndoIntent{}, nil
	case EventRedo:
		return &RedoIntent{}, nil
	case EventClearCanvas:
		return &ClearIntent{}, nil
	case EventToolChange:
		return decodePayload[ToolIntent](env)
	case EventRoomStats:
		return &StatsIntent{}, nil
	case EventInitCanvas, EventUserJoined, EventUserLeft, EventUserToolChange:
		return nil, fmt.Errorf("event type %q is server-to-client only", env.Type)
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
}

func decodePayload[T any](env Envelope) (*T, error) {
	var payload T
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Type, err)
		}
	}
	return &payload, nil
}

// InitCanvasEvent seeds a joining connection with its assigned identity, the
// full log snapshot, and current membership.
type InitCanvasEvent struct {
	User  *rooms.User    `json:"user"`
	State board.Snapshot `json:"state"`
	Users []*rooms.User  `json:"users"`
}

// UndoneEvent announces a tombstoned or restored operation id.
type UndoneEvent struct {
	OperationID int64 `json:"operationId"`
}

// CursorEvent rebroadcasts a member's pointer position to its peers.
type CursorEvent struct {
	UserID   string      `json:"userId"`
	UserName string      `json:"userName"`
	Color    string      `json:"color"`
	Cursor   board.Point `json:"cursor"`
}

// UserJoinedEvent announces a membership addition to existing members.
type UserJoinedEvent struct {
	User  *rooms.User   `json:"user"`
	Users []*rooms.User `json:"users"`
}

// UserLeftEvent announces a membership removal to remaining members.
type UserLeftEvent struct {
	UserID   string        `json:"userId"`
	UserName string        `json:"userName"`
	Users    []*rooms.User `json:"users"`
}

// ToolChangeEvent rebroadcasts a member's tool selection to its peers.
type ToolChangeEvent struct {
	UserID   string     `json:"userId"`
	UserName string     `json:"userName"`
	Tool     board.Tool `json:"tool"`
}

// encodeEvent marshals an envelope for the wire. The payload types above
// cannot fail to marshal; a failure here is a programming error and yields
// an empty frame that peers drop on decode.
func encodeEvent(t EventType, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	frame, err := json.Marshal(Envelope{Type: t, Data: raw})
	if err != nil {
		return nil
	}
	return frame
}
