package rooms

import (
	"github.com/amiralam198/real-time-collaborative-canvas/board"
)

// User is one member of a room, existing for the lifetime of one connection.
// Leaving the room frees its color back to the palette.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`

	// cursor is the last known pointer position. It is volatile: never
	// logged, never part of a snapshot, gone after reconnection. Guarded by
	// the owning room's mutex; read it through Room.CursorOf.
	cursor board.Point

	// seq orders members by join time within a room.
	seq int
}
