package rooms

import (
	"log/slog"
	"sync"
	"time"

	"github.com/amiralam198/real-time-collaborative-canvas/board"
)

// DefaultGracePeriod is how long an empty room survives before teardown.
const DefaultGracePeriod = 60 * time.Second

// RegistryConfig configures room creation and teardown.
type RegistryConfig struct {
	// Palette is the fixed color pool assigned to members. Defaults to
	// DefaultPalette.
	Palette []string

	// GracePeriod is how long a room with zero members is kept before it is
	// deleted. Defaults to DefaultGracePeriod.
	GracePeriod time.Duration

	// Log is the structured logger for lifecycle events.
	Log *slog.Logger
}

// Registry owns every live room. It is safe for concurrent use; it holds no
// lock across room mutations, so independent rooms never contend.
type Registry struct {
	palette []string
	grace   time.Duration
	log     *slog.Logger

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg *RegistryConfig) *Registry {
	if cfg == nil {
		cfg = &RegistryConfig{}
	}
	palette := cfg.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	grace := cfg.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		palette: palette,
		grace:   grace,
		log:     log,
		rooms:   make(map[string]*Room),
	}
}

// GetOrCreate returns the room for roomID, creating it lazily. Idempotent.
func (r *Registry) GetOrCreate(roomID string) *Room {
	r.mu.RLock()
	room, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if ok {
		return room
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[roomID]; ok {
		return room
	}
	room = newRoom(roomID)
	r.rooms[roomID] = room
	r.log.Info("room created", "room", roomID)
	return room
}

// Get returns the room for roomID if it exists.
func (r *Registry) Get(roomID string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	return room, ok
}

// Join registers a connection as a member of roomID, creating the room if
// needed, and assigns the user a color from the palette. A pending teardown
// of the room is cancelled.
//
// Lookup and membership registration happen under the registry lock, so a
// grace-timer reap can never delete the room between the two; the member
// always lands in the room the registry knows about.
func (r *Registry) Join(roomID, connID, name string) (*Room, *User) {
	r.mu.Lock()
	room, ok := r.rooms[roomID]
	if !ok {
		room = newRoom(roomID)
		r.rooms[roomID] = room
		r.log.Info("room created", "room", roomID)
	}
	user := room.join(connID, name, r.palette)
	r.mu.Unlock()

	r.log.Info("user joined", "room", roomID, "user", connID, "name", name, "color", user.Color)
	return room, user
}

// Leave removes a connection from roomID and frees its color. If the room is
// left empty, deletion is scheduled after the grace period; the timer
// re-validates membership when it fires, so a rejoin in the meantime keeps
// the room alive.
func (r *Registry) Leave(roomID, connID string) (*User, bool) {
	room, ok := r.Get(roomID)
	if !ok {
		return nil, false
	}

	user, ok := room.leave(connID, r.grace, func() { r.reap(roomID) })
	if !ok {
		return nil, false
	}
	r.log.Info("user left", "room", roomID, "user", connID)
	return user, true
}

// reap deletes roomID if it is still empty when the grace timer fires.
func (r *Registry) reap(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return
	}

	room.mu.Lock()
	empty := len(room.members) == 0
	room.mu.Unlock()
	if !empty {
		return
	}

	delete(r.rooms, roomID)
	r.log.Info("room deleted", "room", roomID)
}

// UpdateCursor records a member's pointer position. Last write wins; the
// position is never logged or persisted.
func (r *Registry) UpdateCursor(roomID, connID string, pos board.Point) bool {
	room, ok := r.Get(roomID)
	if !ok {
		return false
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	user, ok := room.members[connID]
	if !ok {
		return false
	}
	user.cursor = pos
	return true
}

// Stats returns the reporting view of roomID, or false if the room is
// unknown.
func (r *Registry) Stats(roomID string) (*RoomStats, bool) {
	room, ok := r.Get(roomID)
	if !ok {
		return nil, false
	}
	return room.Stats(), true
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
