package rooms

import (
	"sort"
	"sync"
	"time"

	"github.com/amiralam198/real-time-collaborative-canvas/board"
)

// Room is an isolated collaboration session: one operation log, one
// membership table, one color pool. All mutation goes through the room's
// mutex, which is the per-room serialization point.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	log         *board.Log
	members     map[string]*User // keyed by connection id
	colorsInUse map[string]struct{}
	nextSeq     int
	teardown    *time.Timer
}

func newRoom(id string) *Room {
	return &Room{
		ID:          id,
		CreatedAt:   time.Now(),
		log:         board.NewLog(),
		members:     make(map[string]*User),
		colorsInUse: make(map[string]struct{}),
	}
}

// AppendStroke records a stroke operation authored by user and returns the
// authoritative operation.
func (r *Room) AppendStroke(user *User, stroke board.StrokePayload) board.Operation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Append(board.KindStroke, user.ID, user.Name, stroke)
}

// AppendClear records a clear operation authored by user. It goes through
// the log exactly like a stroke, including the tombstone-clearing side
// effect of any append.
func (r *Room) AppendClear(user *User) board.Operation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Append(board.KindClear, user.ID, user.Name, board.StrokePayload{})
}

// Undo tombstones the most recent visible operation. ok is false when there
// was nothing to undo.
func (r *Room) Undo() (id int64, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Undo()
}

// Redo un-tombstones the highest undone operation id. ok is false when the
// tombstone set was empty.
func (r *Room) Redo() (id int64, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Redo()
}

// Snapshot returns the full log state, used to initialize joining or
// reconnecting participants.
func (r *Room) Snapshot() board.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Snapshot()
}

// Members returns the room's users ordered by join time.
func (r *Room) Members() []*User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.membersLocked()
}

func (r *Room) membersLocked() []*User {
	users := make([]*User, 0, len(r.members))
	for _, u := range r.members {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].seq < users[j].seq })
	return users
}

// CursorOf returns the last known pointer position for a member connection.
func (r *Room) CursorOf(connID string) (board.Point, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.members[connID]
	if !ok {
		return board.Point{}, false
	}
	return u.cursor, true
}

// Stats reports the room's membership and log summary.
func (r *Room) Stats() *RoomStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &RoomStats{
		ID:        r.ID,
		UserCount: len(r.members),
		Users:     r.membersLocked(),
		Drawing:   r.log.Stats(),
		CreatedAt: r.CreatedAt.UnixMilli(),
	}
}

// RoomStats is the reporting view of one room.
type RoomStats struct {
	ID        string      `json:"id"`
	UserCount int         `json:"userCount"`
	Users     []*User     `json:"users"`
	Drawing   board.Stats `json:"drawingStats"`
	CreatedAt int64       `json:"createdAt"`
}

func (r *Room) join(connID, name string, palette []string) *User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.teardown != nil {
		r.teardown.Stop()
		r.teardown = nil
	}

	user := &User{
		ID:    connID,
		Name:  name,
		Color: assignColor(palette, r.colorsInUse, len(r.members)),
		seq:   r.nextSeq,
	}
	r.nextSeq++
	r.colorsInUse[user.Color] = struct{}{}
	r.members[connID] = user
	return user
}

// leave removes the member and frees its color. When the last member leaves,
// the teardown timer is armed in the same critical section as the emptiness
// check: a concurrent join can never observe a live timer on a non-empty
// room. ok is false when connID is not a member.
func (r *Room) leave(connID string, grace time.Duration, fire func()) (user *User, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok = r.members[connID]
	if !ok {
		return nil, false
	}
	delete(r.members, connID)
	delete(r.colorsInUse, user.Color)

	if len(r.members) == 0 {
		if r.teardown != nil {
			r.teardown.Stop()
		}
		r.teardown = time.AfterFunc(grace, fire)
	}
	return user, true
}
