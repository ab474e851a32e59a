package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/amiralam198/real-time-collaborative-canvas/board"
	"github.com/amiralam198/real-time-collaborative-canvas/rooms"
)

// Gateway accepts participant connections, serializes intents per room, and
// fans authoritative events out to room members.
type Gateway struct {
	registry *rooms.Registry
	log      *slog.Logger
	upgrader websocket.Upgrader
	started  time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// session tracks the connected peers of one room and serializes the room's
// intent handling.
type session struct {
	// mu is held from intent decode through broadcast enqueue, so intents
	// for one room never interleave.
	mu    sync.Mutex
	peers map[string]*peer
}

// New creates a gateway over the given room registry.
func New(registry *rooms.Registry, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		registry: registry,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Canvas clients are browsers on arbitrary origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		started:  time.Now(),
		sessions: make(map[string]*session),
	}
}

// RegisterRoutes registers the WebSocket endpoint and the REST surface.
func (g *Gateway) RegisterRoutes(r chi.Router) {
	r.Get("/ws", g.handleWebSocket)
	r.Get("/health", g.handleHealth)
	r.Get("/api/rooms/{roomID}/stats", g.handleRoomStats)
}

func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sock, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Debug("websocket upgrade failed", "err", err)
		return
	}

	p := newPeer(sock, g.log)
	go p.writePump()
	g.readLoop(p)
}

// readLoop pulls frames off the socket until the connection drops, then runs
// the disconnect path. Malformed frames are dropped, not fatal.
func (g *Gateway) readLoop(p *peer) {
	for {
		_, frame, err := p.sock.ReadMessage()
		if err != nil {
			break
		}

		intent, err := DecodeIntent(frame)
		if err != nil {
			p.log.Debug("dropping frame", "err", err)
			continue
		}
		g.dispatch(p, intent)
	}
	g.disconnect(p)
}

// dispatch routes one decoded intent. The switch is exhaustive over the
// Intent variants; a new event kind that reaches here without a case is a
// compile-time reminder in DecodeIntent and a silent drop nowhere.
func (g *Gateway) dispatch(p *peer, intent Intent) {
	switch in := intent.(type) {
	case *JoinIntent:
		g.handleJoin(p, in)
	case *DrawIntent:
		g.handleDraw(p, in)
	case *UndoIntent:
		g.handleUndo(p)
	case *RedoIntent:
		g.handleRedo(p)
	case *ClearIntent:
		g.handleClear(p)
	case *CursorIntent:
		g.handleCursor(p, in)
	case *ToolIntent:
		g.handleTool(p, in)
	case *StatsIntent:
		g.handleStats(p)
	}
}

// lockSession returns the peer session for roomID with its mutex held,
// creating the session if needed. The session lock is acquired while the
// gateway lock is still held, so dropSessionIfEmpty can never remove a
// session between a caller obtaining it and registering a peer in it: the
// drop would block on the session lock and then see the new peer.
func (g *Gateway) lockSession(roomID string) *session {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess, ok := g.sessions[roomID]
	if !ok {
		sess = &session{peers: make(map[string]*peer)}
		g.sessions[roomID] = sess
	}
	sess.mu.Lock()
	return sess
}

// dropSessionIfEmpty removes the session from the map unless a peer joined
// it in the meantime. Lock order is gateway then session, matching
// lockSession.
func (g *Gateway) dropSessionIfEmpty(roomID string, sess *session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.peers) == 0 && g.sessions[roomID] == sess {
		delete(g.sessions, roomID)
	}
}

// broadcastLocked enqueues frame to every peer in sess except the id in
// skip (empty skip sends to everyone). Callers hold sess.mu.
func (sess *session) broadcastLocked(frame []byte, skip string) {
	for id, p := range sess.peers {
		if id == skip {
			continue
		}
		p.enqueue(frame)
	}
}

func (g *Gateway) handleJoin(p *peer, in *JoinIntent) {
	if p.user != nil {
		p.log.Warn("join-room on already-joined connection ignored", "room", in.RoomID)
		return
	}
	if in.RoomID == "" {
		p.log.Debug("join-room without room id ignored")
		return
	}
	name := in.UserName
	if name == "" {
		name = "anonymous"
	}

	sess := g.lockSession(in.RoomID)
	defer sess.mu.Unlock()

	room, user := g.registry.Join(in.RoomID, p.id, name)
	p.room = room
	p.user = user
	sess.peers[p.id] = p

	members := room.Members()

	// The snapshot goes to the joiner only; everyone else learns about the
	// membership change.
	p.enqueue(encodeEvent(EventInitCanvas, InitCanvasEvent{
		User:  user,
		State: room.Snapshot(),
		Users: members,
	}))
	sess.broadcastLocked(encodeEvent(EventUserJoined, UserJoinedEvent{
		User:  user,
		Users: members,
	}), p.id)
}

func (g *Gateway) handleDraw(p *peer, in *DrawIntent) {
	if p.user == nil {
		return
	}
	sess := g.lockSession(p.room.ID)
	defer sess.mu.Unlock()

	op := p.room.AppendStroke(p.user, in.StrokePayload)

	// Everyone gets the authoritative echo, the sender included: its local
	// optimistic rendering is not the system of record.
	sess.broadcastLocked(encodeEvent(EventDrawStroke, op), "")
}

func (g *Gateway) handleUndo(p *peer) {
	if p.user == nil {
		return
	}
	sess := g.lockSession(p.room.ID)
	defer sess.mu.Unlock()

	id, ok := p.room.Undo()
	if !ok {
		// Nothing eligible: silent no-op, not an error.
		return
	}
	sess.broadcastLocked(encodeEvent(EventUndo, UndoneEvent{OperationID: id}), "")
}

func (g *Gateway) handleRedo(p *peer) {
	if p.user == nil {
		return
	}
	sess := g.lockSession(p.room.ID)
	defer sess.mu.Unlock()

	id, ok := p.room.Redo()
	if !ok {
		return
	}
	sess.broadcastLocked(encodeEvent(EventRedo, UndoneEvent{OperationID: id}), "")
}

func (g *Gateway) handleClear(p *peer) {
	if p.user == nil {
		return
	}
	sess := g.lockSession(p.room.ID)
	defer sess.mu.Unlock()

	op := p.room.AppendClear(p.user)
	sess.broadcastLocked(encodeEvent(EventClearCanvas, op), "")
}

func (g *Gateway) handleCursor(p *peer, in *CursorIntent) {
	if p.user == nil {
		return
	}
	sess := g.lockSession(p.room.ID)
	defer sess.mu.Unlock()

	pos := board.Point{X: in.X, Y: in.Y}
	g.registry.UpdateCursor(p.room.ID, p.id, pos)
	sess.broadcastLocked(encodeEvent(EventCursorMove, CursorEvent{
		UserID:   p.user.ID,
		UserName: p.user.Name,
		Color:    p.user.Color,
		Cursor:   pos,
	}), p.id)
}

func (g *Gateway) handleTool(p *peer, in *ToolIntent) {
	if p.user == nil {
		return
	}
	sess := g.lockSession(p.room.ID)
	defer sess.mu.Unlock()

	// Presence only: nothing is appended to the log.
	sess.broadcastLocked(encodeEvent(EventUserToolChange, ToolChangeEvent{
		UserID:   p.user.ID,
		UserName: p.user.Name,
		Tool:     in.Tool,
	}), p.id)
}

func (g *Gateway) handleStats(p *peer) {
	if p.user == nil {
		return
	}
	stats, ok := g.registry.Stats(p.room.ID)
	if !ok {
		return
	}
	p.enqueue(encodeEvent(EventRoomStats, stats))
}

// disconnect runs when a peer's read loop ends for any reason. It removes
// the peer from its room, announces the departure, and releases the writer.
func (g *Gateway) disconnect(p *peer) {
	if p.user == nil {
		close(p.send)
		return
	}

	roomID := p.room.ID
	sess := g.lockSession(roomID)
	delete(sess.peers, p.id)

	if user, ok := g.registry.Leave(roomID, p.id); ok {
		members, _ := g.membersOf(roomID)
		sess.broadcastLocked(encodeEvent(EventUserLeft, UserLeftEvent{
			UserID:   user.ID,
			UserName: user.Name,
			Users:    members,
		}), "")
	}
	sess.mu.Unlock()

	// Safe: the peer is out of the session, so no further broadcast can
	// reach its queue.
	close(p.send)
	g.dropSessionIfEmpty(roomID, sess)
}

func (g *Gateway) membersOf(roomID string) ([]*rooms.User, bool) {
	room, ok := g.registry.Get(roomID)
	if !ok {
		return nil, false
	}
	return room.Members(), true
}

// healthResponse is the /health payload.
type healthResponse struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
	Uptime int64  `json:"uptime"`
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status: "ok",
		Rooms:  g.registry.Count(),
		Uptime: int64(time.Since(g.started).Seconds()),
	})
}

func (g *Gateway) handleRoomStats(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	stats, ok := g.registry.Stats(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
