package gateway

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/amiralam198/real-time-collaborative-canvas/rooms"
)

const (
	// writeWait bounds a single frame write to a peer.
	writeWait = 10 * time.Second

	// sendQueueSize is the per-peer outbound buffer. A peer that falls this
	// far behind starts missing events; delivery is best-effort.
	sendQueueSize = 256
)

// peer is one connected participant. Its lifecycle is a single transition:
// disconnected, joined to one room, disconnected. A reconnecting participant
// is a brand new peer.
type peer struct {
	id   string
	sock *websocket.Conn
	send chan []byte
	log  *slog.Logger

	// Set on join-room, read only by the peer's own reader goroutine and
	// under the session lock during fan-out.
	room *rooms.Room
	user *rooms.User
}

func newPeer(sock *websocket.Conn, log *slog.Logger) *peer {
	id := uuid.NewString()
	return &peer{
		id:   id,
		sock: sock,
		send: make(chan []byte, sendQueueSize),
		log:  log.With("conn", id),
	}
}

// writePump drains the send queue onto the socket. It exits when the queue
// is closed (orderly disconnect) or a write fails (severed connection).
func (p *peer) writePump() {
	defer p.sock.Close()

	for frame := range p.send {
		p.sock.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.sock.WriteMessage(websocket.TextMessage, frame); err != nil {
			p.log.Debug("peer write failed", "err", err)
			return
		}
	}

	p.sock.SetWriteDeadline(time.Now().Add(writeWait))
	p.sock.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// enqueue hands a frame to the peer's writer without blocking. Frames for a
// full queue are dropped; the authoritative state is unaffected and the peer
// catches up via a fresh snapshot on rejoin.
func (p *peer) enqueue(frame []byte) {
	if frame == nil {
		return
	}
	select {
	case p.send <- frame:
	default:
		p.log.Debug("peer send queue full, dropping event")
	}
}
