// Command canvas-cli is a terminal client for a canvas server.
//
// # Commands
//
// watch: join a room and stream authoritative events through the replay
// engine, printing the visible stroke count as it evolves.
//
//	canvas-cli watch --server=ws://localhost:8080 --room=demo --name=observer
//
// draw: join a room, submit one stroke, and wait for the authoritative echo.
//
//	canvas-cli draw --server=ws://localhost:8080 --room=demo --color="#ff0000"
//
// undo | redo | clear: join a room and submit the corresponding intent.
//
// status: print a room's stats from the REST surface.
//
//	canvas-cli status --server=http://localhost:8080 --room=demo
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/amiralam198/real-time-collaborative-canvas/board"
	"github.com/amiralam198/real-time-collaborative-canvas/gateway"
	"github.com/amiralam198/real-time-collaborative-canvas/replay"
	"github.com/amiralam198/real-time-collaborative-canvas/rooms"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]

	flags := flag.NewFlagSet(cmd, flag.ExitOnError)
	server := flags.String("server", "ws://localhost:8080", "Server URL (ws:// for room commands, http:// for status)")
	room := flags.String("room", "demo", "Room id")
	name := flags.String("name", "canvas-cli", "Display name")
	color := flags.String("color", "#1f2937", "Stroke color (draw)")
	size := flags.Float64("size", 3, "Stroke width (draw)")
	flags.Parse(os.Args[2:])

	var err error
	switch cmd {
	case "watch":
		err = watch(*server, *room, *name)
	case "draw":
		err = draw(*server, *room, *name, *color, *size)
	case "undo", "redo", "clear":
		err = submit(*server, *room, *name, cmd)
	case "status":
		err = status(*server, *room)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: canvas-cli <watch|draw|undo|redo|clear|status> [flags]")
}

// session is one joined connection plus the replay engine tracking it.
type session struct {
	sock   *websocket.Conn
	engine *replay.Engine
	user   *rooms.User
}

// printSurface logs fold activity instead of rendering pixels.
type printSurface struct {
	strokes int
}

func (s *printSurface) DrawStroke(board.Operation) { s.strokes++ }
func (s *printSurface) Reset()                     { s.strokes = 0 }

func connect(server, room, name string, surface board.Surface) (*session, error) {
	sock, _, err := websocket.DefaultDialer.Dial(strings.TrimSuffix(server, "/")+"/ws", nil)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", server, err)
	}

	if err := writeIntent(sock, gateway.EventJoinRoom, gateway.JoinIntent{RoomID: room, UserName: name}); err != nil {
		sock.Close()
		return nil, err
	}

	s := &session{sock: sock, engine: replay.NewEngine(surface)}

	// The first relevant frame is the init-canvas snapshot.
	for {
		env, err := readEvent(sock, 10*time.Second)
		if err != nil {
			sock.Close()
			return nil, err
		}
		if env.Type != gateway.EventInitCanvas {
			continue
		}
		var init gateway.InitCanvasEvent
		if err := json.Unmarshal(env.Data, &init); err != nil {
			sock.Close()
			return nil, fmt.Errorf("bad init-canvas payload: %w", err)
		}
		s.user = init.User
		s.engine.InitializeFromSnapshot(init.State)
		fmt.Printf("Joined room %q as %s (color %s), %d operations in history\n",
			room, init.User.Name, init.User.Color, len(init.State.Operations))
		return s, nil
	}
}

// apply feeds one server event into the replay engine. Unhandled event types
// are presence noise for this client.
func (s *session) apply(env gateway.Envelope) error {
	switch env.Type {
	case gateway.EventDrawStroke, gateway.EventClearCanvas:
		var op board.Operation
		if err := json.Unmarshal(env.Data, &op); err != nil {
			return fmt.Errorf("bad %s payload: %w", env.Type, err)
		}
		s.engine.ApplyOperation(op)
	case gateway.EventUndo:
		var ev gateway.UndoneEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("bad undo payload: %w", err)
		}
		s.engine.ApplyUndo(ev.OperationID)
	case gateway.EventRedo:
		var ev gateway.UndoneEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("bad redo payload: %w", err)
		}
		s.engine.ApplyRedo(ev.OperationID)
	}
	return nil
}

func watch(server, room, name string) error {
	surface := &printSurface{}
	s, err := connect(server, room, name, surface)
	if err != nil {
		return err
	}
	defer s.sock.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		s.sock.Close()
	}()

	fmt.Printf("Watching (%d strokes visible). Ctrl-C to stop.\n", len(s.engine.Visible()))
	for {
		env, err := readEvent(s.sock, 0)
		if err != nil {
			return nil // connection closed
		}
		if err := s.apply(env); err != nil {
			fmt.Fprintf(os.Stderr, "skipping event: %v\n", err)
			continue
		}
		fmt.Printf("%-16s visible strokes: %d\n", env.Type, len(s.engine.Visible()))
	}
}

func draw(server, room, name, color string, size float64) error {
	s, err := connect(server, room, name, &printSurface{})
	if err != nil {
		return err
	}
	defer s.sock.Close()

	stroke := board.StrokePayload{
		Points: []board.Point{{X: 10, Y: 10}, {X: 60, Y: 40}, {X: 110, Y: 30}},
		Color:  color,
		Size:   size,
		Tool:   board.ToolDraw,
	}
	if err := writeIntent(s.sock, gateway.EventDrawStroke, stroke); err != nil {
		return err
	}

	// Wait for the authoritative echo; that is the proof of record.
	for {
		env, err := readEvent(s.sock, 10*time.Second)
		if err != nil {
			return err
		}
		if env.Type != gateway.EventDrawStroke {
			continue
		}
		var op board.Operation
		if err := json.Unmarshal(env.Data, &op); err != nil {
			return err
		}
		if op.AuthorID == s.user.ID {
			fmt.Printf("Stroke recorded as operation %d at %d\n", op.ID, op.Timestamp)
			return nil
		}
	}
}

func submit(server, room, name, cmd string) error {
	s, err := connect(server, room, name, &printSurface{})
	if err != nil {
		return err
	}
	defer s.sock.Close()

	var eventType gateway.EventType
	switch cmd {
	case "undo":
		eventType = gateway.EventUndo
	case "redo":
		eventType = gateway.EventRedo
	case "clear":
		eventType = gateway.EventClearCanvas
	}
	if err := writeIntent(s.sock, eventType, nil); err != nil {
		return err
	}

	// Undo/redo with nothing eligible is a silent no-op on the server, so
	// give the broadcast a moment rather than waiting forever.
	env, err := readEvent(s.sock, 2*time.Second)
	if err != nil {
		fmt.Println("No event received (nothing to act on?)")
		return nil
	}
	fmt.Printf("Server broadcast %s: %s\n", env.Type, string(env.Data))
	return nil
}

func status(server, room string) error {
	url := fmt.Sprintf("%s/api/rooms/%s/stats", strings.TrimSuffix(server, "/"), room)
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("room %q not found", room)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stats request failed: %s", resp.Status)
	}

	var stats rooms.RoomStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return err
	}
	fmt.Printf("Room %s: %d users, %d operations (%d visible, %d undone)\n",
		stats.ID, stats.UserCount, stats.Drawing.OperationCount,
		stats.Drawing.VisibleCount, stats.Drawing.UndoneCount)
	for _, u := range stats.Users {
		fmt.Printf("  %s  %s  %s\n", u.ID, u.Color, u.Name)
	}
	return nil
}

func writeIntent(sock *websocket.Conn, eventType gateway.EventType, data any) error {
	env := gateway.Envelope{Type: eventType}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		env.Data = raw
	}
	sock.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return sock.WriteJSON(env)
}

func readEvent(sock *websocket.Conn, timeout time.Duration) (gateway.Envelope, error) {
	if timeout > 0 {
		sock.SetReadDeadline(time.Now().Add(timeout))
	} else {
		sock.SetReadDeadline(time.Time{})
	}
	var env gateway.Envelope
	_, frame, err := sock.ReadMessage()
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(frame, &env); err != nil {
		return env, fmt.Errorf("malformed frame: %w", err)
	}
	return env, nil
}
