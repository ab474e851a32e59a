package testutil

import (
	"fmt"

	"github.com/amiralam198/real-time-collaborative-canvas/board"
)

// StrokeOption customizes a generated stroke payload.
type StrokeOption func(*board.StrokePayload)

// WithColor sets the stroke color.
func WithColor(color string) StrokeOption {
	return func(p *board.StrokePayload) { p.Color = color }
}

// WithSize sets the stroke width.
func WithSize(size float64) StrokeOption {
	return func(p *board.StrokePayload) { p.Size = size }
}

// WithTool sets the stroke tool.
func WithTool(tool board.Tool) StrokeOption {
	return func(p *board.StrokePayload) { p.Tool = tool }
}

// WithPoints replaces the stroke path with n generated points.
func WithPoints(n int) StrokeOption {
	return func(p *board.StrokePayload) {
		points := make([]board.Point, n)
		for i := range points {
			points[i] = board.Point{X: float64(10 * i), Y: float64(10*i + 5)}
		}
		p.Points = points
	}
}

// Stroke generates a stroke payload with sensible defaults.
func Stroke(opts ...StrokeOption) board.StrokePayload {
	payload := board.StrokePayload{
		Points: []board.Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 15}},
		Color:  "#1f2937",
		Size:   3,
		Tool:   board.ToolDraw,
	}
	for _, opt := range opts {
		opt(&payload)
	}
	return payload
}

// PopulatedLog returns a log with n stroke operations appended by a single
// test author, each with a distinct color.
func PopulatedLog(n int) *board.Log {
	log := board.NewLog()
	for i := 0; i < n; i++ {
		log.Append(board.KindStroke, "author-1", "Test Author",
			Stroke(WithColor(fmt.Sprintf("#%06x", i+1))))
	}
	return log
}

// RecordingSurface captures fold output for assertions. The zero value is
// ready to use.
type RecordingSurface struct {
	Strokes []board.Operation
	Resets  int
}

// DrawStroke records a visible stroke.
func (s *RecordingSurface) DrawStroke(op board.Operation) {
	s.Strokes = append(s.Strokes, op)
}

// Reset discards the accumulated strokes and counts the reset.
func (s *RecordingSurface) Reset() {
	s.Strokes = s.Strokes[:0]
	s.Resets++
}

// StrokeIDs returns the ids of the recorded strokes in order.
func (s *RecordingSurface) StrokeIDs() []int64 {
	ids := make([]int64, len(s.Strokes))
	for i, op := range s.Strokes {
		ids[i] = op.ID
	}
	return ids
}
