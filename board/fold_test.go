package board_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amiralam198/real-time-collaborative-canvas/board"
	"github.com/amiralam198/real-time-collaborative-canvas/testutil"
)

// A clear is a fold reset marker, not a deletion: tombstoning the clear via
// undo brings the earlier strokes back.
func TestClearResetsFoldNotHistory(t *testing.T) {
	log := board.NewLog()
	log.Append(board.KindStroke, "u1", "Alice", testutil.Stroke())        // id 0
	log.Append(board.KindClear, "u1", "Alice", board.StrokePayload{})     // id 1

	var surface testutil.RecordingSurface
	log.Fold(&surface)
	require.Empty(t, surface.Strokes, "visible clear wipes the accumulator")
	require.Equal(t, 2, log.Len(), "the stroke is still recorded")

	id, ok := log.Undo() // tombstones the clear
	require.True(t, ok)
	require.Equal(t, int64(1), id)

	log.Fold(&surface)
	require.Equal(t, []int64{0}, surface.StrokeIDs(), "stroke reappears once the clear is hidden")
}

func TestFoldSkipsTombstonedStrokes(t *testing.T) {
	log := testutil.PopulatedLog(3)
	_, ok := log.Undo() // tombstones 2
	require.True(t, ok)

	var surface testutil.RecordingSurface
	log.Fold(&surface)
	require.Equal(t, []int64{0, 1}, surface.StrokeIDs())
}

func TestFoldPassesEraseStrokesThrough(t *testing.T) {
	// The fold does not interpret tools; an erase stroke is visible content
	// like any other and reaches the surface unchanged.
	log := board.NewLog()
	log.Append(board.KindStroke, "u1", "Alice", testutil.Stroke(testutil.WithTool(board.ToolErase)))

	var surface testutil.RecordingSurface
	log.Fold(&surface)
	require.Len(t, surface.Strokes, 1)
	require.Equal(t, board.ToolErase, surface.Strokes[0].Tool)
}

func TestVisibleStrokesAfterInterleavedClears(t *testing.T) {
	log := board.NewLog()
	log.Append(board.KindStroke, "u1", "Alice", testutil.Stroke())    // id 0
	log.Append(board.KindClear, "u2", "Bob", board.StrokePayload{})   // id 1
	log.Append(board.KindStroke, "u2", "Bob", testutil.Stroke())      // id 2
	log.Append(board.KindStroke, "u1", "Alice", testutil.Stroke())    // id 3

	visible := log.Visible()
	ids := make([]int64, len(visible))
	for i, op := range visible {
		ids[i] = op.ID
	}
	require.Equal(t, []int64{2, 3}, ids, "only strokes after the visible clear remain")
}

func TestSnapshotUndoneSet(t *testing.T) {
	snap := board.Snapshot{UndoneOperations: []int64{3, 7}}
	set := snap.UndoneSet()
	require.Len(t, set, 2)
	_, ok := set[3]
	require.True(t, ok)
	_, ok = set[7]
	require.True(t, ok)
}
