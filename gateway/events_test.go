package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiralam198/real-time-collaborative-canvas/board"
)

func TestDecodeJoinIntent(t *testing.T) {
	intent, err := DecodeIntent([]byte(`{"type":"join-room","data":{"roomId":"r1","userName":"alice"}}`))
	require.NoError(t, err)

	join, ok := intent.(*JoinIntent)
	require.True(t, ok)
	assert.Equal(t, "r1", join.RoomID)
	assert.Equal(t, "alice", join.UserName)
}

func TestDecodeDrawIntent(t *testing.T) {
	frame := []byte(`{"type":"draw-stroke","data":{"points":[{"x":1,"y":2},{"x":3,"y":4}],"color":"#ff0000","size":5,"tool":"erase"}}`)
	intent, err := DecodeIntent(frame)
	require.NoError(t, err)

	draw, ok := intent.(*DrawIntent)
	require.True(t, ok)
	assert.Equal(t, []board.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}, draw.Points)
	assert.Equal(t, "#ff0000", draw.Color)
	assert.Equal(t, float64(5), draw.Size)
	assert.Equal(t, board.ToolErase, draw.Tool)
}

func TestDecodePayloadlessIntents(t *testing.T) {
	for frame, want := range map[string]Intent{
		`{"type":"undo"}`:         &UndoIntent{},
		`{"type":"redo"}`:         &RedoIntent{},
		`{"type":"clear-canvas"}`: &ClearIntent{},
		`{"type":"room-stats"}`:   &StatsIntent{},
	} {
		intent, err := DecodeIntent([]byte(frame))
		require.NoError(t, err, frame)
		assert.IsType(t, want, intent, frame)
	}
}

func TestDecodeCursorAndToolIntents(t *testing.T) {
	intent, err := DecodeIntent([]byte(`{"type":"cursor-move","data":{"x":12.5,"y":-3}}`))
	require.NoError(t, err)
	cursor := intent.(*CursorIntent)
	assert.Equal(t, 12.5, cursor.X)
	assert.Equal(t, -3.0, cursor.Y)

	intent, err = DecodeIntent([]byte(`{"type":"tool-change","data":{"tool":"draw"}}`))
	require.NoError(t, err)
	tool := intent.(*ToolIntent)
	assert.Equal(t, board.ToolDraw, tool.Tool)
}

func TestDecodeRejectsUnknownAndServerOnlyTypes(t *testing.T) {
	_, err := DecodeIntent([]byte(`{"type":"shape-insert","data":{}}`))
	require.Error(t, err)

	_, err = DecodeIntent([]byte(`{"type":"init-canvas","data":{}}`))
	require.Error(t, err, "server-to-client events are not client intents")

	_, err = DecodeIntent([]byte(`not json`))
	require.Error(t, err)

	_, err = DecodeIntent([]byte(`{"type":"join-room","data":"not an object"}`))
	require.Error(t, err)
}

func TestEncodeEventRoundTrip(t *testing.T) {
	frame := encodeEvent(EventUndo, UndoneEvent{OperationID: 42})
	require.NotNil(t, frame)
	assert.JSONEq(t, `{"type":"undo","data":{"operationId":42}}`, string(frame))
}
