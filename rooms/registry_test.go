package rooms

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiralam198/real-time-collaborative-canvas/board"
	"github.com/amiralam198/real-time-collaborative-canvas/testutil"
)

func newTestRegistry(t *testing.T, grace time.Duration) *Registry {
	t.Helper()
	return NewRegistry(&RegistryConfig{GracePeriod: grace})
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	a := reg.GetOrCreate("room-1")
	b := reg.GetOrCreate("room-1")
	require.Same(t, a, b)
	require.Equal(t, 1, reg.Count())
}

func TestJoinAssignsDistinctPaletteColors(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	seen := make(map[string]struct{})
	for i := 0; i < len(DefaultPalette); i++ {
		_, user := reg.Join("room-1", fmt.Sprintf("conn-%d", i), fmt.Sprintf("user-%d", i))
		_, dup := seen[user.Color]
		require.False(t, dup, "color %s assigned twice before exhaustion", user.Color)
		seen[user.Color] = struct{}{}
	}
}

// Joining more participants than palette entries must not error; the modulo
// fallback reuses palette entries and may collide with assigned colors.
func TestPaletteExhaustionFallsBackToModulo(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	for i := 0; i < len(DefaultPalette); i++ {
		reg.Join("room-1", fmt.Sprintf("conn-%d", i), "user")
	}

	_, overflow := reg.Join("room-1", "conn-overflow", "user")
	require.Equal(t, DefaultPalette[len(DefaultPalette)%len(DefaultPalette)], overflow.Color)
	require.Contains(t, DefaultPalette, overflow.Color)
}

func TestLeaveFreesColorForReuse(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	_, first := reg.Join("room-1", "conn-1", "alice")
	reg.Join("room-1", "conn-2", "bob")

	_, ok := reg.Leave("room-1", "conn-1")
	require.True(t, ok)

	_, next := reg.Join("room-1", "conn-3", "carol")
	require.Equal(t, first.Color, next.Color, "freed color is handed out first")
}

func TestRoomIsolation(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	roomX, userX := reg.Join("room-x", "conn-x", "alice")
	roomY, userY := reg.Join("room-y", "conn-y", "bob")

	roomX.AppendStroke(userX, testutil.Stroke())
	roomX.AppendStroke(userX, testutil.Stroke())
	roomY.AppendClear(userY)

	snapX := roomX.Snapshot()
	snapY := roomY.Snapshot()

	require.Len(t, snapX.Operations, 2)
	require.Len(t, snapY.Operations, 1)
	require.Equal(t, board.KindClear, snapY.Operations[0].Kind)
	// Ids are room-local: both rooms start counting at 0.
	require.Equal(t, int64(0), snapX.Operations[0].ID)
	require.Equal(t, int64(0), snapY.Operations[0].ID)
}

func TestMembersOrderedByJoinTime(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	room, _ := reg.Join("room-1", "conn-1", "alice")
	reg.Join("room-1", "conn-2", "bob")
	reg.Join("room-1", "conn-3", "carol")

	members := room.Members()
	require.Len(t, members, 3)
	assert.Equal(t, "alice", members[0].Name)
	assert.Equal(t, "bob", members[1].Name)
	assert.Equal(t, "carol", members[2].Name)
}

func TestEmptyRoomIsReapedAfterGracePeriod(t *testing.T) {
	reg := newTestRegistry(t, 20*time.Millisecond)

	reg.Join("room-1", "conn-1", "alice")
	_, ok := reg.Leave("room-1", "conn-1")
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, exists := reg.Get("room-1")
		return !exists
	}, time.Second, 5*time.Millisecond)
}

func TestRejoinDuringGracePeriodCancelsTeardown(t *testing.T) {
	reg := newTestRegistry(t, 50*time.Millisecond)

	room, userA := reg.Join("room-1", "conn-1", "alice")
	room.AppendStroke(userA, testutil.Stroke())

	_, ok := reg.Leave("room-1", "conn-1")
	require.True(t, ok)

	// Rejoin before the grace timer fires.
	rejoined, _ := reg.Join("room-1", "conn-2", "alice")
	require.Same(t, room, rejoined)

	time.Sleep(150 * time.Millisecond)
	kept, exists := reg.Get("room-1")
	require.True(t, exists, "rejoin must cancel the pending teardown")
	require.Len(t, kept.Snapshot().Operations, 1, "history survives the grace window")
}

func TestReapSkipsRoomWithMembers(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	room, _ := reg.Join("room-1", "conn-1", "alice")
	reg.reap("room-1")

	current, ok := reg.Get("room-1")
	require.True(t, ok, "an occupied room is never reaped")
	require.Same(t, room, current)
}

// Join and reap contend for the registry lock, so a member can never be
// registered into a room the registry has already forgotten: every
// successful Join leaves exactly one registered room holding the member.
// The short grace period keeps reap timers firing throughout the loop.
func TestJoinIsAtomicWithReap(t *testing.T) {
	reg := newTestRegistry(t, time.Millisecond)

	for i := 0; i < 200; i++ {
		room, user := reg.Join("room-1", "conn-1", "alice")
		require.NotNil(t, user)

		current, ok := reg.Get("room-1")
		require.True(t, ok, "member's room is registered")
		require.Same(t, room, current, "the joined room is the registry's room")
		require.Len(t, current.Members(), 1)

		_, ok = reg.Leave("room-1", "conn-1")
		require.True(t, ok)
		if i%20 == 0 {
			time.Sleep(2 * time.Millisecond)
		}
	}
}

func TestTeardownTimerArmedOnlyWhenEmpty(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	room, _ := reg.Join("room-1", "conn-1", "alice")
	reg.Join("room-1", "conn-2", "bob")

	_, ok := reg.Leave("room-1", "conn-1")
	require.True(t, ok)
	require.Nil(t, pendingTeardown(room), "no teardown while members remain")

	_, ok = reg.Leave("room-1", "conn-2")
	require.True(t, ok)
	require.NotNil(t, pendingTeardown(room), "teardown armed once the room empties")

	reg.Join("room-1", "conn-3", "carol")
	require.Nil(t, pendingTeardown(room), "rejoin cancels the armed teardown")
}

func pendingTeardown(room *Room) *time.Timer {
	room.mu.Lock()
	defer room.mu.Unlock()
	return room.teardown
}

func TestCursorUpdateIsLastWriteWins(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	room, _ := reg.Join("room-1", "conn-1", "alice")

	require.True(t, reg.UpdateCursor("room-1", "conn-1", board.Point{X: 1, Y: 2}))
	require.True(t, reg.UpdateCursor("room-1", "conn-1", board.Point{X: 9, Y: 8}))

	pos, ok := room.CursorOf("conn-1")
	require.True(t, ok)
	require.Equal(t, board.Point{X: 9, Y: 8}, pos)

	require.False(t, reg.UpdateCursor("room-1", "conn-404", board.Point{}))
	require.False(t, reg.UpdateCursor("room-404", "conn-1", board.Point{}))
}

func TestStatsReportsMembershipAndLog(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	room, user := reg.Join("room-1", "conn-1", "alice")
	reg.Join("room-1", "conn-2", "bob")
	room.AppendStroke(user, testutil.Stroke())
	room.AppendStroke(user, testutil.Stroke())
	room.Undo()

	stats, ok := reg.Stats("room-1")
	require.True(t, ok)
	assert.Equal(t, "room-1", stats.ID)
	assert.Equal(t, 2, stats.UserCount)
	assert.Len(t, stats.Users, 2)
	assert.Equal(t, 2, stats.Drawing.OperationCount)
	assert.Equal(t, 1, stats.Drawing.UndoneCount)
	assert.Equal(t, 1, stats.Drawing.VisibleCount)
	assert.NotZero(t, stats.CreatedAt)

	_, ok = reg.Stats("room-404")
	require.False(t, ok)
}

func TestLeaveUnknownMemberIsNoOp(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)
	reg.Join("room-1", "conn-1", "alice")

	_, ok := reg.Leave("room-1", "conn-404")
	require.False(t, ok)
	_, ok = reg.Leave("room-404", "conn-1")
	require.False(t, ok)
}
