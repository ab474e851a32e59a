package replay

import (
	"sort"
	"sync"

	"github.com/amiralam198/real-time-collaborative-canvas/board"
)

// Engine applies authoritative events to a consumer-provided surface. It is
// safe for concurrent use, though a single connection normally feeds it from
// one goroutine.
type Engine struct {
	surface board.Surface

	mu      sync.Mutex
	ops     []board.Operation // id order
	applied map[int64]struct{}
	undone  map[int64]struct{}
}

// NewEngine creates an engine folding into surface.
func NewEngine(surface board.Surface) *Engine {
	return &Engine{
		surface: surface,
		applied: make(map[int64]struct{}),
		undone:  make(map[int64]struct{}),
	}
}

// ApplyOperation records one authoritative operation. Duplicates (by id) are
// ignored silently and return false.
//
// An accepted operation empties the local tombstone set, matching the
// authority's append rule. The common case of an in-order arrival with no
// tombstones folds incrementally; anything else triggers a full refold.
func (e *Engine) ApplyOperation(op board.Operation) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, dup := e.applied[op.ID]; dup {
		return false
	}
	e.applied[op.ID] = struct{}{}

	inOrder := len(e.ops) == 0 || e.ops[len(e.ops)-1].ID < op.ID
	if inOrder {
		e.ops = append(e.ops, op)
	} else {
		at := sort.Search(len(e.ops), func(i int) bool { return e.ops[i].ID > op.ID })
		e.ops = append(e.ops, board.Operation{})
		copy(e.ops[at+1:], e.ops[at:])
		e.ops[at] = op
	}

	if len(e.undone) > 0 {
		clear(e.undone)
		e.refoldLocked()
		return true
	}
	if !inOrder {
		e.refoldLocked()
		return true
	}

	switch op.Kind {
	case board.KindStroke:
		e.surface.DrawStroke(op)
	case board.KindClear:
		e.surface.Reset()
	}
	return true
}

// ApplyUndo tombstones id locally and refolds from the beginning of history.
func (e *Engine) ApplyUndo(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.undone[id] = struct{}{}
	e.refoldLocked()
}

// ApplyRedo removes id from the local tombstone set and refolds.
func (e *Engine) ApplyRedo(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.undone, id)
	e.refoldLocked()
}

// InitializeFromSnapshot replaces local history and tombstones wholesale and
// performs one full fold. This is the reconnection path: no delta sync, just
// the authority's current truth.
func (e *Engine) InitializeFromSnapshot(snap board.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ops = make([]board.Operation, len(snap.Operations))
	copy(e.ops, snap.Operations)

	e.applied = make(map[int64]struct{}, len(e.ops))
	for _, op := range e.ops {
		e.applied[op.ID] = struct{}{}
	}
	e.undone = snap.UndoneSet()
	e.refoldLocked()
}

// History returns a copy of the applied operations in id order.
func (e *Engine) History() []board.Operation {
	e.mu.Lock()
	defer e.mu.Unlock()
	ops := make([]board.Operation, len(e.ops))
	copy(ops, e.ops)
	return ops
}

// Visible returns the stroke operations currently visible.
func (e *Engine) Visible() []board.Operation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return board.VisibleStrokes(e.ops, e.undone)
}

func (e *Engine) refoldLocked() {
	board.Fold(e.ops, e.undone, e.surface)
}
