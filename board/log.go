package board

import (
	"sort"
	"time"
)

// Log is the per-room operation history plus its tombstone set.
//
// A Log is not safe for concurrent use. The owning room serializes every
// mutation and read; see the package comment.
type Log struct {
	ops    []Operation
	undone map[int64]struct{}
	nextID int64
}

// NewLog returns an empty log whose first appended operation gets id 0.
func NewLog() *Log {
	return &Log{undone: make(map[int64]struct{})}
}

// Append assigns the next id and the authoritative timestamp, stores the
// operation, and returns it.
//
// Appending clears the entire tombstone set. This is what invalidates the
// redo stack after new drawing, and because the tombstone set doubles as
// "hidden" state it also un-hides every previously undone operation. A new
// stroke therefore resurrects all prior undone content; this is intended
// behavior, not a bug.
func (l *Log) Append(kind Kind, authorID, authorName string, stroke StrokePayload) Operation {
	op := Operation{
		ID:            l.nextID,
		Kind:          kind,
		AuthorID:      authorID,
		AuthorName:    authorName,
		StrokePayload: stroke,
		Timestamp:     time.Now().UnixMilli(),
	}
	l.nextID++
	l.ops = append(l.ops, op)
	clear(l.undone)
	return op
}

// Undo tombstones the most recently appended operation that is not already
// tombstoned and returns its id. It returns false when every operation is
// already tombstoned or the log is empty; that is a no-op, not a failure.
func (l *Log) Undo() (int64, bool) {
	for i := len(l.ops) - 1; i >= 0; i-- {
		id := l.ops[i].ID
		if _, hidden := l.undone[id]; !hidden {
			l.undone[id] = struct{}{}
			return id, true
		}
	}
	return 0, false
}

// Redo removes the maximum id currently in the tombstone set and returns it,
// or false if the set is empty.
//
// Redo picks by id value, not by undo call order. The two coincide under
// sequential undo usage; they can diverge only in histories where appends
// intervened, and an append empties the set anyway.
func (l *Log) Redo() (int64, bool) {
	max := int64(-1)
	for id := range l.undone {
		if id > max {
			max = id
		}
	}
	if max < 0 {
		return 0, false
	}
	delete(l.undone, max)
	return max, true
}

// Snapshot returns a copy of the full log state. The returned snapshot does
// not alias the log's internal storage and stays valid across later appends.
func (l *Log) Snapshot() Snapshot {
	ops := make([]Operation, len(l.ops))
	copy(ops, l.ops)

	undone := make([]int64, 0, len(l.undone))
	for id := range l.undone {
		undone = append(undone, id)
	}
	sort.Slice(undone, func(i, j int) bool { return undone[i] < undone[j] })

	return Snapshot{
		Operations:       ops,
		UndoneOperations: undone,
		OperationCounter: l.nextID,
	}
}

// Len returns the number of recorded operations, tombstoned or not.
func (l *Log) Len() int {
	return len(l.ops)
}

// Fold replays the log's visible content into surface.
func (l *Log) Fold(surface Surface) {
	Fold(l.ops, l.undone, surface)
}

// Visible returns the stroke operations that survive the current fold.
func (l *Log) Visible() []Operation {
	return VisibleStrokes(l.ops, l.undone)
}

// Stats summarizes the log.
func (l *Log) Stats() Stats {
	strokes := 0
	for _, op := range l.ops {
		if op.Kind == KindStroke {
			strokes++
		}
	}
	return Stats{
		OperationCount: len(l.ops),
		StrokeCount:    strokes,
		UndoneCount:    len(l.undone),
		VisibleCount:   len(l.Visible()),
	}
}
