package board

// Surface receives the result of folding a log into visible content.
// Consumers implement it over their actual rendering target; this package
// only defines the replay contract.
type Surface interface {
	// DrawStroke renders one visible stroke operation.
	DrawStroke(op Operation)
	// Reset discards everything drawn so far in the current fold pass.
	Reset()
}

// Fold replays ops in order against surface, skipping tombstoned entries.
//
// A visible stroke draws into the surface. A visible clear resets the
// surface: it is a reset marker within the log, not a deletion of prior
// entries, so if the clear itself is tombstoned later the earlier strokes
// reappear on the next fold. Tombstoned operations of either kind contribute
// nothing.
//
// Fold assumes ops are already in id order, which holds for any history or
// snapshot produced by a Log.
func Fold(ops []Operation, undone map[int64]struct{}, surface Surface) {
	surface.Reset()
	for _, op := range ops {
		if _, hidden := undone[op.ID]; hidden {
			continue
		}
		switch op.Kind {
		case KindStroke:
			surface.DrawStroke(op)
		case KindClear:
			surface.Reset()
		}
	}
}

// VisibleStrokes folds ops into a plain accumulator and returns the stroke
// operations that remain visible, in id order.
func VisibleStrokes(ops []Operation, undone map[int64]struct{}) []Operation {
	var acc strokeAccumulator
	Fold(ops, undone, &acc)
	return acc.strokes
}

// Fold replays the snapshot's visible content into surface.
func (s Snapshot) Fold(surface Surface) {
	Fold(s.Operations, s.UndoneSet(), surface)
}

// UndoneSet returns the snapshot's tombstoned ids as a set.
func (s Snapshot) UndoneSet() map[int64]struct{} {
	undone := make(map[int64]struct{}, len(s.UndoneOperations))
	for _, id := range s.UndoneOperations {
		undone[id] = struct{}{}
	}
	return undone
}

type strokeAccumulator struct {
	strokes []Operation
}

func (a *strokeAccumulator) DrawStroke(op Operation) {
	a.strokes = append(a.strokes, op)
}

func (a *strokeAccumulator) Reset() {
	a.strokes = a.strokes[:0]
}
