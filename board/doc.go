// Package board implements the per-room ordered operation log that is the
// system of record for a collaborative canvas.
//
// The log is an append-only history of operations (strokes and clears) plus
// a tombstone set of operation ids that are currently undone. Operations are
// never removed or reordered once appended; undo and redo only toggle
// tombstone membership. The visible content of a canvas is a pure function
// of (history, tombstone set), reconstructed by folding the history in id
// order against a Surface.
//
// A Log carries no locking of its own. All access to a single log is
// serialized by its owner (the room), which is the design's substitute for
// per-operation synchronization: total order across concurrent submissions
// falls out of funnelling every mutation through one serialization point.
package board
