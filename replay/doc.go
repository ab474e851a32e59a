// Package replay reconstructs visible canvas content on the participant
// side from the authoritative event stream and full-state snapshots.
//
// The engine is idempotent and order-tolerant: a re-delivered operation is
// recognized by id and ignored, and an operation arriving late is inserted
// at its id position before refolding. Undo and redo toggle local tombstone
// membership and refold the whole history; both are rare relative to draw
// traffic, so the full refold is the simple and sufficient choice.
//
// The engine mirrors the authority's append rule: a newly recorded operation
// empties the local tombstone set, resurrecting previously undone content
// exactly as the server-side log does. Without that mirror, a participant
// that saw undo events before a new stroke would diverge from one that
// joined afterwards.
package replay
