// Package gateway is the per-room authority that turns client intents into
// operation log mutations and fans the authoritative events back out.
//
// Each room's intents are handled strictly one at a time: a session mutex is
// held from decoding an intent through enqueueing its broadcast, so every
// mutation to a room's log or membership completes before the next intent
// for that room is processed. Different rooms proceed in parallel.
//
// Broadcast is best-effort. Every peer has a buffered outbound queue drained
// by its own writer goroutine; a slow or severed peer simply misses events
// and will receive the now-current full snapshot when it rejoins. There is
// no delta-sync path: reconnection is a fresh join-room.
//
// The gateway also serves the REST surface: /health and
// /api/rooms/{roomID}/stats.
package gateway
