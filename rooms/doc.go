// Package rooms manages room lifecycle, membership, and identity assignment.
//
// The Registry is the only place multiple rooms are visible at once; it needs
// nothing stronger than concurrency-safe insert, lookup, and remove. Each
// Room owns one operation log and one membership table behind a single
// mutex: that mutex is the per-room serialization point through which every
// mutation passes, giving concurrent submissions a total order without
// distributed coordination.
//
// Rooms are created lazily on first join and torn down after a grace period
// once membership reaches zero. The teardown re-validates membership when
// the timer fires, so a member rejoining during the grace period keeps the
// room (and its history) alive.
package rooms
