// Package core implements the Trailhead persistence and synchronization
// engine: it owns the active database, the in-memory snapshot, and the
// pending-action queue, and keeps the three consistent through every
// mutation, flush, and database switch.
//
// ARCHITECTURE:
//
// Single-Writer State:
// All shared mutable state (mode, active name, snapshot, baseline, queue)
// lives in one Core struct behind one mutex. Every public operation is a
// read-modify-write of that state as a unit; there is no suspension point
// between reading the queue and committing the matching snapshot change, so
// the optimistic snapshot and the queue can never drift apart.
//
// Mutation Flow:
// 1. Submit records the action in the pending queue (with replacement
//    filtering) and applies it to the in-memory snapshot in the same
//    critical section.
// 2. A debounced flush folds the queued batch onto the persisted baseline
//    and writes the result as one transaction.
// 3. On success exactly that batch is dropped from the queue and the folded
//    state becomes the new baseline. On failure the queue is untouched and
//    the core degrades; the queue remains the single source of truth for
//    what must eventually be persisted.
//
// State Machine (process lifetime):
//
//	LOADING -> HEALTHY | VOLATILE
//	HEALTHY <-> DEGRADED   (flush failure / recovery)
//	HEALTHY | DEGRADED <-> VOLATILE  (explicit switch, or fallback when no
//	                                  database can be opened)
//
// There is no terminal state; ResetAll deletes every database and returns
// to LOADING against an empty registry.
//
// Status values (loading/success/error/info) are transient notifications
// for the UI layer. They are never part of durable state.
package core
