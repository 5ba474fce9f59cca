// Package action defines the pending-action log: deferred mutations that
// could not be persisted immediately and the deterministic fold that applies
// them to a base snapshot.
//
// ARCHITECTURE:
//
// Every mutation is expressed as one Action value. Actions accumulate in a
// Queue in submission order. The effective in-memory state is always
//
//	Apply(persisted baseline, queued actions)
//
// which makes the queue the single source of truth for "what must eventually
// be persisted": the sync engine folds and writes, and only after a confirmed
// write does it drop exactly the batch it flushed.
//
// CRITICAL PATTERNS:
//
// Deterministic Fold:
// Apply is a pure function. It clones its base, applies actions strictly in
// order, and never touches storage or the clock. Replaying the same sequence
// against the same base always yields the same result, so the queue can be
// replayed against a different database's snapshot during a merge.
//
// Exhaustive Dispatch:
// Apply type-switches over every concrete action. An action kind without a
// case is a programming error and panics immediately rather than being
// silently dropped.
package action
