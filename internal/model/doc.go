// Package model defines the Trailhead domain types: events with ordered
// progress steps, reusable step templates, tags, and the per-database
// snapshot that groups them.
//
// A Snapshot is the unit the persistence core operates on. Exactly one
// snapshot is held in memory at a time (the active database); all others
// are dormant in their backing stores.
//
// INVARIANTS:
//
//   - Every tag name referenced by an event exists in the snapshot's tag
//     collection. The pending-action fold maintains this; consumers never
//     have to repair it.
//   - Tag names are NFC-normalized before any uniqueness check. Two strings
//     that normalize to the same form are the same tag.
//   - All timestamps handed to consumers are live time.Time values. The
//     store layer serializes to RFC 3339 and the loader revives on read.
package model
