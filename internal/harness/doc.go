// Package harness runs declarative scenarios against a real core.
//
// Scenarios are YAML files describing a sequence of operations (add an
// event, rename a tag, flush, switch databases) plus assertions on the
// final state. Each scenario runs in a fresh temp data directory with a
// frozen clock and sequential ids, so the recorded trace is deterministic
// and comparable against a golden file.
//
// # Scenario Format
//
//	name: tag_lifecycle
//	description: "tags survive a flush and transitive delete works"
//	database: default
//	steps:
//	  - op: add-tag
//	    name: alpha
//	  - op: add-event
//	    title: Trip
//	    tags: [alpha]
//	  - op: flush
//	assertions:
//	  - type: event_count
//	    count: 2
//	  - type: tag_present
//	    name: alpha
//
// # Operations
//
//   - add-event: title, description, tags, steps (descriptions)
//   - update-event: target (current title), title (new)
//   - delete-event: target (title)
//   - complete-step: target (title), index
//   - add-tag / delete-tags / rename-tag / reorder-tags
//   - create-db / switch (database, discard) / flush
//
// # Assertions
//
//   - event_count / pending_count: count
//   - event_title: index, want
//   - tag_present / tag_absent: name
//   - mode: want (healthy|volatile|degraded)
//
// After every step the runner records the visible event count, the tag
// sequence, the pending queue length, and the mode. That trace is the
// golden file content.
package harness
