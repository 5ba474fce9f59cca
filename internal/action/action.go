package action

import "github.com/trailhead-app/trailhead/internal/model"

// Kind identifies the concrete type of an Action.
type Kind string

const (
	KindAddEvent         Kind = "add-event"
	KindUpdateEvent      Kind = "update-event"
	KindDeleteEvent      Kind = "delete-event"
	KindUpdateEventSteps Kind = "update-event-steps"
	KindAddTag           Kind = "add-tag"
	KindDeleteTags       Kind = "delete-tags"
	KindRenameTag        Kind = "rename-tag"
	KindReorderTags      Kind = "reorder-tags"
)

// Action is one deferred mutation. Implementations are plain values; the
// fold in Apply dispatches on the concrete type.
type Action interface {
	Kind() Kind
}

// AddEvent inserts a new event at the front of the event list.
// Idempotent: replaying against a base that already holds the id is a no-op.
type AddEvent struct {
	Event model.Event

	// ImageData, when set, is the original image blob to persist in the
	// images side collection keyed by the event id.
	ImageData []byte
}

// UpdateEvent replaces the event with the matching id in place.
// No-op if the id is absent.
type UpdateEvent struct {
	Event model.Event

	// ImageData replaces the stored original image blob.
	ImageData []byte
	// RemoveImage deletes the stored original image blob.
	RemoveImage bool
}

// DeleteEvent removes the event (and its image blob) by id.
type DeleteEvent struct {
	EventID string
}

// UpdateEventSteps replaces only the steps of the matching event.
type UpdateEventSteps struct {
	EventID string
	Steps   []model.ProgressStep
}

// AddTag appends a tag if not already present (set semantics).
type AddTag struct {
	Name string
}

// DeleteTags removes the named tags from the tag collection and strips them
// from every event's tag set in the same pass.
type DeleteTags struct {
	Names []string
}

// RenameTag rewrites the tag collection and every event's tag set,
// replacing Old with New.
type RenameTag struct {
	Old string
	New string
}

// ReorderTags replaces the entire tag sequence with the given order.
// Last writer wins.
type ReorderTags struct {
	Names []string
}

func (AddEvent) Kind() Kind         { return KindAddEvent }
func (UpdateEvent) Kind() Kind      { return KindUpdateEvent }
func (DeleteEvent) Kind() Kind      { return KindDeleteEvent }
func (UpdateEventSteps) Kind() Kind { return KindUpdateEventSteps }
func (AddTag) Kind() Kind           { return KindAddTag }
func (DeleteTags) Kind() Kind       { return KindDeleteTags }
func (RenameTag) Kind() Kind        { return KindRenameTag }
func (ReorderTags) Kind() Kind      { return KindReorderTags }

// TargetID returns the event id an action addresses, or "" when the action
// is not event-scoped. Used by the queue's replacement filtering.
func TargetID(a Action) string {
	switch v := a.(type) {
	case AddEvent:
		return v.Event.ID
	case UpdateEvent:
		return v.Event.ID
	case DeleteEvent:
		return v.EventID
	case UpdateEventSteps:
		return v.EventID
	default:
		return ""
	}
}
