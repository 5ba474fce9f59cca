package action

import (
	"fmt"

	"github.com/trailhead-app/trailhead/internal/model"
)

// Apply folds actions, in order, over a deep copy of base and returns the
// effective snapshot. Pure: base is never mutated, no I/O, no clock reads.
//
// After every event insert or replace, any tag the event references that is
// missing from the tag collection is appended, keeping the referenced-tags
// invariant regardless of which base the sequence is replayed against.
func Apply(base model.Snapshot, actions []Action) model.Snapshot {
	s := base.Clone()
	for _, a := range actions {
		s = applyOne(s, a)
	}
	return s
}

func applyOne(s model.Snapshot, a Action) model.Snapshot {
	switch v := a.(type) {
	case AddEvent:
		if s.FindEvent(v.Event.ID) >= 0 {
			return s // duplicate replay
		}
		e := v.Event.Clone()
		if len(v.ImageData) > 0 {
			e.HasOriginalImage = true
		}
		s.Events = append([]model.Event{e}, s.Events...)
		return adoptEventTags(s, e)

	case UpdateEvent:
		i := s.FindEvent(v.Event.ID)
		if i < 0 {
			return s
		}
		e := v.Event.Clone()
		if len(v.ImageData) > 0 {
			e.HasOriginalImage = true
		} else if v.RemoveImage {
			e.HasOriginalImage = false
		}
		s.Events[i] = e
		return adoptEventTags(s, e)

	case DeleteEvent:
		i := s.FindEvent(v.EventID)
		if i < 0 {
			return s
		}
		s.Events = append(s.Events[:i], s.Events[i+1:]...)
		return s

	case UpdateEventSteps:
		i := s.FindEvent(v.EventID)
		if i < 0 {
			return s
		}
		s.Events[i].Steps = append([]model.ProgressStep{}, v.Steps...)
		return s

	case AddTag:
		name := model.NormalizeTag(v.Name)
		if name == "" || model.ContainsTag(s.Tags, name) {
			return s
		}
		s.Tags = append(s.Tags, name)
		return s

	case DeleteTags:
		s.Tags = model.RemoveTags(s.Tags, v.Names)
		for i := range s.Events {
			s.Events[i].Tags = model.RemoveTags(s.Events[i].Tags, v.Names)
		}
		return s

	case RenameTag:
		old := model.NormalizeTag(v.Old)
		next := model.NormalizeTag(v.New)
		if old == "" || next == "" || old == next {
			return s
		}
		s.Tags = renameIn(s.Tags, old, next)
		for i := range s.Events {
			s.Events[i].Tags = renameIn(s.Events[i].Tags, old, next)
		}
		return s

	case ReorderTags:
		out := make([]string, 0, len(v.Names))
		for _, n := range v.Names {
			n = model.NormalizeTag(n)
			if n != "" && !model.ContainsTag(out, n) {
				out = append(out, n)
			}
		}
		s.Tags = out
		return s

	default:
		panic(fmt.Sprintf("action: unhandled kind %T", a))
	}
}

// adoptEventTags appends any tag the event references that the collection
// is missing, normalizing the event's own tag list on the way.
func adoptEventTags(s model.Snapshot, e model.Event) model.Snapshot {
	i := s.FindEvent(e.ID)
	if i < 0 {
		return s
	}
	norm := make([]string, 0, len(e.Tags))
	for _, raw := range e.Tags {
		name := model.NormalizeTag(raw)
		if name == "" || model.ContainsTag(norm, name) {
			continue
		}
		norm = append(norm, name)
		if !model.ContainsTag(s.Tags, name) {
			s.Tags = append(s.Tags, name)
		}
	}
	s.Events[i].Tags = norm
	return s
}

// renameIn replaces old with next in tags. If next already exists the old
// entry is dropped instead of duplicated.
func renameIn(tags []string, old, next string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == old {
			t = next
		}
		if !model.ContainsTag(out, t) {
			out = append(out, t)
		}
	}
	return out
}
