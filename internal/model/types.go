package model

import "time"

// Event is a project or goal the user tracks. Steps are ordered; Tags are
// plain names referencing the snapshot's tag collection.
type Event struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	Steps       []ProgressStep `json:"steps"`
	CoverImage  string         `json:"coverImage,omitempty"`
	Tags        []string       `json:"tags,omitempty"`

	// HasOriginalImage records whether a pre-resized image blob exists in
	// the images side collection keyed by this event's id.
	HasOriginalImage bool `json:"hasOriginalImage,omitempty"`
}

// ProgressStep is one step of an event. Owned by its parent event, never
// shared.
type ProgressStep struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Completed   bool      `json:"completed"`
}

// StepTemplate is a reusable single-step stencil with a lifecycle
// independent of any event.
type StepTemplate struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// StepSetTemplate is a reusable multi-step stencil.
type StepSetTemplate struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Steps []TemplateStep `json:"steps"`
}

// TemplateStep is one step inside a StepSetTemplate.
type TemplateStep struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Snapshot is the full in-memory state of one named database.
type Snapshot struct {
	Events           []Event           `json:"events"`
	Tags             []string          `json:"tags"`
	StepTemplates    []StepTemplate    `json:"stepTemplates"`
	StepSetTemplates []StepSetTemplate `json:"stepSetTemplates"`
}

// Settings are global user preferences, persisted in the dedicated settings
// database and shared across all data databases.
type Settings struct {
	CardDensity       string `json:"cardDensity"`
	CollapseImages    bool   `json:"collapseImages"`
	OverviewBlockSize int    `json:"overviewBlockSize"`
	DeveloperMode     bool   `json:"developerMode"`
}

// DefaultSettings returns the settings used before any are persisted.
func DefaultSettings() Settings {
	return Settings{
		CardDensity:       "normal",
		OverviewBlockSize: 12,
	}
}

// EmptySnapshot returns a snapshot with empty (non-nil) collections.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Events:           []Event{},
		Tags:             []string{},
		StepTemplates:    []StepTemplate{},
		StepSetTemplates: []StepSetTemplate{},
	}
}

// Clone returns a deep copy. The pending-action fold clones its base so the
// fold stays side-effect-free and replayable against any snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Events:           make([]Event, len(s.Events)),
		Tags:             append([]string{}, s.Tags...),
		StepTemplates:    append([]StepTemplate{}, s.StepTemplates...),
		StepSetTemplates: make([]StepSetTemplate, len(s.StepSetTemplates)),
	}
	for i, e := range s.Events {
		out.Events[i] = e.Clone()
	}
	for i, t := range s.StepSetTemplates {
		out.StepSetTemplates[i] = t.Clone()
	}
	return out
}

// Clone returns a deep copy of the event and its steps and tags.
func (e Event) Clone() Event {
	out := e
	out.Steps = append([]ProgressStep{}, e.Steps...)
	out.Tags = append([]string{}, e.Tags...)
	return out
}

// Clone returns a deep copy of the template and its steps.
func (t StepSetTemplate) Clone() StepSetTemplate {
	out := t
	out.Steps = append([]TemplateStep{}, t.Steps...)
	return out
}

// FindEvent returns the index of the event with the given id, or -1.
func (s Snapshot) FindEvent(id string) int {
	for i, e := range s.Events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Progress returns the completed fraction of an event's steps in [0, 1].
// Events with no steps report 0.
func Progress(e Event) float64 {
	if len(e.Steps) == 0 {
		return 0
	}
	done := 0
	for _, st := range e.Steps {
		if st.Completed {
			done++
		}
	}
	return float64(done) / float64(len(e.Steps))
}

// ByProgressAsc orders two events by completed fraction, lowest first.
// Suitable for sort.Slice / slices.SortStableFunc style comparators.
func ByProgressAsc(a, b Event) int {
	pa, pb := Progress(a), Progress(b)
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	default:
		return 0
	}
}
