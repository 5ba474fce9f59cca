package model

import "time"

// TutorialTag is the tag seeded into the default database on first run.
const TutorialTag = "getting-started"

// TutorialEvent builds the event seeded into the default database on first
// run. The id comes from gen so tests can pin it.
func TutorialEvent(gen IDGenerator, now time.Time) Event {
	return Event{
		ID:          gen.NewID(),
		Title:       "Welcome to Trailhead",
		Description: "Track a goal by adding steps and checking them off as you go.",
		CreatedAt:   now,
		Tags:        []string{TutorialTag},
		Steps: []ProgressStep{
			{ID: gen.NewID(), Description: "Create your first event", Timestamp: now, Completed: true},
			{ID: gen.NewID(), Description: "Add a progress step", Timestamp: now},
			{ID: gen.NewID(), Description: "Tag it so you can find it later", Timestamp: now},
		},
	}
}

// SeedSnapshot returns the first-run content for the default database.
func SeedSnapshot(gen IDGenerator, now time.Time) Snapshot {
	s := EmptySnapshot()
	s.Events = []Event{TutorialEvent(gen, now)}
	s.Tags = []string{TutorialTag}
	return s
}

// DemoSnapshot returns a fresh deep copy of the built-in demo dataset.
// The demo database never touches persistent storage; every call starts
// from the same content, so session edits are memory-only.
func DemoSnapshot(now time.Time) Snapshot {
	base := now.Add(-21 * 24 * time.Hour)
	s := Snapshot{
		Events: []Event{
			{
				ID:        "demo-event-trip",
				Title:     "Plan a hiking trip",
				CreatedAt: base,
				Tags:      []string{"outdoors", "travel"},
				Steps: []ProgressStep{
					{ID: "demo-step-route", Description: "Pick a route", Timestamp: base, Completed: true},
					{ID: "demo-step-gear", Description: "Check gear", Timestamp: base.Add(48 * time.Hour), Completed: true},
					{ID: "demo-step-permits", Description: "Reserve permits", Timestamp: base.Add(96 * time.Hour)},
				},
			},
			{
				ID:        "demo-event-reading",
				Title:     "Read twelve books this year",
				CreatedAt: base.Add(24 * time.Hour),
				Tags:      []string{"habits"},
				Steps: []ProgressStep{
					{ID: "demo-step-book1", Description: "Book one", Timestamp: base.Add(24 * time.Hour), Completed: true},
					{ID: "demo-step-book2", Description: "Book two", Timestamp: base.Add(10 * 24 * time.Hour)},
				},
			},
		},
		Tags: []string{"outdoors", "travel", "habits"},
		StepTemplates: []StepTemplate{
			{ID: "demo-template-review", Description: "Weekly review"},
		},
		StepSetTemplates: []StepSetTemplate{
			{
				ID:   "demo-set-launch",
				Name: "Project launch",
				Steps: []TemplateStep{
					{ID: "demo-set-launch-1", Description: "Draft the plan"},
					{ID: "demo-set-launch-2", Description: "Share for feedback"},
					{ID: "demo-set-launch-3", Description: "Ship it"},
				},
			},
		},
	}
	return s.Clone()
}
