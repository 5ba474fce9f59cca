package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Clone_Independent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	orig := Snapshot{
		Events: []Event{{
			ID:        "e1",
			Title:     "Trip",
			CreatedAt: now,
			Steps:     []ProgressStep{{ID: "s1", Description: "pack", Timestamp: now}},
			Tags:      []string{"travel"},
		}},
		Tags:             []string{"travel"},
		StepTemplates:    []StepTemplate{{ID: "t1", Description: "review"}},
		StepSetTemplates: []StepSetTemplate{{ID: "ts1", Name: "launch", Steps: []TemplateStep{{ID: "ts1a", Description: "draft"}}}},
	}

	clone := orig.Clone()
	clone.Events[0].Title = "changed"
	clone.Events[0].Steps[0].Completed = true
	clone.Events[0].Tags[0] = "other"
	clone.Tags[0] = "other"
	clone.StepSetTemplates[0].Steps[0].Description = "changed"

	assert.Equal(t, "Trip", orig.Events[0].Title)
	assert.False(t, orig.Events[0].Steps[0].Completed)
	assert.Equal(t, "travel", orig.Events[0].Tags[0])
	assert.Equal(t, "travel", orig.Tags[0])
	assert.Equal(t, "draft", orig.StepSetTemplates[0].Steps[0].Description)
}

func TestProgress(t *testing.T) {
	e := Event{}
	assert.Equal(t, 0.0, Progress(e), "no steps reports zero")

	e.Steps = []ProgressStep{
		{Completed: true},
		{Completed: true},
		{Completed: false},
		{Completed: false},
	}
	assert.InDelta(t, 0.5, Progress(e), 1e-9)
}

func TestByProgressAsc(t *testing.T) {
	lo := Event{Steps: []ProgressStep{{Completed: false}}}
	hi := Event{Steps: []ProgressStep{{Completed: true}}}

	assert.Negative(t, ByProgressAsc(lo, hi))
	assert.Positive(t, ByProgressAsc(hi, lo))
	assert.Zero(t, ByProgressAsc(lo, lo))
}

func TestFindEvent(t *testing.T) {
	s := Snapshot{Events: []Event{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, 1, s.FindEvent("b"))
	assert.Equal(t, -1, s.FindEvent("missing"))
}

func TestDemoSnapshot_FreshPerCall(t *testing.T) {
	now := time.Now()
	first := DemoSnapshot(now)
	first.Events[0].Title = "edited in session"
	first.Tags = first.Tags[:1]

	second := DemoSnapshot(now)
	require.NotEmpty(t, second.Events)
	assert.Equal(t, "Plan a hiking trip", second.Events[0].Title)
	assert.Len(t, second.Tags, 3)
}

func TestSeedSnapshot(t *testing.T) {
	gen := NewSequenceGenerator("seed")
	now := time.Now()
	s := SeedSnapshot(gen, now)

	require.Len(t, s.Events, 1)
	assert.Equal(t, "seed-1", s.Events[0].ID)
	assert.Equal(t, []string{TutorialTag}, s.Tags)
	assert.Equal(t, []string{TutorialTag}, s.Events[0].Tags, "seed content keeps the tag invariant")
}
