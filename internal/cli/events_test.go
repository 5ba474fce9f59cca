package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead-app/trailhead/internal/model"
)

func listFixture() []model.Event {
	return []model.Event{
		{ID: "e1", Title: "Run a marathon", Description: "train all spring", Tags: []string{"fitness"},
			Steps: []model.ProgressStep{{ID: "s1", Completed: true}, {ID: "s2"}}},
		{ID: "e2", Title: "Read Moby Dick", Tags: []string{"books"},
			Steps: []model.ProgressStep{{ID: "s3", Completed: true}}},
		{ID: "e3", Title: "Learn to juggle"},
	}
}

func TestSelectEvents_Filters(t *testing.T) {
	opts := func() *EventsOptions {
		return &EventsOptions{RootOptions: &RootOptions{}, FilterStatus: "all", Sort: "created"}
	}

	o := opts()
	o.FilterTag = "books"
	got, err := selectEvents(listFixture(), o)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e2", got[0].ID)

	// Search is case-insensitive and matches descriptions too.
	o = opts()
	o.Search = "SPRING"
	got, err = selectEvents(listFixture(), o)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)

	// Done means every step completed; a stepless event is active.
	o = opts()
	o.FilterStatus = "done"
	got, err = selectEvents(listFixture(), o)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e2", got[0].ID)

	o = opts()
	o.FilterStatus = "active"
	got, err = selectEvents(listFixture(), o)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestSelectEvents_ProgressSort(t *testing.T) {
	o := &EventsOptions{RootOptions: &RootOptions{}, FilterStatus: "all", Sort: "progress"}
	got, err := selectEvents(listFixture(), o)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Least progress first: e3 (no steps), e1 (1/2), e2 (1/1).
	assert.Equal(t, []string{"e3", "e1", "e2"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestSelectEvents_RejectsBadFlags(t *testing.T) {
	o := &EventsOptions{RootOptions: &RootOptions{}, FilterStatus: "finished", Sort: "created"}
	_, err := selectEvents(nil, o)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	o = &EventsOptions{RootOptions: &RootOptions{}, FilterStatus: "all", Sort: "alphabetical"}
	_, err = selectEvents(nil, o)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
