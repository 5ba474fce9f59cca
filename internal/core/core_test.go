package core

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead-app/trailhead/internal/action"
	"github.com/trailhead-app/trailhead/internal/model"
	"github.com/trailhead-app/trailhead/internal/registry"
	"github.com/trailhead-app/trailhead/internal/store"
)

var testClock = func() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

// newTestCore builds a started core over a temp data dir with pinned ids
// and a pinned clock. The sync delay is effectively infinite so flushes
// only happen when a test forces them.
func newTestCore(t *testing.T, opts ...Option) (*Core, *store.Manager) {
	t.Helper()
	m := store.NewManager(t.TempDir())

	base := []Option{
		WithIDGenerator(model.NewSequenceGenerator("id")),
		WithClock(testClock),
		WithSyncDelay(time.Hour),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	c, err := New(m, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		c.Close()
	})

	require.NoError(t, c.Start(context.Background()))
	return c, m
}

func TestStart_FirstRunSeedsDefault(t *testing.T) {
	c, _ := newTestCore(t)

	assert.Equal(t, registry.DefaultName, c.ActiveDatabase())
	assert.Equal(t, ModeHealthy, c.Mode())

	snap := c.Snapshot()
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "Welcome to Trailhead", snap.Events[0].Title)
	assert.Equal(t, []string{model.TutorialTag}, snap.Tags)
}

func TestStart_SecondRunDoesNotReseed(t *testing.T) {
	dir := t.TempDir()
	m := store.NewManager(dir)
	opts := []Option{
		WithIDGenerator(model.NewSequenceGenerator("id")),
		WithClock(testClock),
		WithSyncDelay(time.Hour),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	c, err := New(m, opts...)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Submit(action.DeleteEvent{EventID: c.Snapshot().Events[0].ID}))
	require.NoError(t, c.Flush(context.Background()))
	require.NoError(t, c.Close())

	c2, err := New(store.NewManager(dir), opts...)
	require.NoError(t, err)
	defer c2.Close()
	require.NoError(t, c2.Start(context.Background()))

	// The tutorial event was deleted; re-opening must not bring it back.
	assert.Empty(t, c2.Snapshot().Events)
}

func TestStart_HonorsActivePreference(t *testing.T) {
	dir := t.TempDir()
	m := store.NewManager(dir)
	opts := []Option{
		WithIDGenerator(model.NewSequenceGenerator("id")),
		WithClock(testClock),
		WithSyncDelay(time.Hour),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	c, err := New(m, opts...)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.CreateDatabase("work"))
	require.NoError(t, c.SwitchDatabase(context.Background(), "work", false))
	require.NoError(t, c.Close())

	c2, err := New(store.NewManager(dir), opts...)
	require.NoError(t, err)
	defer c2.Close()
	require.NoError(t, c2.Start(context.Background()))
	assert.Equal(t, "work", c2.ActiveDatabase())
}

func TestSubmit_OptimisticApply(t *testing.T) {
	c, _ := newTestCore(t)

	e := model.Event{ID: c.NewID(), Title: "Learn the ukulele", CreatedAt: c.Now()}
	require.NoError(t, c.Submit(action.AddEvent{Event: e}))

	// Visible immediately, before any flush.
	snap := c.Snapshot()
	require.Len(t, snap.Events, 2)
	assert.Equal(t, "Learn the ukulele", snap.Events[0].Title)
	assert.Equal(t, 1, c.PendingActions())
	assert.True(t, c.HasUnsyncedChanges())
}

func TestSubmit_UpdateReplacesQueuedUpdate(t *testing.T) {
	c, _ := newTestCore(t)
	e := model.Event{ID: c.NewID(), Title: "v1", CreatedAt: c.Now()}
	require.NoError(t, c.Submit(action.AddEvent{Event: e}))

	e.Title = "v2"
	require.NoError(t, c.Submit(action.UpdateEvent{Event: e}))
	e.Title = "v3"
	require.NoError(t, c.Submit(action.UpdateEvent{Event: e}))

	// Consecutive updates to the same event collapse onto one entry.
	assert.Equal(t, 2, c.PendingActions())
	snap := c.Snapshot()
	i := snap.FindEvent(e.ID)
	require.NotEqual(t, -1, i)
	assert.Equal(t, "v3", snap.Events[i].Title)
}

func TestVolatileSession_NothingPersists(t *testing.T) {
	dir := t.TempDir()
	m := store.NewManager(dir)
	opts := []Option{
		WithIDGenerator(model.NewSequenceGenerator("id")),
		WithClock(testClock),
		WithSyncDelay(time.Hour),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	c, err := New(m, opts...)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.SwitchDatabase(context.Background(), registry.VolatileName, false))
	assert.Equal(t, ModeVolatile, c.Mode())
	assert.Empty(t, c.Snapshot().Events)

	e := model.Event{ID: c.NewID(), Title: "scratch work", CreatedAt: c.Now()}
	require.NoError(t, c.Submit(action.AddEvent{Event: e}))
	require.Len(t, c.Snapshot().Events, 1)

	// No flush ever happens in volatile mode, not even an explicit one.
	require.NoError(t, c.Flush(context.Background()))
	require.NoError(t, c.Close())

	c2, err := New(store.NewManager(dir), opts...)
	require.NoError(t, err)
	defer c2.Close()
	require.NoError(t, c2.Start(context.Background()))
	assert.Equal(t, registry.DefaultName, c2.ActiveDatabase())
	for _, ev := range c2.Snapshot().Events {
		assert.NotEqual(t, "scratch work", ev.Title)
	}
}

func TestDemoSession_ResetsOnEveryVisit(t *testing.T) {
	c, _ := newTestCore(t)

	require.NoError(t, c.SwitchDatabase(context.Background(), registry.DemoName, false))
	assert.Equal(t, ModeVolatile, c.Mode())
	demoLen := len(c.Snapshot().Events)
	require.Greater(t, demoLen, 0)

	require.NoError(t, c.Submit(action.DeleteEvent{EventID: c.Snapshot().Events[0].ID}))
	assert.Len(t, c.Snapshot().Events, demoLen-1)

	// Leave with discard and come back: the demo content is whole again.
	require.NoError(t, c.SwitchDatabase(context.Background(), registry.DefaultName, true))
	require.NoError(t, c.SwitchDatabase(context.Background(), registry.DemoName, false))
	assert.Len(t, c.Snapshot().Events, demoLen)
}

func TestSettings_PersistAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	m := store.NewManager(dir)
	opts := []Option{
		WithIDGenerator(model.NewSequenceGenerator("id")),
		WithClock(testClock),
		WithSyncDelay(time.Hour),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	c, err := New(m, opts...)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))

	s := c.Settings()
	s.CardDensity = "compact"
	s.DeveloperMode = true
	require.NoError(t, c.UpdateSettings(s))
	require.NoError(t, c.Close()) // Close saves dirty settings

	c2, err := New(store.NewManager(dir), opts...)
	require.NoError(t, err)
	defer c2.Close()
	require.NoError(t, c2.Start(context.Background()))
	assert.Equal(t, "compact", c2.Settings().CardDensity)
	assert.True(t, c2.Settings().DeveloperMode)
}

func TestUpdateSettings_AfterCloseRejected(t *testing.T) {
	c, _ := newTestCore(t)
	require.NoError(t, c.Close())

	s := c.Settings()
	s.DeveloperMode = true
	err := c.UpdateSettings(s)
	require.Error(t, err)
	assert.True(t, IsStorageUnavailable(err))
	assert.False(t, c.Settings().DeveloperMode, "a rejected update must not change anything")
}

func TestStatusNotifications(t *testing.T) {
	var got []Status
	c, _ := newTestCore(t, WithStatusFunc(func(s Status) { got = append(got, s) }))

	e := model.Event{ID: c.NewID(), Title: "x", CreatedAt: c.Now()}
	require.NoError(t, c.Submit(action.AddEvent{Event: e}))
	require.NoError(t, c.Flush(context.Background()))

	kinds := make([]StatusKind, 0, len(got))
	for _, s := range got {
		kinds = append(kinds, s.Kind)
	}
	// Start emits loading then success; the flush repeats the pair.
	assert.Equal(t, []StatusKind{StatusLoading, StatusSuccess, StatusLoading, StatusSuccess}, kinds)
}
