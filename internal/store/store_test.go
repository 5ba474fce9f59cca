package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead-app/trailhead/internal/model"
)

// createTestStore opens a store in a temp dir for one test.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSnapshot() model.Snapshot {
	now := time.Date(2026, 5, 10, 8, 30, 0, 0, time.UTC)
	s := model.EmptySnapshot()
	s.Events = []model.Event{
		{
			ID:        "e1",
			Title:     "First",
			CreatedAt: now,
			Tags:      []string{"work"},
			Steps:     []model.ProgressStep{{ID: "s1", Description: "go", Timestamp: now, Completed: true}},
		},
		{ID: "e2", Title: "Second", CreatedAt: now.Add(time.Hour)},
	}
	s.Tags = []string{"work", "home"}
	s.StepTemplates = []model.StepTemplate{{ID: "t1", Description: "review"}}
	s.StepSetTemplates = []model.StepSetTemplate{{ID: "ts1", Name: "launch", Steps: []model.TemplateStep{{ID: "ts1a", Description: "draft"}}}}
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var version int
	require.NoError(t, s2.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestReplaceSnapshot_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := testSnapshot()

	require.NoError(t, s.ReplaceSnapshot(ctx, want, nil, nil))

	got, err := s.ReadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.IsType(t, time.Time{}, got.Events[0].CreatedAt)
	assert.True(t, got.Events[0].CreatedAt.Equal(want.Events[0].CreatedAt), "timestamps revive exactly")
}

func TestReplaceSnapshot_ClearsPriorContent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceSnapshot(ctx, testSnapshot(), nil, nil))

	next := model.EmptySnapshot()
	next.Events = []model.Event{{ID: "only", Title: "Only"}}
	next.Tags = []string{"solo"}
	require.NoError(t, s.ReplaceSnapshot(ctx, next, nil, nil))

	got, err := s.ReadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got.Events, 1)
	assert.Equal(t, "only", got.Events[0].ID)
	assert.Equal(t, []string{"solo"}, got.Tags)
	assert.Empty(t, got.StepTemplates)
	assert.Empty(t, got.StepSetTemplates)
}

func TestReplaceSnapshot_PreservesEventOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	snap := model.EmptySnapshot()
	snap.Events = []model.Event{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	require.NoError(t, s.ReplaceSnapshot(ctx, snap, nil, nil))

	got, err := s.ReadEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "b", got[2].ID)
}

func TestReplaceSnapshot_AtomicOnFailure(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.ReplaceSnapshot(ctx, testSnapshot(), nil, nil))

	// Duplicate event ids violate the primary key mid-transaction; the
	// earlier DELETEs must roll back with everything else.
	bad := model.EmptySnapshot()
	bad.Events = []model.Event{{ID: "dup"}, {ID: "dup"}}
	require.Error(t, s.ReplaceSnapshot(ctx, bad, nil, nil))

	got, err := s.ReadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), got, "failed replacement must not be observable")
}

func TestReplaceSnapshot_ImageSideWrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceSnapshot(ctx, testSnapshot(), map[string][]byte{"e1": {1, 2, 3}}, nil))
	data, ok, err := s.GetImage(ctx, "e1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, data)

	require.NoError(t, s.ReplaceSnapshot(ctx, testSnapshot(), nil, []string{"e1"}))
	_, ok, err = s.GetImage(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestImageLifecycle(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutImage(ctx, "e1", []byte{1}))
	require.NoError(t, s.PutImage(ctx, "e1", []byte{2}), "put replaces existing blob")

	data, ok, err := s.GetImage(ctx, "e1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{2}, data)

	require.NoError(t, s.DeleteImage(ctx, "e1"))
	_, ok, err = s.GetImage(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteEvent_AppendsAndUpserts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteEvent(ctx, model.Event{ID: "a", Title: "A"}))
	require.NoError(t, s.WriteEvent(ctx, model.Event{ID: "b", Title: "B"}))
	require.NoError(t, s.WriteEvent(ctx, model.Event{ID: "a", Title: "A2"}))

	got, err := s.ReadEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A2", got[0].Title, "upsert keeps position")
	assert.Equal(t, "B", got[1].Title)

	e, ok, err := s.ReadEvent(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "B", e.Title)

	_, ok, err = s.ReadEvent(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMeta(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetMeta(ctx, MetaSeeded)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetMeta(ctx, MetaSeeded, "1"))
	v, ok, err := s.GetMeta(ctx, MetaSeeded)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", v)
}
