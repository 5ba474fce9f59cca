package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead-app/trailhead/internal/model"
)

func TestManager_OpenCachesHandle(t *testing.T) {
	m := NewManager(t.TempDir())
	defer m.CloseAll()

	first, err := m.Open("a.db")
	require.NoError(t, err)
	second, err := m.Open("a.db")
	require.NoError(t, err)
	assert.Same(t, first, second, "one handle per file for process lifetime")
}

func TestManager_RemoveDeletesFileAndSidecars(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	defer m.CloseAll()

	s, err := m.Open("gone.db")
	require.NoError(t, err)
	require.NoError(t, s.SetMeta(context.Background(), "k", "v"))

	require.NoError(t, m.Remove("gone.db"))

	_, err = os.Stat(filepath.Join(dir, "gone.db"))
	assert.True(t, os.IsNotExist(err))

	// A fresh open after removal starts empty.
	s2, err := m.Open("gone.db")
	require.NoError(t, err)
	_, ok, err := s2.GetMeta(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettingsStore_RoundTrip(t *testing.T) {
	m := NewManager(t.TempDir())
	defer m.CloseAll()
	ctx := context.Background()

	ss, err := OpenSettings(m)
	require.NoError(t, err)

	got, err := ss.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), got, "defaults before first save")

	want := model.Settings{CardDensity: "compact", CollapseImages: true, OverviewBlockSize: 8, DeveloperMode: true}
	require.NoError(t, ss.Save(ctx, want))

	got, err = ss.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSettingsStore_ActiveDatabase(t *testing.T) {
	m := NewManager(t.TempDir())
	defer m.CloseAll()
	ctx := context.Background()

	ss, err := OpenSettings(m)
	require.NoError(t, err)

	name, err := ss.ActiveDatabase(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)

	require.NoError(t, ss.SetActiveDatabase(ctx, "default"))
	name, err = ss.ActiveDatabase(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", name)

	require.NoError(t, ss.SetActiveDatabase(ctx, ""))
	name, err = ss.ActiveDatabase(ctx)
	require.NoError(t, err)
	assert.Empty(t, name, "volatile sessions clear the preference")
}
