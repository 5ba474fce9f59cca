package core

import (
	"context"
	"fmt"

	"github.com/trailhead-app/trailhead/internal/model"
	"github.com/trailhead-app/trailhead/internal/registry"
	"github.com/trailhead-app/trailhead/internal/store"
)

// activateLocked loads the snapshot for name and adopts it as baseline and
// effective state, setting the mode and persisting the active-name
// preference. The queue is expected to be empty (or already merged) when
// this runs. Errors leave the previous state untouched.
func (c *Core) activateLocked(ctx context.Context, name string) error {
	snap, persistent, err := c.loadSnapshotLocked(ctx, name)
	if err != nil {
		return err
	}

	c.activeName = name
	c.baseline = snap
	c.baselineDirty = false
	c.snapshot = snap.Clone()
	if persistent {
		c.mode = ModeHealthy
	} else {
		c.mode = ModeVolatile
	}

	pref := name
	if name == registry.VolatileName {
		pref = "" // volatile is never recorded as last active
	}
	if err := c.settings.SetActiveDatabase(ctx, pref); err != nil {
		c.logger.Error("persist active database preference", "error", err)
	}
	return nil
}

// loadSnapshotLocked produces the snapshot for a database name. The demo
// database returns a fresh copy of fixed content and never touches storage;
// volatile returns empty state; a real database is opened, seeded on first
// run, and read in full. The second return reports whether the snapshot is
// backed by persistent storage.
func (c *Core) loadSnapshotLocked(ctx context.Context, name string) (model.Snapshot, bool, error) {
	switch name {
	case registry.DemoName:
		return model.DemoSnapshot(c.now()), false, nil
	case registry.VolatileName:
		return model.EmptySnapshot(), false, nil
	}

	s, err := c.manager.Open(registry.FileName(name))
	if err != nil {
		return model.Snapshot{}, false, newError(CodeStorageUnavailable, name, "open database", err)
	}

	if err := c.seedLocked(ctx, s, name); err != nil {
		return model.Snapshot{}, false, err
	}

	snap, err := s.ReadSnapshot(ctx)
	if err != nil {
		return model.Snapshot{}, false, newError(CodeStorageUnavailable, name, "read snapshot", err)
	}
	return snap, true, nil
}

// seedLocked writes first-run content exactly once per database. The
// default database gets the tutorial event and tag; any other database
// starts empty. A meta marker prevents re-seeding.
func (c *Core) seedLocked(ctx context.Context, s *store.Store, name string) error {
	_, seeded, err := s.GetMeta(ctx, store.MetaSeeded)
	if err != nil {
		return newError(CodeStorageUnavailable, name, "read seed marker", err)
	}
	if seeded {
		return nil
	}

	if name == registry.DefaultName {
		seed := model.SeedSnapshot(c.idGen, c.now())
		if err := s.ReplaceSnapshot(ctx, seed, nil, nil); err != nil {
			return newError(CodeStorageUnavailable, name, "write seed content", err)
		}
	}

	if err := s.SetMeta(ctx, store.MetaSeeded, "1"); err != nil {
		return newError(CodeStorageUnavailable, name, "write seed marker", err)
	}
	c.logger.Info("seeded database", "database", name)
	return nil
}

// activeStoreLocked returns the open handle for the active database.
// Only meaningful while a real database is active.
func (c *Core) activeStoreLocked() (*store.Store, error) {
	if c.activeName == "" || c.activeName == registry.DemoName || c.activeName == registry.VolatileName {
		return nil, fmt.Errorf("no persistent database active")
	}
	return c.manager.Open(registry.FileName(c.activeName))
}
