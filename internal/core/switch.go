package core

import (
	"context"
	"errors"
	"io/fs"

	"github.com/trailhead-app/trailhead/internal/action"
	"github.com/trailhead-app/trailhead/internal/model"
	"github.com/trailhead-app/trailhead/internal/registry"
	"github.com/trailhead-app/trailhead/internal/store"
)

// SwitchDatabase moves the active database pointer to target.
//
// The delicate case is leaving a degraded or volatile state with a
// non-empty queue: a real target absorbs the queue as a merge (fold the
// queue onto the target's baseline, persist the folded result, adopt it),
// while the demo and volatile targets cannot absorb anything - switching
// there discards the queue, which requires discard=true. Without it the
// call fails with CONFIRM_REQUIRED and changes nothing, so the caller can
// prompt and retry.
//
// Load or merge failures leave the core in (or re-enter) degraded mode
// with the queue untouched.
func (c *Core) SwitchDatabase(ctx context.Context, target string, discard bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if target == c.activeName {
		return nil
	}
	if target != registry.DemoName && target != registry.VolatileName {
		if err := registry.ValidateName(target); err != nil {
			return newError(CodeStorageUnavailable, target, "unknown database", err)
		}
		exists, err := c.registry.Exists(target)
		if err != nil {
			return newError(CodeStorageUnavailable, target, "discover databases", err)
		}
		if !exists {
			return newError(CodeStorageUnavailable, target, "unknown database", nil)
		}
	}

	// A healthy session may still have a debounced batch waiting; persist
	// it to the current database before moving. A failure here degrades
	// the core, and the queue then rides along the merge paths below.
	if c.mode == ModeHealthy && c.queue.Len() > 0 {
		_ = c.flushLocked(ctx)
	}

	pending := c.queue.Len() > 0 && (c.mode == ModeDegraded || c.mode == ModeVolatile)

	switch target {
	case registry.VolatileName:
		if pending && !discard {
			return newError(CodeConfirmRequired, target, "switching to temporary mode discards unsynced changes", nil)
		}
		c.enterVolatileLocked("temporary mode, changes are not persisted")
		return nil

	case registry.DemoName:
		if pending && !discard {
			return newError(CodeConfirmRequired, target, "switching to the demo discards unsynced changes", nil)
		}
		c.queue.Clear()
		if err := c.activateLocked(ctx, target); err != nil {
			return err // demo load cannot fail in practice
		}
		c.status(StatusInfo, "demo data, edits last for this session only")
		return nil
	}

	if pending {
		return c.mergeIntoLocked(ctx, target)
	}

	if err := c.activateLocked(ctx, target); err != nil {
		if c.mode == ModeHealthy {
			c.mode = ModeDegraded
		}
		c.status(StatusError, "could not open "+target)
		return err
	}
	c.status(StatusSuccess, "switched to "+target)
	return nil
}

// mergeIntoLocked folds the pending queue onto target's persisted snapshot,
// writes the folded result as target's new baseline, and adopts it. This is
// how changes orphaned in a degraded or volatile session reach a different
// database.
func (c *Core) mergeIntoLocked(ctx context.Context, target string) error {
	batch := c.queue.Snapshot()

	s, err := c.manager.Open(registry.FileName(target))
	if err != nil {
		c.status(StatusError, "could not open "+target)
		return newError(CodeStorageUnavailable, target, "open merge target", err)
	}
	if err := c.seedLocked(ctx, s, target); err != nil {
		c.status(StatusError, "could not open "+target)
		return err
	}
	base, err := s.ReadSnapshot(ctx)
	if err != nil {
		c.status(StatusError, "could not read "+target)
		return newError(CodeStorageUnavailable, target, "read merge target", err)
	}

	folded := action.Apply(base, batch)
	putImages, dropImages := imageWrites(batch)
	if err := s.ReplaceSnapshot(ctx, folded, putImages, dropImages); err != nil {
		c.status(StatusError, "merge into "+target+" failed")
		return newError(CodeSyncFailure, target, "persist merged snapshot", err)
	}

	c.queue.DropFirst(len(batch))
	c.activeName = target
	c.baseline = folded
	c.baselineDirty = false
	c.snapshot = action.Apply(c.baseline, c.queue.Snapshot())
	c.mode = ModeHealthy
	if err := c.settings.SetActiveDatabase(ctx, target); err != nil {
		c.logger.Error("persist active database preference", "error", err)
	}
	c.status(StatusSuccess, "merged unsynced changes into "+target)
	return nil
}

// CreateDatabase initializes a new named database. The active database is
// unchanged; switch explicitly to start using it.
func (c *Core) CreateDatabase(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.registry.Create(name); err != nil {
		if errors.Is(err, registry.ErrNameConflict) {
			return newError(CodeNameConflict, name, "database name already in use", err)
		}
		return newError(CodeStorageUnavailable, name, "create database", err)
	}
	c.status(StatusSuccess, "created "+name)
	return nil
}

// DeleteDatabase removes a named database and its file. Deleting the
// active database falls back to the startup precedence among the remaining
// databases. A file that cannot be removed (a handle open elsewhere) is
// surfaced as a BLOCKED_DELETION warning status, not a hard failure.
func (c *Core) DeleteDatabase(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if registry.IsReserved(name) {
		return newError(CodeNameConflict, name, "reserved database cannot be deleted", nil)
	}

	wasActive := name == c.activeName
	if err := c.registry.Delete(name); err != nil {
		classified := classifyDeletion(name, err)
		if !IsBlockedDeletion(classified) {
			return classified
		}
		c.logger.Warn("blocked deletion", "database", name, "error", err)
		c.status(StatusInfo, "database file still in use, deletion incomplete")
		return classified
	}

	if wasActive {
		c.queue.Clear()
		discovered, err := c.registry.Discover()
		if err != nil {
			c.enterVolatileLocked("storage unavailable, running in temporary mode")
			return nil
		}
		next := registry.Resolve("", discovered)
		if err := c.activateLocked(ctx, next); err != nil {
			c.enterVolatileLocked("could not open " + next + ", running in temporary mode")
			return nil
		}
		c.status(StatusInfo, "deleted "+name+", now on "+next)
		return nil
	}

	c.status(StatusSuccess, "deleted "+name)
	return nil
}

// classifyDeletion maps a failed file deletion to a taxonomy code. A
// permission problem is an ordinary storage failure; anything else (most
// likely a handle open in another process) is the soft BLOCKED_DELETION
// condition the caller surfaces as a warning.
func classifyDeletion(name string, cause error) error {
	if errors.Is(cause, fs.ErrPermission) {
		return newError(CodeStorageUnavailable, name, "delete database", cause)
	}
	return newError(CodeBlockedDeletion, name, "database file still in use, deletion incomplete", cause)
}

// ResetAll deletes every discovered database and all settings, closes all
// handles, and returns the core to LOADING against an empty registry.
// Irreversible. Call Start to begin a fresh first run.
func (c *Core) ResetAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	discovered, err := c.registry.Discover()
	if err != nil {
		return newError(CodeStorageUnavailable, "", "discover databases", err)
	}
	for _, name := range discovered {
		if err := c.registry.Delete(name); err != nil {
			return classifyDeletion(name, err)
		}
	}
	if err := c.manager.Remove(store.SettingsFile); err != nil {
		return newError(CodeBlockedDeletion, "", "delete settings", err)
	}
	if err := c.manager.CloseAll(); err != nil {
		c.logger.Error("close handles after reset", "error", err)
	}

	// Reopen an empty settings store so the core stays usable.
	settings, err := store.OpenSettings(c.manager)
	if err != nil {
		return newError(CodeStorageUnavailable, "", "reopen settings database", err)
	}
	c.settings = settings

	c.mode = ModeLoading
	c.activeName = ""
	c.baseline = model.EmptySnapshot()
	c.baselineDirty = false
	c.snapshot = model.EmptySnapshot()
	c.queue.Clear()
	c.userSettings = model.DefaultSettings()
	c.settingsDirty = false
	c.status(StatusInfo, "all data erased")
	return nil
}
