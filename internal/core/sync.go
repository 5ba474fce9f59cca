package core

import (
	"context"
	"sort"
	"time"

	"github.com/trailhead-app/trailhead/internal/action"
)

// scheduleFlushLocked arms (or re-arms) the debounce timer when the queue
// is non-empty and the active database can absorb a write. Degraded mode
// schedules too: the next mutation is the natural retry trigger.
func (c *Core) scheduleFlushLocked() {
	if c.closed || (c.queue.Len() == 0 && !c.baselineDirty) {
		return
	}
	if c.mode != ModeHealthy && c.mode != ModeDegraded {
		return
	}
	if c.flushTimer == nil {
		c.flushTimer = time.AfterFunc(c.syncDelay, c.flushNow)
	} else {
		c.flushTimer.Reset(c.syncDelay)
	}
}

func (c *Core) flushNow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushLocked(context.Background())
}

// Flush forces a synchronous flush attempt outside the debounce timer.
// Used by the CLI before exit and by tests. Returns the flush error, or
// nil when there was nothing to do.
func (c *Core) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked(ctx)
}

// flushLocked attempts to persist the entire queue as one transaction.
//
// The batch is the queue as it stands now; because the mutex is held for
// the whole attempt, nothing can be appended mid-flight, and DropFirst of
// exactly the batch length keeps any theoretically later arrivals for the
// next cycle. On success the folded state becomes the new baseline and the
// degraded flag clears. On failure nothing is marked flushed: the queue
// stays the single source of truth and the core degrades.
func (c *Core) flushLocked(ctx context.Context) error {
	if c.mode != ModeHealthy && c.mode != ModeDegraded {
		return nil
	}
	batch := c.queue.Snapshot()
	if len(batch) == 0 && !c.baselineDirty {
		return nil
	}

	c.status(StatusLoading, "syncing")

	s, err := c.activeStoreLocked()
	if err != nil {
		return c.flushFailedLocked(err)
	}

	folded := action.Apply(c.baseline, batch)
	putImages, dropImages := imageWrites(batch)

	if err := s.ReplaceSnapshot(ctx, folded, putImages, dropImages); err != nil {
		return c.flushFailedLocked(err)
	}

	c.baseline = folded
	c.baselineDirty = false
	c.queue.DropFirst(len(batch))
	// Recompute rather than trusting the optimistic copy, so the snapshot
	// and baseline can never drift even across queue filtering.
	c.snapshot = action.Apply(c.baseline, c.queue.Snapshot())
	c.mode = ModeHealthy
	c.status(StatusSuccess, "synced")

	if c.queue.Len() > 0 {
		c.scheduleFlushLocked()
	}
	return nil
}

func (c *Core) flushFailedLocked(cause error) error {
	c.mode = ModeDegraded
	err := newError(CodeSyncFailure, c.activeName, "flush failed, changes kept in memory", cause)
	c.logger.Error("flush failed", "database", c.activeName, "pending", c.queue.Len(), "error", cause)
	c.status(StatusError, err.Message)
	return err
}

// imageWrites derives the image side writes from a batch: original blobs
// to store for add/update actions carrying data, and blob deletions for
// remove markers and deleted events. Later actions for the same event win.
func imageWrites(batch []action.Action) (map[string][]byte, []string) {
	puts := map[string][]byte{}
	drop := map[string]bool{}

	addPut := func(id string, data []byte) {
		puts[id] = data
		delete(drop, id)
	}
	addDrop := func(id string) {
		delete(puts, id)
		drop[id] = true
	}

	for _, a := range batch {
		switch v := a.(type) {
		case action.AddEvent:
			if len(v.ImageData) > 0 {
				addPut(v.Event.ID, v.ImageData)
			}
		case action.UpdateEvent:
			if len(v.ImageData) > 0 {
				addPut(v.Event.ID, v.ImageData)
			} else if v.RemoveImage {
				addDrop(v.Event.ID)
			}
		case action.DeleteEvent:
			addDrop(v.EventID)
		}
	}

	drops := make([]string, 0, len(drop))
	for id := range drop {
		drops = append(drops, id)
	}
	sort.Strings(drops)
	return puts, drops
}
