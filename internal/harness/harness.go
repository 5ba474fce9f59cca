package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/trailhead-app/trailhead/internal/action"
	"github.com/trailhead-app/trailhead/internal/core"
	"github.com/trailhead-app/trailhead/internal/model"
	"github.com/trailhead-app/trailhead/internal/store"
	"github.com/trailhead-app/trailhead/internal/testutil"
)

// TraceEvent records the visible state after one step.
type TraceEvent struct {
	Seq     int      `json:"seq"`
	Op      string   `json:"op"`
	Events  int      `json:"events"`
	Tags    []string `json:"tags"`
	Pending int      `json:"pending"`
	Mode    string   `json:"mode"`
}

// Result is the outcome of a scenario run.
type Result struct {
	Scenario string       `json:"scenario"`
	Trace    []TraceEvent `json:"trace"`

	// Final is the snapshot after the last step, for assertions. Not
	// part of the golden trace.
	Final   model.Snapshot `json:"-"`
	Pending int            `json:"-"`
	Mode    core.Mode      `json:"-"`
}

// Run executes a scenario against a fresh core over dataDir.
//
// Ids are sequential and the clock is frozen, so two runs of the same
// scenario produce identical traces.
func Run(scenario *Scenario, dataDir string) (*Result, error) {
	manager := store.NewManager(dataDir)
	clock := testutil.NewFixedClock()

	c, err := core.New(manager,
		core.WithIDGenerator(model.NewSequenceGenerator("h")),
		core.WithClock(clock.Now),
		core.WithSyncDelay(time.Hour),
		core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("scenario %s: start: %w", scenario.Name, err)
	}
	if scenario.Database != "" && scenario.Database != c.ActiveDatabase() {
		if err := c.SwitchDatabase(ctx, scenario.Database, true); err != nil {
			return nil, fmt.Errorf("scenario %s: activate %s: %w", scenario.Name, scenario.Database, err)
		}
	}

	result := &Result{Scenario: scenario.Name}
	for i, step := range scenario.Steps {
		if err := runStep(ctx, c, step); err != nil {
			return nil, fmt.Errorf("scenario %s: step %d (%s): %w", scenario.Name, i+1, step.Op, err)
		}
		snap := c.Snapshot()
		result.Trace = append(result.Trace, TraceEvent{
			Seq:     i + 1,
			Op:      step.Op,
			Events:  len(snap.Events),
			Tags:    snap.Tags,
			Pending: c.PendingActions(),
			Mode:    c.Mode().String(),
		})
	}

	result.Final = c.Snapshot()
	result.Pending = c.PendingActions()
	result.Mode = c.Mode()
	return result, nil
}

func runStep(ctx context.Context, c *core.Core, step Step) error {
	switch step.Op {
	case "add-event":
		e := model.Event{
			ID:          c.NewID(),
			Title:       step.Title,
			Description: step.Description,
			CreatedAt:   c.Now(),
			Tags:        step.Tags,
		}
		for _, desc := range step.Steps {
			e.Steps = append(e.Steps, model.ProgressStep{
				ID:          c.NewID(),
				Description: desc,
				Timestamp:   c.Now(),
			})
		}
		return c.Submit(action.AddEvent{Event: e})

	case "update-event":
		e, err := findByTitle(c, step.Target)
		if err != nil {
			return err
		}
		if step.Title != "" {
			e.Title = step.Title
		}
		if step.Description != "" {
			e.Description = step.Description
		}
		return c.Submit(action.UpdateEvent{Event: e})

	case "delete-event":
		e, err := findByTitle(c, step.Target)
		if err != nil {
			return err
		}
		return c.Submit(action.DeleteEvent{EventID: e.ID})

	case "complete-step":
		e, err := findByTitle(c, step.Target)
		if err != nil {
			return err
		}
		if step.Index < 0 || step.Index >= len(e.Steps) {
			return fmt.Errorf("event %q has no step %d", step.Target, step.Index)
		}
		e.Steps[step.Index].Completed = true
		e.Steps[step.Index].Timestamp = c.Now()
		return c.Submit(action.UpdateEventSteps{EventID: e.ID, Steps: e.Steps})

	case "add-tag":
		return c.Submit(action.AddTag{Name: step.Name})
	case "delete-tags":
		return c.Submit(action.DeleteTags{Names: step.Names})
	case "rename-tag":
		return c.Submit(action.RenameTag{Old: step.Old, New: step.New})
	case "reorder-tags":
		return c.Submit(action.ReorderTags{Names: step.Names})

	case "create-db":
		return c.CreateDatabase(step.DB)
	case "switch":
		return c.SwitchDatabase(ctx, step.DB, step.Discard)
	case "flush":
		return c.Flush(ctx)

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

// findByTitle resolves an event by its current title. Returns a clone safe
// to mutate before submitting.
func findByTitle(c *core.Core, title string) (model.Event, error) {
	snap := c.Snapshot()
	for _, e := range snap.Events {
		if e.Title == title {
			return e.Clone(), nil
		}
	}
	return model.Event{}, fmt.Errorf("no event titled %q", title)
}
