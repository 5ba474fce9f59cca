package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trailhead-app/trailhead/internal/model"
)

// ReplaceSnapshot rewrites all four collections and applies image side
// writes in a single transaction: every collection is cleared and
// re-inserted in snapshot order, blobs in putImages are stored keyed by
// event id, and blobs for dropImages ids are deleted. All-or-nothing;
// a failed statement rolls the whole replacement back.
func (s *Store) ReplaceSnapshot(ctx context.Context, snap model.Snapshot, putImages map[string][]byte, dropImages []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, table := range []string{"events", "tags", "step_templates", "step_set_templates"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("replace snapshot: clear %s: %w", table, err)
		}
	}

	for i, e := range snap.Events {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("replace snapshot: encode event %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, position, body) VALUES (?, ?, ?)`,
			e.ID, i, string(body),
		); err != nil {
			return fmt.Errorf("replace snapshot: insert event %s: %w", e.ID, err)
		}
	}

	for i, name := range snap.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags (position, name) VALUES (?, ?)`,
			i, name,
		); err != nil {
			return fmt.Errorf("replace snapshot: insert tag %q: %w", name, err)
		}
	}

	for _, t := range snap.StepTemplates {
		body, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("replace snapshot: encode step template %s: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO step_templates (id, body) VALUES (?, ?)`,
			t.ID, string(body),
		); err != nil {
			return fmt.Errorf("replace snapshot: insert step template %s: %w", t.ID, err)
		}
	}

	for _, t := range snap.StepSetTemplates {
		body, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("replace snapshot: encode step set template %s: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO step_set_templates (id, body) VALUES (?, ?)`,
			t.ID, string(body),
		); err != nil {
			return fmt.Errorf("replace snapshot: insert step set template %s: %w", t.ID, err)
		}
	}

	for eventID, data := range putImages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO images (event_id, data) VALUES (?, ?)
			 ON CONFLICT(event_id) DO UPDATE SET data = excluded.data`,
			eventID, data,
		); err != nil {
			return fmt.Errorf("replace snapshot: put image %s: %w", eventID, err)
		}
	}

	for _, eventID := range dropImages {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM images WHERE event_id = ?`, eventID,
		); err != nil {
			return fmt.Errorf("replace snapshot: drop image %s: %w", eventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace snapshot: commit: %w", err)
	}
	return nil
}

// WriteEvent upserts a single event, appending to the end of the position
// order when the id is new.
func (s *Store) WriteEvent(ctx context.Context, e model.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("write event %s: %w", e.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, position, body)
		VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM events), ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body
	`, e.ID, string(body))
	if err != nil {
		return fmt.Errorf("write event %s: %w", e.ID, err)
	}
	return nil
}

// DeleteEvent removes an event row by id. Missing ids are a no-op.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

// PutImage stores or replaces the original image blob for an event.
func (s *Store) PutImage(ctx context.Context, eventID string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (event_id, data) VALUES (?, ?)
		ON CONFLICT(event_id) DO UPDATE SET data = excluded.data
	`, eventID, data)
	if err != nil {
		return fmt.Errorf("put image %s: %w", eventID, err)
	}
	return nil
}

// DeleteImage removes the original image blob for an event.
func (s *Store) DeleteImage(ctx context.Context, eventID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("delete image %s: %w", eventID, err)
	}
	return nil
}

// SetMeta upserts a meta key.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}
