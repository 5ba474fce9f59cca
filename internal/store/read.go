package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trailhead-app/trailhead/internal/model"
)

// ReadSnapshot reads all four collections. Events come back in stored
// position order, tags in stored sequence order, templates ordered by id.
// Collections are empty slices (never nil) when no rows exist.
func (s *Store) ReadSnapshot(ctx context.Context) (model.Snapshot, error) {
	snap := model.EmptySnapshot()

	events, err := s.ReadEvents(ctx)
	if err != nil {
		return snap, err
	}
	tags, err := s.ReadTags(ctx)
	if err != nil {
		return snap, err
	}
	templates, err := s.ReadStepTemplates(ctx)
	if err != nil {
		return snap, err
	}
	sets, err := s.ReadStepSetTemplates(ctx)
	if err != nil {
		return snap, err
	}

	snap.Events = events
	snap.Tags = tags
	snap.StepTemplates = templates
	snap.StepSetTemplates = sets
	return snap, nil
}

// ReadEvents returns all events in position order.
func (s *Store) ReadEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM events ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var e model.Event
		if err := json.Unmarshal([]byte(body), &e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ReadEvent returns the event with the given id. The second return is false
// when the id is absent.
func (s *Store) ReadEvent(ctx context.Context, id string) (model.Event, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM events WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, false, nil
	}
	if err != nil {
		return model.Event{}, false, fmt.Errorf("query event %s: %w", id, err)
	}
	var e model.Event
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		return model.Event{}, false, fmt.Errorf("decode event %s: %w", id, err)
	}
	return e, true, nil
}

// ReadTags returns the tag sequence in stored order.
func (s *Store) ReadTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

// ReadStepTemplates returns all step templates ordered by id.
func (s *Store) ReadStepTemplates(ctx context.Context) ([]model.StepTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM step_templates ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query step templates: %w", err)
	}
	defer rows.Close()

	templates := []model.StepTemplate{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan step template: %w", err)
		}
		var t model.StepTemplate
		if err := json.Unmarshal([]byte(body), &t); err != nil {
			return nil, fmt.Errorf("decode step template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate step templates: %w", err)
	}
	return templates, nil
}

// ReadStepSetTemplates returns all step set templates ordered by id.
func (s *Store) ReadStepSetTemplates(ctx context.Context) ([]model.StepSetTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM step_set_templates ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query step set templates: %w", err)
	}
	defer rows.Close()

	sets := []model.StepSetTemplate{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan step set template: %w", err)
		}
		var t model.StepSetTemplate
		if err := json.Unmarshal([]byte(body), &t); err != nil {
			return nil, fmt.Errorf("decode step set template: %w", err)
		}
		sets = append(sets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate step set templates: %w", err)
	}
	return sets, nil
}

// GetImage returns the original image blob for an event. The second return
// is false when no blob is stored.
func (s *Store) GetImage(ctx context.Context, eventID string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM images WHERE event_id = ?`, eventID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query image %s: %w", eventID, err)
	}
	return data, true, nil
}

// GetMeta returns the value for a meta key. The second return is false when
// the key is absent.
func (s *Store) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query meta %s: %w", key, err)
	}
	return value, true, nil
}
