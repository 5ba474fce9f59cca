package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trailhead-app/trailhead/internal/model"
)

// Meta keys used by the settings database.
const (
	metaSettings       = "settings"
	metaActiveDatabase = "active_database"
)

// SettingsFile is the file name of the dedicated settings database. It does
// not carry the data-database prefix, so discovery never lists it.
const SettingsFile = "settings.db"

// SettingsStore persists global user settings and the last-active database
// preference, independent of any data database.
type SettingsStore struct {
	store *Store
}

// OpenSettings opens (or creates) the settings database via the manager.
func OpenSettings(m *Manager) (*SettingsStore, error) {
	s, err := m.Open(SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	return &SettingsStore{store: s}, nil
}

// Load returns the persisted settings, or defaults when none were saved yet.
func (s *SettingsStore) Load(ctx context.Context) (model.Settings, error) {
	raw, ok, err := s.store.GetMeta(ctx, metaSettings)
	if err != nil {
		return model.DefaultSettings(), err
	}
	if !ok {
		return model.DefaultSettings(), nil
	}
	var out model.Settings
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return model.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	return out, nil
}

// Save persists the settings.
func (s *SettingsStore) Save(ctx context.Context, settings model.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return s.store.SetMeta(ctx, metaSettings, string(raw))
}

// ActiveDatabase returns the persisted last-active database name, or ""
// when none is recorded (fresh install, or last session ended volatile).
func (s *SettingsStore) ActiveDatabase(ctx context.Context) (string, error) {
	name, _, err := s.store.GetMeta(ctx, metaActiveDatabase)
	return name, err
}

// SetActiveDatabase records the last-active database preference. An empty
// name clears it - volatile mode is never persisted as last active.
func (s *SettingsStore) SetActiveDatabase(ctx context.Context, name string) error {
	return s.store.SetMeta(ctx, metaActiveDatabase, name)
}
