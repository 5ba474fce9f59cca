package core

import (
	"encoding/json"
	"fmt"

	"github.com/trailhead-app/trailhead/internal/model"
)

// ExportSnapshot wraps the effective in-memory state in an interchange
// document. Queued unsynced actions are included - the export reflects
// what the user sees, not only what has reached disk.
func (c *Core) ExportSnapshot() model.ExportDocument {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.NewExportDocument(c.snapshot, c.now())
}

// ExportJSON renders the export document as indented JSON.
func (c *Core) ExportJSON() ([]byte, error) {
	doc := c.ExportSnapshot()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export document: %w", err)
	}
	return data, nil
}
