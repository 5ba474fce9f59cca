package model

import "time"

// ExportVersion is the current snapshot document version.
const ExportVersion = 1

// ExportDocument is the JSON interchange shape for a snapshot. Dates are
// RFC 3339 strings on the wire (time.Time's default JSON encoding).
type ExportDocument struct {
	Version    int        `json:"version"`
	ExportedAt time.Time  `json:"exportedAt"`
	Data       ExportData `json:"data"`
}

// ExportData carries the four snapshot collections.
type ExportData struct {
	Events           []Event           `json:"events"`
	Tags             []string          `json:"tags"`
	StepTemplates    []StepTemplate    `json:"stepTemplates"`
	StepSetTemplates []StepSetTemplate `json:"stepSetTemplates"`
}

// NewExportDocument wraps a snapshot for export. The snapshot is deep-copied
// so later mutations do not leak into a document the caller is still holding.
func NewExportDocument(s Snapshot, exportedAt time.Time) ExportDocument {
	c := s.Clone()
	return ExportDocument{
		Version:    ExportVersion,
		ExportedAt: exportedAt,
		Data: ExportData{
			Events:           c.Events,
			Tags:             c.Tags,
			StepTemplates:    c.StepTemplates,
			StepSetTemplates: c.StepSetTemplates,
		},
	}
}
