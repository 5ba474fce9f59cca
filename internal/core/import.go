package core

import (
	_ "embed"
	"encoding/json"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/trailhead-app/trailhead/internal/action"
	"github.com/trailhead-app/trailhead/internal/model"
)

//go:embed schema.cue
var importSchemaCUE string

// ImportSnapshot merges an exported document into the active database.
//
// The raw JSON is validated against the embedded CUE schema first; a
// document that does not fit fails with IMPORT_INVALID and no mutation
// happens. Every identity in the document (events, steps, templates,
// template sets and their steps) is regenerated to avoid collisions with
// existing data, and all timestamps reset to import time. Events and tags
// merge as a union through the normal submit path, so an import during a
// degraded or volatile session queues like any other mutation. Templates
// merge by name/description since imported ids are always fresh.
//
// Returns the number of events imported.
func (c *Core) ImportSnapshot(data []byte) (int, error) {
	if err := validateImport(data); err != nil {
		return 0, err
	}

	var doc model.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, newError(CodeImportInvalid, "", "decode document", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	imported := 0

	for _, name := range doc.Data.Tags {
		a := action.AddTag{Name: name}
		c.queue.Enqueue(a)
		c.snapshot = action.Apply(c.snapshot, []action.Action{a})
	}

	for _, e := range doc.Data.Events {
		fresh := e.Clone()
		fresh.ID = c.idGen.NewID()
		fresh.CreatedAt = now
		for i := range fresh.Steps {
			fresh.Steps[i].ID = c.idGen.NewID()
			fresh.Steps[i].Timestamp = now
		}
		// Imported documents never carry image blobs; the flag would
		// point at a blob that does not exist in this database.
		fresh.HasOriginalImage = false

		a := action.AddEvent{Event: fresh}
		c.queue.Enqueue(a)
		c.snapshot = action.Apply(c.snapshot, []action.Action{a})
		imported++
	}

	c.mergeTemplatesLocked(doc.Data.StepTemplates, doc.Data.StepSetTemplates)
	c.scheduleFlushLocked()
	c.status(StatusSuccess, "import ready")
	return imported, nil
}

// mergeTemplatesLocked unions imported templates into both the snapshot
// and the baseline with fresh ids. Template collections are not covered by
// pending actions; folding them into the baseline means the next flush
// persists them with everything else.
func (c *Core) mergeTemplatesLocked(steps []model.StepTemplate, sets []model.StepSetTemplate) {
	haveStep := make(map[string]bool, len(c.snapshot.StepTemplates))
	for _, t := range c.snapshot.StepTemplates {
		haveStep[t.Description] = true
	}
	for _, t := range steps {
		if haveStep[t.Description] {
			continue
		}
		haveStep[t.Description] = true
		fresh := model.StepTemplate{ID: c.idGen.NewID(), Description: t.Description}
		c.snapshot.StepTemplates = append(c.snapshot.StepTemplates, fresh)
		c.baseline.StepTemplates = append(c.baseline.StepTemplates, fresh)
		c.baselineDirty = true
	}

	haveSet := make(map[string]bool, len(c.snapshot.StepSetTemplates))
	for _, t := range c.snapshot.StepSetTemplates {
		haveSet[t.Name] = true
	}
	for _, t := range sets {
		if haveSet[t.Name] {
			continue
		}
		haveSet[t.Name] = true
		fresh := model.StepSetTemplate{ID: c.idGen.NewID(), Name: t.Name}
		for _, st := range t.Steps {
			fresh.Steps = append(fresh.Steps, model.TemplateStep{ID: c.idGen.NewID(), Description: st.Description})
		}
		c.snapshot.StepSetTemplates = append(c.snapshot.StepSetTemplates, fresh)
		c.baseline.StepSetTemplates = append(c.baseline.StepSetTemplates, fresh)
		c.baselineDirty = true
	}
}

// validateImport unifies the raw JSON with the #Document schema. JSON is a
// subset of CUE, so the document compiles directly.
func validateImport(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(importSchemaCUE)
	if err := schema.Err(); err != nil {
		return newError(CodeImportInvalid, "", "compile schema", err)
	}
	docSchema := schema.LookupPath(cue.ParsePath("#Document"))
	if err := docSchema.Err(); err != nil {
		return newError(CodeImportInvalid, "", "schema missing #Document", err)
	}

	doc := ctx.CompileBytes(data)
	if err := doc.Err(); err != nil {
		return newError(CodeImportInvalid, "", "document is not valid JSON", err)
	}

	unified := docSchema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return newError(CodeImportInvalid, "", "document does not match the snapshot schema", err)
	}
	return nil
}
