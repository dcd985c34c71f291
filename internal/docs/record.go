package docs

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is the stored form of a Doc. The path index locale is NULL for
// docs that are not path addressable so the sparse unique index skips them.
type Record struct {
	bun.BaseModel `bun:"table:workflow_docs,alias:wd"`

	ID                         uuid.UUID      `bun:",pk,type:uuid" json:"_id"`
	Type                       string         `bun:"type,notnull" json:"type"`
	Title                      string         `bun:"title" json:"title"`
	Slug                       string         `bun:"slug" json:"slug"`
	WorkflowLocale             string         `bun:"workflow_locale" json:"workflowLocale,omitempty"`
	WorkflowGuid               string         `bun:"workflow_guid" json:"workflowGuid,omitempty"`
	WorkflowLocaleForPathIndex string         `bun:"workflow_locale_for_path_index,nullzero" json:"workflowLocaleForPathIndex,omitempty"`
	Fields                     map[string]any `bun:"fields,type:jsonb" json:"fields,omitempty"`
	CreatedAt                  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt                  time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// RecordFromDoc copies a doc into its stored form.
func RecordFromDoc(doc *Doc) *Record {
	if doc == nil {
		return nil
	}
	return &Record{
		ID:                         doc.ID,
		Type:                       doc.Type,
		Title:                      doc.Title,
		Slug:                       doc.Slug,
		WorkflowLocale:             doc.WorkflowLocale,
		WorkflowGuid:               doc.WorkflowGuid,
		WorkflowLocaleForPathIndex: doc.WorkflowLocaleForPathIndex,
		Fields:                     maps.Clone(doc.Fields),
	}
}

// Doc converts the record back. Loaded docs are never flagged new.
func (r *Record) Doc() *Doc {
	if r == nil {
		return nil
	}
	return &Doc{
		ID:                         r.ID,
		Type:                       r.Type,
		Title:                      r.Title,
		Slug:                       r.Slug,
		WorkflowLocale:             r.WorkflowLocale,
		WorkflowGuid:               r.WorkflowGuid,
		WorkflowLocaleForPathIndex: r.WorkflowLocaleForPathIndex,
		Fields:                     maps.Clone(r.Fields),
	}
}
