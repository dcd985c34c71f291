package commits

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Commit records one propagation of a doc from one locale variant to
// another. Commits are only ever inserted.
type Commit struct {
	bun.BaseModel `bun:"table:workflow_commits,alias:wc"`

	ID           uuid.UUID      `bun:",pk,type:uuid" json:"_id"`
	CreatedAt    time.Time      `bun:"created_at,notnull" json:"createdAt"`
	FromID       string         `bun:"from_id,notnull" json:"fromId"`
	ToID         string         `bun:"to_id,notnull" json:"toId"`
	WorkflowGuid string         `bun:"workflow_guid,notnull" json:"workflowGuid"`
	FromLocale   string         `bun:"from_locale" json:"fromLocale,omitempty"`
	ToLocale     string         `bun:"to_locale" json:"toLocale,omitempty"`
	UserID       string         `bun:"user_id" json:"userId,omitempty"`
	Meta         map[string]any `bun:"meta,type:jsonb" json:"meta,omitempty"`
}
