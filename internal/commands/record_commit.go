package commands

import (
	"context"
	"maps"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-workflow/internal/commits"
	command "github.com/goliatone/go-command"
)

// RecordCommitType identifies RecordCommit messages.
const RecordCommitType = "workflow.commits.record"

// RecordCommit asks for a propagation event to be written to the ledger.
type RecordCommit struct {
	FromID       string
	ToID         string
	WorkflowGuid string
	FromLocale   string
	ToLocale     string
	UserID       string
	Meta         map[string]any
}

func (RecordCommit) Type() string { return RecordCommitType }

func (c RecordCommit) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.FromID, validation.Required),
		validation.Field(&c.ToID, validation.Required),
		validation.Field(&c.WorkflowGuid, validation.Required),
	)
}

// Appender is the part of the ledger the command needs.
type Appender interface {
	Append(ctx context.Context, commit *commits.Commit) (*commits.Commit, error)
}

// NewRecordCommitHandler writes RecordCommit messages to ledger.
func NewRecordCommitHandler(ledger Appender, opts ...HandlerOption[RecordCommit]) *Handler[RecordCommit] {
	fn := command.CommandFunc[RecordCommit](func(ctx context.Context, msg RecordCommit) error {
		_, err := ledger.Append(ctx, &commits.Commit{
			FromID:       msg.FromID,
			ToID:         msg.ToID,
			WorkflowGuid: msg.WorkflowGuid,
			FromLocale:   msg.FromLocale,
			ToLocale:     msg.ToLocale,
			UserID:       msg.UserID,
			Meta:         maps.Clone(msg.Meta),
		})
		return err
	})
	base := []HandlerOption[RecordCommit]{WithOperation[RecordCommit]("commits.record")}
	return NewHandler(fn, append(base, opts...)...)
}
