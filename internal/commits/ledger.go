package commits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-workflow/internal/adapters/storage"
	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrIndexSetup indicates the ledger could not create its indexes. The
	// ledger is unusable without them.
	ErrIndexSetup = errors.New("commits: ledger index setup failed")
	// ErrCommitInvalid indicates a commit lacks its from id, to id or guid.
	ErrCommitInvalid = errors.New("commits: fromId, toId and workflowGuid are required")
)

// Indexes are created in this order when the ledger opens.
var Indexes = []storage.Index{
	{Name: "workflow_commits_created_at_idx", Columns: []string{"created_at DESC"}},
	{Name: "workflow_commits_from_id_idx", Columns: []string{"from_id"}},
	{Name: "workflow_commits_to_id_idx", Columns: []string{"to_id"}},
	{Name: "workflow_commits_workflow_guid_idx", Columns: []string{"workflow_guid"}},
}

// Ledger is the permanent, insert only log of propagation events. It is
// kept apart from version history and is safe for concurrent use.
type Ledger struct {
	repo   repository.Repository[*Commit]
	now    func() time.Time
	logger interfaces.Logger
}

type openOptions struct {
	creator storage.IndexCreator
	now     func() time.Time
	logger  interfaces.Logger
}

// Option configures the ledger.
type Option func(*openOptions)

// WithIndexCreator overrides how indexes are created.
func WithIndexCreator(creator storage.IndexCreator) Option {
	return func(o *openOptions) {
		if creator != nil {
			o.creator = creator
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *openOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the ledger logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *openOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewRepository creates the generic repository backing the ledger.
func NewRepository(db *bun.DB) repository.Repository[*Commit] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Commit]{
		NewRecord:          func() *Commit { return &Commit{} },
		GetID:              func(c *Commit) uuid.UUID { return c.ID },
		SetID:              func(c *Commit, id uuid.UUID) { c.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(c *Commit) string { return c.ID.String() },
	})
}

// Open prepares the ledger table and its indexes. Indexes are created one at
// a time and the first failure aborts the open.
func Open(ctx context.Context, db *bun.DB, opts ...Option) (*Ledger, error) {
	options := openOptions{
		creator: storage.BunIndexCreator{DB: db},
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	if err := storage.EnsureTable(ctx, db, (*Commit)(nil)); err != nil {
		return nil, fmt.Errorf("commits: create table: %w", err)
	}
	if err := storage.EnsureIndexes(ctx, options.creator, (*Commit)(nil), Indexes...); err != nil {
		options.logger.Error("commits.index_setup_failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrIndexSetup, err)
	}
	options.logger.Debug("commits.ledger_ready", "indexes", len(Indexes))

	return &Ledger{
		repo:   NewRepository(db),
		now:    options.now,
		logger: options.logger,
	}, nil
}

// Append inserts a commit. A missing id or timestamp is filled in.
func (l *Ledger) Append(ctx context.Context, commit *Commit) (*Commit, error) {
	if commit == nil {
		return nil, ErrCommitInvalid
	}
	commit.FromID = strings.TrimSpace(commit.FromID)
	commit.ToID = strings.TrimSpace(commit.ToID)
	commit.WorkflowGuid = strings.TrimSpace(commit.WorkflowGuid)
	if commit.FromID == "" || commit.ToID == "" || commit.WorkflowGuid == "" {
		return nil, ErrCommitInvalid
	}
	if commit.ID == uuid.Nil {
		commit.ID = uuid.New()
	}
	if commit.CreatedAt.IsZero() {
		commit.CreatedAt = l.now()
	}

	record, err := l.repo.Create(ctx, commit)
	if err != nil {
		return nil, fmt.Errorf("commits: append: %w", err)
	}
	logging.WithFields(l.logger, map[string]any{
		"workflow_guid": record.WorkflowGuid,
		"commit_id":     record.ID.String(),
	}).Debug("commits.appended")
	return record, nil
}

// ListByGuid returns the commits of one logical doc, newest first.
func (l *Ledger) ListByGuid(ctx context.Context, workflowGuid string) ([]*Commit, error) {
	records, _, err := l.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.workflow_guid = ?", strings.TrimSpace(workflowGuid)).
				OrderExpr("?TableAlias.created_at DESC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("commits: list: %w", err)
	}
	return records, nil
}

// ListTo returns the commits whose destination is docID, newest first.
func (l *Ledger) ListTo(ctx context.Context, docID string) ([]*Commit, error) {
	records, _, err := l.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.to_id = ?", strings.TrimSpace(docID)).
				OrderExpr("?TableAlias.created_at DESC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("commits: list: %w", err)
	}
	return records, nil
}
