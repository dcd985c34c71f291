package docs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-workflow/internal/adapters/storage"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrDocNotFound indicates no doc is stored under the requested key.
	ErrDocNotFound = errors.New("docs: doc not found")
	// ErrDocIDRequired indicates an update without an id.
	ErrDocIDRequired = errors.New("docs: doc id is required")
)

// Indexes are the secondary indexes the workflow needs on the doc table.
var Indexes = []storage.Index{
	{Name: "workflow_docs_workflow_guid_idx", Columns: []string{"workflow_guid"}},
	{
		Name:    "workflow_docs_locale_path_uniq",
		Columns: []string{"workflow_locale_for_path_index", "slug"},
		Unique:  true,
		Where:   "workflow_locale_for_path_index IS NOT NULL",
	},
}

// Repository loads and stores docs.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Doc, error)
	Create(ctx context.Context, doc *Doc) (*Doc, error)
	Update(ctx context.Context, doc *Doc) (*Doc, error)
	ListByGuid(ctx context.Context, workflowGuid string) ([]*Doc, error)
}

// NewRecordRepository creates the generic repository for doc records.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord:          func() *Record { return &Record{} },
		GetID:              func(r *Record) uuid.UUID { return r.ID },
		SetID:              func(r *Record, id uuid.UUID) { r.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(r *Record) string { return r.ID.String() },
	})
}

// BunRepository implements Repository with optional caching of lookups by id.
type BunRepository struct {
	repo  repository.Repository[*Record]
	query repository.Repository[*Record]
	now   func() time.Time
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository creates a doc repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a doc repository whose id lookups go
// through the cache. List queries always hit the database.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewRecordRepository(db)
	cached := base
	if cacheService != nil && serializer != nil {
		cached = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{
		repo:  cached,
		query: base,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema creates the doc table and its indexes.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if err := storage.EnsureTable(ctx, db, (*Record)(nil)); err != nil {
		return fmt.Errorf("docs: create table: %w", err)
	}
	return storage.EnsureIndexes(ctx, storage.BunIndexCreator{DB: db}, (*Record)(nil), Indexes...)
}

func (r *BunRepository) Get(ctx context.Context, id uuid.UUID) (*Doc, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record.Doc(), nil
}

func (r *BunRepository) Create(ctx context.Context, doc *Doc) (*Doc, error) {
	record := RecordFromDoc(doc)
	if record == nil {
		return nil, ErrDocIDRequired
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := r.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("docs: create: %w", err)
	}
	return created.Doc(), nil
}

func (r *BunRepository) Update(ctx context.Context, doc *Doc) (*Doc, error) {
	record := RecordFromDoc(doc)
	if record == nil || record.ID == uuid.Nil {
		return nil, ErrDocIDRequired
	}
	existing, err := r.repo.GetByID(ctx, record.ID.String())
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = r.now()
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("docs: update: %w", err)
	}
	return updated.Doc(), nil
}

// ListByGuid returns every locale variant of a logical doc, ordered by
// locale.
func (r *BunRepository) ListByGuid(ctx context.Context, workflowGuid string) ([]*Doc, error) {
	records, _, err := r.query.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.workflow_guid = ?", strings.TrimSpace(workflowGuid)).
				OrderExpr("?TableAlias.workflow_locale ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("docs: list: %w", err)
	}
	out := make([]*Doc, 0, len(records))
	for _, record := range records {
		out = append(out, record.Doc())
	}
	return out, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrDocNotFound, key)
	}
	return fmt.Errorf("docs: repository error: %w", err)
}
