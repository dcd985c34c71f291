package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

var ErrIndexInvalid = errors.New("storage: index requires a name and at least one column")

// Index describes a secondary index. Columns may carry a sort direction,
// e.g. "created_at DESC". Where turns the index into a partial (sparse) one.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
	Where   string
}

// IndexCreator creates one index on the table of model.
type IndexCreator interface {
	CreateIndex(ctx context.Context, model any, index Index) error
}

// BunIndexCreator creates indexes with bun. Existing indexes are left alone.
type BunIndexCreator struct {
	DB bun.IDB
}

var _ IndexCreator = BunIndexCreator{}

func (c BunIndexCreator) CreateIndex(ctx context.Context, model any, index Index) error {
	if strings.TrimSpace(index.Name) == "" || len(index.Columns) == 0 {
		return ErrIndexInvalid
	}
	query := c.DB.NewCreateIndex().
		Model(model).
		Index(index.Name).
		IfNotExists()
	for _, column := range index.Columns {
		query = query.ColumnExpr(column)
	}
	if index.Unique {
		query = query.Unique()
	}
	if index.Where != "" {
		query = query.Where(index.Where)
	}
	_, err := query.Exec(ctx)
	return err
}

// EnsureIndexes creates indexes one after another and stops at the first
// failure, so later indexes are never attempted.
func EnsureIndexes(ctx context.Context, creator IndexCreator, model any, indexes ...Index) error {
	for _, index := range indexes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := creator.CreateIndex(ctx, model, index); err != nil {
			return fmt.Errorf("storage: create index %s: %w", index.Name, err)
		}
	}
	return nil
}

// EnsureTable creates the table of model when it is missing.
func EnsureTable(ctx context.Context, db bun.IDB, model any) error {
	_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
	return err
}
