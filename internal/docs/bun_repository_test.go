package docs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cms-workflow/internal/docs"
	"github.com/goliatone/go-cms-workflow/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func newRepository(t *testing.T, cached bool) (*docs.BunRepository, *bun.DB) {
	t.Helper()
	ctx := context.Background()
	db := testsupport.NewBunDB(t)
	if err := docs.EnsureSchema(ctx, db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if !cached {
		return docs.NewBunRepository(db), db
	}
	cfg := repocache.DefaultConfig()
	cfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	return docs.NewBunRepositoryWithCache(db, cacheSvc, repocache.NewDefaultKeySerializer()), db
}

func TestBunRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	for _, cached := range []bool{false, true} {
		ctx := context.Background()
		repo, _ := newRepository(t, cached)

		doc := &docs.Doc{
			Type:           "page",
			Title:          "About",
			Slug:           "/en/about",
			WorkflowLocale: "en-draft",
			WorkflowGuid:   "guid-1",
			WorkflowNew:    true,
			Fields:         map[string]any{"body": "hello"},
		}
		doc.EnsurePathIndex()

		created, err := repo.Create(ctx, doc)
		if err != nil {
			t.Fatalf("create (cached=%v): %v", cached, err)
		}
		if created.ID == uuid.Nil {
			t.Fatalf("expected id to be assigned")
		}

		loaded, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if loaded.WorkflowNew {
			t.Fatalf("loaded docs are not new")
		}
		if loaded.WorkflowLocaleForPathIndex != "en-draft" || loaded.Fields["body"] != "hello" {
			t.Fatalf("unexpected loaded doc %+v", loaded)
		}

		loaded.Title = "About us"
		updated, err := repo.Update(ctx, loaded)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Title != "About us" {
			t.Fatalf("update not applied: %+v", updated)
		}
	}
}

func TestBunRepositoryPathIndexIsSparseAndUnique(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, _ := newRepository(t, false)

	page := func() *docs.Doc {
		d := &docs.Doc{Type: "page", Slug: "/en/about", WorkflowLocale: "en", WorkflowGuid: uuid.NewString()}
		d.EnsurePathIndex()
		return d
	}
	if _, err := repo.Create(ctx, page()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, page()); err == nil {
		t.Fatalf("expected unique violation for a second page at the same path and locale")
	}

	other := page()
	other.WorkflowLocale = "en-draft"
	other.EnsurePathIndex()
	if _, err := repo.Create(ctx, other); err != nil {
		t.Fatalf("same path in another locale should be allowed: %v", err)
	}

	for i := 0; i < 2; i++ {
		piece := &docs.Doc{Type: "product", Slug: "widget", WorkflowLocale: "en"}
		piece.EnsurePathIndex()
		if _, err := repo.Create(ctx, piece); err != nil {
			t.Fatalf("pieces are outside the sparse index: %v", err)
		}
	}
}

func TestBunRepositoryListByGuid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, _ := newRepository(t, false)
	for _, locale := range []string{"fr", "en", "en-draft"} {
		if _, err := repo.Create(ctx, &docs.Doc{Type: "product", WorkflowLocale: locale, WorkflowGuid: "shared"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := repo.Create(ctx, &docs.Doc{Type: "product", WorkflowLocale: "en", WorkflowGuid: "other"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	variants, err := repo.ListByGuid(ctx, "shared")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{}
	for _, v := range variants {
		got = append(got, v.WorkflowLocale)
	}
	if len(got) != 3 || got[0] != "en" || got[1] != "en-draft" || got[2] != "fr" {
		t.Fatalf("unexpected variants %v", got)
	}
}

func TestBunRepositoryNotFound(t *testing.T) {
	t.Parallel()

	repo, _ := newRepository(t, false)
	if _, err := repo.Get(context.Background(), uuid.New()); !errors.Is(err, docs.ErrDocNotFound) {
		t.Fatalf("expected ErrDocNotFound, got %v", err)
	}
	if _, err := repo.Update(context.Background(), &docs.Doc{Type: "page"}); !errors.Is(err, docs.ErrDocIDRequired) {
		t.Fatalf("expected ErrDocIDRequired, got %v", err)
	}
}
