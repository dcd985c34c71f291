package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-workflow/internal/commits"
	"github.com/goliatone/go-cms-workflow/pkg/testsupport"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	goerrors "github.com/goliatone/go-errors"
)

func TestRecordCommitValidate(t *testing.T) {
	if err := (RecordCommit{FromID: "a", ToID: "b"}).Validate(); err == nil {
		t.Fatalf("expected missing workflowGuid to fail")
	}
	if err := (RecordCommit{FromID: "a", ToID: "b", WorkflowGuid: "g"}).Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRecordCommitHandlerAppends(t *testing.T) {
	ctx := context.Background()
	ledger, err := commits.Open(ctx, testsupport.NewBunDB(t))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}

	handler := NewRecordCommitHandler(ledger)
	err = handler.Execute(ctx, RecordCommit{
		FromID:       "doc-en",
		ToID:         "doc-fr",
		WorkflowGuid: "guid-1",
		FromLocale:   "en",
		ToLocale:     "fr",
		Meta:         map[string]any{"fields": []any{"title"}},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	list, err := ledger.ListByGuid(ctx, "guid-1")
	if err != nil {
		t.Fatalf("ListByGuid() error = %v", err)
	}
	if len(list) != 1 || list[0].ToID != "doc-fr" || list[0].ToLocale != "fr" {
		t.Fatalf("unexpected commits %+v", list)
	}
}

func TestRecordCommitHandlerRejectsInvalid(t *testing.T) {
	handler := NewRecordCommitHandler(failingAppender{})
	err := handler.Execute(context.Background(), RecordCommit{FromID: "a"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type failingAppender struct{ attempts *int }

func (f failingAppender) Append(context.Context, *commits.Commit) (*commits.Commit, error) {
	if f.attempts != nil {
		*f.attempts++
		if *f.attempts > 1 {
			return &commits.Commit{}, nil
		}
	}
	return nil, errors.New("ledger unavailable")
}

func TestRecordCommitDispatchRetries(t *testing.T) {
	attempts := 0
	handler := NewRecordCommitHandler(failingAppender{attempts: &attempts})

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), RecordCommit{FromID: "a", ToID: "b", WorkflowGuid: "g"})
	if err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}
