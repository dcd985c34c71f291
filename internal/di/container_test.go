package di_test

import (
	"context"
	"errors"
	"maps"
	"sync"
	"testing"

	"github.com/goliatone/go-cms-workflow/internal/di"
	"github.com/goliatone/go-cms-workflow/internal/docs"
	"github.com/goliatone/go-cms-workflow/internal/locales"
	"github.com/goliatone/go-cms-workflow/internal/logging/gologger"
	"github.com/goliatone/go-cms-workflow/internal/runtimeconfig"
	"github.com/goliatone/go-cms-workflow/internal/schema"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/goliatone/go-cms-workflow/pkg/testsupport"
	goerrors "github.com/goliatone/go-errors"
)

func baseConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.DefaultLocale = "en"
	cfg.Locales = []runtimeconfig.LocaleConfig{{Name: "en"}, {Name: "fr"}}
	cfg.Prefixes.Auto = true
	return cfg
}

func TestNewContainerWiresServices(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig()
	cfg.Types.Definitions = testsupport.WriteTemp(t, "types.json", `{
		"docs": [{"type": "page", "page": true, "schema": [{"name": "title", "type": "string"}]}]
	}`)

	container, err := di.NewContainer(ctx, cfg, di.WithBunDB(testsupport.NewBunDB(t)))
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}

	if !container.Topology().Localized() {
		t.Fatalf("expected a localized topology")
	}
	if got := container.Prefixes().Map(); !maps.Equal(got, map[string]string{"en": "/en", "fr": "/fr"}) {
		t.Fatalf("prefixes = %v", got)
	}
	if !container.SchemaRegistry().IsPage("page") {
		t.Fatalf("definitions file was not registered")
	}
	if container.Types().Includes("user") {
		t.Fatalf("users must never be managed")
	}

	doc := &docs.Doc{Type: "page", Title: "About"}
	container.Assigner().EnsureLocale(doc, "")
	if doc.WorkflowLocale != "en-draft" {
		t.Fatalf("expected en-draft, got %q", doc.WorkflowLocale)
	}
	container.Prefixer().Apply(doc)
	if doc.Slug != "/en/about" {
		t.Fatalf("slug = %q", doc.Slug)
	}

	saved, err := container.DocRepository().Create(ctx, doc)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := container.DocRepository().Get(ctx, saved.ID); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if container.Ledger() == nil || container.RecordCommit() == nil || container.Bridge() == nil {
		t.Fatalf("expected ledger, record commit handler and bridge")
	}
}

func TestNewContainerRejectsInvalidPrefixes(t *testing.T) {
	cfg := baseConfig()
	cfg.Locales = append(cfg.Locales, runtimeconfig.LocaleConfig{Name: "Not A Slug"})

	_, err := di.NewContainer(context.Background(), cfg, di.WithBunDB(testsupport.NewBunDB(t)))
	if !errors.Is(err, locales.ErrLocaleNotSlug) {
		t.Fatalf("expected ErrLocaleNotSlug, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.Storage.Driver = "oracle"
	if _, err := di.NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestNewContainerUsesSchemaRegistryOverride(t *testing.T) {
	registry := schema.NewRegistry()
	registry.RegisterDoc(schema.DocManager{Type: "article"})

	container, err := di.NewContainer(context.Background(), baseConfig(),
		di.WithBunDB(testsupport.NewBunDB(t)),
		di.WithSchemaRegistry(registry),
	)
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	if _, ok := container.SchemaRegistry().Doc("article"); !ok {
		t.Fatalf("override registry not used")
	}
}

func TestNewContainerLogsDuplicateLocales(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Locales = []runtimeconfig.LocaleConfig{{Name: "en"}, {Name: "en"}}
	cfg.DefaultLocale = "en"

	rec := &recordingProvider{}
	if _, err := di.NewContainer(context.Background(), cfg,
		di.WithBunDB(testsupport.NewBunDB(t)),
		di.WithLoggerProvider(rec),
	); err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}

	entry := rec.find("locales.duplicate")
	if entry == nil {
		t.Fatalf("expected locales.duplicate entry, got %#v", rec.entries)
	}
	if entry.args["locale"] != "en" || entry.fields["module"] != "workflow.locales" {
		t.Fatalf("unexpected entry %#v", entry)
	}
}

func TestNewContainerUsesGoLoggerProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := di.NewContainer(context.Background(), cfg, di.WithBunDB(testsupport.NewBunDB(t)))
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
}

func TestContainerOwnsOpenedDatabase(t *testing.T) {
	cfg := baseConfig()
	cfg.Storage.DSN = testsupport.MemoryDSN()

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	if err := container.DB().Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
	args   map[string]any
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{provider: p, fields: map[string]any{"logger": name}}
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

func (l *recordingLogger) record(level, msg string, args ...any) {
	parsed := map[string]any{}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			parsed[key] = args[i+1]
		}
	}
	l.provider.mu.Lock()
	defer l.provider.mu.Unlock()
	l.provider.entries = append(l.provider.entries, recordedEntry{
		level:  level,
		msg:    msg,
		fields: maps.Clone(l.fields),
		args:   parsed,
	})
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return &recordingLogger{provider: l.provider, fields: merged}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }
