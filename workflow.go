package workflow

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/commands"
	"github.com/goliatone/go-cms-workflow/internal/commits"
	"github.com/goliatone/go-cms-workflow/internal/di"
	"github.com/goliatone/go-cms-workflow/internal/docs"
	"github.com/goliatone/go-cms-workflow/internal/ids"
	"github.com/goliatone/go-cms-workflow/internal/joins"
	"github.com/goliatone/go-cms-workflow/internal/locales"
	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/internal/sessionbridge"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

type (
	Doc    = docs.Doc
	Locale = locales.Locale
	Join   = joins.Join
	Commit = commits.Commit
)

// ErrDocRequired is returned when SaveDoc receives a nil doc.
var ErrDocRequired = errors.New("workflow: doc is required")

// BaseExcludeProperties are never compared or propagated between locales.
// Permissions are propagated separately and search fields are derived.
var BaseExcludeProperties = []string{
	"_id",
	"path",
	"rank",
	"level",
	"createdAt",
	"updatedAt",
	"lowSearchText",
	"highSearchText",
	"highSearchWords",
	"searchSummary",
	"docPermissions",
	"loginRequired",
	"viewUsersIds",
	"viewGroupsIds",
	"editUsersIds",
	"editGroupsIds",
	"viewUsersRelationships",
	"viewGroupsRelationships",
	"editUsersRelationships",
	"editGroupsRelationships",
	"applyLoginRequiredToSubpages",
	"viewUsersRemovedIds",
	"viewGroupsRemovedIds",
	"editUsersRemovedIds",
	"editGroupsRemovedIds",
	"advisoryLock",
}

// ContextProjection lists the doc fields needed to describe the doc a
// request is looking at.
var ContextProjection = []string{"title", "slug", "path", "workflowLocale", "tags", "type"}

// ClientOptions is the per request snapshot handed to browser code.
type ClientOptions struct {
	ContextGuid   string            `json:"contextGuid,omitempty"`
	Locales       map[string]Locale `json:"locales"`
	Locale        string            `json:"locale"`
	NestedLocales []Locale          `json:"nestedLocales"`
	Prefixes      map[string]string `json:"prefixes"`
	Hostnames     map[string]string `json:"hostnames"`
}

// Module is the workflow runtime facade.
type Module struct {
	container         *di.Container
	excludeProperties []string
	logger            interfaces.Logger
}

// New validates cfg and builds a module. Locale and prefix errors are fatal.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}

	exclude := slices.Clone(BaseExcludeProperties)
	for _, name := range cfg.ExcludeProperties {
		if trimmed := strings.TrimSpace(name); trimmed != "" && !slices.Contains(exclude, trimmed) {
			exclude = append(exclude, trimmed)
		}
	}

	return &Module{
		container:         container,
		excludeProperties: exclude,
		logger:            logging.IdentityLogger(container.LoggerProvider()),
	}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases connections opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}

// Localized reports whether more than one locale is configured.
func (m *Module) Localized() bool {
	return m.container.Topology().Localized()
}

// ExcludeProperties returns the base list followed by configured extras.
func (m *Module) ExcludeProperties() []string {
	return slices.Clone(m.excludeProperties)
}

// BeforeSave gives a new doc its locale and guid, then prefixes its slug.
// Docs outside the workflow pass through unchanged.
func (m *Module) BeforeSave(doc *Doc, requestedLocale string) {
	if doc == nil {
		return
	}
	m.container.Assigner().EnsureLocale(doc, requestedLocale)
	m.container.Prefixer().Apply(doc)
	doc.EnsurePathIndex()

	if doc.WorkflowNew {
		logging.WithDocContext(m.logger, doc.Type, doc.WorkflowGuid, doc.WorkflowLocale).
			Debug("identity.assigned")
	}
}

// SaveDoc runs BeforeSave and persists the doc. Docs without an id are
// inserted under the stable id of their (guid, locale) variant, the rest
// updated.
func (m *Module) SaveDoc(ctx context.Context, doc *Doc, requestedLocale string) (*Doc, error) {
	if doc == nil {
		return nil, ErrDocRequired
	}
	isNew := doc.ID == uuid.Nil
	m.BeforeSave(doc, requestedLocale)
	repo := m.container.DocRepository()
	if isNew {
		doc.ID = ids.VariantUUID(doc.WorkflowGuid, doc.WorkflowLocale)
		return repo.Create(ctx, doc)
	}
	return repo.Update(ctx, doc)
}

// GetDoc loads a doc by id.
func (m *Module) GetDoc(ctx context.Context, id uuid.UUID) (*Doc, error) {
	return m.container.DocRepository().Get(ctx, id)
}

// FindJoins returns the forward relationships of doc whose targets take part
// in the workflow.
func (m *Module) FindJoins(doc *Doc) []Join {
	return m.container.Scanner().FindJoins(doc)
}

// RecordCommit appends a propagation event to the ledger.
func (m *Module) RecordCommit(ctx context.Context, msg commands.RecordCommit) error {
	return m.container.RecordCommit().Execute(ctx, msg)
}

// Commits returns the ledger entries of one logical doc, newest first.
func (m *Module) Commits(ctx context.Context, workflowGuid string) ([]*Commit, error) {
	return m.container.Ledger().ListByGuid(ctx, workflowGuid)
}

// ResolveLocale picks the locale for a request from its host, path and the
// hint stored in the session.
func (m *Module) ResolveLocale(host, path, hint string) string {
	return m.container.Resolver().Resolve(host, path, hint)
}

// ClientOptions builds the snapshot for a request in locale, looking at the
// doc identified by contextGuid.
func (m *Module) ClientOptions(locale, contextGuid string) ClientOptions {
	topology := m.container.Topology()
	if !topology.Has(locale) {
		locale = topology.DefaultLocale()
	}
	return ClientOptions{
		ContextGuid:   contextGuid,
		Locales:       topology.Locales(),
		Locale:        locale,
		NestedLocales: topology.Nested(),
		Prefixes:      m.container.Prefixes().Map(),
		Hostnames:     m.container.Resolver().Hostnames(),
	}
}

// SessionBridge returns the cross domain session bridge.
func (m *Module) SessionBridge() *sessionbridge.Bridge {
	return m.container.Bridge()
}
