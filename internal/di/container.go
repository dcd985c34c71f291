package di

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/adapters/noop"
	"github.com/goliatone/go-cms-workflow/internal/adapters/storage"
	"github.com/goliatone/go-cms-workflow/internal/commands"
	"github.com/goliatone/go-cms-workflow/internal/commits"
	"github.com/goliatone/go-cms-workflow/internal/docs"
	"github.com/goliatone/go-cms-workflow/internal/identity"
	"github.com/goliatone/go-cms-workflow/internal/joins"
	"github.com/goliatone/go-cms-workflow/internal/locales"
	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/internal/logging/console"
	"github.com/goliatone/go-cms-workflow/internal/logging/gologger"
	"github.com/goliatone/go-cms-workflow/internal/pages"
	"github.com/goliatone/go-cms-workflow/internal/runtimeconfig"
	"github.com/goliatone/go-cms-workflow/internal/schema"
	"github.com/goliatone/go-cms-workflow/internal/sessionbridge"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

const prefixConfigCode = "WORKFLOW_PREFIX_CONFIG"

// Container wires the workflow services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	bridgeCache   interfaces.CacheProvider
	redisCache    *sessionbridge.RedisCache

	topology *locales.Topology
	prefixes *locales.PrefixRegistry
	resolver *locales.Resolver
	types    schema.TypeFilter
	registry *schema.Registry

	scanner  *joins.Scanner
	assigner *identity.Assigner
	prefixer *pages.Prefixer

	docRepo      docs.Repository
	ledger       *commits.Ledger
	recordCommit *commands.Handler[commands.RecordCommit]
	bridge       *sessionbridge.Bridge
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB uses db instead of opening Config.Storage. The caller keeps
// ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithBridgeCache overrides the cache holding session bridge tokens.
func WithBridgeCache(cache interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.bridgeCache = cache
	}
}

// WithSchemaRegistry uses registry instead of loading Config.Types.Definitions.
func WithSchemaRegistry(registry *schema.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// NewContainer validates cfg and builds every service. Configuration
// errors are fatal and returned before any storage is touched.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureLocales(); err != nil {
		return nil, err
	}
	if err := c.configureSchemas(); err != nil {
		return nil, err
	}
	c.configureHooks()
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	if err := c.configureSessionBridge(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		c.loggerProvider = console.NewProvider(console.Options{
			Level: c.Config.Logging.Level,
			Focus: c.Config.Logging.Focus,
		})
	}
	return nil
}

func (c *Container) configureLocales() error {
	logger := logging.LocalesLogger(c.loggerProvider)

	c.topology = locales.Compose(toLocales(c.Config.Locales), c.Config.DefaultLocale)
	for _, name := range c.topology.Duplicates() {
		logger.Warn("locales.duplicate", "locale", name)
	}

	prefixes, err := locales.NewPrefixRegistry(c.topology, locales.PrefixConfig{
		Auto:     c.Config.Prefixes.Auto,
		Explicit: c.Config.Prefixes.Map,
	})
	if err != nil {
		logger.Error("locales.prefixes_invalid", "error", err)
		return goerrors.Wrap(err, goerrors.CategoryValidation, "workflow prefix configuration is invalid").
			WithTextCode(prefixConfigCode)
	}
	c.prefixes = prefixes
	c.resolver = locales.NewResolver(c.topology, c.prefixes, c.Config.Hostnames)

	logger.Debug("locales.configured",
		"locales", len(c.topology.Names()),
		"localized", c.topology.Localized(),
		"prefixes", len(c.prefixes.Map()),
	)
	return nil
}

func (c *Container) configureSchemas() error {
	c.types = schema.NewTypeFilter(c.Config.Types.Include, c.Config.Types.Exclude)
	if c.registry != nil {
		return nil
	}
	c.registry = schema.NewRegistry()
	path := strings.TrimSpace(c.Config.Types.Definitions)
	if path == "" {
		return nil
	}
	definitions, err := schema.LoadDefinitionsFile(path)
	if err != nil {
		return fmt.Errorf("workflow: type definitions: %w", err)
	}
	definitions.Register(c.registry)
	return nil
}

func (c *Container) configureHooks() {
	c.scanner = joins.NewScanner(c.registry, c.types)
	c.assigner = identity.NewAssigner(c.topology, c.types)
	c.prefixer = pages.NewPrefixer(c.prefixes, c.registry)
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB == nil {
		db, err := storage.Open(storage.Options{
			Driver:       c.Config.Storage.Driver,
			DSN:          c.Config.Storage.DSN,
			MaxOpenConns: c.Config.Storage.MaxOpenConns,
		})
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	if err := docs.EnsureSchema(ctx, c.bunDB); err != nil {
		c.Close()
		return err
	}

	c.configureCacheDefaults()
	if c.cacheService != nil {
		c.docRepo = docs.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		c.docRepo = docs.NewBunRepository(c.bunDB)
	}

	ledger, err := commits.Open(ctx, c.bunDB, commits.WithLogger(logging.CommitsLogger(c.loggerProvider)))
	if err != nil {
		c.Close()
		return err
	}
	c.ledger = ledger
	c.recordCommit = commands.NewRecordCommitHandler(ledger,
		commands.WithLogger[commands.RecordCommit](commands.CommandLogger(c.loggerProvider, "commits")),
	)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			logging.ModuleLogger(c.loggerProvider, "").Warn("cache.unavailable", "error", err)
			return
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureSessionBridge() error {
	cfg := c.Config.SessionBridge
	if c.bridgeCache == nil {
		switch {
		case !cfg.Enabled:
			c.bridgeCache = noop.Cache()
		case strings.EqualFold(strings.TrimSpace(cfg.Cache), "redis"):
			cache, err := sessionbridge.NewRedisCacheFromURL(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("workflow: session bridge redis: %w", err)
			}
			c.redisCache = cache
			c.bridgeCache = cache
		default:
			c.bridgeCache = sessionbridge.NewMemoryCache()
		}
	}

	c.bridge = sessionbridge.New(c.bridgeCache,
		sessionbridge.WithLogger(logging.SessionBridgeLogger(c.loggerProvider)),
		sessionbridge.WithTTL(cfg.TokenTTL),
		sessionbridge.WithKeyPrefix(cfg.KeyPrefix),
	)
	return nil
}

// Close releases the database and redis connections the container opened.
func (c *Container) Close() error {
	var errs []error
	if c.redisCache != nil {
		errs = append(errs, c.redisCache.Close())
		c.redisCache = nil
	}
	if c.ownsDB && c.bunDB != nil {
		errs = append(errs, c.bunDB.Close())
		c.bunDB = nil
	}
	return errors.Join(errs...)
}

func toLocales(configs []runtimeconfig.LocaleConfig) []locales.Locale {
	if len(configs) == 0 {
		return nil
	}
	out := make([]locales.Locale, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, locales.Locale{
			Name:     strings.TrimSpace(cfg.Name),
			Label:    cfg.Label,
			Private:  cfg.Private,
			Children: toLocales(cfg.Children),
		})
	}
	return out
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
func (c *Container) DB() *bun.DB                               { return c.bunDB }
func (c *Container) Topology() *locales.Topology               { return c.topology }
func (c *Container) Prefixes() *locales.PrefixRegistry         { return c.prefixes }
func (c *Container) Resolver() *locales.Resolver               { return c.resolver }
func (c *Container) Types() schema.TypeFilter                  { return c.types }
func (c *Container) SchemaRegistry() *schema.Registry          { return c.registry }
func (c *Container) Scanner() *joins.Scanner                   { return c.scanner }
func (c *Container) Assigner() *identity.Assigner              { return c.assigner }
func (c *Container) Prefixer() *pages.Prefixer                 { return c.prefixer }
func (c *Container) DocRepository() docs.Repository            { return c.docRepo }
func (c *Container) Ledger() *commits.Ledger                   { return c.ledger }
func (c *Container) Bridge() *sessionbridge.Bridge             { return c.bridge }

// RecordCommit is the command handler writing to the ledger.
func (c *Container) RecordCommit() *commands.Handler[commands.RecordCommit] {
	return c.recordCommit
}
