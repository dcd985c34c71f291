package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrLocaleNameRequired        = errors.New("workflow config: every locale needs a name")
	ErrStorageDriverUnknown      = errors.New("workflow config: storage driver is invalid")
	ErrStorageDSNRequired        = errors.New("workflow config: storage dsn is required")
	ErrSessionBridgeCacheUnknown = errors.New("workflow config: session bridge cache is invalid")
	ErrSessionBridgeRedisURL     = errors.New("workflow config: session bridge redis url is required for the redis cache")
	ErrCacheTTLInvalid           = errors.New("workflow config: cache ttl must be positive when the cache is enabled")
	ErrLoggingProviderRequired   = errors.New("workflow config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown    = errors.New("workflow config: logging provider is invalid")
	ErrLoggingLevelInvalid       = errors.New("workflow config: logging level is invalid")
	ErrLoggingFormatInvalid      = errors.New("workflow config: logging format is invalid")
)

// Config aggregates the workflow module settings. It decodes from TOML and
// takes deployment secrets from the environment.
type Config struct {
	DefaultLocale     string              `toml:"default_locale" env:"WORKFLOW_DEFAULT_LOCALE"`
	Locales           []LocaleConfig      `toml:"locales"`
	Prefixes          PrefixesConfig      `toml:"prefixes"`
	Hostnames         map[string]string   `toml:"hostnames"`
	Types             TypesConfig         `toml:"types"`
	ExcludeProperties []string            `toml:"exclude_properties"`
	Storage           StorageConfig       `toml:"storage"`
	Cache             CacheConfig         `toml:"cache"`
	SessionBridge     SessionBridgeConfig `toml:"session_bridge"`
	Server            ServerConfig        `toml:"server"`
	Features          Features            `toml:"features"`
	Logging           LoggingConfig       `toml:"logging"`
}

// LocaleConfig is one node of the configured locale tree.
type LocaleConfig struct {
	Name     string         `toml:"name"`
	Label    string         `toml:"label"`
	Private  bool           `toml:"private"`
	Children []LocaleConfig `toml:"children"`
}

// Validate checks the node and its children.
func (l LocaleConfig) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrLocaleNameRequired
	}
	return validation.ValidateStruct(&l,
		validation.Field(&l.Label, validation.Length(0, 128)),
		validation.Field(&l.Children),
	)
}

// PrefixesConfig enables URL prefixes. Auto derives them from locale names;
// Map assigns them explicitly.
type PrefixesConfig struct {
	Auto bool              `toml:"auto"`
	Map  map[string]string `toml:"map"`
}

// TypesConfig selects which doc types take part in the workflow and where
// their schemas come from.
type TypesConfig struct {
	Include     []string `toml:"include"`
	Exclude     []string `toml:"exclude"`
	Definitions string   `toml:"definitions" env:"WORKFLOW_TYPE_DEFINITIONS"`
}

// StorageConfig selects the database.
type StorageConfig struct {
	Driver       string `toml:"driver" env:"WORKFLOW_STORAGE_DRIVER"`
	DSN          string `toml:"dsn" env:"WORKFLOW_STORAGE_DSN"`
	MaxOpenConns int    `toml:"max_open_conns"`
}

// CacheConfig toggles the doc repository cache.
type CacheConfig struct {
	Enabled bool          `toml:"enabled"`
	TTL     time.Duration `toml:"ttl"`
}

// SessionBridgeConfig configures cross domain session transfer.
type SessionBridgeConfig struct {
	Enabled         bool          `toml:"enabled"`
	Cache           string        `toml:"cache"`
	RedisURL        string        `toml:"redis_url" env:"WORKFLOW_REDIS_URL"`
	KeyPrefix       string        `toml:"key_prefix"`
	TokenTTL        time.Duration `toml:"token_ttl"`
	SessionLifetime time.Duration `toml:"session_lifetime"`
	CookieName      string        `toml:"cookie_name"`
}

// ServerConfig configures workflowd.
type ServerConfig struct {
	Addr         string        `toml:"addr" env:"WORKFLOW_ADDR"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Features toggles optional behaviour.
type Features struct {
	Logger bool `toml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `toml:"provider" env:"WORKFLOW_LOG_PROVIDER"`
	Level     string   `toml:"level" env:"WORKFLOW_LOG_LEVEL"`
	Format    string   `toml:"format"`
	AddSource bool     `toml:"add_source"`
	Focus     []string `toml:"focus"`
}

// DefaultConfig returns a single locale setup on a local sqlite file.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "default",
		Hostnames:     map[string]string{},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file:workflow.db?cache=shared&_fk=1",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		SessionBridge: SessionBridgeConfig{
			Cache:           "memory",
			KeyPrefix:       "workflow:session-token:",
			TokenTTL:        time.Minute,
			SessionLifetime: 24 * time.Hour,
			CookieName:      "workflow_session",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if err := validation.Validate(cfg.Locales); err != nil {
		return fmt.Errorf("%w: %v", ErrLocaleNameRequired, err)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "sqlite", "sqlite3", "postgres", "pgx":
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.SessionBridge.Enabled {
		switch strings.ToLower(strings.TrimSpace(cfg.SessionBridge.Cache)) {
		case "memory", "":
		case "redis":
			if strings.TrimSpace(cfg.SessionBridge.RedisURL) == "" {
				return ErrSessionBridgeRedisURL
			}
		default:
			return fmt.Errorf("%w: %s", ErrSessionBridgeCacheUnknown, cfg.SessionBridge.Cache)
		}
	}
	if err := validation.ValidateStruct(&cfg.Server,
		validation.Field(&cfg.Server.Addr, validation.Required),
		validation.Field(&cfg.Server.ReadTimeout, validation.Min(time.Duration(0))),
		validation.Field(&cfg.Server.WriteTimeout, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("workflow config: server: %w", err)
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
