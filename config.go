package workflow

import "github.com/goliatone/go-cms-workflow/internal/runtimeconfig"

var (
	ErrLocaleNameRequired        = runtimeconfig.ErrLocaleNameRequired
	ErrStorageDriverUnknown      = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired        = runtimeconfig.ErrStorageDSNRequired
	ErrSessionBridgeCacheUnknown = runtimeconfig.ErrSessionBridgeCacheUnknown
	ErrSessionBridgeRedisURL     = runtimeconfig.ErrSessionBridgeRedisURL
	ErrCacheTTLInvalid           = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config              = runtimeconfig.Config
	LocaleConfig        = runtimeconfig.LocaleConfig
	PrefixesConfig      = runtimeconfig.PrefixesConfig
	TypesConfig         = runtimeconfig.TypesConfig
	StorageConfig       = runtimeconfig.StorageConfig
	CacheConfig         = runtimeconfig.CacheConfig
	SessionBridgeConfig = runtimeconfig.SessionBridgeConfig
	ServerConfig        = runtimeconfig.ServerConfig
	Features            = runtimeconfig.Features
	LoggingConfig       = runtimeconfig.LoggingConfig
)

// DefaultConfig returns a single locale setup on a local sqlite file.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a TOML file, applies environment overrides and validates.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
