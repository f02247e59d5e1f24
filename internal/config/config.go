// Package config loads the jellycache configuration from TOML via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/jellycache/internal/logging"
	"github.com/Nomadcxx/jellycache/internal/paths"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. JELLYCACHE_SERVER_ADDR.
const EnvPrefix = "JELLYCACHE"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls the fingerprint API listener.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// UpstreamConfig describes the streaming server the proxy fronts.
type UpstreamConfig struct {
	URL string `mapstructure:"url"`
}

// DatabaseConfig controls the variant registry.
type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	RecordVariants bool   `mapstructure:"record_variants"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggerConfig converts the logging section for logging.New.
func (l LoggingConfig) LoggerConfig() logging.Config {
	return logging.Config{
		Level:      l.Level,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
	}
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8787",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Upstream: UpstreamConfig{
			URL: "http://localhost:8096",
		},
		Database: DatabaseConfig{
			Path:           "",
			RecordVariants: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/': %q", c.Metrics.Path)
	}
	if _, ok := logging.LookupLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("logging.max_size_mb must be positive, got %d", c.Logging.MaxSizeMB)
	}
	if c.Logging.MaxBackups < 0 {
		return fmt.Errorf("logging.max_backups must not be negative, got %d", c.Logging.MaxBackups)
	}
	return nil
}

// DatabasePath returns the configured registry path or the default one.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	dbPath, err := paths.DatabasePath()
	if err != nil {
		return "./variants.db"
	}
	return dbPath
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults register every key so env overrides apply on Unmarshal.
	d := DefaultConfig()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("upstream.url", d.Upstream.URL)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.record_variants", d.Database.RecordVariants)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load loads configuration from the default path or returns defaults
func Load() (*Config, error) {
	configPath, err := paths.ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from configPath. A missing file is not an
// error; defaults and environment overrides apply.
func LoadFrom(configPath string) (*Config, error) {
	v := newViper(configPath)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	return decode(v)
}

// Watch re-reads configPath whenever it changes on disk and hands the new
// configuration to onChange. Invalid edits are passed as errors and the
// previous configuration stays in effect for the caller.
func Watch(configPath string, onChange func(*Config, error)) error {
	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("cannot watch config: %w", err)
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(decode(v))
	})
	v.WatchConfig()
	return nil
}

// Save writes c to the default config path.
func (c *Config) Save() error {
	configFile, err := paths.ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configFile)
}

// SaveTo writes c as TOML to configFile.
func (c *Config) SaveTo(configFile string) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}
	return os.WriteFile(configFile, []byte(c.ToTOML()), 0644)
}

func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# jellycache configuration
# Generated by: jellycache config init

# ============================================================================
# SERVER
# Fingerprint API listener
# ============================================================================
[server]
addr = %q
cors_origins = %s

# ============================================================================
# UPSTREAM
# Streaming media server the transcoding proxy fronts
# ============================================================================
[upstream]
url = %q

# ============================================================================
# VARIANT REGISTRY
# Records every distinct quality fingerprint seen (empty path = default)
# ============================================================================
[database]
path = %q
record_variants = %v

# ============================================================================
# METRICS
# ============================================================================
[metrics]
enabled = %v
path = %q

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = %q
file = %q
max_size_mb = %d
max_backups = %d
`,
		c.Server.Addr,
		formatStringSlice(c.Server.CORSOrigins),
		c.Upstream.URL,
		c.Database.Path,
		c.Database.RecordVariants,
		c.Metrics.Enabled,
		c.Metrics.Path,
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)
}

func formatStringSlice(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
