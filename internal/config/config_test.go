package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8787", cfg.Server.Addr)
	assert.True(t, cfg.Database.RecordVariants)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }},
		{"bad metrics path", func(c *Config) { c.Metrics.Path = "metrics" }},
		{"bad level", func(c *Config) { c.Logging.Level = "chatty" }},
		{"zero size", func(c *Config) { c.Logging.MaxSizeMB = 0 }},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:9999"
	cfg.Server.CORSOrigins = []string{"http://a.local", "http://b.local"}
	cfg.Upstream.URL = "http://jellyfin.lan:8096"
	cfg.Database.Path = "/tmp/variants.db"
	cfg.Database.RecordVariants = false
	cfg.Logging.Level = "debug"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("JELLYCACHE_SERVER_ADDR", ":7000")
	t.Setenv("JELLYCACHE_LOGGING_LEVEL", "warn")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"loud\"\n"), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Path = "/data/v.db"
	assert.Equal(t, "/data/v.db", cfg.DatabasePath())

	cfg.Database.Path = ""
	assert.Contains(t, cfg.DatabasePath(), "variants.db")
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "absent.toml"), func(*Config, error) {})
	assert.Error(t, err)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, DefaultConfig().SaveTo(path))

	changes := make(chan *Config, 16)
	require.NoError(t, Watch(path, func(c *Config, err error) {
		if err != nil {
			return
		}
		select {
		case changes <- c:
		default:
		}
	}))

	updated := DefaultConfig()
	updated.Logging.Level = "debug"
	require.NoError(t, updated.SaveTo(path))

	// A truncating write can surface intermediate states first.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.Logging.Level == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
