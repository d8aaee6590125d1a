// Package config loads and stores CLI configuration in the XDG config dir.
// Settings come from config.yaml, overridden by SQLBLOCK_* environment variables
// (dots become underscores: programs.sqlite -> SQLBLOCK_PROGRAMS_SQLITE).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"sqlblock/cli/internal/dsn"
	"sqlblock/cli/internal/xdg"
)

// FileName is the config file name inside the XDG config dir.
const FileName = "config.yaml"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "SQLBLOCK"

// Formats lists the accepted output formats.
var Formats = []string{"org", "table", "json", "yaml"}

// Config holds the CLI settings.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	LogJSON  bool          `mapstructure:"log_json"`
	Format   string        `mapstructure:"format"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Programs Programs      `mapstructure:"programs"`
}

// Programs names the client binary of each engine.
type Programs struct {
	SQLite     string `mapstructure:"sqlite"`
	DuckDB     string `mapstructure:"duckdb"`
	PostgreSQL string `mapstructure:"postgresql"`
}

// For returns the configured program of an engine.
func (p Programs) For(engine dsn.Engine) string {
	switch engine {
	case dsn.EngineDuckDB:
		return p.DuckDB
	case dsn.EnginePostgreSQL:
		return p.PostgreSQL
	default:
		return p.SQLite
	}
}

// Map returns the programs keyed by engine.
func (p Programs) Map() map[dsn.Engine]string {
	return map[dsn.Engine]string{
		dsn.EngineSQLite:     p.SQLite,
		dsn.EngineDuckDB:     p.DuckDB,
		dsn.EnginePostgreSQL: p.PostgreSQL,
	}
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Format:   "org",
		Programs: Programs{
			SQLite:     "sqlite3",
			DuckDB:     "duckdb",
			PostgreSQL: "psql",
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads configuration; a missing file yields defaults plus environment overrides.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(p)
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	v := newViper()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values the CLI cannot fall back from.
func (c Config) Validate() error {
	if !ValidFormat(c.Format) {
		return fmt.Errorf("invalid format %q: use one of %s", c.Format, strings.Join(Formats, ", "))
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s: must not be negative", c.Timeout)
	}
	return nil
}

// ValidFormat reports whether f is an accepted output format.
func ValidFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(c, p)
}

// SaveFile writes configuration to an explicit path.
func SaveFile(c Config, path string) error {
	v := viper.New()
	v.Set("log_level", c.LogLevel)
	v.Set("log_json", c.LogJSON)
	v.Set("format", c.Format)
	v.Set("timeout", c.Timeout.String())
	v.Set("programs.sqlite", c.Programs.SQLite)
	v.Set("programs.duckdb", c.Programs.DuckDB)
	v.Set("programs.postgresql", c.Programs.PostgreSQL)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return os.Chmod(path, 0o600)
}

func newViper() *viper.Viper {
	d := Defaults()
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_json", d.LogJSON)
	v.SetDefault("format", d.Format)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("programs.sqlite", d.Programs.SQLite)
	v.SetDefault("programs.duckdb", d.Programs.DuckDB)
	v.SetDefault("programs.postgresql", d.Programs.PostgreSQL)
	return v
}
