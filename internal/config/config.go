// Package config loads jobdash settings from an optional YAML file and
// JOBDASH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backends accepted by store.backend
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config is the full application configuration
type Config struct {
	Server Server `mapstructure:"server"`
	Store  Store  `mapstructure:"store"`
	View   View   `mapstructure:"view"`
	Log    Log    `mapstructure:"log"`
}

type Server struct {
	Addr string `mapstructure:"addr"`
}

type Store struct {
	Backend      string        `mapstructure:"backend"`
	SQLitePath   string        `mapstructure:"sqlite_path"`
	Fixture      string        `mapstructure:"fixture"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type View struct {
	LatestRuns   int    `mapstructure:"latest_runs"`
	ExplorerHost string `mapstructure:"explorer_host"`
	Timezone     string `mapstructure:"timezone"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Location resolves the configured timezone
func (v View) Location() (*time.Location, error) {
	if v.Timezone == "" || strings.EqualFold(v.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(v.Timezone)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.sqlite_path", "./jobdash.db")
	v.SetDefault("store.fixture", "")
	v.SetDefault("store.fetch_timeout", 10*time.Second)
	v.SetDefault("view.latest_runs", 5)
	v.SetDefault("view.explorer_host", "etherscan.io")
	v.SetDefault("view.timezone", "Local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("JOBDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}
	if c.View.LatestRuns <= 0 {
		errs = append(errs, fmt.Errorf("view.latest_runs must be positive, got %d", c.View.LatestRuns))
	}
	if c.Store.FetchTimeout <= 0 {
		errs = append(errs, errors.New("store.fetch_timeout must be positive"))
	}
	if _, err := c.View.Location(); err != nil {
		errs = append(errs, fmt.Errorf("view.timezone: %w", err))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
