package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	cerrors "pygrade/internal/core/errors"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	History       History       `toml:"history"`
	Watch         Watch         `toml:"watch"`
	Exclude       Exclude       `toml:"exclude"`
	Observability Observability `toml:"observability"`
}

type History struct {
	// Backend selects the log implementation: "json" (default) or "sqlite".
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRunsPerSecond bounds re-analysis churn under editor save storms.
	MaxRunsPerSecond float64 `toml:"max_runs_per_second"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Observability struct {
	// Address for the /metrics and /health endpoints in watch mode.
	// Empty disables the server.
	Address string `toml:"address"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a TOML config; a missing file yields defaults rather than an
// error so the tool runs without any setup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, cerrors.AddContext(
			cerrors.Wrap(err, cerrors.CodeValidationError, "read config"),
			cerrors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, cerrors.AddContext(
			cerrors.Wrap(err, cerrors.CodeValidationError, "decode config"),
			cerrors.CtxPath, path)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.History.Backend == "" {
		c.History.Backend = BackendJSON
	}
	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath(c.History.Backend)
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Watch.MaxRunsPerSecond == 0 {
		c.Watch.MaxRunsPerSecond = 4
	}
	if len(c.Exclude.Dirs) == 0 {
		c.Exclude.Dirs = []string{"**/.git", "**/__pycache__", "**/.venv", "**/venv"}
	}
}

func (c *Config) validate() error {
	switch c.History.Backend {
	case BackendJSON, BackendSQLite:
		return nil
	default:
		return cerrors.New(cerrors.CodeValidationError,
			"history.backend must be \"json\" or \"sqlite\"")
	}
}

func defaultHistoryPath(backend string) string {
	if backend == BackendSQLite {
		return "history.db"
	}
	return "history.json"
}
