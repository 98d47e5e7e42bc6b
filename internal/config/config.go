package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its config file.
const DefaultPath = "gestor.yaml"

// Storage backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config represents the top-level gestor.yaml configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Charts     ChartsConfig     `yaml:"charts"`
	Web        WebConfig        `yaml:"web"`
	Log        LogConfig        `yaml:"log"`
	Git        GitConfig        `yaml:"git"`
	Categories CategoriesConfig `yaml:"categories"`
	Import     ImportConfig     `yaml:"import"`
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Backend    string `yaml:"backend"` // csv or sqlite
	DataDir    string `yaml:"data_dir"`
	FilePrefix string `yaml:"file_prefix"`
	SQLitePath string `yaml:"sqlite_path"`
}

// ChartsConfig controls where and how large charts are drawn.
type ChartsConfig struct {
	Dir    string `yaml:"dir"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// WebConfig configures the web front end.
type WebConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// CategoriesConfig names the categories used when none is given.
type CategoriesConfig struct {
	IncomeDefault  string `yaml:"income_default"`
	ExpenseDefault string `yaml:"expense_default"`
}

// ImportConfig controls bank CSV imports.
type ImportConfig struct {
	Format   string `yaml:"format"`
	Category string `yaml:"category"`
}

// Load reads a gestor.yaml file from disk. Unset keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, returning Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:    BackendCSV,
			DataDir:    "data",
			FilePrefix: "data_",
			SQLitePath: "data/gestor.db",
		},
		Charts: ChartsConfig{
			Dir:    "graficas",
			Width:  60,
			Height: 14,
		},
		Web: WebConfig{
			Addr: "127.0.0.1:5000",
		},
		Log: LogConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "gestor",
			AuthorEmail: "gestor@localhost",
		},
		Categories: CategoriesConfig{
			IncomeDefault:  "Correcciones",
			ExpenseDefault: "Otros",
		},
		Import: ImportConfig{
			Format:   "chase",
			Category: "Otros",
		},
	}
}

// Validate checks values that have a fixed set of choices.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendCSV, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want csv or sqlite)", c.Storage.Backend)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir must not be empty")
	}
	return nil
}

// ApplyEnv overrides fields from GESTOR_* environment variables.
func (c *Config) ApplyEnv() error {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set("GESTOR_BACKEND", &c.Storage.Backend)
	set("GESTOR_DATA_DIR", &c.Storage.DataDir)
	set("GESTOR_SQLITE_PATH", &c.Storage.SQLitePath)
	set("GESTOR_CHARTS_DIR", &c.Charts.Dir)
	set("GESTOR_WEB_ADDR", &c.Web.Addr)
	set("GESTOR_LOG_LEVEL", &c.Log.Level)

	if v, ok := os.LookupEnv("GESTOR_GIT_AUTO_COMMIT"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GESTOR_GIT_AUTO_COMMIT: %w", err)
		}
		c.Git.AutoCommit = b
	}
	return c.Validate()
}

// ResolvePaths makes relative storage and chart paths relative to baseDir,
// normally the directory holding the config file.
func (c *Config) ResolvePaths(baseDir string) {
	for _, p := range []*string{&c.Storage.DataDir, &c.Storage.SQLitePath, &c.Charts.Dir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
}
