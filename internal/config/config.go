package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tayloree/storefront-catalog/internal/catalog"
	"gopkg.in/yaml.v3"
)

const (
	defaultPageSize     = 20
	defaultHistoryLimit = 20
	defaultLogLevel     = "warn"
)

// Config holds all storecli configuration.
type Config struct {
	// Catalog source; a file wins over a URL.
	CatalogURL  string `yaml:"catalog_url"`
	CatalogFile string `yaml:"catalog_file"`

	PageSize int `yaml:"page_size"`

	// Search history
	HistoryPath  string `yaml:"history_path"`
	HistoryLimit int    `yaml:"history_limit"`

	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	PriceRanges []PriceRangeConfig `yaml:"price_ranges"`
}

// PriceRangeConfig is one configured price filter. Omit max for an open
// ended range.
type PriceRangeConfig struct {
	ID    string   `yaml:"id"`
	Min   float64  `yaml:"min"`
	Max   *float64 `yaml:"max"`
	Label string   `yaml:"label"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		PageSize:     defaultPageSize,
		HistoryPath:  filepath.Join(defaultDir(), "history.json"),
		HistoryLimit: defaultHistoryLimit,
		LogLevel:     defaultLogLevel,
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.yaml")
}

func defaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storecli")
	}
	return ".storecli"
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = defaultHistoryLimit
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Validate checks the configured price ranges.
func (c *Config) Validate() error {
	return catalog.ValidatePriceRanges(c.Ranges())
}

// SetRanges replaces the configured price ranges with ranges.
func (c *Config) SetRanges(ranges []catalog.PriceRange) {
	c.PriceRanges = make([]PriceRangeConfig, 0, len(ranges))
	for _, r := range ranges {
		c.PriceRanges = append(c.PriceRanges, PriceRangeConfig{ID: r.ID, Min: r.Min, Max: r.Max, Label: r.Label})
	}
}

// Ranges returns the configured price ranges, or the built-in table when
// none are configured.
func (c *Config) Ranges() []catalog.PriceRange {
	if len(c.PriceRanges) == 0 {
		return catalog.DefaultPriceRanges()
	}
	out := make([]catalog.PriceRange, 0, len(c.PriceRanges))
	for _, r := range c.PriceRanges {
		label := r.Label
		if label == "" {
			label = r.ID
		}
		out = append(out, catalog.PriceRange{ID: r.ID, Min: r.Min, Max: r.Max, Label: label})
	}
	return out
}
