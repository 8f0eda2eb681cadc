// Package config loads runtime configuration from YAML plus the environment.
// The database URL travels in the environment (DATABASE_URL, optionally via a
// .env file), never in the config file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete run configuration.
type Config struct {
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Run       RunConfig       `yaml:"run"`
	Journal   JournalConfig   `yaml:"journal"`
	Output    OutputConfig    `yaml:"output"`
}

// PortfolioConfig sizes the simulated portfolio.
type PortfolioConfig struct {
	InitialCash   float64 `yaml:"initial_cash"`
	Commission    float64 `yaml:"commission"`
	AllocationPct float64 `yaml:"allocation_pct"`
}

// RunConfig selects what to backtest.
type RunConfig struct {
	Tickers      []string `yaml:"tickers"`
	Start        string   `yaml:"start"`
	End          string   `yaml:"end"`
	Workers      int      `yaml:"workers"`
	Combine      string   `yaml:"combine"`
	MinAgree     int      `yaml:"min_agree"`
	DecisionsDir string   `yaml:"decisions_dir"`
}

// JournalConfig points at the local run journal.
type JournalConfig struct {
	DBPath string `yaml:"db_path"`
}

// OutputConfig controls report exports.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Progress bool   `yaml:"progress"`
}

const runDateFormat = "2006-01-02"

// Default returns a runnable configuration for a small local backtest.
func Default() *Config {
	return &Config{
		Portfolio: PortfolioConfig{
			InitialCash:   100000,
			Commission:    6.95,
			AllocationPct: 10,
		},
		Run: RunConfig{
			Workers: 4,
			Combine: "majority",
			Start:   "2015-01-01",
			End:     time.Now().UTC().Format(runDateFormat),
		},
		Journal: JournalConfig{DBPath: "runs.db"},
		Output:  OutputConfig{Dir: "reports", Progress: true},
	}
}

// LoadFromFile loads YAML configuration over the defaults and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field ranges and date formats.
func (c *Config) Validate() error {
	if c.Portfolio.InitialCash <= 0 {
		return fmt.Errorf("portfolio.initial_cash must be positive, got %v", c.Portfolio.InitialCash)
	}
	if c.Portfolio.Commission < 0 {
		return fmt.Errorf("portfolio.commission must be non-negative, got %v", c.Portfolio.Commission)
	}
	if c.Portfolio.AllocationPct <= 0 || c.Portfolio.AllocationPct > 100 {
		return fmt.Errorf("portfolio.allocation_pct must be in (0, 100], got %v", c.Portfolio.AllocationPct)
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("run.workers must be at least 1, got %d", c.Run.Workers)
	}
	switch c.Run.Combine {
	case "majority", "unanimous", "any":
	default:
		return fmt.Errorf("run.combine must be majority, unanimous or any, got %q", c.Run.Combine)
	}
	if _, err := time.Parse(runDateFormat, c.Run.Start); err != nil {
		return fmt.Errorf("run.start: %w", err)
	}
	if _, err := time.Parse(runDateFormat, c.Run.End); err != nil {
		return fmt.Errorf("run.end: %w", err)
	}
	return nil
}

// StartDate and EndDate assume Validate has passed.
func (c *Config) StartDate() time.Time {
	t, _ := time.Parse(runDateFormat, c.Run.Start)
	return t
}

func (c *Config) EndDate() time.Time {
	t, _ := time.Parse(runDateFormat, c.Run.End)
	return t
}

// DatabaseURL reads DATABASE_URL, loading a .env file first if one exists.
func DatabaseURL() (string, error) {
	_ = godotenv.Load()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", fmt.Errorf("DATABASE_URL is not set")
	}
	return url, nil
}
