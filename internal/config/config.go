package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/example/ncirc/internal/logging"
)

// DirName is the per-project configuration directory.
const DirName = ".ncirc"

// Environment overrides.
const (
	EnvListenAddr       = "NCIRC_LISTEN_ADDR"
	EnvLogLevel         = "NCIRC_LOG_LEVEL"
	EnvDefaultReduction = "NCIRC_DEFAULT_REDUCTION"
)

// Config represents the flat ncirc configuration
type Config struct {
	Version          string  `json:"version"`
	DefaultReduction float64 `json:"default_reduction"` // Initial slider position, percent
	SliderMax        float64 `json:"slider_max"`        // Interactive slider upper bound, percent
	SliderStep       float64 `json:"slider_step"`
	ListenAddr       string  `json:"listen_addr"`
	LogLevel         string  `json:"log_level"`
	ChartWidth       int     `json:"chart_width"`
	ChartHeight      int     `json:"chart_height"`
	SweepWorkers     int     `json:"sweep_workers"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version:          "1.0",
		DefaultReduction: 5,
		SliderMax:        50,
		SliderStep:       1,
		ListenAddr:       ":8050",
		LogLevel:         "info",
		ChartWidth:       400,
		ChartHeight:      400,
		SweepWorkers:     4,
	}
}

// LoadConfig reads .ncirc/config.json from the specified directory.
// Fields missing from the file keep their defaults.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, DirName, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Resolve loads the config from dir, falling back to defaults when the file
// does not exist, then applies environment overrides and validates.
func Resolve(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks slider bounds, chart size and log level.
func (c *Config) Validate() error {
	if c.SliderMax <= 0 || c.SliderMax > 100 {
		return fmt.Errorf("slider_max must be in (0, 100], got %g", c.SliderMax)
	}
	if c.SliderStep <= 0 || c.SliderStep > c.SliderMax {
		return fmt.Errorf("slider_step must be in (0, slider_max], got %g", c.SliderStep)
	}
	if c.DefaultReduction < 0 || c.DefaultReduction > c.SliderMax {
		return fmt.Errorf("default_reduction must be in [0, %g], got %g", c.SliderMax, c.DefaultReduction)
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.ChartWidth, c.ChartHeight)
	}
	if c.SweepWorkers < 1 {
		return fmt.Errorf("sweep_workers must be at least 1, got %d", c.SweepWorkers)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// applyEnvOverrides lets the environment replace file values.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvListenAddr); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDefaultReduction); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDefaultReduction, v, err)
		}
		c.DefaultReduction = f
	}
	return nil
}
