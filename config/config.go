// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const dateLayout = "2006-01-02"

// Config holds the defaults for both the CLI and the chart server.
// Everything here can be overridden per request through flags or the UI
// widgets.
type Config struct {
	Symbol      string `yaml:"symbol"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	ShortWindow int    `yaml:"short_window"`
	LongWindow  int    `yaml:"long_window"`

	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`

	Provider struct {
		Primary        string `yaml:"primary"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"provider"`

	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"log"`
}

// Default returns the built-in configuration, mirroring the classic
// 40/100 window demo setup.
func Default() *Config {
	cfg := &Config{
		Symbol:      "AAPL",
		Start:       "2022-01-01",
		End:         "2023-01-01",
		ShortWindow: 40,
		LongWindow:  100,
	}
	cfg.HTTP.Port = 8080
	cfg.Provider.Primary = "yahoo"
	cfg.Provider.TimeoutSeconds = 10
	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 50
	cfg.Log.MaxBackups = 3
	return cfg
}

// Load reads a yaml config file on top of the defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the window, date and server settings.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.ShortWindow <= 0 || c.LongWindow <= 0 {
		return fmt.Errorf("windows must be positive, got short=%d long=%d", c.ShortWindow, c.LongWindow)
	}
	if c.ShortWindow >= c.LongWindow {
		return fmt.Errorf("short window (%d) must be less than long window (%d)", c.ShortWindow, c.LongWindow)
	}

	start, err := c.StartDate()
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", c.Start, err)
	}
	end, err := c.EndDate()
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", c.End, err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start date %s must be before end date %s", c.Start, c.End)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	return nil
}

func (c *Config) StartDate() (time.Time, error) {
	return time.Parse(dateLayout, c.Start)
}

func (c *Config) EndDate() (time.Time, error) {
	return time.Parse(dateLayout, c.End)
}

// FetchTimeout returns the per-request provider timeout.
func (c *Config) FetchTimeout() time.Duration {
	if c.Provider.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}
