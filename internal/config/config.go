// Package config loads and saves the editor settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the home directory.
const FileName = ".fsaedit.yaml"

// Config holds persistent editor settings.
type Config struct {
	StepDelay    time.Duration `yaml:"step_delay"`    // pause between animated simulation steps
	ExportFormat string        `yaml:"export_format"` // "svg" or "png"
	ExportDir    string        `yaml:"export_dir"`
	CanvasWidth  int           `yaml:"canvas_width"`
	CanvasHeight int           `yaml:"canvas_height"`
	LogFile      string        `yaml:"log_file,omitempty"`
	LogLevel     string        `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	cwd, _ := os.Getwd()
	return Config{
		StepDelay:    600 * time.Millisecond,
		ExportFormat: "svg",
		ExportDir:    cwd,
		CanvasWidth:  800,
		CanvasHeight: 600,
		LogLevel:     "info",
	}
}

// Path returns the default location of the settings file.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads settings from path. A missing file yields the defaults; keys
// absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.ExportFormat {
	case "svg", "png":
	default:
		return fmt.Errorf("export_format must be svg or png, got %q", c.ExportFormat)
	}
	if c.StepDelay <= 0 {
		return fmt.Errorf("step_delay must be positive, got %s", c.StepDelay)
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	return nil
}

// Save writes settings to path as YAML.
func Save(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	body := append([]byte("# fsaedit configuration\n"), data...)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
