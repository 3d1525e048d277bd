package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "physdraw")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "physdraw")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "physdraw")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "physdraw")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Unknown keys are rejected so typos in scene files surface early.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports settings the harness cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Scene.ViewWidth <= 0 || c.Scene.ViewHeight <= 0 {
		errs = append(errs, fmt.Errorf("view size must be positive, got %vx%v", c.Scene.ViewWidth, c.Scene.ViewHeight))
	}
	if c.Scene.PixelsPerMeter <= 0 {
		errs = append(errs, fmt.Errorf("pixels_per_meter must be positive, got %v", c.Scene.PixelsPerMeter))
	}
	if c.Scene.LineWidth <= 0 {
		errs = append(errs, fmt.Errorf("line_width must be positive, got %v", c.Scene.LineWidth))
	}
	switch c.Scene.FrameMode {
	case "", "stack", "sticky":
	default:
		errs = append(errs, fmt.Errorf("frame_mode must be stack or sticky, got %q", c.Scene.FrameMode))
	}
	return errors.Join(errs...)
}
