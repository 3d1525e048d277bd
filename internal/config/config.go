// Package config handles harness configuration loading and management.
package config

import "time"

// Config holds all harness settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Scene   SceneConfig   `yaml:"scene"`
	Probe   ProbeConfig   `yaml:"probe"`
	Debug   DebugConfig   `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// SceneConfig holds the simulation and drawing settings. Lengths are in
// pixels of the view, which is stretched over the window.
type SceneConfig struct {
	ViewWidth      float32      `yaml:"view_width"`
	ViewHeight     float32      `yaml:"view_height"`
	PixelsPerMeter float32      `yaml:"pixels_per_meter"`
	LineWidth      float32      `yaml:"line_width"`
	Gravity        [2]float64   `yaml:"gravity"` // m/s², +Y is down
	Iterations     int          `yaml:"iterations"`
	MaxStep        float64      `yaml:"max_step"`
	FrameMode      string       `yaml:"frame_mode"` // "stack" or "sticky"
	DrawCircles    bool         `yaml:"draw_circles"`
	DrawPoints     bool         `yaml:"draw_points"`
	Background     [3]float32   `yaml:"background"`
	Bodies         []BodyConfig `yaml:"bodies"` // empty means the built-in scene
}

// BodyConfig describes one scene body in view pixels.
type BodyConfig struct {
	Name          string     `yaml:"name"`
	Kind          string     `yaml:"kind"` // dynamic, static, kinematic
	Position      [2]float64 `yaml:"position"`
	Angle         float64    `yaml:"angle"`
	Size          [2]float64 `yaml:"size,omitempty"`
	Radius        float64    `yaml:"radius,omitempty"`
	Edge          [4]float64 `yaml:"edge,omitempty"`
	Density       float64    `yaml:"density,omitempty"`
	Friction      float64    `yaml:"friction,omitempty"`
	FixedRotation bool       `yaml:"fixed_rotation,omitempty"`
	Sensor        bool       `yaml:"sensor,omitempty"`
}

// ProbeConfig holds the ray probe settings, in view pixels.
type ProbeConfig struct {
	Enabled      bool       `yaml:"enabled"`
	From         [2]float32 `yaml:"from"`
	To           [2]float32 `yaml:"to"`
	Color        [3]float32 `yaml:"color"`
	NormalLength float32    `yaml:"normal_length"`
}

// DebugConfig holds developer tooling settings.
type DebugConfig struct {
	ScreenshotDir string        `yaml:"screenshot_dir"`
	StatsInterval time.Duration `yaml:"stats_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config matching the reference harness: a 300x300 view at
// 30 px/m drawn with 4 px lines.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "physdraw",
			Width:  600,
			Height: 600,
			VSync:  true,
		},
		Scene: SceneConfig{
			ViewWidth:      300,
			ViewHeight:     300,
			PixelsPerMeter: 30,
			LineWidth:      4,
			Gravity:        [2]float64{0, 9.8},
			Iterations:     10,
			MaxStep:        0.25,
			FrameMode:      "stack",
			Background:     [3]float32{0.1, 0.1, 0.12},
		},
		Probe: ProbeConfig{
			Enabled:      true,
			From:         [2]float32{150, 170},
			To:           [2]float32{100, 170},
			Color:        [3]float32{1, 0, 0},
			NormalLength: 15,
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
			StatsInterval: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
