// Package config loads engine settings from defaults, a TOML file, a .env file and the process
// environment, in increasing order of priority.
package config

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	log "github.com/sirupsen/logrus"
)

// Config is the full engine configuration.
type Config struct {
	Window WindowConfig `toml:"window"`
	Render RenderConfig `toml:"render"`
	Assets AssetsConfig `toml:"assets"`
	Log    LogConfig    `toml:"log"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

type RenderConfig struct {
	ClearColor  [4]float64 `toml:"clear_color"`
	PresentMode string     `toml:"present_mode"`
	Depth       bool       `toml:"depth"`

	// UniformSlots is the number of stride-separated uniform blocks; zero disables uniforms.
	UniformSlots int `toml:"uniform_slots"`

	// Shader names a built-in shader. ShaderPath, when set, wins over it.
	Shader          string `toml:"shader"`
	ShaderPath      string `toml:"shader_path"`
	ValidateShaders bool   `toml:"validate_shaders"`

	MaxBufferSize        uint64 `toml:"max_buffer_size"`
	ForceFallbackAdapter bool   `toml:"force_fallback_adapter"`
}

type AssetsConfig struct {
	// Geometry is a point/index model file; Dimensions is its position width (2 or 3).
	Geometry   string `toml:"geometry"`
	Dimensions int    `toml:"dimensions"`

	// OBJ is a Wavefront OBJ mesh file.
	OBJ string `toml:"obj"`

	// GLTF is a glTF 2.0 (.gltf or .glb) mesh file.
	GLTF string `toml:"gltf"`

	// Workers bounds the asset loading pool.
	Workers int `toml:"workers"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file or environment overrides a value.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "oxy-gpu",
			Width:  640,
			Height: 480,
		},
		Render: RenderConfig{
			ClearColor:    [4]float64{0.9, 0.1, 0.2, 1.0},
			PresentMode:   gpu.PresentModeFifo.String(),
			Shader:        "triangle",
			MaxBufferSize: 16 << 20,
		},
		Assets: AssetsConfig{
			Dimensions: 2,
			Workers:    4,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every value that has a restricted range.
//
// Returns:
//   - error: an error wrapping common.ErrResourceLoad naming the first invalid setting
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, ok := gpu.ParsePresentMode(c.Render.PresentMode); !ok {
		return invalid("render.present_mode %q", c.Render.PresentMode)
	}
	for _, v := range c.Render.ClearColor {
		if v < 0 || v > 1 {
			return invalid("render.clear_color %v", c.Render.ClearColor)
		}
	}
	if c.Render.UniformSlots < 0 {
		return invalid("render.uniform_slots %d", c.Render.UniformSlots)
	}
	if c.Render.Shader == "" && c.Render.ShaderPath == "" {
		return invalid("render.shader: no shader configured")
	}
	if c.Assets.Geometry != "" && c.Assets.Dimensions != 2 && c.Assets.Dimensions != 3 {
		return invalid("assets.dimensions %d", c.Assets.Dimensions)
	}
	meshes := 0
	for _, p := range []string{c.Assets.Geometry, c.Assets.OBJ, c.Assets.GLTF} {
		if p != "" {
			meshes++
		}
	}
	if meshes > 1 {
		return invalid("at most one of assets.geometry, assets.obj and assets.gltf may be set")
	}
	if c.Assets.Workers < 1 {
		return invalid("assets.workers %d", c.Assets.Workers)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level %q", c.Log.Level)
	}
	return nil
}

// PresentMode returns the parsed present mode, FIFO if the value is unknown.
func (c *Config) PresentMode() gpu.PresentMode {
	mode, _ := gpu.ParsePresentMode(c.Render.PresentMode)
	return mode
}

// ClearColor returns the clear color as a gpu.Color.
func (c *Config) ClearColor() gpu.Color {
	cc := c.Render.ClearColor
	return gpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}
}

// LogLevel returns the parsed log level, Info if the value is unknown.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: invalid config: %s", common.ErrResourceLoad, fmt.Sprintf(format, args...))
}
