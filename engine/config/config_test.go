package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/gobuffalo/envy"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.Equal(t, gpu.PresentModeFifo, cfg.PresentMode())
	assert.Equal(t, gpu.Color{R: 0.9, G: 0.1, B: 0.2, A: 1}, cfg.ClearColor())
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(Sources{File: "testdata/oxy.toml", SkipEnvironment: true})
	require.NoError(t, err)

	assert.Equal(t, "pyramid", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.True(t, cfg.Window.Resizable)
	assert.Equal(t, gpu.PresentModeMailbox, cfg.PresentMode())
	assert.Equal(t, gpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}, cfg.ClearColor())
	assert.True(t, cfg.Render.Depth)
	assert.Equal(t, 2, cfg.Render.UniformSlots)
	assert.Equal(t, "pyramid", cfg.Render.Shader)
	assert.Equal(t, 3, cfg.Assets.Dimensions)
	assert.Equal(t, 2, cfg.Assets.Workers)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())

	// Keys absent from the file keep their defaults.
	assert.Equal(t, uint64(16<<20), cfg.Render.MaxBufferSize)
}

func TestLoadDotEnvOverridesFile(t *testing.T) {
	cfg, err := Load(Sources{File: "testdata/oxy.toml", DotEnv: "testdata/test.env", SkipEnvironment: true})
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, gpu.PresentModeImmediate, cfg.PresentMode())
	assert.Equal(t, gpu.Color{A: 1}, cfg.ClearColor())
}

func TestLoadEnvironmentOverridesDotEnv(t *testing.T) {
	envy.Temp(func() {
		envy.Set("OXY_WINDOW_WIDTH", "1280")
		envy.Set("OXY_LOG_LEVEL", "WARN")
		envy.Set("OXY_RENDER_DEPTH", "true")

		cfg, err := Load(Sources{DotEnv: "testdata/test.env"})
		require.NoError(t, err)

		assert.Equal(t, 1280, cfg.Window.Width)
		assert.Equal(t, log.WarnLevel, cfg.LogLevel())
		assert.True(t, cfg.Render.Depth)
		assert.Equal(t, gpu.PresentModeImmediate, cfg.PresentMode())
	})
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	badDims := filepath.Join(dir, "dims.toml")
	require.NoError(t, os.WriteFile(badDims, []byte("[assets]\ngeometry = \"m.txt\"\ndimensions = 4\n"), 0o644))

	tests := []struct {
		name string
		src  Sources
	}{
		{"missing file", Sources{File: filepath.Join(dir, "nope.toml"), SkipEnvironment: true}},
		{"unknown key", Sources{File: "testdata/unknown.toml", SkipEnvironment: true}},
		{"malformed toml", Sources{File: "testdata/bad.toml", SkipEnvironment: true}},
		{"missing env file", Sources{DotEnv: filepath.Join(dir, "nope.env"), SkipEnvironment: true}},
		{"bad env value", Sources{DotEnv: "testdata/bad.env", SkipEnvironment: true}},
		{"invalid dimensions", Sources{File: badDims, SkipEnvironment: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.src)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, common.ErrResourceLoad)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"present mode", func(c *Config) { c.Render.PresentMode = "vsync" }},
		{"clear color", func(c *Config) { c.Render.ClearColor[0] = 2 }},
		{"uniform slots", func(c *Config) { c.Render.UniformSlots = -1 }},
		{"no shader", func(c *Config) { c.Render.Shader = "" }},
		{"workers", func(c *Config) { c.Assets.Workers = 0 }},
		{"two meshes", func(c *Config) { c.Assets.Geometry, c.Assets.OBJ = "a.txt", "b.obj" }},
		{"obj and gltf", func(c *Config) { c.Assets.OBJ, c.Assets.GLTF = "b.obj", "c.glb" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), common.ErrResourceLoad)
		})
	}
}

func TestClearColorEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(key string) (string, bool) {
		if key == "OXY_RENDER_CLEAR_COLOR" {
			return "0.5,0.5", true
		}
		return "", false
	})
	assert.ErrorIs(t, err, common.ErrResourceLoad)
	assert.Equal(t, Default().Render.ClearColor, cfg.Render.ClearColor)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := Load(Sources{File: "testdata/oxy.toml", SkipEnvironment: true})
	require.NoError(t, err)

	data, err := cfg.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	again, err := Load(Sources{File: path, SkipEnvironment: true})
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}
