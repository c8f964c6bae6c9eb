package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gpu/common"
)

type lookupFunc func(key string) (string, bool)

// envSetting binds one environment key to a config field.
type envSetting struct {
	key string
	set func(c *Config, value string) error
}

var envSettings = []envSetting{
	{"WINDOW_TITLE", func(c *Config, v string) error { c.Window.Title = v; return nil }},
	{"WINDOW_WIDTH", intSetter(func(c *Config) *int { return &c.Window.Width })},
	{"WINDOW_HEIGHT", intSetter(func(c *Config) *int { return &c.Window.Height })},
	{"WINDOW_RESIZABLE", boolSetter(func(c *Config) *bool { return &c.Window.Resizable })},
	{"RENDER_CLEAR_COLOR", setClearColor},
	{"RENDER_PRESENT_MODE", func(c *Config, v string) error { c.Render.PresentMode = strings.ToLower(v); return nil }},
	{"RENDER_DEPTH", boolSetter(func(c *Config) *bool { return &c.Render.Depth })},
	{"RENDER_UNIFORM_SLOTS", intSetter(func(c *Config) *int { return &c.Render.UniformSlots })},
	{"RENDER_SHADER", func(c *Config, v string) error { c.Render.Shader = v; return nil }},
	{"RENDER_SHADER_PATH", func(c *Config, v string) error { c.Render.ShaderPath = v; return nil }},
	{"RENDER_VALIDATE_SHADERS", boolSetter(func(c *Config) *bool { return &c.Render.ValidateShaders })},
	{"RENDER_MAX_BUFFER_SIZE", func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		c.Render.MaxBufferSize = n
		return err
	}},
	{"RENDER_FORCE_FALLBACK_ADAPTER", boolSetter(func(c *Config) *bool { return &c.Render.ForceFallbackAdapter })},
	{"ASSETS_GEOMETRY", func(c *Config, v string) error { c.Assets.Geometry = v; return nil }},
	{"ASSETS_DIMENSIONS", intSetter(func(c *Config) *int { return &c.Assets.Dimensions })},
	{"ASSETS_OBJ", func(c *Config, v string) error { c.Assets.OBJ = v; return nil }},
	{"ASSETS_GLTF", func(c *Config, v string) error { c.Assets.GLTF = v; return nil }},
	{"ASSETS_WORKERS", intSetter(func(c *Config) *int { return &c.Assets.Workers })},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = strings.ToLower(v); return nil }},
}

// applyEnv overrides every field whose OXY_* key lookup finds.
func (c *Config) applyEnv(lookup lookupFunc) error {
	for _, s := range envSettings {
		key := EnvPrefix + s.key
		v, ok := lookup(key)
		if !ok {
			continue
		}
		if err := s.set(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%w: %s=%q: %w", common.ErrResourceLoad, key, v, err)
		}
	}
	return nil
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

// setClearColor parses "r,g,b,a".
func setClearColor(c *Config, v string) error {
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return fmt.Errorf("expected 4 comma separated components, got %d", len(parts))
	}
	var color [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return err
		}
		color[i] = f
	}
	c.Render.ClearColor = color
	return nil
}
