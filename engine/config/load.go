package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment key the engine reads, e.g. OXY_WINDOW_WIDTH.
const EnvPrefix = "OXY_"

// Sources names the files a configuration is read from. Empty paths are skipped.
type Sources struct {
	// File is a TOML configuration file.
	File string

	// DotEnv is a .env file with OXY_* keys.
	DotEnv string

	// SkipEnvironment ignores the process environment.
	SkipEnvironment bool
}

// Load builds a configuration from defaults, then src.File, then src.DotEnv, then the process
// environment, and validates the result.
//
// Parameters:
//   - src: the configuration sources
//
// Returns:
//   - *Config: the merged configuration
//   - error: an error wrapping common.ErrResourceLoad for unreadable or invalid sources
func Load(src Sources) (*Config, error) {
	cfg := Default()

	if src.File != "" {
		if err := cfg.readFile(src.File); err != nil {
			return nil, err
		}
	}

	if src.DotEnv != "" {
		values, err := godotenv.Read(src.DotEnv)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read env file %s: %w", common.ErrResourceLoad, src.DotEnv, err)
		}
		if err := cfg.applyEnv(func(key string) (string, bool) {
			v, ok := values[key]
			return v, ok
		}); err != nil {
			return nil, err
		}
	}

	if !src.SkipEnvironment {
		if err := cfg.applyEnv(lookupEnvy); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: failed to read config file %s: %w", common.ErrResourceLoad, path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("%w: %s:%d:%d: %w", common.ErrResourceLoad, path, row, col, err)
		}
		return fmt.Errorf("%w: %s: %w", common.ErrResourceLoad, path, err)
	}
	return nil
}

// Marshal encodes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func lookupEnvy(key string) (string, bool) {
	v, err := envy.MustGet(key)
	if err != nil {
		return "", false
	}
	return v, true
}
