package engine

import (
	"github.com/Carmen-Shannon/oxy-gpu/engine/camera"
	"github.com/Carmen-Shannon/oxy-gpu/engine/config"
	"github.com/Carmen-Shannon/oxy-gpu/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gpu/engine/window"
	log "github.com/sirupsen/logrus"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithConfig sets the configuration. A nil config keeps config.Default().
//
// Parameters:
//   - cfg: a validated configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg *config.Config) EngineBuilderOption {
	return func(e *engine) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithWindow sets a pre-configured window rather than letting Run open one from the config.
// The engine closes it when Run returns.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithInstanceFactory replaces the WebGPU backend.
func WithInstanceFactory(factory renderer.InstanceFactory) EngineBuilderOption {
	return func(e *engine) {
		e.newInstance = factory
	}
}

// WithContextOptions appends render context options after the ones derived from the config.
//
// Parameters:
//   - options: context builder options, applied in order
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithContextOptions(options ...renderer.ContextBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.contextOptions = append(e.contextOptions, options...)
	}
}

// WithUpdateCallback sets the frame function. See Engine.SetUpdateCallback.
func WithUpdateCallback(fn renderer.FrameFunc) EngineBuilderOption {
	return func(e *engine) {
		e.update = fn
	}
}

// WithKeyDownCallback sets the key press handler installed on the window when Run starts.
func WithKeyDownCallback(fn func(keyCode uint32)) EngineBuilderOption {
	return func(e *engine) {
		e.keyDown = fn
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithLogger sets the parent logger; every component logs on a child entry with its own
// component field.
func WithLogger(logger *log.Entry) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithCamera replaces the default orbit camera.
//
// Parameters:
//   - c: the camera used by the built-in frame function
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}
