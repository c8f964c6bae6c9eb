package assets

import (
	"github.com/Carmen-Shannon/oxy-gpu/engine/renderer/shader"
	log "github.com/sirupsen/logrus"
)

// LoaderBuilderOption is a functional option for configuring a Loader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the worker pool size. Values below 1 are treated as 1.
//
// Parameters:
//   - n: the maximum number of concurrent loads
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n < 1 {
			n = 1
		}
		l.workers = n
	}
}

// WithShaderOptions sets the options passed to every shader.Load call.
func WithShaderOptions(options ...shader.ShaderBuilderOption) LoaderBuilderOption {
	return func(l *loader) {
		l.shaderOptions = options
	}
}

// WithLogger sets the logger load timings are reported on.
func WithLogger(logger *log.Entry) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger
	}
}
