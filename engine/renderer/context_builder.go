package renderer

import (
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/renderer/shader"
	log "github.com/sirupsen/logrus"
)

// ContextBuilderOption is a functional option applied to a context during construction via NewContext.
type ContextBuilderOption func(*gpuContext)

// WithShader sets the WGSL program the render pipeline is compiled from.
// When not specified, the built-in "triangle" shader is used.
//
// Parameters:
//   - s: the shader to compile
//
// Returns:
//   - ContextBuilderOption: a function that applies the shader option to a context
func WithShader(s shader.Shader) ContextBuilderOption {
	return func(c *gpuContext) {
		c.shader = s
	}
}

// WithShaderValidation compiles the shader offline before any GPU object is created, so a broken
// program fails before the window surface is touched.
func WithShaderValidation(validate bool) ContextBuilderOption {
	return func(c *gpuContext) {
		c.validateShader = validate
	}
}

// WithVertexLayout appends an interleaved vertex buffer layout. Layouts are bound to vertex buffer
// slots in the order they are added.
//
// Parameters:
//   - layout: the vertex buffer layout
//
// Returns:
//   - ContextBuilderOption: a function that applies the vertex layout option to a context
func WithVertexLayout(layout gpu.VertexBufferLayout) ContextBuilderOption {
	return func(c *gpuContext) {
		c.vertexLayouts = append(c.vertexLayouts, layout)
	}
}

// WithDepth toggles the depth attachment and the depth-stencil pipeline state.
func WithDepth(enabled bool) ContextBuilderOption {
	return func(c *gpuContext) {
		c.depth = enabled
	}
}

// WithUniformSlots enables the uniform bind group with the given number of stride-separated slots.
// Zero disables the bind group entirely.
//
// Parameters:
//   - slots: the number of independent uniform blocks in the uniform buffer
//
// Returns:
//   - ContextBuilderOption: a function that applies the uniform slots option to a context
func WithUniformSlots(slots int) ContextBuilderOption {
	return func(c *gpuContext) {
		if slots < 0 {
			slots = 0
		}
		c.uniformSlots = slots
	}
}

// WithUniformSize overrides the byte size of one uniform block. The default is uniform.Size.
func WithUniformSize(size uint64) ContextBuilderOption {
	return func(c *gpuContext) {
		if size > 0 {
			c.uniformSize = size
		}
	}
}

// WithClearColor sets the color the swapchain image is cleared to at the start of every frame.
func WithClearColor(color gpu.Color) ContextBuilderOption {
	return func(c *gpuContext) {
		c.clearColor = color
	}
}

// WithPresentMode sets the surface present mode. The default is gpu.PresentModeFifo.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - ContextBuilderOption: a function that applies the present mode option to a context
func WithPresentMode(mode gpu.PresentMode) ContextBuilderOption {
	return func(c *gpuContext) {
		c.presentMode = mode
	}
}

// WithRequiredLimits requests explicit device limits on top of the ones the context derives from
// its own configuration. Non-zero fields win.
func WithRequiredLimits(limits gpu.Limits) ContextBuilderOption {
	return func(c *gpuContext) {
		c.requiredLimits = &limits
	}
}

// WithMaxBufferSize declares the largest vertex or index buffer the application will upload.
func WithMaxBufferSize(size uint64) ContextBuilderOption {
	return func(c *gpuContext) {
		c.maxBufferSize = size
	}
}

// WithForceFallbackAdapter requests a software adapter instead of a hardware one.
func WithForceFallbackAdapter(force bool) ContextBuilderOption {
	return func(c *gpuContext) {
		c.forceFallback = force
	}
}

// WithLabel sets the prefix used for every GPU object label.
func WithLabel(label string) ContextBuilderOption {
	return func(c *gpuContext) {
		c.label = label
	}
}

// WithLogger sets the logger the context reports setup progress and device errors to.
//
// Parameters:
//   - logger: the log entry to use
//
// Returns:
//   - ContextBuilderOption: a function that applies the logger option to a context
func WithLogger(logger *log.Entry) ContextBuilderOption {
	return func(c *gpuContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}
