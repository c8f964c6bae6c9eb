package renderer

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/handle"
	"github.com/Carmen-Shannon/oxy-gpu/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxBufferSize is the largest vertex or index buffer a context asks the device for
// unless WithMaxBufferSize says otherwise.
const DefaultMaxBufferSize = 16 << 20

// InstanceFactory creates the backend instance a context is built on.
type InstanceFactory func() (gpu.Instance, error)

// NewContext runs the setup protocol: instance, surface, adapter, device, swapchain, pipeline and
// queue, in that order. Either every step succeeds or everything acquired so far is released in
// reverse order and the first error is returned.
//
// Parameters:
//   - ctx: bounds the adapter and device requests
//   - newInstance: creates the backend instance; the context owns what it returns
//   - source: the window the surface is created for
//   - width: the initial swapchain width in pixels
//   - height: the initial swapchain height in pixels
//   - options: builder options
//
// Returns:
//   - Context: the initialized context
//   - error: wraps common.ErrInit, common.ErrAdapterUnavailable or common.ErrDeviceUnavailable
func NewContext(ctx context.Context, newInstance InstanceFactory, source gpu.SurfaceSource, width, height int, options ...ContextBuilderOption) (Context, error) {
	c := &gpuContext{
		label:         "oxy",
		logger:        log.WithField("component", "renderer"),
		uniformSize:   uniform.Size,
		clearColor:    gpu.Color{R: 0.9, G: 0.1, B: 0.2, A: 1.0},
		presentMode:   gpu.PresentModeFifo,
		maxBufferSize: DefaultMaxBufferSize,
	}
	for _, opt := range options {
		opt(c)
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid swapchain size %dx%d", common.ErrInit, width, height)
	}
	c.width, c.height = uint32(width), uint32(height)

	if c.shader == nil {
		s, err := shader.Builtin("triangle")
		if err != nil {
			return nil, err
		}
		c.shader = s
	}
	if c.validateShader {
		if err := c.shader.Validate(); err != nil {
			return nil, err
		}
	}

	scope := handle.NewScope()
	ok := false
	defer func() {
		if !ok {
			scope.Close()
		}
	}()

	if err := c.createInstance(scope, newInstance); err != nil {
		return nil, err
	}
	if err := c.createSurface(scope, source); err != nil {
		return nil, err
	}
	if err := c.requestAdapter(ctx, scope); err != nil {
		return nil, err
	}
	if err := c.requestDevice(ctx, scope); err != nil {
		return nil, err
	}
	if err := c.createSwapchain(scope); err != nil {
		return nil, err
	}
	if err := c.createPipeline(scope); err != nil {
		return nil, err
	}
	if err := c.acquireQueue(scope); err != nil {
		return nil, err
	}

	ok = true
	c.scope = scope
	c.logger.WithFields(log.Fields{
		"width":  c.width,
		"height": c.height,
		"format": c.format,
		"depth":  c.depth,
		"slots":  c.uniformSlots,
	}).Info("Context ready")
	return c, nil
}

func (c *gpuContext) createInstance(scope *handle.Scope, newInstance InstanceFactory) error {
	if newInstance == nil {
		return fmt.Errorf("%w: no instance factory", common.ErrInit)
	}
	inst, err := newInstance()
	if err != nil {
		return fmt.Errorf("%w: failed to create instance: %w", common.ErrInit, err)
	}
	c.instance = handle.Track(scope, handle.New(inst))
	if !c.instance.Valid() {
		return fmt.Errorf("%w: backend returned no instance", common.ErrInit)
	}
	return nil
}

func (c *gpuContext) createSurface(scope *handle.Scope, source gpu.SurfaceSource) error {
	if source == nil {
		return fmt.Errorf("%w: no surface source", common.ErrInit)
	}
	surface, err := c.instance.Get().CreateSurface(source)
	if err != nil {
		return fmt.Errorf("%w: failed to create surface: %w", common.ErrInit, err)
	}
	c.surface = handle.Track(scope, handle.New(surface))
	if !c.surface.Valid() {
		return fmt.Errorf("%w: backend returned no surface", common.ErrInit)
	}
	return nil
}

func (c *gpuContext) requestAdapter(ctx context.Context, scope *handle.Scope) error {
	adapter, err := gpu.RequestAdapter(ctx, c.instance.Get(), &gpu.RequestAdapterOptions{
		CompatibleSurface:    c.surface.Get(),
		ForceFallbackAdapter: c.forceFallback,
	})
	if err != nil {
		return err
	}
	c.adapter = handle.Track(scope, handle.New(adapter))

	c.logger.WithField("features", adapter.Features()).Info("Got adapter")
	return nil
}

// requirements derives the device contract from the context configuration.
func (c *gpuContext) requirements() Requirements {
	r := Requirements{
		VertexBuffers:    uint32(len(c.vertexLayouts)),
		BufferSize:       c.maxBufferSize,
		TextureDimension: max(c.width, c.height),
		Override:         c.requiredLimits,
	}
	for _, l := range c.vertexLayouts {
		r.VertexAttributes += uint32(len(l.Attributes))
		r.VertexStride = max(r.VertexStride, uint32(l.ArrayStride))
	}
	if c.uniformSlots > 0 {
		r.UniformBindingSize = c.uniformSize
		r.BindGroups = 1
		r.DynamicUniformBuffers = 1
	}
	return r
}

func (c *gpuContext) requestDevice(ctx context.Context, scope *handle.Scope) error {
	supported := c.adapter.Get().Limits()
	limits, err := NegotiateLimits(c.requirements().Limits(supported), supported)
	if err != nil {
		return err
	}

	device, err := gpu.RequestDevice(ctx, c.instance.Get(), c.adapter.Get(), &gpu.DeviceDescriptor{
		Label:          c.label + " device",
		RequiredLimits: &limits,
	})
	if err != nil {
		return err
	}
	c.device = handle.Track(scope, handle.New(device))
	device.SetUncapturedErrorCallback(c.onDeviceError)

	c.limits = device.Limits()
	c.stride = uniform.Stride(c.uniformSize, uint64(c.limits.MinUniformBufferOffsetAlignment))
	c.logger.WithFields(log.Fields{
		"maxVertexAttributes":             c.limits.MaxVertexAttributes,
		"minUniformBufferOffsetAlignment": c.limits.MinUniformBufferOffsetAlignment,
	}).Info("Got device")
	return nil
}

func (c *gpuContext) onDeviceError(errType gpu.ErrorType, message string) {
	c.logger.WithField("type", errType).Errorf("Uncaptured device error: %s", message)
}

func (c *gpuContext) createSwapchain(scope *handle.Scope) error {
	c.format = c.surface.Get().PreferredFormat(c.adapter.Get())
	if c.format == gpu.TextureFormatUndefined {
		return fmt.Errorf("%w: surface reports no usable format", common.ErrInit)
	}
	if err := c.configureSurface(c.width, c.height); err != nil {
		return err
	}

	if c.depth {
		texture, view, err := c.createDepth(c.width, c.height)
		if err != nil {
			return err
		}
		c.depthTexture, c.depthView = texture, view
		scope.Defer(c.releaseDepth)
	}
	return nil
}

func (c *gpuContext) configureSurface(width, height uint32) error {
	err := c.surface.Get().Configure(c.adapter.Get(), c.device.Get(), &gpu.SurfaceConfiguration{
		Usage:       gpu.TextureUsageRenderAttachment,
		Format:      c.format,
		Width:       width,
		Height:      height,
		PresentMode: c.presentMode,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to configure swapchain: %w", common.ErrInit, err)
	}
	return nil
}

// createDepth builds a depth texture and view of the given size. Nothing is assigned to c, so a
// failure leaves the current attachment in place.
func (c *gpuContext) createDepth(width, height uint32) (*handle.Handle[gpu.Texture], *handle.Handle[gpu.TextureView], error) {
	if dim := c.limits.MaxTextureDimension2D; dim > 0 && (width > dim || height > dim) {
		return nil, nil, fmt.Errorf("%w: depth texture %dx%d exceeds maxTextureDimension2D %d", common.ErrInit, width, height, dim)
	}

	texture, err := c.device.Get().CreateTexture(&gpu.TextureDescriptor{
		Label:         c.label + " depth texture",
		Size:          gpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        DepthFormat,
		Usage:         gpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create depth texture: %w", common.ErrInit, err)
	}
	depthTexture := handle.NewOwning(texture)

	view, err := texture.CreateView()
	if err != nil {
		depthTexture.Release()
		return nil, nil, fmt.Errorf("%w: failed to create depth texture view: %w", common.ErrInit, err)
	}
	return depthTexture, handle.New(view), nil
}

func (c *gpuContext) createPipeline(scope *handle.Scope) error {
	device := c.device.Get()

	module, err := device.CreateShaderModule(&gpu.ShaderModuleDescriptor{
		Label: c.shader.Key(),
		Code:  c.shader.Source(),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create shader module %q: %w", common.ErrInit, c.shader.Key(), err)
	}
	c.shaderModule = handle.Track(scope, handle.New(module))

	var layouts []gpu.BindGroupLayout
	if c.uniformSlots > 0 {
		if err := c.createUniforms(scope); err != nil {
			return err
		}
		layouts = append(layouts, c.bindGroupLayout.Get())
	}

	pipelineLayout, err := device.CreatePipelineLayout(&gpu.PipelineLayoutDescriptor{
		Label:            c.label + " pipeline layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create pipeline layout: %w", common.ErrInit, err)
	}
	c.pipelineLayout = handle.Track(scope, handle.New(pipelineLayout))

	pipeline, err := device.CreateRenderPipeline(c.pipelineDescriptor())
	if err != nil {
		return fmt.Errorf("%w: failed to create render pipeline: %w", common.ErrInit, err)
	}
	c.pipeline = handle.Track(scope, handle.New(pipeline))
	return nil
}

func (c *gpuContext) pipelineDescriptor() *gpu.RenderPipelineDescriptor {
	desc := &gpu.RenderPipelineDescriptor{
		Label:  c.label + " render pipeline",
		Layout: c.pipelineLayout.Get(),
		Vertex: gpu.VertexState{
			Module:     c.shaderModule.Get(),
			EntryPoint: c.shader.VertexEntryPoint(),
			Buffers:    c.vertexLayouts,
		},
		Fragment: &gpu.FragmentState{
			Module:     c.shaderModule.Get(),
			EntryPoint: c.shader.FragmentEntryPoint(),
			Targets: []gpu.ColorTargetState{{
				Format: c.format,
				Blend: &gpu.BlendState{
					Color: gpu.BlendComponent{
						SrcFactor: gpu.BlendFactorSrcAlpha,
						DstFactor: gpu.BlendFactorOneMinusSrcAlpha,
						Operation: gpu.BlendOperationAdd,
					},
					Alpha: gpu.BlendComponent{
						SrcFactor: gpu.BlendFactorZero,
						DstFactor: gpu.BlendFactorOne,
						Operation: gpu.BlendOperationAdd,
					},
				},
				WriteMask: gpu.ColorWriteMaskAll,
			}},
		},
		Primitive: gpu.PrimitiveState{
			Topology:  gpu.PrimitiveTopologyTriangleList,
			FrontFace: gpu.FrontFaceCCW,
			CullMode:  gpu.CullModeNone,
		},
		Multisample: gpu.MultisampleState{
			Count: 1,
			Mask:  ^uint32(0),
		},
	}

	if c.depth {
		keep := gpu.StencilFaceState{
			Compare:     gpu.CompareFunctionAlways,
			FailOp:      gpu.StencilOperationKeep,
			DepthFailOp: gpu.StencilOperationKeep,
			PassOp:      gpu.StencilOperationKeep,
		}
		desc.DepthStencil = &gpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gpu.CompareFunctionLess,
			StencilFront:      keep,
			StencilBack:       keep,
		}
	}
	return desc
}

func (c *gpuContext) createUniforms(scope *handle.Scope) error {
	device := c.device.Get()

	buffer, err := device.CreateBuffer(&gpu.BufferDescriptor{
		Label: c.label + " uniform buffer",
		Size:  uint64(c.uniformSlots) * c.stride,
		Usage: gpu.BufferUsageCopyDst | gpu.BufferUsageUniform,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create uniform buffer: %w", common.ErrInit, err)
	}
	c.uniformBuffer = handle.Track(scope, handle.NewOwning(buffer))

	layout, err := device.CreateBindGroupLayout(&gpu.BindGroupLayoutDescriptor{
		Label: c.label + " uniform layout",
		Entries: []gpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gpu.ShaderStageVertex | gpu.ShaderStageFragment,
			Buffer: gpu.BufferBindingLayout{
				Type:             gpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   c.uniformSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create bind group layout: %w", common.ErrInit, err)
	}
	c.bindGroupLayout = handle.Track(scope, handle.New(layout))

	group, err := device.CreateBindGroup(&gpu.BindGroupDescriptor{
		Label:  c.label + " uniform bind group",
		Layout: layout,
		Entries: []gpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buffer,
			Offset:  0,
			Size:    c.uniformSize,
		}},
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create bind group: %w", common.ErrInit, err)
	}
	c.bindGroup = handle.Track(scope, handle.New(group))
	return nil
}

func (c *gpuContext) acquireQueue(scope *handle.Scope) error {
	queue := c.device.Get().Queue()
	c.queue = handle.Track(scope, handle.New(queue))
	if !c.queue.Valid() {
		return fmt.Errorf("%w: device returned no queue", common.ErrDeviceUnavailable)
	}

	queue.OnSubmittedWorkDone(func(status gpu.QueueWorkDoneStatus) {
		c.logger.WithField("status", status).Debug("Queued work finished")
	})
	return nil
}
