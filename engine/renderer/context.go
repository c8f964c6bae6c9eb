package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/handle"
	"github.com/Carmen-Shannon/oxy-gpu/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
	log "github.com/sirupsen/logrus"
)

// DepthFormat is the format of the depth attachment created when depth testing is enabled.
const DepthFormat = gpu.TextureFormatDepth24Plus

// Context is the fully initialized set of GPU objects needed to render into one window.
// It is owned by a single goroutine for its whole lifetime.
type Context interface {
	// Instance, Surface, Adapter, Device and Queue return borrowed references to the core objects.
	Instance() gpu.Instance
	Surface() gpu.Surface
	Adapter() gpu.Adapter
	Device() gpu.Device
	Queue() gpu.Queue

	// Pipeline returns the render pipeline all draws are recorded against.
	Pipeline() gpu.RenderPipeline

	// UniformBuffer and BindGroup are nil when the context was built without uniform slots.
	UniformBuffer() gpu.Buffer
	BindGroup() gpu.BindGroup

	// DepthView is nil when depth testing is disabled.
	DepthView() gpu.TextureView

	// Format returns the swapchain format chosen from the surface's preferred format.
	Format() gpu.TextureFormat

	// Size returns the current swapchain size in pixels.
	Size() (width, height uint32)

	// Limits returns the limits the device was created with.
	Limits() gpu.Limits

	// UniformStride returns the distance in bytes between two uniform slots.
	UniformStride() uint64

	// UniformSlots returns the number of uniform slots in the uniform buffer.
	UniformSlots() int

	// WriteUniforms copies u into the given slot of the uniform buffer through the queue.
	//
	// Parameters:
	//   - slot: the slot index, in [0, UniformSlots())
	//   - u: the uniform block to upload
	//
	// Returns:
	//   - error: an error if uniforms are disabled, the slot is out of range or the write fails
	WriteUniforms(slot int, u *uniform.Uniforms) error

	// CreateModel uploads indexed geometry into a new vertex and index buffer pair.
	CreateModel(label string, g *geometry.Geometry) (*Model, error)

	// CreateVertexBuffer uploads non-indexed vertex data.
	CreateVertexBuffer(label string, data []byte, vertexCount uint32) (*Model, error)

	// Resize reconfigures the swapchain and recreates the depth attachment.
	//
	// Parameters:
	//   - width: the new width in pixels, must be positive
	//   - height: the new height in pixels, must be positive
	//
	// Returns:
	//   - error: an error wrapping common.ErrInit if the size is invalid or reconfiguration fails
	Resize(width, height int) error

	// RenderFrame acquires the next swapchain image, records the draws into exactly one render
	// pass, submits one command buffer and presents.
	//
	// Parameters:
	//   - draws: the draws to record, in order
	//
	// Returns:
	//   - error: common.ErrSwapchainImageUnavailable when no image could be acquired, or the first encode failure
	RenderFrame(draws []Draw) error

	// Stats returns the frame counters accumulated so far.
	Stats() FrameStats

	// Release tears down every object in reverse acquisition order. Subsequent calls are no-ops.
	Release()
}

// gpuContext is the implementation of the Context interface.
type gpuContext struct {
	label          string
	logger         *log.Entry
	shader         shader.Shader
	validateShader bool
	vertexLayouts  []gpu.VertexBufferLayout
	depth          bool
	uniformSlots   int
	uniformSize    uint64
	clearColor     gpu.Color
	presentMode    gpu.PresentMode
	requiredLimits *gpu.Limits
	maxBufferSize  uint64
	forceFallback  bool

	width  uint32
	height uint32
	format gpu.TextureFormat
	limits gpu.Limits
	stride uint64

	instance        *handle.Handle[gpu.Instance]
	surface         *handle.Handle[gpu.Surface]
	adapter         *handle.Handle[gpu.Adapter]
	device          *handle.Handle[gpu.Device]
	depthTexture    *handle.Handle[gpu.Texture]
	depthView       *handle.Handle[gpu.TextureView]
	shaderModule    *handle.Handle[gpu.ShaderModule]
	uniformBuffer   *handle.Handle[gpu.Buffer]
	bindGroupLayout *handle.Handle[gpu.BindGroupLayout]
	bindGroup       *handle.Handle[gpu.BindGroup]
	pipelineLayout  *handle.Handle[gpu.PipelineLayout]
	pipeline        *handle.Handle[gpu.RenderPipeline]
	queue           *handle.Handle[gpu.Queue]

	scope *handle.Scope
	stats FrameStats
}

var _ Context = &gpuContext{}

func (c *gpuContext) Instance() gpu.Instance { return c.instance.Get() }
func (c *gpuContext) Surface() gpu.Surface { return c.surface.Get() }
func (c *gpuContext) Adapter() gpu.Adapter { return c.adapter.Get() }
func (c *gpuContext) Device() gpu.Device { return c.device.Get() }
func (c *gpuContext) Queue() gpu.Queue { return c.queue.Get() }
func (c *gpuContext) Pipeline() gpu.RenderPipeline { return c.pipeline.Get() }
func (c *gpuContext) UniformBuffer() gpu.Buffer { return c.uniformBuffer.Get() }
func (c *gpuContext) BindGroup() gpu.BindGroup { return c.bindGroup.Get() }
func (c *gpuContext) DepthView() gpu.TextureView { return c.depthView.Get() }
func (c *gpuContext) Format() gpu.TextureFormat { return c.format }
func (c *gpuContext) Size() (uint32, uint32) { return c.width, c.height }
func (c *gpuContext) Limits() gpu.Limits { return c.limits }
func (c *gpuContext) UniformStride() uint64 { return c.stride }
func (c *gpuContext) UniformSlots() int { return c.uniformSlots }
func (c *gpuContext) Stats() FrameStats { return c.stats }

// UniformStride returns the slot stride for a uniform block of the given size on device.
// The result is a multiple of the device's minimum uniform buffer offset alignment and is never
// smaller than size.
//
// Parameters:
//   - device: the device whose alignment applies
//   - size: the byte size of one uniform block
//
// Returns:
//   - uint64: the stride in bytes
func UniformStride(device gpu.Device, size uint64) uint64 {
	return uniform.Stride(size, uint64(device.Limits().MinUniformBufferOffsetAlignment))
}

func (c *gpuContext) WriteUniforms(slot int, u *uniform.Uniforms) error {
	if !c.uniformBuffer.Valid() {
		return fmt.Errorf("%w: context has no uniform buffer", common.ErrInit)
	}
	if slot < 0 || slot >= c.uniformSlots {
		return fmt.Errorf("uniform slot %d out of range [0, %d)", slot, c.uniformSlots)
	}
	if u == nil {
		return fmt.Errorf("nil uniforms for slot %d", slot)
	}

	data := u.Bytes()
	if uint64(len(data)) > c.uniformSize {
		data = data[:c.uniformSize]
	}
	if err := c.queue.Get().WriteBuffer(c.uniformBuffer.Get(), uint64(slot)*c.stride, data); err != nil {
		return fmt.Errorf("failed to write uniform slot %d: %w", slot, err)
	}
	return nil
}

func (c *gpuContext) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid swapchain size %dx%d", common.ErrInit, width, height)
	}
	if !c.device.Valid() {
		return fmt.Errorf("%w: context has been released", common.ErrInit)
	}

	w, h := uint32(width), uint32(height)

	// the new attachment is built before anything is swapped, so a failure keeps the old size
	var (
		texture *handle.Handle[gpu.Texture]
		view    *handle.Handle[gpu.TextureView]
	)
	if c.depth {
		var err error
		if texture, view, err = c.createDepth(w, h); err != nil {
			return err
		}
	}
	if err := c.configureSurface(w, h); err != nil {
		view.Release()
		texture.Release()
		return err
	}

	if c.depth {
		c.releaseDepth()
		c.depthTexture, c.depthView = texture, view
	}
	c.width, c.height = w, h

	c.logger.WithFields(log.Fields{"width": width, "height": height}).Debug("Swapchain resized")
	return nil
}

func (c *gpuContext) Release() {
	if c.scope == nil {
		return
	}
	c.scope.Close()
	c.logger.Debug("Context released")
}

func (c *gpuContext) releaseDepth() {
	c.depthView.Release()
	c.depthTexture.Release()
}

func loggerOf(c Context) *log.Entry {
	if gc, ok := c.(*gpuContext); ok && gc.logger != nil {
		return gc.logger
	}
	return log.WithField("component", "renderer")
}
