package gpu

// RequestAdapterCallback receives the result of Instance.RequestAdapter.
// adapter is nil unless status is RequestStatusSuccess.
type RequestAdapterCallback func(status RequestStatus, adapter Adapter, message string)

// RequestDeviceCallback receives the result of Adapter.RequestDevice.
// device is nil unless status is RequestStatusSuccess.
type RequestDeviceCallback func(status RequestStatus, device Device, message string)

// ErrorCallback receives device errors that were not captured by the call that caused them.
type ErrorCallback func(errType ErrorType, message string)

// QueueWorkDoneCallback fires once the work submitted before registration has completed.
type QueueWorkDoneCallback func(status QueueWorkDoneStatus)

// Instance is the entry point of a graphics backend.
type Instance interface {
	// CreateSurface binds a presentable surface to a native window.
	//
	// Parameters:
	//   - source: the window providing the platform surface descriptor
	//
	// Returns:
	//   - Surface: the created surface
	//   - error: error if the platform surface could not be created
	CreateSurface(source SurfaceSource) (Surface, error)

	// RequestAdapter asks the backend for an adapter. The callback may fire before
	// RequestAdapter returns or later, from ProcessEvents.
	//
	// Parameters:
	//   - options: adapter selection options, may be nil
	//   - callback: receives the adapter or a diagnostic message
	RequestAdapter(options *RequestAdapterOptions, callback RequestAdapterCallback)

	// ProcessEvents drives pending asynchronous callbacks.
	ProcessEvents()

	Release()
}

// Surface is a window-bound presentation target.
type Surface interface {
	// PreferredFormat returns the surface format preferred for the adapter.
	PreferredFormat(adapter Adapter) TextureFormat

	// Configure (re)creates the swapchain images backing the surface.
	//
	// Parameters:
	//   - adapter: the adapter the device was requested from
	//   - device: the device that renders into the surface
	//   - config: size, format, usage and present mode
	//
	// Returns:
	//   - error: error if the configuration was rejected
	Configure(adapter Adapter, device Device, config *SurfaceConfiguration) error

	// CurrentTextureView acquires the next presentable image and returns a view of it.
	// Releasing the view also releases the acquired image.
	//
	// Returns:
	//   - TextureView: the view, nil if no image is available
	//   - error: error if acquisition failed
	CurrentTextureView() (TextureView, error)

	// Present queues the acquired image for display.
	Present() error

	Release()
}

// Adapter represents one physical or software GPU.
type Adapter interface {
	// Limits returns the limits the adapter supports.
	Limits() Limits

	// Features returns the names of optional features the adapter supports.
	Features() []string

	// RequestDevice asks the adapter for a logical device. The callback may fire before
	// RequestDevice returns or later, from Instance.ProcessEvents.
	//
	// Parameters:
	//   - descriptor: label and required limits, may be nil
	//   - callback: receives the device or a diagnostic message
	RequestDevice(descriptor *DeviceDescriptor, callback RequestDeviceCallback)

	Release()
}

// Device creates resources and owns the command queue.
type Device interface {
	Limits() Limits
	Queue() Queue

	// SetUncapturedErrorCallback registers the handler for errors no call reported directly.
	SetUncapturedErrorCallback(callback ErrorCallback)

	CreateBuffer(descriptor *BufferDescriptor) (Buffer, error)
	CreateTexture(descriptor *TextureDescriptor) (Texture, error)
	CreateShaderModule(descriptor *ShaderModuleDescriptor) (ShaderModule, error)
	CreateBindGroupLayout(descriptor *BindGroupLayoutDescriptor) (BindGroupLayout, error)
	CreateBindGroup(descriptor *BindGroupDescriptor) (BindGroup, error)
	CreatePipelineLayout(descriptor *PipelineLayoutDescriptor) (PipelineLayout, error)
	CreateRenderPipeline(descriptor *RenderPipelineDescriptor) (RenderPipeline, error)
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// Poll processes completed device work, blocking until the queue is idle when wait is true.
	//
	// Returns:
	//   - bool: true if the queue is empty
	Poll(wait bool) bool

	Release()
}

// Queue executes command buffers in submission order.
type Queue interface {
	// WriteBuffer copies data into buffer at offset. The write is ordered before any command
	// buffer submitted afterwards.
	WriteBuffer(buffer Buffer, offset uint64, data []byte) error

	// Submit schedules command buffers for execution.
	Submit(commands ...CommandBuffer)

	// OnSubmittedWorkDone registers a one-shot notification for previously submitted work.
	OnSubmittedWorkDone(callback QueueWorkDoneCallback)

	Release()
}

// Buffer is a content-owning GPU memory region.
type Buffer interface {
	Size() uint64
	Usage() BufferUsage
	Destroy()
	Release()
}

// Texture is a content-owning image.
type Texture interface {
	CreateView() (TextureView, error)
	Destroy()
	Release()
}

type TextureView interface {
	Release()
}

type ShaderModule interface {
	Release()
}

type BindGroupLayout interface {
	Release()
}

type BindGroup interface {
	Release()
}

type PipelineLayout interface {
	Release()
}

type RenderPipeline interface {
	Release()
}

type CommandBuffer interface {
	Release()
}

// CommandEncoder records GPU commands into a CommandBuffer.
type CommandEncoder interface {
	BeginRenderPass(descriptor *RenderPassDescriptor) (RenderPassEncoder, error)
	Finish() (CommandBuffer, error)
	Release()
}

// RenderPassEncoder records draw commands against a fixed set of attachments.
type RenderPassEncoder interface {
	SetPipeline(pipeline RenderPipeline)
	SetBindGroup(index uint32, group BindGroup, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buffer Buffer, offset, size uint64)
	SetIndexBuffer(buffer Buffer, format IndexFormat, offset, size uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	End() error
	Release()
}
