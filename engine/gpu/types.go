package gpu

// WholeSize selects the remainder of a buffer starting at the given offset.
const WholeSize = ^uint64(0)

// TextureFormat identifies the texel layout of a texture or surface.
type TextureFormat uint32

const (
	TextureFormatUndefined TextureFormat = iota
	TextureFormatBGRA8Unorm
	TextureFormatBGRA8UnormSrgb
	TextureFormatRGBA8Unorm
	TextureFormatRGBA8UnormSrgb
	TextureFormatDepth24Plus
	TextureFormatDepth24PlusStencil8
	TextureFormatDepth32Float
)

var textureFormatNames = map[TextureFormat]string{
	TextureFormatUndefined:           "undefined",
	TextureFormatBGRA8Unorm:          "bgra8unorm",
	TextureFormatBGRA8UnormSrgb:      "bgra8unorm-srgb",
	TextureFormatRGBA8Unorm:          "rgba8unorm",
	TextureFormatRGBA8UnormSrgb:      "rgba8unorm-srgb",
	TextureFormatDepth24Plus:         "depth24plus",
	TextureFormatDepth24PlusStencil8: "depth24plus-stencil8",
	TextureFormatDepth32Float:        "depth32float",
}

func (f TextureFormat) String() string {
	if name, ok := textureFormatNames[f]; ok {
		return name
	}
	return "unknown"
}

// HasStencil reports whether the format carries a stencil aspect.
func (f TextureFormat) HasStencil() bool {
	return f == TextureFormatDepth24PlusStencil8
}

// PresentMode controls how presented images are queued for display.
type PresentMode uint32

const (
	// PresentModeFifo presents in submission order and waits for vertical blank.
	PresentModeFifo PresentMode = iota
	PresentModeImmediate
	PresentModeMailbox
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "fifo"
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	}
	return "unknown"
}

// ParsePresentMode maps a config string to a PresentMode.
//
// Parameters:
//   - s: one of "fifo", "immediate" or "mailbox"
//
// Returns:
//   - PresentMode: the parsed mode
//   - bool: false if s is not a known mode
func ParsePresentMode(s string) (PresentMode, bool) {
	for _, m := range []PresentMode{PresentModeFifo, PresentModeImmediate, PresentModeMailbox} {
		if m.String() == s {
			return m, true
		}
	}
	return PresentModeFifo, false
}

// BufferUsage is a bit set describing how a buffer may be used.
type BufferUsage uint32

const (
	BufferUsageMapRead BufferUsage = 1 << iota
	BufferUsageMapWrite
	BufferUsageCopySrc
	BufferUsageCopyDst
	BufferUsageIndex
	BufferUsageVertex
	BufferUsageUniform
	BufferUsageStorage
)

// TextureUsage is a bit set describing how a texture may be used.
type TextureUsage uint32

const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageTextureBinding
	TextureUsageStorageBinding
	TextureUsageRenderAttachment
)

// ShaderStage is a bit set of shader stages a binding is visible to.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute
)

// VertexFormat describes one vertex attribute.
type VertexFormat uint32

const (
	VertexFormatFloat32 VertexFormat = iota
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
	VertexFormatUint32
)

// Size returns the byte size of one attribute of this format.
func (f VertexFormat) Size() uint64 {
	switch f {
	case VertexFormatFloat32, VertexFormatUint32:
		return 4
	case VertexFormatFloat32x2:
		return 8
	case VertexFormatFloat32x3:
		return 12
	case VertexFormatFloat32x4:
		return 16
	}
	return 0
}

// VertexStepMode selects whether a vertex buffer advances per vertex or per instance.
type VertexStepMode uint32

const (
	VertexStepModeVertex VertexStepMode = iota
	VertexStepModeInstance
)

type BlendFactor uint32

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
)

type BlendOperation uint32

const (
	BlendOperationAdd BlendOperation = iota
	BlendOperationSubtract
	BlendOperationMin
	BlendOperationMax
)

type CompareFunction uint32

const (
	CompareFunctionUndefined CompareFunction = iota
	CompareFunctionNever
	CompareFunctionLess
	CompareFunctionLessEqual
	CompareFunctionEqual
	CompareFunctionAlways
)

type StencilOperation uint32

const (
	StencilOperationKeep StencilOperation = iota
	StencilOperationZero
	StencilOperationReplace
)

type PrimitiveTopology uint32

const (
	PrimitiveTopologyTriangleList PrimitiveTopology = iota
	PrimitiveTopologyTriangleStrip
	PrimitiveTopologyLineList
	PrimitiveTopologyPointList
)

type FrontFace uint32

const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

type CullMode uint32

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

type IndexFormat uint32

const (
	IndexFormatUint16 IndexFormat = iota
	IndexFormatUint32
)

// LoadOp selects what happens to an attachment at the start of a render pass.
// LoadOpUndefined leaves the aspect untouched, as required for read-only aspects.
type LoadOp uint32

const (
	LoadOpUndefined LoadOp = iota
	LoadOpClear
	LoadOpLoad
)

// StoreOp selects what happens to an attachment at the end of a render pass.
type StoreOp uint32

const (
	StoreOpUndefined StoreOp = iota
	StoreOpStore
	StoreOpDiscard
)

type BufferBindingType uint32

const (
	BufferBindingTypeUniform BufferBindingType = iota
	BufferBindingTypeStorage
	BufferBindingTypeReadOnlyStorage
)

type ColorWriteMask uint32

const (
	ColorWriteMaskRed ColorWriteMask = 1 << iota
	ColorWriteMaskGreen
	ColorWriteMaskBlue
	ColorWriteMaskAlpha

	ColorWriteMaskAll = ColorWriteMaskRed | ColorWriteMaskGreen | ColorWriteMaskBlue | ColorWriteMaskAlpha
)

// ErrorType classifies an uncaptured device error.
type ErrorType uint32

const (
	ErrorTypeNoError ErrorType = iota
	ErrorTypeValidation
	ErrorTypeOutOfMemory
	ErrorTypeInternal
	ErrorTypeUnknown
	ErrorTypeDeviceLost
)

func (e ErrorType) String() string {
	switch e {
	case ErrorTypeNoError:
		return "no error"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeOutOfMemory:
		return "out of memory"
	case ErrorTypeInternal:
		return "internal"
	case ErrorTypeDeviceLost:
		return "device lost"
	}
	return "unknown"
}

// RequestStatus is delivered to adapter and device request callbacks.
type RequestStatus uint32

const (
	RequestStatusSuccess RequestStatus = iota
	RequestStatusError
	RequestStatusUnavailable
	RequestStatusUnknown
)

func (s RequestStatus) String() string {
	switch s {
	case RequestStatusSuccess:
		return "success"
	case RequestStatusError:
		return "error"
	case RequestStatusUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// QueueWorkDoneStatus is delivered to submitted-work-done callbacks.
type QueueWorkDoneStatus uint32

const (
	QueueWorkDoneStatusSuccess QueueWorkDoneStatus = iota
	QueueWorkDoneStatusError
	QueueWorkDoneStatusUnknown
	QueueWorkDoneStatusDeviceLost
)

func (s QueueWorkDoneStatus) String() string {
	switch s {
	case QueueWorkDoneStatusSuccess:
		return "success"
	case QueueWorkDoneStatusError:
		return "error"
	case QueueWorkDoneStatusDeviceLost:
		return "device lost"
	}
	return "unknown"
}

// Color is a linear RGBA clear color.
type Color struct {
	R, G, B, A float64
}

// Extent3D is the size of a texture.
type Extent3D struct {
	Width              uint32
	Height             uint32
	DepthOrArrayLayers uint32
}

// Limits lists the device capabilities the engine negotiates.
// max* fields are upper bounds the application may use; min*Alignment fields are the smallest
// offset alignments the device accepts.
type Limits struct {
	MaxTextureDimension1D                     uint32
	MaxTextureDimension2D                     uint32
	MaxTextureDimension3D                     uint32
	MaxTextureArrayLayers                     uint32
	MaxBindGroups                             uint32
	MaxBindingsPerBindGroup                   uint32
	MaxDynamicUniformBuffersPerPipelineLayout uint32
	MaxDynamicStorageBuffersPerPipelineLayout uint32
	MaxSampledTexturesPerShaderStage          uint32
	MaxSamplersPerShaderStage                 uint32
	MaxStorageBuffersPerShaderStage           uint32
	MaxUniformBuffersPerShaderStage           uint32
	MaxUniformBufferBindingSize               uint64
	MaxStorageBufferBindingSize               uint64
	MinUniformBufferOffsetAlignment           uint32
	MinStorageBufferOffsetAlignment           uint32
	MaxVertexBuffers                          uint32
	MaxBufferSize                             uint64
	MaxVertexAttributes                       uint32
	MaxVertexBufferArrayStride                uint32
}

// DefaultLimits returns the WebGPU baseline limits every adapter is required to support.
func DefaultLimits() Limits {
	return Limits{
		MaxTextureDimension1D:                     8192,
		MaxTextureDimension2D:                     8192,
		MaxTextureDimension3D:                     2048,
		MaxTextureArrayLayers:                     256,
		MaxBindGroups:                             4,
		MaxBindingsPerBindGroup:                   1000,
		MaxDynamicUniformBuffersPerPipelineLayout: 8,
		MaxDynamicStorageBuffersPerPipelineLayout: 4,
		MaxSampledTexturesPerShaderStage:          16,
		MaxSamplersPerShaderStage:                 16,
		MaxStorageBuffersPerShaderStage:           8,
		MaxUniformBuffersPerShaderStage:           12,
		MaxUniformBufferBindingSize:               64 << 10,
		MaxStorageBufferBindingSize:               128 << 20,
		MinUniformBufferOffsetAlignment:           256,
		MinStorageBufferOffsetAlignment:           256,
		MaxVertexBuffers:                          8,
		MaxBufferSize:                             256 << 20,
		MaxVertexAttributes:                       16,
		MaxVertexBufferArrayStride:                2048,
	}
}

// SurfaceSource produces the platform descriptor a surface is created from.
// Windows implement it; the returned value is opaque to everything but the backend.
type SurfaceSource interface {
	SurfaceDescriptor() any
}

type RequestAdapterOptions struct {
	CompatibleSurface    Surface
	ForceFallbackAdapter bool
}

type DeviceDescriptor struct {
	Label          string
	RequiredLimits *Limits
}

type SurfaceConfiguration struct {
	Usage       TextureUsage
	Format      TextureFormat
	Width       uint32
	Height      uint32
	PresentMode PresentMode
}

type BufferDescriptor struct {
	Label            string
	Size             uint64
	Usage            BufferUsage
	MappedAtCreation bool
}

type TextureDescriptor struct {
	Label         string
	Size          Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Format        TextureFormat
	Usage         TextureUsage
}

type ShaderModuleDescriptor struct {
	Label string
	Code  string
}

type BufferBindingLayout struct {
	Type             BufferBindingType
	HasDynamicOffset bool
	MinBindingSize   uint64
}

type BindGroupLayoutEntry struct {
	Binding    uint32
	Visibility ShaderStage
	Buffer     BufferBindingLayout
}

type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

type BindGroupEntry struct {
	Binding uint32
	Buffer  Buffer
	Offset  uint64
	Size    uint64
}

type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

type PipelineLayoutDescriptor struct {
	Label            string
	BindGroupLayouts []BindGroupLayout
}

type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

type VertexBufferLayout struct {
	ArrayStride uint64
	StepMode    VertexStepMode
	Attributes  []VertexAttribute
}

type VertexState struct {
	Module     ShaderModule
	EntryPoint string
	Buffers    []VertexBufferLayout
}

type BlendComponent struct {
	SrcFactor BlendFactor
	DstFactor BlendFactor
	Operation BlendOperation
}

type BlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

type ColorTargetState struct {
	Format    TextureFormat
	Blend     *BlendState
	WriteMask ColorWriteMask
}

type FragmentState struct {
	Module     ShaderModule
	EntryPoint string
	Targets    []ColorTargetState
}

type PrimitiveState struct {
	Topology  PrimitiveTopology
	FrontFace FrontFace
	CullMode  CullMode
}

type StencilFaceState struct {
	Compare     CompareFunction
	FailOp      StencilOperation
	DepthFailOp StencilOperation
	PassOp      StencilOperation
}

type DepthStencilState struct {
	Format            TextureFormat
	DepthWriteEnabled bool
	DepthCompare      CompareFunction
	StencilFront      StencilFaceState
	StencilBack       StencilFaceState
	StencilReadMask   uint32
	StencilWriteMask  uint32
}

type MultisampleState struct {
	Count uint32
	Mask  uint32
}

type RenderPipelineDescriptor struct {
	Label        string
	Layout       PipelineLayout
	Vertex       VertexState
	Fragment     *FragmentState
	Primitive    PrimitiveState
	DepthStencil *DepthStencilState
	Multisample  MultisampleState
}

type RenderPassColorAttachment struct {
	View       TextureView
	LoadOp     LoadOp
	StoreOp    StoreOp
	ClearValue Color
}

type RenderPassDepthStencilAttachment struct {
	View              TextureView
	DepthLoadOp       LoadOp
	DepthStoreOp      StoreOp
	DepthClearValue   float32
	DepthReadOnly     bool
	StencilLoadOp     LoadOp
	StencilStoreOp    StoreOp
	StencilClearValue uint32
	StencilReadOnly   bool
}

type RenderPassDescriptor struct {
	Label                  string
	ColorAttachments       []RenderPassColorAttachment
	DepthStencilAttachment *RenderPassDepthStencilAttachment
}
