package wgpu_backend

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

var textureFormats = map[gpu.TextureFormat]wgpu.TextureFormat{
	gpu.TextureFormatUndefined:           wgpu.TextureFormatUndefined,
	gpu.TextureFormatBGRA8Unorm:          wgpu.TextureFormatBGRA8Unorm,
	gpu.TextureFormatBGRA8UnormSrgb:      wgpu.TextureFormatBGRA8UnormSrgb,
	gpu.TextureFormatRGBA8Unorm:          wgpu.TextureFormatRGBA8Unorm,
	gpu.TextureFormatRGBA8UnormSrgb:      wgpu.TextureFormatRGBA8UnormSrgb,
	gpu.TextureFormatDepth24Plus:         wgpu.TextureFormatDepth24Plus,
	gpu.TextureFormatDepth24PlusStencil8: wgpu.TextureFormatDepth24PlusStencil8,
	gpu.TextureFormatDepth32Float:        wgpu.TextureFormatDepth32Float,
}

func toTextureFormat(f gpu.TextureFormat) wgpu.TextureFormat {
	return textureFormats[f]
}

func fromTextureFormat(f wgpu.TextureFormat) gpu.TextureFormat {
	for k, v := range textureFormats {
		if v == f {
			return k
		}
	}
	return gpu.TextureFormatUndefined
}

func toPresentMode(m gpu.PresentMode) wgpu.PresentMode {
	switch m {
	case gpu.PresentModeImmediate:
		return wgpu.PresentModeImmediate
	case gpu.PresentModeMailbox:
		return wgpu.PresentModeMailbox
	}
	return wgpu.PresentModeFifo
}

func toBufferUsage(u gpu.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	pairs := []struct {
		from gpu.BufferUsage
		to   wgpu.BufferUsage
	}{
		{gpu.BufferUsageMapRead, wgpu.BufferUsageMapRead},
		{gpu.BufferUsageMapWrite, wgpu.BufferUsageMapWrite},
		{gpu.BufferUsageCopySrc, wgpu.BufferUsageCopySrc},
		{gpu.BufferUsageCopyDst, wgpu.BufferUsageCopyDst},
		{gpu.BufferUsageIndex, wgpu.BufferUsageIndex},
		{gpu.BufferUsageVertex, wgpu.BufferUsageVertex},
		{gpu.BufferUsageUniform, wgpu.BufferUsageUniform},
		{gpu.BufferUsageStorage, wgpu.BufferUsageStorage},
	}
	for _, p := range pairs {
		if u&p.from != 0 {
			out |= p.to
		}
	}
	return out
}

func toTextureUsage(u gpu.TextureUsage) wgpu.TextureUsage {
	var out wgpu.TextureUsage
	if u&gpu.TextureUsageCopySrc != 0 {
		out |= wgpu.TextureUsageCopySrc
	}
	if u&gpu.TextureUsageCopyDst != 0 {
		out |= wgpu.TextureUsageCopyDst
	}
	if u&gpu.TextureUsageTextureBinding != 0 {
		out |= wgpu.TextureUsageTextureBinding
	}
	if u&gpu.TextureUsageStorageBinding != 0 {
		out |= wgpu.TextureUsageStorageBinding
	}
	if u&gpu.TextureUsageRenderAttachment != 0 {
		out |= wgpu.TextureUsageRenderAttachment
	}
	return out
}

func toShaderStage(s gpu.ShaderStage) wgpu.ShaderStage {
	out := wgpu.ShaderStageNone
	if s&gpu.ShaderStageVertex != 0 {
		out |= wgpu.ShaderStageVertex
	}
	if s&gpu.ShaderStageFragment != 0 {
		out |= wgpu.ShaderStageFragment
	}
	if s&gpu.ShaderStageCompute != 0 {
		out |= wgpu.ShaderStageCompute
	}
	return out
}

func toVertexFormat(f gpu.VertexFormat) wgpu.VertexFormat {
	switch f {
	case gpu.VertexFormatFloat32x2:
		return wgpu.VertexFormatFloat32x2
	case gpu.VertexFormatFloat32x3:
		return wgpu.VertexFormatFloat32x3
	case gpu.VertexFormatFloat32x4:
		return wgpu.VertexFormatFloat32x4
	case gpu.VertexFormatUint32:
		return wgpu.VertexFormatUint32
	}
	return wgpu.VertexFormatFloat32
}

func toVertexLayouts(layouts []gpu.VertexBufferLayout) []wgpu.VertexBufferLayout {
	out := make([]wgpu.VertexBufferLayout, len(layouts))
	for i, l := range layouts {
		attrs := make([]wgpu.VertexAttribute, len(l.Attributes))
		for j, a := range l.Attributes {
			attrs[j] = wgpu.VertexAttribute{
				Format:         toVertexFormat(a.Format),
				Offset:         a.Offset,
				ShaderLocation: a.ShaderLocation,
			}
		}
		stepMode := wgpu.VertexStepModeVertex
		if l.StepMode == gpu.VertexStepModeInstance {
			stepMode = wgpu.VertexStepModeInstance
		}
		out[i] = wgpu.VertexBufferLayout{
			ArrayStride: l.ArrayStride,
			StepMode:    stepMode,
			Attributes:  attrs,
		}
	}
	return out
}

func toBlendFactor(f gpu.BlendFactor) wgpu.BlendFactor {
	switch f {
	case gpu.BlendFactorOne:
		return wgpu.BlendFactorOne
	case gpu.BlendFactorSrcAlpha:
		return wgpu.BlendFactorSrcAlpha
	case gpu.BlendFactorOneMinusSrcAlpha:
		return wgpu.BlendFactorOneMinusSrcAlpha
	case gpu.BlendFactorDstAlpha:
		return wgpu.BlendFactorDstAlpha
	case gpu.BlendFactorOneMinusDstAlpha:
		return wgpu.BlendFactorOneMinusDstAlpha
	}
	return wgpu.BlendFactorZero
}

func toBlendOperation(o gpu.BlendOperation) wgpu.BlendOperation {
	switch o {
	case gpu.BlendOperationSubtract:
		return wgpu.BlendOperationSubtract
	case gpu.BlendOperationMin:
		return wgpu.BlendOperationMin
	case gpu.BlendOperationMax:
		return wgpu.BlendOperationMax
	}
	return wgpu.BlendOperationAdd
}

func toBlendComponent(c gpu.BlendComponent) wgpu.BlendComponent {
	return wgpu.BlendComponent{
		SrcFactor: toBlendFactor(c.SrcFactor),
		DstFactor: toBlendFactor(c.DstFactor),
		Operation: toBlendOperation(c.Operation),
	}
}

func toCompareFunction(c gpu.CompareFunction) wgpu.CompareFunction {
	switch c {
	case gpu.CompareFunctionNever:
		return wgpu.CompareFunctionNever
	case gpu.CompareFunctionLess:
		return wgpu.CompareFunctionLess
	case gpu.CompareFunctionLessEqual:
		return wgpu.CompareFunctionLessEqual
	case gpu.CompareFunctionEqual:
		return wgpu.CompareFunctionEqual
	case gpu.CompareFunctionAlways:
		return wgpu.CompareFunctionAlways
	}
	return wgpu.CompareFunctionUndefined
}

func toStencilOperation(o gpu.StencilOperation) wgpu.StencilOperation {
	switch o {
	case gpu.StencilOperationZero:
		return wgpu.StencilOperationZero
	case gpu.StencilOperationReplace:
		return wgpu.StencilOperationReplace
	}
	return wgpu.StencilOperationKeep
}

func toStencilFace(s gpu.StencilFaceState) wgpu.StencilFaceState {
	return wgpu.StencilFaceState{
		Compare:     toCompareFunction(s.Compare),
		FailOp:      toStencilOperation(s.FailOp),
		DepthFailOp: toStencilOperation(s.DepthFailOp),
		PassOp:      toStencilOperation(s.PassOp),
	}
}

func toPrimitive(p gpu.PrimitiveState) wgpu.PrimitiveState {
	topology := wgpu.PrimitiveTopologyTriangleList
	switch p.Topology {
	case gpu.PrimitiveTopologyTriangleStrip:
		topology = wgpu.PrimitiveTopologyTriangleStrip
	case gpu.PrimitiveTopologyLineList:
		topology = wgpu.PrimitiveTopologyLineList
	case gpu.PrimitiveTopologyPointList:
		topology = wgpu.PrimitiveTopologyPointList
	}
	frontFace := wgpu.FrontFaceCCW
	if p.FrontFace == gpu.FrontFaceCW {
		frontFace = wgpu.FrontFaceCW
	}
	cullMode := wgpu.CullModeNone
	switch p.CullMode {
	case gpu.CullModeFront:
		cullMode = wgpu.CullModeFront
	case gpu.CullModeBack:
		cullMode = wgpu.CullModeBack
	}
	return wgpu.PrimitiveState{
		Topology:  topology,
		FrontFace: frontFace,
		CullMode:  cullMode,
	}
}

func toIndexFormat(f gpu.IndexFormat) wgpu.IndexFormat {
	if f == gpu.IndexFormatUint16 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

func toLoadOp(op gpu.LoadOp) wgpu.LoadOp {
	switch op {
	case gpu.LoadOpClear:
		return wgpu.LoadOpClear
	case gpu.LoadOpLoad:
		return wgpu.LoadOpLoad
	}
	return wgpu.LoadOpUndefined
}

func toStoreOp(op gpu.StoreOp) wgpu.StoreOp {
	switch op {
	case gpu.StoreOpStore:
		return wgpu.StoreOpStore
	case gpu.StoreOpDiscard:
		return wgpu.StoreOpDiscard
	}
	return wgpu.StoreOpUndefined
}

func toBufferBindingType(t gpu.BufferBindingType) wgpu.BufferBindingType {
	switch t {
	case gpu.BufferBindingTypeStorage:
		return wgpu.BufferBindingTypeStorage
	case gpu.BufferBindingTypeReadOnlyStorage:
		return wgpu.BufferBindingTypeReadOnlyStorage
	}
	return wgpu.BufferBindingTypeUniform
}

func toColorWriteMask(m gpu.ColorWriteMask) wgpu.ColorWriteMask {
	var out wgpu.ColorWriteMask
	if m&gpu.ColorWriteMaskRed != 0 {
		out |= wgpu.ColorWriteMaskRed
	}
	if m&gpu.ColorWriteMaskGreen != 0 {
		out |= wgpu.ColorWriteMaskGreen
	}
	if m&gpu.ColorWriteMaskBlue != 0 {
		out |= wgpu.ColorWriteMaskBlue
	}
	if m&gpu.ColorWriteMaskAlpha != 0 {
		out |= wgpu.ColorWriteMaskAlpha
	}
	return out
}

// toLimits starts from the binding's defaults so limits the engine does not negotiate keep
// their baseline values.
func toLimits(l gpu.Limits) wgpu.Limits {
	out := wgpu.DefaultLimits()
	out.MaxTextureDimension1D = l.MaxTextureDimension1D
	out.MaxTextureDimension2D = l.MaxTextureDimension2D
	out.MaxTextureDimension3D = l.MaxTextureDimension3D
	out.MaxTextureArrayLayers = l.MaxTextureArrayLayers
	out.MaxBindGroups = l.MaxBindGroups
	out.MaxBindingsPerBindGroup = l.MaxBindingsPerBindGroup
	out.MaxDynamicUniformBuffersPerPipelineLayout = l.MaxDynamicUniformBuffersPerPipelineLayout
	out.MaxDynamicStorageBuffersPerPipelineLayout = l.MaxDynamicStorageBuffersPerPipelineLayout
	out.MaxSampledTexturesPerShaderStage = l.MaxSampledTexturesPerShaderStage
	out.MaxSamplersPerShaderStage = l.MaxSamplersPerShaderStage
	out.MaxStorageBuffersPerShaderStage = l.MaxStorageBuffersPerShaderStage
	out.MaxUniformBuffersPerShaderStage = l.MaxUniformBuffersPerShaderStage
	out.MaxUniformBufferBindingSize = l.MaxUniformBufferBindingSize
	out.MaxStorageBufferBindingSize = l.MaxStorageBufferBindingSize
	out.MinUniformBufferOffsetAlignment = l.MinUniformBufferOffsetAlignment
	out.MinStorageBufferOffsetAlignment = l.MinStorageBufferOffsetAlignment
	out.MaxVertexBuffers = l.MaxVertexBuffers
	out.MaxBufferSize = l.MaxBufferSize
	out.MaxVertexAttributes = l.MaxVertexAttributes
	out.MaxVertexBufferArrayStride = l.MaxVertexBufferArrayStride
	return out
}

func fromLimits(l wgpu.Limits) gpu.Limits {
	return gpu.Limits{
		MaxTextureDimension1D:                     l.MaxTextureDimension1D,
		MaxTextureDimension2D:                     l.MaxTextureDimension2D,
		MaxTextureDimension3D:                     l.MaxTextureDimension3D,
		MaxTextureArrayLayers:                     l.MaxTextureArrayLayers,
		MaxBindGroups:                             l.MaxBindGroups,
		MaxBindingsPerBindGroup:                   l.MaxBindingsPerBindGroup,
		MaxDynamicUniformBuffersPerPipelineLayout: l.MaxDynamicUniformBuffersPerPipelineLayout,
		MaxDynamicStorageBuffersPerPipelineLayout: l.MaxDynamicStorageBuffersPerPipelineLayout,
		MaxSampledTexturesPerShaderStage:          l.MaxSampledTexturesPerShaderStage,
		MaxSamplersPerShaderStage:                 l.MaxSamplersPerShaderStage,
		MaxStorageBuffersPerShaderStage:           l.MaxStorageBuffersPerShaderStage,
		MaxUniformBuffersPerShaderStage:           l.MaxUniformBuffersPerShaderStage,
		MaxUniformBufferBindingSize:               l.MaxUniformBufferBindingSize,
		MaxStorageBufferBindingSize:               l.MaxStorageBufferBindingSize,
		MinUniformBufferOffsetAlignment:           l.MinUniformBufferOffsetAlignment,
		MinStorageBufferOffsetAlignment:           l.MinStorageBufferOffsetAlignment,
		MaxVertexBuffers:                          l.MaxVertexBuffers,
		MaxBufferSize:                             l.MaxBufferSize,
		MaxVertexAttributes:                       l.MaxVertexAttributes,
		MaxVertexBufferArrayStride:                l.MaxVertexBufferArrayStride,
	}
}
