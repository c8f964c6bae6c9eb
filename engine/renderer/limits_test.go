package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiateLimits(t *testing.T) {
	supported := gpu.DefaultLimits()
	supported.MinUniformBufferOffsetAlignment = 64

	required := gpu.DefaultLimits()
	required.MinUniformBufferOffsetAlignment = 16
	required.MaxVertexAttributes = 8

	out, err := NegotiateLimits(required, supported)
	require.NoError(t, err)
	assert.Equal(t, uint32(64), out.MinUniformBufferOffsetAlignment)
	assert.Equal(t, uint32(256), out.MinStorageBufferOffsetAlignment)
	assert.Equal(t, uint32(8), out.MaxVertexAttributes)
}

func TestNegotiateLimitsViolations(t *testing.T) {
	supported := gpu.DefaultLimits()
	required := gpu.DefaultLimits()
	required.MaxVertexAttributes = supported.MaxVertexAttributes + 1
	required.MaxBufferSize = supported.MaxBufferSize * 2

	_, err := NegotiateLimits(required, supported)
	require.ErrorIs(t, err, common.ErrDeviceUnavailable)
	assert.Contains(t, err.Error(), "maxVertexAttributes requires 17, adapter supports 16")
	assert.Contains(t, err.Error(), "maxBufferSize")
}

func TestRequirementsLimits(t *testing.T) {
	supported := gpu.DefaultLimits()
	supported.MaxTextureDimension2D = 4096
	supported.MaxVertexAttributes = 8

	r := Requirements{
		VertexBuffers:         1,
		VertexAttributes:      4,
		VertexStride:          44,
		BufferSize:            1 << 20,
		UniformBindingSize:    224,
		BindGroups:            1,
		DynamicUniformBuffers: 1,
		TextureDimension:      640,
	}
	out := r.Limits(supported)

	assert.Equal(t, uint32(8), out.MaxVertexAttributes)
	assert.Equal(t, uint32(4096), out.MaxTextureDimension2D)
	assert.Equal(t, gpu.DefaultLimits().MinUniformBufferOffsetAlignment, out.MinUniformBufferOffsetAlignment)

	_, err := NegotiateLimits(out, supported)
	assert.NoError(t, err)

	r.TextureDimension = 8192
	_, err = NegotiateLimits(r.Limits(supported), supported)
	assert.ErrorIs(t, err, common.ErrDeviceUnavailable)
}

func TestRequirementsOverride(t *testing.T) {
	r := Requirements{Override: &gpu.Limits{MaxBindGroups: 2, MinUniformBufferOffsetAlignment: 32}}
	out := r.Limits(gpu.DefaultLimits())

	assert.Equal(t, uint32(2), out.MaxBindGroups)
	assert.Equal(t, uint32(32), out.MinUniformBufferOffsetAlignment)
	assert.Equal(t, gpu.DefaultLimits().MaxVertexBuffers, out.MaxVertexBuffers)
}

func TestLimitName(t *testing.T) {
	assert.Equal(t, "maxVertexAttributes", limitName("MaxVertexAttributes"))
	assert.Equal(t, "minUniformBufferOffsetAlignment", limitName("MinUniformBufferOffsetAlignment"))
}
