package renderer

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

// Requirements is the application side of the device contract: the minimum capabilities the
// pipeline, buffers and swapchain built on top of the device assume.
type Requirements struct {
	VertexBuffers         uint32
	VertexAttributes      uint32
	VertexStride          uint32
	BufferSize            uint64
	UniformBindingSize    uint64
	BindGroups            uint32
	DynamicUniformBuffers uint32
	TextureDimension      uint32

	// Override holds explicit limits requested by the caller. Non-zero fields replace the
	// computed value.
	Override *gpu.Limits
}

// Limits builds the required-limits descriptor for a device.
// Fields the application does not care about start from the WebGPU baseline, lowered to what the
// adapter supports, so only real requirements can fail negotiation.
//
// Parameters:
//   - supported: the limits reported by the adapter
//
// Returns:
//   - gpu.Limits: the limits to request, not yet validated
func (r Requirements) Limits(supported gpu.Limits) gpu.Limits {
	out := baselineLimits(supported)

	raise32(&out.MaxVertexBuffers, r.VertexBuffers)
	raise32(&out.MaxVertexAttributes, r.VertexAttributes)
	raise32(&out.MaxVertexBufferArrayStride, r.VertexStride)
	raise64(&out.MaxBufferSize, r.BufferSize)
	raise64(&out.MaxUniformBufferBindingSize, r.UniformBindingSize)
	raise32(&out.MaxBindGroups, r.BindGroups)
	raise32(&out.MaxDynamicUniformBuffersPerPipelineLayout, r.DynamicUniformBuffers)
	raise32(&out.MaxUniformBuffersPerShaderStage, r.DynamicUniformBuffers)
	raise32(&out.MaxTextureDimension1D, r.TextureDimension)
	raise32(&out.MaxTextureDimension2D, r.TextureDimension)

	if r.Override != nil {
		out = mergeLimits(out, *r.Override)
	}
	return out
}

// NegotiateLimits validates required against supported.
// Every max* requirement must not exceed the supported value. min*Alignment requirements are
// raised to the adapter's alignment when they ask for something finer.
//
// Parameters:
//   - required: the limits the application needs
//   - supported: the limits reported by the adapter
//
// Returns:
//   - gpu.Limits: the limits to request the device with
//   - error: wraps common.ErrDeviceUnavailable and names every offending limit
func NegotiateLimits(required, supported gpu.Limits) (gpu.Limits, error) {
	out := required
	ov := reflect.ValueOf(&out).Elem()
	sv := reflect.ValueOf(supported)

	var violations []string
	for i := 0; i < ov.NumField(); i++ {
		name := ov.Type().Field(i).Name
		want, have := ov.Field(i).Uint(), sv.Field(i).Uint()

		if isAlignment(name) {
			if want < have {
				ov.Field(i).SetUint(have)
			}
			continue
		}
		if want > have {
			violations = append(violations, fmt.Sprintf("%s requires %d, adapter supports %d", limitName(name), want, have))
		}
	}

	if len(violations) > 0 {
		return gpu.Limits{}, fmt.Errorf("%w: unsupported limits: %s", common.ErrDeviceUnavailable, strings.Join(violations, "; "))
	}
	return out, nil
}

func baselineLimits(supported gpu.Limits) gpu.Limits {
	out := gpu.DefaultLimits()
	ov := reflect.ValueOf(&out).Elem()
	sv := reflect.ValueOf(supported)
	for i := 0; i < ov.NumField(); i++ {
		if isAlignment(ov.Type().Field(i).Name) {
			continue
		}
		if s := sv.Field(i).Uint(); s < ov.Field(i).Uint() {
			ov.Field(i).SetUint(s)
		}
	}
	return out
}

func mergeLimits(base, override gpu.Limits) gpu.Limits {
	bv := reflect.ValueOf(&base).Elem()
	ov := reflect.ValueOf(override)
	for i := 0; i < bv.NumField(); i++ {
		if v := ov.Field(i).Uint(); v != 0 {
			bv.Field(i).SetUint(v)
		}
	}
	return base
}

func isAlignment(field string) bool {
	return strings.HasPrefix(field, "Min") && strings.HasSuffix(field, "Alignment")
}

// limitName converts a Limits field name to the WebGPU spelling, e.g. maxVertexAttributes.
func limitName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func raise32(dst *uint32, need uint32) {
	if need > *dst {
		*dst = need
	}
}

func raise64(dst *uint64, need uint64) {
	if need > *dst {
		*dst = need
	}
}
