// Package uniform defines the CPU-side layout of the data shared with shaders.
package uniform

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

// Alignment is the hard alignment of uniform structures in WGSL's uniform address space.
const Alignment = 16

// Uniforms is the per-draw uniform block bound at @group(0) @binding(0).
// Its layout matches the WGSL struct:
//
//	struct Uniforms {
//	    projection: mat4x4f,
//	    view: mat4x4f,
//	    model: mat4x4f,
//	    color: vec4f,
//	    time: f32,
//	};
type Uniforms struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Model      mgl32.Mat4
	Color      mgl32.Vec4
	Time       float32
	_          [3]float32
}

// Size is the byte size of Uniforms, a multiple of Alignment.
const Size = uint64(unsafe.Sizeof(Uniforms{}))

// NewUniforms returns uniforms with identity matrices and an opaque white color.
func NewUniforms() Uniforms {
	return Uniforms{
		Projection: mgl32.Ident4(),
		View:       mgl32.Ident4(),
		Model:      mgl32.Ident4(),
		Color:      mgl32.Vec4{1, 1, 1, 1},
	}
}

// Bytes returns a copy of the uniforms in GPU layout.
func (u *Uniforms) Bytes() []byte {
	return append([]byte(nil), common.StructToBytes(u)...)
}

// Stride returns the distance between consecutive uniform slots in a dynamically offset buffer:
// align * ceil(size / align).
//
// Parameters:
//   - size: the byte size of one uniform block
//   - align: the device's minimum uniform buffer offset alignment
//
// Returns:
//   - uint64: the slot stride
func Stride(size, align uint64) uint64 {
	return common.AlignUp(size, align)
}

// Offset returns the dynamic offset of slot for the given stride.
func Offset(slot int, stride uint64) uint32 {
	return uint32(uint64(slot) * stride)
}

// VertexAttributes is one interleaved vertex of a loaded mesh.
type VertexAttributes struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    mgl32.Vec3
	UV       mgl32.Vec2
}

// VertexSize is the byte size of VertexAttributes.
const VertexSize = uint64(unsafe.Sizeof(VertexAttributes{}))

// VertexLayout returns the interleaved buffer layout of VertexAttributes with shader locations
// 0 (position), 1 (normal), 2 (color) and 3 (uv).
func VertexLayout() gpu.VertexBufferLayout {
	return gpu.VertexBufferLayout{
		ArrayStride: VertexSize,
		StepMode:    gpu.VertexStepModeVertex,
		Attributes: []gpu.VertexAttribute{
			{Format: gpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: gpu.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 2},
			{Format: gpu.VertexFormatFloat32x2, Offset: 36, ShaderLocation: 3},
		},
	}
}

// PointLayout returns the interleaved layout of a point/index model file: a position of
// dimensions floats at location 0 followed by an RGB color at location 1.
//
// Parameters:
//   - dimensions: 2 or 3
//
// Returns:
//   - gpu.VertexBufferLayout: the layout, with a stride of (dimensions+3) floats
func PointLayout(dimensions int) gpu.VertexBufferLayout {
	position := gpu.VertexFormatFloat32x2
	if dimensions == 3 {
		position = gpu.VertexFormatFloat32x3
	}
	return gpu.VertexBufferLayout{
		ArrayStride: uint64(dimensions+3) * 4,
		StepMode:    gpu.VertexStepModeVertex,
		Attributes: []gpu.VertexAttribute{
			{Format: position, Offset: 0, ShaderLocation: 0},
			{Format: gpu.VertexFormatFloat32x3, Offset: uint64(dimensions) * 4, ShaderLocation: 1},
		},
	}
}

// VerticesToBytes returns a copy of vertices in GPU layout.
func VerticesToBytes(vertices []VertexAttributes) []byte {
	return append([]byte(nil), common.SliceToBytes(vertices)...)
}
