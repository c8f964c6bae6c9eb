package uniform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective builds a right-handed projection with a [0, 1] depth range, as WebGPU clips depth
// to that range rather than OpenGL's [-1, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: width / height
//   - near, far: clip plane distances
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	// Remap z from [-1, 1] to [0, 1].
	depthFix := mgl32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0.5, 0,
		0, 0, 0.5, 1,
	}
	return depthFix.Mul4(mgl32.Perspective(fovY, aspect, near, far))
}

// LookAt builds a Z-up view matrix looking from eye at center.
func LookAt(eye, center mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, center, mgl32.Vec3{0, 0, 1})
}

// Spin returns a model matrix rotating angle radians around the Z axis, after scaling uniformly
// and translating by offset.
func Spin(angle, scale float32, offset mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(angle).
		Mul4(mgl32.Translate3D(offset.X(), offset.Y(), offset.Z())).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}
