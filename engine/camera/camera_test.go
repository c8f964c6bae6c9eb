package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
)

func TestDefaultOrbitPosition(t *testing.T) {
	c := NewCamera(WithOrbit(2, 0, 0))

	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{0, -2, 0}, 1e-5), c.Position())
	assert.Equal(t, mgl32.Vec3{}, c.Target())
}

func TestTargetStaysInFrontOfCamera(t *testing.T) {
	c := NewCamera()

	// The target sits on the view-space -Z axis.
	eye := c.View().Mul4x1(c.Target().Vec4(1))
	assert.InDelta(t, 0, eye.X(), 1e-5)
	assert.InDelta(t, 0, eye.Y(), 1e-5)
	assert.InDelta(t, -c.Radius(), eye.Z(), 1e-4)
}

func TestSetTargetKeepsOffset(t *testing.T) {
	c := NewCamera()
	before := c.Position().Sub(c.Target())

	c.SetTarget(mgl32.Vec3{1, 2, 3})
	after := c.Position().Sub(c.Target())
	assert.True(t, before.ApproxEqualThreshold(after, 1e-5))
}

func TestZoomClampsRadius(t *testing.T) {
	c := NewCamera(WithOrbit(4, 0, 0), WithRadiusBounds(1, 5), WithSpeeds(0.1, 1))

	c.Zoom(2)
	assert.InDelta(t, 2, c.Radius(), 1e-6)
	c.Zoom(10)
	assert.InDelta(t, 1, c.Radius(), 1e-6)
	c.Zoom(-10)
	assert.InDelta(t, 5, c.Radius(), 1e-6)
}

func TestOrbitClampsElevation(t *testing.T) {
	c := NewCamera(WithSpeeds(1, 1))

	for i := 0; i < 10; i++ {
		c.OrbitUp()
	}
	assert.InDelta(t, math.Pi/2-0.1, c.Elevation(), 1e-6)

	for i := 0; i < 10; i++ {
		c.OrbitDown()
	}
	assert.InDelta(t, -math.Pi/2+0.1, c.Elevation(), 1e-6)

	start := c.Azimuth()
	c.OrbitRight()
	c.OrbitRight()
	c.OrbitLeft()
	assert.InDelta(t, start+1, c.Azimuth(), 1e-6)
}

func TestSetAspectIgnoresInvalid(t *testing.T) {
	c := NewCamera(WithAspect(2))
	c.SetAspect(0)
	assert.Equal(t, float32(2), c.Aspect())
	c.SetAspect(1.5)
	assert.Equal(t, float32(1.5), c.Aspect())
}

func TestApply(t *testing.T) {
	c := NewCamera(WithClipPlanes(1, 10))
	u := uniform.NewUniforms()
	c.Apply(&u)

	assert.Equal(t, c.Projection(), u.Projection)
	assert.Equal(t, c.View(), u.View)
	assert.Equal(t, mgl32.Ident4(), u.Model)
}
