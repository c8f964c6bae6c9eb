// Package camera provides a Z-up orbit camera producing the projection and view matrices written
// into the uniform block.
package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
)

type cameraImpl struct {
	mu sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	target   mgl32.Vec3
	position mgl32.Vec3

	// Spherical coordinates of position around target.
	radius    float32
	azimuth   float32 // around the Z axis, zero looks along +Y
	elevation float32 // above the XY plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed float32
	zoomSpeed  float32
}

// Camera orbits a target point. Every method is safe for concurrent use.
type Camera interface {
	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// SetAspect sets the aspect ratio, typically on window resize. Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// Position returns the eye position derived from the orbit.
	Position() mgl32.Vec3

	// Target returns the point the camera looks at.
	Target() mgl32.Vec3

	// SetTarget moves the orbit center, keeping radius and angles.
	SetTarget(target mgl32.Vec3)

	Radius() float32
	Azimuth() float32
	Elevation() float32

	// Zoom moves the eye toward the target by delta zoom steps, clamped to the radius bounds.
	//
	// Parameters:
	//   - delta: positive values zoom in, negative zoom out
	Zoom(delta float32)

	OrbitLeft()
	OrbitRight()

	// OrbitUp and OrbitDown change elevation, clamped short of the poles.
	OrbitUp()
	OrbitDown()

	// View returns the Z-up view matrix.
	View() mgl32.Mat4

	// Projection returns the perspective projection with a [0, 1] depth range.
	Projection() mgl32.Mat4

	// Apply writes the projection and view matrices into u.
	Apply(u *uniform.Uniforms)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera 4 units from the origin, 45 degrees around and 30 degrees up.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		fov:    mgl32.DegToRad(45),
		aspect: 1,
		near:   0.1,
		far:    100,

		radius:    4,
		azimuth:   math.Pi / 4,
		elevation: math.Pi / 6,

		minRadius:    0.5,
		maxRadius:    50,
		minElevation: -math.Pi/2 + 0.1,
		maxElevation: math.Pi/2 - 0.1,

		orbitSpeed: 0.03,
		zoomSpeed:  0.25,
	}

	for _, option := range options {
		option(c)
	}

	c.radius = clamp(c.radius, c.minRadius, c.maxRadius)
	c.elevation = clamp(c.elevation, c.minElevation, c.maxElevation)
	c.updatePosition()
	return c
}

// updatePosition recomputes the eye from the spherical coordinates. Caller must hold the mutex.
func (c *cameraImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(c.elevation)))
	sinElev := float32(math.Sin(float64(c.elevation)))
	cosAzim := float32(math.Cos(float64(c.azimuth)))
	sinAzim := float32(math.Sin(float64(c.azimuth)))

	c.position = c.target.Add(mgl32.Vec3{
		c.radius * cosElev * sinAzim,
		-c.radius * cosElev * cosAzim,
		c.radius * sinElev,
	})
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) SetTarget(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.updatePosition()
}

func (c *cameraImpl) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *cameraImpl) Azimuth() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.azimuth
}

func (c *cameraImpl) Elevation() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elevation
}

func (c *cameraImpl) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = clamp(c.radius-delta*c.zoomSpeed, c.minRadius, c.maxRadius)
	c.updatePosition()
}

func (c *cameraImpl) OrbitLeft() {
	c.orbit(-1, 0)
}

func (c *cameraImpl) OrbitRight() {
	c.orbit(1, 0)
}

func (c *cameraImpl) OrbitUp() {
	c.orbit(0, 1)
}

func (c *cameraImpl) OrbitDown() {
	c.orbit(0, -1)
}

func (c *cameraImpl) orbit(azimuthSteps, elevationSteps float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth += azimuthSteps * c.orbitSpeed
	c.elevation = clamp(c.elevation+elevationSteps*c.orbitSpeed, c.minElevation, c.maxElevation)
	c.updatePosition()
}

func (c *cameraImpl) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uniform.LookAt(c.position, c.target)
}

func (c *cameraImpl) Projection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uniform.Perspective(c.fov, c.aspect, c.near, c.far)
}

func (c *cameraImpl) Apply(u *uniform.Uniforms) {
	u.Projection = c.Projection()
	u.View = c.View()
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
