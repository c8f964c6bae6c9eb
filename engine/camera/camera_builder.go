package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithFov sets the vertical field of view.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the aspect ratio (width / height).
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithClipPlanes sets the near and far clip distances.
//
// Parameters:
//   - near: near plane distance, greater than zero
//   - far: far plane distance, greater than near
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithTarget sets the orbit center.
func WithTarget(target mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = target
	}
}

// WithOrbit sets the starting spherical coordinates around the target.
//
// Parameters:
//   - radius: distance from the target
//   - azimuth: angle around Z in radians
//   - elevation: angle above the XY plane in radians
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithOrbit(radius, azimuth, elevation float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.radius = radius
		c.azimuth = azimuth
		c.elevation = elevation
	}
}

// WithRadiusBounds sets the minimum and maximum zoom distances.
func WithRadiusBounds(minRadius, maxRadius float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.minRadius = minRadius
		c.maxRadius = maxRadius
	}
}

// WithSpeeds sets the per-call orbit step in radians and the per-unit zoom step.
func WithSpeeds(orbit, zoom float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.orbitSpeed = orbit
		c.zoomSpeed = zoom
	}
}
