package renderer

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	LookFrom      core.Vec3 `json:"lookFrom"`      // Camera position
	LookAt        core.Vec3 `json:"lookAt"`        // Point the camera is looking at
	Up            core.Vec3 `json:"up"`            // Up direction (usually 0,1,0)
	Width         int       `json:"width"`         // Image width in pixels, height is derived from aspect ratio
	AspectRatio   float64   `json:"aspectRatio"`   // Width / height ratio
	VFov          float64   `json:"vfov"`          // Vertical field of view in degrees
	Aperture      float64   `json:"aperture"`      // Lens diameter, 0 for a pinhole camera
	FocusDistance float64   `json:"focusDistance"` // Distance to the plane in focus, 0 = distance to LookAt
}

// ImageHeight returns the image height implied by Width and AspectRatio
func (c CameraConfig) ImageHeight() int {
	return max(1, int(float64(c.Width)/c.AspectRatio))
}

// Validate reports camera parameters that would produce a degenerate basis or viewport
func (c CameraConfig) Validate() error {
	if c.Width <= 0 {
		return errors.Errorf("camera width must be positive, got %d", c.Width)
	}
	if !(c.AspectRatio > 0) {
		return errors.Errorf("camera aspect ratio must be positive, got %v", c.AspectRatio)
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		return errors.Errorf("camera vertical field of view must be in (0, 180), got %v", c.VFov)
	}
	if c.Aperture < 0 {
		return errors.Errorf("camera aperture must not be negative, got %v", c.Aperture)
	}
	if c.FocusDistance < 0 {
		return errors.Errorf("camera focus distance must not be negative, got %v", c.FocusDistance)
	}
	view := c.LookFrom.Subtract(c.LookAt)
	if view.LengthSquared() == 0 {
		return errors.New("camera lookFrom and lookAt must differ")
	}
	if c.Up.Cross(view).LengthSquared() == 0 {
		return errors.New("camera up vector must not be parallel to the view direction")
	}
	return nil
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}
	if override.LookFrom != zero {
		result.LookFrom = override.LookFrom
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// Camera generates rays for rendering, with thin-lens depth of field
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // orthonormal basis, w points away from the scene
	lensRadius      float64
	config          CameraConfig
}

// NewCamera creates a camera from the configuration.
// The configuration is expected to pass Validate.
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180
	halfHeight := math.Tan(theta / 2)
	halfWidth := config.AspectRatio * halfHeight

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.LookFrom.Subtract(config.LookAt).Length()
	}

	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.LookFrom
	horizontal := u.Multiply(2 * halfWidth * focusDistance)
	vertical := v.Multiply(2 * halfHeight * focusDistance)
	lowerLeftCorner := origin.
		Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		config:          config,
	}
}

// GetRay generates a ray for image-plane coordinates (s, t) where 0 <= s,t <= 1
// and (0, 0) is the lower-left corner
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	// Sample the lens for defocus blur
	rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
	offset := c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin).
		Subtract(offset)

	return core.NewRay(c.origin.Add(offset), direction)
}

// GetConfig returns the configuration the camera was built from
func (c *Camera) GetConfig() CameraConfig {
	return c.config
}

// GetCameraForward returns the unit view direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}
