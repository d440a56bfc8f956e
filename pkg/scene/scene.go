package scene

import (
	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.HittableList
	SamplingConfig renderer.SamplingConfig
	Background     integrator.Background
}

// NewScene creates an empty scene with the given camera, default sampling and the sky background.
// Overrides are merged into cameraConfig before the camera is built.
func NewScene(cameraConfig renderer.CameraConfig, cameraOverrides ...renderer.CameraConfig) *Scene {
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	return &Scene{
		Camera:         renderer.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		World:          geometry.NewHittableList(),
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Background:     integrator.DefaultBackground(),
	}
}

// AddSphere adds a sphere to the world
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat core.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// SetCameraConfig replaces the camera configuration and rebuilds the camera
func (s *Scene) SetCameraConfig(config renderer.CameraConfig) {
	s.CameraConfig = config
	s.Camera = renderer.NewCamera(config)
}

// Validate checks the camera, sampling settings and every shape in the world
func (s *Scene) Validate() error {
	if err := s.CameraConfig.Validate(); err != nil {
		return errors.Wrap(err, "invalid camera")
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return errors.Wrap(err, "invalid sampling config")
	}
	if err := s.World.Validate(); err != nil {
		return errors.Wrap(err, "invalid world")
	}
	return nil
}

// ImageSize returns the output dimensions implied by the camera configuration
func (s *Scene) ImageSize() (width, height int) {
	return s.CameraConfig.Width, s.CameraConfig.ImageHeight()
}

// GetPrimitiveCount returns the number of shapes in the world
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// GetCamera implements renderer.Scene
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld implements renderer.Scene
func (s *Scene) GetWorld() core.Shape {
	return s.World
}

// GetBackground implements renderer.Scene
func (s *Scene) GetBackground() integrator.Background {
	return s.Background
}
