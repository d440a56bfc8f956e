package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewDefaultScene creates the diffuse, metal and glass spheres on a large ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(-2, 2, 1),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         384,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.0,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}

	s := NewScene(defaultCameraConfig, cameraOverrides...)

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, center)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, gold)

	return s
}
