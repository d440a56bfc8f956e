package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewGlassScene creates a row of dielectric spheres of increasing refractive index
// in front of diffuse and metal backdrop spheres
func NewGlassScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(0, 1, 3),
		LookAt:        core.NewVec3(0, 0.4, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         384,
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.05,
		FocusDistance: 0.0,
	}

	s := NewScene(defaultCameraConfig, cameraOverrides...)

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground)

	indices := []float64{1.0, 1.33, 1.5, 2.4}
	for i, ri := range indices {
		x := -1.5 + float64(i)
		s.AddSphere(core.NewVec3(x, 0.4, 0), 0.4, material.NewDielectric(ri))
	}

	// Backdrop
	s.AddSphere(core.NewVec3(-1, 0.6, -2.5), 0.6, material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2)))
	s.AddSphere(core.NewVec3(0.3, 0.6, -2.8), 0.6, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.05))
	s.AddSphere(core.NewVec3(1.6, 0.6, -2.5), 0.6, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))

	return s
}
