package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// DefaultRandomSceneSeed fixes the layout of the registered random scene
const DefaultRandomSceneSeed = 1

// NewRandomScene creates a field of small random spheres around three large ones.
// The layout depends only on layoutSeed, not on the render seed.
func NewRandomScene(layoutSeed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         384,
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	s := NewScene(defaultCameraConfig, cameraOverrides...)
	sampler := core.NewSeededSampler(layoutSeed)

	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	// Small spheres share one glass material
	glass := material.NewDielectric(1.5)
	clearance := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(float64(a)+0.9*sampler.Get1D(), 0.2, float64(b)+0.9*sampler.Get1D())
			if center.Subtract(clearance).Length() <= 0.9 {
				continue
			}

			var mat core.Material
			switch {
			case chooseMat < 0.8:
				albedo := randomColor(sampler, 0, 1).MultiplyVec(randomColor(sampler, 0, 1))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := randomColor(sampler, 0.5, 1)
				mat = material.NewMetal(albedo, sampler.GetRange(0, 0.5))
			default:
				mat = glass
			}
			s.AddSphere(center, 0.2, mat)
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, glass)
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))

	return s
}

func randomColor(sampler core.Sampler, min, max float64) core.Vec3 {
	return core.NewVec3(sampler.GetRange(min, max), sampler.GetRange(min, max), sampler.GetRange(min, max))
}
