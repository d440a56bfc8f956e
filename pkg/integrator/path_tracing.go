package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ShadowAcneEpsilon is the minimum hit distance for every traced ray, so that
// scattered rays do not re-hit the surface they start on due to round-off.
const ShadowAcneEpsilon = 0.001

// Background is the sky gradient seen by rays that escape the scene
type Background struct {
	TopColor    core.Vec3 // color at direction.y = +1
	BottomColor core.Vec3 // color at direction.y = -1
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		TopColor:    core.NewVec3(0.5, 0.7, 1.0),
		BottomColor: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// PathTracingIntegrator implements unidirectional path tracing with no explicit lights
type PathTracingIntegrator struct {
	background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{background: background}
}

// RayColor computes the radiance arriving along ray after at most depth bounces
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world core.Shape, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return pt.backgroundGradient(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(pt.RayColor(scatter.Scattered, world, sampler, depth-1))
}

// backgroundGradient returns a gradient color based on ray direction
func (pt *PathTracingIntegrator) backgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return pt.background.BottomColor.Multiply(1.0 - t).Add(pt.background.TopColor.Multiply(t))
}
