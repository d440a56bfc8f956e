package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the color seen along ray, bouncing at most depth times
	RayColor(ray core.Ray, world core.Shape, sampler core.Sampler, depth int) core.Vec3
}
