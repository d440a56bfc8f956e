package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// DiffuseModel selects how a Lambertian surface picks its scatter direction
type DiffuseModel int

const (
	// DiffuseUnitVector offsets the normal by a random unit vector (cosine-weighted)
	DiffuseUnitVector DiffuseModel = iota
	// DiffuseHemisphere picks a uniform point in the hemisphere around the normal
	DiffuseHemisphere
)

// Lambertian represents a diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
	Model  DiffuseModel
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo, Model: DiffuseUnitVector}
}

// NewHemisphereLambertian creates a diffuse material using uniform hemisphere scattering
func NewHemisphereLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo, Model: DiffuseHemisphere}
}

// Scatter implements the Material interface for lambertian scattering.
// Diffuse surfaces never absorb.
func (l *Lambertian) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	var scatterDirection core.Vec3
	switch l.Model {
	case DiffuseHemisphere:
		scatterDirection = core.RandomInHemisphere(hit.Normal, sampler)
	default:
		scatterDirection = hit.Normal.Add(core.RandomUnitVector(sampler))
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: l.Albedo,
	}, true
}
