package geometry

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material core.Material
}

// NewSphere creates a new sphere. The material is shared, not copied.
func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Validate reports spheres that cannot be hit-tested meaningfully
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return errors.Errorf("sphere at %v: radius must be positive and finite, got %v", s.Center, s.Radius)
	}
	if s.Material == nil {
		return errors.Errorf("sphere at %v: missing material", s.Center)
	}
	if v, ok := s.Material.(Validator); ok {
		if err := v.Validate(); err != nil {
			return errors.Wrapf(err, "sphere at %v", s.Center)
		}
	}
	return nil
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	// Quadratic coefficients for |O + tD - C|^2 = r^2, with b = 2*halfB
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c

	// Tangent rays (discriminant == 0) count as misses
	if discriminant <= 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !inRange(root, tMin, tMax) {
		root = (-halfB + sqrtD) / a
		if !inRange(root, tMin, tMax) {
			return nil, false
		}
	}

	hitRecord := &core.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	outwardNormal := hitRecord.Point.Subtract(s.Center).Divide(s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

// inRange reports whether t lies in the half-open interval (tMin, tMax]
func inRange(t, tMin, tMax float64) bool {
	return t > tMin && t <= tMax
}
