package core

import (
	"math"
	"math/rand"
)

// Sampler provides uniform random numbers for rendering algorithms.
// Can be swapped out for deterministic testing.
type Sampler interface {
	Get1D() float64                   // uniform in [0, 1)
	GetRange(min, max float64) float64 // uniform in [min, max)
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic stream
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// GetRange returns a random float64 in [min, max)
func (r *RandomSampler) GetRange(min, max float64) float64 {
	return min + (max-min)*r.random.Float64()
}

// randomVec3 returns a vector with each component uniform in [min, max)
func randomVec3(sampler Sampler, min, max float64) Vec3 {
	return Vec3{
		X: sampler.GetRange(min, max),
		Y: sampler.GetRange(min, max),
		Z: sampler.GetRange(min, max),
	}
}

// RandomInUnitSphere generates a random point inside the unit ball by rejection sampling
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		p := randomVec3(sampler, -1, 1)
		if p.LengthSquared() <= 1.0 {
			return p
		}
	}
}

// RandomUnitVector generates a uniform random direction on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	phi := sampler.GetRange(0, 2*math.Pi)
	z := sampler.GetRange(-1, 1)
	r := math.Sqrt(1 - z*z)
	return Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}

// RandomInHemisphere generates a random point in the unit ball on the same side as normal
func RandomInHemisphere(normal Vec3, sampler Sampler) Vec3 {
	inUnitSphere := RandomInUnitSphere(sampler)
	if inUnitSphere.Dot(normal) < 0 {
		return inUnitSphere.Negate()
	}
	return inUnitSphere
}

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		p := NewVec3(sampler.GetRange(-1, 1), sampler.GetRange(-1, 1), 0)
		if p.LengthSquared() <= 1.0 {
			return p
		}
	}
}
