package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// constSampler always returns the same value in [0, 1)
type constSampler float64

func (c constSampler) Get1D() float64 { return float64(c) }

func (c constSampler) GetRange(min, max float64) float64 {
	return min + (max-min)*float64(c)
}

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func upHit(frontFace bool, mat core.Material) core.HitRecord {
	return core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: frontFace,
		Material:  mat,
	}
}

// sequenceSampler returns a fixed cycle of values in [0, 1)
type sequenceSampler struct {
	values []float64
	index  int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.index%len(s.values)]
	s.index++
	return v
}

func (s *sequenceSampler) GetRange(min, max float64) float64 {
	return min + (max-min)*s.Get1D()
}
