package geometry

import (
	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Validator is implemented by shapes that can check their own parameters
type Validator interface {
	Validate() error
}

// HittableList is an aggregate shape that reports the closest hit among its members
type HittableList struct {
	shapes []core.Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...core.Shape) *HittableList {
	list := &HittableList{}
	list.Add(shapes...)
	return list
}

// Add appends shapes to the list
func (l *HittableList) Add(shapes ...core.Shape) {
	l.shapes = append(l.shapes, shapes...)
}

// Clear removes all shapes
func (l *HittableList) Clear() {
	l.shapes = nil
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.shapes)
}

// Shapes returns the shapes in insertion order
func (l *HittableList) Shapes() []core.Shape {
	return l.shapes
}

// Validate checks every member that knows how to validate itself
func (l *HittableList) Validate() error {
	for i, shape := range l.shapes {
		if v, ok := shape.(Validator); ok {
			if err := v.Validate(); err != nil {
				return errors.Wrapf(err, "shape %d", i)
			}
		}
	}
	return nil
}

// Hit finds the closest intersection with any shape in the list
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, shape := range l.shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
