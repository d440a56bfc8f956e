package loaders

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// vec3 is a JSON triple [x, y, z]
type vec3 [3]float64

func (v vec3) toVec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// SceneFile is the JSON scene description
type SceneFile struct {
	Camera     CameraSpec              `json:"camera"`
	Sampling   SamplingSpec            `json:"sampling"`
	Background *BackgroundSpec         `json:"background,omitempty"`
	Materials  map[string]MaterialSpec `json:"materials"`
	Spheres    []SphereSpec            `json:"spheres"`
}

// CameraSpec overrides fields of the default camera; omitted fields keep their defaults
type CameraSpec struct {
	LookFrom      *vec3   `json:"lookFrom"`
	LookAt        *vec3   `json:"lookAt"`
	Up            *vec3   `json:"up"`
	Width         int     `json:"width"`
	AspectRatio   float64 `json:"aspectRatio"`
	VFov          float64 `json:"vfov"`
	Aperture      float64 `json:"aperture"`
	FocusDistance float64 `json:"focusDistance"`
}

// SamplingSpec overrides the default sampling settings; an explicit seed of 0 is kept
type SamplingSpec struct {
	SamplesPerPixel int    `json:"samplesPerPixel"`
	MaxDepth        int    `json:"maxDepth"`
	Seed            *int64 `json:"seed"`
	NumWorkers      int    `json:"numWorkers"`
}

func (s SamplingSpec) apply(base renderer.SamplingConfig) renderer.SamplingConfig {
	result := renderer.MergeSamplingConfig(base, renderer.SamplingConfig{
		SamplesPerPixel: s.SamplesPerPixel,
		MaxDepth:        s.MaxDepth,
		NumWorkers:      s.NumWorkers,
	})
	if s.Seed != nil {
		result.Seed = *s.Seed
	}
	return result
}

// BackgroundSpec describes the sky gradient
type BackgroundSpec struct {
	Top    vec3 `json:"top"`
	Bottom vec3 `json:"bottom"`
}

// MaterialSpec describes a named material
type MaterialSpec struct {
	Type            string  `json:"type"` // "lambertian", "metal" or "dielectric"
	Albedo          *vec3   `json:"albedo"`
	Fuzz            float64 `json:"fuzz"`
	RefractiveIndex float64 `json:"refractiveIndex"`
	Diffuse         string  `json:"diffuse"` // "unit" (default) or "hemisphere", lambertian only
}

// SphereSpec places a sphere using a named material
type SphereSpec struct {
	Center   vec3    `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// LoadSceneJSON reads and builds a scene from a JSON file
func LoadSceneJSON(filename string) (*scene.Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open scene file")
	}
	defer file.Close()

	s, err := ParseSceneJSON(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", filename)
	}
	return s, nil
}

// ParseSceneJSON decodes a scene description and builds a validated scene.
// Spheres naming the same material share one material instance.
func ParseSceneJSON(r io.Reader) (*scene.Scene, error) {
	var file SceneFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "failed to decode scene JSON")
	}
	return BuildScene(file)
}

// BuildScene converts a decoded description into a scene
func BuildScene(file SceneFile) (*scene.Scene, error) {
	s := scene.NewScene(file.Camera.apply(DefaultCameraConfig()))
	s.SamplingConfig = file.Sampling.apply(s.SamplingConfig)
	if file.Background != nil {
		s.Background = integrator.Background{
			TopColor:    file.Background.Top.toVec3(),
			BottomColor: file.Background.Bottom.toVec3(),
		}
	}

	materials := make(map[string]core.Material, len(file.Materials))
	for name, spec := range file.Materials {
		mat, err := spec.build()
		if err != nil {
			return nil, errors.Wrapf(err, "material %q", name)
		}
		materials[name] = mat
	}

	for i, sphere := range file.Spheres {
		mat, ok := materials[sphere.Material]
		if !ok {
			names := lo.Keys(materials)
			sort.Strings(names)
			return nil, errors.Errorf("sphere %d: unknown material %q (defined: %s)", i, sphere.Material, strings.Join(names, ", "))
		}
		s.AddSphere(sphere.Center.toVec3(), sphere.Radius, mat)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultCameraConfig is the camera used for fields a scene file leaves out
func DefaultCameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       384,
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}
}

// apply overrides base with the fields present in the file. Vectors are applied
// whenever present so that an explicit origin is not mistaken for "unset".
func (c CameraSpec) apply(base renderer.CameraConfig) renderer.CameraConfig {
	if c.LookFrom != nil {
		base.LookFrom = c.LookFrom.toVec3()
	}
	if c.LookAt != nil {
		base.LookAt = c.LookAt.toVec3()
	}
	if c.Up != nil {
		base.Up = c.Up.toVec3()
	}
	return renderer.MergeCameraConfig(base, renderer.CameraConfig{
		Width:         c.Width,
		AspectRatio:   c.AspectRatio,
		VFov:          c.VFov,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
	})
}

func (m MaterialSpec) build() (core.Material, error) {
	switch strings.ToLower(m.Type) {
	case "lambertian":
		if m.Albedo == nil {
			return nil, errors.New("lambertian requires albedo")
		}
		switch strings.ToLower(m.Diffuse) {
		case "", "unit":
			return material.NewLambertian(m.Albedo.toVec3()), nil
		case "hemisphere":
			return material.NewHemisphereLambertian(m.Albedo.toVec3()), nil
		default:
			return nil, errors.Errorf("unknown diffuse model %q", m.Diffuse)
		}
	case "metal":
		if m.Albedo == nil {
			return nil, errors.New("metal requires albedo")
		}
		return material.NewMetal(m.Albedo.toVec3(), m.Fuzz), nil
	case "dielectric":
		d := material.NewDielectric(m.RefractiveIndex)
		if err := d.Validate(); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, errors.Errorf("unknown material type %q", m.Type)
	}
}
