package scene

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Builder creates a scene, merging an optional camera override into its defaults
type Builder func(cameraOverrides ...renderer.CameraConfig) *Scene

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier used by Lookup
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Short description
	builder     Builder
}

var builtinScenes = []SceneInfo{
	{
		ID:          "default",
		DisplayName: "Three Spheres",
		Description: "Diffuse, glass and metal spheres on a ground sphere",
		builder:     NewDefaultScene,
	},
	{
		ID:          "random",
		DisplayName: "Random Spheres",
		Description: "A field of small random spheres around three large ones",
		builder: func(cameraOverrides ...renderer.CameraConfig) *Scene {
			return NewRandomScene(DefaultRandomSceneSeed, cameraOverrides...)
		},
	},
	{
		ID:          "glass",
		DisplayName: "Glass",
		Description: "Dielectric spheres with increasing refractive index",
		builder:     NewGlassScene,
	},
}

// List returns the built-in scenes in registration order
func List() []SceneInfo {
	return append([]SceneInfo(nil), builtinScenes...)
}

// Names returns the IDs of the built-in scenes
func Names() []string {
	return lo.Map(builtinScenes, func(info SceneInfo, _ int) string {
		return info.ID
	})
}

// Lookup returns the builder for the named scene
func Lookup(name string) (Builder, error) {
	info, ok := lo.Find(builtinScenes, func(info SceneInfo) bool {
		return strings.EqualFold(info.ID, name)
	})
	if !ok {
		return nil, errors.Errorf("unknown scene %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return info.builder, nil
}
