package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"` // From the camera to the hit point
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat core.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = toArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		if m.Model == material.DiffuseHemisphere {
			properties["diffuse"] = "hemisphere"
		}
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = toArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts a ray through the center of pixel (x, y), with y counted
// from the top, using a pinhole version of the scene camera
func inspectPixel(sceneObj *scene.Scene, x, y int) (*core.HitRecord, bool) {
	width, height := sceneObj.ImageSize()

	config := sceneObj.CameraConfig
	config.Aperture = 0
	camera := renderer.NewCamera(config)

	s := (float64(x) + 0.5) / float64(max(1, width-1))
	t := (float64(height-1-y) + 0.5) / float64(max(1, height-1))
	ray := camera.GetRay(s, t, core.NewSeededSampler(0))

	return sceneObj.World.Hit(ray, integrator.ShadowAcneEpsilon, math.Inf(1))
}

// handleInspect reports the surface seen through a pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	builder, err := scene.Lookup(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sceneObj := builder()

	width, err := parseIntParam(query, "width", sceneObj.CameraConfig.Width, 16, 2000)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sceneObj.SetCameraConfig(renderer.MergeCameraConfig(sceneObj.CameraConfig, renderer.CameraConfig{Width: width}))
	_, height := sceneObj.ImageSize()

	x, err := parseIntParam(query, "x", width/2, 0, width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := parseIntParam(query, "y", height/2, 0, height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hit, ok := inspectPixel(sceneObj, x, y)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, properties := extractMaterialInfo(hit.Material)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		Point:        toArray(hit.Point),
		Normal:       toArray(hit.Normal),
		Distance:     hit.Point.Subtract(sceneObj.CameraConfig.LookFrom).Length(),
		FrontFace:    hit.FrontFace,
		Properties:   properties,
	})
}
