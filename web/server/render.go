package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string        // Scene name (e.g., "default")
	Width           int           // Image width, height follows the scene's aspect ratio
	SamplesPerPixel int           // Samples per pixel
	MaxDepth        int           // Maximum bounce depth
	Seed            int64         // Random seed
	Format          output.Format // Response encoding
	Caption         bool          // Draw render statistics onto the image
}

// parseRenderRequest parses request parameters, falling back to the scene's defaults
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	builder, err := scene.Lookup(req.Scene)
	if err != nil {
		return nil, nil, err
	}
	sceneObj := builder()

	if req.Width, err = parseIntParam(query, "width", sceneObj.CameraConfig.Width, 16, 2000); err != nil {
		return nil, nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "samples", sceneObj.SamplingConfig.SamplesPerPixel, 1, 10000); err != nil {
		return nil, nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", sceneObj.SamplingConfig.MaxDepth, 1, 1000); err != nil {
		return nil, nil, err
	}

	req.Seed = sceneObj.SamplingConfig.Seed
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, nil, errors.Errorf("invalid seed: %s", value)
		}
	}

	req.Format = output.FormatPNG
	if value := query.Get("format"); value != "" {
		if req.Format, err = output.ParseFormat(value); err != nil {
			return nil, nil, err
		}
	}

	if req.Caption, err = parseBoolParam(query, "caption", false); err != nil {
		return nil, nil, err
	}

	sceneObj.SetCameraConfig(renderer.MergeCameraConfig(sceneObj.CameraConfig, renderer.CameraConfig{Width: req.Width}))
	sceneObj.SamplingConfig.SamplesPerPixel = req.SamplesPerPixel
	sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	sceneObj.SamplingConfig.Seed = req.Seed

	return req, sceneObj, nil
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	if err := sceneObj.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid scene: %v", err))
		return
	}

	renderID := uuid.New().String()
	logger := NewWebLogger(renderID, s.console)

	width, height := sceneObj.ImageSize()
	logger.Printf("Rendering %s at %dx%d, %d spp, depth %d, seed %d\n",
		req.Scene, width, height, req.SamplesPerPixel, req.MaxDepth, req.Seed)

	raytracer := renderer.NewRaytracer(sceneObj, width, height)
	raytracer.SetSamplingConfig(sceneObj.SamplingConfig)
	raytracer.SetLogger(logger)

	// Use request context to stop rendering when the client disconnects
	img, stats, err := raytracer.Render(r.Context())
	if err != nil {
		logger.Printf("Render failed: %v\n", err)
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("Render error: %v", err))
		return
	}

	if req.Caption {
		img = output.Annotate(img, fmt.Sprintf("%s  %dx%d  %d spp", req.Scene, width, height, stats.SamplesPerPixel))
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, img, req.Format); err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(err, "encoding failed").Error())
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-ID", renderID)
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Printf("Failed to write response: %v\n", err)
	}
	logger.Printf("Served %d bytes of %s in %v\n", buf.Len(), req.Format, stats.Duration.Round(time.Millisecond))
}
