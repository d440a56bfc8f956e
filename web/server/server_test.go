package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func newTestServer() (*Server, http.Handler) {
	s := NewServer(0)
	return s, s.Handler()
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	_, handler := newTestServer()
	rec := get(t, handler, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	_, handler := newTestServer()
	rec := get(t, handler, "/api/scenes")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Scenes []SceneSummary `json:"scenes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(body.Scenes) != 3 {
		t.Fatalf("Expected 3 scenes, got %d", len(body.Scenes))
	}
	for _, summary := range body.Scenes {
		if summary.Width <= 0 || summary.Height <= 0 || summary.Primitives <= 0 {
			t.Errorf("Incomplete summary %+v", summary)
		}
	}
	if body.Scenes[0].ID != "default" {
		t.Errorf("Expected default scene first, got %q", body.Scenes[0].ID)
	}
}

func TestHandleRender_PPM(t *testing.T) {
	s, handler := newTestServer()
	rec := get(t, handler, "/api/render?scene=default&width=16&samples=1&depth=2&seed=7&format=ppm")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/x-portable-pixmap" {
		t.Errorf("Unexpected content type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "P3\n16 9\n255\n") {
		t.Errorf("Unexpected PPM header: %q", rec.Body.String()[:min(20, rec.Body.Len())])
	}

	renderID := rec.Header().Get("X-Render-ID")
	if _, err := uuid.Parse(renderID); err != nil {
		t.Errorf("Expected a UUID render ID, got %q", renderID)
	}
	if rec.Header().Get("X-Render-Samples") != "144" {
		t.Errorf("Expected 144 samples, got %q", rec.Header().Get("X-Render-Samples"))
	}
	if len(s.console.Messages(renderID)) == 0 {
		t.Error("Expected console messages for the render")
	}
}

func TestHandleRender_PNGDeterministic(t *testing.T) {
	_, handler := newTestServer()
	target := "/api/render?scene=glass&width=20&samples=2&depth=3&seed=11&caption=true"

	first := get(t, handler, target)
	if first.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", first.Code, first.Body.String())
	}
	img, err := png.Decode(bytes.NewReader(first.Body.Bytes()))
	if err != nil {
		t.Fatalf("Response is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("Expected width 20, got %d", img.Bounds().Dx())
	}

	second := get(t, handler, target)
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("Expected identical images for the same seed")
	}
	if first.Header().Get("X-Render-ID") == second.Header().Get("X-Render-ID") {
		t.Error("Expected a fresh render ID per request")
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	_, handler := newTestServer()

	tests := []struct {
		name  string
		query string
	}{
		{"unknown scene", "scene=nope"},
		{"width too small", "width=5"},
		{"width not a number", "width=wide"},
		{"zero samples", "samples=0"},
		{"depth too large", "depth=5000"},
		{"bad seed", "seed=abc"},
		{"bad format", "format=gif"},
		{"bad caption", "caption=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, handler, "/api/render?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if body["error"] == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		expectError bool
	}{
		{"missing uses default", "", false},
		{"valid", "n=5&b=true", false},
		{"not a number", "n=abc", true},
		{"out of range", "n=50", true},
		{"not a bool", "b=maybe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			_, intErr := parseIntParam(values, "n", 1, 1, 10)
			_, boolErr := parseBoolParam(values, "b", false)
			err := intErr
			if err == nil {
				err = boolErr
			}

			if tt.expectError != (err != nil) {
				t.Fatalf("Expected error=%t, got %v", tt.expectError, err)
			}
			if err != nil {
				if _, ok := err.(interface{ StackTrace() errors.StackTrace }); !ok {
					t.Errorf("Expected an error carrying a stack trace, got %T", err)
				}
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	_, handler := newTestServer()

	rec := get(t, handler, "/api/inspect?scene=default")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var center InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&center); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !center.Hit || center.MaterialType != "lambertian" || !center.FrontFace {
		t.Errorf("Expected the front of the diffuse center sphere, got %+v", center)
	}
	if center.Distance <= 0 {
		t.Errorf("Expected a positive distance, got %v", center.Distance)
	}

	rec = get(t, handler, "/api/inspect?scene=glass&x=0&y=0")
	var sky InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&sky); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if sky.Hit {
		t.Errorf("Expected the top-left corner to see sky, got %+v", sky)
	}

	if rec := get(t, handler, "/api/inspect?x=100000"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an out of range pixel, got %d", rec.Code)
	}
}

func TestHandleConsole(t *testing.T) {
	s, handler := newTestServer()
	NewWebLogger("a", s.console).Printf("first\n")
	NewWebLogger("b", s.console).Printf("second\n")

	rec := get(t, handler, "/api/console?render=b")
	var body struct {
		Messages []ConsoleMessage `json:"messages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(body.Messages) != 1 || body.Messages[0].Message != "second\n" {
		t.Errorf("Expected only render b's message, got %+v", body.Messages)
	}
}
