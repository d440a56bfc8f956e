package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/scene"
)

// Server handles web requests for the path tracer
type Server struct {
	port    int
	console *ConsoleLog
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{
		port:    port,
		console: NewConsoleLog(200),
	}
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files when a UI is deployed next to the binary
	if _, err := os.Stat("static"); err == nil {
		mux.Handle("/", http.FileServer(http.Dir("static/")))
	}

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/console", s.handleConsole)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SceneSummary describes a built-in scene and its default settings
type SceneSummary struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	Description     string `json:"description"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	SamplesPerPixel int    `json:"samplesPerPixel"`
	MaxDepth        int    `json:"maxDepth"`
	Primitives      int    `json:"primitives"`
}

// handleScenes lists the built-in scenes with their defaults
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	var summaries []SceneSummary
	for _, info := range scene.List() {
		builder, err := scene.Lookup(info.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sceneObj := builder()
		width, height := sceneObj.ImageSize()
		summaries = append(summaries, SceneSummary{
			ID:              info.ID,
			DisplayName:     info.DisplayName,
			Description:     info.Description,
			Width:           width,
			Height:          height,
			SamplesPerPixel: sceneObj.SamplingConfig.SamplesPerPixel,
			MaxDepth:        sceneObj.SamplingConfig.MaxDepth,
			Primitives:      sceneObj.GetPrimitiveCount(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": summaries})
}

// handleConsole returns recent log messages, optionally for a single render
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	messages := s.console.Messages(r.URL.Query().Get("render"))
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, errors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, errors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, errors.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
