package renderer

import (
	"context"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   `json:"samplesPerPixel"` // Number of rays per pixel
	MaxDepth        int   `json:"maxDepth"`        // Maximum ray bounce depth
	Seed            int64 `json:"seed"`            // Base seed for per-row samplers
	NumWorkers      int   `json:"numWorkers"`      // Parallel workers, 0 = runtime.NumCPU()
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
		NumWorkers:      0,
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	return result
}

// Validate reports sampling settings the renderer cannot honor
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel <= 0 {
		return errors.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return errors.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	if c.NumWorkers < 0 {
		return errors.Errorf("worker count must not be negative, got %d", c.NumWorkers)
	}
	return nil
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() core.Shape
	GetBackground() integrator.Background
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	integrator integrator.Integrator
	logger     core.Logger
	progress   *ProgressReporter
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     DefaultSamplingConfig(),
		integrator: integrator.NewPathTracingIntegrator(scene.GetBackground()),
		logger:     NewDefaultLogger(),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// MergeSamplingConfig applies the non-zero fields of override to the current configuration
func (rt *Raytracer) MergeSamplingConfig(override SamplingConfig) {
	rt.config = MergeSamplingConfig(rt.config, override)
}

// GetSamplingConfig returns the active sampling configuration
func (rt *Raytracer) GetSamplingConfig() SamplingConfig {
	return rt.config
}

// SetLogger replaces the logger used for render summaries
func (rt *Raytracer) SetLogger(logger core.Logger) {
	rt.logger = logger
}

// SetProgressReporter attaches a reporter notified as rows complete
func (rt *Raytracer) SetProgressReporter(progress *ProgressReporter) {
	rt.progress = progress
}

// SamplePixel accumulates SamplesPerPixel jittered samples for pixel (i, j),
// where j counts rows from the bottom of the image
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) PixelStats {
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	// Guard single-pixel dimensions so s and t stay finite
	sDenom := float64(max(1, rt.width-1))
	tDenom := float64(max(1, rt.height-1))

	var ps PixelStats
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		s := (float64(i) + sampler.Get1D()) / sDenom
		t := (float64(j) + sampler.Get1D()) / tDenom
		ray := camera.GetRay(s, t, sampler)
		ps.AddSample(rt.integrator.RayColor(ray, world, sampler, rt.config.MaxDepth))
	}
	return ps
}

// RenderRow renders the pixel row j (counted from the bottom) into img,
// which stores rows top first. Distinct rows touch disjoint pixels.
func (rt *Raytracer) RenderRow(j int, img *image.RGBA) int {
	sampler := rt.rowSampler(j)
	y := rt.height - 1 - j
	samples := 0
	for i := 0; i < rt.width; i++ {
		ps := rt.SamplePixel(i, j, sampler)
		img.SetRGBA(i, y, rt.vec3ToColor(ps.ColorAccum, ps.SampleCount))
		samples += ps.SampleCount
	}
	return samples
}

// rowSampler returns the sampler for row j, seeded only from the base seed and
// the row so that output does not depend on how rows are scheduled
func (rt *Raytracer) rowSampler(j int) core.Sampler {
	return core.NewSeededSampler(rowSeed(rt.config.Seed, j))
}

// rowSeed mixes seed and row with the splitmix64 finalizer so that nearby
// (seed, row) pairs get unrelated streams
func rowSeed(seed int64, row int) int64 {
	z := uint64(seed)*0x9E3779B97F4A7C15 + uint64(row)
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

// Render renders the scene using the worker pool.
// Cancelling ctx stops the render between rows.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, errors.Wrap(err, "invalid sampling config")
	}

	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))

	pool := NewWorkerPool(rt, img, rt.config.NumWorkers)
	pool.Start()

	// Submit rows top first so progress reads like a scanline renderer
	for j := rt.height - 1; j >= 0; j-- {
		pool.SubmitTask(RowTask{Ctx: ctx, Row: j})
	}
	// Results are consumed while workers drain the queue
	go pool.Stop()

	stats := RenderStats{
		SamplesPerPixel: rt.config.SamplesPerPixel,
		MaxDepth:        rt.config.MaxDepth,
		NumWorkers:      pool.GetNumWorkers(),
	}

	var firstErr error
	for result := range pool.Results() {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.TotalPixels += rt.width
		stats.TotalSamples += result.Samples
		if rt.progress != nil {
			rt.progress.RowDone()
		}
	}
	stats.Duration = time.Since(start)

	if firstErr != nil {
		return nil, stats, errors.Wrap(firstErr, "render cancelled")
	}
	if rt.progress != nil {
		rt.progress.Finish()
	}

	rt.logger.Printf("Rendered %dx%d with %d spp (depth %d) on %d workers in %v\n",
		rt.width, rt.height, stats.SamplesPerPixel, stats.MaxDepth, stats.NumWorkers, stats.Duration)
	return img, stats, nil
}

// vec3ToColor converts a summed linear color to an 8-bit RGBA pixel
func (rt *Raytracer) vec3ToColor(sum core.Vec3, samples int) color.RGBA {
	return FinalizeColor(sum, samples)
}

// FinalizeColor averages sum over samples, applies gamma 2 and quantizes to 8 bits.
// Components are clamped to [0, 0.999] so the result never exceeds 255.
func FinalizeColor(sum core.Vec3, samples int) color.RGBA {
	scale := 1.0 / float64(max(1, samples))
	c := sum.Multiply(scale)

	// NaN from degenerate samples is treated as black
	c = core.NewVec3(sanitize(c.X), sanitize(c.Y), sanitize(c.Z))

	c = c.GammaCorrect(2.0).Clamp(0.0, 0.999)
	return color.RGBA{
		R: uint8(256 * c.X),
		G: uint8(256 * c.Y),
		B: uint8(256 * c.Z),
		A: 255,
	}
}

func sanitize(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	return x
}
