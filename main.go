package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneType string
	width     int
	samples   int
	depth     int
	seed      int64
	seedSet   bool // -seed was given, so 0 is a real seed
	workers   int
	output    string
	caption   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Cause(err) == flag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.sceneType, "scene", "default", "Scene: "+strings.Join(scene.Names(), ", ")+", or a path to a .json scene file")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.Int64Var(&opts.seed, "seed", 0, "Random seed (omit for the scene default; 0 is a valid seed)")
	fs.IntVar(&opts.workers, "workers", 0, "Parallel workers (0 = number of CPUs)")
	fs.StringVar(&opts.output, "o", "", "Output file (.ppm, .png, .bmp, .tiff); '-' writes PPM to stdout; default output/<scene>/render_<timestamp>.png")
	fs.BoolVar(&opts.caption, "caption", false, "Draw render statistics onto the image")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Monte Carlo Path Tracer")
		fmt.Fprintln(stderr, "Usage: pathtracer [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Available scenes:")
		for _, info := range scene.List() {
			fmt.Fprintf(stderr, "  %-8s - %s\n", info.ID, info.Description)
		}
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seedSet = true
		}
	})
	if opts.width < 0 || opts.samples < 0 || opts.depth < 0 || opts.workers < 0 {
		return opts, errors.New("width, samples, depth and workers must not be negative")
	}
	return opts, nil
}

// createScene builds a registered scene or loads a JSON scene file
func createScene(sceneType string) (*scene.Scene, error) {
	if strings.HasSuffix(strings.ToLower(sceneType), ".json") {
		return loaders.LoadSceneJSON(sceneType)
	}
	builder, err := scene.Lookup(sceneType)
	if err != nil {
		return nil, err
	}
	return builder(), nil
}

// applyOverrides merges command line settings into the scene
func applyOverrides(s *scene.Scene, opts options) {
	if opts.width > 0 {
		s.SetCameraConfig(renderer.MergeCameraConfig(s.CameraConfig, renderer.CameraConfig{Width: opts.width}))
	}
	s.SamplingConfig = renderer.MergeSamplingConfig(s.SamplingConfig, renderer.SamplingConfig{
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
		NumWorkers:      opts.workers,
	})
	if opts.seedSet {
		s.SamplingConfig.Seed = opts.seed
	}
}

func defaultOutputPath(sceneType string) string {
	name := strings.TrimSuffix(filepath.Base(sceneType), filepath.Ext(sceneType))
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", timestamp))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	// With the image on stdout, all messages go to stderr
	logOut := stdout
	if opts.output == "-" {
		logOut = stderr
	}
	logger := renderer.NewWriterLogger(logOut)

	selectedScene, err := createScene(opts.sceneType)
	if err != nil {
		return errors.Wrap(err, "failed to create scene")
	}
	applyOverrides(selectedScene, opts)
	if err := selectedScene.Validate(); err != nil {
		return err
	}

	width, height := selectedScene.ImageSize()
	logger.Printf("Rendering scene %q at %dx%d (%d primitives)...\n",
		opts.sceneType, width, height, selectedScene.GetPrimitiveCount())

	raytracer := renderer.NewRaytracer(selectedScene, width, height)
	raytracer.SetSamplingConfig(selectedScene.SamplingConfig)
	raytracer.SetLogger(logger)
	raytracer.SetProgressReporter(renderer.NewProgressReporter(stderr, height))

	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}

	if opts.caption {
		img = output.Annotate(img, fmt.Sprintf("%dx%d  %d spp  depth %d  %v",
			width, height, stats.SamplesPerPixel, stats.MaxDepth, stats.Duration.Round(time.Millisecond)))
	}

	if opts.output == "-" {
		return output.EncodePPM(stdout, img)
	}

	filename := opts.output
	if filename == "" {
		filename = defaultOutputPath(opts.sceneType)
	}
	if err := output.SaveImage(filename, img); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}
