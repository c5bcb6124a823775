// tinyrender - offline triangle mesh rasterizer
// Renders an OBJ or glTF model into a PNG, TGA or BMP image.
//
// Modes:
//
//	triangle     - Demo triangle with its bounding box (no model needed)
//	flat         - Random color per face
//	lit          - Grey Lambertian lighting
//	textured     - Textured, orthographic image position
//	perspective  - Textured, perspective divide along z
//	ortho        - Textured, viewport x projection
//	camera       - Textured, viewport x projection x model-view
//	wireframe    - Triangle outlines
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/arvsrao/tiny-render-course/internal/config"
	"github.com/arvsrao/tiny-render-course/internal/logger"
	"github.com/arvsrao/tiny-render-course/pkg/math3d"
	"github.com/arvsrao/tiny-render-course/pkg/models"
	"github.com/arvsrao/tiny-render-course/pkg/pipeline"
	"github.com/arvsrao/tiny-render-course/pkg/render"
)

var (
	configPath  = flag.String("config", "", "Path to config file (default ./tinyrender.yaml or user config dir)")
	mode        = flag.String("mode", "camera", "Render mode: "+strings.Join(config.Modes, ", "))
	width       = flag.Int("width", 800, "Image width in pixels")
	height      = flag.Int("height", 800, "Image height in pixels")
	depth       = flag.Float64("depth", 255, "Depth range of the viewport")
	texturePath = flag.String("texture", "", "Path to texture image (TGA/PNG/JPG/BMP)")
	eye         = flag.String("eye", "-2,1,3", "Camera position for camera mode (x,y,z)")
	cameraZ     = flag.Float64("camera-z", 3, "Camera distance from the origin for ortho and camera modes")
	workers     = flag.Int("workers", 1, "Parallel row bands")
	seed        = flag.Uint64("seed", 0, "Seed for flat mode face colors")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	logFile     = flag.String("log-file", "", "Also log to this file (rotated)")
	saveConfig  = flag.String("save-config", "", "Write the effective config to this path and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tinyrender - triangle mesh rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tinyrender [options] <model.obj|model.glb> <output.png|.tga|.bmp>\n")
		fmt.Fprintf(os.Stderr, "       tinyrender -mode triangle [options] <output>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables TINYRENDER_WIDTH, TINYRENDER_MODE, TINYRENDER_OUTPUT, ...\n")
		fmt.Fprintf(os.Stderr, "override the config file; flags override both.\n")
	}
	flag.Parse()

	if err := logger.Init("info", ""); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err := run()
	if err != nil && !errors.Is(err, errUsage) {
		logger.Error("render failed", zap.Error(err))
	}
	logger.Sync()
	os.Exit(exitCode(err))
}

// exitCode maps the result of run to the process status: 2 for usage
// errors, 1 for any other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		return 1
	}
}

// errUsage is returned when the positional arguments do not fit the mode.
var errUsage = errors.New("usage")

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	defer logger.Sync()

	if *saveConfig != "" {
		if err := cfg.SaveTo(*saveConfig); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		logger.Info("config saved", zap.String("path", *saveConfig))
		return nil
	}

	var modelPath string
	switch args := flag.Args(); {
	case cfg.Render.Mode == "triangle" && len(args) == 1:
		cfg.Output = args[0]
	case cfg.Render.Mode != "triangle" && len(args) == 2:
		modelPath, cfg.Output = args[0], args[1]
	case cfg.Render.Mode != "triangle" && len(args) == 1 && cfg.Output != "":
		modelPath = args[0]
	default:
		flag.Usage()
		return errUsage
	}
	if cfg.Output == "" {
		flag.Usage()
		return errUsage
	}
	// Fail before rendering rather than after.
	if _, err := render.FormatFromPath(cfg.Output); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fb := render.NewFramebuffer(cfg.Render.Width, cfg.Render.Height)
	fb.Clear(render.ColorBlack)

	if cfg.Render.Mode == "triangle" {
		tri := pipeline.DrawDemo(render.Direct{FB: fb})
		logger.Debug("demo triangle", zap.Any("bbox", tri.BBox()))
		return save(fb, cfg.Output)
	}

	mesh, embedded, err := models.Load(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	logger.Info("model loaded",
		zap.String("file", filepath.Base(modelPath)),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
	)

	opts, err := renderOptions(cfg)
	if err != nil {
		return err
	}
	if opts.Shading == pipeline.ShadingTextured {
		opts.Texture, err = loadTexture(cfg.Texture, embedded)
		if err != nil {
			return err
		}
	}

	var zbuf *render.DepthBuffer
	if opts.Shading.NeedsDepth() {
		zbuf = render.NewDepthBuffer(fb.Width, fb.Height)
	}

	stats, err := pipeline.Render(ctx, fb, zbuf, mesh, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	logger.Info("rendered",
		zap.String("mode", cfg.Render.Mode),
		zap.Int("drawn", stats.Drawn),
		zap.Int("unlit", stats.Unlit),
		zap.Int("degenerate", stats.Degenerate),
		zap.Duration("elapsed", stats.Elapsed),
	)

	return save(fb, cfg.Output)
}

// renderOptions maps a mode to its projector and shading.
func renderOptions(cfg *config.Config) (pipeline.Options, error) {
	w, h, d := float64(cfg.Render.Width), float64(cfg.Render.Height), cfg.Render.Depth
	imgPos := pipeline.ImagePosition{Width: w, Height: h, Depth: d}

	opts := pipeline.Options{
		Shading: pipeline.ShadingTextured,
		Workers: cfg.Render.Workers,
		Seed:    cfg.Render.Seed,
		Logger:  logger.Log,
	}

	switch cfg.Render.Mode {
	case "flat":
		opts.Projector, opts.Shading = imgPos, pipeline.ShadingFlat
	case "lit":
		opts.Projector, opts.Shading = imgPos, pipeline.ShadingLit
	case "wireframe":
		opts.Projector, opts.Shading = imgPos, pipeline.ShadingWireframe
	case "textured":
		opts.Projector = imgPos
	case "perspective":
		opts.Projector = pipeline.Perspective{Distance: cfg.Camera.Perspective, Image: imgPos}
	case "ortho":
		opts.Projector = pipeline.Ortho(w, h, d, cfg.Camera.Distance)
	case "camera":
		cam := pipeline.NewCamera()
		cam.SetEye(vec3(cfg.Camera.Eye))
		cam.SetUp(vec3(cfg.Camera.Up))
		cam.SetDistance(cfg.Camera.Distance)
		opts.Projector = pipeline.FromCamera(cam, w, h, d)
	default:
		return opts, fmt.Errorf("unknown mode %q", cfg.Render.Mode)
	}
	return opts, nil
}

// loadTexture prefers an explicit texture file, then the model's own
// image, then a checkerboard.
func loadTexture(path string, embedded image.Image) (*render.Texture, error) {
	switch {
	case path != "":
		tex, err := render.LoadTexture(path)
		if err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
		return tex, nil
	case embedded != nil:
		logger.Info("using embedded texture",
			zap.Int("width", embedded.Bounds().Dx()),
			zap.Int("height", embedded.Bounds().Dy()),
		)
		return render.TextureFromImage(embedded), nil
	default:
		logger.Warn("no texture, using checkerboard")
		return render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100)), nil
	}
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cfg *config.Config) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Render.Mode = *mode
		case "width":
			cfg.Render.Width = *width
		case "height":
			cfg.Render.Height = *height
		case "depth":
			cfg.Render.Depth = *depth
		case "texture":
			cfg.Texture = *texturePath
		case "eye":
			var v [3]float64
			if v, err = parseTriple(*eye); err == nil {
				cfg.Camera.Eye = v
			}
		case "camera-z":
			cfg.Camera.Distance = *cameraZ
		case "workers":
			cfg.Render.Workers = *workers
		case "seed":
			cfg.Render.Seed = *seed
		case "debug":
			if *debug {
				cfg.Logging.Level = "debug"
			}
		case "log-file":
			cfg.Logging.LogFile = *logFile
		}
	})
	return err
}

// parseTriple parses "x,y,z".
func parseTriple(s string) ([3]float64, error) {
	var v [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("invalid vector %q: want x,y,z", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, fmt.Errorf("invalid vector %q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}

func vec3(v [3]float64) math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

func save(fb *render.Framebuffer, path string) error {
	if err := fb.Save(path); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	logger.Info("image saved", zap.String("path", path), zap.Int("width", fb.Width), zap.Int("height", fb.Height))
	return nil
}
