// tinyview - terminal preview for tinyrender
// Spins an OBJ or glTF model in the terminal using the same pipeline
// tinyrender uses for images.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation and zoom
//	T           - Toggle texture on/off
//	X           - Toggle wireframe mode
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/arvsrao/tiny-render-course/internal/config"
	"github.com/arvsrao/tiny-render-course/internal/logger"
	"github.com/arvsrao/tiny-render-course/pkg/math3d"
	"github.com/arvsrao/tiny-render-course/pkg/models"
	"github.com/arvsrao/tiny-render-course/pkg/pipeline"
	"github.com/arvsrao/tiny-render-course/pkg/render"
)

var (
	configPath  = flag.String("config", "", "Path to config file")
	texturePath = flag.String("texture", "", "Path to texture image (TGA/PNG/JPG/BMP)")
	targetFPS   = flag.Int("fps", 30, "Target FPS")
	workers     = flag.Int("workers", runtime.NumCPU(), "Parallel row bands")
	logFile     = flag.String("log-file", "", "Log to this file (the terminal is in use)")
	debug       = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tinyview - terminal model preview\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tinyview [options] <model.obj|model.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  T           - Toggle texture\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Error("viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// setupLogging logs to a file only. Nothing is logged without -log-file
// or logging.log_file since the console belongs to the viewer.
func setupLogging(cfg *config.Config) error {
	level, path := cfg.Logging.Level, cfg.Logging.LogFile
	if *debug {
		level = "debug"
	}
	if *logFile != "" {
		path = *logFile
	}
	if path == "" {
		return nil
	}
	return logger.InitWithFileConfig(level, logger.DefaultFileConfig(path), nil)
}

func run(modelPath string) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	if *texturePath != "" {
		cfg.Texture = *texturePath
	}

	mesh, embedded, err := models.Load(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	mesh.Normalize()
	logger.Info("model loaded",
		zap.String("file", filepath.Base(modelPath)),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
	)

	var texture *render.Texture
	switch {
	case cfg.Texture != "":
		if texture, err = render.LoadTexture(cfg.Texture); err != nil {
			return fmt.Errorf("load texture: %w", err)
		}
	case embedded != nil:
		texture = render.TextureFromImage(embedded)
	}
	if texture == nil {
		texture = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	v := newViewer(mesh, texture, cfg.Camera.Distance, *targetFPS)
	v.resize(term, width, height)

	go func() {
		for ev := range term.Events() {
			if quit := v.handle(term, ev); quit {
				cancel()
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(max(*targetFPS, 1))
	lastFrame := time.Now()

	for {
		if ctx.Err() != nil {
			return nil
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		if err := v.frame(ctx, dt, *workers); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// viewer holds the state shared between the event goroutine and the
// render loop. mu guards every field.
type viewer struct {
	mu sync.Mutex

	base    *models.Mesh
	texture *render.Texture

	termRenderer *render.TerminalRenderer
	fb           *render.Framebuffer
	depth        *render.DepthBuffer

	rotation       *RotationState
	torque         struct{ pitch, yaw, roll float64 }
	zoom, zoomHome float64
	textureOn      bool
	wireframe      bool

	mouseDown              bool
	lastMouseX, lastMouseY int
	frames                 int
}

func newViewer(mesh *models.Mesh, tex *render.Texture, distance float64, fps int) *viewer {
	return &viewer{
		base:      mesh,
		texture:   tex,
		rotation:  NewRotationState(fps),
		zoom:      distance,
		zoomHome:  distance,
		textureOn: true,
	}
}

const (
	torqueStrength = 3.0
	minZoom        = 1.5
	maxZoom        = 20.0
)

func (v *viewer) resize(term *uv.Terminal, cols, rows int) {
	v.termRenderer = render.NewTerminalRenderer(term, cols, rows)
	w, h := v.termRenderer.FramebufferSize()
	v.fb = render.NewFramebuffer(w, h)
	v.depth = render.NewDepthBuffer(w, h)
}

func (v *viewer) setZoom(z float64) {
	v.zoom = math.Max(minZoom, math.Min(maxZoom, z))
}

// handle applies one terminal event and reports whether to quit.
func (v *viewer) handle(term *uv.Terminal, ev uv.Event) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		term.Erase()
		term.Resize(ev.Width, ev.Height)
		v.resize(term, ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
			return true
		case ev.MatchString("r"):
			v.rotation.Reset()
			v.zoom = v.zoomHome
		case ev.MatchString("w", "up"):
			v.torque.pitch = -torqueStrength
		case ev.MatchString("s", "down"):
			v.torque.pitch = torqueStrength
		case ev.MatchString("a", "left"):
			v.torque.yaw = -torqueStrength
		case ev.MatchString("d", "right"):
			v.torque.yaw = torqueStrength
		case ev.MatchString("q"):
			v.torque.roll = -torqueStrength
		case ev.MatchString("e"):
			v.torque.roll = torqueStrength
		case ev.MatchString("space"):
			v.rotation.ApplyImpulse(
				(rand.Float64()-0.5)*1.5,
				(rand.Float64()-0.5)*1.5,
				(rand.Float64()-0.5)*1.5,
			)
		case ev.MatchString("+", "="):
			v.setZoom(v.zoom - 0.5)
		case ev.MatchString("-", "_"):
			v.setZoom(v.zoom + 0.5)
		case ev.MatchString("t"):
			v.textureOn = !v.textureOn
		case ev.MatchString("x"):
			v.wireframe = !v.wireframe
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
			v.torque.pitch = 0
		case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
			v.torque.yaw = 0
		case ev.MatchString("q"), ev.MatchString("e"):
			v.torque.roll = 0
		}

	case uv.MouseClickEvent:
		v.mouseDown = true
		v.lastMouseX, v.lastMouseY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.mouseDown = false

	case uv.MouseMotionEvent:
		if v.mouseDown {
			dx := ev.X - v.lastMouseX
			dy := ev.Y - v.lastMouseY
			v.rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
			v.lastMouseX, v.lastMouseY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.setZoom(v.zoom - 0.5)
		case uv.MouseWheelDown:
			v.setZoom(v.zoom + 0.5)
		}
	}
	return false
}

// frame advances the springs by dt seconds, renders the rotated mesh and
// displays it.
func (v *viewer) frame(ctx context.Context, dt float64, workers int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Key release events are unreliable, so held torque decays on its own.
	v.rotation.ApplyImpulse(v.torque.pitch*dt, v.torque.yaw*dt, v.torque.roll*dt)
	v.torque.pitch *= 0.9
	v.torque.yaw *= 0.9
	v.torque.roll *= 0.9
	v.rotation.Update()

	mesh := v.base.Clone()
	mesh.Transform(v.rotation.Matrix())

	opts := pipeline.Options{
		Projector: v.projector(),
		Shading:   pipeline.ShadingLit,
		Workers:   workers,
		Logger:    logger.Log,
	}
	switch {
	case v.wireframe:
		opts.Shading = pipeline.ShadingWireframe
		opts.Color = render.RGB(0, 255, 128)
	case v.textureOn:
		opts.Shading = pipeline.ShadingTextured
		opts.Texture = v.texture
	}

	v.fb.Clear(render.RGB(30, 30, 40))
	v.depth.Clear()
	stats, err := pipeline.Render(ctx, v.fb, v.depth, mesh, opts)
	if err != nil {
		return err
	}
	if v.frames++; v.frames%100 == 0 {
		logger.Debug("frame",
			zap.Int("frame", v.frames),
			zap.Stringer("shading", opts.Shading),
			zap.Int("drawn", stats.Drawn),
			zap.Duration("elapsed", stats.Elapsed),
		)
	}

	v.termRenderer.Render(v.fb)
	if err := v.termRenderer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// projector centers a square viewport in the framebuffer and looks at the
// unit cube from distance zoom along z.
func (v *viewer) projector() pipeline.Projector {
	w, h := float64(v.fb.Width), float64(v.fb.Height)
	s := math.Min(w, h)
	m := math3d.Translate(math3d.V3((w-s)/2, (h-s)/2, 0)).
		Mul(math3d.Viewport(s, s, 255)).
		Mul(math3d.Projection(v.zoom))
	return pipeline.Matrix{M: m}
}
