// Package viewer implements the interactive cartoon viewer: an SDL2 window
// with an orbit camera, redrawing every chain each frame through OpenGL.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/biocartoon/internal/bio"
	"github.com/Faultbox/biocartoon/internal/cartoon"
	"github.com/Faultbox/biocartoon/internal/config"
	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/internal/engine/debug"
	"github.com/Faultbox/biocartoon/internal/engine/input"
	"github.com/Faultbox/biocartoon/internal/engine/renderer"
	"github.com/Faultbox/biocartoon/internal/engine/window"
	"github.com/Faultbox/biocartoon/internal/logger"
	"github.com/Faultbox/biocartoon/internal/raster"
	"github.com/Faultbox/biocartoon/internal/viewer/controls"
	"github.com/Faultbox/biocartoon/pkg/math"
)

// Viewer is the interactive viewer instance.
type Viewer struct {
	cfg     *config.Config
	state   *controls.State
	chains  []*bio.Chain
	lo, hi  math.Vec3
	running bool
	bbox    bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	cartoon  *cartoon.Renderer
	camera   *camera.OrbitCamera
	batch    raster.Batch
	shots    *debug.ScreenshotCapture
}

// New opens the window and prepares chains for drawing.
func New(cfg *config.Config, chains []*bio.Chain) (*Viewer, error) {
	if len(chains) == 0 {
		return nil, errors.New("no chains to show")
	}
	v := &Viewer{
		cfg:    cfg,
		state:  &controls.State{Config: cfg},
		chains: chains,
		log:    logger.Named("viewer"),
		camera: camera.NewOrbitCamera(),
		shots:  debug.NewScreenshotCapture("screenshots", "cartoon"),
	}
	models := make([]cartoon.PolymerModel, len(chains))
	for i, c := range chains {
		models[i] = c
	}
	v.lo, v.hi = cartoon.Bounds(models...)
	cfg.Camera.Setup(v.camera, v.lo, v.hi)

	bg, err := cfg.Output.BackgroundColor()
	if err != nil {
		return nil, err
	}

	// Window first: it creates the OpenGL context.
	v.window, err = window.New(window.Config{
		Title:      "BioCartoon",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Background: bg,
		Light:      cfg.Light.Light(),
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.cartoon = cartoon.NewRenderer(v.state, cartoon.WithLogger(logger.Named("cartoon")))

	v.log.Info("viewer initialized",
		zap.Int("chains", len(chains)),
		zap.Int("width", width),
		zap.Int("height", height),
	)
	return v, nil
}

// Run runs the event loop until the window closes.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()
	var frameBudget time.Duration
	if v.cfg.Window.FPSLimit > 0 && !v.cfg.Window.VSync {
		frameBudget = time.Second / time.Duration(v.cfg.Window.FPSLimit)
	}

	v.log.Info("starting render loop")
	for v.running {
		start := time.Now()

		if v.input.Update() {
			break
		}
		v.handleEvents()

		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			st := v.cartoon.Stats()
			v.window.SetTitle(fmt.Sprintf("BioCartoon - %s - %d fps", v.cfg.Render.Mode, frameCount))
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("segments", st.Segments),
				zap.Int("triangles", st.Triangles),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(start); rest > 0 {
				window.Delay(uint32(rest / time.Millisecond))
			}
		}
	}
	return nil
}

func (v *Viewer) handleEvents() {
	dragging := v.input.IsButtonDown(input.ButtonLeft) || v.input.IsButtonDown(input.ButtonRight)
	v.state.Moving = dragging

	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			width, height := v.window.Size()
			v.renderer.Resize(width, height)
		case input.EventMouseMove:
			switch {
			case v.input.IsButtonDown(input.ButtonLeft):
				v.camera.HandleDrag(float32(event.DX), float32(event.DY))
			case v.input.IsButtonDown(input.ButtonRight):
				v.camera.HandlePan(float32(event.DX), float32(event.DY))
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.Wheel)
		case input.EventKeyDown:
			v.handleAction(keymap[event.Key])
		}
	}
}

func (v *Viewer) handleAction(a controls.Action) {
	switch a {
	case controls.ActionNone:
	case controls.ActionQuit:
		v.running = false
	case controls.ActionResetView:
		v.cfg.Camera.Setup(v.camera, v.lo, v.hi)
	case controls.ActionToggleBBox:
		v.bbox = !v.bbox
	case controls.ActionSaveConfig:
		path, err := v.state.Save(config.ConfigPath())
		if err != nil {
			v.log.Error("saving config failed", zap.String("path", path), zap.Error(err))
			return
		}
		v.log.Info("config saved", zap.String("path", path))
	case controls.ActionScreenshot:
		width, height := v.window.Size()
		name, err := v.shots.CaptureFromPixels(v.renderer.ReadPixels(), width, height)
		if err != nil {
			v.log.Error("screenshot failed", zap.Error(err))
			return
		}
		v.log.Info("screenshot saved", zap.String("path", name))
	default:
		if v.state.Apply(a) {
			v.log.Info("style changed",
				zap.Stringer("action", a),
				zap.Any("render", v.cfg.Render),
			)
		}
	}
}

// render draws the current frame.
func (v *Viewer) render() error {
	width, height := v.window.Size()
	proj := v.camera.Projector(width, height)

	v.batch.Reset()
	for _, c := range v.chains {
		if err := v.cartoon.Render(c, proj, &v.batch); err != nil {
			if errors.Is(err, bio.ErrTooFewResidues) {
				continue
			}
			return err
		}
	}
	if v.bbox {
		debug.DrawBBox(&v.batch, proj, v.lo, v.hi, 1)
	}

	v.renderer.Begin()
	v.renderer.Draw(&v.batch)
	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
