// Package config handles renderer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/biocartoon/internal/bio"
	"github.com/Faultbox/biocartoon/internal/cartoon"
	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/internal/engine/lighting"
	"github.com/Faultbox/biocartoon/internal/logger"
	"github.com/Faultbox/biocartoon/pkg/math"
)

// Config holds all settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Light   LightConfig   `yaml:"light"`
	Window  WindowConfig  `yaml:"window"`
	Output  OutputConfig  `yaml:"output"`
	Input   InputConfig   `yaml:"input"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds the cartoon style.
type RenderConfig struct {
	Mode            string  `yaml:"mode"`
	HermiteLevel    int     `yaml:"hermite_level"`
	AspectRatio     float32 `yaml:"aspect_ratio"`
	CartoonsFancy   bool    `yaml:"cartoons_fancy"`
	TraceAlpha      bool    `yaml:"trace_alpha"`
	SheetSmoothing  float32 `yaml:"sheet_smoothing"`
	Wireframe       bool    `yaml:"wireframe"`
	RibbonBorder    bool    `yaml:"ribbon_border"`
	HighResolution  bool    `yaml:"high_resolution"`
	HelixArrowheads bool    `yaml:"helix_arrowheads"`
	SheetArrowheads bool    `yaml:"sheet_arrowheads"`
	CapPolicy       string  `yaml:"cap_policy"`
	Export          bool    `yaml:"export"`
}

// CameraConfig holds the initial view.
type CameraConfig struct {
	FovDegrees float32 `yaml:"fov_degrees"`
	// Distance from the chain center; 0 fits the chain in view.
	Distance     float32 `yaml:"distance"`
	YawDegrees   float32 `yaml:"yaw_degrees"`
	PitchDegrees float32 `yaml:"pitch_degrees"`
	Perspective  bool    `yaml:"perspective"`
	Zoom         float32 `yaml:"zoom"`
}

// LightConfig holds the headlight, in degrees relative to the view.
type LightConfig struct {
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
	Ambient   float32 `yaml:"ambient"`
}

// Light converts the settings to a light.
func (l LightConfig) Light() lighting.Light {
	return lighting.FromAngles(l.Azimuth, l.Elevation, l.Ambient)
}

// WindowConfig holds interactive viewer display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// OutputConfig holds headless image output settings.
type OutputConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Path       string `yaml:"path"`
	Background string `yaml:"background"`
}

// InputConfig holds the chain source.
type InputConfig struct {
	// ChainFile is a YAML chain file; empty renders the built-in demo.
	ChainFile string `yaml:"chain_file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	st := cartoon.DefaultStyle()
	return &Config{
		Render: RenderConfig{
			Mode:            st.Mode.String(),
			HermiteLevel:    st.HermiteLevel,
			AspectRatio:     st.AspectRatio,
			SheetSmoothing:  st.SheetSmoothing,
			HelixArrowheads: st.HelixArrowheads,
			SheetArrowheads: st.SheetArrowheads,
			CapPolicy:       st.CapPolicy.String(),
		},
		Camera: CameraConfig{
			FovDegrees:  30,
			Perspective: true,
			Zoom:        1,
		},
		Light: LightConfig{
			Azimuth:   -17,
			Elevation: 21,
			Ambient:   0.3,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Output: OutputConfig{
			Width:      800,
			Height:     600,
			Path:       "cartoon.png",
			Background: "#000000",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Style converts the render settings to a cartoon style. Unknown mode or
// cap policy names fall back to the defaults; Validate reports them.
func (r RenderConfig) Style() cartoon.Style {
	mode, _ := cartoon.ParseMode(r.Mode)
	policy, _ := cartoon.ParseCapPolicy(r.CapPolicy)
	return cartoon.Style{
		Mode:            mode,
		HermiteLevel:    r.HermiteLevel,
		AspectRatio:     r.AspectRatio,
		CartoonsFancy:   r.CartoonsFancy,
		TraceAlpha:      r.TraceAlpha,
		SheetSmoothing:  r.SheetSmoothing,
		Wireframe:       r.Wireframe,
		HighResolution:  r.HighResolution,
		RibbonBorder:    r.RibbonBorder,
		HelixArrowheads: r.HelixArrowheads,
		SheetArrowheads: r.SheetArrowheads,
		CapPolicy:       policy,
		Export:          r.Export,
	}
}

// Style returns the current render style, so a Config is a
// cartoon.StyleState that follows edits to c.Render.
func (c *Config) Style() cartoon.Style {
	return c.Render.Style()
}

// FovY returns the vertical field of view in radians.
func (c CameraConfig) FovY() float32 {
	return c.FovDegrees * math32.Pi / 180
}

// BackgroundColor parses the output background color.
func (o OutputConfig) BackgroundColor() (color.RGBA, error) {
	return bio.ParseHexColor(o.Background)
}

// Options converts the logging settings for logger.InitWithOptions.
func (l LoggingConfig) Options() logger.Options {
	opts := logger.Options{Level: l.Level, Console: true, JSON: l.JSON}
	if l.LogFile != "" {
		opts.File = logger.DefaultFileConfig(l.LogFile)
	}
	return opts
}

// Validate checks the settings that cannot be clamped.
func (c *Config) Validate() error {
	var errs []error
	if _, err := cartoon.ParseMode(c.Render.Mode); err != nil {
		errs = append(errs, fmt.Errorf("render.mode: %w", err))
	}
	if _, err := cartoon.ParseCapPolicy(c.Render.CapPolicy); err != nil {
		errs = append(errs, fmt.Errorf("render.cap_policy: %w", err))
	}
	if c.Render.SheetSmoothing < 0 || c.Render.SheetSmoothing > 1 {
		errs = append(errs, fmt.Errorf("render.sheet_smoothing: %v not in [0, 1]", c.Render.SheetSmoothing))
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		errs = append(errs, fmt.Errorf("output: invalid size %dx%d", c.Output.Width, c.Output.Height))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height))
	}
	if _, err := c.Output.BackgroundColor(); err != nil {
		errs = append(errs, fmt.Errorf("output.background: %w", err))
	}
	if c.Light.Ambient < 0 || c.Light.Ambient > 1 {
		errs = append(errs, fmt.Errorf("light.ambient: %v not in [0, 1]", c.Light.Ambient))
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov_degrees: %v not in (0, 180)", c.Camera.FovDegrees))
	}
	return errors.Join(errs...)
}

// Setup points cam at a chain spanning the box [lo, hi].
func (c CameraConfig) Setup(cam *camera.OrbitCamera, lo, hi math.Vec3) {
	cam.FovY = c.FovY()
	cam.Perspective = c.Perspective
	cam.Yaw = c.YawDegrees * math32.Pi / 180
	cam.Pitch = min(max(c.PitchDegrees*math32.Pi/180, cam.MinPitch), cam.MaxPitch)
	cam.FitToBounds(lo, hi)
	if c.Distance > 0 {
		cam.Distance = c.Distance
	}
	if c.Zoom > 0 {
		cam.Distance /= c.Zoom
	}
}
