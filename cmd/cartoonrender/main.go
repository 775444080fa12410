// Package main renders chains to a PNG image without a display.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/biocartoon/internal/bio"
	"github.com/Faultbox/biocartoon/internal/cartoon"
	"github.com/Faultbox/biocartoon/internal/config"
	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/internal/logger"
	"github.com/Faultbox/biocartoon/internal/raster"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitWithOptions(cfg.Logging.Options()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== BioCartoon render ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	chains, err := bio.Open(cfg.Input.ChainFile)
	if err != nil {
		return fmt.Errorf("loading chains: %w", err)
	}
	models := make([]cartoon.PolymerModel, len(chains))
	for i, c := range chains {
		models[i] = c
	}

	lo, hi := cartoon.Bounds(models...)
	cam := camera.NewOrbitCamera()
	cfg.Camera.Setup(cam, lo, hi)

	bg, err := cfg.Output.BackgroundColor()
	if err != nil {
		return err
	}
	sw := raster.NewSoftware(cfg.Output.Width, cfg.Output.Height, bg)
	sw.SetLight(cfg.Light.Light())
	proj := cam.Projector(cfg.Output.Width, cfg.Output.Height)
	r := cartoon.NewRenderer(cfg)

	start := time.Now()
	var total cartoon.FrameStats
	for _, c := range chains {
		if err := r.Render(c, proj, sw); err != nil {
			return fmt.Errorf("chain %s: %w", c.ChainID(), err)
		}
		st := r.Stats()
		total.Segments += st.Segments
		total.MeshesBuilt += st.MeshesBuilt
		total.Fallbacks += st.Fallbacks
		total.Failures += st.Failures
		total.Triangles += st.Triangles
	}

	if err := sw.SavePNG(cfg.Output.Path); err != nil {
		return err
	}
	logger.Info("image written",
		zap.String("path", cfg.Output.Path),
		zap.Int("chains", len(chains)),
		zap.Int("segments", total.Segments),
		zap.Int("meshes", total.MeshesBuilt),
		zap.Int("fallbacks", total.Fallbacks),
		zap.Int("failures", total.Failures),
		zap.Int("triangles", total.Triangles),
		zap.Int("pixels", sw.Stats.Pixels),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
