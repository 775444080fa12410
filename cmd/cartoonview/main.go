// Package main is the interactive cartoon viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/biocartoon/internal/bio"
	"github.com/Faultbox/biocartoon/internal/config"
	"github.com/Faultbox/biocartoon/internal/logger"
	"github.com/Faultbox/biocartoon/internal/viewer"
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

	logger.Info("=== BioCartoon viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	chains, err := bio.Open(cfg.Input.ChainFile)
	if err != nil {
		logger.Error("failed to load chains", zap.Error(err))
		os.Exit(1)
	}

	v, err := viewer.New(cfg, chains)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
