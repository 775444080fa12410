package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagInput      = flag.String("input", "", "Chain file (YAML); empty renders the demo chain")
	flagOutput     = flag.String("output", "", "Output PNG path")
	flagWidth      = flag.Int("width", 0, "Image or window width")
	flagHeight     = flag.Int("height", 0, "Image or window height")
	flagMode       = flag.String("mode", "", "Render mode: cartoon, ribbon or trace")
	flagLevel      = flag.Int("level", 0, "Hermite level (negative: keep while moving)")
	flagAspect     = flag.Float64("aspect", -1, "Ribbon aspect ratio")
	flagFancy      = flag.Bool("fancy", false, "Elliptical cartoon cross-sections")
	flagWireframe  = flag.Bool("wireframe", false, "Draw lines only")
	flagExport     = flag.Bool("export", false, "Force meshes regardless of on-screen size")
	flagFullscreen = flag.Bool("fullscreen", false, "Run the viewer in fullscreen mode")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagInput != "" {
		cfg.Input.ChainFile = *flagInput
	}
	if *flagOutput != "" {
		cfg.Output.Path = *flagOutput
	}
	if *flagWidth > 0 {
		cfg.Output.Width = *flagWidth
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Output.Height = *flagHeight
		cfg.Window.Height = *flagHeight
	}
	if *flagMode != "" {
		cfg.Render.Mode = *flagMode
	}
	if *flagLevel != 0 {
		cfg.Render.HermiteLevel = *flagLevel
	}
	if *flagAspect >= 0 {
		cfg.Render.AspectRatio = float32(*flagAspect)
	}
	if *flagFancy {
		cfg.Render.CartoonsFancy = true
	}
	if *flagWireframe {
		cfg.Render.Wireframe = true
	}
	if *flagExport {
		cfg.Render.Export = true
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
}
