package cartoon

import (
	"fmt"
	"strings"
)

// Mode selects how a chain is drawn.
type Mode uint8

const (
	// ModeCartoon draws helix and sheet runs as ribbons with arrowheads at
	// their ends, and everything else as a tube.
	ModeCartoon Mode = iota
	// ModeRibbon draws every residue as ribbon.
	ModeRibbon
	// ModeTrace draws a tube through every residue.
	ModeTrace
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeCartoon:
		return "cartoon"
	case ModeRibbon:
		return "ribbon"
	case ModeTrace:
		return "trace"
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "cartoon", "cartoons":
		return ModeCartoon, nil
	case "ribbon", "ribbons":
		return ModeRibbon, nil
	case "trace":
		return ModeTrace, nil
	}
	return ModeCartoon, fmt.Errorf("unknown render mode %q", s)
}

// CapPolicy decides when a segment mesh gets end caps.
type CapPolicy uint8

const (
	// CapRun caps a segment end when the neighbor is missing, hidden, or (in
	// cartoon mode) belongs to another structure run.
	CapRun CapPolicy = iota
	// CapLegacy additionally caps the second-to-last segment of a chain and
	// compares structure types instead of runs.
	CapLegacy
)

// String returns the configuration name of the policy.
func (p CapPolicy) String() string {
	if p == CapLegacy {
		return "legacy"
	}
	return "run"
}

// ParseCapPolicy parses a cap policy name.
func ParseCapPolicy(s string) (CapPolicy, error) {
	switch strings.ToLower(s) {
	case "", "run", "structure":
		return CapRun, nil
	case "legacy":
		return CapLegacy, nil
	}
	return CapRun, fmt.Errorf("unknown cap policy %q", s)
}

// Style is a snapshot of every setting the renderer reads. It is taken once
// at the start of each render pass.
type Style struct {
	Mode Mode
	// HermiteLevel controls spline samples and ring sides, 0-8. A negative
	// value means "use -level even while the view is moving"; a positive
	// one drops to 0 during motion.
	HermiteLevel int
	// AspectRatio is ribbon width over thickness, 0-20. 1 draws tubes, 0
	// disables meshes.
	AspectRatio     float32
	CartoonsFancy   bool
	TraceAlpha      bool
	SheetSmoothing  float32
	Wireframe       bool
	HighResolution  bool
	RibbonBorder    bool
	HelixArrowheads bool
	SheetArrowheads bool
	CapPolicy       CapPolicy
	// InMotion is set by interactive viewers while the camera is moving.
	InMotion bool
	// Export forces meshes regardless of on-screen size.
	Export bool
}

// StyleState supplies the style for each frame.
type StyleState interface {
	Style() Style
}

// Style returns s, so a fixed Style can be used as a StyleState.
func (s Style) Style() Style { return s }

// DefaultStyle returns the default cartoon settings.
func DefaultStyle() Style {
	return Style{
		Mode:            ModeCartoon,
		HermiteLevel:    3,
		AspectRatio:     16,
		SheetSmoothing:  1,
		HelixArrowheads: true,
		SheetArrowheads: true,
		CapPolicy:       CapRun,
	}
}

// Normalize applies the clamping and interactions between settings and
// returns the style the renderer actually uses.
func (s Style) Normalize() Style {
	n := s
	n.Wireframe = s.Wireframe && !s.Export
	n.HighResolution = s.Export || !n.Wireframe && s.HighResolution
	n.CartoonsFancy = !n.Wireframe && (s.CartoonsFancy || s.Export)

	level := s.HermiteLevel
	switch {
	case level <= 0:
		level = -level
	case s.InMotion:
		level = 0
	}
	if n.CartoonsFancy {
		level = max(level, 3)
	}
	n.HermiteLevel = min(level, 8)

	aspect := min(max(s.AspectRatio, 0), 20)
	if n.CartoonsFancy && aspect >= 16 {
		aspect = 4
	}
	if n.Wireframe || n.HermiteLevel == 0 {
		aspect = 0
	}
	n.AspectRatio = aspect
	n.InMotion = false
	return n
}

// Invalidates reports whether cached meshes built under prev are stale
// under s. Both styles must be normalized. Settings that only affect
// drawing, such as the ribbon border, do not invalidate.
func (s Style) Invalidates(prev Style) bool {
	switch {
	case s.Wireframe != prev.Wireframe,
		s.HighResolution != prev.HighResolution,
		s.CartoonsFancy != prev.CartoonsFancy,
		s.HermiteLevel != prev.HermiteLevel,
		s.TraceAlpha != prev.TraceAlpha,
		s.Mode != prev.Mode,
		s.CapPolicy != prev.CapPolicy,
		s.HelixArrowheads != prev.HelixArrowheads,
		s.SheetArrowheads != prev.SheetArrowheads,
		s.Export != prev.Export:
		return true
	case s.AspectRatio != prev.AspectRatio && s.AspectRatio != 0:
		return true
	case s.SheetSmoothing != prev.SheetSmoothing && !s.TraceAlpha:
		return true
	}
	return false
}
