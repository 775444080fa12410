// Package controls maps viewer actions onto the render configuration.
package controls

import (
	"github.com/Faultbox/biocartoon/internal/cartoon"
	"github.com/Faultbox/biocartoon/internal/config"
)

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionCycleMode
	ActionToggleWireframe
	ActionToggleFancy
	ActionToggleBorder
	ActionToggleTraceAlpha
	ActionToggleExport
	ActionLevelUp
	ActionLevelDown
	ActionAspectUp
	ActionAspectDown
	ActionResetView
	ActionScreenshot
	ActionToggleBBox
	ActionSaveConfig
)

var actionNames = [...]string{
	ActionNone:             "none",
	ActionQuit:             "quit",
	ActionCycleMode:        "cycle-mode",
	ActionToggleWireframe:  "wireframe",
	ActionToggleFancy:      "fancy",
	ActionToggleBorder:     "border",
	ActionToggleTraceAlpha: "trace-alpha",
	ActionToggleExport:     "export",
	ActionLevelUp:          "level-up",
	ActionLevelDown:        "level-down",
	ActionAspectUp:         "aspect-up",
	ActionAspectDown:       "aspect-down",
	ActionResetView:        "reset-view",
	ActionScreenshot:       "screenshot",
	ActionToggleBBox:       "bbox",
	ActionSaveConfig:       "save-config",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// State is the style source of an interactive viewer: the loaded config
// plus whether the camera is currently moving.
type State struct {
	Config *config.Config
	Moving bool
}

// Style returns the configured style with InMotion set while moving.
func (s *State) Style() cartoon.Style {
	st := s.Config.Style()
	st.InMotion = s.Moving
	return st
}

// Apply performs a style action and reports whether the render settings
// changed. View actions such as quit or screenshot are left to the caller.
func (s *State) Apply(a Action) bool {
	r := &s.Config.Render
	switch a {
	case ActionCycleMode:
		mode, _ := cartoon.ParseMode(r.Mode)
		r.Mode = ((mode + 1) % 3).String()
	case ActionToggleWireframe:
		r.Wireframe = !r.Wireframe
	case ActionToggleFancy:
		r.CartoonsFancy = !r.CartoonsFancy
	case ActionToggleBorder:
		r.RibbonBorder = !r.RibbonBorder
	case ActionToggleTraceAlpha:
		r.TraceAlpha = !r.TraceAlpha
	case ActionToggleExport:
		r.Export = !r.Export
	case ActionLevelUp:
		if r.HermiteLevel < 0 {
			r.HermiteLevel = max(r.HermiteLevel-1, -8)
		} else {
			r.HermiteLevel = min(r.HermiteLevel+1, 8)
		}
	case ActionLevelDown:
		switch {
		case r.HermiteLevel > 0:
			r.HermiteLevel--
		case r.HermiteLevel < 0:
			r.HermiteLevel++
		}
	case ActionAspectUp:
		r.AspectRatio = min(r.AspectRatio+1, 20)
	case ActionAspectDown:
		r.AspectRatio = max(r.AspectRatio-1, 0)
	default:
		return false
	}
	return true
}

// Save writes the edited config to path, or to the user's config file when
// path is empty, and returns the path written.
func (s *State) Save(path string) (string, error) {
	if path == "" {
		return config.UserConfigPath(), s.Config.Save()
	}
	return path, s.Config.SaveTo(path)
}
