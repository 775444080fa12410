package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/biocartoon/internal/viewer/controls"
)

var keymap = map[sdl.Scancode]controls.Action{
	sdl.SCANCODE_ESCAPE:       controls.ActionQuit,
	sdl.SCANCODE_Q:            controls.ActionQuit,
	sdl.SCANCODE_M:            controls.ActionCycleMode,
	sdl.SCANCODE_W:            controls.ActionToggleWireframe,
	sdl.SCANCODE_F:            controls.ActionToggleFancy,
	sdl.SCANCODE_B:            controls.ActionToggleBorder,
	sdl.SCANCODE_T:            controls.ActionToggleTraceAlpha,
	sdl.SCANCODE_E:            controls.ActionToggleExport,
	sdl.SCANCODE_EQUALS:       controls.ActionLevelUp,
	sdl.SCANCODE_MINUS:        controls.ActionLevelDown,
	sdl.SCANCODE_RIGHTBRACKET: controls.ActionAspectUp,
	sdl.SCANCODE_LEFTBRACKET:  controls.ActionAspectDown,
	sdl.SCANCODE_R:            controls.ActionResetView,
	sdl.SCANCODE_F12:          controls.ActionScreenshot,
	sdl.SCANCODE_X:            controls.ActionToggleBBox,
	sdl.SCANCODE_S:            controls.ActionSaveConfig,
}
