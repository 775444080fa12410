package controls

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/biocartoon/internal/cartoon"
	"github.com/Faultbox/biocartoon/internal/config"
)

func newState() *State {
	return &State{Config: config.Default()}
}

func TestCycleMode(t *testing.T) {
	s := newState()
	want := []cartoon.Mode{cartoon.ModeRibbon, cartoon.ModeTrace, cartoon.ModeCartoon}
	for _, m := range want {
		assert.True(t, s.Apply(ActionCycleMode))
		assert.Equal(t, m, s.Style().Mode)
	}
	assert.NoError(t, s.Config.Validate())
}

func TestToggles(t *testing.T) {
	s := newState()
	tests := []struct {
		action Action
		get    func(cartoon.Style) bool
	}{
		{ActionToggleWireframe, func(st cartoon.Style) bool { return st.Wireframe }},
		{ActionToggleFancy, func(st cartoon.Style) bool { return st.CartoonsFancy }},
		{ActionToggleBorder, func(st cartoon.Style) bool { return st.RibbonBorder }},
		{ActionToggleTraceAlpha, func(st cartoon.Style) bool { return st.TraceAlpha }},
		{ActionToggleExport, func(st cartoon.Style) bool { return st.Export }},
	}
	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			before := tt.get(s.Style())
			assert.True(t, s.Apply(tt.action))
			assert.Equal(t, !before, tt.get(s.Style()))
			s.Apply(tt.action)
			assert.Equal(t, before, tt.get(s.Style()))
		})
	}
}

func TestLevelSteps(t *testing.T) {
	s := newState()
	s.Config.Render.HermiteLevel = 7
	s.Apply(ActionLevelUp)
	s.Apply(ActionLevelUp)
	assert.Equal(t, 8, s.Config.Render.HermiteLevel)

	// Negative levels keep their sign and grow in magnitude.
	s.Config.Render.HermiteLevel = -2
	s.Apply(ActionLevelUp)
	assert.Equal(t, -3, s.Config.Render.HermiteLevel)
	s.Apply(ActionLevelDown)
	s.Apply(ActionLevelDown)
	s.Apply(ActionLevelDown)
	assert.Equal(t, 0, s.Config.Render.HermiteLevel)
	s.Apply(ActionLevelDown)
	assert.Equal(t, 0, s.Config.Render.HermiteLevel)
}

func TestAspectClamps(t *testing.T) {
	s := newState()
	s.Config.Render.AspectRatio = 19.5
	s.Apply(ActionAspectUp)
	assert.Equal(t, float32(20), s.Config.Render.AspectRatio)

	s.Config.Render.AspectRatio = 0.5
	s.Apply(ActionAspectDown)
	assert.Equal(t, float32(0), s.Config.Render.AspectRatio)
}

func TestViewActionsLeaveStyle(t *testing.T) {
	s := newState()
	before := s.Style()
	for _, a := range []Action{ActionNone, ActionQuit, ActionResetView, ActionScreenshot, ActionToggleBBox, ActionSaveConfig} {
		assert.False(t, s.Apply(a), a.String())
	}
	assert.Equal(t, before, s.Style())
}

func TestMovingDropsLevel(t *testing.T) {
	s := newState()
	s.Moving = true
	st := s.Style()
	assert.True(t, st.InMotion)
	assert.Equal(t, 0, st.Normalize().HermiteLevel)

	// Negative levels hold while moving.
	s.Config.Render.HermiteLevel = -4
	assert.Equal(t, 4, s.Style().Normalize().HermiteLevel)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "wireframe", ActionToggleWireframe.String())
	assert.Equal(t, "unknown", Action(99).String())
}

func loadSaved(t *testing.T, path string) *config.Config {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg := config.Default()
	require.NoError(t, yaml.Unmarshal(data, cfg))
	return cfg
}

func TestSave(t *testing.T) {
	s := newState()
	require.True(t, s.Apply(ActionCycleMode))
	require.True(t, s.Apply(ActionAspectDown))

	path := filepath.Join(t.TempDir(), "view.yaml")
	got, err := s.Save(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	saved := loadSaved(t, path)
	assert.Equal(t, s.Config.Render, saved.Render)
	assert.Equal(t, "ribbon", saved.Render.Mode)
}

func TestSaveUserConfig(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("user config dir is not redirectable here")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	s := newState()
	s.Apply(ActionToggleWireframe)

	got, err := s.Save("")
	require.NoError(t, err)
	assert.Equal(t, config.UserConfigPath(), got)
	assert.True(t, loadSaved(t, got).Render.Wireframe)
}
