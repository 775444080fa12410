package raster_test

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/biocartoon/internal/cartoon"
	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/internal/engine/lighting"
	"github.com/Faultbox/biocartoon/internal/raster"
	"github.com/Faultbox/biocartoon/pkg/math"
)

var (
	_ cartoon.Rasterizer = (*raster.Software)(nil)
	_ cartoon.Rasterizer = (*raster.Recorder)(nil)
	_ cartoon.Rasterizer = (*raster.Batch)(nil)
)

var (
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func vtx(x, y, z float32) camera.ScreenVertex {
	return camera.ScreenVertex{
		ScreenPoint: camera.ScreenPoint{X: x, Y: y, Z: z},
		Normal:      math.V3(0, 0, 1),
	}
}

func pt(x, y, z float32) camera.ScreenPoint {
	return camera.ScreenPoint{X: x, Y: y, Z: z}
}

func TestSoftwareClear(t *testing.T) {
	s := raster.NewSoftware(8, 4, black)
	assert.Equal(t, 8, s.Width())
	assert.Equal(t, 4, s.Height())
	assert.Equal(t, black, s.Image().RGBAAt(3, 2))
}

func TestSoftwareTriangleCoversInterior(t *testing.T) {
	s := raster.NewSoftware(32, 32, black)
	s.SetColor(red)
	s.FillTriangle(vtx(2, 2, 10), vtx(30, 2, 10), vtx(2, 30, 10))

	inside := s.Image().RGBAAt(6, 6)
	assert.Greater(t, inside.R, uint8(0))
	assert.Zero(t, inside.B)
	assert.Equal(t, black, s.Image().RGBAAt(28, 28))
	assert.Equal(t, 1, s.Stats.Triangles)
}

func TestSoftwareSetLight(t *testing.T) {
	s := raster.NewSoftware(32, 32, black)
	s.SetLight(lighting.FromAngles(90, 0, 0.1))
	s.SetColor(red)
	s.FillTriangle(vtx(2, 2, 10), vtx(30, 2, 10), vtx(2, 30, 10))

	// Lit edge on: ambient only.
	assert.InDelta(t, 25, int(s.Image().RGBAAt(6, 6).R), 1)
}

func TestSoftwareTriangleEitherWinding(t *testing.T) {
	s := raster.NewSoftware(32, 32, black)
	s.SetColor(red)
	s.FillTriangle(vtx(2, 2, 10), vtx(2, 30, 10), vtx(30, 2, 10))
	assert.NotEqual(t, black, s.Image().RGBAAt(6, 6))
}

func TestSoftwareDepthTest(t *testing.T) {
	near := func(s *raster.Software) {
		s.SetColor(red)
		s.FillQuad(vtx(0, 0, 5), vtx(16, 0, 5), vtx(16, 16, 5), vtx(0, 16, 5))
	}
	far := func(s *raster.Software) {
		s.SetColor(blue)
		s.FillQuad(vtx(0, 0, 50), vtx(16, 0, 50), vtx(16, 16, 50), vtx(0, 16, 50))
	}

	a := raster.NewSoftware(16, 16, black)
	near(a)
	far(a)
	b := raster.NewSoftware(16, 16, black)
	far(b)
	near(b)

	for _, s := range []*raster.Software{a, b} {
		c := s.Image().RGBAAt(8, 8)
		assert.Greater(t, c.R, uint8(0))
		assert.Zero(t, c.B)
	}
}

func TestSoftwareSkipsBehindEye(t *testing.T) {
	s := raster.NewSoftware(16, 16, black)
	s.SetColor(red)
	s.FillQuad(vtx(0, 0, -1), vtx(16, 0, -1), vtx(16, 16, -1), vtx(0, 16, -1))
	assert.Equal(t, black, s.Image().RGBAAt(8, 8))
}

func TestSoftwareCylinder(t *testing.T) {
	s := raster.NewSoftware(64, 32, black)
	s.SetColor(red)
	s.FillCylinder(pt(10, 16.5, 10), pt(54, 16.5, 10), 8, true)

	axis := s.Image().RGBAAt(32, 16)
	assert.GreaterOrEqual(t, axis.R, uint8(250), "axis is fully lit")
	assert.Equal(t, black, s.Image().RGBAAt(32, 2))
	// round cap reaches past the end point
	assert.NotEqual(t, black, s.Image().RGBAAt(56, 16))
	assert.Equal(t, 1, s.Stats.Shapes)
}

func TestSoftwareFlatCylinderEnds(t *testing.T) {
	s := raster.NewSoftware(64, 32, black)
	s.SetColor(red)
	s.FillCylinder(pt(10, 16.5, 10), pt(54, 16.5, 10), 8, false)
	assert.Equal(t, black, s.Image().RGBAAt(57, 16))
}

func TestSoftwareEndOnCylinderIsDisc(t *testing.T) {
	s := raster.NewSoftware(32, 32, black)
	s.SetColor(red)
	s.FillCylinder(pt(16, 16, 10), pt(16, 16, 12), 10, true)
	assert.NotEqual(t, black, s.Image().RGBAAt(16, 16))
	assert.NotEqual(t, black, s.Image().RGBAAt(19, 16))
	assert.Equal(t, black, s.Image().RGBAAt(28, 16))
}

func TestSoftwareCone(t *testing.T) {
	s := raster.NewSoftware(64, 32, black)
	s.SetColor(red)
	s.FillCone(pt(10, 16, 10), pt(54, 16, 10), 20)
	assert.NotEqual(t, black, s.Image().RGBAAt(12, 8), "wide at the base")
	assert.Equal(t, black, s.Image().RGBAAt(52, 8), "narrow at the tip")
}

func TestSoftwareLine(t *testing.T) {
	s := raster.NewSoftware(32, 32, black)
	s.SetColor(red)
	s.DrawLine(pt(2, 10.5, 10), pt(30, 10.5, 10))
	assert.Greater(t, s.Image().RGBAAt(16, 10).R, uint8(200))
	assert.Equal(t, black, s.Image().RGBAAt(16, 14))
}

func TestSoftwareSavePNG(t *testing.T) {
	s := raster.NewSoftware(20, 10, black)
	s.SetColor(red)
	s.FillCylinder(pt(2, 5, 10), pt(18, 5, 10), 4, true)

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, s.SavePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestSoftwareSavePNGBadPath(t *testing.T) {
	s := raster.NewSoftware(4, 4, black)
	err := s.SavePNG(filepath.Join(t.TempDir(), "missing", "out.png"))
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	var r raster.Recorder
	r.SetColor(red)
	r.FillQuad(vtx(0, 0, 1), vtx(1, 0, 1), vtx(1, 1, 1), vtx(0, 1, 1))
	r.FillCylinder(pt(0, 0, 1), pt(4, 0, 1), 2, true)
	r.FillCone(pt(0, 0, 1), pt(4, 0, 1), 3)
	r.DrawLine(pt(0, 0, 1), pt(4, 0, 1))

	assert.Equal(t, 1, r.Count(raster.OpSetColor))
	assert.Equal(t, 1, r.Count(raster.OpQuad))
	assert.Equal(t, 1, r.Count(raster.OpCylinder))
	assert.Equal(t, 1, r.Count(raster.OpCone))
	assert.Equal(t, 1, r.Count(raster.OpLine))
	assert.Zero(t, r.Count(raster.OpTriangle))

	cyl := r.Calls[2]
	assert.Equal(t, red, cyl.Color)
	assert.Equal(t, float32(2), cyl.Diameter)
	assert.True(t, cyl.RoundCaps)
	assert.Equal(t, "cylinder", cyl.Op.String())

	r.Reset()
	assert.Empty(t, r.Calls)
}
