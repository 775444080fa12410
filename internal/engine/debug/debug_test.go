package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/internal/raster"
	"github.com/Faultbox/biocartoon/pkg/math"
)

func TestBBoxCorners(t *testing.T) {
	c := BBoxCorners(math.V3(0, 0, 0), math.V3(1, 2, 3))
	assert.Equal(t, math.V3(0, 0, 0), c[0])
	assert.Equal(t, math.V3(1, 2, 3), c[7])
	assert.Equal(t, math.V3(1, 0, 3), c[5])

	for _, e := range bboxEdges {
		diff := e[0] ^ e[1]
		assert.True(t, diff == 1 || diff == 2 || diff == 4, "edge %v", e)
	}
}

func TestDrawBBox(t *testing.T) {
	cam := camera.NewOrbitCamera()
	lo, hi := math.V3(-5, -5, -5), math.V3(5, 5, 5)
	cam.FitToBounds(lo, hi)
	proj := cam.Projector(200, 200)

	var rec raster.Recorder
	DrawBBox(&rec, proj, lo, hi, 1)

	require.NotEmpty(t, rec.Calls)
	assert.Equal(t, raster.OpSetColor, rec.Calls[0].Op)
	assert.Equal(t, BBoxColor, rec.Calls[0].Color)
	assert.Equal(t, BBoxEdgeCount, rec.Count(raster.OpLine))

	// Every end point is a projected padded corner.
	want := map[camera.ScreenPoint]bool{}
	for _, c := range BBoxCorners(math.V3(-6, -6, -6), math.V3(6, 6, 6)) {
		want[proj.ProjectPoint(c)] = true
	}
	for _, call := range rec.Calls[1:] {
		for _, p := range call.Points {
			assert.True(t, want[p], "unexpected end point %v", p)
		}
	}
}

func fixedCapture(dir string) *ScreenshotCapture {
	sc := NewScreenshotCapture(dir, "cartoon")
	sc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC) }
	return sc
}

func TestGenerateFilename(t *testing.T) {
	sc := fixedCapture("")
	assert.Equal(t, "cartoon_2024-03-01_12-30-45.000.png", sc.GenerateFilename())

	sc.SetOutputDir("shots")
	assert.Equal(t, filepath.Join("shots", "cartoon_2024-03-01_12-30-45.000.png"), sc.GenerateFilename())
}

func TestCaptureFromPixelsFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := fixedCapture(dir)

	// 1x2 image: bottom row red, top row blue, as read back from OpenGL.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	name, err := sc.CaptureFromPixels(pixels, 1, 2)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, dir))

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 2), img.Bounds())
	assert.Equal(t, color.RGBAModel.Convert(color.RGBA{0, 0, 255, 255}), color.RGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.RGBAModel.Convert(color.RGBA{255, 0, 0, 255}), color.RGBAModel.Convert(img.At(0, 1)))
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := fixedCapture(t.TempDir())
	_, err := sc.CaptureFromPixels(make([]byte, 7), 1, 2)
	assert.Error(t, err)
}
