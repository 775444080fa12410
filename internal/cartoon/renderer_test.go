package cartoon_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/biocartoon/internal/bio"
	"github.com/Faultbox/biocartoon/internal/cartoon"
	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/internal/raster"
	"github.com/Faultbox/biocartoon/pkg/math"
)

var colorBlack = color.RGBA{0, 0, 0, 255}

// styleRef is a mutable StyleState.
type styleRef struct{ s cartoon.Style }

func (r *styleRef) Style() cartoon.Style { return r.s }

func framing(c *bio.Chain) *camera.OrbitCamera {
	cam := camera.NewOrbitCamera()
	cam.FitToBounds(cartoon.Bounds(c))
	return cam
}

func exportStyle() cartoon.Style {
	s := cartoon.DefaultStyle()
	s.AspectRatio = 1
	s.HermiteLevel = 3
	s.TraceAlpha = true
	s.Export = true
	return s
}

func TestRenderHelixEndToEnd(t *testing.T) {
	chain, err := bio.NewHelix("A", 10, 200)
	require.NoError(t, err)
	r := cartoon.NewRenderer(exportStyle(), cartoon.WithLogger(zaptest.NewLogger(t)))
	var rec raster.Recorder

	require.NoError(t, r.Render(chain, framing(chain).Projector(640, 480), &rec))

	stats := r.Stats()
	assert.Equal(t, 10, stats.Segments)
	assert.Equal(t, 10, stats.MeshesBuilt)
	assert.Zero(t, stats.Failures)
	assert.Zero(t, stats.Fallbacks)

	quads := 0
	for i := 0; i < 9; i++ {
		m := r.Mesh(chain, i)
		require.NotNil(t, m, "segment %d", i)
		assert.Equal(t, cartoon.SectionTube, m.Section)
		assert.Equal(t, 9, m.Rings)
		assert.Equal(t, 14, m.SidesPerRing)
		assert.Equal(t, i == 0, m.Cap0, "segment %d cap0", i)
		assert.False(t, m.Cap1, "segment %d cap1", i)
		for _, radius := range m.Radii {
			assert.Equal(t, float32(0.1), radius)
		}
		quads += len(m.Quads)
	}

	arrow := r.Mesh(chain, 9)
	require.NotNil(t, arrow)
	assert.True(t, arrow.Cap0)
	assert.False(t, arrow.Cap1)
	assert.Equal(t, float32(0.12), arrow.Radii[0])
	assert.Zero(t, arrow.Radii[arrow.Rings-1])
	quads += len(arrow.Quads)

	assert.Equal(t, quads, rec.Count(raster.OpQuad))
	assert.Equal(t, 2*quads, stats.Triangles)
	for _, call := range rec.Calls {
		for _, v := range call.Vertices {
			require.True(t, v.Normal.IsFinite())
		}
	}
}

func TestRenderHelixLeadPoints(t *testing.T) {
	chain, err := bio.NewHelix("A", 10, 200)
	require.NoError(t, err)
	style := exportStyle()
	style.TraceAlpha = false
	core, logs := observer.New(zapcore.DebugLevel)
	r := cartoon.NewRenderer(style, cartoon.WithLogger(zap.New(core)))
	var rec raster.Recorder

	require.NoError(t, r.Render(chain, framing(chain).Projector(640, 480), &rec))

	stats := r.Stats()
	assert.Equal(t, 9, stats.Segments)
	assert.Equal(t, 9, stats.MeshesBuilt)
	assert.Zero(t, stats.Failures)
	assert.Zero(t, stats.Fallbacks)
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	for i := 0; i < 8; i++ {
		m := r.Mesh(chain, i)
		require.NotNil(t, m, "segment %d", i)
		assert.Equal(t, i == 0, m.Cap0, "segment %d cap0", i)
		assert.False(t, m.Cap1, "segment %d cap1", i)
	}

	arrow := r.Mesh(chain, 8)
	require.NotNil(t, arrow)
	assert.True(t, arrow.Cap0)
	assert.Equal(t, float32(0.12), arrow.Radii[0])
	assert.Zero(t, arrow.Radii[arrow.Rings-1])
	assert.False(t, r.MeshReady(chain, 9))
}

func TestRenderCyclicSeam(t *testing.T) {
	chain, err := bio.NewHelix("A", 12, 200)
	require.NoError(t, err)
	chain.Cyclic = true
	r := cartoon.NewRenderer(exportStyle())
	require.NoError(t, r.Render(chain, framing(chain).Projector(640, 480), &raster.Recorder{}))
	require.Equal(t, 12, r.Stats().MeshesBuilt)

	a, b := r.Mesh(chain, 11), r.Mesh(chain, 0)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.False(t, a.Cap1)
	assert.False(t, b.Cap0)
	last, _ := a.Ring(a.Rings - 1)
	for k := 0; k < a.SidesPerRing; k++ {
		assert.Equal(t, a.Normals[last+k], b.Normals[k], "side %d", k)
	}
}

func TestRenderLogsSegmentFailure(t *testing.T) {
	res := bio.HelixResidues(6, math.Vec3{}, math.Vec3{X: 1})
	res[3].Lead = res[2].Lead
	chain, err := bio.NewChain("A", res)
	require.NoError(t, err)
	style := exportStyle()
	style.TraceAlpha = false
	core, logs := observer.New(zapcore.InfoLevel)
	r := cartoon.NewRenderer(style, cartoon.WithLogger(zap.New(core)))
	proj := framing(chain).Projector(640, 480)

	require.NoError(t, r.Render(chain, proj, &raster.Recorder{}))
	require.NoError(t, r.Render(chain, proj, &raster.Recorder{}))
	assert.Equal(t, 1, r.Stats().Fallbacks)

	failed := logs.FilterMessage("segment mesh failed").All()
	require.Len(t, failed, 1, "logged once per failed key")
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	fields := failed[0].ContextMap()
	assert.Equal(t, int64(2), fields["segment"])
	assert.Equal(t, "A", fields["chain"])
	assert.Contains(t, fields["error"], cartoon.ErrDegenerateSegment.Error())
}

func TestRenderSeamsMatch(t *testing.T) {
	chain, err := bio.NewHelix("A", 10, 200)
	require.NoError(t, err)
	r := cartoon.NewRenderer(exportStyle())
	require.NoError(t, r.Render(chain, framing(chain).Projector(640, 480), &raster.Recorder{}))

	for i := 1; i < 9; i++ {
		a, b := r.Mesh(chain, i-1), r.Mesh(chain, i)
		last, _ := a.Ring(a.Rings - 1)
		for k := 0; k < a.SidesPerRing; k++ {
			assert.Equal(t, a.Normals[last+k], b.Normals[k], "seam %d side %d", i, k)
		}
	}
}

func TestRenderInvalidation(t *testing.T) {
	chain, err := bio.NewHelix("A", 10, 200)
	require.NoError(t, err)
	style := &styleRef{s: exportStyle()}
	r := cartoon.NewRenderer(style)
	cam := framing(chain)

	require.NoError(t, r.Render(chain, cam.Projector(640, 480), &raster.Recorder{}))
	for i := 0; i < 10; i++ {
		require.True(t, r.MeshReady(chain, i))
	}

	// camera only: everything is reused
	cam.HandleDrag(40, 10)
	cam.HandleZoom(1)
	assert.False(t, r.Sync())
	for i := 0; i < 10; i++ {
		assert.True(t, r.MeshReady(chain, i), "segment %d", i)
	}
	require.NoError(t, r.Render(chain, cam.Projector(640, 480), &raster.Recorder{}))
	assert.Zero(t, r.Stats().MeshesBuilt)
	assert.Equal(t, 10, r.Stats().MeshesReused)

	// aspect ratio change drops every mesh before rebuilding
	style.s.AspectRatio = 4
	assert.True(t, r.Sync())
	for i := 0; i < 10; i++ {
		assert.False(t, r.MeshReady(chain, i), "segment %d", i)
	}
	require.NoError(t, r.Render(chain, cam.Projector(640, 480), &raster.Recorder{}))
	assert.Equal(t, 10, r.Stats().MeshesBuilt)
	assert.Equal(t, cartoon.SectionElliptical, r.Mesh(chain, 3).Section)
}

func TestRenderDemoModes(t *testing.T) {
	chain := bio.Demo()
	cam := framing(chain)
	for _, mode := range []cartoon.Mode{cartoon.ModeCartoon, cartoon.ModeRibbon, cartoon.ModeTrace} {
		t.Run(mode.String(), func(t *testing.T) {
			style := cartoon.DefaultStyle()
			style.Mode = mode
			style.HighResolution = true
			r := cartoon.NewRenderer(style)
			sw := raster.NewSoftware(320, 240, colorBlack)

			require.NoError(t, r.Render(chain, cam.Projector(320, 240), sw))
			stats := r.Stats()
			// lead points: the final residue is the terminator
			assert.Equal(t, chain.ResidueCount()-1, stats.Segments)
			assert.Positive(t, sw.Stats.Pixels)
		})
	}
}

func TestRenderSmallFallsBack(t *testing.T) {
	chain, err := bio.NewHelix("A", 10, 200)
	require.NoError(t, err)
	style := cartoon.DefaultStyle()
	style.AspectRatio = 1
	r := cartoon.NewRenderer(style)
	var rec raster.Recorder

	// tiny viewport: every segment is under the mesh threshold
	require.NoError(t, r.Render(chain, framing(chain).Projector(64, 48), &rec))
	stats := r.Stats()
	assert.Zero(t, stats.MeshesBuilt)
	assert.Equal(t, stats.Segments, stats.Fallbacks)
	assert.Zero(t, rec.Count(raster.OpQuad))
	assert.Positive(t, rec.Count(raster.OpCylinder)+rec.Count(raster.OpLine)+rec.Count(raster.OpCone))
}

func TestRenderWireframeDrawsLines(t *testing.T) {
	chain := bio.Demo()
	style := cartoon.DefaultStyle()
	style.Wireframe = true
	r := cartoon.NewRenderer(style)
	var rec raster.Recorder

	require.NoError(t, r.Render(chain, framing(chain).Projector(640, 480), &rec))
	assert.Positive(t, rec.Count(raster.OpLine))
	assert.Zero(t, rec.Count(raster.OpQuad))
	assert.Zero(t, rec.Count(raster.OpCylinder))
}

func TestRenderHiddenResidues(t *testing.T) {
	chain, err := bio.NewHelix("A", 10, 200)
	require.NoError(t, err)
	chain.SetHidden(4, true)
	r := cartoon.NewRenderer(exportStyle())
	require.NoError(t, r.Render(chain, framing(chain).Projector(640, 480), &raster.Recorder{}))

	assert.Equal(t, 9, r.Stats().Segments)
	assert.False(t, r.MeshReady(chain, 4))
	assert.True(t, r.Mesh(chain, 3).Cap1, "segment before a hidden residue is capped")
	assert.True(t, r.Mesh(chain, 5).Cap0, "segment after a hidden residue is capped")
}

func TestRenderErrors(t *testing.T) {
	r := cartoon.NewRenderer(cartoon.DefaultStyle())
	chain := bio.Demo()
	proj := framing(chain).Projector(64, 64)

	assert.Error(t, r.Render(nil, proj, &raster.Recorder{}))
	assert.Error(t, r.Render(chain, nil, &raster.Recorder{}))
	assert.Error(t, r.Render(chain, proj, nil))
}

func TestBounds(t *testing.T) {
	a, err := bio.NewHelix("A", 4, 2000)
	require.NoError(t, err)
	b := bio.Demo()

	lo, hi := cartoon.Bounds(a, b)
	for _, c := range []*bio.Chain{a, b} {
		for i := 0; i < c.ResidueCount(); i++ {
			p := c.LeadAtomPosition(i)
			assert.True(t, p.X >= lo.X && p.Y >= lo.Y && p.Z >= lo.Z, "residue %d below %v", i, lo)
			assert.True(t, p.X <= hi.X && p.Y <= hi.Y && p.Z <= hi.Z, "residue %d above %v", i, hi)
		}
	}

	lo, hi = cartoon.Bounds()
	assert.Equal(t, math.Vec3{}, lo)
	assert.Equal(t, math.Vec3{}, hi)
}

func TestForget(t *testing.T) {
	chain, err := bio.NewHelix("A", 10, 200)
	require.NoError(t, err)
	r := cartoon.NewRenderer(exportStyle())
	require.NoError(t, r.Render(chain, framing(chain).Projector(640, 480), &raster.Recorder{}))
	require.True(t, r.MeshReady(chain, 0))

	r.Forget(chain)
	assert.False(t, r.MeshReady(chain, 0))
}
