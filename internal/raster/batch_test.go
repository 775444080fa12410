package raster_test

import (
	"testing"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/biocartoon/internal/raster"
)

func TestVertexStride(t *testing.T) {
	assert.Equal(t, uintptr(raster.VertexStride), unsafe.Sizeof(raster.Vertex{}))
}

func TestBatchTriangles(t *testing.T) {
	var b raster.Batch
	assert.True(t, b.Empty())

	b.SetColor(red)
	b.FillTriangle(vtx(0, 0, 5), vtx(10, 0, 7), vtx(0, 10, 6))
	b.SetColor(blue)
	b.FillQuad(vtx(0, 0, 3), vtx(10, 0, 3), vtx(10, 10, 3), vtx(0, 10, 3))

	require.Len(t, b.Triangles, 9)
	assert.Empty(t, b.Lines)
	assert.Equal(t, float32(1), b.Triangles[0].R)
	assert.Equal(t, float32(0), b.Triangles[0].B)
	assert.Equal(t, float32(1), b.Triangles[3].B)
	assert.Equal(t, float32(1), b.Triangles[3].A)
	assert.Equal(t, float32(3), b.MinZ)
	assert.Equal(t, float32(7), b.MaxZ)

	// Quad (a, b, c, d) splits into (a, b, c) and (a, c, d).
	q := b.Triangles[3:]
	assert.Equal(t, q[0], q[3])
	assert.Equal(t, q[2], q[4])
	assert.Equal(t, float32(0), q[5].X)
	assert.Equal(t, float32(10), q[5].Y)

	b.Reset()
	assert.True(t, b.Empty())
	assert.Zero(t, b.MinZ)
	assert.Zero(t, b.MaxZ)
}

func TestBatchDefaultColor(t *testing.T) {
	var b raster.Batch
	b.DrawLine(pt(0, 0, 1), pt(4, 4, 2))
	require.Len(t, b.Lines, 2)
	v := b.Lines[0]
	assert.Equal(t, [4]float32{1, 1, 1, 1}, [4]float32{v.R, v.G, v.B, v.A})
	assert.Equal(t, float32(1), v.NZ)
}

func TestBatchCylinder(t *testing.T) {
	var b raster.Batch
	b.FillCylinder(pt(10, 20, 5), pt(50, 20, 5), 10, false)

	// Eight bands of two triangles.
	require.Len(t, b.Triangles, 8*2*3)
	for _, v := range b.Triangles {
		assert.InDelta(t, 20, v.Y, 5.0001)
		assert.True(t, v.X == 10 || v.X == 50, "x = %v", v.X)
		n := math32.Sqrt(v.NX*v.NX + v.NY*v.NY + v.NZ*v.NZ)
		assert.InDelta(t, 1, n, 1e-5)
		assert.GreaterOrEqual(t, v.NZ, float32(-1e-6))
	}

	// The axis faces the viewer.
	var facing bool
	for _, v := range b.Triangles {
		if v.NZ > 0.999 {
			facing = true
			assert.InDelta(t, 20, v.Y, 1e-4)
		}
	}
	assert.True(t, facing)
}

func TestBatchCylinderCaps(t *testing.T) {
	var flat, round raster.Batch
	flat.FillCylinder(pt(10, 20, 5), pt(50, 20, 5), 10, false)
	round.FillCylinder(pt(10, 20, 5), pt(50, 20, 5), 10, true)
	// Each round end adds a fan of sixteen triangles.
	assert.Equal(t, len(flat.Triangles)+2*16*3, len(round.Triangles))
}

func TestBatchEndOn(t *testing.T) {
	var b raster.Batch
	b.FillCylinder(pt(30, 30, 5), pt(30, 30, 9), 10, false)
	require.Len(t, b.Triangles, 16*3)
	for _, v := range b.Triangles {
		d := math32.Sqrt((v.X-30)*(v.X-30) + (v.Y-30)*(v.Y-30))
		assert.LessOrEqual(t, d, float32(5.0001))
	}

	b.Reset()
	b.FillCone(pt(30, 30, 5), pt(30, 30, 9), 10)
	assert.Len(t, b.Triangles, 16*3)
}

func TestBatchCone(t *testing.T) {
	var b raster.Batch
	b.FillCone(pt(0, 0, 5), pt(40, 0, 5), 20)
	require.Len(t, b.Triangles, 8*2*3)
	for _, v := range b.Triangles {
		if v.X == 40 {
			assert.InDelta(t, 0, v.Y, 1e-4, "tip vertices meet on the axis")
		}
	}
}

func TestBatchTinyDiameter(t *testing.T) {
	var b raster.Batch
	b.FillCylinder(pt(0, 0, 1), pt(10, 0, 1), 0, false)
	maxY := float32(0)
	for _, v := range b.Triangles {
		maxY = max(maxY, math32.Abs(v.Y))
	}
	assert.InDelta(t, 0.5, maxY, 1e-5, "diameter floors at one pixel")
}
