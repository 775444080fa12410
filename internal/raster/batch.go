package raster

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/pkg/math"
)

// tubeBands is the number of strips across a screen-space cylinder or cone.
const tubeBands = 8

// Vertex is one batched vertex: screen position with view depth, view-space
// normal and a color with components in [0, 1]. Its memory layout is the
// GPU vertex format.
type Vertex struct {
	X, Y, Z    float32
	NX, NY, NZ float32
	R, G, B, A float32
}

// VertexStride is the size of a Vertex in bytes.
const VertexStride = 10 * 4

// Batch collects rasterizer calls as triangle and line vertex lists for
// upload to the GPU. Cylinders and cones become shaded triangle strips.
// The zero value is ready to use.
type Batch struct {
	Triangles []Vertex // three per triangle
	Lines     []Vertex // two per line

	// MinZ and MaxZ bound the depth of every vertex since Reset.
	MinZ, MaxZ float32

	color   [4]float32
	set     bool
	bounded bool
}

// Reset empties the batch, keeping its capacity.
func (b *Batch) Reset() {
	b.Triangles = b.Triangles[:0]
	b.Lines = b.Lines[:0]
	b.MinZ, b.MaxZ = 0, 0
	b.bounded = false
}

// Empty reports whether nothing was drawn since Reset.
func (b *Batch) Empty() bool {
	return len(b.Triangles) == 0 && len(b.Lines) == 0
}

func (b *Batch) SetColor(c color.RGBA) {
	b.color = [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
	b.set = true
}

func (b *Batch) vertex(p camera.ScreenPoint, n math.Vec3) Vertex {
	if !b.set {
		b.SetColor(color.RGBA{255, 255, 255, 255})
	}
	if !b.bounded {
		b.MinZ, b.MaxZ = p.Z, p.Z
		b.bounded = true
	} else {
		b.MinZ, b.MaxZ = min(b.MinZ, p.Z), max(b.MaxZ, p.Z)
	}
	c := b.color
	return Vertex{p.X, p.Y, p.Z, n.X, n.Y, n.Z, c[0], c[1], c[2], c[3]}
}

func (b *Batch) FillTriangle(v0, v1, v2 camera.ScreenVertex) {
	b.Triangles = append(b.Triangles,
		b.vertex(v0.ScreenPoint, v0.Normal),
		b.vertex(v1.ScreenPoint, v1.Normal),
		b.vertex(v2.ScreenPoint, v2.Normal))
}

func (b *Batch) FillQuad(v0, v1, v2, v3 camera.ScreenVertex) {
	b.FillTriangle(v0, v1, v2)
	b.FillTriangle(v0, v2, v3)
}

func (b *Batch) FillCylinder(p0, p1 camera.ScreenPoint, diameter float32, roundCaps bool) {
	r := max(diameter/2, 0.5)
	if !b.tube(p0, p1, r, r) {
		b.disc(p0, r)
		return
	}
	if roundCaps {
		b.disc(p0, r)
		b.disc(p1, r)
	}
}

func (b *Batch) FillCone(base, tip camera.ScreenPoint, diameter float32) {
	r := max(diameter/2, 0.5)
	if !b.tube(base, tip, r, 0) {
		b.disc(base, r)
	}
}

func (b *Batch) DrawLine(p0, p1 camera.ScreenPoint) {
	facing := math.V3(0, 0, 1)
	b.Lines = append(b.Lines, b.vertex(p0, facing), b.vertex(p1, facing))
}

// tube appends a strip of bands from p0 (radius r0) to p1 (radius r1) whose
// normals sweep across the axis like those of a round tube. It reports
// false when the ends coincide on screen.
func (b *Batch) tube(p0, p1 camera.ScreenPoint, r0, r1 float32) bool {
	axis := math.Vec2{X: p1.X - p0.X, Y: p1.Y - p0.Y}
	if axis.Length() == 0 {
		return false
	}
	side := axis.Normalize().Perp()
	at := func(p camera.ScreenPoint, r, theta float32) (camera.ScreenPoint, math.Vec3) {
		sin, cos := math32.Sincos(theta)
		o := side.Scale(r * sin)
		return camera.ScreenPoint{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z}, math.V3(side.X*sin, side.Y*sin, cos)
	}
	step := math32.Pi / tubeBands
	for k := 0; k < tubeBands; k++ {
		t0 := -math32.Pi/2 + step*float32(k)
		t1 := t0 + step
		a0, n0 := at(p0, r0, t0)
		a1, n1 := at(p0, r0, t1)
		c0, m0 := at(p1, r1, t0)
		c1, m1 := at(p1, r1, t1)
		b.FillQuad(
			camera.ScreenVertex{ScreenPoint: a0, Normal: n0},
			camera.ScreenVertex{ScreenPoint: c0, Normal: m0},
			camera.ScreenVertex{ScreenPoint: c1, Normal: m1},
			camera.ScreenVertex{ScreenPoint: a1, Normal: n1})
	}
	return true
}

// disc appends a triangle fan shaded like a sphere seen from the front.
func (b *Batch) disc(c camera.ScreenPoint, r float32) {
	center := camera.ScreenVertex{ScreenPoint: c, Normal: math.V3(0, 0, 1)}
	step := 2 * math32.Pi / (2 * tubeBands)
	rim := func(k int) camera.ScreenVertex {
		sin, cos := math32.Sincos(step * float32(k))
		return camera.ScreenVertex{
			ScreenPoint: camera.ScreenPoint{X: c.X + r*cos, Y: c.Y + r*sin, Z: c.Z},
			Normal:      math.V3(cos, sin, 0),
		}
	}
	for k := 0; k < 2*tubeBands; k++ {
		b.FillTriangle(center, rim(k), rim(k+1))
	}
}
