// Package raster implements the cartoon Rasterizer: a software z-buffer
// renderer that produces images, a Batch that collects vertices for the GPU,
// and a Recorder that captures calls.
package raster

import (
	"image/color"

	"github.com/Faultbox/biocartoon/internal/engine/camera"
)

// Op identifies a recorded primitive.
type Op uint8

const (
	OpSetColor Op = iota
	OpTriangle
	OpQuad
	OpCylinder
	OpCone
	OpLine
)

func (o Op) String() string {
	switch o {
	case OpSetColor:
		return "color"
	case OpTriangle:
		return "triangle"
	case OpQuad:
		return "quad"
	case OpCylinder:
		return "cylinder"
	case OpCone:
		return "cone"
	}
	return "line"
}

// Call is one recorded rasterizer call. Vertices holds the corners of
// triangles and quads; Points the ends of cylinders, cones and lines.
type Call struct {
	Op        Op
	Color     color.RGBA
	Vertices  []camera.ScreenVertex
	Points    []camera.ScreenPoint
	Diameter  float32
	RoundCaps bool
}

// Recorder records every call in order. The zero value is ready to use.
type Recorder struct {
	Calls []Call
	color color.RGBA
}

func (r *Recorder) SetColor(c color.RGBA) {
	r.color = c
	r.Calls = append(r.Calls, Call{Op: OpSetColor, Color: c})
}

func (r *Recorder) FillTriangle(a, b, c camera.ScreenVertex) {
	r.Calls = append(r.Calls, Call{Op: OpTriangle, Color: r.color, Vertices: []camera.ScreenVertex{a, b, c}})
}

func (r *Recorder) FillQuad(a, b, c, d camera.ScreenVertex) {
	r.Calls = append(r.Calls, Call{Op: OpQuad, Color: r.color, Vertices: []camera.ScreenVertex{a, b, c, d}})
}

func (r *Recorder) FillCylinder(a, b camera.ScreenPoint, diameter float32, roundCaps bool) {
	r.Calls = append(r.Calls, Call{
		Op:        OpCylinder,
		Color:     r.color,
		Points:    []camera.ScreenPoint{a, b},
		Diameter:  diameter,
		RoundCaps: roundCaps,
	})
}

func (r *Recorder) FillCone(base, tip camera.ScreenPoint, diameter float32) {
	r.Calls = append(r.Calls, Call{Op: OpCone, Color: r.color, Points: []camera.ScreenPoint{base, tip}, Diameter: diameter})
}

func (r *Recorder) DrawLine(a, b camera.ScreenPoint) {
	r.Calls = append(r.Calls, Call{Op: OpLine, Color: r.color, Points: []camera.ScreenPoint{a, b}})
}

// Count returns the number of recorded calls of op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset discards the recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
	r.color = color.RGBA{}
}
