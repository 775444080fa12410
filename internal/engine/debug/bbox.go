// Package debug provides debug visualization and capture utilities for the
// viewer.
package debug

import (
	"image/color"

	"github.com/Faultbox/biocartoon/internal/cartoon"
	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/pkg/math"
)

// BBoxEdgeCount is the number of edges of a box wireframe.
const BBoxEdgeCount = 12

// BBoxColor is the default wireframe color.
var BBoxColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}

// BBoxCorners returns the eight corners of the box [lo, hi]. Corner k has
// hi.X when bit 0 of k is set, hi.Y for bit 1 and hi.Z for bit 2.
func BBoxCorners(lo, hi math.Vec3) [8]math.Vec3 {
	var c [8]math.Vec3
	for k := range c {
		c[k] = lo
		if k&1 != 0 {
			c[k].X = hi.X
		}
		if k&2 != 0 {
			c[k].Y = hi.Y
		}
		if k&4 != 0 {
			c[k].Z = hi.Z
		}
	}
	return c
}

// bboxEdges pairs corners that differ in exactly one bit.
var bboxEdges = [BBoxEdgeCount][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // Z
}

// DrawBBox draws the wireframe of the box [lo, hi], grown by padding on
// every side, with lines on r.
func DrawBBox(r cartoon.Rasterizer, proj *camera.Projector, lo, hi math.Vec3, padding float32) {
	pad := math.V3(padding, padding, padding)
	corners := BBoxCorners(lo.Sub(pad), hi.Add(pad))
	var screen [8]camera.ScreenPoint
	for k, c := range corners {
		screen[k] = proj.ProjectPoint(c)
	}
	r.SetColor(BBoxColor)
	for _, e := range bboxEdges {
		r.DrawLine(screen[e[0]], screen[e[1]])
	}
}
