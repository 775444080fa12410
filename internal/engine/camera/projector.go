package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/biocartoon/pkg/math"
)

// minDepth keeps points at or behind the eye from blowing up the
// perspective divide.
const minDepth = 0.01

// ScreenPoint is a projected point: pixel coordinates with Y down, and the
// view-space depth (distance in front of the eye) in Z.
type ScreenPoint struct {
	X, Y, Z float32
}

// ScreenVertex is a projected mesh vertex with its view-space normal.
type ScreenVertex struct {
	ScreenPoint
	Normal math.Vec3
}

// Projector maps world points to the screen for one frame. It holds no
// reference to geometry and never modifies its inputs.
type Projector struct {
	view        math.Mat4
	width       int
	height      int
	focal       float32 // pixels per world unit at depth 1
	perspective bool
	refDepth    float32 // depth whose scale an orthographic view uses
}

// NewProjector creates a projector. fovY is the vertical field of view in
// radians; refDepth is the depth at which the orthographic scale matches
// the perspective one (normally the camera distance).
func NewProjector(view math.Mat4, width, height int, fovY float32, perspective bool, refDepth float32) *Projector {
	if fovY <= 0 {
		fovY = math32.Pi / 6
	}
	if refDepth <= 0 {
		refDepth = 1
	}
	return &Projector{
		view:        view,
		width:       width,
		height:      height,
		focal:       float32(height) / 2 / math32.Tan(fovY/2),
		perspective: perspective,
		refDepth:    refDepth,
	}
}

// Width returns the viewport width in pixels.
func (p *Projector) Width() int { return p.width }

// Height returns the viewport height in pixels.
func (p *Projector) Height() int { return p.height }

// View returns the view matrix.
func (p *Projector) View() math.Mat4 { return p.view }

// Perspective reports whether foreshortening is applied.
func (p *Projector) Perspective() bool { return p.perspective }

// PixelsPerUnit returns the screen size of one world unit at depth.
func (p *Projector) PixelsPerUnit(depth float32) float32 {
	if !p.perspective {
		return p.focal / p.refDepth
	}
	if depth < minDepth {
		depth = minDepth
	}
	return p.focal / depth
}

// ProjectPoint projects a single world point.
func (p *Projector) ProjectPoint(pt math.Vec3) ScreenPoint {
	v := p.view.TransformPoint(pt)
	depth := -v.Z
	s := p.PixelsPerUnit(depth)
	return ScreenPoint{
		X: float32(p.width)/2 + v.X*s,
		Y: float32(p.height)/2 - v.Y*s,
		Z: depth,
	}
}

// Project appends the projections of points to out.
func (p *Projector) Project(points []math.Vec3, out []ScreenPoint) []ScreenPoint {
	for _, pt := range points {
		out = append(out, p.ProjectPoint(pt))
	}
	return out
}

// ProjectNormal rotates a world-space direction into view space.
func (p *Projector) ProjectNormal(n math.Vec3) math.Vec3 {
	return p.view.TransformDirection(n).Normalize()
}

// ScaleToScreen converts a width in mad units (thousandths of a world
// unit) at the given depth into pixels.
func (p *Projector) ScaleToScreen(depth float32, mad float32) float32 {
	return mad / 1000 * p.PixelsPerUnit(depth)
}

// InDisplayRange reports whether a projected point lies within the viewport
// plus a margin of one viewport in every direction, and in front of the eye.
func (p *Projector) InDisplayRange(sp ScreenPoint) bool {
	w, h := float32(p.width), float32(p.height)
	return sp.Z > 0 && sp.X >= -w && sp.X <= 2*w && sp.Y >= -h && sp.Y <= 2*h
}
