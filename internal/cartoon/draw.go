package cartoon

import (
	"errors"

	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/pkg/math"
)

// borderDiameter is the width of ribbon edge lines in pixels.
const borderDiameter = 3

// facing is the view-space normal of screen-aligned strips.
var facing = math.Vec3{Z: 1}

func toVec(sp camera.ScreenPoint) math.Vec3 {
	return math.Vec3{X: sp.X, Y: sp.Y, Z: sp.Z}
}

func toScreen(v math.Vec3) camera.ScreenPoint {
	return camera.ScreenPoint{X: v.X, Y: v.Y, Z: v.Z}
}

func facingVertex(sp camera.ScreenPoint) camera.ScreenVertex {
	return camera.ScreenVertex{ScreenPoint: sp, Normal: facing}
}

// drawMesh projects m and fills its quads. It returns the triangle count.
func (p *pass) drawMesh(m *Mesh) int {
	v := p.s.verts[:0]
	for k, pt := range m.Vertices {
		v = append(v, camera.ScreenVertex{
			ScreenPoint: p.proj.ProjectPoint(pt),
			Normal:      p.proj.ProjectNormal(m.Normals[k]),
		})
	}
	p.s.verts = v
	for _, q := range m.Quads {
		p.rast.FillQuad(v[q[0]], v[q[1]], v[q[2]], v[q[3]])
	}
	return 2 * len(m.Quads)
}

// drawFallback draws a segment without a mesh.
func (p *pass) drawFallback(seg *segment) error {
	if p.style.Wireframe || seg.diamBeg < 1 && seg.diamEnd < 1 {
		return p.drawLine(seg)
	}
	switch seg.kind {
	case kindRibbon:
		err := p.drawRibbon(seg)
		if errors.Is(err, ErrNoWingVectors) {
			return p.fillHermite(seg)
		}
		return err
	case kindArrow:
		return p.drawArrow(seg)
	}
	return p.fillHermite(seg)
}

// screenCurve samples the segment's centerline in screen space into
// p.s.curve.
func (p *pass) screenCurve(seg *segment) error {
	sc := p.screens
	var err error
	p.s.curve, err = math.HermiteSamples(p.tension,
		toVec(sc[seg.prev]), toVec(sc[seg.i]), toVec(sc[seg.next]), toVec(sc[seg.next2]),
		samplesPerSegment(p.style.HermiteLevel), true, p.s.curve[:0])
	return err
}

// drawLine draws the centerline as a polyline.
func (p *pass) drawLine(seg *segment) error {
	if err := p.screenCurve(seg); err != nil {
		return err
	}
	c := p.s.curve
	for j := 1; j < len(c); j++ {
		p.rast.DrawLine(toScreen(c[j-1]), toScreen(c[j]))
	}
	return nil
}

// fillHermite draws a tube as a chain of round-capped cylinders whose
// diameter runs from the begin width through the middle to the end width.
func (p *pass) fillHermite(seg *segment) error {
	if err := p.screenCurve(seg); err != nil {
		return err
	}
	c := p.s.curve
	last := float32(len(c) - 1)
	diameter := func(j int) float32 {
		t := 2 * float32(j) / last
		if t <= 1 {
			return seg.diamBeg + (seg.diamMid-seg.diamBeg)*t
		}
		return seg.diamMid + (seg.diamEnd-seg.diamMid)*(t-1)
	}
	for j := 1; j < len(c); j++ {
		d := (diameter(j-1) + diameter(j)) / 2
		p.rast.FillCylinder(toScreen(c[j-1]), toScreen(c[j]), d, true)
	}
	return nil
}

// edges projects the two ribbon edges at the four control points around
// seg, offset by half of widths along the wing vectors.
func (p *pass) edges(seg *segment, widths [4]float32) (top, bottom [4]math.Vec3) {
	idx := [4]int{seg.prev, seg.i, seg.next, seg.next2}
	for k, j := range idx {
		half := p.model.WingVector(j).Scale(widths[k] / 2000)
		top[k] = toVec(p.proj.ProjectPoint(p.controls[j].Add(half)))
		bottom[k] = toVec(p.proj.ProjectPoint(p.controls[j].Sub(half)))
	}
	return top, bottom
}

// drawRibbon fills a flat strip between the wing-offset edges. Residues
// whose wing was flipped use their back color when they have one.
func (p *pass) drawRibbon(seg *segment) error {
	if !p.model.HasWingVectors() {
		return ErrNoWingVectors
	}
	if p.model.Reversed(seg.i) {
		if back, ok := p.model.BackColor(seg.i); ok {
			p.rast.SetColor(back)
		}
	}
	var widths [4]float32
	for k, j := range [4]int{seg.prev, seg.i, seg.next, seg.next2} {
		widths[k] = float32(p.mads[j])
	}
	top, bottom := p.edges(seg, widths)
	return p.fillStrip(top, bottom)
}

// drawArrow draws an arrowhead as a cone for round sections and as a
// tapering strip otherwise.
func (p *pass) drawArrow(seg *segment) error {
	base := float32(seg.madBeg) * arrowBaseScale
	if p.style.AspectRatio == 1 || !p.model.HasWingVectors() {
		b, tip := p.screens[seg.i], p.screens[seg.next]
		if b == tip {
			return ErrDegenerateSegment
		}
		p.rast.FillCone(b, tip, p.proj.ScaleToScreen(b.Z, base))
		return nil
	}
	top, bottom := p.edges(seg, [4]float32{base, base, 0, 0})
	return p.fillStrip(top, bottom)
}

// fillStrip samples both edges and fills the quads between them, adding
// border lines when enabled.
func (p *pass) fillStrip(top, bottom [4]math.Vec3) error {
	s := p.s
	n := samplesPerSegment(p.style.HermiteLevel)
	var err error
	s.curve, err = math.HermiteSamples(p.tension, top[0], top[1], top[2], top[3], n, true, s.curve[:0])
	if err != nil {
		return err
	}
	s.curve2, err = math.HermiteSamples(p.tension, bottom[0], bottom[1], bottom[2], bottom[3], n, true, s.curve2[:0])
	if err != nil {
		return err
	}
	s.top, s.bottom = s.top[:0], s.bottom[:0]
	for j := range s.curve {
		s.top = append(s.top, toScreen(s.curve[j]))
		s.bottom = append(s.bottom, toScreen(s.curve2[j]))
	}
	for j := 1; j < n; j++ {
		p.rast.FillQuad(facingVertex(s.top[j-1]), facingVertex(s.top[j]), facingVertex(s.bottom[j]), facingVertex(s.bottom[j-1]))
	}
	if p.style.RibbonBorder {
		for j := 1; j < n; j++ {
			p.rast.FillCylinder(s.top[j-1], s.top[j], borderDiameter, false)
			p.rast.FillCylinder(s.bottom[j-1], s.bottom[j], borderDiameter, false)
		}
	}
	return nil
}
