package cartoon

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/biocartoon/pkg/math"
)

var (
	// ErrDegenerateSegment is returned when a segment's endpoints coincide
	// or its geometry produces non-finite vertices.
	ErrDegenerateSegment = errors.New("degenerate segment")
	// ErrNoWingVectors is returned by ribbon drawing for chains without
	// orientation data.
	ErrNoWingVectors = errors.New("no wing vectors")
)

// parallelEps is the squared sine below which a wing counts as parallel
// to the curve tangent.
const parallelEps = 1e-6

// SegmentInput describes one residue-to-residue segment.
type SegmentInput struct {
	// Points are the control points at prev, i, next, next2 and next3.
	Points [5]math.Vec3
	// Wings are the wing vectors at the same indices. They are ignored
	// unless HasWings is set.
	Wings    [5]math.Vec3
	HasWings bool

	MadBegin, MadMid, MadEnd int

	AspectRatio   float32
	Tension       int
	HermiteLevel  int
	CartoonsFancy bool
	Cap0, Cap1    bool
}

// section picks the cross-section shape: tube for round or unoriented
// segments, then flat, then elliptical for fancy or fine meshes.
func (in *SegmentInput) section() CrossSection {
	switch {
	case in.AspectRatio == 1 || !in.HasWings:
		return SectionTube
	case in.AspectRatio == 0:
		return SectionFlat
	case in.CartoonsFancy || in.HermiteLevel >= 6:
		return SectionElliptical
	}
	return SectionNonElliptical
}

// BuildSegmentMesh tessellates one segment into a ring mesh. It fails with
// ErrDegenerateSegment when the segment endpoints coincide.
func BuildSegmentMesh(in SegmentInput) (*Mesh, error) {
	s := defaultTessellator.acquire()
	defer defaultTessellator.release(s)
	return buildSegmentMesh(&in, s)
}

func buildSegmentMesh(in *SegmentInput, s *scratch) (*Mesh, error) {
	p := in.Points
	if p[1].DistanceSquared(p[2]) == 0 {
		return nil, ErrDegenerateSegment
	}

	section := in.section()
	flat := section == SectionFlat
	nHermites := samplesPerSegment(in.HermiteLevel)
	nPer := sidesPerRing(in.HermiteLevel, flat)
	angle := 2 * math32.Pi / float32(nPer)
	if flat {
		angle = math32.Pi / float32(nPer-1)
	}

	var err error
	s.control, err = math.HermiteList(in.Tension, p[0], p[1], p[2], p[3], p[4], nHermites, false, s.control[:0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateSegment, err)
	}
	s.wings = s.wings[:0]
	if in.HasWings {
		w := in.Wings
		first := w[0]
		if in.MadEnd == 0 {
			// flare the base of an arrowhead
			first = first.Scale(2)
		}
		s.wings, err = math.HermiteList(in.Tension, first, w[1], w[2], w[3], w[4], nHermites, true, s.wings)
		if err != nil {
			return nil, err
		}
	}

	r1 := float32(in.MadBegin) / 2000
	r2 := float32(in.MadMid) / 2000
	r3 := float32(in.MadEnd) / 2000
	variable := in.MadBegin != in.MadMid || in.MadMid != in.MadEnd
	if variable {
		// x carries the begin->mid half, y the mid->end half.
		s.radius, err = math.HermiteList(radiusTension,
			math.V3(r1, r1, 0), math.V3(r1, r2, 0), math.V3(r2, r3, 0),
			math.V3(r3, r3, 0), math.V3(r3, r3, 0),
			(nHermites+1)>>1, true, s.radius[:0])
		if err != nil {
			return nil, err
		}
	}

	m := &Mesh{
		SidesPerRing: nPer,
		Rings:        nHermites,
		Cap0:         in.Cap0 && !flat,
		Cap1:         in.Cap1 && !flat,
		Section:      section,
	}
	total := nHermites * nPer
	if m.Cap0 {
		total += nPer
	}
	if m.Cap1 {
		total += nPer
	}
	m.Vertices = make([]math.Vec3, 0, total)
	m.Radii = make([]float32, 0, nHermites)

	iMid := nHermites >> 1
	kpt1 := (nPer + 2) / 4
	kpt2 := (3*nPer + 2) / 4
	nLast := nPer
	if flat {
		nLast = nPer - 1
	}
	var prevWing math.Vec3
	nPoints := 0
	for r := 0; r < nHermites; r++ {
		norm := s.control[r+1].Sub(s.control[r])
		scale := r1
		if variable {
			if r < iMid {
				scale = s.radius[r].X
			} else {
				scale = s.radius[r-iMid].Y
			}
		}
		var raw math.Vec3
		if in.HasWings {
			raw = s.wings[r]
		}
		wing := orientWing(raw, norm, prevWing)
		prevWing = wing
		wing1 := wing
		switch section {
		case SectionElliptical:
			_, wing1 = math.EllipseAxes(norm, wing, in.AspectRatio)
		case SectionNonElliptical:
			wing = wing.Scale(2 / in.AspectRatio)
			wing1 = wing1.Sub(wing)
		case SectionTube:
			wing = wing.Cross(norm).Normalize()
		}
		wing = wing.Scale(scale)
		wing1 = wing1.Scale(scale)

		var rot math.Quat
		rotate := section == SectionTube || section == SectionNonElliptical
		if rotate {
			rot = math.QuatFromAxisAngle(norm, angle)
		}
		center := s.control[r]
		theta := angle
		if flat {
			theta = 0
		}
		for k := 0; k < nPer; k, theta = k+1, theta+angle {
			if rotate && k > 0 {
				wing = rot.Rotate(wing)
			}
			var offset math.Vec3
			switch section {
			case SectionFlat:
				offset = wing1.Scale(math32.Cos(theta))
			case SectionElliptical:
				offset = math.EllipsePoint(math.Vec3{}, wing, wing1, theta)
			case SectionNonElliptical:
				if k == kpt1 || k == kpt2 {
					wing1 = wing1.Negate()
				}
				offset = wing.Add(wing1)
			case SectionTube:
				offset = wing
			}
			m.Vertices = append(m.Vertices, center.Add(offset))
		}
		m.Radii = append(m.Radii, scale)

		if r > 0 {
			for k := 0; k < nLast; k++ {
				// Opposing quads are split the same way so they cannot clip
				// through each other at high aspect ratios.
				a := nPoints - nPer + k
				b := nPoints - nPer + (k+1)%nPer
				c := nPoints + (k+1)%nPer
				d := nPoints + k
				if k < nLast/2 {
					m.addQuad(a, b, c, d)
				} else {
					m.addQuad(b, c, d, a)
				}
			}
		}
		nPoints += nPer
	}

	capQuads := (nPer - 2) / 2
	body := nPoints
	if m.Cap0 {
		m.Vertices = append(m.Vertices, m.Vertices[:nPer]...)
		nPoints += nPer
		for k := capQuads - 1; k >= 0; k-- {
			m.addQuad(nPoints-nPer+k+2, nPoints-nPer+k+1, nPoints-nPer+(nPer-k)%nPer, nPoints-k-1)
		}
	}
	if m.Cap1 {
		m.Vertices = append(m.Vertices, m.Vertices[body-nPer:body]...)
		nPoints += nPer
		for k := capQuads - 1; k >= 0; k-- {
			m.addQuad(nPoints-k-1, nPoints-nPer+(nPer-k)%nPer, nPoints-nPer+k+1, nPoints-nPer+k+2)
		}
	}

	if !m.finite() {
		return nil, fmt.Errorf("%w: non-finite vertex", ErrDegenerateSegment)
	}
	m.computeNormals()
	return m, nil
}

// orientWing returns wing unless it is (nearly) parallel to the tangent, in
// which case the previous ring's wing, or any perpendicular, is projected
// onto the cross-section plane and given wing's length.
func orientWing(wing, tangent, prev math.Vec3) math.Vec3 {
	w2, t2 := wing.LengthSquared(), tangent.LengthSquared()
	if wing.Cross(tangent).LengthSquared() > parallelEps*w2*t2 {
		return wing
	}
	length := math32.Sqrt(w2)
	if length == 0 {
		length = 1
	}
	base := prev
	if base.LengthSquared() == 0 {
		base = tangent.Perpendicular()
	}
	perp := base.Sub(tangent.Scale(base.Dot(tangent) / t2)).Normalize()
	if perp.LengthSquared() == 0 {
		perp = tangent.Perpendicular()
	}
	return perp.Scale(length)
}
