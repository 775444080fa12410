package cartoon

import (
	"github.com/Faultbox/biocartoon/pkg/math"
)

// CrossSection is the ring shape used to extrude a segment.
type CrossSection uint8

const (
	// SectionTube is a round tube that ignores the wing vectors.
	SectionTube CrossSection = iota
	// SectionFlat is a flat strip along the wing with no thickness.
	SectionFlat
	// SectionElliptical is an ellipse with the wing as its major axis.
	SectionElliptical
	// SectionNonElliptical approximates the ellipse from rotated wing offsets.
	SectionNonElliptical
)

// String returns the lower-case name of the section.
func (c CrossSection) String() string {
	switch c {
	case SectionTube:
		return "tube"
	case SectionFlat:
		return "flat"
	case SectionElliptical:
		return "elliptical"
	}
	return "nonelliptical"
}

// Mesh is the tessellated geometry of one segment.
//
// Vertices are laid out ring by ring: Rings*SidesPerRing body vertices,
// then SidesPerRing duplicates of the first ring if Cap0, then
// SidesPerRing duplicates of the last ring if Cap1. Cap vertices are
// distinct so their normals do not bleed into the tube.
type Mesh struct {
	Vertices     []math.Vec3
	Normals      []math.Vec3
	Quads        [][4]int32
	Radii        []float32 // cross-section scale per ring
	SidesPerRing int
	Rings        int
	Cap0, Cap1   bool
	Section      CrossSection
}

// BodyVertexCount returns the number of non-cap vertices.
func (m *Mesh) BodyVertexCount() int {
	return m.Rings * m.SidesPerRing
}

// Ring returns the vertex indices [start, end) of body ring r.
func (m *Mesh) Ring(r int) (start, end int) {
	start = r * m.SidesPerRing
	return start, start + m.SidesPerRing
}

// Triangles splits every quad (a, b, c, d) into (a, b, c) and (a, c, d).
func (m *Mesh) Triangles() [][3]int32 {
	tris := make([][3]int32, 0, 2*len(m.Quads))
	for _, q := range m.Quads {
		tris = append(tris, [3]int32{q[0], q[1], q[2]}, [3]int32{q[0], q[2], q[3]})
	}
	return tris
}

func (m *Mesh) addQuad(a, b, c, d int) {
	m.Quads = append(m.Quads, [4]int32{int32(a), int32(b), int32(c), int32(d)})
}

// computeNormals sets each vertex normal to the normalized, area weighted
// sum of the normals of the triangles touching it.
func (m *Mesh) computeNormals() {
	m.Normals = make([]math.Vec3, len(m.Vertices))
	for _, t := range m.Triangles() {
		a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, i := range t {
			m.Normals[i] = m.Normals[i].Add(n)
		}
	}
	for i, n := range m.Normals {
		m.Normals[i] = n.Normalize()
	}
}

// finite reports whether every vertex is a finite point.
func (m *Mesh) finite() bool {
	for _, v := range m.Vertices {
		if !v.IsFinite() {
			return false
		}
	}
	return true
}
