package bio

import (
	gomath "math"

	"github.com/Faultbox/biocartoon/pkg/math"
)

// Ideal backbone geometry, in angstroms.
const (
	helixRadius   = 2.3
	helixRise     = 1.5
	helixTurn     = 100 * gomath.Pi / 180
	strandRise    = 3.3
	strandPleat   = 0.9
	coilAmplitude = 2.0
)

// HelixResidues returns n residues on an ideal alpha helix whose axis runs
// from start along axis.
func HelixResidues(n int, start, axis math.Vec3) []Residue {
	a := axis.Normalize()
	u := a.Perpendicular()
	v := a.Cross(u)
	res := make([]Residue, n)
	for i := range res {
		theta := float64(i) * helixTurn
		radial := u.Scale(float32(gomath.Cos(theta))).Add(v.Scale(float32(gomath.Sin(theta))))
		res[i] = Residue{
			Name:      "ALA",
			Lead:      start.Add(a.Scale(helixRise * float32(i))).Add(radial.Scale(helixRadius)),
			Structure: StructureHelix,
		}
	}
	return res
}

// StrandResidues returns n residues of a pleated beta strand running from
// start along dir.
func StrandResidues(n int, start, dir math.Vec3) []Residue {
	d := dir.Normalize()
	pleat := d.Perpendicular()
	res := make([]Residue, n)
	for i := range res {
		side := float32(strandPleat)
		if i%2 == 1 {
			side = -side
		}
		res[i] = Residue{
			Name:      "VAL",
			Lead:      start.Add(d.Scale(strandRise * float32(i))).Add(pleat.Scale(side)),
			Structure: StructureSheet,
		}
	}
	return res
}

// CoilResidues returns n residues strictly between from and to, bowed
// sideways so consecutive coils do not look like straight sticks.
func CoilResidues(n int, from, to math.Vec3) []Residue {
	span := to.Sub(from)
	bow := span.Perpendicular()
	res := make([]Residue, n)
	for i := range res {
		t := float32(i+1) / float32(n+1)
		lift := coilAmplitude * float32(gomath.Sin(gomath.Pi*float64(t)))
		res[i] = Residue{
			Name:      "GLY",
			Lead:      from.Add(span.Scale(t)).Add(bow.Scale(lift)),
			Structure: StructureNone,
		}
	}
	return res
}

// NewHelix builds a single-helix chain with a constant width. A mad of zero
// keeps the structure default.
func NewHelix(id string, n int, mad int16) (*Chain, error) {
	res := HelixResidues(n, math.Vec3{}, math.Vec3{X: 1})
	for i := range res {
		res[i].Mad = mad
	}
	return NewChain(id, res)
}

// Demo builds a small helix-coil-hairpin chain for previews and tests.
func Demo() *Chain {
	var res []Residue
	helix := HelixResidues(12, math.Vec3{}, math.Vec3{X: 1})
	res = append(res, helix...)

	s1Start := math.Vec3{X: 24, Y: 10}
	res = append(res, CoilResidues(4, helix[len(helix)-1].Lead, s1Start)...)
	s1 := StrandResidues(7, s1Start, math.Vec3{X: -1})
	res = append(res, s1...)

	s2Start := math.Vec3{X: 4, Y: 15}
	res = append(res, CoilResidues(2, s1[len(s1)-1].Lead, s2Start)...)
	res = append(res, StrandResidues(7, s2Start, math.Vec3{X: 1})...)

	c, err := NewChain("A", res)
	if err != nil {
		// Fixed geometry; only reachable if the builders above break.
		panic(err)
	}
	return c
}
