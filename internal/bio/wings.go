package bio

import (
	gomath "math"

	"github.com/Faultbox/biocartoon/pkg/math"
)

var unitX = math.Vec3{X: 1}

// derive computes lead points, lead midpoints and wing vectors. All three
// slices hold count+1 entries; the last lead point and midpoint repeat the
// final residue so the spline has a terminator.
//
// With wing points, wing_i = normalize(A x (A x B)) where A runs from the
// previous lead to this one and B from the previous wing point to the
// previous lead. Without them the wing is derived from the lead/midpoint
// zigzag. A wing more than 90 degrees from its predecessor is flipped; with
// explicit wing points the residue is marked reversed unless sheets are
// twisted.
func (c *Chain) derive() {
	if c.derived {
		return
	}
	n := len(c.residues)
	c.leadPoints = make([]math.Vec3, n+1)
	c.midpoints = make([]math.Vec3, n+1)
	c.wings = make([]math.Vec3, n+1)
	c.reversed = make([]bool, n)

	c.hasWingPoints = true
	for i := 0; i < n-1; i++ {
		if c.residues[i].WingPoint == nil {
			c.hasWingPoints = false
			break
		}
	}

	c.leadPoints[0] = c.residues[0].Lead
	c.midpoints[0] = c.residues[0].Lead
	var prevD math.Vec3
	havePrev := false
	for i := 1; i < n; i++ {
		prev := c.residues[i-1].Lead
		lead := c.residues[i].Lead
		c.leadPoints[i] = lead
		c.midpoints[i] = lead.Midpoint(prev)
		if !c.hasWingPoints {
			continue
		}
		a := lead.Sub(prev)
		b := prev.Sub(*c.residues[i-1].WingPoint)
		d := a.Cross(a.Cross(b)).Normalize()
		if d.LengthSquared() == 0 {
			d = fallbackWing(havePrev, prevD, a)
		}
		if !c.TwistedSheets && havePrev && prevD.Angle(d) > gomath.Pi/2 {
			c.reversed[i] = true
			d = d.Negate()
		}
		c.wings[i] = d
		prevD, havePrev = d, true
	}
	last := c.residues[n-1].Lead
	c.leadPoints[n] = last
	c.midpoints[n] = last

	if !c.hasWingPoints {
		if n < 3 {
			c.wings[1] = unitX
		} else {
			var prevC math.Vec3
			havePrevC := false
			for i := 1; i < n; i++ {
				a := c.midpoints[i].Sub(c.leadPoints[i])
				b := c.leadPoints[i].Sub(c.midpoints[i+1])
				v := a.Cross(b).Normalize()
				if v.LengthSquared() == 0 {
					v = fallbackWing(havePrevC, prevC, c.leadPoints[i].Sub(c.leadPoints[i-1]))
				} else if havePrevC && prevC.Angle(v) > gomath.Pi/2 {
					v = v.Negate()
				}
				c.wings[i] = v
				prevC, havePrevC = v, true
			}
		}
	}
	c.wings[0] = c.wings[1]
	c.wings[n] = c.wings[n-1]
	c.derived = true
}

// fallbackWing keeps the previous wing when one exists, otherwise picks a
// unit vector perpendicular to the backbone direction.
func fallbackWing(havePrev bool, prev, dir math.Vec3) math.Vec3 {
	if havePrev {
		return prev
	}
	return dir.Perpendicular()
}
