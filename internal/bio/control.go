package bio

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Faultbox/biocartoon/pkg/math"
)

// ControlPoints returns the spline centerline, count+1 points with the last
// one a terminator repeating the final residue.
//
// With traceAlpha the points are lead-atom midpoints, shifting the curve half
// a residue. Otherwise they are the lead atoms themselves, with sheet
// residues pulled a fraction sheetSmoothing of the way onto their sheet's
// least-squares plane. force discards the cached smoothed points.
//
// The returned slice is owned by the chain and must not be modified.
func (c *Chain) ControlPoints(traceAlpha bool, sheetSmoothing float32, force bool) []math.Vec3 {
	c.derive()
	if force {
		c.controlValid = false
	}
	switch {
	case traceAlpha:
		return c.midpoints
	case sheetSmoothing == 0:
		return c.leadPoints
	}
	if c.controlValid && c.smoothing == sheetSmoothing {
		return c.control
	}
	if c.control == nil {
		c.control = make([]math.Vec3, len(c.leadPoints))
	}
	copy(c.control, c.leadPoints)
	for _, run := range c.sheetRuns() {
		c.flattenRun(run, sheetSmoothing)
	}
	n := len(c.residues)
	c.control[n] = c.control[n-1]
	c.smoothing = sheetSmoothing
	c.controlValid = true
	return c.control
}

// sheetRuns returns [start, end) index ranges of sheet structure runs.
func (c *Chain) sheetRuns() [][2]int {
	var runs [][2]int
	start := -1
	for i := 0; i <= len(c.residues); i++ {
		in := i < len(c.residues) && c.residues[i].Structure == StructureSheet
		if start >= 0 && (!in || c.runs[i] != c.runs[start]) {
			runs = append(runs, [2]int{start, i})
			start = -1
		}
		if in && start < 0 {
			start = i
		}
	}
	return runs
}

// flattenRun fits a plane to the ribbon surface of residues [r0, r1) and
// moves each lead point toward it. The surface is sampled at the lead atoms
// and at both ribbon edges so the plane follows the sheet rather than the
// pleat of a single strand.
func (c *Chain) flattenRun(run [2]int, fraction float32) {
	var samples []math.Vec3
	for i := run[0]; i < run[1]; i++ {
		p := c.leadPoints[i]
		edge := c.wings[i].Scale(float32(c.Mad(i)) / 2000)
		samples = append(samples, p, p.Add(edge), p.Sub(edge))
	}
	normal, center, ok := leastSquaresPlane(samples)
	if !ok {
		return
	}
	for i := run[0]; i < run[1]; i++ {
		p := c.leadPoints[i]
		d := p.Sub(center).Dot(normal)
		c.control[i] = p.Sub(normal.Scale(d * fraction))
	}
}

// leastSquaresPlane returns the unit normal and centroid of the plane
// minimising the squared distances to points: the eigenvector of the
// covariance matrix with the smallest eigenvalue.
func leastSquaresPlane(points []math.Vec3) (normal, center math.Vec3, ok bool) {
	if len(points) < 3 {
		return normal, center, false
	}
	var cx, cy, cz float64
	for _, p := range points {
		cx += float64(p.X)
		cy += float64(p.Y)
		cz += float64(p.Z)
	}
	n := float64(len(points))
	cx, cy, cz = cx/n, cy/n, cz/n

	cov := mat.NewSymDense(3, nil)
	for _, p := range points {
		d := [3]float64{float64(p.X) - cx, float64(p.Y) - cy, float64(p.Z) - cz}
		for r := 0; r < 3; r++ {
			for col := r; col < 3; col++ {
				cov.SetSym(r, col, cov.At(r, col)+d[r]*d[col])
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return normal, center, false
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	// Values are ascending; column 0 belongs to the smallest.
	normal = math.Vec3{
		X: float32(vecs.At(0, 0)),
		Y: float32(vecs.At(1, 0)),
		Z: float32(vecs.At(2, 0)),
	}.Normalize()
	if normal.LengthSquared() == 0 {
		return normal, center, false
	}
	center = math.Vec3{X: float32(cx), Y: float32(cy), Z: float32(cz)}
	return normal, center, true
}
