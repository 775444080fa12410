package math

import "errors"

// ErrDegenerateCurve is returned when the two points a Hermite segment runs
// between coincide, which leaves no tangent to build cross-sections from.
var ErrDegenerateCurve = errors.New("degenerate hermite segment")

// hermiteSegment holds the endpoints and scaled cardinal tangents of one
// segment. Computation is done in float64 so float32 inputs do not drift.
type hermiteSegment struct {
	x1, y1, z1    float64
	x2, y2, z2    float64
	xT1, yT1, zT1 float64
	xT2, yT2, zT2 float64
}

// newHermiteSegment prepares the curve from p1 to p2 with tangents
// (p2-p0)*tension/8 and (p3-p1)*tension/8.
func newHermiteSegment(tension int, p0, p1, p2, p3 Vec3) hermiteSegment {
	t := float64(tension) / 8
	return hermiteSegment{
		x1: float64(p1.X), y1: float64(p1.Y), z1: float64(p1.Z),
		x2: float64(p2.X), y2: float64(p2.Y), z2: float64(p2.Z),
		xT1: (float64(p2.X) - float64(p0.X)) * t,
		yT1: (float64(p2.Y) - float64(p0.Y)) * t,
		zT1: (float64(p2.Z) - float64(p0.Z)) * t,
		xT2: (float64(p3.X) - float64(p1.X)) * t,
		yT2: (float64(p3.Y) - float64(p1.Y)) * t,
		zT2: (float64(p3.Z) - float64(p1.Z)) * t,
	}
}

func (h *hermiteSegment) at(s float64) Vec3 {
	s2 := s * s
	s3 := s2 * s
	h1 := 2*s3 - 3*s2 + 1
	h2 := -2*s3 + 3*s2
	h3 := s3 - 2*s2 + s
	h4 := s3 - s2
	return Vec3{
		float32(h1*h.x1 + h2*h.x2 + h3*h.xT1 + h4*h.xT2),
		float32(h1*h.y1 + h2*h.y2 + h3*h.yT1 + h4*h.yT2),
		float32(h1*h.z1 + h2*h.z2 + h3*h.zT1 + h4*h.zT2),
	}
}

// Hermite evaluates the cardinal Hermite curve from p1 (s=0) to p2 (s=1).
func Hermite(tension int, p0, p1, p2, p3 Vec3, s float32) Vec3 {
	h := newHermiteSegment(tension, p0, p1, p2, p3)
	return h.at(float64(s))
}

// HermiteSamples appends n evenly spaced samples of the curve from p1 to p2
// to out. With includeEndpoints the first and last samples are p1 and p2;
// otherwise the samples are strictly interior.
func HermiteSamples(tension int, p0, p1, p2, p3 Vec3, n int, includeEndpoints bool, out []Vec3) ([]Vec3, error) {
	if n < 1 || (includeEndpoints && n < 2) {
		return out, errors.New("hermite: too few samples")
	}
	if p1 == p2 {
		return out, ErrDegenerateCurve
	}
	h := newHermiteSegment(tension, p0, p1, p2, p3)
	for i := 0; i < n; i++ {
		var s float64
		if includeEndpoints {
			s = float64(i) / float64(n-1)
		} else {
			s = float64(i+1) / float64(n+1)
		}
		out = append(out, h.at(s))
	}
	return out, nil
}

// HermiteList appends n+1 points to out: n samples spanning p1..p2 inclusive,
// then one look-ahead sample on the following segment p2..p3, one step past
// p2. The extra point gives the last ring a forward tangent.
//
// When isVector is true the inputs are treated as a vector field and the
// coincidence check is skipped; wing vectors may legitimately repeat.
func HermiteList(tension int, p0, p1, p2, p3, p4 Vec3, n int, isVector bool, out []Vec3) ([]Vec3, error) {
	if n < 2 {
		return out, errors.New("hermite: too few samples")
	}
	if !isVector && p1 == p2 {
		return out, ErrDegenerateCurve
	}
	step := 1 / float64(n-1)
	h := newHermiteSegment(tension, p0, p1, p2, p3)
	for i := 0; i < n; i++ {
		out = append(out, h.at(float64(i)*step))
	}
	next := newHermiteSegment(tension, p1, p2, p3, p4)
	out = append(out, next.at(step))
	return out, nil
}
