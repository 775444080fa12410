package math

import "github.com/chewxy/math32"

// EllipsePoint returns center + cos(theta)*a + sin(theta)*b, the point at
// angle theta on the ellipse spanned by the semi-axes a and b.
func EllipsePoint(center, a, b Vec3, theta float32) Vec3 {
	s, c := math32.Sincos(theta)
	return center.Add(a.Scale(c)).Add(b.Scale(s))
}

// EllipseAxes returns the semi-axes of an elliptical cross-section around
// tangent: major lies along wing (keeping its length), minor is
// perpendicular to both with length |wing|/aspectRatio.
func EllipseAxes(tangent, wing Vec3, aspectRatio float32) (major, minor Vec3) {
	minor = tangent.Cross(wing).Normalize().Scale(wing.Length() / aspectRatio)
	return wing, minor
}

// TriangleArea returns the area of triangle abc.
func TriangleArea(a, b, c Vec3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Length() / 2
}
