// Package lighting describes the directional headlight used to shade
// cartoon geometry.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/biocartoon/pkg/math"
)

// Light is a directional light fixed to the camera. Direction is in view
// space and points from the surface toward the light.
type Light struct {
	Direction math.Vec3
	Ambient   float32
}

// Default returns a light above and to the left of the viewer.
func Default() Light {
	return Light{Direction: math.V3(-0.3, 0.4, 1).Normalize(), Ambient: 0.3}
}

// FromAngles builds a light from degrees: azimuth turns about the view Y
// axis from straight ahead (positive to the right), elevation lifts toward
// the top of the screen.
func FromAngles(azimuth, elevation, ambient float32) Light {
	az := azimuth * math32.Pi / 180
	el := elevation * math32.Pi / 180
	return Light{
		Direction: math.V3(math32.Cos(el)*math32.Sin(az), math32.Sin(el), math32.Cos(el)*math32.Cos(az)),
		Ambient:   min(max(ambient, 0), 1),
	}
}

// Intensity is the brightness of a surface with normal n. Both faces are
// lit alike.
func (l Light) Intensity(n math.Vec3) float32 {
	d := math32.Abs(n.Normalize().Dot(l.Direction))
	return l.Ambient + (1-l.Ambient)*d
}
