package cartoon

import (
	"github.com/Faultbox/biocartoon/pkg/math"
)

// Arrowhead proportions relative to the run's mad at the base residue.
const (
	arrowBaseScale = 1.2
	arrowMidScale  = 0.6
)

// ArrowheadInput describes the terminal segment of a helix or sheet run.
type ArrowheadInput struct {
	// Points and Wings are the control points and wing vectors at prev, i,
	// next, next2 and next3, as for SegmentInput. The arrow base sits at
	// Points[1] and its tip at Points[2].
	Points   [5]math.Vec3
	Wings    [5]math.Vec3
	HasWings bool
	// MadBegin is the run's width at the base residue.
	MadBegin      int
	AspectRatio   float32
	HermiteLevel  int
	CartoonsFancy bool
}

// BuildArrowhead builds an arrowhead that flares to 1.2x the run width at
// its base and tapers through 0.6x to a point at the tip. Round sections
// stay round; flattened ones get half the aspect ratio. The base is capped
// and the tip is left open.
func BuildArrowhead(in ArrowheadInput) (*Mesh, error) {
	return BuildSegmentMesh(in.segment())
}

func (in ArrowheadInput) segment() SegmentInput {
	aspect := in.AspectRatio
	if aspect != 1 {
		aspect /= 2
	}
	return SegmentInput{
		Points:        in.Points,
		Wings:         in.Wings,
		HasWings:      in.HasWings,
		MadBegin:      int(float32(in.MadBegin) * arrowBaseScale),
		MadMid:        int(float32(in.MadBegin) * arrowMidScale),
		MadEnd:        0,
		AspectRatio:   aspect,
		Tension:       proteinTension,
		HermiteLevel:  in.HermiteLevel,
		CartoonsFancy: in.CartoonsFancy,
		Cap0:          true,
	}
}
