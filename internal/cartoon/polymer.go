// Package cartoon turns polymer backbones into cartoon, ribbon and trace
// geometry. Segment meshes are built from cardinal Hermite splines through
// the control points, cached until the style changes, and reprojected every
// frame onto a Rasterizer.
package cartoon

import (
	"image/color"

	"github.com/Faultbox/biocartoon/internal/bio"
	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/pkg/math"
)

// PolymerModel is the chain data the renderer reads. Per-residue methods
// take 0 <= i < ResidueCount(); WingVector also accepts ResidueCount().
// Implementations must be comparable (pointer types) since meshes are
// cached per model.
type PolymerModel interface {
	ChainID() string
	ResidueCount() int
	LeadAtomPosition(i int) math.Vec3
	WingVector(i int) math.Vec3
	HasWingVectors() bool
	StructureRunID(i int) int
	StructureType(i int) bio.StructureType
	IsCyclic() bool
	IsNucleic() bool
	IsVisible(i int) bool
	Reversed(i int) bool
	Mad(i int) int16
	Color(i int) color.RGBA
	BackColor(i int) (color.RGBA, bool)
	// ControlPoints returns ResidueCount()+1 spline control points.
	ControlPoints(traceAlpha bool, sheetSmoothing float32, force bool) []math.Vec3
}

// Rasterizer receives already projected primitives. Diameters are in pixels.
type Rasterizer interface {
	SetColor(c color.RGBA)
	FillTriangle(a, b, c camera.ScreenVertex)
	FillQuad(a, b, c, d camera.ScreenVertex)
	FillCylinder(a, b camera.ScreenPoint, diameter float32, roundCaps bool)
	FillCone(base, tip camera.ScreenPoint, diameter float32)
	DrawLine(a, b camera.ScreenPoint)
}

var _ PolymerModel = (*bio.Chain)(nil)

// Bounds returns the box around the lead atoms of every residue of models.
func Bounds(models ...PolymerModel) (lo, hi math.Vec3) {
	var pts []math.Vec3
	for _, m := range models {
		for i := 0; i < m.ResidueCount(); i++ {
			pts = append(pts, m.LeadAtomPosition(i))
		}
	}
	return camera.Bounds(pts)
}
