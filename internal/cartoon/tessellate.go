package cartoon

import (
	"sync"

	"github.com/Faultbox/biocartoon/internal/bio"
	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/pkg/math"
)

// Spline tensions. Radius profiles always use radiusTension.
const (
	proteinTension = 7
	nucleicTension = 4
	radiusTension  = 4
)

// scratch holds the per-pass working buffers. A scratch is owned by one
// render pass at a time and returned to the pool when the pass ends.
type scratch struct {
	control []math.Vec3
	wings   []math.Vec3
	radius  []math.Vec3
	curve   []math.Vec3
	curve2  []math.Vec3
	screens []camera.ScreenPoint
	top     []camera.ScreenPoint
	bottom  []camera.ScreenPoint
	verts   []camera.ScreenVertex
	mads    []int
	types   []bio.StructureType
	visible []bool
}

// Tessellator samples Hermite curves through control points. It owns a
// pool of scratch buffers so concurrent render passes never share one.
type Tessellator struct {
	pool sync.Pool
}

// NewTessellator creates a tessellator with an empty scratch pool.
func NewTessellator() *Tessellator {
	t := &Tessellator{}
	t.pool.New = func() any { return new(scratch) }
	return t
}

func (t *Tessellator) acquire() *scratch {
	return t.pool.Get().(*scratch)
}

// release truncates the buffers, keeping their capacity, and returns s to
// the pool. It must be called exactly once per acquire.
func (t *Tessellator) release(s *scratch) {
	s.control = s.control[:0]
	s.wings = s.wings[:0]
	s.radius = s.radius[:0]
	s.curve = s.curve[:0]
	s.curve2 = s.curve2[:0]
	s.screens = s.screens[:0]
	s.top = s.top[:0]
	s.bottom = s.bottom[:0]
	s.verts = s.verts[:0]
	s.mads = s.mads[:0]
	s.types = s.types[:0]
	s.visible = s.visible[:0]
	t.pool.Put(s)
}

// Tessellate returns n points on the cardinal Hermite curve from p1 to p2.
// With includeEndpoints the first and last are p1 and p2 themselves. It
// fails with math.ErrDegenerateCurve when p1 == p2.
func (t *Tessellator) Tessellate(p0, p1, p2, p3 math.Vec3, tension, n int, includeEndpoints bool) ([]math.Vec3, error) {
	s := t.acquire()
	defer t.release(s)
	var err error
	s.curve, err = math.HermiteSamples(tension, p0, p1, p2, p3, n, includeEndpoints, s.curve[:0])
	if err != nil {
		return nil, err
	}
	return append([]math.Vec3(nil), s.curve...), nil
}

// samplesPerSegment is the ring count of a segment mesh at a hermite level.
func samplesPerSegment(level int) int {
	return (level+1)*2 + 1
}

// sidesPerRing is the cross-section polygon size at a hermite level.
func sidesPerRing(level int, flat bool) int {
	if flat {
		return 4
	}
	return max((level+1)*4-2, 6)
}

var defaultTessellator = NewTessellator()
