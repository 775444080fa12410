package cartoon

import (
	"github.com/Faultbox/biocartoon/internal/bio"
	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/pkg/math"
)

// segmentKind is the shape drawn from residue i to its successor.
type segmentKind uint8

const (
	kindConic segmentKind = iota
	kindRibbon
	kindArrow
)

func (k segmentKind) String() string {
	switch k {
	case kindRibbon:
		return "ribbon"
	case kindArrow:
		return "arrow"
	}
	return "conic"
}

// Mesh size thresholds in pixels.
const (
	minMeshDiameter      = 8
	minHiResMeshDiameter = 3
)

// segment is the per-frame plan for drawing residue i.
type segment struct {
	i, prev, next, next2, next3 int
	kind                        segmentKind
	// typeOnly restricts width blending and caps to the same structure.
	typeOnly bool

	madBeg, madMid, madEnd    int
	diamBeg, diamMid, diamEnd float32
	cap0, cap1                bool
}

func (s *segment) key() segmentKey {
	return segmentKey{
		kind:   s.kind,
		madBeg: s.madBeg,
		madMid: s.madMid,
		madEnd: s.madEnd,
		cap0:   s.cap0,
		cap1:   s.cap1,
	}
}

// pass is the state of one Render call over one chain.
type pass struct {
	model    PolymerModel
	style    Style
	proj     *camera.Projector
	rast     Rasterizer
	s        *scratch
	count    int
	cyclic   bool
	tension  int
	controls []math.Vec3
	// last is the final segment whose endpoints differ. Lead point
	// control points end with a terminator repeating the last residue, so
	// an open chain's final residue then has no span of its own.
	last int
	// screens, mads, types and visible have count+1 entries; the last
	// repeats the final residue.
	screens []camera.ScreenPoint
	mads    []int
	types   []bio.StructureType
	visible []bool
	runs    []int
}

func newPass(model PolymerModel, style Style, proj *camera.Projector, rast Rasterizer, s *scratch) *pass {
	n := model.ResidueCount()
	p := &pass{
		model:   model,
		style:   style,
		proj:    proj,
		rast:    rast,
		s:       s,
		count:   n,
		cyclic:  model.IsCyclic(),
		tension: proteinTension,
	}
	if model.IsNucleic() {
		p.tension = nucleicTension
	}
	p.controls = model.ControlPoints(style.TraceAlpha, style.SheetSmoothing, false)
	p.last = n - 1
	if !p.cyclic && n > 1 && p.controls[n-1] == p.controls[n] {
		p.last = n - 2
	}
	s.screens = proj.Project(p.controls, s.screens[:0])
	p.screens = s.screens

	for i := 0; i < n; i++ {
		s.mads = append(s.mads, int(model.Mad(i)))
		t := model.StructureType(i)
		if t == bio.StructureTurn {
			t = bio.StructureNone
		}
		s.types = append(s.types, t)
		s.visible = append(s.visible, model.IsVisible(i))
	}
	s.mads = append(s.mads, s.mads[n-1])
	s.types = append(s.types, s.types[n-1])
	s.visible = append(s.visible, s.visible[n-1])
	p.mads, p.types, p.visible = s.mads, s.types, s.visible

	p.runs = make([]int, n)
	for i := range p.runs {
		p.runs[i] = model.StructureRunID(i)
	}
	return p
}

// neighbors returns the indices of the control points around segment i.
// Cyclic chains wrap; open chains clamp to [0, count], where count is the
// terminator.
func neighbors(i, count int, cyclic bool) (prev, next, next2, next3 int) {
	if cyclic {
		return (i - 1 + count) % count, (i + 1) % count, (i + 2) % count, (i + 3) % count
	}
	return max(i-1, 0), min(i+1, count), min(i+2, count), min(i+3, count)
}

// plan decides the kind, widths and caps of segment i.
func (p *pass) plan(i int) segment {
	seg := segment{i: i}
	seg.prev, seg.next, seg.next2, seg.next3 = neighbors(i, p.count, p.cyclic)

	switch p.style.Mode {
	case ModeCartoon:
		seg.typeOnly = true
		if p.types[i].IsRibbon() {
			seg.kind = kindRibbon
			if p.arrowheads(p.types[i]) && p.lastOfRun(i) {
				seg.kind = kindArrow
			}
		}
	case ModeRibbon:
		seg.kind = kindRibbon
	case ModeTrace:
		seg.kind = kindConic
	}

	p.setMads(&seg)
	p.setCaps(&seg)

	lead := p.proj.ProjectPoint(p.model.LeadAtomPosition(i))
	seg.diamBeg = p.proj.ScaleToScreen(p.screens[i].Z, float32(seg.madBeg))
	seg.diamMid = p.proj.ScaleToScreen(lead.Z, float32(seg.madMid))
	seg.diamEnd = p.proj.ScaleToScreen(p.screens[seg.next].Z, float32(seg.madEnd))
	return seg
}

func (p *pass) arrowheads(t bio.StructureType) bool {
	switch t {
	case bio.StructureHelix:
		return p.style.HelixArrowheads
	case bio.StructureSheet:
		return p.style.SheetArrowheads
	}
	return false
}

// lastOfRun reports whether residue i ends its structure run.
func (p *pass) lastOfRun(i int) bool {
	if !p.cyclic && i >= p.last {
		return true
	}
	return p.runs[(i+1)%p.count] != p.runs[i]
}

// setMads derives the begin, middle and end widths of a segment. With lead
// point control points the segment tapers from residue i to its successor.
// With midpoints each end is the average of the two residues meeting there.
// A zero width is treated as "same as this residue".
func (p *pass) setMads(seg *segment) {
	i := seg.i
	mad := p.mads[i]
	seg.madBeg, seg.madMid, seg.madEnd = mad, mad, mad
	sameNext := !seg.typeOnly || p.types[seg.next] == p.types[i]
	if !p.style.TraceAlpha {
		if sameNext {
			seg.madEnd = p.mads[seg.next]
			if seg.madEnd == 0 {
				seg.madEnd = seg.madBeg
			}
			seg.madMid = (seg.madBeg + seg.madEnd) >> 1
		}
		return
	}
	if !seg.typeOnly || p.types[seg.prev] == p.types[i] {
		seg.madBeg = (orMad(p.mads[seg.prev], mad) + mad) >> 1
	}
	if sameNext {
		seg.madEnd = (orMad(p.mads[seg.next], mad) + mad) >> 1
	}
}

func orMad(m, fallback int) int {
	if m == 0 {
		return fallback
	}
	return m
}

// setCaps decides whether each end of the segment is open to a neighbor.
func (p *pass) setCaps(seg *segment) {
	i := seg.i
	endOfChain := !p.cyclic && i >= p.last
	if p.style.CapPolicy == CapLegacy {
		seg.cap0 = i == seg.prev || !p.visible[seg.prev] ||
			seg.typeOnly && p.types[seg.prev] != p.types[i]
		seg.cap1 = seg.next == seg.next2 || seg.next2 == seg.next3 || endOfChain ||
			!p.visible[seg.next] || seg.typeOnly && p.types[seg.next] != p.types[i]
		return
	}
	seg.cap0 = i == seg.prev || !p.visible[seg.prev] ||
		seg.typeOnly && p.runs[seg.prev] != p.runs[i]
	seg.cap1 = endOfChain || !p.visible[seg.next] ||
		seg.typeOnly && p.runs[seg.next] != p.runs[i]
}

// useMesh reports whether the segment is large enough on screen to be
// worth a mesh.
func (p *pass) useMesh(seg *segment) bool {
	if p.style.Export {
		return true
	}
	if p.style.AspectRatio <= 0 {
		return false
	}
	for _, d := range [...]float32{seg.diamBeg, seg.diamMid, seg.diamEnd} {
		if p.style.HighResolution && d > minHiResMeshDiameter || d >= minMeshDiameter {
			return true
		}
	}
	return false
}

// inView reports whether either end of the segment is near the viewport.
func (p *pass) inView(seg *segment) bool {
	return p.proj.InDisplayRange(p.screens[seg.i]) || p.proj.InDisplayRange(p.screens[seg.next])
}

// segmentInput gathers the mesh inputs for seg.
func (p *pass) segmentInput(seg *segment) SegmentInput {
	idx := [5]int{seg.prev, seg.i, seg.next, seg.next2, seg.next3}
	in := SegmentInput{
		MadBegin:      seg.madBeg,
		MadMid:        seg.madMid,
		MadEnd:        seg.madEnd,
		AspectRatio:   1,
		Tension:       p.tension,
		HermiteLevel:  p.style.HermiteLevel,
		CartoonsFancy: p.style.CartoonsFancy,
		Cap0:          seg.cap0,
		Cap1:          seg.cap1,
	}
	for k, j := range idx {
		in.Points[k] = p.controls[j]
	}
	if seg.kind != kindConic && p.model.HasWingVectors() {
		in.HasWings = true
		in.AspectRatio = p.style.AspectRatio
		for k, j := range idx {
			in.Wings[k] = p.model.WingVector(j)
		}
	}
	return in
}

// arrowheadInput gathers the mesh inputs for an arrow segment.
func (p *pass) arrowheadInput(seg *segment) ArrowheadInput {
	in := p.segmentInput(seg)
	return ArrowheadInput{
		Points:        in.Points,
		Wings:         in.Wings,
		HasWings:      in.HasWings,
		MadBegin:      seg.madBeg,
		AspectRatio:   in.AspectRatio,
		HermiteLevel:  in.HermiteLevel,
		CartoonsFancy: in.CartoonsFancy,
	}
}
