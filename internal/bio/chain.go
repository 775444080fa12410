package bio

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/Faultbox/biocartoon/pkg/math"
)

// ErrTooFewResidues is returned for chains that cannot form a single segment.
var ErrTooFewResidues = errors.New("chain needs at least 2 residues")

// Residue is one polymer unit.
type Residue struct {
	Name string
	// Lead is the lead-atom position (CA for proteins, P for nucleic acids).
	Lead math.Vec3
	// WingPoint is an optional orienting atom (the carbonyl O for proteins).
	// Wing vectors are derived from it when every residue carries one.
	WingPoint *math.Vec3
	Structure StructureType
	// Run is an optional explicit structure run number. Residues with equal
	// structure and run belong to the same run; zero lets the chain decide
	// from structure changes alone.
	Run       int
	Mad       int16
	Color     color.RGBA
	BackColor color.RGBA
	Hidden    bool
}

// Chain is an in-memory polymer. Derived data (lead midpoints, wing
// vectors, smoothed control points) is computed lazily and cached until
// Invalidate is called.
type Chain struct {
	ID            string
	Cyclic        bool
	Nucleic       bool
	TwistedSheets bool

	residues []Residue
	runs     []int

	derived       bool
	hasWingPoints bool
	leadPoints    []math.Vec3
	midpoints     []math.Vec3
	wings         []math.Vec3
	reversed      []bool

	control      []math.Vec3
	controlValid bool
	smoothing    float32
}

// NewChain validates residues and assigns structure runs.
func NewChain(id string, residues []Residue) (*Chain, error) {
	if len(residues) < 2 {
		return nil, fmt.Errorf("chain %q: %w", id, ErrTooFewResidues)
	}
	for i := range residues {
		if !residues[i].Lead.IsFinite() {
			return nil, fmt.Errorf("chain %q residue %d: non-finite lead position", id, i)
		}
	}
	c := &Chain{
		ID:       id,
		residues: append([]Residue(nil), residues...),
	}
	c.assignRuns()
	return c, nil
}

func (c *Chain) assignRuns() {
	c.runs = make([]int, len(c.residues))
	run := 0
	for i := range c.residues {
		if i > 0 {
			prev, cur := &c.residues[i-1], &c.residues[i]
			if prev.Structure != cur.Structure || prev.Run != cur.Run {
				run++
			}
		}
		c.runs[i] = run
	}
}

// Invalidate drops all derived geometry; call after moving residues.
func (c *Chain) Invalidate() {
	c.derived = false
	c.controlValid = false
}

// Residue returns residue i.
func (c *Chain) Residue(i int) Residue { return c.residues[i] }

// SetLead moves a residue's lead atom and invalidates derived geometry.
func (c *Chain) SetLead(i int, p math.Vec3) {
	c.residues[i].Lead = p
	c.Invalidate()
}

// SetHidden changes the visibility of residue i.
func (c *Chain) SetHidden(i int, hidden bool) { c.residues[i].Hidden = hidden }

func (c *Chain) ChainID() string { return c.ID }
func (c *Chain) ResidueCount() int { return len(c.residues) }
func (c *Chain) IsCyclic() bool { return c.Cyclic }
func (c *Chain) IsNucleic() bool { return c.Nucleic }
func (c *Chain) IsVisible(i int) bool { return !c.residues[i].Hidden }
func (c *Chain) StructureRunID(i int) int { return c.runs[i] }

func (c *Chain) LeadAtomPosition(i int) math.Vec3 { return c.residues[i].Lead }

func (c *Chain) StructureType(i int) StructureType { return c.residues[i].Structure }

// Mad returns the residue width, falling back to the structure default.
func (c *Chain) Mad(i int) int16 {
	if m := c.residues[i].Mad; m > 0 {
		return m
	}
	return DefaultMad(c.residues[i].Structure)
}

// Color returns the residue color, falling back to the structure color.
func (c *Chain) Color(i int) color.RGBA {
	if col := c.residues[i].Color; col.A != 0 {
		return col
	}
	return DefaultColor(c.residues[i].Structure)
}

// BackColor returns the color used for the reverse face of a flipped ribbon.
func (c *Chain) BackColor(i int) (color.RGBA, bool) {
	col := c.residues[i].BackColor
	return col, col.A != 0
}

// WingVector returns the orientation vector at control point i, 0..count.
func (c *Chain) WingVector(i int) math.Vec3 {
	c.derive()
	return c.wings[i]
}

// HasWingVectors reports whether wing vectors could be derived.
func (c *Chain) HasWingVectors() bool {
	c.derive()
	return len(c.wings) > 0
}

// Reversed reports whether the wing at residue i was flipped to stay within
// 90 degrees of its predecessor.
func (c *Chain) Reversed(i int) bool {
	c.derive()
	return c.reversed[i]
}
