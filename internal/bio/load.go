package bio

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/biocartoon/pkg/math"
)

// File is the YAML document describing one or more chains.
type File struct {
	Chains []ChainSpec `yaml:"chains"`
}

// ChainSpec is the YAML form of a chain.
type ChainSpec struct {
	ID            string        `yaml:"id"`
	Cyclic        bool          `yaml:"cyclic"`
	Nucleic       bool          `yaml:"nucleic"`
	TwistedSheets bool          `yaml:"twisted_sheets"`
	Residues      []ResidueSpec `yaml:"residues"`
}

// ResidueSpec is the YAML form of a residue.
type ResidueSpec struct {
	Name      string   `yaml:"name"`
	Lead      Point    `yaml:"lead"`
	Wing      *Point   `yaml:"wing,omitempty"`
	Structure string   `yaml:"structure"`
	Run       int      `yaml:"run,omitempty"`
	Mad       int16    `yaml:"mad,omitempty"`
	Color     HexColor `yaml:"color,omitempty"`
	BackColor HexColor `yaml:"back_color,omitempty"`
	Hidden    bool     `yaml:"hidden,omitempty"`
}

// Point is a position written as a three-element YAML sequence.
type Point [3]float32

// Vec3 converts the point.
func (p Point) Vec3() math.Vec3 { return math.Vec3{X: p[0], Y: p[1], Z: p[2]} }

// UnmarshalYAML requires exactly three coordinates.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xyz []float32
	if err := value.Decode(&xyz); err != nil {
		return err
	}
	if len(xyz) != 3 {
		return fmt.Errorf("line %d: point needs 3 coordinates, got %d", value.Line, len(xyz))
	}
	copy(p[:], xyz)
	return nil
}

// HexColor is an RGBA color written as "#rrggbb" or "#rrggbbaa".
type HexColor color.RGBA

// UnmarshalYAML parses a hex color string.
func (h *HexColor) UnmarshalYAML(value *yaml.Node) error {
	c, err := ParseHexColor(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*h = HexColor(c)
	return nil
}

// MarshalYAML writes the color back in hex form.
func (h HexColor) MarshalYAML() (interface{}, error) {
	if h.A == 0 {
		return nil, nil
	}
	return fmt.Sprintf("#%02x%02x%02x", h.R, h.G, h.B), nil
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" (the '#' is optional).
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(s) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Decode reads chains from a YAML stream.
func Decode(r io.Reader) ([]*Chain, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode chains: %w", err)
	}
	if len(f.Chains) == 0 {
		return nil, fmt.Errorf("decode chains: no chains")
	}
	chains := make([]*Chain, 0, len(f.Chains))
	for i, spec := range f.Chains {
		c, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("chain %d: %w", i, err)
		}
		chains = append(chains, c)
	}
	return chains, nil
}

// LoadFile reads chains from a YAML file.
func LoadFile(path string) ([]*Chain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Open reads chains from path, or returns the demo chain when path is
// empty.
func Open(path string) ([]*Chain, error) {
	if path == "" {
		return []*Chain{Demo()}, nil
	}
	return LoadFile(path)
}

// Build converts the spec into a Chain.
func (s ChainSpec) Build() (*Chain, error) {
	residues := make([]Residue, len(s.Residues))
	for i, rs := range s.Residues {
		st, err := ParseStructureType(rs.Structure)
		if err != nil {
			return nil, fmt.Errorf("residue %d: %w", i, err)
		}
		r := Residue{
			Name:      rs.Name,
			Lead:      rs.Lead.Vec3(),
			Structure: st,
			Run:       rs.Run,
			Mad:       rs.Mad,
			Color:     color.RGBA(rs.Color),
			BackColor: color.RGBA(rs.BackColor),
			Hidden:    rs.Hidden,
		}
		if rs.Wing != nil {
			w := rs.Wing.Vec3()
			r.WingPoint = &w
		}
		residues[i] = r
	}
	c, err := NewChain(s.ID, residues)
	if err != nil {
		return nil, err
	}
	c.Cyclic = s.Cyclic
	c.Nucleic = s.Nucleic
	c.TwistedSheets = s.TwistedSheets
	return c, nil
}

// Spec converts a chain back into its YAML form.
func (c *Chain) Spec() ChainSpec {
	s := ChainSpec{
		ID:            c.ID,
		Cyclic:        c.Cyclic,
		Nucleic:       c.Nucleic,
		TwistedSheets: c.TwistedSheets,
		Residues:      make([]ResidueSpec, len(c.residues)),
	}
	for i, r := range c.residues {
		rs := ResidueSpec{
			Name:      r.Name,
			Lead:      Point{r.Lead.X, r.Lead.Y, r.Lead.Z},
			Structure: r.Structure.String(),
			Run:       r.Run,
			Mad:       r.Mad,
			Color:     HexColor(r.Color),
			BackColor: HexColor(r.BackColor),
			Hidden:    r.Hidden,
		}
		if r.WingPoint != nil {
			w := Point{r.WingPoint.X, r.WingPoint.Y, r.WingPoint.Z}
			rs.Wing = &w
		}
		s.Residues[i] = rs
	}
	return s
}

// Encode writes chains as a YAML document.
func Encode(w io.Writer, chains ...*Chain) error {
	f := File{Chains: make([]ChainSpec, len(chains))}
	for i, c := range chains {
		f.Chains[i] = c.Spec()
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return err
	}
	return enc.Close()
}
