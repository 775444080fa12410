package bio

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/biocartoon/pkg/math"
)

const sampleChains = `
chains:
  - id: A
    residues:
      - {name: ALA, lead: [0, 0, 0], structure: helix, mad: 200, color: "#ff0000"}
      - {name: ALA, lead: [3.8, 0, 0], structure: helix, wing: [3.8, 1, 0]}
      - {name: GLY, lead: [7.6, 0, 0], hidden: true}
  - id: B
    cyclic: true
    nucleic: true
    residues:
      - {lead: [0, 0, 0], structure: E, back_color: "#00ff0080"}
      - {lead: [0, 3.8, 0], structure: E}
      - {lead: [3.8, 3.8, 0], structure: E}
`

func TestDecode(t *testing.T) {
	chains, err := Decode(strings.NewReader(sampleChains))
	require.NoError(t, err)
	require.Len(t, chains, 2)

	a := chains[0]
	assert.Equal(t, "A", a.ChainID())
	assert.Equal(t, 3, a.ResidueCount())
	assert.Equal(t, math.Vec3{X: 3.8}, a.LeadAtomPosition(1))
	assert.Equal(t, int16(200), a.Mad(0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, a.Color(0))
	assert.Equal(t, StructureHelix, a.StructureType(1))
	assert.False(t, a.IsVisible(2))
	assert.True(t, a.IsVisible(0))
	require.NotNil(t, a.Residue(1).WingPoint)
	assert.Equal(t, math.Vec3{X: 3.8, Y: 1}, *a.Residue(1).WingPoint)

	b := chains[1]
	assert.True(t, b.IsCyclic())
	assert.True(t, b.IsNucleic())
	back, ok := b.BackColor(0)
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{G: 255, A: 128}, back)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "chains: []\n"},
		{"short point", "chains:\n  - residues:\n      - {lead: [1, 2]}\n      - {lead: [1, 2, 3]}\n"},
		{"unknown field", "chains:\n  - residues:\n      - {lead: [1, 2, 3], size: 4}\n"},
		{"bad structure", "chains:\n  - residues:\n      - {lead: [0, 0, 0], structure: blob}\n      - {lead: [1, 0, 0]}\n"},
		{"bad color", "chains:\n  - residues:\n      - {lead: [0, 0, 0], color: red}\n      - {lead: [1, 0, 0]}\n"},
		{"one residue", "chains:\n  - residues:\n      - {lead: [0, 0, 0]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.doc)); err == nil {
				t.Errorf("Decode(%s): expected error", tt.name)
			}
		})
	}
}

func TestEncodeDecodeFile(t *testing.T) {
	orig := Demo()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, orig))

	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	chains, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, chains, 1)
	got := chains[0]
	require.Equal(t, orig.ResidueCount(), got.ResidueCount())
	for i := 0; i < got.ResidueCount(); i++ {
		assert.Equal(t, orig.LeadAtomPosition(i), got.LeadAtomPosition(i))
		assert.Equal(t, orig.StructureRunID(i), got.StructureRunID(i))
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	chains, err := Open("")
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.Equal(t, Demo().ResidueCount(), chains[0].ResidueCount())

	_, err = Open(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1a2B3c")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 255}, c)

	_, err = ParseHexColor("#12345")
	assert.Error(t, err)
	_, err = ParseHexColor("zzzzzz")
	assert.Error(t, err)
}
