// Package bio holds the polymer data the cartoon renderer consumes: residues
// with lead-atom positions, secondary structure runs, widths and colors.
package bio

import (
	"fmt"
	"image/color"
	"strings"
)

// StructureType is a residue's secondary-structure classification.
type StructureType uint8

const (
	StructureNone StructureType = iota
	StructureHelix
	StructureSheet
	StructureTurn
)

var structureNames = map[StructureType]string{
	StructureNone:  "none",
	StructureHelix: "helix",
	StructureSheet: "sheet",
	StructureTurn:  "turn",
}

// String returns the lower-case name used in chain files.
func (s StructureType) String() string {
	if n, ok := structureNames[s]; ok {
		return n
	}
	return fmt.Sprintf("StructureType(%d)", s)
}

// IsRibbon reports whether the structure is drawn as a ribbon in cartoon mode.
func (s StructureType) IsRibbon() bool {
	return s == StructureHelix || s == StructureSheet
}

// ParseStructureType parses a structure name. Common PDB-style aliases are
// accepted ("H", "E", "strand", "coil").
func ParseStructureType(s string) (StructureType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "coil", "c", "-":
		return StructureNone, nil
	case "helix", "h", "alpha":
		return StructureHelix, nil
	case "sheet", "strand", "e", "beta":
		return StructureSheet, nil
	case "turn", "t":
		return StructureTurn, nil
	}
	return StructureNone, fmt.Errorf("unknown structure type %q", s)
}

// Default widths in mad units (thousandths of an angstrom of diameter).
const (
	DefaultRibbonMad int16 = 3000
	DefaultCoilMad   int16 = 500
)

// DefaultMad returns the cartoon width for a structure type.
func DefaultMad(s StructureType) int16 {
	if s.IsRibbon() {
		return DefaultRibbonMad
	}
	return DefaultCoilMad
}

// DefaultColor returns the conventional structure color.
func DefaultColor(s StructureType) color.RGBA {
	switch s {
	case StructureHelix:
		return color.RGBA{R: 255, G: 0, B: 128, A: 255}
	case StructureSheet:
		return color.RGBA{R: 255, G: 200, B: 0, A: 255}
	case StructureTurn:
		return color.RGBA{R: 96, G: 128, B: 255, A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}
