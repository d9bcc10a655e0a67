// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chem

import (
	"fmt"
	"strings"
	"testing"
)

// testMolblock builds a V2000 molblock with properly padded fixed columns.
// Atoms are element symbols; bonds are 1-based "from to order" triples.
func testMolblock(name string, atoms []string, bonds [][3]int, props ...string) string {
	var sb strings.Builder
	sb.WriteString(name + "\n")
	sb.WriteString("  molcsv\n")
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(atoms), len(bonds))
	for _, el := range atoms {
		fmt.Fprintf(&sb, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n", 0.0, 0.0, 0.0, el)
	}
	for _, b := range bonds {
		fmt.Fprintf(&sb, "%3d%3d%3d  0\n", b[0], b[1], b[2])
	}
	for _, p := range props {
		sb.WriteString(p + "\n")
	}
	sb.WriteString("M  END\n")
	return sb.String()
}

func TestParseMolblock(t *testing.T) {
	block := testMolblock("ethanol", []string{"C", "C", "O"}, [][3]int{{1, 2, 1}, {2, 3, 1}})

	m, err := ParseMolblock(block)
	if err != nil {
		t.Fatalf("ParseMolblock: %v", err)
	}
	if m.Name != "ethanol" {
		t.Errorf("Name = %q, want %q", m.Name, "ethanol")
	}
	if len(m.Atoms) != 3 || len(m.Bonds) != 2 {
		t.Fatalf("got %d atoms, %d bonds; want 3, 2", len(m.Atoms), len(m.Bonds))
	}
	if m.Atoms[2].Element != "O" {
		t.Errorf("atom 3 element = %q, want O", m.Atoms[2].Element)
	}
	if m.Bonds[1] != (Bond{From: 1, To: 2, Order: 1}) {
		t.Errorf("bond 2 = %+v", m.Bonds[1])
	}
}

func TestParseMolblock_ChargeAndIsotope(t *testing.T) {
	block := testMolblock("labeled acetate", []string{"C", "C", "O", "O"},
		[][3]int{{1, 2, 1}, {2, 3, 2}, {2, 4, 1}},
		"M  CHG  1   4  -1",
		"M  ISO  1   1  13")

	m, err := ParseMolblock(block)
	if err != nil {
		t.Fatalf("ParseMolblock: %v", err)
	}
	if m.Atoms[3].Charge != -1 {
		t.Errorf("atom 4 charge = %d, want -1", m.Atoms[3].Charge)
	}
	if m.Atoms[0].Isotope != 13 {
		t.Errorf("atom 1 isotope = %d, want 13", m.Atoms[0].Isotope)
	}
}

func TestParseMolblock_ChargePropertySupersedesAtomBlock(t *testing.T) {
	// The atom-block charge column says +1 on atom 1, but an M  CHG line
	// resets every legacy charge before applying its own values.
	var sb strings.Builder
	sb.WriteString("salt\n\n\n")
	sb.WriteString("  2  0  0  0  0  0  0  0  0  0999 V2000\n")
	fmt.Fprintf(&sb, "%10.4f%10.4f%10.4f %-3s 0  3  0  0  0  0  0  0  0  0  0  0\n", 0.0, 0.0, 0.0, "N")
	fmt.Fprintf(&sb, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n", 0.0, 0.0, 0.0, "Cl")
	sb.WriteString("M  CHG  1   2  -1\n")
	sb.WriteString("M  END\n")

	m, err := ParseMolblock(sb.String())
	if err != nil {
		t.Fatalf("ParseMolblock: %v", err)
	}
	if m.Atoms[0].Charge != 0 {
		t.Errorf("atom 1 charge = %d, want 0 (superseded)", m.Atoms[0].Charge)
	}
	if m.Atoms[1].Charge != -1 {
		t.Errorf("atom 2 charge = %d, want -1", m.Atoms[1].Charge)
	}
}

func TestParseMolblock_LegacyChargeColumn(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("ammonium\n\n\n")
	sb.WriteString("  1  0  0  0  0  0  0  0  0  0999 V2000\n")
	fmt.Fprintf(&sb, "%10.4f%10.4f%10.4f %-3s 0  3  0  0  0  0  0  0  0  0  0  0\n", 0.0, 0.0, 0.0, "N")
	sb.WriteString("M  END\n")

	m, err := ParseMolblock(sb.String())
	if err != nil {
		t.Fatalf("ParseMolblock: %v", err)
	}
	if m.Atoms[0].Charge != 1 {
		t.Errorf("charge = %d, want +1 from legacy charge code 3", m.Atoms[0].Charge)
	}
}

func TestParseMolblock_DeuteriumAndTritium(t *testing.T) {
	block := testMolblock("heavy water", []string{"O", "D", "D"}, [][3]int{{1, 2, 1}, {1, 3, 1}})

	m, err := ParseMolblock(block)
	if err != nil {
		t.Fatalf("ParseMolblock: %v", err)
	}
	if m.Atoms[1].Element != "H" || m.Atoms[1].Isotope != 2 {
		t.Errorf("D atom = %+v, want H isotope 2", m.Atoms[1])
	}
}

func TestParseMolblock_Errors(t *testing.T) {
	tests := []struct {
		name  string
		block string
	}{
		{"empty", ""},
		{"too short", "name\nprog\ncomment\n"},
		{"bad counts", testMolblock("x", nil, nil)},
		{
			"query atom",
			testMolblock("query", []string{"C", "*"}, [][3]int{{1, 2, 1}}),
		},
		{
			"aromatic bond",
			testMolblock("arom", []string{"C", "C"}, [][3]int{{1, 2, 4}}),
		},
		{
			"bond out of range",
			testMolblock("range", []string{"C", "C"}, [][3]int{{1, 3, 1}}),
		},
		{
			"truncated atom block",
			"name\n\n\n  3  0  0  0  0  0  0  0  0  0999 V2000\n",
		},
		{
			"v3000",
			"name\n\n\n  0  0  0  0  0  0  0  0  0  0999 V3000\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMolblock(tt.block); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
