// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chem

import (
	"testing"
)

func mustParse(t *testing.T, block string) *Molecule {
	t.Helper()
	m, err := ParseMolblock(block)
	if err != nil {
		t.Fatalf("ParseMolblock: %v", err)
	}
	return m
}

func mustWrite(t *testing.T, m *Molecule) string {
	t.Helper()
	s, err := WriteSMILES(m)
	if err != nil {
		t.Fatalf("WriteSMILES: %v", err)
	}
	return s
}

func TestWriteSMILES(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
	}{
		{
			name:  "methane",
			block: testMolblock("methane", []string{"C"}, nil),
			want:  "C",
		},
		{
			name:  "ethanol",
			block: testMolblock("ethanol", []string{"C", "C", "O"}, [][3]int{{1, 2, 1}, {2, 3, 1}}),
			want:  "CCO",
		},
		{
			name: "acetic acid",
			block: testMolblock("acetic acid", []string{"C", "C", "O", "O"},
				[][3]int{{1, 2, 1}, {2, 3, 2}, {2, 4, 1}}),
			want: "CC(=O)O",
		},
		{
			name:  "cyclohexane",
			block: testMolblock("cyclohexane", []string{"C", "C", "C", "C", "C", "C"},
				[][3]int{{1, 2, 1}, {2, 3, 1}, {3, 4, 1}, {4, 5, 1}, {5, 6, 1}, {6, 1, 1}}),
			want: "C1CCCCC1",
		},
		{
			name:  "sodium atom",
			block: testMolblock("sodium", []string{"Na"}, nil),
			want:  "[Na]",
		},
		{
			name: "chloride anion",
			block: testMolblock("chloride", []string{"Cl"}, nil,
				"M  CHG  1   1  -1"),
			want: "[Cl-]",
		},
		{
			name: "carbon-13 methane",
			block: testMolblock("13C methane", []string{"C"}, nil,
				"M  ISO  1   1  13"),
			want: "[13CH4]",
		},
		{
			name:  "hydrogen cyanide",
			block: testMolblock("HCN", []string{"C", "N"}, [][3]int{{1, 2, 3}}),
			want:  "C#N",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustWrite(t, mustParse(t, tt.block))
			if got != tt.want {
				t.Errorf("WriteSMILES = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestWriteSMILES_OrderIndependent checks that atom numbering in the input
// molblock does not leak into the canonical string.
func TestWriteSMILES_OrderIndependent(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{
			name: "ethanol reversed",
			a:    testMolblock("ethanol", []string{"C", "C", "O"}, [][3]int{{1, 2, 1}, {2, 3, 1}}),
			b:    testMolblock("ethanol", []string{"O", "C", "C"}, [][3]int{{1, 2, 1}, {2, 3, 1}}),
		},
		{
			name: "acetic acid permuted",
			a: testMolblock("acetic acid", []string{"C", "C", "O", "O"},
				[][3]int{{1, 2, 1}, {2, 3, 2}, {2, 4, 1}}),
			b: testMolblock("acetic acid", []string{"O", "O", "C", "C"},
				[][3]int{{4, 3, 1}, {3, 1, 2}, {3, 2, 1}}),
		},
		{
			name: "kekulized benzene rotated",
			a: testMolblock("benzene", []string{"C", "C", "C", "C", "C", "C"},
				[][3]int{{1, 2, 2}, {2, 3, 1}, {3, 4, 2}, {4, 5, 1}, {5, 6, 2}, {6, 1, 1}}),
			b: testMolblock("benzene", []string{"C", "C", "C", "C", "C", "C"},
				[][3]int{{3, 4, 2}, {4, 5, 1}, {5, 6, 2}, {6, 1, 1}, {1, 2, 2}, {2, 3, 1}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sa := mustWrite(t, mustParse(t, tt.a))
			sb := mustWrite(t, mustParse(t, tt.b))
			if sa != sb {
				t.Errorf("canonical SMILES differ: %q vs %q", sa, sb)
			}
		})
	}
}

// TestWriteSMILES_Idempotent checks the canonicalization fixed point:
// re-parsing an emitted SMILES and canonicalizing again must reproduce the
// string exactly.
func TestWriteSMILES_Idempotent(t *testing.T) {
	inputs := []string{
		"CCO",
		"CC(=O)O",
		"C1CCCCC1",
		"C1=CC=CC=C1",
		"C#N",
		"CC(C)CC1=CC=C(C=C1)C(C)C(=O)O",
		"[NH4+]",
		"[13CH4]",
		"[Na+].[Cl-]",
		"N#CC1=CC=CC=C1",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			m1, err := ParseSMILES(in)
			if err != nil {
				t.Fatalf("ParseSMILES(%q): %v", in, err)
			}
			c1 := mustWrite(t, m1)
			m2, err := ParseSMILES(c1)
			if err != nil {
				t.Fatalf("ParseSMILES(%q): %v", c1, err)
			}
			c2 := mustWrite(t, m2)
			if c1 != c2 {
				t.Errorf("canonicalization not idempotent: %q -> %q", c1, c2)
			}
		})
	}
}

func TestWriteSMILES_ValenceViolation(t *testing.T) {
	block := testMolblock("pentavalent carbon", []string{"C", "C", "C", "C", "C", "C"},
		[][3]int{{1, 2, 1}, {1, 3, 1}, {1, 4, 1}, {1, 5, 1}, {1, 6, 1}})
	m := mustParse(t, block)
	if _, err := WriteSMILES(m); err == nil {
		t.Error("expected valence error, got nil")
	}
}

func TestParseSMILES_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"aromatic lowercase", "c1ccccc1"},
		{"tetrahedral stereo", "C[C@H](N)O"},
		{"directional bond", "F/C=C/F"},
		{"unclosed ring", "C1CCC"},
		{"unclosed branch", "C(CC"},
		{"unmatched close", "CC)C"},
		{"trailing bond", "CC="},
		{"unknown element", "[Xx]"},
		{"empty", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSMILES(tt.in); err == nil {
				t.Errorf("ParseSMILES(%q): expected error", tt.in)
			}
		})
	}
}

func TestParseSMILES_BracketAtom(t *testing.T) {
	m, err := ParseSMILES("[13CH3-]")
	if err != nil {
		t.Fatalf("ParseSMILES: %v", err)
	}
	a := m.Atoms[0]
	if a.Element != "C" || a.Isotope != 13 || a.Charge != -1 || !a.ExplicitH || a.Hydrogens != 3 {
		t.Errorf("atom = %+v", a)
	}
}
