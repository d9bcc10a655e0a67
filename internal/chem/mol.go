// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chem is the cheminformatics toolkit behind the conversion engine:
// a V2000 molfile parser, a molecular graph model, and a canonical isomeric
// SMILES writer with a matching reader. The rest of the system depends only
// on the Toolkit interface, never on the internals of this package.
package chem

import "fmt"

// Atom is one node of the molecular graph.
type Atom struct {
	// Element is the periodic-table symbol, e.g. "C", "Cl".
	Element string

	// Charge is the formal charge.
	Charge int

	// Isotope is the mass number, or 0 for the natural abundance mix.
	Isotope int

	// Hydrogens is an explicit hydrogen count. It is only meaningful when
	// ExplicitH is set (bracket atoms read back from SMILES); otherwise
	// the count is derived from the valence model.
	Hydrogens int
	ExplicitH bool
}

// Bond is one edge of the molecular graph. From and To are atom indices.
type Bond struct {
	From, To int
	Order    int // 1, 2, or 3
}

// Molecule is a connectivity graph plus the record title line.
type Molecule struct {
	Name  string
	Atoms []Atom
	Bonds []Bond
}

// halfBond is one directed view of a bond, used in adjacency lists.
type halfBond struct {
	to    int
	order int
}

// neighbors builds the adjacency list of m.
func neighbors(m *Molecule) [][]halfBond {
	nbrs := make([][]halfBond, len(m.Atoms))
	for _, b := range m.Bonds {
		nbrs[b.From] = append(nbrs[b.From], halfBond{to: b.To, order: b.Order})
		nbrs[b.To] = append(nbrs[b.To], halfBond{to: b.From, order: b.Order})
	}
	return nbrs
}

// bondOrderSum is the total bond order incident on atom i.
func bondOrderSum(nbrs [][]halfBond, i int) int {
	sum := 0
	for _, hb := range nbrs[i] {
		sum += hb.order
	}
	return sum
}

// organicValences lists the standard valences of the SMILES organic subset,
// lowest first. Atoms of these elements may be written without brackets.
var organicValences = map[string][]int{
	"B": {3}, "C": {4}, "N": {3, 5}, "O": {2}, "P": {3, 5},
	"S": {2, 4, 6}, "F": {1}, "Cl": {1}, "Br": {1}, "I": {1},
}

// isOrganicSubset reports whether element may appear bare in SMILES.
func isOrganicSubset(element string) bool {
	_, ok := organicValences[element]
	return ok
}

// chargedValence is the effective valence of a charged organic-subset atom.
// Cations of electron-rich elements gain a bond (N+ binds four), carbon
// loses one either way (CH3+ and CH3- both carry three hydrogens), and
// boron anions gain one (BH4-).
func chargedValence(element string, charge int) int {
	abs := charge
	if abs < 0 {
		abs = -abs
	}
	switch element {
	case "C":
		return 4 - abs
	case "B":
		return 3 - charge
	case "N", "P":
		return 3 + charge
	case "O", "S":
		return 2 + charge
	case "F", "Cl", "Br", "I":
		return 1 + charge
	}
	return 0
}

// implicitHydrogens derives the hydrogen count of atom i from the valence
// model, ignoring any explicit count. Elements outside the organic subset
// carry no implicit hydrogens. A bond order sum that no standard valence
// can accommodate is a valence violation.
func implicitHydrogens(a Atom, sum int) (int, error) {
	vals, ok := organicValences[a.Element]
	if !ok {
		return 0, nil
	}
	if a.Charge != 0 {
		v := chargedValence(a.Element, a.Charge)
		if v < 0 {
			v = 0
		}
		if sum > v {
			return 0, fmt.Errorf("valence violation: %s with charge %+d cannot bind %d", a.Element, a.Charge, sum)
		}
		return v - sum, nil
	}
	for _, v := range vals {
		if sum <= v {
			return v - sum, nil
		}
	}
	return 0, fmt.Errorf("valence violation: %s cannot bind %d", a.Element, sum)
}

// hydrogenCount returns the hydrogen count of atom i, honoring an explicit
// count when present.
func hydrogenCount(a Atom, sum int) (int, error) {
	if a.ExplicitH {
		return a.Hydrogens, nil
	}
	return implicitHydrogens(a, sum)
}

// atomicNumbers maps element symbols to atomic numbers. The table covers
// the full periodic table so arbitrary SD inputs rank deterministically.
var atomicNumbers = map[string]int{
	"H": 1, "He": 2, "Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8,
	"F": 9, "Ne": 10, "Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15,
	"S": 16, "Cl": 17, "Ar": 18, "K": 19, "Ca": 20, "Sc": 21, "Ti": 22,
	"V": 23, "Cr": 24, "Mn": 25, "Fe": 26, "Co": 27, "Ni": 28, "Cu": 29,
	"Zn": 30, "Ga": 31, "Ge": 32, "As": 33, "Se": 34, "Br": 35, "Kr": 36,
	"Rb": 37, "Sr": 38, "Y": 39, "Zr": 40, "Nb": 41, "Mo": 42, "Tc": 43,
	"Ru": 44, "Rh": 45, "Pd": 46, "Ag": 47, "Cd": 48, "In": 49, "Sn": 50,
	"Sb": 51, "Te": 52, "I": 53, "Xe": 54, "Cs": 55, "Ba": 56, "La": 57,
	"Ce": 58, "Pr": 59, "Nd": 60, "Pm": 61, "Sm": 62, "Eu": 63, "Gd": 64,
	"Tb": 65, "Dy": 66, "Ho": 67, "Er": 68, "Tm": 69, "Yb": 70, "Lu": 71,
	"Hf": 72, "Ta": 73, "W": 74, "Re": 75, "Os": 76, "Ir": 77, "Pt": 78,
	"Au": 79, "Hg": 80, "Tl": 81, "Pb": 82, "Bi": 83, "Po": 84, "At": 85,
	"Rn": 86, "Fr": 87, "Ra": 88, "Ac": 89, "Th": 90, "Pa": 91, "U": 92,
	"Np": 93, "Pu": 94, "Am": 95, "Cm": 96, "Bk": 97, "Cf": 98, "Es": 99,
	"Fm": 100, "Md": 101, "No": 102, "Lr": 103, "Rf": 104, "Db": 105,
	"Sg": 106, "Bh": 107, "Hs": 108, "Mt": 109, "Ds": 110, "Rg": 111,
	"Cn": 112, "Nh": 113, "Fl": 114, "Mc": 115, "Lv": 116, "Ts": 117,
	"Og": 118,
}
