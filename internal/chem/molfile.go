// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chem

import (
	"fmt"
	"strconv"
	"strings"
)

// chargeCodes maps the atom-block charge column of a V2000 ctab to formal
// charges. Code 4 is a doublet radical, which carries no formal charge.
var chargeCodes = map[int]int{
	0: 0, 1: 3, 2: 2, 3: 1, 4: 0, 5: -1, 6: -2, 7: -3,
}

// ParseMolblock parses a V2000 molfile (the structure portion of one SD
// record, through "M  END"). Query atoms, query bonds, and V3000 blocks
// are parse errors: the converter only emits rows for concrete structures.
func ParseMolblock(block string) (*Molecule, error) {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	lines := strings.Split(block, "\n")
	if len(lines) < 4 {
		return nil, fmt.Errorf("molblock too short: %d lines", len(lines))
	}

	counts := lines[3]
	if strings.Contains(counts, "V3000") {
		return nil, fmt.Errorf("V3000 connection tables are not supported")
	}
	nAtoms, nBonds, err := parseCountsLine(counts)
	if err != nil {
		return nil, err
	}
	if len(lines) < 4+nAtoms+nBonds {
		return nil, fmt.Errorf("truncated molblock: counts line declares %d atoms and %d bonds", nAtoms, nBonds)
	}

	m := &Molecule{
		Name:  strings.TrimSpace(lines[0]),
		Atoms: make([]Atom, nAtoms),
		Bonds: make([]Bond, nBonds),
	}

	for i := 0; i < nAtoms; i++ {
		a, err := parseAtomLine(lines[4+i])
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i+1, err)
		}
		m.Atoms[i] = a
	}

	for i := 0; i < nBonds; i++ {
		b, err := parseBondLine(lines[4+nAtoms+i], nAtoms)
		if err != nil {
			return nil, fmt.Errorf("bond %d: %w", i+1, err)
		}
		m.Bonds[i] = b
	}

	if err := applyProperties(m, lines[4+nAtoms+nBonds:]); err != nil {
		return nil, err
	}

	return m, nil
}

func parseCountsLine(line string) (nAtoms, nBonds int, err error) {
	if len(line) < 6 {
		return 0, 0, fmt.Errorf("counts line too short: %q", line)
	}
	nAtoms, err = strconv.Atoi(strings.TrimSpace(line[0:3]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad atom count in %q", line)
	}
	nBonds, err = strconv.Atoi(strings.TrimSpace(line[3:6]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad bond count in %q", line)
	}
	if nAtoms <= 0 {
		return 0, 0, fmt.Errorf("molblock declares no atoms")
	}
	return nAtoms, nBonds, nil
}

// parseAtomLine reads one atom-block line. The element symbol lives in
// fixed columns 32-34; short lines fall back to whitespace fields since
// some writers do not pad coordinates.
func parseAtomLine(line string) (Atom, error) {
	var symbol string
	var chargeCode int
	if len(line) >= 34 {
		symbol = strings.TrimSpace(line[31:34])
		if len(line) >= 39 {
			if c, err := strconv.Atoi(strings.TrimSpace(line[36:39])); err == nil {
				chargeCode = c
			}
		}
	} else {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return Atom{}, fmt.Errorf("malformed atom line %q", line)
		}
		symbol = fields[3]
	}

	a := Atom{Element: symbol}

	// Deuterium and tritium are hydrogen isotopes in disguise.
	switch symbol {
	case "D":
		a.Element, a.Isotope = "H", 2
	case "T":
		a.Element, a.Isotope = "H", 3
	}

	if _, ok := atomicNumbers[a.Element]; !ok {
		return Atom{}, fmt.Errorf("unknown or query atom symbol %q", symbol)
	}

	charge, ok := chargeCodes[chargeCode]
	if !ok {
		return Atom{}, fmt.Errorf("invalid charge code %d", chargeCode)
	}
	a.Charge = charge

	return a, nil
}

func parseBondLine(line string, nAtoms int) (Bond, error) {
	var from, to, order int
	var err error
	if len(line) >= 9 {
		from, err = strconv.Atoi(strings.TrimSpace(line[0:3]))
		if err == nil {
			to, err = strconv.Atoi(strings.TrimSpace(line[3:6]))
		}
		if err == nil {
			order, err = strconv.Atoi(strings.TrimSpace(line[6:9]))
		}
		if err != nil {
			return Bond{}, fmt.Errorf("malformed bond line %q", line)
		}
	} else {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return Bond{}, fmt.Errorf("malformed bond line %q", line)
		}
		from, _ = strconv.Atoi(fields[0])
		to, _ = strconv.Atoi(fields[1])
		order, err = strconv.Atoi(fields[2])
		if err != nil {
			return Bond{}, fmt.Errorf("malformed bond line %q", line)
		}
	}

	if from < 1 || from > nAtoms || to < 1 || to > nAtoms || from == to {
		return Bond{}, fmt.Errorf("bond references atom out of range: %d-%d", from, to)
	}
	if order < 1 || order > 3 {
		return Bond{}, fmt.Errorf("unsupported bond order %d (aromatic and query bonds require kekulized input)", order)
	}

	return Bond{From: from - 1, To: to - 1, Order: order}, nil
}

// applyProperties reads the property block. M  CHG and M  ISO entries set
// formal charges and isotopes; the first M  CHG supersedes every atom-block
// charge column, per the ctab specification.
func applyProperties(m *Molecule, lines []string) error {
	chargeSeen := false
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "M  END"):
			return nil
		case strings.HasPrefix(line, "M  CHG"):
			if !chargeSeen {
				for i := range m.Atoms {
					m.Atoms[i].Charge = 0
				}
				chargeSeen = true
			}
			if err := applyAtomValues(m, line, func(a *Atom, v int) { a.Charge = v }); err != nil {
				return err
			}
		case strings.HasPrefix(line, "M  ISO"):
			if err := applyAtomValues(m, line, func(a *Atom, v int) { a.Isotope = v }); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyAtomValues parses "M  CHG  n aaa vvv aaa vvv ..." style property
// lines and applies each (atom, value) pair.
func applyAtomValues(m *Molecule, line string, set func(*Atom, int)) error {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return fmt.Errorf("malformed property line %q", line)
	}
	pairs := fields[3:]
	if len(pairs)%2 != 0 {
		return fmt.Errorf("malformed property line %q", line)
	}
	for i := 0; i < len(pairs); i += 2 {
		idx, err := strconv.Atoi(pairs[i])
		if err != nil || idx < 1 || idx > len(m.Atoms) {
			return fmt.Errorf("property line %q references atom %q out of range", line, pairs[i])
		}
		val, err := strconv.Atoi(pairs[i+1])
		if err != nil {
			return fmt.Errorf("malformed property value %q", pairs[i+1])
		}
		set(&m.Atoms[idx-1], val)
	}
	return nil
}
