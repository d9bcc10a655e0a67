// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chem

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSMILES reads the kekulized SMILES subset that WriteSMILES emits:
// organic-subset atoms, bracket atoms with isotope/hydrogens/charge, single,
// double and triple bonds, branches, ring closures, and dot-separated
// fragments. Aromatic (lowercase) atoms and stereo descriptors are rejected.
func ParseSMILES(s string) (*Molecule, error) {
	p := &smilesParser{
		s:     strings.TrimSpace(s),
		m:     &Molecule{},
		prev:  -1,
		rings: make(map[int]ringOpen),
	}
	if p.s == "" {
		return nil, fmt.Errorf("empty SMILES")
	}
	if err := p.run(); err != nil {
		return nil, fmt.Errorf("parsing SMILES %q: %w", s, err)
	}
	return p.m, nil
}

type ringOpen struct {
	atom  int
	order int
}

type smilesParser struct {
	s       string
	i       int
	m       *Molecule
	prev    int
	pending int
	stack   []int
	rings   map[int]ringOpen
}

func (p *smilesParser) run() error {
	for p.i < len(p.s) {
		c := p.s[p.i]
		switch {
		case c == '(':
			if p.prev < 0 {
				return fmt.Errorf("branch at position %d has no preceding atom", p.i)
			}
			p.stack = append(p.stack, p.prev)
			p.i++
		case c == ')':
			if len(p.stack) == 0 {
				return fmt.Errorf("unmatched ')' at position %d", p.i)
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.i++
		case c == '-':
			p.pending = 1
			p.i++
		case c == '=':
			p.pending = 2
			p.i++
		case c == '#':
			p.pending = 3
			p.i++
		case c == '/' || c == '\\':
			return fmt.Errorf("directional bond %q is not supported", string(c))
		case c == ':':
			return fmt.Errorf("aromatic bonds are not supported")
		case c == '.':
			if p.pending != 0 {
				return fmt.Errorf("bond symbol before '.' at position %d", p.i)
			}
			p.prev = -1
			p.i++
		case c >= '0' && c <= '9':
			if err := p.closeRing(int(c - '0')); err != nil {
				return err
			}
			p.i++
		case c == '%':
			if p.i+2 >= len(p.s) {
				return fmt.Errorf("truncated ring closure at position %d", p.i)
			}
			num, err := strconv.Atoi(p.s[p.i+1 : p.i+3])
			if err != nil {
				return fmt.Errorf("bad ring closure %q", p.s[p.i:p.i+3])
			}
			if err := p.closeRing(num); err != nil {
				return err
			}
			p.i += 3
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.bareAtom(); err != nil {
				return err
			}
		}
	}

	if len(p.stack) != 0 {
		return fmt.Errorf("unclosed branch")
	}
	if len(p.rings) != 0 {
		return fmt.Errorf("unclosed ring bond")
	}
	if p.pending != 0 {
		return fmt.Errorf("trailing bond symbol")
	}
	if len(p.m.Atoms) == 0 {
		return fmt.Errorf("no atoms")
	}
	return nil
}

func (p *smilesParser) addAtom(a Atom) {
	p.m.Atoms = append(p.m.Atoms, a)
	cur := len(p.m.Atoms) - 1
	if p.prev >= 0 {
		order := p.pending
		if order == 0 {
			order = 1
		}
		p.m.Bonds = append(p.m.Bonds, Bond{From: p.prev, To: cur, Order: order})
	}
	p.prev = cur
	p.pending = 0
}

func (p *smilesParser) closeRing(num int) error {
	if p.prev < 0 {
		return fmt.Errorf("ring closure %d has no preceding atom", num)
	}
	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = ringOpen{atom: p.prev, order: p.pending}
		p.pending = 0
		return nil
	}
	if open.atom == p.prev {
		return fmt.Errorf("ring closure %d bonds an atom to itself", num)
	}
	order := 1
	switch {
	case open.order != 0 && p.pending != 0 && open.order != p.pending:
		return fmt.Errorf("ring closure %d has conflicting bond orders", num)
	case open.order != 0:
		order = open.order
	case p.pending != 0:
		order = p.pending
	}
	p.m.Bonds = append(p.m.Bonds, Bond{From: open.atom, To: p.prev, Order: order})
	delete(p.rings, num)
	p.pending = 0
	return nil
}

func (p *smilesParser) bareAtom() error {
	rest := p.s[p.i:]
	for _, two := range []string{"Cl", "Br"} {
		if strings.HasPrefix(rest, two) {
			p.addAtom(Atom{Element: two})
			p.i += 2
			return nil
		}
	}
	c := rest[0]
	if strings.IndexByte("BCNOPSFI", c) >= 0 {
		p.addAtom(Atom{Element: string(c)})
		p.i++
		return nil
	}
	if c >= 'a' && c <= 'z' {
		return fmt.Errorf("aromatic atom %q is not supported (kekulized input required)", string(c))
	}
	return fmt.Errorf("unexpected character %q at position %d", string(c), p.i)
}

func (p *smilesParser) bracketAtom() error {
	end := strings.IndexByte(p.s[p.i:], ']')
	if end < 0 {
		return fmt.Errorf("unclosed bracket atom at position %d", p.i)
	}
	body := p.s[p.i+1 : p.i+end]
	start := p.i
	p.i += end + 1

	j := 0
	isotope := 0
	for j < len(body) && body[j] >= '0' && body[j] <= '9' {
		isotope = isotope*10 + int(body[j]-'0')
		j++
	}

	if j >= len(body) {
		return fmt.Errorf("bracket atom at position %d has no element", start)
	}
	if body[j] >= 'a' && body[j] <= 'z' {
		return fmt.Errorf("aromatic atom %q is not supported (kekulized input required)", string(body[j]))
	}
	if body[j] < 'A' || body[j] > 'Z' {
		return fmt.Errorf("bad element in bracket atom %q", body)
	}
	element := string(body[j])
	j++
	// A lowercase continuation is the second letter of a two-letter
	// symbol, unless it is the hydrogen-count marker position.
	if j < len(body) && body[j] >= 'a' && body[j] <= 'z' {
		element += string(body[j])
		j++
	}
	if _, ok := atomicNumbers[element]; !ok {
		return fmt.Errorf("unknown element %q in bracket atom", element)
	}

	a := Atom{Element: element, Isotope: isotope, ExplicitH: true}

	if j < len(body) && body[j] == '@' {
		return fmt.Errorf("tetrahedral stereo descriptors are not supported")
	}

	if j < len(body) && body[j] == 'H' {
		j++
		a.Hydrogens = 1
		count := 0
		for j < len(body) && body[j] >= '0' && body[j] <= '9' {
			count = count*10 + int(body[j]-'0')
			j++
		}
		if count > 0 {
			a.Hydrogens = count
		}
	}

	if j < len(body) && (body[j] == '+' || body[j] == '-') {
		sign := 1
		if body[j] == '-' {
			sign = -1
		}
		mark := body[j]
		j++
		magnitude := 1
		for j < len(body) && body[j] == mark {
			magnitude++
			j++
		}
		digits := 0
		for j < len(body) && body[j] >= '0' && body[j] <= '9' {
			digits = digits*10 + int(body[j]-'0')
			j++
		}
		if digits > 0 {
			magnitude = digits
		}
		a.Charge = sign * magnitude
	}

	// Atom class tags carry no structural information.
	if j < len(body) && body[j] == ':' {
		j++
		for j < len(body) && body[j] >= '0' && body[j] <= '9' {
			j++
		}
	}

	if j != len(body) {
		return fmt.Errorf("unexpected %q in bracket atom %q", body[j:], body)
	}

	p.addAtom(a)
	return nil
}
