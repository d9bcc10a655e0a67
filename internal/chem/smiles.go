// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// WriteSMILES renders m as canonical isomeric SMILES. The output is a pure
// function of the molecular graph: parsing the same structure with any atom
// numbering yields the same string. Isotopes and formal charges are carried
// through bracket atoms; bonds are written in their kekulized orders.
func WriteSMILES(m *Molecule) (string, error) {
	n := len(m.Atoms)
	if n == 0 {
		return "", fmt.Errorf("molecule has no atoms")
	}
	nbrs := neighbors(m)

	h := make([]int, n)
	for i, a := range m.Atoms {
		hc, err := hydrogenCount(a, bondOrderSum(nbrs, i))
		if err != nil {
			return "", err
		}
		h[i] = hc
	}

	rank := canonicalRanks(m, nbrs, h)

	e := &emitter{
		m:        m,
		nbrs:     nbrs,
		h:        h,
		rank:     rank,
		visited:  make([]bool, n),
		used:     make(map[[2]int]bool),
		children: make([][]childEdge, n),
		closures: make([][]closure, n),
		nextRing: 1,
	}

	var parts []string
	for _, root := range e.componentRoots() {
		if err := e.walk(root); err != nil {
			return "", err
		}
		var sb strings.Builder
		e.write(root, &sb)
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, "."), nil
}

type childEdge struct {
	to    int
	order int
}

type closure struct {
	num   int
	order int
}

type emitter struct {
	m        *Molecule
	nbrs     [][]halfBond
	h        []int
	rank     []int
	visited  []bool
	used     map[[2]int]bool
	children [][]childEdge
	closures [][]closure
	nextRing int
}

// componentRoots returns the lowest-ranked atom of each connected
// component, components ordered by that rank.
func (e *emitter) componentRoots() []int {
	n := len(e.rank)
	seen := make([]bool, n)
	var roots []int
	for i := 0; i < n; i++ {
		if seen[i] {
			continue
		}
		root := i
		queue := []int{i}
		seen[i] = true
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			if e.rank[u] < e.rank[root] {
				root = u
			}
			for _, hb := range e.nbrs[u] {
				if !seen[hb.to] {
					seen[hb.to] = true
					queue = append(queue, hb.to)
				}
			}
		}
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool { return e.rank[roots[i]] < e.rank[roots[j]] })
	return roots
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// walk performs the canonical DFS, classifying each edge as a tree edge or
// a ring closure. Ring numbers are assigned in discovery order.
func (e *emitter) walk(u int) error {
	e.visited[u] = true

	sorted := make([]halfBond, len(e.nbrs[u]))
	copy(sorted, e.nbrs[u])
	sort.Slice(sorted, func(i, j int) bool { return e.rank[sorted[i].to] < e.rank[sorted[j].to] })

	for _, hb := range sorted {
		key := edgeKey(u, hb.to)
		if e.used[key] {
			continue
		}
		e.used[key] = true
		if e.visited[hb.to] {
			if e.nextRing > 99 {
				return fmt.Errorf("more than 99 ring closures")
			}
			c := closure{num: e.nextRing, order: hb.order}
			e.nextRing++
			e.closures[u] = append(e.closures[u], c)
			e.closures[hb.to] = append(e.closures[hb.to], c)
			continue
		}
		e.children[u] = append(e.children[u], childEdge{to: hb.to, order: hb.order})
		if err := e.walk(hb.to); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) write(u int, sb *strings.Builder) {
	sb.WriteString(e.atomToken(u))

	cl := e.closures[u]
	sort.Slice(cl, func(i, j int) bool { return cl[i].num < cl[j].num })
	for _, c := range cl {
		writeBondSymbol(sb, c.order)
		if c.num > 9 {
			sb.WriteByte('%')
			fmt.Fprintf(sb, "%02d", c.num)
		} else {
			sb.WriteString(strconv.Itoa(c.num))
		}
	}

	kids := e.children[u]
	for i, k := range kids {
		last := i == len(kids)-1
		if !last {
			sb.WriteByte('(')
		}
		writeBondSymbol(sb, k.order)
		e.write(k.to, sb)
		if !last {
			sb.WriteByte(')')
		}
	}
}

func writeBondSymbol(sb *strings.Builder, order int) {
	switch order {
	case 2:
		sb.WriteByte('=')
	case 3:
		sb.WriteByte('#')
	}
}

// atomToken renders one atom. Organic-subset atoms whose hydrogen count
// matches the valence model are written bare; everything else gets a
// bracket atom carrying isotope, hydrogen count, and charge.
func (e *emitter) atomToken(u int) string {
	a := e.m.Atoms[u]
	sum := bondOrderSum(e.nbrs, u)

	if isOrganicSubset(a.Element) && a.Charge == 0 && a.Isotope == 0 {
		if dh, err := implicitHydrogens(Atom{Element: a.Element}, sum); err == nil && dh == e.h[u] {
			return a.Element
		}
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if a.Isotope > 0 {
		sb.WriteString(strconv.Itoa(a.Isotope))
	}
	sb.WriteString(a.Element)
	if e.h[u] == 1 {
		sb.WriteByte('H')
	} else if e.h[u] > 1 {
		sb.WriteByte('H')
		sb.WriteString(strconv.Itoa(e.h[u]))
	}
	switch {
	case a.Charge == 1:
		sb.WriteByte('+')
	case a.Charge == -1:
		sb.WriteByte('-')
	case a.Charge > 1:
		sb.WriteByte('+')
		sb.WriteString(strconv.Itoa(a.Charge))
	case a.Charge < -1:
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(-a.Charge))
	}
	sb.WriteByte(']')
	return sb.String()
}

// canonicalRanks assigns every atom a distinct rank that depends only on
// the graph, not on input atom order. It is an iterative-refinement
// partitioning (Weininger-style): start from atom invariants, refine by
// neighbor rank multisets until stable, then break remaining ties with a
// breadth-first signature and re-refine.
func canonicalRanks(m *Molecule, nbrs [][]halfBond, h []int) []int {
	n := len(m.Atoms)

	keys := make([]string, n)
	for i, a := range m.Atoms {
		keys[i] = fmt.Sprintf("%03d|%03d|%03d|%04d|%02d|%02d",
			len(nbrs[i]), atomicNumbers[a.Element], a.Charge+100, a.Isotope, h[i], bondOrderSum(nbrs, i))
	}
	rank := denseRanks(keys)
	rank = refine(rank, nbrs)

	for classCount(rank) < n {
		tied := lowestTiedClass(rank)

		chosen := tied[0]
		best := bfsSignature(tied[0], rank, nbrs)
		for _, c := range tied[1:] {
			if sig := bfsSignature(c, rank, nbrs); sig < best {
				best, chosen = sig, c
			}
		}

		next := make([]string, n)
		for i := range rank {
			next[i] = fmt.Sprintf("%07d", rank[i]*2+1)
		}
		next[chosen] = fmt.Sprintf("%07d", rank[chosen]*2)
		rank = refine(denseRanks(next), nbrs)
	}
	return rank
}

// refine splits rank classes by the sorted multiset of (bond order,
// neighbor rank) pairs until the partition stops growing. Keys are
// prefixed with the current rank, so refinement only ever splits classes
// and preserves class order.
func refine(rank []int, nbrs [][]halfBond) []int {
	n := len(rank)
	for {
		keys := make([]string, n)
		for i := range rank {
			ns := make([]string, 0, len(nbrs[i]))
			for _, hb := range nbrs[i] {
				ns = append(ns, fmt.Sprintf("%d:%06d", hb.order, rank[hb.to]))
			}
			sort.Strings(ns)
			keys[i] = fmt.Sprintf("%06d|%s", rank[i], strings.Join(ns, ","))
		}
		next := denseRanks(keys)
		if classCount(next) == classCount(rank) {
			return next
		}
		rank = next
	}
}

// denseRanks maps keys to 0-based ranks by sorted order.
func denseRanks(keys []string) []int {
	uniq := make([]string, len(keys))
	copy(uniq, keys)
	sort.Strings(uniq)
	pos := make(map[string]int, len(uniq))
	for _, k := range uniq {
		if _, ok := pos[k]; !ok {
			pos[k] = len(pos)
		}
	}
	rank := make([]int, len(keys))
	for i, k := range keys {
		rank[i] = pos[k]
	}
	return rank
}

func classCount(rank []int) int {
	seen := make(map[int]struct{}, len(rank))
	for _, r := range rank {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// lowestTiedClass returns the members of the smallest rank shared by more
// than one atom.
func lowestTiedClass(rank []int) []int {
	members := make(map[int][]int)
	for i, r := range rank {
		members[r] = append(members[r], i)
	}
	ranks := make([]int, 0, len(members))
	for r, ms := range members {
		if len(ms) > 1 {
			ranks = append(ranks, r)
		}
	}
	sort.Ints(ranks)
	return members[ranks[0]]
}

// bfsSignature is a level-by-level expansion of the graph from start under
// the current ranking. Within each level the per-atom edge lists are
// sorted, so the signature does not depend on atom input order.
func bfsSignature(start int, rank []int, nbrs [][]halfBond) string {
	visited := make([]bool, len(rank))
	visited[start] = true
	frontier := []int{start}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%06d", rank[start])

	for len(frontier) > 0 {
		var next []int
		level := make([]string, 0, len(frontier))
		for _, u := range frontier {
			edges := make([]string, 0, len(nbrs[u]))
			for _, hb := range nbrs[u] {
				edges = append(edges, fmt.Sprintf("%d:%06d", hb.order, rank[hb.to]))
				if !visited[hb.to] {
					visited[hb.to] = true
					next = append(next, hb.to)
				}
			}
			sort.Strings(edges)
			level = append(level, strings.Join(edges, ","))
		}
		sort.Strings(level)
		sb.WriteByte('|')
		sb.WriteString(strings.Join(level, ";"))
		frontier = next
	}
	return sb.String()
}
