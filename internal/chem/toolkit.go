// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chem

// Toolkit is the narrow contract the conversion engine depends on: parse a
// structure block into a molecule, and compute its canonical SMILES. Both
// calls are synchronous and side-effect free; a failure of either call
// classifies the record as failed without aborting the run.
type Toolkit interface {
	Parse(molblock string) (*Molecule, error)
	Canonical(m *Molecule) (string, error)
}

// NativeToolkit is the in-repo Toolkit implementation.
type NativeToolkit struct{}

// Default is the toolkit used by the front-ends.
var Default Toolkit = NativeToolkit{}

func (NativeToolkit) Parse(molblock string) (*Molecule, error) {
	return ParseMolblock(molblock)
}

func (NativeToolkit) Canonical(m *Molecule) (string, error) {
	return WriteSMILES(m)
}
