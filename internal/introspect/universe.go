package introspect

import (
	"fmt"
)

// Universe is the read-only view of all type declarations discovered for a pass
type Universe interface {
	// Roots returns the top-level type declarations in discovery order
	Roots() []*TypeDecl
	// Lookup finds a declaration by qualified name
	Lookup(qualifiedName string) (*TypeDecl, bool)
}

// Snapshot is an immutable in-memory Universe
type Snapshot struct {
	roots []*TypeDecl
	index map[string]*TypeDecl
}

// NewSnapshot indexes the given declarations. Declarations missing a simple
// name or package have them derived from the qualified name.
func NewSnapshot(decls ...*TypeDecl) (*Snapshot, error) {
	s := &Snapshot{
		roots: make([]*TypeDecl, 0, len(decls)),
		index: make(map[string]*TypeDecl, len(decls)),
	}
	for _, d := range decls {
		if d == nil {
			continue
		}
		if d.QualifiedName == "" {
			return nil, fmt.Errorf("type declaration without a qualified name")
		}
		if d.SimpleName == "" {
			d.SimpleName = SimpleName(d.QualifiedName)
		}
		if d.Package == "" {
			d.Package = PackageOf(d.QualifiedName)
		}
		if _, exists := s.index[d.QualifiedName]; exists {
			return nil, fmt.Errorf("type %s is declared more than once", d.QualifiedName)
		}
		s.index[d.QualifiedName] = d
		s.roots = append(s.roots, d)
	}
	return s, nil
}

// Roots returns the declarations in the order they were added
func (s *Snapshot) Roots() []*TypeDecl {
	out := make([]*TypeDecl, len(s.roots))
	copy(out, s.roots)
	return out
}

// Lookup finds a declaration by qualified name
func (s *Snapshot) Lookup(qualifiedName string) (*TypeDecl, bool) {
	d, ok := s.index[qualifiedName]
	return d, ok
}

// Len returns the number of declarations
func (s *Snapshot) Len() int {
	return len(s.roots)
}
