package metamodel

import (
	"fmt"

	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/introspect"
)

// DefaultMaxSupertypeDepth bounds the ancestry walk
const DefaultMaxSupertypeDepth = 64

// NearestPersistentAncestor walks the superclass chain of d and returns the
// first persistent ancestor, or nil when there is none. The walk stops at
// java.lang.Object and at superclasses the universe does not know about. A
// chain that revisits a type, or is deeper than maxDepth, is an error.
func NearestPersistentAncestor(u introspect.Universe, d *introspect.TypeDecl, maxDepth int) (*introspect.TypeDecl, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxSupertypeDepth
	}

	visited := map[string]bool{d.QualifiedName: true}
	current := d
	for depth := 0; ; depth++ {
		super := current.Super
		if super == nil || super.Erasure() == introspect.ObjectType {
			return nil, nil
		}
		if depth >= maxDepth {
			return nil, errs.New(errs.PhaseSupertype, errs.ErrSupertypeDepth,
				fmt.Sprintf("superclass chain is deeper than %d", maxDepth), errs.Error).
				ForType(d.QualifiedName)
		}

		next, ok := u.Lookup(super.Erasure())
		if !ok {
			return nil, nil
		}
		if visited[next.QualifiedName] {
			return nil, errs.New(errs.PhaseSupertype, errs.ErrSupertypeCycle,
				fmt.Sprintf("superclass chain cycles back to %s", next.QualifiedName), errs.Error).
				ForType(d.QualifiedName)
		}
		visited[next.QualifiedName] = true

		if introspect.IsPersistent(next) {
			return next, nil
		}
		current = next
	}
}
