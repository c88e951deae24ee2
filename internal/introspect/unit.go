package introspect

import (
	"fmt"

	errs "github.com/conduit-lang/metagen/internal/errors"
)

// Unit is the output of one type source file: its declarations, with type
// names as written, and the scope that qualifies them.
type Unit struct {
	Origin string
	Decls  []*TypeDecl
	Scope  *Scope
	// Names are qualified names of other top-level types the file declares
	// (interfaces, enums, records). They take part in name resolution only.
	Names []string
}

// Link qualifies the type names of every unit against the combined set of
// declarations and returns the resulting Snapshot. Declaration order is unit
// order, then order within each unit.
func Link(units ...*Unit) (*Snapshot, error) {
	origins := make(map[string]string)
	var decls []*TypeDecl
	for _, u := range units {
		for _, d := range u.Decls {
			if prev, ok := origins[d.QualifiedName]; ok {
				return nil, errs.New(errs.PhaseLoad, errs.ErrDuplicateType,
					fmt.Sprintf("declared in both %s and %s", prev, u.Origin), errs.Error).
					ForType(d.QualifiedName)
			}
			origins[d.QualifiedName] = u.Origin
			decls = append(decls, d)
		}
	}

	others := make(map[string]bool)
	for _, u := range units {
		for _, name := range u.Names {
			others[name] = true
		}
	}
	known := func(qn string) bool {
		_, ok := origins[qn]
		return ok || others[qn]
	}
	for _, u := range units {
		scope := u.Scope
		if scope == nil {
			scope = &Scope{}
		}
		scope.Known = known
		for _, d := range u.Decls {
			scope.QualifyDecl(d)
		}
	}
	return NewSnapshot(decls...)
}
