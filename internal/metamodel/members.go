package metamodel

import (
	"github.com/conduit-lang/metagen/internal/introspect"
)

// ResolveAccess decides where the persistent state of a type lives and returns
// the candidate members in declaration order. The returned access type is never
// AccessDefault: the default strategy is resolved to fields or properties.
//
// With no explicit @Access, properties are used when any getter or setter
// carries a persistence annotation; otherwise fields are used.
func ResolveAccess(d *introspect.TypeDecl) (introspect.AccessType, []introspect.Member) {
	switch introspect.AccessOf(d) {
	case introspect.AccessField:
		return introspect.AccessField, fieldMembers(d)
	case introspect.AccessProperty:
		return introspect.AccessProperty, propertyMembers(d)
	}

	for i := range d.Members {
		m := &d.Members[i]
		if m.Static || !m.IsAccessor() {
			continue
		}
		if introspect.Describe(m).Persistence {
			return introspect.AccessProperty, propertyMembers(d)
		}
	}
	return introspect.AccessField, fieldMembers(d)
}

func fieldMembers(d *introspect.TypeDecl) []introspect.Member {
	var members []introspect.Member
	for _, m := range d.Members {
		if m.IsField() && !m.Static {
			members = append(members, m)
		}
	}
	return members
}

func propertyMembers(d *introspect.TypeDecl) []introspect.Member {
	var members []introspect.Member
	for _, m := range d.Members {
		if m.IsAccessor() && !m.Static {
			members = append(members, m)
		}
	}
	return members
}

// IsPersistentMember reports whether a candidate member produces an attribute.
// Transient members are excluded, as is anything other than a field or getter.
func IsPersistentMember(m *introspect.Member) bool {
	if m.TransientModifier || introspect.Describe(m).Transient {
		return false
	}
	return m.IsField() || m.IsGetter()
}
