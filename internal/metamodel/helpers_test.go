package metamodel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/metagen/internal/introspect"
)

func ann(typ string, kv ...string) introspect.Annotation {
	a := introspect.Annotation{Type: typ}
	if len(kv) > 0 {
		a.Values = make(map[string]string)
		for i := 0; i+1 < len(kv); i += 2 {
			a.Values[kv[i]] = kv[i+1]
		}
	}
	return a
}

func entity() introspect.Annotation {
	return ann("javax.persistence.Entity")
}

func field(name string, typ *introspect.TypeRef, annotations ...introspect.Annotation) introspect.Member {
	return introspect.Member{Name: name, Kind: introspect.MemberField, Type: typ, Annotations: annotations}
}

func getter(name string, typ *introspect.TypeRef, annotations ...introspect.Annotation) introspect.Member {
	return introspect.Member{Name: name, Kind: introspect.MemberMethod, Type: typ, Annotations: annotations}
}

func setter(name string, param *introspect.TypeRef, annotations ...introspect.Annotation) introspect.Member {
	return introspect.Member{
		Name:        name,
		Kind:        introspect.MemberMethod,
		Type:        introspect.Primitive("void"),
		Params:      []*introspect.TypeRef{param},
		Annotations: annotations,
	}
}

var (
	stringType  = introspect.Declared("java.lang.String")
	integerType = introspect.Declared("java.lang.Integer")
)

// personUniverse models:
//
//	@Entity class Person { String name; Set<String> tags; Person manager; Map<String,Integer> scores; @Transient String cache; }
//	@Entity class Employee extends Person { int level; }
//	class Base { }  (not persistent)
//	@Entity class Contractor extends Base { }
func personUniverse(t *testing.T) *introspect.Snapshot {
	t.Helper()

	person := &introspect.TypeDecl{
		QualifiedName: "com.acme.Person",
		Annotations:   []introspect.Annotation{entity()},
		Members: []introspect.Member{
			field("name", stringType),
			field("tags", introspect.Declared("java.util.Set", stringType)),
			field("manager", introspect.Declared("com.acme.Person")),
			field("scores", introspect.Declared("java.util.Map", stringType, integerType)),
			field("cache", stringType, ann("javax.persistence.Transient")),
		},
	}
	employee := &introspect.TypeDecl{
		QualifiedName: "com.acme.Employee",
		Super:         introspect.Declared("com.acme.Person"),
		Annotations:   []introspect.Annotation{entity()},
		Members: []introspect.Member{
			field("level", introspect.Primitive("int")),
		},
	}
	base := &introspect.TypeDecl{
		QualifiedName: "com.acme.Base",
		Super:         introspect.Declared(introspect.ObjectType),
	}
	contractor := &introspect.TypeDecl{
		QualifiedName: "com.acme.Contractor",
		Super:         introspect.Declared("com.acme.Base"),
		Annotations:   []introspect.Annotation{entity()},
	}

	u, err := introspect.NewSnapshot(employee, person, base, contractor)
	require.NoError(t, err)
	return u
}

func lookup(t *testing.T, u introspect.Universe, name string) *introspect.TypeDecl {
	t.Helper()
	d, ok := u.Lookup(name)
	require.True(t, ok, "type %s not in universe", name)
	return d
}
