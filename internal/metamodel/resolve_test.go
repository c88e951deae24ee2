package metamodel

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/introspect"
)

func ownerDecl(params ...introspect.TypeParam) *introspect.TypeDecl {
	return &introspect.TypeDecl{
		QualifiedName: "com.acme.Owner",
		SimpleName:    "Owner",
		Package:       "com.acme",
		TypeParams:    params,
	}
}

func TestResolver_Primitives(t *testing.T) {
	r := NewResolver(ownerDecl())

	tests := map[string]string{
		"int":     "Integer",
		"long":    "Long",
		"short":   "Short",
		"float":   "Float",
		"double":  "Double",
		"char":    "Character",
		"byte":    "Byte",
		"boolean": "Boolean",
	}
	for primitive, boxed := range tests {
		t.Run(primitive, func(t *testing.T) {
			m := field("value", introspect.Primitive(primitive))
			attr, err := r.Resolve(&m)
			require.NoError(t, err)
			assert.Equal(t, Singular, attr.Category)
			assert.Equal(t, boxed, attr.Element)
			assert.Equal(t, "SingularAttribute<Owner, "+boxed+">", attr.DescriptorType())
		})
	}
}

func TestResolver_Singular(t *testing.T) {
	bounded := ownerDecl(
		introspect.TypeParam{Name: "T", Bounds: []*introspect.TypeRef{introspect.Declared("com.acme.Animal")}},
		introspect.TypeParam{Name: "U"},
		introspect.TypeParam{Name: "C", Bounds: []*introspect.TypeRef{
			introspect.Declared("java.lang.Comparable", introspect.TypeVar("C")),
		}},
	)

	tests := []struct {
		name     string
		member   introspect.Member
		expected string
	}{
		{"declared", field("name", stringType), "java.lang.String"},
		{"self reference", field("manager", introspect.Declared("com.acme.Owner")), "com.acme.Owner"},
		{"parameterized", field("ref", introspect.Declared("java.util.Optional", stringType)), "java.util.Optional<java.lang.String>"},
		{"primitive array", field("data", introspect.ArrayOf(introspect.Primitive("byte"))), "byte[]"},
		{"bounded type variable", field("pet", introspect.TypeVar("T")), "com.acme.Animal"},
		{"type variable written as declared name", field("pet", introspect.Declared("T")), "com.acme.Animal"},
		{"unbounded type variable", field("any", introspect.TypeVar("U")), "java.lang.Object"},
		{"recursive bound", field("key", introspect.TypeVar("C")), "java.lang.Comparable<?>"},
		{
			"target beats declared type",
			field("pet", introspect.Declared("com.acme.Animal"), ann("javax.persistence.ManyToOne", "targetEntity", "com.acme.Dog.class")),
			"com.acme.Dog",
		},
		{
			"target beats generic bound",
			field("pet", introspect.TypeVar("T"), ann("javax.persistence.OneToOne", "targetEntity", "com.acme.Cat")),
			"com.acme.Cat",
		},
		{
			"target ignored for primitives",
			field("count", introspect.Primitive("int"), ann("javax.persistence.OneToOne", "targetEntity", "com.acme.Cat")),
			"Integer",
		},
	}

	r := NewResolver(bounded)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := r.Resolve(&tt.member)
			require.NoError(t, err)
			assert.Equal(t, Singular, attr.Category)
			assert.Equal(t, tt.expected, attr.Element)
			assert.Equal(t, "Owner", attr.Owner)
		})
	}
}

func TestResolver_Collections(t *testing.T) {
	r := NewResolver(ownerDecl(
		introspect.TypeParam{Name: "T", Bounds: []*introspect.TypeRef{introspect.Declared("com.acme.Animal")}},
	))

	tests := []struct {
		name       string
		member     introspect.Member
		category   Category
		descriptor string
	}{
		{
			"set",
			field("tags", introspect.Declared("java.util.Set", stringType)),
			Set, "SetAttribute<Owner, java.lang.String>",
		},
		{
			"list of entities",
			field("items", introspect.Declared("java.util.List", introspect.Declared("com.acme.Item"))),
			List, "ListAttribute<Owner, com.acme.Item>",
		},
		{
			"collection",
			field("notes", introspect.Declared("java.util.Collection", stringType)),
			Collection, "CollectionAttribute<Owner, java.lang.String>",
		},
		{
			"map",
			field("scores", introspect.Declared("java.util.Map", stringType, integerType)),
			Map, "MapAttribute<Owner, java.lang.String, java.lang.Integer>",
		},
		{
			"list of type variable",
			field("pets", introspect.Declared("java.util.List", introspect.TypeVar("T"))),
			List, "ListAttribute<Owner, com.acme.Animal>",
		},
		{
			"set of wildcard",
			field("pets", introspect.Declared("java.util.Set", introspect.Wildcard(introspect.Declared("com.acme.Animal"), false))),
			Set, "SetAttribute<Owner, com.acme.Animal>",
		},
		{
			"list of unbounded wildcard",
			field("things", introspect.Declared("java.util.List", introspect.Wildcard(nil, false))),
			List, "ListAttribute<Owner, java.lang.Object>",
		},
		{
			"nested generic element",
			field("groups", introspect.Declared("java.util.List", introspect.Declared("java.util.Set", stringType))),
			List, "ListAttribute<Owner, java.util.Set<java.lang.String>>",
		},
		{
			"target overrides element",
			field("pets", introspect.Declared("java.util.Set", introspect.Declared("com.acme.Animal")),
				ann("javax.persistence.OneToMany", "targetEntity", "com.acme.Dog.class")),
			Set, "SetAttribute<Owner, com.acme.Dog>",
		},
		{
			"target overrides map value only",
			field("byName", introspect.Declared("java.util.Map", stringType, introspect.Declared("com.acme.Animal")),
				ann("javax.persistence.ManyToMany", "targetEntity", "com.acme.Dog.class")),
			Map, "MapAttribute<Owner, java.lang.String, com.acme.Dog>",
		},
		{
			"map keyed by type variable",
			field("byPet", introspect.Declared("java.util.Map", introspect.TypeVar("T"), integerType)),
			Map, "MapAttribute<Owner, com.acme.Animal, java.lang.Integer>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := r.Resolve(&tt.member)
			require.NoError(t, err)
			assert.Equal(t, tt.category, attr.Category)
			assert.Equal(t, tt.descriptor, attr.DescriptorType())
		})
	}
}

func TestResolver_GetterAttributeName(t *testing.T) {
	r := NewResolver(ownerDecl())
	m := getter("getTags", introspect.Declared("java.util.List", stringType))

	attr, err := r.Resolve(&m)
	require.NoError(t, err)
	assert.Equal(t, "tags", attr.Name)
	assert.Equal(t, List, attr.Category)
}

func TestResolver_RawContainers(t *testing.T) {
	r := NewResolver(ownerDecl())

	tests := []struct {
		name       string
		member     introspect.Member
		descriptor string
		message    string
	}{
		{
			"raw set",
			field("tags", introspect.Declared("java.util.Set")),
			"SetAttribute<Owner, java.lang.Object>",
			"raw java.util.Set gives no element type; using java.lang.Object",
		},
		{
			"raw map",
			field("scores", introspect.Declared("java.util.Map")),
			"MapAttribute<Owner, java.lang.Object, java.lang.Object>",
			"raw java.util.Map gives no key or value type; using java.lang.Object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := r.Resolve(&tt.member)
			require.Error(t, err)
			assert.Equal(t, tt.descriptor, attr.DescriptorType())

			var diag errs.Diagnostic
			require.True(t, stderrors.As(err, &diag))
			assert.Equal(t, errs.ErrRawContainer, diag.Code)
			assert.Equal(t, errs.Warning, diag.Severity)
			assert.Equal(t, "com.acme.Owner", diag.Type)
			assert.Equal(t, tt.member.Name, diag.Member)
			assert.Equal(t, tt.message, diag.Message)
		})
	}
}

func TestResolver_RawContainerWithTarget(t *testing.T) {
	r := NewResolver(ownerDecl())
	m := field("pets", introspect.Declared("java.util.Set"),
		ann("javax.persistence.OneToMany", "targetEntity", "com.acme.Dog.class"))

	attr, err := r.Resolve(&m)
	require.NoError(t, err)
	assert.Equal(t, "SetAttribute<Owner, com.acme.Dog>", attr.DescriptorType())
}

func TestResolver_MissingType(t *testing.T) {
	r := NewResolver(ownerDecl())
	m := introspect.Member{Name: "broken", Kind: introspect.MemberField}

	attr, err := r.Resolve(&m)
	require.Error(t, err)
	assert.Equal(t, "SingularAttribute<Owner, java.lang.Object>", attr.DescriptorType())
}

func TestResolver_UnplacedNames(t *testing.T) {
	r := NewResolver(ownerDecl())
	dateTime := &introspect.TypeRef{Kind: introspect.KindDeclared, Name: "DateTime", Unresolved: true}
	interval := &introspect.TypeRef{Kind: introspect.KindDeclared, Name: "Interval", Unresolved: true}

	m := field("history", introspect.Declared("java.util.Map", dateTime, introspect.Declared("java.util.List", interval)))
	attr, err := r.Resolve(&m)
	require.Error(t, err)
	assert.Equal(t, "MapAttribute<Owner, DateTime, java.util.List<Interval>>", attr.DescriptorType())

	var diag errs.Diagnostic
	require.True(t, stderrors.As(err, &diag))
	assert.Equal(t, errs.ErrUnresolvedType, diag.Code)
	assert.Equal(t, errs.Warning, diag.Severity)
	assert.Equal(t, "history", diag.Member)
	assert.Contains(t, diag.Message, "DateTime, Interval")

	// the next member starts clean
	clean := field("name", stringType)
	_, err = r.Resolve(&clean)
	assert.NoError(t, err)

	// a relationship target replaces the unplaced declared type
	owner := field("owner", dateTime, ann("javax.persistence.ManyToOne", "targetEntity", "com.acme.Person.class"))
	attr, err = r.Resolve(&owner)
	require.NoError(t, err)
	assert.Equal(t, "com.acme.Person", attr.Element)
}

func TestGenericBoundTable(t *testing.T) {
	table := NewGenericBoundTable(ownerDecl(
		introspect.TypeParam{Name: "A", Bounds: []*introspect.TypeRef{
			introspect.Declared("com.acme.First"),
			introspect.Declared("com.acme.Second"),
		}},
		introspect.TypeParam{Name: "B"},
		introspect.TypeParam{Name: "C", Bounds: []*introspect.TypeRef{introspect.Declared("com.acme.Third")}},
	))

	bound, ok := table.Lookup(introspect.TypeVar("A"))
	require.True(t, ok)
	assert.Equal(t, "com.acme.First", bound.Name)

	bound, ok = table.Lookup(introspect.TypeVar("B"))
	require.True(t, ok)
	assert.Equal(t, introspect.ObjectType, bound.Name)

	bound, ok = table.Lookup(introspect.TypeVar("C"))
	require.True(t, ok)
	assert.Equal(t, "com.acme.Third", bound.Name)

	_, ok = table.Lookup(introspect.TypeVar("Z"))
	assert.False(t, ok)
	_, ok = table.Lookup(introspect.Declared("A", stringType))
	assert.False(t, ok)
	_, ok = table.Lookup(nil)
	assert.False(t, ok)
}

func TestBoxed(t *testing.T) {
	assert.Equal(t, "Integer", Boxed("int"))
	assert.Equal(t, "Character", Boxed("char"))
	assert.Equal(t, "java.lang.String", Boxed("java.lang.String"))
}
