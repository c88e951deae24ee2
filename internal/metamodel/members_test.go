package metamodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conduit-lang/metagen/internal/introspect"
)

func memberNames(members []introspect.Member) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return names
}

func accessDecl(access string, members ...introspect.Member) *introspect.TypeDecl {
	d := &introspect.TypeDecl{
		QualifiedName: "com.acme.Thing",
		SimpleName:    "Thing",
		Annotations:   []introspect.Annotation{entity()},
		Members:       members,
	}
	if access != "" {
		d.Annotations = append(d.Annotations, ann("javax.persistence.Access", "value", access))
	}
	return d
}

func TestResolveAccess(t *testing.T) {
	staticField := field("COUNT", introspect.Primitive("int"))
	staticField.Static = true

	members := []introspect.Member{
		field("name", stringType),
		staticField,
		getter("getName", stringType),
		setter("setName", stringType),
		getter("getTitle", stringType, ann("javax.persistence.Column", "name", "TITLE")),
		{Name: "Thing", Kind: introspect.MemberConstructor},
		getter("compute", stringType),
	}

	t.Run("explicit field", func(t *testing.T) {
		access, got := ResolveAccess(accessDecl("AccessType.FIELD", members...))
		assert.Equal(t, introspect.AccessField, access)
		assert.Equal(t, []string{"name"}, memberNames(got))
	})

	t.Run("explicit property", func(t *testing.T) {
		access, got := ResolveAccess(accessDecl("AccessType.PROPERTY", members...))
		assert.Equal(t, introspect.AccessProperty, access)
		assert.Equal(t, []string{"getName", "setName", "getTitle"}, memberNames(got))
	})

	t.Run("default with annotated getter", func(t *testing.T) {
		access, got := ResolveAccess(accessDecl("", members...))
		assert.Equal(t, introspect.AccessProperty, access)
		assert.Equal(t, []string{"getName", "setName", "getTitle"}, memberNames(got))
	})

	t.Run("default with annotated setter", func(t *testing.T) {
		access, _ := ResolveAccess(accessDecl("",
			field("name", stringType),
			setter("setName", stringType, ann("jakarta.persistence.Basic")),
		))
		assert.Equal(t, introspect.AccessProperty, access)
	})

	t.Run("default with non-persistence annotation", func(t *testing.T) {
		access, got := ResolveAccess(accessDecl("",
			field("name", stringType),
			getter("getName", stringType, ann("com.fasterxml.jackson.annotation.JsonIgnore")),
		))
		assert.Equal(t, introspect.AccessField, access)
		assert.Equal(t, []string{"name"}, memberNames(got))
	})

	t.Run("empty type", func(t *testing.T) {
		access, got := ResolveAccess(accessDecl(""))
		assert.Equal(t, introspect.AccessField, access)
		assert.Empty(t, got)
	})
}

func TestIsPersistentMember(t *testing.T) {
	transientKeyword := field("scratch", stringType)
	transientKeyword.TransientModifier = true

	tests := []struct {
		name     string
		member   introspect.Member
		expected bool
	}{
		{"field", field("name", stringType), true},
		{"getter", getter("getName", stringType), true},
		{"setter", setter("setName", stringType), false},
		{"transient annotation", field("cache", stringType, ann("javax.persistence.Transient")), false},
		{"jakarta transient on getter", getter("getCache", stringType, ann("jakarta.persistence.Transient")), false},
		{"transient keyword", transientKeyword, false},
		{"constructor", introspect.Member{Name: "Thing", Kind: introspect.MemberConstructor}, false},
		{"plain method", getter("compute", stringType), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPersistentMember(&tt.member))
		})
	}
}
