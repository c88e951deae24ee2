package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/metagen/internal/introspect"
)

func TestParseType(t *testing.T) {
	typeVars := map[string]bool{"T": true, "K": true}

	tests := []struct {
		expr     string
		kind     introspect.TypeKind
		rendered string
	}{
		{"int", introspect.KindPrimitive, "int"},
		{"void", introspect.KindPrimitive, "void"},
		{"java.lang.String", introspect.KindDeclared, "java.lang.String"},
		{"String", introspect.KindDeclared, "String"},
		{"T", introspect.KindTypeVar, "T"},
		{"byte[]", introspect.KindArray, "byte[]"},
		{"String[][]", introspect.KindArray, "String[][]"},
		{"java.util.Set<java.lang.String>", introspect.KindDeclared, "java.util.Set<java.lang.String>"},
		{"Map< K , List<T> >", introspect.KindDeclared, "Map<K, List<T>>"},
		{"List<?>", introspect.KindDeclared, "List<?>"},
		{"List<? extends Number>", introspect.KindDeclared, "List<? extends Number>"},
		{"Comparable<? super T>", introspect.KindDeclared, "Comparable<? super T>"},
		{"List<int[]>", introspect.KindDeclared, "List<int[]>"},
		{"$Proxy_1", introspect.KindDeclared, "$Proxy_1"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseType(tt.expr, typeVars)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.rendered, got.String())
		})
	}
}

func TestParseType_Structure(t *testing.T) {
	got, err := ParseType("java.util.Map<java.lang.String, T>", map[string]bool{"T": true})
	require.NoError(t, err)

	assert.Equal(t, "java.util.Map", got.Name)
	require.Len(t, got.Args, 2)
	assert.Equal(t, introspect.KindDeclared, got.Args[0].Kind)
	assert.Equal(t, introspect.KindTypeVar, got.Args[1].Kind)
}

func TestParseType_Errors(t *testing.T) {
	tests := []struct {
		expr    string
		message string
	}{
		{"", "empty type"},
		{"   ", "empty type"},
		{"List<", "expected a type name"},
		{"List<String", "expected '>' to close type arguments"},
		{"List<String>>", "unexpected \">\" after type"},
		{"int[", "expected ']'"},
		{"?", "wildcard outside a type argument list"},
		{"List<? implements X>", "expected 'extends' or 'super' after '?'"},
		{"List<void>", "void is not a type argument"},
		{"java..String", "malformed qualified name"},
		{"java.", "malformed qualified name"},
		{"Map<String; Integer>", "unexpected character ';'"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ParseType(tt.expr, nil)
			require.Error(t, err)

			var exprErr *TypeExprError
			require.ErrorAs(t, err, &exprErr)
			assert.Equal(t, tt.expr, exprErr.Expr)
			assert.Contains(t, exprErr.Message, tt.message)
		})
	}
}
