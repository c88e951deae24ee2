// Package introspect models the type information metagen consumes: type
// declarations, their members and annotations, and the type expressions that
// appear in member signatures. A Universe is a read-only snapshot of that
// information for the duration of one generation pass.
package introspect

import (
	"strings"
)

// TypeKind classifies the shape of a type expression
type TypeKind int

const (
	KindDeclared TypeKind = iota
	KindPrimitive
	KindArray
	KindTypeVar
	KindWildcard
	KindNull
)

// String returns the string representation of the type kind
func (k TypeKind) String() string {
	switch k {
	case KindDeclared:
		return "declared"
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindTypeVar:
		return "typevar"
	case KindWildcard:
		return "wildcard"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Well-known type names
const (
	ObjectType = "java.lang.Object"
	VoidType   = "void"
)

// TypeRef is a type expression as written in a member signature
type TypeRef struct {
	Kind      TypeKind
	Name      string     // erasure name: qualified class name, primitive keyword or type variable name
	Args      []*TypeRef // type arguments of a declared type
	Component *TypeRef   // component type of an array
	Bound     *TypeRef   // bound of a wildcard, nil for an unbounded "?"
	Super     bool       // wildcard bound is "? super", not "? extends"

	// Unresolved marks a simple name that no import could place
	Unresolved bool
}

// Declared creates a declared (class or interface) type reference
func Declared(name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: KindDeclared, Name: name, Args: args}
}

// Primitive creates a primitive type reference
func Primitive(name string) *TypeRef {
	return &TypeRef{Kind: KindPrimitive, Name: name}
}

// ArrayOf creates an array type reference
func ArrayOf(component *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindArray, Component: component}
}

// TypeVar creates a reference to a type variable
func TypeVar(name string) *TypeRef {
	return &TypeRef{Kind: KindTypeVar, Name: name}
}

// Wildcard creates a wildcard type argument; bound may be nil
func Wildcard(bound *TypeRef, super bool) *TypeRef {
	return &TypeRef{Kind: KindWildcard, Bound: bound, Super: super}
}

// NullType is the placeholder for a type that could not be determined
func NullType() *TypeRef {
	return &TypeRef{Kind: KindNull}
}

var primitives = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"void":    true,
}

// IsPrimitiveName reports whether name is a Java primitive keyword (including void)
func IsPrimitiveName(name string) bool {
	return primitives[name]
}

// IsVoid reports whether the reference denotes "void" or is absent
func (t *TypeRef) IsVoid() bool {
	return t == nil || (t.Kind == KindPrimitive && t.Name == VoidType)
}

// Erasure returns the raw name of the type with all type arguments removed
func (t *TypeRef) Erasure() string {
	if t == nil {
		return "null"
	}
	switch t.Kind {
	case KindArray:
		return t.Component.Erasure() + "[]"
	case KindWildcard:
		if t.Bound == nil || t.Super {
			return ObjectType
		}
		return t.Bound.Erasure()
	case KindNull:
		return "null"
	default:
		return t.Name
	}
}

// String renders the type in Java source form
func (t *TypeRef) String() string {
	if t == nil {
		return "null"
	}
	switch t.Kind {
	case KindDeclared:
		if len(t.Args) == 0 {
			return t.Name
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		return t.Name + "<" + strings.Join(args, ", ") + ">"
	case KindArray:
		return t.Component.String() + "[]"
	case KindWildcard:
		if t.Bound == nil {
			return "?"
		}
		if t.Super {
			return "? super " + t.Bound.String()
		}
		return "? extends " + t.Bound.String()
	case KindNull:
		return "null"
	default:
		return t.Name
	}
}

// Arg returns the type argument at position, or nil when the type is raw or
// has fewer arguments
func (t *TypeRef) Arg(position int) *TypeRef {
	if t == nil || t.Kind != KindDeclared || position < 0 || position >= len(t.Args) {
		return nil
	}
	return t.Args[position]
}

// SimpleName returns the last segment of a qualified name
func SimpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// PackageOf returns everything before the last segment of a qualified name
func PackageOf(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[:i]
	}
	return ""
}
