package metamodel

import (
	"fmt"
	"slices"
	"strings"

	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/introspect"
)

// RawPlaceholder stands in for a type argument that a raw container does not supply
const RawPlaceholder = introspect.ObjectType

var boxedPrimitives = map[string]string{
	"int":     "Integer",
	"long":    "Long",
	"short":   "Short",
	"float":   "Float",
	"double":  "Double",
	"char":    "Character",
	"byte":    "Byte",
	"boolean": "Boolean",
}

// Boxed returns the wrapper class name of a primitive keyword, or the name
// unchanged when it is not a primitive
func Boxed(primitive string) string {
	if boxed, ok := boxedPrimitives[primitive]; ok {
		return boxed
	}
	return primitive
}

// ResolvedAttribute is one generated attribute declaration
type ResolvedAttribute struct {
	Name     string   // member attribute name
	Category Category // value shape
	Owner    string   // simple name of the owning type
	Element  string   // element type; the value type for maps
	Key      string   // key type, maps only
}

// TypeArguments returns the descriptor's type arguments in declaration order
func (a ResolvedAttribute) TypeArguments() []string {
	if a.Category == Map {
		return []string{a.Owner, a.Key, a.Element}
	}
	return []string{a.Owner, a.Element}
}

// DescriptorType renders the full attribute type, e.g. SetAttribute<Person, java.lang.String>
func (a ResolvedAttribute) DescriptorType() string {
	return a.Category.Descriptor() + "<" + strings.Join(a.TypeArguments(), ", ") + ">"
}

// GenericBoundTable maps the type parameters of a type to the type that stands
// in for them: the first declared bound, or java.lang.Object when unbounded
type GenericBoundTable map[string]*introspect.TypeRef

// NewGenericBoundTable builds the table for a type's own parameters
func NewGenericBoundTable(d *introspect.TypeDecl) GenericBoundTable {
	table := make(GenericBoundTable, len(d.TypeParams))
	for _, p := range d.TypeParams {
		if len(p.Bounds) > 0 && p.Bounds[0] != nil {
			table[p.Name] = p.Bounds[0]
		} else {
			table[p.Name] = introspect.Declared(introspect.ObjectType)
		}
	}
	return table
}

// Lookup returns the substitute for a type that names one of the parameters
func (g GenericBoundTable) Lookup(t *introspect.TypeRef) (*introspect.TypeRef, bool) {
	if t == nil {
		return nil, false
	}
	if t.Kind != introspect.KindTypeVar && (t.Kind != introspect.KindDeclared || len(t.Args) > 0) {
		return nil, false
	}
	bound, ok := g[t.Name]
	return bound, ok
}

// Resolver resolves the attribute declarations of one persistent type
type Resolver struct {
	decl   *introspect.TypeDecl
	bounds GenericBoundTable

	unplaced []string // simple names met while rendering the current member
}

// NewResolver creates a resolver for a type
func NewResolver(d *introspect.TypeDecl) *Resolver {
	return &Resolver{
		decl:   d,
		bounds: NewGenericBoundTable(d),
	}
}

// Resolve produces the attribute for a persistent member. The returned
// attribute is always usable; a non-nil error is a warning-level
// errors.Diagnostic describing a type the generated class may not see: a raw
// container with no type argument (M001), or a simple name no import of the
// source places (M002), which is emitted as written.
func (r *Resolver) Resolve(m *introspect.Member) (ResolvedAttribute, error) {
	r.unplaced = nil
	name := m.AttributeName()
	attr := ResolvedAttribute{
		Name:     name,
		Category: Classify(m.Type.Erasure()),
		Owner:    r.decl.SimpleName,
	}
	if m.Type == nil {
		attr.Element = RawPlaceholder
		return attr, r.diagnostic(errs.ErrUnresolvedType, name, "member has no declared type")
	}

	target := introspect.Describe(m).TargetEntity
	var problems []string

	switch attr.Category {
	case Singular:
		attr.Element = r.singular(m.Type, target)
	case Map:
		key, ok := r.typeArgument(m.Type, 0, "")
		if !ok {
			problems = append(problems, "key")
		}
		value, ok := r.typeArgument(m.Type, 1, target)
		if !ok {
			problems = append(problems, "value")
		}
		attr.Key, attr.Element = key, value
	default:
		element, ok := r.typeArgument(m.Type, 0, target)
		if !ok {
			problems = append(problems, "element")
		}
		attr.Element = element
	}

	if len(r.unplaced) > 0 {
		return attr, r.diagnostic(errs.ErrUnresolvedType, name, fmt.Sprintf(
			"cannot qualify %s: no import names it and a wildcard import may supply it",
			strings.Join(r.unplaced, ", ")))
	}
	if len(problems) > 0 {
		return attr, r.diagnostic(errs.ErrRawContainer, name, fmt.Sprintf(
			"raw %s gives no %s type; using %s", m.Type.Erasure(), strings.Join(problems, " or "), RawPlaceholder))
	}
	return attr, nil
}

// singular applies: boxed primitive, then relationship target, then generic
// bound substitution, then the declared type itself
func (r *Resolver) singular(t *introspect.TypeRef, target string) string {
	if t.Kind == introspect.KindPrimitive {
		return Boxed(t.Name)
	}
	if target != "" {
		return target
	}
	return r.nestedName(t)
}

// typeArgument resolves the type argument at position. Arrays yield their
// component type. When target is set it wins over the argument. The boolean is
// false when a raw container supplies no argument.
func (r *Resolver) typeArgument(t *introspect.TypeRef, position int, target string) (string, bool) {
	if t.Kind == introspect.KindArray {
		return r.topName(t.Component), true
	}
	if target != "" {
		return target, true
	}
	arg := t.Arg(position)
	if arg == nil {
		return RawPlaceholder, false
	}
	return r.topName(arg), true
}

// topName renders a type used directly as a descriptor type argument:
// primitives are boxed and wildcards collapse to their upper bound
func (r *Resolver) topName(t *introspect.TypeRef) string {
	switch t.Kind {
	case introspect.KindPrimitive:
		return Boxed(t.Name)
	case introspect.KindWildcard:
		if t.Bound == nil || t.Super {
			return introspect.ObjectType
		}
		return r.topName(t.Bound)
	case introspect.KindNull:
		return RawPlaceholder
	}
	return r.nestedName(t)
}

// nestedName renders a type in source form with the owner's type parameters
// substituted by their bounds
func (r *Resolver) nestedName(t *introspect.TypeRef) string {
	return r.render(t, map[string]bool{})
}

// render substitutes type parameters while tracking the ones being expanded;
// a parameter met again inside its own bound (T extends Comparable<T>) is
// rendered as an unbounded wildcard
func (r *Resolver) render(t *introspect.TypeRef, expanding map[string]bool) string {
	if bound, ok := r.bounds.Lookup(t); ok {
		if expanding[t.Name] {
			return "?"
		}
		expanding[t.Name] = true
		defer delete(expanding, t.Name)
		return r.render(bound, expanding)
	}
	switch t.Kind {
	case introspect.KindDeclared:
		if t.Unresolved && !slices.Contains(r.unplaced, t.Name) {
			r.unplaced = append(r.unplaced, t.Name)
		}
		if len(t.Args) == 0 {
			return t.Name
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = r.render(a, expanding)
		}
		return t.Name + "<" + strings.Join(args, ", ") + ">"
	case introspect.KindArray:
		return r.render(t.Component, expanding) + "[]"
	case introspect.KindWildcard:
		if t.Bound == nil {
			return "?"
		}
		if t.Super {
			return "? super " + r.render(t.Bound, expanding)
		}
		return "? extends " + r.render(t.Bound, expanding)
	case introspect.KindNull:
		return RawPlaceholder
	default:
		return t.Name
	}
}

func (r *Resolver) diagnostic(code, member, message string) error {
	return errs.New(errs.PhaseResolve, code, message, errs.Warning).
		ForType(r.decl.QualifiedName).
		ForMember(member)
}
