package introspect

import (
	"strings"
	"unicode"
)

// MemberKind classifies an enclosed element of a type
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberConstructor
)

// String returns the string representation of the member kind
func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberMethod:
		return "method"
	case MemberConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// Annotation is an annotation applied to a type or member. Class literal
// values hold the qualified class name; enum constants keep the form they
// were written in (e.g. "AccessType.FIELD").
type Annotation struct {
	Type   string            `json:"type" yaml:"type"`
	Values map[string]string `json:"values,omitempty" yaml:"values,omitempty"`
}

// Value returns a named annotation attribute
func (a Annotation) Value(name string) (string, bool) {
	v, ok := a.Values[name]
	return v, ok
}

// TypeParam is a generic parameter declared on a type
type TypeParam struct {
	Name   string
	Bounds []*TypeRef
}

// Member is a field, method or constructor enclosed by a type
type Member struct {
	Name              string
	Kind              MemberKind
	Type              *TypeRef   // field type or method return type
	Params            []*TypeRef // method parameter types
	Static            bool
	TransientModifier bool // Java "transient" keyword
	Annotations       []Annotation
}

// IsField reports whether the member is a field
func (m *Member) IsField() bool {
	return m.Kind == MemberField
}

// IsGetter reports whether the member is a JavaBean getter: getX() returning
// a value, or isX() returning boolean
func (m *Member) IsGetter() bool {
	if m.Kind != MemberMethod || len(m.Params) != 0 || m.Type.IsVoid() {
		return false
	}
	if hasAccessorPrefix(m.Name, "get") {
		return true
	}
	return hasAccessorPrefix(m.Name, "is") && m.Type.Kind == KindPrimitive && m.Type.Name == "boolean"
}

// IsSetter reports whether the member is a JavaBean setter: void setX(v)
func (m *Member) IsSetter() bool {
	return m.Kind == MemberMethod &&
		len(m.Params) == 1 &&
		m.Type.IsVoid() &&
		hasAccessorPrefix(m.Name, "set")
}

// IsAccessor reports whether the member is a getter or a setter
func (m *Member) IsAccessor() bool {
	return m.IsGetter() || m.IsSetter()
}

// AttributeName returns the persistent attribute name of the member: the field
// name, or the decapitalized property name of an accessor
func (m *Member) AttributeName() string {
	if !m.IsAccessor() {
		return m.Name
	}
	for _, prefix := range []string{"get", "set", "is"} {
		if hasAccessorPrefix(m.Name, prefix) {
			return Decapitalize(m.Name[len(prefix):])
		}
	}
	return m.Name
}

// Annotation returns the first annotation whose type matches one of names
func (m *Member) Annotation(names ...string) (Annotation, bool) {
	return findAnnotation(m.Annotations, names)
}

func hasAccessorPrefix(name, prefix string) bool {
	if len(name) <= len(prefix) || !strings.HasPrefix(name, prefix) {
		return false
	}
	r := rune(name[len(prefix)])
	return unicode.IsUpper(r) || r == '_' || r == '$'
}

// Decapitalize follows java.beans.Introspector: the first character is
// lowered unless the first two characters are both upper case ("URL" stays "URL")
func Decapitalize(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	if len(runes) > 1 && unicode.IsUpper(runes[0]) && unicode.IsUpper(runes[1]) {
		return name
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// TypeDecl is a top-level class declaration
type TypeDecl struct {
	QualifiedName string
	SimpleName    string
	Package       string
	TypeParams    []TypeParam
	Super         *TypeRef // declared superclass, nil when none is written
	Members       []Member
	Annotations   []Annotation
}

// Annotation returns the first annotation whose type matches one of names
func (d *TypeDecl) Annotation(names ...string) (Annotation, bool) {
	return findAnnotation(d.Annotations, names)
}

// Fields returns the declared fields in declaration order
func (d *TypeDecl) Fields() []Member {
	var fields []Member
	for _, m := range d.Members {
		if m.IsField() {
			fields = append(fields, m)
		}
	}
	return fields
}

func findAnnotation(annotations []Annotation, names []string) (Annotation, bool) {
	for _, a := range annotations {
		for _, name := range names {
			if a.Type == name {
				return a, true
			}
		}
	}
	return Annotation{}, false
}
