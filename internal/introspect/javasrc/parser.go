// Package javasrc loads type declarations by parsing Java source files with
// tree-sitter. Only top-level classes are read; interfaces, enums, records and
// nested classes are skipped. Type names are kept as written and qualified
// later by introspect.Link using the file's package and imports.
package javasrc

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/introspect"
)

var javaLanguage = sitter.NewLanguage(tree_sitter_java.Language())

// Parser turns Java compilation units into introspect units. A Parser is not
// safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a parser for the Java grammar. Callers must Close it.
func NewParser() (*Parser, error) {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(javaLanguage); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to load Java grammar: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Close releases the underlying parser
func (p *Parser) Close() {
	p.parser.Close()
}

// Parse reads one compilation unit. origin names the file in errors.
func (p *Parser) Parse(src []byte, origin string) (*introspect.Unit, error) {
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, loadError(origin, "parser returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, loadError(origin, "parser returned no tree")
	}
	if root.HasError() {
		return nil, loadError(origin, fmt.Sprintf("syntax error near line %d", firstErrorLine(root)))
	}

	u := &unitBuilder{src: src, unit: &introspect.Unit{Origin: origin, Scope: &introspect.Scope{}}}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		node := root.NamedChild(i)
		if node == nil {
			continue
		}
		switch node.Kind() {
		case "package_declaration":
			u.unit.Scope.Package = u.qualifiedIdentifier(node)
		case "import_declaration":
			u.addImport(node)
		case "class_declaration":
			u.unit.Decls = append(u.unit.Decls, u.classDecl(node))
		case "interface_declaration", "enum_declaration", "record_declaration", "annotation_type_declaration":
			// not generated from, but still names a type other units may use
			if name := node.ChildByFieldName("name"); name != nil {
				u.unit.Names = append(u.unit.Names, u.qualify(u.text(name)))
			}
		}
	}
	return u.unit, nil
}

func loadError(origin, message string) error {
	return errs.New(errs.PhaseLoad, errs.ErrSourceLoad, origin+": "+message, errs.Error)
}

func firstErrorLine(root *sitter.Node) uint {
	var line uint
	walkPreOrder(root, func(n *sitter.Node) bool {
		if n.IsError() || n.IsMissing() {
			line = n.StartPosition().Row + 1
			return false
		}
		return true
	})
	return line
}

// walkPreOrder visits nodes depth first until visit returns false
func walkPreOrder(root *sitter.Node, visit func(*sitter.Node) bool) {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(node) {
			return
		}
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(uint(i)); child != nil {
				stack = append(stack, child)
			}
		}
	}
}

type unitBuilder struct {
	src  []byte
	unit *introspect.Unit
}

func (u *unitBuilder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(u.src)
}

// compact drops the whitespace tree-sitter keeps inside multi-token names
func (u *unitBuilder) compact(n *sitter.Node) string {
	return strings.Join(strings.Fields(u.text(n)), "")
}

func (u *unitBuilder) qualifiedIdentifier(n *sitter.Node) string {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "scoped_identifier", "identifier":
			return u.compact(child)
		}
	}
	return ""
}

func (u *unitBuilder) addImport(n *sitter.Node) {
	path := ""
	onDemand := false
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "static":
			// static imports bring in members, never types
			return
		case "scoped_identifier", "identifier":
			path = u.compact(child)
		case "asterisk":
			onDemand = true
		}
	}
	if path == "" {
		return
	}
	if onDemand {
		path += ".*"
	}
	u.unit.Scope.AddImport(path)
}

// qualify places a top-level type name in the unit's package
func (u *unitBuilder) qualify(simple string) string {
	if u.unit.Scope.Package == "" {
		return simple
	}
	return u.unit.Scope.Package + "." + simple
}

func (u *unitBuilder) classDecl(n *sitter.Node) *introspect.TypeDecl {
	d := &introspect.TypeDecl{SimpleName: u.text(n.ChildByFieldName("name"))}
	d.Package = u.unit.Scope.Package
	d.QualifiedName = u.qualify(d.SimpleName)

	if mods := childOfKind(n, "modifiers"); mods != nil {
		d.Annotations, _, _ = u.modifiers(mods)
	}

	typeVars := map[string]bool{}
	if params := n.ChildByFieldName("type_parameters"); params != nil {
		d.TypeParams = u.typeParams(params, typeVars)
	}
	if super := n.ChildByFieldName("superclass"); super != nil && super.NamedChildCount() > 0 {
		d.Super = u.typeRef(super.NamedChild(super.NamedChildCount()-1), typeVars)
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return d
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		switch member.Kind() {
		case "field_declaration":
			d.Members = append(d.Members, u.fields(member, typeVars)...)
		case "method_declaration":
			d.Members = append(d.Members, u.method(member, typeVars))
		case "constructor_declaration":
			d.Members = append(d.Members, u.constructor(member, typeVars))
		}
	}
	return d
}

// typeParams registers every parameter name before reading bounds so that
// bounds may refer to any parameter of the list
func (u *unitBuilder) typeParams(n *sitter.Node, typeVars map[string]bool) []introspect.TypeParam {
	var params []*sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child.Kind() == "type_parameter" {
			params = append(params, child)
			typeVars[u.typeParamName(child)] = true
		}
	}

	out := make([]introspect.TypeParam, 0, len(params))
	for _, p := range params {
		tp := introspect.TypeParam{Name: u.typeParamName(p)}
		if bound := childOfKind(p, "type_bound"); bound != nil {
			for i := uint(0); i < bound.NamedChildCount(); i++ {
				tp.Bounds = append(tp.Bounds, u.typeRef(bound.NamedChild(i), typeVars))
			}
		}
		out = append(out, tp)
	}
	return out
}

func (u *unitBuilder) typeParamName(n *sitter.Node) string {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "type_identifier" || child.Kind() == "identifier" {
			return u.text(child)
		}
	}
	return ""
}

func (u *unitBuilder) fields(n *sitter.Node, typeVars map[string]bool) []introspect.Member {
	var annotations []introspect.Annotation
	var static, transient bool
	if mods := childOfKind(n, "modifiers"); mods != nil {
		annotations, static, transient = u.modifiers(mods)
	}
	typ := u.typeRef(n.ChildByFieldName("type"), typeVars)

	var members []introspect.Member
	for i := uint(0); i < n.NamedChildCount(); i++ {
		decl := n.NamedChild(i)
		if decl.Kind() != "variable_declarator" {
			continue
		}
		members = append(members, introspect.Member{
			Name:              u.text(decl.ChildByFieldName("name")),
			Kind:              introspect.MemberField,
			Type:              withDimensions(typ, u.dimensions(decl.ChildByFieldName("dimensions"))),
			Static:            static,
			TransientModifier: transient,
			Annotations:       annotations,
		})
	}
	return members
}

func (u *unitBuilder) method(n *sitter.Node, classVars map[string]bool) introspect.Member {
	typeVars := classVars
	if params := n.ChildByFieldName("type_parameters"); params != nil {
		typeVars = make(map[string]bool, len(classVars))
		for k := range classVars {
			typeVars[k] = true
		}
		u.typeParams(params, typeVars)
	}

	m := introspect.Member{
		Name: u.text(n.ChildByFieldName("name")),
		Kind: introspect.MemberMethod,
		Type: withDimensions(u.typeRef(n.ChildByFieldName("type"), typeVars), u.dimensions(n.ChildByFieldName("dimensions"))),
	}
	if mods := childOfKind(n, "modifiers"); mods != nil {
		m.Annotations, m.Static, _ = u.modifiers(mods)
	}
	m.Params = u.formalParams(n.ChildByFieldName("parameters"), typeVars)
	return m
}

func (u *unitBuilder) constructor(n *sitter.Node, typeVars map[string]bool) introspect.Member {
	m := introspect.Member{
		Name: u.text(n.ChildByFieldName("name")),
		Kind: introspect.MemberConstructor,
	}
	if mods := childOfKind(n, "modifiers"); mods != nil {
		m.Annotations, _, _ = u.modifiers(mods)
	}
	m.Params = u.formalParams(n.ChildByFieldName("parameters"), typeVars)
	return m
}

func (u *unitBuilder) formalParams(n *sitter.Node, typeVars map[string]bool) []*introspect.TypeRef {
	if n == nil {
		return nil
	}
	var params []*introspect.TypeRef
	for i := uint(0); i < n.NamedChildCount(); i++ {
		p := n.NamedChild(i)
		switch p.Kind() {
		case "formal_parameter":
			typ := u.typeRef(p.ChildByFieldName("type"), typeVars)
			params = append(params, withDimensions(typ, u.dimensions(p.ChildByFieldName("dimensions"))))
		case "spread_parameter":
			for j := uint(0); j < p.NamedChildCount(); j++ {
				child := p.NamedChild(j)
				if child.Kind() != "modifiers" && child.Kind() != "variable_declarator" {
					params = append(params, introspect.ArrayOf(u.typeRef(child, typeVars)))
					break
				}
			}
		}
	}
	return params
}

// modifiers collects annotations and the static and transient keywords
func (u *unitBuilder) modifiers(n *sitter.Node) (annotations []introspect.Annotation, static, transient bool) {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "static":
			static = true
		case "transient":
			transient = true
		case "marker_annotation", "annotation":
			annotations = append(annotations, u.annotation(child))
		}
	}
	return annotations, static, transient
}

func (u *unitBuilder) annotation(n *sitter.Node) introspect.Annotation {
	a := introspect.Annotation{Type: u.compact(n.ChildByFieldName("name"))}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return a
	}
	a.Values = make(map[string]string)
	for i := uint(0); i < args.NamedChildCount(); i++ {
		arg := args.NamedChild(i)
		if arg.Kind() == "element_value_pair" {
			a.Values[u.text(arg.ChildByFieldName("key"))] = u.elementValue(arg.ChildByFieldName("value"))
			continue
		}
		a.Values["value"] = u.elementValue(arg)
	}
	return a
}

// elementValue renders an annotation element: class literals as their type
// name, string literals unquoted, anything else as written
func (u *unitBuilder) elementValue(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "class_literal":
		if n.NamedChildCount() > 0 {
			return u.compact(n.NamedChild(0))
		}
	case "string_literal":
		return strings.Trim(u.text(n), `"`)
	}
	return u.compact(n)
}

func (u *unitBuilder) typeRef(n *sitter.Node, typeVars map[string]bool) *introspect.TypeRef {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "integral_type", "floating_point_type", "boolean_type", "void_type":
		return introspect.Primitive(u.text(n))
	case "type_identifier":
		name := u.text(n)
		if typeVars[name] {
			return introspect.TypeVar(name)
		}
		return introspect.Declared(name)
	case "scoped_type_identifier":
		return introspect.Declared(u.scopedName(n))
	case "generic_type":
		t := &introspect.TypeRef{Kind: introspect.KindDeclared}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			switch child.Kind() {
			case "type_identifier":
				t.Name = u.text(child)
			case "scoped_type_identifier":
				t.Name = u.scopedName(child)
			case "type_arguments":
				t.Args = u.typeArguments(child, typeVars)
			}
		}
		return t
	case "array_type":
		element := u.typeRef(n.ChildByFieldName("element"), typeVars)
		return withDimensions(element, u.dimensions(n.ChildByFieldName("dimensions")))
	case "annotated_type":
		// type-use annotations do not change the type
		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			child := n.NamedChild(uint(i))
			if child.Kind() != "marker_annotation" && child.Kind() != "annotation" {
				return u.typeRef(child, typeVars)
			}
		}
		return introspect.NullType()
	case "wildcard":
		return u.wildcard(n, typeVars)
	default:
		return introspect.Declared(u.compact(n))
	}
}

// scopedName renders a qualified type name, dropping type-use annotations
// written between its segments
func (u *unitBuilder) scopedName(n *sitter.Node) string {
	var parts []string
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "scoped_type_identifier":
			parts = append(parts, u.scopedName(child))
		case "type_identifier", "identifier":
			parts = append(parts, u.text(child))
		}
	}
	if len(parts) == 0 {
		return u.compact(n)
	}
	return strings.Join(parts, ".")
}

func (u *unitBuilder) typeArguments(n *sitter.Node, typeVars map[string]bool) []*introspect.TypeRef {
	var args []*introspect.TypeRef
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "marker_annotation" || child.Kind() == "annotation" {
			continue
		}
		args = append(args, u.typeRef(child, typeVars))
	}
	return args
}

func (u *unitBuilder) wildcard(n *sitter.Node, typeVars map[string]bool) *introspect.TypeRef {
	super := false
	var bound *introspect.TypeRef
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "super":
			super = true
		case "?", "extends", "marker_annotation", "annotation":
		default:
			if child.IsNamed() {
				bound = u.typeRef(child, typeVars)
			}
		}
	}
	return introspect.Wildcard(bound, super)
}

// dimensions counts the bracket pairs of a dimensions node
func (u *unitBuilder) dimensions(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return strings.Count(u.text(n), "[")
}

func withDimensions(t *introspect.TypeRef, dims int) *introspect.TypeRef {
	for i := 0; i < dims; i++ {
		t = introspect.ArrayOf(t)
	}
	return t
}

func childOfKind(n *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}
