// Package manifest loads type declarations from YAML or JSON manifests.
//
// A manifest describes one package:
//
//	package: com.acme
//	imports: [java.util.*]
//	types:
//	  - name: Person
//	    annotations: [javax.persistence.Entity]
//	    members:
//	      - name: tags
//	        type: Set<String>
//
// Type names follow Java scoping: simple names resolve against imports, the
// manifest's package, then java.lang.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/introspect"
)

// Format is the serialization of a manifest document
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatOf picks the format from a file extension
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	default:
		return FormatYAML, false
	}
}

// Document is the on-disk form of a manifest
type Document struct {
	Package string     `yaml:"package" json:"package"`
	Imports []string   `yaml:"imports,omitempty" json:"imports,omitempty"`
	Types   []TypeSpec `yaml:"types" json:"types"`
}

// TypeSpec describes one type
type TypeSpec struct {
	Name        string           `yaml:"name" json:"name"`
	Extends     string           `yaml:"extends,omitempty" json:"extends,omitempty"`
	TypeParams  []TypeParamSpec  `yaml:"type_params,omitempty" json:"type_params,omitempty"`
	Annotations []AnnotationSpec `yaml:"annotations,omitempty" json:"annotations,omitempty"`
	Members     []MemberSpec     `yaml:"members,omitempty" json:"members,omitempty"`
}

// TypeParamSpec describes a generic parameter and its bounds
type TypeParamSpec struct {
	Name   string   `yaml:"name" json:"name"`
	Bounds []string `yaml:"bounds,omitempty" json:"bounds,omitempty"`
}

// MemberSpec describes a field, method or constructor
type MemberSpec struct {
	Name        string           `yaml:"name" json:"name"`
	Kind        string           `yaml:"kind,omitempty" json:"kind,omitempty"` // field (default), method, constructor
	Type        string           `yaml:"type,omitempty" json:"type,omitempty"` // field type or return type
	Params      []string         `yaml:"params,omitempty" json:"params,omitempty"`
	Static      bool             `yaml:"static,omitempty" json:"static,omitempty"`
	Transient   bool             `yaml:"transient,omitempty" json:"transient,omitempty"`
	Annotations []AnnotationSpec `yaml:"annotations,omitempty" json:"annotations,omitempty"`
}

// AnnotationSpec is an annotation. A bare string is shorthand for an
// annotation without values.
type AnnotationSpec introspect.Annotation

// UnmarshalYAML accepts either a scalar or a mapping
func (a *AnnotationSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		a.Type = node.Value
		return nil
	}
	var full introspect.Annotation
	if err := node.Decode(&full); err != nil {
		return err
	}
	*a = AnnotationSpec(full)
	return nil
}

// UnmarshalJSON accepts either a string or an object
func (a *AnnotationSpec) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		a.Type = name
		return nil
	}
	var full introspect.Annotation
	if err := json.Unmarshal(data, &full); err != nil {
		return err
	}
	*a = AnnotationSpec(full)
	return nil
}

// Decode parses a manifest document
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON manifest: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML manifest: %w", err)
		}
	}
	return &doc, nil
}

// Parse decodes and builds one manifest file
func Parse(data []byte, format Format, origin string) (*introspect.Unit, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, errs.New(errs.PhaseLoad, errs.ErrSourceLoad, fmt.Sprintf("%s: %v", origin, err), errs.Error).
			WithCause(err)
	}
	return Build(doc, origin)
}

// Build converts a document into declarations. origin names the document in errors.
func Build(doc *Document, origin string) (*introspect.Unit, error) {
	unit := &introspect.Unit{Origin: origin, Scope: &introspect.Scope{Package: doc.Package}}
	for _, imp := range doc.Imports {
		unit.Scope.AddImport(imp)
	}

	for i := range doc.Types {
		d, err := buildType(doc.Package, &doc.Types[i])
		if err != nil {
			return nil, errs.New(errs.PhaseLoad, errs.ErrInvalidTypeExpr, fmt.Sprintf("%s: %v", origin, err), errs.Error).
				ForType(qualify(doc.Package, doc.Types[i].Name)).
				WithCause(err)
		}
		unit.Decls = append(unit.Decls, d)
	}
	return unit, nil
}

func buildType(pkg string, spec *TypeSpec) (*introspect.TypeDecl, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("type without a name")
	}
	d := &introspect.TypeDecl{
		QualifiedName: qualify(pkg, spec.Name),
		Annotations:   annotations(spec.Annotations),
	}
	d.SimpleName = introspect.SimpleName(d.QualifiedName)
	d.Package = introspect.PackageOf(d.QualifiedName)

	typeVars := make(map[string]bool, len(spec.TypeParams))
	for _, p := range spec.TypeParams {
		typeVars[p.Name] = true
	}
	for _, p := range spec.TypeParams {
		param := introspect.TypeParam{Name: p.Name}
		for _, b := range p.Bounds {
			bound, err := ParseType(b, typeVars)
			if err != nil {
				return nil, fmt.Errorf("bound of %s: %w", p.Name, err)
			}
			param.Bounds = append(param.Bounds, bound)
		}
		d.TypeParams = append(d.TypeParams, param)
	}

	if spec.Extends != "" {
		super, err := ParseType(spec.Extends, typeVars)
		if err != nil {
			return nil, fmt.Errorf("superclass: %w", err)
		}
		d.Super = super
	}

	for i := range spec.Members {
		m, err := buildMember(&spec.Members[i], typeVars)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", spec.Members[i].Name, err)
		}
		d.Members = append(d.Members, m)
	}
	return d, nil
}

func buildMember(spec *MemberSpec, typeVars map[string]bool) (introspect.Member, error) {
	m := introspect.Member{
		Name:              spec.Name,
		Static:            spec.Static,
		TransientModifier: spec.Transient,
		Annotations:       annotations(spec.Annotations),
	}
	switch spec.Kind {
	case "", "field":
		m.Kind = introspect.MemberField
	case "method":
		m.Kind = introspect.MemberMethod
	case "constructor":
		m.Kind = introspect.MemberConstructor
	default:
		return m, fmt.Errorf("unknown member kind %q", spec.Kind)
	}

	typ := spec.Type
	if typ == "" && m.Kind != introspect.MemberField {
		typ = introspect.VoidType
	}
	if typ != "" {
		t, err := ParseType(typ, typeVars)
		if err != nil {
			return m, err
		}
		m.Type = t
	}
	for _, p := range spec.Params {
		t, err := ParseType(p, typeVars)
		if err != nil {
			return m, err
		}
		m.Params = append(m.Params, t)
	}
	return m, nil
}

func annotations(specs []AnnotationSpec) []introspect.Annotation {
	if len(specs) == 0 {
		return nil
	}
	out := make([]introspect.Annotation, len(specs))
	for i, s := range specs {
		out[i] = introspect.Annotation(s)
	}
	return out
}

func qualify(pkg, name string) string {
	if pkg == "" || strings.Contains(name, ".") {
		return name
	}
	return pkg + "." + name
}
