package introspect

import (
	"strings"
)

// Persistence annotation namespaces. Both the javax and jakarta flavours of
// the API are recognised on input.
var persistenceNamespaces = []string{"javax.persistence", "jakarta.persistence"}

// Local names of the persistence annotations metagen reads
const (
	AnnEntity           = "Entity"
	AnnEmbeddable       = "Embeddable"
	AnnMappedSuperclass = "MappedSuperclass"
	AnnAccess           = "Access"
	AnnTransient        = "Transient"
	AnnOneToOne         = "OneToOne"
	AnnOneToMany        = "OneToMany"
	AnnManyToOne        = "ManyToOne"
	AnnManyToMany       = "ManyToMany"
)

// relationshipAnnotations carry a "targetEntity" attribute, checked in this order
var relationshipAnnotations = []string{AnnOneToOne, AnnOneToMany, AnnManyToOne, AnnManyToMany}

// AccessType is the persistent access strategy declared with @Access
type AccessType int

const (
	AccessDefault AccessType = iota
	AccessField
	AccessProperty
)

// String returns the string representation of the access type
func (a AccessType) String() string {
	switch a {
	case AccessField:
		return "FIELD"
	case AccessProperty:
		return "PROPERTY"
	default:
		return "DEFAULT"
	}
}

// PersistenceNames expands a local annotation name into its qualified names in
// every supported namespace
func PersistenceNames(local string) []string {
	names := make([]string, len(persistenceNamespaces))
	for i, ns := range persistenceNamespaces {
		names[i] = ns + "." + local
	}
	return names
}

// IsPersistenceAnnotation reports whether the annotation type lives in a
// persistence namespace
func IsPersistenceAnnotation(annotationType string) bool {
	for _, ns := range persistenceNamespaces {
		if strings.HasPrefix(annotationType, ns+".") {
			return true
		}
	}
	return false
}

// IsPersistent reports whether a type is an entity, embeddable or mapped superclass
func IsPersistent(d *TypeDecl) bool {
	return PersistenceKind(d) != ""
}

// PersistenceKind returns the local name of the annotation that makes a type
// persistent, or "" when it has none
func PersistenceKind(d *TypeDecl) string {
	if d == nil {
		return ""
	}
	for _, local := range []string{AnnEntity, AnnMappedSuperclass, AnnEmbeddable} {
		if _, ok := d.Annotation(PersistenceNames(local)...); ok {
			return local
		}
	}
	return ""
}

// AccessOf returns the access strategy declared on a type
func AccessOf(d *TypeDecl) AccessType {
	ann, ok := d.Annotation(PersistenceNames(AnnAccess)...)
	if !ok {
		return AccessDefault
	}
	value, _ := ann.Value("value")
	switch SimpleName(strings.TrimSpace(value)) {
	case "FIELD":
		return AccessField
	case "PROPERTY":
		return AccessProperty
	default:
		return AccessDefault
	}
}

// MemberDescriptor holds the annotation facts of a member that affect generation
type MemberDescriptor struct {
	Transient    bool   // @Transient present
	TargetEntity string // explicit relationship target, empty when absent
	Persistence  bool   // any persistence-namespace annotation present
}

// Describe resolves the annotation facts of a member
func Describe(m *Member) MemberDescriptor {
	var d MemberDescriptor
	for _, a := range m.Annotations {
		if IsPersistenceAnnotation(a.Type) {
			d.Persistence = true
		}
	}
	if _, ok := m.Annotation(PersistenceNames(AnnTransient)...); ok {
		d.Transient = true
	}
	for _, local := range relationshipAnnotations {
		ann, ok := m.Annotation(PersistenceNames(local)...)
		if !ok {
			continue
		}
		target, ok := ann.Value("targetEntity")
		target = strings.TrimSuffix(strings.TrimSpace(target), ".class")
		if ok && target != "" && target != "void" {
			d.TargetEntity = target
			break
		}
	}
	return d
}
