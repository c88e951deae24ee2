package introspect

import (
	"strings"
)

// java.lang types commonly met in persistent member signatures. They are
// visible by simple name in every compilation unit.
var javaLang = set(
	"Object", "String", "CharSequence", "StringBuilder", "StringBuffer",
	"Integer", "Long", "Short", "Byte", "Character", "Boolean", "Float", "Double", "Number",
	"Enum", "Record", "Comparable", "Iterable", "Cloneable", "Class", "Void",
	"Throwable", "Exception", "RuntimeException", "Thread", "Runnable",
)

// java.lang annotation types
var javaLangAnnotations = set("Override", "Deprecated", "SuppressWarnings", "SafeVarargs", "FunctionalInterface")

// persistenceTypes are the public types of the persistence API packages:
// its mapping annotations and the enums their attributes take
var persistenceTypes = set(
	"Access", "AssociationOverride", "AssociationOverrides", "AttributeOverride", "AttributeOverrides",
	"Basic", "Cacheable", "CollectionTable", "Column", "ColumnResult", "ConstructorResult",
	"Convert", "Converter", "Converts", "DiscriminatorColumn", "DiscriminatorValue",
	"ElementCollection", "Embeddable", "Embedded", "EmbeddedId", "Entity", "EntityListeners",
	"EntityResult", "Enumerated", "ExcludeDefaultListeners", "ExcludeSuperclassListeners",
	"FieldResult", "ForeignKey", "GeneratedValue", "Id", "IdClass", "Index", "Inheritance",
	"JoinColumn", "JoinColumns", "JoinTable", "Lob", "ManyToMany", "ManyToOne",
	"MapKey", "MapKeyClass", "MapKeyColumn", "MapKeyEnumerated", "MapKeyJoinColumn",
	"MapKeyJoinColumns", "MapKeyTemporal", "MappedSuperclass", "MapsId",
	"NamedAttributeNode", "NamedEntityGraph", "NamedEntityGraphs", "NamedNativeQueries",
	"NamedNativeQuery", "NamedQueries", "NamedQuery", "NamedStoredProcedureQueries",
	"NamedStoredProcedureQuery", "NamedSubgraph", "OneToMany", "OneToOne", "OrderBy", "OrderColumn",
	"PersistenceContext", "PersistenceContexts", "PersistenceProperty", "PersistenceUnit",
	"PersistenceUnits", "PostLoad", "PostPersist", "PostRemove", "PostUpdate",
	"PrePersist", "PreRemove", "PreUpdate", "PrimaryKeyJoinColumn", "PrimaryKeyJoinColumns",
	"QueryHint", "SecondaryTable", "SecondaryTables", "SequenceGenerator", "SequenceGenerators",
	"SqlResultSetMapping", "SqlResultSetMappings", "StoredProcedureParameter", "Table",
	"TableGenerator", "TableGenerators", "Temporal", "Transient", "UniqueConstraint", "Version",
	"AccessType", "CascadeType", "ConstraintMode", "DiscriminatorType", "EnumType", "FetchType",
	"FlushModeType", "GenerationType", "InheritanceType", "LockModeType", "ParameterMode", "TemporalType",
)

// wellKnownPackages lists the types of the packages an on-demand import can
// be resolved against without scanning them
var wellKnownPackages = map[string]map[string]bool{
	"java.util": set(
		"Collection", "List", "Set", "Map", "SortedSet", "SortedMap", "NavigableSet", "NavigableMap",
		"Queue", "Deque", "ArrayList", "LinkedList", "Vector", "Stack", "HashSet", "LinkedHashSet",
		"TreeSet", "EnumSet", "HashMap", "LinkedHashMap", "TreeMap", "Hashtable", "WeakHashMap",
		"IdentityHashMap", "EnumMap", "Properties", "PriorityQueue", "ArrayDeque", "Iterator",
		"Comparator", "Optional", "OptionalInt", "OptionalLong", "OptionalDouble", "BitSet",
		"Date", "Calendar", "GregorianCalendar", "TimeZone", "UUID", "Locale", "Currency",
	),
	"java.math": set("BigDecimal", "BigInteger", "MathContext", "RoundingMode"),
	"java.time": set(
		"Instant", "LocalDate", "LocalTime", "LocalDateTime", "OffsetDateTime", "OffsetTime",
		"ZonedDateTime", "ZoneId", "ZoneOffset", "Duration", "Period", "Year", "YearMonth",
		"MonthDay", "DayOfWeek", "Month",
	),
	"java.sql": set("Date", "Time", "Timestamp", "Blob", "Clob", "NClob", "Array", "Ref", "RowId", "SQLXML"),
	"java.net": set("URL", "URI", "InetAddress", "Inet4Address", "Inet6Address"),
	"java.io":  set("Serializable", "File", "InputStream", "OutputStream", "Reader", "Writer"),

	"javax.persistence":   persistenceTypes,
	"jakarta.persistence": persistenceTypes,
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Scope resolves simple type names the way a Java compilation unit sees
// them: single-type imports first, then the unit's own package, then
// on-demand imports, then java.lang.
type Scope struct {
	Package  string
	Imports  map[string]string // simple name -> qualified name
	OnDemand []string          // packages imported with ".*"
	// Known reports whether a qualified name is declared in the scanned set
	Known func(qualifiedName string) bool
}

// AddImport records an import declaration, either "a.b.C" or "a.b.*"
func (s *Scope) AddImport(path string) {
	path = strings.TrimSpace(path)
	if pkg, ok := strings.CutSuffix(path, ".*"); ok {
		s.OnDemand = append(s.OnDemand, pkg)
		return
	}
	if s.Imports == nil {
		s.Imports = make(map[string]string)
	}
	s.Imports[SimpleName(path)] = path
}

// Qualify returns the qualified name a simple type name refers to. Names that
// are already qualified, primitives and names that cannot be placed are
// returned unchanged.
func (s *Scope) Qualify(name string) string {
	qn, _ := s.Resolve(name)
	return qn
}

// Resolve is Qualify that also reports whether the name was placed. A simple
// name no rule places is kept as written and counts as placed when Java would
// look it up in the unit's own package or java.lang, which is where the
// generated class lives too. It is unplaced when a wildcard import of a
// package outside the scanned set could be supplying it.
func (s *Scope) Resolve(name string) (string, bool) {
	if name == "" || strings.Contains(name, ".") || IsPrimitiveName(name) {
		return name, true
	}
	if qn, ok := s.Imports[name]; ok {
		return qn, true
	}
	if s.Known != nil {
		if qn := join(s.Package, name); s.Known(qn) {
			return qn, true
		}
		for _, pkg := range s.OnDemand {
			if qn := pkg + "." + name; s.Known(qn) {
				return qn, true
			}
		}
	}
	if javaLang[name] {
		return "java.lang." + name, true
	}
	placed := true
	for _, pkg := range s.OnDemand {
		types, ok := wellKnownPackages[pkg]
		if !ok {
			placed = false
			continue
		}
		if types[name] {
			return pkg + "." + name, true
		}
	}
	return name, placed
}

// QualifyAnnotation resolves an annotation name. Annotation types live outside
// the scanned set: java.lang annotations are matched first, then an on-demand
// import of a persistence namespace claims the persistence API names.
func (s *Scope) QualifyAnnotation(name string) string {
	if name == "" || strings.Contains(name, ".") {
		return name
	}
	if qn, ok := s.Imports[name]; ok {
		return qn
	}
	if javaLangAnnotations[name] {
		return "java.lang." + name
	}
	for _, pkg := range s.OnDemand {
		for _, ns := range persistenceNamespaces {
			if pkg == ns && persistenceTypes[name] {
				return ns + "." + name
			}
		}
	}
	return s.Qualify(name)
}

// QualifyRef rewrites the declared names inside t in place
func (s *Scope) QualifyRef(t *TypeRef) {
	if t == nil {
		return
	}
	switch t.Kind {
	case KindDeclared:
		var placed bool
		t.Name, placed = s.Resolve(t.Name)
		t.Unresolved = !placed
		for _, a := range t.Args {
			s.QualifyRef(a)
		}
	case KindArray:
		s.QualifyRef(t.Component)
	case KindWildcard:
		s.QualifyRef(t.Bound)
	}
}

// QualifyDecl qualifies every type name referenced by a declaration: its
// superclass, type parameter bounds, member signatures and relationship
// targets.
func (s *Scope) QualifyDecl(d *TypeDecl) {
	s.QualifyRef(d.Super)
	for _, p := range d.TypeParams {
		for _, b := range p.Bounds {
			s.QualifyRef(b)
		}
	}
	s.qualifyAnnotations(d.Annotations)
	for i := range d.Members {
		m := &d.Members[i]
		s.QualifyRef(m.Type)
		for _, p := range m.Params {
			s.QualifyRef(p)
		}
		s.qualifyAnnotations(m.Annotations)
	}
}

func (s *Scope) qualifyAnnotations(annotations []Annotation) {
	for i := range annotations {
		a := &annotations[i]
		a.Type = s.QualifyAnnotation(a.Type)
		if target, ok := a.Values["targetEntity"]; ok {
			a.Values["targetEntity"] = s.Qualify(strings.TrimSuffix(strings.TrimSpace(target), ".class"))
		}
	}
}

func join(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
