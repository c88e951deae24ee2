// Package metamodel generates JPA static metamodel classes. For every
// persistent type it works out which members are persistent, how each member's
// value is shaped, which concrete types describe it, and which generated class
// the new one extends, then writes the companion <Name>_ class.
package metamodel

// Category is the value shape of a persistent attribute
type Category int

const (
	Singular Category = iota
	Collection
	Set
	List
	Map
)

// String returns the string representation of the category
func (c Category) String() string {
	switch c {
	case Singular:
		return "SINGULAR"
	case Collection:
		return "COLLECTION"
	case Set:
		return "SET"
	case List:
		return "LIST"
	case Map:
		return "MAP"
	default:
		return "UNKNOWN"
	}
}

// Descriptor returns the metamodel attribute type declared for the category
func (c Category) Descriptor() string {
	switch c {
	case Collection:
		return "CollectionAttribute"
	case Set:
		return "SetAttribute"
	case List:
		return "ListAttribute"
	case Map:
		return "MapAttribute"
	default:
		return "SingularAttribute"
	}
}

// containerCategories is matched in order against erasure names. Anything not
// listed is Singular.
var containerCategories = []struct {
	name     string
	category Category
}{
	{"java.util.Set", Set},
	{"java.util.List", List},
	{"java.util.Map", Map},
	{"java.util.Collection", Collection},
}

// Classify maps the erasure name of a member type to its category. Matching is
// by exact name only: subtypes such as java.util.HashSet are Singular.
func Classify(erasure string) Category {
	for _, c := range containerCategories {
		if c.name == erasure {
			return c.category
		}
	}
	return Singular
}
