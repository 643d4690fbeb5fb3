package xmldoc

import "fmt"

// BeansNamespace is the namespace URI of the core bean elements.
const BeansNamespace = "http://www.springframework.org/schema/beans"

// Kind classifies an element for traversal.
type Kind int

const (
	// KindOther is any element the loader does not interpret.
	KindOther Kind = iota
	// KindBeans is a <beans> configuration block.
	KindBeans
	// KindBean is a <bean> definition element.
	KindBean
	// KindProperty is a <property> element inside a bean.
	KindProperty
	// KindValue is a <value> element inside a property.
	KindValue
	// KindRef is a <ref> element inside a property.
	KindRef
	// KindImport is an <import> element.
	KindImport
	// KindAlias is an <alias> element.
	KindAlias
)

var kindNames = map[string]Kind{
	"beans":    KindBeans,
	"bean":     KindBean,
	"property": KindProperty,
	"value":    KindValue,
	"ref":      KindRef,
	"import":   KindImport,
	"alias":    KindAlias,
}

// String returns the element name associated with the kind.
func (k Kind) String() string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	return "other"
}

func classify(space, local string) Kind {
	if space != "" && space != BeansNamespace {
		return KindOther
	}
	if kind, ok := kindNames[local]; ok {
		return kind
	}
	return KindOther
}

// Location is a position in a named resource.
type Location struct {
	Resource string // Resource name the element was read from
	Line     int    // Line number (1-based)
	Column   int    // Column number (1-based)
}

// String returns "resource:line:column".
func (l Location) String() string {
	if l.Resource == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.Resource, l.Line, l.Column)
}

// IsValid reports whether the location carries a resource and a line.
func (l Location) IsValid() bool {
	return l.Resource != "" && l.Line > 0
}

// Attr is a single attribute. Space holds the namespace URI when the prefix
// was declared, or the raw prefix when it was not.
type Attr struct {
	Space string
	Local string
	Value string
}

// Name returns the attribute name as written, "space:local" or "local".
func (a Attr) Name() string {
	if a.Space == "" {
		return a.Local
	}
	return a.Space + ":" + a.Local
}

// Element is one node of the parsed tree.
type Element struct {
	Kind     Kind
	Space    string
	Local    string
	Attrs    []Attr
	Children []*Element
	Parent   *Element
	Text     string
	Location Location
}

// Attr returns the value of an unqualified attribute.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Space == "" && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the value of an unqualified attribute, or "".
func (e *Element) AttrValue(local string) string {
	v, _ := e.Attr(local)
	return v
}

// Document is a parsed resource.
type Document struct {
	Resource string
	Root     *Element
}
