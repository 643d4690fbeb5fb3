package ast

// ValueKind identifies the variant held by a Value.
type ValueKind int

const (
	// ValueLiteral is a plain string value.
	ValueLiteral ValueKind = iota
	// ValueReference names another bean definition by id.
	ValueReference
	// ValueInnerBean holds an anonymous nested definition.
	ValueInnerBean
)

// String returns a short name for the kind.
func (k ValueKind) String() string {
	switch k {
	case ValueLiteral:
		return "literal"
	case ValueReference:
		return "ref"
	case ValueInnerBean:
		return "bean"
	default:
		return "unknown"
	}
}

// Value is the right-hand side of a property assignment.
type Value struct {
	Kind    ValueKind
	Literal string      // Text of a literal value
	Ref     string      // Target id of a reference, taken verbatim
	Bean    *Definition // Inner bean definition
}

// Literal returns a literal value.
func Literal(s string) Value {
	return Value{Kind: ValueLiteral, Literal: s}
}

// Reference returns a reference to the bean with the given id.
func Reference(id string) Value {
	return Value{Kind: ValueReference, Ref: id}
}

// InnerBean returns a value holding an inner bean definition.
func InnerBean(def *Definition) Value {
	return Value{Kind: ValueInnerBean, Bean: def}
}

// IsReference returns true if the value names another bean.
func (v Value) IsReference() bool {
	return v.Kind == ValueReference
}

// String returns a readable form of the value.
func (v Value) String() string {
	switch v.Kind {
	case ValueReference:
		return "ref(" + v.Ref + ")"
	case ValueInnerBean:
		if v.Bean == nil {
			return "bean(<nil>)"
		}
		return "bean(" + v.Bean.Class + ")"
	default:
		return v.Literal
	}
}
