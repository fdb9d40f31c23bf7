package vars

import "fmt"

// Leaf is a typed scalar node. The kind is fixed at construction and selects
// which payload field is live; all other payload fields stay zero.
type Leaf struct {
	node
	kind Kind

	intVal   int
	floatVal float64
	boolVal  bool
	strVal   string

	enumType *EnumType
	enumVal  string
}

// NewInt creates an int leaf.
func NewInt(key string, value int) *Leaf {
	return &Leaf{node: node{key: key}, kind: KindInt, intVal: value}
}

// NewFloat creates a float leaf.
func NewFloat(key string, value float64) *Leaf {
	return &Leaf{node: node{key: key}, kind: KindFloat, floatVal: value}
}

// NewBool creates a bool leaf.
func NewBool(key string, value bool) *Leaf {
	return &Leaf{node: node{key: key}, kind: KindBool, boolVal: value}
}

// NewString creates a string leaf.
func NewString(key string, value string) *Leaf {
	return &Leaf{node: node{key: key}, kind: KindString, strVal: value}
}

// NewEnum creates an enum leaf of the given type. The initial value is
// parsed with flexible matching; an unparseable name leaves the value empty.
func NewEnum(key string, enumType *EnumType, value string) *Leaf {
	l := &Leaf{node: node{key: key}, kind: KindEnum, enumType: enumType}
	if name, ok := enumType.Parse(value); ok {
		l.enumVal = name
	}
	return l
}

func (l *Leaf) Kind() Kind { return l.kind }

// Children returns nil; leaves have no children.
func (l *Leaf) Children() []Variable { return nil }

// Typed accessors. Reading through the accessor for a different kind returns
// that kind's zero value; generic code paths should use Value and SetValue.

func (l *Leaf) Int() int         { return l.intVal }
func (l *Leaf) Float() float64   { return l.floatVal }
func (l *Leaf) Bool() bool       { return l.boolVal }
func (l *Leaf) Str() string      { return l.strVal }
func (l *Leaf) EnumName() string { return l.enumVal }
func (l *Leaf) Enum() *EnumType  { return l.enumType }

func (l *Leaf) SetInt(v int)       { l.intVal = v }
func (l *Leaf) SetFloat(v float64) { l.floatVal = v }
func (l *Leaf) SetBool(v bool)     { l.boolVal = v }
func (l *Leaf) SetStr(v string)    { l.strVal = v }

// SetEnumName assigns the enum value after flexible parsing against the
// leaf's declared type.
func (l *Leaf) SetEnumName(name string) error {
	parsed, ok := l.enumType.Parse(name)
	if !ok {
		return fmt.Errorf("%q is not a declared name of enum %s", name, l.enumTypeName())
	}
	l.enumVal = parsed
	return nil
}

// Value returns the boxed current value for generic code paths.
func (l *Leaf) Value() any {
	switch l.kind {
	case KindInt:
		return l.intVal
	case KindFloat:
		return l.floatVal
	case KindBool:
		return l.boolVal
	case KindString:
		return l.strVal
	case KindEnum:
		return l.enumVal
	}
	return nil
}

// SetValue assigns a boxed value, rejecting values of the wrong type.
func (l *Leaf) SetValue(v any) error {
	switch l.kind {
	case KindInt:
		switch n := v.(type) {
		case int:
			l.intVal = n
			return nil
		case float64:
			// JSON numbers decode as float64.
			l.intVal = int(n)
			return nil
		}
	case KindFloat:
		switch n := v.(type) {
		case float64:
			l.floatVal = n
			return nil
		case int:
			l.floatVal = float64(n)
			return nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			l.boolVal = b
			return nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			l.strVal = s
			return nil
		}
	case KindEnum:
		if s, ok := v.(string); ok {
			return l.SetEnumName(s)
		}
	}
	return fmt.Errorf("cannot assign %T to %s leaf %q", v, l.kind, l.Path())
}

func (l *Leaf) enumTypeName() string {
	if l.enumType == nil {
		return "(untyped)"
	}
	return l.enumType.Name
}
