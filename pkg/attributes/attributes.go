// Package attributes parses the argument list of the reflection macros,
// e.g. the `Serialize, Name = "x", Range(Min = 0, Max = 10)` inside
// HYP_FIELD(...).
package attributes

import (
	"fmt"
	"strings"
)

// Kind classifies the value of an attribute
type Kind int

const (
	// KindIdentifier is a bare name or a number
	KindIdentifier Kind = iota
	// KindString is a quoted string, stored unquoted
	KindString
	// KindNested is a parenthesized list held in Attribute.Nested
	KindNested
)

var kindNames = [...]string{"identifier", "string", "nested"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown attribute kind %q", text)
}

// Attribute is one entry of an attribute list. A bare flag such as
// `Serialize` has its own name as value. Entries inside a nested list
// may be unnamed values, as the "x" of `Label("x")`.
type Attribute struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Nested List   `json:"nested,omitempty" yaml:"nested,omitempty"`
}

// Scalar returns the value of a plain attribute, or of a nested list
// holding a single unnamed value
func (a Attribute) Scalar() (string, bool) {
	switch {
	case a.Kind != KindNested:
		return a.Value, true
	case len(a.Nested) == 1 && a.Nested[0].Name == "" && a.Nested[0].Kind != KindNested:
		return a.Nested[0].Value, true
	}
	return "", false
}

// String renders the attribute in macro syntax
func (a Attribute) String() string {
	var value string
	switch a.Kind {
	case KindNested:
		return a.Name + "(" + a.Nested.String() + ")"
	case KindString:
		value = quote(a.Value)
	default:
		value = a.Value
	}
	if a.Name == "" {
		return value
	}
	if a.Kind == KindIdentifier && a.Value == a.Name {
		return a.Name
	}
	return a.Name + " = " + value
}

// List is an ordered attribute list
type List []Attribute

// Get returns the first attribute called name
func (l List) Get(name string) (Attribute, bool) {
	for _, a := range l {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Has reports whether an attribute called name is present
func (l List) Has(name string) bool {
	_, ok := l.Get(name)
	return ok
}

// Value returns the scalar value of the attribute called name
func (l List) Value(name string) (string, bool) {
	a, ok := l.Get(name)
	if !ok {
		return "", false
	}
	return a.Scalar()
}

func (l List) String() string {
	parts := make([]string, len(l))
	for i, a := range l {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
