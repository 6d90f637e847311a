// Package reflection holds the descriptors extracted for types annotated
// with the HYP_* reflection macros.
package reflection

import (
	"fmt"
	"strings"
	"time"

	"github.com/a13labs/hypgen/pkg/ast"
	"github.com/a13labs/hypgen/pkg/attributes"
)

// Kind is the declaration keyword of a reflected type
type Kind int

const (
	KindClass Kind = iota
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText renders the kind as its keyword
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind maps the macro suffix or keyword (CLASS, struct, ...) to a Kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "class":
		return KindClass, nil
	case "struct":
		return KindStruct, nil
	case "enum":
		return KindEnum, nil
	}
	return 0, fmt.Errorf("unknown reflected kind %q", s)
}

// MemberKind tags the variant held by a Member
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberProperty
	MemberMethod
	MemberEnumerator
)

func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberProperty:
		return "property"
	case MemberMethod:
		return "method"
	case MemberEnumerator:
		return "enumerator"
	default:
		return fmt.Sprintf("MemberKind(%d)", int(k))
	}
}

func (k MemberKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Kinds lists every Kind, for templates that switch on them
var Kinds = []Kind{KindClass, KindStruct, KindEnum}

// MemberKinds lists every MemberKind
var MemberKinds = []MemberKind{MemberField, MemberProperty, MemberMethod, MemberEnumerator}

// Parameter is one method parameter
type Parameter struct {
	// Type is the parameter type after name mapping
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
	// Decl is the declaration as written, e.g. "const Foo& foo"
	Decl string `json:"decl" yaml:"decl"`

	TypeNode ast.TypeNode `json:"-" yaml:"-"`
}

// Member describes one annotated member. Which fields are meaningful
// depends on Kind; see Validate.
type Member struct {
	Kind       MemberKind      `json:"kind" yaml:"kind"`
	Name       string          `json:"name" yaml:"name"`
	Attributes attributes.List `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Access     ast.AccessLevel `json:"access,omitempty" yaml:"access,omitempty"`
	Doxygen    string          `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
	// Offset is the byte offset of the member macro in the source file
	Offset int `json:"offset" yaml:"offset"`

	// field
	Type     ast.TypeNode `json:"-" yaml:"-"`
	TypeName string       `json:"type,omitempty" yaml:"type,omitempty"`
	Static   bool         `json:"static,omitempty" yaml:"static,omitempty"`

	// property, verbatim from the macro: name first, then getter/setter
	// or a member pointer
	PropertyArgs []string `json:"property_args,omitempty" yaml:"property_args,omitempty"`

	// method
	ReturnType     ast.TypeNode `json:"-" yaml:"-"`
	ReturnTypeName string       `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Parameters     []Parameter  `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Const          bool         `json:"const,omitempty" yaml:"const,omitempty"`
	Virtual        bool         `json:"virtual,omitempty" yaml:"virtual,omitempty"`

	// enumerator
	Value *ast.Value `json:"value,omitempty" yaml:"value,omitempty"`
}

// ValueText returns the enumerator value expression, or "" when implicit
func (m *Member) ValueText() string {
	if m.Value == nil {
		return ""
	}
	return m.Value.Format()
}

// Validate checks that only the fields of the member's own variant are set
func (m *Member) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%s without a name", m.Kind)
	}
	method := m.ReturnType != nil || m.ReturnTypeName != "" || len(m.Parameters) > 0 || m.Const || m.Virtual
	switch m.Kind {
	case MemberMethod:
		if m.ReturnType == nil {
			return fmt.Errorf("method %s has no return type", m.Name)
		}
		return nil
	case MemberField:
		if m.Type == nil {
			return fmt.Errorf("field %s has no type", m.Name)
		}
	case MemberProperty:
		if len(m.PropertyArgs) == 0 {
			return fmt.Errorf("property %s has no arguments", m.Name)
		}
	}
	if method {
		return fmt.Errorf("%s %s carries method data", m.Kind, m.Name)
	}
	return nil
}

// Descriptor is everything known about one annotated type
type Descriptor struct {
	Kind Kind `json:"kind" yaml:"kind"`
	// File is the source path relative to the source root
	File   string `json:"file" yaml:"file"`
	Offset int    `json:"offset" yaml:"offset"`

	// Name is the type name as declared; Scope the enclosing namespaces
	// and classes, outermost first
	Name  ast.PQName `json:"-" yaml:"-"`
	Scope []string   `json:"scope,omitempty" yaml:"scope,omitempty"`

	Bases      []ast.BaseClass `json:"bases,omitempty" yaml:"bases,omitempty"`
	EnumBase   string          `json:"enum_base,omitempty" yaml:"enum_base,omitempty"`
	Attributes attributes.List `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Members    []*Member       `json:"members,omitempty" yaml:"members,omitempty"`
	Doxygen    string          `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
	MTime      time.Time       `json:"mtime" yaml:"mtime"`

	ResolvedBase *Descriptor `json:"-" yaml:"-"`
	built        bool
}

// SimpleName is the last segment of the declared name
func (d *Descriptor) SimpleName() string {
	return d.Name.LastName()
}

// QualifiedName joins the enclosing scopes and the declared name with ::
func (d *Descriptor) QualifiedName() string {
	parts := append(append([]string(nil), d.Scope...), d.Name.Format())
	return strings.Join(parts, "::")
}

// ResolvedBaseName is the qualified name of the resolved base, or ""
func (d *Descriptor) ResolvedBaseName() string {
	if d.ResolvedBase == nil {
		return ""
	}
	return d.ResolvedBase.QualifiedName()
}

// Built reports whether the resolver has finished with d
func (d *Descriptor) Built() bool { return d.built }

// MarkBuilt records that the resolver has finished with d. There is no
// way back.
func (d *Descriptor) MarkBuilt() { d.built = true }

func (d *Descriptor) membersOf(kind MemberKind) []*Member {
	var out []*Member
	for _, m := range d.Members {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

func (d *Descriptor) Fields() []*Member      { return d.membersOf(MemberField) }
func (d *Descriptor) Properties() []*Member  { return d.membersOf(MemberProperty) }
func (d *Descriptor) Methods() []*Member     { return d.membersOf(MemberMethod) }
func (d *Descriptor) Enumerators() []*Member { return d.membersOf(MemberEnumerator) }

// Validate checks every member and that enumerators only appear on enums
func (d *Descriptor) Validate() error {
	for _, m := range d.Members {
		if err := m.Validate(); err != nil {
			return err
		}
		if (m.Kind == MemberEnumerator) != (d.Kind == KindEnum) {
			return fmt.Errorf("%s %s is not allowed in %s %s", m.Kind, m.Name, d.Kind, d.QualifiedName())
		}
	}
	return nil
}
