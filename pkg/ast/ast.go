// Package ast defines the syntax tree produced by the C++ declaration parser
package ast

// AccessLevel represents C++ access levels
type AccessLevel int

const (
	AccessUnknown AccessLevel = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

func (al AccessLevel) String() string {
	switch al {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// ParseAccessLevel maps an access keyword to its level
func ParseAccessLevel(s string) AccessLevel {
	switch s {
	case "public":
		return AccessPublic
	case "protected":
		return AccessProtected
	case "private":
		return AccessPrivate
	default:
		return AccessUnknown
	}
}

// MarshalText renders the access level as its keyword
func (al AccessLevel) MarshalText() ([]byte, error) {
	return []byte(al.String()), nil
}

// Token is a lexed token carried verbatim inside the tree, for example as
// part of an expression the parser does not interpret.
type Token struct {
	Value string `json:"value" yaml:"value"`
	// Type is the lexer tag name, e.g. NAME or INT_CONST_DEC
	Type string `json:"type" yaml:"type"`
}

// Value is an uninterpreted sequence of tokens such as a default argument
// or an array size.
type Value struct {
	Tokens []Token `json:"tokens" yaml:"tokens"`
}

// Format joins the tokens with minimal spacing
func (v *Value) Format() string {
	if v == nil {
		return ""
	}
	return TokFmt(v.Tokens)
}

// NameSegment is one component of a qualified name.
type NameSegment interface {
	Format() string
	segment()
}

// NameSpecifier is a named segment, optionally specialized: vector<int>
type NameSpecifier struct {
	Name           string                  `json:"name" yaml:"name"`
	Specialization *TemplateSpecialization `json:"specialization,omitempty" yaml:"specialization,omitempty"`
}

// AnonymousName stands in for an unnamed class, union or enum. The ID is
// unique within one parse.
type AnonymousName struct {
	ID int `json:"id" yaml:"id"`
}

// FundamentalSpecifier is a built-in type such as "unsigned long long"
type FundamentalSpecifier struct {
	Name string `json:"name" yaml:"name"`
}

// DecltypeSpecifier holds the tokens inside decltype(...)
type DecltypeSpecifier struct {
	Tokens []Token `json:"tokens" yaml:"tokens"`
}

func (*NameSpecifier) segment()        {}
func (*AnonymousName) segment()        {}
func (*FundamentalSpecifier) segment() {}
func (*DecltypeSpecifier) segment()    {}

// PQName is a possibly-qualified name
type PQName struct {
	Segments []NameSegment `json:"segments" yaml:"segments"`
	// ClassKey is one of class, struct, union, enum, enum class or enum struct
	ClassKey    string `json:"classkey,omitempty" yaml:"classkey,omitempty"`
	HasTypename bool   `json:"has_typename,omitempty" yaml:"has_typename,omitempty"`
}

// Last returns the final segment, or nil for an empty name
func (n *PQName) Last() NameSegment {
	if n == nil || len(n.Segments) == 0 {
		return nil
	}
	return n.Segments[len(n.Segments)-1]
}

// LastName returns the identifier of the final segment, or "" when it is
// not a NameSpecifier
func (n *PQName) LastName() string {
	if ns, ok := n.Last().(*NameSpecifier); ok {
		return ns.Name
	}
	return ""
}

// SegmentName returns the identifier of a named segment, or ""
func SegmentName(s NameSegment) string {
	switch seg := s.(type) {
	case *NameSpecifier:
		return seg.Name
	case *FundamentalSpecifier:
		return seg.Name
	}
	return ""
}

// TypeNode is any node that can appear in a declarator chain
type TypeNode interface {
	Format() string
	// FormatDecl renders the type declaring name, e.g. "int (*name)(char)"
	FormatDecl(name string) string
	typeNode()
}

// Type is a possibly cv-qualified named type
type Type struct {
	Typename PQName `json:"typename" yaml:"typename"`
	Const    bool   `json:"const,omitempty" yaml:"const,omitempty"`
	Volatile bool   `json:"volatile,omitempty" yaml:"volatile,omitempty"`
}

// Pointer to PtrTo, which may be any TypeNode including a FunctionType
type Pointer struct {
	PtrTo    TypeNode `json:"ptr_to" yaml:"ptr_to"`
	Const    bool     `json:"const,omitempty" yaml:"const,omitempty"`
	Volatile bool     `json:"volatile,omitempty" yaml:"volatile,omitempty"`
}

// Reference is an lvalue reference
type Reference struct {
	RefTo TypeNode `json:"ref_to" yaml:"ref_to"`
}

// MoveReference is an rvalue reference
type MoveReference struct {
	MoveRefTo TypeNode `json:"moveref_to" yaml:"moveref_to"`
}

// Array of ArrayOf; Size is nil for T[]
type Array struct {
	ArrayOf TypeNode `json:"array_of" yaml:"array_of"`
	Size    *Value   `json:"size,omitempty" yaml:"size,omitempty"`
}

// FunctionType is the type of a function, as seen through a pointer, a
// typedef or a template argument
type FunctionType struct {
	ReturnType        TypeNode    `json:"return_type" yaml:"return_type"`
	Parameters        []Parameter `json:"parameters" yaml:"parameters"`
	Vararg            bool        `json:"vararg,omitempty" yaml:"vararg,omitempty"`
	HasTrailingReturn bool        `json:"has_trailing_return,omitempty" yaml:"has_trailing_return,omitempty"`
	Noexcept          *Value      `json:"noexcept,omitempty" yaml:"noexcept,omitempty"`
	MSVCConvention    string      `json:"msvc_convention,omitempty" yaml:"msvc_convention,omitempty"`
}

func (*Type) typeNode()          {}
func (*Pointer) typeNode()       {}
func (*Reference) typeNode()     {}
func (*MoveReference) typeNode() {}
func (*Array) typeNode()         {}
func (*FunctionType) typeNode()  {}

// Parameter of a function or method
type Parameter struct {
	Type      TypeNode `json:"type" yaml:"type"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Default   *Value   `json:"default,omitempty" yaml:"default,omitempty"`
	ParamPack bool     `json:"param_pack,omitempty" yaml:"param_pack,omitempty"`
}

// TemplateArgument is either a TypeNode or, when the tokens do not form a
// complete type, a *Value.
type TemplateArgument struct {
	Arg       any  `json:"arg" yaml:"arg"`
	ParamPack bool `json:"param_pack,omitempty" yaml:"param_pack,omitempty"`
}

// TemplateSpecialization is the argument list of a template-id
type TemplateSpecialization struct {
	Args []TemplateArgument `json:"args" yaml:"args"`
}

// TemplateParam is a TemplateTypeParam or a TemplateNonTypeParam
type TemplateParam interface {
	Format() string
	templateParam()
}

// TemplateTypeParam is `typename T = int` or a template template parameter
type TemplateTypeParam struct {
	Typekey   string        `json:"typekey" yaml:"typekey"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
	ParamPack bool          `json:"param_pack,omitempty" yaml:"param_pack,omitempty"`
	Default   *Value        `json:"default,omitempty" yaml:"default,omitempty"`
	Template  *TemplateDecl `json:"template,omitempty" yaml:"template,omitempty"`
}

// TemplateNonTypeParam is `int N = 4`. Parameters synthesized from
// abbreviated function templates record the index of the function
// parameter they came from in ParamIdx.
type TemplateNonTypeParam struct {
	Type      TypeNode `json:"type" yaml:"type"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Default   *Value   `json:"default,omitempty" yaml:"default,omitempty"`
	ParamIdx  *int     `json:"param_idx,omitempty" yaml:"param_idx,omitempty"`
	ParamPack bool     `json:"param_pack,omitempty" yaml:"param_pack,omitempty"`
}

func (*TemplateTypeParam) templateParam()    {}
func (*TemplateNonTypeParam) templateParam() {}

// TemplateDecl is a template header. Outer links the enclosing header of
// stacked declarations such as member templates of class templates.
type TemplateDecl struct {
	Params         []TemplateParam `json:"params" yaml:"params"`
	RawRequiresPre *Value          `json:"raw_requires_pre,omitempty" yaml:"raw_requires_pre,omitempty"`
	Outer          *TemplateDecl   `json:"outer,omitempty" yaml:"outer,omitempty"`
}
