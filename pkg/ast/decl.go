package ast

// EnumDecl is an enumeration definition
type EnumDecl struct {
	Typename PQName       `json:"typename" yaml:"typename"`
	Values   []Enumerator `json:"values" yaml:"values"`
	Base     *PQName      `json:"base,omitempty" yaml:"base,omitempty"`
	Doxygen  string       `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
	Access   AccessLevel  `json:"access,omitempty" yaml:"access,omitempty"`
}

// Enumerator is one enumeration constant
type Enumerator struct {
	Name    string `json:"name" yaml:"name"`
	Value   *Value `json:"value,omitempty" yaml:"value,omitempty"`
	Doxygen string `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
}

// BaseClass is one entry of a class base clause
type BaseClass struct {
	Access    AccessLevel `json:"access" yaml:"access"`
	Typename  PQName      `json:"typename" yaml:"typename"`
	Virtual   bool        `json:"virtual,omitempty" yaml:"virtual,omitempty"`
	ParamPack bool        `json:"param_pack,omitempty" yaml:"param_pack,omitempty"`
}

// ClassDecl is the head of a class, struct or union definition
type ClassDecl struct {
	Typename PQName        `json:"typename" yaml:"typename"`
	Bases    []BaseClass   `json:"bases,omitempty" yaml:"bases,omitempty"`
	Template *TemplateDecl `json:"template,omitempty" yaml:"template,omitempty"`
	Explicit bool          `json:"explicit,omitempty" yaml:"explicit,omitempty"`
	Final    bool          `json:"final,omitempty" yaml:"final,omitempty"`
	Doxygen  string        `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
	Access   AccessLevel   `json:"access,omitempty" yaml:"access,omitempty"`
}

// ClassKey returns class, struct or union
func (c *ClassDecl) ClassKey() string {
	return c.Typename.ClassKey
}

// Function is a free function declaration or definition
type Function struct {
	// ReturnType is nil for constructors and destructors
	ReturnType        TypeNode      `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Name              PQName        `json:"name" yaml:"name"`
	Parameters        []Parameter   `json:"parameters" yaml:"parameters"`
	Vararg            bool          `json:"vararg,omitempty" yaml:"vararg,omitempty"`
	Doxygen           string        `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
	Constexpr         bool          `json:"constexpr,omitempty" yaml:"constexpr,omitempty"`
	Extern            bool          `json:"extern,omitempty" yaml:"extern,omitempty"`
	Static            bool          `json:"static,omitempty" yaml:"static,omitempty"`
	Inline            bool          `json:"inline,omitempty" yaml:"inline,omitempty"`
	HasBody           bool          `json:"has_body,omitempty" yaml:"has_body,omitempty"`
	HasTrailingReturn bool          `json:"has_trailing_return,omitempty" yaml:"has_trailing_return,omitempty"`
	Template          *TemplateDecl `json:"template,omitempty" yaml:"template,omitempty"`
	Throw             *Value        `json:"throw,omitempty" yaml:"throw,omitempty"`
	Noexcept          *Value        `json:"noexcept,omitempty" yaml:"noexcept,omitempty"`
	MSVCConvention    string        `json:"msvc_convention,omitempty" yaml:"msvc_convention,omitempty"`
	// Operator is the operator spelling for operator functions, or
	// "conversion" for conversion operators
	Operator    string `json:"operator,omitempty" yaml:"operator,omitempty"`
	RawRequires *Value `json:"raw_requires,omitempty" yaml:"raw_requires,omitempty"`
	Deleted     bool   `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Defaulted   bool   `json:"defaulted,omitempty" yaml:"defaulted,omitempty"`
}

// Method is a member function, or an out-of-class method definition
type Method struct {
	Function     `yaml:",inline"`
	Access       AccessLevel `json:"access,omitempty" yaml:"access,omitempty"`
	Const        bool        `json:"const,omitempty" yaml:"const,omitempty"`
	Volatile     bool        `json:"volatile,omitempty" yaml:"volatile,omitempty"`
	RefQualifier string      `json:"ref_qualifier,omitempty" yaml:"ref_qualifier,omitempty"`
	Constructor  bool        `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Explicit     bool        `json:"explicit,omitempty" yaml:"explicit,omitempty"`
	Destructor   bool        `json:"destructor,omitempty" yaml:"destructor,omitempty"`
	PureVirtual  bool        `json:"pure_virtual,omitempty" yaml:"pure_virtual,omitempty"`
	Virtual      bool        `json:"virtual,omitempty" yaml:"virtual,omitempty"`
	Final        bool        `json:"final,omitempty" yaml:"final,omitempty"`
	Override     bool        `json:"override,omitempty" yaml:"override,omitempty"`
}

// Field is a data member
type Field struct {
	Access    AccessLevel `json:"access" yaml:"access"`
	Type      TypeNode    `json:"type" yaml:"type"`
	Name      string      `json:"name,omitempty" yaml:"name,omitempty"`
	Value     *Value      `json:"value,omitempty" yaml:"value,omitempty"`
	Bits      *Value      `json:"bits,omitempty" yaml:"bits,omitempty"`
	Constexpr bool        `json:"constexpr,omitempty" yaml:"constexpr,omitempty"`
	Mutable   bool        `json:"mutable,omitempty" yaml:"mutable,omitempty"`
	Static    bool        `json:"static,omitempty" yaml:"static,omitempty"`
	Inline    bool        `json:"inline,omitempty" yaml:"inline,omitempty"`
	Doxygen   string      `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
}

// Variable is a namespace-scope variable
type Variable struct {
	Name      PQName        `json:"name" yaml:"name"`
	Type      TypeNode      `json:"type" yaml:"type"`
	Value     *Value        `json:"value,omitempty" yaml:"value,omitempty"`
	Constexpr bool          `json:"constexpr,omitempty" yaml:"constexpr,omitempty"`
	Extern    bool          `json:"extern,omitempty" yaml:"extern,omitempty"`
	Static    bool          `json:"static,omitempty" yaml:"static,omitempty"`
	Inline    bool          `json:"inline,omitempty" yaml:"inline,omitempty"`
	Template  *TemplateDecl `json:"template,omitempty" yaml:"template,omitempty"`
	Doxygen   string        `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
}

// Typedef declares Name as an alias of Type
type Typedef struct {
	Type   TypeNode    `json:"type" yaml:"type"`
	Name   string      `json:"name" yaml:"name"`
	Access AccessLevel `json:"access,omitempty" yaml:"access,omitempty"`
}

// ForwardDecl is `class X;` or `enum class E : int;`
type ForwardDecl struct {
	Typename PQName        `json:"typename" yaml:"typename"`
	Template *TemplateDecl `json:"template,omitempty" yaml:"template,omitempty"`
	Doxygen  string        `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
	EnumBase *PQName       `json:"enum_base,omitempty" yaml:"enum_base,omitempty"`
	Access   AccessLevel   `json:"access,omitempty" yaml:"access,omitempty"`
}

// FriendDecl holds exactly one of Class or Fn
type FriendDecl struct {
	Class *ForwardDecl `json:"cls,omitempty" yaml:"cls,omitempty"`
	Fn    *Method      `json:"fn,omitempty" yaml:"fn,omitempty"`
}

// NamespaceDecl opens a namespace; Names holds each component of a nested
// declaration such as `namespace a::b`
type NamespaceDecl struct {
	Names   []string `json:"names" yaml:"names"`
	Inline  bool     `json:"inline,omitempty" yaml:"inline,omitempty"`
	Doxygen string   `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
}

// NamespaceAlias is `namespace a = b::c;`
type NamespaceAlias struct {
	Alias string   `json:"alias" yaml:"alias"`
	Names []string `json:"names" yaml:"names"`
}

// UsingNamespace is `using namespace a::b;`
type UsingNamespace struct {
	Namespace string `json:"ns" yaml:"ns"`
}

// UsingDecl is `using a::b;`
type UsingDecl struct {
	Typename PQName      `json:"typename" yaml:"typename"`
	Access   AccessLevel `json:"access,omitempty" yaml:"access,omitempty"`
	Doxygen  string      `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
}

// UsingAlias is `using A = B;`
type UsingAlias struct {
	Alias    string        `json:"alias" yaml:"alias"`
	Type     TypeNode      `json:"type" yaml:"type"`
	Template *TemplateDecl `json:"template,omitempty" yaml:"template,omitempty"`
	Access   AccessLevel   `json:"access,omitempty" yaml:"access,omitempty"`
	Doxygen  string        `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
}

// Concept is `template <...> concept Name = constraint;`
type Concept struct {
	Template      TemplateDecl `json:"template" yaml:"template"`
	Name          string       `json:"name" yaml:"name"`
	RawConstraint Value        `json:"raw_constraint" yaml:"raw_constraint"`
	Doxygen       string       `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
}

// DeductionGuide is `Name(params) -> Result;`
type DeductionGuide struct {
	ResultType TypeNode      `json:"result_type" yaml:"result_type"`
	Name       PQName        `json:"name" yaml:"name"`
	Parameters []Parameter   `json:"parameters" yaml:"parameters"`
	Template   *TemplateDecl `json:"template,omitempty" yaml:"template,omitempty"`
	Doxygen    string        `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
}

// TemplateInst is an explicit instantiation, `[extern] template class X<int>;`
type TemplateInst struct {
	Typename PQName `json:"typename" yaml:"typename"`
	Extern   bool   `json:"extern,omitempty" yaml:"extern,omitempty"`
	Doxygen  string `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`
}

// Pragma holds the text after #pragma
type Pragma struct {
	Content string `json:"content" yaml:"content"`
}

// Include holds the operand of #include, quotes or brackets included
type Include struct {
	Filename string `json:"filename" yaml:"filename"`
}

// ExternBlock is `extern "C" { ... }`
type ExternBlock struct {
	Linkage string `json:"linkage" yaml:"linkage"`
}
