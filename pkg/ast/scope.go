package ast

// ClassScope collects everything declared inside one class body
type ClassScope struct {
	Class        *ClassDecl      `json:"class" yaml:"class"`
	Classes      []*ClassScope   `json:"classes,omitempty" yaml:"classes,omitempty"`
	Enums        []*EnumDecl     `json:"enums,omitempty" yaml:"enums,omitempty"`
	Fields       []*Field        `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods      []*Method       `json:"methods,omitempty" yaml:"methods,omitempty"`
	Friends      []*FriendDecl   `json:"friends,omitempty" yaml:"friends,omitempty"`
	Typedefs     []*Typedef      `json:"typedefs,omitempty" yaml:"typedefs,omitempty"`
	ForwardDecls []*ForwardDecl  `json:"forward_decls,omitempty" yaml:"forward_decls,omitempty"`
	Using        []*UsingDecl    `json:"using,omitempty" yaml:"using,omitempty"`
	UsingAlias   []*UsingAlias   `json:"using_alias,omitempty" yaml:"using_alias,omitempty"`
}

// FindField returns the field with the given name, or nil
func (c *ClassScope) FindField(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindMethod returns the first method whose last name segment matches
func (c *ClassScope) FindMethod(name string) *Method {
	for _, m := range c.Methods {
		if m.Name.LastName() == name {
			return m
		}
	}
	return nil
}

// NamespaceScope collects everything declared in one namespace. Reopened
// namespaces share a single scope.
type NamespaceScope struct {
	Name    string `json:"name" yaml:"name"`
	Inline  bool   `json:"inline,omitempty" yaml:"inline,omitempty"`
	Doxygen string `json:"doxygen,omitempty" yaml:"doxygen,omitempty"`

	Classes         []*ClassScope     `json:"classes,omitempty" yaml:"classes,omitempty"`
	Enums           []*EnumDecl       `json:"enums,omitempty" yaml:"enums,omitempty"`
	Functions       []*Function       `json:"functions,omitempty" yaml:"functions,omitempty"`
	MethodImpls     []*Method         `json:"method_impls,omitempty" yaml:"method_impls,omitempty"`
	Typedefs        []*Typedef        `json:"typedefs,omitempty" yaml:"typedefs,omitempty"`
	Variables       []*Variable       `json:"variables,omitempty" yaml:"variables,omitempty"`
	ForwardDecls    []*ForwardDecl    `json:"forward_decls,omitempty" yaml:"forward_decls,omitempty"`
	Using           []*UsingDecl      `json:"using,omitempty" yaml:"using,omitempty"`
	UsingNS         []*UsingNamespace `json:"using_ns,omitempty" yaml:"using_ns,omitempty"`
	UsingAlias      []*UsingAlias     `json:"using_alias,omitempty" yaml:"using_alias,omitempty"`
	NSAlias         []*NamespaceAlias `json:"ns_alias,omitempty" yaml:"ns_alias,omitempty"`
	Concepts        []*Concept        `json:"concepts,omitempty" yaml:"concepts,omitempty"`
	TemplateInsts   []*TemplateInst   `json:"template_insts,omitempty" yaml:"template_insts,omitempty"`
	DeductionGuides []*DeductionGuide `json:"deduction_guides,omitempty" yaml:"deduction_guides,omitempty"`
	Namespaces      []*NamespaceScope `json:"namespaces,omitempty" yaml:"namespaces,omitempty"`
}

// Namespace returns the child scope with the given name, creating it
// when create is set
func (n *NamespaceScope) Namespace(name string, create bool) *NamespaceScope {
	for _, ns := range n.Namespaces {
		if ns.Name == name {
			return ns
		}
	}
	if !create {
		return nil
	}
	ns := &NamespaceScope{Name: name}
	n.Namespaces = append(n.Namespaces, ns)
	return ns
}

// ParsedData is the result of parsing one translation unit
type ParsedData struct {
	Namespace *NamespaceScope `json:"namespace" yaml:"namespace"`
	Pragmas   []*Pragma       `json:"pragmas,omitempty" yaml:"pragmas,omitempty"`
	Includes  []*Include      `json:"includes,omitempty" yaml:"includes,omitempty"`
}
