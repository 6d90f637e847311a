package parser

import (
	"fmt"
	"os"

	"github.com/a13labs/hypgen/pkg/ast"
)

// Collector is a Visitor that assembles every declaration into an
// ast.ParsedData tree
type Collector struct {
	data *ast.ParsedData
}

// NewCollector creates an empty Collector
func NewCollector() *Collector {
	return &Collector{data: &ast.ParsedData{Namespace: &ast.NamespaceScope{}}}
}

// Data returns the collected tree
func (c *Collector) Data() *ast.ParsedData {
	return c.data
}

// ParseString parses content and returns everything declared in it
func ParseString(filename, content string, options Options) (*ast.ParsedData, error) {
	c := NewCollector()
	if err := NewParser(filename, content, c, options).Parse(); err != nil {
		return nil, err
	}
	return c.Data(), nil
}

// ParseFile reads and parses filename
func ParseFile(filename string, options Options) (*ast.ParsedData, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return ParseString(filename, string(content), options)
}

func namespaceOf(state *State) *ast.NamespaceScope {
	ns, _ := state.UserData.(*ast.NamespaceScope)
	return ns
}

func classOf(state *State) *ast.ClassScope {
	cs, _ := state.UserData.(*ast.ClassScope)
	return cs
}

func (c *Collector) OnParseStart(state *State) {
	state.UserData = c.data.Namespace
}

func (c *Collector) OnPragma(_ *State, pragma *ast.Pragma) {
	c.data.Pragmas = append(c.data.Pragmas, pragma)
}

func (c *Collector) OnInclude(_ *State, include *ast.Include) {
	c.data.Includes = append(c.data.Includes, include)
}

func (c *Collector) OnEmptyBlockStart(state *State) bool {
	state.UserData = state.Parent.UserData
	return true
}

func (c *Collector) OnEmptyBlockEnd(*State) {}

func (c *Collector) OnExternBlockStart(state *State) bool {
	state.UserData = state.Parent.UserData
	return true
}

func (c *Collector) OnExternBlockEnd(*State) {}

func (c *Collector) OnNamespaceStart(state *State) bool {
	parent := namespaceOf(state.Parent)
	if parent == nil {
		// namespaces cannot appear inside a class; keep collecting at the
		// nearest namespace anyway
		parent = c.data.Namespace
	}
	decl := state.Namespace
	ns := parent
	if len(decl.Names) == 0 {
		ns = parent.Namespace("", true)
	}
	for _, name := range decl.Names {
		ns = ns.Namespace(name, true)
	}
	ns.Inline = ns.Inline || decl.Inline
	if ns.Doxygen == "" {
		ns.Doxygen = decl.Doxygen
	}
	state.UserData = ns
	return true
}

func (c *Collector) OnNamespaceEnd(*State) {}

func (c *Collector) OnNamespaceAlias(state *State, alias *ast.NamespaceAlias) {
	if ns := namespaceOf(state); ns != nil {
		ns.NSAlias = append(ns.NSAlias, alias)
	}
}

func (c *Collector) OnConcept(state *State, concept *ast.Concept) {
	if ns := namespaceOf(state); ns != nil {
		ns.Concepts = append(ns.Concepts, concept)
	}
}

func (c *Collector) OnForwardDecl(state *State, fdecl *ast.ForwardDecl) {
	if cs := classOf(state); cs != nil {
		cs.ForwardDecls = append(cs.ForwardDecls, fdecl)
	} else if ns := namespaceOf(state); ns != nil {
		ns.ForwardDecls = append(ns.ForwardDecls, fdecl)
	}
}

func (c *Collector) OnTemplateInst(state *State, inst *ast.TemplateInst) {
	if ns := namespaceOf(state); ns != nil {
		ns.TemplateInsts = append(ns.TemplateInsts, inst)
	}
}

func (c *Collector) OnVariable(state *State, v *ast.Variable) {
	if ns := namespaceOf(state); ns != nil {
		ns.Variables = append(ns.Variables, v)
	}
}

func (c *Collector) OnFunction(state *State, fn *ast.Function) {
	if ns := namespaceOf(state); ns != nil {
		ns.Functions = append(ns.Functions, fn)
	}
}

func (c *Collector) OnMethodImpl(state *State, method *ast.Method) {
	if ns := namespaceOf(state); ns != nil {
		ns.MethodImpls = append(ns.MethodImpls, method)
	}
}

func (c *Collector) OnTypedef(state *State, typedef *ast.Typedef) {
	if cs := classOf(state); cs != nil {
		cs.Typedefs = append(cs.Typedefs, typedef)
	} else if ns := namespaceOf(state); ns != nil {
		ns.Typedefs = append(ns.Typedefs, typedef)
	}
}

func (c *Collector) OnUsingNamespace(state *State, using *ast.UsingNamespace) {
	if ns := namespaceOf(state); ns != nil {
		ns.UsingNS = append(ns.UsingNS, using)
	}
}

func (c *Collector) OnUsingAlias(state *State, alias *ast.UsingAlias) {
	if cs := classOf(state); cs != nil {
		cs.UsingAlias = append(cs.UsingAlias, alias)
	} else if ns := namespaceOf(state); ns != nil {
		ns.UsingAlias = append(ns.UsingAlias, alias)
	}
}

func (c *Collector) OnUsingDeclaration(state *State, decl *ast.UsingDecl) {
	if cs := classOf(state); cs != nil {
		cs.Using = append(cs.Using, decl)
	} else if ns := namespaceOf(state); ns != nil {
		ns.Using = append(ns.Using, decl)
	}
}

func (c *Collector) OnEnum(state *State, enum *ast.EnumDecl) {
	if cs := classOf(state); cs != nil {
		cs.Enums = append(cs.Enums, enum)
	} else if ns := namespaceOf(state); ns != nil {
		ns.Enums = append(ns.Enums, enum)
	}
}

func (c *Collector) OnClassStart(state *State) bool {
	scope := &ast.ClassScope{Class: state.Class}
	if cs := classOf(state.Parent); cs != nil {
		cs.Classes = append(cs.Classes, scope)
	} else if ns := namespaceOf(state.Parent); ns != nil {
		ns.Classes = append(ns.Classes, scope)
	}
	state.UserData = scope
	return true
}

func (c *Collector) OnClassField(state *State, field *ast.Field) {
	if cs := classOf(state); cs != nil {
		cs.Fields = append(cs.Fields, field)
	}
}

func (c *Collector) OnClassFriend(state *State, friend *ast.FriendDecl) {
	if cs := classOf(state); cs != nil {
		cs.Friends = append(cs.Friends, friend)
	}
}

func (c *Collector) OnClassMethod(state *State, method *ast.Method) {
	if cs := classOf(state); cs != nil {
		cs.Methods = append(cs.Methods, method)
	}
}

func (c *Collector) OnClassEnd(*State) {}

func (c *Collector) OnDeductionGuide(state *State, guide *ast.DeductionGuide) {
	if ns := namespaceOf(state); ns != nil {
		ns.DeductionGuides = append(ns.DeductionGuides, guide)
	}
}
