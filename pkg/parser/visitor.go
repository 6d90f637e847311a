package parser

import "github.com/a13labs/hypgen/pkg/ast"

// BlockKind distinguishes the blocks the parser can be inside of
type BlockKind int

const (
	BlockNamespace BlockKind = iota
	BlockClass
	BlockExtern
	BlockEmpty
)

func (k BlockKind) String() string {
	switch k {
	case BlockNamespace:
		return "namespace"
	case BlockClass:
		return "class"
	case BlockExtern:
		return "extern"
	case BlockEmpty:
		return "block"
	default:
		return "unknown"
	}
}

// State describes the block currently being parsed. Visitors may attach
// their own bookkeeping through UserData.
type State struct {
	Kind     BlockKind
	Parent   *State
	Location Location
	UserData any

	// Set according to Kind
	Namespace *ast.NamespaceDecl
	Class     *ast.ClassDecl
	Extern    *ast.ExternBlock

	// Access is the access level in effect inside a class body
	Access ast.AccessLevel

	typedef bool
	mods    typeModifiers
}

// Visitor receives parse events in source order. The bool returned by the
// block start callbacks decides whether the block contents are parsed
// (true) or skipped.
type Visitor interface {
	OnParseStart(state *State)
	OnPragma(state *State, pragma *ast.Pragma)
	OnInclude(state *State, include *ast.Include)
	OnEmptyBlockStart(state *State) bool
	OnEmptyBlockEnd(state *State)
	OnExternBlockStart(state *State) bool
	OnExternBlockEnd(state *State)
	OnNamespaceStart(state *State) bool
	OnNamespaceEnd(state *State)
	OnNamespaceAlias(state *State, alias *ast.NamespaceAlias)
	OnConcept(state *State, concept *ast.Concept)
	OnForwardDecl(state *State, fdecl *ast.ForwardDecl)
	OnTemplateInst(state *State, inst *ast.TemplateInst)
	OnVariable(state *State, v *ast.Variable)
	OnFunction(state *State, fn *ast.Function)
	OnMethodImpl(state *State, method *ast.Method)
	OnTypedef(state *State, typedef *ast.Typedef)
	OnUsingNamespace(state *State, ns *ast.UsingNamespace)
	OnUsingAlias(state *State, alias *ast.UsingAlias)
	OnUsingDeclaration(state *State, decl *ast.UsingDecl)
	OnEnum(state *State, enum *ast.EnumDecl)
	OnClassStart(state *State) bool
	OnClassField(state *State, field *ast.Field)
	OnClassFriend(state *State, friend *ast.FriendDecl)
	OnClassMethod(state *State, method *ast.Method)
	OnClassEnd(state *State)
	OnDeductionGuide(state *State, guide *ast.DeductionGuide)
}

// NullVisitor ignores every event and parses every block. Embed it to
// implement only the callbacks you need.
type NullVisitor struct{}

func (NullVisitor) OnParseStart(*State)                            {}
func (NullVisitor) OnPragma(*State, *ast.Pragma)                   {}
func (NullVisitor) OnInclude(*State, *ast.Include)                 {}
func (NullVisitor) OnEmptyBlockStart(*State) bool                  { return true }
func (NullVisitor) OnEmptyBlockEnd(*State)                         {}
func (NullVisitor) OnExternBlockStart(*State) bool                 { return true }
func (NullVisitor) OnExternBlockEnd(*State)                        {}
func (NullVisitor) OnNamespaceStart(*State) bool                   { return true }
func (NullVisitor) OnNamespaceEnd(*State)                          {}
func (NullVisitor) OnNamespaceAlias(*State, *ast.NamespaceAlias)   {}
func (NullVisitor) OnConcept(*State, *ast.Concept)                 {}
func (NullVisitor) OnForwardDecl(*State, *ast.ForwardDecl)         {}
func (NullVisitor) OnTemplateInst(*State, *ast.TemplateInst)       {}
func (NullVisitor) OnVariable(*State, *ast.Variable)               {}
func (NullVisitor) OnFunction(*State, *ast.Function)               {}
func (NullVisitor) OnMethodImpl(*State, *ast.Method)               {}
func (NullVisitor) OnTypedef(*State, *ast.Typedef)                 {}
func (NullVisitor) OnUsingNamespace(*State, *ast.UsingNamespace)   {}
func (NullVisitor) OnUsingAlias(*State, *ast.UsingAlias)           {}
func (NullVisitor) OnUsingDeclaration(*State, *ast.UsingDecl)      {}
func (NullVisitor) OnEnum(*State, *ast.EnumDecl)                   {}
func (NullVisitor) OnClassStart(*State) bool                       { return true }
func (NullVisitor) OnClassField(*State, *ast.Field)                {}
func (NullVisitor) OnClassFriend(*State, *ast.FriendDecl)          {}
func (NullVisitor) OnClassMethod(*State, *ast.Method)              {}
func (NullVisitor) OnClassEnd(*State)                              {}
func (NullVisitor) OnDeductionGuide(*State, *ast.DeductionGuide)   {}
