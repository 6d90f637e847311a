package parser

import (
	"slices"
	"strings"

	"github.com/a13labs/hypgen/pkg/ast"
)

// Options tunes parser behaviour
type Options struct {
	// ConvertVoidToZeroParams turns f(void) into f()
	ConvertVoidToZeroParams bool `json:"convert_void_to_zero_params" yaml:"convert_void_to_zero_params" mapstructure:"convert_void_to_zero_params"`
}

// Parser is a recursive-descent parser for C++ declarations. It does not
// build a tree itself; every declaration is reported to a Visitor.
type Parser struct {
	lex     *TokenStream
	visitor Visitor
	options Options
	state   *State
	anonID  int

	// fields and variables wait for the terminating ';' so a trailing
	// ///< comment can be attached
	pending []func(doxygen string)
}

// NewParser creates a parser over content
func NewParser(filename, content string, visitor Visitor, options Options) *Parser {
	if visitor == nil {
		visitor = NullVisitor{}
	}
	global := &State{
		Kind:      BlockNamespace,
		Namespace: &ast.NamespaceDecl{},
		Location:  Location{Filename: filename, Line: 1},
	}
	return &Parser{
		lex:     NewTokenStream(filename, content),
		visitor: visitor,
		options: options,
		state:   global,
	}
}

// Parse consumes the whole input, reporting declarations to the visitor
func (p *Parser) Parse() error {
	p.visitor.OnParseStart(p.state)

	doxygen, haveDoxygen := "", false
	for {
		if !haveDoxygen {
			doxygen, haveDoxygen = p.lex.DoxygenBefore(), true
		}
		tok, err := p.lex.NextAllowEOF()
		if err != nil {
			return err
		}
		if tok.Type == TokenEOF {
			break
		}

		keepDoxygen := false
		switch tok.Type {
		case TokenGCCAttribute, TokenDeclspec, TokenAlignas, TokenDoubleLBracket:
			err = p.consumeAttribute(tok)
			keepDoxygen = true
		case TokenExtern:
			err = p.parseExtern(tok, doxygen)
		case TokenFriend:
			err = p.parseFriendDecl(tok, doxygen, nil)
		case TokenInline:
			err = p.parseInline(tok, doxygen)
		case TokenNamespace:
			err = p.parseNamespace(tok, doxygen, false)
		case TokenPrivate, TokenProtected, TokenPublic:
			err = p.processAccessSpecifier(tok)
		case TokenStaticAssert:
			err = p.consumeStaticAssert()
		case TokenTemplate:
			err = p.parseTemplate(tok, doxygen)
		case TokenTypedef:
			err = p.parseTypedef(doxygen)
		case TokenUsing:
			err = p.parseUsing(tok, doxygen, nil)
		case TokenLeftBrace:
			err = p.onEmptyBlockStart(tok)
		case TokenRightBrace:
			err = p.onBlockEnd(tok)
		case TokenInclude:
			p.visitor.OnInclude(p.state, &ast.Include{Filename: directiveOperand(tok.Value, "include")})
		case TokenPragma:
			p.visitor.OnPragma(p.state, &ast.Pragma{Content: directiveOperand(tok.Value, "pragma")})
		case TokenSemicolon:
		default:
			err = p.parseDeclarations(tok, doxygen, nil, false, false)
		}
		if err != nil {
			return err
		}
		if !keepDoxygen {
			haveDoxygen = false
		}
	}

	if p.state.Parent != nil {
		return parseError(p.lex.eof(), "missing '}' for %s opened at %s", p.state.Kind, p.state.Location)
	}
	return nil
}

// directiveOperand strips the leading #name from a directive line
func directiveOperand(line, name string) string {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#"))
	return strings.TrimSpace(strings.TrimPrefix(s, name))
}

func (p *Parser) pushState(kind BlockKind, loc Location) *State {
	p.state = &State{Kind: kind, Parent: p.state, Location: loc}
	return p.state
}

func (p *Parser) popState() *State {
	s := p.state
	p.state = s.Parent
	return s
}

// currentAccess is the access level of a declaration at this point
func (p *Parser) currentAccess() ast.AccessLevel {
	if p.state.Kind == BlockClass {
		return p.state.Access
	}
	return ast.AccessUnknown
}

// nextTokenMustBe consumes the next token, failing unless it has one of types
func (p *Parser) nextTokenMustBe(types ...TokenType) (Token, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return tok, err
	}
	if !slices.Contains(types, tok.Type) {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}
		return tok, unexpected(tok, names...)
	}
	return tok, nil
}

// flushPending emits the fields and variables of a finished declaration
func (p *Parser) flushPending() {
	if len(p.pending) == 0 {
		return
	}
	after := p.lex.DoxygenAfter()
	for _, emit := range p.pending {
		emit(after)
	}
	p.pending = p.pending[:0]
}

func (p *Parser) onEmptyBlockStart(tok Token) error {
	state := p.pushState(BlockEmpty, tok.Location)
	if !p.visitor.OnEmptyBlockStart(state) {
		if err := p.discardContents(TokenLeftBrace, TokenRightBrace); err != nil {
			return err
		}
		p.popState()
	}
	return nil
}

func (p *Parser) onBlockEnd(tok Token) error {
	if p.state.Parent == nil {
		return parseError(tok, "unexpected '}'")
	}
	old := p.popState()
	switch old.Kind {
	case BlockClass:
		p.visitor.OnClassEnd(old)
		return p.finishClassOrEnum(old.Class.Typename, old.typedef, old.mods)
	case BlockNamespace:
		p.visitor.OnNamespaceEnd(old)
	case BlockExtern:
		p.visitor.OnExternBlockEnd(old)
	case BlockEmpty:
		p.visitor.OnEmptyBlockEnd(old)
	}
	return nil
}

func (p *Parser) processAccessSpecifier(tok Token) error {
	if p.state.Kind != BlockClass {
		return parseError(tok, "access specifier outside of a class")
	}
	p.state.Access = ast.ParseAccessLevel(tok.Value)
	_, err := p.nextTokenMustBe(TokenColon)
	return err
}

func (p *Parser) consumeStaticAssert() error {
	open, err := p.nextTokenMustBe(TokenLeftParen)
	if err != nil {
		return err
	}
	if _, err := p.consumeBalanced(open); err != nil {
		return err
	}
	_, err = p.nextTokenMustBe(TokenSemicolon)
	return err
}

// isAttributeStart reports tokens that open an attribute specifier
func isAttributeStart(t TokenType) bool {
	switch t {
	case TokenGCCAttribute, TokenDeclspec, TokenAlignas, TokenDoubleLBracket:
		return true
	}
	return false
}

// consumeAttribute discards [[...]], __attribute__((...)), __declspec(...)
// or alignas(...)
func (p *Parser) consumeAttribute(tok Token) error {
	if tok.Type != TokenDoubleLBracket {
		open, err := p.nextTokenMustBe(TokenLeftParen)
		if err != nil {
			return err
		}
		tok = open
	}
	_, err := p.consumeBalanced(tok)
	return err
}

// consumeAttributes discards any attribute specifiers that come next
func (p *Parser) consumeAttributes() error {
	for {
		tok, ok := p.lex.NextIf(TokenGCCAttribute, TokenDeclspec, TokenAlignas, TokenDoubleLBracket)
		if !ok {
			return nil
		}
		if err := p.consumeAttribute(tok); err != nil {
			return err
		}
	}
}

// toAST converts lexer tokens to the tree representation
func toAST(toks []Token) []ast.Token {
	out := make([]ast.Token, len(toks))
	for i, t := range toks {
		out[i] = ast.Token{Value: t.Value, Type: t.Type.String()}
	}
	return out
}

func createValue(toks []Token) *ast.Value {
	return &ast.Value{Tokens: toAST(toks)}
}
