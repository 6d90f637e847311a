package parser

import (
	"strings"

	"github.com/a13labs/hypgen/pkg/ast"
)

// maybeParseClassEnumDecl handles a type introduced by a class key. It
// returns false when the type is only used by a declarator, as in
// `struct Foo *p;`.
func (p *Parser) maybeParseClassEnumDecl(parsed *ast.Type, mods typeModifiers, doxygen string, tmpl *ast.TemplateDecl, isTypedef, isFriend bool) (bool, error) {
	if semi, ok := p.lex.NextIf(TokenSemicolon); ok {
		if isTypedef {
			return true, parseError(semi, "typedef without a name")
		}
		if err := mods.validate(false, false, "parsing forward declaration"); err != nil {
			return true, err
		}
		fdecl := &ast.ForwardDecl{
			Typename: parsed.Typename,
			Template: tmpl,
			Doxygen:  doxygen,
			Access:   p.currentAccess(),
		}
		if isFriend {
			p.visitor.OnClassFriend(p.state, &ast.FriendDecl{Class: fdecl})
		} else {
			p.visitor.OnForwardDecl(p.state, fdecl)
		}
		return true, nil
	}

	tok, ok := p.lex.NextIf(TokenColon, TokenFinal, TokenExplicit, TokenLeftBrace)
	if !ok {
		return false, nil
	}
	if err := mods.validate(!isTypedef, false, "parsing class or enum declaration"); err != nil {
		return true, err
	}
	if strings.HasPrefix(parsed.Typename.ClassKey, "enum") {
		return true, p.parseEnumDecl(parsed.Typename, tok, doxygen, isTypedef, mods)
	}
	return true, p.parseClassDecl(parsed.Typename, tok, doxygen, tmpl, isTypedef, mods)
}

// parseClassDecl parses a class head from tok, the first token after the
// name, and enters the class body
func (p *Parser) parseClassDecl(name ast.PQName, tok Token, doxygen string, tmpl *ast.TemplateDecl, isTypedef bool, mods typeModifiers) error {
	decl := &ast.ClassDecl{
		Typename: name,
		Template: tmpl,
		Doxygen:  doxygen,
		Access:   p.currentAccess(),
	}
	loc := tok.Location

	for tok.Type == TokenFinal || tok.Type == TokenExplicit {
		if tok.Type == TokenFinal {
			decl.Final = true
		} else {
			decl.Explicit = true
		}
		next, err := p.lex.Next()
		if err != nil {
			return err
		}
		tok = next
	}

	defaultAccess := ast.AccessPublic
	if name.ClassKey == "class" {
		defaultAccess = ast.AccessPrivate
	}

	if tok.Type == TokenColon {
		bases, err := p.parseBaseClause(defaultAccess)
		if err != nil {
			return err
		}
		decl.Bases = bases
		if tok, err = p.lex.Next(); err != nil {
			return err
		}
	}
	if tok.Type != TokenLeftBrace {
		return unexpected(tok, "{")
	}

	state := p.pushState(BlockClass, loc)
	state.Class = decl
	state.Access = defaultAccess
	state.typedef = isTypedef
	state.mods = mods

	if !p.visitor.OnClassStart(state) {
		if err := p.discardContents(TokenLeftBrace, TokenRightBrace); err != nil {
			return err
		}
		p.popState()
		return p.finishClassOrEnum(name, isTypedef, mods)
	}
	return nil
}

// parseBaseClause parses `public A, virtual protected B<T>, Ts...` up to,
// not including, the '{'
func (p *Parser) parseBaseClause(defaultAccess ast.AccessLevel) ([]ast.BaseClass, error) {
	var bases []ast.BaseClass
	for {
		base := ast.BaseClass{Access: defaultAccess}

		tok, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		if isAttributeStart(tok.Type) {
			if err := p.consumeAttribute(tok); err != nil {
				return nil, err
			}
			if tok, err = p.lex.Next(); err != nil {
				return nil, err
			}
		}

		// virtual and the access specifier may come in either order
		if tok.Type == TokenVirtual {
			base.Virtual = true
			if tok, err = p.lex.Next(); err != nil {
				return nil, err
			}
		}
		switch tok.Type {
		case TokenPublic, TokenProtected, TokenPrivate:
			base.Access = ast.ParseAccessLevel(tok.Value)
			if tok, err = p.lex.Next(); err != nil {
				return nil, err
			}
			if !base.Virtual && tok.Type == TokenVirtual {
				base.Virtual = true
				if tok, err = p.lex.Next(); err != nil {
					return nil, err
				}
			}
		}

		name, _, err := p.parsePQName(tok, false, false)
		if err != nil {
			return nil, err
		}
		base.Typename = name
		if _, ok := p.lex.NextIf(TokenEllipsis); ok {
			base.ParamPack = true
		}
		bases = append(bases, base)

		if _, ok := p.lex.NextIf(TokenComma); !ok {
			return bases, nil
		}
	}
}

// finishClassOrEnum parses the declarators that may follow a class or enum
// body, as in `struct { int x; } a, b;`
func (p *Parser) finishClassOrEnum(name ast.PQName, isTypedef bool, mods typeModifiers) error {
	if err := p.consumeAttributes(); err != nil {
		return err
	}
	if !isTypedef {
		if _, ok := p.lex.NextIf(TokenSemicolon); ok {
			return nil
		}
	}
	return p.parseDeclaratorList(&ast.Type{Typename: name}, mods, "", nil, isTypedef, false)
}
