package parser

import (
	"strings"

	"github.com/a13labs/hypgen/pkg/ast"
)

// parseUsing parses using-directives, using-declarations and alias
// declarations after `using`
func (p *Parser) parseUsing(tok Token, doxygen string, tmpl *ast.TemplateDecl) error {
	next, err := p.nextTokenMustBe(TokenIdentifier, TokenDoubleColon, TokenNamespace, TokenTypename, TokenEnum)
	if err != nil {
		return err
	}

	switch {
	case next.Type == TokenNamespace:
		if tmpl != nil {
			return parseError(next, "unexpected using-directive in a template")
		}
		return p.parseUsingNamespace()

	case next.Type == TokenIdentifier && p.lex.PeekIf(TokenEquals, TokenDoubleLBracket, TokenGCCAttribute):
		return p.parseUsingAlias(next.Value, doxygen, tmpl)
	}

	if tmpl != nil {
		return parseError(tok, "unexpected using-declaration in a template")
	}
	if next.Type == TokenEnum {
		// using enum E;
		if next, err = p.lex.Next(); err != nil {
			return err
		}
	}
	name, _, err := p.parsePQName(next, true, false)
	if err != nil {
		return err
	}
	if _, err := p.nextTokenMustBe(TokenSemicolon); err != nil {
		return err
	}
	p.visitor.OnUsingDeclaration(p.state, &ast.UsingDecl{
		Typename: name,
		Access:   p.currentAccess(),
		Doxygen:  doxygen,
	})
	return nil
}

func (p *Parser) parseUsingNamespace() error {
	var parts []string
	if _, ok := p.lex.NextIf(TokenDoubleColon); ok {
		parts = append(parts, "")
	}
	for {
		id, err := p.nextTokenMustBe(TokenIdentifier)
		if err != nil {
			return err
		}
		parts = append(parts, id.Value)
		tok, err := p.nextTokenMustBe(TokenDoubleColon, TokenSemicolon)
		if err != nil {
			return err
		}
		if tok.Type == TokenSemicolon {
			break
		}
	}
	p.visitor.OnUsingNamespace(p.state, &ast.UsingNamespace{Namespace: strings.Join(parts, "::")})
	return nil
}

// parseUsingAlias parses `= type;` of `using Alias = type;`
func (p *Parser) parseUsingAlias(alias, doxygen string, tmpl *ast.TemplateDecl) error {
	if err := p.consumeAttributes(); err != nil {
		return err
	}
	if _, err := p.nextTokenMustBe(TokenEquals); err != nil {
		return err
	}
	first, err := p.lex.Next()
	if err != nil {
		return err
	}
	parsed, mods, err := p.parseType(first, false)
	if err != nil {
		return err
	}
	if err := mods.validate(false, false, "parsing type alias"); err != nil {
		return err
	}
	dtype, err := p.parseCVPtrOrFn(parsed, true)
	if err != nil {
		return err
	}
	if open, ok := p.lex.NextIf(TokenLeftBracket); ok {
		if dtype, err = p.parseArrayType(open, dtype); err != nil {
			return err
		}
	}
	if _, err := p.nextTokenMustBe(TokenSemicolon); err != nil {
		return err
	}
	p.visitor.OnUsingAlias(p.state, &ast.UsingAlias{
		Alias:    alias,
		Type:     dtype,
		Template: tmpl,
		Access:   p.currentAccess(),
		Doxygen:  doxygen,
	})
	return nil
}

// parseTypedef parses the declaration after `typedef`
func (p *Parser) parseTypedef(doxygen string) error {
	first, err := p.lex.Next()
	if err != nil {
		return err
	}
	return p.parseDeclarations(first, doxygen, nil, true, false)
}

// parseFriendDecl parses the declaration after `friend`
func (p *Parser) parseFriendDecl(tok Token, doxygen string, tmpl *ast.TemplateDecl) error {
	if p.state.Kind != BlockClass {
		return parseError(tok, "friend declaration outside of a class")
	}
	first, err := p.lex.Next()
	if err != nil {
		return err
	}
	return p.parseDeclarations(first, doxygen, tmpl, false, true)
}
