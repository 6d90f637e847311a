package parser

import (
	"github.com/a13labs/hypgen/pkg/ast"
)

// parseNamespace parses a namespace definition or alias after `namespace`
func (p *Parser) parseNamespace(tok Token, doxygen string, inline bool) error {
	var names []string
	loc := tok.Location

	for {
		next, err := p.lex.Next()
		if err != nil {
			return err
		}
		switch {
		case next.Type == TokenIdentifier:
			names = append(names, next.Value)
			if len(names) == 1 {
				if _, ok := p.lex.NextIf(TokenEquals); ok {
					return p.parseNamespaceAlias(next.Value)
				}
			}
			continue
		case next.Type == TokenDoubleColon, next.Type == TokenInline:
			continue
		case isAttributeStart(next.Type):
			if err := p.consumeAttribute(next); err != nil {
				return err
			}
			continue
		case next.Type != TokenLeftBrace:
			return unexpected(next, "{")
		}
		break
	}

	state := p.pushState(BlockNamespace, loc)
	state.Namespace = &ast.NamespaceDecl{Names: names, Inline: inline, Doxygen: doxygen}
	if !p.visitor.OnNamespaceStart(state) {
		if err := p.discardContents(TokenLeftBrace, TokenRightBrace); err != nil {
			return err
		}
		p.popState()
	}
	return nil
}

// parseNamespaceAlias parses `= a::b;` of a namespace alias
func (p *Parser) parseNamespaceAlias(alias string) error {
	var names []string
	if _, ok := p.lex.NextIf(TokenDoubleColon); ok {
		names = append(names, "")
	}
	for {
		id, err := p.nextTokenMustBe(TokenIdentifier)
		if err != nil {
			return err
		}
		names = append(names, id.Value)
		tok, err := p.nextTokenMustBe(TokenDoubleColon, TokenSemicolon)
		if err != nil {
			return err
		}
		if tok.Type == TokenSemicolon {
			break
		}
	}
	p.visitor.OnNamespaceAlias(p.state, &ast.NamespaceAlias{Alias: alias, Names: names})
	return nil
}

// parseExtern handles `extern "C" {`, `extern template` and extern
// declarations
func (p *Parser) parseExtern(tok Token, doxygen string) error {
	if next, ok := p.lex.NextIf(TokenStringLiteral, TokenTemplate); ok {
		if next.Type == TokenTemplate {
			return p.parseTemplateInstantiation(doxygen, true)
		}
		if _, ok := p.lex.NextIf(TokenLeftBrace); ok {
			state := p.pushState(BlockExtern, tok.Location)
			state.Extern = &ast.ExternBlock{Linkage: unquote(next.Value)}
			if !p.visitor.OnExternBlockStart(state) {
				if err := p.discardContents(TokenLeftBrace, TokenRightBrace); err != nil {
					return err
				}
				p.popState()
			}
			return nil
		}
		p.lex.Return(next)
	}
	return p.parseDeclarations(tok, doxygen, nil, false, false)
}

// parseInline handles `inline namespace` and inline declarations
func (p *Parser) parseInline(tok Token, doxygen string) error {
	if ns, ok := p.lex.NextIf(TokenNamespace); ok {
		return p.parseNamespace(ns, doxygen, true)
	}
	return p.parseDeclarations(tok, doxygen, nil, false, false)
}
