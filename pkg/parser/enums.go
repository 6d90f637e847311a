package parser

import "github.com/a13labs/hypgen/pkg/ast"

// parseEnumDecl parses an enum from tok, the ':' of the base or the '{'
func (p *Parser) parseEnumDecl(name ast.PQName, tok Token, doxygen string, isTypedef bool, mods typeModifiers) error {
	var base *ast.PQName

	if tok.Type == TokenColon {
		first, err := p.lex.Next()
		if err != nil {
			return err
		}
		b, _, err := p.parsePQName(first, false, false)
		if err != nil {
			return err
		}
		base = &b

		if tok, err = p.nextTokenMustBe(TokenLeftBrace, TokenSemicolon); err != nil {
			return err
		}
		if tok.Type == TokenSemicolon {
			// opaque enum declaration
			if isTypedef {
				return parseError(tok, "typedef without a name")
			}
			p.visitor.OnForwardDecl(p.state, &ast.ForwardDecl{
				Typename: name,
				Doxygen:  doxygen,
				EnumBase: base,
				Access:   p.currentAccess(),
			})
			return nil
		}
	}
	if tok.Type != TokenLeftBrace {
		return unexpected(tok, "{")
	}

	values, err := p.parseEnumeratorList()
	if err != nil {
		return err
	}
	p.visitor.OnEnum(p.state, &ast.EnumDecl{
		Typename: name,
		Values:   values,
		Base:     base,
		Doxygen:  doxygen,
		Access:   p.currentAccess(),
	})
	return p.finishClassOrEnum(name, isTypedef, mods)
}

// parseEnumeratorList parses enumerators up to and including the '}'
func (p *Parser) parseEnumeratorList() ([]ast.Enumerator, error) {
	var values []ast.Enumerator
	for {
		doxygen := p.lex.DoxygenBefore()
		tok, err := p.nextTokenMustBe(TokenIdentifier, TokenRightBrace)
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenRightBrace {
			return values, nil
		}

		e := ast.Enumerator{Name: tok.Value, Doxygen: doxygen}
		if err := p.consumeAttributes(); err != nil {
			return nil, err
		}
		if _, ok := p.lex.NextIf(TokenEquals); ok {
			toks, err := p.consumeValueUntil(nil, TokenComma, TokenRightBrace)
			if err != nil {
				return nil, err
			}
			e.Value = createValue(toks)
		}

		after := p.lex.DoxygenAfter()
		end, err := p.nextTokenMustBe(TokenComma, TokenRightBrace)
		if err != nil {
			return nil, err
		}
		if after == "" && end.Type == TokenComma {
			after = p.lex.DoxygenAfter()
		}
		if e.Doxygen == "" {
			e.Doxygen = after
		}
		values = append(values, e)
		if end.Type == TokenRightBrace {
			return values, nil
		}
	}
}
