package parser

import (
	"github.com/a13labs/hypgen/pkg/ast"
)

// parseTemplate parses everything that may follow `template`
func (p *Parser) parseTemplate(tok Token, doxygen string) error {
	if !p.lex.PeekIf(TokenLess) {
		return p.parseTemplateInstantiation(doxygen, false)
	}

	tmpl, err := p.parseTemplateDecl()
	if err != nil {
		return err
	}
	next, err := p.lex.Next()
	if err != nil {
		return err
	}
	// template <class T> template <class U> void A<T>::f(U)
	for next.Type == TokenTemplate {
		inner, err := p.parseTemplateDecl()
		if err != nil {
			return err
		}
		inner.Outer = tmpl
		tmpl = inner
		if next, err = p.lex.Next(); err != nil {
			return err
		}
	}

	switch next.Type {
	case TokenUsing:
		return p.parseUsing(next, doxygen, tmpl)
	case TokenFriend:
		return p.parseFriendDecl(next, doxygen, tmpl)
	case TokenConcept:
		return p.parseConcept(doxygen, tmpl)
	}
	return p.parseDeclarations(next, doxygen, tmpl, false, false)
}

// parseTemplateDecl parses `<params>` and an optional requires clause
func (p *Parser) parseTemplateDecl() (*ast.TemplateDecl, error) {
	if _, err := p.nextTokenMustBe(TokenLess); err != nil {
		return nil, err
	}
	tmpl := &ast.TemplateDecl{}

	if _, ok := p.lex.NextIf(TokenGreater); !ok {
		for {
			param, err := p.parseTemplateParam()
			if err != nil {
				return nil, err
			}
			tmpl.Params = append(tmpl.Params, param)

			tok, err := p.nextTokenMustBe(TokenComma, TokenGreater)
			if err != nil {
				return nil, err
			}
			if tok.Type == TokenGreater {
				break
			}
		}
	}

	if _, ok := p.lex.NextIf(TokenRequires); ok {
		req, err := p.parseRequires()
		if err != nil {
			return nil, err
		}
		tmpl.RawRequiresPre = req
	}
	return tmpl, nil
}

func (p *Parser) parseTemplateParam() (ast.TemplateParam, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenTemplate:
		// template template parameter
		inner, err := p.parseTemplateDecl()
		if err != nil {
			return nil, err
		}
		key, err := p.nextTokenMustBe(TokenClass, TokenTypename)
		if err != nil {
			return nil, err
		}
		return p.parseTemplateTypeParam(key, inner)

	case TokenClass, TokenTypename:
		// typename T, or a non-type parameter such as typename T::type N
		next, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		typeParam := next.Type == TokenEllipsis || next.Type == TokenEquals ||
			next.Type == TokenComma || next.Type == TokenGreater ||
			(next.Type == TokenIdentifier && p.lex.PeekIf(TokenEquals, TokenComma, TokenGreater, TokenEllipsis))
		if typeParam {
			p.lex.Return(next)
			return p.parseTemplateTypeParam(tok, nil)
		}
		p.lex.ReturnAll([]Token{tok, next})
	default:
		p.lex.Return(tok)
	}

	param, _, err := p.parseParameter(false, TokenGreater)
	if err != nil {
		return nil, err
	}
	return &ast.TemplateNonTypeParam{
		Type:      param.Type,
		Name:      param.Name,
		Default:   param.Default,
		ParamPack: param.ParamPack,
	}, nil
}

func (p *Parser) parseTemplateTypeParam(key Token, tmpl *ast.TemplateDecl) (*ast.TemplateTypeParam, error) {
	param := &ast.TemplateTypeParam{Typekey: key.Value, Template: tmpl}
	if _, ok := p.lex.NextIf(TokenEllipsis); ok {
		param.ParamPack = true
	}
	if name, ok := p.lex.NextIf(TokenIdentifier); ok {
		param.Name = name.Value
	}
	if _, ok := p.lex.NextIf(TokenEquals); ok {
		toks, err := p.consumeValueUntil(nil, TokenComma, TokenGreater)
		if err != nil {
			return nil, err
		}
		param.Default = createValue(toks)
	}
	return param, nil
}

// parseTemplateSpecialization parses a template argument list after its
// '<'. Each argument is parsed as a type when its tokens form exactly one
// type, otherwise it is kept as a value.
func (p *Parser) parseTemplateSpecialization() (*ast.TemplateSpecialization, error) {
	spec := &ast.TemplateSpecialization{}
	if _, ok := p.lex.NextIf(TokenGreater); ok {
		return spec, nil
	}

	for {
		raw, err := p.consumeValueUntil(nil, TokenComma, TokenGreater, TokenEllipsis)
		if err != nil {
			return nil, err
		}

		arg := ast.TemplateArgument{}
		if len(raw) == 1 && raw[0].Type == TokenSizeof && p.lex.PeekIf(TokenEllipsis) {
			// sizeof...(Ts)
			dots, _ := p.lex.NextAllowEOF()
			open, err := p.nextTokenMustBe(TokenLeftParen)
			if err != nil {
				return nil, err
			}
			group, err := p.consumeBalanced(open)
			if err != nil {
				return nil, err
			}
			raw = append(append(raw, dots), group...)
			arg.Arg = createValue(raw)
		} else if dtype := p.parseTypeArgument(raw); dtype != nil {
			arg.Arg = dtype
		} else {
			arg.Arg = createValue(raw)
		}

		if _, ok := p.lex.NextIf(TokenEllipsis); ok {
			arg.ParamPack = true
		}
		spec.Args = append(spec.Args, arg)

		tok, err := p.nextTokenMustBe(TokenComma, TokenGreater)
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenGreater {
			return spec, nil
		}
	}
}

// parseTypeArgument parses raw with a sub-parser and returns the type
// when every token was consumed by it
func (p *Parser) parseTypeArgument(raw []Token) ast.TypeNode {
	if len(raw) == 0 {
		return nil
	}
	// the type parser always reads one token past the type, so the
	// argument is terminated with a ';' that must be all that is left
	last := raw[len(raw)-1]
	stop := Token{
		Type:     TokenSemicolon,
		Value:    ";",
		Line:     last.Line,
		Column:   last.Column + len(last.Value),
		Offset:   last.Offset + len(last.Value),
		Location: last.Location,
	}
	sub := &Parser{
		lex:     NewBoundedStream(append(raw[:len(raw):len(raw)], stop), last.Location),
		visitor: NullVisitor{},
		options: p.options,
		state:   p.state,
		anonID:  p.anonID,
	}
	first, err := sub.lex.Next()
	if err != nil {
		return nil
	}
	parsed, mods, err := sub.parseType(first, false)
	if err != nil || parsed == nil || mods.validate(false, false, "") != nil {
		return nil
	}
	dtype, err := sub.parseCVPtrOrFn(parsed, true)
	if err != nil {
		return nil
	}
	if _, ok := sub.lex.NextIf(TokenSemicolon); !ok || sub.lex.HasTokens() {
		return nil
	}
	p.anonID = sub.anonID
	return dtype
}

// parseTemplateInstantiation parses an explicit instantiation after
// `template` or `extern template`
func (p *Parser) parseTemplateInstantiation(doxygen string, extern bool) error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	switch tok.Type {
	case TokenClass, TokenStruct, TokenUnion:
		first, err := p.lex.Next()
		if err != nil {
			return err
		}
		name, _, err := p.parsePQName(first, false, false)
		if err != nil {
			return err
		}
		name.ClassKey = tok.Value
		if _, err := p.nextTokenMustBe(TokenSemicolon); err != nil {
			return err
		}
		p.visitor.OnTemplateInst(p.state, &ast.TemplateInst{Typename: name, Extern: extern, Doxygen: doxygen})
		return nil
	}

	// function template instantiations are not recorded
	p.lex.Return(tok)
	if _, err := p.consumeValueUntil(nil, TokenSemicolon); err != nil {
		return err
	}
	_, err = p.lex.Next()
	return err
}

// parseConcept parses `Name = constraint;` after `concept`
func (p *Parser) parseConcept(doxygen string, tmpl *ast.TemplateDecl) error {
	name, err := p.nextTokenMustBe(TokenIdentifier)
	if err != nil {
		return err
	}
	if _, err := p.nextTokenMustBe(TokenEquals); err != nil {
		return err
	}
	toks, err := p.consumeValueUntil(nil, TokenSemicolon)
	if err != nil {
		return err
	}
	if _, err := p.lex.Next(); err != nil {
		return err
	}
	p.visitor.OnConcept(p.state, &ast.Concept{
		Template:      *tmpl,
		Name:          name.Value,
		RawConstraint: *createValue(toks),
		Doxygen:       doxygen,
	})
	return nil
}

// parseRequires parses a constraint expression after `requires`: primary
// expressions joined by && and ||
func (p *Parser) parseRequires() (*ast.Value, error) {
	var raw []Token
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		for tok.Type == TokenExclamation {
			raw = append(raw, tok)
			if tok, err = p.lex.Next(); err != nil {
				return nil, err
			}
		}

		switch {
		case tok.Type == TokenLeftParen:
			group, err := p.consumeBalanced(tok)
			if err != nil {
				return nil, err
			}
			raw = append(raw, group...)

		case tok.Type == TokenRequires:
			// requires-expression: requires (params) { requirements }
			raw = append(raw, tok)
			if open, ok := p.lex.NextIf(TokenLeftParen); ok {
				group, err := p.consumeBalanced(open)
				if err != nil {
					return nil, err
				}
				raw = append(raw, group...)
			}
			open, err := p.nextTokenMustBe(TokenLeftBrace)
			if err != nil {
				return nil, err
			}
			group, err := p.consumeBalanced(open)
			if err != nil {
				return nil, err
			}
			raw = append(raw, group...)

		case tok.Type == TokenIdentifier, tok.Type == TokenDoubleColon, tok.Type == TokenSizeof,
			tok.Type == TokenTrue, tok.Type == TokenFalse, tok.Type.IsLiteral():
			raw = append(raw, tok)
			for {
				if next, ok := p.lex.NextIf(TokenDoubleColon); ok {
					id, err := p.nextTokenMustBe(TokenIdentifier)
					if err != nil {
						return nil, err
					}
					raw = append(raw, next, id)
					continue
				}
				if open, ok := p.lex.NextIf(TokenLess, TokenLeftParen); ok {
					group, err := p.consumeBalanced(open)
					if err != nil {
						return nil, err
					}
					raw = append(raw, group...)
					continue
				}
				break
			}

		default:
			return nil, unexpected(tok)
		}

		op, ok := p.lex.NextIf(TokenDoubleAmp, TokenDoublePipe)
		if !ok {
			return createValue(raw), nil
		}
		raw = append(raw, op)
	}
}
