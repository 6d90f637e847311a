package parser

import (
	"github.com/a13labs/hypgen/pkg/ast"
)

// parseParameters parses a parameter list after its '('. With conceptOK,
// parameters declared as `Concept auto x` produce synthesized template
// parameters.
func (p *Parser) parseParameters(conceptOK bool) ([]ast.Parameter, bool, []*ast.TemplateNonTypeParam, error) {
	if _, ok := p.lex.NextIf(TokenRightParen); ok {
		return nil, false, nil, nil
	}

	var (
		params    []ast.Parameter
		synthetic []*ast.TemplateNonTypeParam
		vararg    bool
	)
	for {
		if _, ok := p.lex.NextIf(TokenEllipsis); ok {
			vararg = true
			if _, err := p.nextTokenMustBe(TokenRightParen); err != nil {
				return nil, false, nil, err
			}
			break
		}

		param, synth, err := p.parseParameter(conceptOK, TokenRightParen)
		if err != nil {
			return nil, false, nil, err
		}
		if synth != nil {
			idx := len(params)
			synth.ParamIdx = &idx
			synthetic = append(synthetic, synth)
		}
		params = append(params, param)

		tok, err := p.nextTokenMustBe(TokenComma, TokenRightParen)
		if err != nil {
			return nil, false, nil, err
		}
		if tok.Type == TokenRightParen {
			break
		}
	}

	// f(void) declares no parameters
	if p.options.ConvertVoidToZeroParams && len(params) == 1 && params[0].Name == "" && isVoidType(params[0].Type) {
		params = nil
	}
	return params, vararg, synthetic, nil
}

// parseParameter parses one function or template parameter; end is the
// token closing the list
func (p *Parser) parseParameter(conceptOK bool, end TokenType) (ast.Parameter, *ast.TemplateNonTypeParam, error) {
	var param ast.Parameter

	tok, err := p.lex.Next()
	if err != nil {
		return param, nil, err
	}
	parsed, mods, err := p.parseType(tok, false)
	if err != nil {
		return param, nil, err
	}
	if err := mods.validate(false, false, "parsing parameter"); err != nil {
		return param, nil, err
	}

	var synth *ast.TemplateNonTypeParam
	if _, ok := p.lex.NextIf(TokenAuto); ok {
		// std::integral auto x is an abbreviated function template
		if conceptOK {
			synth = &ast.TemplateNonTypeParam{Type: &ast.Type{Typename: parsed.Typename}}
		}
		parsed = &ast.Type{
			Typename: ast.PQName{Segments: []ast.NameSegment{&ast.FundamentalSpecifier{Name: "auto"}}},
			Const:    parsed.Const,
			Volatile: parsed.Volatile,
		}
	}

	dtype, err := p.parseCVPtr(parsed)
	if err != nil {
		return param, nil, err
	}

	if _, ok := p.lex.NextIf(TokenEllipsis); ok {
		param.ParamPack = true
	}

	// the name may be wrapped in redundant parens
	if open, ok := p.lex.NextIf(TokenLeftParen); ok {
		group, err := p.consumeBalanced(open)
		if err != nil {
			return param, nil, err
		}
		p.lex.ReturnAll(group[1 : len(group)-1])
	}
	if name, ok := p.lex.NextIf(TokenIdentifier); ok {
		param.Name = name.Value
	}
	if open, ok := p.lex.NextIf(TokenLeftBracket); ok {
		if dtype, err = p.parseArrayType(open, dtype); err != nil {
			return param, nil, err
		}
	}
	if _, ok := p.lex.NextIf(TokenEquals); ok {
		toks, err := p.consumeValueUntil(nil, TokenComma, end)
		if err != nil {
			return param, nil, err
		}
		param.Default = createValue(toks)
	}

	param.Type = dtype
	if synth != nil {
		synth.ParamPack = param.ParamPack
	}
	return param, synth, nil
}

// parseFunction parses a function after the '(' of its parameter list and
// reports it as a function, method, method implementation, friend or
// function typedef. It returns true when the declaration ended with a body.
func (p *Parser) parseFunction(
	mods typeModifiers,
	rtype ast.TypeNode,
	name ast.PQName,
	op string,
	tmpl *ast.TemplateDecl,
	doxygen string,
	ctor, dtor, isFriend, isTypedef bool,
	msvc string,
) (bool, error) {
	loc := p.lex.Location()
	params, vararg, synthetic, err := p.parseParameters(true)
	if err != nil {
		return false, err
	}
	if len(synthetic) > 0 {
		if tmpl == nil {
			tmpl = &ast.TemplateDecl{}
		}
		for _, s := range synthetic {
			tmpl.Params = append(tmpl.Params, s)
		}
	}

	fn := ast.Function{
		ReturnType:     rtype,
		Name:           name,
		Parameters:     params,
		Vararg:         vararg,
		Doxygen:        doxygen,
		Template:       tmpl,
		Operator:       op,
		MSVCConvention: msvc,
		Constexpr:      mods.has("constexpr") || mods.has("consteval"),
		Extern:         mods.has("extern"),
		Static:         mods.has("static"),
		Inline:         mods.has("inline"),
	}

	inClass := p.state.Kind == BlockClass
	qualified := len(name.Segments) > 1
	if (inClass || qualified) && !isTypedef {
		m := &ast.Method{
			Function:    fn,
			Access:      p.currentAccess(),
			Constructor: ctor,
			Destructor:  dtor,
			Explicit:    mods.has("explicit"),
			Virtual:     mods.has("virtual"),
		}
		if err := p.parseMethodEnd(m); err != nil {
			return false, err
		}
		switch {
		case isFriend:
			p.visitor.OnClassFriend(p.state, &ast.FriendDecl{Fn: m})
		case inClass:
			if qualified {
				return false, errorAt(loc, "unexpected qualified name %q in class", name.Format())
			}
			p.visitor.OnClassMethod(p.state, m)
		default:
			p.visitor.OnMethodImpl(p.state, m)
		}
		return m.HasBody, nil
	}

	if rtype == nil {
		return false, errorAt(loc, "function %q requires a return type", name.Format())
	}
	if err := mods.validate(false, true, "parsing function"); err != nil {
		return false, err
	}
	if err := rejectModifiers(mods.meths, "parsing function"); err != nil {
		return false, err
	}
	if err := p.parseFnEnd(&fn); err != nil {
		return false, err
	}

	if isTypedef {
		if qualified {
			return false, errorAt(loc, "typedef name %q may not be qualified", name.Format())
		}
		p.visitor.OnTypedef(p.state, &ast.Typedef{
			Type: &ast.FunctionType{
				ReturnType:        fn.ReturnType,
				Parameters:        fn.Parameters,
				Vararg:            fn.Vararg,
				HasTrailingReturn: fn.HasTrailingReturn,
				Noexcept:          fn.Noexcept,
				MSVCConvention:    fn.MSVCConvention,
			},
			Name:   name.LastName(),
			Access: p.currentAccess(),
		})
		return false, nil
	}

	p.visitor.OnFunction(p.state, &fn)
	return fn.HasBody, nil
}

// parseFnEnd parses what may follow the parameter list of a free function
func (p *Parser) parseFnEnd(fn *ast.Function) error {
	if _, ok := p.lex.NextIf(TokenThrow); ok {
		v, err := p.parseThrow()
		if err != nil {
			return err
		}
		fn.Throw = v
	} else if _, ok := p.lex.NextIf(TokenNoexcept); ok {
		v, err := p.parseNoexcept()
		if err != nil {
			return err
		}
		fn.Noexcept = v
	}
	if err := p.consumeAttributes(); err != nil {
		return err
	}

	if arrow, ok := p.lex.NextIf(TokenArrow); ok {
		rt, err := p.parseTrailingReturn(arrow, fn.ReturnType)
		if err != nil {
			return err
		}
		fn.ReturnType, fn.HasTrailingReturn = rt, true
	}
	if req, ok := p.lex.NextIf(TokenRequires); ok {
		if fn.Template == nil {
			return parseError(req, "requires clause on a non-template function")
		}
		v, err := p.parseRequires()
		if err != nil {
			return err
		}
		fn.RawRequires = v
	}

	if _, ok := p.lex.NextIf(TokenLeftBrace); ok {
		fn.HasBody = true
		return p.discardContents(TokenLeftBrace, TokenRightBrace)
	}
	if _, ok := p.lex.NextIf(TokenEquals); ok {
		tok, err := p.nextTokenMustBe(TokenDelete, TokenDefault)
		if err != nil {
			return err
		}
		fn.Deleted = tok.Type == TokenDelete
		fn.Defaulted = tok.Type == TokenDefault
	}
	return nil
}

// parseMethodEnd parses qualifiers, specifiers, pure/deleted/defaulted
// markers, constructor initializers and the body of a method
func (p *Parser) parseMethodEnd(m *ast.Method) error {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return err
		}

		switch tok.Type {
		case TokenColon:
			// constructor initializer list, always followed by the body
			if err := p.discardCtorInitializer(); err != nil {
				return err
			}
			m.HasBody = true
			return p.discardContents(TokenLeftBrace, TokenRightBrace)
		case TokenLeftBrace:
			m.HasBody = true
			return p.discardContents(TokenLeftBrace, TokenRightBrace)
		case TokenEquals:
			val, err := p.nextTokenMustBe(TokenIntConstDec, TokenIntConstOct, TokenDelete, TokenDefault)
			if err != nil {
				return err
			}
			switch {
			case val.Type == TokenDelete:
				m.Deleted = true
			case val.Type == TokenDefault:
				m.Defaulted = true
			case val.Value == "0":
				m.PureVirtual = true
			default:
				return unexpected(val, "0")
			}
		case TokenConst:
			m.Const = true
		case TokenVolatile:
			m.Volatile = true
		case TokenOverride:
			m.Override = true
		case TokenFinal:
			m.Final = true
		case TokenAmpersand, TokenDoubleAmp:
			m.RefQualifier = tok.Value
		case TokenArrow:
			rt, err := p.parseTrailingReturn(tok, m.ReturnType)
			if err != nil {
				return err
			}
			m.ReturnType, m.HasTrailingReturn = rt, true
		case TokenThrow:
			if m.Throw, err = p.parseThrow(); err != nil {
				return err
			}
		case TokenNoexcept:
			if m.Noexcept, err = p.parseNoexcept(); err != nil {
				return err
			}
		case TokenRequires:
			if m.Template == nil {
				return parseError(tok, "requires clause on a non-template method")
			}
			if m.RawRequires, err = p.parseRequires(); err != nil {
				return err
			}
		case TokenGCCAttribute, TokenDeclspec, TokenAlignas, TokenDoubleLBracket:
			if err := p.consumeAttribute(tok); err != nil {
				return err
			}
		default:
			p.lex.Return(tok)
			return nil
		}
	}
}

// parseThrow parses the operand of a dynamic exception specification
func (p *Parser) parseThrow() (*ast.Value, error) {
	open, err := p.nextTokenMustBe(TokenLeftParen)
	if err != nil {
		return nil, err
	}
	toks, err := p.consumeBalanced(open)
	if err != nil {
		return nil, err
	}
	return createValue(toks[1 : len(toks)-1]), nil
}

// discardCtorInitializer skips `: a(1), b{2}` up to the body's '{'
func (p *Parser) discardCtorInitializer() error {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return err
		}
		switch tok.Type {
		case TokenLeftBrace:
			// either a brace initializer or the body
			if !p.initializerContinues() {
				return nil
			}
		case TokenLeftParen:
			if _, err := p.consumeBalanced(tok); err != nil {
				return err
			}
		}
	}
}

// initializerContinues is called after a '{' in a constructor initializer
// list. It consumes a braced member initializer and reports true, or
// reports false leaving the stream positioned inside the body.
func (p *Parser) initializerContinues() bool {
	// a member initializer brace is followed by ',' or the body's '{'
	var toks []Token
	level := 1
	for level > 0 {
		tok, err := p.lex.Next()
		if err != nil {
			p.lex.ReturnAll(toks)
			return false
		}
		toks = append(toks, tok)
		switch tok.Type {
		case TokenLeftBrace:
			level++
		case TokenRightBrace:
			level--
		}
	}
	if p.lex.PeekIf(TokenComma, TokenLeftBrace) {
		return true
	}
	p.lex.ReturnAll(toks)
	return false
}

// parseOperatorConversion parses `operator T()` after any leading
// specifiers
func (p *Parser) parseOperatorConversion(mods typeModifiers, doxygen string, tmpl *ast.TemplateDecl, isTypedef, isFriend bool) error {
	tok, err := p.nextTokenMustBe(TokenOperator)
	if err != nil {
		return err
	}
	if isTypedef {
		return parseError(tok, "operator not permitted in typedef")
	}
	first, err := p.lex.Next()
	if err != nil {
		return err
	}
	ctype, cmods, err := p.parseType(first, false)
	if err != nil {
		return err
	}
	if err := cmods.validate(false, false, "parsing conversion operator"); err != nil {
		return err
	}
	rtype, err := p.parseCVPtr(ctype)
	if err != nil {
		return err
	}
	if _, err := p.nextTokenMustBe(TokenLeftParen); err != nil {
		return err
	}

	name := ast.PQName{Segments: []ast.NameSegment{&ast.NameSpecifier{Name: "operator"}}}
	hasBody, err := p.parseFunction(mods, rtype, name, "conversion", tmpl, doxygen, false, false, isFriend, false, "")
	if err != nil || hasBody {
		return err
	}
	_, err = p.nextTokenMustBe(TokenSemicolon)
	return err
}

// parseDeductionGuide parses `Name(params) -> Result;` once the arrow has
// been seen; group holds the already consumed parameter list
func (p *Parser) parseDeductionGuide(name ast.PQName, group []Token, tmpl *ast.TemplateDecl, doxygen string) error {
	p.lex.ReturnAll(group[1:])
	params, _, _, err := p.parseParameters(false)
	if err != nil {
		return err
	}
	first, err := p.lex.Next()
	if err != nil {
		return err
	}
	result, mods, err := p.parseType(first, false)
	if err != nil {
		return err
	}
	if err := mods.validate(false, false, "parsing deduction guide"); err != nil {
		return err
	}
	rt, err := p.parseCVPtr(result)
	if err != nil {
		return err
	}
	if _, err := p.nextTokenMustBe(TokenSemicolon); err != nil {
		return err
	}
	p.visitor.OnDeductionGuide(p.state, &ast.DeductionGuide{
		ResultType: rt,
		Name:       name,
		Parameters: params,
		Template:   tmpl,
		Doxygen:    doxygen,
	})
	return nil
}
