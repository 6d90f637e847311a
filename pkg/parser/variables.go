package parser

import (
	"strings"

	"github.com/a13labs/hypgen/pkg/ast"
)

// parseDeclarations parses a simple declaration starting at tok: a class,
// enum, function, field, variable or typedef, possibly declaring several
// names separated by commas
func (p *Parser) parseDeclarations(tok Token, doxygen string, tmpl *ast.TemplateDecl, isTypedef, isFriend bool) error {
	parsed, mods, err := p.parseType(tok, true)
	if err != nil {
		return err
	}

	if parsed == nil && p.lex.PeekIf(TokenOperator) {
		return p.parseOperatorConversion(mods, doxygen, tmpl, isTypedef, isFriend)
	}
	if parsed == nil && !p.lex.PeekIf(TokenTilde) {
		return parseError(p.lex.Peek(), "expected a type")
	}
	if err := mods.validate(true, true, "parsing declaration"); err != nil {
		return err
	}

	if parsed != nil && parsed.Typename.ClassKey != "" {
		done, err := p.maybeParseClassEnumDecl(parsed, mods, doxygen, tmpl, isTypedef, isFriend)
		if err != nil || done {
			return err
		}
	}
	return p.parseDeclaratorList(parsed, mods, doxygen, tmpl, isTypedef, isFriend)
}

// parseDeclaratorList parses `a, *b, c[2];` after a shared type
func (p *Parser) parseDeclaratorList(parsed *ast.Type, mods typeModifiers, doxygen string, tmpl *ast.TemplateDecl, isTypedef, isFriend bool) error {
	for {
		done, err := p.parseDecl(parsed, mods, doxygen, tmpl, isTypedef, isFriend)
		if err != nil {
			p.pending = p.pending[:0]
			return err
		}
		if done {
			p.flushPending()
			return nil
		}
		tok, err := p.nextTokenMustBe(TokenComma, TokenSemicolon)
		if err != nil {
			p.pending = p.pending[:0]
			return err
		}
		if tok.Type == TokenSemicolon {
			p.flushPending()
			return nil
		}
	}
}

// parseDecl parses one declarator. It returns true when the declaration
// is complete, as for a function with a body.
func (p *Parser) parseDecl(parsed *ast.Type, mods typeModifiers, doxygen string, tmpl *ast.TemplateDecl, isTypedef, isFriend bool) (bool, error) {
	var (
		dtype      ast.TypeNode
		pqname     *ast.PQName
		op         string
		ctor, dtor bool
		msvc       string
		err        error
	)
	if parsed != nil {
		if dtype, err = p.parseCVPtr(cloneType(parsed)); err != nil {
			return false, err
		}
	}

	if dtype != nil {
		if open, ok := p.lex.NextIf(TokenLeftParen); ok {
			// Foo( is a constructor or destructor when Foo names the class
			if t, isType := dtype.(*ast.Type); isType && p.isCtorName(t.Typename, isFriend) {
				name := t.Typename
				pqname, dtype = &name, nil
				ctor = !strings.HasPrefix(name.LastName(), "~")
				dtor = !ctor
				p.lex.Return(open)
			} else {
				group, err := p.consumeBalanced(open)
				if err != nil {
					return false, err
				}
				if t, isType := dtype.(*ast.Type); isType && p.lex.PeekIf(TokenArrow) {
					p.lex.NextAllowEOF()
					return true, p.parseDeductionGuide(t.Typename, group, tmpl, doxygen)
				}
				// a redundant grouping paren around the declarator
				p.lex.ReturnAll(group[1 : len(group)-1])
				if dtype, err = p.parseCVPtr(dtype); err != nil {
					return false, err
				}
			}
		}
	}

	if pqname == nil {
		if t, ok := p.lex.NextIf(msvcConventions...); ok {
			msvc = t.Value
		}
		if p.lex.PeekIf(TokenIdentifier, TokenDoubleColon, TokenOperator, TokenTilde) {
			tok, _ := p.lex.NextAllowEOF()
			name, o, err := p.parsePQName(tok, true, false)
			if err != nil {
				return false, err
			}
			pqname, op = &name, o
			if dtype == nil && strings.HasPrefix(name.LastName(), "~") {
				dtor = true
			}
		}
	}
	if err := p.consumeAttributes(); err != nil {
		return false, err
	}

	if _, ok := p.lex.NextIf(TokenLeftParen); ok {
		if pqname == nil {
			return false, parseError(p.lex.Peek(), "function declaration without a name")
		}
		return p.parseFunction(mods, dtype, *pqname, op, tmpl, doxygen, ctor, dtor, isFriend, isTypedef, msvc)
	}

	if dtype == nil {
		return false, parseError(p.lex.Peek(), "expected a type")
	}
	if open, ok := p.lex.NextIf(TokenLeftBracket); ok {
		if dtype, err = p.parseArrayType(open, dtype); err != nil {
			return false, err
		}
	}

	switch {
	case isTypedef:
		if pqname == nil || len(pqname.Segments) != 1 {
			return false, parseError(p.lex.Peek(), "typedef requires a simple name")
		}
		p.visitor.OnTypedef(p.state, &ast.Typedef{Type: dtype, Name: pqname.LastName(), Access: p.currentAccess()})
		return false, nil
	case isFriend:
		if pqname != nil {
			return false, parseError(p.lex.Peek(), "friend declaration of a variable")
		}
		// friend Foo;
		p.visitor.OnClassFriend(p.state, &ast.FriendDecl{Class: &ast.ForwardDecl{
			Typename: typeName(dtype),
			Template: tmpl,
			Doxygen:  doxygen,
			Access:   p.currentAccess(),
		}})
		return false, nil
	}
	return false, p.parseFieldOrVariable(dtype, pqname, mods, tmpl, doxygen)
}

// isCtorName reports whether a type name followed by '(' names a
// constructor or destructor of the enclosing class
func (p *Parser) isCtorName(name ast.PQName, isFriend bool) bool {
	segs := name.Segments
	inClass := p.state.Kind == BlockClass
	if !inClass && len(segs) < 2 {
		return false
	}

	var cls string
	switch {
	case inClass && !isFriend:
		cls = p.state.Class.Typename.LastName()
	case len(segs) >= 2:
		cls = ast.SegmentName(segs[len(segs)-2])
	}
	if cls == "" {
		return false
	}
	last := ast.SegmentName(segs[len(segs)-1])
	return last == cls || last == "~"+cls
}

// parseFieldOrVariable parses the rest of a data declaration. The
// declaration is reported once its terminating ';' has been seen.
func (p *Parser) parseFieldOrVariable(dtype ast.TypeNode, pqname *ast.PQName, mods typeModifiers, tmpl *ast.TemplateDecl, doxygen string) error {
	state := p.state
	isField := state.Kind == BlockClass && (pqname == nil || len(pqname.Segments) == 1)

	var bits *ast.Value
	if isField {
		if err := mods.validate(true, false, "parsing field"); err != nil {
			return err
		}
		if _, ok := p.lex.NextIf(TokenColon); ok {
			toks, err := p.consumeValueUntil(nil, TokenComma, TokenSemicolon, TokenEquals, TokenLeftBrace)
			if err != nil {
				return err
			}
			bits = createValue(toks)
		}
	} else if err := mods.validate(true, false, "parsing variable"); err != nil {
		return err
	}

	value, err := p.parseInitializer()
	if err != nil {
		return err
	}

	if isField {
		f := &ast.Field{
			Access:    state.Access,
			Type:      dtype,
			Value:     value,
			Bits:      bits,
			Constexpr: mods.has("constexpr"),
			Mutable:   mods.has("mutable"),
			Static:    mods.has("static"),
			Inline:    mods.has("inline"),
			Doxygen:   doxygen,
		}
		if pqname != nil {
			f.Name = pqname.LastName()
		}
		p.pending = append(p.pending, func(after string) {
			if f.Doxygen == "" {
				f.Doxygen = after
			}
			p.visitor.OnClassField(state, f)
		})
		return nil
	}

	if pqname == nil {
		return parseError(p.lex.Peek(), "variable declaration without a name")
	}
	v := &ast.Variable{
		Name:      *pqname,
		Type:      dtype,
		Value:     value,
		Constexpr: mods.has("constexpr"),
		Extern:    mods.has("extern"),
		Static:    mods.has("static"),
		Inline:    mods.has("inline"),
		Template:  tmpl,
		Doxygen:   doxygen,
	}
	p.pending = append(p.pending, func(after string) {
		if v.Doxygen == "" {
			v.Doxygen = after
		}
		p.visitor.OnVariable(state, v)
	})
	return nil
}

// parseInitializer parses `= value` or `{ ... }` after a declarator
func (p *Parser) parseInitializer() (*ast.Value, error) {
	if _, ok := p.lex.NextIf(TokenEquals); ok {
		toks, err := p.consumeValueUntil(nil, TokenComma, TokenSemicolon)
		if err != nil {
			return nil, err
		}
		return createValue(toks), nil
	}
	if open, ok := p.lex.NextIf(TokenLeftBrace); ok {
		toks, err := p.consumeBalanced(open)
		if err != nil {
			return nil, err
		}
		return createValue(toks), nil
	}
	return nil, nil
}
