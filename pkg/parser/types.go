package parser

import (
	"sort"
	"strings"

	"github.com/a13labs/hypgen/pkg/ast"
)

// typeModifiers records the storage class and function specifiers seen
// while parsing the leading type of a declaration
type typeModifiers struct {
	vars  map[string]Token // mutable, thread_local, register
	both  map[string]Token // constexpr, extern, inline, static
	meths map[string]Token // explicit, virtual
}

func newTypeModifiers() typeModifiers {
	return typeModifiers{
		vars:  map[string]Token{},
		both:  map[string]Token{},
		meths: map[string]Token{},
	}
}

func (m typeModifiers) has(name string) bool {
	_, v := m.vars[name]
	_, b := m.both[name]
	_, f := m.meths[name]
	return v || b || f
}

// validate rejects modifiers that cannot apply to what is being declared
func (m typeModifiers) validate(varOK, methOK bool, msg string) error {
	if !varOK {
		if err := rejectModifiers(m.vars, msg); err != nil {
			return err
		}
	}
	if !methOK {
		if err := rejectModifiers(m.meths, msg); err != nil {
			return err
		}
	}
	if !varOK && !methOK {
		return rejectModifiers(m.both, msg)
	}
	return nil
}

func rejectModifiers(mods map[string]Token, msg string) error {
	if len(mods) == 0 {
		return nil
	}
	names := make([]string, 0, len(mods))
	for name := range mods {
		names = append(names, name)
	}
	sort.Strings(names)
	return parseError(mods[names[0]], "unexpected '%s' when %s", names[0], msg)
}

// parseType parses the decl-specifier part of a declaration starting at
// tok. When operatorOK is set a missing type is allowed, as for
// constructors, destructors and conversion operators, and nil is returned.
func (p *Parser) parseType(tok Token, operatorOK bool) (*ast.Type, typeModifiers, error) {
	mods := newTypeModifiers()
	var name *ast.PQName
	constQ, volatileQ := false, false

loop:
	for {
		switch {
		case tok.Type == TokenConst:
			constQ = true
		case tok.Type == TokenVolatile:
			volatileQ = true
		case tok.Type == TokenConstexpr, tok.Type == TokenConsteval, tok.Type == TokenConstinit,
			tok.Type == TokenInline, tok.Type == TokenStatic:
			mods.both[tok.Value] = tok
		case tok.Type == TokenExtern:
			mods.both[tok.Value] = tok
			p.lex.NextIf(TokenStringLiteral)
		case tok.Type == TokenMSInline, tok.Type == TokenForceInline:
			mods.both["inline"] = tok
		case tok.Type == TokenExplicit:
			mods.meths[tok.Value] = tok
			if open, ok := p.lex.NextIf(TokenLeftParen); ok {
				if _, err := p.consumeBalanced(open); err != nil {
					return nil, mods, err
				}
			}
		case tok.Type == TokenVirtual:
			mods.meths[tok.Value] = tok
		case tok.Type == TokenMutable, tok.Type == TokenThreadLocal, tok.Type == TokenRegister:
			mods.vars[tok.Value] = tok
		case isAttributeStart(tok.Type):
			if err := p.consumeAttribute(tok); err != nil {
				return nil, mods, err
			}
		case tok.Type == TokenOperator && operatorOK,
			tok.Type == TokenTilde && operatorOK && name == nil:
			break loop
		case isPQNameStart(tok.Type) && name == nil:
			n, _, err := p.parsePQName(tok, false, true)
			if err != nil {
				return nil, mods, err
			}
			name = &n
		default:
			break loop
		}

		next, err := p.lex.Next()
		if err != nil {
			return nil, mods, err
		}
		tok = next
	}
	p.lex.Return(tok)

	if name == nil {
		if !operatorOK {
			return nil, mods, parseError(tok, "expected a type")
		}
		return nil, mods, nil
	}
	return &ast.Type{Typename: *name, Const: constQ, Volatile: volatileQ}, mods, nil
}

// parseCVPtr parses pointer, reference and cv-qualifier declarator parts
func (p *Parser) parseCVPtr(dtype ast.TypeNode) (ast.TypeNode, error) {
	return p.parseCVPtrOrFn(dtype, false)
}

// parseCVPtrOrFn is parseCVPtr that, with nonptrFn, also accepts a bare
// function type such as the int(char) of std::function<int(char)>
func (p *Parser) parseCVPtrOrFn(dtype ast.TypeNode, nonptrFn bool) (ast.TypeNode, error) {
	for {
		tok, ok := p.lex.NextIf(TokenStar, TokenConst, TokenVolatile, TokenAmpersand, TokenDoubleAmp, TokenLeftParen)
		if !ok {
			return dtype, nil
		}

		switch tok.Type {
		case TokenStar:
			dtype = &ast.Pointer{PtrTo: dtype}

		case TokenConst, TokenVolatile:
			isConst := tok.Type == TokenConst
			switch d := dtype.(type) {
			case *ast.Pointer:
				d.Const = d.Const || isConst
				d.Volatile = d.Volatile || !isConst
			case *ast.Type:
				d.Const = d.Const || isConst
				d.Volatile = d.Volatile || !isConst
			default:
				return nil, unexpected(tok)
			}

		case TokenAmpersand:
			dtype = &ast.Reference{RefTo: dtype}

		case TokenDoubleAmp:
			dtype = &ast.MoveReference{MoveRefTo: dtype}

		case TokenLeftParen:
			if !p.lex.PeekIf(TokenStar, TokenAmpersand, TokenDoubleAmp) {
				if !nonptrFn {
					p.lex.Return(tok)
					return dtype, nil
				}
				fn, err := p.parseFunctionType(dtype, "")
				if err != nil {
					return nil, err
				}
				dtype = fn
				continue
			}

			// a grouping paren, as in int (*fp)(char) or int (&arr)[4]:
			// whatever follows it applies first
			group, err := p.consumeBalanced(tok)
			if err != nil {
				return nil, err
			}
			if next, ok := p.lex.NextIf(TokenLeftBracket, TokenLeftParen); ok {
				if next.Type == TokenLeftBracket {
					dtype, err = p.parseArrayType(next, dtype)
				} else {
					dtype, err = p.parseFunctionType(dtype, "")
				}
				if err != nil {
					return nil, err
				}
			}
			p.lex.ReturnAll(group[1 : len(group)-1])
			return p.parseCVPtrOrFn(dtype, nonptrFn)
		}
	}
}

// parseFunctionType parses the parameter list and trailing parts of a
// function type after its '('
func (p *Parser) parseFunctionType(ret ast.TypeNode, msvc string) (*ast.FunctionType, error) {
	params, vararg, _, err := p.parseParameters(false)
	if err != nil {
		return nil, err
	}
	fn := &ast.FunctionType{ReturnType: ret, Parameters: params, Vararg: vararg, MSVCConvention: msvc}
	if _, ok := p.lex.NextIf(TokenNoexcept); ok {
		if fn.Noexcept, err = p.parseNoexcept(); err != nil {
			return nil, err
		}
	}
	if arrow, ok := p.lex.NextIf(TokenArrow); ok {
		if fn.ReturnType, err = p.parseTrailingReturn(arrow, fn.ReturnType); err != nil {
			return nil, err
		}
		fn.HasTrailingReturn = true
	}
	return fn, nil
}

// parseArrayType parses one or more [size] suffixes; open is the '['
func (p *Parser) parseArrayType(open Token, dtype ast.TypeNode) (ast.TypeNode, error) {
	switch dtype.(type) {
	case *ast.Reference, *ast.MoveReference:
		return nil, parseError(open, "arrays of references are illegal")
	}
	toks, err := p.consumeBalanced(open)
	if err != nil {
		return nil, err
	}
	// int a[2][3] is an array of two arrays of three
	if next, ok := p.lex.NextIf(TokenLeftBracket); ok {
		if dtype, err = p.parseArrayType(next, dtype); err != nil {
			return nil, err
		}
	}
	arr := &ast.Array{ArrayOf: dtype}
	if inner := toks[1 : len(toks)-1]; len(inner) > 0 {
		arr.Size = createValue(inner)
	}
	return arr, nil
}

// parseTrailingReturn parses the type after '->'; ret must be auto
func (p *Parser) parseTrailingReturn(arrow Token, ret ast.TypeNode) (ast.TypeNode, error) {
	if !isAutoType(ret) {
		return nil, parseError(arrow, "trailing return type requires 'auto'")
	}
	tok, err := p.lex.Next()
	if err != nil {
		return nil, err
	}
	dtype, mods, err := p.parseType(tok, false)
	if err != nil {
		return nil, err
	}
	if err := mods.validate(false, false, "parsing trailing return type"); err != nil {
		return nil, err
	}
	return p.parseCVPtr(dtype)
}

func isAutoType(t ast.TypeNode) bool {
	typ, ok := t.(*ast.Type)
	if !ok || len(typ.Typename.Segments) != 1 {
		return false
	}
	f, ok := typ.Typename.Segments[0].(*ast.FundamentalSpecifier)
	return ok && f.Name == "auto"
}

func isVoidType(t ast.TypeNode) bool {
	typ, ok := t.(*ast.Type)
	if !ok || typ.Const || typ.Volatile || len(typ.Typename.Segments) != 1 {
		return false
	}
	f, ok := typ.Typename.Segments[0].(*ast.FundamentalSpecifier)
	return ok && f.Name == "void"
}

// parseNoexcept parses the optional operand after `noexcept`. A bare
// noexcept yields an empty value.
func (p *Parser) parseNoexcept() (*ast.Value, error) {
	open, ok := p.lex.NextIf(TokenLeftParen)
	if !ok {
		return &ast.Value{}, nil
	}
	toks, err := p.consumeBalanced(open)
	if err != nil {
		return nil, err
	}
	return createValue(toks[1 : len(toks)-1]), nil
}

// typeName returns the name a declarator type refers to, ignoring pointers
// and references
func typeName(t ast.TypeNode) ast.PQName {
	for {
		switch d := t.(type) {
		case *ast.Type:
			return d.Typename
		case *ast.Pointer:
			t = d.PtrTo
		case *ast.Reference:
			t = d.RefTo
		case *ast.MoveReference:
			t = d.MoveRefTo
		case *ast.Array:
			t = d.ArrayOf
		default:
			return ast.PQName{}
		}
	}
}

func cloneType(t *ast.Type) *ast.Type {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// unquote strips the quotes of a plain string literal
func unquote(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, `"`), `"`)
}
