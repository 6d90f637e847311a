package parser

import (
	"strings"

	"github.com/a13labs/hypgen/pkg/ast"
)

// fundamentalTypes can be combined into one specifier, e.g. unsigned long long
var fundamentalTypes = map[TokenType]bool{
	TokenUnsigned: true,
	TokenSigned:   true,
	TokenShort:    true,
	TokenInt:      true,
	TokenLong:     true,
	TokenFloat:    true,
	TokenDouble:   true,
	TokenChar:     true,
	TokenChar8T:   true,
	TokenChar16T:  true,
	TokenChar32T:  true,
	TokenWcharT:   true,
	TokenBool:     true,
	TokenVoid:     true,
	TokenInt8:     true,
	TokenInt16:    true,
	TokenInt32:    true,
	TokenInt64:    true,
}

var msvcConventions = []TokenType{
	TokenCdecl, TokenClrcall, TokenStdcall, TokenFastcall, TokenThiscall, TokenVectorcall,
}

// isPQNameStart reports tokens that can begin a type or declarator name
func isPQNameStart(t TokenType) bool {
	switch t {
	case TokenIdentifier, TokenDoubleColon, TokenTypename, TokenDecltype, TokenAuto,
		TokenOperator, TokenClass, TokenStruct, TokenUnion, TokenEnum:
		return true
	}
	return fundamentalTypes[t]
}

// parsePQName parses a possibly qualified name beginning with tok. With
// fnOK operator names and destructor names are accepted; the operator
// spelling is returned for the former. With compoundOK a leading class
// key is accepted, and an unnamed class gets an anonymous segment.
func (p *Parser) parsePQName(tok Token, fnOK, compoundOK bool) (ast.PQName, string, error) {
	var name ast.PQName

	switch {
	case tok.Type == TokenAuto:
		name.Segments = []ast.NameSegment{&ast.FundamentalSpecifier{Name: "auto"}}
		return name, "", nil

	case tok.Type == TokenClass || tok.Type == TokenStruct || tok.Type == TokenUnion || tok.Type == TokenEnum:
		if !compoundOK {
			return name, "", unexpected(tok)
		}
		name.ClassKey = tok.Value
		if tok.Type == TokenEnum {
			if key, ok := p.lex.NextIf(TokenClass, TokenStruct); ok {
				name.ClassKey += " " + key.Value
			}
		}
		if err := p.consumeAttributes(); err != nil {
			return name, "", err
		}
		next, ok := p.lex.NextIf(TokenIdentifier, TokenDoubleColon)
		if !ok {
			p.anonID++
			name.Segments = []ast.NameSegment{&ast.AnonymousName{ID: p.anonID}}
			return name, "", nil
		}
		tok = next

	case tok.Type == TokenTypename:
		name.HasTypename = true
		next, err := p.lex.Next()
		if err != nil {
			return name, "", err
		}
		tok = next

	case tok.Type == TokenTilde && !fnOK:
		return name, "", unexpected(tok)

	case !isPQNameStart(tok.Type) && tok.Type != TokenTilde:
		return name, "", unexpected(tok)
	}

	if tok.Type == TokenDoubleColon {
		// leading :: names the global namespace
		name.Segments = append(name.Segments, &ast.NameSpecifier{})
		next, err := p.nextTokenMustBe(TokenIdentifier, TokenTemplate, TokenOperator, TokenTilde)
		if err != nil {
			return name, "", err
		}
		tok = next
	}

	for {
		op, err := p.parsePQNameSegment(tok, &name, fnOK)
		if err != nil || op != "" {
			return name, op, err
		}
		if _, ok := p.lex.NextIf(TokenDoubleColon); !ok {
			return name, "", nil
		}
		next, err := p.nextTokenMustBe(TokenIdentifier, TokenTemplate, TokenOperator, TokenTilde, TokenDecltype)
		if err != nil {
			return name, "", err
		}
		tok = next
	}
}

func (p *Parser) parsePQNameSegment(tok Token, name *ast.PQName, fnOK bool) (string, error) {
	switch {
	case fundamentalTypes[tok.Type]:
		parts := []string{tok.Value}
		for {
			next := p.lex.Peek()
			if !fundamentalTypes[next.Type] {
				break
			}
			p.lex.NextAllowEOF()
			parts = append(parts, next.Value)
		}
		name.Segments = append(name.Segments, &ast.FundamentalSpecifier{Name: strings.Join(parts, " ")})
		return "", nil

	case tok.Type == TokenDecltype:
		open, err := p.nextTokenMustBe(TokenLeftParen)
		if err != nil {
			return "", err
		}
		toks, err := p.consumeBalanced(open)
		if err != nil {
			return "", err
		}
		name.Segments = append(name.Segments, &ast.DecltypeSpecifier{Tokens: toAST(toks[1 : len(toks)-1])})
		return "", nil

	case tok.Type == TokenOperator:
		if !fnOK {
			return "", unexpected(tok)
		}
		op, err := p.parseOperatorName()
		if err != nil {
			return "", err
		}
		seg := "operator" + op
		if op != "" && isWordByte(op[0]) {
			seg = "operator " + op
		}
		name.Segments = append(name.Segments, &ast.NameSpecifier{Name: seg})
		return op, nil

	case tok.Type == TokenTilde:
		if !fnOK {
			return "", unexpected(tok)
		}
		id, err := p.nextTokenMustBe(TokenIdentifier)
		if err != nil {
			return "", err
		}
		name.Segments = append(name.Segments, &ast.NameSpecifier{Name: "~" + id.Value})
		return "", nil

	case tok.Type == TokenTemplate:
		id, err := p.nextTokenMustBe(TokenIdentifier)
		if err != nil {
			return "", err
		}
		tok = id
	}

	if tok.Type != TokenIdentifier {
		return "", unexpected(tok)
	}
	seg := &ast.NameSpecifier{Name: tok.Value}
	if _, ok := p.lex.NextIf(TokenLess); ok {
		spec, err := p.parseTemplateSpecialization()
		if err != nil {
			return "", err
		}
		seg.Specialization = spec
	}
	name.Segments = append(name.Segments, seg)
	return "", nil
}

// parseOperatorName reads the tokens after `operator` up to the parameter
// list. operator() is special cased since its name contains a paren.
func (p *Parser) parseOperatorName() (string, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return "", err
	}
	if tok.Type == TokenLeftParen {
		if _, err := p.nextTokenMustBe(TokenRightParen); err != nil {
			return "", err
		}
		return "()", nil
	}

	parts := []Token{tok}
	for {
		next, err := p.lex.Next()
		if err != nil {
			return "", err
		}
		if next.Type == TokenLeftParen {
			p.lex.Return(next)
			break
		}
		parts = append(parts, next)
	}
	return ast.TokFmt(toAST(parts)), nil
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
