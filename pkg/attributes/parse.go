package attributes

import (
	"fmt"
	"strings"
)

// SyntaxError reports malformed attribute text. Offset is a byte offset
// into the text given to Parse.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("attribute syntax error at offset %d: %s", e.Offset, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokComma
	tokEquals
	tokLParen
	tokRParen
)

var tokenNames = map[tokenKind]string{
	tokEOF:    "end of input",
	tokIdent:  "identifier",
	tokNumber: "number",
	tokString: "string",
	tokComma:  "','",
	tokEquals: "'='",
	tokLParen: "'('",
	tokRParen: "')'",
}

type token struct {
	kind   tokenKind
	text   string // unquoted for strings
	offset int
}

// lexer splits attribute text into tokens
type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, offset: start}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == ',':
		l.pos++
		return token{tokComma, ",", start}, nil
	case c == '=':
		l.pos++
		return token{tokEquals, "=", start}, nil
	case c == '(':
		l.pos++
		return token{tokLParen, "(", start}, nil
	case c == ')':
		l.pos++
		return token{tokRParen, ")", start}, nil
	case c == '"' || c == '\'':
		return l.scanString(c)
	case isDigit(c) || ((c == '-' || c == '+' || c == '.') && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		l.pos++
		for l.pos < len(l.src) && (isIdentChar(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		return token{tokNumber, l.src[start:l.pos], start}, nil
	case isIdentStart(c):
		// qualified names such as Kind::Value are a single identifier
		for l.pos < len(l.src) {
			switch {
			case isIdentChar(l.src[l.pos]):
				l.pos++
				continue
			case strings.HasPrefix(l.src[l.pos:], "::") && l.pos+2 < len(l.src) && isIdentStart(l.src[l.pos+2]):
				l.pos += 2
				continue
			}
			break
		}
		return token{tokIdent, l.src[start:l.pos], start}, nil
	}
	return token{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("unexpected character %q", c)}
}

func (l *lexer) scanString(quote byte) (token, error) {
	start := l.pos
	var b strings.Builder
	for l.pos++; l.pos < len(l.src); l.pos++ {
		c := l.src[l.pos]
		switch c {
		case quote:
			l.pos++
			return token{tokString, b.String(), start}, nil
		case '\\':
			l.pos++
			if l.pos >= len(l.src) {
				break
			}
			switch e := l.src[l.pos]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return token{}, &SyntaxError{Offset: start, Msg: "unterminated string"}
}

// parser is a recursive-descent parser over lexer tokens with one token
// of lookahead
type parser struct {
	lex  lexer
	tok  token
	peek *token
}

func (p *parser) advance() error {
	if p.peek != nil {
		p.tok, p.peek = *p.peek, nil
		return nil
	}
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expected(what string) error {
	return &SyntaxError{
		Offset: p.tok.offset,
		Msg:    fmt.Sprintf("expected %s, found %s", what, tokenNames[p.tok.kind]),
	}
}

// Parse parses a comma separated attribute list. Empty text yields an
// empty list.
func Parse(text string) (List, error) {
	p := &parser{lex: lexer{src: text}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	list, err := p.parseList(false)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.expected("','")
	}
	return list, nil
}

// MustParse is Parse for attribute text known to be valid
func MustParse(text string) List {
	list, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return list
}

// parseList parses entries up to, not including, ')' or end of input.
// Inside parens unnamed values are allowed.
func (p *parser) parseList(nested bool) (List, error) {
	var list List
	for p.tok.kind != tokEOF && p.tok.kind != tokRParen {
		a, err := p.parseEntry(nested)
		if err != nil {
			return nil, err
		}
		list = append(list, a)

		if p.tok.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (p *parser) parseEntry(nested bool) (Attribute, error) {
	switch p.tok.kind {
	case tokIdent:
	case tokString, tokNumber:
		if !nested {
			return Attribute{}, p.expected("identifier")
		}
		a := p.scalar()
		return a, p.advance()
	default:
		return Attribute{}, p.expected("identifier")
	}

	name := p.tok.text
	if err := p.advance(); err != nil {
		return Attribute{}, err
	}

	switch p.tok.kind {
	case tokEquals:
		if err := p.advance(); err != nil {
			return Attribute{}, err
		}
		a, err := p.parseValue()
		a.Name = name
		return a, err
	case tokLParen:
		inner, err := p.parseGroup()
		return Attribute{Name: name, Kind: KindNested, Nested: inner}, err
	}
	return Attribute{Name: name, Value: name, Kind: KindIdentifier}, nil
}

func (p *parser) parseValue() (Attribute, error) {
	switch p.tok.kind {
	case tokIdent, tokNumber, tokString:
		a := p.scalar()
		return a, p.advance()
	case tokLParen:
		inner, err := p.parseGroup()
		return Attribute{Kind: KindNested, Nested: inner}, err
	}
	return Attribute{}, p.expected("a value")
}

// parseGroup parses `( list )` starting at the '('
func (p *parser) parseGroup() (List, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	inner, err := p.parseList(true)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokRParen {
		return nil, p.expected("')'")
	}
	return inner, p.advance()
}

func (p *parser) scalar() Attribute {
	if p.tok.kind == tokString {
		return Attribute{Value: p.tok.text, Kind: KindString}
	}
	return Attribute{Value: p.tok.text, Kind: KindIdentifier}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }
