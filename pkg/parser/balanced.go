package parser

import (
	"errors"
	"slices"
)

var balancedClosers = map[TokenType]TokenType{
	TokenLeftParen:      TokenRightParen,
	TokenLeftBrace:      TokenRightBrace,
	TokenLeftBracket:    TokenRightBracket,
	TokenLess:           TokenGreater,
	TokenDoubleLBracket: TokenDoubleRBracket,
}

func isCloser(t TokenType) bool {
	switch t {
	case TokenRightParen, TokenRightBrace, TokenRightBracket, TokenGreater, TokenDoubleRBracket:
		return true
	}
	return false
}

// consumeBalanced reads tokens until the bracket opened by first is
// closed, returning everything including first and the final closer.
//
// '<' and '>' are ambiguous between template brackets and comparisons: a
// '>' that does not close anything is kept as an operator, and a closer
// met while a '>' is expected unwinds to the bracket it matches.
func (p *Parser) consumeBalanced(first Token) ([]Token, error) {
	consumed := []Token{first}
	stack := []TokenType{balancedClosers[first.Type]}

	for len(stack) > 0 {
		tok, err := p.lex.Next()
		if err != nil {
			return consumed, err
		}

		top := stack[len(stack)-1]
		if tok.Type == TokenDoubleRBracket && top == TokenRightBracket {
			// ]] closing two nested subscripts, as in a[b[0]]
			var rest Token
			tok, rest = splitDoubleBracket(tok)
			p.lex.Return(rest)
		}
		consumed = append(consumed, tok)

		if closer, ok := balancedClosers[tok.Type]; ok {
			stack = append(stack, closer)
			continue
		}
		if !isCloser(tok.Type) {
			continue
		}

		switch {
		case tok.Type == top:
			stack = stack[:len(stack)-1]
		case tok.Type == TokenGreater:
			// comparison inside parentheses or braces
		case top == TokenGreater:
			i := -1
			for j := len(stack) - 1; j >= 0; j-- {
				if stack[j] == tok.Type {
					i = j
					break
				}
			}
			if i < 0 {
				return consumed, unexpected(tok, top.String())
			}
			stack = stack[:i]
		default:
			return consumed, unexpected(tok, top.String())
		}
	}
	return consumed, nil
}

func splitDoubleBracket(tok Token) (Token, Token) {
	first, second := tok, tok
	first.Type, first.Value = TokenRightBracket, "]"
	second.Type, second.Value = TokenRightBracket, "]"
	second.Offset++
	second.Column++
	return first, second
}

// discardContents skips to the close matching an already consumed open,
// counting only that pair of token types
func (p *Parser) discardContents(open, close TokenType) error {
	level := 1
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return err
		}
		switch tok.Type {
		case open:
			level++
		case close:
			level--
			if level == 0 {
				return nil
			}
		}
	}
}

// consumeValueUntil collects tokens up to, not including, one of ends at
// nesting level zero. A '<' only opens a bracket after a name; if it turns
// out not to close it is kept as an operator.
func (p *Parser) consumeValueUntil(toks []Token, ends ...TokenType) ([]Token, error) {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return toks, err
		}
		if slices.Contains(ends, tok.Type) {
			p.lex.Return(tok)
			return toks, nil
		}
		if _, ok := balancedClosers[tok.Type]; !ok {
			toks = append(toks, tok)
			continue
		}
		if tok.Type == TokenLess && (len(toks) == 0 || toks[len(toks)-1].Type != TokenIdentifier) {
			toks = append(toks, tok)
			continue
		}

		inner, err := p.consumeBalanced(tok)
		if err != nil {
			var perr *ParseError
			if tok.Type != TokenLess || !errors.As(err, &perr) {
				return toks, err
			}
			// not a template argument list after all
			p.lex.ReturnAll(inner[1:])
			toks = append(toks, tok)
			continue
		}
		toks = append(toks, inner...)
	}
}
