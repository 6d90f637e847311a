package parser

import (
	"slices"
	"strings"

	"github.com/a13labs/hypgen/pkg/utils"
)

// TokenStream hands out the significant tokens of a Tokenizer, keeping
// comments buffered so documentation can be recovered, and supports
// pushing any number of tokens back. A bounded stream replays a fixed
// token slice and never reads comments.
type TokenStream struct {
	lex  *Tokenizer
	buf  []Token
	err  error
	done bool
	end  Location
	last Location
}

// NewTokenStream creates a stream lexing content lazily
func NewTokenStream(filename, content string) *TokenStream {
	return &TokenStream{
		lex: NewTokenizer(filename, content),
		end: Location{Filename: filename},
	}
}

// NewBoundedStream creates a stream over a fixed token slice; end is
// reported as the location of the end of input.
func NewBoundedStream(tokens []Token, end Location) *TokenStream {
	return &TokenStream{
		buf:  slices.Clone(tokens),
		done: true,
		end:  end,
	}
}

// Err returns the first lexer error encountered, if any
func (s *TokenStream) Err() error {
	return s.err
}

// pull appends one raw token from the lexer to the buffer
func (s *TokenStream) pull() bool {
	if s.lex == nil || s.done || s.err != nil {
		return false
	}
	tok, err := s.lex.Next()
	if err != nil {
		s.err = err
		return false
	}
	if tok.Type == TokenEOF {
		s.done = true
		s.end = tok.Location
		return false
	}
	s.buf = append(s.buf, tok)
	return true
}

// front returns the buffer index of the next significant token, or -1
func (s *TokenStream) front() int {
	for i := 0; ; i++ {
		for i >= len(s.buf) {
			if !s.pull() {
				return -1
			}
		}
		if !s.buf[i].Type.Discardable() {
			return i
		}
	}
}

func (s *TokenStream) take(i int) Token {
	tok := s.buf[i]
	s.buf = s.buf[i+1:]
	s.last = tok.Location
	return tok
}

func (s *TokenStream) eof() Token {
	loc := s.end
	if loc.Line == 0 {
		loc = s.last
	}
	return Token{Type: TokenEOF, Location: loc}
}

// Next returns the next significant token; running out of input is an error
func (s *TokenStream) Next() (Token, error) {
	tok, err := s.NextAllowEOF()
	if err == nil && tok.Type == TokenEOF {
		return tok, parseError(tok, "unexpected end of input")
	}
	return tok, err
}

// NextAllowEOF returns the next significant token, or a TokenEOF token
func (s *TokenStream) NextAllowEOF() (Token, error) {
	i := s.front()
	if i < 0 {
		if s.err != nil {
			return Token{}, s.err
		}
		return s.eof(), nil
	}
	return s.take(i), nil
}

// NextIf consumes the next token when its type is one of types
func (s *TokenStream) NextIf(types ...TokenType) (Token, bool) {
	i := s.front()
	if i < 0 || !slices.Contains(types, s.buf[i].Type) {
		return Token{}, false
	}
	return s.take(i), true
}

// NextIfValue consumes the next token when its text is one of values
func (s *TokenStream) NextIfValue(values ...string) (Token, bool) {
	i := s.front()
	if i < 0 || !slices.Contains(values, s.buf[i].Value) {
		return Token{}, false
	}
	return s.take(i), true
}

// Peek returns the next significant token without consuming it
func (s *TokenStream) Peek() Token {
	i := s.front()
	if i < 0 {
		return s.eof()
	}
	return s.buf[i]
}

// PeekIf reports whether the next token has one of the given types
func (s *TokenStream) PeekIf(types ...TokenType) bool {
	return slices.Contains(types, s.Peek().Type)
}

// HasTokens reports whether any significant token remains
func (s *TokenStream) HasTokens() bool {
	return s.front() >= 0
}

// Return pushes tok back so it is produced next
func (s *TokenStream) Return(tok Token) {
	s.buf = append([]Token{tok}, s.buf...)
}

// ReturnAll pushes toks back so they are produced next, in order
func (s *TokenStream) ReturnAll(toks []Token) {
	if len(toks) == 0 {
		return
	}
	s.buf = append(slices.Clone(toks), s.buf...)
}

// Location returns the location of the last consumed token
func (s *TokenStream) Location() Location {
	return s.last
}

// DoxygenBefore consumes the comments in front of the next significant
// token and returns the documentation comments among them. A blank line
// discards whatever was collected before it.
func (s *TokenStream) DoxygenBefore() string {
	var comments []string
	newlines := 0
	for {
		if len(s.buf) == 0 && !s.pull() {
			break
		}
		tok := s.buf[0]
		switch tok.Type {
		case TokenNewline:
			newlines++
			if newlines > 1 {
				comments = comments[:0]
			}
		case TokenWhitespace:
		case TokenLineComment, TokenBlockComment:
			newlines = 0
			if utils.IsDoxygenComment(tok.Value) {
				comments = append(comments, tok.Value)
			}
		default:
			return strings.Join(comments, "\n")
		}
		s.buf = s.buf[1:]
	}
	return strings.Join(comments, "\n")
}

// DoxygenAfter returns a trailing ///< comment on the current line
func (s *TokenStream) DoxygenAfter() string {
	for {
		if len(s.buf) == 0 && !s.pull() {
			return ""
		}
		tok := s.buf[0]
		switch tok.Type {
		case TokenWhitespace:
			s.buf = s.buf[1:]
			continue
		case TokenLineComment, TokenBlockComment:
			if utils.IsTrailingDoxygen(tok.Value) {
				s.buf = s.buf[1:]
				return tok.Value
			}
		}
		return ""
	}
}
