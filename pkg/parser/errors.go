package parser

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is wrapped by ParseError when the input ends inside a
// declaration.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// LexError reports malformed input found by the Tokenizer.
type LexError struct {
	Location Location
	Offset   int
	Msg      string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Msg)
}

// ParseError reports a declaration the parser could not understand.
type ParseError struct {
	Location Location
	Offset   int
	// Token is the raw text of the offending token, empty at end of input.
	Token string
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s: parse error evaluating %q: %s", e.Location, e.Token, e.Msg)
	}
	return fmt.Sprintf("%s: parse error: %s", e.Location, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// parseError builds a ParseError positioned at tok.
func parseError(tok Token, format string, args ...any) *ParseError {
	err := &ParseError{
		Location: tok.Location,
		Offset:   tok.Offset,
		Msg:      fmt.Sprintf(format, args...),
	}
	if tok.Type != TokenEOF {
		err.Token = tok.Value
	} else {
		err.Err = ErrUnexpectedEOF
	}
	return err
}

// errorAt builds a ParseError for a declaration as a whole.
func errorAt(loc Location, format string, args ...any) *ParseError {
	return &ParseError{Location: loc, Msg: fmt.Sprintf(format, args...)}
}

// unexpected reports tok when one of the expected spellings was required.
func unexpected(tok Token, expected ...string) *ParseError {
	switch len(expected) {
	case 0:
		return parseError(tok, "unexpected %s", tok.Type)
	case 1:
		return parseError(tok, "expected %q", expected[0])
	}
	return parseError(tok, "expected one of %q", expected)
}
