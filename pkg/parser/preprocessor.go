package parser

import (
	"fmt"
	"strings"
)

// Preprocessor removes macros that expand to nothing. It understands only
// `#define NAME` and `#define NAME(args)` with an empty body; any other
// macro must be expanded by a real preprocessor before parsing.
//
// Removed text is replaced by spaces so offsets and line numbers of the
// remaining source are unchanged.
type Preprocessor struct {
	macros map[string]bool // name -> function-like
}

// NewPreprocessor creates a Preprocessor with no macros defined
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{macros: map[string]bool{}}
}

// Define registers an empty macro
func (pp *Preprocessor) Define(name string, functionLike bool) {
	pp.macros[name] = functionLike
}

// Defined reports whether name is a registered macro
func (pp *Preprocessor) Defined(name string) bool {
	_, ok := pp.macros[name]
	return ok
}

// Process consumes the empty #define lines of content, registering their
// macros, and blanks every invocation of a registered macro
func (pp *Preprocessor) Process(filename, content string) (string, error) {
	buf := []byte(content)
	if err := pp.collectDefines(filename, buf); err != nil {
		return "", err
	}
	pp.blankInvocations(buf)
	return string(buf), nil
}

// collectDefines blanks and registers `#define` lines
func (pp *Preprocessor) collectDefines(filename string, buf []byte) error {
	line := 1
	for start := 0; start < len(buf); {
		end := start
		for end < len(buf) && buf[end] != '\n' {
			end++
		}
		text := strings.TrimSpace(string(buf[start:end]))
		if strings.HasPrefix(text, "#") {
			directive := strings.TrimSpace(strings.TrimPrefix(text, "#"))
			if rest, ok := strings.CutPrefix(directive, "define"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
				if err := pp.define(strings.TrimSpace(rest)); err != nil {
					return &LexError{
						Location: Location{Filename: filename, Line: line},
						Offset:   start,
						Msg:      err.Error(),
					}
				}
				for i := start; i < end; i++ {
					buf[i] = ' '
				}
			}
		}
		start = end + 1
		line++
	}
	return nil
}

func (pp *Preprocessor) define(text string) error {
	n := 0
	for n < len(text) && isWordByte(text[n]) {
		n++
	}
	if n == 0 {
		return fmt.Errorf("expected macro name after #define")
	}
	name, rest := text[:n], text[n:]

	functionLike := strings.HasPrefix(rest, "(")
	if functionLike {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return fmt.Errorf("unterminated parameter list for macro %s", name)
		}
		rest = rest[end+1:]
	}
	if strings.TrimSpace(rest) != "" {
		return fmt.Errorf("macro %s has a non-empty replacement list", name)
	}
	pp.Define(name, functionLike)
	return nil
}

// blankInvocations replaces uses of registered macros with spaces,
// skipping string literals, character literals and comments
func (pp *Preprocessor) blankInvocations(buf []byte) {
	if len(pp.macros) == 0 {
		return
	}
	for i := 0; i < len(buf); {
		c := buf[i]
		switch {
		case c == '/' && i+1 < len(buf) && buf[i+1] == '/':
			for i < len(buf) && buf[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(buf) && buf[i+1] == '*':
			i += 2
			for i+1 < len(buf) && !(buf[i] == '*' && buf[i+1] == '/') {
				i++
			}
			i += 2
		case c == '"' || c == '\'':
			i = skipQuoted(buf, i)
		case isWordByte(c) && (c < '0' || c > '9'):
			start := i
			for i < len(buf) && isWordByte(buf[i]) {
				i++
			}
			functionLike, ok := pp.macros[string(buf[start:i])]
			if !ok {
				continue
			}
			end := i
			if functionLike {
				open := i
				for open < len(buf) && (buf[open] == ' ' || buf[open] == '\t' || buf[open] == '\n' || buf[open] == '\r') {
					open++
				}
				if open >= len(buf) || buf[open] != '(' {
					continue
				}
				end = matchParen(buf, open)
			}
			blank(buf[start:end])
			i = end
		case c >= '0' && c <= '9':
			for i < len(buf) && (isWordByte(buf[i]) || buf[i] == '.' || buf[i] == '\'') {
				i++
			}
		default:
			i++
		}
	}
}

// skipQuoted returns the index just past the literal starting at buf[i]
func skipQuoted(buf []byte, i int) int {
	quote := buf[i]
	for i++; i < len(buf); i++ {
		switch buf[i] {
		case '\\':
			i++
		case quote, '\n':
			return i + 1
		}
	}
	return i
}

// matchParen returns the index just past the ')' matching buf[open]
func matchParen(buf []byte, open int) int {
	depth := 0
	for i := open; i < len(buf); i++ {
		switch buf[i] {
		case '"', '\'':
			i = skipQuoted(buf, i) - 1
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(buf)
}

// blank overwrites text with spaces, keeping line breaks
func blank(b []byte) {
	for i, c := range b {
		if c != '\n' && c != '\r' {
			b[i] = ' '
		}
	}
}
