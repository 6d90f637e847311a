package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// significant drops whitespace, newlines and comments
func significant(toks []Token) []Token {
	var out []Token
	for _, t := range toks {
		if !t.Type.Discardable() {
			out = append(out, t)
		}
	}
	return out
}

func tokenTypes(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Type.String()
	}
	return out
}

func TestTokenizeDeclaration(t *testing.T) {
	toks, err := Tokenize("t.h", "class Foo : public Bar { int x = 0; };")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"class", "NAME", ":", "public", "NAME", "{",
		"int", "NAME", "=", "INT_CONST_DEC", ";", "}", ";",
	}, tokenTypes(significant(toks)))
}

func TestTokenizeLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "INT_CONST_DEC"},
		{"42u", "INT_CONST_DEC"},
		{"0x1Fu", "INT_CONST_HEX"},
		{"0b101", "INT_CONST_BIN"},
		{"0123", "INT_CONST_OCT"},
		{"1'000'000", "INT_CONST_DEC"},
		{"1.5f", "FLOAT_CONST"},
		{".5", "FLOAT_CONST"},
		{"1e10", "FLOAT_CONST"},
		{"0x1.8p3", "HEX_FLOAT_CONST"},
		{"'a'", "CHAR_CONST"},
		{"L'a'", "WCHAR_CONST"},
		{`"text"`, "STRING_LITERAL"},
		{`u8"text"`, "U8STRING_LITERAL"},
		{`L"wide"`, "WSTRING_LITERAL"},
		{"12_km", "UD_INT_CONST_DEC"},
		{`"abc"_s`, "UD_STRING_LITERAL"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := Tokenize("t.h", tt.input)
			require.NoError(t, err)
			require.Len(t, toks, 1)
			assert.Equal(t, tt.want, toks[0].Type.String())
			assert.Equal(t, tt.input, toks[0].Value)
			assert.True(t, toks[0].Type.IsLiteral())
		})
	}
}

func TestTokenizePunctuation(t *testing.T) {
	toks, err := Tokenize("t.h", "a::b->c... [[x]] && || << ~")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"NAME", "::", "NAME", "->", "NAME", "...",
		"[[", "NAME", "]]", "&&", "||", "<<", "~",
	}, tokenTypes(significant(toks)))
}

func TestTokenizeKeepsComments(t *testing.T) {
	toks, err := Tokenize("t.h", "/// doc\nint x; /**< after */")
	require.NoError(t, err)

	require.Equal(t, TokenLineComment, toks[0].Type)
	assert.Equal(t, "/// doc", toks[0].Value)
	assert.Equal(t, TokenNewline, toks[1].Type)
	assert.Equal(t, TokenBlockComment, toks[len(toks)-1].Type)
}

func TestTokenizeLineNumbers(t *testing.T) {
	toks, err := Tokenize("t.h", "int a;\n\nint b;")
	require.NoError(t, err)

	sig := significant(toks)
	require.Len(t, sig, 6)
	assert.Equal(t, 1, sig[0].Line)
	assert.Equal(t, 1, sig[0].Column)
	assert.Equal(t, 3, sig[3].Line)
	assert.Equal(t, Location{Filename: "t.h", Line: 3}, sig[3].Location)
}

func TestTokenizeLineDirective(t *testing.T) {
	toks, err := Tokenize("t.h", "int a;\n#line 100 \"other.h\"\nint b;\n# 7 \"third.h\"\nint c;")
	require.NoError(t, err)

	sig := significant(toks)
	require.Len(t, sig, 9)
	assert.Equal(t, Location{Filename: "t.h", Line: 1}, sig[0].Location)
	assert.Equal(t, Location{Filename: "other.h", Line: 100}, sig[3].Location)
	assert.Equal(t, 3, sig[3].Line)
	assert.Equal(t, Location{Filename: "third.h", Line: 7}, sig[6].Location)
}

func TestTokenizeDirectives(t *testing.T) {
	toks, err := Tokenize("t.h", "#pragma once\n#include <vector>\n#warning careful\nint x;")
	require.NoError(t, err)

	sig := significant(toks)
	require.Equal(t, []string{"PRAGMA_DIRECTIVE", "INCLUDE_DIRECTIVE", "int", "NAME", ";"}, tokenTypes(sig))
	assert.Equal(t, "#pragma once", sig[0].Value)
	assert.Equal(t, "#include <vector>", sig[1].Value)
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"define", "#define FOO 1\n", "unsupported preprocessor directive: #define"},
		{"ifdef", "#ifdef FOO\n#endif\n", "unsupported preprocessor directive: #ifdef"},
		{"comment", "/* never closed", "unterminated comment"},
		{"character", "int x = @;", "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize("t.h", tt.input)
			require.Error(t, err)

			var lexErr *LexError
			require.True(t, errors.As(err, &lexErr), "expected a LexError, got %T", err)
			assert.Contains(t, lexErr.Error(), tt.msg)
		})
	}
}
