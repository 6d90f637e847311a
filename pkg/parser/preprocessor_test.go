package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessorBlanksEmptyMacros(t *testing.T) {
	content := "#define API\n#define TAG(...)\nTAG(a, (b)) class API Foo {};\n"
	pp := NewPreprocessor()
	out, err := pp.Process("t.h", content)
	require.NoError(t, err)

	assert.True(t, pp.Defined("API"))
	assert.True(t, pp.Defined("TAG"))
	assert.Len(t, out, len(content))
	assert.Equal(t, strings.Count(content, "\n"), strings.Count(out, "\n"))
	assert.Equal(t, "class Foo {};", strings.Join(strings.Fields(out), " "))
}

func TestPreprocessorSkipsLiteralsAndComments(t *testing.T) {
	pp := NewPreprocessor()
	pp.Define("API", false)
	pp.Define("TAG", true)

	content := `const char *s = "API"; // API
/* TAG(x) */ char c = 'A'; int TAG;`
	out, err := pp.Process("t.h", content)
	require.NoError(t, err)

	assert.Contains(t, out, `"API"`)
	assert.Contains(t, out, "// API")
	assert.Contains(t, out, "/* TAG(x) */")
	// a function-like macro without arguments is left alone
	assert.Contains(t, out, "int TAG;")
}

func TestPreprocessorKeepsLinesForParser(t *testing.T) {
	pp := NewPreprocessor()
	pp.Define("HYP_FIELD", true)
	out, err := pp.Process("t.h", "struct S {\n    HYP_FIELD(\n        Serialize)\n    int x;\n};\n")
	require.NoError(t, err)

	toks, err := Tokenize("t.h", out)
	require.NoError(t, err)
	sig := significant(toks)
	require.Equal(t, "int", sig[3].Value)
	assert.Equal(t, 4, sig[3].Line)
}

func TestPreprocessorErrors(t *testing.T) {
	tests := []struct {
		content string
		msg     string
	}{
		{"#define VALUE 1\n", "non-empty replacement list"},
		{"int x;\n#define\n", "expected macro name"},
		{"#define F(a\n", "unterminated parameter list"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			_, err := NewPreprocessor().Process("t.h", tt.content)
			var lexErr *LexError
			require.True(t, errors.As(err, &lexErr))
			assert.Contains(t, lexErr.Msg, tt.msg)
		})
	}

	_, err := NewPreprocessor().Process("t.h", "int x;\n#define\n")
	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, 2, lexErr.Location.Line)
}
