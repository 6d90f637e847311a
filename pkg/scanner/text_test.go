package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// masked renders the mask of src with '#' for non-code bytes
func masked(src string) string {
	mask := codeMask(src)
	b := []byte(src)
	for i := range b {
		if mask[i] {
			b[i] = '#'
		}
	}
	return string(b)
}

func TestCodeMask(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{`a // b`, `a ####`},
		{"a /* { */ b", "a ####### b"},
		{`x = "}\"{";`, `x = ######;`},
		{`c = '{';`, `c = ###;`},
		{`n = 1'000;`, `n = 1'000;`},
		{"#include <a>\n{", "############\n{"},
		{"  #define X \\\n  {\n}", "  ###############\n}"},
		{"a # b", "a # b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, masked(tt.src), "masking %q", tt.src)
	}
}

func TestMatchClose(t *testing.T) {
	src := `f(a, ")", (b)) { "}" /* } */ { } }`
	mask := codeMask(src)
	assert.Equal(t, strings.Index(src, ") {"), matchClose(src, mask, 1))
	assert.Equal(t, len(src)-1, matchClose(src, mask, strings.IndexByte(src, '{')))
	assert.Equal(t, -1, matchClose("( a", codeMask("( a"), 0))
	assert.Equal(t, -1, matchClose("x", codeMask("x"), 0))
}

func TestMemberEnd(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"field", " int x; int y;", " int x;"},
		{"method body", " void f() { g(); } int y;", " void f() { g(); }"},
		{"brace init", " int x{0}; int y;", " int x{0};"},
		{"ctor initializer", " X() : a{1}, b{2} {} int y;", " X() : a{1}, b{2} {}"},
		{"comment brace", " int x; // }", " int x;"},
		{"template comma", " std::map<int, int> m; int y;", " std::map<int, int> m;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := codeMask(tt.src)
			end := memberEnd(tt.src, mask, 0, len(tt.src))
			if assert.Positive(t, end) {
				assert.Equal(t, tt.expected, tt.src[:end])
			}
		})
	}

	src := " int x } int y;"
	assert.Equal(t, -1, memberEnd(src, codeMask(src), 0, len(src)))
	assert.Equal(t, -1, memberEnd(" int x", codeMask(" int x"), 0, 6))
}

func TestScopeName(t *testing.T) {
	tests := []struct {
		head     string
		expected []string
	}{
		{"namespace hyp ", []string{"hyp"}},
		{"\nnamespace a::inline b ", []string{"a", "b"}},
		{"inline namespace v1 ", []string{"v1"}},
		{"namespace ", nil},
		{"namespace [[deprecated]] old ", []string{"old"}},
		{"HYP_CLASS() class HYP_API Foo final : public Bar<int> ", []string{"Foo"}},
		{"struct Vec3", []string{"Vec3"}},
		{"template <class T> struct Box ", []string{"Box"}},
		{"void f(class Foo *p) ", nil},
		{"if (x) ", nil},
		{`extern "C" `, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, scopeName(tt.head), "head %q", tt.head)
	}
}

func TestLeadingDoxygen(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"line comments", "/// a\n/// b\nX", "/// a\n/// b"},
		{"block", "/** doc */\nX", "/** doc */"},
		{"blank line separates", "/// a\n\nX", ""},
		{"plain comment stops", "/// a\n// plain\nX", ""},
		{"code stops", "int y; /// a\nX", ""},
		{"mixed", "/*! one */\n//! two\n  X", "/*! one */\n//! two"},
		{"trailing doc is not leading", "///< a\nX", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, leadingDoxygen(tt.src, strings.IndexByte(tt.src, 'X')))
		})
	}
}

func TestScopesAt(t *testing.T) {
	src := "namespace a { class B { void f() { X } }; X }\nX"
	mask := codeMask(src)
	var offsets []int
	for i := range src {
		if src[i] == 'X' {
			offsets = append(offsets, i)
		}
	}
	scopes := scopesAt(src, mask, offsets)
	assert.Equal(t, []string{"a", "B"}, scopes[0])
	assert.Equal(t, []string{"a"}, scopes[1])
	assert.Empty(t, scopes[2])
}
