package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a13labs/hypgen/pkg/parser"
)

// mapParam parses `void f(<decl>);` and maps the parameter type
func mapParam(t *testing.T, m *Mapper, decl string) string {
	t.Helper()
	data, err := parser.ParseString("t.h", "void f("+decl+");", parser.Options{})
	require.NoError(t, err)
	require.Len(t, data.Namespace.Functions, 1)
	require.Len(t, data.Namespace.Functions[0].Parameters, 1)
	return m.MapType(data.Namespace.Functions[0].Parameters[0].Type)
}

func TestMap(t *testing.T) {
	m := New(map[string]string{"Vec3f": "Vector3", "int32_t": "Int"})
	assert.Equal(t, "uint64", m.Map("size_t"))
	assert.Equal(t, "String", m.Map(" std::string "))
	assert.Equal(t, "int", m.Map("int"))
	assert.Equal(t, "Vector3", m.Map("Vec3f"))
	assert.Equal(t, "Int", m.Map("int32_t"))
	assert.Equal(t, "Unknown", m.Map("Unknown"))
}

func TestMapResolver(t *testing.T) {
	m := New(nil)
	m.SetResolver(func(name string) (string, bool) {
		if name == "Entity" || name == "hyp::Entity" {
			return "hyp::Entity", true
		}
		return "", false
	})
	assert.Equal(t, "hyp::Entity", m.Map("Entity"))
	assert.Equal(t, "Other", m.Map("Other"))
}

func TestMapType(t *testing.T) {
	m := New(nil)
	m.SetResolver(func(name string) (string, bool) {
		if name == "A" {
			return "game::A", true
		}
		return "", false
	})

	tests := []struct {
		decl     string
		expected string
	}{
		{"int count", "int"},
		{"size_t n", "uint64"},
		{"const std::string &name", "const String&"},
		{"const char *s", "String"},
		{"A *a", "game::A*"},
		{"const A &a", "const game::A&"},
		{"A &&a", "game::A&&"},
		{"uint8_t *const data", "uint8* const"},
		{"std::vector<A> items", "std::vector<A>"},
		{"void (*cb)(int)", "void (*)(int)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, mapParam(t, m, tt.decl), "mapping %q", tt.decl)
	}
	assert.Equal(t, "", m.MapType(nil))
}

func TestCSharp(t *testing.T) {
	tests := map[string]string{
		"int":            "int",
		"uint64":         "ulong",
		"const String&":  "string",
		"String":         "string",
		"bool":           "bool",
		"void":           "void",
		"void*":          "IntPtr",
		"int32*":         "IntPtr",
		"game::A*":       "A",
		"const game::A&": "A",
		"unsigned int":   "uint",
		"Name":           "Name",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, CSharp(in), "C# name of %q", in)
	}
}
