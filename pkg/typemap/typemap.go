// Package typemap translates C++ type spellings into the names used by
// the generated bindings.
package typemap

import (
	"maps"
	"strings"

	"github.com/a13labs/hypgen/pkg/ast"
)

// builtins maps well-known C++ spellings to binding friendly names
var builtins = map[string]string{
	"size_t":         "uint64",
	"std::size_t":    "uint64",
	"SizeType":       "uint64",
	"ptrdiff_t":      "int64",
	"std::ptrdiff_t": "int64",
	"ssize_t":        "int64",
	"int8_t":         "int8",
	"int16_t":        "int16",
	"int32_t":        "int32",
	"int64_t":        "int64",
	"uint8_t":        "uint8",
	"uint16_t":       "uint16",
	"uint32_t":       "uint32",
	"uint64_t":       "uint64",
	"std::int8_t":    "int8",
	"std::int16_t":   "int16",
	"std::int32_t":   "int32",
	"std::int64_t":   "int64",
	"std::uint8_t":   "uint8",
	"std::uint16_t":  "uint16",
	"std::uint32_t":  "uint32",
	"std::uint64_t":  "uint64",
	"ubyte":          "uint8",

	"std::string":      "String",
	"std::string_view": "String",
	"String":           "String",
	"ANSIString":       "String",
	"UTF8StringView":   "String",
	"ANSIStringView":   "String",
	"const char*":      "String",
	"Name":             "Name",
	"WeakName":         "Name",
}

// Resolver returns the canonical name of a reflected type, if name
// refers to one
type Resolver func(name string) (string, bool)

// Mapper applies the builtin table, any extra entries and then the
// resolver
type Mapper struct {
	table    map[string]string
	resolver Resolver
}

// New creates a Mapper. extra entries override the builtin table.
func New(extra map[string]string) *Mapper {
	table := maps.Clone(builtins)
	maps.Copy(table, extra)
	return &Mapper{table: table}
}

// SetResolver installs the lookup of reflected types
func (m *Mapper) SetResolver(r Resolver) {
	m.resolver = r
}

// Map translates one type name
func (m *Mapper) Map(name string) string {
	name = strings.TrimSpace(name)
	if mapped, ok := m.table[name]; ok {
		name = mapped
	}
	if m.resolver != nil {
		if canonical, ok := m.resolver(name); ok {
			return canonical
		}
	}
	return name
}

// MapType renders t with every named type translated by Map. Function
// types are rendered unchanged.
func (m *Mapper) MapType(t ast.TypeNode) string {
	if t == nil {
		return ""
	}
	if mapped, ok := m.table[t.Format()]; ok {
		return m.Map(mapped)
	}

	switch n := t.(type) {
	case *ast.Type:
		name := m.Map(n.Typename.Format())
		if n.Volatile {
			name = "volatile " + name
		}
		if n.Const {
			name = "const " + name
		}
		return name
	case *ast.Pointer:
		if _, ok := n.PtrTo.(*ast.FunctionType); ok {
			return n.Format()
		}
		s := m.MapType(n.PtrTo) + "*"
		if n.Const {
			s += " const"
		}
		return s
	case *ast.Reference:
		return m.MapType(n.RefTo) + "&"
	case *ast.MoveReference:
		return m.MapType(n.MoveRefTo) + "&&"
	case *ast.Array:
		size := ""
		if n.Size != nil {
			size = n.Size.Format()
		}
		return m.MapType(n.ArrayOf) + "[" + size + "]"
	}
	return t.Format()
}
