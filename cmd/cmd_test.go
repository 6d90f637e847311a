package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a13labs/hypgen/pkg/ast"
	"github.com/a13labs/hypgen/pkg/config"
	"github.com/a13labs/hypgen/pkg/parser"
	"github.com/a13labs/hypgen/pkg/scanner"
)

const scopeSource = `namespace hyp {
namespace detail {
class Inner {};
}
class Node {
  class Child {};
};
}
`

func TestFindScope(t *testing.T) {
	data, err := scanner.New(parser.Options{}).ParseSource("a.hpp", scopeSource)
	require.NoError(t, err)

	ns, ok := findScope(data.Namespace, "hyp::detail").(*ast.NamespaceScope)
	require.True(t, ok)
	assert.Equal(t, "detail", ns.Name)

	inner, ok := findScope(data.Namespace, "hyp::detail::Inner").(*ast.ClassScope)
	require.True(t, ok)
	assert.Equal(t, "Inner", inner.Class.Typename.LastName())

	child, ok := findScope(data.Namespace, "::hyp::Node::Child").(*ast.ClassScope)
	require.True(t, ok)
	assert.Equal(t, "Child", child.Class.Typename.LastName())

	assert.Nil(t, findScope(data.Namespace, "hyp::Missing"))
	assert.Nil(t, findScope(data.Namespace, "hyp::Node::Missing"))
}

func TestWriteNode(t *testing.T) {
	node := map[string]int{"depth": 2}

	var buf bytes.Buffer
	require.NoError(t, writeNode(&buf, "json", node))
	assert.JSONEq(t, `{"depth": 2}`, buf.String())

	buf.Reset()
	require.NoError(t, writeNode(&buf, "yaml", node))
	assert.YAMLEq(t, "depth: 2\n", buf.String())

	assert.Error(t, writeNode(&buf, "xml", node))
}

func TestWriteInitConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hypgen.yaml")

	var buf bytes.Buffer
	require.NoError(t, writeInitConfig(&buf, config.New(), map[string]int{
		"scene/Node.hpp": 2,
		"Engine.hpp":     1,
	}))
	assert.Contains(t, buf.String(), "#   Engine.hpp (1)\n#   scene/Node.hpp (2)\n")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	c, err := config.Load(viper.New(), []string{path})
	require.NoError(t, err)
	want := config.New()
	assert.Equal(t, want.CppOutDir, c.CppOutDir)
	assert.Equal(t, want.CSharpOutDir, c.CSharpOutDir)
	assert.Equal(t, want.MetadataFile, c.MetadataFile)
	assert.Equal(t, want.Ignore, c.Ignore)
	assert.Equal(t, want.Extensions, c.Extensions)
	assert.Equal(t, "info", c.Log.Level)
}
