package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnored(t *testing.T) {
	tests := []struct {
		rel      string
		expected bool
	}{
		{"generated", true},
		{"generated/foo.generated.cpp", true},
		{"generatedfoo.hpp", false},
		{"core/object/HypObject.hpp", true},
		{"core/Defines.hpp", true},
		{"core/Defines.hpp.bak", false},
		{"core/math/Vector3.hpp", false},
		{"./core/Defines.hpp", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Ignored(tt.rel, DefaultIgnore), "ignoring %q", tt.rel)
	}
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"scene/Node.hpp",
		"scene/Node.cpp",
		"scene/Node.inl",
		"core/Defines.hpp",
		"core/object/HypObject.hpp",
		"generated/Node.generated.cpp",
		"Engine.HPP",
		"a.hpp",
	}
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("// "+f), 0o644))
	}

	sources, err := Walk(root, DefaultIgnore, DefaultExtensions)
	require.NoError(t, err)

	var rels []string
	for _, s := range sources {
		rels = append(rels, s.Rel)
		assert.False(t, s.ModTime.IsZero())
		assert.FileExists(t, s.Path)
	}
	assert.Equal(t, []string{"Engine.HPP", "a.hpp", "scene/Node.cpp", "scene/Node.hpp"}, rels)
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "missing"), nil, DefaultExtensions)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
