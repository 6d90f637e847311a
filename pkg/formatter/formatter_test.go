package formatter

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabled(t *testing.T) {
	code := "namespace hyperion{int x;}"

	for _, f := range []*Formatter{nil, {}, New("  ", "LLVM")} {
		assert.False(t, f.Enabled())
		out, err := f.Format(context.Background(), "a.generated.cpp", code)
		require.NoError(t, err)
		assert.Equal(t, code, out)
	}
}

func TestMissingBinary(t *testing.T) {
	f := New("hypgen-no-such-clang-format", "")
	require.True(t, f.Enabled())

	_, err := f.Format(context.Background(), "a.generated.cpp", "int x;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clang-format failed on a.generated.cpp")
}

func TestFormatWithClang(t *testing.T) {
	path, err := exec.LookPath("clang-format")
	if err != nil {
		t.Skip("clang-format not available")
	}

	code := `namespace hyperion{HYP_BEGIN_CLASS(Foo,NAME("")) HYP_END_CLASS}`
	out, err := New(path, "LLVM").Format(context.Background(), "foo.generated.cpp", code)
	require.NoError(t, err)
	assert.NotEqual(t, code, out)
	assert.True(t, strings.HasPrefix(out, "namespace hyperion {"))
}
