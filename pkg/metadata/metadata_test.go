package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "meta.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Names())
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := Load(path)
	assert.Error(t, err)
	require.NotNil(t, s)
	assert.Empty(t, s.Names())
	assert.Equal(t, path, s.Path())
}

func TestRoundTripKeepsExtras(t *testing.T) {
	for _, name := range []string{"meta.json", "meta.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			var content string
			if name == "meta.json" {
				content = `{"hyp::Entity": {"last_modified": 100, "owner": "core"}, "Foo": {"last_modified": 1.5}}`
			} else {
				content = "hyp::Entity:\n  last_modified: 100\n  owner: core\nFoo:\n  last_modified: 1.5\n"
			}
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			s, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"Foo", "hyp::Entity"}, s.Names())

			ts, ok := s.LastModified("hyp::Entity")
			require.True(t, ok)
			assert.Equal(t, 100.0, ts)

			s.SetLastModified("hyp::Entity", 200.25)
			s.SetLastModified("New", 3)
			require.NoError(t, s.Save())

			again, err := Load(path)
			require.NoError(t, err)
			e, ok := again.Entry("hyp::Entity")
			require.True(t, ok)
			assert.Equal(t, "core", e["owner"])
			ts, _ = e.LastModified()
			assert.Equal(t, 200.25, ts)
			ts, _ = again.LastModified("Foo")
			assert.Equal(t, 1.5, ts)
			ts, _ = again.LastModified("New")
			assert.Equal(t, 3.0, ts)
		})
	}
}

func TestSaveIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "meta.json")
	s := New(path)
	mtime := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)
	s.SetLastModified("B", Timestamp(mtime))
	s.SetLastModified("A", Timestamp(mtime))
	require.NoError(t, s.Save())
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.False(t, loaded.Stale("A", mtime))
	require.NoError(t, loaded.Save())
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	// no temporary files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStale(t *testing.T) {
	s := New("meta.json")
	mtime := time.Unix(1000, 0)
	assert.True(t, s.Stale("A", mtime))

	s.SetLastModified("A", Timestamp(mtime))
	assert.False(t, s.Stale("A", mtime))
	assert.False(t, s.Stale("A", mtime.Add(-time.Second)))
	assert.True(t, s.Stale("A", mtime.Add(time.Millisecond)))

	s.entries["B"] = Entry{"last_modified": "yesterday"}
	assert.True(t, s.Stale("B", mtime))
}
