// Package metadata keeps the side file that records, per reflected type,
// the modification time of its source when bindings were last generated.
//
// The file maps qualified type names to objects holding at least
// last_modified, in seconds since the epoch:
//
//	{"hyp::Entity": {"last_modified": 1714564800.5}}
//
// Other keys of an entry are kept as they are.
package metadata

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/a13labs/hypgen/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LastModifiedKey is the entry key holding the timestamp
const LastModifiedKey = "last_modified"

// Entry is the metadata of one type
type Entry map[string]any

// LastModified returns the recorded timestamp
func (e Entry) LastModified() (float64, bool) {
	switch v := e[LastModifiedKey].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case jsoniter.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// Store is the content of a metadata file
type Store struct {
	path    string
	entries map[string]Entry
}

// New creates an empty store saved to path
func New(path string) *Store {
	return &Store{path: path, entries: map[string]Entry{}}
}

// Load reads the metadata file at path. A missing file yields an empty
// store. When the file cannot be read or decoded the empty store is
// returned together with the error, so callers may warn and carry on.
func Load(path string) (*Store, error) {
	s := New(path)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read metadata: %w", err)
	}

	entries := map[string]Entry{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &entries)
	} else {
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return s, fmt.Errorf("unmarshal metadata %s: %w", path, err)
	}
	for name, e := range entries {
		if e == nil {
			e = Entry{}
		}
		s.entries[name] = e
	}
	return s, nil
}

// Path is where Save writes
func (s *Store) Path() string { return s.path }

// Names returns the recorded type names in order
func (s *Store) Names() []string {
	return slices.Sorted(maps.Keys(s.entries))
}

// Entry returns the entry of a type
func (s *Store) Entry(name string) (Entry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// LastModified returns the recorded timestamp of a type
func (s *Store) LastModified(name string) (float64, bool) {
	e, ok := s.entries[name]
	if !ok {
		return 0, false
	}
	return e.LastModified()
}

// SetLastModified records the timestamp of a type, keeping its other keys
func (s *Store) SetLastModified(name string, ts float64) {
	e, ok := s.entries[name]
	if !ok {
		e = Entry{}
		s.entries[name] = e
	}
	e[LastModifiedKey] = ts
}

// Stale reports whether a source modified at mtime is newer than the
// recorded timestamp of name
func (s *Store) Stale(name string, mtime time.Time) bool {
	last, ok := s.LastModified(name)
	return !ok || Timestamp(mtime) > last
}

// Encode renders the store in the format chosen by its path
func (s *Store) Encode() ([]byte, error) {
	if isYAML(s.path) {
		return yaml.Marshal(s.entries)
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes the store atomically
func (s *Store) Save() error {
	data, err := s.Encode()
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// Timestamp converts a modification time to seconds since the epoch
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
