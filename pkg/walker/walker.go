// Package walker lists the C++ sources under a source root
package walker

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// DefaultIgnore are paths, relative to the source root, that never hold
// reflected types
var DefaultIgnore = []string{"generated/", "core/object/", "core/Defines.hpp"}

// DefaultExtensions are the file extensions that are scanned
var DefaultExtensions = []string{".hpp", ".cpp"}

// Source is one file to scan
type Source struct {
	// Path is the file as found on disk; Rel is slash separated and
	// relative to the root
	Path    string
	Rel     string
	ModTime time.Time
}

// Ignored reports whether rel lies under or equals one of the ignore
// entries
func Ignored(rel string, ignore []string) bool {
	rel = path.Clean(filepath.ToSlash(rel))
	for _, entry := range ignore {
		entry = strings.TrimSuffix(path.Clean(filepath.ToSlash(entry)), "/")
		if entry == "" || entry == "." {
			continue
		}
		if rel == entry || strings.HasPrefix(rel, entry+"/") {
			return true
		}
	}
	return false
}

// Walk returns every source under root with one of extensions, skipping
// ignored paths, in lexical order
func Walk(root string, ignore, extensions []string) ([]Source, error) {
	var sources []Source
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && Ignored(rel, ignore) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !slices.Contains(extensions, strings.ToLower(filepath.Ext(p))) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		sources = append(sources, Source{Path: p, Rel: rel, ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return sources, nil
}
