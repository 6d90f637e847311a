// Package render turns descriptors into the text of the generated C++
// and C# companion files
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/a13labs/hypgen/pkg/reflection"
)

// Language selects the kind of companion file
type Language int

const (
	Cpp Language = iota
	CSharp
)

// Languages lists every output language
var Languages = []Language{Cpp, CSharp}

func (l Language) String() string {
	switch l {
	case Cpp:
		return "cpp"
	case CSharp:
		return "csharp"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// Extension replaces the source extension in output file names
func (l Language) Extension() string {
	if l == CSharp {
		return ".cs"
	}
	return ".generated.cpp"
}

func (l Language) templates() (file, typ string) {
	if l == CSharp {
		return tmplCSharpFile, tmplCSharpType
	}
	return tmplCppFile, tmplCppType
}

// typeData is what the type templates see: the descriptor plus the kind
// enumerations keyed by name, e.g. {{if eq .Kind $.Kinds.enum}}
type typeData struct {
	*reflection.Descriptor
	Kinds       map[string]reflection.Kind
	MemberKinds map[string]reflection.MemberKind
}

type fileData struct {
	Source   string
	IsHeader bool
	Body     string
}

// Renderer executes the embedded templates
type Renderer struct {
	kinds       map[string]reflection.Kind
	memberKinds map[string]reflection.MemberKind
}

// New parses the embedded templates on first use
func New() (*Renderer, error) {
	if err := ensureTemplates(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r := &Renderer{
		kinds:       map[string]reflection.Kind{},
		memberKinds: map[string]reflection.MemberKind{},
	}
	for _, k := range reflection.Kinds {
		r.kinds[k.String()] = k
	}
	for _, k := range reflection.MemberKinds {
		r.memberKinds[k.String()] = k
	}
	return r, nil
}

// Type renders the section of a companion file for one descriptor
func (r *Renderer) Type(lang Language, d *reflection.Descriptor) (string, error) {
	_, name := lang.templates()
	var buf bytes.Buffer
	data := typeData{Descriptor: d, Kinds: r.kinds, MemberKinds: r.memberKinds}
	if err := rootTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s for %s: %w", lang, d.QualifiedName(), err)
	}
	return buf.String(), nil
}

// File wraps the concatenated type sections of source in the file
// preamble
func (r *Renderer) File(lang Language, source string, sections []string) (string, error) {
	name, _ := lang.templates()
	var buf bytes.Buffer
	data := fileData{
		Source:   source,
		IsHeader: strings.HasSuffix(source, ".hpp") || strings.HasSuffix(source, ".h"),
		Body:     strings.Join(sections, "\n"),
	}
	if err := rootTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s file for %s: %w", lang, source, err)
	}
	return buf.String(), nil
}
