package render

import (
	"embed"
	"fmt"
	"sync"
	"text/template"
)

const (
	tmplCppFile    = "cpp_file"
	tmplCppType    = "cpp_type"
	tmplCSharpFile = "cs_file"
	tmplCSharpType = "cs_type"
)

const templatePattern = "templates/*.gtpl"

//go:embed templates/*.gtpl
var templatesFS embed.FS

var (
	rootTmpl     *template.Template
	tmplInitOnce sync.Once
	tmplInitErr  error
)

// validateTemplates ensures all required templates are defined
func validateTemplates() error {
	for _, name := range []string{tmplCppFile, tmplCppType, tmplCSharpFile, tmplCSharpType} {
		if rootTmpl.Lookup(name) == nil {
			return fmt.Errorf("required template %q not found", name)
		}
	}
	return nil
}

// ensureTemplates parses and validates templates exactly once.
func ensureTemplates() error {
	tmplInitOnce.Do(func() {
		var t *template.Template
		t, tmplInitErr = template.New("hypgen").Funcs(funcs).ParseFS(templatesFS, templatePattern)
		if tmplInitErr != nil {
			return
		}
		rootTmpl = t
		tmplInitErr = validateTemplates()
	})
	return tmplInitErr
}
