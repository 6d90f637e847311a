package render

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/a13labs/hypgen/pkg/attributes"
	"github.com/a13labs/hypgen/pkg/reflection"
	"github.com/a13labs/hypgen/pkg/typemap"
	"github.com/a13labs/hypgen/pkg/utils"
)

var funcs = template.FuncMap{
	"csharp":     typemap.CSharp,
	"csParams":   csParams,
	"csArgs":     csArgs,
	"isVoid":     isVoid,
	"isOperator": func(name string) bool { return strings.HasPrefix(name, "operator") },
	"docLines":   docLines,
	"brief":      utils.ExtractBrief,
	"cppString":  strconv.Quote,
	"cppAttr":    cppAttr,
	"attrs":      func(l attributes.List) string { return l.String() },
}

func csParams(params []reflection.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = typemap.CSharp(p.Type) + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

func csArgs(params []reflection.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name
	}
	return strings.Join(parts, ", ")
}

func isVoid(mapped string) bool {
	return strings.TrimSpace(mapped) == "void"
}

// docLines returns the cleaned lines of a doxygen comment
func docLines(comment string) []string {
	cleaned := utils.CleanComment(comment)
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, "\n")
}

// cppAttr renders one attribute as a HypClassAttribute initializer. Flags
// become true and nested lists keep their macro spelling.
func cppAttr(a attributes.Attribute) string {
	var value string
	switch {
	case a.Kind == attributes.KindIdentifier && a.Value == a.Name:
		value = "true"
	case a.Kind == attributes.KindString:
		value = strconv.Quote(a.Value)
	case a.Kind == attributes.KindNested:
		value = strconv.Quote(a.Nested.String())
	case isNumber(a.Value), a.Value == "true", a.Value == "false":
		value = a.Value
	default:
		value = strconv.Quote(a.Value)
	}
	return "HypClassAttribute(" + strconv.Quote(a.Name) + ", " + value + ")"
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(s, "f"), "u"), 64)
	return err == nil
}
