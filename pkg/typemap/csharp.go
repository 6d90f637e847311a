package typemap

import (
	"strings"
)

// CSharp returns the C# spelling of a mapped type name. Pointers and
// references to reflected types become the type itself; other pointers
// become IntPtr.
func CSharp(mapped string) string {
	t := strings.TrimSpace(mapped)
	t = strings.TrimPrefix(t, "const ")
	t = strings.TrimSuffix(t, " const")

	ref := false
	for _, suffix := range []string{"&&", "&", "*"} {
		if strings.HasSuffix(t, suffix) {
			t = strings.TrimSpace(strings.TrimSuffix(t, suffix))
			t = strings.TrimPrefix(t, "const ")
			ref = true
			break
		}
	}

	if cs, ok := csharpPrimitive(t); ok {
		if ref && cs != "string" {
			return "IntPtr"
		}
		return cs
	}
	if t == "void" {
		if ref {
			return "IntPtr"
		}
		return "void"
	}
	// reflected and unknown types keep their last name segment
	if i := strings.LastIndex(t, "::"); i >= 0 {
		t = t[i+2:]
	}
	return t
}

func csharpPrimitive(t string) (string, bool) {
	switch t {
	case "bool":
		return "bool", true
	case "int8", "char", "signed char":
		return "sbyte", true
	case "uint8", "unsigned char":
		return "byte", true
	case "int16", "short":
		return "short", true
	case "uint16", "unsigned short":
		return "ushort", true
	case "int32", "int":
		return "int", true
	case "uint32", "unsigned", "unsigned int":
		return "uint", true
	case "int64", "long", "long long":
		return "long", true
	case "uint64", "unsigned long", "unsigned long long":
		return "ulong", true
	case "float":
		return "float", true
	case "double":
		return "double", true
	case "String":
		return "string", true
	case "Name":
		return "Name", true
	}
	return "", false
}
