package ast

import "strings"

// TokFmt joins token values, inserting a space only where two neighbours
// would otherwise lex as a different token sequence.
func TokFmt(toks []Token) string {
	var b strings.Builder
	prev := ""
	for _, t := range toks {
		if t.Value == "" {
			continue
		}
		if prev != "" && needsSpace(prev, t.Value) {
			b.WriteByte(' ')
		}
		b.WriteString(t.Value)
		prev = t.Value
	}
	return b.String()
}

// joined pairs that would merge into a longer token or a comment
var mergingPairs = map[string]bool{
	"::": true, "->": true, "&&": true, "||": true, "<<": true,
	"[[": true, "]]": true, "//": true, "/*": true, "..": true,
}

func needsSpace(prev, next string) bool {
	a, c := prev[len(prev)-1], next[0]
	switch {
	case prev == ",":
		return true
	case isWordByte(a) && (isWordByte(c) || c == '"' || c == '\''):
		return true
	case (a == '"' || a == '\'') && isWordByte(c):
		return true
	case (a >= '0' && a <= '9' && c == '.') || (a == '.' && c >= '0' && c <= '9'):
		return true
	}
	return mergingPairs[string([]byte{a, c})]
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Format renders the segment as written
func (n *NameSpecifier) Format() string {
	return n.Name + n.Specialization.Format()
}

// Format of an anonymous name is empty
func (*AnonymousName) Format() string { return "" }

func (f *FundamentalSpecifier) Format() string { return f.Name }

func (d *DecltypeSpecifier) Format() string {
	return "decltype(" + TokFmt(d.Tokens) + ")"
}

// Format renders the qualified name including class key and typename
func (n *PQName) Format() string {
	parts := make([]string, len(n.Segments))
	for i, s := range n.Segments {
		parts[i] = s.Format()
	}
	s := strings.Join(parts, "::")
	if n.HasTypename {
		s = "typename " + s
	}
	if n.ClassKey != "" {
		s = strings.TrimSpace(n.ClassKey + " " + s)
	}
	return s
}

// Format renders the argument list with angle brackets
func (t *TemplateSpecialization) Format() string {
	if t == nil {
		return ""
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Format()
	}
	return "<" + strings.Join(args, ", ") + ">"
}

func (a TemplateArgument) Format() string {
	var s string
	switch arg := a.Arg.(type) {
	case TypeNode:
		s = arg.Format()
	case *Value:
		s = arg.Format()
	}
	if a.ParamPack {
		s += "..."
	}
	return s
}

func (t *Type) Format() string {
	s := t.Typename.Format()
	if t.Volatile {
		s = "volatile " + s
	}
	if t.Const {
		s = "const " + s
	}
	return s
}

func (t *Type) FormatDecl(name string) string {
	s := t.Format()
	switch {
	case name == "":
		return s
	case strings.ContainsAny(name[:1], "*&["):
		return s + name
	}
	return s + " " + name
}

func (p *Pointer) Format() string { return p.FormatDecl("") }

func (p *Pointer) FormatDecl(name string) string {
	inner := "*"
	if p.Const {
		inner += " const"
	}
	if p.Volatile {
		inner += " volatile"
	}
	return p.PtrTo.FormatDecl(wrapDeclarator(p.PtrTo, inner, name))
}

func (r *Reference) Format() string { return r.FormatDecl("") }

func (r *Reference) FormatDecl(name string) string {
	return r.RefTo.FormatDecl(wrapDeclarator(r.RefTo, "&", name))
}

func (r *MoveReference) Format() string { return r.FormatDecl("") }

func (r *MoveReference) FormatDecl(name string) string {
	return r.MoveRefTo.FormatDecl(wrapDeclarator(r.MoveRefTo, "&&", name))
}

// wrapDeclarator combines a pointer or reference operator with the name
// it applies to, parenthesizing when the target binds tighter
func wrapDeclarator(target TypeNode, op, name string) string {
	switch target.(type) {
	case *Array, *FunctionType:
		if name != "" && op != "*" && op != "&" && op != "&&" {
			op += " "
		}
		return "(" + op + name + ")"
	}
	if name == "" {
		return op
	}
	if op == "*" || op == "&" || op == "&&" {
		if strings.ContainsAny(name[:1], "*&") {
			return op + name
		}
	}
	return op + " " + name
}

func (a *Array) Format() string { return a.FormatDecl("") }

func (a *Array) FormatDecl(name string) string {
	return a.ArrayOf.FormatDecl(name + "[" + a.Size.Format() + "]")
}

func (f *FunctionType) Format() string { return f.FormatDecl("") }

func (f *FunctionType) FormatDecl(name string) string {
	if f.MSVCConvention != "" {
		name = strings.TrimSpace(f.MSVCConvention + " " + name)
	}
	decl := name + "(" + formatParams(f.Parameters, f.Vararg) + ")" + formatNoexcept(f.Noexcept)
	if f.HasTrailingReturn {
		return "auto " + decl + " -> " + f.ReturnType.Format()
	}
	return f.ReturnType.FormatDecl(decl)
}

func formatParams(params []Parameter, vararg bool) string {
	parts := make([]string, 0, len(params)+1)
	for i := range params {
		parts = append(parts, params[i].Format())
	}
	if vararg {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

func formatNoexcept(v *Value) string {
	switch {
	case v == nil:
		return ""
	case len(v.Tokens) == 0:
		return " noexcept"
	}
	return " noexcept(" + v.Format() + ")"
}

func (p *Parameter) Format() string {
	name := p.Name
	if p.ParamPack {
		name = "..." + name
	}
	s := p.Type.FormatDecl(name)
	if p.Default != nil {
		s += " = " + p.Default.Format()
	}
	return s
}

func (t *TemplateDecl) Format() string {
	if t == nil {
		return ""
	}
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Format()
	}
	s := "template <" + strings.Join(params, ", ") + ">"
	if t.Outer != nil {
		s = t.Outer.Format() + " " + s
	}
	if t.RawRequiresPre != nil {
		s += " requires " + t.RawRequiresPre.Format()
	}
	return s
}

func (p *TemplateTypeParam) Format() string {
	var b strings.Builder
	if p.Template != nil {
		b.WriteString(p.Template.Format() + " ")
	}
	b.WriteString(p.Typekey)
	if p.ParamPack {
		b.WriteString("...")
	}
	if p.Name != "" {
		b.WriteString(" " + p.Name)
	}
	if p.Default != nil {
		b.WriteString(" = " + p.Default.Format())
	}
	return b.String()
}

func (p *TemplateNonTypeParam) Format() string {
	name := p.Name
	if p.ParamPack {
		name = "..." + name
	}
	s := p.Type.FormatDecl(name)
	if p.Default != nil {
		s += " = " + p.Default.Format()
	}
	return s
}

func templatePrefix(t *TemplateDecl) string {
	if t == nil {
		return ""
	}
	return t.Format() + " "
}

// Format renders the declaration without a body or terminating semicolon
func (f *Function) Format() string {
	return formatFunction(f, nil)
}

// Format renders the declaration without a body or terminating semicolon
func (m *Method) Format() string {
	return formatFunction(&m.Function, m)
}

func formatFunction(f *Function, m *Method) string {
	var b strings.Builder
	b.WriteString(templatePrefix(f.Template))
	if m != nil && m.Virtual {
		b.WriteString("virtual ")
	}
	if m != nil && m.Explicit {
		b.WriteString("explicit ")
	}
	for _, kw := range []struct {
		on   bool
		text string
	}{{f.Extern, "extern "}, {f.Static, "static "}, {f.Inline, "inline "}, {f.Constexpr, "constexpr "}} {
		if kw.on {
			b.WriteString(kw.text)
		}
	}

	decl := f.Name.Format() + "(" + formatParams(f.Parameters, f.Vararg) + ")"
	if m != nil {
		if m.Const {
			decl += " const"
		}
		if m.Volatile {
			decl += " volatile"
		}
		if m.RefQualifier != "" {
			decl += " " + m.RefQualifier
		}
	}
	if f.Throw != nil {
		decl += " throw(" + f.Throw.Format() + ")"
	}
	decl += formatNoexcept(f.Noexcept)

	switch {
	case f.ReturnType == nil:
		b.WriteString(decl)
	case f.HasTrailingReturn:
		b.WriteString("auto " + decl + " -> " + f.ReturnType.Format())
	default:
		b.WriteString(f.ReturnType.FormatDecl(decl))
	}

	if m != nil {
		if m.Override {
			b.WriteString(" override")
		}
		if m.Final {
			b.WriteString(" final")
		}
		if m.PureVirtual {
			b.WriteString(" = 0")
		}
	}
	if f.Deleted {
		b.WriteString(" = delete")
	}
	if f.Defaulted {
		b.WriteString(" = default")
	}
	return b.String()
}

func formatInitializer(v *Value) string {
	if v == nil {
		return ""
	}
	if len(v.Tokens) > 0 && v.Tokens[0].Value == "{" {
		return v.Format()
	}
	return " = " + v.Format()
}

// Format renders the member declaration without the semicolon
func (f *Field) Format() string {
	var b strings.Builder
	for _, kw := range []struct {
		on   bool
		text string
	}{{f.Static, "static "}, {f.Mutable, "mutable "}, {f.Inline, "inline "}, {f.Constexpr, "constexpr "}} {
		if kw.on {
			b.WriteString(kw.text)
		}
	}
	b.WriteString(f.Type.FormatDecl(f.Name))
	if f.Bits != nil {
		b.WriteString(" : " + f.Bits.Format())
	}
	b.WriteString(formatInitializer(f.Value))
	return b.String()
}

// Format renders the variable declaration without the semicolon
func (v *Variable) Format() string {
	var b strings.Builder
	b.WriteString(templatePrefix(v.Template))
	for _, kw := range []struct {
		on   bool
		text string
	}{{v.Extern, "extern "}, {v.Static, "static "}, {v.Inline, "inline "}, {v.Constexpr, "constexpr "}} {
		if kw.on {
			b.WriteString(kw.text)
		}
	}
	b.WriteString(v.Type.FormatDecl(v.Name.Format()))
	b.WriteString(formatInitializer(v.Value))
	return b.String()
}

func (t *Typedef) Format() string {
	return "typedef " + t.Type.FormatDecl(t.Name)
}

func (u *UsingAlias) Format() string {
	return templatePrefix(u.Template) + "using " + u.Alias + " = " + u.Type.Format()
}

func (u *UsingDecl) Format() string {
	return "using " + u.Typename.Format()
}

func (f *ForwardDecl) Format() string {
	s := templatePrefix(f.Template) + f.Typename.Format()
	if f.EnumBase != nil {
		s += " : " + f.EnumBase.Format()
	}
	return s
}

func (b *BaseClass) Format() string {
	var parts []string
	if b.Virtual {
		parts = append(parts, "virtual")
	}
	if b.Access != AccessUnknown {
		parts = append(parts, b.Access.String())
	}
	name := b.Typename.Format()
	if b.ParamPack {
		name += "..."
	}
	return strings.Join(append(parts, name), " ")
}

// Format renders the class head: key, name, final and base clause
func (c *ClassDecl) Format() string {
	s := templatePrefix(c.Template) + c.Typename.Format()
	if c.Final {
		s += " final"
	}
	if len(c.Bases) > 0 {
		bases := make([]string, len(c.Bases))
		for i := range c.Bases {
			bases[i] = c.Bases[i].Format()
		}
		s += " : " + strings.Join(bases, ", ")
	}
	return s
}

// Format renders the full enumeration definition
func (e *EnumDecl) Format() string {
	s := e.Typename.Format()
	if e.Base != nil {
		s += " : " + e.Base.Format()
	}
	values := make([]string, len(e.Values))
	for i, v := range e.Values {
		values[i] = v.Name
		if v.Value != nil {
			values[i] += " = " + v.Value.Format()
		}
	}
	return s + " { " + strings.Join(values, ", ") + " }"
}
