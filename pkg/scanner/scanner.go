// Package scanner finds the types annotated with HYP_CLASS, HYP_STRUCT and
// HYP_ENUM in C++ source text and turns each into a reflection.Descriptor.
//
// A file is never parsed as a whole: every annotated type is cut out of
// the text with a brace counter and handed to the declaration parser on
// its own, and every annotated member is parsed again inside a dummy
// class to obtain its exact signature.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	xerrors "github.com/qiniu/x/errors"

	"github.com/a13labs/hypgen/pkg/ast"
	"github.com/a13labs/hypgen/pkg/attributes"
	"github.com/a13labs/hypgen/pkg/parser"
	"github.com/a13labs/hypgen/pkg/reflection"
)

var (
	typeMacroRe   = regexp.MustCompile(`\bHYP_(CLASS|STRUCT|ENUM)\s*\(`)
	memberMacroRe = regexp.MustCompile(`\bHYP_(FIELD|PROPERTY|METHOD)\s*\(`)
)

// preamble defines every reflection macro away before a fragment is parsed
const preamble = `#define HYP_CLASS(...)
#define HYP_STRUCT(...)
#define HYP_ENUM(...)
#define HYP_FIELD(...)
#define HYP_METHOD(...)
#define HYP_PROPERTY(...)
#define HYP_OBJECT_BODY(...)
#define HYP_API
#define HYP_FORCE_INLINE
#define HYP_NODISCARD
#define HYP_DEPRECATED
`

// memberWrapper opens a class named like the annotated type, so a member
// declaration parses on its own and constructors are recognised
func memberWrapper(class string) string {
	return "class " + class + " {\npublic:\n"
}

// Scanner extracts annotated types from source files
type Scanner struct {
	options parser.Options
}

// New creates a Scanner that parses with options
func New(options parser.Options) *Scanner {
	return &Scanner{options: options}
}

// ScanFile reads path and scans it. name is the path recorded in the
// descriptors, usually relative to the source root.
func (s *Scanner) ScanFile(path, name string) ([]*reflection.Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.Scan(name, string(content), info.ModTime())
}

// site is one HYP_CLASS/STRUCT/ENUM call and the body that follows it
type site struct {
	kind       reflection.Kind
	macro      string
	start      int // offset of the macro
	args       string
	argsOffset int
	open       int // '{' of the body
	end        int // matching '}'

	// class is the parsed body, used to look up member access
	class *ast.ClassScope
}

// Scan returns the annotated types of content in source order. Problems
// are collected per type and per member so one bad declaration does not
// hide the others; the returned error is then an xerrors.List of
// *reflection.Error.
func (s *Scanner) Scan(file, content string, mtime time.Time) ([]*reflection.Descriptor, error) {
	var errs xerrors.List
	mask := codeMask(content)

	var sites []*site
	for _, m := range typeMacroRe.FindAllStringSubmatchIndex(content, -1) {
		start := m[0]
		if mask[start] {
			continue
		}
		kind, _ := reflection.ParseKind(content[m[2]:m[3]])
		macro := content[start:m[3]]

		lparen := m[1] - 1
		rparen := matchClose(content, mask, lparen)
		if rparen < 0 {
			errs.Add(reflection.NewError(reflection.ErrScan, file, start, "unterminated argument list of %s", macro))
			continue
		}
		open := findBodyOpen(content, mask, rparen+1)
		if open < 0 {
			errs.Add(reflection.NewError(reflection.ErrScan, file, start, "missing '{' after %s", macro))
			continue
		}
		end := matchClose(content, mask, open)
		if end < 0 {
			errs.Add(reflection.NewError(reflection.ErrScan, file, start, "missing '}' for the body after %s", macro))
			continue
		}
		sites = append(sites, &site{
			kind:       kind,
			macro:      macro,
			start:      start,
			args:       content[lparen+1 : rparen],
			argsOffset: lparen + 1,
			open:       open,
			end:        end,
		})
	}

	offsets := make([]int, len(sites))
	for i, st := range sites {
		offsets[i] = st.start
	}
	scopes := scopesAt(content, mask, offsets)

	members := s.memberSites(content, mask, sites)

	var descs []*reflection.Descriptor
	for i, st := range sites {
		d, err := s.scanType(file, content, st)
		if err != nil {
			errs.Add(err)
			continue
		}
		d.Scope = scopes[i]
		d.MTime = mtime

		if d.Kind == reflection.KindEnum {
			for _, ms := range members[st] {
				errs.Add(reflection.NewError(reflection.ErrMember, file, ms.start,
					"%s is not allowed in enum %s", ms.macro, d.SimpleName()))
			}
		} else {
			for _, ms := range members[st] {
				found, err := s.scanMember(file, content, mask, st, ms)
				if err != nil {
					errs.Add(err)
					continue
				}
				d.Members = append(d.Members, found...)
			}
		}
		if err := checkDescriptor(d); err != nil {
			errs.Add(err)
		}
		descs = append(descs, d)
	}
	return descs, errs.ToError()
}

// checkDescriptor reports a descriptor whose members break the data model
func checkDescriptor(d *reflection.Descriptor) error {
	if err := d.Validate(); err != nil {
		return reflection.WrapError(reflection.ErrMember, d.File, d.Offset, err, "invalid %s %s", d.Kind, d.SimpleName())
	}
	return nil
}

// memberSite is one HYP_FIELD/PROPERTY/METHOD call
type memberSite struct {
	kind       reflection.MemberKind
	macro      string
	start      int
	args       string
	argsOffset int
	bodyStart  int
}

// memberSites assigns every member macro to the innermost annotated type
// whose body contains it
func (s *Scanner) memberSites(content string, mask []bool, sites []*site) map[*site][]*memberSite {
	out := map[*site][]*memberSite{}
	for _, m := range memberMacroRe.FindAllStringSubmatchIndex(content, -1) {
		start := m[0]
		if mask[start] {
			continue
		}
		var owner *site
		for _, st := range sites {
			if st.open < start && start < st.end && (owner == nil || st.open > owner.open) {
				owner = st
			}
		}
		if owner == nil {
			continue
		}

		ms := &memberSite{macro: content[start:m[3]], start: start}
		switch content[m[2]:m[3]] {
		case "FIELD":
			ms.kind = reflection.MemberField
		case "PROPERTY":
			ms.kind = reflection.MemberProperty
		case "METHOD":
			ms.kind = reflection.MemberMethod
		}
		lparen := m[1] - 1
		rparen := matchClose(content, mask, lparen)
		if rparen < 0 || rparen > owner.end {
			// reported when the member is scanned
			ms.bodyStart = -1
		} else {
			ms.args = content[lparen+1 : rparen]
			ms.argsOffset = lparen + 1
			ms.bodyStart = rparen + 1
		}
		out[owner] = append(out[owner], ms)
	}
	return out
}

// fieldAccess is the access level of the named field in the class body
func (st *site) fieldAccess(name string) ast.AccessLevel {
	if f := st.class.FindField(name); f != nil {
		return f.Access
	}
	return st.defaultAccess()
}

// methodAccess is the access level of the first method called name
func (st *site) methodAccess(name string) ast.AccessLevel {
	if m := st.class.FindMethod(name); m != nil {
		return m.Access
	}
	return st.defaultAccess()
}

func (st *site) defaultAccess() ast.AccessLevel {
	if st.class.Class.ClassKey() == "class" {
		return ast.AccessPrivate
	}
	return ast.AccessPublic
}

// scanType parses the declaration of one annotated type
func (s *Scanner) scanType(file, content string, st *site) (*reflection.Descriptor, error) {
	attrs, err := attributes.Parse(st.args)
	if err != nil {
		return nil, attributeError(reflection.ErrScan, file, st.argsOffset, st.macro, err)
	}

	// the fragment runs from the macro through the closing brace
	fragment := content[st.start:st.end+1] + ";"
	data, headLen, err := s.parseFragment(file, lineOf(content, st.start), "", fragment)
	if err != nil {
		kind, offset := parseErrorPosition(err, st.start, headLen)
		return nil, reflection.WrapError(kind, file, offset, err, "failed to parse %s declaration", st.kind)
	}

	d := &reflection.Descriptor{
		Kind:       st.kind,
		File:       file,
		Offset:     st.start,
		Attributes: attrs,
		Doxygen:    leadingDoxygen(content, st.start),
	}

	ns := data.Namespace
	if st.kind == reflection.KindEnum {
		if len(ns.Enums) != 1 {
			return nil, reflection.NewError(reflection.ErrScan, file, st.start, "%s must be followed by an enum definition", st.macro)
		}
		enum := ns.Enums[0]
		d.Name = enum.Typename
		if enum.Base != nil {
			d.EnumBase = enum.Base.Format()
		}
		for _, v := range enum.Values {
			d.Members = append(d.Members, &reflection.Member{
				Kind:    reflection.MemberEnumerator,
				Name:    v.Name,
				Value:   v.Value,
				Doxygen: v.Doxygen,
				Offset:  st.start,
			})
		}
	} else {
		if len(ns.Classes) != 1 {
			return nil, reflection.NewError(reflection.ErrScan, file, st.start, "%s must be followed by a class definition", st.macro)
		}
		st.class = ns.Classes[0]
		cls := st.class.Class
		d.Name = cls.Typename
		d.Bases = cls.Bases
		if d.Doxygen == "" {
			d.Doxygen = cls.Doxygen
		}
	}
	d.Name.ClassKey = ""

	if d.SimpleName() == "" {
		return nil, reflection.NewError(reflection.ErrScan, file, st.start, "%s must name its type", st.macro)
	}
	return d, nil
}

// scanMember parses the declaration following one member macro
func (s *Scanner) scanMember(file, content string, mask []bool, st *site, ms *memberSite) ([]*reflection.Member, error) {
	if ms.bodyStart < 0 {
		return nil, reflection.NewError(reflection.ErrMember, file, ms.start, "unterminated argument list of %s", ms.macro)
	}

	if ms.kind == reflection.MemberProperty {
		return s.scanProperty(file, content, ms)
	}

	attrs, err := attributes.Parse(ms.args)
	if err != nil {
		return nil, attributeError(reflection.ErrMember, file, ms.argsOffset, ms.macro, err)
	}

	end := memberEnd(content, mask, ms.bodyStart, st.end)
	if end < 0 {
		return nil, reflection.NewError(reflection.ErrMember, file, ms.start, "no declaration follows %s", ms.macro)
	}
	body := content[ms.bodyStart:end]
	wrapper := memberWrapper(st.class.Class.Typename.LastName())
	data, headLen, err := s.parseFragment(file, lineOf(content, ms.bodyStart), wrapper, body+"\n};")
	if err != nil {
		_, offset := parseErrorPosition(err, ms.bodyStart, headLen)
		return nil, reflection.WrapError(reflection.ErrMember, file, offset, err, "failed to parse the declaration after %s", ms.macro)
	}
	if len(data.Namespace.Classes) != 1 {
		return nil, reflection.NewError(reflection.ErrMember, file, ms.start, "%s must precede a member declaration", ms.macro)
	}
	scope := data.Namespace.Classes[0]
	doxygen := leadingDoxygen(content, ms.start)

	switch ms.kind {
	case reflection.MemberField:
		if len(scope.Fields) == 0 {
			return nil, reflection.NewError(reflection.ErrMember, file, ms.start, "%s must precede a data member", ms.macro)
		}
		var out []*reflection.Member
		for _, f := range scope.Fields {
			if f.Name == "" {
				return nil, reflection.NewError(reflection.ErrMember, file, ms.start, "%s annotates a field without a name", ms.macro)
			}
			if f.Doxygen != "" && doxygen == "" {
				doxygen = f.Doxygen
			}
			out = append(out, &reflection.Member{
				Kind:       reflection.MemberField,
				Name:       f.Name,
				Attributes: attrs,
				Access:     st.fieldAccess(f.Name),
				Doxygen:    doxygen,
				Offset:     ms.start,
				Type:       f.Type,
				TypeName:   f.Type.Format(),
				Static:     f.Static,
			})
		}
		return out, nil

	case reflection.MemberMethod:
		if len(scope.Methods) != 1 || len(scope.Fields) != 0 {
			return nil, reflection.NewError(reflection.ErrMember, file, ms.start, "%s must precede a single method declaration", ms.macro)
		}
		m := scope.Methods[0]
		name := m.Name.LastName()
		switch {
		case m.Constructor:
			return nil, reflection.NewError(reflection.ErrMember, file, ms.start, "constructors cannot be reflected: %s", name)
		case m.Destructor:
			return nil, reflection.NewError(reflection.ErrMember, file, ms.start, "destructors cannot be reflected: %s", name)
		case m.ReturnType == nil:
			return nil, reflection.NewError(reflection.ErrMember, file, ms.start, "method %s has no return type", name)
		}
		member := &reflection.Member{
			Kind:           reflection.MemberMethod,
			Name:           name,
			Attributes:     attrs,
			Access:         st.methodAccess(name),
			Doxygen:        doxygen,
			Offset:         ms.start,
			ReturnType:     m.ReturnType,
			ReturnTypeName: m.ReturnType.Format(),
			Const:          m.Const,
			Virtual:        m.Virtual || m.PureVirtual || m.Override,
			Static:         m.Static,
		}
		if member.Doxygen == "" {
			member.Doxygen = m.Doxygen
		}
		if m.Operator != "" {
			member.Name = "operator" + m.Operator
		}
		for i, p := range m.Parameters {
			if p.Name == "" {
				return nil, reflection.NewError(reflection.ErrMember, file, ms.start,
					"parameter %d of method %s has no name", i+1, member.Name)
			}
			member.Parameters = append(member.Parameters, reflection.Parameter{
				Type:     p.Type.Format(),
				Name:     p.Name,
				Decl:     p.Format(),
				TypeNode: p.Type,
			})
		}
		return []*reflection.Member{member}, nil
	}
	return nil, nil
}

// scanProperty splits HYP_PROPERTY(Name, Getter[, Setter]) on commas. The
// arguments are kept verbatim.
func (s *Scanner) scanProperty(file, content string, ms *memberSite) ([]*reflection.Member, error) {
	var args []string
	for _, arg := range strings.Split(ms.args, ",") {
		args = append(args, strings.TrimSpace(arg))
	}
	if args[0] == "" {
		return nil, reflection.NewError(reflection.ErrMember, file, ms.start, "%s requires a property name", ms.macro)
	}
	return []*reflection.Member{{
		Kind:         reflection.MemberProperty,
		Name:         args[0],
		Access:       ast.AccessPublic,
		Doxygen:      leadingDoxygen(content, ms.start),
		Offset:       ms.start,
		PropertyArgs: args,
	}}, nil
}

// ParseSource parses a whole file with the reflection macros defined
// away, for inspecting what the declaration parser sees
func (s *Scanner) ParseSource(file, content string) (*ast.ParsedData, error) {
	data, _, err := s.parseFragment(file, 1, "", content)
	return data, err
}

// parseFragment parses body after the macro preamble and a #line marker
// placing body at line of file. It returns the length of everything put
// in front of body.
func (s *Scanner) parseFragment(file string, line int, prefix, body string) (*ast.ParsedData, int, error) {
	head := preamble + prefix + fmt.Sprintf("#line %d %q\n", line, file)
	pp := parser.NewPreprocessor()
	text, err := pp.Process(file, head+body)
	if err != nil {
		return nil, len(head), err
	}
	data, err := parser.ParseString(file, text, s.options)
	return data, len(head), err
}

// parseErrorPosition maps a parser error to an error kind and an offset
// in the scanned file
func parseErrorPosition(err error, base, headLen int) (reflection.ErrorKind, int) {
	kind, offset := reflection.ErrParse, -1

	var lexErr *parser.LexError
	var parseErr *parser.ParseError
	switch {
	case errors.As(err, &lexErr):
		kind, offset = reflection.ErrLex, lexErr.Offset
	case errors.As(err, &parseErr):
		offset = parseErr.Offset
	}
	if offset < headLen {
		return kind, base
	}
	return kind, base + offset - headLen
}

func attributeError(kind reflection.ErrorKind, file string, base int, macro string, err error) *reflection.Error {
	offset := base
	var syntaxErr *attributes.SyntaxError
	if errors.As(err, &syntaxErr) {
		offset += syntaxErr.Offset
	}
	return reflection.WrapError(kind, file, offset, err, "invalid attributes of %s", macro)
}
