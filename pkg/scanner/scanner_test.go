package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	xerrors "github.com/qiniu/x/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a13labs/hypgen/pkg/ast"
	"github.com/a13labs/hypgen/pkg/attributes"
	"github.com/a13labs/hypgen/pkg/parser"
	"github.com/a13labs/hypgen/pkg/reflection"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func scan(t *testing.T, content string) []*reflection.Descriptor {
	t.Helper()
	descs, err := New(parser.Options{}).Scan("foo.hpp", content, testTime)
	require.NoError(t, err)
	return descs
}

// scanErrors flattens the error returned by Scan
func scanErrors(t *testing.T, err error) []*reflection.Error {
	t.Helper()
	require.Error(t, err)
	list, ok := err.(xerrors.List)
	if !ok {
		list = xerrors.List{err}
	}
	var out []*reflection.Error
	for _, e := range list {
		var rerr *reflection.Error
		require.True(t, errors.As(e, &rerr), "unexpected error %v", e)
		out = append(out, rerr)
	}
	return out
}

func TestScanBasicClass(t *testing.T) {
	content := `HYP_CLASS()
class Foo : public Bar {
  HYP_FIELD() int x;
  HYP_METHOD() void Run(int count) const;
};
`
	descs := scan(t, content)
	require.Len(t, descs, 1)

	d := descs[0]
	assert.Equal(t, reflection.KindClass, d.Kind)
	assert.Equal(t, "Foo", d.QualifiedName())
	assert.Equal(t, "foo.hpp", d.File)
	assert.Equal(t, 0, d.Offset)
	assert.Equal(t, testTime, d.MTime)
	assert.False(t, d.Built())

	require.Len(t, d.Bases, 1)
	assert.Equal(t, ast.AccessPublic, d.Bases[0].Access)
	assert.Equal(t, "Bar", d.Bases[0].Typename.Format())
	assert.False(t, d.Bases[0].Virtual)

	require.Len(t, d.Members, 2)
	x := d.Members[0]
	assert.Equal(t, reflection.MemberField, x.Kind)
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, "int", x.TypeName)
	assert.Equal(t, ast.AccessPrivate, x.Access)

	run := d.Members[1]
	assert.Equal(t, reflection.MemberMethod, run.Kind)
	assert.Equal(t, "Run", run.Name)
	assert.Equal(t, "void", run.ReturnTypeName)
	assert.True(t, run.Const)
	require.Len(t, run.Parameters, 1)
	assert.Equal(t, "int", run.Parameters[0].Type)
	assert.Equal(t, "count", run.Parameters[0].Name)
	assert.Equal(t, "int count", run.Parameters[0].Decl)

	require.NoError(t, d.Validate())
}

func TestScanEnum(t *testing.T) {
	content := `#pragma once

HYP_ENUM()
enum class Color : int { Red, Green = 2, Blue };
`
	descs := scan(t, content)
	require.Len(t, descs, 1)

	d := descs[0]
	assert.Equal(t, reflection.KindEnum, d.Kind)
	assert.Equal(t, "Color", d.QualifiedName())
	assert.Equal(t, "int", d.EnumBase)
	assert.Empty(t, d.Fields())
	assert.Empty(t, d.Methods())

	var names []string
	for _, m := range d.Enumerators() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Red", "Green", "Blue"}, names)
	assert.Equal(t, "", d.Members[0].ValueText())
	assert.Equal(t, "2", d.Members[1].ValueText())
}

func TestScanProperties(t *testing.T) {
	content := `HYP_CLASS()
class P {
  HYP_PROPERTY(Name, GetName, SetName)
  HYP_PROPERTY(Id, m_id)
};
`
	descs := scan(t, content)
	require.Len(t, descs, 1)

	props := descs[0].Properties()
	require.Len(t, props, 2)
	assert.Equal(t, "Name", props[0].Name)
	assert.Equal(t, []string{"Name", "GetName", "SetName"}, props[0].PropertyArgs)
	assert.Equal(t, "Id", props[1].Name)
	assert.Equal(t, []string{"Id", "m_id"}, props[1].PropertyArgs)
}

func TestScanAttributesAndDoxygen(t *testing.T) {
	content := `
/// A rigid body
HYP_STRUCT(Abstract, Label = "body")
struct HYP_API RigidBody final {
    /// kilograms
    HYP_FIELD(Serialize, Range(Min = 0))
    static float mass;

    HYP_METHOD(ScriptMethod)
    HYP_NODISCARD virtual Vec3 Impulse(const Vec3 &dir, float scale = 1.0f) = 0;

    int hidden;
};
`
	descs := scan(t, content)
	require.Len(t, descs, 1)

	d := descs[0]
	assert.Equal(t, reflection.KindStruct, d.Kind)
	assert.Equal(t, "RigidBody", d.SimpleName())
	assert.Equal(t, "/// A rigid body", d.Doxygen)
	assert.Equal(t, attributes.MustParse(`Abstract, Label = "body"`), d.Attributes)

	require.Len(t, d.Members, 2)
	mass := d.Members[0]
	assert.Equal(t, "mass", mass.Name)
	assert.Equal(t, "/// kilograms", mass.Doxygen)
	assert.True(t, mass.Static)
	assert.Equal(t, "float", mass.TypeName)
	assert.Equal(t, ast.AccessPublic, mass.Access)
	assert.True(t, mass.Attributes.Has("Serialize"))
	assert.True(t, mass.Attributes.Has("Range"))

	impulse := d.Members[1]
	assert.Equal(t, "Impulse", impulse.Name)
	assert.True(t, impulse.Virtual)
	assert.False(t, impulse.Const)
	assert.Equal(t, "Vec3", impulse.ReturnTypeName)
	require.Len(t, impulse.Parameters, 2)
	assert.Equal(t, "const Vec3&", impulse.Parameters[0].Type)
	assert.Equal(t, "const Vec3& dir", impulse.Parameters[0].Decl)
	assert.Equal(t, "float scale = 1.0f", impulse.Parameters[1].Decl)
}

func TestScanMemberBodies(t *testing.T) {
	content := `HYP_CLASS()
class Counter {
public:
    HYP_METHOD()
    int Get() const { if (m_n > 0) { return m_n; } return 0; }

    HYP_FIELD()
    int m_n{0};

    HYP_FIELD()
    std::map<int, std::string> m_names;
};
`
	descs := scan(t, content)
	require.Len(t, descs, 1)

	d := descs[0]
	require.Len(t, d.Members, 3)
	assert.Equal(t, "Get", d.Members[0].Name)
	assert.Equal(t, ast.AccessPublic, d.Members[0].Access)
	assert.Equal(t, "m_n", d.Members[1].Name)
	assert.Equal(t, "m_names", d.Members[2].Name)
	assert.Equal(t, "std::map<int, std::string>", d.Members[2].TypeName)
}

func TestScanScopes(t *testing.T) {
	content := `
namespace hyp {
namespace math::detail {
// HYP_CLASS() in a comment is ignored
HYP_STRUCT()
struct Vec3 { HYP_FIELD() float x; };
}

HYP_CLASS()
class Outer {
public:
    HYP_CLASS()
    class Inner { HYP_FIELD() int v; };

    HYP_FIELD() int w;
};
}

namespace {
HYP_ENUM()
enum Hidden { A };
}

const char *s = "HYP_CLASS()";
`
	descs := scan(t, content)
	require.Len(t, descs, 4)

	assert.Equal(t, "hyp::math::detail::Vec3", descs[0].QualifiedName())
	assert.Equal(t, "hyp::Outer", descs[1].QualifiedName())
	assert.Equal(t, "hyp::Outer::Inner", descs[2].QualifiedName())
	assert.Equal(t, "Hidden", descs[3].QualifiedName())

	outer := descs[1]
	require.Len(t, outer.Members, 1)
	assert.Equal(t, "w", outer.Members[0].Name)

	inner := descs[2]
	require.Len(t, inner.Members, 1)
	assert.Equal(t, "v", inner.Members[0].Name)
	assert.Equal(t, ast.AccessPrivate, inner.Members[0].Access)
}

func TestScanMissingBrace(t *testing.T) {
	content := "int a;\nHYP_CLASS()\nclass Foo;\n"
	descs, err := New(parser.Options{}).Scan("foo.hpp", content, testTime)
	assert.Empty(t, descs)

	errs := scanErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, reflection.ErrScan, errs[0].Kind)
	assert.Equal(t, "foo.hpp", errs[0].File)
	assert.Equal(t, 7, errs[0].Offset)
	assert.Contains(t, errs[0].Error(), "missing '{' after HYP_CLASS")
}

func TestScanMemberKindExclusivity(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{
			name:    "method in enum",
			content: "HYP_ENUM()\nenum Mode { HYP_METHOD() A, B };\n",
			msg:     "HYP_METHOD is not allowed in enum Mode",
		},
		{
			name:    "field without a name",
			content: "HYP_CLASS()\nclass X {\n  HYP_FIELD() int;\n};\n",
			msg:     "field without a name",
		},
		{
			name:    "property without a name",
			content: "HYP_CLASS()\nclass X {\n  HYP_PROPERTY(, GetX)\n};\n",
			msg:     "requires a property name",
		},
		{
			name:    "unnamed parameter",
			content: "HYP_CLASS()\nclass X {\n  HYP_METHOD() void Set(int);\n};\n",
			msg:     "parameter 1 of method Set has no name",
		},
		{
			name:    "field macro before a method",
			content: "HYP_CLASS()\nclass X {\n  HYP_FIELD() void Set(int v);\n};\n",
			msg:     "must precede a data member",
		},
		{
			name:    "nothing follows the macro",
			content: "HYP_CLASS()\nclass X {\n  int a;\n  HYP_FIELD()\n};\n",
			msg:     "no declaration follows HYP_FIELD",
		},
		{
			name:    "explicit constructor",
			content: "HYP_CLASS()\nclass Q {\n  HYP_METHOD() explicit Q(int v) {}\n};\n",
			msg:     "constructors cannot be reflected: Q",
		},
		{
			name:    "constructor with initializers",
			content: "HYP_CLASS()\nclass Q {\n  int a;\n  HYP_METHOD() Q(int v) : a(v) {}\n};\n",
			msg:     "constructors cannot be reflected: Q",
		},
		{
			name:    "destructor",
			content: "HYP_CLASS()\nclass Q {\n  HYP_METHOD() virtual ~Q();\n};\n",
			msg:     "destructors cannot be reflected",
		},
		{
			name:    "bad member attributes",
			content: "HYP_CLASS()\nclass X {\n  HYP_FIELD(=) int a;\n};\n",
			msg:     "invalid attributes of HYP_FIELD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs, err := New(parser.Options{}).Scan("x.hpp", tt.content, testTime)
			// the type itself is still reported
			assert.Len(t, descs, 1)

			errs := scanErrors(t, err)
			require.Len(t, errs, 1)
			assert.Equal(t, reflection.ErrMember, errs[0].Kind)
			assert.Contains(t, errs[0].Error(), tt.msg)
		})
	}
}

func TestCheckDescriptor(t *testing.T) {
	for _, d := range scan(t, "HYP_CLASS()\nclass X {\n  HYP_FIELD() int a;\n  HYP_METHOD() void Run(int n);\n};\n") {
		assert.NoError(t, checkDescriptor(d))
	}

	d := scan(t, "HYP_CLASS()\nclass X {\n  HYP_FIELD() int a;\n};\n")[0]
	d.Members = append(d.Members, &reflection.Member{Kind: reflection.MemberEnumerator, Name: "A"})

	err := checkDescriptor(d)
	var rerr *reflection.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, reflection.ErrMember, rerr.Kind)
	assert.Equal(t, "foo.hpp", rerr.File)
	assert.Equal(t, 0, rerr.Offset)
	assert.Contains(t, err.Error(), "invalid class X")
}

func TestScanContinuesAfterBadType(t *testing.T) {
	content := `HYP_CLASS(A = )
class Bad {};

HYP_CLASS()
class Broken { int x y; };

HYP_CLASS()
class Good {};
`
	descs, err := New(parser.Options{}).Scan("foo.hpp", content, testTime)
	require.Len(t, descs, 1)
	assert.Equal(t, "Good", descs[0].QualifiedName())

	errs := scanErrors(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, reflection.ErrScan, errs[0].Kind)
	assert.Equal(t, 14, errs[0].Offset)
	assert.Equal(t, reflection.ErrParse, errs[1].Kind)

	var perr *parser.ParseError
	require.True(t, errors.As(errs[1], &perr))
	assert.Equal(t, 5, perr.Location.Line)
	assert.Equal(t, "foo.hpp", perr.Location.Filename)
}

func TestScanLexError(t *testing.T) {
	content := "HYP_CLASS()\nclass Foo {\n#ifdef X\n  int a;\n#endif\n};\n"
	_, err := New(parser.Options{}).Scan("foo.hpp", content, testTime)

	errs := scanErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, reflection.ErrLex, errs[0].Kind)
	assert.Equal(t, 24, errs[0].Offset)
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foo.hpp")
	require.NoError(t, os.WriteFile(path, []byte("HYP_STRUCT()\nstruct S {};\n"), 0o644))
	require.NoError(t, os.Chtimes(path, testTime, testTime))

	descs, err := New(parser.Options{}).ScanFile(path, "core/foo.hpp")
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "core/foo.hpp", descs[0].File)
	assert.True(t, testTime.Equal(descs[0].MTime))

	_, err = New(parser.Options{}).ScanFile(filepath.Join(dir, "missing.hpp"), "missing.hpp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseSource(t *testing.T) {
	src := `#pragma once
namespace hyp {
HYP_CLASS()
class HYP_API Node {
  HYP_FIELD() int depth;
};
}
`
	data, err := New(parser.Options{}).ParseSource("node.hpp", src)
	require.NoError(t, err)
	ns := data.Namespace.Namespace("hyp", false)
	require.NotNil(t, ns)
	require.Len(t, ns.Classes, 1)
	assert.Equal(t, "Node", ns.Classes[0].Class.Typename.LastName())
	require.Len(t, ns.Classes[0].Fields, 1)
	assert.Equal(t, "depth", ns.Classes[0].Fields[0].Name)

	_, err = New(parser.Options{}).ParseSource("bad.hpp", "#ifdef X\n#endif\n")
	var lexErr *parser.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 1, lexErr.Location.Line)
}
