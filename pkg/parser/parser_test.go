package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a13labs/hypgen/pkg/ast"
)

func fund(name string) *ast.Type {
	return &ast.Type{Typename: ast.PQName{Segments: []ast.NameSegment{&ast.FundamentalSpecifier{Name: name}}}}
}

func named(names ...string) *ast.Type {
	segs := make([]ast.NameSegment, len(names))
	for i, n := range names {
		segs[i] = &ast.NameSpecifier{Name: n}
	}
	return &ast.Type{Typename: ast.PQName{Segments: segs}}
}

func parse(t *testing.T, content string) *ast.ParsedData {
	t.Helper()
	data, err := ParseString("test.h", content, Options{})
	require.NoError(t, err)
	return data
}

func TestParseClass(t *testing.T) {
	content := `
namespace engine {

/// A game object
class Entity : public Object, protected virtual IFace {
public:
    Entity();
    explicit Entity(int id);
    virtual ~Entity() = default;

    int GetID() const { return m_id; }
    virtual void Update(float dt) = 0;
    void Tick() override;
    static Entity *Create(const std::string &name, int flags = 0);

protected:
    int m_id; ///< identifier
    float m_speed = 1.0f;
    unsigned int m_flags : 4;

private:
    void (*m_callback)(int);
};

}
`
	data := parse(t, content)
	ns := data.Namespace.Namespace("engine", false)
	require.NotNil(t, ns)
	require.Len(t, ns.Classes, 1)

	cls := ns.Classes[0]
	assert.Equal(t, "class Entity", cls.Class.Typename.Format())
	assert.Equal(t, "/// A game object", cls.Class.Doxygen)
	require.Len(t, cls.Class.Bases, 2)
	assert.Equal(t, ast.AccessPublic, cls.Class.Bases[0].Access)
	assert.Equal(t, "Object", cls.Class.Bases[0].Typename.Format())
	assert.Equal(t, ast.AccessProtected, cls.Class.Bases[1].Access)
	assert.True(t, cls.Class.Bases[1].Virtual)

	require.Len(t, cls.Methods, 7)
	ctor := cls.Methods[0]
	assert.True(t, ctor.Constructor)
	assert.Nil(t, ctor.ReturnType)
	assert.Equal(t, ast.AccessPublic, ctor.Access)

	assert.True(t, cls.Methods[1].Explicit)
	require.Len(t, cls.Methods[1].Parameters, 1)
	assert.Equal(t, "id", cls.Methods[1].Parameters[0].Name)

	dtor := cls.Methods[2]
	assert.True(t, dtor.Destructor)
	assert.True(t, dtor.Virtual)
	assert.True(t, dtor.Defaulted)
	assert.Equal(t, "~Entity", dtor.Name.LastName())

	getID := cls.FindMethod("GetID")
	require.NotNil(t, getID)
	assert.True(t, getID.Const)
	assert.True(t, getID.HasBody)
	assert.Empty(t, cmp.Diff(ast.TypeNode(fund("int")), getID.ReturnType))

	update := cls.FindMethod("Update")
	require.NotNil(t, update)
	assert.True(t, update.PureVirtual)
	assert.True(t, update.Virtual)

	assert.True(t, cls.FindMethod("Tick").Override)

	create := cls.FindMethod("Create")
	require.NotNil(t, create)
	assert.True(t, create.Static)
	assert.Empty(t, cmp.Diff(ast.TypeNode(&ast.Pointer{PtrTo: named("Entity")}), create.ReturnType))
	require.Len(t, create.Parameters, 2)
	wantName := named("std", "string")
	wantName.Const = true
	assert.Empty(t, cmp.Diff(ast.TypeNode(&ast.Reference{RefTo: wantName}), create.Parameters[0].Type))
	assert.Equal(t, "0", create.Parameters[1].Default.Format())

	require.Len(t, cls.Fields, 4)
	id := cls.FindField("m_id")
	require.NotNil(t, id)
	assert.Equal(t, ast.AccessProtected, id.Access)
	assert.Equal(t, "///< identifier", id.Doxygen)

	assert.Equal(t, "1.0f", cls.FindField("m_speed").Value.Format())

	flags := cls.FindField("m_flags")
	assert.Equal(t, "4", flags.Bits.Format())
	assert.Empty(t, cmp.Diff(ast.TypeNode(fund("unsigned int")), flags.Type))

	cb := cls.FindField("m_callback")
	require.NotNil(t, cb)
	assert.Equal(t, ast.AccessPrivate, cb.Access)
	want := &ast.Pointer{PtrTo: &ast.FunctionType{
		ReturnType: fund("void"),
		Parameters: []ast.Parameter{{Type: fund("int")}},
	}}
	assert.Empty(t, cmp.Diff(ast.TypeNode(want), cb.Type))
}

func TestParseDefaultAccess(t *testing.T) {
	data := parse(t, "class A { int a; };\nstruct B { int b; };\nunion C { int c; float f; };")
	classes := data.Namespace.Classes
	require.Len(t, classes, 3)
	assert.Equal(t, ast.AccessPrivate, classes[0].Fields[0].Access)
	assert.Equal(t, ast.AccessPublic, classes[1].Fields[0].Access)
	assert.Equal(t, ast.AccessPublic, classes[2].Fields[0].Access)
	assert.Len(t, classes[2].Fields, 2)
}

func TestParseNestedClasses(t *testing.T) {
	data := parse(t, `
class Outer {
public:
    struct Inner { int a; };
    enum Mode { On, Off };
    Inner in;
};
struct { int x; } point;
`)
	require.Len(t, data.Namespace.Classes, 2)
	outer := data.Namespace.Classes[0]
	require.Len(t, outer.Classes, 1)
	assert.Equal(t, "Inner", outer.Classes[0].Class.Typename.LastName())
	require.Len(t, outer.Enums, 1)
	assert.Equal(t, ast.AccessPublic, outer.Enums[0].Access)
	assert.Empty(t, cmp.Diff(ast.TypeNode(named("Inner")), outer.FindField("in").Type))

	anon := data.Namespace.Classes[1]
	_, isAnon := anon.Class.Typename.Last().(*ast.AnonymousName)
	assert.True(t, isAnon)
	require.Len(t, data.Namespace.Variables, 1)
	assert.Equal(t, "point", data.Namespace.Variables[0].Name.Format())
}

func TestParseEnum(t *testing.T) {
	data := parse(t, `
/// Colors
enum class Color : uint8_t {
    Red = 1,
    /// the green one
    Green,
    Blue ///< the blue one
};
enum Opaque : int;
`)
	require.Len(t, data.Namespace.Enums, 1)
	e := data.Namespace.Enums[0]
	assert.Equal(t, "enum class", e.Typename.ClassKey)
	assert.Equal(t, "/// Colors", e.Doxygen)
	require.NotNil(t, e.Base)
	assert.Equal(t, "uint8_t", e.Base.Format())

	require.Len(t, e.Values, 3)
	assert.Equal(t, "Red", e.Values[0].Name)
	assert.Equal(t, "1", e.Values[0].Value.Format())
	assert.Equal(t, "/// the green one", e.Values[1].Doxygen)
	assert.Nil(t, e.Values[1].Value)
	assert.Equal(t, "///< the blue one", e.Values[2].Doxygen)

	require.Len(t, data.Namespace.ForwardDecls, 1)
	assert.Equal(t, "int", data.Namespace.ForwardDecls[0].EnumBase.Format())
}

func TestParseNamespaces(t *testing.T) {
	data := parse(t, `
namespace a::b { int x; }
namespace a { namespace b { int y; } }
inline namespace v1 { void f(); }
namespace { int hidden; }
namespace fs = std::filesystem;
using namespace std;
`)
	b := data.Namespace.Namespace("a", false).Namespace("b", false)
	require.NotNil(t, b)
	assert.Len(t, b.Variables, 2)

	v1 := data.Namespace.Namespace("v1", false)
	require.NotNil(t, v1)
	assert.True(t, v1.Inline)
	assert.Len(t, v1.Functions, 1)

	anon := data.Namespace.Namespace("", false)
	require.NotNil(t, anon)
	assert.Len(t, anon.Variables, 1)

	require.Len(t, data.Namespace.NSAlias, 1)
	assert.Equal(t, "fs", data.Namespace.NSAlias[0].Alias)
	assert.Equal(t, []string{"std", "filesystem"}, data.Namespace.NSAlias[0].Names)
	require.Len(t, data.Namespace.UsingNS, 1)
	assert.Equal(t, "std", data.Namespace.UsingNS[0].Namespace)
}

func TestParseTemplates(t *testing.T) {
	data := parse(t, `
template <typename T, int N = 4>
struct Buffer {
    T data[N];
    std::map<std::string, std::vector<T>> index;
    std::function<void(int)> callback;
};
std::array<int, 4> values;
`)
	require.Len(t, data.Namespace.Classes, 1)
	cls := data.Namespace.Classes[0]

	tmpl := cls.Class.Template
	require.NotNil(t, tmpl)
	require.Len(t, tmpl.Params, 2)
	assert.Empty(t, cmp.Diff(ast.TemplateParam(&ast.TemplateTypeParam{Typekey: "typename", Name: "T"}), tmpl.Params[0]))
	nonType, ok := tmpl.Params[1].(*ast.TemplateNonTypeParam)
	require.True(t, ok)
	assert.Equal(t, "N", nonType.Name)
	assert.Equal(t, "4", nonType.Default.Format())
	assert.Equal(t, "template <typename T, int N = 4>", tmpl.Format())

	arr, ok := cls.FindField("data").Type.(*ast.Array)
	require.True(t, ok)
	assert.Equal(t, "N", arr.Size.Format())

	assert.Equal(t, "std::map<std::string, std::vector<T>>", cls.FindField("index").Type.Format())

	callback := cls.FindField("callback").Type.(*ast.Type)
	spec := callback.Typename.Segments[1].(*ast.NameSpecifier).Specialization
	require.Len(t, spec.Args, 1)
	_, isFn := spec.Args[0].Arg.(*ast.FunctionType)
	assert.True(t, isFn)

	require.Len(t, data.Namespace.Variables, 1)
	values := data.Namespace.Variables[0].Type.(*ast.Type)
	args := values.Typename.Segments[1].(*ast.NameSpecifier).Specialization.Args
	require.Len(t, args, 2)
	assert.Empty(t, cmp.Diff(any(fund("int")), args[0].Arg))
	value, ok := args[1].Arg.(*ast.Value)
	require.True(t, ok)
	assert.Equal(t, "4", value.Format())
}

func TestParseTemplateArgumentKinds(t *testing.T) {
	data := parse(t, `
Foo<int> a;
Foo<Bar> b;
Foo<unsigned int> c;
Foo<std::vector<int>> d;
Foo<const Bar*> e;
Foo<3> f;
Foo<T...> g;
`)
	vars := data.Namespace.Variables
	require.Len(t, vars, 7)
	arg := func(i int) ast.TemplateArgument {
		t.Helper()
		name := vars[i].Type.(*ast.Type).Typename
		spec := name.Segments[0].(*ast.NameSpecifier).Specialization
		require.NotNil(t, spec)
		require.Len(t, spec.Args, 1)
		return spec.Args[0]
	}

	assert.Empty(t, cmp.Diff(any(fund("int")), arg(0).Arg))
	assert.Empty(t, cmp.Diff(any(named("Bar")), arg(1).Arg))

	unsigned, ok := arg(2).Arg.(*ast.Type)
	require.True(t, ok)
	assert.Equal(t, "unsigned int", unsigned.Format())

	vec, ok := arg(3).Arg.(*ast.Type)
	require.True(t, ok)
	assert.Equal(t, "std::vector<int>", vec.Format())
	inner := vec.Typename.Segments[1].(*ast.NameSpecifier).Specialization.Args[0]
	assert.Empty(t, cmp.Diff(any(fund("int")), inner.Arg))

	ptr, ok := arg(4).Arg.(*ast.Pointer)
	require.True(t, ok)
	assert.Equal(t, "const Bar*", ptr.Format())

	value, ok := arg(5).Arg.(*ast.Value)
	require.True(t, ok)
	assert.Equal(t, "3", value.Format())

	pack := arg(6)
	assert.True(t, pack.ParamPack)
	assert.Empty(t, cmp.Diff(any(named("T")), pack.Arg))
}

func TestParseTrailingReturn(t *testing.T) {
	data := parse(t, "int add(int a, int b);\nauto add(int a, int b) -> int;")
	require.Len(t, data.Namespace.Functions, 2)

	plain, trailing := data.Namespace.Functions[0], data.Namespace.Functions[1]
	assert.False(t, plain.HasTrailingReturn)
	assert.True(t, trailing.HasTrailingReturn)

	normalized := *trailing
	normalized.HasTrailingReturn = false
	assert.Empty(t, cmp.Diff(*plain, normalized))
}

func TestParseFunctions(t *testing.T) {
	data := parse(t, `
void Foo::bar(int x) const {}
Foo::Foo() : a(1), b{2} {}
inline constexpr int square(int x) noexcept { return x * x; }
bool operator==(const Foo &a, const Foo &b);
int printf(const char *fmt, ...);
extern "C" {
void c_entry();
}
`)
	ns := data.Namespace
	require.Len(t, ns.MethodImpls, 2)
	assert.True(t, ns.MethodImpls[0].Const)
	assert.True(t, ns.MethodImpls[0].HasBody)
	assert.Equal(t, "Foo::bar", ns.MethodImpls[0].Name.Format())
	assert.True(t, ns.MethodImpls[1].Constructor)

	require.Len(t, ns.Functions, 4)
	square := ns.Functions[0]
	assert.True(t, square.Inline)
	assert.True(t, square.Constexpr)
	assert.NotNil(t, square.Noexcept)
	assert.True(t, square.HasBody)

	assert.Equal(t, "==", ns.Functions[1].Operator)
	assert.Equal(t, "operator==", ns.Functions[1].Name.Format())

	assert.True(t, ns.Functions[2].Vararg)
	assert.Equal(t, "c_entry", ns.Functions[3].Name.Format())
}

func TestParseOperatorsInClass(t *testing.T) {
	data := parse(t, `
struct Handle {
    operator bool() const;
    Handle &operator=(const Handle &) = delete;
    int operator()(int x);
    friend class Registry;
    friend bool operator<(const Handle &, const Handle &);
};
`)
	cls := data.Namespace.Classes[0]
	require.Len(t, cls.Methods, 3)

	conv := cls.Methods[0]
	assert.Equal(t, "conversion", conv.Operator)
	assert.True(t, conv.Const)
	assert.Empty(t, cmp.Diff(ast.TypeNode(fund("bool")), conv.ReturnType))

	assert.Equal(t, "=", cls.Methods[1].Operator)
	assert.True(t, cls.Methods[1].Deleted)
	assert.Equal(t, "()", cls.Methods[2].Operator)

	require.Len(t, cls.Friends, 2)
	require.NotNil(t, cls.Friends[0].Class)
	assert.Equal(t, "class Registry", cls.Friends[0].Class.Typename.Format())
	require.NotNil(t, cls.Friends[1].Fn)
	assert.Equal(t, "<", cls.Friends[1].Fn.Operator)
}

func TestParseTypedefAndUsing(t *testing.T) {
	data := parse(t, `
typedef int Int, *IntPtr;
typedef void (*Callback)(int);
typedef int Fn(char);
using Vec = std::vector<int>;
template <typename T> using Ptr = T *;
`)
	ns := data.Namespace
	require.Len(t, ns.Typedefs, 4)
	assert.Equal(t, "Int", ns.Typedefs[0].Name)
	assert.Empty(t, cmp.Diff(ast.TypeNode(&ast.Pointer{PtrTo: fund("int")}), ns.Typedefs[1].Type))
	assert.Equal(t, "typedef void (*Callback)(int)", ns.Typedefs[2].Format())
	_, isFn := ns.Typedefs[3].Type.(*ast.FunctionType)
	assert.True(t, isFn)

	require.Len(t, ns.UsingAlias, 2)
	assert.Equal(t, "using Vec = std::vector<int>", ns.UsingAlias[0].Format())
	assert.NotNil(t, ns.UsingAlias[1].Template)
	assert.Empty(t, cmp.Diff(ast.TypeNode(&ast.Pointer{PtrTo: named("T")}), ns.UsingAlias[1].Type))
}

func TestParseConceptsAndGuides(t *testing.T) {
	data := parse(t, `
template <typename T>
concept Small = sizeof(T) <= 4;

template <typename T> requires Small<T>
void store(T value);

void sum(std::integral auto x, int y);

template <class T> Wrapper(T) -> Wrapper<T>;
`)
	ns := data.Namespace
	require.Len(t, ns.Concepts, 1)
	assert.Equal(t, "Small", ns.Concepts[0].Name)
	assert.Equal(t, "sizeof(T)<=4", ns.Concepts[0].RawConstraint.Format())

	require.Len(t, ns.Functions, 2)
	store := ns.Functions[0]
	require.NotNil(t, store.Template)
	assert.Equal(t, "Small<T>", store.Template.RawRequiresPre.Format())

	sum := ns.Functions[1]
	require.NotNil(t, sum.Template)
	require.Len(t, sum.Template.Params, 1)
	synth := sum.Template.Params[0].(*ast.TemplateNonTypeParam)
	require.NotNil(t, synth.ParamIdx)
	assert.Equal(t, 0, *synth.ParamIdx)
	assert.Equal(t, "std::integral", synth.Type.Format())
	assert.Equal(t, "auto", sum.Parameters[0].Type.Format())

	require.Len(t, ns.DeductionGuides, 1)
	guide := ns.DeductionGuides[0]
	assert.Equal(t, "Wrapper", guide.Name.Format())
	assert.Equal(t, "Wrapper<T>", guide.ResultType.Format())
	require.Len(t, guide.Parameters, 1)
}

func TestParseDirectives(t *testing.T) {
	data := parse(t, "#pragma once\n#include <vector>\n#include \"local.h\"\nint x;")
	require.Len(t, data.Pragmas, 1)
	assert.Equal(t, "once", data.Pragmas[0].Content)
	require.Len(t, data.Includes, 2)
	assert.Equal(t, "<vector>", data.Includes[0].Filename)
	assert.Equal(t, `"local.h"`, data.Includes[1].Filename)
}

func TestParseVoidParams(t *testing.T) {
	data := parse(t, "void f(void);")
	assert.Len(t, data.Namespace.Functions[0].Parameters, 1)

	data, err := ParseString("t.h", "void f(void);", Options{ConvertVoidToZeroParams: true})
	require.NoError(t, err)
	assert.Empty(t, data.Namespace.Functions[0].Parameters)
}

func TestParseAttributesIgnored(t *testing.T) {
	data := parse(t, `
struct [[nodiscard]] alignas(16) Vec {
    [[deprecated("old")]] float x;
    __attribute__((aligned(4))) float y;
};
`)
	cls := data.Namespace.Classes[0]
	assert.Equal(t, "Vec", cls.Class.Typename.LastName())
	assert.Len(t, cls.Fields, 2)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
		eof     bool
	}{
		{"unclosed class", "class Foo {\n int x;\n", "missing '}'", true},
		{"stray brace", "int x; }", "unexpected '}'", false},
		{"requires on non-template", "void f() requires true;", "requires clause", false},
		{"trailing return without auto", "int f() -> int;", "requires 'auto'", false},
		{"access outside class", "public: int x;", "access specifier outside", false},
		{"array of references", "int &a[4];", "arrays of references", false},
		{"virtual variable", "virtual int x;", "unexpected 'virtual'", false},
		{"missing semicolon", "int x int y;", "expected one of", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString("bad.h", tt.content, Options{})
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected a ParseError, got %T: %v", err, err)
			assert.Contains(t, perr.Msg, tt.msg)
			assert.Equal(t, "bad.h", perr.Location.Filename)
			assert.Equal(t, tt.eof, errors.Is(err, ErrUnexpectedEOF))
		})
	}
}

func TestParseErrorLocation(t *testing.T) {
	_, err := ParseString("loc.h", "int a;\n\nint b int;\n", Options{})
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Location.Line)
	assert.True(t, strings.HasPrefix(perr.Error(), "loc.h:3: parse error"))
}

// skipVisitor refuses class bodies and records what it is shown
type skipVisitor struct {
	NullVisitor
	fields    []string
	variables []string
}

func (v *skipVisitor) OnClassStart(state *State) bool {
	return state.Class.Typename.LastName() != "Hidden"
}

func (v *skipVisitor) OnClassField(_ *State, f *ast.Field) {
	v.fields = append(v.fields, f.Name)
}

func (v *skipVisitor) OnVariable(_ *State, variable *ast.Variable) {
	v.variables = append(v.variables, variable.Name.Format())
}

func TestVisitorSkipsRefusedBlocks(t *testing.T) {
	v := &skipVisitor{}
	content := "struct Hidden { int a; struct Deep { int b; }; } h;\nstruct Shown { int c; };\nint d;"
	require.NoError(t, NewParser("t.h", content, v, Options{}).Parse())

	assert.Equal(t, []string{"c"}, v.fields)
	assert.Equal(t, []string{"h", "d"}, v.variables)
}
