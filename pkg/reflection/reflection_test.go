package reflection

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a13labs/hypgen/pkg/ast"
)

func pqname(s string) ast.PQName {
	return ast.PQName{Segments: []ast.NameSegment{&ast.NameSpecifier{Name: s}}}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	k, err := ParseKind("STRUCT")
	require.NoError(t, err)
	assert.Equal(t, KindStruct, k)

	_, err = ParseKind("union")
	assert.Error(t, err)
}

func TestKindText(t *testing.T) {
	text, err := KindEnum.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "enum", string(text))

	text, err = MemberProperty.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "property", string(text))
	assert.Equal(t, "MemberKind(9)", MemberKind(9).String())
}

func TestQualifiedName(t *testing.T) {
	d := &Descriptor{Name: pqname("Vec3"), Scope: []string{"hyp", "math"}}
	assert.Equal(t, "Vec3", d.SimpleName())
	assert.Equal(t, "hyp::math::Vec3", d.QualifiedName())
	assert.Equal(t, "", d.ResolvedBaseName())

	d.ResolvedBase = &Descriptor{Name: pqname("Base"), Scope: []string{"hyp"}}
	assert.Equal(t, "hyp::Base", d.ResolvedBaseName())

	assert.False(t, d.Built())
	d.MarkBuilt()
	assert.True(t, d.Built())
}

func TestMembersByKind(t *testing.T) {
	d := &Descriptor{Members: []*Member{
		{Kind: MemberField, Name: "a"},
		{Kind: MemberMethod, Name: "b"},
		{Kind: MemberField, Name: "c"},
		{Kind: MemberProperty, Name: "d"},
	}}
	names := func(ms []*Member) []string {
		var out []string
		for _, m := range ms {
			out = append(out, m.Name)
		}
		return out
	}
	assert.Equal(t, []string{"a", "c"}, names(d.Fields()))
	assert.Equal(t, []string{"b"}, names(d.Methods()))
	assert.Equal(t, []string{"d"}, names(d.Properties()))
	assert.Empty(t, d.Enumerators())
}

func TestValidate(t *testing.T) {
	intType := &ast.Type{Typename: pqname("int")}

	tests := []struct {
		name   string
		kind   Kind
		member *Member
		err    string
	}{
		{"field", KindClass, &Member{Kind: MemberField, Name: "x", Type: intType}, ""},
		{"method", KindStruct, &Member{Kind: MemberMethod, Name: "Run", ReturnType: intType, Const: true}, ""},
		{"property", KindClass, &Member{Kind: MemberProperty, Name: "P", PropertyArgs: []string{"P", "GetP"}}, ""},
		{"enumerator", KindEnum, &Member{Kind: MemberEnumerator, Name: "Red"}, ""},
		{"unnamed field", KindClass, &Member{Kind: MemberField, Type: intType}, "field without a name"},
		{"method without return", KindClass, &Member{Kind: MemberMethod, Name: "Run"}, "method Run has no return type"},
		{"field without type", KindClass, &Member{Kind: MemberField, Name: "x"}, "field x has no type"},
		{"property without args", KindClass, &Member{Kind: MemberProperty, Name: "P"}, "property P has no arguments"},
		{"field with method data", KindClass, &Member{Kind: MemberField, Name: "x", Type: intType, Const: true}, "field x carries method data"},
		{"method in enum", KindEnum, &Member{Kind: MemberMethod, Name: "Run", ReturnType: intType}, "method Run is not allowed in enum Color"},
		{"enumerator in class", KindClass, &Member{Kind: MemberEnumerator, Name: "Red"}, "enumerator Red is not allowed in class Color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Descriptor{Kind: tt.kind, Name: pqname("Color"), Members: []*Member{tt.member}}
			err := d.Validate()
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.err)
		})
	}
}

func TestValueText(t *testing.T) {
	m := &Member{Kind: MemberEnumerator, Name: "Green"}
	assert.Equal(t, "", m.ValueText())
	m.Value = &ast.Value{Tokens: []ast.Token{{Value: "1"}, {Value: "<<"}, {Value: "2"}}}
	assert.Equal(t, "1<<2", m.ValueText())
}

func TestError(t *testing.T) {
	err := NewError(ErrScan, "foo.hpp", 12, "missing '{' after %s", "HYP_CLASS")
	assert.EqualError(t, err, "foo.hpp@12: scan error: missing '{' after HYP_CLASS")

	err = NewError(ErrResolve, "foo.hpp", -1, "too many bases")
	assert.EqualError(t, err, "foo.hpp: resolve error: too many bases")

	err = WrapError(ErrMetadataIO, "", -1, fs.ErrNotExist, "cannot read")
	assert.EqualError(t, err, "metadata error: cannot read: file does not exist")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var wrapped error = WrapError(ErrMember, "a.hpp", 3, errors.New("boom"), "bad member")
	var rerr *Error
	require.True(t, errors.As(wrapped, &rerr))
	assert.Equal(t, ErrMember, rerr.Kind)
	assert.Equal(t, "member", rerr.Kind.String())
}
