package filterscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDoc map[string][]FilterValue

func (d fakeDoc) FieldValues(name string) ([]FilterValue, bool) {
	vals, ok := d[name]
	return vals, ok
}

func TestCompileAndRun_Value(t *testing.T) {
	f := Val("age", OpGTE, NumberValue(18))
	cf, err := Compile(f)
	require.NoError(t, err)

	vm := NewVM()
	matched, err := vm.Run(cf, fakeDoc{"age": {NumberValue(21)}})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = vm.Run(cf, fakeDoc{"age": {NumberValue(10)}})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestCompileAndRun_AndShortCircuits(t *testing.T) {
	f := And(
		Val("status", OpEQ, StringValue("active")),
		Val("age", OpGT, NumberValue(0)),
	)
	cf, err := Compile(f)
	require.NoError(t, err)

	vm := NewVM()
	matched, err := vm.Run(cf, fakeDoc{"status": {StringValue("inactive")}})
	require.NoError(t, err)
	assert.False(t, matched)

	matched, err = vm.Run(cf, fakeDoc{"status": {StringValue("active")}, "age": {NumberValue(5)}})
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestCompileAndRun_Or(t *testing.T) {
	f := Or(
		Val("tier", OpEQ, StringValue("gold")),
		Val("tier", OpEQ, StringValue("platinum")),
	)
	cf, err := Compile(f)
	require.NoError(t, err)

	vm := NewVM()
	matched, _ := vm.Run(cf, fakeDoc{"tier": {StringValue("silver")}})
	assert.False(t, matched)

	matched, _ = vm.Run(cf, fakeDoc{"tier": {StringValue("platinum")}})
	assert.True(t, matched)
}

func TestCompileAndRun_Not(t *testing.T) {
	f := Not(Val("archived", OpEQ, BoolValue(true)))
	cf, err := Compile(f)
	require.NoError(t, err)

	vm := NewVM()
	matched, _ := vm.Run(cf, fakeDoc{"archived": {BoolValue(true)}})
	assert.False(t, matched)
	matched, _ = vm.Run(cf, fakeDoc{"archived": {BoolValue(false)}})
	assert.True(t, matched)
}

func TestCompileAndRun_Between(t *testing.T) {
	f := Between("price", NumberValue(10), NumberValue(20))
	cf, err := Compile(f)
	require.NoError(t, err)

	vm := NewVM()
	m1, _ := vm.Run(cf, fakeDoc{"price": {NumberValue(15)}})
	m2, _ := vm.Run(cf, fakeDoc{"price": {NumberValue(25)}})
	assert.True(t, m1)
	assert.False(t, m2)
}

func TestCompileAndRun_In(t *testing.T) {
	f := In("color", StringValue("red"), StringValue("blue"))
	cf, err := Compile(f)
	require.NoError(t, err)

	vm := NewVM()
	m1, _ := vm.Run(cf, fakeDoc{"color": {StringValue("Blue")}})
	m2, _ := vm.Run(cf, fakeDoc{"color": {StringValue("green")}})
	assert.True(t, m1)
	assert.False(t, m2)
}

func TestCompileAndRun_String(t *testing.T) {
	tests := []struct {
		name    string
		op      StringOp
		pattern string
		field   string
		want    bool
	}{
		{"contains", StrContains, "cat", "hello cats", true},
		{"starts_with", StrStartsWith, "hel", "hello", true},
		{"ends_with", StrEndsWith, "llo", "hello", true},
		{"like", StrLike, "h_l%", "hello world", true},
		{"like_no_match", StrLike, "zzz%", "hello", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Str("text", tt.op, tt.pattern)
			cf, err := Compile(f)
			require.NoError(t, err)
			vm := NewVM()
			matched, err := vm.Run(cf, fakeDoc{"text": {StringValue(tt.field)}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, matched)
		})
	}
}

func TestCompileAndRun_Matches(t *testing.T) {
	f := Matches("sku", "^SKU-[0-9]+$")
	cf, err := Compile(f)
	require.NoError(t, err)

	vm := NewVM()
	m1, _ := vm.Run(cf, fakeDoc{"sku": {StringValue("SKU-123")}})
	m2, _ := vm.Run(cf, fakeDoc{"sku": {StringValue("nope")}})
	assert.True(t, m1)
	assert.False(t, m2)
}

func TestCompile_BadRegexRejected(t *testing.T) {
	_, err := Compile(Matches("sku", "(unclosed"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRegexCompile)
}

func TestCompileAndRun_Null(t *testing.T) {
	f := IsNull("deleted_at", false)
	cf, err := Compile(f)
	require.NoError(t, err)

	vm := NewVM()
	m1, _ := vm.Run(cf, fakeDoc{})
	m2, _ := vm.Run(cf, fakeDoc{"deleted_at": {StringValue("2020")}})
	assert.True(t, m1)
	assert.False(t, m2)
}

func TestCompileAndRun_Ternary(t *testing.T) {
	f := &Filter{
		Kind: KindTernary,
		Cond: Val("region", OpEQ, StringValue("eu")),
		Then: Val("gdpr", OpEQ, BoolValue(true)),
		Else: Val("gdpr", OpEQ, BoolValue(false)),
	}
	cf, err := Compile(f)
	require.NoError(t, err)

	vm := NewVM()
	m1, _ := vm.Run(cf, fakeDoc{"region": {StringValue("eu")}, "gdpr": {BoolValue(true)}})
	m2, _ := vm.Run(cf, fakeDoc{"region": {StringValue("us")}, "gdpr": {BoolValue(false)}})
	assert.True(t, m1)
	assert.True(t, m2)
}

func TestCompile_DerivedRejected(t *testing.T) {
	f := &Filter{Kind: KindDerived, Derived: func(FieldAccessor) bool { return true }}
	_, err := Compile(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFilterAST)
}

func TestSerializeRoundTrip(t *testing.T) {
	f := And(
		Val("status", OpEQ, StringValue("active")),
		Between("price", NumberValue(1), NumberValue(100)),
	)
	cf, err := Compile(f)
	require.NoError(t, err)

	data, err := Serialize(cf)
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	vm := NewVM()
	doc := fakeDoc{"status": {StringValue("active")}, "price": {NumberValue(50)}}
	matched, err := vm.Run(got, doc)
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestDeserialize_BadMagic(t *testing.T) {
	_, err := Deserialize([]byte("not-a-filter-blob-at-all"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBytecode)
}

func TestCache_CompileCachedReusesEntry(t *testing.T) {
	c := NewCache(0)
	f := Val("age", OpGT, NumberValue(0))

	cf1, err := c.CompileCached(f)
	require.NoError(t, err)
	cf2, err := c.CompileCached(f)
	require.NoError(t, err)
	assert.Same(t, cf1, cf2)
	assert.Equal(t, 1, c.Len())
}

func TestCache_EvictsAtCapacity(t *testing.T) {
	c := NewCache(1)
	f1 := Val("a", OpEQ, NumberValue(1))
	f2 := Val("b", OpEQ, NumberValue(2))

	_, err := c.CompileCached(f1)
	require.NoError(t, err)
	_, err = c.CompileCached(f2)
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
}

func TestApplyBoosts(t *testing.T) {
	cf, err := Compile(Val("featured", OpEQ, BoolValue(true)))
	require.NoError(t, err)

	boosts := []Boost{{Filter: cf, Strength: 2}}
	score := ApplyBoosts(boosts, fakeDoc{"featured": {BoolValue(true)}}, 250)
	assert.Equal(t, byte(252), score)

	score = ApplyBoosts(boosts, fakeDoc{"featured": {BoolValue(false)}}, 250)
	assert.Equal(t, byte(250), score)
}

func TestApplyBoosts_SaturatesAt255(t *testing.T) {
	cf, err := Compile(Val("featured", OpEQ, BoolValue(true)))
	require.NoError(t, err)

	boosts := []Boost{{Filter: cf, Strength: 3}, {Filter: cf, Strength: 3}}
	score := ApplyBoosts(boosts, fakeDoc{"featured": {BoolValue(true)}}, 250)
	assert.Equal(t, byte(255), score)
}
