package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateSpec() ArgSpec {
	return ArgSpec{
		"rate":        {Type: ArgTypeFloat, Label: "Rate"},
		"minimum":     {Type: ArgTypeInt, Label: "Minimum quantity"},
		"taxIncluded": {Type: ArgTypeBoolean},
		"variantIds":  {Type: ArgTypeID, List: true},
		"note":        {Type: ArgTypeString},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ops := []ConfigurableOperation{
		{
			Code: "flat-rate",
			Args: []Arg{{Name: "rate", Value: "500"}},
		},
	}

	raw, err := EncodeList(ops)
	require.NoError(t, err)

	decoded, err := DecodeList(raw)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, ops[0], decoded[0])

	values, err := Resolve(decoded[0], rateSpec())
	require.NoError(t, err)

	rate, err := values.Float("rate")
	require.NoError(t, err)
	assert.Equal(t, 500.0, rate)
}

func TestDecodeList_Malformed(t *testing.T) {
	_, err := DecodeList(`[{"code": "broken"`)
	assert.Error(t, err)
}

func TestDecodeList_Empty(t *testing.T) {
	ops, err := DecodeList("")
	require.NoError(t, err)
	assert.Nil(t, ops)
}

func TestResolve_UnknownArgument(t *testing.T) {
	op := ConfigurableOperation{
		Code: "flat-rate",
		Args: []Arg{{Name: "bogus", Value: "1"}},
	}

	_, err := Resolve(op, rateSpec())
	assert.ErrorIs(t, err, ErrUnknownArgument)
}

func TestArgValues_TypedGetters(t *testing.T) {
	op := ConfigurableOperation{
		Code: "test",
		Args: []Arg{
			{Name: "rate", Value: "12.5"},
			{Name: "minimum", Value: "3"},
			{Name: "taxIncluded", Value: "true"},
			{Name: "variantIds", Value: `["101","102"]`},
			{Name: "note", Value: "hello"},
		},
	}

	values, err := Resolve(op, rateSpec())
	require.NoError(t, err)

	rate, err := values.Float("rate")
	require.NoError(t, err)
	assert.Equal(t, 12.5, rate)

	minimum, err := values.Int("minimum")
	require.NoError(t, err)
	assert.Equal(t, 3, minimum)

	taxIncluded, err := values.Bool("taxIncluded")
	require.NoError(t, err)
	assert.True(t, taxIncluded)

	ids, err := values.IDList("variantIds")
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102"}, ids)

	note, err := values.String("note")
	require.NoError(t, err)
	assert.Equal(t, "hello", note)
}

func TestArgValues_TypeMismatch(t *testing.T) {
	op := ConfigurableOperation{
		Code: "test",
		Args: []Arg{{Name: "rate", Value: "12.5"}},
	}

	values, err := Resolve(op, rateSpec())
	require.NoError(t, err)

	// rate is declared as float; asking for an int must fail.
	_, err = values.Int("rate")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestArgValues_MissingArgument(t *testing.T) {
	values, err := Resolve(ConfigurableOperation{Code: "test"}, rateSpec())
	require.NoError(t, err)

	_, err = values.Float("rate")
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestArgValues_UnparsableValue(t *testing.T) {
	op := ConfigurableOperation{
		Code: "test",
		Args: []Arg{{Name: "minimum", Value: "three"}},
	}

	values, err := Resolve(op, rateSpec())
	require.NoError(t, err)

	_, err = values.Int("minimum")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

type testOp struct {
	BaseOperation
}

func TestRegistry(t *testing.T) {
	a := testOp{NewBaseOperation("op-a", "first", 0, nil)}
	b := testOp{NewBaseOperation("op-b", "second", 0, nil)}

	reg, err := NewRegistry(a, b)
	require.NoError(t, err)

	got, err := reg.Get("op-b")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Description())

	_, err = reg.Get("op-c")
	assert.ErrorIs(t, err, ErrUnknownOperation)

	assert.True(t, reg.Has("op-a"))
	assert.False(t, reg.Has("op-c"))

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "op-a", all[0].Code())
	assert.Equal(t, "op-b", all[1].Code())
}

func TestRegistry_DuplicateCode(t *testing.T) {
	a := testOp{NewBaseOperation("op-a", "first", 0, nil)}
	dup := testOp{NewBaseOperation("op-a", "duplicate", 0, nil)}

	_, err := NewRegistry(a, dup)
	assert.ErrorIs(t, err, ErrDuplicateCode)
}
