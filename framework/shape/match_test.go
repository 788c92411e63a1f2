package shape_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-entob/framework/shape"
)

var (
	intS = shape.Of[int]()
	strS = shape.Of[string]()
)

// containers mirrors a "pair, set or list of ints or of strings" declaration.
var containers = []shape.Shape{
	shape.OneOf(shape.TupleOf(intS, intS), shape.SetOf(intS), shape.SliceOf(intS)),
	shape.OneOf(shape.TupleOf(strS, strS), shape.SetOf(strS), shape.SliceOf(strS)),
}

func matches(t *testing.T, value any, shapes ...shape.Shape) bool {
	t.Helper()
	ok, err := shape.Match(value, shapes...)
	require.NoError(t, err)
	return ok
}

func TestMatch_Slices(t *testing.T) {
	accepted := []any{
		[]any{},
		[]int{1, 2},
		[]any{1, 2, 3},
		[]int{1, 2, 3, 4, 5},
		[]string{"1"},
		[]any{"1", "2", "3", "4"},
	}
	for _, v := range accepted {
		assert.True(t, matches(t, v, containers...), "%#v", v)
	}

	rejected := []any{
		[]any{1, 2, 3, 4, nil},
		[]any{shape.Tuple{1, 2}, shape.NewSet(1, 2)},
		[]any{shape.Tuple{1, 2}, shape.Tuple{1, 2}},
		[]any{1, 2, 3, 4, "5"},
		[]any{1, 2, 3, 4, 5.0},
		[]any{nil},
		[3]int{1, 2, 3},
	}
	for _, v := range rejected {
		assert.False(t, matches(t, v, containers...), "%#v", v)
	}
}

func TestMatch_Sets(t *testing.T) {
	accepted := []any{
		shape.NewSet(1),
		shape.NewSet(1, 2, 3),
		shape.NewSet("1", "2"),
		shape.NewSet(),
		map[int]struct{}{1: {}, 2: {}},
	}
	for _, v := range accepted {
		assert.True(t, matches(t, v, containers...), "%#v", v)
	}

	rejected := []any{
		shape.NewSet(1, 2, nil),
		shape.NewSet(1, 2, "3"),
		shape.NewSet(1, 2, 3.0),
		shape.NewSet(nil),
		map[int]bool{1: true},
	}
	for _, v := range rejected {
		assert.False(t, matches(t, v, containers...), "%#v", v)
	}
}

func TestMatch_Tuples(t *testing.T) {
	assert.True(t, matches(t, shape.Tuple{1, 2}, containers...))
	assert.True(t, matches(t, shape.Tuple{"1", "2"}, containers...))

	rejected := []shape.Tuple{
		{1},
		{"1"},
		{1, nil},
		{1, 3.0},
		{1, 2, 3, 4, 5},
		{"1", nil},
		{"1", 3.0},
		{"1", "2", "3"},
		{},
		{nil},
	}
	for _, v := range rejected {
		assert.False(t, matches(t, v, containers...), "%#v", v)
	}
}

func TestMatch_Scalars(t *testing.T) {
	for _, v := range []any{nil, 1, "1", 1.0, true, false, shape.Tuple{[]int{}, []int{}}} {
		assert.False(t, matches(t, v, containers...), "%#v", v)
	}

	assert.True(t, matches(t, 1, intS, strS))
	assert.True(t, matches(t, "1", intS, strS))
	assert.True(t, matches(t, 1.0, shape.Of[float64]()))
	assert.False(t, matches(t, nil, intS, strS))
	assert.False(t, matches(t, 1.0, intS, strS))
	assert.False(t, matches(t, int64(1), intS))
}

func TestMatch_BoolIsNotInt(t *testing.T) {
	assert.False(t, matches(t, true, intS))
	assert.False(t, matches(t, false, intS, strS))
	assert.True(t, matches(t, true, shape.OneOf(intS, shape.Of[bool]())))
}

func TestMatch_SliceKindIsExact(t *testing.T) {
	type ints []int
	list := shape.SliceOf(intS)

	assert.True(t, matches(t, []int{1, 2, 3}, list))
	assert.False(t, matches(t, []any{1, "2"}, list))
	assert.False(t, matches(t, shape.NewSet(1, 2, 3), list))
	assert.False(t, matches(t, shape.Tuple{1, 2, 3}, list))
	assert.False(t, matches(t, ints{1, 2, 3}, list))
}

func TestMatch_InterfaceShape(t *testing.T) {
	stringer := shape.Of[fmt.Stringer]()
	assert.True(t, matches(t, decimal.NewFromInt(3), stringer))
	assert.False(t, matches(t, 3, stringer))
}

func TestMatch_UnsupportedShape(t *testing.T) {
	m := shape.MapOf(strS, intS)

	_, err := shape.Match(map[string]int{"a": 1}, m)
	require.ErrorIs(t, err, shape.ErrUnsupportedShape)

	_, err = shape.Match(1, shape.Shape{})
	require.ErrorIs(t, err, shape.ErrUnsupportedShape)

	// an earlier alternative short-circuits before the unsupported one is reached
	ok, err := shape.Match(1, intS, m)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, shape.SliceOf(m).Validate(), shape.ErrUnsupportedShape)
	assert.NoError(t, containers[0].Validate())
}

func TestShape_String(t *testing.T) {
	tests := []struct {
		shape shape.Shape
		want  string
	}{
		{intS, "int"},
		{shape.SliceOf(intS), "[]int"},
		{shape.SetOf(strS), "set[string]"},
		{shape.TupleOf(intS, strS), "tuple[int, string]"},
		{shape.OneOf(intS, strS), "int | string"},
		{shape.MapOf(strS, intS), "map[string]int"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.shape.String())
		})
	}
	assert.Equal(t, "(int, string)", shape.Format([]shape.Shape{intS, strS}))
}

func TestEqual(t *testing.T) {
	assert.True(t, shape.Equal(decimal.RequireFromString("1.50"), decimal.RequireFromString("1.5")))
	assert.True(t, shape.Equal([]int{1, 2}, []int{1, 2}))
	assert.True(t, shape.Equal(nil, nil))
	assert.False(t, shape.Equal(nil, 0))
	assert.False(t, shape.Equal(1, int64(1)))
	assert.True(t, shape.Contains([]any{"RUB", "USD"}, "USD"))
	assert.False(t, shape.Contains([]any{"RUB", "USD"}, "GBP"))
}
