package field

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-entob/framework/shape"
)

type mapStorage map[string]any

func (m mapStorage) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

func (m mapStorage) Store(name string, v any) { m[name] = v }
func (m mapStorage) SetModified(string)       {}
func (m mapStorage) TypeName() string         { return "Report" }

// Describe rejects MapOf, so this descriptor is assembled by hand.
func TestSet_UnsupportedShapeKeepsCause(t *testing.T) {
	d := &Descriptor{types: []shape.Shape{shape.MapOf(shape.Of[string](), shape.Of[int]())}}
	a := d.Bind("Report", "scores")

	err := a.Set(mapStorage{}, map[string]int{"a": 1})
	require.ErrorIs(t, err, shape.ErrUnsupportedShape)

	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.Error(t, fe.Cause)
	assert.ErrorIs(t, fe.Cause, shape.ErrUnsupportedShape)
	assert.Contains(t, fe.Error(), fe.Cause.Error())
}
