package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New(8, 8)
	assert.Len(t, m.packed(), 8)
	assert.False(t, m.Get(0, 0))
	m.Set(0, 0, true)
	assert.True(t, m.Get(0, 0))

	assert.Len(t, New(3, 3).packed(), 2)
	assert.Len(t, New(0, 5).packed(), 0)
	assert.Len(t, New(-1, 5).packed(), 0)
	assert.Equal(t, 0, New(-1, 5).Width())
}

func TestSetClearsBit(t *testing.T) {
	m := New(5, 2)
	m.Set(4, 1, true)
	m.Set(3, 1, true)
	m.Set(4, 1, false)
	assert.False(t, m.Get(4, 1))
	assert.True(t, m.Get(3, 1))
	assert.Equal(t, 1, m.Count())
}

func TestGetOutOfRangePanics(t *testing.T) {
	m := New(2, 2)
	assert.Panics(t, func() { m.Get(2, 0) })
	assert.Panics(t, func() { m.Set(0, -1, true) })
}

func TestSetRowRange(t *testing.T) {
	m := New(4, 3)
	require.NoError(t, m.SetRowRange(1, 1, 3, true))
	assert.Equal(t, "....\n.###\n....", m.String())

	require.NoError(t, m.SetRowRange(2, 0, 0, true))
	assert.Equal(t, []string{"....", ".###", "#..."}, m.Lines())

	assert.ErrorIs(t, m.SetRowRange(0, 2, 1, true), ErrInvalidRange)
	assert.ErrorIs(t, m.SetRowRange(0, 0, 4, true), ErrOutOfBounds)
	assert.ErrorIs(t, m.SetRowRange(3, 0, 1, true), ErrOutOfBounds)
	assert.Equal(t, 4, m.Count())
}

func TestRowAndColumn(t *testing.T) {
	m := New(3, 2)
	require.NoError(t, m.SetRowRange(0, 0, 1, true))
	require.NoError(t, m.SetRowRange(1, 1, 2, true))

	assert.Equal(t, "##.", m.Row(0).String())
	assert.Equal(t, ".##", m.Row(1).String())
	assert.Equal(t, "#\n.", m.Column(0).String())
	assert.Equal(t, "#\n#", m.Column(1).String())
	assert.Equal(t, 2, m.Column(1).Count())
}

func TestTryAdd(t *testing.T) {
	a := New(4, 2)
	b := New(4, 2)
	require.NoError(t, a.SetRowRange(0, 0, 1, true))
	require.NoError(t, b.SetRowRange(0, 2, 3, true))

	merged, err := TryAdd(a, b)
	require.NoError(t, err)
	assert.Equal(t, "####\n....", merged.String())
	// operands are untouched
	assert.Equal(t, 2, a.Count())

	c := New(4, 2)
	require.NoError(t, c.SetRowRange(0, 1, 2, true))
	_, err = TryAdd(merged, c)
	assert.ErrorIs(t, err, ErrOverlap)

	_, err = TryAdd(a, New(4, 3))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestTryAddSameByteDifferentRows(t *testing.T) {
	// 2x2 grid packs every bit into one byte
	a := New(2, 2)
	b := New(2, 2)
	require.NoError(t, a.SetRowRange(0, 0, 1, true))
	require.NoError(t, b.SetRowRange(1, 0, 1, true))

	merged, err := TryAdd(a, b)
	require.NoError(t, err)
	assert.Equal(t, 4, merged.Count())
}

func TestHasCollidingBits(t *testing.T) {
	a := New(10, 3)
	b := New(10, 3)
	require.NoError(t, a.SetRowRange(2, 0, 4, true))
	require.NoError(t, b.SetRowRange(2, 5, 9, true))

	hit, err := a.HasCollidingBits(b)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, b.SetRowRange(2, 4, 4, true))
	hit, err = a.HasCollidingBits(b)
	require.NoError(t, err)
	assert.True(t, hit)

	_, err = a.HasCollidingBits(New(9, 3))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEqual(t *testing.T) {
	a := New(3, 3)
	b := New(3, 3)
	assert.True(t, a.equal(b))
	b.Set(1, 1, true)
	assert.False(t, a.equal(b))
	assert.False(t, a.equal(New(3, 2)))
}
