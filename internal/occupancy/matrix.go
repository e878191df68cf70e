// Package occupancy implements the packed seat x stop-position bit grid used for
// reservation admission.
//
// Columns are stop positions along a route (width) and rows are seats on the bus
// (height). The bit at linear index y*width+x is set when seat y is taken at stop
// position x. Two matrices can only be combined when their dimensions match.
package occupancy

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var (
	// ErrDimensionMismatch is returned when two matrices of different width or
	// height are combined.
	ErrDimensionMismatch = errors.New("occupancy: matrix dimensions differ")
	// ErrOverlap is returned by TryAdd when the operands share a set bit.
	ErrOverlap = errors.New("occupancy: matrices overlap")
	// ErrInvalidRange is returned by SetRowRange when from > to.
	ErrInvalidRange = errors.New("occupancy: from is after to")
	// ErrOutOfBounds is returned by SetRowRange for a row or column outside the grid.
	ErrOutOfBounds = errors.New("occupancy: index out of bounds")
)

// Matrix is a fixed-size bit grid. The zero value is an empty 0x0 grid.
type Matrix struct {
	width  int
	height int
	data   []byte
}

// New allocates a zeroed width x height grid. Non-positive dimensions give an empty grid.
func New(width, height int) *Matrix {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Matrix{
		width:  width,
		height: height,
		data:   make([]byte, (width*height+7)/8),
	}
}

// Width is the number of stop positions (columns).
func (m *Matrix) Width() int { return m.width }

// Height is the number of seats (rows).
func (m *Matrix) Height() int { return m.height }

// packed returns a copy of the packed store.
func (m *Matrix) packed() []byte {
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

func (m *Matrix) index(x, y int) (int, byte) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		panic(fmt.Sprintf("occupancy: (%d,%d) outside %dx%d", x, y, m.width, m.height))
	}
	i := y*m.width + x
	return i / 8, 1 << (i % 8)
}

// Get reports whether bit (x, y) is set. It panics when (x, y) is outside the grid.
func (m *Matrix) Get(x, y int) bool {
	b, mask := m.index(x, y)
	return m.data[b]&mask != 0
}

// Set writes bit (x, y). It panics when (x, y) is outside the grid.
func (m *Matrix) Set(x, y int, value bool) {
	b, mask := m.index(x, y)
	if value {
		m.data[b] |= mask
	} else {
		m.data[b] &^= mask
	}
}

// SetRowRange writes columns from..to (inclusive) of row.
func (m *Matrix) SetRowRange(row, from, to int, value bool) error {
	if from > to {
		return fmt.Errorf("%w: from=%d to=%d", ErrInvalidRange, from, to)
	}
	if from < 0 || to >= m.width || row < 0 || row >= m.height {
		return fmt.Errorf("%w: row=%d from=%d to=%d in %dx%d", ErrOutOfBounds, row, from, to, m.width, m.height)
	}
	for x := from; x <= to; x++ {
		m.Set(x, row, value)
	}
	return nil
}

// Row returns row y as a width x 1 matrix.
func (m *Matrix) Row(y int) *Matrix {
	row := New(m.width, 1)
	for x := 0; x < m.width; x++ {
		row.Set(x, 0, m.Get(x, y))
	}
	return row
}

// Column returns column x as a 1 x height matrix.
func (m *Matrix) Column(x int) *Matrix {
	col := New(1, m.height)
	for y := 0; y < m.height; y++ {
		col.Set(0, y, m.Get(x, y))
	}
	return col
}

// Count returns the number of set bits.
func (m *Matrix) Count() int {
	n := 0
	for _, b := range m.data {
		n += bits.OnesCount8(b)
	}
	return n
}

func (m *Matrix) sameShape(other *Matrix) bool {
	return m.width == other.width && m.height == other.height
}

// TryAdd merges a and b into a new matrix. It fails with ErrOverlap if any bit is
// set in both, in which case no result is produced.
func TryAdd(a, b *Matrix) (*Matrix, error) {
	if !a.sameShape(b) {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, a.width, a.height, b.width, b.height)
	}
	out := New(a.width, a.height)
	for i := range a.data {
		if a.data[i]&b.data[i] != 0 {
			return nil, ErrOverlap
		}
		out.data[i] = a.data[i] | b.data[i]
	}
	return out, nil
}

// HasCollidingBits reports whether m and other share any set bit.
func (m *Matrix) HasCollidingBits(other *Matrix) (bool, error) {
	if !m.sameShape(other) {
		return false, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, m.width, m.height, other.width, other.height)
	}
	for i := range m.data {
		if m.data[i]&other.data[i] != 0 {
			return true, nil
		}
	}
	return false, nil
}

// equal reports whether both matrices have the same shape and bits.
func (m *Matrix) equal(other *Matrix) bool {
	if !m.sameShape(other) {
		return false
	}
	for i := range m.data {
		if m.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// String renders one line per row, '#' for set bits and '.' for clear ones.
func (m *Matrix) String() string {
	var sb strings.Builder
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if y < m.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Lines is String split per row.
func (m *Matrix) Lines() []string {
	if m.height == 0 {
		return []string{}
	}
	return strings.Split(m.String(), "\n")
}
