// Package buffer provides the dense per-sample planes the pipeline renders into.
//
// A Buffer is a row-major 2D array of one element type. The pipeline keeps one
// Buffer per plane: packed 32-bit color, float32 depth and uint8 stencil.
// Accessors never panic on bad coordinates; they report failure instead.
//
// Thread safety: Buffer is not synchronized. Concurrent writers must touch
// disjoint cells (the tile scheduler guarantees this).
package buffer

import "errors"

// Common errors for buffer construction.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("buffer: invalid dimensions")
)

// Buffer is a bounds-checked 2D buffer of T in row-major order.
type Buffer[T any] struct {
	width  int
	height int
	data   []T
}

// New creates a buffer of the given size with every cell set to the zero value.
func New[T any](width, height int) (*Buffer[T], error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Buffer[T]{
		width:  width,
		height: height,
		data:   make([]T, width*height),
	}, nil
}

// Width returns the width in samples.
func (b *Buffer[T]) Width() int {
	return b.width
}

// Height returns the height in samples.
func (b *Buffer[T]) Height() int {
	return b.height
}

// Data returns the backing slice. Index is y*Width()+x.
func (b *Buffer[T]) Data() []T {
	return b.data
}

// Index returns the flat index of (x, y), or -1 when out of bounds.
func (b *Buffer[T]) Index(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.width + x
}

// Get returns the value at (x, y). ok is false when out of bounds.
func (b *Buffer[T]) Get(x, y int) (v T, ok bool) {
	i := b.Index(x, y)
	if i < 0 {
		return v, false
	}
	return b.data[i], true
}

// Set writes v at (x, y). Returns false when out of bounds.
func (b *Buffer[T]) Set(x, y int, v T) bool {
	i := b.Index(x, y)
	if i < 0 {
		return false
	}
	b.data[i] = v
	return true
}

// Clear fills the whole buffer with v.
func (b *Buffer[T]) Clear(v T) {
	if len(b.data) == 0 {
		return
	}
	// Fill first row, then copy it down.
	row := b.data[:b.width]
	for i := range row {
		row[i] = v
	}
	for y := 1; y < b.height; y++ {
		copy(b.data[y*b.width:(y+1)*b.width], row)
	}
}

// ClearRect fills the intersection of the rectangle (x, y, w, h) with the
// buffer. Returns false when the intersection is empty.
func (b *Buffer[T]) ClearRect(x, y, w, h int, v T) bool {
	x0 := max(x, 0)
	y0 := max(y, 0)
	x1 := min(x+w, b.width)
	y1 := min(y+h, b.height)
	if x0 >= x1 || y0 >= y1 {
		return false
	}

	first := b.data[y0*b.width+x0 : y0*b.width+x1]
	for i := range first {
		first[i] = v
	}
	for row := y0 + 1; row < y1; row++ {
		copy(b.data[row*b.width+x0:row*b.width+x1], first)
	}
	return true
}
