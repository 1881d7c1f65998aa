// Package parallel provides the tile-based parallel execution core of the
// rasterizer.
//
// The surface is divided into 64x64 pixel tiles. Every tile owns a bounded
// queue of draw tasks; triangles are binned into the queue of each tile their
// bounds overlap, and at the end of a frame all tiles are drained in parallel
// by a WorkerPool. Tiles are disjoint screen regions, so workers never write
// the same pixel and the shared pixel planes need no locking.
//
//   - 64x64 tiles keep a tile's color, depth and stencil cells cache resident
//   - one bounded queue per tile, producers block when it is full
//   - a single fork-join entry point per frame (TileManager.ForEachTile)
package parallel

import (
	"sync/atomic"

	"github.com/gogpu/soft3d/internal/geom"
)

// Tile size constants.
const (
	// TileWidth is the width of a tile in pixels.
	TileWidth = 64

	// TileHeight is the height of a tile in pixels.
	TileHeight = 64

	// TilePixels is the number of pixels in a full tile.
	TilePixels = TileWidth * TileHeight
)

// Tile is one rectangular region of the surface and its task queue.
//
// Edge tiles may be smaller than TileWidth x TileHeight when the surface is
// not evenly divisible by the tile size.
type Tile[T any] struct {
	// X is the tile column index (0-based).
	X int

	// Y is the tile row index (0-based).
	Y int

	// Index is the row-major tile index: Y*columns + X.
	Index int

	// Rect is the tile's pixel rectangle in surface space.
	Rect geom.Rect

	queue *Queue[T]
	dirty atomic.Bool
}

func newTile[T any](tx, ty, index int, rect geom.Rect, capacity int) *Tile[T] {
	return &Tile[T]{
		X:     tx,
		Y:     ty,
		Index: index,
		Rect:  rect,
		queue: NewQueue[T](capacity),
	}
}

// Queue returns the tile's task queue.
func (t *Tile[T]) Queue() *Queue[T] {
	return t.queue
}

// Bounds returns the pixel bounds of this tile as (x, y, width, height).
func (t *Tile[T]) Bounds() (x, y, w, h int) {
	return t.Rect.MinX, t.Rect.MinY, t.Rect.Dx(), t.Rect.Dy()
}

// Contains returns true if the surface pixel (px, py) is within this tile.
func (t *Tile[T]) Contains(px, py int) bool {
	return t.Rect.Contains(px, py)
}

// Dirty reports whether tasks were queued on the tile since the last
// ClearDirty.
func (t *Tile[T]) Dirty() bool {
	return t.dirty.Load()
}

// ClearDirty resets the dirty flag.
func (t *Tile[T]) ClearDirty() {
	t.dirty.Store(false)
}

// Drain pops queued tasks in enqueue order and passes each to fn until the
// queue is empty. It never waits for more input. Returns the number of tasks.
func (t *Tile[T]) Drain(fn func(task T)) int {
	return t.queue.Drain(fn)
}
