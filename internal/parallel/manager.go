package parallel

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/soft3d/internal/geom"
)

// TileManager bins tasks into per-tile queues and drains them in parallel.
//
// A task is pushed once per tile its bounds overlap; the consumer of each
// tile is responsible for restricting its work to the tile's Rect. Within one
// tile, tasks are drained in the order they were pushed, so per-pixel
// ordering follows submission order.
//
// Push may be called from several producers. ForEachTile must not run
// concurrently with Resize.
type TileManager[T any] struct {
	grid *TileGrid[T]
	pool *WorkerPool

	pushed  atomic.Int64
	drained atomic.Int64
}

// NewTileManager creates a manager for a width x height surface with the
// given number of workers (GOMAXPROCS if <= 0) and per-tile queue capacity
// (DefaultQueueCapacity if <= 0). Diagnostics go to logger, or to the
// package logger set by SetLogger when logger is nil.
func NewTileManager[T any](width, height, workers, capacity int, logger *slog.Logger) *TileManager[T] {
	m := &TileManager[T]{
		grid: NewTileGrid[T](width, height, capacity),
		pool: newWorkerPool(workers, logger),
	}
	m.pool.logger().Debug("parallel: tile manager created",
		"width", width, "height", height,
		"tiles", m.grid.TileCount(), "capacity", m.grid.QueueCapacity())
	return m
}

// Resize rebuilds the tile grid. Pending tasks are discarded.
func (m *TileManager[T]) Resize(width, height int) {
	m.grid.Resize(width, height)
	m.pool.logger().Debug("parallel: tile grid resized",
		"width", width, "height", height, "tiles", m.grid.TileCount())
}

// Grid returns the underlying tile grid.
func (m *TileManager[T]) Grid() *TileGrid[T] {
	return m.grid
}

// Workers returns the number of worker goroutines.
func (m *TileManager[T]) Workers() int {
	return m.pool.Workers()
}

// CanAccept reports whether every tile overlapping bounds has room for one
// more task. Only meaningful while a single producer is pushing.
func (m *TileManager[T]) CanAccept(bounds geom.Rect) bool {
	tx0, ty0, tx1, ty1 := m.grid.TileRange(bounds)
	for ty := ty0; ty < ty1; ty++ {
		for tx := tx0; tx < tx1; tx++ {
			if m.grid.tiles[ty*m.grid.cols+tx].queue.Free() == 0 {
				return false
			}
		}
	}
	return true
}

// Push enqueues task on every tile overlapping bounds and returns the number
// of tiles it was binned into. Push blocks while a target queue is full.
func (m *TileManager[T]) Push(bounds geom.Rect, task T) int {
	tx0, ty0, tx1, ty1 := m.grid.TileRange(bounds)
	n := 0
	for ty := ty0; ty < ty1; ty++ {
		for tx := tx0; tx < tx1; tx++ {
			t := m.grid.tiles[ty*m.grid.cols+tx]
			t.queue.Push(task)
			t.dirty.Store(true)
			n++
		}
	}
	m.pushed.Add(int64(n))
	return n
}

// Pending returns the number of tasks queued across all tiles.
func (m *TileManager[T]) Pending() int {
	n := 0
	for _, t := range m.grid.tiles {
		n += t.queue.Len()
	}
	return n
}

// ForEachTile calls fn concurrently for every tile that has queued tasks and
// returns after all calls finish. fn typically drains the tile's queue; tiles
// are independent, so each tile is handled by exactly one goroutine.
// Returns the number of tiles visited.
func (m *TileManager[T]) ForEachTile(fn func(*Tile[T])) int {
	active := make([]*Tile[T], 0, len(m.grid.tiles))
	for _, t := range m.grid.tiles {
		if t.Dirty() || t.queue.Len() > 0 {
			active = append(active, t)
		}
	}
	m.pool.Run(len(active), func(i int) {
		t := active[i]
		fn(t)
		t.ClearDirty()
	})
	return len(active)
}

// DrainAll drains every tile in parallel, calling fn for each task with the
// tile it was queued on. Returns the number of tasks drained.
func (m *TileManager[T]) DrainAll(fn func(t *Tile[T], task T)) int {
	var total atomic.Int64
	m.ForEachTile(func(t *Tile[T]) {
		n := t.Drain(func(task T) { fn(t, task) })
		total.Add(int64(n))
	})
	n := total.Load()
	m.drained.Add(n)
	return int(n)
}

// Stats returns the total number of tile tasks pushed and drained through
// DrainAll since creation. Tasks discarded by Resize count as pushed only.
func (m *TileManager[T]) Stats() (pushed, drained int64) {
	return m.pushed.Load(), m.drained.Load()
}

// Close stops the worker pool. The manager must not be used afterwards.
func (m *TileManager[T]) Close() {
	m.pool.Close()
}

// ForAllTiles calls fn concurrently for every tile, whether or not it has
// queued tasks, and returns after all calls finish.
func (m *TileManager[T]) ForAllTiles(fn func(*Tile[T])) {
	tiles := m.grid.tiles
	m.pool.Run(len(tiles), func(i int) {
		fn(tiles[i])
	})
}
