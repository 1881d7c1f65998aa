package parallel

import "github.com/gogpu/soft3d/internal/geom"

// TileGrid divides a width x height surface into TileWidth x TileHeight tiles.
//
// Tiles are stored in a flat row-major slice: index = ty*columns + tx. Edge
// tiles have reduced dimensions when the surface is not evenly divisible by
// the tile size.
//
// Thread safety: TileGrid is NOT thread-safe. Resize must not run while tiles
// are being drained.
type TileGrid[T any] struct {
	tiles    []*Tile[T]
	cols     int
	rows     int
	width    int
	height   int
	capacity int
}

// NewTileGrid creates a grid covering a width x height surface. Every tile
// gets a task queue holding capacity tasks (DefaultQueueCapacity if <= 0).
func NewTileGrid[T any](width, height, capacity int) *TileGrid[T] {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	g := &TileGrid[T]{capacity: capacity}
	g.Resize(width, height)
	return g
}

// Resize rebuilds the grid for new dimensions. Queued tasks are discarded.
// Non-positive dimensions produce an empty grid.
func (g *TileGrid[T]) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		g.tiles, g.cols, g.rows, g.width, g.height = nil, 0, 0, 0, 0
		return
	}
	if width == g.width && height == g.height {
		for _, t := range g.tiles {
			t.queue.Drain(func(T) {})
			t.ClearDirty()
		}
		return
	}

	g.width, g.height = width, height
	g.cols = (width + TileWidth - 1) / TileWidth
	g.rows = (height + TileHeight - 1) / TileHeight
	g.tiles = make([]*Tile[T], g.cols*g.rows)

	bounds := geom.Rect{MaxX: width, MaxY: height}
	for ty := range g.rows {
		for tx := range g.cols {
			x, y := TileOrigin(tx, ty)
			rect := geom.RectXYWH(x, y, TileWidth, TileHeight).Intersect(bounds)
			idx := ty*g.cols + tx
			g.tiles[idx] = newTile[T](tx, ty, idx, rect, g.capacity)
		}
	}
}

// PixelToTile returns the tile coordinates containing surface pixel (px, py).
// It does not clamp; callers check the result against Columns and Rows.
func PixelToTile(px, py int) (tx, ty int) {
	return floorDiv(px, TileWidth), floorDiv(py, TileHeight)
}

// TileOrigin returns the surface pixel at the top-left corner of tile (tx, ty).
func TileOrigin(tx, ty int) (px, py int) {
	return tx * TileWidth, ty * TileHeight
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// TileAt returns the tile at tile coordinates (tx, ty), or nil if out of range.
func (g *TileGrid[T]) TileAt(tx, ty int) *Tile[T] {
	if tx < 0 || ty < 0 || tx >= g.cols || ty >= g.rows {
		return nil
	}
	return g.tiles[ty*g.cols+tx]
}

// TileRange returns the half-open tile coordinate range [tx0,tx1) x [ty0,ty1)
// covered by the pixel rectangle r, clamped to the grid.
func (g *TileGrid[T]) TileRange(r geom.Rect) (tx0, ty0, tx1, ty1 int) {
	r = r.Intersect(geom.Rect{MaxX: g.width, MaxY: g.height})
	if r.Empty() {
		return 0, 0, 0, 0
	}
	tx0, ty0 = PixelToTile(r.MinX, r.MinY)
	tx1, ty1 = PixelToTile(r.MaxX-1, r.MaxY-1)
	return tx0, ty0, tx1 + 1, ty1 + 1
}

// ForEach calls fn for every tile in row-major order.
func (g *TileGrid[T]) ForEach(fn func(*Tile[T])) {
	for _, t := range g.tiles {
		fn(t)
	}
}

// Tiles returns the tiles in row-major order. The slice must not be modified.
func (g *TileGrid[T]) Tiles() []*Tile[T] {
	return g.tiles
}

// Columns returns the number of tile columns.
func (g *TileGrid[T]) Columns() int { return g.cols }

// Rows returns the number of tile rows.
func (g *TileGrid[T]) Rows() int { return g.rows }

// TileCount returns the total number of tiles.
func (g *TileGrid[T]) TileCount() int { return len(g.tiles) }

// Width returns the surface width in pixels.
func (g *TileGrid[T]) Width() int { return g.width }

// Height returns the surface height in pixels.
func (g *TileGrid[T]) Height() int { return g.height }

// QueueCapacity returns the per-tile task capacity.
func (g *TileGrid[T]) QueueCapacity() int { return g.capacity }
