package parallel

import (
	"testing"

	"github.com/gogpu/soft3d/internal/geom"
)

// =============================================================================
// Tile Tests
// =============================================================================

func TestTile_Constants(t *testing.T) {
	if TileWidth != 64 {
		t.Errorf("TileWidth = %d, want 64", TileWidth)
	}
	if TileHeight != 64 {
		t.Errorf("TileHeight = %d, want 64", TileHeight)
	}
	if TilePixels != 64*64 {
		t.Errorf("TilePixels = %d, want %d", TilePixels, 64*64)
	}
}

func TestTile_BoundsAndContains(t *testing.T) {
	tile := newTile[int](2, 3, 0, geom.RectXYWH(128, 192, 32, 16), 4)

	x, y, w, h := tile.Bounds()
	if x != 128 || y != 192 || w != 32 || h != 16 {
		t.Errorf("Bounds() = (%d,%d,%d,%d), want (128,192,32,16)", x, y, w, h)
	}

	tests := []struct {
		px, py int
		want   bool
	}{
		{128, 192, true},
		{159, 207, true},
		{160, 192, false},
		{128, 208, false},
		{127, 200, false},
	}
	for _, tt := range tests {
		if got := tile.Contains(tt.px, tt.py); got != tt.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tt.px, tt.py, got, tt.want)
		}
	}
}

func TestTile_DrainOrder(t *testing.T) {
	tile := newTile[int](0, 0, 0, geom.RectXYWH(0, 0, 64, 64), 8)
	for i := range 5 {
		tile.Queue().Push(i)
	}

	var got []int
	n := tile.Drain(func(v int) { got = append(got, v) })
	if n != 5 {
		t.Fatalf("Drain() = %d, want 5", n)
	}
	for i, v := range got {
		if v != i {
			t.Errorf("task %d = %d, want %d (FIFO)", i, v, i)
		}
	}
	if tile.Queue().Len() != 0 {
		t.Errorf("Len() after drain = %d, want 0", tile.Queue().Len())
	}
}

// =============================================================================
// TileGrid Tests
// =============================================================================

func TestTileGrid_Dimensions(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		cols, rows int
	}{
		{"exact", 128, 128, 2, 2},
		{"partial", 100, 100, 2, 2},
		{"single pixel", 1, 1, 1, 1},
		{"HD", 1920, 1080, 30, 17},
		{"zero", 0, 100, 0, 0},
		{"negative", -5, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewTileGrid[int](tt.w, tt.h, 4)
			if g.Columns() != tt.cols || g.Rows() != tt.rows {
				t.Errorf("grid = %dx%d, want %dx%d", g.Columns(), g.Rows(), tt.cols, tt.rows)
			}
			if g.TileCount() != tt.cols*tt.rows {
				t.Errorf("TileCount() = %d, want %d", g.TileCount(), tt.cols*tt.rows)
			}
		})
	}
}

func TestTileGrid_PartialEdgeTiles(t *testing.T) {
	g := NewTileGrid[int](100, 70, 4)

	tests := []struct {
		tx, ty int
		want   geom.Rect
	}{
		{0, 0, geom.Rect{MinX: 0, MinY: 0, MaxX: 64, MaxY: 64}},
		{1, 0, geom.Rect{MinX: 64, MinY: 0, MaxX: 100, MaxY: 64}},
		{0, 1, geom.Rect{MinX: 0, MinY: 64, MaxX: 64, MaxY: 70}},
		{1, 1, geom.Rect{MinX: 64, MinY: 64, MaxX: 100, MaxY: 70}},
	}
	for _, tt := range tests {
		tile := g.TileAt(tt.tx, tt.ty)
		if tile == nil {
			t.Fatalf("TileAt(%d,%d) = nil", tt.tx, tt.ty)
		}
		if tile.Rect != tt.want {
			t.Errorf("tile (%d,%d) rect = %+v, want %+v", tt.tx, tt.ty, tile.Rect, tt.want)
		}
		if tile.Index != tt.ty*g.Columns()+tt.tx {
			t.Errorf("tile (%d,%d) index = %d", tt.tx, tt.ty, tile.Index)
		}
	}

	// Tiles exactly cover the surface.
	area := 0
	g.ForEach(func(tile *Tile[int]) { area += tile.Rect.Dx() * tile.Rect.Dy() })
	if area != 100*70 {
		t.Errorf("covered area = %d, want %d", area, 100*70)
	}
}

func TestTileGrid_PixelTileRoundTrip(t *testing.T) {
	for _, p := range [][2]int{{0, 0}, {63, 63}, {64, 0}, {130, 200}, {1919, 1079}} {
		tx, ty := PixelToTile(p[0], p[1])
		ox, oy := TileOrigin(tx, ty)
		if p[0] < ox || p[0] >= ox+TileWidth || p[1] < oy || p[1] >= oy+TileHeight {
			t.Errorf("pixel %v -> tile (%d,%d) -> origin (%d,%d) does not contain pixel", p, tx, ty, ox, oy)
		}
	}
	for tx := range 5 {
		for ty := range 5 {
			ox, oy := TileOrigin(tx, ty)
			if gx, gy := PixelToTile(ox, oy); gx != tx || gy != ty {
				t.Errorf("PixelToTile(TileOrigin(%d,%d)) = (%d,%d)", tx, ty, gx, gy)
			}
		}
	}
	if tx, ty := PixelToTile(-1, -65); tx != -1 || ty != -2 {
		t.Errorf("PixelToTile(-1,-65) = (%d,%d), want (-1,-2)", tx, ty)
	}
}

func TestTileGrid_TileAtOutOfRange(t *testing.T) {
	g := NewTileGrid[int](200, 100, 4)
	if g.TileAt(4, 0) != nil || g.TileAt(0, 2) != nil || g.TileAt(-1, 0) != nil {
		t.Error("TileAt out of range should be nil")
	}
}

func TestTileGrid_TileRange(t *testing.T) {
	g := NewTileGrid[int](256, 256, 4)

	tests := []struct {
		name string
		r    geom.Rect
		want int
	}{
		{"inside one tile", geom.RectXYWH(10, 10, 20, 20), 1},
		{"across vertical border", geom.RectXYWH(60, 10, 10, 10), 2},
		{"across corner", geom.RectXYWH(60, 60, 10, 10), 4},
		{"ends on border", geom.Rect{MinX: 0, MinY: 0, MaxX: 64, MaxY: 64}, 1},
		{"whole surface", geom.RectXYWH(0, 0, 256, 256), 16},
		{"clamped", geom.RectXYWH(-100, -100, 1000, 1000), 16},
		{"outside", geom.RectXYWH(300, 300, 10, 10), 0},
		{"empty", geom.Rect{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx0, ty0, tx1, ty1 := g.TileRange(tt.r)
			if got := max(tx1-tx0, 0) * max(ty1-ty0, 0); got != tt.want {
				t.Errorf("TileRange(%+v) covers %d tiles, want %d", tt.r, got, tt.want)
			}
			for ty := ty0; ty < ty1; ty++ {
				for tx := tx0; tx < tx1; tx++ {
					if tile := g.TileAt(tx, ty); !tile.Rect.Overlaps(tt.r) {
						t.Errorf("tile %+v does not overlap %+v", tile.Rect, tt.r)
					}
				}
			}
		})
	}
}

func TestTileGrid_Resize(t *testing.T) {
	g := NewTileGrid[int](64, 64, 4)
	g.TileAt(0, 0).Queue().Push(1)

	g.Resize(64, 64)
	if g.TileAt(0, 0).Queue().Len() != 0 {
		t.Error("Resize to same size should discard queued tasks")
	}

	g.Resize(200, 130)
	if g.Columns() != 4 || g.Rows() != 3 {
		t.Errorf("after Resize grid = %dx%d, want 4x3", g.Columns(), g.Rows())
	}
	if g.Width() != 200 || g.Height() != 130 {
		t.Errorf("after Resize size = %dx%d", g.Width(), g.Height())
	}
	if g.QueueCapacity() != 4 {
		t.Errorf("QueueCapacity() = %d, want 4", g.QueueCapacity())
	}

	g.Resize(0, 0)
	if g.TileCount() != 0 {
		t.Errorf("TileCount() after zero resize = %d", g.TileCount())
	}
}
