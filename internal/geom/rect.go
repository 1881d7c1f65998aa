package geom

// Rect is a half-open integer pixel rectangle [MinX, MaxX) x [MinY, MaxY).
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// RectXYWH builds a rectangle from its origin and size.
func RectXYWH(x, y, w, h int) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Dx returns the width.
func (r Rect) Dx() int { return r.MaxX - r.MinX }

// Dy returns the height.
func (r Rect) Dy() int { return r.MaxY - r.MinY }

// Empty reports whether the rectangle contains no pixels.
func (r Rect) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Intersect returns the largest rectangle contained by both r and o.
// The result may be Empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		MinX: max(r.MinX, o.MinX),
		MinY: max(r.MinY, o.MinY),
		MaxX: min(r.MaxX, o.MaxX),
		MaxY: min(r.MaxY, o.MaxY),
	}
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Contains reports whether pixel (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}
