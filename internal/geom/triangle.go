package geom

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// DegenerateArea is the screen-space signed area (in pixels, doubled) below
// which a triangle covers nothing and is dropped.
const DegenerateArea = 1e-6

// Triangle is a screen-space triangle ready for scan conversion.
//
// Flip records that the vertices wind clockwise on screen (negative signed
// area); coverage and interpolation normalize for it so both windings
// rasterize identically. A Triangle is never mutated once binned.
type Triangle[T Varying[T]] struct {
	V      [3]Vertex[T]
	Flip   bool
	Culled bool

	area    float32
	invArea float32
	topLeft [3]bool
}

// NewTriangle sets up a triangle from three screen-space vertices.
func NewTriangle[T Varying[T]](v0, v1, v2 Vertex[T]) Triangle[T] {
	t := Triangle[T]{V: [3]Vertex[T]{v0, v1, v2}}
	t.setup()
	return t
}

func (t *Triangle[T]) setup() {
	p0, p1, p2 := t.V[0].Position, t.V[1].Position, t.V[2].Position
	t.area = SignedArea(xy(p0), xy(p1), xy(p2))
	t.Flip = t.area < 0
	if t.area != 0 {
		t.invArea = 1 / t.area
	}

	// Edge i is opposite vertex i: v1->v2, v2->v0, v0->v1.
	for i := range 3 {
		a := t.V[(i+1)%3].Position
		b := t.V[(i+2)%3].Position
		dx, dy := b[0]-a[0], b[1]-a[1]
		if t.Flip {
			dx, dy = -dx, -dy
		}
		// Positive-area triangles wind counter-clockwise on a y-down screen:
		// left edges run downwards and top edges run right to left.
		t.topLeft[i] = dy > 0 || (dy == 0 && dx < 0)
	}
}

// SignedArea returns (v2.x-v0.x)(v1.y-v0.y) - (v2.y-v0.y)(v1.x-v0.x),
// twice the signed area of the triangle. On a y-down screen it is positive
// for triangles that were counter-clockwise in NDC.
func SignedArea(v0, v1, v2 mgl32.Vec2) float32 {
	return (v2[0]-v0[0])*(v1[1]-v0[1]) - (v2[1]-v0[1])*(v1[0]-v0[0])
}

func xy(p mgl32.Vec4) mgl32.Vec2 {
	return mgl32.Vec2{p[0], p[1]}
}

// edge evaluates the edge function of a->b at p. edge(v0, v1, v2) equals
// SignedArea(v0, v1, v2).
func edge(a, b mgl32.Vec4, px, py float32) float32 {
	return (px-a[0])*(b[1]-a[1]) - (py-a[1])*(b[0]-a[0])
}

// Area returns the doubled signed area computed at setup.
func (t *Triangle[T]) Area() float32 {
	return t.area
}

// Degenerate reports whether the triangle is too thin to cover any pixel.
func (t *Triangle[T]) Degenerate() bool {
	return math.Abs(float64(t.area)) < DegenerateArea
}

// Bounds returns the pixel rectangle covering the triangle, grown by padding
// pixels on every side and clamped to [0,width] x [0,height].
func (t *Triangle[T]) Bounds(padding, width, height int) Rect {
	p0, p1, p2 := t.V[0].Position, t.V[1].Position, t.V[2].Position
	minX := min(p0[0], p1[0], p2[0])
	maxX := max(p0[0], p1[0], p2[0])
	minY := min(p0[1], p1[1], p2[1])
	maxY := max(p0[1], p1[1], p2[1])

	r := Rect{
		MinX: int(math.Floor(float64(minX))) - padding,
		MinY: int(math.Floor(float64(minY))) - padding,
		MaxX: int(math.Ceil(float64(maxX))) + padding,
		MaxY: int(math.Ceil(float64(maxY))) + padding,
	}
	return r.Intersect(Rect{MaxX: width, MaxY: height})
}

// Barycentric returns the normalized weights of point (px, py) and whether
// the point is covered. Weights are edge-function ratios, so they are all
// non-negative inside the triangle whatever its winding. Points exactly on an
// edge are covered only for top and left edges, so pixels on an edge shared
// by two triangles are shaded exactly once.
func (t *Triangle[T]) Barycentric(px, py float32) (w mgl32.Vec3, inside bool) {
	if t.invArea == 0 {
		return w, false
	}
	p0, p1, p2 := t.V[0].Position, t.V[1].Position, t.V[2].Position
	w = mgl32.Vec3{
		edge(p1, p2, px, py) * t.invArea,
		edge(p2, p0, px, py) * t.invArea,
		edge(p0, p1, px, py) * t.invArea,
	}
	for i := range 3 {
		if w[i] < 0 || (w[i] == 0 && !t.topLeft[i]) {
			return w, false
		}
	}
	return w, true
}

// Interpolate evaluates the triangle at barycentric weights w.
//
// Screen x, y and z and Rhw are interpolated linearly; pos[3] is the
// perspective-correct clip w. Attributes are perspective-correct:
// sum(wi*attr_i*rhw_i) / sum(wi*rhw_i).
func (t *Triangle[T]) Interpolate(w mgl32.Vec3) (pos mgl32.Vec4, rhw float32, attr T) {
	v0, v1, v2 := &t.V[0], &t.V[1], &t.V[2]
	pos = v0.Position.Mul(w[0]).Add(v1.Position.Mul(w[1])).Add(v2.Position.Mul(w[2]))
	rhw = w[0]*v0.Rhw + w[1]*v1.Rhw + w[2]*v2.Rhw

	attr = v0.Attr.Scale(w[0]).Add(v1.Attr.Scale(w[1])).Add(v2.Attr.Scale(w[2]))
	if rhw != 0 {
		attr = attr.Scale(1 / rhw)
		pos[3] = 1 / rhw
	}
	return pos, rhw, attr
}

// HorizontallySplit divides the triangle at its middle vertex into a
// flat-bottom and a flat-top triangle, for trapezoid (scanline) conversion.
// Triangles that already have a horizontal top or bottom edge are returned
// as-is. Vertices of the results are sorted by y.
func (t Triangle[T]) HorizontallySplit() []Triangle[T] {
	vs := t.V
	sort.SliceStable(vs[:], func(i, j int) bool {
		return vs[i].Position[1] < vs[j].Position[1]
	})
	top, mid, bot := vs[0], vs[1], vs[2]

	if top.Position[1] == mid.Position[1] || mid.Position[1] == bot.Position[1] {
		return []Triangle[T]{NewTriangle(top, mid, bot)}
	}

	k := (mid.Position[1] - top.Position[1]) / (bot.Position[1] - top.Position[1])
	split := Lerp(top, bot, k)
	split.Position[1] = mid.Position[1]

	return []Triangle[T]{
		NewTriangle(top, mid, split),
		NewTriangle(mid, split, bot),
	}
}
