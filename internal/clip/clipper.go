// Package clip clips triangles against the canonical view volume in
// homogeneous clip space, before the perspective divide.
//
// A clip-space point (x, y, z, w) is inside when -w <= x, y, z <= w and
// w >= geom.MinW. The w guard keeps every surviving vertex safely divisible.
package clip

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/soft3d/internal/geom"
)

// Plane identifies one boundary of the clip volume.
type Plane uint8

// Planes in the fixed order polygons are clipped against.
const (
	PlaneW Plane = iota
	PlaneNear
	PlaneFar
	PlaneLeft
	PlaneRight
	PlaneBottom
	PlaneTop

	planeCount
)

// String returns the plane name.
func (p Plane) String() string {
	switch p {
	case PlaneW:
		return "w"
	case PlaneNear:
		return "near"
	case PlaneFar:
		return "far"
	case PlaneLeft:
		return "left"
	case PlaneRight:
		return "right"
	case PlaneBottom:
		return "bottom"
	case PlaneTop:
		return "top"
	default:
		return "unknown"
	}
}

// Distance returns the signed distance of v to plane p in clip space.
// Non-negative means inside.
func Distance(p Plane, v mgl32.Vec4) float32 {
	x, y, z, w := v[0], v[1], v[2], v[3]
	switch p {
	case PlaneW:
		return w - geom.MinW
	case PlaneNear:
		return w + z
	case PlaneFar:
		return w - z
	case PlaneLeft:
		return w + x
	case PlaneRight:
		return w - x
	case PlaneBottom:
		return w + y
	case PlaneTop:
		return w - y
	default:
		return 0
	}
}

// Outcode returns a bit per plane that v lies outside of.
func Outcode(v mgl32.Vec4) uint8 {
	var code uint8
	for p := range planeCount {
		if Distance(p, v) < 0 {
			code |= 1 << p
		}
	}
	return code
}

// IsOutsideFrustum reports whether v lies outside the clip volume.
func IsOutsideFrustum(v mgl32.Vec4) bool {
	return Outcode(v) != 0
}

// Result classifies a triangle against the clip volume.
type Result uint8

const (
	// Accept: all vertices inside every plane, no clipping needed.
	Accept Result = iota
	// Reject: all vertices outside the same plane, nothing is visible.
	Reject
	// Partial: the triangle crosses at least one plane.
	Partial
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	case Partial:
		return "partial"
	default:
		return "unknown"
	}
}

// Classify performs the trivial accept/reject test on a triangle.
func Classify(v0, v1, v2 mgl32.Vec4) Result {
	c0, c1, c2 := Outcode(v0), Outcode(v1), Outcode(v2)
	switch {
	case c0|c1|c2 == 0:
		return Accept
	case c0&c1&c2 != 0:
		return Reject
	default:
		return Partial
	}
}

// Clipper runs Sutherland-Hodgman polygon clipping. It keeps two scratch
// polygons between calls, so a Clipper must not be shared between goroutines.
type Clipper[T geom.Varying[T]] struct {
	a, b []geom.Vertex[T]
}

// NewClipper returns a Clipper with scratch space for typical polygons.
func NewClipper[T geom.Varying[T]]() *Clipper[T] {
	return &Clipper[T]{
		a: make([]geom.Vertex[T], 0, 9),
		b: make([]geom.Vertex[T], 0, 9),
	}
}

// ClipPolygon clips a clip-space polygon against every plane in order.
// Vertices with non-negative plane distance are kept; edges crossing strictly
// through the plane get a new vertex at t = d1/(d1-d2), interpolated
// linearly in clip space.
//
// The returned slice aliases the Clipper's scratch space and is valid until
// the next call. It may be empty or have fewer than 3 vertices.
func (c *Clipper[T]) ClipPolygon(in []geom.Vertex[T]) []geom.Vertex[T] {
	cur := append(c.a[:0], in...)
	next := c.b[:0]

	for p := range planeCount {
		if len(cur) == 0 {
			break
		}
		next = next[:0]
		prev := cur[len(cur)-1]
		dPrev := Distance(p, prev.Position)
		for _, v := range cur {
			d := Distance(p, v.Position)
			// Vertices lying on the plane are kept as-is; no intersection
			// is emitted for them.
			if d >= 0 {
				if dPrev < 0 && d > 0 {
					next = append(next, geom.Lerp(prev, v, dPrev/(dPrev-d)))
				}
				next = append(next, v)
			} else if dPrev > 0 {
				next = append(next, geom.Lerp(prev, v, dPrev/(dPrev-d)))
			}
			prev, dPrev = v, d
		}
		cur, next = next, cur
	}

	c.a, c.b = cur, next
	return cur
}

// ClipTriangle classifies a triangle and clips it when needed. The result is
// nil for rejected triangles, the input vertices for accepted ones, and a
// convex polygon otherwise.
func (c *Clipper[T]) ClipTriangle(v0, v1, v2 geom.Vertex[T]) []geom.Vertex[T] {
	switch Classify(v0.Position, v1.Position, v2.Position) {
	case Reject:
		return nil
	case Accept:
		return append(c.a[:0], v0, v1, v2)
	default:
		return c.ClipPolygon([]geom.Vertex[T]{v0, v1, v2})
	}
}

// Fan triangulates a convex polygon from vertex 0, calling fn for each
// triangle. Polygons with fewer than 3 vertices produce nothing.
func Fan[T geom.Varying[T]](poly []geom.Vertex[T], fn func(v0, v1, v2 geom.Vertex[T])) {
	for i := 2; i < len(poly); i++ {
		fn(poly[0], poly[i-1], poly[i])
	}
}
