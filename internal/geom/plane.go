// Package geom provides the geometric primitives of the rasterization pipeline:
// planes and view frustums, integer screen rectangles, attribute-carrying
// vertices and screen-space triangles.
//
// Conventions follow mgl32 (OpenGL): right-handed world space, the camera
// looks down -Z, NDC z is in [-1, 1]. Screen space has its origin at the
// top-left corner with y growing downwards, and depth is remapped to [0, 1].
package geom

import "github.com/go-gl/mathgl/mgl32"

// Plane is the set of points p with dot(Normal, p) + D == 0.
// Normal is unit length for planes built by NewPlane.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// NewPlane builds a normalized plane from the equation ax + by + cz + d = 0.
// A zero normal yields the zero plane.
func NewPlane(a, b, c, d float32) Plane {
	n := mgl32.Vec3{a, b, c}
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: d / l}
}

// Distance returns the signed distance from p to the plane.
// Positive values are on the side the normal points to.
func (p Plane) Distance(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum plane indices.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Frustum is six inward-facing planes bounding the visible volume.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts the frustum of a combined view-projection (or
// model-view-projection) matrix. The planes are expressed in the space the
// matrix maps from.
func FrustumFromMatrix(m mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	mk := func(v mgl32.Vec4) Plane {
		return NewPlane(v[0], v[1], v[2], v[3])
	}

	var f Frustum
	f.Planes[PlaneLeft] = mk(r3.Add(r0))
	f.Planes[PlaneRight] = mk(r3.Sub(r0))
	f.Planes[PlaneBottom] = mk(r3.Add(r1))
	f.Planes[PlaneTop] = mk(r3.Sub(r1))
	f.Planes[PlaneNear] = mk(r3.Add(r2))
	f.Planes[PlaneFar] = mk(r3.Sub(r2))
	return f
}

// IntersectsSphere reports whether a sphere is at least partially inside.
// It is conservative: spheres near frustum corners may report true.
func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for i := range f.Planes {
		if f.Planes[i].Distance(center) < -radius {
			return false
		}
	}
	return true
}

// BackFacing reports whether the world-space triangle faces away from a
// viewer looking along viewDir (camera to triangle). Counter-clockwise
// triangles seen from the front have a normal opposing viewDir, so a
// negative dot product is front-facing and anything else is back-facing.
func BackFacing(v0, v1, v2, viewDir mgl32.Vec3) bool {
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	return n.Dot(viewDir) >= 0
}
