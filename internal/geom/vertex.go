package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Space records which pipeline stage a vertex's data belongs to.
type Space uint8

const (
	// SpaceClip: Position is homogeneous clip space, Attr holds plain values
	// and Rhw is unset.
	SpaceClip Space = iota

	// SpaceScreen: Position holds (x, y) in pixels, z as [0,1] depth and w as
	// the original clip w. Attr is pre-multiplied by Rhw = 1/w so it can be
	// interpolated linearly in screen space.
	SpaceScreen
)

// String returns the space name.
func (s Space) String() string {
	switch s {
	case SpaceClip:
		return "clip"
	case SpaceScreen:
		return "screen"
	default:
		return "unknown"
	}
}

// MinW is the smallest |w| a vertex may be projected with.
// Anything closer to the eye must be clipped against the near plane first.
const MinW = 1e-5

// Varying is the set of operations the pipeline needs from per-vertex
// attributes to interpolate them.
type Varying[T any] interface {
	Add(o T) T
	Scale(s float32) T
}

// Vertex is a position plus the attributes carried alongside it.
type Vertex[T Varying[T]] struct {
	Position mgl32.Vec4
	Rhw      float32
	Space    Space
	Attr     T
}

// Lerp interpolates every component of a and b linearly at t.
// Both vertices must be in the same space. In clip space this is the
// attribute-linear interpolation used by clipping; in screen space it is
// exact because screen-space attributes are pre-multiplied by Rhw.
func Lerp[T Varying[T]](a, b Vertex[T], t float32) Vertex[T] {
	s := 1 - t
	return Vertex[T]{
		Position: a.Position.Mul(s).Add(b.Position.Mul(t)),
		Rhw:      a.Rhw*s + b.Rhw*t,
		Space:    a.Space,
		Attr:     a.Attr.Scale(s).Add(b.Attr.Scale(t)),
	}
}

// ToScreen performs the perspective divide and viewport transform of a
// clip-space vertex onto a width x height surface. It returns false when w is
// too close to zero to divide by; such vertices should have been clipped.
func (v Vertex[T]) ToScreen(width, height int) (Vertex[T], bool) {
	if v.Space == SpaceScreen {
		return v, true
	}
	w := v.Position[3]
	if math.Abs(float64(w)) < MinW {
		return v, false
	}
	rhw := 1 / w
	nx := v.Position[0] * rhw
	ny := v.Position[1] * rhw
	nz := v.Position[2] * rhw

	return Vertex[T]{
		Position: mgl32.Vec4{
			(nx + 1) * 0.5 * float32(width),
			(1 - ny) * 0.5 * float32(height),
			nz*0.5 + 0.5,
			w,
		},
		Rhw:   rhw,
		Space: SpaceScreen,
		Attr:  v.Attr.Scale(rhw),
	}, true
}
