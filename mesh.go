package soft3d

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list in object space.
//
// Triangles wind counter-clockwise when seen from their front side.
type Mesh struct {
	Vertices []A2V
	Indices  []uint32

	// Center and Radius bound every vertex; used for frustum culling.
	Center mgl32.Vec3
	Radius float32
}

// NewMesh validates the indices and computes the bounding sphere.
func NewMesh(vertices []A2V, indices []uint32) (*Mesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrInvalidMesh, len(indices))
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("%w: index %d out of %d vertices", ErrInvalidMesh, i, len(vertices))
		}
	}
	m := &Mesh{Vertices: vertices, Indices: indices}
	m.computeBounds()
	return m, nil
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertices of triangle i.
func (m *Mesh) Triangle(i int) (v0, v1, v2 A2V) {
	j := i * 3
	return m.Vertices[m.Indices[j]], m.Vertices[m.Indices[j+1]], m.Vertices[m.Indices[j+2]]
}

func (m *Mesh) computeBounds() {
	if len(m.Vertices) == 0 {
		m.Center, m.Radius = mgl32.Vec3{}, 0
		return
	}
	lo, hi := m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for k := range 3 {
			lo[k] = min(lo[k], v.Position[k])
			hi[k] = max(hi[k], v.Position[k])
		}
	}
	m.Center = lo.Add(hi).Mul(0.5)
	var r float32
	for _, v := range m.Vertices {
		r = max(r, v.Position.Sub(m.Center).Len())
	}
	m.Radius = r
}

// ComputeTangents derives per-vertex tangents from positions and UVs.
// Tangent.w is the sign that makes cross(Normal, Tangent.xyz)*w point along
// increasing v.
func (m *Mesh) ComputeTangents() {
	tan := make([]mgl32.Vec3, len(m.Vertices))
	bit := make([]mgl32.Vec3, len(m.Vertices))

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		a, b, c := &m.Vertices[i0], &m.Vertices[i1], &m.Vertices[i2]

		e1, e2 := b.Position.Sub(a.Position), c.Position.Sub(a.Position)
		d1, d2 := b.UV.Sub(a.UV), c.UV.Sub(a.UV)
		det := d1[0]*d2[1] - d2[0]*d1[1]
		if det == 0 {
			continue
		}
		r := 1 / det
		t := e1.Mul(d2[1]).Sub(e2.Mul(d1[1])).Mul(r)
		s := e2.Mul(d1[0]).Sub(e1.Mul(d2[0])).Mul(r)
		for _, k := range [3]uint32{i0, i1, i2} {
			tan[k] = tan[k].Add(t)
			bit[k] = bit[k].Add(s)
		}
	}

	for i := range m.Vertices {
		v := &m.Vertices[i]
		n := v.Normal
		t := normalize(tan[i].Sub(n.Mul(n.Dot(tan[i]))))
		w := float32(1)
		if n.Cross(t).Dot(bit[i]) < 0 {
			w = -1
		}
		v.Tangent = t.Vec4(w)
	}
}

// NewQuadMesh returns a size x size square in the XY plane facing +Z.
func NewQuadMesh(size float32) *Mesh {
	h := size / 2
	n := mgl32.Vec3{0, 0, 1}
	white := mgl32.Vec4{1, 1, 1, 1}
	vs := []A2V{
		{Position: mgl32.Vec3{-h, -h, 0}, Normal: n, UV: mgl32.Vec2{0, 1}, Color: white},
		{Position: mgl32.Vec3{h, -h, 0}, Normal: n, UV: mgl32.Vec2{1, 1}, Color: white},
		{Position: mgl32.Vec3{h, h, 0}, Normal: n, UV: mgl32.Vec2{1, 0}, Color: white},
		{Position: mgl32.Vec3{-h, h, 0}, Normal: n, UV: mgl32.Vec2{0, 0}, Color: white},
	}
	m, _ := NewMesh(vs, []uint32{0, 1, 2, 0, 2, 3})
	m.ComputeTangents()
	return m
}

// cubeFaces lists each face normal with its u axis and v-up axis;
// cross(u, up) equals the normal so faces wind counter-clockwise outside.
var cubeFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// NewCubeMesh returns an axis-aligned cube with edge length size centered
// at the origin. Each face has its own vertices and a full [0,1] UV square.
func NewCubeMesh(size float32) *Mesh {
	h := size / 2
	white := mgl32.Vec4{1, 1, 1, 1}
	vs := make([]A2V, 0, 24)
	idx := make([]uint32, 0, 36)

	for _, f := range cubeFaces {
		n, r, up := f[0], f[1], f[2]
		base := uint32(len(vs))
		for _, uv := range [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}} {
			p := n.Mul(h).Add(r.Mul((2*uv[0] - 1) * h)).Add(up.Mul((1 - 2*uv[1]) * h))
			vs = append(vs, A2V{Position: p, Normal: n, UV: uv, Color: white})
		}
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}
	m, _ := NewMesh(vs, idx)
	m.ComputeTangents()
	return m
}

// NewSphereMesh returns a UV sphere. rings and segments are clamped to at
// least 2 and 3.
func NewSphereMesh(radius float32, rings, segments int) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)

	vs := make([]A2V, 0, (rings+1)*(segments+1))
	for i := 0; i <= rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		st, ct := math.Sincos(theta)
		for j := 0; j <= segments; j++ {
			phi := 2 * math.Pi * float64(j) / float64(segments)
			sp, cp := math.Sincos(phi)
			n := mgl32.Vec3{float32(st * sp), float32(ct), float32(st * cp)}
			vs = append(vs, A2V{
				Position: n.Mul(radius),
				Normal:   n,
				UV:       mgl32.Vec2{float32(j) / float32(segments), float32(i) / float32(rings)},
				Color:    mgl32.Vec4{1, 1, 1, 1},
			})
		}
	}

	stride := uint32(segments + 1)
	idx := make([]uint32, 0, rings*segments*6)
	for i := range uint32(rings) {
		for j := range uint32(segments) {
			tl := i*stride + j
			tr := tl + 1
			bl := tl + stride
			br := bl + 1
			idx = append(idx, bl, br, tr, bl, tr, tl)
		}
	}
	m, _ := NewMesh(vs, idx)
	m.ComputeTangents()
	return m
}
