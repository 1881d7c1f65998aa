package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// attr is a minimal Varying used by the tests.
type attr struct {
	C mgl32.Vec3
}

func (a attr) Add(o attr) attr {
	return attr{C: a.C.Add(o.C)}
}

func (a attr) Scale(s float32) attr {
	return attr{C: a.C.Mul(s)}
}

func near(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func nearVec3(a, b mgl32.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-4)
}

// sv builds a screen-space vertex with the given reciprocal w.
func sv(x, y, z, rhw float32) Vertex[attr] {
	return Vertex[attr]{Position: mgl32.Vec4{x, y, z, 1 / rhw}, Rhw: rhw, Space: SpaceScreen}
}

// =============================================================================
// Plane / Frustum Tests
// =============================================================================

func TestPlane_Distance(t *testing.T) {
	p := NewPlane(0, 2, 0, -4) // y = 2
	if got := p.Distance(mgl32.Vec3{0, 5, 0}); !near(got, 3, 1e-6) {
		t.Errorf("Distance above = %v, want 3", got)
	}
	if got := p.Distance(mgl32.Vec3{1, 0, 1}); !near(got, -2, 1e-6) {
		t.Errorf("Distance below = %v, want -2", got)
	}
	if (NewPlane(0, 0, 0, 1) != Plane{}) {
		t.Error("zero normal should give zero plane")
	}
}

func TestFrustum_FromPerspective(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := FrustumFromMatrix(proj.Mul4(view))

	tests := []struct {
		name string
		p    mgl32.Vec3
		want bool
	}{
		{"center", mgl32.Vec3{0, 0, -10}, true},
		{"behind camera", mgl32.Vec3{0, 0, 10}, false},
		{"before near", mgl32.Vec3{0, 0, -0.5}, false},
		{"beyond far", mgl32.Vec3{0, 0, -200}, false},
		{"left of fov", mgl32.Vec3{-20, 0, -10}, false},
		{"above fov", mgl32.Vec3{0, 20, -10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A zero radius sphere is a point test.
			if got := f.IntersectsSphere(tt.p, 0); got != tt.want {
				t.Errorf("IntersectsSphere(%v, 0) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if !f.IntersectsSphere(mgl32.Vec3{-11, 0, -10}, 2) {
		t.Error("sphere straddling left plane should intersect")
	}
	if f.IntersectsSphere(mgl32.Vec3{0, 0, 10}, 2) {
		t.Error("sphere behind camera should not intersect")
	}
}

func TestBackFacing(t *testing.T) {
	// Counter-clockwise seen from +Z, camera at +Z looking down -Z.
	v0 := mgl32.Vec3{0, 0, 0}
	v1 := mgl32.Vec3{1, 0, 0}
	v2 := mgl32.Vec3{0, 1, 0}
	view := mgl32.Vec3{0, 0, -1}

	if BackFacing(v0, v1, v2, view) {
		t.Error("CCW triangle facing the camera reported back-facing")
	}
	if !BackFacing(v0, v2, v1, view) {
		t.Error("CW triangle reported front-facing")
	}
}

// =============================================================================
// Rect Tests
// =============================================================================

func TestRect_Intersect(t *testing.T) {
	a := RectXYWH(0, 0, 10, 10)
	b := RectXYWH(5, 5, 10, 10)

	got := a.Intersect(b)
	if got != (Rect{5, 5, 10, 10}) {
		t.Errorf("Intersect = %+v, want {5 5 10 10}", got)
	}
	if !a.Overlaps(b) {
		t.Error("Overlaps = false, want true")
	}
	if a.Overlaps(RectXYWH(10, 0, 5, 5)) {
		t.Error("touching rects should not overlap")
	}
	if got.Dx() != 5 || got.Dy() != 5 {
		t.Errorf("size = %dx%d, want 5x5", got.Dx(), got.Dy())
	}
}

// =============================================================================
// Vertex Tests
// =============================================================================

func TestVertex_ToScreen(t *testing.T) {
	v := Vertex[attr]{
		Position: mgl32.Vec4{0, 0, 0, 2},
		Attr:     attr{C: mgl32.Vec3{2, 4, 6}},
	}
	s, ok := v.ToScreen(100, 50)
	if !ok {
		t.Fatal("ToScreen failed")
	}
	if s.Space != SpaceScreen {
		t.Errorf("Space = %v, want screen", s.Space)
	}
	want := mgl32.Vec4{50, 25, 0.5, 2}
	if !s.Position.ApproxEqual(want) {
		t.Errorf("Position = %v, want %v", s.Position, want)
	}
	if s.Rhw != 0.5 {
		t.Errorf("Rhw = %v, want 0.5", s.Rhw)
	}
	if !nearVec3(s.Attr.C, mgl32.Vec3{1, 2, 3}) {
		t.Errorf("pre-multiplied Attr = %v, want {1 2 3}", s.Attr.C)
	}
	if got := s.Attr.Scale(1 / s.Rhw).C; !nearVec3(got, mgl32.Vec3{2, 4, 6}) {
		t.Errorf("recovered Attr = %v, want {2 4 6}", got)
	}

	// NDC corners map to surface corners with y flipped.
	tl, _ := Vertex[attr]{Position: mgl32.Vec4{-1, 1, -1, 1}}.ToScreen(100, 50)
	if !tl.Position.ApproxEqual(mgl32.Vec4{0, 0, 0, 1}) {
		t.Errorf("top-left = %v", tl.Position)
	}

	if _, ok := (Vertex[attr]{Position: mgl32.Vec4{1, 1, 1, 0}}).ToScreen(10, 10); ok {
		t.Error("ToScreen with w=0 should fail")
	}
}

func TestLerp(t *testing.T) {
	a := Vertex[attr]{Position: mgl32.Vec4{0, 0, 0, 1}, Attr: attr{C: mgl32.Vec3{0, 0, 0}}}
	b := Vertex[attr]{Position: mgl32.Vec4{4, 8, 0, 1}, Attr: attr{C: mgl32.Vec3{1, 1, 1}}}
	m := Lerp(a, b, 0.25)
	if !m.Position.ApproxEqual(mgl32.Vec4{1, 2, 0, 1}) {
		t.Errorf("Position = %v", m.Position)
	}
	if !nearVec3(m.Attr.C, mgl32.Vec3{0.25, 0.25, 0.25}) {
		t.Errorf("Attr = %v", m.Attr.C)
	}
}

// =============================================================================
// Triangle Tests
// =============================================================================

func TestSignedArea(t *testing.T) {
	got := SignedArea(mgl32.Vec2{0, 0}, mgl32.Vec2{0, 2}, mgl32.Vec2{2, 0})
	if got != 4 {
		t.Errorf("SignedArea = %v, want 4", got)
	}
	if got := SignedArea(mgl32.Vec2{0, 0}, mgl32.Vec2{2, 0}, mgl32.Vec2{0, 2}); got != -4 {
		t.Errorf("reversed SignedArea = %v, want -4", got)
	}
	if got := SignedArea(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, mgl32.Vec2{2, 2}); got != 0 {
		t.Errorf("collinear SignedArea = %v, want 0", got)
	}
}

func TestTriangle_Degenerate(t *testing.T) {
	tri := NewTriangle(sv(0, 0, 0, 1), sv(1, 1, 0, 1), sv(2, 2, 0, 1))
	if !tri.Degenerate() {
		t.Error("collinear triangle not degenerate")
	}
	tri = NewTriangle(sv(0, 0, 0, 1), sv(0, 2, 0, 1), sv(2, 0, 0, 1))
	if tri.Degenerate() {
		t.Error("regular triangle degenerate")
	}
}

func TestTriangle_Bounds(t *testing.T) {
	tri := NewTriangle(sv(10.5, 10.2, 0, 1), sv(30.1, 12, 0, 1), sv(20, 40.7, 0, 1))

	tests := []struct {
		name    string
		padding int
		w, h    int
		want    Rect
	}{
		{"no padding", 0, 100, 100, Rect{10, 10, 31, 41}},
		{"padding", 1, 100, 100, Rect{9, 9, 32, 42}},
		{"clamped", 2, 25, 30, Rect{8, 8, 25, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tri.Bounds(tt.padding, tt.w, tt.h); got != tt.want {
				t.Errorf("Bounds = %+v, want %+v", got, tt.want)
			}
		})
	}

	off := NewTriangle(sv(-30, -30, 0, 1), sv(-10, -30, 0, 1), sv(-20, -10, 0, 1))
	if !off.Bounds(1, 100, 100).Empty() {
		t.Error("off-screen triangle should have empty bounds")
	}
}

func TestTriangle_BarycentricAtVertices(t *testing.T) {
	tri := NewTriangle(sv(0, 0, 0, 1), sv(0, 10, 0, 1), sv(10, 0, 0, 1))

	wants := []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, want := range wants {
		p := tri.V[i].Position
		w, _ := tri.Barycentric(p[0], p[1])
		if !nearVec3(w, want) {
			t.Errorf("weights at v%d = %v, want %v", i, w, want)
		}
	}
}

func TestTriangle_BarycentricWinding(t *testing.T) {
	a, b, c := sv(0, 0, 0, 1), sv(0, 10, 0, 1), sv(10, 0, 0, 1)
	ccw := NewTriangle(a, b, c)
	cw := NewTriangle(a, c, b)

	if ccw.Flip {
		t.Error("positive-area triangle flagged Flip")
	}
	if !cw.Flip {
		t.Error("negative-area triangle not flagged Flip")
	}

	for _, p := range [][2]float32{{2.5, 2.5}, {1, 7}, {8, 1}, {6, 6}, {-1, 2}} {
		_, in1 := ccw.Barycentric(p[0], p[1])
		_, in2 := cw.Barycentric(p[0], p[1])
		if in1 != in2 {
			t.Errorf("coverage at %v differs by winding: %v vs %v", p, in1, in2)
		}
	}

	if _, in := ccw.Barycentric(2.5, 2.5); !in {
		t.Error("interior point not covered")
	}
	if _, in := ccw.Barycentric(6, 6); in {
		t.Error("exterior point covered")
	}
}

func TestTriangle_SharedEdgeCoveredOnce(t *testing.T) {
	// Two triangles forming a square split along the diagonal. Every pixel
	// center inside the square must be covered by exactly one of them.
	a, b, c, d := sv(0, 0, 0, 1), sv(0, 8, 0, 1), sv(8, 8, 0, 1), sv(8, 0, 0, 1)
	t1 := NewTriangle(a, b, c)
	t2 := NewTriangle(a, c, d)

	for y := range 8 {
		for x := range 8 {
			px, py := float32(x)+0.5, float32(y)+0.5
			_, in1 := t1.Barycentric(px, py)
			_, in2 := t2.Barycentric(px, py)
			if in1 == in2 {
				t.Errorf("pixel (%d,%d) covered %v/%v, want exactly once", x, y, in1, in2)
			}
		}
	}

	// Integer diagonal points lie exactly on the shared edge.
	for i := range 8 {
		_, in1 := t1.Barycentric(float32(i), float32(i))
		_, in2 := t2.Barycentric(float32(i), float32(i))
		if in1 && in2 {
			t.Errorf("edge point (%d,%d) covered twice", i, i)
		}
	}
}

func TestTriangle_InterpolateExactAtVertices(t *testing.T) {
	v0 := Vertex[attr]{Position: mgl32.Vec4{0, 0, 0.5, 1}, Attr: attr{C: mgl32.Vec3{1, 0, 0}}}
	v1 := Vertex[attr]{Position: mgl32.Vec4{0, 1, 0.5, 2}, Attr: attr{C: mgl32.Vec3{0, 1, 0}}}
	v2 := Vertex[attr]{Position: mgl32.Vec4{1, 0, 0.5, 4}, Attr: attr{C: mgl32.Vec3{0, 0, 1}}}

	var s [3]Vertex[attr]
	for i, v := range []Vertex[attr]{v0, v1, v2} {
		v.Position = v.Position.Mul(v.Position[3]) // keep NDC in range
		v.Position[3] = []float32{1, 2, 4}[i]
		scr, ok := v.ToScreen(64, 64)
		if !ok {
			t.Fatal("ToScreen failed")
		}
		s[i] = scr
	}
	tri := NewTriangle(s[0], s[1], s[2])

	wants := []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	orig := []Vertex[attr]{v0, v1, v2}
	for i, w := range wants {
		pos, rhw, a := tri.Interpolate(w)
		if !nearVec3(a.C, orig[i].Attr.C) {
			t.Errorf("attr at v%d = %v, want %v", i, a.C, orig[i].Attr.C)
		}
		if !near(rhw, s[i].Rhw, 1e-6) {
			t.Errorf("rhw at v%d = %v, want %v", i, rhw, s[i].Rhw)
		}
		if !near(pos[3], s[i].Position[3], 1e-4) {
			t.Errorf("w at v%d = %v, want %v", i, pos[3], s[i].Position[3])
		}
	}
}

func TestTriangle_InterpolatePerspectiveCorrect(t *testing.T) {
	// Midpoint in screen space between a near (w=1) and far (w=3) vertex is
	// not the attribute midpoint: 0*1 + 1*(1/3) over 1 + 1/3 = 0.25.
	a := sv(0, 0, 0, 1)
	b := sv(10, 0, 0, 1.0/3)
	c := sv(0, 10, 0, 1)
	b.Attr = attr{C: mgl32.Vec3{1.0 / 3, 0, 0}} // pre-multiplied 1*rhw
	tri := NewTriangle(a, b, c)

	_, _, got := tri.Interpolate(mgl32.Vec3{0.5, 0.5, 0})
	if !near(got.C[0], 0.25, 1e-5) {
		t.Errorf("perspective-correct attr = %v, want 0.25", got.C[0])
	}
}

func TestTriangle_HorizontallySplit(t *testing.T) {
	tri := NewTriangle(sv(0, 0, 0, 1), sv(10, 5, 0, 1), sv(2, 10, 0, 1))
	parts := tri.HorizontallySplit()
	if len(parts) != 2 {
		t.Fatalf("len = %d, want 2", len(parts))
	}

	flatBottom, flatTop := parts[0], parts[1]
	if flatBottom.V[1].Position[1] != flatBottom.V[2].Position[1] {
		t.Errorf("first part not flat-bottom: %v", flatBottom.V)
	}
	if flatTop.V[0].Position[1] != flatTop.V[1].Position[1] {
		t.Errorf("second part not flat-top: %v", flatTop.V)
	}

	split := flatBottom.V[2].Position
	// Long edge (0,0)->(2,10) at y=5 is x=1.
	if !near(split[0], 1, 1e-5) || split[1] != 5 {
		t.Errorf("split vertex = %v, want (1,5)", split)
	}

	area := math.Abs(float64(flatBottom.Area())) + math.Abs(float64(flatTop.Area()))
	if !near(float32(area), float32(math.Abs(float64(tri.Area()))), 1e-3) {
		t.Errorf("split areas sum = %v, want %v", area, tri.Area())
	}

	flat := NewTriangle(sv(0, 0, 0, 1), sv(10, 0, 0, 1), sv(5, 10, 0, 1))
	if got := len(flat.HorizontallySplit()); got != 1 {
		t.Errorf("flat-top triangle split into %d parts, want 1", got)
	}
}
