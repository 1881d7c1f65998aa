package soft3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/soft3d/internal/geom"
)

// drawTask is one binned screen triangle. The same task is queued on every
// tile it overlaps and is never modified after binning.
type drawTask struct {
	draw   *drawState
	tri    geom.Triangle[V2F]
	bounds geom.Rect

	// spans holds the flat-top/flat-bottom halves for RasterScanline.
	spans []geom.Triangle[V2F]
}

// rasterize scan-converts task inside one tile. It returns the number of
// fragments that reached shading and the number that were written.
func (p *Pipeline) rasterize(tile geom.Rect, task *drawTask) (frags, written int64) {
	r := task.bounds.Intersect(tile)
	if r.Empty() {
		return 0, 0
	}

	if task.spans != nil {
		return p.rasterizeSpans(r, task)
	}

	for y := r.MinY; y < r.MaxY; y++ {
		for x := r.MinX; x < r.MaxX; x++ {
			f, w := p.shade(task, x, y)
			if f {
				frags++
			}
			if w {
				written++
			}
		}
	}
	return frags, written
}

// rasterizeSpans walks one horizontal span per pixel row of each half of a
// split triangle. Rows are assigned to halves by half-open y ranges so no
// pixel is visited twice; the final coverage decision is the same
// barycentric test as the bounding-box path.
func (p *Pipeline) rasterizeSpans(r geom.Rect, task *drawTask) (frags, written int64) {
	last := len(task.spans) - 1
	for si := range task.spans {
		sub := &task.spans[si]
		top := min(sub.V[0].Position[1], sub.V[1].Position[1], sub.V[2].Position[1])
		bot := max(sub.V[0].Position[1], sub.V[1].Position[1], sub.V[2].Position[1])

		y0 := int(math.Ceil(float64(top - 0.5)))
		var y1 int // inclusive
		if si == last {
			y1 = int(math.Floor(float64(bot - 0.5)))
		} else {
			y1 = int(math.Ceil(float64(bot-0.5))) - 1
		}
		y0 = max(y0, r.MinY)
		y1 = min(y1, r.MaxY-1)

		for y := y0; y <= y1; y++ {
			xl, xr, ok := spanAt(sub, float32(y)+0.5)
			if !ok {
				continue
			}
			x0 := max(int(math.Floor(float64(xl-0.5))), r.MinX)
			x1 := min(int(math.Ceil(float64(xr-0.5))), r.MaxX-1)
			for x := x0; x <= x1; x++ {
				f, w := p.shade(task, x, y)
				if f {
					frags++
				}
				if w {
					written++
				}
			}
		}
	}
	return frags, written
}

// spanAt returns the x extent of triangle t along the horizontal line y.
func spanAt(t *geom.Triangle[V2F], y float32) (xl, xr float32, ok bool) {
	xl, xr = float32(math.Inf(1)), float32(math.Inf(-1))
	for i := range 3 {
		a, b := t.V[i].Position, t.V[(i+1)%3].Position
		ay, by := a[1], b[1]
		if y < min(ay, by) || y > max(ay, by) {
			continue
		}
		var x float32
		if ay == by {
			xl, xr = min(xl, a[0], b[0]), max(xr, a[0], b[0])
			ok = true
			continue
		}
		x = a[0] + (y-ay)*(b[0]-a[0])/(by-ay)
		xl, xr = min(xl, x), max(xr, x)
		ok = true
	}
	return xl, xr, ok
}

// shade runs coverage, the fragment stage and the per-sample test chain for
// pixel (x, y):
//
//	scissor -> depth -> stencil -> depth write -> blend -> color mask
//
// Scissor is applied at binning time by shrinking the task bounds.
// frag reports that the pixel was covered and reached shading; wrote that
// it passed every test.
func (p *Pipeline) shade(t *drawTask, x, y int) (frag, wrote bool) {
	tri := &t.tri
	w, inside := tri.Barycentric(float32(x)+0.5, float32(y)+0.5)
	if !inside {
		return false, false
	}

	d := t.draw
	st := &d.state
	idx := y*p.width + x
	pos, _, attr := tri.Interpolate(w)
	z := mgl32.Clamp(pos[2], 0, 1)

	depth := p.depth.Data()
	depthPass := st.DepthFunc.Test(z, depth[idx])
	if !depthPass && !st.Stencil.Enabled {
		// Nothing would be written; skip the fragment stage.
		return false, false
	}
	frag = true

	var color mgl32.Vec4
	if !p.opts.depthOnly || d.alphaClip {
		attr.Position = mgl32.Vec4{float32(x) + 0.5, float32(y) + 0.5, z, pos[3]}
		var keep bool
		color, keep = d.shader.Fragment(d.uniforms, attr)
		if !keep {
			return frag, false
		}
	}

	if s := &st.Stencil; s.Enabled {
		stencil := p.stencil.Data()
		cur := stencil[idx]
		switch {
		case !s.Test(cur):
			stencil[idx] = s.Fail.Apply(cur, s.Ref, s.WriteMask)
			return frag, false
		case !depthPass:
			stencil[idx] = s.ZFail.Apply(cur, s.Ref, s.WriteMask)
			return frag, false
		default:
			stencil[idx] = s.Pass.Apply(cur, s.Ref, s.WriteMask)
		}
	}

	if st.DepthWrite {
		depth[idx] = z
	}
	if p.opts.depthOnly || st.ColorMask == ColorMaskNone {
		return frag, true
	}

	cells := p.color.Data()
	f := p.opts.format
	if st.Transparent || st.ColorMask != ColorMaskAll {
		dst := f.Unpack(cells[idx])
		if st.Transparent {
			color = d.equation.Apply(color, dst)
		}
		for i := range 4 {
			if !st.ColorMask.Has(i) {
				color[i] = dst[i]
			}
		}
	}
	cells[idx] = f.Pack(color)
	return frag, true
}
