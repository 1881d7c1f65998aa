package soft3d

import (
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/soft3d/internal/blend"
	"github.com/gogpu/soft3d/internal/buffer"
	"github.com/gogpu/soft3d/internal/clip"
	"github.com/gogpu/soft3d/internal/geom"
	"github.com/gogpu/soft3d/internal/parallel"
)

// FrameStats counts the work done during one frame.
type FrameStats struct {
	Submitted  int // triangles passed to Submit, SubmitSorted or SubmitMesh
	Culled     int // rejected by frustum or back-face tests
	Clipped    int // fully removed by clipping
	Degenerate int // dropped for zero screen area or unprojectable w
	Triangles  int // screen triangles binned into tiles
	TileTasks  int // triangle-tile pairs queued
	Sorted     int // triangles ordered by SubmitSorted
	Fragments  int64
	Written    int64
	Flushes    int // mid-frame drains caused by full tile queues
	Duration   time.Duration
}

// Pipeline is a tile-parallel triangle rasterizer with color, depth and
// stencil planes.
//
// A Pipeline is driven from one goroutine: BeginFrame, Submit*, EndFrame.
// Its methods are not safe for concurrent use.
type Pipeline struct {
	opts   options
	width  int
	height int

	color   *buffer.Buffer[uint32]
	depth   *buffer.Buffer[float32]
	stencil *buffer.Buffer[uint8]

	tiles   *parallel.TileManager[*drawTask]
	clipper *clip.Clipper[V2F]

	ctx      RenderContext
	inFrame  bool
	start    time.Time
	stats    FrameStats
	frags    atomic.Int64
	written  atomic.Int64
	blended  bool
	warned   bool
	last     *drawState
	deferred []sortedTriangle
	work     []tileWork // per-tile counters, indexed by Tile.Index
}

// tileWork accumulates one tile's counts during a drain.
type tileWork struct {
	frags, written int64
}

// New creates a pipeline for a width x height target.
func New(width, height int, opts ...Option) (*Pipeline, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.resources == nil {
		o.resources = NewResources()
	}

	p := &Pipeline{
		opts:    o,
		clipper: clip.NewClipper[V2F](),
	}
	if err := p.allocate(width, height); err != nil {
		return nil, err
	}
	p.tiles = parallel.NewTileManager[*drawTask](width, height, o.workers, o.queueCap, o.logger)
	p.log().Debug("soft3d: pipeline created",
		"width", width, "height", height,
		"workers", p.tiles.Workers(), "mode", o.mode, "depthOnly", o.depthOnly)
	return p, nil
}

func (p *Pipeline) log() *slog.Logger {
	if p.opts.logger != nil {
		return p.opts.logger
	}
	return Logger()
}

func (p *Pipeline) allocate(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	color, err := buffer.New[uint32](width, height)
	if err != nil {
		return err
	}
	depth, err := buffer.New[float32](width, height)
	if err != nil {
		return err
	}
	stencil, err := buffer.New[uint8](width, height)
	if err != nil {
		return err
	}
	depth.Clear(1)

	p.color, p.depth, p.stencil = color, depth, stencil
	p.width, p.height = width, height
	return nil
}

// Close stops the tile workers. The pipeline must not be used afterwards.
func (p *Pipeline) Close() {
	p.tiles.Close()
}

// Width returns the target width in pixels.
func (p *Pipeline) Width() int { return p.width }

// Height returns the target height in pixels.
func (p *Pipeline) Height() int { return p.height }

// Resources returns the resource arena shaders resolve handles against.
func (p *Pipeline) Resources() *Resources { return p.opts.resources }

// Resize reallocates the planes and rebuilds the tile grid. It is only valid
// between frames; all plane contents are lost.
func (p *Pipeline) Resize(width, height int) error {
	if p.inFrame {
		return ErrFrameInProgress
	}
	if width == p.width && height == p.height {
		return nil
	}
	if err := p.allocate(width, height); err != nil {
		return err
	}
	p.tiles.Resize(width, height)
	p.log().Debug("soft3d: resized", "width", width, "height", height)
	return nil
}

// BeginFrame starts a frame: ctx is copied for the frame's duration and
// the planes are cleared. A nil ctx selects DefaultRenderContext.
func (p *Pipeline) BeginFrame(ctx *RenderContext, clear ClearValues) error {
	if p.inFrame {
		return ErrFrameInProgress
	}
	if ctx == nil {
		ctx = DefaultRenderContext()
	}
	p.ctx = *ctx
	p.ctx.normalized()
	p.ctx.Width, p.ctx.Height = p.width, p.height

	p.inFrame = true
	p.start = time.Now()
	p.stats = FrameStats{}
	p.frags.Store(0)
	p.written.Store(0)
	p.blended, p.warned = false, false
	p.last = nil
	p.deferred = p.deferred[:0]

	p.clear(clear)
	return nil
}

// clear fills every plane, one tile per worker.
func (p *Pipeline) clear(c ClearValues) {
	px := p.opts.format.Pack(c.Color)
	depth := mgl32.Clamp(c.Depth, 0, 1)
	p.tiles.ForAllTiles(func(t *parallel.Tile[*drawTask]) {
		x, y, w, h := t.Bounds()
		if !p.opts.depthOnly {
			p.color.ClearRect(x, y, w, h, px)
		}
		p.depth.ClearRect(x, y, w, h, depth)
		p.stencil.ClearRect(x, y, w, h, c.Stencil)
	})
}

// Submit runs the vertex stage on one triangle, culls and clips it, and
// bins the surviving pieces into tiles. Rasterization happens at EndFrame,
// or earlier if a tile queue fills up.
//
// Blended triangles are composited in submission order; submit them
// back-to-front after all opaque geometry, or use SubmitSorted.
func (p *Pipeline) Submit(d *Draw, v0, v1, v2 A2V) error {
	if err := p.checkDraw(d); err != nil {
		return err
	}
	st := p.stateFor(d)
	p.noteOrder(st)
	p.submit(st, v0, v1, v2)
	return nil
}

func (p *Pipeline) checkDraw(d *Draw) error {
	if !p.inFrame {
		return ErrNoFrame
	}
	if d == nil || d.Shader == nil {
		p.log().Warn("soft3d: draw dropped", "err", ErrNilDraw)
		return ErrNilDraw
	}
	return nil
}

// SubmitMesh submits every triangle of m. The mesh is skipped entirely when
// its bounding sphere is outside the view frustum, and single-sided
// triangles facing away from the camera are dropped before vertex shading.
func (p *Pipeline) SubmitMesh(d *Draw, m *Mesh) error {
	if err := p.checkDraw(d); err != nil {
		return err
	}
	if m == nil {
		return nil
	}
	st := p.stateFor(d)
	n := m.TriangleCount()

	frustum := geom.FrustumFromMatrix(st.uniforms.MVP)
	if !frustum.IntersectsSphere(m.Center, m.Radius) {
		p.stats.Submitted += n
		p.stats.Culled += n
		return nil
	}

	p.noteOrder(st)
	cam := &p.ctx.Camera
	eye, forward := cam.Position(), cam.Forward()
	for i := range n {
		v0, v1, v2 := m.Triangle(i)
		if !st.state.DoubleSided {
			w0 := st.uniforms.ObjectToWorld(v0.Position)
			w1 := st.uniforms.ObjectToWorld(v1.Position)
			w2 := st.uniforms.ObjectToWorld(v2.Position)
			view := forward
			if !cam.Orthographic {
				view = w0.Sub(eye)
			}
			if geom.BackFacing(w0, w1, w2, view) {
				p.stats.Submitted++
				p.stats.Culled++
				continue
			}
		}
		p.submit(st, v0, v1, v2)
	}
	return nil
}

// SubmitSorted defers a triangle until EndFrame, where all deferred
// triangles are submitted back-to-front by the view depth of their
// centroid. Use it for blended geometry whose order the caller cannot
// guarantee.
func (p *Pipeline) SubmitSorted(d *Draw, v0, v1, v2 A2V) error {
	if err := p.checkDraw(d); err != nil {
		return err
	}
	st := p.stateFor(d)
	centroid := v0.Position.Add(v1.Position).Add(v2.Position).Mul(1.0 / 3)
	view := p.ctx.Camera.View.Mul4(st.uniforms.Model).Mul4x1(centroid.Vec4(1))
	p.deferred = append(p.deferred, sortedTriangle{
		state: st,
		v:     [3]A2V{v0, v1, v2},
		depth: view[2],
	})
	return nil
}

type sortedTriangle struct {
	state *drawState
	v     [3]A2V
	depth float32
}

// EndFrame submits deferred triangles, drains every tile in parallel and
// closes the frame.
func (p *Pipeline) EndFrame() (FrameStats, error) {
	if !p.inFrame {
		return FrameStats{}, ErrNoFrame
	}

	if len(p.deferred) > 0 {
		// Camera looks down -Z: the most negative view z is farthest.
		sort.SliceStable(p.deferred, func(i, j int) bool {
			return p.deferred[i].depth < p.deferred[j].depth
		})
		for i := range p.deferred {
			s := &p.deferred[i]
			p.submit(s.state, s.v[0], s.v[1], s.v[2])
		}
		p.stats.Sorted = len(p.deferred)
		clear(p.deferred)
		p.deferred = p.deferred[:0]
	}

	p.drain()
	p.inFrame = false
	p.last = nil

	p.stats.Fragments = p.frags.Load()
	p.stats.Written = p.written.Load()
	p.stats.Duration = time.Since(p.start)
	pushed, drained := p.tiles.Stats()
	p.log().Debug("soft3d: frame done",
		"submitted", p.stats.Submitted, "culled", p.stats.Culled,
		"clipped", p.stats.Clipped, "triangles", p.stats.Triangles,
		"tasks", p.stats.TileTasks, "fragments", p.stats.Fragments,
		"flushes", p.stats.Flushes, "duration", p.stats.Duration,
		"lifetimeTasks", drained, "undrained", pushed-drained)
	return p.stats, nil
}

// InFrame reports whether BeginFrame has been called without EndFrame.
func (p *Pipeline) InFrame() bool { return p.inFrame }

// drawState is the immutable per-draw data shared by all tile tasks of the
// triangles submitted with one Draw.
type drawState struct {
	shader    Shader
	material  *Material
	state     RenderState
	equation  blend.Equation
	uniforms  *Uniforms
	scissor   geom.Rect
	scissorOn bool
	// alphaClip runs the fragment stage even on depth-only targets.
	alphaClip bool
}

// stateFor returns the draw state for d, reusing the previous one while the
// same draw, transform and render state are submitted repeatedly.
func (p *Pipeline) stateFor(d *Draw) *drawState {
	m := d.material()
	model := d.model()
	if s := p.last; s != nil && s.shader == d.Shader && s.material == m &&
		s.uniforms.Model == model && s.state == m.State {
		return s
	}

	s := &drawState{
		shader:   d.Shader,
		material: m,
		state:    m.State,
		equation: m.State.equation(),
		uniforms: newUniforms(&p.ctx, model, m, p.opts.resources),
	}
	_, s.alphaClip = m.Float(PropAlphaClip)
	if r := m.State.Scissor; !r.Empty() {
		s.scissorOn = true
		s.scissor = geom.Rect{MinX: r.Min.X, MinY: r.Min.Y, MaxX: r.Max.X, MaxY: r.Max.Y}
	}
	p.last = s
	return s
}

func (p *Pipeline) noteOrder(s *drawState) {
	if s.state.Transparent {
		p.blended = true
		return
	}
	if p.blended && !p.warned {
		p.warned = true
		p.log().Warn("soft3d: opaque draw submitted after blended geometry; blending may be wrong",
			"material", s.material.Name)
	}
}

// submit is the single-threaded front end: vertex stage, clip, project, bin.
func (p *Pipeline) submit(st *drawState, a0, a1, a2 A2V) {
	p.stats.Submitted++

	u := st.uniforms
	o0 := st.shader.Vertex(u, a0)
	o1 := st.shader.Vertex(u, a1)
	o2 := st.shader.Vertex(u, a2)

	poly := p.clipper.ClipTriangle(clipVertex(o0), clipVertex(o1), clipVertex(o2))
	if poly == nil {
		p.stats.Culled++
		return
	}
	if len(poly) < 3 {
		p.stats.Clipped++
		return
	}

	clip.Fan(poly, func(c0, c1, c2 geom.Vertex[V2F]) {
		s0, ok0 := c0.ToScreen(p.width, p.height)
		s1, ok1 := c1.ToScreen(p.width, p.height)
		s2, ok2 := c2.ToScreen(p.width, p.height)
		if !ok0 || !ok1 || !ok2 {
			p.stats.Degenerate++
			return
		}
		tri := geom.NewTriangle(s0, s1, s2)
		if tri.Degenerate() {
			p.stats.Degenerate++
			return
		}
		if tri.Flip && !st.state.DoubleSided {
			tri.Culled = true
			p.stats.Culled++
			return
		}
		p.bin(st, tri)
	})
}

func clipVertex(o V2F) geom.Vertex[V2F] {
	return geom.Vertex[V2F]{Position: o.Position, Space: geom.SpaceClip, Attr: o}
}

// bin queues a screen triangle on every tile its padded bounds overlap,
// draining all tiles first when one of them is full.
func (p *Pipeline) bin(st *drawState, tri geom.Triangle[V2F]) {
	bounds := tri.Bounds(p.opts.padding, p.width, p.height)
	if st.scissorOn {
		bounds = bounds.Intersect(st.scissor)
	}
	if bounds.Empty() {
		p.stats.Clipped++
		return
	}

	task := &drawTask{draw: st, tri: tri, bounds: bounds}
	if p.opts.mode == RasterScanline {
		task.spans = tri.HorizontallySplit()
	}

	if !p.tiles.CanAccept(bounds) {
		p.stats.Flushes++
		p.drain()
	}
	p.stats.Triangles++
	p.stats.TileTasks += p.tiles.Push(bounds, task)
}

// drain rasterizes every queued task; the frame's only parallel region.
// Each tile is drained by one goroutine, so its counters need no locking.
func (p *Pipeline) drain() {
	if n := p.tiles.Grid().TileCount(); len(p.work) != n {
		p.work = make([]tileWork, n)
	}
	p.tiles.DrainAll(func(t *parallel.Tile[*drawTask], task *drawTask) {
		f, w := p.rasterize(t.Rect, task)
		p.work[t.Index].frags += f
		p.work[t.Index].written += w
	})
	var frags, written int64
	for i := range p.work {
		frags += p.work[i].frags
		written += p.work[i].written
	}
	clear(p.work)
	p.frags.Add(frags)
	p.written.Add(written)
}
