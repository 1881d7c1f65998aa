// Package soft3d is a CPU 3D rendering pipeline.
//
// # Overview
//
// soft3d takes world-space triangles and a programmable vertex/fragment
// Shader and produces a shaded, depth- and stencil-tested color buffer
// without any GPU. Triangles are clipped in homogeneous space, binned into
// 64x64 pixel tiles and scan-converted by one worker per tile in parallel.
//
// # Quick Start
//
//	p, err := soft3d.New(640, 480)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	ctx := soft3d.DefaultRenderContext()
//	ctx.Camera = soft3d.NewPerspectiveCamera(eye, target, up, 60, 640.0/480, 0.1, 100)
//
//	p.BeginFrame(ctx, soft3d.DefaultClear())
//	p.SubmitMesh(draw, mesh)
//	stats, err := p.EndFrame()
//	p.SavePNG("frame.png")
//
// # Frame Model
//
// A frame is BeginFrame, any number of Submit calls, then EndFrame.
// Clipping, culling and binning happen on the submitting goroutine; EndFrame
// is the single parallel region where every tile drains its queue. Within a
// tile, triangles are rasterized in submission order.
//
// Opaque geometry is order independent thanks to the depth test. Blended
// geometry is composited in submission order; submit it back-to-front, or use
// SubmitSorted to have the pipeline sort it by view depth at EndFrame.
//
// # Conventions
//
//   - Clip space follows OpenGL: NDC z in [-1, 1], camera looks down -Z
//   - Screen origin is top-left, y down, pixel centers at +0.5
//   - Stored depth is z_ndc*0.5+0.5, smaller is nearer, cleared to 1
//   - Front faces are counter-clockwise in NDC
//   - Texture v = 0 is the top row of the image
//
// # Architecture
//
//   - Public API: Pipeline, Shader, Material, RenderState, Texture, Mesh
//   - Internal: geom (triangles), clip (homogeneous clipper), parallel
//     (tiles and workers), buffer (pixel planes), blend, arena (handles)
//   - Shaders: github.com/gogpu/soft3d/shaders
package soft3d

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
