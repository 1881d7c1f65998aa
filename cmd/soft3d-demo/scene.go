package main

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/soft3d"
	"github.com/gogpu/soft3d/shaders"
)

var up = mgl32.Vec3{0, 1, 0}

// object is one mesh instance of the scene.
type object struct {
	mesh   *soft3d.Mesh
	draw   *soft3d.Draw
	shadow bool // rendered into the shadow map
}

type scene struct {
	opaque []object
	glass  object
	sky    *soft3d.Draw
	cube   *soft3d.Mesh
	caster *soft3d.Draw
}

func newScene(res *soft3d.Resources) *scene {
	floorTex := res.AddTexture(soft3d.NewTexture(checkerboard(256, 16)))
	bumps := res.AddTexture(soft3d.NewTexture(ridges(64, 8)))
	sky := res.AddCubemap(soft3d.NewCubemap(skyFaces(64)))

	floor := soft3d.NewMaterial("floor")
	floor.SetTexture(soft3d.PropMainTex, floorTex)
	floor.SetFloat(soft3d.PropRoughness, 0.9)

	metal := soft3d.NewMaterial("metal")
	metal.SetVector(soft3d.PropBaseColor, mgl32.Vec4{0.95, 0.64, 0.54, 1})
	metal.SetFloat(soft3d.PropMetallic, 1)
	metal.SetFloat(soft3d.PropRoughness, 0.3)

	brick := soft3d.NewMaterial("ridged")
	brick.SetVector(soft3d.PropBaseColor, mgl32.Vec4{0.7, 0.2, 0.15, 1})
	brick.SetTexture(soft3d.PropNormalTex, bumps)

	lamp := soft3d.NewMaterial("lamp")
	lamp.SetVector(soft3d.PropBaseColor, mgl32.Vec4{1, 0.9, 0.5, 1})

	glass := soft3d.NewMaterial("glass")
	glass.SetVector(soft3d.PropBaseColor, mgl32.Vec4{0.3, 0.6, 1, 0.35})
	glass.SetBlend(soft3d.BlendSrcAlpha, soft3d.BlendOneMinusSrcAlpha, soft3d.BlendAdd)
	glass.SetDepth(soft3d.CompareLess, false)
	glass.SetDoubleSided(true)

	draw := func(s soft3d.Shader, m *soft3d.Material, model mgl32.Mat4) *soft3d.Draw {
		d := soft3d.NewDraw(s, m)
		d.Model = model
		return d
	}

	cube := soft3d.NewCubeMesh(1)
	return &scene{
		opaque: []object{
			{
				mesh: soft3d.NewQuadMesh(1),
				draw: draw(shaders.Lit{}, floor, mgl32.Translate3D(0, -1, 0).
					Mul4(mgl32.HomogRotate3DX(-math.Pi/2)).
					Mul4(mgl32.Scale3D(12, 12, 1))),
			},
			{
				mesh:   soft3d.NewSphereMesh(1, 24, 32),
				draw:   draw(shaders.Lit{}, metal, mgl32.Translate3D(-1.3, 0, 0)),
				shadow: true,
			},
			{
				mesh: cube,
				draw: draw(shaders.Lit{}, brick, mgl32.Translate3D(1.4, -0.25, 0.3).
					Mul4(mgl32.HomogRotate3DY(0.6)).
					Mul4(mgl32.Scale3D(1.5, 1.5, 1.5))),
				shadow: true,
			},
			{
				mesh: soft3d.NewSphereMesh(0.15, 8, 12),
				draw: draw(shaders.Unlit{}, lamp, mgl32.Translate3D(0, 1.8, 1.5)),
			},
		},
		glass: object{
			mesh: cube,
			draw: draw(shaders.Lit{}, glass, mgl32.Translate3D(0.2, -0.4, 1.8).Mul4(mgl32.Scale3D(1.2, 1.2, 1.2))),
		},
		sky:    soft3d.NewDraw(shaders.Skybox{}, shaders.SkyboxMaterial(sky)),
		cube:   cube,
		caster: soft3d.NewDraw(shaders.ShadowCaster{}, nil),
	}
}

// lightDir returns the main light direction at animation time t in [0,1).
func lightDir(t float32) mgl32.Vec3 {
	a := float64(t) * 2 * math.Pi
	return mgl32.Vec3{float32(math.Cos(a)), -1.5, float32(math.Sin(a))}.Normalize()
}

// lightCamera returns the orthographic camera the shadow map is rendered
// from.
func (s *scene) lightCamera(t float32) soft3d.Camera {
	eye := lightDir(t).Mul(-10)
	return soft3d.NewOrthoCamera(eye, mgl32.Vec3{}, up, 4, 4, 1, 20)
}

func (s *scene) renderShadow(p *soft3d.Pipeline, light soft3d.Camera) error {
	ctx := soft3d.DefaultRenderContext()
	ctx.Camera = light
	if err := p.BeginFrame(ctx, soft3d.DefaultClear()); err != nil {
		return err
	}
	for _, o := range s.opaque {
		if !o.shadow {
			continue
		}
		s.caster.Model = o.draw.Model
		if err := p.SubmitMesh(s.caster, o.mesh); err != nil {
			return err
		}
	}
	_, err := p.EndFrame()
	return err
}

// context returns the main pass context: an orbiting camera, the sun and
// a small point light above the scene.
func (s *scene) context(t, aspect float32, light soft3d.Camera, shadow *soft3d.DepthMap) *soft3d.RenderContext {
	a := float64(t) * 2 * math.Pi
	eye := mgl32.Vec3{6 * float32(math.Sin(a)), 2.5, 6 * float32(math.Cos(a))}

	ctx := soft3d.DefaultRenderContext()
	ctx.Camera = soft3d.NewPerspectiveCamera(eye, mgl32.Vec3{0, -0.2, 0}, up, 50, aspect, 0.1, 50)
	ctx.Ambient = mgl32.Vec3{0.08, 0.09, 0.12}
	ctx.MainLight = soft3d.DirectionalLight{
		Direction: lightDir(t),
		Color:     mgl32.Vec3{1, 0.96, 0.9},
		Intensity: 2.5,
	}
	ctx.PointLights = []soft3d.PointLight{{
		Position:  mgl32.Vec3{0, 1.8, 1.5},
		Color:     mgl32.Vec3{1, 0.8, 0.4},
		Intensity: 4,
		Range:     6,
	}}
	if shadow != nil {
		ctx.Shadow = &soft3d.Shadow{
			Map:            shadow,
			ViewProjection: light.ViewProjection(),
			Bias:           0.004,
		}
	}
	ctx.Time = t
	return ctx
}

// render draws opaque geometry, then the sky, then the glass cube sorted
// back to front.
func (s *scene) render(p *soft3d.Pipeline, ctx *soft3d.RenderContext, cv soft3d.ClearValues) (soft3d.FrameStats, error) {
	if err := p.BeginFrame(ctx, cv); err != nil {
		return soft3d.FrameStats{}, err
	}
	for _, o := range s.opaque {
		if err := p.SubmitMesh(o.draw, o.mesh); err != nil {
			return soft3d.FrameStats{}, err
		}
	}

	s.sky.Model = mgl32.Translate3D(ctx.Camera.Position().Elem())
	if err := p.SubmitMesh(s.sky, s.cube); err != nil {
		return soft3d.FrameStats{}, err
	}

	g := s.glass.mesh
	for i := range g.TriangleCount() {
		v0, v1, v2 := g.Triangle(i)
		if err := p.SubmitSorted(s.glass.draw, v0, v1, v2); err != nil {
			return soft3d.FrameStats{}, err
		}
	}
	return p.EndFrame()
}

// checkerboard returns an n x n two-tone checker with cells x cells squares.
func checkerboard(n, cells int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	step := max(n/cells, 1)
	for y := range n {
		for x := range n {
			c := color.NRGBA{R: 200, G: 200, B: 195, A: 255}
			if (x/step+y/step)%2 == 1 {
				c = color.NRGBA{R: 70, G: 75, B: 80, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// ridges returns a tangent-space normal map of vertical ridges.
func ridges(n, count int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	for x := range n {
		nx := 0.6 * math.Sin(2*math.Pi*float64(x*count)/float64(n))
		nz := math.Sqrt(1 - nx*nx)
		c := color.NRGBA{
			R: uint8((nx*0.5 + 0.5) * 255),
			G: 128,
			B: uint8((nz*0.5 + 0.5) * 255),
			A: 255,
		}
		for y := range n {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// skyFaces returns cubemap faces with a vertical gradient: deep blue at the
// zenith, pale at the horizon and dark below.
func skyFaces(n int) [6]image.Image {
	zenith := color.NRGBA{R: 40, G: 80, B: 170, A: 255}
	horizon := color.NRGBA{R: 190, G: 210, B: 230, A: 255}
	ground := color.NRGBA{R: 35, G: 35, B: 40, A: 255}

	fill := func(c func(y int) color.NRGBA) image.Image {
		img := image.NewNRGBA(image.Rect(0, 0, n, n))
		for y := range n {
			cy := c(y)
			for x := range n {
				img.SetNRGBA(x, y, cy)
			}
		}
		return img
	}

	side := fill(func(y int) color.NRGBA {
		t := float64(y) / float64(n-1)
		if t > 0.5 {
			return ground
		}
		return mix(zenith, horizon, t*2)
	})
	var faces [6]image.Image
	for i := range faces {
		faces[i] = side
	}
	faces[soft3d.CubePosY] = fill(func(int) color.NRGBA { return zenith })
	faces[soft3d.CubeNegY] = fill(func(int) color.NRGBA { return ground })
	return faces
}

func mix(a, b color.NRGBA, t float64) color.NRGBA {
	l := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.NRGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: 255}
}
