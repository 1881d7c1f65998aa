// Package shaders provides ready-made soft3d shaders.
//
// All shaders read their parameters from the draw's Material through the
// built-in property IDs:
//
//	PropBaseColor  Vec4     color multiplier, default white
//	PropMainTex    texture  base color map
//	PropNormalTex  texture  tangent-space normal map (Lit)
//	PropMetallic   float    default 0 (Lit)
//	PropRoughness  float    default 0.5 (Lit)
//	PropEmission   Vec4     rgb color, a strength (Lit)
//	PropSkybox     cubemap  environment (Skybox)
//	PropAlphaClip  float    discard threshold, default 0
//
// A texture property that is set but whose resource was released samples
// as soft3d.FallbackColor. An unset texture property is ignored.
//
// Shaders are stateless values and may be shared between draws.
package shaders

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/soft3d"
)

var white = mgl32.Vec4{1, 1, 1, 1}

// Compile-time interface checks.
var (
	_ soft3d.Shader = Unlit{}
	_ soft3d.Shader = Lit{}
	_ soft3d.Shader = ShadowCaster{}
	_ soft3d.Shader = Skybox{}
	_ soft3d.Shader = Error{}
)

// transform is the common vertex stage: clip and world positions, world
// space normal frame, vertex color and shadow coordinate.
func transform(u *soft3d.Uniforms, in soft3d.A2V) soft3d.V2F {
	world := u.ObjectToWorld(in.Position)
	out := soft3d.V2F{
		Position: u.ObjectToClip(in.Position),
		WorldPos: world,
		Normal:   u.NormalToWorld(in.Normal),
		UV:       in.UV,
		Color:    in.Color,
	}
	if out.Color == (mgl32.Vec4{}) {
		out.Color = white
	}
	if t := in.Tangent.Vec3(); t.Len() > 0 {
		out.Tangent = u.DirectionToWorld(t)
		sign := in.Tangent[3]
		if sign == 0 {
			sign = 1
		}
		out.Bitangent = out.Normal.Cross(out.Tangent).Mul(sign)
	}
	if ctx := u.Context; ctx != nil && ctx.Shadow != nil {
		out.ShadowPos = ctx.Shadow.ViewProjection.Mul4x1(world.Vec4(1))
	}
	return out
}

// texture samples the texture bound to id, or returns white when the
// property is unset.
func texture(u *soft3d.Uniforms, id soft3d.PropertyID, uv mgl32.Vec2) mgl32.Vec4 {
	if u.Material == nil {
		return white
	}
	if _, ok := u.Material.Texture(id); !ok {
		return white
	}
	return u.Sample(id, uv)
}

// albedo is base color * base map * vertex color.
func albedo(u *soft3d.Uniforms, in soft3d.V2F) mgl32.Vec4 {
	c := u.Vector(soft3d.PropBaseColor, white)
	c = mul4(c, texture(u, soft3d.PropMainTex, in.UV))
	return mul4(c, in.Color)
}

// clipped reports whether a fragment with alpha a falls below the
// material's alpha clip threshold.
func clipped(u *soft3d.Uniforms, a float32) bool {
	return a < u.Float(soft3d.PropAlphaClip, 0)
}

func mul4(a, b mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

func mul3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return v
}

// Unlit outputs albedo without lighting.
type Unlit struct{}

// Vertex implements soft3d.Shader.
func (Unlit) Vertex(u *soft3d.Uniforms, in soft3d.A2V) soft3d.V2F {
	return transform(u, in)
}

// Fragment implements soft3d.Shader.
func (Unlit) Fragment(u *soft3d.Uniforms, in soft3d.V2F) (mgl32.Vec4, bool) {
	c := albedo(u, in)
	if clipped(u, c[3]) {
		return c, false
	}
	return c, true
}

// Error draws everything in soft3d.FallbackColor. Use it in place of a
// shader that failed to load.
type Error struct{}

// Vertex implements soft3d.Shader.
func (Error) Vertex(u *soft3d.Uniforms, in soft3d.A2V) soft3d.V2F {
	return soft3d.V2F{Position: u.ObjectToClip(in.Position)}
}

// Fragment implements soft3d.Shader.
func (Error) Fragment(*soft3d.Uniforms, soft3d.V2F) (mgl32.Vec4, bool) {
	return soft3d.FallbackColor, true
}

// ShadowCaster renders depth from the point of view of the frame camera,
// which for a shadow pass is the light. Pair it with a pipeline created
// with soft3d.WithDepthOnly; on a color target it writes linear gray
// depth.
type ShadowCaster struct{}

// Vertex implements soft3d.Shader.
func (ShadowCaster) Vertex(u *soft3d.Uniforms, in soft3d.A2V) soft3d.V2F {
	return soft3d.V2F{Position: u.ObjectToClip(in.Position), UV: in.UV}
}

// Fragment implements soft3d.Shader. Alpha clipped fragments cast no
// shadow.
func (ShadowCaster) Fragment(u *soft3d.Uniforms, in soft3d.V2F) (mgl32.Vec4, bool) {
	a := u.Vector(soft3d.PropBaseColor, white)[3] * texture(u, soft3d.PropMainTex, in.UV)[3]
	if clipped(u, a) {
		return mgl32.Vec4{}, false
	}
	d := in.Position[2]
	return mgl32.Vec4{d, d, d, 1}, true
}
