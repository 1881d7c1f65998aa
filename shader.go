package soft3d

import "github.com/go-gl/mathgl/mgl32"

// FallbackColor is returned for samples of unbound or released resources.
var FallbackColor = mgl32.Vec4{1, 0, 1, 1}

// A2V is the per-vertex input of a vertex shader, in object space.
type A2V struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	// Tangent xyz is the object-space tangent, w the bitangent sign.
	Tangent mgl32.Vec4
	UV      mgl32.Vec2
	Color   mgl32.Vec4
}

// V2F is the output of a vertex shader and the input of a fragment shader.
//
// The vertex shader must set Position to the clip-space position. Every
// other field is interpolated perspective-correctly across the triangle.
// In the fragment shader Position holds the window coordinate of the pixel:
// (x+0.5, y+0.5, depth, clip w).
type V2F struct {
	Position  mgl32.Vec4
	WorldPos  mgl32.Vec3
	Normal    mgl32.Vec3
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
	UV        mgl32.Vec2
	Color     mgl32.Vec4
	ShadowPos mgl32.Vec4
}

// Add returns the component-wise sum of the interpolated fields.
// Position is not interpolated through Add.
func (v V2F) Add(o V2F) V2F {
	return V2F{
		Position:  v.Position,
		WorldPos:  v.WorldPos.Add(o.WorldPos),
		Normal:    v.Normal.Add(o.Normal),
		Tangent:   v.Tangent.Add(o.Tangent),
		Bitangent: v.Bitangent.Add(o.Bitangent),
		UV:        v.UV.Add(o.UV),
		Color:     v.Color.Add(o.Color),
		ShadowPos: v.ShadowPos.Add(o.ShadowPos),
	}
}

// Scale multiplies the interpolated fields by s.
func (v V2F) Scale(s float32) V2F {
	return V2F{
		Position:  v.Position,
		WorldPos:  v.WorldPos.Mul(s),
		Normal:    v.Normal.Mul(s),
		Tangent:   v.Tangent.Mul(s),
		Bitangent: v.Bitangent.Mul(s),
		UV:        v.UV.Mul(s),
		Color:     v.Color.Mul(s),
		ShadowPos: v.ShadowPos.Mul(s),
	}
}

// Shader is a programmable vertex/fragment stage pair.
//
// Vertex runs once per triangle corner on the submitting goroutine. Fragment
// runs on tile workers concurrently and must not mutate shared state.
// Fragment returns the straight-alpha color and false to discard the pixel.
type Shader interface {
	Vertex(u *Uniforms, in A2V) V2F
	Fragment(u *Uniforms, in V2F) (mgl32.Vec4, bool)
}

// Uniforms is the read-only per-draw state handed to both shader stages.
type Uniforms struct {
	Model          mgl32.Mat4
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	ViewProjection mgl32.Mat4
	MVP            mgl32.Mat4
	// NormalMatrix is the inverse transpose of the model matrix.
	NormalMatrix mgl32.Mat3
	CameraPos    mgl32.Vec3

	Context   *RenderContext
	Material  *Material
	Resources *Resources
}

func newUniforms(ctx *RenderContext, model mgl32.Mat4, m *Material, res *Resources) *Uniforms {
	cam := &ctx.Camera
	vp := cam.Projection.Mul4(cam.View)
	nm := model.Mat3()
	if nm.Det() != 0 {
		nm = nm.Inv().Transpose()
	}
	return &Uniforms{
		Model:          model,
		View:           cam.View,
		Projection:     cam.Projection,
		ViewProjection: vp,
		MVP:            vp.Mul4(model),
		NormalMatrix:   nm,
		CameraPos:      cam.Position(),
		Context:        ctx,
		Material:       m,
		Resources:      res,
	}
}

// ObjectToClip transforms an object-space position to clip space.
func (u *Uniforms) ObjectToClip(p mgl32.Vec3) mgl32.Vec4 {
	return u.MVP.Mul4x1(p.Vec4(1))
}

// ObjectToWorld transforms an object-space position to world space.
func (u *Uniforms) ObjectToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return u.Model.Mul4x1(p.Vec4(1)).Vec3()
}

// NormalToWorld transforms an object-space normal to a unit world-space
// normal.
func (u *Uniforms) NormalToWorld(n mgl32.Vec3) mgl32.Vec3 {
	return normalize(u.NormalMatrix.Mul3x1(n))
}

// DirectionToWorld transforms an object-space direction (such as a tangent)
// to a unit world-space direction.
func (u *Uniforms) DirectionToWorld(d mgl32.Vec3) mgl32.Vec3 {
	return normalize(u.Model.Mat3().Mul3x1(d))
}

// Float returns the material scalar id, or def when unset.
func (u *Uniforms) Float(id PropertyID, def float32) float32 {
	if u.Material != nil {
		if v, ok := u.Material.Float(id); ok {
			return v
		}
	}
	return def
}

// Vector returns the material vector id, or def when unset.
func (u *Uniforms) Vector(id PropertyID, def mgl32.Vec4) mgl32.Vec4 {
	if u.Material != nil {
		if v, ok := u.Material.Vector(id); ok {
			return v
		}
	}
	return def
}

// Texture resolves the texture bound to id. Returns nil when the property
// is unset, unbound or its texture was released.
func (u *Uniforms) Texture(id PropertyID) *Texture {
	if u.Material == nil || u.Resources == nil {
		return nil
	}
	h, ok := u.Material.Texture(id)
	if !ok {
		return nil
	}
	return u.Resources.Texture(h)
}

// Cubemap resolves the cubemap bound to id, or nil.
func (u *Uniforms) Cubemap(id PropertyID) *Cubemap {
	if u.Material == nil || u.Resources == nil {
		return nil
	}
	h, ok := u.Material.Cubemap(id)
	if !ok {
		return nil
	}
	return u.Resources.Cubemap(h)
}

// Sample samples the texture bound to id at uv. Unset properties and
// released textures both return FallbackColor. The shaders package checks
// the material first and treats an unset property as white, so there only
// a stale handle shows FallbackColor.
func (u *Uniforms) Sample(id PropertyID, uv mgl32.Vec2) mgl32.Vec4 {
	t := u.Texture(id)
	if t == nil {
		return FallbackColor
	}
	return t.Sample(uv)
}

// SampleCube samples the cubemap bound to id along dir. Missing cubemaps
// return FallbackColor.
func (u *Uniforms) SampleCube(id PropertyID, dir mgl32.Vec3) mgl32.Vec4 {
	c := u.Cubemap(id)
	if c == nil {
		return FallbackColor
	}
	return c.Sample(dir)
}

// ShadowVisibility returns the lit fraction for a fragment whose light clip
// position is shadowPos, or 1 when the frame has no shadow map.
func (u *Uniforms) ShadowVisibility(shadowPos mgl32.Vec4) float32 {
	if u.Context == nil || u.Context.Shadow == nil || u.Context.Shadow.Map == nil {
		return 1
	}
	s := u.Context.Shadow
	return s.Map.Visibility(shadowPos, s.Bias)
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return v
}
