package shaders

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/soft3d"
)

// Skybox draws the cubemap bound to PropSkybox at infinity. Render it with
// a cube mesh and a material from SkyboxMaterial, after opaque geometry.
type Skybox struct{}

// SkyboxMaterial returns a material that samples sky and passes the depth
// test only where nothing has been drawn.
func SkyboxMaterial(sky soft3d.CubemapHandle) *soft3d.Material {
	m := soft3d.NewMaterial("skybox")
	m.SetCubemap(soft3d.PropSkybox, sky)
	m.SetDepth(soft3d.CompareLessEqual, false)
	m.SetDoubleSided(true)
	return m
}

// Vertex implements soft3d.Shader. The camera translation is ignored and
// depth is pinned to the far plane.
func (Skybox) Vertex(u *soft3d.Uniforms, in soft3d.A2V) soft3d.V2F {
	view := u.View
	view[12], view[13], view[14] = 0, 0, 0
	clip := u.Projection.Mul4(view).Mul4x1(in.Position.Vec4(1))
	clip[2] = clip[3]
	return soft3d.V2F{Position: clip, WorldPos: in.Position}
}

// Fragment implements soft3d.Shader.
func (Skybox) Fragment(u *soft3d.Uniforms, in soft3d.V2F) (mgl32.Vec4, bool) {
	c := u.SampleCube(soft3d.PropSkybox, normalize(in.WorldPos))
	c[3] = 1
	return c, true
}
