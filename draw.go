package soft3d

import "github.com/go-gl/mathgl/mgl32"

// Draw is what a triangle is rendered with: a shader, its material and the
// object-to-world transform.
type Draw struct {
	Shader   Shader
	Material *Material
	Model    mgl32.Mat4
}

// NewDraw returns a draw with an identity model transform.
// A nil material selects a default opaque material.
func NewDraw(s Shader, m *Material) *Draw {
	return &Draw{Shader: s, Material: m, Model: mgl32.Ident4()}
}

func (d *Draw) material() *Material {
	if d.Material == nil {
		return defaultMaterial
	}
	return d.Material
}

func (d *Draw) model() mgl32.Mat4 {
	if d.Model == (mgl32.Mat4{}) {
		return mgl32.Ident4()
	}
	return d.Model
}
