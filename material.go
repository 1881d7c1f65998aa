package soft3d

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// PropertyID is a small integer key for a material uniform.
// Shaders look uniforms up by PropertyID rather than by name.
type PropertyID int32

// Built-in properties understood by the shaders package.
const (
	PropBaseColor PropertyID = iota // Vec4, base color / albedo multiplier
	PropMainTex                     // texture, base color map
	PropNormalTex                   // texture, tangent-space normal map
	PropMetallic                    // float
	PropRoughness                   // float
	PropEmission                    // Vec4, emitted color (rgb) and strength (a)
	PropSkybox                      // cubemap
	PropAlphaClip                   // float, fragments with alpha below are discarded

	builtinPropertyCount
)

var builtinPropertyNames = [builtinPropertyCount]string{
	PropBaseColor: "_BaseColor",
	PropMainTex:   "_MainTex",
	PropNormalTex: "_NormalTex",
	PropMetallic:  "_Metallic",
	PropRoughness: "_Roughness",
	PropEmission:  "_Emission",
	PropSkybox:    "_Skybox",
	PropAlphaClip: "_AlphaClip",
}

var propertyRegistry = struct {
	sync.Mutex
	ids   map[string]PropertyID
	names []string
}{}

func init() {
	propertyRegistry.ids = make(map[string]PropertyID, builtinPropertyCount)
	for id, name := range builtinPropertyNames {
		propertyRegistry.ids[name] = PropertyID(id)
		propertyRegistry.names = append(propertyRegistry.names, name)
	}
}

// PropertyToID returns the id for a uniform name, allocating a new id the
// first time a name is seen. Built-in names such as "_MainTex" map to the
// Prop constants. Resolve ids once at setup, not per draw.
func PropertyToID(name string) PropertyID {
	r := &propertyRegistry
	r.Lock()
	defer r.Unlock()

	if id, ok := r.ids[name]; ok {
		return id
	}
	id := PropertyID(len(r.names))
	r.ids[name] = id
	r.names = append(r.names, name)
	return id
}

// String returns the registered name of the property.
func (id PropertyID) String() string {
	r := &propertyRegistry
	r.Lock()
	defer r.Unlock()

	if id < 0 || int(id) >= len(r.names) {
		return "unknown"
	}
	return r.names[id]
}

// Material is the per-draw uniform bag plus fixed-function RenderState.
//
// Materials are read concurrently by tile workers during EndFrame and must
// not be modified between the first Submit using them and EndFrame.
type Material struct {
	Name  string
	State RenderState

	floats   map[PropertyID]float32
	ints     map[PropertyID]int32
	vectors  map[PropertyID]mgl32.Vec4
	matrices map[PropertyID]mgl32.Mat4
	textures map[PropertyID]TextureHandle
	cubemaps map[PropertyID]CubemapHandle
}

// NewMaterial creates a material with DefaultRenderState.
func NewMaterial(name string) *Material {
	return &Material{
		Name:     name,
		State:    DefaultRenderState(),
		floats:   make(map[PropertyID]float32),
		ints:     make(map[PropertyID]int32),
		vectors:  make(map[PropertyID]mgl32.Vec4),
		matrices: make(map[PropertyID]mgl32.Mat4),
		textures: make(map[PropertyID]TextureHandle),
		cubemaps: make(map[PropertyID]CubemapHandle),
	}
}

// defaultMaterial is used by draws without a material.
var defaultMaterial = NewMaterial("default")

// SetFloat sets a scalar uniform.
func (m *Material) SetFloat(id PropertyID, v float32) { m.floats[id] = v }

// Float returns a scalar uniform.
func (m *Material) Float(id PropertyID) (float32, bool) {
	v, ok := m.floats[id]
	return v, ok
}

// SetInt sets an integer uniform.
func (m *Material) SetInt(id PropertyID, v int32) { m.ints[id] = v }

// Int returns an integer uniform.
func (m *Material) Int(id PropertyID) (int32, bool) {
	v, ok := m.ints[id]
	return v, ok
}

// SetVector sets a 4-vector uniform.
func (m *Material) SetVector(id PropertyID, v mgl32.Vec4) { m.vectors[id] = v }

// Vector returns a 4-vector uniform.
func (m *Material) Vector(id PropertyID) (mgl32.Vec4, bool) {
	v, ok := m.vectors[id]
	return v, ok
}

// SetMatrix sets a matrix uniform.
func (m *Material) SetMatrix(id PropertyID, v mgl32.Mat4) { m.matrices[id] = v }

// Matrix returns a matrix uniform.
func (m *Material) Matrix(id PropertyID) (mgl32.Mat4, bool) {
	v, ok := m.matrices[id]
	return v, ok
}

// SetTexture binds a texture handle.
func (m *Material) SetTexture(id PropertyID, h TextureHandle) { m.textures[id] = h }

// Texture returns a bound texture handle.
func (m *Material) Texture(id PropertyID) (TextureHandle, bool) {
	v, ok := m.textures[id]
	return v, ok
}

// SetCubemap binds a cubemap handle.
func (m *Material) SetCubemap(id PropertyID, h CubemapHandle) { m.cubemaps[id] = h }

// Cubemap returns a bound cubemap handle.
func (m *Material) Cubemap(id PropertyID) (CubemapHandle, bool) {
	v, ok := m.cubemaps[id]
	return v, ok
}

// SetDepth configures the depth test.
func (m *Material) SetDepth(fn CompareFunc, write bool) {
	m.State.DepthFunc = fn
	m.State.DepthWrite = write
}

// SetStencil configures the stencil test.
func (m *Material) SetStencil(s StencilState) {
	m.State.Stencil = s
}

// SetBlend enables blending with the given equation.
func (m *Material) SetBlend(src, dst BlendFactor, op BlendOp) {
	m.State.Transparent = true
	m.State.SrcBlend = src
	m.State.DstBlend = dst
	m.State.BlendOp = op
}

// SetOpaque disables blending.
func (m *Material) SetOpaque() {
	m.State.Transparent = false
}

// SetColorMask selects the written color channels.
func (m *Material) SetColorMask(mask ColorMask) {
	m.State.ColorMask = mask
}

// SetDoubleSided disables or enables back-face culling.
func (m *Material) SetDoubleSided(on bool) {
	m.State.DoubleSided = on
}
