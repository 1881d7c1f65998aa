package soft3d

import "github.com/go-gl/mathgl/mgl32"

// Camera holds the view and projection transforms of a frame.
type Camera struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	// Orthographic marks a parallel projection; it changes how back faces
	// are detected before vertex shading.
	Orthographic bool
}

// NewPerspectiveCamera builds a camera at eye looking at target.
// fovY is the vertical field of view in degrees.
func NewPerspectiveCamera(eye, target, up mgl32.Vec3, fovY, aspect, near, far float32) Camera {
	return Camera{
		View:       mgl32.LookAtV(eye, target, up),
		Projection: mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far),
	}
}

// NewOrthoCamera builds a parallel projection camera at eye looking at
// target, covering [-halfW, halfW] x [-halfH, halfH] in view space.
func NewOrthoCamera(eye, target, up mgl32.Vec3, halfW, halfH, near, far float32) Camera {
	return Camera{
		View:         mgl32.LookAtV(eye, target, up),
		Projection:   mgl32.Ortho(-halfW, halfW, -halfH, halfH, near, far),
		Orthographic: true,
	}
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.View)
}

// Position returns the eye position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	return c.View.Inv().Col(3).Vec3()
}

// Forward returns the unit viewing direction in world space.
func (c *Camera) Forward() mgl32.Vec3 {
	return normalize(c.View.Row(2).Vec3().Mul(-1))
}

// DirectionalLight is a light infinitely far away.
type DirectionalLight struct {
	// Direction is the direction the light travels, toward the scene.
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
}

// PointLight emits in all directions from Position. Its contribution falls
// off with the inverse square of the distance and reaches zero at Range.
type PointLight struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Range     float32
}

// Shadow binds a shadow map rendered from the main light.
type Shadow struct {
	Map *DepthMap
	// ViewProjection transforms world space to the light's clip space.
	ViewProjection mgl32.Mat4
	Bias           float32
}

// RenderContext is the per-frame state shared by every draw: camera,
// lights, shadows and screen size. It is passed explicitly to BeginFrame and
// reaches shaders through Uniforms.Context.
type RenderContext struct {
	Camera      Camera
	Ambient     mgl32.Vec3
	MainLight   DirectionalLight
	PointLights []PointLight
	Shadow      *Shadow
	Time        float32

	// Width and Height are set by BeginFrame to the target size.
	Width, Height int
}

// DefaultRenderContext returns a context with identity camera transforms, so
// vertex positions transformed by the model matrix are already in clip
// space, a dim ambient term and a white light shining down the -Y axis.
func DefaultRenderContext() *RenderContext {
	return &RenderContext{
		Camera:  Camera{View: mgl32.Ident4(), Projection: mgl32.Ident4(), Orthographic: true},
		Ambient: mgl32.Vec3{0.05, 0.05, 0.05},
		MainLight: DirectionalLight{
			Direction: mgl32.Vec3{0, -1, 0},
			Color:     mgl32.Vec3{1, 1, 1},
			Intensity: 1,
		},
	}
}

// normalized fills unset camera matrices with identity.
func (c *RenderContext) normalized() {
	var zero mgl32.Mat4
	if c.Camera.View == zero {
		c.Camera.View = mgl32.Ident4()
	}
	if c.Camera.Projection == zero {
		c.Camera.Projection = mgl32.Ident4()
		c.Camera.Orthographic = true
	}
}

// ClearValues are the values BeginFrame fills the planes with.
type ClearValues struct {
	Color   mgl32.Vec4
	Depth   float32
	Stencil uint8
}

// DefaultClear returns opaque black, far depth and zero stencil.
func DefaultClear() ClearValues {
	return ClearValues{Color: mgl32.Vec4{0, 0, 0, 1}, Depth: 1}
}
