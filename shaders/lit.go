package shaders

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/soft3d"
)

const (
	defaultRoughness = 0.5
	minRoughness     = 0.04
	dielectricF0     = 0.04
)

// Lit is a metallic-roughness PBR shader with a Cook-Torrance GGX specular
// term. It is lit by the context's ambient term, main directional light
// (shadowed when the frame has a shadow map) and point lights.
type Lit struct{}

// Vertex implements soft3d.Shader.
func (Lit) Vertex(u *soft3d.Uniforms, in soft3d.A2V) soft3d.V2F {
	return transform(u, in)
}

// Fragment implements soft3d.Shader.
func (Lit) Fragment(u *soft3d.Uniforms, in soft3d.V2F) (mgl32.Vec4, bool) {
	base := albedo(u, in)
	if clipped(u, base[3]) {
		return base, false
	}

	n := surfaceNormal(u, in)
	v := normalize(u.CameraPos.Sub(in.WorldPos))
	s := surface{
		albedo:    base.Vec3(),
		metallic:  mgl32.Clamp(u.Float(soft3d.PropMetallic, 0), 0, 1),
		roughness: mgl32.Clamp(u.Float(soft3d.PropRoughness, defaultRoughness), minRoughness, 1),
	}
	s.f0 = lerp3(mgl32.Vec3{dielectricF0, dielectricF0, dielectricF0}, s.albedo, s.metallic)

	var color mgl32.Vec3
	if ctx := u.Context; ctx != nil {
		color = mul3(ctx.Ambient, s.albedo)

		light := ctx.MainLight
		if light.Intensity > 0 {
			l := normalize(light.Direction.Mul(-1))
			radiance := light.Color.Mul(light.Intensity * u.ShadowVisibility(in.ShadowPos))
			color = color.Add(s.shade(n, v, l, radiance))
		}

		for _, pl := range ctx.PointLights {
			d := pl.Position.Sub(in.WorldPos)
			atten := attenuation(d.Len(), pl.Range)
			if atten <= 0 {
				continue
			}
			radiance := pl.Color.Mul(pl.Intensity * atten)
			color = color.Add(s.shade(n, v, normalize(d), radiance))
		}
	}

	if e := u.Vector(soft3d.PropEmission, mgl32.Vec4{}); e[3] > 0 {
		color = color.Add(e.Vec3().Mul(e[3]))
	}
	return color.Vec4(base[3]), true
}

// surfaceNormal returns the world normal, perturbed by the normal map when
// one is set and the vertex carried a tangent frame.
func surfaceNormal(u *soft3d.Uniforms, in soft3d.V2F) mgl32.Vec3 {
	n := normalize(in.Normal)
	if u.Material == nil || in.Tangent.Len() == 0 {
		return n
	}
	if _, ok := u.Material.Texture(soft3d.PropNormalTex); !ok {
		return n
	}
	m := u.Sample(soft3d.PropNormalTex, in.UV)
	tn := mgl32.Vec3{m[0]*2 - 1, m[1]*2 - 1, m[2]*2 - 1}
	t, b := normalize(in.Tangent), normalize(in.Bitangent)
	return normalize(t.Mul(tn[0]).Add(b.Mul(tn[1])).Add(n.Mul(tn[2])))
}

type surface struct {
	albedo    mgl32.Vec3
	f0        mgl32.Vec3
	metallic  float32
	roughness float32
}

// shade returns the outgoing radiance toward v for light arriving from l.
func (s *surface) shade(n, v, l, radiance mgl32.Vec3) mgl32.Vec3 {
	nl := n.Dot(l)
	if nl <= 0 {
		return mgl32.Vec3{}
	}
	nv := max(n.Dot(v), 1e-4)
	h := normalize(v.Add(l))

	d := distributionGGX(max(n.Dot(h), 0), s.roughness)
	g := geometrySmith(nv, nl, s.roughness)
	f := fresnelSchlick(max(h.Dot(v), 0), s.f0)

	specular := f.Mul(d * g / (4*nv*nl + 1e-4))
	kd := mgl32.Vec3{1 - f[0], 1 - f[1], 1 - f[2]}.Mul(1 - s.metallic)
	diffuse := mul3(kd, s.albedo).Mul(1 / math.Pi)
	return mul3(diffuse.Add(specular), radiance).Mul(nl)
}

// distributionGGX is the Trowbridge-Reitz normal distribution.
func distributionGGX(nh, roughness float32) float32 {
	a := roughness * roughness
	a2 := a * a
	d := nh*nh*(a2-1) + 1
	return a2 / (math.Pi * d * d)
}

// geometrySmith is the Smith masking-shadowing term with the Schlick-GGX
// approximation for direct lighting.
func geometrySmith(nv, nl, roughness float32) float32 {
	r := roughness + 1
	k := r * r / 8
	return nv / (nv*(1-k) + k) * nl / (nl*(1-k) + k)
}

func fresnelSchlick(cosTheta float32, f0 mgl32.Vec3) mgl32.Vec3 {
	p := float32(math.Pow(float64(1-cosTheta), 5))
	return mgl32.Vec3{
		f0[0] + (1-f0[0])*p,
		f0[1] + (1-f0[1])*p,
		f0[2] + (1-f0[2])*p,
	}
}

// attenuation is inverse-square falloff windowed to reach zero at rng.
// A non-positive rng means unlimited range.
func attenuation(dist, rng float32) float32 {
	d2 := max(dist*dist, 1e-4)
	if rng <= 0 {
		return 1 / d2
	}
	if dist >= rng {
		return 0
	}
	r := dist / rng
	w := 1 - r*r*r*r
	return w * w / d2
}

func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
