// Package blend implements the fixed-function color blend equation.
//
// All values are straight (non-premultiplied) float32 RGBA in [0, 1]:
//
//	result = Op(src * SrcFactor, dst * DstFactor)
//
// evaluated per channel, with the alpha channel using the same factors.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - OpenGL 4.6 core profile, section 17.3.6 "Blending"
package blend

import "github.com/go-gl/mathgl/mgl32"

// Factor scales the source or destination color before the Op combines them.
type Factor uint8

const (
	Zero             Factor = iota // (0, 0, 0, 0)
	One                            // (1, 1, 1, 1)
	SrcColor                       // (Rs, Gs, Bs, As)
	OneMinusSrcColor               // 1 - (Rs, Gs, Bs, As)
	SrcAlpha                       // (As, As, As, As)
	OneMinusSrcAlpha               // 1 - As
	DstAlpha                       // (Ad, Ad, Ad, Ad)
	OneMinusDstAlpha               // 1 - Ad
	DstColor                       // (Rd, Gd, Bd, Ad)
	OneMinusDstColor               // 1 - (Rd, Gd, Bd, Ad)
)

// String returns the factor name.
func (f Factor) String() string {
	switch f {
	case Zero:
		return "Zero"
	case One:
		return "One"
	case SrcColor:
		return "SrcColor"
	case OneMinusSrcColor:
		return "OneMinusSrcColor"
	case SrcAlpha:
		return "SrcAlpha"
	case OneMinusSrcAlpha:
		return "OneMinusSrcAlpha"
	case DstAlpha:
		return "DstAlpha"
	case OneMinusDstAlpha:
		return "OneMinusDstAlpha"
	case DstColor:
		return "DstColor"
	case OneMinusDstColor:
		return "OneMinusDstColor"
	default:
		return "Unknown"
	}
}

// Op combines the weighted source and destination.
type Op uint8

const (
	Add             Op = iota // s + d
	Subtract                  // s - d
	ReverseSubtract           // d - s
	Min                       // min(src, dst), factors ignored
	Max                       // max(src, dst), factors ignored
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case Add:
		return "Add"
	case Subtract:
		return "Subtract"
	case ReverseSubtract:
		return "ReverseSubtract"
	case Min:
		return "Min"
	case Max:
		return "Max"
	default:
		return "Unknown"
	}
}

// Equation is a complete blend configuration.
type Equation struct {
	Src Factor
	Dst Factor
	Op  Op
}

// Weight returns the per-channel multiplier of factor f.
func Weight(f Factor, src, dst mgl32.Vec4) mgl32.Vec4 {
	switch f {
	case Zero:
		return mgl32.Vec4{}
	case One:
		return mgl32.Vec4{1, 1, 1, 1}
	case SrcColor:
		return src
	case OneMinusSrcColor:
		return oneMinus(src)
	case SrcAlpha:
		return splat(src[3])
	case OneMinusSrcAlpha:
		return splat(1 - src[3])
	case DstAlpha:
		return splat(dst[3])
	case OneMinusDstAlpha:
		return splat(1 - dst[3])
	case DstColor:
		return dst
	case OneMinusDstColor:
		return oneMinus(dst)
	default:
		return mgl32.Vec4{1, 1, 1, 1}
	}
}

// Apply evaluates the equation and clamps the result to [0, 1].
func (e Equation) Apply(src, dst mgl32.Vec4) mgl32.Vec4 {
	var out mgl32.Vec4
	switch e.Op {
	case Min:
		for i := range 4 {
			out[i] = min(src[i], dst[i])
		}
		return clamp01(out)
	case Max:
		for i := range 4 {
			out[i] = max(src[i], dst[i])
		}
		return clamp01(out)
	}

	s := mul(src, Weight(e.Src, src, dst))
	d := mul(dst, Weight(e.Dst, src, dst))
	switch e.Op {
	case Subtract:
		out = s.Sub(d)
	case ReverseSubtract:
		out = d.Sub(s)
	default:
		out = s.Add(d)
	}
	return clamp01(out)
}

func mul(a, b mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

func splat(v float32) mgl32.Vec4 {
	return mgl32.Vec4{v, v, v, v}
}

func oneMinus(v mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{1 - v[0], 1 - v[1], 1 - v[2], 1 - v[3]}
}

func clamp01(v mgl32.Vec4) mgl32.Vec4 {
	for i := range 4 {
		v[i] = mgl32.Clamp(v[i], 0, 1)
	}
	return v
}
