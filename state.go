package soft3d

import (
	"image"

	"github.com/gogpu/soft3d/internal/blend"
)

// CompareFunc is a depth or stencil comparison.
// The incoming value is the left operand: Less passes when incoming < stored.
type CompareFunc uint8

const (
	CompareAlways CompareFunc = iota
	CompareNever
	CompareLess
	CompareLessEqual
	CompareEqual
	CompareGreaterEqual
	CompareGreater
	CompareNotEqual
)

// Test applies the comparison.
func (f CompareFunc) Test(incoming, stored float32) bool {
	switch f {
	case CompareNever:
		return false
	case CompareLess:
		return incoming < stored
	case CompareLessEqual:
		return incoming <= stored
	case CompareEqual:
		return incoming == stored
	case CompareGreaterEqual:
		return incoming >= stored
	case CompareGreater:
		return incoming > stored
	case CompareNotEqual:
		return incoming != stored
	default:
		return true
	}
}

// String returns the comparison name.
func (f CompareFunc) String() string {
	switch f {
	case CompareAlways:
		return "Always"
	case CompareNever:
		return "Never"
	case CompareLess:
		return "Less"
	case CompareLessEqual:
		return "LessEqual"
	case CompareEqual:
		return "Equal"
	case CompareGreaterEqual:
		return "GreaterEqual"
	case CompareGreater:
		return "Greater"
	case CompareNotEqual:
		return "NotEqual"
	default:
		return "Unknown"
	}
}

// StencilOp updates a stencil value after the stencil and depth tests.
type StencilOp uint8

const (
	StencilKeep     StencilOp = iota // keep the stored value
	StencilZero                      // set to 0
	StencilReplace                   // set to the reference value
	StencilIncr                      // increment, saturating at 255
	StencilIncrWrap                  // increment, wrapping to 0
	StencilDecr                      // decrement, saturating at 0
	StencilDecrWrap                  // decrement, wrapping to 255
	StencilInvert                    // bitwise invert
)

// Apply returns the new stencil value. Only bits set in writeMask change.
func (op StencilOp) Apply(stored, ref, writeMask uint8) uint8 {
	var v uint8
	switch op {
	case StencilZero:
		v = 0
	case StencilReplace:
		v = ref
	case StencilIncr:
		v = stored
		if v < 255 {
			v++
		}
	case StencilIncrWrap:
		v = stored + 1
	case StencilDecr:
		v = stored
		if v > 0 {
			v--
		}
	case StencilDecrWrap:
		v = stored - 1
	case StencilInvert:
		v = ^stored
	default:
		return stored
	}
	return stored&^writeMask | v&writeMask
}

// StencilState configures the stencil test.
//
// The test compares (Ref & ReadMask) against (stored & ReadMask) with Func.
// Fail runs when the stencil test fails, ZFail when it passes but the depth
// test fails, Pass when both pass.
type StencilState struct {
	Enabled   bool
	Ref       uint8
	ReadMask  uint8
	WriteMask uint8
	Func      CompareFunc
	Pass      StencilOp
	Fail      StencilOp
	ZFail     StencilOp
}

// Test runs the stencil comparison against a stored value.
func (s *StencilState) Test(stored uint8) bool {
	return s.Func.Test(float32(s.Ref&s.ReadMask), float32(stored&s.ReadMask))
}

// StencilWrite returns a stencil state that always passes and writes ref.
func StencilWrite(ref uint8) StencilState {
	return StencilState{
		Enabled:   true,
		Ref:       ref,
		ReadMask:  0xFF,
		WriteMask: 0xFF,
		Func:      CompareAlways,
		Pass:      StencilReplace,
	}
}

// StencilMatch returns a stencil state that passes where the stored value
// equals ref and never modifies the buffer.
func StencilMatch(ref uint8) StencilState {
	return StencilState{
		Enabled:  true,
		Ref:      ref,
		ReadMask: 0xFF,
		Func:     CompareEqual,
	}
}

// ColorMask selects which color channels are written.
type ColorMask uint8

const (
	ColorMaskR ColorMask = 1 << iota
	ColorMaskG
	ColorMaskB
	ColorMaskA

	ColorMaskNone ColorMask = 0
	ColorMaskRGB            = ColorMaskR | ColorMaskG | ColorMaskB
	ColorMaskAll            = ColorMaskRGB | ColorMaskA
)

// Has reports whether channel i (0=R .. 3=A) is written.
func (m ColorMask) Has(i int) bool {
	return m&(1<<i) != 0
}

// BlendFactor weights the source or destination color.
type BlendFactor = blend.Factor

// Blend factors.
const (
	BlendZero             = blend.Zero
	BlendOne              = blend.One
	BlendSrcColor         = blend.SrcColor
	BlendOneMinusSrcColor = blend.OneMinusSrcColor
	BlendSrcAlpha         = blend.SrcAlpha
	BlendOneMinusSrcAlpha = blend.OneMinusSrcAlpha
	BlendDstAlpha         = blend.DstAlpha
	BlendOneMinusDstAlpha = blend.OneMinusDstAlpha
	BlendDstColor         = blend.DstColor
	BlendOneMinusDstColor = blend.OneMinusDstColor
)

// BlendOp combines the weighted source and destination.
type BlendOp = blend.Op

// Blend operations.
const (
	BlendAdd             = blend.Add
	BlendSubtract        = blend.Subtract
	BlendReverseSubtract = blend.ReverseSubtract
	BlendMin             = blend.Min
	BlendMax             = blend.Max
)

// RenderState is the fixed-function state of a material.
type RenderState struct {
	// DepthFunc compares incoming depth against the depth plane.
	// CompareAlways disables the depth test.
	DepthFunc CompareFunc

	// DepthWrite stores the fragment depth when depth and stencil pass.
	DepthWrite bool

	Stencil StencilState

	// Transparent enables blending with SrcBlend, DstBlend and BlendOp.
	// Otherwise fragments overwrite the color plane.
	Transparent bool
	SrcBlend    BlendFactor
	DstBlend    BlendFactor
	BlendOp     BlendOp

	ColorMask ColorMask

	// DoubleSided disables back-face culling.
	DoubleSided bool

	// Scissor restricts writes to a pixel rectangle. An empty rectangle
	// disables the scissor test.
	Scissor image.Rectangle
}

// DefaultRenderState returns opaque state: depth Less with writes, no
// stencil, all channels written, back faces culled. Use CompareAlways to
// disable the depth test.
func DefaultRenderState() RenderState {
	return RenderState{
		DepthFunc:  CompareLess,
		DepthWrite: true,
		SrcBlend:   BlendOne,
		DstBlend:   BlendZero,
		BlendOp:    BlendAdd,
		ColorMask:  ColorMaskAll,
	}
}

// TransparentRenderState returns straight alpha blending with depth testing
// but no depth writes.
func TransparentRenderState() RenderState {
	s := DefaultRenderState()
	s.DepthWrite = false
	s.Transparent = true
	s.SrcBlend = BlendSrcAlpha
	s.DstBlend = BlendOneMinusSrcAlpha
	return s
}

func (s *RenderState) equation() blend.Equation {
	return blend.Equation{Src: s.SrcBlend, Dst: s.DstBlend, Op: s.BlendOp}
}
