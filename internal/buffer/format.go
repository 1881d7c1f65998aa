package buffer

import "github.com/go-gl/mathgl/mgl32"

// Format describes how a color is packed into a 32-bit color plane cell.
type Format uint8

const (
	// FormatRGBA8 stores R in the lowest byte, then G, B and A.
	// This matches image.RGBA byte order on little-endian export.
	FormatRGBA8 Format = iota

	// FormatBGRA8 stores B in the lowest byte, then G, R and A.
	// Common for OS surfaces that blit BGRA.
	FormatBGRA8

	// FormatGray8 stores BT.709 luma in the lowest byte; alpha is always opaque.
	FormatGray8

	formatCount
)

// FormatInfo contains metadata about a color format.
type FormatInfo struct {
	// Channels is the number of stored color channels.
	Channels int

	// HasAlpha indicates if the format keeps alpha.
	HasAlpha bool

	// IsGrayscale indicates a single luma channel.
	IsGrayscale bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatRGBA8: {Channels: 4, HasAlpha: true},
	FormatBGRA8: {Channels: 4, HasAlpha: true},
	FormatGray8: {Channels: 1, IsGrayscale: true},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// IsValid returns true if the format is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	case FormatGray8:
		return "Gray8"
	default:
		return "Unknown"
	}
}

// Pack converts a linear [0,1] color into the packed cell representation.
// Components outside [0,1] are clamped.
func (f Format) Pack(c mgl32.Vec4) uint32 {
	r, g, b, a := toByte(c[0]), toByte(c[1]), toByte(c[2]), toByte(c[3])
	switch f {
	case FormatBGRA8:
		return uint32(b) | uint32(g)<<8 | uint32(r)<<16 | uint32(a)<<24
	case FormatGray8:
		y := toByte(0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2])
		return uint32(y) | 0xFF000000
	default:
		return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
	}
}

// Unpack converts a packed cell back into a [0,1] color.
func (f Format) Unpack(p uint32) mgl32.Vec4 {
	b0 := fromByte(byte(p))
	b1 := fromByte(byte(p >> 8))
	b2 := fromByte(byte(p >> 16))
	b3 := fromByte(byte(p >> 24))
	switch f {
	case FormatBGRA8:
		return mgl32.Vec4{b2, b1, b0, b3}
	case FormatGray8:
		return mgl32.Vec4{b0, b0, b0, 1}
	default:
		return mgl32.Vec4{b0, b1, b2, b3}
	}
}

// RGBA8 returns the packed cell as R, G, B, A bytes.
func (f Format) RGBA8(p uint32) (r, g, b, a byte) {
	switch f {
	case FormatBGRA8:
		return byte(p >> 16), byte(p >> 8), byte(p), byte(p >> 24)
	case FormatGray8:
		return byte(p), byte(p), byte(p), 0xFF
	default:
		return byte(p), byte(p >> 8), byte(p >> 16), byte(p >> 24)
	}
}

// CopyRGBA writes the plane into dst as tightly packed RGBA bytes.
// dst must hold at least 4*Width()*Height() bytes; returns false otherwise.
func CopyRGBA(dst []byte, src *Buffer[uint32], f Format) bool {
	if len(dst) < len(src.data)*4 {
		return false
	}
	for i, p := range src.data {
		o := i * 4
		dst[o], dst[o+1], dst[o+2], dst[o+3] = f.RGBA8(p)
	}
	return true
}

func toByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

func fromByte(b byte) float32 {
	return float32(b) / 255
}
