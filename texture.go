package soft3d

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
)

// WrapMode controls how texture coordinates outside [0, 1] are resolved.
type WrapMode uint8

const (
	// WrapRepeat tiles the texture.
	WrapRepeat WrapMode = iota
	// WrapClamp repeats the edge texels.
	WrapClamp
)

// FilterMode controls texture interpolation.
type FilterMode uint8

const (
	// FilterBilinear interpolates between the 4 nearest texels.
	FilterBilinear FilterMode = iota
	// FilterNearest selects the texel containing the coordinate.
	FilterNearest
)

// byteToFloat maps an 8-bit channel to [0, 1].
var byteToFloat [256]float32

func init() {
	for i := range byteToFloat {
		byteToFloat[i] = float32(i) / 255
	}
}

// Texture is an immutable 2D image sampled by shaders.
//
// Texels are stored as non-premultiplied 8-bit RGBA. Texture coordinate
// (0, 0) is the top-left corner of the image, (1, 1) the bottom-right.
// A Texture is safe for concurrent sampling.
type Texture struct {
	img    *image.NRGBA
	wrap   WrapMode
	filter FilterMode
}

// TextureOption configures a Texture on creation.
type TextureOption func(*textureOptions)

type textureOptions struct {
	wrap    WrapMode
	filter  FilterMode
	maxSize int
}

// TextureWrap sets the wrap mode (default WrapRepeat).
func TextureWrap(w WrapMode) TextureOption {
	return func(o *textureOptions) { o.wrap = w }
}

// TextureFilter sets the filter mode (default FilterBilinear).
func TextureFilter(f FilterMode) TextureOption {
	return func(o *textureOptions) { o.filter = f }
}

// TextureMaxSize downsamples sources whose larger side exceeds n texels,
// keeping the aspect ratio.
func TextureMaxSize(n int) TextureOption {
	return func(o *textureOptions) { o.maxSize = n }
}

// NewTexture converts img into a Texture. Any image.Image is accepted; the
// pixels are copied, so later changes to img are not visible.
// Returns nil for an empty image.
func NewTexture(img image.Image, opts ...TextureOption) *Texture {
	var o textureOptions
	for _, opt := range opts {
		opt(&o)
	}

	sb := img.Bounds()
	if sb.Empty() {
		return nil
	}
	w, h := sb.Dx(), sb.Dy()
	if o.maxSize > 0 && max(w, h) > o.maxSize {
		scale := float64(o.maxSize) / float64(max(w, h))
		w = max(1, int(math.Round(float64(w)*scale)))
		h = max(1, int(math.Round(float64(h)*scale)))
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == sb.Dx() && h == sb.Dy() {
		xdraw.Draw(dst, dst.Bounds(), img, sb.Min, xdraw.Src)
	} else {
		xdraw.BiLinear.Scale(dst, dst.Bounds(), img, sb, xdraw.Src, nil)
	}
	return &Texture{img: dst, wrap: o.wrap, filter: o.filter}
}

// NewSolidTexture returns a 1x1 texture of color c.
func NewSolidTexture(c mgl32.Vec4) *Texture {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{
		R: unitToByte(c[0]), G: unitToByte(c[1]), B: unitToByte(c[2]), A: unitToByte(c[3]),
	})
	return &Texture{img: img}
}

func unitToByte(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.img.Rect.Dx() }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// Image returns the texel store. It must not be modified.
func (t *Texture) Image() *image.NRGBA { return t.img }

// Texel returns the texel at integer coordinates after applying the wrap mode.
func (t *Texture) Texel(x, y int) mgl32.Vec4 {
	w, h := t.Width(), t.Height()
	x, y = wrapCoord(x, w, t.wrap), wrapCoord(y, h, t.wrap)
	i := y*t.img.Stride + x*4
	p := t.img.Pix[i : i+4 : i+4]
	return mgl32.Vec4{byteToFloat[p[0]], byteToFloat[p[1]], byteToFloat[p[2]], byteToFloat[p[3]]}
}

// Sample returns the filtered color at texture coordinate uv.
func (t *Texture) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	fx := uv[0] * float32(t.Width())
	fy := uv[1] * float32(t.Height())

	if t.filter == FilterNearest {
		return t.Texel(floorInt(fx), floorInt(fy))
	}

	fx -= 0.5
	fy -= 0.5
	x0, y0 := floorInt(fx), floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := t.Texel(x0, y0)
	c10 := t.Texel(x0+1, y0)
	c01 := t.Texel(x0, y0+1)
	c11 := t.Texel(x0+1, y0+1)

	top := c00.Mul(1 - tx).Add(c10.Mul(tx))
	bot := c01.Mul(1 - tx).Add(c11.Mul(tx))
	return top.Mul(1 - ty).Add(bot.Mul(ty))
}

func floorInt(v float32) int {
	return int(math.Floor(float64(v)))
}

func wrapCoord(i, n int, mode WrapMode) int {
	if mode == WrapClamp {
		return min(max(i, 0), n-1)
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// CubeFace indexes the six faces of a Cubemap.
type CubeFace uint8

// Cubemap faces in the conventional +X, -X, +Y, -Y, +Z, -Z order.
const (
	CubePosX CubeFace = iota
	CubeNegX
	CubePosY
	CubeNegY
	CubePosZ
	CubeNegZ
)

// Cubemap is six square textures sampled by direction.
type Cubemap struct {
	Faces [6]*Texture
}

// NewCubemap builds a cubemap from six face images in CubeFace order.
// Faces are clamped at their edges. Returns nil if any face is empty.
func NewCubemap(faces [6]image.Image, opts ...TextureOption) *Cubemap {
	opts = append(opts, TextureWrap(WrapClamp))
	c := &Cubemap{}
	for i, img := range faces {
		if img == nil {
			return nil
		}
		if c.Faces[i] = NewTexture(img, opts...); c.Faces[i] == nil {
			return nil
		}
	}
	return c
}

// CubeFaceUV selects the cube face hit by dir and the coordinate on that face.
func CubeFaceUV(dir mgl32.Vec3) (CubeFace, mgl32.Vec2) {
	x, y, z := dir[0], dir[1], dir[2]
	ax, ay, az := abs32(x), abs32(y), abs32(z)

	var (
		face   CubeFace
		sc, tc float32
		ma     float32
	)
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if x > 0 {
			face, sc, tc = CubePosX, -z, -y
		} else {
			face, sc, tc = CubeNegX, z, -y
		}
	case ay >= az:
		ma = ay
		if y > 0 {
			face, sc, tc = CubePosY, x, z
		} else {
			face, sc, tc = CubeNegY, x, -z
		}
	default:
		ma = az
		if z > 0 {
			face, sc, tc = CubePosZ, x, -y
		} else {
			face, sc, tc = CubeNegZ, -x, -y
		}
	}
	if ma == 0 {
		return CubePosZ, mgl32.Vec2{0.5, 0.5}
	}
	return face, mgl32.Vec2{(sc/ma + 1) * 0.5, (tc/ma + 1) * 0.5}
}

// Sample returns the color seen along dir. Missing faces sample as
// FallbackColor.
func (c *Cubemap) Sample(dir mgl32.Vec3) mgl32.Vec4 {
	face, uv := CubeFaceUV(dir)
	t := c.Faces[face]
	if t == nil {
		return FallbackColor
	}
	return t.Sample(uv)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// DepthMap is a snapshot of a depth plane used for shadow lookups.
type DepthMap struct {
	width, height int
	depth         []float32
}

// NewDepthMap wraps depth values laid out row-major. The slice is not copied.
func NewDepthMap(width, height int, depth []float32) *DepthMap {
	if width <= 0 || height <= 0 || len(depth) < width*height {
		return nil
	}
	return &DepthMap{width: width, height: height, depth: depth}
}

// Width returns the map width.
func (d *DepthMap) Width() int { return d.width }

// Height returns the map height.
func (d *DepthMap) Height() int { return d.height }

// Depth returns the stored depth at (x, y); outside the map it is 1 (far).
func (d *DepthMap) Depth(x, y int) float32 {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return 1
	}
	return d.depth[y*d.width+x]
}

// Visibility returns the lit fraction in [0, 1] of a point whose position in
// the light's clip space is lightClip, using a 3x3 percentage-closer filter.
// Points outside the light frustum are fully lit.
func (d *DepthMap) Visibility(lightClip mgl32.Vec4, bias float32) float32 {
	w := lightClip[3]
	if w <= 0 {
		return 1
	}
	nx, ny, nz := lightClip[0]/w, lightClip[1]/w, lightClip[2]/w
	if nx < -1 || nx > 1 || ny < -1 || ny > 1 || nz > 1 {
		return 1
	}

	depth := nz*0.5 + 0.5 - bias
	px := floorInt((nx + 1) * 0.5 * float32(d.width))
	py := floorInt((1 - ny) * 0.5 * float32(d.height))

	lit := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if depth <= d.Depth(px+dx, py+dy) {
				lit++
			}
		}
	}
	return float32(lit) / 9
}
