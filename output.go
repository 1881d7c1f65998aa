package soft3d

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/soft3d/internal/buffer"
)

// Presenter receives finished frames, for example to blit them to a window.
// The image is owned by the presenter once Present returns.
type Presenter interface {
	Present(img *image.NRGBA) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(img *image.NRGBA) error

// Present calls f(img).
func (f PresenterFunc) Present(img *image.NRGBA) error {
	return f(img)
}

// Present hands a copy of the color plane to pr. It is only valid between
// frames.
func (p *Pipeline) Present(pr Presenter) error {
	if p.inFrame {
		return ErrFrameInProgress
	}
	if pr == nil {
		return nil
	}
	if err := pr.Present(p.Image()); err != nil {
		return fmt.Errorf("soft3d: present: %w", err)
	}
	return nil
}

// Image returns a copy of the color plane as non-premultiplied RGBA.
// In depth-only mode the image holds the last clear color, or is black if
// the plane was never written.
func (p *Pipeline) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	buffer.CopyRGBA(img.Pix, p.color, p.opts.format)
	return img
}

// DepthImage returns the depth plane as 16-bit grayscale, white at the far
// plane.
func (p *Pipeline) DepthImage() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, p.width, p.height))
	for i, d := range p.depth.Data() {
		v := uint16(mgl32.Clamp(d, 0, 1)*0xFFFF + 0.5)
		img.Pix[2*i] = byte(v >> 8)
		img.Pix[2*i+1] = byte(v)
	}
	return img
}

// StencilImage returns the stencil plane as 8-bit grayscale.
func (p *Pipeline) StencilImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.stencil.Data())
	return img
}

// DepthMap returns a copy of the depth plane that shaders can sample as a
// shadow map.
func (p *Pipeline) DepthMap() *DepthMap {
	d := make([]float32, len(p.depth.Data()))
	copy(d, p.depth.Data())
	return NewDepthMap(p.width, p.height, d)
}

// SavePNG writes the color plane to path.
func (p *Pipeline) SavePNG(path string) error {
	return savePNG(path, p.Image())
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Color returns the color stored at (x, y).
func (p *Pipeline) Color(x, y int) (mgl32.Vec4, bool) {
	v, ok := p.color.Get(x, y)
	if !ok {
		return mgl32.Vec4{}, false
	}
	return p.opts.format.Unpack(v), true
}

// ColorNRGBA returns the 8-bit color stored at (x, y).
func (p *Pipeline) ColorNRGBA(x, y int) color.NRGBA {
	v, ok := p.color.Get(x, y)
	if !ok {
		return color.NRGBA{}
	}
	r, g, b, a := p.opts.format.RGBA8(v)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Depth returns the depth stored at (x, y), or 1 outside the target.
func (p *Pipeline) Depth(x, y int) float32 {
	v, ok := p.depth.Get(x, y)
	if !ok {
		return 1
	}
	return v
}

// Stencil returns the stencil value stored at (x, y).
func (p *Pipeline) Stencil(x, y int) uint8 {
	v, _ := p.stencil.Get(x, y)
	return v
}
