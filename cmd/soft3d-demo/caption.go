package main

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/soft3d"
)

func caption(frame int, s soft3d.FrameStats) string {
	return fmt.Sprintf("frame %d  tris %d  frags %d  %.1fms",
		frame, s.Triangles, s.Fragments, float64(s.Duration.Microseconds())/1000)
}

// drawCaption stamps text in the top-left corner over a dark backing strip.
func drawCaption(img *image.NRGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
	}
	w := d.MeasureString(text).Ceil()
	strip := image.Rect(0, 0, w+12, face.Height+8).Intersect(img.Bounds())
	for y := strip.Min.Y; y < strip.Max.Y; y++ {
		for x := strip.Min.X; x < strip.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
	d.Dot = fixed.P(6, 4+face.Ascent)
	d.DrawString(text)
}
