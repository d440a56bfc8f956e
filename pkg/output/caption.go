package output

import (
	"image"
	"image/draw"

	"github.com/fogleman/gg"
)

const captionPadding = 4.0

// Annotate returns a copy of img with text drawn on a dark strip along the bottom edge
func Annotate(img image.Image, text string) *image.RGBA {
	dc := gg.NewContextForImage(img)
	width := float64(dc.Width())
	height := float64(dc.Height())

	_, textHeight := dc.MeasureString(text)
	barHeight := textHeight + 2*captionPadding

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, height-barHeight, width, barHeight)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(text, captionPadding, height-barHeight/2, 0, 0.5)

	if rgba, ok := dc.Image().(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(dc.Image().Bounds())
	draw.Draw(out, out.Bounds(), dc.Image(), out.Bounds().Min, draw.Src)
	return out
}
