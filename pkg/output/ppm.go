package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

// EncodePPM writes img as a plain-text P3 pixmap with a maximum value of 255,
// one pixel per line, rows top first
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B)
		}
	}

	return errors.Wrap(bw.Flush(), "failed to write PPM")
}
