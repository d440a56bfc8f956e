package output

import (
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format identifies an image encoding
type Format string

const (
	FormatPPM  Format = "ppm"  // Plain (P3) portable pixmap
	FormatPNG  Format = "png"  // Portable network graphics
	FormatBMP  Format = "bmp"  // Windows bitmap
	FormatTIFF Format = "tiff" // Tagged image file format, deflate compressed
)

// Formats lists the supported encodings
var Formats = []Format{FormatPPM, FormatPNG, FormatBMP, FormatTIFF}

// ParseFormat resolves a format name or extension, with or without a leading dot
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "ppm":
		return FormatPPM, nil
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return "", errors.Errorf("unsupported image format %q", name)
	}
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.Errorf("cannot determine image format of %q: no extension", path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/x-portable-pixmap"
	}
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPPM:
		err = EncodePPM(w, img)
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.Errorf("unsupported image format %q", format)
	}
	return errors.Wrapf(err, "failed to encode %s", format)
}

// SaveImage writes img to path, choosing the format from the extension
func SaveImage(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}

	if err := Encode(file, img, format); err != nil {
		file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "failed to close output file")
}
