package output

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func newTestImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodePPM(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{1, 2, 3, 255})

	var buf bytes.Buffer
	if err := EncodePPM(&buf, img); err != nil {
		t.Fatalf("EncodePPM failed: %v", err)
	}

	expected := "P3\n2 2\n255\n255 0 0\n0 255 0\n0 0 255\n1 2 3\n"
	if buf.String() != expected {
		t.Errorf("Expected:\n%q\ngot:\n%q", expected, buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"ppm", FormatPPM, false},
		{".PNG", FormatPNG, false},
		{"bmp", FormatBMP, false},
		{"tif", FormatTIFF, false},
		{".tiff", FormatTIFF, false},
		{"jpg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("output/render.tiff"); err != nil || f != FormatTIFF {
		t.Errorf("Expected tiff, got %q (%v)", f, err)
	}
	if _, err := FormatFromPath("render"); err == nil {
		t.Error("Expected an error for a path without extension")
	}
}

func TestEncode_AllFormatsDecode(t *testing.T) {
	img := newTestImage(5, 3, color.RGBA{10, 200, 30, 255})

	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		FormatPNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		FormatBMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		FormatTIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
	}

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, img, format); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if buf.Len() == 0 {
				t.Fatal("Expected encoded bytes")
			}

			decode, ok := decoders[format]
			if !ok {
				return
			}
			decoded, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if decoded.Bounds().Dx() != 5 || decoded.Bounds().Dy() != 3 {
				t.Errorf("Expected 5x3, got %v", decoded.Bounds())
			}
			r, g, b, _ := decoded.At(2, 1).RGBA()
			if r>>8 != 10 || g>>8 != 200 || b>>8 != 30 {
				t.Errorf("Expected (10, 200, 30), got (%d, %d, %d)", r>>8, g>>8, b>>8)
			}
		})
	}

	if err := Encode(&bytes.Buffer{}, img, Format("gif")); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "render.ppm")
	img := newTestImage(2, 1, color.RGBA{1, 2, 3, 255})

	if err := SaveImage(path, img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(data) != "P3\n2 1\n255\n1 2 3\n1 2 3\n" {
		t.Errorf("Unexpected file contents %q", data)
	}

	if err := SaveImage(filepath.Join(dir, "render.xyz"), img); err == nil {
		t.Error("Expected an error for an unknown extension")
	}
}

func TestContentType(t *testing.T) {
	if FormatPNG.ContentType() != "image/png" || FormatPPM.ContentType() != "image/x-portable-pixmap" {
		t.Error("Unexpected content types")
	}
}

func TestAnnotate(t *testing.T) {
	gray := color.RGBA{128, 128, 128, 255}
	img := newTestImage(120, 60, gray)

	out := Annotate(img, "100 spp")

	if out.Bounds() != img.Bounds() {
		t.Fatalf("Expected bounds %v, got %v", img.Bounds(), out.Bounds())
	}
	if out.RGBAAt(0, 0) != gray {
		t.Errorf("Expected the top edge untouched, got %v", out.RGBAAt(0, 0))
	}
	if corner := out.RGBAAt(119, 59); corner.R >= gray.R {
		t.Errorf("Expected the caption strip to darken the bottom edge, got %v", corner)
	}
	if img.RGBAAt(119, 59) != gray {
		t.Error("Annotate must not modify its input")
	}
}
