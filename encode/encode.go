// Package encode writes render output to PNG and TIFF.
//
// Final images keep their bit depth: 8-bit images are sRGB, 16-bit images
// are display-linear. Layer buffers are always written as 16-bit
// linear-light RGB, clamped to [0, 1].
package encode

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/gogpu/starchart"
	"github.com/gogpu/starchart/internal/color"
)

// Format is an output container.
type Format int

const (
	PNG Format = iota
	TIFF
)

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case TIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return 0, fmt.Errorf("encode: unsupported extension %q (want .png, .tif or .tiff)", filepath.Ext(path))
	}
}

// Encode writes m in format f.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, m)
	case TIFF:
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("encode: unknown format %v", f)
	}
}

// Image writes the final render.
func Image(w io.Writer, m *starchart.Image, f Format) error {
	return Encode(w, m.ToImage(), f)
}

// Layer writes a linear layer buffer as 16-bit RGB.
func Layer(w io.Writer, b *starchart.LayerBuffer, f Format) error {
	return Encode(w, LayerImage(b), f)
}

// LayerImage quantizes a layer buffer to an opaque *image.NRGBA64.
func LayerImage(b *starchart.LayerBuffer) *image.NRGBA64 {
	out := image.NewNRGBA64(image.Rect(0, 0, b.Width, b.Height))
	for p := 0; p < b.Width*b.Height; p++ {
		o := out.Pix[p*8 : p*8+8]
		for c := 0; c < 3; c++ {
			v := color.Linear16(b.Pix[p*3+c])
			o[c*2], o[c*2+1] = uint8(v>>8), uint8(v)
		}
		o[6], o[7] = 0xff, 0xff
	}
	return out
}

// WriteFile writes the final render to path, choosing the format from
// the extension.
func WriteFile(path string, m *starchart.Image) error {
	return writeFile(path, m.ToImage())
}

// WriteLayer writes a layer buffer to path, choosing the format from the
// extension.
func WriteLayer(path string, b *starchart.LayerBuffer) error {
	return writeFile(path, LayerImage(b))
}

func writeFile(path string, m image.Image) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(out, m, f)
}

// LayerPath derives the file name of a layer from the output path:
// "chart.png" becomes "chart.ui_glow.png".
func LayerPath(output string, l starchart.Layer) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "." + l.String() + ext
}
