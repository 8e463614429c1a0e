// Package imgfile writes rendered intensity buffers as grayscale image files.
package imgfile

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	mandel "github.com/marben/grayscale_mandel"
)

type Format int

const (
	PNG Format = iota
	TIFF
	BMP
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks the format by the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return PNG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".bmp":
		return BMP, nil
	default:
		return 0, fmt.Errorf("unsupported image extension %q", ext)
	}
}

// Gray wraps row-major pixels as an 8-bit grayscale image without copying.
func Gray(pixels []byte, b mandel.Bounds) *image.Gray {
	return &image.Gray{
		Pix:    pixels,
		Stride: b.Width,
		Rect:   b.Rect(),
	}
}

func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported format %v", f)
	}
}

// WriteFile writes pixels with bounds b to filename, in the format given by its extension.
func WriteFile(filename string, pixels []byte, b mandel.Bounds) (err error) {
	if len(pixels) != b.Width*b.Height {
		return fmt.Errorf("%d pixels do not match bounds %dx%d", len(pixels), b.Width, b.Height)
	}
	format, err := FormatFromPath(filename)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := Encode(f, Gray(pixels, b), format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}

	return nil
}
