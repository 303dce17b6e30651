// Package output encodes render targets into image files.
package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/stewi1014/mandelzoom/fractal"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

type Encoder func(w io.Writer, img image.Image) error

var encoders = map[string]Encoder{
	"png": png.Encode,
	"bmp": bmp.Encode,
	"tiff": func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	},
}

var extensions = map[string]string{
	".png":  "png",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
}

// Formats lists the names accepted by Encode.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatFor picks the image format from a file name's extension.
func FormatFor(path string) (string, error) {
	format, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%w: %q (use one of %v)", ErrUnsupportedFormat, filepath.Ext(path), Formats())
	}
	return format, nil
}

func Encode(w io.Writer, format string, target *fractal.RenderTarget) error {
	enc, ok := encoders[format]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return enc(w, target.Image())
}

// Save writes target to path in the format named by its extension. A partly
// written file is removed if encoding fails.
func Save(path string, target *fractal.RenderTarget) (err error) {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(file.Name())
		}
	}()

	if err := Encode(file, format, target); err != nil {
		return fmt.Errorf("encoding %v: %w", format, err)
	}
	return nil
}
