package output

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/stewi1014/mandelzoom/fractal"
)

func renderSmall(t *testing.T, format fractal.PixelFormat) *fractal.RenderTarget {
	t.Helper()
	r := &fractal.Renderer{MaxIter: 40, Format: format}
	target, err := r.Render(context.Background(), fractal.DefaultViewport().AspectCorrect(16, 9), 16, 9)
	require.NoError(t, err)
	return target
}

func assertSamePixels(t *testing.T, target *fractal.RenderTarget, img image.Image) {
	t.Helper()
	require.Equal(t, image.Rect(0, 0, target.Width, target.Height), img.Bounds())
	for y := 0; y < target.Height; y++ {
		for x := 0; x < target.Width; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			want := target.RGBAAt(x, y)
			require.Equal(t, [4]uint32{uint32(want.R), uint32(want.G), uint32(want.B), 0xff},
				[4]uint32{r >> 8, g >> 8, b >> 8, a >> 8}, "pixel %v,%v", x, y)
		}
	}
}

func TestFormatFor(t *testing.T) {
	cases := map[string]string{
		"out.png":     "png",
		"OUT.PNG":     "png",
		"dir/out.bmp": "bmp",
		"out.tif":     "tiff",
		"out.tiff":    "tiff",
	}
	for path, want := range cases {
		got, err := FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFor("out.jpg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncodeDecodes(t *testing.T) {
	decoders := map[string]func(*bytes.Reader) (image.Image, error){
		"png":  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		"bmp":  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		"tiff": func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
	}

	for _, pixelFormat := range []fractal.PixelFormat{fractal.RGB, fractal.RGBA} {
		target := renderSmall(t, pixelFormat)
		for format, decode := range decoders {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, format, target), format)

			img, err := decode(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err, format)
			assertSamePixels(t, target, img)
		}
	}

	assert.ErrorIs(t, Encode(&bytes.Buffer{}, "gif", renderSmall(t, fractal.RGB)), ErrUnsupportedFormat)
}

func TestSave(t *testing.T) {
	target := renderSmall(t, fractal.RGB)
	path := filepath.Join(t.TempDir(), "mandelbrot.png")

	require.NoError(t, Save(path, target))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assertSamePixels(t, target, img)
}

func TestSaveUnsupportedCreatesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mandelbrot.webp")
	assert.Error(t, Save(path, renderSmall(t, fractal.RGB)))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
