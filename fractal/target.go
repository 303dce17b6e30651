package fractal

import (
	"fmt"
	"image"
	"image/color"
)

type PixelFormat int

const (
	RGB PixelFormat = iota
	RGBA
)

func (f PixelFormat) BytesPerPixel() int {
	if f == RGBA {
		return 4
	}
	return 3
}

func (f PixelFormat) String() string {
	switch f {
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

func ParsePixelFormat(s string) (PixelFormat, error) {
	switch s {
	case "rgb", "":
		return RGB, nil
	case "rgba":
		return RGBA, nil
	}
	return 0, fmt.Errorf("unknown pixel format %q", s)
}

// RenderTarget is a row major pixel buffer. Each pixel is Format.BytesPerPixel()
// consecutive bytes in red, green, blue order, followed by an opaque alpha byte
// for RGBA.
type RenderTarget struct {
	Width, Height int
	Format        PixelFormat
	Pix           []byte
}

func NewRenderTarget(width, height int, format PixelFormat) *RenderTarget {
	return &RenderTarget{
		Width:  width,
		Height: height,
		Format: format,
		Pix:    make([]byte, width*height*format.BytesPerPixel()),
	}
}

func (t *RenderTarget) Stride() int {
	return t.Width * t.Format.BytesPerPixel()
}

// Row returns the bytes of row y.
func (t *RenderTarget) Row(y int) []byte {
	stride := t.Stride()
	return t.Pix[y*stride : (y+1)*stride : (y+1)*stride]
}

func (t *RenderTarget) RGBAAt(x, y int) color.RGBA {
	bpp := t.Format.BytesPerPixel()
	p := t.Pix[y*t.Stride()+x*bpp:]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: 0xff}
}

// Image exposes the buffer to image encoders. RGBA targets share Pix with the
// returned *image.RGBA.
func (t *RenderTarget) Image() image.Image {
	if t.Format == RGBA {
		return &image.RGBA{
			Pix:    t.Pix,
			Stride: t.Stride(),
			Rect:   image.Rect(0, 0, t.Width, t.Height),
		}
	}
	return &rgbImage{t}
}

type rgbImage struct {
	*RenderTarget
}

func (i *rgbImage) At(x, y int) color.Color {
	return i.RGBAAt(x, y)
}

func (i *rgbImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.Width, i.Height)
}

func (i *rgbImage) ColorModel() color.Model {
	return color.RGBAModel
}

func (i *rgbImage) Opaque() bool {
	return true
}
