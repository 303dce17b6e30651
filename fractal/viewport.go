package fractal

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	ZoomIn  = 2.0
	ZoomOut = 1 / ZoomIn
)

var ErrInvalidViewport = errors.New("invalid viewport")

// Viewport is the rectangle of the complex plane mapped onto the pixel grid.
// It is a value; transforms return a new Viewport rather than updating fields.
type Viewport struct {
	XStart, XEnd float64
	YStart, YEnd float64
}

func DefaultViewport() Viewport {
	return Viewport{
		XStart: -2, XEnd: 2,
		YStart: -2, YEnd: 2,
	}
}

// ZoomForScroll returns the zoom factor for a scroll step; scrolling up zooms in.
func ZoomForScroll(up bool) float64 {
	if up {
		return ZoomIn
	}
	return ZoomOut
}

func (v Viewport) Validate() error {
	for _, f := range [...]float64{v.XStart, v.XEnd, v.YStart, v.YEnd} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite bound in %v", ErrInvalidViewport, v)
		}
	}
	if v.XEnd <= v.XStart || v.YEnd <= v.YStart {
		return fmt.Errorf("%w: empty rectangle %v", ErrInvalidViewport, v)
	}
	return nil
}

func (v Viewport) Size() mgl64.Vec2 {
	return mgl64.Vec2{v.XEnd - v.XStart, v.YEnd - v.YStart}
}

func (v Viewport) Center() mgl64.Vec2 {
	return mgl64.Vec2{(v.XStart + v.XEnd) / 2, (v.YStart + v.YEnd) / 2}
}

// Step returns the plane distance between neighbouring pixel centres when v
// is sampled on a width x height grid whose corner pixels sit on v's corners.
func (v Viewport) Step(width, height int) mgl64.Vec2 {
	size := v.Size()
	return mgl64.Vec2{
		size.X() / float64(width-1),
		size.Y() / float64(height-1),
	}
}

func (v Viewport) String() string {
	return fmt.Sprintf("%v, %v, %v, %v", v.XStart, v.XEnd, v.YStart, v.YEnd)
}

// ScaleAboutPoint zooms v by zoom while keeping the plane point under the cursor
// fixed on screen, then aspect corrects the result for the canvas.
func (v Viewport) ScaleAboutPoint(canvasWidth, canvasHeight, cursorX, cursorY, zoom float64) Viewport {
	mustCanvas(canvasWidth, canvasHeight)
	mustZoom(zoom)

	size := v.Size()
	fx, fy := cursorX/canvasWidth, cursorY/canvasHeight
	anchor := mgl64.Vec2{
		v.XStart + fx*size.X(),
		v.YStart + fy*size.Y(),
	}

	scaled := size.Mul(1 / zoom)
	return Viewport{
		XStart: anchor.X() - fx*scaled.X(),
		XEnd:   anchor.X() + (1-fx)*scaled.X(),
		YStart: anchor.Y() - fy*scaled.Y(),
		YEnd:   anchor.Y() + (1-fy)*scaled.Y(),
	}.AspectCorrect(canvasWidth, canvasHeight)
}

// AspectCorrect returns v resized about its centre so that its width/height
// ratio equals the canvas ratio. On a landscape canvas the height is kept and the
// width derived from it; otherwise the width is kept.
func (v Viewport) AspectCorrect(canvasWidth, canvasHeight float64) Viewport {
	mustCanvas(canvasWidth, canvasHeight)

	aspect := canvasWidth / canvasHeight
	size, center := v.Size(), v.Center()

	if aspect > 1 {
		half := size.Y() * aspect / 2
		v.XStart, v.XEnd = center.X()-half, center.X()+half
	} else {
		half := size.X() / aspect / 2
		v.YStart, v.YEnd = center.Y()-half, center.Y()+half
	}
	return v
}

// ScaleAboutCenter positions v's extents, divided by zoom, around
// (centerX, centerY) and widens the short axis to match the canvas. v acts as the
// base rectangle, so its bounds are offsets from the origin rather than a
// position; this is what batch renders use instead of cursor anchored zoom.
func (v Viewport) ScaleAboutCenter(canvasWidth, canvasHeight, centerX, centerY, zoom float64) Viewport {
	mustCanvas(canvasWidth, canvasHeight)
	mustZoom(zoom)

	out := Viewport{
		XStart: centerX + v.XStart/zoom,
		XEnd:   centerX + v.XEnd/zoom,
		YStart: centerY + v.YStart/zoom,
		YEnd:   centerY + v.YEnd/zoom,
	}

	size := out.Size()
	adjustment := (canvasWidth / canvasHeight) / (size.X() / size.Y())
	if adjustment > 1 {
		diff := (size.X()*adjustment - size.X()) / 2
		out.XStart -= diff
		out.XEnd += diff
	} else {
		diff := (size.Y()/adjustment - size.Y()) / 2
		out.YStart -= diff
		out.YEnd += diff
	}
	return out
}

func mustCanvas(width, height float64) {
	if !(width > 0) || !(height > 0) {
		panic(fmt.Sprintf("fractal: degenerate canvas %vx%v", width, height))
	}
}

func mustZoom(zoom float64) {
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		panic(fmt.Sprintf("fractal: zoom factor must be positive and finite, got %v", zoom))
	}
}
