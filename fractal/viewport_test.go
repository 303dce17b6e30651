package fractal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func assertViewportsEqual(t *testing.T, want, got Viewport) {
	t.Helper()
	assert.InDelta(t, want.XStart, got.XStart, tolerance, "XStart")
	assert.InDelta(t, want.XEnd, got.XEnd, tolerance, "XEnd")
	assert.InDelta(t, want.YStart, got.YStart, tolerance, "YStart")
	assert.InDelta(t, want.YEnd, got.YEnd, tolerance, "YEnd")
}

func aspect(v Viewport) float64 {
	size := v.Size()
	return size.X() / size.Y()
}

func TestDefaultViewport(t *testing.T) {
	v := DefaultViewport()
	require.NoError(t, v.Validate())
	assert.Equal(t, Viewport{-2, 2, -2, 2}, v)
	assert.Equal(t, 0.0, v.Center().X())
	assert.Equal(t, 4.0, v.Size().Y())
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Viewport{1, 1, 0, 1}.Validate(), ErrInvalidViewport)
	assert.ErrorIs(t, Viewport{0, 1, 2, 1}.Validate(), ErrInvalidViewport)

	var zero float64
	assert.ErrorIs(t, Viewport{0, 1 / zero, 0, 1}.Validate(), ErrInvalidViewport)
}

func TestZoomForScroll(t *testing.T) {
	assert.Equal(t, 2.0, ZoomForScroll(true))
	assert.Equal(t, 0.5, ZoomForScroll(false))
}

func TestScaleAboutPointIdentity(t *testing.T) {
	sizes := [][2]float64{{800, 600}, {600, 800}, {500, 500}}
	for _, s := range sizes {
		w, h := s[0], s[1]
		v := DefaultViewport().AspectCorrect(w, h)
		got := v.ScaleAboutPoint(w, h, w/2, h/2, 1)
		assertViewportsEqual(t, v, got)
	}
}

func TestScaleAboutPointRoundTrip(t *testing.T) {
	w, h := 1280.0, 720.0
	v := DefaultViewport().AspectCorrect(w, h)

	cursors := [][2]float64{{0, 0}, {100, 600}, {640, 360}, {1279, 1}}
	for _, c := range cursors {
		in := v.ScaleAboutPoint(w, h, c[0], c[1], ZoomIn)
		out := in.ScaleAboutPoint(w, h, c[0], c[1], ZoomOut)
		assertViewportsEqual(t, v, out)
	}
}

func TestScaleAboutPointKeepsAnchor(t *testing.T) {
	w, h := 1000.0, 1000.0
	v := DefaultViewport()
	cx, cy := 250.0, 750.0

	anchorX := v.XStart + cx/w*v.Size().X()
	anchorY := v.YStart + cy/h*v.Size().Y()

	z := v.ScaleAboutPoint(w, h, cx, cy, ZoomIn)
	assert.InDelta(t, anchorX, z.XStart+cx/w*z.Size().X(), tolerance)
	assert.InDelta(t, anchorY, z.YStart+cy/h*z.Size().Y(), tolerance)
	assert.InDelta(t, 2.0, z.Size().X(), tolerance)
	assert.InDelta(t, 2.0, z.Size().Y(), tolerance)
}

func TestAspectInvariant(t *testing.T) {
	sizes := [][2]float64{{2560, 1600}, {1600, 2560}, {3, 2}, {2, 3}, {1, 1}, {1920, 1080}}
	starts := []Viewport{DefaultViewport(), {-2, 0.47, -1.12, 1.12}, {-0.8, -0.7, 0.1, 0.3}}

	for _, s := range sizes {
		w, h := s[0], s[1]
		for _, v := range starts {
			assert.InDelta(t, w/h, aspect(v.AspectCorrect(w, h)), tolerance)
			assert.InDelta(t, w/h, aspect(v.ScaleAboutPoint(w, h, w/3, h/4, ZoomIn)), tolerance)
			assert.InDelta(t, w/h, aspect(v.ScaleAboutPoint(w, h, w, h, ZoomOut)), tolerance)
			assert.InDelta(t, w/h, aspect(v.ScaleAboutCenter(w, h, -0.5, 0.25, 8)), tolerance)
		}
	}
}

func TestScaleAboutCenter(t *testing.T) {
	got := DefaultViewport().ScaleAboutCenter(2560, 1600, 0, 0, 1)
	assertViewportsEqual(t, Viewport{-3.2, 3.2, -2, 2}, got)

	got = DefaultViewport().ScaleAboutCenter(1600, 2560, -1, 0.5, 4)
	assertViewportsEqual(t, Viewport{-1.5, -0.5, -0.3, 1.3}, got)
}

func TestScaleAboutCenterOnlyWidens(t *testing.T) {
	base := Viewport{-2, 0.47, -1.12, 1.12}
	got := base.ScaleAboutCenter(2560, 1600, 0, 0, 1)

	assert.LessOrEqual(t, got.XStart, base.XStart)
	assert.GreaterOrEqual(t, got.XEnd, base.XEnd)
	assert.InDelta(t, base.YStart, got.YStart, tolerance)
	assert.InDelta(t, base.YEnd, got.YEnd, tolerance)
}

func TestStep(t *testing.T) {
	step := DefaultViewport().Step(5, 3)
	assert.Equal(t, 1.0, step.X())
	assert.Equal(t, 2.0, step.Y())
}

func TestDegenerateInputsPanic(t *testing.T) {
	v := DefaultViewport()
	assert.Panics(t, func() { v.ScaleAboutPoint(0, 100, 0, 0, 2) })
	assert.Panics(t, func() { v.ScaleAboutPoint(100, 100, 0, 0, 0) })
	assert.Panics(t, func() { v.ScaleAboutCenter(100, 100, 0, 0, -1) })
	assert.Panics(t, func() { v.AspectCorrect(100, 0) })
}
