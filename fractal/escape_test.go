package fractal

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stewi1014/mandelzoom/gradient"
)

func TestEscapeInterior(t *testing.T) {
	points := [][2]float64{{0, 0}, {-1, 0}, {-0.1, 0.1}, {0.25, 0}, {-2, 0}}
	for _, maxIter := range []int{1, 200, 255} {
		for _, p := range points {
			assert.Equal(t, float64(maxIter), Escape(p[0], p[1], maxIter), "%v", p)
			assert.Equal(t, maxIter, EscapeCount(p[0], p[1], maxIter), "%v", p)
		}
	}
}

func TestEscapeExterior(t *testing.T) {
	points := [][2]float64{{3, 3}, {-2, -2}, {2.1, 0}, {0, -2.5}, {1e10, 1e10}, {0.5, 0.5}, {-0.75, 0.1}}
	for _, p := range points {
		iter := Escape(p[0], p[1], 255)
		assert.Less(t, iter, 255.0, "%v", p)
		assert.GreaterOrEqual(t, iter, 0.0, "%v", p)
		assert.False(t, math.IsNaN(iter), "%v", p)
	}
}

func TestEscapeSmoothing(t *testing.T) {
	// |c| > 2 escapes before the first iteration, leaving only the correction.
	iter := Escape(3, 3, 255)
	want := 1 - math.Log(math.Log(math.Hypot(3, 3)))/math.Ln2
	assert.InDelta(t, want, iter, 1e-12)
	assert.Equal(t, 0, EscapeCount(3, 3, 255))
}

func TestEscapeSmoothingStaysBelowMaxIter(t *testing.T) {
	// Escapes on the last allowed iteration, where the correction could push
	// the result past the interior sentinel.
	for _, maxIter := range []int{1, 2, 3} {
		for _, x := range []float64{0.3, 0.4, 0.5, 1, 1.5, 1.9} {
			iter := Escape(x, 0, maxIter)
			if EscapeCount(x, 0, maxIter) == maxIter {
				continue
			}
			assert.Less(t, iter, float64(maxIter), "x=%v maxIter=%v", x, maxIter)
		}
	}
}

func TestEscapeNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		iter := Escape(v, 0, 100)
		assert.False(t, math.IsNaN(iter))
		assert.GreaterOrEqual(t, iter, 0.0)
		assert.Less(t, iter, 100.0)
	}
}

func TestColour(t *testing.T) {
	g := gradient.Greyscale

	assert.Equal(t, Interior, Colour(255, 255, g))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, Colour(Escape(0, 0, 255), 255, g))

	assert.Equal(t, g(0), Colour(0, 255, g))
	assert.Equal(t, g(0), Colour(-4, 255, g))
	assert.Equal(t, g(0), Colour(math.NaN(), 255, g))
	assert.Equal(t, g(1), Colour(300, 255, g))
	assert.Equal(t, g(0.5), Colour(127.5, 255, g))
	assert.NotEqual(t, Interior, Colour(Escape(3, 3, 255), 255, gradient.Turbo))
}
