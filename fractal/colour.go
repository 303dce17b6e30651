package fractal

import (
	"image/color"
	"math"

	"github.com/stewi1014/mandelzoom/gradient"
)

// Interior is the colour of points that never escaped.
var Interior = color.RGBA{A: 0xff}

// Colour maps an escape time to a colour. Only iter == maxIter is interior;
// everything else is normalised against maxIter, clamped to [0, 1] and looked up
// in g. Non-finite escape times map to the start of the gradient.
func Colour(iter float64, maxIter int, g gradient.Gradient) color.RGBA {
	limit := float64(maxIter)
	if iter == limit {
		return Interior
	}

	t := iter / limit
	switch {
	case math.IsNaN(t), t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return g(t)
}
