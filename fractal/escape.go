package fractal

import "math"

// escaped magnitude threshold, squared
const bailout = 4

// Escape returns the continuous escape time of c = x+iy under z = z*z + c.
//
// Points that do not escape within maxIter iterations return exactly
// float64(maxIter). Escaped points get the fractional correction
// 1 - log2(ln|z|) and are clamped to [0, maxIter), so the interior value is
// never produced by smoothing.
func Escape(x, y float64, maxIter int) float64 {
	zr, zi := x, y
	limit := float64(maxIter)
	iter := 0.0

	for zr*zr+zi*zi <= bailout && iter < limit {
		zr, zi = zr*zr-zi*zi+x, 2*zr*zi+y
		iter++
	}

	if iter >= limit {
		return limit
	}

	logZn := math.Log(math.Hypot(zr, zi))
	if logZn > 0 {
		if nu := math.Log(logZn) / math.Ln2; !math.IsNaN(nu) && !math.IsInf(nu, 0) {
			iter += 1 - nu
		}
	}

	if iter < 0 {
		return 0
	}
	if iter >= limit {
		return math.Nextafter(limit, 0)
	}
	return iter
}

// EscapeCount is the integer escape time without smoothing, returning maxIter
// for points presumed to be inside the set.
func EscapeCount(x, y float64, maxIter int) int {
	zr, zi := x, y
	iter := 0

	for zr*zr+zi*zi <= bailout && iter < maxIter {
		zr, zi = zr*zr-zi*zi+x, 2*zr*zi+y
		iter++
	}
	return iter
}
