package fluid

import "math"

func fill[T any](slice []T, val T) {
	for i := range slice {
		slice[i] = val
	}
}

func length(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}

// cubicPulse is 1 at x=0 and falls smoothly to 0 at |x|>=1.
func cubicPulse(x float64) float64 {
	x = min(math.Abs(x), 1.0)
	return 1.0 - x*x*(3.0-2.0*x)
}

// nsgn is like math.Copysign(1, a) but maps -0 to +1.
func nsgn(a float64) float64 {
	if a < 0.0 {
		return -1.0
	}
	return 1.0
}

// rotate turns (x, y) counter-clockwise by phi radians.
func rotate(x, y, phi float64) (float64, float64) {
	s, c := math.Sincos(phi)
	return c*x - s*y, s*x + c*y
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
