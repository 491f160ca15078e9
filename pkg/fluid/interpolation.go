package fluid

import "math"

// Interpolation selects how fields are sampled between grid points.
type Interpolation int

const (
	Bilinear Interpolation = iota
	// Bicubic uses a 4x4 Catmull-Rom stencil clamped at the domain edges and
	// to the stencil's own min/max, so it never overshoots.
	Bicubic
)

func (i Interpolation) String() string {
	switch i {
	case Bilinear:
		return "bilinear"
	case Bicubic:
		return "bicubic"
	}
	return "unknown"
}

// sample reads s at grid position (x, y), where sample (row, column) sits at
// (column+OffsetX, row+OffsetY).
func (i Interpolation) sample(s ScalarField, x, y float64) float64 {
	if i == Bicubic {
		return bicubic(s, x, y)
	}
	return bilinear(s, x, y)
}

func lerp(a, b, t float64) float64 {
	return a*(1.0-t) + b*t
}

func cubicInterpolate(a, b, c, d, t float64) float64 {
	t2 := t * t
	t3 := t2 * t

	lo := min(a, b, c, d)
	hi := max(a, b, c, d)

	v := a*(-0.5*t+1.0*t2-0.5*t3) +
		b*(1.0-2.5*t2+1.5*t3) +
		c*(0.5*t+2.0*t2-1.5*t3) +
		d*(-0.5*t2+0.5*t3)

	return clamp(v, lo, hi)
}

// cell clamps a grid coordinate into [0, n-1] and splits it into an integer
// index and a fraction.
func cell(v float64, n int) (int, float64) {
	v = clamp(v, 0.0, float64(n-1))
	i := int(math.Floor(v))
	if i >= n-1 {
		return n - 1, 0.0
	}
	return i, v - float64(i)
}

func bilinear(s ScalarField, x, y float64) float64 {
	ix, tx := cell(x-s.OffsetX, s.Columns)
	iy, ty := cell(y-s.OffsetY, s.Rows)
	ix1 := min(ix+1, s.Columns-1)
	iy1 := min(iy+1, s.Rows-1)

	top := lerp(s.at(iy, ix), s.at(iy, ix1), tx)
	bottom := lerp(s.at(iy1, ix), s.at(iy1, ix1), tx)
	return lerp(top, bottom, ty)
}

func bicubic(s ScalarField, x, y float64) float64 {
	ix, tx := cell(x-s.OffsetX, s.Columns)
	iy, ty := cell(y-s.OffsetY, s.Rows)

	xs := [4]int{max(ix-1, 0), ix, min(ix+1, s.Columns-1), min(ix+2, s.Columns-1)}
	ys := [4]int{max(iy-1, 0), iy, min(iy+1, s.Rows-1), min(iy+2, s.Rows-1)}

	var q [4]float64
	for k, row := range ys {
		q[k] = cubicInterpolate(s.at(row, xs[0]), s.at(row, xs[1]), s.at(row, xs[2]), s.at(row, xs[3]), tx)
	}
	return cubicInterpolate(q[0], q[1], q[2], q[3], ty)
}
