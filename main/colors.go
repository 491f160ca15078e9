package main

import (
	"image/color"
	"math"

	"github.com/TheFellow/fluid/pkg/fluid"
)

var solidColor = color.RGBA{R: fluid.SolidShade, G: fluid.SolidShade, B: fluid.SolidShade, A: 0xff}

// getSciValue maps val in [minVal, maxVal] onto a blue-cyan-green-yellow-red
// scale.
func getSciValue(val, minVal, maxVal float64) color.RGBA {
	d := maxVal - minVal
	if d <= 0 {
		val = 0.5
	} else {
		val = min(max((val-minVal)/d, 0.0), 0.9999)
	}
	const m = 0.25
	num := math.Floor(val / m)
	s := (val - num*m) / m
	var r, g, b float64

	switch num {
	case 0:
		r, g, b = 0.0, s, 1.0
	case 1:
		r, g, b = 0.0, 1.0, 1.0-s
	case 2:
		r, g, b = s, 1.0, 0.0
	case 3:
		r, g, b = 1.0, 1.0-s, 0.0
	}

	return color.RGBA{
		R: uint8(255 * r),
		G: uint8(255 * g),
		B: uint8(255 * b),
		A: 0xff,
	}
}

// writeSciField colours each cell of s into dst (RGBA, row-major) using
// the field's own range. Cells that solid reports true for are drawn grey.
// symmetric centres the scale on zero, which suits signed fields.
func writeSciField(dst []byte, s fluid.ScalarField, solid func(row, column int) bool, symmetric bool) {
	lo, hi := s.MinValue, s.MaxValue
	if symmetric {
		m := max(math.Abs(lo), math.Abs(hi))
		lo, hi = -m, m
	}

	for row := 0; row < s.Rows; row++ {
		for column := 0; column < s.Columns; column++ {
			c := solidColor
			if !solid(row, column) {
				v, _ := s.Value(row, column)
				c = getSciValue(v, lo, hi)
			}
			i := 4 * (row*s.Columns + column)
			dst[i], dst[i+1], dst[i+2], dst[i+3] = c.R, c.G, c.B, c.A
		}
	}
}
