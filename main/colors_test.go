package main

import (
	"image/color"
	"testing"

	"github.com/TheFellow/fluid/pkg/fluid"
)

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xff} }

func TestGetSciValue(t *testing.T) {
	tests := []struct {
		val, min, max float64
		want          color.RGBA
	}{
		{0.0, 0.0, 1.0, rgb(0, 0, 255)},
		{-3.0, 0.0, 1.0, rgb(0, 0, 255)},
		{0.5, 0.0, 1.0, rgb(0, 255, 0)},
		{1.0, 0.0, 1.0, rgb(255, 0, 0)},
		{7.0, 0.0, 1.0, rgb(255, 0, 0)},
		{2.0, 2.0, 2.0, rgb(0, 255, 0)},
	}
	for _, tt := range tests {
		if got := getSciValue(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("getSciValue(%g, %g, %g) = %v, want %v", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestWriteSciField(t *testing.T) {
	f, err := fluid.New(3, 4, 0.01, 0.25, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 4*3*4)
	solid := func(row, column int) bool { return row == 0 && column == 0 }

	writeSciField(buf, f.Density(), solid, false)

	if got := buf[0:4]; got[0] != fluid.SolidShade || got[3] != 0xff {
		t.Errorf("solid cell = %v, want grey", got)
	}
	// A flat field sits in the middle of the scale.
	i := 4 * (2*4 + 3)
	if got := buf[i : i+4]; got[0] != 0 || got[1] != 255 || got[2] != 0 {
		t.Errorf("flat cell = %v, want green", got)
	}
}
