package fluid

import (
	"math"
	"testing"
)

func TestShade(t *testing.T) {
	tests := []struct {
		density, max float64
		want         uint8
	}{
		{0.0, 2.0, 255},
		{2.0, 2.0, 0},
		{1.0, 2.0, 128},
		{5.0, 2.0, 0},
		{-1.0, 2.0, 255},
		{0.25, 1.0, 191},
	}
	for _, tt := range tests {
		if got := shade(tt.density, tt.max); got != tt.want {
			t.Errorf("shade(%g, %g) = %d, want %d", tt.density, tt.max, got, tt.want)
		}
	}
}

func TestToRGBA(t *testing.T) {
	f := newTestFluid(t, 16, WithBodies(NewDisk(0.5, 0.5, 0.2, 0, 0, 0)))
	f.d.set(2, 3, 1.0)

	if err := f.ToRGBA(make([]byte, 10), 1.0); err == nil {
		t.Error("expected an error for a short buffer")
	}
	buf := make([]byte, 4*16*16)
	if err := f.ToRGBA(buf, 0.0); err == nil {
		t.Error("expected an error for a zero max density")
	}

	if err := f.ToRGBA(buf, 1.0); err != nil {
		t.Fatal(err)
	}
	pixel := func(row, column int) []byte {
		i := 4 * (row*16 + column)
		return buf[i : i+4]
	}

	if p := pixel(2, 3); p[0] != 0 || p[1] != 0 || p[2] != 0 || p[3] != 0xFF {
		t.Errorf("dense pixel = %v, want opaque black", p)
	}
	if p := pixel(0, 0); p[0] != 255 || p[3] != 0xFF {
		t.Errorf("empty pixel = %v, want opaque white", p)
	}
	if p := pixel(8, 8); p[0] != SolidShade || p[1] != SolidShade || p[2] != SolidShade {
		t.Errorf("solid pixel = %v, want shade %d", p, SolidShade)
	}
}

func TestImage(t *testing.T) {
	f, err := New(12, 20, 0.01, 0.05, 1.0, WithWorkers(3))
	if err != nil {
		t.Fatal(err)
	}
	f.d.set(11, 19, 0.5)

	for _, bad := range []float64{0.0, -1.0, math.NaN(), math.Inf(1)} {
		if _, err := f.Image(bad); err == nil {
			t.Errorf("Image(%g): expected an error", bad)
		}
	}

	img, err := f.Image(1.0)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 12 {
		t.Fatalf("image bounds = %v, want 20x12", b)
	}
	if got := img.GrayAt(19, 11).Y; got != 128 {
		t.Errorf("pixel (19,11) = %d, want 128", got)
	}
	if got := img.GrayAt(0, 0).Y; got != 255 {
		t.Errorf("pixel (0,0) = %d, want 255", got)
	}
}
