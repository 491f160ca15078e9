package fluid

import (
	"fmt"
	"image"
	"math"
)

// SolidShade is the gray level written for cells covered by a body.
const SolidShade uint8 = 0x80

// shade maps density to gray: 0 is white, maxDensity and above is black.
func shade(density, maxDensity float64) uint8 {
	s := math.Round((maxDensity - density) * 255.0 / maxDensity)
	return uint8(clamp(s, 0.0, 255.0))
}

// ToRGBA writes the density as opaque gray pixels into dst, four bytes per
// cell, grid row 0 first.
func (f *Fluid) ToRGBA(dst []byte, maxDensity float64) error {
	if err := checkMaxDensity(maxDensity); err != nil {
		return err
	}
	if n := 4 * f.rows * f.columns; len(dst) < n {
		return fmt.Errorf("buffer too short: need %d bytes, got %d", n, len(dst))
	}

	values := f.d.src().values
	parallelRange(f.workers, 0, f.rows, func(row int) {
		for column := 0; column < f.columns; column++ {
			idx := row*f.columns + column
			g := SolidShade
			if f.d.open[idx] {
				g = shade(values[idx], maxDensity)
			}
			p := dst[4*idx : 4*idx+4 : 4*idx+4]
			p[0], p[1], p[2], p[3] = g, g, g, 0xFF
		}
	})
	return nil
}

// Image renders the density into a new grayscale image.
func (f *Fluid) Image(maxDensity float64) (*image.Gray, error) {
	if err := checkMaxDensity(maxDensity); err != nil {
		return nil, err
	}
	img := image.NewGray(image.Rect(0, 0, f.columns, f.rows))
	values := f.d.src().values
	parallelRange(f.workers, 0, f.rows, func(row int) {
		line := img.Pix[row*img.Stride : row*img.Stride+f.columns]
		for column := range line {
			idx := row*f.columns + column
			if !f.d.open[idx] {
				line[column] = SolidShade
				continue
			}
			line[column] = shade(values[idx], maxDensity)
		}
	})
	return img, nil
}

func checkMaxDensity(maxDensity float64) error {
	if !isFinite(maxDensity) || maxDensity <= 0 {
		return fmt.Errorf("max density must be positive, got %g", maxDensity)
	}
	return nil
}
