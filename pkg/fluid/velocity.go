package fluid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Velocity returns the velocity averaged to cell centres.
func (f *Fluid) Velocity() VectorField {
	n := f.rows * f.columns
	uCopy := make([]float64, n)
	vCopy := make([]float64, n)
	for row := 0; row < f.rows; row++ {
		for column := 0; column < f.columns; column++ {
			idx := row*f.columns + column
			uCopy[idx], vCopy[idx] = f.cellVelocity(row, column)
		}
	}
	return VectorField{
		Rows:    f.rows,
		Columns: f.columns,
		valuesU: uCopy,
		valuesV: vCopy,
	}
}

// SampleVelocity returns the interpolated velocity at a world position.
func (f *Fluid) SampleVelocity(x, y float64) (float64, float64) {
	x /= f.h
	y /= f.h
	return f.interpolation.sample(f.u.src(), x, y), f.interpolation.sample(f.v.src(), x, y)
}

// Vorticity returns the curl of the velocity at cell centres.
func (f *Fluid) Vorticity() ScalarField {
	vals := make([]float64, f.rows*f.columns)
	f.computeCurl(vals)
	return snapshot(f.d.src(), vals)
}

// VelocityMagnitude returns |v| at cell centres. Closed cells read 0.
func (f *Fluid) VelocityMagnitude() ScalarField {
	vals := make([]float64, f.rows*f.columns)
	for row := 0; row < f.rows; row++ {
		for column := 0; column < f.columns; column++ {
			idx := row*f.columns + column
			if !f.d.open[idx] {
				continue
			}
			vals[idx] = length(f.cellVelocity(row, column))
		}
	}
	return snapshot(f.d.src(), vals)
}

// MaxDivergence returns the largest absolute area-weighted divergence over
// open cells.
func (f *Fluid) MaxDivergence() float64 {
	div := make([]float64, f.rows*f.columns)
	for row := 0; row < f.rows; row++ {
		for column := 0; column < f.columns; column++ {
			idx := row*f.columns + column
			if f.d.open[idx] {
				div[idx] = f.cellResidual(row, column)
			}
		}
	}
	return floats.Norm(div, math.Inf(1))
}
