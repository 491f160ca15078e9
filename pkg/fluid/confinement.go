package fluid

import "math"

// cellVelocity averages the face velocities around cell (row, column).
func (f *Fluid) cellVelocity(row, column int) (float64, float64) {
	u := 0.5 * (f.u.at(row, column) + f.u.at(row, column+1))
	v := 0.5 * (f.v.at(row, column) + f.v.at(row+1, column))
	return u, v
}

// computeCurl writes dv/dx - du/dy at every interior open cell into dst.
// Border and closed cells get 0.
func (f *Fluid) computeCurl(dst []float64) {
	fill(dst, 0.0)
	inv := 0.5 / f.h

	for row := 1; row < f.rows-1; row++ {
		for column := 1; column < f.columns-1; column++ {
			idx := row*f.columns + column
			if !f.d.open[idx] {
				continue
			}
			_, vr := f.cellVelocity(row, column+1)
			_, vl := f.cellVelocity(row, column-1)
			ub, _ := f.cellVelocity(row+1, column)
			ut, _ := f.cellVelocity(row-1, column)

			dst[idx] = (vr-vl)*inv - (ub-ut)*inv
		}
	}
}

// applyVorticityConfinement pushes velocity along N x ω, where N points up
// the gradient of |ω|. The cell-centred force is split evenly between the
// faces of each cell.
func (f *Fluid) applyVorticityConfinement() {
	f.computeCurl(f.curl)

	const eps = 1e-5
	inv := 0.5 / f.h
	kick := 0.5 * f.dt * f.confinement

	for row := 1; row < f.rows-1; row++ {
		for column := 1; column < f.columns-1; column++ {
			idx := row*f.columns + column
			if !f.d.open[idx] {
				continue
			}

			gx := (math.Abs(f.curl[idx+1]) - math.Abs(f.curl[idx-1])) * inv
			gy := (math.Abs(f.curl[idx+f.columns]) - math.Abs(f.curl[idx-f.columns])) * inv
			mag := length(gx, gy) + eps
			gx /= mag
			gy /= mag

			w := f.curl[idx]
			fx := kick * gy * w
			fy := -kick * gx * w

			f.u.add(row, column, fx)
			f.u.add(row, column+1, fx)
			f.v.add(row, column, fy)
			f.v.add(row+1, column, fy)
		}
	}
}
