package fluid

import "fmt"

// setBoundary stamps solid velocities onto the faces of closed cells and
// zeroes the normal velocity on the domain walls.
func (f *Fluid) setBoundary() {
	if len(f.bodies) > 0 {
		h := f.h
		for row := 0; row < f.rows; row++ {
			for column := 0; column < f.columns; column++ {
				idx := row*f.columns + column
				if f.d.open[idx] {
					continue
				}
				b := f.bodies[f.d.body[idx]]

				x := float64(column) * h
				y := (float64(row) + 0.5) * h
				u, _ := b.VelocityAt(x, y)
				f.u.set(row, column, u)
				u, _ = b.VelocityAt(x+h, y)
				f.u.set(row, column+1, u)

				x = (float64(column) + 0.5) * h
				y = float64(row) * h
				_, v := b.VelocityAt(x, y)
				f.v.set(row, column, v)
				_, v = b.VelocityAt(x, y+h)
				f.v.set(row+1, column, v)
			}
		}
	}

	for row := 0; row < f.rows; row++ {
		f.u.set(row, 0, 0.0)
		f.u.set(row, f.columns, 0.0)
	}
	for column := 0; column < f.columns; column++ {
		f.v.set(0, column, 0.0)
		f.v.set(f.rows, column, 0.0)
	}
}

// AddInflow injects density and velocity into the rectangle with lower
// corner (x, y) and the given extent, all in world units. Call it between
// updates.
func (f *Fluid) AddInflow(x, y, width, height, density, uVelocity, vVelocity float64) {
	f.d.addInflow(x, y, x+width, y+height, density)
	f.u.addInflow(x, y, x+width, y+height, uVelocity)
	f.v.addInflow(x, y, x+width, y+height, vVelocity)
}

// IsSolid reports whether the density cell (row, column) is fully covered by
// a body.
func (f *Fluid) IsSolid(row, column int) bool {
	if row < 0 || row >= f.rows {
		panic(fmt.Sprintf("invalid row index: %d", row))
	}
	if column < 0 || column >= f.columns {
		panic(fmt.Sprintf("invalid column index: %d", column))
	}
	return !f.d.open[row*f.columns+column]
}
