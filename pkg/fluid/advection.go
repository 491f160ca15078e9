package fluid

// Advection selects the transport scheme.
type Advection int

const (
	SemiLagrangian Advection = iota
	// BFECC (back and forth error compensation and correction) runs three
	// semi-Lagrangian passes per quantity and clamps the corrected field to
	// its local extrema.
	BFECC
)

func (a Advection) String() string {
	switch a {
	case SemiLagrangian:
		return "semi-lagrangian"
	case BFECC:
		return "bfecc"
	}
	return "unknown"
}

// backtraceVelocity samples the pre-advection velocity at grid position
// (x, y) and returns it negated, in cells per unit time.
func (f *Fluid) backtraceVelocity(x, y float64) (float64, float64) {
	u := f.interpolation.sample(f.u.src(), x, y)
	v := f.interpolation.sample(f.v.src(), x, y)
	return -u / f.h, -v / f.h
}

// forwardVelocity is backtraceVelocity with the sign flipped, used by the
// backward pass of BFECC.
func (f *Fluid) forwardVelocity(x, y float64) (float64, float64) {
	u, v := f.backtraceVelocity(x, y)
	return -u, -v
}

// advectField resamples src into dst along characteristics traced over dt
// with vel. Closed cells keep their src value.
func (f *Fluid) advectField(q *Quantity, dst []float64, src ScalarField, vel velocityFunc) {
	ox, oy := q.Offset()
	parallelRange(f.workers, 0, q.rows, func(row int) {
		for column := 0; column < q.columns; column++ {
			idx := row*q.columns + column
			if !q.open[idx] {
				dst[idx] = src.values[idx]
				continue
			}

			x := float64(column) + ox
			y := float64(row) + oy
			x, y = f.integrator.step(x, y, f.dt, vel)
			x, y = q.backProject(f.bodies, x, y)

			dst[idx] = f.interpolation.sample(src, x, y)
		}
	})
}

func (f *Fluid) advectQuantity(q *Quantity) {
	if f.advection == BFECC {
		f.advectBFECC(q)
		return
	}
	f.advectField(q, q.dst().values, q.src(), f.backtraceVelocity)
}

// advectBFECC writes the compensated result into q's next buffer.
func (f *Fluid) advectBFECC(q *Quantity) {
	src := q.src()
	n := len(src.values)
	forward := src.view(f.scratch[0][:n])
	backward := src.view(f.scratch[1][:n])

	f.advectField(q, forward.values, src, f.backtraceVelocity)
	f.advectField(q, backward.values, forward, f.forwardVelocity)

	// Reuse the forward buffer for the corrected field.
	corrected := forward
	parallelRange(f.workers, 0, q.rows, func(row int) {
		for column := 0; column < q.columns; column++ {
			idx := row*q.columns + column
			c := src.values[idx] + 0.5*(src.values[idx]-backward.values[idx])
			corrected.values[idx] = clampToNeighbors(c, src, row, column)
		}
	})

	f.advectField(q, q.dst().values, corrected, f.backtraceVelocity)
}

// clampToNeighbors clamps val to the min/max of the 3x3 neighbourhood of
// (row, column) in src.
func clampToNeighbors(val float64, src ScalarField, row, column int) float64 {
	lo := src.at(row, column)
	hi := lo
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r := row + dr
			c := column + dc
			if r >= 0 && r < src.Rows && c >= 0 && c < src.Columns {
				v := src.at(r, c)
				lo = min(lo, v)
				hi = max(hi, v)
			}
		}
	}
	return clamp(val, lo, hi)
}
