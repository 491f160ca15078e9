package fluid

// Sparse is the symmetric five-point pressure operator. PlusX[i] couples
// cell i with its right neighbour and PlusY[i] with the one below; the
// transposed entries are implied.
type Sparse struct {
	rows, columns int
	Diag          []float64
	PlusX         []float64
	PlusY         []float64
}

func newSparse(rows, columns int) *Sparse {
	n := rows * columns
	return &Sparse{
		rows:    rows,
		columns: columns,
		Diag:    make([]float64, n),
		PlusX:   make([]float64, n),
		PlusY:   make([]float64, n),
	}
}

// build assembles the operator from scratch. Coupling across a face is
// scale times the face's open volume and only exists between two open cells.
func (a *Sparse) build(scale float64, open []bool, u, v *Quantity) {
	fill(a.Diag, 0.0)
	fill(a.PlusX, 0.0)
	fill(a.PlusY, 0.0)

	rows, columns := a.rows, a.columns
	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			idx := row*columns + column
			if !open[idx] {
				continue
			}

			if column < columns-1 && open[idx+1] {
				factor := scale * u.volume[row*u.columns+column+1]
				a.Diag[idx] += factor
				a.Diag[idx+1] += factor
				a.PlusX[idx] = -factor
			}

			if row < rows-1 && open[idx+columns] {
				factor := scale * v.volume[(row+1)*v.columns+column]
				a.Diag[idx] += factor
				a.Diag[idx+columns] += factor
				a.PlusY[idx] = -factor
			}
		}
	}
}

// mulVec stores A*b in dst.
func (a *Sparse) mulVec(dst, b []float64) {
	rows, columns := a.rows, a.columns
	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			idx := row*columns + column
			t := a.Diag[idx] * b[idx]

			if column > 0 {
				t += a.PlusX[idx-1] * b[idx-1]
			}
			if row > 0 {
				t += a.PlusY[idx-columns] * b[idx-columns]
			}
			if column < columns-1 {
				t += a.PlusX[idx] * b[idx+1]
			}
			if row < rows-1 {
				t += a.PlusY[idx] * b[idx+columns]
			}

			dst[idx] = t
		}
	}
}
