package fluid

// regions holds the connected groups of open cells that the pressure
// operator couples. Each group is its own Neumann problem.
type regions struct {
	label []int // -1 for closed cells
	queue []int

	sum   []float64
	area  []float64
	count []int
}

func newRegions(n int) *regions {
	return &regions{label: make([]int, n)}
}

// reset sizes the per-region accumulators for n regions and zeroes them.
func (g *regions) reset(n int) {
	if cap(g.sum) < n {
		g.sum = make([]float64, n)
		g.area = make([]float64, n)
		g.count = make([]int, n)
	}
	g.sum = g.sum[:n]
	g.area = g.area[:n]
	g.count = g.count[:n]
	fill(g.sum, 0.0)
	fill(g.area, 0.0)
	fill(g.count, 0)
}

// labelRegions numbers the groups of open cells linked by non-zero
// couplings in f.a and returns how many there are.
func (f *Fluid) labelRegions() int {
	g, a := f.regions, f.a
	columns := f.columns
	fill(g.label, -1)

	n := 0
	for start, open := range f.d.open {
		if !open || g.label[start] >= 0 {
			continue
		}
		g.label[start] = n
		queue := append(g.queue[:0], start)
		visit := func(idx int) {
			if g.label[idx] < 0 {
				g.label[idx] = n
				queue = append(queue, idx)
			}
		}
		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]

			column := idx % columns
			if column > 0 && a.PlusX[idx-1] != 0.0 {
				visit(idx - 1)
			}
			if column < columns-1 && a.PlusX[idx] != 0.0 {
				visit(idx + 1)
			}
			if idx >= columns && a.PlusY[idx-columns] != 0.0 {
				visit(idx - columns)
			}
			if idx+columns < len(g.label) && a.PlusY[idx] != 0.0 {
				visit(idx + columns)
			}
		}
		g.queue = queue
		n++
	}
	return n
}

// forEachSolidFace calls fn for every face between an open cell and a
// closed one, with the face's open volume and the outward normal sign seen
// from the open cell. Faces on the domain walls are not included.
func (f *Fluid) forEachSolidFace(fn func(cell int, q *Quantity, faceRow, faceColumn int, w, normal float64)) {
	open := f.d.open
	u, v := f.u, f.v
	for row := 0; row < f.rows; row++ {
		for column := 0; column < f.columns; column++ {
			idx := row*f.columns + column
			if !open[idx] {
				continue
			}
			if column > 0 && !open[idx-1] {
				fn(idx, u, row, column, u.volume[row*u.columns+column], -1.0)
			}
			if column < f.columns-1 && !open[idx+1] {
				fn(idx, u, row, column+1, u.volume[row*u.columns+column+1], 1.0)
			}
			if row > 0 && !open[idx-f.columns] {
				fn(idx, v, row, column, v.volume[row*v.columns+column], -1.0)
			}
			if row < f.rows-1 && !open[idx+f.columns] {
				fn(idx, v, row+1, column, v.volume[(row+1)*v.columns+column], 1.0)
			}
		}
	}
}

// balanceFlux builds the pressure right-hand side so that every region has
// a solution. The pressure system is only solvable when the net flux into
// each region is zero, which a moving body on a cut-cell grid does not
// guarantee. The imbalance is spread as a uniform normal velocity over the
// region's faces against solids; whatever rounding leaves is removed from
// the residual as a per-region mean.
func (f *Fluid) balanceFlux() {
	n := f.labelRegions()
	g := f.regions
	g.reset(n)

	f.buildResidual()
	for idx, r := range g.label {
		if r >= 0 {
			g.sum[r] += f.residual[idx]
		}
	}

	f.forEachSolidFace(func(cell int, _ *Quantity, _, _ int, w, _ float64) {
		g.area[g.label[cell]] += w
	})

	shifted := false
	for r := range g.sum {
		// Reuse sum as the velocity shift of the region.
		if g.area[r] > 0.0 && g.sum[r] != 0.0 {
			g.sum[r] *= f.h / g.area[r]
			shifted = true
		} else {
			g.sum[r] = 0.0
		}
	}
	if shifted {
		f.forEachSolidFace(func(cell int, q *Quantity, faceRow, faceColumn int, w, normal float64) {
			if w > 0.0 {
				q.add(faceRow, faceColumn, normal*g.sum[g.label[cell]])
			}
		})
		f.buildResidual()
	}

	fill(g.sum, 0.0)
	for idx, r := range g.label {
		if r >= 0 {
			g.sum[r] += f.residual[idx]
			g.count[r]++
		}
	}
	for idx, r := range g.label {
		if r >= 0 && g.sum[r] != 0.0 {
			f.residual[idx] -= g.sum[r] / float64(g.count[r])
		}
	}
}
