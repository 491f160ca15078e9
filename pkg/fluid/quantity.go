package fluid

import (
	"fmt"
	"math"
)

// closedVolume is the open fraction below which a cell is treated as solid.
const closedVolume = 0.01

// Extrapolation mask bits: the neighbour along the normal on that axis is
// still unresolved.
const (
	maskX uint8 = 1 << iota
	maskY
)

// Quantity is a double-buffered field on a staggered grid together with the
// cut-cell geometry the solid bodies carve out of it.
type Quantity struct {
	rows, columns int
	cellSize      float64

	// fields[cur] is the current buffer, fields[cur^1] receives advection.
	fields [2]ScalarField
	cur    int

	phi     []float64 // signed distance at cell corners, (rows+1)*(columns+1)
	volume  []float64 // open fraction per cell
	open    []bool
	body    []int // nearest body per cell
	normalX []float64
	normalY []float64

	mask   []uint8
	border []int
}

func newQuantity(rows, columns int, offsetX, offsetY, cellSize float64) *Quantity {
	n := rows * columns
	q := &Quantity{
		rows:     rows,
		columns:  columns,
		cellSize: cellSize,
		fields: [2]ScalarField{
			newScalarField(rows, columns, offsetX, offsetY),
			newScalarField(rows, columns, offsetX, offsetY),
		},
		phi:     make([]float64, (rows+1)*(columns+1)),
		volume:  make([]float64, n),
		open:    make([]bool, n),
		body:    make([]int, n),
		normalX: make([]float64, n),
		normalY: make([]float64, n),
		mask:    make([]uint8, n),
	}
	fill(q.volume, 1.0)
	fill(q.open, true)
	return q
}

func (q *Quantity) Rows() int    { return q.rows }
func (q *Quantity) Columns() int { return q.columns }

// Offset returns the sub-cell position of the samples.
func (q *Quantity) Offset() (float64, float64) {
	return q.fields[0].OffsetX, q.fields[0].OffsetY
}

func (q *Quantity) src() ScalarField { return q.fields[q.cur] }
func (q *Quantity) dst() ScalarField { return q.fields[q.cur^1] }

func (q *Quantity) swap() { q.cur ^= 1 }

func (q *Quantity) index(row, column int) int {
	if row < 0 || row >= q.rows {
		panic(fmt.Sprintf("invalid row index: %d", row))
	}
	if column < 0 || column >= q.columns {
		panic(fmt.Sprintf("invalid column index: %d", column))
	}
	return row*q.columns + column
}

// ValueAt returns the current sample at (row, column).
func (q *Quantity) ValueAt(row, column int) float64 {
	return q.src().values[q.index(row, column)]
}

// SetValue overwrites the current sample at (row, column).
func (q *Quantity) SetValue(row, column int, value float64) {
	q.src().values[q.index(row, column)] = value
}

// Volume returns the open fraction of the cell in [0, 1].
func (q *Quantity) Volume(row, column int) float64 {
	return q.volume[q.index(row, column)]
}

// IsOpen reports whether the cell takes part in the fluid.
func (q *Quantity) IsOpen(row, column int) bool {
	return q.open[q.index(row, column)]
}

// Field returns a snapshot of the current buffer.
func (q *Quantity) Field() ScalarField {
	return snapshot(q.src(), q.src().values)
}

func (q *Quantity) at(row, column int) float64 {
	return q.fields[q.cur].values[row*q.columns+column]
}

func (q *Quantity) set(row, column int, v float64) {
	q.fields[q.cur].values[row*q.columns+column] = v
}

func (q *Quantity) add(row, column int, v float64) {
	q.fields[q.cur].values[row*q.columns+column] += v
}

func (q *Quantity) reset() {
	fill(q.fields[0].values, 0.0)
	fill(q.fields[1].values, 0.0)
}

// addInflow blends value into samples inside [x0,x1) x [y0,y1) with a cubic
// pulse falloff. A sample is only overwritten when the new magnitude is
// larger than the existing one.
func (q *Quantity) addInflow(x0, y0, x1, y1, value float64) {
	if !(x1 > x0) || !(y1 > y0) {
		return
	}
	ox, oy := q.Offset()
	h := q.cellSize

	c0 := max(int(math.Ceil(x0/h-ox)), 0)
	c1 := min(int(math.Ceil(x1/h-ox)), q.columns)
	r0 := max(int(math.Ceil(y0/h-oy)), 0)
	r1 := min(int(math.Ceil(y1/h-oy)), q.rows)

	values := q.src().values
	for row := r0; row < r1; row++ {
		y := (float64(row) + oy) * h
		for column := c0; column < c1; column++ {
			x := (float64(column) + ox) * h
			l := length(
				(2.0*x-(x0+x1))/(x1-x0),
				(2.0*y-(y0+y1))/(y1-y0),
			)

			vi := cubicPulse(l) * value
			idx := row*q.columns + column
			if math.Abs(values[idx]) < math.Abs(vi) {
				values[idx] = vi
			}
		}
	}
}

// fillSolidFields recomputes corner distances, open volumes, ownership and
// normals from the current body positions.
func (q *Quantity) fillSolidFields(bodies []Body) {
	if len(bodies) == 0 {
		return
	}
	ox, oy := q.Offset()
	h := q.cellSize
	stride := q.columns + 1

	for row := 0; row <= q.rows; row++ {
		y := (float64(row) + oy - 0.5) * h
		for column := 0; column <= q.columns; column++ {
			x := (float64(column) + ox - 0.5) * h
			q.phi[row*stride+column], _ = minDistance(bodies, x, y)
		}
	}

	for row := 0; row < q.rows; row++ {
		y := (float64(row) + oy) * h
		for column := 0; column < q.columns; column++ {
			x := (float64(column) + ox) * h
			idx := row*q.columns + column

			_, owner := minDistance(bodies, x, y)
			q.body[idx] = owner

			p := row*stride + column
			vol := 1.0 - occupancy(q.phi[p], q.phi[p+1], q.phi[p+stride], q.phi[p+stride+1])
			vol = clamp(vol, 0.0, 1.0)
			if vol < closedVolume {
				vol = 0.0
			}
			q.volume[idx] = vol
			q.open[idx] = vol > 0.0

			q.normalX[idx], q.normalY[idx] = bodies[owner].SurfaceNormal(x, y)
		}
	}
}

// neighbor returns the index one step from idx along sign(n) on the given
// axis, or -1 when n is zero or the step leaves the grid.
func (q *Quantity) neighbor(idx int, n float64, axis uint8) int {
	if n == 0.0 {
		return -1
	}
	step := 1
	if n < 0.0 {
		step = -1
	}
	row, column := idx/q.columns, idx%q.columns
	if axis == maskX {
		column += step
	} else {
		row += step
	}
	if row < 0 || row >= q.rows || column < 0 || column >= q.columns {
		return -1
	}
	return row*q.columns + column
}

func (q *Quantity) fillSolidMask() {
	for idx := range q.mask {
		q.mask[idx] = 0
		if q.open[idx] {
			continue
		}
		if nb := q.neighbor(idx, q.normalX[idx], maskX); nb >= 0 && !q.open[nb] {
			q.mask[idx] |= maskX
		}
		if nb := q.neighbor(idx, q.normalY[idx], maskY); nb >= 0 && !q.open[nb] {
			q.mask[idx] |= maskY
		}
	}
}

// extrapolateNormal blends the neighbours along the surface normal, weighted
// by the normal components.
func (q *Quantity) extrapolateNormal(values []float64, idx int) float64 {
	nx, ny := q.normalX[idx], q.normalY[idx]

	var sum, weight float64
	if nb := q.neighbor(idx, nx, maskX); nb >= 0 {
		sum += math.Abs(nx) * values[nb]
		weight += math.Abs(nx)
	}
	if nb := q.neighbor(idx, ny, maskY); nb >= 0 {
		sum += math.Abs(ny) * values[nb]
		weight += math.Abs(ny)
	}
	if weight == 0.0 {
		return values[idx]
	}
	return sum / weight
}

func (q *Quantity) freeNeighbor(idx int, bit uint8) {
	if q.mask[idx]&bit == 0 {
		return
	}
	q.mask[idx] &^= bit
	if !q.open[idx] && q.mask[idx] == 0 {
		q.border = append(q.border, idx)
	}
}

// extrapolate fills closed cells from their open neighbours along the
// surface normal. Cells are resolved from a worklist once every neighbour
// they read from is resolved.
func (q *Quantity) extrapolate() {
	q.fillSolidMask()

	q.border = q.border[:0]
	for idx := range q.mask {
		if !q.open[idx] && q.mask[idx] == 0 {
			q.border = append(q.border, idx)
		}
	}

	values := q.src().values
	for len(q.border) > 0 {
		idx := q.border[len(q.border)-1]
		q.border = q.border[:len(q.border)-1]

		values[idx] = q.extrapolateNormal(values, idx)

		column := idx % q.columns
		if column > 0 && q.normalX[idx-1] > 0.0 {
			q.freeNeighbor(idx-1, maskX)
		}
		if column < q.columns-1 && q.normalX[idx+1] < 0.0 {
			q.freeNeighbor(idx+1, maskX)
		}
		if idx >= q.columns && q.normalY[idx-q.columns] > 0.0 {
			q.freeNeighbor(idx-q.columns, maskY)
		}
		if idx+q.columns < len(values) && q.normalY[idx+q.columns] < 0.0 {
			q.freeNeighbor(idx+q.columns, maskY)
		}
	}

	q.resolveBlocked(values)
}

// resolveBlocked fills closed cells the worklist never reached. Where bodies
// overlap, normals of neighbouring cells can point at each other and their
// masks never clear. Such a cell takes the mean of its open or resolved
// neighbours, repeated until no cell changes.
func (q *Quantity) resolveBlocked(values []float64) {
	for {
		changed := false
		for idx := range q.mask {
			if q.open[idx] || q.mask[idx] == 0 {
				continue
			}
			row, column := idx/q.columns, idx%q.columns

			var sum float64
			count := 0
			add := func(nb int) {
				if q.open[nb] || q.mask[nb] == 0 {
					sum += values[nb]
					count++
				}
			}
			if column > 0 {
				add(idx - 1)
			}
			if column < q.columns-1 {
				add(idx + 1)
			}
			if row > 0 {
				add(idx - q.columns)
			}
			if row < q.rows-1 {
				add(idx + q.columns)
			}
			if count == 0 {
				continue
			}

			values[idx] = sum / float64(count)
			q.mask[idx] = 0
			changed = true
		}
		if !changed {
			return
		}
	}
}

// backProject moves a grid-space point lying in a closed cell to the
// surface of the body owning that cell.
func (q *Quantity) backProject(bodies []Body, x, y float64) (float64, float64) {
	if len(bodies) == 0 {
		return x, y
	}
	ox, oy := q.Offset()
	column := min(max(int(math.Floor(x-ox+0.5)), 0), q.columns-1)
	row := min(max(int(math.Floor(y-oy+0.5)), 0), q.rows-1)
	idx := row*q.columns + column
	if q.open[idx] {
		return x, y
	}

	h := q.cellSize
	wx, wy := bodies[q.body[idx]].ClosestSurfacePoint(x*h, y*h)
	return wx / h, wy / h
}
