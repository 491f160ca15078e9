package fluid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type gaussSeidelSolver struct {
	limit     int
	tolerance float64

	scratch []float64
}

func newGaussSeidelSolver(n, limit int, tolerance float64) *gaussSeidelSolver {
	return &gaussSeidelSolver{
		limit:     limit,
		tolerance: tolerance,
		scratch:   make([]float64, n),
	}
}

// sweep relaxes every open cell once and returns the largest change.
func (s *gaussSeidelSolver) sweep(a *Sparse, open []bool, pressure, residual []float64) float64 {
	rows, columns := a.rows, a.columns
	maxDelta := 0.0

	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			idx := row*columns + column
			if !open[idx] || a.Diag[idx] == 0.0 {
				continue
			}

			t := residual[idx]
			if column > 0 {
				t -= a.PlusX[idx-1] * pressure[idx-1]
			}
			if row > 0 {
				t -= a.PlusY[idx-columns] * pressure[idx-columns]
			}
			if column < columns-1 {
				t -= a.PlusX[idx] * pressure[idx+1]
			}
			if row < rows-1 {
				t -= a.PlusY[idx] * pressure[idx+columns]
			}

			p := t / a.Diag[idx]
			maxDelta = max(maxDelta, math.Abs(p-pressure[idx]))
			pressure[idx] = p
		}
	}
	return maxDelta
}

func (s *gaussSeidelSolver) solve(a *Sparse, open []bool, pressure, residual []float64) SolveStats {
	fill(pressure, 0.0)

	if floats.Norm(residual, math.Inf(1)) < s.tolerance {
		return SolveStats{Converged: true}
	}

	iterations := s.limit
	converged := false
	maxDelta := 0.0
	for iteration := 1; iteration <= s.limit; iteration++ {
		maxDelta = s.sweep(a, open, pressure, residual)
		if maxDelta < s.tolerance {
			iterations = iteration
			converged = true
			break
		}
	}

	// Report the true residual so both solvers are comparable.
	a.mulVec(s.scratch, pressure)
	floats.Sub(residual, s.scratch)
	for idx := range residual {
		if !open[idx] {
			residual[idx] = 0.0
		}
	}
	norm := floats.Norm(residual, math.Inf(1))

	if converged {
		Logger().Debug("pressure solve converged", "iterations", iterations, "residual", norm, "change", maxDelta)
	} else {
		Logger().Warn("pressure solve exceeded iteration budget", "iterations", s.limit, "residual", norm, "change", maxDelta)
	}
	return SolveStats{Iterations: iterations, Residual: norm, Converged: converged}
}
