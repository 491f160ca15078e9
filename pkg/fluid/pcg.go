package fluid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Solver selects the pressure solver.
type Solver int

const (
	// PCG is conjugate gradient with a modified incomplete Cholesky
	// preconditioner.
	PCG Solver = iota
	// GaussSeidel relaxes the same operator in place. It needs far more
	// iterations than PCG for the same residual.
	GaussSeidel
)

func (s Solver) String() string {
	switch s {
	case PCG:
		return "pcg"
	case GaussSeidel:
		return "gauss-seidel"
	}
	return "unknown"
}

// SolveStats reports the outcome of one pressure solve.
type SolveStats struct {
	Iterations int
	// Residual is the infinity norm of the final residual.
	Residual  float64
	Converged bool
}

// pressureSolver solves a*pressure = residual over open cells. pressure is
// overwritten; residual may be used as scratch.
type pressureSolver interface {
	solve(a *Sparse, open []bool, pressure, residual []float64) SolveStats
}

const (
	// micTau blends modified and plain incomplete Cholesky.
	micTau = 0.97
	// micEpsilon keeps isolated cells from dividing by zero.
	micEpsilon = 1e-30
	// micSafety falls back to the plain diagonal when a pivot shrinks
	// below this fraction of it.
	micSafety = 0.25
)

type pcgSolver struct {
	limit     int
	tolerance float64

	precon []float64
	aux    []float64
	search []float64
	best   []float64
}

func newPCGSolver(n, limit int, tolerance float64) *pcgSolver {
	return &pcgSolver{
		limit:     limit,
		tolerance: tolerance,
		precon:    make([]float64, n),
		aux:       make([]float64, n),
		search:    make([]float64, n),
		best:      make([]float64, n),
	}
}

func (s *pcgSolver) buildPreconditioner(a *Sparse, open []bool) {
	rows, columns := a.rows, a.columns
	fill(s.precon, 0.0)

	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			idx := row*columns + column
			if !open[idx] {
				continue
			}

			e := a.Diag[idx]
			if column > 0 && open[idx-1] {
				px := a.PlusX[idx-1] * s.precon[idx-1]
				py := a.PlusY[idx-1] * s.precon[idx-1]
				e -= px*px + micTau*px*py
			}
			if row > 0 && open[idx-columns] {
				px := a.PlusX[idx-columns] * s.precon[idx-columns]
				py := a.PlusY[idx-columns] * s.precon[idx-columns]
				e -= py*py + micTau*px*py
			}
			if e < micSafety*a.Diag[idx] {
				e = a.Diag[idx]
			}

			s.precon[idx] = 1.0 / math.Sqrt(e+micEpsilon)
		}
	}
}

// applyPreconditioner solves L*L^T*dst = b with a forward and a backward
// sweep. Closed cells are never written.
func (s *pcgSolver) applyPreconditioner(dst, b []float64, a *Sparse, open []bool) {
	rows, columns := a.rows, a.columns

	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			idx := row*columns + column
			if !open[idx] {
				continue
			}

			t := b[idx]
			if column > 0 && open[idx-1] {
				t -= a.PlusX[idx-1] * s.precon[idx-1] * dst[idx-1]
			}
			if row > 0 && open[idx-columns] {
				t -= a.PlusY[idx-columns] * s.precon[idx-columns] * dst[idx-columns]
			}
			dst[idx] = t * s.precon[idx]
		}
	}

	for row := rows - 1; row >= 0; row-- {
		for column := columns - 1; column >= 0; column-- {
			idx := row*columns + column
			if !open[idx] {
				continue
			}

			t := dst[idx]
			if column < columns-1 && open[idx+1] {
				t -= a.PlusX[idx] * s.precon[idx] * dst[idx+1]
			}
			if row < rows-1 && open[idx+columns] {
				t -= a.PlusY[idx] * s.precon[idx] * dst[idx+columns]
			}
			dst[idx] = t * s.precon[idx]
		}
	}
}

func (s *pcgSolver) solve(a *Sparse, open []bool, pressure, residual []float64) SolveStats {
	s.buildPreconditioner(a, open)

	fill(pressure, 0.0)
	fill(s.aux, 0.0)

	s.applyPreconditioner(s.aux, residual, a, open)
	copy(s.search, s.aux)

	maxError := floats.Norm(residual, math.Inf(1))
	if maxError < s.tolerance {
		return SolveStats{Residual: maxError, Converged: true}
	}

	sigma := floats.Dot(s.aux, residual)

	// The iterate with the smallest residual so far, starting from zero.
	bestError := maxError
	fill(s.best, 0.0)

	for iteration := 1; iteration <= s.limit; iteration++ {
		a.mulVec(s.aux, s.search)

		denom := floats.Dot(s.aux, s.search)
		if denom == 0.0 {
			bestError = s.restoreBest(pressure, maxError, bestError)
			Logger().Warn("pressure solve broke down", "iterations", iteration, "residual", bestError)
			return SolveStats{Iterations: iteration, Residual: bestError}
		}
		alpha := sigma / denom

		floats.AddScaled(pressure, alpha, s.search)
		floats.AddScaled(residual, -alpha, s.aux)

		maxError = floats.Norm(residual, math.Inf(1))
		if maxError < s.tolerance {
			Logger().Debug("pressure solve converged", "iterations", iteration, "residual", maxError)
			return SolveStats{Iterations: iteration, Residual: maxError, Converged: true}
		}
		if maxError < bestError {
			bestError = maxError
			copy(s.best, pressure)
		}

		s.applyPreconditioner(s.aux, residual, a, open)

		sigmaNew := floats.Dot(s.aux, residual)
		floats.Scale(sigmaNew/sigma, s.search)
		floats.Add(s.search, s.aux)
		sigma = sigmaNew
	}

	bestError = s.restoreBest(pressure, maxError, bestError)
	Logger().Warn("pressure solve exceeded iteration budget", "iterations", s.limit, "residual", bestError)
	return SolveStats{Iterations: s.limit, Residual: bestError}
}

// restoreBest puts the best iterate back into pressure when the last one is
// worse, and returns the residual norm of what pressure now holds.
func (s *pcgSolver) restoreBest(pressure []float64, last, best float64) float64 {
	if last <= best {
		return last
	}
	copy(pressure, s.best)
	return best
}
