package fluid

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// newTestSystem builds the operator for an n x n grid with unit face volumes
// and a zero-mean right-hand side, so the Neumann problem is consistent.
func newTestSystem(n int, closed ...int) (*Sparse, []bool, []float64) {
	open := make([]bool, n*n)
	fill(open, true)
	for _, idx := range closed {
		open[idx] = false
	}

	u := newQuantity(n, n+1, 0.0, 0.5, 1.0)
	v := newQuantity(n+1, n, 0.5, 0.0, 1.0)
	a := newSparse(n, n)
	a.build(1.0, open, u, v)

	rhs := make([]float64, n*n)
	var sum float64
	count := 0
	for idx := range rhs {
		if !open[idx] {
			continue
		}
		rhs[idx] = math.Sin(float64(idx)*0.7) + 0.3*math.Cos(float64(idx)*1.9)
		sum += rhs[idx]
		count++
	}
	for idx := range rhs {
		if open[idx] {
			rhs[idx] -= sum / float64(count)
		}
	}
	return a, open, rhs
}

func trueResidual(a *Sparse, open []bool, pressure, rhs []float64) float64 {
	ap := make([]float64, len(pressure))
	a.mulVec(ap, pressure)
	r := make([]float64, len(rhs))
	floats.SubTo(r, rhs, ap)
	for idx := range r {
		if !open[idx] {
			r[idx] = 0.0
		}
	}
	return floats.Norm(r, math.Inf(1))
}

func TestSparseSymmetricLaplacian(t *testing.T) {
	a, _, _ := newTestSystem(4)

	// Interior cells couple to four neighbours, corners to two.
	if a.Diag[5] != 4.0 {
		t.Errorf("interior diagonal = %f, want 4", a.Diag[5])
	}
	if a.Diag[0] != 2.0 || a.Diag[15] != 2.0 {
		t.Errorf("corner diagonals = %f, %f, want 2", a.Diag[0], a.Diag[15])
	}
	if a.PlusX[3] != 0.0 || a.PlusY[12] != 0.0 {
		t.Error("no coupling expected across the domain edge")
	}

	// A constant vector is in the null space of the Neumann operator.
	ones := make([]float64, 16)
	fill(ones, 1.0)
	out := make([]float64, 16)
	a.mulVec(out, ones)
	for idx, v := range out {
		if v != 0.0 {
			t.Errorf("A*1 at %d = %f, want 0", idx, v)
		}
	}
}

func TestSparseSkipsClosedCells(t *testing.T) {
	a, _, _ := newTestSystem(4, 5)
	if a.Diag[5] != 0.0 {
		t.Errorf("closed cell diagonal = %f, want 0", a.Diag[5])
	}
	if a.PlusX[4] != 0.0 || a.PlusX[5] != 0.0 || a.PlusY[1] != 0.0 || a.PlusY[5] != 0.0 {
		t.Error("closed cell must not couple to its neighbours")
	}
	if a.Diag[4] != 2.0 {
		t.Errorf("left neighbour of closed cell: diagonal = %f, want 2", a.Diag[4])
	}
}

func TestSparseWeightsByFaceVolume(t *testing.T) {
	n := 3
	open := make([]bool, n*n)
	fill(open, true)
	u := newQuantity(n, n+1, 0.0, 0.5, 1.0)
	v := newQuantity(n+1, n, 0.5, 0.0, 1.0)
	u.volume[1*u.columns+2] = 0.25

	a := newSparse(n, n)
	a.build(2.0, open, u, v)

	// Face between cells (1,1) and (1,2).
	if got := a.PlusX[1*n+1]; got != -0.5 {
		t.Errorf("weighted coupling = %f, want -0.5", got)
	}
}

func TestPCGSolve(t *testing.T) {
	for _, closed := range [][]int{nil, {27, 28, 35, 36}} {
		a, open, rhs := newTestSystem(8, closed...)
		pressure := make([]float64, len(rhs))
		residual := append([]float64(nil), rhs...)

		stats := newPCGSolver(len(rhs), 200, 1e-9).solve(a, open, pressure, residual)

		if !stats.Converged {
			t.Fatalf("closed=%v: PCG did not converge: %+v", closed, stats)
		}
		if stats.Iterations == 0 {
			t.Errorf("closed=%v: unexpected iteration count %d", closed, stats.Iterations)
		}
		if r := trueResidual(a, open, pressure, rhs); r > 1e-7 {
			t.Errorf("closed=%v: true residual %g too large", closed, r)
		}
		for _, idx := range closed {
			if pressure[idx] != 0.0 {
				t.Errorf("closed cell %d got pressure %f", idx, pressure[idx])
			}
		}
	}
}

func TestPCGZeroRightHandSide(t *testing.T) {
	a, open, rhs := newTestSystem(6)
	fill(rhs, 0.0)
	pressure := make([]float64, len(rhs))
	fill(pressure, 3.0)

	stats := newPCGSolver(len(rhs), 600, 1e-4).solve(a, open, pressure, rhs)
	if !stats.Converged || stats.Iterations != 0 {
		t.Errorf("expected immediate convergence, got %+v", stats)
	}
	for idx, p := range pressure {
		if p != 0.0 {
			t.Fatalf("pressure[%d] = %f, want 0", idx, p)
		}
	}
}

func TestPCGIterationBudget(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	a, open, rhs := newTestSystem(8)
	pressure := make([]float64, len(rhs))

	stats := newPCGSolver(len(rhs), 2, 1e-12).solve(a, open, pressure, rhs)
	if stats.Converged {
		t.Fatalf("two iterations should not reach 1e-12: %+v", stats)
	}
	if stats.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", stats.Iterations)
	}
	if math.IsNaN(stats.Residual) || stats.Residual <= 0.0 {
		t.Errorf("unexpected residual %g", stats.Residual)
	}
	if !strings.Contains(buf.String(), "exceeded iteration budget") {
		t.Errorf("expected a warning in the log, got %q", buf.String())
	}
}

func TestGaussSeidelSolve(t *testing.T) {
	a, open, rhs := newTestSystem(8, 10)
	pressure := make([]float64, len(rhs))
	residual := append([]float64(nil), rhs...)

	stats := newGaussSeidelSolver(len(rhs), 5000, 1e-11).solve(a, open, pressure, residual)
	if !stats.Converged {
		t.Fatalf("Gauss-Seidel did not converge: %+v", stats)
	}
	r := trueResidual(a, open, pressure, rhs)
	if r > 1e-6 {
		t.Errorf("true residual %g too large", r)
	}
	if math.Abs(r-stats.Residual) > 1e-12 {
		t.Errorf("reported residual %g differs from true residual %g", stats.Residual, r)
	}
	if pressure[10] != 0.0 {
		t.Errorf("closed cell got pressure %f", pressure[10])
	}
}

func TestPCGNeverWorseThanZero(t *testing.T) {
	// A non-zero mean has no solution on a closed box.
	a, open, rhs := newTestSystem(16)
	for idx := range rhs {
		rhs[idx] += 0.5
	}
	initial := floats.Norm(rhs, math.Inf(1))

	pressure := make([]float64, len(rhs))
	residual := append([]float64(nil), rhs...)
	stats := newPCGSolver(len(rhs), 300, 1e-9).solve(a, open, pressure, residual)

	if stats.Converged {
		t.Fatalf("inconsistent system reported convergence: %+v", stats)
	}
	if !allFinite(pressure) {
		t.Fatal("pressure is not finite")
	}
	if stats.Residual > initial {
		t.Errorf("reported residual %g above the initial %g", stats.Residual, initial)
	}
	if r := trueResidual(a, open, pressure, rhs); r > initial*(1+1e-9) {
		t.Errorf("returned pressure leaves residual %g, worse than zero pressure (%g)", r, initial)
	}
}
