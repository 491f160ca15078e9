package fluid

import (
	"fmt"
	"runtime"
)

// Option configures a Fluid during construction.
//
// Example:
//
//	f, err := fluid.New(128, 128, 0.005, 1.0/128, 0.1,
//	    fluid.WithBodies(fluid.NewDisk(0.5, 0.5, 0.1, 0, 0, 0)),
//	    fluid.WithIntegrator(fluid.RungeKutta4),
//	)
type Option func(*config)

type config struct {
	bodies        []Body
	interpolation Interpolation
	integrator    Integrator
	advection     Advection
	solver        Solver
	iterations    int
	tolerance     float64
	workers       int
	confinement   float64
}

func defaultConfig() config {
	return config{
		interpolation: Bicubic,
		integrator:    BogackiShampine,
		advection:     SemiLagrangian,
		solver:        PCG,
		iterations:    600,
		tolerance:     1e-4,
		workers:       1,
	}
}

// WithBodies adds solid obstacles. Bodies are owned by the Fluid afterwards
// and move forward every Update.
func WithBodies(bodies ...Body) Option {
	return func(c *config) {
		c.bodies = append(c.bodies, bodies...)
	}
}

func WithInterpolation(i Interpolation) Option {
	return func(c *config) {
		c.interpolation = i
	}
}

func WithIntegrator(i Integrator) Option {
	return func(c *config) {
		c.integrator = i
	}
}

func WithAdvection(a Advection) Option {
	return func(c *config) {
		c.advection = a
	}
}

func WithSolver(s Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithIterationLimit bounds the pressure solve. The default is 600.
func WithIterationLimit(n int) Option {
	return func(c *config) {
		c.iterations = n
	}
}

// WithTolerance sets the infinity-norm residual at which the pressure solve
// stops. The default is 1e-4.
func WithTolerance(t float64) Option {
	return func(c *config) {
		c.tolerance = t
	}
}

// WithWorkers splits advection and export over n goroutines. The default of 1
// keeps every step on the calling goroutine; 0 uses GOMAXPROCS. Output is
// identical for any worker count.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithConfinement enables vorticity confinement with strength eps.
func WithConfinement(eps float64) Option {
	return func(c *config) {
		c.confinement = eps
	}
}

func validateGrid(rows, columns int, timestep, cellSize, density float64) error {
	if rows <= 0 {
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidConfig, rows)
	}
	if columns <= 0 {
		return fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidConfig, columns)
	}
	if !isFinite(timestep) || timestep <= 0 {
		return fmt.Errorf("%w: timestep must be positive, got %g", ErrInvalidConfig, timestep)
	}
	if !isFinite(cellSize) || cellSize <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %g", ErrInvalidConfig, cellSize)
	}
	if !isFinite(density) || density <= 0 {
		return fmt.Errorf("%w: fluid density must be positive, got %g", ErrInvalidConfig, density)
	}
	return nil
}

func (c *config) validate() error {
	if c.iterations <= 0 {
		return fmt.Errorf("%w: iteration limit must be positive, got %d", ErrInvalidConfig, c.iterations)
	}
	if !isFinite(c.tolerance) || c.tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidConfig, c.tolerance)
	}
	if c.workers < 0 {
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidConfig, c.workers)
	}
	if c.workers == 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	if !isFinite(c.confinement) {
		return fmt.Errorf("%w: confinement must be finite", ErrInvalidConfig)
	}
	if c.interpolation != Bilinear && c.interpolation != Bicubic {
		return fmt.Errorf("%w: unknown interpolation %d", ErrInvalidConfig, c.interpolation)
	}
	if c.integrator != Euler && c.integrator != BogackiShampine && c.integrator != RungeKutta4 {
		return fmt.Errorf("%w: unknown integrator %d", ErrInvalidConfig, c.integrator)
	}
	if c.advection != SemiLagrangian && c.advection != BFECC {
		return fmt.Errorf("%w: unknown advection scheme %d", ErrInvalidConfig, c.advection)
	}
	if c.solver != PCG && c.solver != GaussSeidel {
		return fmt.Errorf("%w: unknown solver %d", ErrInvalidConfig, c.solver)
	}
	for i, b := range c.bodies {
		if b == nil {
			return fmt.Errorf("%w: body %d is nil", ErrInvalidConfig, i)
		}
		if err := b.validate(); err != nil {
			return fmt.Errorf("%w: body %d: %v", ErrInvalidConfig, i, err)
		}
	}
	return nil
}
