package fluid

// Fluid is an incompressible 2-D flow on a MAC grid of rows x columns
// cells. Density and pressure are cell centred, U lives on vertical faces
// and V on horizontal faces. Row indices grow along +y.
type Fluid struct {
	rows, columns int
	dt            float64
	h             float64 // cell size
	density       float64 // fluid density

	d *Quantity // carried density
	u *Quantity // rows x (columns+1)
	v *Quantity // (rows+1) x columns

	bodies []Body

	a        *Sparse
	regions  *regions
	pressure []float64
	residual []float64
	solver   pressureSolver
	last     SolveStats

	interpolation Interpolation
	integrator    Integrator
	advection     Advection
	workers       int
	confinement   float64

	curl    []float64
	scratch [2][]float64
}

// New creates a solver for a rows x columns grid with square cells of
// cellSize world units, advancing timestep per Update.
func New(rows, columns int, timestep, cellSize, density float64, opts ...Option) (*Fluid, error) {
	if err := validateGrid(rows, columns, timestep, cellSize, density); err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	n := rows * columns
	f := &Fluid{
		rows:    rows,
		columns: columns,
		dt:      timestep,
		h:       cellSize,
		density: density,

		d: newQuantity(rows, columns, 0.5, 0.5, cellSize),
		u: newQuantity(rows, columns+1, 0.0, 0.5, cellSize),
		v: newQuantity(rows+1, columns, 0.5, 0.0, cellSize),

		bodies: cfg.bodies,

		a:        newSparse(rows, columns),
		regions:  newRegions(n),
		pressure: make([]float64, n),
		residual: make([]float64, n),

		interpolation: cfg.interpolation,
		integrator:    cfg.integrator,
		advection:     cfg.advection,
		workers:       cfg.workers,
		confinement:   cfg.confinement,
	}

	switch cfg.solver {
	case GaussSeidel:
		f.solver = newGaussSeidelSolver(n, cfg.iterations, cfg.tolerance)
	default:
		f.solver = newPCGSolver(n, cfg.iterations, cfg.tolerance)
	}

	if f.confinement != 0 {
		f.curl = make([]float64, n)
	}
	if f.advection == BFECC {
		largest := max(len(f.d.volume), len(f.u.volume), len(f.v.volume))
		f.scratch[0] = make([]float64, largest)
		f.scratch[1] = make([]float64, largest)
	}

	f.fillSolidFields()
	return f, nil
}

func (f *Fluid) Rows() int    { return f.rows }
func (f *Fluid) Columns() int { return f.columns }

// H returns the grid spacing.
func (f *Fluid) H() float64 { return f.h }

// Timestep returns the time advanced by each Update.
func (f *Fluid) Timestep() float64 { return f.dt }

// Bodies returns the solid obstacles in the order they were given.
func (f *Fluid) Bodies() []Body { return f.bodies }

// DensityQuantity returns the carried density quantity.
func (f *Fluid) DensityQuantity() *Quantity { return f.d }

// XVelocity returns the face-centred horizontal velocity.
func (f *Fluid) XVelocity() *Quantity { return f.u }

// YVelocity returns the face-centred vertical velocity.
func (f *Fluid) YVelocity() *Quantity { return f.v }

// LastSolve reports the most recent pressure solve.
func (f *Fluid) LastSolve() SolveStats { return f.last }

// Update advances the simulation by one timestep. Running out of pressure
// iterations does not stop the step; see LastSolve.
func (f *Fluid) Update() {
	f.project()
	f.transport()
}

// project makes the current velocity divergence free over open cells.
func (f *Fluid) project() {
	f.fillSolidFields()

	if f.confinement != 0 {
		f.applyVorticityConfinement()
	}

	f.setBoundary()
	f.a.build(f.dt/(f.density*f.h*f.h), f.d.open, f.u, f.v)
	f.balanceFlux()
	f.last = f.solver.solve(f.a, f.d.open, f.pressure, f.residual)
	f.applyPressure()
}

// transport carries every quantity along the projected velocity and moves
// the bodies.
func (f *Fluid) transport() {
	f.extrapolate()
	f.advect()

	for _, b := range f.bodies {
		b.Advance(f.dt)
	}
}

func (f *Fluid) fillSolidFields() {
	f.d.fillSolidFields(f.bodies)
	f.u.fillSolidFields(f.bodies)
	f.v.fillSolidFields(f.bodies)
}

// cellResidual is the negative, area-weighted divergence of cell (row,
// column) scaled by 1/h.
func (f *Fluid) cellResidual(row, column int) float64 {
	u, v := f.u, f.v
	ui := row*u.columns + column
	vi := row*v.columns + column
	uv := u.src().values
	vv := v.src().values

	return -(u.volume[ui+1]*uv[ui+1] - u.volume[ui]*uv[ui] +
		v.volume[vi+v.columns]*vv[vi+v.columns] - v.volume[vi]*vv[vi]) / f.h
}

func (f *Fluid) buildResidual() {
	for row := 0; row < f.rows; row++ {
		for column := 0; column < f.columns; column++ {
			idx := row*f.columns + column
			if !f.d.open[idx] {
				f.residual[idx] = 0.0
				continue
			}
			f.residual[idx] = f.cellResidual(row, column)
		}
	}
}

// applyPressure subtracts the pressure gradient on faces between two open
// cells. Faces on the walls and against solids keep their boundary value.
func (f *Fluid) applyPressure() {
	scale := f.dt / (f.density * f.h)
	open, p := f.d.open, f.pressure

	for row := 0; row < f.rows; row++ {
		for column := 1; column < f.columns; column++ {
			right := row*f.columns + column
			if open[right-1] && open[right] {
				f.u.add(row, column, scale*(p[right-1]-p[right]))
			}
		}
	}
	for row := 1; row < f.rows; row++ {
		for column := 0; column < f.columns; column++ {
			bottom := row*f.columns + column
			if open[bottom-f.columns] && open[bottom] {
				f.v.add(row, column, scale*(p[bottom-f.columns]-p[bottom]))
			}
		}
	}
}

func (f *Fluid) extrapolate() {
	if len(f.bodies) == 0 {
		return
	}
	f.d.extrapolate()
	f.u.extrapolate()
	f.v.extrapolate()
}

// advect moves all three quantities through the projected velocity. The
// buffers are only swapped once every quantity has been resampled.
func (f *Fluid) advect() {
	f.advectQuantity(f.d)
	f.advectQuantity(f.u)
	f.advectQuantity(f.v)

	f.d.swap()
	f.u.swap()
	f.v.swap()
}

// Reset clears every field and the pressure workspace. Bodies keep their
// current pose.
func (f *Fluid) Reset() {
	f.d.reset()
	f.u.reset()
	f.v.reset()
	fill(f.pressure, 0.0)
	fill(f.residual, 0.0)
	f.last = SolveStats{}
}
