package fluid

// Integrator selects the ODE scheme used to trace characteristics.
type Integrator int

const (
	Euler Integrator = iota
	// BogackiShampine is the third-order scheme with stages at 0, 1/2, 3/4.
	BogackiShampine
	RungeKutta4
)

func (i Integrator) String() string {
	switch i {
	case Euler:
		return "euler"
	case BogackiShampine:
		return "bogacki-shampine"
	case RungeKutta4:
		return "runge-kutta-4"
	}
	return "unknown"
}

// velocityFunc is the right-hand side of an autonomous 2-D ODE.
type velocityFunc func(x, y float64) (float64, float64)

// step advances (x, y) by dt along f.
func (i Integrator) step(x, y, dt float64, f velocityFunc) (float64, float64) {
	switch i {
	case Euler:
		kx, ky := f(x, y)
		return x + dt*kx, y + dt*ky

	case BogackiShampine:
		k1x, k1y := f(x, y)
		k2x, k2y := f(x+0.5*dt*k1x, y+0.5*dt*k1y)
		k3x, k3y := f(x+0.75*dt*k2x, y+0.75*dt*k2y)
		return x + dt*(2.0*k1x+3.0*k2x+4.0*k3x)/9.0,
			y + dt*(2.0*k1y+3.0*k2y+4.0*k3y)/9.0

	default:
		k1x, k1y := f(x, y)
		k2x, k2y := f(x+0.5*dt*k1x, y+0.5*dt*k1y)
		k3x, k3y := f(x+0.5*dt*k2x, y+0.5*dt*k2y)
		k4x, k4y := f(x+dt*k3x, y+dt*k3y)
		return x + dt*(k1x+2.0*k2x+2.0*k3x+k4x)/6.0,
			y + dt*(k1y+2.0*k2y+2.0*k3y+k4y)/6.0
	}
}
