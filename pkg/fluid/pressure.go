package fluid

// Pressure returns a copy of the pressure from the last solve, cell centred.
func (f *Fluid) Pressure() ScalarField {
	return snapshot(f.d.src(), f.pressure)
}
