package fluid

// Density returns a copy of the carried density with its range.
func (f *Fluid) Density() ScalarField {
	return f.d.Field()
}
