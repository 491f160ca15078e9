package fluid

import "testing"

func newBenchFluid(b *testing.B, opts ...Option) *Fluid {
	opts = append(opts, WithBodies(NewDisk(0.35, 0.5, 0.08, 0, 0, 0)))
	f, err := New(128, 128, 1.0/120.0, 1.0/128.0, 1.0, opts...)
	if err != nil {
		b.Fatal(err)
	}
	return f
}

func BenchmarkUpdate(b *testing.B) {
	f := newBenchFluid(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Update()
	}
}

// With jet: the pressure solve dominates.
func BenchmarkUpdateWithJet(b *testing.B) {
	f := newBenchFluid(b)
	h := f.H()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.AddInflow(4*h, 54*h, 12*h, 20*h, 1.0, 3.0, 0.0)
		f.Update()
	}
}

// BFECC with jet: three advection passes per quantity.
func BenchmarkUpdateBFECC(b *testing.B) {
	f := newBenchFluid(b, WithAdvection(BFECC))
	h := f.H()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.AddInflow(4*h, 54*h, 12*h, 20*h, 1.0, 3.0, 0.0)
		f.Update()
	}
}

func BenchmarkUpdateParallel(b *testing.B) {
	f := newBenchFluid(b, WithWorkers(0))
	h := f.H()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.AddInflow(4*h, 54*h, 12*h, 20*h, 1.0, 3.0, 0.0)
		f.Update()
	}
}

func BenchmarkToRGBA(b *testing.B) {
	f := newBenchFluid(b)
	buf := make([]byte, 4*f.Rows()*f.Columns())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := f.ToRGBA(buf, 1.0); err != nil {
			b.Fatal(err)
		}
	}
}
