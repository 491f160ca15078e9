package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/TheFellow/fluid/pkg/fluid"
)

func TestNames(t *testing.T) {
	names := Names()
	want := []string{"burst", "obstacles", "plume"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("tornado")
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Lookup(tornado) error = %v, want ErrUnknownScene", err)
	}
}

func TestBuildRejectsInvalidGrid(t *testing.T) {
	s, err := Lookup("plume")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Build(16, 0, 0.01); !errors.Is(err, fluid.ErrInvalidConfig) {
		t.Errorf("zero columns: error = %v, want ErrInvalidConfig", err)
	}
	if _, err := s.Build(16, 16, -1); !errors.Is(err, fluid.ErrInvalidConfig) {
		t.Errorf("negative timestep: error = %v, want ErrInvalidConfig", err)
	}
}

func TestInflowActive(t *testing.T) {
	forever := Inflow{}
	if !forever.activeAt(0) || !forever.activeAt(1e6) {
		t.Error("an inflow without Until should always be active")
	}
	burst := Inflow{Until: 0.15}
	if !burst.activeAt(0.1) {
		t.Error("burst should be active before Until")
	}
	if burst.activeAt(0.15) || burst.activeAt(0.2) {
		t.Error("burst should stop at Until")
	}
}

func TestEverySceneRuns(t *testing.T) {
	for _, name := range Names() {
		s, err := Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		sim, err := s.Build(24, 32, 0.01)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for i := 0; i < 10; i++ {
			sim.Step()
		}

		if sim.Frame() != 10 {
			t.Errorf("%s: frame = %d, want 10", name, sim.Frame())
		}
		if math.Abs(sim.Time()-0.1) > 1e-12 {
			t.Errorf("%s: time = %g, want 0.1", name, sim.Time())
		}
		d := sim.Density()
		if d.MaxValue <= 0 {
			t.Errorf("%s: no dye injected", name)
		}
		if math.IsNaN(d.MaxValue) || math.IsInf(d.MaxValue, 0) {
			t.Errorf("%s: density is not finite", name)
		}
	}
}

func TestBuildGivesFreshBodies(t *testing.T) {
	s, err := Lookup("obstacles")
	if err != nil {
		t.Fatal(err)
	}
	a, err := s.Build(16, 16, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Build(16, 16, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Bodies()) != 2 {
		t.Fatalf("bodies = %d, want 2", len(a.Bodies()))
	}

	a.Step()
	paddleA := a.Bodies()[1].(*fluid.Box)
	paddleB := b.Bodies()[1].(*fluid.Box)
	if paddleA == paddleB {
		t.Fatal("simulations share a body")
	}
	if paddleB.Rotation() != 0 {
		t.Errorf("untouched simulation rotated to %g", paddleB.Rotation())
	}
	if paddleA.Rotation() == 0 {
		t.Error("stepped paddle did not rotate")
	}
}

func TestBurstStops(t *testing.T) {
	s, err := Lookup("burst")
	if err != nil {
		t.Fatal(err)
	}
	sim, err := s.Build(16, 16, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	for sim.Time() < 0.2 {
		sim.Step()
	}

	// The source rectangle is no longer pinned at the inflow density.
	before := sim.Density().MaxValue
	for i := 0; i < 20; i++ {
		sim.Step()
	}
	if after := sim.Density().MaxValue; after > before+1e-9 {
		t.Errorf("max density grew from %g to %g after the burst ended", before, after)
	}
}

func TestRestart(t *testing.T) {
	s, err := Lookup("plume")
	if err != nil {
		t.Fatal(err)
	}
	sim, err := s.Build(16, 16, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	sim.Step()
	sim.Restart()

	if sim.Frame() != 0 || sim.Time() != 0 {
		t.Errorf("clock not rewound: frame %d time %g", sim.Frame(), sim.Time())
	}
	if d := sim.Density(); d.MaxValue != 0 || d.MinValue != 0 {
		t.Errorf("density not cleared: [%g, %g]", d.MinValue, d.MaxValue)
	}
}

func TestObstaclesStayBounded(t *testing.T) {
	s, err := Lookup("obstacles")
	if err != nil {
		t.Fatal(err)
	}
	sim, err := s.Build(32, 32, 0.01)
	if err != nil {
		t.Fatal(err)
	}

	for step := 0; step < 100; step++ {
		sim.Step()
		if stats := sim.LastSolve(); !stats.Converged {
			t.Fatalf("step %d: pressure solve did not converge: %+v", step, stats)
		}
		if speed := sim.VelocityMagnitude().MaxValue; math.IsNaN(speed) || speed > 10.0 {
			t.Fatalf("step %d: max speed %g", step, speed)
		}
	}
}
