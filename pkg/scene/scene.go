// Package scene holds the example setups shared by the viewers: which bodies
// sit in the tank and where dye and momentum are injected every frame.
package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/TheFellow/fluid/pkg/fluid"
)

// ErrUnknownScene is returned by Lookup for names that are not registered.
var ErrUnknownScene = errors.New("scene: unknown scene")

// Inflow is a rectangle where density and velocity are injected before
// every step. Coordinates are fractions of the domain:
// X and Width of its width, Y and Height of its height.
type Inflow struct {
	X, Y, Width, Height float64
	Density             float64
	U, V                float64 // world units per second

	// Until stops the inflow once the simulated time reaches it. Zero keeps
	// it running.
	Until float64
}

func (in Inflow) activeAt(t float64) bool {
	return in.Until <= 0 || t < in.Until
}

// Scene describes a reusable setup. setup receives the domain size in world
// units and returns fresh bodies on every call, since bodies move.
type Scene struct {
	Name        string
	Description string

	setup func(width, height float64) ([]fluid.Body, []Inflow)
}

var scenes = map[string]Scene{
	"plume": {
		Name:        "plume",
		Description: "dye rising from a nozzle at the bottom of the tank",
		setup: func(width, height float64) ([]fluid.Body, []Inflow) {
			return nil, []Inflow{
				{X: 0.45, Y: 0.03, Width: 0.1, Height: 0.08, Density: 1.0, V: 1.0},
			}
		},
	},
	"obstacles": {
		Name:        "obstacles",
		Description: "a jet from the left wall past a disk and a spinning paddle",
		setup: func(width, height float64) ([]fluid.Body, []Inflow) {
			bodies := []fluid.Body{
				fluid.NewDisk(0.35*width, 0.5*height, 0.08*width, 0, 0, 0),
				fluid.NewBox(0.7*width, 0.5*height, 0.16*width, 0.03*width, 0, 0, 0, 1.5),
			}
			return bodies, []Inflow{
				{X: 0.02, Y: 0.42, Width: 0.06, Height: 0.16, Density: 1.0, U: 1.5},
			}
		},
	},
	"burst": {
		Name:        "burst",
		Description: "a short diagonal burst of dense dye that is left to settle",
		setup: func(width, height float64) ([]fluid.Body, []Inflow) {
			return nil, []Inflow{
				{X: 0.08, Y: 0.08, Width: 0.16, Height: 0.16, Density: 2.0, U: 2.0, V: 1.0, Until: 0.15},
			}
		},
	},
}

// Names lists the registered scenes in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the scene registered under name.
func Lookup(name string) (Scene, error) {
	s, ok := scenes[name]
	if !ok {
		return Scene{}, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return s, nil
}

// Sim runs a scene on a fluid grid. The embedded Fluid exposes readback
// and export.
type Sim struct {
	*fluid.Fluid

	scene   Scene
	inflows []Inflow
	width   float64
	height  float64
	time    float64
	frame   int
}

// Build creates a rows x columns simulation of the scene. The domain is one
// world unit wide, so the cell size is 1/columns. Extra options are applied
// after the scene's bodies.
func (s Scene) Build(rows, columns int, timestep float64, opts ...fluid.Option) (*Sim, error) {
	if columns <= 0 {
		return nil, fmt.Errorf("%w: columns must be positive, got %d", fluid.ErrInvalidConfig, columns)
	}
	h := 1.0 / float64(columns)
	width, height := 1.0, float64(rows)*h

	bodies, inflows := s.setup(width, height)
	opts = append([]fluid.Option{fluid.WithBodies(bodies...)}, opts...)

	f, err := fluid.New(rows, columns, timestep, h, 1.0, opts...)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	return &Sim{
		Fluid:   f,
		scene:   s,
		inflows: inflows,
		width:   width,
		height:  height,
	}, nil
}

func (s *Sim) Scene() Scene { return s.scene }

// Time is the simulated time in seconds.
func (s *Sim) Time() float64 { return s.time }

// Frame is the number of completed steps.
func (s *Sim) Frame() int { return s.frame }

// Step applies the active inflows and advances the fluid by one timestep.
func (s *Sim) Step() {
	for _, in := range s.inflows {
		if !in.activeAt(s.time) {
			continue
		}
		s.AddInflow(in.X*s.width, in.Y*s.height, in.Width*s.width, in.Height*s.height,
			in.Density, in.U, in.V)
	}
	s.Update()

	s.time += s.Timestep()
	s.frame++
}

// Restart clears the fluid and rewinds the clock. Bodies keep their pose.
func (s *Sim) Restart() {
	s.Reset()
	s.time = 0
	s.frame = 0
}
