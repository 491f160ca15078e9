package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/TheFellow/fluid/pkg/fluid"
	"github.com/TheFellow/fluid/pkg/scene"
)

type displayMode int

const (
	showDensity displayMode = iota
	showSpeed
	showVorticity
	showPressure
	numModes
)

func (m displayMode) String() string {
	switch m {
	case showDensity:
		return "density"
	case showSpeed:
		return "speed"
	case showVorticity:
		return "vorticity"
	case showPressure:
		return "pressure"
	}
	return "unknown"
}

type Game struct {
	sim        *scene.Sim
	scale      int
	maxDensity float64
	maxFrames  int

	mode   displayMode
	paused bool

	pixels []byte
	frame  *ebiten.Image
}

func NewGame(sim *scene.Sim, scale int, maxDensity float64, maxFrames int) *Game {
	return &Game{
		sim:        sim,
		scale:      scale,
		maxDensity: maxDensity,
		maxFrames:  maxFrames,
		pixels:     make([]byte, 4*sim.Rows()*sim.Columns()),
		frame:      ebiten.NewImage(sim.Columns(), sim.Rows()),
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.mode = (g.mode + 1) % numModes
	}
	for m, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4} {
		if inpututil.IsKeyJustPressed(key) {
			g.mode = displayMode(m)
		}
	}

	if g.maxFrames > 0 && g.sim.Frame() >= g.maxFrames {
		return ebiten.Termination
	}
	if !g.paused || inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.sim.Step()
	}
	return nil
}

func (g *Game) render() error {
	solid := g.sim.IsSolid
	switch g.mode {
	case showSpeed:
		writeSciField(g.pixels, g.sim.VelocityMagnitude(), solid, false)
	case showVorticity:
		writeSciField(g.pixels, g.sim.Vorticity(), solid, true)
	case showPressure:
		writeSciField(g.pixels, g.sim.Pressure(), solid, true)
	default:
		return g.sim.ToRGBA(g.pixels, g.maxDensity)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if err := g.render(); err != nil {
		slog.Error("render failed", "err", err)
		return
	}
	g.frame.WritePixels(g.pixels)

	// Grid rows grow upwards; flip so +y points up on screen.
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), -float64(g.scale))
	op.GeoM.Translate(0, float64(g.scale*g.sim.Rows()))
	screen.DrawImage(g.frame, op)

	stats := g.sim.LastSolve()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s [%s]  t=%.2fs\nTPS: %0.2f  PCG: %d it, r=%.1e",
		g.sim.Scene().Name, g.mode, g.sim.Time(), ebiten.ActualTPS(), stats.Iterations, stats.Residual))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.scale * g.sim.Columns(), g.scale * g.sim.Rows()
}

func main() {
	var (
		sceneName   = flag.String("scene", "obstacles", "scene to run: "+strings.Join(scene.Names(), ", "))
		rows        = flag.Int("rows", 128, "grid rows")
		columns     = flag.Int("columns", 128, "grid columns")
		scale       = flag.Int("scale", 4, "screen pixels per cell")
		timestep    = flag.Float64("dt", 0.01, "timestep in seconds")
		maxDensity  = flag.Float64("max", 1.0, "density drawn as black")
		frames      = flag.Int("frames", 0, "stop after this many steps (0 runs until closed)")
		workers     = flag.Int("workers", 0, "advection workers (0 uses every CPU)")
		bfecc       = flag.Bool("bfecc", false, "use BFECC advection")
		confinement = flag.Float64("confinement", 0, "vorticity confinement strength")
		verbose     = flag.Bool("v", false, "log every pressure solve")
		cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to `file`")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: fluid [flags]\n\nKeys: 1-4/M display mode, space pause, . step, R restart, Q quit\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	fluid.SetLogger(logger)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	s, err := scene.Lookup(*sceneName)
	if err != nil {
		log.Fatal(err)
	}
	opts := []fluid.Option{fluid.WithWorkers(*workers), fluid.WithConfinement(*confinement)}
	if *bfecc {
		opts = append(opts, fluid.WithAdvection(fluid.BFECC))
	}
	sim, err := s.Build(*rows, *columns, *timestep, opts...)
	if err != nil {
		log.Fatal(err)
	}
	slog.Info("starting", "scene", s.Name, "rows", *rows, "columns", *columns, "dt", *timestep)

	g := NewGame(sim, *scale, *maxDensity, *frames)
	ebiten.SetWindowSize(*scale**columns, *scale**rows)
	ebiten.SetWindowTitle("FluidSim - " + s.Description)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
	slog.Info("stopped", "frames", sim.Frame(), "time", sim.Time())
}
