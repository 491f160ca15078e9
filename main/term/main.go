// Command term runs a scene in the terminal, drawing density as shaded
// characters.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/TheFellow/fluid/pkg/fluid"
	"github.com/TheFellow/fluid/pkg/scene"
)

type viewer struct {
	screen     tcell.Screen
	sim        *scene.Sim
	maxDensity float64
	maxFrames  int
	paused     bool
}

// handleInput returns false when the viewer should exit.
func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.paused = !v.paused
		case 'r':
			v.sim.Restart()
		case '.':
			v.sim.Step()
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) draw() {
	draw(v.screen, v.sim, v.maxDensity)

	state := "running"
	if v.paused {
		state = "paused"
	}
	stats := v.sim.LastSolve()
	status(v.screen, fmt.Sprintf(" %s  t=%.2fs  frame %d  %s  solve %d it r=%.1e  [space] pause [.] step [r] restart [q] quit",
		v.sim.Scene().Name, v.sim.Time(), v.sim.Frame(), state, stats.Iterations, stats.Residual))
	v.screen.Show()
}

func (v *viewer) run(tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !v.handleInput(ev) {
				return
			}

		case <-ticker.C:
			if v.maxFrames > 0 && v.sim.Frame() >= v.maxFrames {
				return
			}
			if !v.paused {
				v.sim.Step()
			}
			v.draw()
		}
	}
}

func main() {
	var (
		sceneName  = flag.String("scene", "plume", "scene to run: "+strings.Join(scene.Names(), ", "))
		rows       = flag.Int("rows", 48, "grid rows")
		columns    = flag.Int("columns", 96, "grid columns")
		timestep   = flag.Float64("dt", 0.01, "timestep in seconds")
		maxDensity = flag.Float64("max", 1.0, "density drawn as the densest glyph")
		frames     = flag.Int("frames", 0, "stop after this many steps (0 runs until quit)")
		fps        = flag.Int("fps", 30, "steps per second")
		logFile    = flag.String("log", "", "append solver diagnostics to `file`")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: term [flags]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *fps <= 0 || *maxDensity <= 0 {
		fmt.Fprintln(os.Stderr, "fps and max must be positive")
		os.Exit(2)
	}

	// The terminal belongs to tcell, so diagnostics only go to a file.
	var out io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
		fluid.SetLogger(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	logger := slog.New(slog.NewTextHandler(out, nil))

	s, err := scene.Lookup(*sceneName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	sim, err := s.Build(*rows, *columns, *timestep, fluid.WithWorkers(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting", "scene", s.Name, "rows", *rows, "columns", *columns)
	v := &viewer{screen: screen, sim: sim, maxDensity: *maxDensity, maxFrames: *frames}
	v.run(time.Second / time.Duration(*fps))
	screen.Fini()
	logger.Info("stopped", "frames", sim.Frame(), "time", sim.Time())
}
