package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/TheFellow/fluid/pkg/scene"
)

func TestGlyph(t *testing.T) {
	tests := []struct {
		density, max float64
		want         rune
	}{
		{0.0, 1.0, ' '},
		{-2.0, 1.0, ' '},
		{1.0, 1.0, '@'},
		{3.0, 1.0, '@'},
		{0.5, 1.0, '='},
		{1.0, 2.0, '='},
		{0.6, 1.0, '+'},
	}
	for _, tt := range tests {
		if got, _ := glyph(tt.density, tt.max); got != tt.want {
			t.Errorf("glyph(%g, %g) = %q, want %q", tt.density, tt.max, got, tt.want)
		}
	}

	_, empty := glyph(0.0, 1.0)
	_, full := glyph(1.0, 1.0)
	if empty != 64 || full != 255 {
		t.Errorf("grey levels = %d, %d, want 64, 255", empty, full)
	}
}

func TestCellAt(t *testing.T) {
	// 40 x 10 terminal over a 20 x 80 grid.
	tests := []struct {
		x, y      int
		row, cell int
	}{
		{0, 0, 19, 0},
		{39, 9, 1, 78},
		{20, 5, 9, 40},
	}
	for _, tt := range tests {
		row, column := cellAt(tt.x, tt.y, 40, 10, 20, 80)
		if row != tt.row || column != tt.cell {
			t.Errorf("cellAt(%d, %d) = (%d, %d), want (%d, %d)", tt.x, tt.y, row, column, tt.row, tt.cell)
		}
	}
}

func TestDraw(t *testing.T) {
	s, err := scene.Lookup("obstacles")
	if err != nil {
		t.Fatal(err)
	}
	sim, err := s.Build(16, 32, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	sim.Step()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(32, 17)

	draw(screen, sim, 1.0)
	status(screen, "hello")
	screen.Show()

	// The disk centre sits at column 11, row 8 of the grid.
	x, y := 11, 16-1-8
	if r, _, _, _ := screen.GetContent(x, y); r != '▒' {
		t.Errorf("disk centre drawn as %q, want solid", r)
	}
	v, err := sim.Density().Value(8, 1)
	if err != nil {
		t.Fatal(err)
	}
	if v <= 0 {
		t.Fatalf("no dye next to the inflow")
	}
	want, _ := glyph(v, 1.0)
	if r, _, _, _ := screen.GetContent(1, 16-1-8); r != want {
		t.Errorf("inflow drawn as %q, want %q", r, want)
	}
	if r, _, _, _ := screen.GetContent(0, 16); r != 'h' {
		t.Errorf("status line starts with %q, want 'h'", r)
	}
}
