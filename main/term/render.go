package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/TheFellow/fluid/pkg/scene"
)

// ramp runs from empty to dense.
var ramp = []rune(" .:-=+*#%@")

var solidStyle = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorDarkSlateGray)

// glyph picks the ramp character and grey level for a density value.
func glyph(density, maxDensity float64) (rune, int32) {
	t := min(max(density/maxDensity, 0.0), 1.0)
	i := int(t * float64(len(ramp)-1)) // truncates, so only t == 1 reaches '@'
	return ramp[i], int32(64 + t*191)
}

// cellAt maps a terminal cell of a width x height canvas onto the grid.
// Terminal rows grow downwards, grid rows upwards.
func cellAt(x, y, width, height, rows, columns int) (int, int) {
	column := x * columns / width
	row := rows - 1 - y*rows/height
	return row, column
}

// draw paints the density of sim onto the screen, leaving the bottom line
// for status.
func draw(screen tcell.Screen, sim *scene.Sim, maxDensity float64) {
	width, height := screen.Size()
	height--
	if width <= 0 || height <= 0 {
		return
	}

	d := sim.Density()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			row, column := cellAt(x, y, width, height, sim.Rows(), sim.Columns())
			if sim.IsSolid(row, column) {
				screen.SetContent(x, y, '▒', nil, solidStyle)
				continue
			}
			v, err := d.Value(row, column)
			if err != nil {
				continue
			}
			r, level := glyph(v, maxDensity)
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(level, level, level))
			screen.SetContent(x, y, r, nil, style)
		}
	}
}

// status writes s on the bottom line, padded to the screen width.
func status(screen tcell.Screen, s string) {
	width, height := screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	runes := []rune(s)
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		screen.SetContent(x, height-1, r, nil, style)
	}
}
