package fluid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ScalarField is a uniform rows x columns grid of samples. The sample at
// (row, column) sits at grid position (column+OffsetX, row+OffsetY), so an
// offset of (0.5, 0.5) is cell centred and (0, 0.5) lies on vertical faces.
type ScalarField struct {
	Rows, Columns    int
	OffsetX, OffsetY float64

	// MinValue and MaxValue are only populated on readback snapshots.
	MinValue, MaxValue float64

	values []float64
}

func newScalarField(rows, columns int, offsetX, offsetY float64) ScalarField {
	return ScalarField{
		Rows:    rows,
		Columns: columns,
		OffsetX: offsetX,
		OffsetY: offsetY,
		values:  make([]float64, rows*columns),
	}
}

// view shares values with the receiver's geometry.
func (s ScalarField) view(values []float64) ScalarField {
	s.values = values
	return s
}

func (s ScalarField) at(row, column int) float64 {
	return s.values[row*s.Columns+column]
}

func (s ScalarField) Value(row, column int) (float64, error) {
	if row < 0 || row >= s.Rows {
		return 0.0, fmt.Errorf("row index out of range, must be between 0 and %d", s.Rows-1)
	}
	if column < 0 || column >= s.Columns {
		return 0.0, fmt.Errorf("column index out of range, must be between 0 and %d", s.Columns-1)
	}

	return s.values[row*s.Columns+column], nil
}

// snapshot copies values and records their range.
func snapshot(s ScalarField, values []float64) ScalarField {
	out := s.view(make([]float64, len(values)))
	copy(out.values, values)
	if len(values) > 0 {
		out.MinValue = floats.Min(values)
		out.MaxValue = floats.Max(values)
	}
	return out
}
