package fluid

import "fmt"

// VectorField holds cell-centred velocity components.
type VectorField struct {
	Rows, Columns    int
	valuesU, valuesV []float64
}

func (v VectorField) Value(row, column int) (float64, float64, error) {
	if row < 0 || row >= v.Rows {
		return 0.0, 0.0, fmt.Errorf("row index out of range, must be between 0 and %d", v.Rows-1)
	}
	if column < 0 || column >= v.Columns {
		return 0.0, 0.0, fmt.Errorf("column index out of range, must be between 0 and %d", v.Columns-1)
	}

	return v.valuesU[row*v.Columns+column], v.valuesV[row*v.Columns+column], nil
}
