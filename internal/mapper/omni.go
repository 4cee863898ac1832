package mapper

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DimensionMismatchError reports a pitch-angle vector that matches neither
// axis of a flux grid.
type DimensionMismatchError struct {
	Angles     int
	Rows, Cols int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("pitch-angle vector length %d matches neither grid axis (%dx%d)",
		e.Angles, e.Rows, e.Cols)
}

// Integrate approximates the omnidirectional flux per energy,
//
//	omni(E) = 2 pi \int sin(theta) j(theta, E) dtheta,
//
// by a bin-midpoint trapezoid rule over the pitch-angle axis. With symmetric
// set, fluxes sampled only over [0, 90] degrees are doubled to account for
// mirror symmetry about 90. The accuracy of the approximation is limited by
// the pitch-angle bin resolution.
//
// The grid may carry pitch along either axis; it is transposed as needed.
func Integrate(anglesDeg []float64, grid [][]float64, symmetric bool) ([]float64, error) {
	nA := len(anglesDeg)
	if nA < 2 {
		return nil, &DimensionMismatchError{Angles: nA}
	}
	rows := len(grid)
	cols := 0
	if rows > 0 {
		cols = len(grid[0])
	}

	flux := grid
	switch {
	case cols == nA:
		// pitch along the second axis already
	case rows == nA:
		flux = transpose(grid)
		rows, cols = cols, rows
	default:
		return nil, &DimensionMismatchError{Angles: nA, Rows: rows, Cols: cols}
	}

	rad := make([]float64, nA)
	for i, a := range anglesDeg {
		rad[i] = a * math.Pi / 180
	}

	// Integration weight: 2 pi in azimuth times the bin width, doubled when
	// compensating for the unsampled half range.
	weight := make([]float64, nA-1)
	for i := range weight {
		weight[i] = 2 * math.Pi * (rad[i+1] - rad[i]) * math.Sin(0.5*(rad[i]+rad[i+1]))
		if symmetric {
			weight[i] *= 2
		}
	}

	omni := make([]float64, rows)
	terms := make([]float64, nA-1)
	for r := 0; r < rows; r++ {
		for i := range terms {
			terms[i] = weight[i] * 0.5 * (flux[r][i] + flux[r][i+1])
		}
		omni[r] = floats.Sum(terms)
	}
	return omni, nil
}

func transpose(grid [][]float64) [][]float64 {
	rows := len(grid)
	if rows == 0 {
		return nil
	}
	cols := len(grid[0])
	out := make([][]float64, cols)
	for i := range out {
		out[i] = make([]float64, rows)
		for j := 0; j < rows; j++ {
			out[i][j] = grid[j][i]
		}
	}
	return out
}
