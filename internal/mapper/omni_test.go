package mapper

import (
	"errors"
	"math"
	"testing"
)

func uniformGrid(nE, nA int, v float64) [][]float64 {
	g := make([][]float64, nE)
	for i := range g {
		g[i] = make([]float64, nA)
		for j := range g[i] {
			g[i][j] = v
		}
	}
	return g
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

func TestIntegrateIsotropicFullRange(t *testing.T) {
	// Uniform j=1 over 0-180 degrees integrates to 4 pi at every energy.
	angles := linspace(0, 180, 181)
	grid := uniformGrid(3, len(angles), 1.0)

	omni, err := Integrate(angles, grid, false)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	for i, v := range omni {
		if rel := math.Abs(v-4*math.Pi) / (4 * math.Pi); rel > 1e-3 {
			t.Errorf("omni[%d] = %g, want 4pi (rel err %.2e)", i, v, rel)
		}
	}
}

func TestIntegrateSymmetricHalfRange(t *testing.T) {
	// The same uniform flux over 0-90 degrees with the symmetry doubling
	// also integrates to 4 pi.
	angles := linspace(0, 90, 91)
	grid := uniformGrid(2, len(angles), 1.0)

	omni, err := Integrate(angles, grid, true)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	for i, v := range omni {
		if rel := math.Abs(v-4*math.Pi) / (4 * math.Pi); rel > 1e-3 {
			t.Errorf("omni[%d] = %g, want 4pi (rel err %.2e)", i, v, rel)
		}
	}
}

func TestIntegrateCoarseBinsLessAccurate(t *testing.T) {
	// The midpoint trapezoid rule is a discretization: coarse bins drift
	// from 4 pi but stay within a few percent.
	angles := linspace(0, 180, 10)
	grid := uniformGrid(1, len(angles), 1.0)

	omni, err := Integrate(angles, grid, false)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if rel := math.Abs(omni[0]-4*math.Pi) / (4 * math.Pi); rel > 0.05 {
		t.Errorf("omni = %g, want 4pi within 5%% (rel err %.2e)", omni[0], rel)
	}
}

func TestIntegrateTransposedGrid(t *testing.T) {
	angles := linspace(0, 180, 19)
	nE := 4

	// Pitch along the first axis: the integrator must transpose.
	grid := make([][]float64, len(angles))
	for j := range grid {
		grid[j] = make([]float64, nE)
		for i := range grid[j] {
			grid[j][i] = float64(i + 1)
		}
	}

	omni, err := Integrate(angles, grid, false)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if len(omni) != nE {
		t.Fatalf("got %d energies, want %d", len(omni), nE)
	}
	for i, v := range omni {
		want := float64(i+1) * 4 * math.Pi
		if rel := math.Abs(v-want) / want; rel > 0.02 {
			t.Errorf("omni[%d] = %g, want %g", i, v, want)
		}
	}
}

func TestIntegrateDimensionMismatch(t *testing.T) {
	angles := linspace(0, 90, 7)
	grid := uniformGrid(3, 5, 1.0)

	_, err := Integrate(angles, grid, false)
	if err == nil {
		t.Fatal("expected dimension mismatch")
	}
	var dm *DimensionMismatchError
	if !errors.As(err, &dm) {
		t.Fatalf("error %v is not a DimensionMismatchError", err)
	}
	if dm.Angles != 7 || dm.Rows != 3 || dm.Cols != 5 {
		t.Errorf("error fields %+v", dm)
	}
}
