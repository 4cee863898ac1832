package mapper

import (
	"math"
	"testing"

	"github.com/san-kum/ptmpost/internal/dist"
	"github.com/san-kum/ptmpost/internal/fluxmap"
)

func testMap() *fluxmap.FluxMap {
	fm := &fluxmap.FluxMap{
		Energies:       []float64{100, 1000},
		Angles:         []float64{45, 90},
		SourcePosition: fluxmap.Vec3{6.6, 0, 0},
	}
	fm.InitE = fm.Grid()
	fm.FinalE = fm.Grid()
	fm.FinalX = [][]fluxmap.Vec3{
		{{15.0, 0, 0}, {3.0, 0, 0}}, // second cell never left the inner region
		{{0, 15.0, 0}, {15.0, 0, 0}},
	}
	fm.InitV = [][]fluxmap.Vec3{
		{{1, 0, 0}, {1, 0, 0}},
		{{-1, 0, 0}, {0, 1, 0}},
	}
	for i, e := range fm.Energies {
		for j := range fm.Angles {
			fm.InitE[i][j] = e
			fm.FinalE[i][j] = e * 2
		}
	}
	return fm
}

func testDist(t *testing.T) dist.Distribution {
	t.Helper()
	d, err := dist.NewKappa(dist.Params{
		Density:              1.0,
		CharacteristicEnergy: 100.0,
		KappaIndex:           2.5,
		MassMultiple:         1836.0,
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestMapFluxAccessMask(t *testing.T) {
	fm := testMap()
	d := testDist(t)

	grid := MapFlux(fm, d, Options{AccessMask: true})

	if grid[0][1] != 0 {
		t.Errorf("cell inside access radius has flux %g, want 0", grid[0][1])
	}
	for _, cell := range [][2]int{{0, 0}, {1, 0}, {1, 1}} {
		if grid[cell[0]][cell[1]] <= 0 {
			t.Errorf("accessible cell %v has flux %g, want > 0", cell, grid[cell[0]][cell[1]])
		}
	}

	// The mask wins regardless of distribution parameters.
	hot, err := dist.NewKappa(dist.Params{
		Density: 1e6, CharacteristicEnergy: 1e4, KappaIndex: 3, MassMultiple: 1836,
	})
	if err != nil {
		t.Fatal(err)
	}
	grid = MapFlux(fm, hot, Options{AccessMask: true})
	if grid[0][1] != 0 {
		t.Errorf("masked cell has flux %g with hot source, want 0", grid[0][1])
	}
}

func TestMapFluxFieldOfView(t *testing.T) {
	fm := testMap()
	grid := MapFlux(fm, testDist(t), Options{FieldOfView: true})

	// Inverse boresight is +x here. Velocities at or beyond 90 degrees from
	// it are outside the aperture.
	if grid[0][0] <= 0 { // along +x, angle 0
		t.Errorf("cell looking into aperture has flux %g, want > 0", grid[0][0])
	}
	if grid[1][0] != 0 { // along -x, angle 180
		t.Errorf("cell looking away has flux %g, want 0", grid[1][0])
	}
	if grid[1][1] != 0 { // along +y, angle exactly 90
		t.Errorf("cell at 90 degrees has flux %g, want 0", grid[1][1])
	}
}

func TestFOVAngles(t *testing.T) {
	fm := testMap()
	angles := FOVAngles(fm)

	want := [][]float64{{0, 0}, {180, 90}}
	for i := range want {
		for j := range want[i] {
			if math.Abs(angles[i][j]-want[i][j]) > 1e-9 {
				t.Errorf("angle[%d][%d] = %g, want %g", i, j, angles[i][j], want[i][j])
			}
		}
	}
}

func TestMapFluxInitialEnergyMode(t *testing.T) {
	fm := testMap()
	d := testDist(t)

	normal := MapFlux(fm, d, Options{})
	baseline := MapFlux(fm, d, Options{InitialEnergy: true})

	// FinalE differs from InitE in the fixture, so the boundary-speed
	// factor must differ between the two modes.
	if normal[0][0] == baseline[0][0] {
		t.Error("initial-energy mode produced identical flux")
	}

	// In initial-energy mode the conversion velocity comes from InitE.
	wantRatio := math.Pow(dist.Speed(fm.InitE[0][0], d.RestEnergy()), 2) /
		math.Pow(dist.Speed(fm.FinalE[0][0], d.RestEnergy()), 2)
	gotRatio := baseline[0][0] / normal[0][0]
	if math.Abs(gotRatio-wantRatio) > 1e-12*wantRatio {
		t.Errorf("flux ratio %g, want %g", gotRatio, wantRatio)
	}
}

func TestMapFluxEnergyFluxWeighting(t *testing.T) {
	fm := testMap()
	d := testDist(t)

	number := MapFlux(fm, d, Options{})
	energy := MapFlux(fm, d, Options{EnergyFlux: true})

	for i := range number {
		for j := range number[i] {
			want := number[i][j] * fm.FinalE[i][j]
			if math.Abs(energy[i][j]-want) > 1e-12*math.Abs(want) {
				t.Errorf("energy flux [%d][%d] = %g, want %g", i, j, energy[i][j], want)
			}
		}
	}
}
