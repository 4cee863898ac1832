package fluxmap

import (
	"gonum.org/v1/gonum/floats"
)

// AccessRadiusRe is the radial distance (Re) a backward-traced particle must
// reach for its grid cell to count as having access to the source boundary.
const AccessRadiusRe = 14.99

// Vec3 is a cartesian position or velocity vector.
type Vec3 [3]float64

func (v Vec3) Norm() float64 {
	return floats.Norm(v[:], 2)
}

func (v Vec3) Dot(o Vec3) float64 {
	return floats.Dot(v[:], o[:])
}

func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return Vec3{v[0] / n, v[1] / n, v[2] / n}
}

// FluxMap is the assembled outcome of a backward-tracing run: one cell per
// (energy, pitch angle) grid point. It is built once by ParseMapFiles and
// read-only afterwards.
type FluxMap struct {
	Energies []float64 // source energy grid, keV, strictly ascending
	Angles   []float64 // pitch angle grid, degrees, strictly ascending

	InitE  [][]float64 // energy at the source region, keV
	FinalE [][]float64 // energy at the boundary, keV
	FinalX [][]Vec3    // final particle position, Re
	InitV  [][]Vec3    // initial particle velocity at launch

	SourcePosition Vec3 // observation point, Re
}

func (fm *FluxMap) NumEnergies() int { return len(fm.Energies) }
func (fm *FluxMap) NumAngles() int   { return len(fm.Angles) }

// Grid allocates an energy-by-pitch scalar grid matching the map shape.
func (fm *FluxMap) Grid() [][]float64 {
	g := make([][]float64, len(fm.Energies))
	for i := range g {
		g[i] = make([]float64, len(fm.Angles))
	}
	return g
}
