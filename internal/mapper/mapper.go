// Package mapper applies a source distribution across a flux map's
// energy/pitch grid and integrates the result over pitch angle.
package mapper

import (
	"math"

	"github.com/san-kum/ptmpost/internal/dist"
	"github.com/san-kum/ptmpost/internal/fluxmap"
)

// Options control how differential flux is evaluated over the grid.
type Options struct {
	// InitialEnergy substitutes the source energy for the boundary energy,
	// producing a flux-at-source baseline for comparison.
	InitialEnergy bool
	// AccessMask zeroes cells whose final position never reached the
	// boundary radius.
	AccessMask bool
	// FieldOfView zeroes cells whose launch velocity does not point into a
	// nadir-pointing instrument aperture at the observation point.
	FieldOfView bool
	// EnergyFlux weights each cell by its boundary energy, turning number
	// flux into energy flux.
	EnergyFlux bool
}

// MapFlux evaluates the distribution at every (energy, pitch) cell and
// applies the masking policies in order: geometric access, then field of
// view. The returned grid has the map's (energies x angles) shape.
func MapFlux(fm *fluxmap.FluxMap, d dist.Distribution, opts Options) [][]float64 {
	grid := fm.Grid()
	for i := range fm.Energies {
		for j := range fm.Angles {
			eSource := fm.InitE[i][j]
			eBoundary := fm.FinalE[i][j]
			if opts.InitialEnergy {
				eBoundary = eSource
			}
			j0 := dist.DifferentialFlux(d, eSource, eBoundary)
			if opts.EnergyFlux {
				j0 *= eBoundary
			}
			grid[i][j] = j0
		}
	}

	if opts.AccessMask {
		for i := range grid {
			for j := range grid[i] {
				if fm.FinalX[i][j].Norm() < fluxmap.AccessRadiusRe {
					grid[i][j] = 0
				}
			}
		}
	}

	if opts.FieldOfView {
		// Angle >= 90 degrees is exactly a non-positive projection on the
		// inverse boresight, so the mask avoids acos roundoff.
		inverseBoresight := fm.SourcePosition.Normalize()
		for i := range grid {
			for j := range grid[i] {
				if inverseBoresight.Dot(fm.InitV[i][j]) <= 0 {
					grid[i][j] = 0
				}
			}
		}
	}

	return grid
}

// FOVAngles computes, per cell, the angle in degrees between the inverse of
// the instrument boresight and the launch velocity. The boresight follows the
// nadir-pointing convention: the inverse of the normalized observation
// position.
func FOVAngles(fm *fluxmap.FluxMap) [][]float64 {
	inverseBoresight := fm.SourcePosition.Normalize()
	angles := fm.Grid()
	for i := range fm.Energies {
		for j := range fm.Angles {
			v := fm.InitV[i][j].Normalize()
			cos := inverseBoresight.Dot(v)
			// Clamp against roundoff before acos.
			cos = math.Max(-1, math.Min(1, cos))
			angles[i][j] = math.Acos(cos) * 180 / math.Pi
		}
	}
	return angles
}
