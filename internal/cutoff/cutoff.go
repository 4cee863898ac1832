// Package cutoff derives geomagnetic access and cutoff-energy information
// from the final-position geometry of a flux map.
package cutoff

import (
	"fmt"
	"math"

	"github.com/san-kum/ptmpost/internal/fluxmap"
)

const (
	// ProtonRestMeV is the proton rest energy in MeV.
	ProtonRestMeV = 938.272

	// fullAccessFraction is the access fraction above which an energy is
	// treated as fully open: Earth (with atmosphere, ~1.1 Re) shadows about
	// 0.18 of the full sphere as seen from a low-altitude point, so full
	// transmission tops out near 0.82.
	fullAccessFraction = 0.82
)

// Result holds cutoff energies and the corresponding proton rigidities.
type Result struct {
	EcLow       float64 // lowest energy with any access, MeV
	EcHigh      float64 // lowest energy of the full-access regime, MeV
	EcEffective float64 // shadow-weighted effective cutoff, MeV

	RigidityLow       float64 // GV
	RigidityHigh      float64 // GV
	RigidityEffective float64 // GV

	AccessFraction []float64 // per-energy fraction of pitch bins with access
}

// AccessFractions returns, per energy, the fraction of pitch-angle bins whose
// final position reached the boundary radius.
func AccessFractions(fm *fluxmap.FluxMap) []float64 {
	fractions := make([]float64, fm.NumEnergies())
	for i := range fm.Energies {
		n := 0
		for j := range fm.Angles {
			if fm.FinalX[i][j].Norm() >= fluxmap.AccessRadiusRe {
				n++
			}
		}
		fractions[i] = float64(n) / float64(fm.NumAngles())
	}
	return fractions
}

// Compute derives the low, high, and effective cutoff energies from the map
// geometry. When no energy reaches full access the high cutoff falls back to
// the top of the energy grid.
func Compute(fm *fluxmap.FluxMap) (*Result, error) {
	if fm.NumEnergies() == 0 || fm.NumAngles() == 0 {
		return nil, fmt.Errorf("compute cutoffs: empty flux map grid")
	}

	fractions := AccessFractions(fm)
	enMeV := make([]float64, len(fm.Energies))
	for i, e := range fm.Energies {
		enMeV[i] = e / 1e3
	}

	idxLow := -1
	for i, f := range fractions {
		if f > 0 {
			idxLow = i
			break
		}
	}
	if idxLow < 0 {
		return nil, fmt.Errorf("compute cutoffs: no energy has access to the boundary")
	}

	// Start of the first contiguous run of full access; the top of the grid
	// when no such run exists.
	idxHigh := len(enMeV) - 1
	for i, f := range fractions {
		if f > fullAccessFraction {
			idxHigh = i
			break
		}
	}

	nTotal := fm.NumEnergies() * fm.NumAngles()
	nAllowed := 0.0
	for _, f := range fractions {
		nAllowed += f * float64(fm.NumAngles())
	}
	nForbidden := float64(nTotal) - nAllowed

	res := &Result{
		EcLow:          enMeV[idxLow],
		EcHigh:         enMeV[idxHigh],
		AccessFraction: fractions,
	}
	res.RigidityLow = RigidityFromEnergy(res.EcLow)
	res.RigidityHigh = RigidityFromEnergy(res.EcHigh)
	res.RigidityEffective = res.RigidityLow +
		(res.RigidityHigh-res.RigidityLow)*nForbidden/float64(nTotal)
	res.EcEffective = EnergyFromRigidity(res.RigidityEffective)

	return res, nil
}

// RigidityFromEnergy converts a proton kinetic energy in MeV to magnetic
// rigidity in GV: R = sqrt(E (E + 2 mc^2)) / q.
func RigidityFromEnergy(eMeV float64) float64 {
	return math.Sqrt(eMeV*(eMeV+2*ProtonRestMeV)) / 1e3
}

// EnergyFromRigidity is the exact algebraic inverse of RigidityFromEnergy.
func EnergyFromRigidity(rGV float64) float64 {
	pc := rGV * 1e3
	return math.Sqrt(pc*pc+ProtonRestMeV*ProtonRestMeV) - ProtonRestMeV
}
