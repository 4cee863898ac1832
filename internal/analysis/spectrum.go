package analysis

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/ptmpost/internal/fluxmap"
)

// DriftSpectrum returns the power spectrum of a trajectory's x-position
// history, mean-subtracted and zero-padded to the next power of two.
// The dominant bin k maps to a drift frequency of k/(n*dt) for a padded
// length n and uniform sample spacing dt.
func DriftSpectrum(traj fluxmap.Trajectory) []float64 {
	if len(traj) < 2 {
		return nil
	}

	data := make([]float64, len(traj))
	mean := 0.0
	for i, pt := range traj {
		data[i] = pt.Pos[0]
		mean += pt.Pos[0]
	}
	mean /= float64(len(data))
	for i := range data {
		data[i] -= mean
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	spec := fft(padded)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// fft is a recursive radix-2 Cooley-Tukey transform. Callers pad the
// input to a power of two.
func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}
