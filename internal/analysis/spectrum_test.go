package analysis

import (
	"math"
	"testing"
)

func TestDriftSpectrumDominantFrequency(t *testing.T) {
	// 4 cycles over 1024 samples: the peak should land in bin 4 exactly,
	// since the length is already a power of two.
	const period = 100.0
	traj := sineTrajectory(period, 4, 1024)

	ps := DriftSpectrum(traj)
	if len(ps) != 512 {
		t.Fatalf("spectrum length = %d, want 512", len(ps))
	}

	peak := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak != 4 {
		t.Errorf("dominant bin = %d, want 4", peak)
	}

	// The DC bin is mean-subtracted away.
	if ps[0] > ps[peak]*1e-6 {
		t.Errorf("dc power %g not removed (peak %g)", ps[0], ps[peak])
	}
}

func TestDriftSpectrumPadding(t *testing.T) {
	traj := sineTrajectory(50.0, 2, 300)
	ps := DriftSpectrum(traj)
	// 300 samples pad to 512, spectrum keeps the positive half.
	if len(ps) != 256 {
		t.Errorf("spectrum length = %d, want 256", len(ps))
	}
	max := 0.0
	for _, v := range ps {
		if v > max {
			max = v
		}
	}
	if max <= 0 || math.IsNaN(max) {
		t.Errorf("degenerate spectrum, max = %g", max)
	}
}

func TestDriftSpectrumShortInput(t *testing.T) {
	if ps := DriftSpectrum(nil); ps != nil {
		t.Errorf("expected nil spectrum for empty trajectory, got %v", ps)
	}
}
