package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ptmpost/internal/fluxmap"
)

func sineTrajectory(period float64, cycles float64, n int) fluxmap.Trajectory {
	traj := make(fluxmap.Trajectory, n)
	for i := range traj {
		t := cycles * period * float64(i) / float64(n-1)
		traj[i] = fluxmap.TrajectoryPoint{
			Time: t,
			Pos:  fluxmap.Vec3{5 * math.Cos(2 * math.Pi * t / period), 0, 0},
		}
	}
	return traj
}

func TestDriftPeriodFullCycle(t *testing.T) {
	const period = 120.0
	got, err := DriftPeriod(sineTrajectory(period, 2, 2000))
	if err != nil {
		t.Fatalf("drift period failed: %v", err)
	}
	if rel := math.Abs(got-period) / period; rel > 0.01 {
		t.Errorf("period %g, want %g (rel err %.3f)", got, period, rel)
	}
}

func TestDriftPeriodHalfCycle(t *testing.T) {
	// Just over one cycle: two extrema, period from their doubled spacing.
	const period = 60.0
	got, err := DriftPeriod(sineTrajectory(period, 1.1, 1000))
	if err != nil {
		t.Fatalf("drift period failed: %v", err)
	}
	if rel := math.Abs(got-period) / period; rel > 0.02 {
		t.Errorf("period %g, want %g (rel err %.3f)", got, period, rel)
	}
}

func TestDriftPeriodInsufficientData(t *testing.T) {
	traj := make(fluxmap.Trajectory, 50)
	for i := range traj {
		traj[i] = fluxmap.TrajectoryPoint{
			Time: float64(i),
			Pos:  fluxmap.Vec3{float64(i), 0, 0}, // monotonic, no extrema
		}
	}

	_, err := DriftPeriod(traj)
	if err == nil {
		t.Fatal("expected insufficient data error")
	}
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("error %v is not an InsufficientDataError", err)
	}
	if ide.Features != 0 {
		t.Errorf("features = %d, want 0", ide.Features)
	}
}
