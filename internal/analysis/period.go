// Package analysis extracts periodic structure from particle trajectories,
// such as the azimuthal drift period of a trapped particle.
package analysis

import (
	"fmt"

	"github.com/san-kum/ptmpost/internal/fluxmap"
)

// InsufficientDataError reports that a periodic quantity was requested from a
// series with too few detectable features.
type InsufficientDataError struct {
	Features int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least 2 extrema to determine a period, found %d", e.Features)
}

// DriftPeriod estimates the drift period from the x-position time series of
// a trajectory. Extrema of x(t) are located by sign changes of the
// finite-difference slope; two extrema give half a cycle, three or more give
// a full one.
func DriftPeriod(traj fluxmap.Trajectory) (float64, error) {
	times := extremaTimes(traj)
	switch {
	case len(times) < 2:
		return 0, &InsufficientDataError{Features: len(times)}
	case len(times) == 2:
		return 2 * (times[1] - times[0]), nil
	default:
		return times[2] - times[0], nil
	}
}

func extremaTimes(traj fluxmap.Trajectory) []float64 {
	var times []float64
	prev := 0.0
	havePrev := false
	for i := 1; i < len(traj); i++ {
		dt := traj[i].Time - traj[i-1].Time
		if dt <= 0 {
			continue
		}
		slope := (traj[i].Pos[0] - traj[i-1].Pos[0]) / dt
		if havePrev && prev*slope < 0 {
			// Slope sign change: extremum near the shared sample point.
			times = append(times, traj[i-1].Time)
		}
		if slope != 0 {
			prev = slope
			havePrev = true
		}
	}
	return times
}
