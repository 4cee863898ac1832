// Package boundary assembles time- and MLT-dependent omnidirectional fluxes
// from a rungrid of map files and writes them in the fixed-format boundary
// file consumed by the RAM ring-current model.
package boundary

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// RunGrid describes a set of related backward-tracing runs: one run per
// (time, MLT) point on a circle of fixed radial distance. Fluxes are
// calculated at the later time of each run since the tracing is backwards.
type RunGrid struct {
	RunIDs []int     // in file order: time-major, MLT-minor
	Times  []float64 // distinct times, seconds of day, ascending
	MLT    []float64 // distinct magnetic local times, ascending
	Radius float64   // common radial distance, Re
}

// ReadRunGrid parses a rungrid.txt file: one header line, then one row per
// run with columns [runid, ..., time, r, mlt]. All runs must sit at the same
// radial distance.
func ReadRunGrid(path string) (*RunGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rungrid: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("%s: empty rungrid file", path)
	}

	rg := &RunGrid{}
	timeSet := make(map[float64]struct{})
	mltSet := make(map[float64]struct{})
	var radii []float64

	lineNo := 1
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 5 {
			return nil, fmt.Errorf("%s:%d: expected at least 5 columns, got %d", path, lineNo, len(fields))
		}
		vals := make([]float64, 5)
		for k := 0; k < 5; k++ {
			v, err := strconv.ParseFloat(fields[k], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: column %d: %w", path, lineNo, k+1, err)
			}
			vals[k] = v
		}
		rg.RunIDs = append(rg.RunIDs, int(vals[0]))
		timeSet[vals[2]] = struct{}{}
		radii = append(radii, vals[3])
		mltSet[vals[4]] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read rungrid %s: %w", path, err)
	}
	if len(rg.RunIDs) == 0 {
		return nil, fmt.Errorf("%s: no runs listed", path)
	}

	for _, r := range radii {
		if math.Abs(r-radii[0]) > 1e-3*math.Abs(radii[0]) {
			return nil, fmt.Errorf("%s: runs are not at a fixed radial distance (%g vs %g Re)",
				path, r, radii[0])
		}
	}
	rg.Radius = radii[0]

	rg.Times = sortedKeys(timeSet)
	rg.MLT = sortedKeys(mltSet)

	if len(rg.RunIDs) != len(rg.Times)*len(rg.MLT) {
		return nil, fmt.Errorf("%s: %d runs do not fill a %dx%d time-MLT grid",
			path, len(rg.RunIDs), len(rg.Times), len(rg.MLT))
	}

	return rg, nil
}

// CadenceMinutes is the run cadence derived from the first two grid times.
func (rg *RunGrid) CadenceMinutes() int {
	if len(rg.Times) < 2 {
		return 0
	}
	return int((rg.Times[1] - rg.Times[0]) / 60)
}

// MapFileName is the map file produced by a run.
func MapFileName(runID int) string {
	return fmt.Sprintf("map_%04d.dat", runID)
}

func sortedKeys(set map[float64]struct{}) []float64 {
	out := make([]float64, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
