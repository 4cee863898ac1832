package fluxmap

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// TrajectoryPoint is one output step of a traced particle.
type TrajectoryPoint struct {
	Time       float64
	Pos        Vec3    // Re
	VPerp      float64 // velocity perpendicular to B
	VPara      float64 // velocity parallel to B
	Energy     float64 // keV
	PitchAngle float64 // degrees
}

// Trajectory is the time history of a single particle.
type Trajectory []TrajectoryPoint

// ParseTrajectoryFile reads a trajectory file, an 8-column table
// (TIME XPOS YPOS ZPOS VPERP VPARA ENERGY PITCHANGLE) where each particle's
// section is introduced by a "# <id>" line. Trajectories are keyed by the
// particle id from that line.
func ParseTrajectoryFile(path string) (map[int]Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trajectory file: %w", err)
	}
	defer f.Close()

	trajectories := make(map[int]Trajectory)
	current := -1

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, fmt.Errorf("%s:%d: particle marker without id", path, lineNo)
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: particle id %q: %w", path, lineNo, fields[1], err)
			}
			current = id
			continue
		}
		if current < 0 {
			return nil, fmt.Errorf("%s:%d: data before first particle marker", path, lineNo)
		}
		fields := strings.Fields(line)
		if len(fields) != 8 {
			return nil, fmt.Errorf("%s:%d: expected 8 columns, got %d", path, lineNo, len(fields))
		}
		var row [8]float64
		for k, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: column %d: %w", path, lineNo, k+1, err)
			}
			row[k] = v
		}
		trajectories[current] = append(trajectories[current], TrajectoryPoint{
			Time:       row[0],
			Pos:        Vec3{row[1], row[2], row[3]},
			VPerp:      row[4],
			VPara:      row[5],
			Energy:     row[6],
			PitchAngle: row[7],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trajectory file %s: %w", path, err)
	}
	if len(trajectories) == 0 {
		return nil, fmt.Errorf("%s: no particle sections found", path)
	}

	return trajectories, nil
}

// ParticleIDs returns the particle ids of a parsed trajectory file in
// ascending order.
func ParticleIDs(trajectories map[int]Trajectory) []int {
	ids := make([]int, 0, len(trajectories))
	for id := range trajectories {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
