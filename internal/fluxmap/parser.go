package fluxmap

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Map files have one header line whose last three whitespace-separated tokens
// are the observation-point position, followed by a whitespace-separated
// table with columns:
//
//	idx  x  y  z  E_source  pitch  E_boundary  vx  vy  vz
//
// Particles are not written in any predictable order, so the energy and pitch
// angle grids are recovered from the distinct values in the table.
const mapFileColumns = 10

// ParseMapFiles reads one or more map files into a single FluxMap. Rows from
// all files are concatenated as if they came from one run; combining files is
// only physically valid when their (energy, pitch) grid points do not repeat.
// The observation position is taken from the first file's header.
func ParseMapFiles(paths ...string) (*FluxMap, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("parse map files: no paths given")
	}

	var rows [][mapFileColumns]float64
	var source Vec3

	for n, path := range paths {
		header, fileRows, err := readMapFile(path)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			source, err = parseSourcePosition(header)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
		rows = append(rows, fileRows...)
	}

	fm := &FluxMap{
		Energies:       distinctSorted(rows, 4),
		Angles:         distinctSorted(rows, 5),
		SourcePosition: source,
	}

	nE, nA := len(fm.Energies), len(fm.Angles)
	fm.InitE = fm.Grid()
	fm.FinalE = fm.Grid()
	fm.FinalX = makeVecGrid(nE, nA)
	fm.InitV = makeVecGrid(nE, nA)

	eIndex := indexByValue(fm.Energies)
	aIndex := indexByValue(fm.Angles)

	for _, row := range rows {
		i, ok := eIndex[row[4]]
		if !ok {
			continue // value not on the discovered grid, drop the row
		}
		j, ok := aIndex[row[5]]
		if !ok {
			continue
		}
		fm.InitE[i][j] = row[4]
		fm.FinalE[i][j] = row[6]
		fm.FinalX[i][j] = Vec3{row[1], row[2], row[3]}
		fm.InitV[i][j] = Vec3{row[7], row[8], row[9]}
	}

	return fm, nil
}

func readMapFile(path string) (string, [][mapFileColumns]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open map file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		return "", nil, fmt.Errorf("%s: empty map file", path)
	}
	header := sc.Text()

	var rows [][mapFileColumns]float64
	lineNo := 1
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != mapFileColumns {
			return "", nil, fmt.Errorf("%s:%d: expected %d columns, got %d",
				path, lineNo, mapFileColumns, len(fields))
		}
		var row [mapFileColumns]float64
		for k, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return "", nil, fmt.Errorf("%s:%d: column %d: %w", path, lineNo, k+1, err)
			}
			row[k] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return "", nil, fmt.Errorf("read map file %s: %w", path, err)
	}

	return header, rows, nil
}

func parseSourcePosition(header string) (Vec3, error) {
	fields := strings.Fields(header)
	if len(fields) < 3 {
		return Vec3{}, fmt.Errorf("header has %d tokens, need at least 3 for the source position", len(fields))
	}
	var pos Vec3
	for k, field := range fields[len(fields)-3:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Vec3{}, fmt.Errorf("source position token %q: %w", field, err)
		}
		pos[k] = v
	}
	return pos, nil
}

// distinctSorted collects the distinct values of one table column in
// ascending order. Distinctness is exact: the same grid point must be written
// bit-identically by the producing simulation.
func distinctSorted(rows [][mapFileColumns]float64, col int) []float64 {
	seen := make(map[float64]struct{})
	for _, row := range rows {
		seen[row[col]] = struct{}{}
	}
	vals := make([]float64, 0, len(seen))
	for v := range seen {
		vals = append(vals, v)
	}
	sort.Float64s(vals)
	return vals
}

func indexByValue(vals []float64) map[float64]int {
	idx := make(map[float64]int, len(vals))
	for i, v := range vals {
		idx[v] = i
	}
	return idx
}

func makeVecGrid(nE, nA int) [][]Vec3 {
	g := make([][]Vec3, nE)
	for i := range g {
		g[i] = make([]Vec3, nA)
	}
	return g
}
