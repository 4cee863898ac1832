package boundary

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/ptmpost/internal/dist"
	"github.com/san-kum/ptmpost/internal/fluxmap"
	"github.com/san-kum/ptmpost/internal/mapper"
)

// Date is the calendar day stamped on every record of a boundary file.
type Date struct {
	Year, Month, Day int
}

// Product is the assembled boundary flux set for one rungrid: one
// omnidirectional spectrum per (time, MLT) record, on the energy grid of the
// first run.
type Product struct {
	Grid     *RunGrid
	Energies []float64   // keV
	Omni     [][]float64 // [time*len(MLT)+mlt][energy]
}

// Process parses every map file of a rungrid directory and computes the
// omnidirectional flux for each run using the given source distribution.
// Runs are evaluated with the geometric access mask applied.
func Process(dir string, d dist.Distribution, symmetric bool) (*Product, error) {
	rg, err := ReadRunGrid(filepath.Join(dir, "rungrid.txt"))
	if err != nil {
		return nil, err
	}

	prod := &Product{Grid: rg, Omni: make([][]float64, 0, len(rg.RunIDs))}
	for _, runID := range rg.RunIDs {
		fm, err := fluxmap.ParseMapFiles(filepath.Join(dir, MapFileName(runID)))
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", runID, err)
		}
		if prod.Energies == nil {
			prod.Energies = fm.Energies
		} else if len(fm.Energies) != len(prod.Energies) {
			return nil, fmt.Errorf("run %d: energy grid size %d differs from first run (%d)",
				runID, len(fm.Energies), len(prod.Energies))
		}

		grid := mapper.MapFlux(fm, d, mapper.Options{AccessMask: true})
		omni, err := mapper.Integrate(fm.Angles, grid, symmetric)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", runID, err)
		}
		prod.Omni = append(prod.Omni, omni)
	}

	return prod, nil
}

// FileName is the conventional boundary file name for a day and cadence.
func (p *Product) FileName(date Date) string {
	return fmt.Sprintf("%4d%02d%02d_ptm_geomlt_%d-min.txt",
		date.Year, date.Month, date.Day, p.Grid.CadenceMinutes())
}

// Write emits the fixed-format RAM boundary file. The layout is a contract
// with the consuming model: three comment lines, one labelled header line
// carrying the energy grid, then one record per (time, MLT) with a 24-char
// timestamp, the MLT value, a constant-1 satellite count per energy bin, and
// the omnidirectional flux divided by 4 pi in 18.4f fields.
func (p *Product) Write(w io.Writer, date Date) error {
	nE := len(p.Energies)

	if _, err := fmt.Fprint(w, "# PTM Particle Fluxes for RAM\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# Header Format string: (a24,a6,2x,a72,%da18)\n", nE); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# DATA   Format string: (a24,f6.1,2x,%d(i2),%d(f18.4))\n", nE, nE); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%24s%6s  %72s", "CCSDS", "MLT", "NSC")
	for _, e := range p.Energies {
		fmt.Fprintf(&b, "%18s", formatEnergy(e))
	}
	b.WriteByte('\n')

	const fourPi = 4 * math.Pi
	rec := 0
	for _, t := range p.Grid.Times {
		hh, mm, ss := secondsToHMS(t)
		for _, mlt := range p.Grid.MLT {
			fmt.Fprintf(&b, "%4d-%02d-%02dT%02d:%02d:%02d.000Z%6.1f  ",
				date.Year, date.Month, date.Day, hh, mm, ss, mlt)
			for range p.Energies {
				b.WriteString(" 1")
			}
			for _, f := range p.Omni[rec] {
				fmt.Fprintf(&b, "%18.4f", f/fourPi)
			}
			b.WriteByte('\n')
			rec++
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// formatEnergy renders a grid energy the way the historical files do:
// shortest decimal form, always with a decimal point.
func formatEnergy(e float64) string {
	s := strconv.FormatFloat(e, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// secondsToHMS splits seconds of day [0, 86400) into clock components.
func secondsToHMS(tsec float64) (int, int, int) {
	hh := int(tsec) / 3600
	mm := (int(tsec) - 3600*hh) / 60
	ss := int(tsec) - 3600*hh - 60*mm
	return hh, mm, ss
}
