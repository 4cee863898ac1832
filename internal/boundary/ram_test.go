package boundary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/ptmpost/internal/dist"
)

func writeTestRun(t *testing.T, dir string, runID int) {
	t.Helper()

	var b strings.Builder
	b.WriteString("ptm map output at 6.6 0.0 0.0\n")
	idx := 0
	for _, e := range []float64{500, 1000} {
		for _, a := range []float64{45, 90} {
			// All cells reach the boundary.
			fmt.Fprintf(&b, "%d 15.5 0.0 0.0 %g %g %g 1.0 0.0 0.0\n", idx, e, a, e*1.1)
			idx++
		}
	}
	path := filepath.Join(dir, MapFileName(runID))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeTestGrid(t *testing.T, dir string) {
	t.Helper()
	content := "runid start time r mlt\n" +
		"1 0 300.0 6.6 0.0\n" +
		"2 0 300.0 6.6 12.0\n" +
		"3 0 600.0 6.6 0.0\n" +
		"4 0 600.0 6.6 12.0\n"
	if err := os.WriteFile(filepath.Join(dir, "rungrid.txt"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	for runID := 1; runID <= 4; runID++ {
		writeTestRun(t, dir, runID)
	}
}

func TestReadRunGrid(t *testing.T) {
	dir := t.TempDir()
	writeTestGrid(t, dir)

	rg, err := ReadRunGrid(filepath.Join(dir, "rungrid.txt"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(rg.RunIDs) != 4 {
		t.Errorf("got %d runs, want 4", len(rg.RunIDs))
	}
	if len(rg.Times) != 2 || rg.Times[0] != 300 || rg.Times[1] != 600 {
		t.Errorf("times %v, want [300 600]", rg.Times)
	}
	if len(rg.MLT) != 2 || rg.MLT[0] != 0 || rg.MLT[1] != 12 {
		t.Errorf("mlt %v, want [0 12]", rg.MLT)
	}
	if rg.Radius != 6.6 {
		t.Errorf("radius %g, want 6.6", rg.Radius)
	}
	if rg.CadenceMinutes() != 5 {
		t.Errorf("cadence %d min, want 5", rg.CadenceMinutes())
	}
}

func TestReadRunGridRejectsMixedRadius(t *testing.T) {
	dir := t.TempDir()
	content := "runid start time r mlt\n1 0 300.0 6.6 0.0\n2 0 300.0 8.0 12.0\n"
	path := filepath.Join(dir, "rungrid.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRunGrid(path); err == nil {
		t.Fatal("expected error for mixed radial distances")
	}
}

func TestProcessAndWrite(t *testing.T) {
	dir := t.TempDir()
	writeTestGrid(t, dir)

	d, err := dist.NewKappa(dist.Params{
		Density: 1.0, CharacteristicEnergy: 500.0, KappaIndex: 3.0, MassMultiple: 1836.0,
	})
	if err != nil {
		t.Fatal(err)
	}

	prod, err := Process(dir, d, true)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(prod.Omni) != 4 {
		t.Fatalf("got %d records, want 4", len(prod.Omni))
	}
	if len(prod.Energies) != 2 {
		t.Fatalf("got %d energies, want 2", len(prod.Energies))
	}
	for rec, omni := range prod.Omni {
		for i, v := range omni {
			if v <= 0 {
				t.Errorf("record %d omni[%d] = %g, want > 0", rec, i, v)
			}
		}
	}

	date := Date{Year: 2017, Month: 3, Day: 21}
	if name := prod.FileName(date); name != "20170321_ptm_geomlt_5-min.txt" {
		t.Errorf("file name %q", name)
	}

	var out strings.Builder
	if err := prod.Write(&out, date); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3+1+4 {
		t.Fatalf("got %d lines, want 8", len(lines))
	}

	for i := 0; i < 3; i++ {
		if !strings.HasPrefix(lines[i], "# ") {
			t.Errorf("line %d is not a comment: %q", i, lines[i])
		}
	}

	header := lines[3]
	if !strings.Contains(header, "CCSDS") || !strings.Contains(header, "MLT") || !strings.Contains(header, "NSC") {
		t.Errorf("header line missing labels: %q", header)
	}
	if !strings.Contains(header, "500.0") || !strings.Contains(header, "1000.0") {
		t.Errorf("header line missing energy grid: %q", header)
	}
	// a24 + a6 + 2x + a72 label block, then one 18-char field per energy.
	if len(header) != 24+6+2+72+2*18 {
		t.Errorf("header line length %d, want %d", len(header), 24+6+2+72+2*18)
	}

	first := lines[4]
	if !strings.HasPrefix(first, "2017-03-21T00:05:00.000Z") {
		t.Errorf("first record timestamp: %q", first)
	}
	// 24-char timestamp, 6-char MLT, 2 spaces, 2x2-char NSC, 2x18-char flux.
	if len(first) != 24+6+2+2*2+2*18 {
		t.Errorf("record length %d, want %d", len(first), 24+6+2+2*2+2*18)
	}
	if first[24:30] != "   0.0" {
		t.Errorf("MLT field %q, want %q", first[24:30], "   0.0")
	}
	if first[30:36] != "   1 1" {
		t.Errorf("separator and NSC fields %q", first[30:36])
	}
}
