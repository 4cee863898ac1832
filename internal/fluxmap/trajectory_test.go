package fluxmap

import (
	"os"
	"path/filepath"
	"testing"
)

const testTrajectoryFile = `# 1
0.0  5.0 0.0 0.0  100.0 50.0 3000.0 90.0
1.0  4.9 0.5 0.0  101.0 49.0 3000.0 89.5
# 2
0.0  5.0 0.0 0.1  90.0 60.0 1500.0 45.0
0.5  5.0 0.1 0.1  91.0 59.0 1500.0 45.2
1.0  5.0 0.2 0.1  92.0 58.0 1500.0 45.4
`

func TestParseTrajectoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ptm_0001.dat")
	if err := os.WriteFile(path, []byte(testTrajectoryFile), 0644); err != nil {
		t.Fatal(err)
	}

	trajectories, err := ParseTrajectoryFile(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	ids := ParticleIDs(trajectories)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("particle ids %v, want [1 2]", ids)
	}

	if len(trajectories[1]) != 2 {
		t.Errorf("particle 1 has %d points, want 2", len(trajectories[1]))
	}
	if len(trajectories[2]) != 3 {
		t.Errorf("particle 2 has %d points, want 3", len(trajectories[2]))
	}

	p := trajectories[1][1]
	if p.Time != 1.0 || p.Pos != (Vec3{4.9, 0.5, 0.0}) {
		t.Errorf("particle 1 point 1 = %+v", p)
	}
	if p.VPerp != 101.0 || p.VPara != 49.0 || p.Energy != 3000.0 || p.PitchAngle != 89.5 {
		t.Errorf("particle 1 point 1 columns = %+v", p)
	}
}

func TestParseTrajectoryFileNoMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ptm_0001.dat")
	if err := os.WriteFile(path, []byte("0.0 1 2 3 4 5 6 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseTrajectoryFile(path); err == nil {
		t.Fatal("expected error for data before particle marker")
	}
}
