package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/ptmpost/internal/cutoff"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	MapFiles     []string       `json:"map_files"`
	Distribution string         `json:"distribution"`
	Density      float64        `json:"density"`
	Energy       float64        `json:"energy"`
	Kappa        float64        `json:"kappa,omitempty"`
	Mass         float64        `json:"mass"`
	FieldOfView  bool           `json:"field_of_view"`
	InitialE     bool           `json:"initial_energy"`
	EnergyFlux   bool           `json:"energy_flux"`
	Symmetric    bool           `json:"symmetric"`
	Cutoffs      *cutoff.Result `json:"cutoffs,omitempty"`
}

// Save writes one run directory containing metadata.json and the
// omnidirectional spectrum as omni.csv. A missing ID is filled in from
// the distribution name and the wall clock.
func (s *Store) Save(meta RunMetadata, energies, omni []float64) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Distribution, time.Now().Unix())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "omni.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"energy_kev", "omni_flux"}); err != nil {
		return "", err
	}
	for i := range energies {
		row := []string{
			strconv.FormatFloat(energies[i], 'g', -1, 64),
			strconv.FormatFloat(omni[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadOmni(runID string) ([]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "omni.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	energies := make([]float64, 0, len(records)-1)
	omni := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		e, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		j, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		energies = append(energies, e)
		omni = append(omni, j)
	}

	return energies, omni, nil
}
