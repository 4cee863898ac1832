package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ptmpost/internal/cutoff"
)

type ExportData struct {
	Distribution    string         `json:"distribution"`
	Energies        []float64      `json:"energies"`
	PitchAngles     []float64      `json:"pitch_angles"`
	DiffFlux        [][]float64    `json:"diff_flux"`
	OmniFlux        []float64      `json:"omni_flux"`
	AccessFractions []float64      `json:"access_fractions,omitempty"`
	Cutoffs         *cutoff.Result `json:"cutoffs,omitempty"`
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, data)
}

func ExportJSONStdout(data *ExportData) error {
	return writeExport(os.Stdout, data)
}

func writeExport(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
