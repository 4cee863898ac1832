package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ptmpost/internal/cutoff"
)

// logFloor stands in for zeroed flux cells so the log plot stays finite.
const logFloor = -30.0

// SpectrumPlot renders an omnidirectional spectrum as a log10(j) vs
// energy-index chart. Masked or empty bins plot at the floor value.
func SpectrumPlot(energies, omni []float64, caption string) string {
	if len(omni) == 0 {
		return Subtle.Render("(no spectrum)")
	}

	data := make([]float64, len(omni))
	for i, j := range omni {
		if j > 0 {
			data[i] = math.Log10(j)
		} else {
			data[i] = logFloor
		}
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(caption),
	)

	var b strings.Builder
	b.WriteString(graph)
	b.WriteString("\n")
	b.WriteString(Subtle.Render(fmt.Sprintf("log10 flux, %.3g to %.3g keV across %d energies",
		energies[0], energies[len(energies)-1], len(energies))))
	return b.String()
}

// AccessBarcode renders the per-energy accessible fraction as a one-line
// sparkline, low fractions meaning heavy geomagnetic shadowing.
func AccessBarcode(fractions []float64) string {
	width := len(fractions)
	if width > 70 {
		width = 70
	}
	var b strings.Builder
	b.WriteString(MetricLabel.Render("access "))
	b.WriteString(SparklineChart(fractions, width))
	return b.String()
}

// CutoffPanel renders a bordered summary of the cutoff analysis.
func CutoffPanel(res *cutoff.Result) string {
	row := func(label string, energy, rigidity float64) string {
		return fmt.Sprintf("%s %s MeV  %s GV",
			MetricLabel.Render(fmt.Sprintf("%-10s", label)),
			MetricValue.Render(fmt.Sprintf("%8.2f", energy)),
			MetricValue.Render(fmt.Sprintf("%6.3f", rigidity)))
	}

	lines := []string{
		Title.Render("cutoff summary"),
		row("lower", res.EcLow, res.RigidityLow),
		row("upper", res.EcHigh, res.RigidityHigh),
		row("effective", res.EcEffective, res.RigidityEffective),
	}
	return Panel.Render(strings.Join(lines, "\n"))
}
