package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ptmpost/internal/cutoff"
	"github.com/san-kum/ptmpost/internal/viz"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Spectrum is one named flux spectrum page in the viewer.
type Spectrum struct {
	Name     string
	Energies []float64 // keV
	Flux     []float64
}

type Viewer struct {
	spectra []Spectrum
	access  []float64
	cutoffs *cutoff.Result

	page     int
	logScale bool
	width    int
	height   int
}

func NewViewer(spectra []Spectrum, access []float64, cutoffs *cutoff.Result) *Viewer {
	return &Viewer{
		spectra:  spectra,
		access:   access,
		cutoffs:  cutoffs,
		logScale: true,
		width:    80,
		height:   24,
	}
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return v, tea.Quit
		case "left", "h":
			if v.page > 0 {
				v.page--
			}
		case "right", "l", "tab":
			if v.page < len(v.spectra)-1 {
				v.page++
			}
		case "g":
			v.logScale = !v.logScale
		}
	}
	return v, nil
}

func (v Viewer) View() string {
	if len(v.spectra) == 0 {
		return dim.Render("no spectra loaded") + "\n"
	}
	sp := v.spectra[v.page]

	var b strings.Builder
	b.WriteString(cyan.Render("ptmpost") + "  " + white.Render(sp.Name))
	b.WriteString(dim.Render(fmt.Sprintf("  [%d/%d]", v.page+1, len(v.spectra))))
	if v.logScale {
		b.WriteString(dimmer.Render("  log10"))
	}
	b.WriteString("\n\n")

	b.WriteString(v.plot(sp))
	b.WriteString("\n\n")

	if len(v.access) > 0 {
		b.WriteString(viz.AccessBarcode(v.access))
		b.WriteString("\n")
	}
	if v.cutoffs != nil {
		b.WriteString(yellow.Render(fmt.Sprintf("cutoff  %.1f / %.1f / %.1f MeV  (low/eff/high)",
			v.cutoffs.EcLow, v.cutoffs.EcEffective, v.cutoffs.EcHigh)))
		b.WriteString("  ")
		b.WriteString(green.Render(fmt.Sprintf("R_eff %.3f GV", v.cutoffs.RigidityEffective)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimmer.Render("←/→ page  g toggle scale  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (v Viewer) plot(sp Spectrum) string {
	if len(sp.Flux) == 0 {
		return dim.Render("(empty spectrum)")
	}

	data := make([]float64, len(sp.Flux))
	for i, j := range sp.Flux {
		if v.logScale {
			if j > 0 {
				data[i] = math.Log10(j)
			} else {
				data[i] = -30
			}
		} else {
			data[i] = j
		}
	}

	w := v.width - 12
	if w < 20 {
		w = 20
	}
	if w > 90 {
		w = 90
	}
	h := v.height - 10
	if h < 8 {
		h = 8
	}
	if h > 20 {
		h = 20
	}

	caption := fmt.Sprintf("%.3g to %.3g keV", sp.Energies[0], sp.Energies[len(sp.Energies)-1])
	return asciigraph.Plot(data,
		asciigraph.Height(h),
		asciigraph.Width(w),
		asciigraph.Caption(caption),
	)
}
