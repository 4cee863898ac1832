package config

import "sort"

var Presets = map[string]*Config{
	"substorm_electrons": {
		Distribution: "kappa",
		Source:       SourceConfig{Density: 1.0, Energy: 0.5, Kappa: 2.5, Mass: 1.0},
		Symmetric:    true,
	},
	"sep_protons": {
		Distribution: "kappa",
		Source:       SourceConfig{Density: 5e-6, Energy: 752.0, Kappa: 5.0, Mass: 1847.0},
		FieldOfView:  true,
		Symmetric:    true,
	},
	"plasma_sheet_mix": {
		Distribution: "mixture",
		Components: []SourceConfig{
			{Density: 0.8, Energy: 0.3, Kappa: 2.5, Mass: 1.0},
			{Density: 0.2, Energy: 3.0, Kappa: 4.0, Mass: 1.0},
		},
		Symmetric: true,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
