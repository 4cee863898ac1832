package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ptmpost/internal/dist"
)

const (
	DefaultDensity = 1.0
	DefaultEnergy  = 0.5
	DefaultKappa   = 2.5
	DefaultMass    = 1.0
)

type Config struct {
	Distribution string         `yaml:"distribution"`
	Source       SourceConfig   `yaml:"source"`
	Components   []SourceConfig `yaml:"components"`
	FieldOfView  bool           `yaml:"field_of_view"`
	InitialE     bool           `yaml:"initial_energy"`
	EnergyFlux   bool           `yaml:"energy_flux"`
	Symmetric    bool           `yaml:"symmetric"`
	Date         DateConfig     `yaml:"date"`
	OutDir       string         `yaml:"out_dir"`
}

type SourceConfig struct {
	Density float64 `yaml:"density"` // cm^-3
	Energy  float64 `yaml:"energy"`  // characteristic energy, keV
	Kappa   float64 `yaml:"kappa"`
	Mass    float64 `yaml:"mass"` // electron masses
}

type DateConfig struct {
	Year  int `yaml:"year"`
	Month int `yaml:"month"`
	Day   int `yaml:"day"`
}

func DefaultConfig() *Config {
	return &Config{
		Distribution: string(dist.KindKappa),
		Source: SourceConfig{
			Density: DefaultDensity,
			Energy:  DefaultEnergy,
			Kappa:   DefaultKappa,
			Mass:    DefaultMass,
		},
		Symmetric: true,
		Date:      DateConfig{Year: 2000, Month: 1, Day: 1},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s SourceConfig) Params() dist.Params {
	return dist.Params{
		Density:              s.Density,
		CharacteristicEnergy: s.Energy,
		KappaIndex:           s.Kappa,
		MassMultiple:         s.Mass,
	}
}

// BuildDistribution constructs the configured source distribution. The
// mixture kind draws from the component list; every other kind uses the
// single source block.
func (c *Config) BuildDistribution() (dist.Distribution, error) {
	kind := dist.Kind(c.Distribution)
	if kind == dist.KindMixture {
		params := make([]dist.Params, len(c.Components))
		for i, comp := range c.Components {
			params[i] = comp.Params()
		}
		return dist.New(kind, params...)
	}
	return dist.New(kind, c.Source.Params())
}
