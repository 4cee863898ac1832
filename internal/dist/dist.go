// Package dist evaluates source distribution functions for flux mapping.
//
// Three variants are supported:
//
//   - [Kappa]: power-law-tailed thermal distribution
//   - [MaxwellJuttner]: relativistic Maxwellian
//   - [Mixture]: weighted sum of kappa components
//
// All variants produce phase-space density at a source energy; DifferentialFlux
// converts it to differential flux using the particle speed at the boundary
// energy, in keV^-1 cm^-2 s^-1 sr^-1 for km/s and cm^-3 inputs.
package dist

import (
	"fmt"
	"math"
)

const (
	// Ckm is the speed of light in km/s.
	Ckm = 299792.458
	// Csq is the speed of light squared, km^2/s^2.
	Csq = Ckm * Ckm
	// ElectronRestKeV is the electron rest energy in keV.
	ElectronRestKeV = 511.0
)

// Kind selects a distribution variant.
type Kind string

const (
	KindKappa   Kind = "kappa"
	KindMaxwell Kind = "maxwell"
	KindMixture Kind = "mixture"
)

// Kinds lists the supported variant tags.
func Kinds() []Kind {
	return []Kind{KindKappa, KindMaxwell, KindMixture}
}

// UnsupportedError reports a request for an unknown distribution variant.
type UnsupportedError struct {
	Kind Kind
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported distribution: %s (supported: %v)", e.Kind, Kinds())
}

// Params describes one distribution component. A Params value is consumed
// whole at construction time and never mutated afterwards; repeated
// evaluations with the same Params are identical.
type Params struct {
	Density              float64 // number density at the source region, cm^-3
	CharacteristicEnergy float64 // analogous to temperature, keV
	KappaIndex           float64 // spectral index, kappa variants only
	MassMultiple         float64 // particle rest mass in electron masses
}

// RestEnergy is the particle rest energy mc^2 in keV.
func (p Params) RestEnergy() float64 {
	return ElectronRestKeV * p.MassMultiple
}

func (p Params) validate(needKappa bool) error {
	if p.Density <= 0 {
		return fmt.Errorf("density must be positive, got %g", p.Density)
	}
	if p.CharacteristicEnergy <= 0 {
		return fmt.Errorf("characteristic energy must be positive, got %g", p.CharacteristicEnergy)
	}
	if p.MassMultiple <= 0 {
		return fmt.Errorf("mass multiple must be positive, got %g", p.MassMultiple)
	}
	if needKappa && p.KappaIndex <= 1.5 {
		return fmt.Errorf("kappa index must exceed 1.5, got %g", p.KappaIndex)
	}
	return nil
}

// Distribution evaluates phase-space density at a source energy (keV).
type Distribution interface {
	Name() string
	PhaseSpaceDensity(eSource float64) float64
	RestEnergy() float64
}

// LorentzFactor is gamma = 1 + E/mc^2 for kinetic energy E and rest energy
// mc^2, both in keV.
func LorentzFactor(e, mc2 float64) float64 {
	return 1 + e/mc2
}

// Speed is the relativistic particle speed in km/s at kinetic energy e (keV).
func Speed(e, mc2 float64) float64 {
	gam := LorentzFactor(e, mc2)
	return Ckm * math.Sqrt(gam*gam-1) / gam
}

// DifferentialFlux converts the phase-space density at the source energy into
// differential flux using the particle speed at the boundary energy.
func DifferentialFlux(d Distribution, eSource, eBoundary float64) float64 {
	mc2 := d.RestEnergy()
	v := Speed(eBoundary, mc2)
	return 1e5 * Csq * v * v / mc2 * d.PhaseSpaceDensity(eSource)
}

// New builds a distribution from a variant tag. The mixture variant sums the
// given kappa components; other variants take a single Params value.
func New(kind Kind, components ...Params) (Distribution, error) {
	switch kind {
	case KindKappa:
		if len(components) != 1 {
			return nil, fmt.Errorf("kappa distribution takes one component, got %d", len(components))
		}
		return NewKappa(components[0])
	case KindMaxwell:
		if len(components) != 1 {
			return nil, fmt.Errorf("maxwell distribution takes one component, got %d", len(components))
		}
		return NewMaxwellJuttner(components[0])
	case KindMixture:
		return NewMixture(components...)
	default:
		return nil, &UnsupportedError{Kind: kind}
	}
}

// Kappa is a kappa distribution in energy.
type Kappa struct {
	params Params
	wc     float64 // characteristic thermal energy Wc, keV
	f0     float64 // normalization
}

// NewKappa precomputes the kappa normalization. The Gamma-function ratio is
// evaluated through log-Gamma so large kappa indices do not overflow.
func NewKappa(p Params) (*Kappa, error) {
	if err := p.validate(true); err != nil {
		return nil, fmt.Errorf("kappa distribution: %w", err)
	}
	kap := p.KappaIndex
	mc2 := p.RestEnergy()
	wc := p.CharacteristicEnergy * (1 - 1.5/kap)

	lgNum, _ := math.Lgamma(kap + 1)
	lgDen, _ := math.Lgamma(kap - 0.5)
	f0 := p.Density * math.Pow(mc2/(Csq*wc*2*math.Pi*kap), 1.5) * math.Exp(lgNum-lgDen)

	return &Kappa{params: p, wc: wc, f0: f0}, nil
}

func (k *Kappa) Name() string        { return string(KindKappa) }
func (k *Kappa) RestEnergy() float64 { return k.params.RestEnergy() }

func (k *Kappa) PhaseSpaceDensity(eSource float64) float64 {
	kap := k.params.KappaIndex
	return k.f0 * math.Pow(1+eSource/(kap*k.wc), -(kap + 1))
}

// MaxwellJuttner is the relativistic Maxwellian.
type MaxwellJuttner struct {
	params Params
	q      float64 // dimensionless temperature Ec/mc^2
	f0e    float64 // normalization with the e^{1/Q} of K2 folded in
}

// NewMaxwellJuttner precomputes the Maxwell-Juttner normalization
// n / (4 pi c^3 Q K2(1/Q)). K2 is evaluated in exponentially scaled form and
// the scale is folded into the Boltzmann factor, so nonrelativistic
// temperatures (1/Q of several thousand) do not underflow.
func NewMaxwellJuttner(p Params) (*MaxwellJuttner, error) {
	if err := p.validate(false); err != nil {
		return nil, fmt.Errorf("maxwell distribution: %w", err)
	}
	q := p.CharacteristicEnergy / p.RestEnergy()
	f0e := p.Density / (4 * math.Pi * Ckm * Ckm * Ckm * q * BesselK2Scaled(1/q))
	return &MaxwellJuttner{params: p, q: q, f0e: f0e}, nil
}

func (m *MaxwellJuttner) Name() string        { return string(KindMaxwell) }
func (m *MaxwellJuttner) RestEnergy() float64 { return m.params.RestEnergy() }

func (m *MaxwellJuttner) PhaseSpaceDensity(eSource float64) float64 {
	gam := LorentzFactor(eSource, m.params.RestEnergy())
	// f0 * exp(-gamma/Q) with f0 = f0e * exp(1/Q) folded together.
	return m.f0e * math.Exp((1-gam)/m.q)
}

// Mixture is a weighted sum of independent kappa components evaluated at the
// same source energy. All components must share one particle species.
type Mixture struct {
	components []*Kappa
}

func NewMixture(components ...Params) (*Mixture, error) {
	if len(components) < 2 {
		return nil, fmt.Errorf("mixture distribution needs at least 2 components, got %d", len(components))
	}
	m := &Mixture{components: make([]*Kappa, 0, len(components))}
	for i, p := range components {
		if p.MassMultiple != components[0].MassMultiple {
			return nil, fmt.Errorf("mixture component %d: mass multiple %g differs from component 0 (%g)",
				i, p.MassMultiple, components[0].MassMultiple)
		}
		k, err := NewKappa(p)
		if err != nil {
			return nil, fmt.Errorf("mixture component %d: %w", i, err)
		}
		m.components = append(m.components, k)
	}
	return m, nil
}

func (m *Mixture) Name() string        { return string(KindMixture) }
func (m *Mixture) RestEnergy() float64 { return m.components[0].RestEnergy() }

func (m *Mixture) PhaseSpaceDensity(eSource float64) float64 {
	sum := 0.0
	for _, k := range m.components {
		sum += k.PhaseSpaceDensity(eSource)
	}
	return sum
}
