package cosmo

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Parameter names, in the spelling used by posterior files.
const (
	NameM      = "CurlyM"
	NameOmegaM = "omega_m"
	NameOmegaL = "omega_L"
)

// ErrMissingParam is returned when a Point lacks a parameter that the
// regime needs.
var ErrMissingParam = errors.New("missing parameter")

// Point maps parameter names to values.
type Point map[string]float64

// Params is the physical parameter set used by the distance-modulus model.
// M is the absolute-magnitude offset.
type Params struct {
	M, OmegaM, OmegaL float64
}

// Regime selects the curvature assumption and, with it, the closed form
// wrapped around the comoving integral.
type Regime uint8

const (
	Flat Regime = iota
	Open
	Closed
)

// Regimes lists every supported regime.
var Regimes = []Regime{Flat, Open, Closed}

// ParseRegime converts a config string into a Regime.
func ParseRegime(s string) (Regime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat":
		return Flat, nil
	case "open":
		return Open, nil
	case "closed":
		return Closed, nil
	}
	return Flat, fmt.Errorf("I don't recognize the curvature regime '%s'. "+
		"Supported regimes are flat, open, and closed", s)
}

func (r Regime) String() string {
	switch r {
	case Flat:
		return "flat"
	case Open:
		return "open"
	case Closed:
		return "closed"
	}
	panic("Impossible")
}

// Names returns the sampled parameter names of the regime in declaration
// order.
func (r Regime) Names() []string {
	if r == Flat {
		return []string{NameM, NameOmegaM}
	}
	return []string{NameM, NameOmegaL, NameOmegaM}
}

// DefaultBounds returns the uniform prior ranges used for the regime, one
// [lower, upper] pair per name in Names().
func (r Regime) DefaultBounds() [][2]float64 {
	switch r {
	case Flat:
		return [][2]float64{{-3.5, -2}, {0, 2}}
	case Open:
		return [][2]float64{{-5, 3}, {-1, 1.5}, {0, 1.5}}
	case Closed:
		return [][2]float64{{-3.5, -2}, {-1, 1.5}, {0, 1.5}}
	}
	panic("Impossible")
}

// Params extracts the physical parameters from p. In the flat regime
// OmegaL is derived as 1 - OmegaM and any omega_L entry in p is ignored.
func (r Regime) Params(p Point) (Params, error) {
	var out Params
	var ok bool

	for _, name := range r.Names() {
		if _, ok = p[name]; !ok {
			return out, fmt.Errorf("%w '%s' for the %s regime",
				ErrMissingParam, name, r)
		}
	}

	out.M, out.OmegaM = p[NameM], p[NameOmegaM]
	if r == Flat {
		out.OmegaL = 1 - out.OmegaM
	} else {
		out.OmegaL = p[NameOmegaL]
	}
	return out, nil
}

// Curvature returns the curvature term k that the regime expects to be
// positive. It is zero for the flat regime.
func (r Regime) Curvature(p Params) float64 {
	switch r {
	case Open:
		return 1 - p.OmegaM - p.OmegaL
	case Closed:
		return p.OmegaM + p.OmegaL - 1
	}
	return 0
}

// DistanceModulus returns the predicted distance modulus at redshift z.
// Parameters outside the regime's domain produce NaN or an infinity rather
// than an error.
func (r Regime) DistanceModulus(z float64, p Params, dz float64) float64 {
	integral := ComovingIntegral(z, p.OmegaM, p.OmegaL, dz)
	dist := SpeedOfLight * (1 + z)

	switch r {
	case Flat:
		return p.M + 5*math.Log10(dist*integral)
	case Open:
		sk := math.Sqrt(r.Curvature(p))
		return (p.M + 5*math.Log10(dist*math.Asinh(sk*integral))) / sk
	case Closed:
		sk := math.Sqrt(r.Curvature(p))
		return (p.M + 5*math.Log10(dist*math.Asin(sk*integral))) / sk
	}
	panic("Impossible")
}

// Model is the distance-modulus model for a single regime. It is safe for
// concurrent use.
type Model struct {
	Regime Regime
	// Step is the integration step. Zero means DefaultStep.
	Step float64
}

// NewModel returns a Model using DefaultStep.
func NewModel(r Regime) *Model {
	return &Model{Regime: r, Step: DefaultStep}
}

// DistanceModuli writes the predicted distance modulus of every redshift in
// zs to out, which must have the same length.
func (m *Model) DistanceModuli(zs []float64, p Point, out []float64) error {
	if len(out) != len(zs) {
		return fmt.Errorf("output buffer has length %d, but there are %d "+
			"redshifts", len(out), len(zs))
	}
	params, err := m.Regime.Params(p)
	if err != nil {
		return err
	}

	dz := m.Step
	if dz == 0 {
		dz = DefaultStep
	}
	for i, z := range zs {
		out[i] = m.Regime.DistanceModulus(z, params, dz)
	}
	return nil
}
