/*package cosmo contains the background cosmology used to turn redshifts into
distance moduli for standard candles.*/
package cosmo

import (
	"math"

	"gonum.org/v1/gonum/integrate"
)

const (
	// SpeedOfLight is c in km/s.
	SpeedOfLight = 299792.458
	// DefaultStep is the redshift spacing of the integration grid.
	DefaultStep = 0.01
)

// InverseHubbleFrac calculates 1/h(z) with curvature included. It is written
// in the form
//
//	[(1+z)^2 (1 + OmegaM z) - z (2+z) OmegaL]^(-1/2)
//
// which is algebraically identical to
// [OmegaM (1+z)^3 + OmegaK (1+z)^2 + OmegaL]^(-1/2) with
// OmegaK = 1 - OmegaM - OmegaL. Unphysical parameters give NaN.
func InverseHubbleFrac(omegaM, omegaL, z float64) float64 {
	base := (1+z)*(1+z)*(1+omegaM*z) - z*(2+z)*omegaL
	return math.Pow(base, -0.5)
}

// ComovingIntegral integrates InverseHubbleFrac from 0 towards z with the
// trapezoidal rule. The grid is 0, dz, 2dz, ... and stops before reaching z,
// so it holds ceil(z/dz) points and never contains z itself. Grids with
// fewer than two points integrate to zero.
func ComovingIntegral(z, omegaM, omegaL, dz float64) float64 {
	n := gridLen(z, dz)
	if n < 2 {
		return 0
	}

	xs, ys := make([]float64, n), make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) * dz
		ys[i] = InverseHubbleFrac(omegaM, omegaL, xs[i])
	}
	return integrate.Trapezoidal(xs, ys)
}

// gridLen returns the number of points in the half-open grid [0, z).
func gridLen(z, dz float64) int {
	if !(z > 0) || !(dz > 0) {
		return 0
	}
	return int(math.Ceil(z / dz))
}
