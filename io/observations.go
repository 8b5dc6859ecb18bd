/*package io reads supernova observation catalogs and reads and writes the
sample catalogs produced by the fitting modes.

Observation files are whitespace-separated text with one supernova per line.
Only three columns are used: the redshift, the effective distance modulus and
its uncertainty. By default these are columns 0, 7 and 8, the layout of the
published supernova data files. Other layouts can be read by passing a
different Columns value.
*/
package io

import (
	"fmt"
	"math"

	"github.com/snfit/snfit/cmd/catalog"
)

// Columns gives the zero-indexed columns of an observation file.
type Columns struct {
	Redshift, Modulus, Error int
}

// DefaultColumns is the column layout of the supernova data files.
var DefaultColumns = Columns{Redshift: 0, Modulus: 7, Error: 8}

// Observations is an immutable set of supernova measurements.
type Observations struct {
	// Z is the redshift, Mu the effective distance modulus and Err its
	// uncertainty.
	Z, Mu, Err []float64
}

// Len returns the number of supernovae.
func (obs *Observations) Len() int { return len(obs.Z) }

// ReadObservations reads an observation file. Any problem with the file is
// returned as an error, since nothing can be fit without it.
func ReadObservations(fname string, cols Columns) (*Observations, error) {
	data, err := catalog.ReadFile(
		fname, []int{cols.Redshift, cols.Modulus, cols.Error},
	)
	if err != nil {
		return nil, fmt.Errorf("I couldn't read the observation file: %w", err)
	}

	obs := &Observations{Z: data[0], Mu: data[1], Err: data[2]}
	if err = obs.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return obs, nil
}

func (obs *Observations) validate() error {
	if obs.Len() == 0 {
		return fmt.Errorf("the observation file contains no data")
	}
	for i := range obs.Z {
		switch {
		case math.IsNaN(obs.Z[i]) || obs.Z[i] < 0:
			return fmt.Errorf("supernova %d has the redshift %g, but "+
				"redshifts must be non-negative", i, obs.Z[i])
		case math.IsNaN(obs.Mu[i]) || math.IsInf(obs.Mu[i], 0):
			return fmt.Errorf("supernova %d has the distance modulus %g",
				i, obs.Mu[i])
		case !(obs.Err[i] > 0) || math.IsInf(obs.Err[i], 0):
			return fmt.Errorf("supernova %d has the uncertainty %g, but "+
				"uncertainties must be positive", i, obs.Err[i])
		}
	}
	return nil
}
