/*package env holds the data every analysis mode shares once the global
config has been read: the supernova observations and the likelihood built
on them.*/
package env

import (
	"fmt"

	"github.com/snfit/snfit/cosmo"
	"github.com/snfit/snfit/fit"
	"github.com/snfit/snfit/io"
	"github.com/snfit/snfit/logging"
)

// Environment is built once at startup and is read-only afterwards, so it
// can be shared between goroutines.
type Environment struct {
	Observations *io.Observations
	Model        *cosmo.Model
	Estimator    *fit.Estimator
}

// Setup describes how an Environment should be built.
type Setup struct {
	DataFile string
	Columns  io.Columns
	Regime   cosmo.Regime
	// Bounds may be empty, in which case the regime's default bounds are
	// used.
	Bounds []fit.Bound
	Step   float64
}

// New reads the observation file and builds the estimator.
func New(s *Setup) (*Environment, error) {
	obs, err := io.ReadObservations(s.DataFile, s.Columns)
	if err != nil {
		return nil, err
	}
	return FromObservations(obs, s)
}

// FromObservations is New for observations which are already in memory.
// s.DataFile is ignored.
func FromObservations(
	obs *io.Observations, s *Setup,
) (*Environment, error) {
	bounds := s.Bounds
	if len(bounds) == 0 {
		bounds = DefaultBounds(s.Regime)
	}

	model := cosmo.NewModel(s.Regime)
	if s.Step > 0 {
		model.Step = s.Step
	}

	est, err := fit.NewEstimator(
		obs.Z, obs.Mu, obs.Err, s.Regime.Names(), bounds, model,
	)
	if err != nil {
		return nil, fmt.Errorf("I couldn't set up the %s likelihood: %w",
			s.Regime, err)
	}

	logging.Log.Infow("Loaded observations",
		"supernovae", obs.Len(), "regime", s.Regime.String(),
		"sigma", est.Sigma(), "step", model.Step)

	return &Environment{Observations: obs, Model: model, Estimator: est}, nil
}

// DefaultBounds converts a regime's default parameter box into fit.Bounds.
func DefaultBounds(r cosmo.Regime) []fit.Bound {
	raw := r.DefaultBounds()
	out := make([]fit.Bound, len(raw))
	for i := range raw {
		out[i] = fit.Bound{Lower: raw[i][0], Upper: raw[i][1]}
	}
	return out
}

// Names returns the parameter names of the estimator.
func (e *Environment) Names() []string { return e.Estimator.Names() }
