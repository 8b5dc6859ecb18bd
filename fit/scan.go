package fit

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/floats"

	"github.com/snfit/snfit/math/rand"
)

// Sample is a scored parameter vector, ordered like the model's names. Unit
// is the same point in unit-hypercube coordinates, when it is known.
type Sample struct {
	Values []float64
	Unit   []float64
	LogL   float64
}

// Scan evaluates m at n points of a Sobol sequence mapped through the prior.
// The evaluations are split across workers goroutines; workers <= 0 means
// runtime.NumCPU(). Samples are returned in sequence order.
func Scan(ctx context.Context, m Model, n, workers int) ([]Sample, error) {
	names := m.Names()
	if len(names) > int(rand.MaxDim) {
		return nil, fmt.Errorf("%w: Sobol sequences support at most %d "+
			"dimensions, but the model has %d", ErrDimension, rand.MaxDim,
			len(names))
	} else if n <= 0 {
		return nil, fmt.Errorf("the number of scan samples is %d, but it "+
			"must be positive", n)
	}

	seq := rand.NewSobolSequence()
	units := make([][]float64, n)
	for i := range units {
		units[i] = make([]float64, len(names))
		if err := seq.NextAt(units[i]); err != nil {
			return nil, err
		}
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	samples := make([]Sample, n)
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		go func(offset int) {
			errs <- scanChan(ctx, m, names, units, samples, offset, workers)
		}(w)
	}

	var err error
	for w := 0; w < workers; w++ {
		if werr := <-errs; werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// scanChan scores every workers-th unit vector starting at offset. Each
// worker writes to its own indices of samples.
func scanChan(
	ctx context.Context, m Model, names []string, units [][]float64,
	samples []Sample, offset, workers int,
) error {
	for i := offset; i < len(units); i += workers {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := m.Prior(units[i])
		samples[i] = Sample{
			Values: Values(names, p),
			Unit:   units[i],
			LogL:   m.LogLikelihood(p),
		}
	}
	return nil
}

// LogEvidence estimates ln Z = ln mean(L) from samples drawn uniformly from
// the prior.
func LogEvidence(samples []Sample) float64 {
	if len(samples) == 0 {
		return LogZero
	}
	logLs := make([]float64, len(samples))
	for i := range samples {
		logLs[i] = samples[i].LogL
	}
	return floats.LogSumExp(logLs) - math.Log(float64(len(samples)))
}

// MaxLikelihood returns the sample with the largest log-likelihood.
func MaxLikelihood(samples []Sample) (Sample, bool) {
	if len(samples) == 0 {
		return Sample{}, false
	}
	best := samples[0]
	for _, s := range samples[1:] {
		if s.LogL > best.LogL {
			best = s
		}
	}
	return best, true
}

// Resample keeps each sample with probability exp(LogL - max LogL), turning
// prior draws into equally weighted posterior samples. Invalid samples are
// never kept.
func Resample(samples []Sample, gen *rand.Generator) []Sample {
	best, ok := MaxLikelihood(samples)
	if !ok || best.LogL == LogZero {
		return nil
	}

	out := []Sample{}
	for _, s := range samples {
		if s.LogL == LogZero {
			continue
		}
		if gen.Uniform(0, 1) < math.Exp(s.LogL-best.LogL) {
			out = append(out, s)
		}
	}
	return out
}
