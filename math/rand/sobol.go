package rand

import (
	"fmt"
)

const (
	// MaxDim is the largest dimension a SobolSequence can fill.
	MaxDim = uint32(6)
	// MaxBit is the number of bits of precision in each coordinate.
	MaxBit = uint32(30)

	maxSeqNum = uint32(1) << MaxBit
	sobolFac  = 1.0 / float64(maxSeqNum)
)

// Primitive polynomial degrees, their coefficient bits and the initial
// direction numbers for each of the MaxDim dimensions. See Press et al. 2007.
var (
	sobolDeg  = [MaxDim]uint32{1, 2, 3, 3, 4, 4}
	sobolPoly = [MaxDim]uint32{0, 1, 1, 2, 1, 4}
	sobolInit = [MaxDim][4]uint32{
		{1, 0, 0, 0},
		{1, 1, 0, 0},
		{1, 3, 7, 0},
		{1, 1, 5, 0},
		{1, 3, 1, 1},
		{1, 1, 3, 7},
	}
)

// SobolSequence generates a low-discrepancy sequence in [0, 1)^d for
// d <= MaxDim. It is not safe for concurrent use.
type SobolSequence struct {
	n   uint32
	x   [MaxDim]uint32
	dir [MaxBit][MaxDim]uint32
}

// NewSobolSequence returns a sequence positioned at its first element.
func NewSobolSequence() *SobolSequence {
	seq := &SobolSequence{}
	for k := uint32(0); k < MaxDim; k++ {
		deg := sobolDeg[k]
		for j := uint32(0); j < deg; j++ {
			seq.dir[j][k] = sobolInit[k][j] << (MaxBit - j - 1)
		}

		for j := deg; j < MaxBit; j++ {
			v := seq.dir[j-deg][k]
			v ^= v >> deg
			poly := sobolPoly[k]
			for l := deg - 1; l >= 1; l-- {
				if poly&1 == 1 {
					v ^= seq.dir[j-l][k]
				}
				poly >>= 1
			}
			seq.dir[j][k] = v
		}
	}
	return seq
}

// Next returns the next point of the sequence as a new slice.
func (seq *SobolSequence) Next(dim int) ([]float64, error) {
	target := make([]float64, dim)
	if err := seq.NextAt(target); err != nil {
		return nil, err
	}
	return target, nil
}

// NextAt writes the next point of the sequence to target. The dimension is
// len(target).
func (seq *SobolSequence) NextAt(target []float64) error {
	dim := uint32(len(target))
	if dim > MaxDim {
		return fmt.Errorf("Sobol sequences support at most %d dimensions, "+
			"but %d were requested", MaxDim, dim)
	} else if seq.n >= maxSeqNum-1 {
		return fmt.Errorf("exhausted the %d points of the Sobol sequence",
			maxSeqNum-1)
	}

	// Gray code: flip the direction number of the lowest zero bit of n.
	bit := uint32(0)
	for c := seq.n; c&1 == 1; c >>= 1 {
		bit++
	}
	seq.n++

	for k := uint32(0); k < dim; k++ {
		seq.x[k] ^= seq.dir[bit][k]
		target[k] = float64(seq.x[k]) * sobolFac
	}
	return nil
}
