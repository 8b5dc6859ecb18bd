package rand

import (
	"math"
)

// xorshiftGenerator is Marsaglia's 128-bit xorshift generator.
type xorshiftGenerator struct {
	x, y, z, w uint32
}

func (gen *xorshiftGenerator) Init(seed uint64) {
	gen.x = 123456789 ^ uint32(seed>>32)
	gen.y = 362436069
	gen.z = 521288629
	gen.w = 88675123 ^ uint32(seed)
}

func (gen *xorshiftGenerator) step() uint32 {
	t := gen.x ^ (gen.x << 11)
	gen.x, gen.y, gen.z = gen.y, gen.z, gen.w
	gen.w ^= (gen.w >> 19) ^ t ^ (t >> 8)
	return gen.w
}

// Next returns a value in [0, 1).
func (gen *xorshiftGenerator) Next() float64 {
	return float64(gen.step()) / (math.MaxUint32 + 1.0)
}

func (gen *xorshiftGenerator) NextSequence(target []float64) {
	for i := range target {
		target[i] = gen.Next()
	}
}
