/*package rand provides seeded pseudo random number generators and Sobol
sequences for drawing points from the unit hypercube.

	// A single value in [3, 7).
	gen := New(Xorshift, 1337)
	x := gen.Uniform(3, 7)

	// Many values at once.
	xs := make([]float64, 100)
	gen.UniformAt(3, 7, xs)

	// A quasi-random point in [0, 1)^3.
	seq := NewSobolSequence()
	u := make([]float64, 3)
	err := seq.NextAt(u)

Xorshift is fast and fully determined by its seed. Golang wraps the standard
library's generator.
*/
package rand

import (
	"fmt"
	"strings"
	"time"
)

// backend supplies uniform values in [0, 1).
type backend interface {
	Init(seed uint64)
	Next() float64
	NextSequence(target []float64)
}

// Generator is a random number generator. It is not safe for concurrent use.
type Generator struct {
	backend backend
}

// GeneratorType selects the algorithm behind a Generator.
type GeneratorType uint8

const (
	Xorshift GeneratorType = iota
	Golang
)

// ParseGeneratorType converts a config string into a GeneratorType.
func ParseGeneratorType(s string) (GeneratorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xorshift":
		return Xorshift, nil
	case "golang":
		return Golang, nil
	}
	return Xorshift, fmt.Errorf("I don't recognize the generator '%s'. "+
		"Supported generators are xorshift and golang", s)
}

// NewTimeSeed returns a generator seeded with the current time.
func NewTimeSeed(gt GeneratorType) *Generator {
	return New(gt, uint64(time.Now().UnixNano()))
}

// New returns a generator of the given type. Equal seeds give equal streams.
func New(gt GeneratorType, seed uint64) *Generator {
	var b backend
	switch gt {
	case Xorshift:
		b = &xorshiftGenerator{}
	case Golang:
		b = &golangGenerator{}
	default:
		panic("Unrecognized GeneratorType")
	}
	b.Init(seed)
	return &Generator{backend: b}
}

// Uniform returns a value drawn uniformly from [low, high).
func (gen *Generator) Uniform(low, high float64) float64 {
	return low + (high-low)*gen.backend.Next()
}

// UniformInt returns an integer drawn uniformly from [low, high).
func (gen *Generator) UniformInt(low, high int) int {
	return low + int(float64(high-low)*gen.backend.Next())
}

// UniformAt fills target with values drawn uniformly from [low, high).
func (gen *Generator) UniformAt(low, high float64, target []float64) {
	gen.backend.NextSequence(target)
	if low == 0 && high == 1 {
		return
	}
	for i := range target {
		target[i] = low + (high-low)*target[i]
	}
}
