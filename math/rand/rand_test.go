package rand

import (
	"testing"
)

func TestUniformRange(t *testing.T) {
	for _, gt := range []GeneratorType{Xorshift, Golang} {
		gen := New(gt, 1337)
		xs := make([]float64, 10000)
		gen.UniformAt(3, 7, xs)
		for i, x := range xs {
			if x < 3 || x >= 7 {
				t.Fatalf("%d) Generator %d gave %g, outside [3, 7).",
					i, gt, x)
			}
		}

		for i := 0; i < 1000; i++ {
			if n := gen.UniformInt(-2, 5); n < -2 || n >= 5 {
				t.Fatalf("UniformInt(-2, 5) gave %d.", n)
			}
		}
	}
}

func TestSeedDeterminism(t *testing.T) {
	g1, g2, g3 := New(Xorshift, 7), New(Xorshift, 7), New(Xorshift, 8)
	same, different := true, false
	for i := 0; i < 100; i++ {
		x1, x2, x3 := g1.Uniform(0, 1), g2.Uniform(0, 1), g3.Uniform(0, 1)
		same = same && x1 == x2
		different = different || x1 != x3
	}
	if !same {
		t.Errorf("Generators with equal seeds diverged.")
	}
	if !different {
		t.Errorf("Generators with different seeds gave the same stream.")
	}
}

func TestUniformMean(t *testing.T) {
	gen := New(Xorshift, 42)
	sum, n := 0.0, 100000
	for i := 0; i < n; i++ {
		sum += gen.Uniform(0, 1)
	}
	if mean := sum / float64(n); mean < 0.49 || mean > 0.51 {
		t.Errorf("Mean of %d uniform draws was %g.", n, mean)
	}
}

func TestParseGeneratorType(t *testing.T) {
	tests := []struct {
		s     string
		gt    GeneratorType
		valid bool
	}{
		{"", Xorshift, true},
		{"Xorshift", Xorshift, true},
		{"golang", Golang, true},
		{"mersenne", Xorshift, false},
	}
	for i, test := range tests {
		gt, err := ParseGeneratorType(test.s)
		if (err == nil) != test.valid || gt != test.gt {
			t.Errorf("%d) ParseGeneratorType('%s') = %d, %v.",
				i, test.s, gt, err)
		}
	}
}

func TestSobolFirstPoints(t *testing.T) {
	seq := NewSobolSequence()
	expected := [][]float64{
		{0.5, 0.5, 0.5},
		{0.25, 0.75, 0.25},
		{0.75, 0.25, 0.75},
	}
	for i := range expected {
		xs, err := seq.Next(3)
		if err != nil {
			t.Fatalf("%d) Unexpected error: %s", i, err)
		}
		for k := range xs {
			if xs[k] != expected[i][k] {
				t.Errorf("%d) Sobol point is %v, expected %v.",
					i, xs, expected[i])
				break
			}
		}
	}
}

func TestSobolStratified(t *testing.T) {
	// The first 2^m points of each coordinate fall into every one of the 2^m
	// bins of width 2^-m exactly once, except for the origin, which the
	// sequence skips.
	seq := NewSobolSequence()
	m := 6
	n := 1 << uint(m)
	counts := make([][]int, MaxDim)
	for k := range counts {
		counts[k] = make([]int, n)
	}

	xs := make([]float64, MaxDim)
	for i := 0; i < n-1; i++ {
		if err := seq.NextAt(xs); err != nil {
			t.Fatal(err)
		}
		for k, x := range xs {
			if x < 0 || x >= 1 {
				t.Fatalf("Coordinate %g outside [0, 1).", x)
			}
			counts[k][int(x*float64(n))]++
		}
	}

	for k := range counts {
		if counts[k][0] != 0 {
			t.Errorf("Dimension %d: bin 0 has %d points.", k, counts[k][0])
		}
		for b := 1; b < n; b++ {
			if counts[k][b] != 1 {
				t.Errorf("Dimension %d: bin %d has %d points.",
					k, b, counts[k][b])
			}
		}
	}
}

func TestSobolDimensionLimit(t *testing.T) {
	seq := NewSobolSequence()
	if err := seq.NextAt(make([]float64, MaxDim+1)); err == nil {
		t.Errorf("Expected an error for %d dimensions.", MaxDim+1)
	}
}

func benchmarkUniform(gt GeneratorType, b *testing.B) {
	gen := NewTimeSeed(gt)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.Uniform(0, 13)
	}
}

func BenchmarkUniformGolang(b *testing.B)   { benchmarkUniform(Golang, b) }
func BenchmarkUniformXorshift(b *testing.B) { benchmarkUniform(Xorshift, b) }

func BenchmarkNextAtSobol3(b *testing.B) {
	seq := NewSobolSequence()
	vec := make([]float64, 3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if seq.NextAt(vec) != nil {
			seq = NewSobolSequence()
		}
	}
}
