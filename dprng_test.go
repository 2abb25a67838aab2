package idrpseudo

import (
	"fmt"
	"testing"

	set3 "github.com/TomTonic/Set3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestNewDPRNGSeeding(t *testing.T) {
	assert.Equal(t, uint64(42), NewDPRNG(42).State)
	assert.Zero(t, NewDPRNG(42).Round)

	// a missing or zero seed would leave xorshift stuck at 0, so a random one is drawn
	for _, rng := range []*DPRNG{NewDPRNG(), NewDPRNG(0)} {
		assert.NotZero(t, rng.State)
		assert.NotZero(t, rng.Uint64())
	}
}

func TestDPRNGNoEarlyRepeats(t *testing.T) {
	rng := NewDPRNG(0x1234567890ABCDEF)
	const draws = 1_000_000
	seen := set3.EmptyWithCapacity[uint64](draws * 7 / 5)
	for range draws {
		seen.Add(rng.Uint64())
	}
	assert.Equal(t, uint32(draws), seen.Size(), "sequence repeats within %d draws", draws)
}

func TestDPRNGReproducible(t *testing.T) {
	a, b := NewDPRNG(0x1234567890ABCDEF), NewDPRNG(0x1234567890ABCDEF)
	for i := range 10_000 {
		require.Equal(t, a.Uint64(), b.Uint64(), "draw %d", i)
	}
	b.Uint64()
	assert.Equal(t, a.Round+1, b.Round)
	assert.NotEqual(t, a.Uint64(), b.Uint64(), "shifted streams must differ")
}

func TestDPRNGFloat64(t *testing.T) {
	rng := NewDPRNG(0x1234567890ABCDEF)
	const draws = 500_000
	var sum float64
	for range draws {
		x := rng.Float64()
		require.True(t, x >= 0 && x < 1, "Float64 out of [0,1): %v", x)
		sum += x
	}
	assert.InDelta(t, 0.5, sum/draws, 0.005)
}

func TestUInt32NUniform(t *testing.T) {
	const samples = 2_000_000
	for _, n := range []uint32{13, 64, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			rng := NewDPRNG(0xDEADBEEFCAFEBABE)
			counts := make([]float64, n)
			for range samples {
				v := rng.UInt32N(n)
				if v >= n {
					t.Fatalf("UInt32N(%d) returned %d", n, v)
				}
				counts[v]++
			}
			expected := make([]float64, n)
			for i := range expected {
				expected[i] = float64(samples) / float64(n)
			}
			chi2 := stat.ChiSquare(counts, expected)
			pValue := distuv.ChiSquared{K: float64(n - 1)}.Survival(chi2)
			assert.Greater(t, pValue, 1e-4, "n=%d: chi2=%.2f is implausible for uniform buckets", n, chi2)
		})
	}
}

func TestUInt32NDegenerate(t *testing.T) {
	rng := NewDPRNG(7)
	for range 100 {
		assert.Equal(t, uint32(0), rng.UInt32N(0))
		assert.Equal(t, uint32(0), rng.UInt32N(1))
	}
}

func TestDPRNGDrivesGonumNormal(t *testing.T) {
	n1 := distuv.Normal{Mu: 0, Sigma: 1, Src: NewDPRNG(99)}
	n2 := distuv.Normal{Mu: 0, Sigma: 1, Src: NewDPRNG(99)}
	var sum, sumSq float64
	const N = 200_000
	for i := range N {
		a, b := n1.Rand(), n2.Rand()
		assert.True(t, a == b, "normal draws diverge at %d: %v vs %v", i, a, b)
		sum += a
		sumSq += a * a
	}
	mean := sum / N
	assert.InDelta(t, 0, mean, 0.01)
	assert.InDelta(t, 1, sumSq/N-mean*mean, 0.02)
}
