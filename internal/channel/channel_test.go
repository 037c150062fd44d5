package channel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateRecoversKnownImpulseResponse(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	trueTaps := []complex128{complex(1, 0), complex(0.3, 0.1), complex(-0.15, 0.05)}

	n := 400
	known := make([]complex128, n)
	for i := range known {
		// QPSK-like known symbols.
		re := 1.0
		im := 1.0
		if rng.Intn(2) == 0 {
			re = -1
		}
		if rng.Intn(2) == 0 {
			im = -1
		}
		known[i] = complex(re, im)
	}

	received := make([]complex128, n)
	for i := range received {
		var acc complex128
		for k, tap := range trueTaps {
			if i-k >= 0 {
				acc += tap * known[i-k]
			}
		}
		received[i] = acc
	}

	est := Estimate(known, received, len(trueTaps), 1e-9)
	for k, want := range trueTaps {
		assert.InDelta(t, real(want), real(est[k]), 0.05, "tap %d real part", k)
		assert.InDelta(t, imag(want), imag(est[k]), 0.05, "tap %d imag part", k)
	}
}

func TestEstimateHandlesShortInput(t *testing.T) {
	out := Estimate([]complex128{1, 2}, []complex128{1, 2}, 5, 1e-6)
	require.Len(t, out, 5)
}

func TestEstimateRidgeKeepsSolveStable(t *testing.T) {
	// Constant known sequence makes the normal-equation matrix singular
	// without the ridge term; this must not panic or produce NaNs.
	n := 50
	known := make([]complex128, n)
	received := make([]complex128, n)
	for i := range known {
		known[i] = complex(1, 0)
		received[i] = complex(1, 0)
	}
	est := Estimate(known, received, 4, DefaultRidge)
	for _, v := range est {
		if math.IsNaN(real(v)) || math.IsNaN(imag(v)) {
			t.Fatalf("estimate contains NaN: %v", est)
		}
	}
}
