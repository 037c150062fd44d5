// Package channel implements the channel impulse-response estimator (C15):
// given a run of known (probe) symbols and the corresponding received
// samples, solve the Toeplitz least-squares normal equations for the tap
// weights that best explain the distortion, via Gaussian elimination with
// partial pivoting and Tikhonov (ridge) regularization to keep the solve
// well-conditioned when the probe autocorrelation matrix is near-singular
// (§4.15).
package channel

import "math"

// DefaultTaps is the number of channel taps estimated by default: enough to
// span a few milliseconds of multipath spread at 2400 baud.
const DefaultTaps = 9

// DefaultRidge is the Tikhonov regularization added to the normal-equation
// diagonal before solving.
const DefaultRidge = 1e-6

// Estimate solves for the `taps`-length complex channel impulse response
// that best maps known (reference) symbols onto received symbols, using
// the Toeplitz structure of the convolution: received[n] ~= sum_k
// taps[k]*known[n-k].
//
// len(received) must equal len(known); the first taps-1 received samples
// are discarded (insufficient known history to form a full tap window).
func Estimate(known, received []complex128, taps int, ridge float64) []complex128 {
	n := len(known)
	if taps <= 0 || n <= taps {
		return make([]complex128, taps)
	}
	if ridge <= 0 {
		ridge = DefaultRidge
	}

	// Build the normal-equation system A^H A h = A^H y, where A's rows are
	// shifted windows of `known` (the Toeplitz convolution matrix) and y is
	// `received`. The system is solved directly in complex arithmetic by
	// solveComplex's Gaussian elimination.
	rows := n - taps + 1
	ata := make([][]complex128, taps)
	aty := make([]complex128, taps)
	for i := range ata {
		ata[i] = make([]complex128, taps)
	}

	for r := 0; r < rows; r++ {
		window := make([]complex128, taps)
		for k := 0; k < taps; k++ {
			window[k] = known[r+taps-1-k]
		}
		y := received[r+taps-1]
		for i := 0; i < taps; i++ {
			aty[i] += cconj(window[i]) * y
			for j := 0; j < taps; j++ {
				ata[i][j] += cconj(window[i]) * window[j]
			}
		}
	}

	for i := 0; i < taps; i++ {
		ata[i][i] += complex(ridge, 0)
	}

	return solveComplex(ata, aty)
}

func cconj(c complex128) complex128 { return complex(real(c), -imag(c)) }

// solveComplex solves Ax=b via Gaussian elimination with partial pivoting,
// operating on complex128 matrices directly (pivoting on magnitude).
func solveComplex(a [][]complex128, b []complex128) []complex128 {
	n := len(b)
	// Work on copies so the caller's matrix/vector are left untouched.
	m := make([][]complex128, n)
	for i := range m {
		m[i] = append([]complex128(nil), a[i]...)
	}
	rhs := append([]complex128(nil), b...)

	for col := 0; col < n; col++ {
		pivot := col
		best := cabs(m[col][col])
		for r := col + 1; r < n; r++ {
			if v := cabs(m[r][col]); v > best {
				best = v
				pivot = r
			}
		}
		if pivot != col {
			m[col], m[pivot] = m[pivot], m[col]
			rhs[col], rhs[pivot] = rhs[pivot], rhs[col]
		}
		if cabs(m[col][col]) < 1e-15 {
			continue // singular within tolerance; ridge term should prevent this
		}
		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c < n; c++ {
				m[r][c] -= factor * m[col][c]
			}
			rhs[r] -= factor * rhs[col]
		}
	}

	x := make([]complex128, n)
	for i := n - 1; i >= 0; i-- {
		sum := rhs[i]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		if cabs(m[i][i]) < 1e-15 {
			x[i] = 0
			continue
		}
		x[i] = sum / m[i][i]
	}
	return x
}

func cabs(c complex128) float64 { return math.Hypot(real(c), imag(c)) }
