// Package codec implements the mode-independent rate-1/2, constraint-length
// K=7 convolutional code (C4): a hard Viterbi decoder for the simple
// equalizer paths and a soft BCJR/SISO decoder that returns input-bit LLRs
// (§4.3, §4.16). The package has no soft re-encoder: it does not produce
// soft estimates of the coded bits. Fixed generator constants and small
// polynomial-shift helper functions over package-level pure functions
// rather than a stateful object.
package codec

// ConstraintLength is K=7: the encoder shift register holds the current bit
// plus 6 bits of history.
const ConstraintLength = 7

// Generator polynomials G1=0o133 and G2=0o171 (§4.3), the same pair used by
// the Voyager/CCSDS and countless HF/VHF standards.
const (
	Generator1 = 0o133
	Generator2 = 0o171
)

const numStates = 1 << (ConstraintLength - 1)

// ConvCodec is the stateless rate-1/2 K=7 convolutional encoder/decoder.
// It carries no mutable fields; every method is a pure function of its
// arguments.
type ConvCodec struct{}

// NewConvCodec returns the (stateless) codec. A constructor is kept, rather
// than calling package functions directly, so callers can hold it behind the
// same equalizer.Equalizer-style interface the rest of the DSP chain uses.
func NewConvCodec() ConvCodec { return ConvCodec{} }

// FlushBits is the number of zero tail bits appended to a block before
// encoding to force the shift register back to the all-zero state, so the
// decoder can trace back from a known terminated state instead of guessing
// the most likely final state (§4.3).
const FlushBits = 6

// Encode runs bits (0/1 values, one per byte) through the rate-1/2 encoder
// and returns 2*len(bits) output bits, alternating G1, G2 per input bit. The
// shift register starts at zero at the beginning of each call; callers that
// need the trellis terminated at the zero state (so a hard Viterbi decoder
// can trace back from state 0 rather than the global best metric) append
// FlushBits zero bits to bits before calling Encode.
func (ConvCodec) Encode(bits []int8) []int8 {
	out := make([]int8, 0, len(bits)*2)
	var reg uint8
	for _, b := range bits {
		reg = ((reg << 1) | uint8(b&1)) & (1<<ConstraintLength - 1)
		out = append(out, parity(reg, Generator1), parity(reg, Generator2))
	}
	return out
}

// parity XORs together the register bits selected by the generator
// polynomial's tap mask.
func parity(reg uint8, generator uint16) int8 {
	masked := uint16(reg) & generator
	var p uint8
	for masked != 0 {
		p ^= uint8(masked & 1)
		masked >>= 1
	}
	return int8(p)
}

// branchOutput returns the two encoder output bits produced by transitioning
// out of state `state` (the register's previous ConstraintLength-1 bits) on
// input bit `input`.
func branchOutput(state int, input int8) (int8, int8) {
	reg := uint8((state<<1)|int(input&1)) & (1<<ConstraintLength - 1)
	return parity(reg, Generator1), parity(reg, Generator2)
}

func nextState(state int, input int8) int {
	return ((state << 1) | int(input&1)) & (numStates - 1)
}

// Decode runs the hard-decision Viterbi algorithm over received bit pairs
// (coded []int8, length 2*n) and returns the n most likely input bits,
// including the FlushBits zero tail bits Encode's caller appended; strip
// the last FlushBits of the result to recover the original payload bits.
// The trellis is assumed terminated at the zero state (the same assumption
// SISO makes), so traceback starts from state 0 rather than the state with
// the globally best path metric.
func (ConvCodec) Decode(coded []int8) []int8 {
	n := len(coded) / 2
	if n == 0 {
		return nil
	}

	const inf = 1 << 30
	pathMetric := make([]int, numStates)
	for i := range pathMetric {
		pathMetric[i] = inf
	}
	pathMetric[0] = 0

	// history[step][state] = the oldest register bit (0/1) that the
	// surviving path into `state` dropped at trellis step `step`; it picks
	// which of the two predecessor states the path came from.
	history := make([][]int8, n)
	for i := range history {
		history[i] = make([]int8, numStates)
	}

	for step := 0; step < n; step++ {
		r1, r2 := coded[2*step], coded[2*step+1]
		next := make([]int, numStates)
		for i := range next {
			next[i] = inf
		}

		for state := 0; state < numStates; state++ {
			if pathMetric[state] >= inf {
				continue
			}
			for _, input := range [2]int8{0, 1} {
				o1, o2 := branchOutput(state, input)
				dist := hamming2(o1, o2, r1, r2)
				ns := nextState(state, input)
				metric := pathMetric[state] + dist
				if metric < next[ns] {
					next[ns] = metric
					history[step][ns] = int8(state >> (ConstraintLength - 2))
				}
			}
		}
		pathMetric = next
	}

	out := make([]int8, n)
	state := 0
	for step := n - 1; step >= 0; step-- {
		// The input bit at this step is the newest bit of the state reached.
		out[step] = int8(state & 1)
		state = prevState(state, history[step][state])
	}
	return out
}

// prevState inverts nextState: given the state reached and the oldest bit
// the transition shifted out, recover the state transitioned from.
func prevState(state int, dropped int8) int {
	return (state >> 1) | (int(dropped&1) << (ConstraintLength - 2))
}

func hamming2(o1, o2, r1, r2 int8) int {
	d := 0
	if o1 != r1 {
		d++
	}
	if o2 != r2 {
		d++
	}
	return d
}

// SISO runs the BCJR (soft-in/soft-out, max-log-MAP) algorithm over a
// sequence of received bit-pair LLRs and returns output LLRs for each input
// bit, for use by the turbo equalizer's iterative feedback loop (§4.16).
// extrinsic, when non-nil, supplies a priori LLRs to add to each input bit
// before the forward/backward pass (the "extrinsic information" the
// equalizer and decoder exchange each turbo iteration); pass nil on the
// first iteration.
func (ConvCodec) SISO(llrPairs [][2]float64, extrinsic []float64) []float64 {
	n := len(llrPairs)
	if n == 0 {
		return nil
	}

	const negInf = -1e18
	alpha := make([][]float64, n+1)
	beta := make([][]float64, n+1)
	for i := range alpha {
		alpha[i] = make([]float64, numStates)
		beta[i] = make([]float64, numStates)
		for s := range alpha[i] {
			alpha[i][s] = negInf
			beta[i][s] = negInf
		}
	}
	alpha[0][0] = 0
	beta[n][0] = 0 // trellis assumed terminated at the zero state

	branchMetric := func(step int, state int, input int8) float64 {
		o1, o2 := branchOutput(state, input)
		r1, r2 := llrPairs[step][0], llrPairs[step][1]
		m := signedLLR(o1, r1) + signedLLR(o2, r2)
		if extrinsic != nil && input == 1 {
			m -= extrinsic[step]
		}
		return m
	}

	for step := 0; step < n; step++ {
		for state := 0; state < numStates; state++ {
			if alpha[step][state] <= negInf/2 {
				continue
			}
			for _, input := range [2]int8{0, 1} {
				ns := nextState(state, input)
				m := alpha[step][state] + branchMetric(step, state, input)
				if m > alpha[step+1][ns] {
					alpha[step+1][ns] = m
				}
			}
		}
	}

	for step := n - 1; step >= 0; step-- {
		for state := 0; state < numStates; state++ {
			for _, input := range [2]int8{0, 1} {
				ns := nextState(state, input)
				if beta[step+1][ns] <= negInf/2 {
					continue
				}
				m := beta[step+1][ns] + branchMetric(step, state, input)
				if m > beta[step][state] {
					beta[step][state] = m
				}
			}
		}
	}

	out := make([]float64, n)
	for step := 0; step < n; step++ {
		best0, best1 := negInf, negInf
		for state := 0; state < numStates; state++ {
			if alpha[step][state] <= negInf/2 {
				continue
			}
			for _, input := range [2]int8{0, 1} {
				ns := nextState(state, input)
				if beta[step+1][ns] <= negInf/2 {
					continue
				}
				m := alpha[step][state] + branchMetric(step, state, input) + beta[step+1][ns]
				if input == 0 && m > best0 {
					best0 = m
				}
				if input == 1 && m > best1 {
					best1 = m
				}
			}
		}
		out[step] = best0 - best1
	}
	return out
}

// signedLLR converts a 0/1 coded bit plus a channel LLR (positive favors 0)
// into the max-log branch contribution for that bit value.
func signedLLR(bit int8, llr float64) float64 {
	if bit == 0 {
		return llr / 2
	}
	return -llr / 2
}

// HardToLLR converts hard channel bits (as produced by a non-turbo equalizer
// path) into saturated LLRs, so the same SISO machinery can be exercised
// uniformly regardless of upstream equalizer variant.
func HardToLLR(bits []int8, magnitude float64) [][2]float64 {
	n := len(bits) / 2
	out := make([][2]float64, n)
	for i := 0; i < n; i++ {
		out[i][0] = hardLLR(bits[2*i], magnitude)
		out[i][1] = hardLLR(bits[2*i+1], magnitude)
	}
	return out
}

func hardLLR(bit int8, magnitude float64) float64 {
	if bit == 0 {
		return magnitude
	}
	return -magnitude
}

// LLRToHard makes a hard decision from a soft LLR sequence (positive -> 0).
func LLRToHard(llrs []float64) []int8 {
	out := make([]int8, len(llrs))
	for i, v := range llrs {
		if v < 0 {
			out[i] = 1
		}
	}
	return out
}

