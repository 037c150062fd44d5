package equalizer

import (
	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/symbol"
)

const (
	forwardTaps  = 5
	feedbackTaps = 3
	lmsStep      = 0.02
	rlsForget    = 0.99
	rlsDeltaInv  = 100.0 // 1/delta, the RLS inverse-correlation initializer
)

// dfeEqualizer is a decision-feedback equalizer: a forward filter over
// recent received samples plus a feedback filter over recent symbol
// decisions, jointly adapted every symbol. rls selects RLS adaptation
// (DFE-RLS) over the default LMS law (DFE).
type dfeEqualizer struct {
	rls bool

	wf []complex128 // forward weights
	wb []complex128 // feedback weights
	ff *DelayLine
	fb *DelayLine

	// RLS-only state: P is the (forwardTaps+feedbackTaps) square inverse
	// correlation matrix.
	p [][]complex128
}

func newDFE(rls bool) *dfeEqualizer {
	d := &dfeEqualizer{
		rls: rls,
		wf:  make([]complex128, forwardTaps),
		wb:  make([]complex128, feedbackTaps),
		ff:  NewDelayLine(forwardTaps),
		fb:  NewDelayLine(feedbackTaps),
	}
	d.wf[0] = complex(1, 0) // start as a pass-through tap
	if rls {
		n := forwardTaps + feedbackTaps
		d.p = make([][]complex128, n)
		for i := range d.p {
			d.p[i] = make([]complex128, n)
			d.p[i][i] = complex(rlsDeltaInv, 0)
		}
	}
	return d
}

func (d *dfeEqualizer) Variant() Variant {
	if d.rls {
		return DFERLS
	}
	return DFE
}

func (d *dfeEqualizer) Reset() {
	d.ff.Reset()
	d.fb.Reset()
}

func (d *dfeEqualizer) Equalize(symbols []complex128, knownMask []bool, knownValues []complex128, m mode.Modulation) []complex128 {
	out := make([]complex128, len(symbols))
	for i, rx := range symbols {
		d.ff.Push(rx)
		ffTaps := d.ff.Taps()
		fbTaps := d.fb.Taps()

		y := dotConj(d.wf, ffTaps) + dotConj(d.wb, fbTaps)
		out[i] = y

		var decision complex128
		if knownMask != nil && i < len(knownMask) && knownMask[i] {
			decision = knownValues[i]
		} else {
			decision = complex128(symbol.Map(m, symbol.Demap(m, symbol.Symbol(y))))
		}
		errv := decision - y

		if d.rls {
			d.updateRLS(ffTaps, fbTaps, errv)
		} else {
			d.updateLMS(ffTaps, fbTaps, errv)
		}

		d.fb.Push(decision)
	}
	return out
}

func dotConj(w, x []complex128) complex128 {
	var acc complex128
	for i := range w {
		acc += w[i] * x[i]
	}
	return acc
}

func (d *dfeEqualizer) updateLMS(ffTaps, fbTaps []complex128, errv complex128) {
	for i := range d.wf {
		d.wf[i] += complex(lmsStep, 0) * errv * cconj(ffTaps[i])
	}
	for i := range d.wb {
		d.wb[i] += complex(lmsStep, 0) * errv * cconj(fbTaps[i])
	}
}

func cconj(c complex128) complex128 { return complex(real(c), -imag(c)) }

// updateRLS runs one step of the complex recursive-least-squares update,
// combining the forward and feedback taps into a single input vector u.
func (d *dfeEqualizer) updateRLS(ffTaps, fbTaps []complex128, errv complex128) {
	n := forwardTaps + feedbackTaps
	u := make([]complex128, n)
	copy(u[:forwardTaps], ffTaps)
	copy(u[forwardTaps:], fbTaps)

	pu := matVec(d.p, u)
	denom := complex(rlsForget, 0)
	for i := range u {
		denom += cconj(u[i]) * pu[i]
	}
	k := make([]complex128, n)
	for i := range k {
		k[i] = pu[i] / denom
	}

	for i := 0; i < forwardTaps; i++ {
		d.wf[i] += cconj(k[i]) * errv
	}
	for i := 0; i < feedbackTaps; i++ {
		d.wb[i] += cconj(k[forwardTaps+i]) * errv
	}

	// P = (P - k*(u^H P)) / lambda, written directly on the outer product.
	uP := vecMatConjRow(u, d.p)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d.p[i][j] = (d.p[i][j] - k[i]*uP[j]) / complex(rlsForget, 0)
		}
	}
}

func matVec(m [][]complex128, v []complex128) []complex128 {
	out := make([]complex128, len(m))
	for i := range m {
		var acc complex128
		for j := range v {
			acc += m[i][j] * v[j]
		}
		out[i] = acc
	}
	return out
}

// vecMatConjRow computes u^H * P (a row vector), needed for the RLS P
// matrix downdate.
func vecMatConjRow(u []complex128, p [][]complex128) []complex128 {
	n := len(u)
	out := make([]complex128, n)
	for j := 0; j < n; j++ {
		var acc complex128
		for i := 0; i < n; i++ {
			acc += cconj(u[i]) * p[i][j]
		}
		out[j] = acc
	}
	return out
}
