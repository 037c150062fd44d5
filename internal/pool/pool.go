// Package pool runs many independent decode (or encode) sessions
// concurrently, the worker-pool model §5 describes: "single-
// threaded per decode session ... parallelism achieved by running many
// independent sessions in parallel". Built on github.com/sourcegraph/conc's
// bounded pool rather than hand-rolled sync.WaitGroup/channel plumbing.
package pool

import (
	"math/rand"

	"github.com/sourcegraph/conc/pool"

	"github.com/dbehnke/m110a-modem/internal/modem"
)

// Job is one unit of RX work: a waveform and the config to decode it with.
// The per-job pseudo-random generator is not part of the Job; DecodeAll
// creates it and returns it as Outcome.Session.
type Job struct {
	PCM    []float32
	Config modem.Config
}

// Outcome pairs a Job's index with its Decode result, so callers can
// recover per-job ordering after the bounded pool returns results
// out of submission order. Session is the job's own pseudo-random generator
// (§5's "one cloned session ... seeded from a monotonic counter"); the core
// itself never consults it, it exists for callers that want reproducible
// jitter or synthetic-noise injection alongside a real decode.
type Outcome struct {
	Index   int
	Session *rand.Rand
	Result  modem.Result
	Err     error
}

// DecodeAll runs every job in jobs to completion, at most maxGoroutines at
// a time, and returns one Outcome per job. No memory is shared mutably
// between jobs: each gets its own *rand.Rand seeded from a monotonic
// counter (the job's index), matching §5's "own pseudo-random generator
// seeded from a monotonic counter per worker thread" and its "no memory is
// shared mutably between sessions" invariant.
func DecodeAll(jobs []Job, maxGoroutines int) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	p := pool.New().WithMaxGoroutines(maxGoroutines)
	for i, job := range jobs {
		i, job := i, job
		p.Go(func() {
			session := rand.New(rand.NewSource(int64(i)))
			res, err := modem.Decode(job.PCM, job.Config)
			outcomes[i] = Outcome{Index: i, Session: session, Result: res, Err: err}
		})
	}
	p.Wait()
	return outcomes
}

// EncodeJob is one unit of TX work.
type EncodeJob struct {
	Payload []byte
	Config  modem.Config
}

// EncodeOutcome pairs an EncodeJob's index with its Encode result.
type EncodeOutcome struct {
	Index    int
	Waveform []float32
	Err      error
}

// EncodeAll is DecodeAll's transmit-side counterpart.
func EncodeAll(jobs []EncodeJob, maxGoroutines int) []EncodeOutcome {
	outcomes := make([]EncodeOutcome, len(jobs))
	p := pool.New().WithMaxGoroutines(maxGoroutines)
	for i, job := range jobs {
		i, job := i, job
		p.Go(func() {
			wf, err := modem.Encode(job.Payload, job.Config)
			outcomes[i] = EncodeOutcome{Index: i, Waveform: wf, Err: err}
		})
	}
	p.Wait()
	return outcomes
}
