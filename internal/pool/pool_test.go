package pool

import (
	"testing"

	"github.com/dbehnke/m110a-modem/internal/equalizer"
	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/modem"
)

func TestDecodeAllPreservesOrderingAndIsolation(t *testing.T) {
	cfg := modem.Config{
		Mode:              mode.M2400S,
		SampleRate:        48000,
		Equalizer:         equalizer.None,
		PhaseTracking:     true,
		FreqSearchRangeHz: 10,
		FreqSearchStepHz:  1,
	}
	txCfg := cfg
	txCfg.Amplitude = 1.0
	txCfg.IncludePreamble = true
	txCfg.IncludeEOM = true
	txCfg.IncludeLeadingSymbols = true

	payloads := [][]byte{[]byte("alpha"), []byte("bravo"), []byte("charlie")}
	jobs := make([]Job, len(payloads))
	for i, p := range payloads {
		wf, err := modem.Encode(p, txCfg)
		if err != nil {
			t.Fatalf("encode %d: %v", i, err)
		}
		jobs[i] = Job{PCM: wf, Config: cfg}
	}

	outcomes := DecodeAll(jobs, 2)
	if len(outcomes) != len(jobs) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(jobs))
	}
	for i, o := range outcomes {
		if o.Index != i {
			t.Fatalf("outcome %d carries index %d, ordering not preserved", i, o.Index)
		}
		if o.Err != nil {
			t.Fatalf("job %d: %v", i, o.Err)
		}
		if !o.Result.Synced {
			t.Fatalf("job %d: expected sync, got %+v", i, o.Result.Err)
		}
		// Decode returns the payload followed by zero block-padding bytes.
		got := o.Result.Payload
		if len(got) < len(payloads[i]) || string(got[:len(payloads[i])]) != string(payloads[i]) {
			t.Fatalf("job %d: payload = %q, want prefix %q", i, got, payloads[i])
		}
		for j, b := range got[len(payloads[i]):] {
			if b != 0 {
				t.Fatalf("job %d: padding byte %d = %#x, want 0x00", i, j, b)
			}
		}
		if o.Session == nil {
			t.Fatalf("job %d: expected a per-job PRNG", i)
		}
	}
}

func TestEncodeAllRunsEveryJob(t *testing.T) {
	cfg := modem.Config{
		Mode:                  mode.M600S,
		SampleRate:            48000,
		Amplitude:             1.0,
		IncludePreamble:       true,
		IncludeEOM:            true,
		IncludeLeadingSymbols: true,
	}
	jobs := []EncodeJob{
		{Payload: []byte{0x01}, Config: cfg},
		{Payload: []byte{0x02, 0x03}, Config: cfg},
	}
	outcomes := EncodeAll(jobs, 4)
	for i, o := range outcomes {
		if o.Err != nil {
			t.Fatalf("job %d: %v", i, o.Err)
		}
		if len(o.Waveform) == 0 {
			t.Fatalf("job %d: empty waveform", i)
		}
	}
}
