// Command m110a-bench is a thin driver over internal/modem: it reads a
// payload from stdin, encodes it to a waveform with one mode, immediately
// decodes that waveform back with AUTO mode detection, and reports the
// round-trip result. It is deliberately not a protocol CLI — argument
// parsing, PCM/WAV containers, and the network command surface are all
// Non-goals per §1.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/dbehnke/m110a-modem/internal/config"
	"github.com/dbehnke/m110a-modem/internal/modem"
	"github.com/dbehnke/m110a-modem/internal/store"
)

func main() {
	modeFlag := flag.String("mode", "M2400S", "TX mode (e.g. M75S, M600L, M2400S)")
	equalizerFlag := flag.String("equalizer", "NONE", "RX equalizer (NONE, DFE, DFE_RLS, MLSE_L2, MLSE_L3, MLSE_ADAPTIVE, TURBO)")
	dbPath := flag.String("db", ":memory:", "diagnostics sqlite path")
	flag.Parse()

	payload, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("m110a-bench: reading stdin: %v", err)
	}

	cfg := config.NewConfig()
	if err := cfg.LoadFromString(fmt.Sprintf(
		"mode = %q\nequalizer = %q\n", *modeFlag, *equalizerFlag,
	)); err != nil {
		log.Fatalf("m110a-bench: %v", err)
	}

	txCfg, err := cfg.TXConfig()
	if err != nil {
		log.Fatalf("m110a-bench: %v", err)
	}
	rxCfg, err := cfg.RXConfig()
	if err != nil {
		log.Fatalf("m110a-bench: %v", err)
	}
	rxCfg.Mode = modem.ModeAuto

	db, err := store.NewDB(store.Config{Path: *dbPath}, log.Default())
	if err != nil {
		log.Fatalf("m110a-bench: opening diagnostics db: %v", err)
	}
	defer db.Close()
	repo := store.NewAttemptRepository(db.GetDB())

	waveform, err := modem.Encode(payload, txCfg)
	if err != nil {
		log.Fatalf("m110a-bench: encode: %v", err)
	}
	log.Printf("m110a-bench: encoded %s into %s waveform", humanize.Bytes(uint64(len(payload))), humanize.Bytes(uint64(len(waveform)*4)))

	result, err := modem.Decode(waveform, rxCfg)
	if err != nil {
		log.Fatalf("m110a-bench: decode: %v", err)
	}

	attempt := &store.DecodeAttempt{
		SessionID:    result.SessionID.String(),
		ModeName:     *modeFlag,
		Equalizer:    *equalizerFlag,
		Synced:       result.Synced,
		FreqOffsetHz: result.FreqOffsetHz,
		PayloadBytes: len(result.Payload),
	}
	if result.Err != nil {
		attempt.ErrorKind = result.Err.Kind.String()
	}
	if err := repo.Record(attempt); err != nil {
		log.Printf("m110a-bench: recording diagnostics: %v", err)
	}

	if !result.Synced {
		log.Fatalf("m110a-bench: round trip failed to sync: %v", result.Err)
	}
	os.Stdout.Write(result.Payload)
}
