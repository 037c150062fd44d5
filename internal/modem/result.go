package modem

import (
	"github.com/google/uuid"

	"github.com/dbehnke/m110a-modem/internal/mode"
)

// Result is what Decode always returns when the API call itself succeeds
// (ConfigError is the only kind that rejects the call outright instead of
// coming back here). Synced is false only for NoSync/UnknownMode; a
// DecodeFailure still carries a best-effort Payload alongside Err per §7.
type Result struct {
	SessionID    uuid.UUID
	Payload      []byte
	Mode         mode.ID
	FreqOffsetHz float64
	Synced       bool
	Err          *ModemError
}
