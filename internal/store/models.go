package store

import "time"

// DecodeAttempt is one RX session's diagnostic record: what mode was used
// or detected, which equalizer ran, whether sync was acquired, and a BER
// estimate when one is available (e.g. against a known test payload).
type DecodeAttempt struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	SessionID    string    `gorm:"index;size:36" json:"session_id"`
	ModeName     string    `gorm:"size:16" json:"mode_name"`
	Equalizer    string    `gorm:"size:16" json:"equalizer"`
	Synced       bool      `json:"synced"`
	FreqOffsetHz float64   `json:"freq_offset_hz"`
	BER          float64   `json:"ber"`
	ErrorKind    string    `gorm:"size:32" json:"error_kind"`
	PayloadBytes int       `json:"payload_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (DecodeAttempt) TableName() string { return "decode_attempts" }

// String returns a formatted one-line summary.
func (a DecodeAttempt) String() string {
	status := "sync"
	if !a.Synced {
		status = "no-sync"
	}
	return a.SessionID + " " + a.ModeName + "/" + a.Equalizer + " " + status
}
