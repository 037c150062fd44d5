package store

import (
	"gorm.io/gorm"
)

// AttemptRepository provides database operations for decode-session
// diagnostics: a thin wrapper holding a *gorm.DB, one method per query.
type AttemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository creates a new repository instance.
func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Record inserts one decode attempt row.
func (r *AttemptRepository) Record(a *DecodeAttempt) error {
	return r.db.Create(a).Error
}

// RecentBySession returns the most recent attempts for a session ID,
// newest first.
func (r *AttemptRepository) RecentBySession(sessionID string, limit int) ([]DecodeAttempt, error) {
	var attempts []DecodeAttempt
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// FailureRate returns the fraction of recorded attempts for modeName that
// did not acquire sync, over the most recent `window` rows.
func (r *AttemptRepository) FailureRate(modeName string, window int) (float64, error) {
	var attempts []DecodeAttempt
	err := r.db.Where("mode_name = ?", modeName).
		Order("created_at DESC").
		Limit(window).
		Find(&attempts).Error
	if err != nil {
		return 0, err
	}
	if len(attempts) == 0 {
		return 0, nil
	}
	failures := 0
	for _, a := range attempts {
		if !a.Synced {
			failures++
		}
	}
	return float64(failures) / float64(len(attempts)), nil
}

// Count returns the total number of recorded attempts.
func (r *AttemptRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&DecodeAttempt{}).Count(&count).Error
	return count, err
}
