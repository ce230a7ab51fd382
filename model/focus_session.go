package model

import "time"

// FocusSession is one interval of focused time. EndTime == nil means the
// session is open; IsActive is persisted alongside it but the nil end time is
// authoritative when the two momentarily disagree mid-transition.
type FocusSession struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	ParticipantID   string     `json:"participant_id" gorm:"not null;index:idx_session_participant_challenge"`
	ChallengeID     string     `json:"challenge_id" gorm:"not null;index:idx_session_participant_challenge"`
	StartTime       time.Time  `json:"start_time" gorm:"not null"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds int64      `json:"duration_seconds" gorm:"not null"`
	IsActive        bool       `json:"is_active" gorm:"not null"`
	CreatedAt       time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"not null"`
}

// Open reports whether the session is still in progress. Absence of an end
// time wins over a stale IsActive flag.
func (s *FocusSession) Open() bool {
	return s.EndTime == nil
}
