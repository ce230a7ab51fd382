package model

import "time"

type Challenge struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	CreatorID    string    `json:"creator_id" gorm:"not null;index"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description"`
	Status       string    `json:"status" gorm:"not null;index"`
	StartDate    time.Time `json:"start_date" gorm:"not null"`
	EndDate      time.Time `json:"end_date" gorm:"not null"`
	DurationDays int       `json:"duration_days" gorm:"not null"`
	StakeAmount  float64   `json:"stake_amount" gorm:"not null"`
	InviteCode   string    `json:"invite_code" gorm:"uniqueIndex;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null"`
}

// Participant is a user's membership in a challenge. TotalFocusSeconds only
// reflects closed sessions; live views add the open session's elapsed time
// transiently.
type Participant struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	UserID            string    `json:"user_id" gorm:"not null;index:idx_participant_user_challenge,unique"`
	ChallengeID       string    `json:"challenge_id" gorm:"not null;index:idx_participant_user_challenge,unique"`
	TotalFocusSeconds int64     `json:"total_focus_time" gorm:"not null"`
	IsWinner          bool      `json:"is_winner" gorm:"not null"`
	JoinedAt          time.Time `json:"joined_at" gorm:"not null"`
	Rank              *int      `json:"rank"`
	StakeStatus       string    `json:"stake_status" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"not null"`
}
