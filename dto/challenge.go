package dto

import "time"

type CreateChallengeRequest struct {
	Title        string    `json:"title" validate:"required,min=3,max=120"`
	Description  string    `json:"description" validate:"max=2000"`
	StakeAmount  float64   `json:"stake_amount" validate:"required,gt=0"`
	DurationDays int       `json:"duration_days" validate:"required,min=1,max=365"`
	StartDate    time.Time `json:"start_date" validate:"required"`
}

func (r CreateChallengeRequest) Validate() error {
	return GetValidator().Struct(r)
}

type JoinChallengeRequest struct {
	InviteCode string `json:"invite_code" validate:"required,uuid"`
}

func (r JoinChallengeRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ChallengeResponse struct {
	ID           string    `json:"id"`
	CreatorID    string    `json:"creator_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	DurationDays int       `json:"duration_days"`
	StakeAmount  float64   `json:"stake_amount"`
	InviteCode   string    `json:"invite_code"`
	CreatedAt    time.Time `json:"created_at"`
}

type ParticipantResponse struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Username          string    `json:"username"`
	TotalFocusSeconds int64     `json:"total_focus_time"`
	IsWinner          bool      `json:"is_winner"`
	JoinedAt          time.Time `json:"joined_at"`
	Rank              *int      `json:"rank"`
	StakeStatus       string    `json:"stake_status"`
}

type ChallengeDetailResponse struct {
	Challenge    ChallengeResponse     `json:"challenge"`
	Participants []ParticipantResponse `json:"participants"`
}

// Leaderboard DTOs
type LeaderboardEntry struct {
	Position          int       `json:"position"`
	ParticipantID     string    `json:"participant_id"`
	UserID            string    `json:"user_id"`
	Username          string    `json:"username"`
	TotalFocusSeconds int64     `json:"total_focus_time"`
	IsWinner          bool      `json:"is_winner"`
	JoinedAt          time.Time `json:"joined_at"`
}

type LeaderboardResponse struct {
	ChallengeID string             `json:"challenge_id"`
	Status      string             `json:"status"`
	Live        bool               `json:"live"`
	GeneratedAt time.Time          `json:"generated_at"`
	Entries     []LeaderboardEntry `json:"entries"`
}
