package dto

import "time"

type StartFocusRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required,uuid"`
}

func (r StartFocusRequest) Validate() error {
	return GetValidator().Struct(r)
}

type StopFocusRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	// ElapsedOverride carries a client-measured duration, accumulated from a
	// local counter that survived brief disconnects. When the client paused
	// without closing the session it can diverge from the wall-clock delta;
	// the override wins.
	ElapsedOverride *int64 `json:"elapsed_override" validate:"omitempty,gte=0"`
}

func (r StopFocusRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ResetFocusRequest struct {
	ChallengeID     string `json:"challenge_id" validate:"required,uuid"`
	ElapsedOverride *int64 `json:"elapsed_override" validate:"omitempty,gte=0"`
}

func (r ResetFocusRequest) Validate() error {
	return GetValidator().Struct(r)
}

type FocusSessionResponse struct {
	SessionID   string    `json:"session_id"`
	ChallengeID string    `json:"challenge_id"`
	StartTime   time.Time `json:"start_time"`
	IsActive    bool      `json:"is_active"`
}

type StopFocusResponse struct {
	SessionID       string    `json:"session_id"`
	DurationSeconds int64     `json:"duration_seconds"`
	EndTime         time.Time `json:"end_time"`
}

type ResetFocusResponse struct {
	// ClosedDurationSeconds is 0 when reset was invoked from idle.
	ClosedDurationSeconds int64                `json:"closed_duration_seconds"`
	Session               FocusSessionResponse `json:"session"`
}

type FocusTodayResponse struct {
	ChallengeID    string    `json:"challenge_id"`
	FocusedSeconds int64     `json:"focused_seconds"`
	DayStart       time.Time `json:"day_start"`
	Now            time.Time `json:"now"`
}
