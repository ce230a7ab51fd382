package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lockedin-labs/lockin_api/dto"
)

type FocusServiceInterface interface {
	StartSession(userID, challengeID string) (*dto.FocusSessionResponse, error)
	StopSession(userID, sessionID string, elapsedOverride *int64) (*dto.StopFocusResponse, error)
	ResetSession(userID, challengeID string, elapsedOverride *int64) (*dto.ResetFocusResponse, error)
	FocusedToday(userID, challengeID string, now time.Time, loc *time.Location) (*dto.FocusTodayResponse, error)
}

type ChallengeServiceInterface interface {
	CreateChallenge(userID string, req dto.CreateChallengeRequest) (*dto.ChallengeResponse, error)
	GetChallenge(challengeID string) (*dto.ChallengeDetailResponse, error)
	JoinByInvite(userID, inviteCode string) (*dto.ParticipantResponse, error)
}

type LeaderboardServiceInterface interface {
	Leaderboard(challengeID string, live bool) (*dto.LeaderboardResponse, error)
}

type JWTServiceInterface interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (string, error)
}

type AuthServiceInterface interface {
	RequiredAuth() fiber.Handler
}
