package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lockedin-labs/lockin_api/dto"
	"github.com/lockedin-labs/lockin_api/model"
	"github.com/lockedin-labs/lockin_api/services/repositories"
	"github.com/lockedin-labs/lockin_api/shared"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LeaderboardService ranks a challenge's participants by accumulated focus
// time. Ranking itself is pure; rank persistence only happens through the
// explicit completion trigger.
type LeaderboardService struct {
	appContext.DefaultService

	pgSvc    *PostgresService
	redisSvc *RedisService

	participants *repositories.ParticipantRepository
	challenges   *repositories.ChallengeRepository
	sessions     *repositories.SessionRepository
}

const LEADERBOARD_SVC = "leaderboard_svc"

// Leaderboard snapshots are cached for the UI poll cadence.
const leaderboardCacheTTL = 15 * time.Second

func (svc LeaderboardService) Id() string {
	return LEADERBOARD_SVC
}

func (svc *LeaderboardService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *LeaderboardService) Start() error {
	svc.pgSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)

	db := svc.pgSvc.Db()
	svc.participants = repositories.NewParticipantRepository(db)
	svc.challenges = repositories.NewChallengeRepository(db)
	svc.sessions = repositories.NewSessionRepository(db)

	return nil
}

// RankParticipants produces a strict, total ordering: total focus time
// descending, earlier joiners first on ties, participant id as the final
// tiebreak so repeated calls over unchanged input give identical snapshots.
// Positions are 1-based with no shared ranks. The input is not mutated.
func RankParticipants(participants []model.Participant) []dto.LeaderboardEntry {
	ordered := make([]model.Participant, len(participants))
	copy(ordered, participants)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TotalFocusSeconds != ordered[j].TotalFocusSeconds {
			return ordered[i].TotalFocusSeconds > ordered[j].TotalFocusSeconds
		}
		if !ordered[i].JoinedAt.Equal(ordered[j].JoinedAt) {
			return ordered[i].JoinedAt.Before(ordered[j].JoinedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	entries := make([]dto.LeaderboardEntry, len(ordered))
	for i, participant := range ordered {
		entries[i] = dto.LeaderboardEntry{
			Position:          i + 1,
			ParticipantID:     participant.ID,
			UserID:            participant.UserID,
			TotalFocusSeconds: participant.TotalFocusSeconds,
			IsWinner:          participant.IsWinner,
			JoinedAt:          participant.JoinedAt,
		}
	}
	return entries
}

// Leaderboard returns the ranked standings for a challenge. live adds each
// participant's currently-open session elapsed time transiently on top of the
// persisted counter; non-live reads are served from a short redis cache.
func (svc *LeaderboardService) Leaderboard(challengeID string, live bool) (*dto.LeaderboardResponse, error) {
	if !live {
		if cached := svc.cachedLeaderboard(challengeID); cached != nil {
			return cached, nil
		}
	}

	resp, err := svc.buildLeaderboard(challengeID, live, time.Now())
	if err != nil {
		return nil, err
	}

	if !live {
		svc.cacheLeaderboard(challengeID, resp)
	}
	return resp, nil
}

func (svc *LeaderboardService) buildLeaderboard(challengeID string, live bool, now time.Time) (*dto.LeaderboardResponse, error) {
	challenge, err := svc.challenges.GetChallenge(challengeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewNotFoundError(err, "Challenge not found")
	}
	if err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}

	participants, err := svc.participants.ListByChallenge(challengeID)
	if err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}

	if live {
		for i := range participants {
			open, err := svc.sessions.OpenSession(participants[i].ID, challengeID)
			if errors.Is(err, shared.ErrNotRunning) {
				continue
			}
			if err != nil {
				// Best-effort read path: the persisted counter still ranks.
				log.WithError(err).WithField("participant_id", participants[i].ID).
					Warn("Failed to read open session for live leaderboard")
				continue
			}
			participants[i].TotalFocusSeconds += shared.ElapsedSeconds(open.StartTime, now)
		}
	}

	entries := RankParticipants(participants)
	svc.fillUsernames(entries)

	return &dto.LeaderboardResponse{
		ChallengeID: challengeID,
		Status:      challenge.Status,
		Live:        live,
		GeneratedAt: now,
		Entries:     entries,
	}, nil
}

func (svc *LeaderboardService) fillUsernames(entries []dto.LeaderboardEntry) {
	if len(entries) == 0 {
		return
	}

	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.UserID
	}

	var users []model.User
	if err := svc.pgSvc.Db().Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.WithError(err).Warn("Failed to resolve usernames for leaderboard")
		return
	}

	usernames := make(map[string]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
	}
	for i := range entries {
		entries[i].Username = usernames[entries[i].UserID]
	}
}

// PersistFinalRanks writes rank and is_winner for every participant of a
// completed challenge. This is the only write path for ranks; it is invoked
// by the challenge lifecycle at completion.
func (svc *LeaderboardService) PersistFinalRanks(challengeID string) ([]dto.LeaderboardEntry, error) {
	resp, err := svc.buildLeaderboard(challengeID, false, time.Now())
	if err != nil {
		return nil, err
	}

	for _, entry := range resp.Entries {
		if err := svc.participants.SetFinalRank(entry.ParticipantID, entry.Position, entry.Position == 1); err != nil {
			return nil, svc.pgSvc.HandleError(err)
		}
	}

	svc.invalidateLeaderboard(challengeID)
	return resp.Entries, nil
}

func leaderboardCacheKey(challengeID string) string {
	return fmt.Sprintf("leaderboard:%s", challengeID)
}

func (svc *LeaderboardService) cachedLeaderboard(challengeID string) *dto.LeaderboardResponse {
	var resp dto.LeaderboardResponse
	err := svc.redisSvc.GetJSON(context.Background(), leaderboardCacheKey(challengeID), &resp)
	if err != nil || resp.ChallengeID == "" {
		leaderboardCacheMisses.Inc()
		return nil
	}
	leaderboardCacheHits.Inc()
	return &resp
}

func (svc *LeaderboardService) cacheLeaderboard(challengeID string, resp *dto.LeaderboardResponse) {
	if err := svc.redisSvc.Set(context.Background(), leaderboardCacheKey(challengeID), resp, leaderboardCacheTTL); err != nil {
		log.WithError(err).Warn("Failed to cache leaderboard")
	}
}

func (svc *LeaderboardService) invalidateLeaderboard(challengeID string) {
	if err := svc.redisSvc.Delete(context.Background(), leaderboardCacheKey(challengeID)); err != nil {
		log.WithError(err).Warn("Failed to invalidate leaderboard cache")
	}
}
