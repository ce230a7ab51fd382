package services

import (
	"errors"
	"time"

	"github.com/lockedin-labs/lockin_api/dto"
	"github.com/lockedin-labs/lockin_api/model"
	"github.com/lockedin-labs/lockin_api/services/repositories"
	"github.com/lockedin-labs/lockin_api/shared"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ChallengeService manages challenge membership and drives the
// pending -> active -> completed lifecycle on a schedule. The focus engine
// and the ranker behave the same regardless of the current status; completion
// only triggers rank persistence and archival.
type ChallengeService struct {
	context.DefaultService

	pgSvc          *PostgresService
	leaderboardSvc *LeaderboardService
	archiveSvc     *ArchiveService

	challenges   *repositories.ChallengeRepository
	participants *repositories.ParticipantRepository
	sessions     *repositories.SessionRepository
}

const CHALLENGE_SVC = "challenge_svc"

func (svc ChallengeService) Id() string {
	return CHALLENGE_SVC
}

func (svc *ChallengeService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ChallengeService) Start() error {
	svc.pgSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.leaderboardSvc = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	svc.archiveSvc = svc.Service(ARCHIVE_SVC).(*ArchiveService)

	db := svc.pgSvc.Db()
	svc.challenges = repositories.NewChallengeRepository(db)
	svc.participants = repositories.NewParticipantRepository(db)
	svc.sessions = repositories.NewSessionRepository(db)

	go svc.startLifecycleScheduler()

	return nil
}

func (svc *ChallengeService) startLifecycleScheduler() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		if err := svc.runLifecycleChecks(time.Now()); err != nil {
			log.WithError(err).Error("Challenge lifecycle check failed")
		}
	}
}

func (svc *ChallengeService) runLifecycleChecks(now time.Time) error {
	due, err := svc.challenges.DueForActivation(now)
	if err != nil {
		return err
	}
	for _, challenge := range due {
		if err := svc.challenges.UpdateStatus(challenge.ID, shared.ChallengeStatusActive); err != nil {
			log.WithError(err).WithField("challenge_id", challenge.ID).Error("Failed to activate challenge")
			continue
		}
		log.WithField("challenge_id", challenge.ID).Info("Challenge activated")
	}

	ended, err := svc.challenges.DueForCompletion(now)
	if err != nil {
		return err
	}
	for _, challenge := range ended {
		if err := svc.completeChallenge(&challenge, now); err != nil {
			log.WithError(err).WithField("challenge_id", challenge.ID).Error("Failed to complete challenge")
		}
	}

	return nil
}

// completeChallenge closes any sessions left open past the end date, persists
// final ranks and the winner flag, and archives the standings snapshot.
func (svc *ChallengeService) completeChallenge(challenge *model.Challenge, now time.Time) error {
	participants, err := svc.participants.ListByChallenge(challenge.ID)
	if err != nil {
		return err
	}

	for _, participant := range participants {
		open, err := svc.sessions.OpenSession(participant.ID, challenge.ID)
		if errors.Is(err, shared.ErrNotRunning) {
			continue
		}
		if err != nil {
			log.WithError(err).WithField("participant_id", participant.ID).
				Warn("Failed to look up open session during completion")
			continue
		}

		// The abandoned session only counts up to the challenge end date.
		duration := shared.ElapsedSeconds(open.StartTime, challenge.EndDate)
		if err := svc.sessions.CloseSession(open.ID, challenge.EndDate, duration); err != nil &&
			!errors.Is(err, shared.ErrNotRunning) {
			log.WithError(err).WithField("session_id", open.ID).
				Warn("Failed to close abandoned session during completion")
		}
	}

	entries, err := svc.leaderboardSvc.PersistFinalRanks(challenge.ID)
	if err != nil {
		return err
	}

	if err := svc.challenges.UpdateStatus(challenge.ID, shared.ChallengeStatusCompleted); err != nil {
		return err
	}

	if err := svc.archiveSvc.StoreLeaderboardSnapshot(challenge.ID, entries); err != nil {
		// Archival is best effort; the persisted ranks remain authoritative.
		log.WithError(err).WithField("challenge_id", challenge.ID).
			Warn("Failed to archive leaderboard snapshot")
	}

	log.WithFields(log.Fields{
		"challenge_id": challenge.ID,
		"participants": len(entries),
	}).Info("Challenge completed")
	return nil
}

func (svc *ChallengeService) CreateChallenge(userID string, req dto.CreateChallengeRequest) (*dto.ChallengeResponse, error) {
	now := time.Now()
	status := shared.ChallengeStatusPending
	if !req.StartDate.After(now) {
		status = shared.ChallengeStatusActive
	}

	challenge := &model.Challenge{
		CreatorID:    userID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       status,
		StartDate:    req.StartDate,
		EndDate:      req.StartDate.AddDate(0, 0, req.DurationDays),
		DurationDays: req.DurationDays,
		StakeAmount:  req.StakeAmount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	challenge, err := svc.challenges.CreateChallenge(challenge)
	if err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}

	// The creator participates in their own challenge.
	if _, err := svc.participants.CreateParticipant(userID, challenge.ID, now); err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}

	resp := challengeResponse(challenge)
	return &resp, nil
}

func (svc *ChallengeService) GetChallenge(challengeID string) (*dto.ChallengeDetailResponse, error) {
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

	usernames := svc.usernamesFor(participants)

	participantResponses := make([]dto.ParticipantResponse, len(participants))
	for i, participant := range participants {
		participantResponses[i] = dto.ParticipantResponse{
			ID:                participant.ID,
			UserID:            participant.UserID,
			Username:          usernames[participant.UserID],
			TotalFocusSeconds: participant.TotalFocusSeconds,
			IsWinner:          participant.IsWinner,
			JoinedAt:          participant.JoinedAt,
			Rank:              participant.Rank,
			StakeStatus:       participant.StakeStatus,
		}
	}

	return &dto.ChallengeDetailResponse{
		Challenge:    challengeResponse(challenge),
		Participants: participantResponses,
	}, nil
}

// JoinByInvite resolves an invite code and enrolls the user. Joining twice is
// an idempotent no-op returning the existing membership.
func (svc *ChallengeService) JoinByInvite(userID, inviteCode string) (*dto.ParticipantResponse, error) {
	challenge, err := svc.challenges.GetChallengeByInviteCode(inviteCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewNotFoundError(err, "Invite not found")
	}
	if err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}

	if challenge.Status == shared.ChallengeStatusCompleted {
		return nil, shared.NewConflictError(nil, "Challenge has already completed")
	}

	participant, err := svc.participants.GetParticipant(userID, challenge.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svc.pgSvc.HandleError(err)
	}
	if participant == nil {
		participant, err = svc.participants.CreateParticipant(userID, challenge.ID, time.Now())
		if err != nil {
			return nil, svc.pgSvc.HandleError(err)
		}
	}

	return &dto.ParticipantResponse{
		ID:                participant.ID,
		UserID:            participant.UserID,
		TotalFocusSeconds: participant.TotalFocusSeconds,
		IsWinner:          participant.IsWinner,
		JoinedAt:          participant.JoinedAt,
		Rank:              participant.Rank,
		StakeStatus:       participant.StakeStatus,
	}, nil
}

func (svc *ChallengeService) usernamesFor(participants []model.Participant) map[string]string {
	usernames := make(map[string]string, len(participants))
	if len(participants) == 0 {
		return usernames
	}

	ids := make([]string, len(participants))
	for i, participant := range participants {
		ids[i] = participant.UserID
	}

	var users []model.User
	if err := svc.pgSvc.Db().Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.WithError(err).Warn("Failed to resolve participant usernames")
		return usernames
	}
	for _, user := range users {
		usernames[user.ID] = user.Username
	}
	return usernames
}

func challengeResponse(challenge *model.Challenge) dto.ChallengeResponse {
	return dto.ChallengeResponse{
		ID:           challenge.ID,
		CreatorID:    challenge.CreatorID,
		Title:        challenge.Title,
		Description:  challenge.Description,
		Status:       challenge.Status,
		StartDate:    challenge.StartDate,
		EndDate:      challenge.EndDate,
		DurationDays: challenge.DurationDays,
		StakeAmount:  challenge.StakeAmount,
		InviteCode:   challenge.InviteCode,
		CreatedAt:    challenge.CreatedAt,
	}
}
