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

// FocusService owns the per-(participant, challenge) timer state machine and
// the daily overlap aggregation. The store is the source of truth for whether
// a session is running; client-side idle/running beliefs are never trusted.
type FocusService struct {
	context.DefaultService

	pgSvc *PostgresService

	sessions     *repositories.SessionRepository
	participants *repositories.ParticipantRepository
	challenges   *repositories.ChallengeRepository
}

const FOCUS_SVC = "focus_svc"

func (svc FocusService) Id() string {
	return FOCUS_SVC
}

func (svc *FocusService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *FocusService) Start() error {
	svc.pgSvc = svc.Service(POSTGRES_SVC).(*PostgresService)

	db := svc.pgSvc.Db()
	svc.sessions = repositories.NewSessionRepository(db)
	svc.participants = repositories.NewParticipantRepository(db)
	svc.challenges = repositories.NewChallengeRepository(db)

	return nil
}

func (svc *FocusService) participantFor(userID, challengeID string) (*model.Participant, error) {
	participant, err := svc.participants.GetParticipant(userID, challengeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewNotFoundError(err, "Not a participant of this challenge")
	}
	if err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}
	return participant, nil
}

// StartSession transitions Idle -> Running. The open-session check happens in
// the store inside a transaction, so a client that reconnects after a crash
// with a stale idle belief still gets ErrAlreadyRunning instead of a
// duplicate open session.
func (svc *FocusService) StartSession(userID, challengeID string) (*dto.FocusSessionResponse, error) {
	participant, err := svc.participantFor(userID, challengeID)
	if err != nil {
		return nil, err
	}

	session, err := svc.sessions.InsertOpenSession(participant.ID, challengeID, time.Now())
	if errors.Is(err, shared.ErrAlreadyRunning) {
		return nil, shared.NewConflictError(err, "A focus session is already running for this challenge")
	}
	if err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}

	focusSessionsStartedTotal.Inc()

	return &dto.FocusSessionResponse{
		SessionID:   session.ID,
		ChallengeID: session.ChallengeID,
		StartTime:   session.StartTime,
		IsActive:    true,
	}, nil
}

// StopSession transitions Running -> Idle. The close is conditional on the
// session still being open and the participant counter increment commits in
// the same transaction, so two racing stops count the duration exactly once.
// elapsedOverride, when present, wins over the wall-clock delta.
func (svc *FocusService) StopSession(userID, sessionID string, elapsedOverride *int64) (*dto.StopFocusResponse, error) {
	session, err := svc.sessions.GetSession(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewNotFoundError(err, "Focus session not found")
	}
	if err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}

	participant, err := svc.participants.GetParticipantByID(session.ParticipantID)
	if err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}
	if participant.UserID != userID {
		return nil, shared.NewForbiddenError(nil, "Session belongs to another participant")
	}

	now := time.Now()
	duration := shared.ElapsedSeconds(session.StartTime, now)
	if elapsedOverride != nil {
		duration = *elapsedOverride
		if duration < 0 {
			duration = 0
		}
	}

	err = svc.sessions.CloseSession(session.ID, now, duration)
	if errors.Is(err, shared.ErrNotRunning) {
		return nil, shared.NewConflictError(err, "Focus session already stopped")
	}
	if err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}

	focusSessionsClosedTotal.Inc()
	focusSecondsRecordedTotal.Add(float64(duration))

	return &dto.StopFocusResponse{
		SessionID:       session.ID,
		DurationSeconds: duration,
		EndTime:         now,
	}, nil
}

// ResetSession closes the running session (its duration is fully committed
// first) and opens a fresh one. From idle it degenerates to a plain start.
func (svc *FocusService) ResetSession(userID, challengeID string, elapsedOverride *int64) (*dto.ResetFocusResponse, error) {
	participant, err := svc.participantFor(userID, challengeID)
	if err != nil {
		return nil, err
	}

	var closedDuration int64
	open, err := svc.sessions.OpenSession(participant.ID, challengeID)
	if err != nil && !errors.Is(err, shared.ErrNotRunning) {
		return nil, svc.pgSvc.HandleError(err)
	}

	if open != nil {
		stopped, err := svc.StopSession(userID, open.ID, elapsedOverride)
		if err != nil {
			// A racing stop already closed it; the prior time is recorded
			// either way, so the reset continues with a fresh start.
			if !errors.Is(err, shared.ErrNotRunning) {
				return nil, err
			}
		} else {
			closedDuration = stopped.DurationSeconds
		}
	}

	started, err := svc.StartSession(userID, challengeID)
	if err != nil {
		return nil, err
	}

	return &dto.ResetFocusResponse{
		ClosedDurationSeconds: closedDuration,
		Session:               *started,
	}, nil
}

// FocusedToday computes how many seconds of the current local day were spent
// focused. Open sessions contribute up to now, sessions that began before
// midnight contribute only their post-midnight portion, and a corrupt record
// is skipped with a warning rather than failing the whole computation.
func (svc *FocusService) FocusedToday(userID, challengeID string, now time.Time, loc *time.Location) (*dto.FocusTodayResponse, error) {
	participant, err := svc.participantFor(userID, challengeID)
	if err != nil {
		return nil, err
	}

	localNow := now.In(loc)
	dayStart := shared.StartOfDay(localNow)

	sessions, err := svc.sessions.QuerySessions(participant.ID, challengeID, dayStart)
	if err != nil {
		return nil, svc.pgSvc.HandleError(err)
	}

	total := svc.aggregateDay(sessions, localNow, dayStart)

	return &dto.FocusTodayResponse{
		ChallengeID:    challengeID,
		FocusedSeconds: total,
		DayStart:       dayStart,
		Now:            localNow,
	}, nil
}

func (svc *FocusService) aggregateDay(sessions []model.FocusSession, now, dayStart time.Time) int64 {
	var total int64
	for _, session := range sessions {
		end := now
		if session.EndTime != nil {
			end = *session.EndTime
			if end.Before(session.StartTime) {
				log.WithFields(log.Fields{
					"session_id": session.ID,
					"start_time": session.StartTime,
					"end_time":   end,
				}).Warn("Skipping focus session with end before start")
				continue
			}
		}

		if !end.After(dayStart) {
			continue
		}

		total += shared.OverlapSeconds(session.StartTime, end, dayStart, now)
	}
	return total
}
