package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lockedin-labs/lockin_api/model"
	"github.com/lockedin-labs/lockin_api/shared"
	"gorm.io/gorm"
)

// SessionRepository handles focus session database operations. The store is
// authoritative for open-session uniqueness: clients may reconnect after a
// crash believing they are idle while an open row still exists.
type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (sr *SessionRepository) GetSession(id string) (*model.FocusSession, error) {
	var session model.FocusSession
	if err := sr.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// OpenSession returns the single open session for the pair, or
// shared.ErrNotRunning when there is none.
func (sr *SessionRepository) OpenSession(participantID, challengeID string) (*model.FocusSession, error) {
	var session model.FocusSession
	err := sr.db.
		Where("participant_id = ? AND challenge_id = ? AND end_time IS NULL", participantID, challengeID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotRunning
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// InsertOpenSession creates a new open session. It runs a transactional
// check-then-insert so two concurrent starts for the same pair yield exactly
// one open row; the loser gets shared.ErrAlreadyRunning.
func (sr *SessionRepository) InsertOpenSession(participantID, challengeID string, startTime time.Time) (*model.FocusSession, error) {
	id, _ := uuid.NewV7()
	session := &model.FocusSession{
		ID:            id.String(),
		ParticipantID: participantID,
		ChallengeID:   challengeID,
		StartTime:     startTime,
		IsActive:      true,
		CreatedAt:     startTime,
		UpdatedAt:     startTime,
	}

	err := sr.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.FocusSession{}).
			Where("participant_id = ? AND challenge_id = ? AND end_time IS NULL", participantID, challengeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrAlreadyRunning
		}
		return tx.Create(session).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// CloseSession closes an open session and accumulates its duration onto the
// participant's total in the same transaction, so concurrent stops close it
// exactly once and count its time exactly once. The losing racer gets
// shared.ErrNotRunning.
func (sr *SessionRepository) CloseSession(sessionID string, endTime time.Time, durationSeconds int64) error {
	return sr.db.Transaction(func(tx *gorm.DB) error {
		var session model.FocusSession
		if err := tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
			return err
		}

		res := tx.Model(&model.FocusSession{}).
			Where("id = ? AND end_time IS NULL", sessionID).
			Updates(map[string]interface{}{
				"end_time":         endTime,
				"duration_seconds": durationSeconds,
				"is_active":        false,
				"updated_at":       endTime,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotRunning
		}

		return tx.Model(&model.Participant{}).
			Where("id = ?", session.ParticipantID).
			Updates(map[string]interface{}{
				"total_focus_seconds": gorm.Expr("total_focus_seconds + ?", durationSeconds),
				"updated_at":          endTime,
			}).Error
	})
}

// QuerySessions returns open and closed sessions whose start or end falls
// on-or-after since. The filter is deliberately broad: a session that started
// before the window but is still open (or ended inside it) must be returned,
// and the precise overlap math happens in the aggregator.
func (sr *SessionRepository) QuerySessions(participantID, challengeID string, since time.Time) ([]model.FocusSession, error) {
	var sessions []model.FocusSession
	err := sr.db.
		Where("participant_id = ? AND challenge_id = ?", participantID, challengeID).
		Where("start_time >= ? OR end_time >= ? OR end_time IS NULL", since, since).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
