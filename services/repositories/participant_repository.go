package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/lockedin-labs/lockin_api/model"
	"github.com/lockedin-labs/lockin_api/shared"
	"gorm.io/gorm"
)

// ParticipantRepository handles the participant directory: identity plus the
// per-challenge cumulative focus counter.
type ParticipantRepository struct {
	BaseRepository
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (pr *ParticipantRepository) GetParticipant(userID, challengeID string) (*model.Participant, error) {
	var participant model.Participant
	err := pr.db.
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (pr *ParticipantRepository) GetParticipantByID(id string) (*model.Participant, error) {
	var participant model.Participant
	if err := pr.db.Where("id = ?", id).First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (pr *ParticipantRepository) CreateParticipant(userID, challengeID string, joinedAt time.Time) (*model.Participant, error) {
	id, _ := uuid.NewV7()
	participant := &model.Participant{
		ID:          id.String(),
		UserID:      userID,
		ChallengeID: challengeID,
		JoinedAt:    joinedAt,
		StakeStatus: shared.StakeStatusPending,
		CreatedAt:   joinedAt,
		UpdatedAt:   joinedAt,
	}
	if err := pr.db.Create(participant).Error; err != nil {
		return nil, err
	}
	return participant, nil
}

// IncrementTotalFocus atomically adds deltaSeconds to the cumulative counter.
// All writers go through this additive update; the counter never goes through
// a read-modify-write cycle in application code.
func (pr *ParticipantRepository) IncrementTotalFocus(participantID string, deltaSeconds int64) error {
	return pr.db.Model(&model.Participant{}).
		Where("id = ?", participantID).
		Updates(map[string]interface{}{
			"total_focus_seconds": gorm.Expr("total_focus_seconds + ?", deltaSeconds),
			"updated_at":          time.Now(),
		}).Error
}

func (pr *ParticipantRepository) ListByChallenge(challengeID string) ([]model.Participant, error) {
	var participants []model.Participant
	err := pr.db.
		Where("challenge_id = ?", challengeID).
		Order("total_focus_seconds DESC, joined_at ASC, id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// SetFinalRank persists the computed rank at challenge completion. Ordinary
// leaderboard reads never write ranks.
func (pr *ParticipantRepository) SetFinalRank(participantID string, rank int, isWinner bool) error {
	return pr.db.Model(&model.Participant{}).
		Where("id = ?", participantID).
		Updates(map[string]interface{}{
			"rank":       rank,
			"is_winner":  isWinner,
			"updated_at": time.Now(),
		}).Error
}
