package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/lockedin-labs/lockin_api/model"
	"github.com/lockedin-labs/lockin_api/shared"
	"gorm.io/gorm"
)

type ChallengeRepository struct {
	BaseRepository
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (cr *ChallengeRepository) CreateChallenge(challenge *model.Challenge) (*model.Challenge, error) {
	id, _ := uuid.NewV7()
	challenge.ID = id.String()
	if challenge.InviteCode == "" {
		challenge.InviteCode = uuid.NewString()
	}
	if err := cr.db.Create(challenge).Error; err != nil {
		return nil, err
	}
	return challenge, nil
}

func (cr *ChallengeRepository) GetChallenge(id string) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := cr.db.Where("id = ?", id).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (cr *ChallengeRepository) GetChallengeByInviteCode(inviteCode string) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := cr.db.Where("invite_code = ?", inviteCode).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (cr *ChallengeRepository) UpdateStatus(id, status string) error {
	return cr.db.Model(&model.Challenge{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// DueForActivation returns pending challenges whose start date has passed.
func (cr *ChallengeRepository) DueForActivation(now time.Time) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := cr.db.
		Where("status = ? AND start_date <= ?", shared.ChallengeStatusPending, now).
		Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

// DueForCompletion returns active challenges whose end date has passed.
func (cr *ChallengeRepository) DueForCompletion(now time.Time) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := cr.db.
		Where("status = ? AND end_date <= ?", shared.ChallengeStatusActive, now).
		Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}
