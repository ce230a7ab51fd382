package seeders

import (
	"errors"
	"log"
	"time"

	"github.com/lockedin-labs/lockin_api/model"
	"github.com/lockedin-labs/lockin_api/shared"
	"gorm.io/gorm"
)

// ChallengeSeeder handles seeding demo challenges and their participants
type ChallengeSeeder struct {
	db *gorm.DB
}

// NewChallengeSeeder creates a new challenge seeder
func NewChallengeSeeder(db *gorm.DB) *ChallengeSeeder {
	return &ChallengeSeeder{db: db}
}

// SeedChallenges seeds a demo challenge with every demo user joined
func (s *ChallengeSeeder) SeedChallenges() error {
	now := time.Now()

	challenges := []model.Challenge{
		{
			ID:           "chal_deep_work_week",
			CreatorID:    "user_alice",
			Title:        "Deep Work Week",
			Description:  "Seven days of staked focus. Most focused participant takes the pot.",
			Status:       shared.ChallengeStatusActive,
			StartDate:    now.AddDate(0, 0, -2),
			EndDate:      now.AddDate(0, 0, 5),
			DurationDays: 7,
			StakeAmount:  0.5,
			InviteCode:   "0d9e6c9a-55e1-4b2d-9f13-3f6a61a45b11",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "chal_morning_sprint",
			CreatorID:    "user_bob",
			Title:        "Morning Sprint",
			Description:  "Three day early-morning focus sprint.",
			Status:       shared.ChallengeStatusPending,
			StartDate:    now.AddDate(0, 0, 1),
			EndDate:      now.AddDate(0, 0, 4),
			DurationDays: 3,
			StakeAmount:  0.25,
			InviteCode:   "7b4f2c1e-8a3d-4e5f-b6c7-d8e9f0a1b2c3",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	for _, challenge := range challenges {
		if err := s.createIfMissing(&challenge); err != nil {
			return err
		}
	}

	participants := s.getParticipants(now)
	for _, participant := range participants {
		var existing model.Participant
		err := s.db.Where("user_id = ? AND challenge_id = ?", participant.UserID, participant.ChallengeID).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := s.db.Create(&participant).Error; err != nil {
					log.Printf("Error creating participant %s: %v", participant.ID, err)
					return err
				}
				log.Printf("Created participant: %s", participant.ID)
			} else {
				return err
			}
		} else {
			log.Printf("Participant %s already exists, skipping", participant.ID)
		}
	}

	log.Println("Challenge seeding completed successfully")
	return nil
}

func (s *ChallengeSeeder) createIfMissing(challenge *model.Challenge) error {
	var existing model.Challenge
	if err := s.db.Where("id = ?", challenge.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.Create(challenge).Error; err != nil {
				log.Printf("Error creating challenge %s: %v", challenge.Title, err)
				return err
			}
			log.Printf("Created challenge: %s", challenge.Title)
			return nil
		}
		return err
	}

	log.Printf("Challenge %s already exists, skipping", challenge.Title)
	return nil
}

func (s *ChallengeSeeder) getParticipants(now time.Time) []model.Participant {
	joined := now.AddDate(0, 0, -2)

	return []model.Participant{
		{
			ID:          "part_alice_deep_work",
			UserID:      "user_alice",
			ChallengeID: "chal_deep_work_week",
			JoinedAt:    joined,
			StakeStatus: shared.StakeStatusStaked,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "part_bob_deep_work",
			UserID:      "user_bob",
			ChallengeID: "chal_deep_work_week",
			JoinedAt:    joined.Add(30 * time.Minute),
			StakeStatus: shared.StakeStatusStaked,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "part_carol_deep_work",
			UserID:      "user_carol",
			ChallengeID: "chal_deep_work_week",
			JoinedAt:    joined.Add(2 * time.Hour),
			StakeStatus: shared.StakeStatusStaked,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "part_bob_morning",
			UserID:      "user_bob",
			ChallengeID: "chal_morning_sprint",
			JoinedAt:    now,
			StakeStatus: shared.StakeStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
