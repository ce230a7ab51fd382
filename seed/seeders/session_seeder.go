package seeders

import (
	"errors"
	"log"
	"time"

	"github.com/lockedin-labs/lockin_api/model"
	"gorm.io/gorm"
)

// SessionSeeder handles seeding closed focus sessions for the demo challenge
type SessionSeeder struct {
	db *gorm.DB
}

// NewSessionSeeder creates a new session seeder
func NewSessionSeeder(db *gorm.DB) *SessionSeeder {
	return &SessionSeeder{db: db}
}

// SeedSessions seeds closed focus sessions and rolls their durations up into
// the participant totals, mirroring what the close path does at runtime.
func (s *SessionSeeder) SeedSessions() error {
	sessions := s.getSessions()

	for _, session := range sessions {
		var existing model.FocusSession
		if err := s.db.Where("id = ?", session.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := s.createWithTotal(&session); err != nil {
					log.Printf("Error creating session %s: %v", session.ID, err)
					return err
				}
				log.Printf("Created session: %s (%ds)", session.ID, session.DurationSeconds)
			} else {
				return err
			}
		} else {
			log.Printf("Session %s already exists, skipping", session.ID)
		}
	}

	log.Println("Session seeding completed successfully")
	return nil
}

func (s *SessionSeeder) createWithTotal(session *model.FocusSession) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		return tx.Model(&model.Participant{}).
			Where("id = ?", session.ParticipantID).
			UpdateColumn("total_focus_seconds", gorm.Expr("total_focus_seconds + ?", session.DurationSeconds)).
			Error
	})
}

func (s *SessionSeeder) getSessions() []model.FocusSession {
	now := time.Now()

	closed := func(id, participantID string, start time.Time, duration time.Duration) model.FocusSession {
		end := start.Add(duration)
		return model.FocusSession{
			ID:              id,
			ParticipantID:   participantID,
			ChallengeID:     "chal_deep_work_week",
			StartTime:       start,
			EndTime:         &end,
			DurationSeconds: int64(duration.Seconds()),
			IsActive:        false,
			CreatedAt:       start,
			UpdatedAt:       end,
		}
	}

	yesterday := now.AddDate(0, 0, -1)

	return []model.FocusSession{
		closed("sess_alice_1", "part_alice_deep_work", yesterday.Add(-8*time.Hour), 50*time.Minute),
		closed("sess_alice_2", "part_alice_deep_work", yesterday.Add(-5*time.Hour), 90*time.Minute),
		closed("sess_bob_1", "part_bob_deep_work", yesterday.Add(-7*time.Hour), 2*time.Hour),
		closed("sess_carol_1", "part_carol_deep_work", yesterday.Add(-6*time.Hour), 25*time.Minute),
		closed("sess_carol_2", "part_carol_deep_work", now.Add(-3*time.Hour), 45*time.Minute),
	}
}
