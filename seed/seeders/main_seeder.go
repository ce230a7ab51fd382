package seeders

import (
	"log"

	"github.com/lockedin-labs/lockin_api/model"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.migrate(); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	// 1. Seed users first (no dependencies)
	userSeeder := NewUserSeeder(s.db)
	if err := userSeeder.SeedUsers(); err != nil {
		log.Printf("User seeding failed: %v", err)
		return err
	}

	// 2. Seed challenges and participants (depends on users)
	challengeSeeder := NewChallengeSeeder(s.db)
	if err := challengeSeeder.SeedChallenges(); err != nil {
		log.Printf("Challenge seeding failed: %v", err)
		return err
	}

	// 3. Seed focus sessions (depends on participants)
	sessionSeeder := NewSessionSeeder(s.db)
	if err := sessionSeeder.SeedSessions(); err != nil {
		log.Printf("Session seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) migrate() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.Participant{},
		&model.FocusSession{},
	)
}

// SeedUsersOnly seeds only users
func (s *MainSeeder) SeedUsersOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	userSeeder := NewUserSeeder(s.db)
	return userSeeder.SeedUsers()
}

// SeedChallengesOnly seeds only challenges and participants
func (s *MainSeeder) SeedChallengesOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	challengeSeeder := NewChallengeSeeder(s.db)
	return challengeSeeder.SeedChallenges()
}

// SeedSessionsOnly seeds only focus sessions
func (s *MainSeeder) SeedSessionsOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	sessionSeeder := NewSessionSeeder(s.db)
	return sessionSeeder.SeedSessions()
}
