package seeders

import (
	"errors"
	"log"
	"time"

	"github.com/lockedin-labs/lockin_api/model"
	"gorm.io/gorm"
)

// UserSeeder handles seeding demo users
type UserSeeder struct {
	db *gorm.DB
}

// NewUserSeeder creates a new user seeder
func NewUserSeeder(db *gorm.DB) *UserSeeder {
	return &UserSeeder{db: db}
}

// SeedUsers seeds the database with demo users
func (s *UserSeeder) SeedUsers() error {
	users := s.getDemoUsers()

	for _, user := range users {
		var existing model.User
		if err := s.db.Where("id = ?", user.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := s.db.Create(&user).Error; err != nil {
					log.Printf("Error creating user %s: %v", user.Username, err)
					return err
				}
				log.Printf("Created user: %s", user.Username)
			} else {
				log.Printf("Error checking user %s: %v", user.Username, err)
				return err
			}
		} else {
			log.Printf("User %s already exists, skipping", user.Username)
		}
	}

	log.Println("User seeding completed successfully")
	return nil
}

func (s *UserSeeder) getDemoUsers() []model.User {
	now := time.Now()

	return []model.User{
		{
			ID:            "user_alice",
			WalletAddress: strPtr("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"),
			Username:      "alice",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            "user_bob",
			WalletAddress: strPtr("4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"),
			Username:      "bob",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            "user_carol",
			WalletAddress: strPtr("7S3P4HxJpyyigGzodYwHtCxZyUQe9JiBMHyRWXArAaKv"),
			Username:      "carol",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            "user_dave",
			WalletAddress: strPtr("2q7pyhPwAwZ3QMfZrnAbDhnh9mDUqycszcpf86VgQxhF"),
			Username:      "dave",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}

func strPtr(s string) *string {
	return &s
}
