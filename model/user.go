package model

import "time"

type User struct {
	ID            string    `gorm:"primaryKey"`
	WalletAddress *string   `gorm:"uniqueIndex"`
	Username      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
