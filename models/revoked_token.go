package models

import "time"

// RevokedToken blacklists a refresh token by its jti after logout.
// Rows past ExpiresAt are dead weight only; the token they name can no
// longer verify anyway.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"`
	JTI       string    `gorm:"size:40;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}
