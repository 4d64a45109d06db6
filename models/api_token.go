package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ApiToken binds an opaque credential to exactly one user. Only the
// SHA-256 of the credential is stored.
type ApiToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TokenHash string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	UserID    uint       `gorm:"not null;index" json:"-"`
	User      *User      `gorm:"foreignKey:UserID" json:"-" validate:"-"`
	ExpiresAt *time.Time `json:"expiresAt"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"-"`
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Expired reports whether the token can no longer authenticate at now.
func (t *ApiToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
