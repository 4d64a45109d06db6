package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"catalog/apierr"
	"catalog/models"
)

// tokenBytes is the entropy of an issued token; its hex form is twice as long.
const tokenBytes = 64

type UserRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, "email")
}

// IssueToken creates a new credential for the user and returns it. Only its
// hash is kept, so the value cannot be recovered later. A ttl of zero never
// expires.
func (r *UserRepository) IssueToken(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	record := models.ApiToken{TokenHash: models.HashToken(token), UserID: userID}
	if ttl > 0 {
		expires := r.now().Add(ttl)
		record.ExpiresAt = &expires
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", translate(err, "user")
	}
	return token, nil
}

// Authenticate resolves the user a token belongs to. Unknown and expired
// tokens both fail with an authentication error.
func (r *UserRepository) Authenticate(ctx context.Context, token string) (*models.User, error) {
	var record models.ApiToken
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("token_hash = ?", models.HashToken(token)).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.Unauthenticated()
	}
	if err != nil {
		return nil, translate(err, "")
	}
	if record.Expired(r.now()) || record.User == nil {
		return nil, apierr.Unauthenticated()
	}
	return record.User, nil
}
