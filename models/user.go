package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password  string     `gorm:"not null" json:"-"`
	Roles     []string   `gorm:"type:text;serializer:json" json:"roles"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
	Products  []Product  `gorm:"foreignKey:OwnerID" json:"-" validate:"-"`
	ApiTokens []ApiToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

// SetPassword stores a bcrypt hash of plain.
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares plain against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// GrantedRoles returns the stored roles plus the ones they imply.
// Every user holds ROLE_USER.
func (u *User) GrantedRoles() []string {
	granted := []string{RoleUser}
	seen := map[string]bool{RoleUser: true}
	for _, r := range u.Roles {
		if !seen[r] {
			seen[r] = true
			granted = append(granted, r)
		}
	}
	return granted
}
