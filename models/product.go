package models

import "time"

type Product struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Name           *string       `json:"name"`
	Description    *string       `json:"description"`
	IssueDate      *time.Time    `json:"issueDate"`
	ManufacturerID *uint         `gorm:"index" json:"-"`
	Manufacturer   *Manufacturer `gorm:"foreignKey:ManufacturerID" json:"manufacturer" validate:"-"`
	OwnerID        *uint         `gorm:"index" json:"-"`
	Owner          *User         `gorm:"foreignKey:OwnerID" json:"-" validate:"-"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"-"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"-"`
}

// BelongsTo reports whether the product's manufacturer reference points at m.
func (p *Product) BelongsTo(m *Manufacturer) bool {
	if p.Manufacturer != nil {
		return p.Manufacturer == m || (m.ID != 0 && p.Manufacturer.ID == m.ID)
	}
	return p.ManufacturerID != nil && m.ID != 0 && *p.ManufacturerID == m.ID
}

// OwnedBy reports whether userID is the product's owner.
func (p *Product) OwnedBy(userID uint) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}
