package models

import "time"

type Manufacturer struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `json:"name" validate:"notblank"`
	Description string     `json:"description" validate:"notblank"`
	CountryCode string     `gorm:"size:3" json:"countryCode" validate:"notblank,max=3"`
	ListedDate  *time.Time `json:"listedDate"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"-"`
	Products    []*Product `gorm:"foreignKey:ManufacturerID;constraint:OnDelete:SET NULL" json:"products" validate:"-"`
}

// AddProduct puts p in the manufacturer's collection and points p back at m.
// Adding a product that is already present does nothing.
func (m *Manufacturer) AddProduct(p *Product) *Manufacturer {
	if m.indexOf(p) >= 0 {
		return m
	}
	m.Products = append(m.Products, p)
	p.Manufacturer = m
	p.ManufacturerID = m.idRef()
	return m
}

// RemoveProduct takes p out of the collection. The product's manufacturer
// reference is cleared only if it still points at m.
func (m *Manufacturer) RemoveProduct(p *Product) *Manufacturer {
	i := m.indexOf(p)
	if i < 0 {
		return m
	}
	m.Products = append(m.Products[:i], m.Products[i+1:]...)
	if p.BelongsTo(m) {
		p.Manufacturer = nil
		p.ManufacturerID = nil
	}
	return m
}

// HasProduct reports whether p is part of the collection.
func (m *Manufacturer) HasProduct(p *Product) bool {
	return m.indexOf(p) >= 0
}

func (m *Manufacturer) indexOf(p *Product) int {
	for i, existing := range m.Products {
		if existing == p || (existing.ID != 0 && existing.ID == p.ID) {
			return i
		}
	}
	return -1
}

func (m *Manufacturer) idRef() *uint {
	if m.ID == 0 {
		return nil
	}
	id := m.ID
	return &id
}
