// Package fixtures seeds a database with users, tokens, manufacturers and
// products.
package fixtures

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog/models"
	"catalog/repository"
)

const (
	ManufacturerCount = 10
	ProductCount      = 90
)

var countryCodes = []string{"US", "DE", "JP", "FR", "GB"}

// Set is what Load wrote. Tokens are only available here.
type Set struct {
	Admin      *models.User
	AdminToken string
	// Editor is an admin that owns no products.
	Editor      *models.User
	EditorToken string
	User        *models.User
	UserToken   string

	Manufacturers []models.Manufacturer
	Products      []models.Product
}

// Load writes the fixture set. Every product is owned by Admin and product i
// (1-based) belongs to manufacturer (i-1)%10.
func Load(ctx context.Context, db *gorm.DB, tokenTTL time.Duration) (*Set, error) {
	users := repository.NewUserRepository(db)
	set := &Set{}

	var err error
	if set.Admin, set.AdminToken, err = seedUser(ctx, users, "admin@example.com", tokenTTL, models.RoleAdmin); err != nil {
		return nil, err
	}
	if set.Editor, set.EditorToken, err = seedUser(ctx, users, "editor@example.com", tokenTTL, models.RoleAdmin); err != nil {
		return nil, err
	}
	if set.User, set.UserToken, err = seedUser(ctx, users, "user@example.com", tokenTTL); err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		set.Manufacturers = make([]models.Manufacturer, ManufacturerCount)
		for i := range set.Manufacturers {
			listed := time.Date(1990+i, time.January, 1, 0, 0, 0, 0, time.UTC)
			set.Manufacturers[i] = models.Manufacturer{
				Name:        fmt.Sprintf("Manufacturer %02d", i+1),
				Description: fmt.Sprintf("Maker of catalog line %02d", i+1),
				CountryCode: countryCodes[i%len(countryCodes)],
				ListedDate:  &listed,
			}
		}
		if err := tx.Create(&set.Manufacturers).Error; err != nil {
			return fmt.Errorf("seed manufacturers: %w", err)
		}

		set.Products = make([]models.Product, ProductCount)
		base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
		for i := range set.Products {
			name := fmt.Sprintf("Product %02d", i+1)
			description := fmt.Sprintf("Fixture product number %d", i+1)
			issued := base.AddDate(0, 0, i)
			p := &set.Products[i]
			p.Name, p.Description, p.IssueDate = &name, &description, &issued
			p.OwnerID = &set.Admin.ID
			set.Manufacturers[i%ManufacturerCount].AddProduct(p)
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(&set.Products, 30).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func seedUser(ctx context.Context, users *repository.UserRepository, email string, ttl time.Duration, roles ...string) (*models.User, string, error) {
	u := &models.User{Email: email, Roles: roles}
	if err := u.SetPassword("secret-" + email); err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, "", fmt.Errorf("seed user %s: %w", email, err)
	}
	token, err := users.IssueToken(ctx, u.ID, ttl)
	if err != nil {
		return nil, "", fmt.Errorf("issue token for %s: %w", email, err)
	}
	return u, token, nil
}
