package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog/apierr"
	"catalog/models"
	"catalog/pagination"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ProductFilter narrows a product listing. Name and Description match any
// part of the value ignoring case; CountryCode and ManufacturerID match
// exactly. Empty fields do not filter.
type ProductFilter struct {
	Name           string
	Description    string
	CountryCode    string
	ManufacturerID string
	IssueDateOrder string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func contains(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (f ProductFilter) where(tx *gorm.DB) *gorm.DB {
	if f.Name != "" {
		tx = tx.Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, contains(f.Name))
	}
	if f.Description != "" {
		tx = tx.Where(`LOWER(products.description) LIKE ? ESCAPE '\'`, contains(f.Description))
	}
	if f.ManufacturerID != "" {
		tx = tx.Where("products.manufacturer_id = ?", f.ManufacturerID)
	}
	if f.CountryCode != "" {
		sub := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.Manufacturer{}).
			Select("id").
			Where("country_code = ?", f.CountryCode)
		tx = tx.Where("products.manufacturer_id IN (?)", sub)
	}
	return tx
}

func (f ProductFilter) order(tx *gorm.DB) *gorm.DB {
	switch strings.ToLower(f.IssueDateOrder) {
	case OrderAsc:
		return tx.Order("products.issue_date ASC").Order("products.id ASC")
	case OrderDesc:
		return tx.Order("products.issue_date DESC").Order("products.id ASC")
	}
	return tx.Order("products.id ASC")
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Get loads a product with its manufacturer.
func (r *ProductRepository) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).Preload("Manufacturer").First(&p, id).Error; err != nil {
		return nil, translate(err, "")
	}
	return &p, nil
}

// List returns one page of the filtered products and the size of the whole
// filtered set. A page past the end is an error.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter, page pagination.Page) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(f.where).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	if err := page.Check(total); err != nil {
		return nil, total, err
	}

	var products []models.Product
	err := r.db.WithContext(ctx).
		Scopes(f.where, f.order).
		Preload("Manufacturer").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&products).Error
	if err != nil {
		return nil, 0, translate(err, "")
	}
	return products, total, nil
}

// Create inserts p and links it to its manufacturer in one transaction.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := attachManufacturer(tx, p); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Create(p).Error, "manufacturer")
	})
}

// Replace overwrites every attribute of p except its identity and owner.
func (r *ProductRepository) Replace(ctx context.Context, p *models.Product) error {
	return r.save(ctx, p, func(tx *gorm.DB) *gorm.DB {
		return tx.Select("*").Omit(clause.Associations, "ID", "CreatedAt", "OwnerID")
	})
}

// Update writes only the given columns of p.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	return r.save(ctx, p, func(tx *gorm.DB) *gorm.DB {
		return tx.Select(columns)
	})
}

func (r *ProductRepository) save(ctx context.Context, p *models.Product, fields func(*gorm.DB) *gorm.DB) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := attachManufacturer(tx, p); err != nil {
			return err
		}
		res := fields(tx.Model(p)).Updates(p)
		if res.Error != nil {
			return translate(res.Error, "manufacturer")
		}
		if res.RowsAffected == 0 {
			return apierr.NotFound(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return translate(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound(gorm.ErrRecordNotFound)
	}
	return nil
}

// attachManufacturer resolves the manufacturer p refers to and joins p to its
// collection so both sides agree before the row is written.
func attachManufacturer(tx *gorm.DB, p *models.Product) error {
	if p.ManufacturerID == nil {
		p.Manufacturer = nil
		return nil
	}
	id := *p.ManufacturerID
	var m models.Manufacturer
	if err := tx.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return manufacturerNotFound(id)
		}
		return translate(err, "manufacturer")
	}
	m.AddProduct(p)
	return nil
}
