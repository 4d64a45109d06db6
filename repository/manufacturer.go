package repository

import (
	"context"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog/apierr"
	"catalog/models"
	"catalog/pagination"
)

type ManufacturerRepository struct {
	db *gorm.DB
}

func NewManufacturerRepository(db *gorm.DB) *ManufacturerRepository {
	return &ManufacturerRepository{db: db}
}

func preloadProducts(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Order("products.id ASC")
	})
}

// Get loads a manufacturer with its products.
func (r *ManufacturerRepository) Get(ctx context.Context, id uint) (*models.Manufacturer, error) {
	var m models.Manufacturer
	if err := r.db.WithContext(ctx).Scopes(preloadProducts).First(&m, id).Error; err != nil {
		return nil, translate(err, "")
	}
	return &m, nil
}

// Exists fails with NotFound when no manufacturer has id.
func (r *ManufacturerRepository) Exists(ctx context.Context, id uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Manufacturer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(err, "")
	}
	if count == 0 {
		return apierr.NotFound(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *ManufacturerRepository) List(ctx context.Context, page pagination.Page) ([]models.Manufacturer, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Manufacturer{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "")
	}
	if err := page.Check(total); err != nil {
		return nil, total, err
	}

	var manufacturers []models.Manufacturer
	err := r.db.WithContext(ctx).
		Scopes(preloadProducts).
		Order("manufacturers.id ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&manufacturers).Error
	if err != nil {
		return nil, 0, translate(err, "")
	}
	return manufacturers, total, nil
}

func (r *ManufacturerRepository) Create(ctx context.Context, m *models.Manufacturer) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error, "")
}

// Replace overwrites every attribute of m except its identity.
func (r *ManufacturerRepository) Replace(ctx context.Context, m *models.Manufacturer) error {
	res := r.db.WithContext(ctx).Model(m).
		Select("*").
		Omit(clause.Associations, "ID", "CreatedAt").
		Updates(m)
	return checkUpdated(res)
}

// Update writes only the given columns of m.
func (r *ManufacturerRepository) Update(ctx context.Context, m *models.Manufacturer, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	return checkUpdated(r.db.WithContext(ctx).Model(m).Select(columns).Updates(m))
}

// Delete detaches every product from the manufacturer and removes it, all in
// one transaction.
func (r *ManufacturerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Manufacturer
		if err := tx.Scopes(preloadProducts).First(&m, id).Error; err != nil {
			return translate(err, "")
		}
		for _, p := range slices.Clone(m.Products) {
			m.RemoveProduct(p)
			if err := tx.Model(p).Select("ManufacturerID").Updates(p).Error; err != nil {
				return translate(err, "")
			}
		}
		return translate(tx.Delete(&m).Error, "")
	})
}

func checkUpdated(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound(gorm.ErrRecordNotFound)
	}
	return nil
}
