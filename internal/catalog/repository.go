package catalog

import (
	"context"

	"github.com/angelmondragon/deliverydash-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists products with their customization groups and options.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) withCustomizations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("CustomizationGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("CustomizationGroups.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// ListProducts returns every product ordered by category then name.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.withCustomizations(ctx).Order("category ASC").Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns gorm.ErrRecordNotFound when the product does not exist.
func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.withCustomizations(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts the product together with its groups and options.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateProductFields writes the scalar columns and reports whether a row matched.
func (r *Repository) UpdateProductFields(ctx context.Context, product *models.Product) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("name", "description", "base_price", "image_url", "category").
		Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"base_price":  product.BasePrice,
			"image_url":   product.ImageURL,
			"category":    product.Category,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReplaceCustomizations drops every group of the product and inserts groups in their place.
func (r *Repository) ReplaceCustomizations(ctx context.Context, productID uuid.UUID, groups []models.CustomizationGroup) error {
	if err := r.deleteCustomizations(ctx, productID); err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}
	for i := range groups {
		groups[i].ProductID = productID
	}
	return r.db.WithContext(ctx).Create(&groups).Error
}

// DeleteProduct removes the product and its customizations; false when nothing matched.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := r.deleteCustomizations(ctx, id); err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) deleteCustomizations(ctx context.Context, productID uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	groupIDs := tx.Model(&models.CustomizationGroup{}).Select("id").Where("product_id = ?", productID)
	if err := tx.Where("group_id IN (?)", groupIDs).Delete(&models.CustomizationOption{}).Error; err != nil {
		return err
	}
	return tx.Where("product_id = ?", productID).Delete(&models.CustomizationGroup{}).Error
}
