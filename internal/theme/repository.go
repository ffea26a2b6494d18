package theme

import (
	"context"

	"github.com/angelmondragon/deliverydash-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores the single storefront theme row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns gorm.ErrRecordNotFound when no theme has been saved.
func (r *Repository) Get(ctx context.Context) (*models.Theme, error) {
	var row models.Theme
	if err := r.db.WithContext(ctx).First(&row, "id = ?", models.ThemeRowID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save inserts or overwrites the theme row.
func (r *Repository) Save(ctx context.Context, row *models.Theme) error {
	row.ID = models.ThemeRowID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"logo_url", "primary_color", "secondary_color", "accent_color", "updated_at"}),
		}).
		Create(row).Error
}
