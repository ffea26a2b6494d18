package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name                string               `gorm:"column:name;not null"`
	Description         string               `gorm:"column:description;not null;default:''"`
	BasePrice           decimal.Decimal      `gorm:"column:base_price;type:numeric(10,2);not null"`
	ImageURL            string               `gorm:"column:image_url;not null;default:''"`
	Category            string               `gorm:"column:category;not null;default:''"`
	CustomizationGroups []CustomizationGroup `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// CustomizationGroup belongs to a product; Position orders groups for display.
type CustomizationGroup struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	ProductID     uuid.UUID             `gorm:"column:product_id;type:uuid;not null;index"`
	Name          string                `gorm:"column:name;not null"`
	Required      bool                  `gorm:"column:required;not null;default:false"`
	Multiple      bool                  `gorm:"column:multiple;not null;default:false"`
	MaxSelections *int                  `gorm:"column:max_selections"`
	Position      int                   `gorm:"column:position;not null;default:0"`
	Options       []CustomizationOption `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (g *CustomizationGroup) BeforeCreate(*gorm.DB) error {
	assignID(&g.ID)
	return nil
}

type CustomizationOption struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	GroupID   uuid.UUID       `gorm:"column:group_id;type:uuid;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	Position  int             `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (o *CustomizationOption) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}
