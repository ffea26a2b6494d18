package models

import "time"

// ThemeRowID is the primary key of the single storefront theme row.
const ThemeRowID = 1

type Theme struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	LogoURL        string    `gorm:"column:logo_url;not null;default:''"`
	PrimaryColor   string    `gorm:"column:primary_color;not null"`
	SecondaryColor string    `gorm:"column:secondary_color;not null"`
	AccentColor    string    `gorm:"column:accent_color;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
