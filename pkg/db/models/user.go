package models

import (
	"time"

	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a storefront account. Admins share the table and differ by role.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email        string         `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;not null"`
	Address      string         `gorm:"column:address;not null;default:''"`
	Phone        string         `gorm:"column:phone;not null;default:''"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	Orders       []Order        `gorm:"foreignKey:UserID"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}
