package users

import (
	"strings"
	"time"

	"github.com/angelmondragon/deliverydash-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateUserDTO carries the fields required to persist a new account.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Address      string
	Phone        string
	Role         enums.UserRole
}

// ToModel normalizes the email and defaults the role to customer.
func (d CreateUserDTO) ToModel() *models.User {
	role := d.Role
	if !role.IsValid() {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Email:        NormalizeEmail(d.Email),
		PasswordHash: d.PasswordHash,
		Name:         strings.TrimSpace(d.Name),
		Address:      strings.TrimSpace(d.Address),
		Phone:        strings.TrimSpace(d.Phone),
		Role:         role,
	}
}

// NormalizeEmail lowercases and trims an email for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserDTO is the public projection of a user; it never carries the password hash.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Address   string         `json:"address"`
	Phone     string         `json:"phone"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}

// UserWithOrders is the admin list projection.
type UserWithOrders struct {
	UserDTO
	Orders []OrderSummary `json:"orders"`
}

type OrderSummary struct {
	ID        uuid.UUID         `json:"id"`
	Total     decimal.Decimal   `json:"total"`
	Status    enums.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

func FromModel(m *models.User) UserDTO {
	return UserDTO{
		ID:        m.ID,
		Email:     m.Email,
		Name:      m.Name,
		Address:   m.Address,
		Phone:     m.Phone,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

func withOrders(m *models.User) UserWithOrders {
	out := UserWithOrders{UserDTO: FromModel(m), Orders: make([]OrderSummary, 0, len(m.Orders))}
	for _, o := range m.Orders {
		out.Orders = append(out.Orders, OrderSummary{ID: o.ID, Total: o.Total, Status: o.Status, CreatedAt: o.CreatedAt})
	}
	return out
}
