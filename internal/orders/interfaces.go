package orders

import (
	"context"

	"github.com/angelmondragon/deliverydash-backend/internal/cart"
	"github.com/angelmondragon/deliverydash-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	"github.com/angelmondragon/deliverydash-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, params pagination.Params) ([]models.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (bool, error)
}

// Publisher emits order events. Implemented by the Pub/Sub topic publisher.
type Publisher interface {
	Publish(ctx context.Context, eventType enums.OrderEventType, key string, payload any) error
}

type cartSource interface {
	Load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}
