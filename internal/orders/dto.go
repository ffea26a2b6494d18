package orders

import (
	"errors"
	"time"

	"github.com/angelmondragon/deliverydash-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	"github.com/angelmondragon/deliverydash-backend/pkg/pagination"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errInvalidCursor = errors.New("invalid cursor")

// OrderDTO is the API projection of an order.
type OrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Total     decimal.Decimal   `json:"total"`
	Status    enums.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Customer  *CustomerSummary  `json:"customer,omitempty"`
	Items     []OrderItemDTO    `json:"items"`
}

// CustomerSummary carries the delivery details admins need to fulfil an order.
type CustomerSummary struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type OrderItemDTO struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Customizations types.Selection `json:"customizations"`
}

// OrderList is a page of orders, newest first.
type OrderList = pagination.Page[OrderDTO]

// orderEvent is the Pub/Sub payload for order.created and order.status_changed.
type orderEvent struct {
	OrderID    uuid.UUID         `json:"order_id"`
	UserID     uuid.UUID         `json:"user_id"`
	Total      decimal.Decimal   `json:"total"`
	Status     enums.OrderStatus `json:"status"`
	ItemCount  int               `json:"item_count"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func toOrderDTO(m models.Order) OrderDTO {
	dto := OrderDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		Total:     m.Total,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		Items:     make([]OrderItemDTO, 0, len(m.Items)),
	}
	if m.User != nil {
		dto.Customer = &CustomerSummary{
			Name:    m.User.Name,
			Email:   m.User.Email,
			Address: m.User.Address,
			Phone:   m.User.Phone,
		}
	}
	for _, item := range m.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Customizations: item.Customizations,
		})
	}
	return dto
}

func toOrderList(rows []models.Order, limit int) *OrderList {
	page := pagination.Slice(rows, limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	list := &OrderList{Items: make([]OrderDTO, 0, len(page.Items)), NextCursor: page.NextCursor}
	for _, row := range page.Items {
		list.Items = append(list.Items, toOrderDTO(row))
	}
	return list
}

func newOrderEvent(m models.Order, at time.Time) orderEvent {
	count := 0
	for _, item := range m.Items {
		count += item.Quantity
	}
	return orderEvent{
		OrderID:    m.ID,
		UserID:     m.UserID,
		Total:      m.Total,
		Status:     m.Status,
		ItemCount:  count,
		OccurredAt: at.UTC(),
	}
}
