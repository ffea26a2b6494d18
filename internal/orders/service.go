package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/deliverydash-backend/pkg/db"
	"github.com/angelmondragon/deliverydash-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	"github.com/angelmondragon/deliverydash-backend/pkg/metrics"
	"github.com/angelmondragon/deliverydash-backend/pkg/pagination"
	"github.com/angelmondragon/deliverydash-backend/pkg/pubsub"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service handles checkout and order management.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error)
}

// ServiceParams groups the collaborators of the orders service.
type ServiceParams struct {
	Repo      Repository
	DB        *db.Client
	Carts     cartSource
	Publisher Publisher
	Metrics   *metrics.StorefrontMetrics
	Logger    *logger.Logger
}

type service struct {
	repo      Repository
	db        *db.Client
	carts     cartSource
	publisher Publisher
	metrics   *metrics.StorefrontMetrics
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if p.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if p.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	publisher := p.Publisher
	if publisher == nil {
		publisher = pubsub.NoopPublisher{}
	}
	return &service{
		repo:      p.Repo,
		db:        p.DB,
		carts:     p.Carts,
		publisher: publisher,
		metrics:   p.Metrics,
		logg:      p.Logger,
		now:       time.Now,
	}, nil
}

// Checkout turns the user's cart into a pending order. The cart is only cleared
// after the order and its items are committed.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*OrderDTO, error) {
	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := c.Items()
	order := &models.Order{
		UserID:    userID,
		Total:     c.Total(),
		Status:    enums.OrderStatusPending,
		CreatedAt: s.now().UTC(),
		Items:     make([]models.OrderItem, 0, len(lines)),
	}
	for i, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      line.Product.ID,
			ProductName:    line.Product.Name,
			Quantity:       line.Quantity,
			Customizations: line.Selection.Clone(),
			UnitPrice:      line.UnitPrice,
			Position:       i,
		})
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateOrder(ctx, order)
	})
	if err != nil {
		s.metrics.ObserveCheckout(false, order.Total)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	s.metrics.ObserveCheckout(true, order.Total)

	ctx = s.logg.WithOrderID(s.logg.WithUserID(ctx, userID.String()), order.ID.String())
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logg.Error(ctx, "order placed but cart was not cleared", err)
	}
	s.logg.Info(ctx, "order placed")

	s.publish(ctx, enums.OrderEventCreated, *order)
	dto := toOrderDTO(*order)
	return &dto, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error) {
	rows, err := s.repo.ListOrders(ctx, params)
	if err != nil {
		return nil, mapListError(err)
	}
	return toOrderList(rows, params.Limit), nil
}

func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	rows, err := s.repo.ListUserOrders(ctx, userID, params)
	if err != nil {
		return nil, mapListError(err)
	}
	return toOrderList(rows, params.Limit), nil
}

// UpdateOrderStatus sets any valid status regardless of the current one.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status").
			WithDetails(map[string]any{"allowed": enums.OrderStatuses()})
	}

	found, err := s.repo.UpdateOrderStatus(ctx, orderID, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	s.metrics.IncStatusChange(next.String())
	ctx = s.logg.WithOrderID(ctx, orderID.String())
	s.logg.Info(s.logg.WithField(ctx, "status", next.String()), "order status updated")
	s.publish(ctx, enums.OrderEventStatusChanged, *order)

	dto := toOrderDTO(*order)
	return &dto, nil
}

// publish never fails the caller; the order is already committed.
func (s *service) publish(ctx context.Context, eventType enums.OrderEventType, order models.Order) {
	event := newOrderEvent(order, s.now())
	if err := s.publisher.Publish(ctx, eventType, order.ID.String(), event); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "event_type", eventType.String()), "failed to publish order event", err)
	}
}

func mapListError(err error) error {
	if errors.Is(err, errInvalidCursor) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
}
