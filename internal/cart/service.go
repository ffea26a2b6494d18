package cart

import (
	"context"
	"fmt"

	"github.com/angelmondragon/deliverydash-backend/internal/customizer"
	"github.com/angelmondragon/deliverydash-backend/internal/pricing"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	"github.com/angelmondragon/deliverydash-backend/pkg/metrics"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
)

type productLoader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error)
}

// Service exposes the signed-in user's cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, index int) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	// Load returns the stored cart for checkout.
	Load(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// OnSessionEvent drops the cart when its owner signs out.
	OnSessionEvent(ctx context.Context, event types.SessionEvent)
}

type service struct {
	store    Store
	products productLoader
	stale    *pricing.StaleLogger
	metrics  *metrics.StorefrontMetrics
	logg     *logger.Logger
}

func NewService(store Store, products productLoader, stale *pricing.StaleLogger, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, products: products, stale: stale, metrics: m, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	c, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newView(c), nil
}

func (s *service) Load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	items, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return FromItems(items, s.stale.Bind(ctx, "cart")), nil
}

// AddItem validates the selection against the current catalog entry, snapshots
// the price and appends a line. Nothing is saved when any step fails.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	c, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	selector := customizer.FromSelection(*product, input.Selection)
	if err := selector.Validate(*product); err != nil {
		return nil, err
	}
	if _, err := c.AddItem(*product, input.Quantity, selector.Selection()); err != nil {
		return nil, err
	}

	if err := s.save(ctx, userID, c); err != nil {
		return nil, err
	}
	s.metrics.IncItemsAdded()
	return newView(c), nil
}

func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, index int) (*View, error) {
	c, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(index); err != nil {
		return nil, err
	}
	if err := s.save(ctx, userID, c); err != nil {
		return nil, err
	}
	return newView(c), nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if err := s.store.Delete(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) OnSessionEvent(ctx context.Context, event types.SessionEvent) {
	if event.Type != enums.SessionEventSignedOut || event.UserID == uuid.Nil {
		return
	}
	ctx = s.logg.WithUserID(ctx, event.UserID.String())
	if err := s.Clear(ctx, event.UserID); err != nil {
		s.logg.Error(ctx, "failed to clear cart on sign out", err)
		return
	}
	s.logg.Info(ctx, "cart cleared on sign out")
}

func (s *service) save(ctx context.Context, userID uuid.UUID, c *Cart) error {
	if err := s.store.Save(ctx, userID, c.Items()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}
