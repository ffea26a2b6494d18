package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/deliverydash-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	redisclient "github.com/angelmondragon/deliverydash-backend/pkg/redis"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the storefront catalog and its admin management.
type Service interface {
	ListProducts(ctx context.Context) ([]types.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*types.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*types.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// Options configures the optional read cache.
type Options struct {
	Cache    *redisclient.Client
	CacheTTL time.Duration
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	cache    *productCache
	logg     *logger.Logger
}

func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	svc := &service{repo: repo, dbClient: dbClient, logg: logg}
	if opts.Cache != nil {
		svc.cache = newProductCache(opts.Cache, opts.CacheTTL, logg)
	}
	return svc, nil
}

func (s *service) ListProducts(ctx context.Context) ([]types.Product, error) {
	if cached, ok := s.cache.getList(ctx); ok {
		return cached, nil
	}
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	products := make([]types.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, ToProduct(row))
	}
	s.cache.putList(ctx, products)
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	if cached, ok := s.cache.getProduct(ctx, id); ok {
		return cached, nil
	}
	row, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, mapReadError(err)
	}
	product := ToProduct(*row)
	s.cache.putProduct(ctx, product)
	return &product, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*types.Product, error) {
	input = input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	model := input.toModel(uuid.Nil)
	if err := s.repo.CreateProduct(ctx, model); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	s.cache.invalidate(ctx, uuid.Nil)
	return s.reload(ctx, model.ID)
}

// UpdateProduct rewrites the product and replaces its customizations in one transaction.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*types.Product, error) {
	input = input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	model := input.toModel(id)
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.UpdateProductFields(ctx, model)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if err := repo.ReplaceCustomizations(ctx, id, model.CustomizationGroups); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace customizations")
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}
	s.cache.invalidate(ctx, id)
	return s.reload(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		found, err := s.repo.WithTx(tx).DeleteProduct(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil
	})
	if err != nil {
		return asAppError(err)
	}
	s.cache.invalidate(ctx, id)
	return nil
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	row, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, mapReadError(err)
	}
	product := ToProduct(*row)
	return &product, nil
}

func mapReadError(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
}

func asAppError(err error) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog transaction")
}
