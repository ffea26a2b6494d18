package users

import (
	"context"
	"fmt"

	"github.com/angelmondragon/deliverydash-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes user lookups for the storefront and admin console.
type Service interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	ListUsers(ctx context.Context) ([]UserWithOrders, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	dto := FromModel(user)
	return &dto, nil
}

func (s *service) ListUsers(ctx context.Context) ([]UserWithOrders, error) {
	rows, err := s.repo.ListWithOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]UserWithOrders, 0, len(rows))
	for i := range rows {
		out = append(out, withOrders(&rows[i]))
	}
	return out, nil
}
