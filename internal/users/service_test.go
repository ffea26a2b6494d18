package users

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/deliverydash-backend/pkg/db/dbtest"
	"github.com/angelmondragon/deliverydash-backend/pkg/db/models"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNormalizesEmail(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Email: "  Ana@Example.COM ", Name: " Ana ", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, enums.UserRoleCustomer, user.Role)

	found, err := repo.FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestFindByIDNotFound(t *testing.T) {
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)

	_, err = svc.FindByID(context.Background(), uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestListUsersEmbedsOrders(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	older, err := repo.Create(ctx, CreateUserDTO{Email: "old@example.com", Name: "Old", PasswordHash: "h"})
	require.NoError(t, err)
	require.NoError(t, client.DB().Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer, err := repo.Create(ctx, CreateUserDTO{Email: "new@example.com", Name: "New", PasswordHash: "h"})
	require.NoError(t, err)

	order := models.Order{UserID: newer.ID, Total: decimal.RequireFromString("12.50"), Status: enums.OrderStatusPending}
	require.NoError(t, client.DB().Create(&order).Error)

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	require.Len(t, list[0].Orders, 1)
	assert.True(t, list[0].Orders[0].Total.Equal(decimal.RequireFromString("12.5")))
	assert.Empty(t, list[1].Orders)
}
