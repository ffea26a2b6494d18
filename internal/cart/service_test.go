package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/deliverydash-backend/internal/pricing"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	"github.com/angelmondragon/deliverydash-backend/pkg/metrics"
	redisclient "github.com/angelmondragon/deliverydash-backend/pkg/redis"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProducts struct {
	products map[uuid.UUID]types.Product
}

func (s stubProducts) GetProduct(_ context.Context, id uuid.UUID) (*types.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

type failingStore struct {
	*MemoryStore
	failSave bool
}

func (f *failingStore) Save(ctx context.Context, userID uuid.UUID, items []LineItem) error {
	if f.failSave {
		return errors.New("connection refused")
	}
	return f.MemoryStore.Save(ctx, userID, items)
}

func newTestService(t *testing.T, store Store, products ...types.Product) Service {
	t.Helper()
	catalog := stubProducts{products: map[uuid.UUID]types.Product{}}
	for _, p := range products {
		catalog.products[p.ID] = p
	}
	m := metrics.NewStorefrontMetrics(prometheus.NewRegistry())
	svc, err := NewService(store, catalog, pricing.NewStaleLogger(logger.Nop(), m), m, logger.Nop())
	require.NoError(t, err)
	return svc
}

func TestServiceAddItemRequiresGroups(t *testing.T) {
	p, size, large := pizzaWithSize()
	store := NewMemoryStore()
	svc := newTestService(t, store, p)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: p.ID, Quantity: 1})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Contains(t, appErr.Message(), "Size")

	view, err := svc.AddItem(ctx, userID, AddItemInput{
		ProductID: p.ID,
		Quantity:  2,
		Selection: types.Selection{{GroupID: size.ID, OptionIDs: []uuid.UUID{large.ID}}},
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.ItemCount)
	assert.True(t, view.Items[0].UnitPrice.Equal(dec("10.00")))
	assert.True(t, view.Total.Equal(dec("20.00")))
	require.Len(t, view.Items[0].Options, 1)
	assert.Equal(t, "Large", view.Items[0].Options[0].Option)
}

func TestServiceRemoveAndClear(t *testing.T) {
	burger := simpleProduct("Burger", "10.00")
	fries := simpleProduct("Fries", "5.00")
	svc := newTestService(t, NewMemoryStore(), burger, fries)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: burger.ID, Quantity: 2})
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: fries.ID, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(dec("25.00")))

	view, err = svc.RemoveItem(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Total.Equal(dec("5.00")))

	_, err = svc.RemoveItem(ctx, userID, 3)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.Clear(ctx, userID))
	view, err = svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}

func TestServiceStoreFailureLeavesCart(t *testing.T) {
	burger := simpleProduct("Burger", "10.00")
	store := &failingStore{MemoryStore: NewMemoryStore()}
	svc := newTestService(t, store, burger)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: burger.ID, Quantity: 1})
	require.NoError(t, err)

	store.failSave = true
	_, err = svc.AddItem(ctx, userID, AddItemInput{ProductID: burger.ID, Quantity: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	store.failSave = false
	view, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestServiceUnknownProduct(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())
	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: uuid.New(), Quantity: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestServiceClearsOnSignOut(t *testing.T) {
	burger := simpleProduct("Burger", "10.00")
	store := NewMemoryStore()
	svc := newTestService(t, store, burger)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: burger.ID, Quantity: 1})
	require.NoError(t, err)

	svc.OnSessionEvent(ctx, types.SessionEvent{Type: enums.SessionEventSignedIn, UserID: userID})
	items, _ := store.Load(ctx, userID)
	assert.Len(t, items, 1)

	svc.OnSessionEvent(ctx, types.SessionEvent{Type: enums.SessionEventSignedOut, UserID: userID})
	items, _ = store.Load(ctx, userID)
	assert.Empty(t, items)
}

type fakeKV struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redisclient.Nil
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeKV) CartKey(userID string) string {
	return "dd:cart:" + userID
}

func TestRedisStoreRoundTrip(t *testing.T) {
	kv := &fakeKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
	store := newRedisStore(kv, 72*time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	items, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)

	p, size, large := pizzaWithSize()
	c := New(nil)
	_, err = c.AddItem(p, 3, types.Selection{{GroupID: size.ID, OptionIDs: []uuid.UUID{large.ID}}})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, userID, c.Items()))

	key := "dd:cart:" + userID.String()
	assert.Equal(t, 72*time.Hour, kv.ttls[key])

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 3, loaded[0].Quantity)
	assert.True(t, loaded[0].UnitPrice.Equal(dec("10.00")))
	assert.Equal(t, large.ID, loaded[0].Selection[0].OptionIDs[0])

	require.NoError(t, store.Delete(ctx, userID))
	loaded, err = store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
