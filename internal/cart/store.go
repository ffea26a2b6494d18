package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	redisclient "github.com/angelmondragon/deliverydash-backend/pkg/redis"
	"github.com/google/uuid"
)

// Store persists one cart document per user.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) ([]LineItem, error)
	Save(ctx context.Context, userID uuid.UUID, items []LineItem) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type document struct {
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

// RedisStore keeps carts as JSON documents that expire after ttl of inactivity.
type RedisStore struct {
	kv  kvStore
	ttl time.Duration
	now func() time.Time
}

func NewRedisStore(client *redisclient.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return newRedisStore(client, ttl), nil
}

func newRedisStore(kv kvStore, ttl time.Duration) *RedisStore {
	return &RedisStore{kv: kv, ttl: ttl, now: time.Now}
}

func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) ([]LineItem, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(userID.String()))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return doc.Items, nil
}

func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, items []LineItem) error {
	payload, err := json.Marshal(document{Items: items, UpdatedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.kv.Set(ctx, s.kv.CartKey(userID.String()), string(payload), s.ttl)
}

func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.kv.Del(ctx, s.kv.CartKey(userID.String()))
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID][]LineItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[uuid.UUID][]LineItem{}}
}

func (m *MemoryStore) Load(_ context.Context, userID uuid.UUID) ([]LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return FromItems(m.carts[userID], nil).Items(), nil
}

func (m *MemoryStore) Save(_ context.Context, userID uuid.UUID, items []LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = FromItems(items, nil).Items()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}
