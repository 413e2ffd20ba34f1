package cart_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"marketplace_back_end/internal/cart"
	"marketplace_back_end/internal/models"
)

// memoryStore garde des copies pour simuler une vraie persistance.
type memoryStore struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
	saves int
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: map[string]*models.Cart{}}
}

func (m *memoryStore) FindByUser(_ context.Context, userID string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return c.Clone(), nil
}

func (m *memoryStore) Save(_ context.Context, c *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.carts[c.User] = c.Clone()
	return nil
}

func (m *memoryStore) stored(userID string) *models.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[userID]
}

type memoryCatalog map[string]*models.Product

func (m memoryCatalog) FindProduct(_ context.Context, productID string) (*models.Product, error) {
	p, ok := m[productID]
	if !ok {
		return nil, cart.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) FindProduct(ctx context.Context, productID string) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
