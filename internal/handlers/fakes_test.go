package handlers_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"marketplace_back_end/internal/auth"
	"marketplace_back_end/internal/cart"
	"marketplace_back_end/internal/models"
)

type memoryStore struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
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
	m.carts[c.User] = c.Clone()
	return nil
}

func (m *memoryStore) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
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

// Get permet d'utiliser le catalogue comme ProductReader.
func (m memoryCatalog) Get(ctx context.Context, productID string) (*models.Product, error) {
	if productID == "boom" {
		return nil, errors.New("mongo down")
	}
	return m.FindProduct(ctx, productID)
}

type pinger map[string]error

func (p pinger) Ping(context.Context) map[string]error { return p }

type auditRecorder struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (r *auditRecorder) Record(e models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *auditRecorder) all() []models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AuditLog(nil), r.entries...)
}

func identityFor(t *testing.T, userID string) auth.Identity {
	t.Helper()
	id, err := auth.NewIdentity(userID)
	require.NoError(t, err)
	return id
}
