package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/budgettracker/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory purchase repository
type MemoryStore struct {
	data  map[string]domain.Purchase
	mutex sync.RWMutex
}

// NewMemoryStore creates a new in-memory purchase store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]domain.Purchase),
	}
}

// Create stores a new purchase
func (s *MemoryStore) Create(ctx context.Context, purchase *domain.Purchase) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[purchase.ID] = *purchase
	return nil
}

// Get retrieves a purchase by ID
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Purchase, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	purchase, exists := s.data[id]
	if !exists {
		return nil, domain.ErrPurchaseNotFound
	}
	return &purchase, nil
}

// List returns purchases newest first, optionally limited to one room
func (s *MemoryStore) List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	purchases := make([]*domain.Purchase, 0, len(s.data))
	for _, p := range s.data {
		if filter.Room != "" && p.Room != filter.Room {
			continue
		}
		purchase := p
		purchases = append(purchases, &purchase)
	}

	sort.Slice(purchases, func(i, j int) bool {
		if purchases[i].CreatedAt.Equal(purchases[j].CreatedAt) {
			return purchases[i].ID < purchases[j].ID
		}
		return purchases[i].CreatedAt.After(purchases[j].CreatedAt)
	})
	return purchases, nil
}

// Update replaces an existing purchase
func (s *MemoryStore) Update(ctx context.Context, purchase *domain.Purchase) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[purchase.ID]; !exists {
		return domain.ErrPurchaseNotFound
	}
	s.data[purchase.ID] = *purchase
	return nil
}

// Delete removes a purchase
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[id]; !exists {
		return domain.ErrPurchaseNotFound
	}
	delete(s.data, id)
	return nil
}

// Totals sums purchase costs overall, by purchased status and by room
func (s *MemoryStore) Totals(ctx context.Context) (*domain.PurchaseTotals, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	totals := &domain.PurchaseTotals{ByRoom: make(map[string]float64)}
	for _, p := range s.data {
		totals.Total += p.Cost
		if p.Purchased {
			totals.Purchased += p.Cost
		}
		totals.ByRoom[p.Room] += p.Cost
		totals.Count++
	}
	totals.Remaining = totals.Total - totals.Purchased
	return totals, nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
