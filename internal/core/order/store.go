package order

import (
	"context"
	"sync"
	"time"

	"recipe-cart/internal/core/cart"
	"recipe-cart/internal/pkg/common"
)

// MemoryStore 記憶體訂單儲存
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

// NewMemoryStore 創建記憶體訂單儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*Order)}
}

// Create 新增訂單，ID 已存在時回傳 ErrConflict
func (s *MemoryStore) Create(_ context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[o.ID]; exists {
		return common.ErrConflict
	}
	s.orders[o.ID] = clone(o)
	return nil
}

// Get 讀取訂單，不存在時回傳 nil
func (s *MemoryStore) Get(_ context.Context, id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return clone(o), nil
}

// UpdateStatus 變更訂單狀態與更新時間
func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status Status, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return common.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	return nil
}

func clone(o *Order) *Order {
	out := *o
	out.Items = make([]cart.Line, len(o.Items))
	copy(out.Items, o.Items)
	return &out
}
