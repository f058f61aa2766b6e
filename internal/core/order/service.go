package order

import (
	"context"
	"fmt"
	"time"

	"recipe-cart/internal/core/cart"
	"recipe-cart/internal/pkg/common"
	"recipe-cart/internal/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Carts 結帳需要的購物車操作；Checkout 須在同一 session 的寫入鎖內執行 fn
type Carts interface {
	Checkout(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) error
}

// Service 訂單服務
type Service struct {
	store Store
	carts Carts
	now   func() time.Time
}

// NewService 創建訂單服務
func NewService(store Store, carts Carts) *Service {
	return &Service{store: store, carts: carts, now: time.Now}
}

// Checkout 將購物車轉成待處理訂單並清空購物車；同一購物車只會成立一筆訂單
func (s *Service) Checkout(ctx context.Context, sessionID string, customer Customer) (*Order, error) {
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	var o *Order
	err := s.carts.Checkout(ctx, sessionID, func(c *cart.Cart) error {
		now := s.now()
		o = &Order{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Items:     c.Lines,
			Total:     c.Total(),
			Customer:  customer,
			Status:    StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	common.LogInfo("Order created",
		zap.String("order_id", o.ID),
		zap.String("session_id", sessionID),
		zap.Int("items", len(o.Items)),
		zap.Float64("total", o.Total),
	)
	return o, nil
}

// Get 讀取訂單
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	if o == nil {
		return nil, common.ErrOrderNotFound
	}
	return o, nil
}

// UpdateStatus 變更訂單狀態
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, common.ErrInvalidStatus.Wrap(fmt.Errorf("unknown status %q", status))
	}
	if err := s.store.UpdateStatus(ctx, id, status, s.now()); err != nil {
		return nil, err
	}
	common.LogInfo("Order status updated", zap.String("order_id", id), zap.String("status", string(status)))
	return s.Get(ctx, id)
}
