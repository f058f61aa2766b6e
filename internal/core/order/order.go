// Package order 結帳並管理訂單狀態
package order

import (
	"context"
	"strings"
	"time"

	"recipe-cart/internal/core/cart"
	"recipe-cart/internal/pkg/common"
)

// Status 訂單狀態
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid 是否為已知狀態
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Customer 收件資訊
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Validate 所有欄位必填，email 須包含 '@'
func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	c.Phone = strings.TrimSpace(c.Phone)

	switch {
	case c.Name == "":
		return common.NewValidationError("customer name is required")
	case c.Email == "":
		return common.NewValidationError("customer email is required")
	case !strings.Contains(c.Email, "@"):
		return common.NewValidationError("customer email is invalid")
	case c.Address == "":
		return common.NewValidationError("customer address is required")
	case c.Phone == "":
		return common.NewValidationError("customer phone is required")
	}
	return nil
}

// Order 訂單
type Order struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Items     []cart.Line `json:"items"`
	Total     float64     `json:"total"`
	Customer  Customer    `json:"customer"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Store 訂單儲存介面；找不到時 Get 回傳 (nil, nil)
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error
}
