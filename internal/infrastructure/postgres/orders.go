package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recipe-cart/internal/core/order"
	"recipe-cart/internal/pkg/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation PostgreSQL unique_violation 錯誤碼
const uniqueViolation = "23505"

// OrderStore 以 orders 資料表儲存訂單
type OrderStore struct {
	client *Client
}

// NewOrderStore 創建資料庫訂單儲存
func NewOrderStore(client *Client) *OrderStore {
	return &OrderStore{client: client}
}

// Create 寫入訂單，主鍵衝突時回傳 ErrConflict
func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	_, err = s.client.exec(ctx, `INSERT INTO orders
		(id, session_id, items, total, customer_name, customer_email, customer_address, customer_phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.SessionID, items, o.Total,
		o.Customer.Name, o.Customer.Email, o.Customer.Address, o.Customer.Phone,
		string(o.Status), o.CreatedAt, o.UpdatedAt,
	)
	return insertError(o.ID, err)
}

// insertError 將主鍵衝突轉為 ErrConflict
func insertError(id string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return common.ErrConflict.Wrap(err)
	}
	return fmt.Errorf("failed to insert order %s: %w", id, err)
}

// Get 讀取訂單，不存在時回傳 nil
func (s *OrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	var (
		o      order.Order
		items  []byte
		status string
	)
	err := s.client.queryRow(ctx, `SELECT id::text, session_id, items, total,
		customer_name, customer_email, customer_address, customer_phone, status, created_at, updated_at
		FROM orders WHERE id::text = $1`, id).Scan(
		&o.ID, &o.SessionID, &items, &o.Total,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Address, &o.Customer.Phone,
		&status, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order %s: %w", id, err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	o.Status = order.Status(status)
	return &o, nil
}

// UpdateStatus 變更訂單狀態，訂單不存在時回傳 ErrOrderNotFound
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status order.Status, updatedAt time.Time) error {
	tag, err := s.client.exec(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id::text = $1`,
		id, string(status), updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrOrderNotFound
	}
	return nil
}
