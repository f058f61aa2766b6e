// Package cart 管理購物車：加入合併、更新數量、移除與儲存
package cart

import (
	"time"

	"recipe-cart/internal/core/pricing"
)

// Line 購物車項目
type Line struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id,omitempty"`
	ProductName    string  `json:"product_name"`
	IngredientName string  `json:"ingredient_name,omitempty"`
	Quantity       string  `json:"quantity"`
	Unit           string  `json:"unit"`
	Price          float64 `json:"price"`
	MinQty         float64 `json:"min_qty"`
	ImageURL       string  `json:"image_url,omitempty"`
}

// Cart 單一 session 的購物車
type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total 所有項目價格總和
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Price
	}
	return pricing.Round2(total)
}

// Clone 深拷貝，避免呼叫端共用 Lines
func (c *Cart) Clone() *Cart {
	out := *c
	out.Lines = make([]Line, len(c.Lines))
	copy(out.Lines, c.Lines)
	return &out
}

func (c *Cart) indexOf(lineID string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}
