package cart

import (
	"context"

	"recipe-cart/internal/core/quantity"
	"recipe-cart/internal/pkg/common"
)

// Pricer 依商品名稱與數量文字計價
type Pricer interface {
	Price(ctx context.Context, productName, quantityText string) float64
}

// MergeOutcome AddOrMerge 的結果
type MergeOutcome struct {
	LineID string `json:"line_id"`
	Merged bool   `json:"merged"`
}

// Merger 將新項目合併進購物車
type Merger struct {
	pricer Pricer
	newID  func() string
}

// NewMerger 創建合併器
func NewMerger(pricer Pricer) *Merger {
	return &Merger{pricer: pricer, newID: common.GenerateUUID}
}

// AddOrMerge 找出第一個代表同一商品的項目：雙方都有且相同的商品 ID，
// 或雙方都沒有商品 ID 且顯示名稱相同。單位相同時數量相加並重新計價，
// 否則以新 ID 附加為新項目。cart 會被原地修改並回傳。
func (m *Merger) AddOrMerge(ctx context.Context, c *Cart, item Line) (*Cart, MergeOutcome) {
	for i := range c.Lines {
		existing := &c.Lines[i]
		if !sameProduct(existing, &item) {
			continue
		}

		current := quantity.Parse(existing.Quantity)
		incoming := quantity.Parse(item.Quantity)
		if current.Unit != incoming.Unit {
			break
		}

		existing.Quantity = quantity.Format(current.Amount+incoming.Amount, current.Unit)
		existing.Price = m.pricer.Price(ctx, existing.ProductName, existing.Quantity)
		return c, MergeOutcome{LineID: existing.ID, Merged: true}
	}

	item.ID = m.newID()
	c.Lines = append(c.Lines, item)
	return c, MergeOutcome{LineID: item.ID}
}

func sameProduct(existing, item *Line) bool {
	if existing.ProductID != "" && item.ProductID != "" {
		return existing.ProductID == item.ProductID
	}
	return existing.ProductID == "" && item.ProductID == "" && existing.ProductName == item.ProductName
}
