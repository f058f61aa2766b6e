// Package pricing 計算購物車項目價格
package pricing

import (
	"context"
	"math"

	"recipe-cart/internal/core/catalog"
	"recipe-cart/internal/core/ingredient"
	"recipe-cart/internal/core/quantity"
	"recipe-cart/internal/pkg/common"
	"recipe-cart/internal/pkg/metrics"

	"go.uber.org/zap"
)

// DefaultPrice 無法計價時使用的固定價格
const DefaultPrice = 0.99

// 四捨五入時吸收二進位浮點誤差（如 1.005*100 = 100.49999...）
const roundingEpsilon = 1e-9

// Calculator 價格計算器，失敗時一律回傳 DefaultPrice
type Calculator struct {
	index   *InfoIndex
	catalog catalog.Catalog
}

// NewCalculator 創建價格計算器
func NewCalculator(index *InfoIndex, c catalog.Catalog) *Calculator {
	return &Calculator{index: index, catalog: c}
}

// Index 回傳商品資訊索引
func (c *Calculator) Index() *InfoIndex {
	return c.index
}

// Price 計算商品在指定數量下的價格，四捨五入到小數點後兩位
func (c *Calculator) Price(ctx context.Context, productName, quantityText string) float64 {
	normalized := ingredient.Normalize(productName)

	unit, pricePerUnit, reason := c.resolve(ctx, normalized)
	if reason != "" {
		metrics.RecordPricingFallback(reason)
		return DefaultPrice
	}

	q, err := quantity.ParseStrict(quantityText)
	if err != nil {
		common.LogWarn("Price fallback: quantity parse failed",
			zap.String("product", productName),
			zap.String("quantity", quantityText),
			zap.Error(err),
		)
		metrics.RecordPricingFallback("parse_error")
		return DefaultPrice
	}

	amount := q.Amount
	if q.Unit != unit {
		// 只在質量或容量之間換算，其他單位照原數值計價
		if converted, err := quantity.Convert(amount, q.Unit, unit); err == nil {
			amount = converted
		}
	}

	price := Round2(amount * pricePerUnit)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		metrics.RecordPricingFallback("invalid_result")
		return DefaultPrice
	}
	return price
}

// resolve 回傳單位與單價；失敗時 reason 非空
func (c *Calculator) resolve(ctx context.Context, normalized string) (unit string, pricePerUnit float64, reason string) {
	if c.index != nil {
		if key, ok := c.index.FindKey(normalized); ok {
			info, _ := c.index.Get(key)
			return info.Unit, info.PricePerUnit, ""
		}
	}
	if c.catalog == nil || normalized == "" {
		return "", 0, "not_found"
	}

	product, err := c.catalog.FindByCanonicalName(ctx, normalized)
	if err != nil {
		common.LogWarn("Price fallback: catalog lookup failed",
			zap.String("normalized", normalized),
			zap.Error(err),
		)
		return "", 0, "catalog_error"
	}
	if product == nil {
		return "", 0, "not_found"
	}
	return product.Unit, product.PricePerUnit, ""
}

// Round2 四捨五入（half-up）到小數點後兩位
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5+roundingEpsilon) / 100
}
