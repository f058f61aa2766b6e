// Package product 提供商品搜尋與食材比對 API
package product

import (
	"context"
	"net/http"
	"strconv"

	"recipe-cart/internal/core/catalog"
	"recipe-cart/internal/core/ingredient"
	"recipe-cart/internal/core/pricing"
	"recipe-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PricedProduct 附上預設數量價格的商品
type PricedProduct struct {
	catalog.Product
	Quantity string  `json:"quantity"`
	Price    float64 `json:"price"`
}

// MatchRequest 食材比對請求
type MatchRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity,omitempty"`
}

// MatchResponse 食材比對結果
type MatchResponse struct {
	ingredient.MatchResult
	Price *float64 `json:"price,omitempty"`
}

// DetailResponse 商品詳情與同分類商品
type DetailResponse struct {
	Product PricedProduct   `json:"product"`
	Related []PricedProduct `json:"related"`
}

// Handler 商品處理程序
type Handler struct {
	catalog catalog.Store
	matcher *ingredient.Matcher
	calc    *pricing.Calculator
}

// NewHandler 創建商品處理程序
func NewHandler(store catalog.Store, matcher *ingredient.Matcher, calc *pricing.Calculator) *Handler {
	return &Handler{catalog: store, matcher: matcher, calc: calc}
}

// Search 依關鍵字與分類搜尋商品，並以預設數量計價
func (h *Handler) Search(c *gin.Context) {
	limit := catalog.DefaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			common.WriteError(c, common.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	products, err := h.catalog.Search(ctx, catalog.SearchQuery{
		Text:     c.Query("q"),
		Category: c.Query("category"),
		Limit:    limit,
	})
	if err != nil {
		common.LogError("商品搜尋失敗", zap.Error(err), zap.String("request_id", common.RequestID(c)))
		common.WriteError(c, err)
		return
	}

	out := h.priceAll(ctx, products)
	c.JSON(http.StatusOK, gin.H{"products": out, "count": len(out)})
}

// Categories 列出所有商品分類
func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		common.LogError("讀取分類失敗", zap.Error(err), zap.String("request_id", common.RequestID(c)))
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Get 商品詳情，附上最多 RelatedLimit 個同分類商品
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.catalog.FindByID(ctx, id)
	if err != nil {
		common.LogError("讀取商品失敗", zap.Error(err), zap.String("product_id", id))
		common.WriteError(c, err)
		return
	}
	if p == nil {
		common.WriteError(c, common.ErrProductNotFound)
		return
	}

	related, err := h.catalog.Related(ctx, p.Category, p.ID, catalog.RelatedLimit)
	if err != nil {
		common.LogError("讀取同分類商品失敗", zap.Error(err), zap.String("product_id", id))
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, DetailResponse{
		Product: h.price(ctx, *p),
		Related: h.priceAll(ctx, related),
	})
}

func (h *Handler) price(ctx context.Context, p catalog.Product) PricedProduct {
	qty := p.DefaultQuantity()
	return PricedProduct{Product: p, Quantity: qty, Price: h.calc.Price(ctx, p.Name, qty)}
}

func (h *Handler) priceAll(ctx context.Context, products []catalog.Product) []PricedProduct {
	out := make([]PricedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, h.price(ctx, p))
	}
	return out
}

// Match 將自由輸入的食材名稱比對到商品
func (h *Handler) Match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.NewValidationError("Invalid request format"))
		return
	}

	ctx := c.Request.Context()
	result, err := h.matcher.Match(ctx, req.Name)
	if err != nil {
		common.LogError("商品比對失敗", zap.Error(err), zap.String("request_id", common.RequestID(c)))
		common.WriteError(c, err)
		return
	}

	resp := MatchResponse{MatchResult: result}
	if result.Matched && req.Quantity != "" {
		price := h.calc.Price(ctx, result.Product.Name, req.Quantity)
		resp.Price = &price
	}
	c.JSON(http.StatusOK, resp)
}
