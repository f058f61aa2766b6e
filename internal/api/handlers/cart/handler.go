// Package cart 提供購物車 API
package cart

import (
	"net/http"

	cartService "recipe-cart/internal/core/cart"
	"recipe-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 購物車與總金額
type Response struct {
	*cartService.Cart
	Total float64 `json:"total"`
}

// AddResponse 加入購物車結果
type AddResponse struct {
	Response
	cartService.MergeOutcome
}

// UpdateRequest 更新數量請求；0 代表移除
type UpdateRequest struct {
	Quantity *float64 `json:"quantity" binding:"required"`
}

// Handler 購物車處理程序
type Handler struct {
	service *cartService.Service
}

// NewHandler 創建購物車處理程序
func NewHandler(service *cartService.Service) *Handler {
	return &Handler{service: service}
}

func respond(c *gin.Context, status int, cart *cartService.Cart) {
	c.JSON(status, Response{Cart: cart, Total: cart.Total()})
}

// Get 取得購物車
func (h *Handler) Get(c *gin.Context) {
	cart, err := h.service.Get(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.fail(c, "取得購物車失敗", err)
		return
	}
	respond(c, http.StatusOK, cart)
}

// Add 加入商品，同商品同單位時合併數量
func (h *Handler) Add(c *gin.Context) {
	var req cartService.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.NewValidationError("Invalid request format"))
		return
	}

	cart, outcome, err := h.service.Add(c.Request.Context(), c.Param("session"), req)
	if err != nil {
		h.fail(c, "加入購物車失敗", err)
		return
	}

	status := http.StatusCreated
	if outcome.Merged {
		status = http.StatusOK
	}
	c.JSON(status, AddResponse{
		Response:     Response{Cart: cart, Total: cart.Total()},
		MergeOutcome: outcome,
	})
}

// UpdateQuantity 更新項目數量
func (h *Handler) UpdateQuantity(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.NewValidationError("quantity is required"))
		return
	}

	cart, err := h.service.UpdateQuantity(c.Request.Context(), c.Param("session"), c.Param("id"), *req.Quantity)
	if err != nil {
		h.fail(c, "更新數量失敗", err)
		return
	}
	respond(c, http.StatusOK, cart)
}

// Remove 移除項目
func (h *Handler) Remove(c *gin.Context) {
	cart, err := h.service.Remove(c.Request.Context(), c.Param("session"), c.Param("id"))
	if err != nil {
		h.fail(c, "移除項目失敗", err)
		return
	}
	respond(c, http.StatusOK, cart)
}

// Clear 清空購物車
func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), c.Param("session")); err != nil {
		h.fail(c, "清空購物車失敗", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	common.LogWarn(msg,
		zap.Error(err),
		zap.String("session_id", c.Param("session")),
		zap.String("request_id", common.RequestID(c)),
	)
	common.WriteError(c, err)
}
