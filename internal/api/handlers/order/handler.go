// Package order 提供結帳與訂單 API
package order

import (
	"net/http"

	orderService "recipe-cart/internal/core/order"
	"recipe-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutRequest 結帳請求
type CheckoutRequest struct {
	Customer orderService.Customer `json:"customer" binding:"required"`
}

// StatusRequest 更新訂單狀態請求
type StatusRequest struct {
	Status orderService.Status `json:"status" binding:"required"`
}

// Handler 訂單處理程序
type Handler struct {
	service *orderService.Service
}

// NewHandler 創建訂單處理程序
func NewHandler(service *orderService.Service) *Handler {
	return &Handler{service: service}
}

// Checkout 以購物車內容建立訂單
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.NewValidationError("Invalid request format"))
		return
	}

	o, err := h.service.Checkout(c.Request.Context(), c.Param("session"), req.Customer)
	if err != nil {
		common.LogWarn("結帳失敗",
			zap.Error(err),
			zap.String("session_id", c.Param("session")),
			zap.String("request_id", common.RequestID(c)),
		)
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// Get 取得訂單
func (h *Handler) Get(c *gin.Context) {
	o, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// UpdateStatus 變更訂單狀態
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.NewValidationError("status is required"))
		return
	}

	o, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		common.LogWarn("更新訂單狀態失敗", zap.Error(err), zap.String("order_id", c.Param("id")))
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
