// Package recipe 提供菜餚食材規劃 API
package recipe

import (
	"net/http"
	"strconv"

	recipeService "recipe-cart/internal/core/recipe"
	"recipe-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食材規劃處理程序
type Handler struct {
	planner     *recipeService.Planner
	suggestions recipeService.SuggestionStore
}

// NewHandler 創建食材規劃處理程序
func NewHandler(planner *recipeService.Planner, suggestions recipeService.SuggestionStore) *Handler {
	return &Handler{planner: planner, suggestions: suggestions}
}

// HandleIngredients 產生菜餚食材並對應商品與價格
func (h *Handler) HandleIngredients(c *gin.Context) {
	requestID := common.RequestID(c)

	var req recipeService.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", requestID))
		common.WriteError(c, common.NewValidationError("Invalid request format"))
		return
	}

	common.LogInfo("開始處理食材規劃請求",
		zap.String("request_id", requestID),
		zap.String("dish", req.DishName),
		zap.Int("servings", req.Servings),
	)

	plan, err := h.planner.Plan(c.Request.Context(), req)
	if err != nil {
		common.LogError("食材規劃失敗", zap.Error(err), zap.String("request_id", requestID))
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// ListSuggestions 列出未比對食材的目錄補充建議，預設只列 unmatched
func (h *Handler) ListSuggestions(c *gin.Context) {
	limit := recipeService.DefaultSuggestionLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			common.WriteError(c, common.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}
	status := c.DefaultQuery("status", recipeService.SuggestionStatusUnmatched)

	suggestions, err := h.suggestions.List(c.Request.Context(), status, limit)
	if err != nil {
		common.LogError("讀取建議失敗", zap.Error(err), zap.String("request_id", common.RequestID(c)))
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions, "count": len(suggestions)})
}
