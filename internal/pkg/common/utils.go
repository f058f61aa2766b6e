package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RequestID 取得請求 ID，沒有時產生新的並寫回響應標頭
func RequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.Writer.Header().Get("X-Request-ID")
	}
	if requestID == "" {
		requestID = GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// WriteError 將錯誤轉成 JSON 響應
func WriteError(c *gin.Context, err error) {
	var ce *CustomError
	switch {
	case errors.As(err, &ce):
		c.JSON(ce.Status, ErrorResponse{Code: ce.Code, Message: ce.Message, Details: detail(ce)})
	case IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeInvalidRequest, Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: ErrCodeInternalError, Message: ErrInternalError.Message})
	}
}

func detail(ce *CustomError) string {
	if ce.Err == nil {
		return ""
	}
	return ce.Err.Error()
}
